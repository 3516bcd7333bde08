package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-smile/internal/domain"
)

var recapNoImage bool

var recapCmd = &cobra.Command{
	Use:   "recap",
	Short: "Summarize today's focus sessions",
	Long: `Show today's focus minutes, sessions and favorite quote, and have
Gemini draw a recap image. A recap is offered after every fourth focus
session of the day.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := setupSignalHandler()
		out := cmd.OutOrStdout()

		stats, err := app.quotes.RecapStats(ctx, app.timer.State())
		if errors.Is(err, domain.ErrNoRecapAvailable) {
			done := app.timer.State().CompletedWorkSessionsToday
			left := domain.LongBreakInterval - done%domain.LongBreakInterval
			fmt.Fprintf(out, "No recap yet: %d more focus session(s) to go.\n", left)
			return nil
		}
		if err != nil {
			return err
		}

		result := map[string]interface{}{
			"total_sessions":  stats.TotalSessions,
			"total_focus_min": stats.TotalFocusMin,
		}
		if stats.FavQuote != nil {
			result["favorite_quote"] = stats.FavQuote
		}

		if !jsonOutput {
			fmt.Fprintf(out, "Today: %d focus sessions, %d minutes of focus.\n", stats.TotalSessions, stats.TotalFocusMin)
			if stats.FavQuote != nil {
				fmt.Fprintf(out, "Favorite: %s\n", stats.FavQuote.Format())
			}
		}

		if !recapNoImage {
			img, err := app.quotes.GenerateRecap(ctx, stats)
			if err != nil {
				return aiError("failed to draw recap", err)
			}
			if img == nil || len(img.Data) == 0 {
				return fmt.Errorf("failed to draw recap: %w", domain.ExternalError("generate recap", errors.New("no image returned")))
			}
			path, err := saveImage(img.Data, img.MIMEType)
			if err != nil {
				return err
			}
			result["image"] = path
			if !jsonOutput {
				fmt.Fprintf(out, "Recap image saved to %s\n", path)
			}
		}

		if jsonOutput {
			return printJSON(cmd, result)
		}
		return nil
	},
}

func init() {
	recapCmd.Flags().BoolVar(&recapNoImage, "no-image", false, "Only print the stats")
}
