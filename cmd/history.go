package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-smile/internal/domain"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent smile prompt answers",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		events, err := app.quotes.SmileEvents(ctx, historyLimit)
		if err != nil {
			return fmt.Errorf("failed to load smile history: %w", err)
		}
		if jsonOutput {
			if events == nil {
				events = []domain.SmileEvent{}
			}
			return printJSON(cmd, events)
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No smiles yet. Finish a focus session to get one.")
			return nil
		}
		for _, e := range events {
			mark := "☺"
			if e.Type == domain.SmileTypeSkip {
				mark = "·"
			}
			quote := "fallback quote"
			if q, err := app.quotes.Get(ctx, e.QuoteID); err == nil {
				quote = q.Format()
			} else if e.QuoteID != domain.FallbackQuoteID {
				quote = fmt.Sprintf("quote %d (deleted)", e.QuoteID)
			}
			fmt.Fprintf(out, "%s %s  %-5s  #%d %s  %s\n",
				mark, e.Time().Format("2006-01-02 15:04"), e.Type, e.SessionCount, e.SessionType.Label(), quote)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "How many events to show (0 for all)")
}
