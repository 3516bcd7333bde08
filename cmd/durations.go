package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-smile/internal/domain"
)

var (
	durationsWork  time.Duration
	durationsShort time.Duration
	durationsLong  time.Duration
	durationsSound string
)

var durationsCmd = &cobra.Command{
	Use:   "durations",
	Short: "Show or change session lengths and sound",
	Long: `Show the session lengths, or change some of them. Lengths that are not
given keep their current value. An idle timer is rewound to the new length
of its current session.

Examples:
  smile durations --work 50m --short 10m
  smile durations --sound off`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		if durationsWork < 0 || durationsShort < 0 || durationsLong < 0 {
			return domain.ErrInvalidDuration
		}
		patch := domain.DurationsFrom(durationsWork, durationsShort, durationsLong)
		if patch != (domain.SessionDurations{}) {
			if _, err := app.timer.UpdateSettings(ctx, patch); err != nil {
				return fmt.Errorf("failed to update durations: %w", err)
			}
		}

		switch durationsSound {
		case "":
		case "on":
			app.timer.SetSound(ctx, true)
		case "off":
			app.timer.SetSound(ctx, false)
		default:
			return fmt.Errorf("%w: --sound must be on or off", domain.ErrValidation)
		}

		settings := app.timer.Settings()
		if jsonOutput {
			return printJSON(cmd, settings)
		}

		out := cmd.OutOrStdout()
		d := settings.Durations
		fmt.Fprintf(out, "Focus:       %s\n", formatMinutes(time.Duration(d.Work)*time.Second))
		fmt.Fprintf(out, "Short break: %s\n", formatMinutes(time.Duration(d.ShortBreak)*time.Second))
		fmt.Fprintf(out, "Long break:  %s (every %d focus sessions)\n", formatMinutes(time.Duration(d.LongBreak)*time.Second), domain.LongBreakInterval)
		sound := "off"
		if settings.Sound {
			sound = "on"
		}
		fmt.Fprintf(out, "Sound:       %s\n", sound)
		return nil
	},
}

func init() {
	durationsCmd.Flags().DurationVar(&durationsWork, "work", 0, "Focus session length (e.g. 25m)")
	durationsCmd.Flags().DurationVar(&durationsShort, "short", 0, "Short break length (e.g. 5m)")
	durationsCmd.Flags().DurationVar(&durationsLong, "long", 0, "Long break length (e.g. 15m)")
	durationsCmd.Flags().StringVar(&durationsSound, "sound", "", "Notification sound: on or off")
}
