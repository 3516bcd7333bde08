package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-smile/internal/adapters/tui"
	"github.com/xvierd/focus-smile/internal/domain"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current status",
	Long:  `Display the saved timer position and today's completed focus sessions.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		state, err := app.state.GetCurrentState(ctx)
		if err != nil {
			return fmt.Errorf("failed to get current state: %w", err)
		}

		if jsonOutput {
			return outputStatusJSON(cmd, state)
		}

		out := cmd.OutOrStdout()
		palette := tui.PaletteFor(app.settings.AppSettings(ctx).Theme)
		fmt.Fprint(out, tui.RenderStatus(state, palette, isTerminal(out)))
		return nil
	},
}

// outputStatusJSON outputs the status in JSON format
func outputStatusJSON(cmd *cobra.Command, state domain.CurrentState) error {
	result := map[string]interface{}{
		"session_type":                  string(state.Timer.SessionType),
		"status":                        string(state.Status),
		"remaining_seconds":             state.Timer.RemainingSec,
		"remaining":                     formatClock(state.Remaining()),
		"progress":                      state.Progress(),
		"session_count":                 state.Timer.SessionCount,
		"completed_work_sessions_today": state.CompletedWorkSessionsToday,
		"recap_available":               state.RecapAvailable(),
		"durations": map[string]interface{}{
			"work":        state.Durations.Work,
			"short_break": state.Durations.ShortBreak,
			"long_break":  state.Durations.LongBreak,
		},
	}
	return printJSON(cmd, result)
}
