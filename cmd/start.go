package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-smile/internal/adapters/tui"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the timer",
	Long: `Open the timer and start counting down the current session.

When a focus session ends, a quote is shown and the break starts once you
smile (or skip). Breaks roll over into the next focus session on their own.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTimer(cmd, true)
	},
}

// runTimer opens the full-screen timer. The timer keeps running only while
// the display is open; on exit its position is saved and it comes back idle.
func runTimer(cmd *cobra.Command, autoStart bool) error {
	ctx := setupSignalHandler()

	settings := app.settings.AppSettings(ctx)
	view := tui.NewTimer(app.timer, app.flow, settings)
	app.timer.SetOnWorkFinished(view.NotifyWorkFinished)
	defer app.timer.SetOnWorkFinished(nil)

	if autoStart && !app.timer.Start(ctx) {
		app.logger.Debug("timer not started", zap.String("status", string(app.timer.State().Status)))
	}

	if err := view.Run(ctx, app.timer.State()); err != nil {
		return fmt.Errorf("timer display failed: %w", err)
	}

	st := app.timer.State()
	fmt.Fprintf(cmd.OutOrStdout(), "Saved: %s with %s left, %d focus sessions today.\n",
		st.Timer.SessionType.Label(), formatClock(st.Remaining()), st.CompletedWorkSessionsToday)
	return nil
}
