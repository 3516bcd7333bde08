package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var skipYes bool

var skipCmd = &cobra.Command{
	Use:   "skip",
	Short: "Jump to the next session",
	Long: `Jump straight to the next session without a smile prompt. Skipping a
focus session still counts it toward today's total and the long break.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		out := cmd.OutOrStdout()

		if !skipYes {
			current := app.timer.State().Timer.SessionType
			ok, err := confirm(fmt.Sprintf("Skip the rest of this %s?", current.Label()))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out, "Aborted.")
				return nil
			}
		}

		state, err := app.state.SkipSession(ctx)
		if err != nil {
			return fmt.Errorf("failed to skip session: %w", err)
		}

		if jsonOutput {
			return outputStatusJSON(cmd, state)
		}
		fmt.Fprintf(out, "Up next: %s (%s).\n", state.Timer.SessionType.Label(), formatClock(state.Remaining()))
		return nil
	},
}

func init() {
	skipCmd.Flags().BoolVarP(&skipYes, "yes", "y", false, "Skip confirmation prompt")
}
