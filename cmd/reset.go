package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Rewind the current session",
	Long: `Rewind the current session to its full length and stop the timer.
A finished focus session that is still waiting for its smile is rewound
without being counted. Use --yes to skip the confirmation prompt.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		out := cmd.OutOrStdout()

		if !resetYes {
			ok, err := confirm("Rewind the current session?")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out, "Aborted.")
				return nil
			}
		}

		state, err := app.state.ResetTimer(ctx)
		if err != nil {
			return fmt.Errorf("failed to reset timer: %w", err)
		}

		if jsonOutput {
			return outputStatusJSON(cmd, state)
		}
		fmt.Fprintf(out, "%s rewound to %s.\n", state.Timer.SessionType.Label(), formatClock(state.Remaining()))
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "Skip confirmation prompt")
}
