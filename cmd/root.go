// Package cmd provides the CLI commands for the Focus Smile application.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	// Version info (set at build time via ldflags)
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"

	// Global flags
	dbPath     string
	jsonOutput bool
	backend    string
	configPath string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "smile",
	Short: "Focus Smile - a Pomodoro timer that ends every session with a smile",
	Long: `Focus Smile is a Pomodoro timer for the terminal. When a focus session
ends it shows a quote picked for the moment and asks for a smile before the
break starts. Quotes can be collected, searched, exported and generated
with Gemini.

Run "smile" with no arguments to open the timer.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeServices()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return cleanupServices()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTimer(cmd, false)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// PersistentPostRunE is skipped when a command fails.
		_ = cleanupServices()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Store location: database file for sqlite, directory for file (default: under ~/.focus-smile)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "Storage backend: sqlite, file or memory (default from config)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file (default: ~/.focus-smile/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level to stderr")

	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("Focus Smile\nVersion: {{.Version}}\n")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(skipCmd)
	rootCmd.AddCommand(durationsCmd)
	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(recapCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(keyCmd)
	rootCmd.AddCommand(modelCmd)
	rootCmd.AddCommand(themeCmd)
	rootCmd.AddCommand(smileImageCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(configCmd)
}

// formatMinutes renders a duration as 25m, 1h or 1h30m.
func formatMinutes(d time.Duration) string {
	total := int(d.Minutes())
	h, m := total/60, total%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh%dm", h, m)
	}
}

// formatClock renders a duration as MM:SS.
func formatClock(d time.Duration) string {
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
