package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
	"github.com/xvierd/focus-smile/internal/domain"
	"github.com/xvierd/focus-smile/internal/services"
)

var keyTest bool

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the Gemini API key",
	Long: `Store, check or remove the Gemini API key used to generate quotes.

A stored key wins over ai.api_key in the config file and GEMINI_API_KEY.`,
}

var keySetCmd = &cobra.Command{
	Use:   "set [key]",
	Short: "Store an API key",
	Long:  `Store an API key. Without an argument the key is read from a hidden prompt.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := setupSignalHandler()
		out := cmd.OutOrStdout()

		var key string
		if len(args) == 1 {
			key = args[0]
		} else {
			var err error
			if key, err = promptKey(); err != nil {
				return err
			}
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("%w: no key given", domain.ErrValidation)
		}

		if keyTest {
			fmt.Fprintf(out, "Testing key with %s...\n", app.settings.Model(ctx))
			if err := app.settings.TestAPIKey(ctx, key); err != nil {
				return fmt.Errorf("key test failed: %w", err)
			}
			fmt.Fprintln(out, "Key works.")
		}

		if err := app.settings.SetAPIKey(ctx, key); err != nil {
			return fmt.Errorf("failed to store key: %w", err)
		}
		fmt.Fprintln(out, "API key saved.")
		return nil
	},
}

var keyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored API key",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.settings.ClearAPIKey(context.Background()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Stored API key removed.")
		return nil
	},
}

var keyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which API key is active",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		key, source, err := app.settings.APIKey(ctx)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd, map[string]interface{}{
				"configured": key != "",
				"source":     string(source),
				"key":        maskKey(key),
				"model":      app.settings.Model(ctx),
			})
		}

		out := cmd.OutOrStdout()
		switch source {
		case services.KeySourceStored:
			fmt.Fprintf(out, "Using stored key %s\n", maskKey(key))
		case services.KeySourceConfig:
			fmt.Fprintf(out, "Using key %s from config or GEMINI_API_KEY\n", maskKey(key))
		default:
			fmt.Fprintln(out, "No API key set. Run `smile key set` to add one.")
		}
		fmt.Fprintf(out, "Model: %s\n", app.settings.Model(ctx))
		return nil
	},
}

func promptKey() (string, error) {
	if !term.IsTerminal(os.Stdin.Fd()) {
		return "", fmt.Errorf("%w: pass the key as an argument when not in a terminal", domain.ErrValidation)
	}
	var key string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Gemini API key").
			EchoMode(huh.EchoModePassword).
			Value(&key).
			Validate(func(s string) error {
				return domain.ValidateAPIKey(strings.TrimSpace(s))
			}),
	))
	if err := form.Run(); err != nil {
		return "", err
	}
	return key, nil
}

// maskKey keeps the first and last four characters of key.
func maskKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}

func init() {
	keySetCmd.Flags().BoolVar(&keyTest, "test", false, "Send a test request before saving")

	keyCmd.AddCommand(keySetCmd)
	keyCmd.AddCommand(keyClearCmd)
	keyCmd.AddCommand(keyStatusCmd)
}
