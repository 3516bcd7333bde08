package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-smile/internal/config"
	"github.com/xvierd/focus-smile/internal/domain"
)

var smileImageClear bool

var modelCmd = &cobra.Command{
	Use:   "model [name]",
	Short: "Show or choose the Gemini text model",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		out := cmd.OutOrStdout()

		if len(args) == 1 {
			if err := app.settings.SetModel(ctx, args[0]); err != nil {
				return err
			}
		}
		current := app.settings.Model(ctx)
		if jsonOutput {
			return printJSON(cmd, map[string]interface{}{"model": current, "available": domain.SelectableModels})
		}
		for _, m := range domain.SelectableModels {
			mark := " "
			if m == current {
				mark = "*"
			}
			fmt.Fprintf(out, "%s %s\n", mark, m)
		}
		return nil
	},
}

var themeCmd = &cobra.Command{
	Use:       "theme [light|dark]",
	Short:     "Show or choose the display theme",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(domain.ThemeLight), string(domain.ThemeDark)},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		theme := app.settings.AppSettings(ctx).Theme
		if len(args) == 1 {
			var err error
			if theme, err = app.settings.SetTheme(ctx, args[0]); err != nil {
				return err
			}
		}
		if jsonOutput {
			return printJSON(cmd, map[string]interface{}{"theme": theme})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Theme: %s\n", theme)
		return nil
	},
}

var smileImageCmd = &cobra.Command{
	Use:   "smile-image [path]",
	Short: "Show or set the picture shown with the smile prompt",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		out := cmd.OutOrStdout()

		switch {
		case smileImageClear:
			if err := app.settings.SetCustomSmileImage(ctx, ""); err != nil {
				return err
			}
		case len(args) == 1:
			path, err := config.ExpandHome(strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("%w: cannot use %s: %v", domain.ErrValidation, path, err)
			}
			if err := app.settings.SetCustomSmileImage(ctx, path); err != nil {
				return err
			}
		}

		current := app.settings.AppSettings(ctx).CustomSmileImage
		if jsonOutput {
			return printJSON(cmd, map[string]interface{}{"custom_smile_image": current})
		}
		if current == "" {
			fmt.Fprintln(out, "Smile image: default")
		} else {
			fmt.Fprintf(out, "Smile image: %s\n", current)
		}
		return nil
	},
}

func init() {
	smileImageCmd.Flags().BoolVar(&smileImageClear, "clear", false, "Go back to the default picture")
}
