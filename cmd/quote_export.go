package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-smile/internal/adapters/tui"
	"github.com/xvierd/focus-smile/internal/domain"
)

// Default export file names.
const (
	defaultTextExport = "focus-smile-quotes.txt"
	defaultYAMLExport = "focus-smile-quotes.yaml"
)

var (
	exportAll    bool
	exportFormat string
	exportOut    string
)

var quoteExportCmd = &cobra.Command{
	Use:   "export [id...]",
	Short: "Export quotes to a file",
	Long: `Export the given quotes, or all of them with --all.

The text format writes one "text" - author block per quote separated by
blank lines. Use --out - to print to stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		app.quotes.DeselectAll()
		switch {
		case exportAll:
			if err := app.quotes.SelectAll(ctx); err != nil {
				return err
			}
		case len(args) > 0:
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := parseQuoteID(arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			if err := app.quotes.Select(ctx, ids...); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: give quote ids or --all", domain.ErrValidation)
		}

		return exportSelected(cmd, exportFormat, exportOut)
	},
}

var quoteBrowseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse, select, favorite and delete quotes interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := setupSignalHandler()

		palette := tui.PaletteFor(app.settings.AppSettings(ctx).Theme)
		result, err := tui.RunQuotePicker(ctx, app.quotes, palette)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if result.Deleted > 0 {
			fmt.Fprintf(out, "Deleted %d quote(s).\n", result.Deleted)
		}
		if result.Action == tui.PickerExport {
			return exportSelected(cmd, "text", "")
		}
		return nil
	},
}

// exportSelected writes the current selection in format to path. An empty
// path picks the default file name for the format; "-" means stdout.
func exportSelected(cmd *cobra.Command, format, path string) error {
	ctx := context.Background()

	selected, err := app.quotes.Selected(ctx)
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing selected to export.")
		return nil
	}

	var data []byte
	switch format {
	case "text", "txt", "":
		text, err := app.quotes.ExportSelected(ctx)
		if err != nil {
			return err
		}
		data = []byte(text + "\n")
		if path == "" {
			path = defaultTextExport
		}
	case "yaml", "yml":
		data, err = app.quotes.ExportSelectedYAML(ctx)
		if err != nil {
			return err
		}
		if path == "" {
			path = defaultYAMLExport
		}
	default:
		return fmt.Errorf("%w: unknown export format %q (text or yaml)", domain.ErrValidation, format)
	}
	app.quotes.DeselectAll()

	if path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d quote(s) to %s\n", len(selected), path)
	return nil
}

func init() {
	quoteExportCmd.Flags().BoolVar(&exportAll, "all", false, "Export every quote")
	quoteExportCmd.Flags().StringVarP(&exportFormat, "format", "f", "text", "Output format: text or yaml")
	quoteExportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default focus-smile-quotes.txt or .yaml, - for stdout)")
}
