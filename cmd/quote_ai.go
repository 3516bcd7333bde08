package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-smile/internal/config"
	"github.com/xvierd/focus-smile/internal/domain"
)

var quoteImageTheme string

var quoteGenerateCmd = &cobra.Command{
	Use:   "generate [vibe]",
	Short: "Generate new quotes with Gemini",
	Long: `Ask Gemini for three short quotes matching a vibe and put them at the
top of the collection. Needs an API key (smile key set).`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := setupSignalHandler()

		added, err := app.quotes.GenerateAndAdd(ctx, strings.Join(args, " "))
		if err != nil {
			return aiError("failed to generate quotes", err)
		}

		if jsonOutput {
			return printJSON(cmd, added)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Added %d quote(s):\n", len(added))
		for _, q := range added {
			printQuote(out, q)
		}
		return nil
	},
}

var quoteImageCmd = &cobra.Command{
	Use:   "image [file]",
	Short: "Put a fitting quote on a photo",
	Long: `Send a photo to Gemini and save a copy with a quote about the theme
written onto it. The result goes to the images folder in the data directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := setupSignalHandler()

		image, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}
		mimeType := http.DetectContentType(image)
		if !strings.HasPrefix(mimeType, "image/") {
			return fmt.Errorf("%w: %s is not an image (%s)", domain.ErrValidation, args[0], mimeType)
		}

		result, err := app.quotes.GenerateImageQuote(ctx, image, mimeType, quoteImageTheme)
		if err != nil {
			return aiError("failed to create image quote", err)
		}
		if result == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Gemini did not return an image. Try another photo or theme.")
			return nil
		}

		path, err := saveImage(result.Image, result.MIMEType)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd, map[string]interface{}{"text": result.Text, "path": path})
		}
		if result.Text != "" {
			fmt.Fprintln(cmd.OutOrStdout(), result.Text)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved to %s\n", path)
		return nil
	},
}

// saveImage writes data under the images directory with a fresh name.
func saveImage(data []byte, mimeType string) (string, error) {
	dir := config.GetImagesDir(app.config)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create images directory: %w", err)
	}
	path := filepath.Join(dir, domain.NewAssetID()+imageExt(mimeType))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}
	return path, nil
}

func imageExt(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".png"
	}
}

// aiError adds a hint to errors the user can fix.
func aiError(msg string, err error) error {
	if errors.Is(err, domain.ErrNoAPIKey) {
		return fmt.Errorf("%s: %w (run `smile key set <key>` or set GEMINI_API_KEY)", msg, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func init() {
	quoteImageCmd.Flags().StringVarP(&quoteImageTheme, "theme", "t", "motivation", "What the quote should be about")
}
