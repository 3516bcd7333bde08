package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
	"github.com/xvierd/focus-smile/internal/domain"
)

// printJSON writes v as indented JSON to the command's output.
func printJSON(cmd *cobra.Command, v interface{}) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
	return nil
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}

// confirm asks a yes/no question. Without a terminal on stdin the answer
// is no, so scripts must pass --yes.
func confirm(title string) (bool, error) {
	if !term.IsTerminal(os.Stdin.Fd()) {
		return false, nil
	}
	var ok bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Affirmative("Yes").
			Negative("No").
			Value(&ok),
	))
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}

// parseQuoteID parses a quote id argument.
func parseQuoteID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid quote id %q", domain.ErrValidation, s)
	}
	return id, nil
}

func printQuotes(cmd *cobra.Command, quotes []domain.Quote) error {
	if jsonOutput {
		if quotes == nil {
			quotes = []domain.Quote{}
		}
		return printJSON(cmd, quotes)
	}

	out := cmd.OutOrStdout()
	if len(quotes) == 0 {
		fmt.Fprintln(out, "No quotes found.")
		return nil
	}
	for _, q := range quotes {
		printQuote(out, q)
	}
	return nil
}

func printQuote(out io.Writer, q domain.Quote) {
	star := " "
	if q.IsFavorite {
		star = "★"
	}
	fmt.Fprintf(out, "%s [%d] %s\n", star, q.ID, q.Format())
	var details []string
	if q.Category != "" {
		details = append(details, "category: "+q.Category)
	}
	details = append(details, "source: "+string(q.Source))
	if q.Rating != nil {
		details = append(details, fmt.Sprintf("rating: %.1f", *q.Rating))
	}
	fmt.Fprintf(out, "    %s\n", strings.Join(details, ", "))
}
