package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-smile/internal/domain"
)

var (
	quoteAuthor    string
	quoteCategory  string
	quoteText      string
	quoteFavorites bool
	quoteDeleteYes bool
)

// quoteCmd groups the quote collection commands
var quoteCmd = &cobra.Command{
	Use:     "quote",
	Aliases: []string{"quotes", "q"},
	Short:   "Manage the quote collection",
	Long: `Add, list, search, edit, rate, export and generate quotes.

The quotes marked as favorites and the ones in a session's category are
preferred when a focus session or break ends.`,
}

var quoteAddCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Add a quote",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		q, err := app.quotes.Add(ctx, strings.Join(args, " "), quoteAuthor, quoteCategory)
		if err != nil {
			return fmt.Errorf("failed to add quote: %w", err)
		}

		if jsonOutput {
			return printJSON(cmd, q)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Quote added: %s (ID: %d)\n", q.Format(), q.ID)
		return nil
	},
}

var quoteListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the quote collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		quotes, err := app.quotes.List(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list quotes: %w", err)
		}
		if quoteFavorites {
			favorites := quotes[:0]
			for _, q := range quotes {
				if q.IsFavorite {
					favorites = append(favorites, q)
				}
			}
			quotes = favorites
		}
		return printQuotes(cmd, quotes)
	},
}

var quoteSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Fuzzy search quote text and authors",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		quotes, err := app.quotes.Search(context.Background(), strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("failed to search quotes: %w", err)
		}
		return printQuotes(cmd, quotes)
	},
}

var quoteEditCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Edit a quote",
	Long:  `Change the text, author or category of a quote. Fields that are not given keep their value.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		id, err := parseQuoteID(args[0])
		if err != nil {
			return err
		}
		current, err := app.quotes.Get(ctx, id)
		if err != nil {
			return err
		}

		text, author := current.Text, current.Author
		if cmd.Flags().Changed("text") {
			text = quoteText
		}
		if cmd.Flags().Changed("author") {
			author = quoteAuthor
		}
		var category *string
		if cmd.Flags().Changed("category") {
			category = &quoteCategory
		}

		q, err := app.quotes.Update(ctx, id, text, author, category)
		if err != nil {
			return fmt.Errorf("failed to update quote: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd, q)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Quote updated: %s\n", q.Format())
		return nil
	},
}

var quoteDeleteCmd = &cobra.Command{
	Use:     "delete [id...]",
	Aliases: []string{"rm"},
	Short:   "Delete quotes",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		out := cmd.OutOrStdout()

		ids := make([]int64, 0, len(args))
		for _, arg := range args {
			id, err := parseQuoteID(arg)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}

		app.quotes.DeselectAll()
		if err := app.quotes.Select(ctx, ids...); err != nil {
			return err
		}

		if !quoteDeleteYes {
			ok, err := confirm(fmt.Sprintf("Delete %d quote(s)?", len(ids)))
			if err != nil {
				return err
			}
			if !ok {
				app.quotes.DeselectAll()
				fmt.Fprintln(out, "Aborted.")
				return nil
			}
		}

		removed, err := app.quotes.DeleteSelected(ctx)
		if err != nil {
			return fmt.Errorf("failed to delete quotes: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd, map[string]interface{}{"deleted": removed})
		}
		fmt.Fprintf(out, "Deleted %d quote(s).\n", removed)
		return nil
	},
}

var quoteFavCmd = &cobra.Command{
	Use:     "fav [id]",
	Aliases: []string{"favorite"},
	Short:   "Toggle a quote's favorite mark",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseQuoteID(args[0])
		if err != nil {
			return err
		}
		q, err := app.quotes.ToggleFavorite(context.Background(), id)
		if err != nil {
			return fmt.Errorf("failed to toggle favorite: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd, q)
		}
		if q.IsFavorite {
			fmt.Fprintf(cmd.OutOrStdout(), "★ Favorited: %s\n", q.Format())
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Unfavorited: %s\n", q.Format())
		}
		return nil
	},
}

var quoteRateCmd = &cobra.Command{
	Use:   "rate [id] [1-5]",
	Short: "Rate a quote from 1 to 5",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseQuoteID(args[0])
		if err != nil {
			return err
		}
		rating, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return domain.ErrInvalidRating
		}
		q, err := app.quotes.Rate(context.Background(), id, rating)
		if err != nil {
			return fmt.Errorf("failed to rate quote: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd, q)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Rated %.1f: %s\n", rating, q.Format())
		return nil
	},
}

func init() {
	quoteAddCmd.Flags().StringVarP(&quoteAuthor, "author", "a", "", "Who said it")
	quoteAddCmd.Flags().StringVarP(&quoteCategory, "category", "c", "", "Category, e.g. motivation or productivity")
	_ = quoteAddCmd.MarkFlagRequired("author")

	quoteListCmd.Flags().BoolVarP(&quoteFavorites, "favorites", "f", false, "Only show favorites")

	quoteEditCmd.Flags().StringVar(&quoteText, "text", "", "New text")
	quoteEditCmd.Flags().StringVarP(&quoteAuthor, "author", "a", "", "New author")
	quoteEditCmd.Flags().StringVarP(&quoteCategory, "category", "c", "", "New category (empty clears it)")

	quoteDeleteCmd.Flags().BoolVarP(&quoteDeleteYes, "yes", "y", false, "Skip confirmation prompt")

	quoteCmd.AddCommand(quoteAddCmd)
	quoteCmd.AddCommand(quoteListCmd)
	quoteCmd.AddCommand(quoteSearchCmd)
	quoteCmd.AddCommand(quoteEditCmd)
	quoteCmd.AddCommand(quoteDeleteCmd)
	quoteCmd.AddCommand(quoteFavCmd)
	quoteCmd.AddCommand(quoteRateCmd)
	quoteCmd.AddCommand(quoteExportCmd)
	quoteCmd.AddCommand(quoteBrowseCmd)
	quoteCmd.AddCommand(quoteGenerateCmd)
	quoteCmd.AddCommand(quoteImageCmd)
}
