package domain

import (
	"fmt"
	"strings"
	"time"
)

// QuoteSource records where a quote came from.
type QuoteSource string

const (
	SourceCurated     QuoteSource = "curated"
	SourceAIGenerated QuoteSource = "ai-generated"
	SourceUser        QuoteSource = "user"
	SourceFavorite    QuoteSource = "favorite"
)

// Well-known categories used by contextual selection.
const (
	CategoryProductivity = "productivity"
	CategoryMotivation   = "motivation"
)

// FallbackQuoteID is the id of the quote shown when nothing else is available.
const FallbackQuoteID int64 = 0

// Quote is an entry of the quote collection.
type Quote struct {
	ID         int64       `json:"id" yaml:"id"`
	Text       string      `json:"text" yaml:"text"`
	Author     string      `json:"author" yaml:"author"`
	IsFavorite bool        `json:"isFavorite" yaml:"favorite"`
	Category   string      `json:"category,omitempty" yaml:"category,omitempty"`
	Source     QuoteSource `json:"source" yaml:"source"`
	Rating     *float64    `json:"rating,omitempty" yaml:"rating,omitempty"`
}

// NewQuote validates and builds a user quote.
func NewQuote(text, author, category string) (*Quote, error) {
	text = strings.TrimSpace(text)
	author = strings.TrimSpace(author)
	if text == "" {
		return nil, ErrEmptyQuoteText
	}
	if author == "" {
		return nil, ErrEmptyQuoteAuthor
	}
	return &Quote{
		Text:     text,
		Author:   author,
		Category: strings.TrimSpace(category),
		Source:   SourceUser,
	}, nil
}

// IsFallback reports whether q is the built-in fallback quote.
func (q Quote) IsFallback() bool {
	return q.ID == FallbackQuoteID
}

// Format renders the quote as `"text" - author`.
func (q Quote) Format() string {
	return fmt.Sprintf("\"%s\" - %s", q.Text, q.Author)
}

// ValidateRating checks a 1-5 rating.
func ValidateRating(r float64) error {
	if r < 1 || r > 5 {
		return ErrInvalidRating
	}
	return nil
}

// SeedQuotes returns the curated quotes installed on first run.
func SeedQuotes() []Quote {
	return []Quote{
		{ID: 1, Text: "The only way to do great work is to love what you do.", Author: "Steve Jobs", Category: CategoryMotivation, Source: SourceCurated},
		{ID: 2, Text: "Focus is a superpower.", Author: "Mark Manson", IsFavorite: true, Category: CategoryProductivity, Source: SourceCurated},
		{ID: 3, Text: "The secret of getting ahead is getting started.", Author: "Mark Twain", Category: CategoryMotivation, Source: SourceCurated},
	}
}

// FallbackQuote is returned when neither the collection nor the AI backend
// can provide a quote.
func FallbackQuote() Quote {
	return Quote{
		ID:       FallbackQuoteID,
		Text:     "Keep smiling, it's the key that fits the lock of everybody's heart.",
		Author:   "Anthony J. D'Angelo",
		Category: CategoryMotivation,
		Source:   SourceCurated,
	}
}

// NextQuoteID returns an id that is unique within quotes and grows with time,
// so ids of deleted quotes are not handed out again.
func NextQuoteID(quotes []Quote, now time.Time) int64 {
	id := now.UnixMilli()
	for _, q := range quotes {
		if q.ID >= id {
			id = q.ID + 1
		}
	}
	return id
}

// FormatExport joins quotes as `"text" - author` blocks separated by blank lines.
func FormatExport(quotes []Quote) string {
	parts := make([]string, 0, len(quotes))
	for _, q := range quotes {
		parts = append(parts, q.Format())
	}
	return strings.Join(parts, "\n\n")
}
