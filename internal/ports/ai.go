package ports

import (
	"context"

	"github.com/xvierd/focus-smile/internal/domain"
)

// GeneratedQuote is a quote returned by the AI backend.
type GeneratedQuote struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

// ImageQuote is a photo with a quote rendered onto it.
type ImageQuote struct {
	Text     string
	Image    []byte
	MIMEType string
}

// GeneratedImage is raw image data produced by the AI backend.
type GeneratedImage struct {
	Data     []byte
	MIMEType string
}

// QuoteGenerator defines the interface for the generative AI backend.
// This is a driven port (implemented by adapters).
type QuoteGenerator interface {
	// GenerateQuotes asks for count short quotes matching vibe.
	GenerateQuotes(ctx context.Context, vibe string, count int) ([]GeneratedQuote, error)

	// GenerateImageQuote overlays a fitting quote on image. A nil result
	// with a nil error means the backend answered without usable output.
	GenerateImageQuote(ctx context.Context, image []byte, mimeType, theme string) (*ImageQuote, error)

	// GenerateRecapImage renders a summary image for the day's stats.
	GenerateRecapImage(ctx context.Context, stats domain.RecapStats) (*GeneratedImage, error)

	// Ping sends a minimal request to check that the key and model work.
	Ping(ctx context.Context) error
}

// GeneratorFactory builds a QuoteGenerator for an API key and model.
type GeneratorFactory func(ctx context.Context, apiKey, model string) (QuoteGenerator, error)
