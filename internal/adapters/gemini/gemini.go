// Package gemini implements the quote generator port on Google's Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xvierd/focus-smile/internal/domain"
	"github.com/xvierd/focus-smile/internal/logging"
	"github.com/xvierd/focus-smile/internal/ports"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Default model names.
const (
	DefaultImageModel = "gemini-2.5-flash-image-preview"
	DefaultRecapModel = "imagen-4.0-generate-001"
)

var errEmptyResponse = errors.New("empty response")

// modelsAPI is the subset of *genai.Models used here.
type modelsAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	GenerateImages(ctx context.Context, model, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error)
}

// Options selects models and the per-request timeout.
type Options struct {
	Model      string
	ImageModel string
	RecapModel string
	Timeout    time.Duration
	Logger     *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Model == "" {
		o.Model = domain.DefaultModel
	}
	if o.ImageModel == "" {
		o.ImageModel = DefaultImageModel
	}
	if o.RecapModel == "" {
		o.RecapModel = DefaultRecapModel
	}
	if o.Timeout <= 0 {
		o.Timeout = 60 * time.Second
	}
	o.Logger = logging.OrNop(o.Logger)
	return o
}

// Generator implements ports.QuoteGenerator.
type Generator struct {
	models modelsAPI
	opts   Options
	logger *zap.Logger
}

// Ensure Generator implements ports.QuoteGenerator.
var _ ports.QuoteGenerator = (*Generator)(nil)

// New creates a Gemini-backed generator for apiKey.
func New(ctx context.Context, apiKey string, opts Options) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, domain.ErrNoAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, domain.ExternalError("create Gemini client", err)
	}

	return newGenerator(client.Models, opts), nil
}

func newGenerator(models modelsAPI, opts Options) *Generator {
	opts = opts.withDefaults()
	return &Generator{
		models: models,
		opts:   opts,
		logger: opts.Logger.Named("gemini"),
	}
}

// NewFactory returns a ports.GeneratorFactory that builds generators with
// opts, overriding the text model per call.
func NewFactory(opts Options) ports.GeneratorFactory {
	return func(ctx context.Context, apiKey, model string) (ports.QuoteGenerator, error) {
		o := opts
		if model != "" {
			o.Model = model
		}
		return New(ctx, apiKey, o)
	}
}

// GenerateQuotes asks the text model for count quotes about vibe using a
// JSON response schema.
func (g *Generator) GenerateQuotes(ctx context.Context, vibe string, count int) ([]ports.GeneratedQuote, error) {
	vibe = strings.TrimSpace(vibe)
	if vibe == "" {
		return nil, domain.ErrEmptyVibe
	}
	if count <= 0 {
		count = 1
	}

	ctx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
	defer cancel()

	g.logger.Debug("generating quotes", zap.String("vibe", vibe), zap.Int("count", count), zap.String("model", g.opts.Model))
	resp, err := g.models.GenerateContent(ctx, g.opts.Model, genai.Text(quotesPrompt(vibe, count)), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   quotesSchema(),
	})
	if err != nil {
		return nil, domain.ExternalError("generate quotes", err)
	}

	quotes, err := parseQuotes(resp.Text(), count)
	if err != nil {
		return nil, domain.ExternalError("generate quotes", err)
	}
	return quotes, nil
}

// GenerateImageQuote sends image with an overlay instruction and returns the
// edited image and accompanying text. It returns nil when the model answered
// without both parts.
func (g *Generator) GenerateImageQuote(ctx context.Context, image []byte, mimeType, theme string) (*ports.ImageQuote, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: image is empty", domain.ErrValidation)
	}
	theme = strings.TrimSpace(theme)
	if theme == "" {
		return nil, domain.ErrEmptyVibe
	}

	ctx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
	defer cancel()

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(image, mimeType),
			genai.NewPartFromText(imagePrompt(theme)),
		}, genai.RoleUser),
	}

	g.logger.Debug("generating image quote", zap.String("theme", theme), zap.Int("bytes", len(image)))
	resp, err := g.models.GenerateContent(ctx, g.opts.ImageModel, contents, &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
	})
	if err != nil {
		return nil, domain.ExternalError("generate image quote", err)
	}
	return extractImageQuote(resp), nil
}

// GenerateRecapImage renders one square JPEG summarizing stats.
func (g *Generator) GenerateRecapImage(ctx context.Context, stats domain.RecapStats) (*ports.GeneratedImage, error) {
	ctx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
	defer cancel()

	g.logger.Debug("generating recap image", zap.Int("sessions", stats.TotalSessions))
	resp, err := g.models.GenerateImages(ctx, g.opts.RecapModel, recapPrompt(stats), &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		OutputMIMEType: "image/jpeg",
		AspectRatio:    "1:1",
	})
	if err != nil {
		return nil, domain.ExternalError("generate recap image", err)
	}
	if resp == nil || len(resp.GeneratedImages) == 0 {
		return nil, nil
	}
	img := resp.GeneratedImages[0].Image
	if img == nil || len(img.ImageBytes) == 0 {
		return nil, nil
	}
	mime := img.MIMEType
	if mime == "" {
		mime = "image/jpeg"
	}
	return &ports.GeneratedImage{Data: img.ImageBytes, MIMEType: mime}, nil
}

// Ping issues a one-token request against the text model.
func (g *Generator) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
	defer cancel()

	_, err := g.models.GenerateContent(ctx, g.opts.Model, genai.Text("test"), &genai.GenerateContentConfig{
		MaxOutputTokens: 1,
		ThinkingConfig:  &genai.ThinkingConfig{ThinkingBudget: genai.Ptr[int32](0)},
	})
	if err != nil {
		return domain.ExternalError("test API key", err)
	}
	return nil
}

func quotesPrompt(vibe string, count int) string {
	return fmt.Sprintf("Generate %d short, inspirational quotes about %q. The quotes should be suitable for a productivity app.", count, vibe)
}

func imagePrompt(theme string) string {
	return fmt.Sprintf("Generate a short, powerful quote about %q and artistically overlay it onto this image. Make the text legible and visually appealing.", theme)
}

func recapPrompt(stats domain.RecapStats) string {
	fav := "No favorite quote set."
	if stats.FavQuote != nil {
		fav = "Favorite quote: " + stats.FavQuote.Format()
	}
	return fmt.Sprintf(`Create a visually appealing, shareable graphic for a productivity app called "Focus Smile". The graphic should celebrate the user's progress. It must include this information:
- Total focus time: %d minutes
- Sessions completed: %d
- %s
Use a clean, modern, and inspiring design with some abstract shapes or a simple, encouraging illustration. The overall vibe should be positive and motivating.`, stats.TotalFocusMin, stats.TotalSessions, fav)
}

func quotesSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"quotes": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"text":   {Type: genai.TypeString},
						"author": {Type: genai.TypeString},
					},
					Required: []string{"text", "author"},
				},
			},
		},
		Required: []string{"quotes"},
	}
}

// parseQuotes decodes the schema response, dropping incomplete entries and
// anything beyond count.
func parseQuotes(text string, count int) ([]ports.GeneratedQuote, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errEmptyResponse
	}

	var payload struct {
		Quotes []ports.GeneratedQuote `json:"quotes"`
	}
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode quotes: %w", err)
	}

	quotes := make([]ports.GeneratedQuote, 0, len(payload.Quotes))
	for _, q := range payload.Quotes {
		q.Text = strings.TrimSpace(q.Text)
		q.Author = strings.TrimSpace(q.Author)
		if q.Text == "" || q.Author == "" {
			continue
		}
		quotes = append(quotes, q)
		if len(quotes) == count {
			break
		}
	}
	if len(quotes) == 0 {
		return nil, errEmptyResponse
	}
	return quotes, nil
}

func extractImageQuote(resp *genai.GenerateContentResponse) *ports.ImageQuote {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}

	var out ports.ImageQuote
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil {
			continue
		}
		if part.Text != "" {
			out.Text = strings.TrimSpace(part.Text)
		} else if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			out.Image = part.InlineData.Data
			out.MIMEType = part.InlineData.MIMEType
		}
	}
	if out.Text == "" || len(out.Image) == 0 {
		return nil
	}
	return &out
}
