package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/focus-smile/internal/domain"
	"go.uber.org/zap/zaptest"
	"google.golang.org/genai"
)

// fakeModels records calls and returns canned responses.
type fakeModels struct {
	contentResp *genai.GenerateContentResponse
	imagesResp  *genai.GenerateImagesResponse
	err         error

	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
	prompt   string
	imgCfg   *genai.GenerateImagesConfig
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model, f.contents, f.config = model, contents, config
	return f.contentResp, f.err
}

func (f *fakeModels) GenerateImages(ctx context.Context, model, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error) {
	f.model, f.prompt, f.imgCfg = model, prompt, config
	return f.imagesResp, f.err
}

func textResponse(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Role: genai.RoleModel, Parts: parts},
		}},
	}
}

func newTestGenerator(t *testing.T, f *fakeModels) *Generator {
	return newGenerator(f, Options{Logger: zaptest.NewLogger(t)})
}

func TestNew_RequiresKey(t *testing.T) {
	_, err := New(context.Background(), "   ", Options{})
	assert.ErrorIs(t, err, domain.ErrNoAPIKey)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestGenerateQuotes(t *testing.T) {
	f := &fakeModels{contentResp: textResponse(genai.NewPartFromText(
		`{"quotes":[{"text":"Start small.","author":"Ann"},{"text":" ","author":"Nobody"},{"text":"Keep going.","author":"Bo"},{"text":"Extra.","author":"Cy"}]}`,
	))}
	g := newTestGenerator(t, f)

	quotes, err := g.GenerateQuotes(context.Background(), "achieving a goal", 2)
	require.NoError(t, err)

	require.Len(t, quotes, 2)
	assert.Equal(t, "Start small.", quotes[0].Text)
	assert.Equal(t, "Bo", quotes[1].Author)
	assert.Equal(t, domain.DefaultModel, f.model)
	assert.Equal(t, "application/json", f.config.ResponseMIMEType)
	assert.Equal(t, []string{"quotes"}, f.config.ResponseSchema.Required)
}

func TestGenerateQuotes_Errors(t *testing.T) {
	ctx := context.Background()

	g := newTestGenerator(t, &fakeModels{err: errors.New("403 permission denied")})
	_, err := g.GenerateQuotes(ctx, "relaxing", 1)
	assert.ErrorIs(t, err, domain.ErrExternalService)

	g = newTestGenerator(t, &fakeModels{contentResp: textResponse(genai.NewPartFromText("not json"))})
	_, err = g.GenerateQuotes(ctx, "relaxing", 1)
	assert.ErrorIs(t, err, domain.ErrExternalService)

	_, err = g.GenerateQuotes(ctx, "  ", 1)
	assert.ErrorIs(t, err, domain.ErrEmptyVibe)
}

func TestGenerateImageQuote(t *testing.T) {
	f := &fakeModels{contentResp: textResponse(
		genai.NewPartFromText("Dream big."),
		genai.NewPartFromBytes([]byte{0x89, 'P', 'N', 'G'}, "image/png"),
	)}
	g := newTestGenerator(t, f)

	got, err := g.GenerateImageQuote(context.Background(), []byte{1, 2, 3}, "image/jpeg", "courage")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "Dream big.", got.Text)
	assert.Equal(t, "image/png", got.MIMEType)
	assert.Equal(t, DefaultImageModel, f.model)
	assert.Equal(t, []string{"IMAGE", "TEXT"}, f.config.ResponseModalities)
	require.Len(t, f.contents, 1)
	require.Len(t, f.contents[0].Parts, 2)
	assert.Equal(t, []byte{1, 2, 3}, f.contents[0].Parts[0].InlineData.Data)
	assert.Contains(t, f.contents[0].Parts[1].Text, "courage")
}

func TestGenerateImageQuote_MissingPart(t *testing.T) {
	g := newTestGenerator(t, &fakeModels{contentResp: textResponse(genai.NewPartFromText("only text"))})

	got, err := g.GenerateImageQuote(context.Background(), []byte{1}, "image/png", "calm")
	assert.NoError(t, err)
	assert.Nil(t, got)

	_, err = g.GenerateImageQuote(context.Background(), nil, "image/png", "calm")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGenerateRecapImage(t *testing.T) {
	f := &fakeModels{imagesResp: &genai.GenerateImagesResponse{
		GeneratedImages: []*genai.GeneratedImage{{Image: &genai.Image{ImageBytes: []byte("jpeg")}}},
	}}
	g := newTestGenerator(t, f)
	fav := domain.SeedQuotes()[1]

	img, err := g.GenerateRecapImage(context.Background(), domain.NewRecapStats(4, 1500, &fav))
	require.NoError(t, err)
	require.NotNil(t, img)

	assert.Equal(t, "image/jpeg", img.MIMEType)
	assert.Equal(t, DefaultRecapModel, f.model)
	assert.Equal(t, "1:1", f.imgCfg.AspectRatio)
	assert.Contains(t, f.prompt, "Total focus time: 100 minutes")
	assert.Contains(t, f.prompt, "Sessions completed: 4")
	assert.Contains(t, f.prompt, "Focus is a superpower.")
}

func TestGenerateRecapImage_NoImages(t *testing.T) {
	g := newTestGenerator(t, &fakeModels{imagesResp: &genai.GenerateImagesResponse{}})

	img, err := g.GenerateRecapImage(context.Background(), domain.NewRecapStats(4, 1500, nil))
	assert.NoError(t, err)
	assert.Nil(t, img)
}

func TestPing(t *testing.T) {
	f := &fakeModels{contentResp: textResponse(genai.NewPartFromText("ok"))}
	g := newTestGenerator(t, f)

	require.NoError(t, g.Ping(context.Background()))
	assert.Equal(t, int32(1), f.config.MaxOutputTokens)

	f.err = errors.New("API key not valid")
	assert.ErrorIs(t, g.Ping(context.Background()), domain.ErrExternalService)
}

func TestRecapPrompt_NoFavorite(t *testing.T) {
	p := recapPrompt(domain.NewRecapStats(8, 1500, nil))
	assert.True(t, strings.Contains(p, "No favorite quote set."))
}

func TestParseQuotes_Fenced(t *testing.T) {
	quotes, err := parseQuotes("```json\n{\"quotes\":[{\"text\":\"a\",\"author\":\"b\"}]}\n```", 3)
	require.NoError(t, err)
	assert.Len(t, quotes, 1)

	_, err = parseQuotes(`{"quotes":[]}`, 3)
	assert.ErrorIs(t, err, errEmptyResponse)
}
