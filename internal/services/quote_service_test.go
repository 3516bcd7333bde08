package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/focus-smile/internal/adapters/storage"
	"github.com/xvierd/focus-smile/internal/domain"
	"github.com/xvierd/focus-smile/internal/ports"
	"go.uber.org/zap/zaptest"
)

func newTestQuoteService(t *testing.T, store ports.KeyValueStore, src GeneratorSource, r Random) *QuoteService {
	t.Helper()
	if store == nil {
		store = storage.NewMemory()
	}
	if r == nil {
		r = fixedRandom{}
	}
	svc := NewQuoteService(store, src,
		WithRandom(r),
		WithQuoteClock(func() time.Time { return testDay }),
		WithQuoteLogger(zaptest.NewLogger(t)),
	)
	require.NoError(t, svc.Load(context.Background()))
	return svc
}

func ids(quotes []domain.Quote) []int64 {
	out := make([]int64, len(quotes))
	for i, q := range quotes {
		out[i] = q.ID
	}
	return out
}

func TestQuoteService_SeedsOnFirstLoad(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	svc := newTestQuoteService(t, store, staticSource{err: domain.ErrNoAPIKey}, nil)

	quotes, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids(quotes))

	values, err := store.Get(ctx, ports.KeyQuotes)
	require.NoError(t, err)
	assert.Contains(t, values, ports.KeyQuotes, "seeds must be persisted")

	require.NoError(t, svc.Delete(ctx, 1))
	reloaded := newTestQuoteService(t, store, staticSource{}, nil)
	quotes, err = reloaded.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, ids(quotes), "a saved collection is not reseeded")
}

func TestQuoteService_CRUD(t *testing.T) {
	ctx := context.Background()
	svc := newTestQuoteService(t, nil, staticSource{}, nil)

	added, err := svc.Add(ctx, "  Stay hungry.  ", "Stewart Brand", "motivation")
	require.NoError(t, err)
	assert.Equal(t, "Stay hungry.", added.Text)
	assert.Equal(t, domain.SourceUser, added.Source)
	assert.Equal(t, testDay.UnixMilli(), added.ID)

	quotes, _ := svc.List(ctx)
	assert.Equal(t, added.ID, quotes[len(quotes)-1].ID, "manual quotes are appended")

	_, err = svc.Add(ctx, "", "x", "")
	assert.ErrorIs(t, err, domain.ErrEmptyQuoteText)

	category := "productivity"
	updated, err := svc.Update(ctx, added.ID, "Stay foolish.", "Stewart Brand", &category)
	require.NoError(t, err)
	assert.Equal(t, "Stay foolish.", updated.Text)
	assert.Equal(t, "productivity", updated.Category)

	_, err = svc.Update(ctx, added.ID, "text", " ", nil)
	assert.ErrorIs(t, err, domain.ErrEmptyQuoteAuthor)

	fav, err := svc.ToggleFavorite(ctx, added.ID)
	require.NoError(t, err)
	assert.True(t, fav.IsFavorite)

	rated, err := svc.Rate(ctx, added.ID, 4.5)
	require.NoError(t, err)
	require.NotNil(t, rated.Rating)
	assert.Equal(t, 4.5, *rated.Rating)

	_, err = svc.Rate(ctx, added.ID, 6)
	assert.ErrorIs(t, err, domain.ErrInvalidRating)

	require.NoError(t, svc.Delete(ctx, added.ID))
	_, err = svc.Get(ctx, added.ID)
	assert.ErrorIs(t, err, domain.ErrQuoteNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, added.ID), domain.ErrQuoteNotFound)
}

func TestQuoteService_Search(t *testing.T) {
	ctx := context.Background()
	svc := newTestQuoteService(t, nil, staticSource{}, nil)

	all, err := svc.Search(ctx, "  ")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	found, err := svc.Search(ctx, "twain")
	require.NoError(t, err)
	require.NotEmpty(t, found)
	assert.Equal(t, int64(3), found[0].ID)

	none, err := svc.Search(ctx, "zzzzqqq")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestQuoteService_SelectionAndExport(t *testing.T) {
	ctx := context.Background()
	svc := newTestQuoteService(t, nil, staticSource{}, nil)

	on, err := svc.ToggleSelection(ctx, 3)
	require.NoError(t, err)
	assert.True(t, on)
	require.NoError(t, svc.Select(ctx, 1))
	assert.ErrorIs(t, svc.Select(ctx, 99), domain.ErrQuoteNotFound)

	text, err := svc.ExportSelected(ctx)
	require.NoError(t, err)
	assert.Equal(t,
		"\"The only way to do great work is to love what you do.\" - Steve Jobs\n\n"+
			"\"The secret of getting ahead is getting started.\" - Mark Twain",
		text)

	doc, err := svc.ExportSelectedYAML(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(doc), "quotes:")
	assert.Contains(t, string(doc), "author: Mark Twain")

	off, err := svc.ToggleSelection(ctx, 3)
	require.NoError(t, err)
	assert.False(t, off)

	svc.DeselectAll()
	selected, err := svc.Selected(ctx)
	require.NoError(t, err)
	assert.Empty(t, selected)

	empty, err := svc.ExportSelectedYAML(ctx)
	require.NoError(t, err)
	assert.Equal(t, "quotes: []\n", string(empty))
}

func TestQuoteService_DeleteSelected(t *testing.T) {
	ctx := context.Background()
	svc := newTestQuoteService(t, nil, staticSource{}, nil)

	require.NoError(t, svc.SelectAll(ctx))
	require.NoError(t, svc.Delete(ctx, 2))

	removed, err := svc.DeleteSelected(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	quotes, _ := svc.List(ctx)
	assert.Empty(t, quotes)

	removed, err = svc.DeleteSelected(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestQuoteService_GenerateAndAdd(t *testing.T) {
	ctx := context.Background()
	gen := &fakeGenerator{quotes: []ports.GeneratedQuote{
		{Text: "A", Author: "One"},
		{Text: "B", Author: "Two"},
		{Text: "C", Author: "Three"},
		{Text: "D", Author: "Four"},
	}}
	svc := newTestQuoteService(t, nil, staticSource{gen: gen}, nil)

	_, err := svc.GenerateAndAdd(ctx, " ")
	assert.ErrorIs(t, err, domain.ErrEmptyVibe)

	added, err := svc.GenerateAndAdd(ctx, "calm")
	require.NoError(t, err)
	require.Len(t, added, GeneratedQuoteCount)
	assert.Equal(t, "calm", gen.lastVibe)
	assert.Equal(t, GeneratedQuoteCount, gen.lastN)

	quotes, _ := svc.List(ctx)
	require.Len(t, quotes, 6)
	assert.Equal(t, "A", quotes[0].Text, "generated quotes go first")
	assert.Equal(t, domain.SourceAIGenerated, quotes[0].Source)
	assert.Equal(t, "calm", quotes[2].Category)
	assert.Equal(t, int64(1), quotes[3].ID)
	assert.NotEqual(t, quotes[0].ID, quotes[1].ID)
}

func TestQuoteService_GenerateFailureLeavesCollection(t *testing.T) {
	ctx := context.Background()
	apiErr := domain.ExternalError("generate quotes", errors.New("quota exceeded"))
	svc := newTestQuoteService(t, nil, staticSource{gen: &fakeGenerator{err: apiErr}}, nil)

	_, err := svc.GenerateAndAdd(ctx, "calm")
	assert.ErrorIs(t, err, domain.ErrExternalService)

	quotes, _ := svc.List(ctx)
	assert.Len(t, quotes, 3)
}

func TestQuoteService_SelectContextual(t *testing.T) {
	ctx := context.Background()
	generated := []ports.GeneratedQuote{{Text: "Fresh", Author: "Gemini"}}

	tests := []struct {
		name        string
		r           fixedRandom
		session     domain.SessionType
		src         func(*fakeGenerator) GeneratorSource
		unfavorite  bool
		wantID      int64
		wantBranch  domain.SelectionBranch
		wantSource  domain.QuoteSource
		wantNotice  error
		wantGenCall bool
		wantLen     int
	}{
		{
			name:       "favorite branch",
			r:          fixedRandom{r: 0.1},
			session:    domain.SessionTypeWork,
			wantID:     2,
			wantBranch: domain.BranchFavorite,
			wantSource: domain.SourceFavorite,
			wantLen:    3,
		},
		{
			name:       "category branch for breaks",
			r:          fixedRandom{r: 0.5, idx: 1},
			session:    domain.SessionTypeShortBreak,
			wantID:     3,
			wantBranch: domain.BranchCategory,
			wantSource: domain.SourceCurated,
			wantLen:    3,
		},
		{
			name:       "no favorites falls through to category",
			r:          fixedRandom{r: 0.1},
			session:    domain.SessionTypeWork,
			unfavorite: true,
			wantID:     2,
			wantBranch: domain.BranchCategory,
			wantSource: domain.SourceCurated,
			wantLen:    3,
		},
		{
			name:        "no matching category generates",
			r:           fixedRandom{r: 0.5},
			session:     domain.SessionTypeWork,
			wantBranch:  domain.BranchGenerated,
			wantSource:  domain.SourceAIGenerated,
			wantGenCall: true,
			wantLen:     4,
		},
		{
			name:        "high draw generates",
			r:           fixedRandom{r: 0.95},
			session:     domain.SessionTypeLongBreak,
			wantBranch:  domain.BranchGenerated,
			wantSource:  domain.SourceAIGenerated,
			wantGenCall: true,
			wantLen:     4,
		},
		{
			name:    "no key falls back",
			r:       fixedRandom{r: 0.95},
			session: domain.SessionTypeWork,
			src: func(*fakeGenerator) GeneratorSource {
				return staticSource{err: domain.ErrNoAPIKey}
			},
			wantID:     domain.FallbackQuoteID,
			wantBranch: domain.BranchFallback,
			wantSource: domain.SourceCurated,
			wantNotice: domain.ErrNoAPIKey,
			wantLen:    3,
		},
		{
			name:    "backend failure falls back",
			r:       fixedRandom{r: 0.95},
			session: domain.SessionTypeWork,
			src: func(g *fakeGenerator) GeneratorSource {
				g.err = domain.ExternalError("generate quotes", errors.New("503"))
				return staticSource{gen: g}
			},
			wantID:      domain.FallbackQuoteID,
			wantBranch:  domain.BranchFallback,
			wantSource:  domain.SourceCurated,
			wantNotice:  domain.ErrExternalService,
			wantGenCall: true,
			wantLen:     3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{quotes: generated}
			var src GeneratorSource = staticSource{gen: gen}
			if tt.src != nil {
				src = tt.src(gen)
			}
			svc := newTestQuoteService(t, nil, src, tt.r)
			if tt.unfavorite {
				_, err := svc.ToggleFavorite(ctx, 2)
				require.NoError(t, err)
			}

			sel := svc.SelectContextual(ctx, tt.session)

			assert.Equal(t, tt.wantBranch, sel.Branch)
			assert.Equal(t, tt.wantSource, sel.Quote.Source)
			if tt.wantBranch != domain.BranchGenerated {
				assert.Equal(t, tt.wantID, sel.Quote.ID)
			} else {
				assert.Equal(t, "Fresh", sel.Quote.Text)
				assert.Equal(t, domain.VibeFor(tt.session), gen.lastVibe)
				assert.Equal(t, 1, gen.lastN)
			}
			if tt.wantNotice != nil {
				assert.ErrorIs(t, sel.Notice, tt.wantNotice)
			} else {
				assert.NoError(t, sel.Notice)
			}
			assert.Equal(t, tt.wantGenCall, gen.Calls() > 0)

			quotes, _ := svc.List(ctx)
			assert.Len(t, quotes, tt.wantLen)
		})
	}
}

func TestQuoteService_FavoriteAndRecap(t *testing.T) {
	ctx := context.Background()
	gen := &fakeGenerator{recap: &ports.GeneratedImage{Data: []byte{0xff}, MIMEType: "image/jpeg"}}
	svc := newTestQuoteService(t, nil, staticSource{gen: gen}, nil)

	fav := svc.FavoriteQuote(ctx)
	require.NotNil(t, fav)
	assert.Equal(t, int64(2), fav.ID)

	state := domain.CurrentState{CompletedWorkSessionsToday: 3, Durations: domain.DefaultDurations()}
	_, err := svc.RecapStats(ctx, state)
	assert.ErrorIs(t, err, domain.ErrNoRecapAvailable)

	state.CompletedWorkSessionsToday = 4
	stats, err := svc.RecapStats(ctx, state)
	require.NoError(t, err)
	assert.Equal(t, 100, stats.TotalFocusMin)
	assert.Equal(t, 4, stats.TotalSessions)
	require.NotNil(t, stats.FavQuote)
	assert.Equal(t, int64(2), stats.FavQuote.ID)

	img, err := svc.GenerateRecap(ctx, stats)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", img.MIMEType)
}

func TestQuoteService_ImageQuoteNeedsKey(t *testing.T) {
	svc := newTestQuoteService(t, nil, staticSource{err: domain.ErrNoAPIKey}, nil)

	_, err := svc.GenerateImageQuote(context.Background(), []byte("img"), "image/png", "calm")
	assert.ErrorIs(t, err, domain.ErrNoAPIKey)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestQuoteService_SmileLog(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	svc := newTestQuoteService(t, store, staticSource{}, nil)

	for i := 0; i < domain.MaxSmileEvents+5; i++ {
		svc.RecordSmile(ctx, int64(i), domain.SessionTypeWork, i, domain.SmileTypeSmile)
	}

	events, err := svc.SmileEvents(ctx, 0)
	require.NoError(t, err)
	require.Len(t, events, domain.MaxSmileEvents)
	assert.Equal(t, int64(domain.MaxSmileEvents+4), events[0].QuoteID, "newest first")
	assert.Equal(t, int64(5), events[len(events)-1].QuoteID, "oldest entries evicted")

	latest, err := svc.SmileEvents(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{204, 203}, []int64{latest[0].QuoteID, latest[1].QuoteID})

	reloaded := newTestQuoteService(t, store, staticSource{}, nil)
	events, err = reloaded.SmileEvents(ctx, 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, testDay.UnixMilli(), events[0].Timestamp)
}
