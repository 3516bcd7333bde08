package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/sahilm/fuzzy"
	"github.com/xvierd/focus-smile/internal/domain"
	"github.com/xvierd/focus-smile/internal/logging"
	"github.com/xvierd/focus-smile/internal/ports"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// GeneratedQuoteCount is how many quotes a bulk generation adds.
const GeneratedQuoteCount = 3

// GeneratorSource resolves the quote generator for the active API key.
type GeneratorSource interface {
	Generator(ctx context.Context) (ports.QuoteGenerator, error)
}

// Random supplies the draws used by contextual selection.
type Random interface {
	Float64() float64
	IntN(n int) int
}

type globalRandom struct{}

func (globalRandom) Float64() float64 { return rand.Float64() }
func (globalRandom) IntN(n int) int   { return rand.IntN(n) }

// Selection is the result of a contextual quote pick. Notice carries a
// non-fatal problem (no key, AI failure) that made the pick fall back.
type Selection struct {
	Quote  domain.Quote
	Branch domain.SelectionBranch
	Notice error
}

// QuoteService handles the quote collection and the smile log.
type QuoteService struct {
	store      ports.KeyValueStore
	generators GeneratorSource
	rand       Random
	now        func() time.Time
	logger     *zap.Logger

	mu       sync.Mutex
	loaded   bool
	quotes   []domain.Quote
	events   []domain.SmileEvent
	selected map[int64]bool
}

// QuoteOption configures a QuoteService.
type QuoteOption func(*QuoteService)

// WithRandom overrides the random source.
func WithRandom(r Random) QuoteOption {
	return func(s *QuoteService) { s.rand = r }
}

// WithQuoteClock overrides the clock used for ids and timestamps.
func WithQuoteClock(now func() time.Time) QuoteOption {
	return func(s *QuoteService) { s.now = now }
}

// WithQuoteLogger sets the logger.
func WithQuoteLogger(l *zap.Logger) QuoteOption {
	return func(s *QuoteService) { s.logger = logging.OrNop(l) }
}

// NewQuoteService creates a new quote service.
func NewQuoteService(store ports.KeyValueStore, generators GeneratorSource, opts ...QuoteOption) *QuoteService {
	s := &QuoteService{
		store:      store,
		generators: generators,
		rand:       globalRandom{},
		now:        time.Now,
		logger:     zap.NewNop(),
		selected:   make(map[int64]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("quotes")
	return s
}

// Load reads the collection and smile log, seeding the curated quotes on
// first run.
func (s *QuoteService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *QuoteService) loadLocked(ctx context.Context) error {
	var quotes []domain.Quote
	found, err := loadJSON(ctx, s.store, ports.KeyQuotes, &quotes)
	if err != nil {
		return err
	}
	if !found {
		quotes = domain.SeedQuotes()
	}

	var events []domain.SmileEvent
	if _, err := loadJSON(ctx, s.store, ports.KeySmileEvents, &events); err != nil {
		s.logger.Warn("ignoring unreadable smile log", zap.Error(err))
		events = nil
	}

	s.quotes = quotes
	s.events = events
	s.loaded = true
	if !found {
		s.persistQuotesLocked(ctx)
	}
	return nil
}

func (s *QuoteService) ensureLoadedLocked(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	return s.loadLocked(ctx)
}

// List returns the collection in display order.
func (s *QuoteService) List(ctx context.Context) ([]domain.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoadedLocked(ctx); err != nil {
		return nil, err
	}
	return append([]domain.Quote(nil), s.quotes...), nil
}

// Get returns the quote with id.
func (s *QuoteService) Get(ctx context.Context, id int64) (domain.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoadedLocked(ctx); err != nil {
		return domain.Quote{}, err
	}
	i := s.indexLocked(id)
	if i < 0 {
		return domain.Quote{}, domain.ErrQuoteNotFound
	}
	return s.quotes[i], nil
}

// Search returns quotes whose text or author fuzzily match query, best
// match first. An empty query returns everything.
func (s *QuoteService) Search(ctx context.Context, query string) ([]domain.Quote, error) {
	quotes, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return quotes, nil
	}

	haystack := make([]string, len(quotes))
	for i, q := range quotes {
		haystack[i] = q.Text + " " + q.Author
	}
	matches := fuzzy.Find(query, haystack)

	result := make([]domain.Quote, 0, len(matches))
	for _, m := range matches {
		result = append(result, quotes[m.Index])
	}
	return result, nil
}

// Add appends a user quote.
func (s *QuoteService) Add(ctx context.Context, text, author, category string) (domain.Quote, error) {
	q, err := domain.NewQuote(text, author, category)
	if err != nil {
		return domain.Quote{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoadedLocked(ctx); err != nil {
		return domain.Quote{}, err
	}

	q.ID = domain.NextQuoteID(s.quotes, s.now())
	s.quotes = append(s.quotes, *q)
	s.persistQuotesLocked(ctx)
	return *q, nil
}

// Update replaces text and author of a quote. category is left unchanged
// when nil.
func (s *QuoteService) Update(ctx context.Context, id int64, text, author string, category *string) (domain.Quote, error) {
	text = strings.TrimSpace(text)
	author = strings.TrimSpace(author)
	if text == "" {
		return domain.Quote{}, domain.ErrEmptyQuoteText
	}
	if author == "" {
		return domain.Quote{}, domain.ErrEmptyQuoteAuthor
	}

	return s.mutate(ctx, id, func(q *domain.Quote) error {
		q.Text = text
		q.Author = author
		if category != nil {
			q.Category = strings.TrimSpace(*category)
		}
		return nil
	})
}

// ToggleFavorite flips the favorite flag.
func (s *QuoteService) ToggleFavorite(ctx context.Context, id int64) (domain.Quote, error) {
	return s.mutate(ctx, id, func(q *domain.Quote) error {
		q.IsFavorite = !q.IsFavorite
		return nil
	})
}

// Rate sets a 1-5 rating.
func (s *QuoteService) Rate(ctx context.Context, id int64, rating float64) (domain.Quote, error) {
	if err := domain.ValidateRating(rating); err != nil {
		return domain.Quote{}, err
	}
	return s.mutate(ctx, id, func(q *domain.Quote) error {
		q.Rating = &rating
		return nil
	})
}

func (s *QuoteService) mutate(ctx context.Context, id int64, fn func(*domain.Quote) error) (domain.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoadedLocked(ctx); err != nil {
		return domain.Quote{}, err
	}

	i := s.indexLocked(id)
	if i < 0 {
		return domain.Quote{}, domain.ErrQuoteNotFound
	}
	if err := fn(&s.quotes[i]); err != nil {
		return domain.Quote{}, err
	}
	s.persistQuotesLocked(ctx)
	return s.quotes[i], nil
}

// Delete removes a quote and drops it from the selection.
func (s *QuoteService) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoadedLocked(ctx); err != nil {
		return err
	}

	i := s.indexLocked(id)
	if i < 0 {
		return domain.ErrQuoteNotFound
	}
	s.quotes = append(s.quotes[:i], s.quotes[i+1:]...)
	delete(s.selected, id)
	s.persistQuotesLocked(ctx)
	return nil
}

// ToggleSelection flips whether id is selected and returns the new state.
func (s *QuoteService) ToggleSelection(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoadedLocked(ctx); err != nil {
		return false, err
	}
	if s.indexLocked(id) < 0 {
		return false, domain.ErrQuoteNotFound
	}
	if s.selected[id] {
		delete(s.selected, id)
		return false, nil
	}
	s.selected[id] = true
	return true, nil
}

// Select marks ids as selected. Unknown ids are reported.
func (s *QuoteService) Select(ctx context.Context, ids ...int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoadedLocked(ctx); err != nil {
		return err
	}
	for _, id := range ids {
		if s.indexLocked(id) < 0 {
			return fmt.Errorf("quote %d: %w", id, domain.ErrQuoteNotFound)
		}
	}
	for _, id := range ids {
		s.selected[id] = true
	}
	return nil
}

// SelectAll selects every quote.
func (s *QuoteService) SelectAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoadedLocked(ctx); err != nil {
		return err
	}
	for _, q := range s.quotes {
		s.selected[q.ID] = true
	}
	return nil
}

// DeselectAll clears the selection.
func (s *QuoteService) DeselectAll() {
	s.mu.Lock()
	s.selected = make(map[int64]bool)
	s.mu.Unlock()
}

// Selected returns the selected quotes in display order.
func (s *QuoteService) Selected(ctx context.Context) ([]domain.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoadedLocked(ctx); err != nil {
		return nil, err
	}
	return s.selectedLocked(), nil
}

func (s *QuoteService) selectedLocked() []domain.Quote {
	var out []domain.Quote
	for _, q := range s.quotes {
		if s.selected[q.ID] {
			out = append(out, q)
		}
	}
	return out
}

// DeleteSelected removes every selected quote and clears the selection.
func (s *QuoteService) DeleteSelected(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoadedLocked(ctx); err != nil {
		return 0, err
	}

	kept := s.quotes[:0]
	removed := 0
	for _, q := range s.quotes {
		if s.selected[q.ID] {
			removed++
			continue
		}
		kept = append(kept, q)
	}
	s.quotes = kept
	s.selected = make(map[int64]bool)
	if removed > 0 {
		s.persistQuotesLocked(ctx)
	}
	return removed, nil
}

// ExportSelected renders the selected quotes as `"text" - author` blocks
// separated by blank lines.
func (s *QuoteService) ExportSelected(ctx context.Context) (string, error) {
	quotes, err := s.Selected(ctx)
	if err != nil {
		return "", err
	}
	return domain.FormatExport(quotes), nil
}

// ExportSelectedYAML renders the selected quotes as a YAML document.
func (s *QuoteService) ExportSelectedYAML(ctx context.Context) ([]byte, error) {
	quotes, err := s.Selected(ctx)
	if err != nil {
		return nil, err
	}
	doc := struct {
		Quotes []domain.Quote `yaml:"quotes"`
	}{Quotes: quotes}
	if doc.Quotes == nil {
		doc.Quotes = []domain.Quote{}
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode quotes: %w", err)
	}
	return out, nil
}

// GenerateAndAdd asks the AI backend for quotes about vibe and puts them at
// the front of the collection.
func (s *QuoteService) GenerateAndAdd(ctx context.Context, vibe string) ([]domain.Quote, error) {
	vibe = strings.TrimSpace(vibe)
	if vibe == "" {
		return nil, domain.ErrEmptyVibe
	}
	return s.generate(ctx, vibe, GeneratedQuoteCount)
}

func (s *QuoteService) generate(ctx context.Context, vibe string, count int) ([]domain.Quote, error) {
	gen, err := s.generators.Generator(ctx)
	if err != nil {
		return nil, err
	}
	generated, err := gen.GenerateQuotes(ctx, vibe, count)
	if err != nil {
		s.logger.Warn("quote generation failed", zap.String("vibe", vibe), zap.Error(err))
		return nil, err
	}
	if len(generated) == 0 {
		return nil, domain.ExternalError("generate quotes", fmt.Errorf("no quotes returned"))
	}
	if len(generated) > count {
		generated = generated[:count]
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoadedLocked(ctx); err != nil {
		return nil, err
	}

	base := domain.NextQuoteID(s.quotes, s.now())
	added := make([]domain.Quote, len(generated))
	for i, g := range generated {
		added[i] = domain.Quote{
			ID:       base + int64(i),
			Text:     g.Text,
			Author:   g.Author,
			Category: vibe,
			Source:   domain.SourceAIGenerated,
		}
	}
	s.quotes = append(added, s.quotes...)
	s.persistQuotesLocked(ctx)
	return added, nil
}

// SelectContextual picks the quote shown when a session ends. It never
// fails: when the collection has nothing suitable and generation is not
// possible the fixed fallback quote is returned with Notice set.
func (s *QuoteService) SelectContextual(ctx context.Context, sessionType domain.SessionType) Selection {
	r := s.rand.Float64()

	s.mu.Lock()
	if err := s.ensureLoadedLocked(ctx); err != nil {
		s.logger.Warn("quote collection unavailable", zap.Error(err))
	}
	quotes := append([]domain.Quote(nil), s.quotes...)
	s.mu.Unlock()

	if q, branch, ok := domain.PickFromCollection(quotes, sessionType, r, s.rand.IntN); ok {
		return Selection{Quote: q, Branch: branch}
	}

	added, err := s.generate(ctx, domain.VibeFor(sessionType), 1)
	if err != nil {
		return Selection{Quote: domain.FallbackQuote(), Branch: domain.BranchFallback, Notice: err}
	}
	return Selection{Quote: added[0], Branch: domain.BranchGenerated}
}

// GenerateImageQuote overlays a quote about theme on image. A nil result
// with a nil error means the backend produced nothing usable.
func (s *QuoteService) GenerateImageQuote(ctx context.Context, image []byte, mimeType, theme string) (*ports.ImageQuote, error) {
	gen, err := s.generators.Generator(ctx)
	if err != nil {
		return nil, err
	}
	result, err := gen.GenerateImageQuote(ctx, image, mimeType, theme)
	if err != nil {
		s.logger.Warn("image quote failed", zap.Error(err))
		return nil, err
	}
	return result, nil
}

// FavoriteQuote returns the first favorite, else the first quote, else nil.
func (s *QuoteService) FavoriteQuote(ctx context.Context) *domain.Quote {
	quotes, err := s.List(ctx)
	if err != nil {
		return nil
	}
	return domain.FavoriteOrFirst(quotes)
}

// RecapStats computes the recap figures. It fails with
// ErrNoRecapAvailable unless a recap is due.
func (s *QuoteService) RecapStats(ctx context.Context, state domain.CurrentState) (domain.RecapStats, error) {
	if !state.RecapAvailable() {
		return domain.RecapStats{}, domain.ErrNoRecapAvailable
	}
	return domain.NewRecapStats(state.CompletedWorkSessionsToday, state.Durations.Work, s.FavoriteQuote(ctx)), nil
}

// GenerateRecap renders the recap image for stats.
func (s *QuoteService) GenerateRecap(ctx context.Context, stats domain.RecapStats) (*ports.GeneratedImage, error) {
	gen, err := s.generators.Generator(ctx)
	if err != nil {
		return nil, err
	}
	img, err := gen.GenerateRecapImage(ctx, stats)
	if err != nil {
		s.logger.Warn("recap generation failed", zap.Error(err))
		return nil, err
	}
	return img, nil
}

// RecordSmile appends an event to the smile log.
func (s *QuoteService) RecordSmile(ctx context.Context, quoteID int64, sessionType domain.SessionType, sessionCount int, kind domain.SmileType) domain.SmileEvent {
	event := domain.SmileEvent{
		Timestamp:    s.now().UnixMilli(),
		QuoteID:      quoteID,
		SessionType:  sessionType,
		SessionCount: sessionCount,
		Type:         kind,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoadedLocked(ctx); err != nil {
		s.logger.Warn("smile log unavailable", zap.Error(err))
	}
	s.events = domain.AppendSmileEvent(s.events, event)
	if err := saveJSON(ctx, s.store, ports.KeySmileEvents, s.events); err != nil {
		s.logger.Warn("failed to persist smile log", zap.Error(err))
	}
	return event
}

// SmileEvents returns up to limit of the most recent events, newest first.
// A non-positive limit returns all of them.
func (s *QuoteService) SmileEvents(ctx context.Context, limit int) ([]domain.SmileEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoadedLocked(ctx); err != nil {
		return nil, err
	}

	n := len(s.events)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]domain.SmileEvent, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, s.events[i])
	}
	return out, nil
}

func (s *QuoteService) indexLocked(id int64) int {
	for i, q := range s.quotes {
		if q.ID == id {
			return i
		}
	}
	return -1
}

// persistQuotesLocked writes the collection. Failures are logged only.
func (s *QuoteService) persistQuotesLocked(ctx context.Context) {
	if err := saveJSON(ctx, s.store, ports.KeyQuotes, s.quotes); err != nil {
		s.logger.Warn("failed to persist quotes", zap.Error(err))
	}
}
