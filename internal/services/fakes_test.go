package services

import (
	"context"
	"errors"
	"sync"

	"github.com/xvierd/focus-smile/internal/domain"
	"github.com/xvierd/focus-smile/internal/ports"
)

// fixedRandom returns the same draw every time and always picks index idx.
type fixedRandom struct {
	r   float64
	idx int
}

func (f fixedRandom) Float64() float64 { return f.r }
func (f fixedRandom) IntN(n int) int {
	if f.idx >= n {
		return n - 1
	}
	return f.idx
}

// fakeGenerator is a scripted ports.QuoteGenerator.
type fakeGenerator struct {
	mu       sync.Mutex
	quotes   []ports.GeneratedQuote
	image    *ports.ImageQuote
	recap    *ports.GeneratedImage
	err      error
	calls    int
	lastVibe string
	lastN    int
}

func (g *fakeGenerator) GenerateQuotes(ctx context.Context, vibe string, count int) ([]ports.GeneratedQuote, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.lastVibe, g.lastN = vibe, count
	if g.err != nil {
		return nil, g.err
	}
	return g.quotes, nil
}

func (g *fakeGenerator) GenerateImageQuote(ctx context.Context, image []byte, mimeType, theme string) (*ports.ImageQuote, error) {
	return g.image, g.err
}

func (g *fakeGenerator) GenerateRecapImage(ctx context.Context, stats domain.RecapStats) (*ports.GeneratedImage, error) {
	return g.recap, g.err
}

func (g *fakeGenerator) Ping(ctx context.Context) error { return g.err }

func (g *fakeGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// staticSource hands out one generator or an error. Without a generator
// it behaves like a missing API key.
type staticSource struct {
	gen ports.QuoteGenerator
	err error
}

func (s staticSource) Generator(ctx context.Context) (ports.QuoteGenerator, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.gen == nil {
		return nil, domain.ErrNoAPIKey
	}
	return s.gen, nil
}

// recordingNotifier stores notification titles.
type recordingNotifier struct {
	mu     sync.Mutex
	titles []string
	sound  *bool
}

func (n *recordingNotifier) Notify(title, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.titles = append(n.titles, title)
	return nil
}

func (n *recordingNotifier) SetSound(on bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sound = &on
}

func (n *recordingNotifier) Titles() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.titles...)
}

// failingStore rejects every write.
type failingStore struct {
	ports.KeyValueStore
}

var errDiskFull = errors.New("disk full")

func (f failingStore) Set(ctx context.Context, values map[string][]byte) error {
	return errDiskFull
}
