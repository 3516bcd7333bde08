package clock

import (
	"sync"

	"github.com/xvierd/focus-smile/internal/ports"
)

// Manual is a ticker that only fires when told to. Fire runs the callback
// synchronously on the caller's goroutine.
type Manual struct {
	mu     sync.Mutex
	onTick func()
	starts int
}

// Ensure Manual implements ports.Ticker.
var _ ports.Ticker = (*Manual)(nil)

// NewManual returns a stopped manual ticker.
func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) Start(onTick func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.onTick != nil {
		return
	}
	m.onTick = onTick
	m.starts++
}

func (m *Manual) Stop() {
	m.mu.Lock()
	m.onTick = nil
	m.mu.Unlock()
}

// Running reports whether a callback is registered.
func (m *Manual) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.onTick != nil
}

// Starts returns how many times the ticker went from stopped to running.
func (m *Manual) Starts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.starts
}

// Fire delivers n ticks, stopping early if the ticker is stopped in between.
// It returns the number of ticks delivered.
func (m *Manual) Fire(n int) int {
	fired := 0
	for i := 0; i < n; i++ {
		m.mu.Lock()
		fn := m.onTick
		m.mu.Unlock()
		if fn == nil {
			break
		}
		fn()
		fired++
	}
	return fired
}
