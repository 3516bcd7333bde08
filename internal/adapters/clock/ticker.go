// Package clock provides the tick sources that drive the session timer.
package clock

import (
	"sync"
	"time"

	"github.com/xvierd/focus-smile/internal/ports"
)

// WallTicker calls onTick once per interval of wall-clock time.
type WallTicker struct {
	interval time.Duration

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// Ensure WallTicker implements ports.Ticker.
var _ ports.Ticker = (*WallTicker)(nil)

// NewWallTicker returns a ticker firing every interval (one second when
// interval is not positive).
func NewWallTicker(interval time.Duration) *WallTicker {
	if interval <= 0 {
		interval = time.Second
	}
	return &WallTicker{interval: interval}
}

// Start launches the tick loop. It is ignored while a loop is running.
func (w *WallTicker) Start(onTick func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stop != nil {
		return
	}
	stop := make(chan struct{})
	done := make(chan struct{})
	w.stop, w.done = stop, done

	go func() {
		defer close(done)
		t := time.NewTicker(w.interval)
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				select {
				case <-stop:
					return
				default:
				}
				onTick()
			}
		}
	}()
}

// Stop signals the loop to exit. It does not wait, so onTick may call Stop.
func (w *WallTicker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stop == nil {
		return
	}
	close(w.stop)
	w.stop = nil
}

// Wait blocks until the most recently started loop has exited.
func (w *WallTicker) Wait() {
	w.mu.Lock()
	done := w.done
	w.mu.Unlock()
	if done != nil {
		<-done
	}
}
