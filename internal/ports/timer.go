package ports

import (
	"context"

	"github.com/xvierd/focus-smile/internal/domain"
)

// Ticker drives the session timer once per elapsed second.
// This is a driven port (implemented by adapters).
type Ticker interface {
	// Start begins calling onTick. Calling Start on a running ticker has no
	// effect, so two tick loops never coexist.
	Start(onTick func())

	// Stop halts the tick loop. It is safe to call on a stopped ticker.
	Stop()
}

// Notifier presents desktop notifications.
// This is a driven port (implemented by adapters).
type Notifier interface {
	// Notify shows a notification. Implementations are best effort.
	Notify(title, body string) error
}

// TimerView defines the interface for the interactive timer display.
// This is a driving port (called by the application layer).
type TimerView interface {
	// Run starts the interface and blocks until the user quits.
	Run(ctx context.Context, initialState domain.CurrentState) error

	// Stop gracefully stops the interface.
	Stop()

	// NotifyWorkFinished tells the view that a work session ended and a
	// smile prompt should be shown.
	NotifyWorkFinished(state domain.CurrentState)
}
