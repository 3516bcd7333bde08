package ports

import (
	"context"

	"github.com/xvierd/focus-smile/internal/domain"
)

// MCPHandler defines the interface for MCP server operations.
// This is a driving port (called by the application layer).
type MCPHandler interface {
	// Start begins serving MCP requests and blocks until ctx is done or the
	// transport closes.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the server.
	Stop() error

	// IsRunning returns true if the server is active.
	IsRunning() bool
}

// MCPStateProvider provides state and commands to the MCP server.
// This is a driven port (implemented by services layer).
type MCPStateProvider interface {
	// GetCurrentState returns the current timer state.
	GetCurrentState(ctx context.Context) (domain.CurrentState, error)

	// StartTimer starts counting down. It fails with domain.ErrTimerNotIdle
	// when the timer is running or awaiting confirmation.
	StartTimer(ctx context.Context) (domain.CurrentState, error)

	// PauseTimer pauses a running timer.
	PauseTimer(ctx context.Context) (domain.CurrentState, error)

	// ResetTimer rewinds the current session.
	ResetTimer(ctx context.Context) (domain.CurrentState, error)

	// SkipSession jumps to the next session.
	SkipSession(ctx context.Context) (domain.CurrentState, error)

	// ListQuotes returns quotes, fuzzy-filtered when query is non-empty.
	ListQuotes(ctx context.Context, query string) ([]domain.Quote, error)

	// AddQuote adds a user quote to the collection.
	AddQuote(ctx context.Context, text, author, category string) (domain.Quote, error)

	// ToggleFavorite flips the favorite flag of a quote.
	ToggleFavorite(ctx context.Context, id int64) (domain.Quote, error)

	// ContextualQuote runs the contextual selection for a session type
	// without touching the timer. notice is set when selection fell back.
	ContextualQuote(ctx context.Context, sessionType domain.SessionType) (q domain.Quote, branch domain.SelectionBranch, notice error)

	// GetSmileHistory returns up to limit of the most recent smile events,
	// newest first.
	GetSmileHistory(ctx context.Context, limit int) ([]domain.SmileEvent, error)
}
