package services

import (
	"context"

	"github.com/xvierd/focus-smile/internal/domain"
	"github.com/xvierd/focus-smile/internal/ports"
)

// StateService implements the MCPStateProvider interface.
type StateService struct {
	timer  *TimerService
	quotes *QuoteService
}

// NewStateService creates a new state service.
func NewStateService(timer *TimerService, quotes *QuoteService) *StateService {
	return &StateService{timer: timer, quotes: quotes}
}

// GetCurrentState implements ports.MCPStateProvider.
func (s *StateService) GetCurrentState(ctx context.Context) (domain.CurrentState, error) {
	return s.timer.State(), nil
}

// StartTimer implements ports.MCPStateProvider.
func (s *StateService) StartTimer(ctx context.Context) (domain.CurrentState, error) {
	if !s.timer.Start(ctx) {
		return s.timer.State(), domain.ErrTimerNotIdle
	}
	return s.timer.State(), nil
}

// PauseTimer implements ports.MCPStateProvider.
func (s *StateService) PauseTimer(ctx context.Context) (domain.CurrentState, error) {
	if !s.timer.Pause(ctx) {
		return s.timer.State(), domain.ErrTimerNotRunning
	}
	return s.timer.State(), nil
}

// ResetTimer implements ports.MCPStateProvider.
func (s *StateService) ResetTimer(ctx context.Context) (domain.CurrentState, error) {
	return s.timer.Reset(ctx), nil
}

// SkipSession implements ports.MCPStateProvider.
func (s *StateService) SkipSession(ctx context.Context) (domain.CurrentState, error) {
	s.timer.Skip(ctx)
	return s.timer.State(), nil
}

// ListQuotes implements ports.MCPStateProvider.
func (s *StateService) ListQuotes(ctx context.Context, query string) ([]domain.Quote, error) {
	return s.quotes.Search(ctx, query)
}

// AddQuote implements ports.MCPStateProvider.
func (s *StateService) AddQuote(ctx context.Context, text, author, category string) (domain.Quote, error) {
	return s.quotes.Add(ctx, text, author, category)
}

// ToggleFavorite implements ports.MCPStateProvider.
func (s *StateService) ToggleFavorite(ctx context.Context, id int64) (domain.Quote, error) {
	return s.quotes.ToggleFavorite(ctx, id)
}

// ContextualQuote implements ports.MCPStateProvider.
func (s *StateService) ContextualQuote(ctx context.Context, sessionType domain.SessionType) (domain.Quote, domain.SelectionBranch, error) {
	sel := s.quotes.SelectContextual(ctx, sessionType)
	return sel.Quote, sel.Branch, sel.Notice
}

// GetSmileHistory implements ports.MCPStateProvider.
func (s *StateService) GetSmileHistory(ctx context.Context, limit int) ([]domain.SmileEvent, error) {
	return s.quotes.SmileEvents(ctx, limit)
}

// Ensure StateService implements MCPStateProvider.
var _ ports.MCPStateProvider = (*StateService)(nil)
