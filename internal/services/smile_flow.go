package services

import (
	"context"
	"sync"

	"github.com/xvierd/focus-smile/internal/domain"
)

// Prompt is one showing of the smile prompt. Token and Epoch identify it so
// a late answer can be recognized as stale.
type Prompt struct {
	Token        uint64
	Epoch        uint64
	Quote        domain.Quote
	Branch       domain.SelectionBranch
	Notice       error
	SessionType  domain.SessionType
	SessionCount int
}

// Resolution is the outcome of answering a prompt.
type Resolution struct {
	Next           domain.SessionType
	Event          domain.SmileEvent
	RecapAvailable bool
}

// SmileFlow connects the end of a work session to the quote selector and
// the smile log.
type SmileFlow struct {
	timer  *TimerService
	quotes *QuoteService

	mu    sync.Mutex
	token uint64
}

// NewSmileFlow creates a new smile flow.
func NewSmileFlow(timer *TimerService, quotes *QuoteService) *SmileFlow {
	return &SmileFlow{timer: timer, quotes: quotes}
}

// Prompt selects a quote for the finished work session. Every call issues a
// new token, so earlier prompts become stale.
func (f *SmileFlow) Prompt(ctx context.Context) (Prompt, error) {
	state := f.timer.State()
	if !state.IsAwaitingConfirmation() {
		return Prompt{}, domain.ErrNotAwaitingConfirmation
	}

	f.mu.Lock()
	f.token++
	token := f.token
	f.mu.Unlock()

	sel := f.quotes.SelectContextual(ctx, state.Timer.SessionType)
	return Prompt{
		Token:        token,
		Epoch:        state.Epoch,
		Quote:        sel.Quote,
		Branch:       sel.Branch,
		Notice:       sel.Notice,
		SessionType:  state.Timer.SessionType,
		SessionCount: state.Timer.SessionCount,
	}, nil
}

// IsCurrent reports whether p is the latest prompt and the timer has not
// moved on since it was issued.
func (f *SmileFlow) IsCurrent(p Prompt) bool {
	f.mu.Lock()
	token := f.token
	f.mu.Unlock()
	return p.Token == token && p.Epoch == f.timer.State().Epoch
}

// Resolve answers p with kind, advances the timer and records the event.
// A stale prompt is rejected with ErrStalePrompt and changes nothing.
func (f *SmileFlow) Resolve(ctx context.Context, p Prompt, kind domain.SmileType) (Resolution, error) {
	f.mu.Lock()
	current := p.Token == f.token
	f.mu.Unlock()
	if !current {
		return Resolution{}, domain.ErrStalePrompt
	}

	next, err := f.timer.ConfirmAndAdvanceAt(ctx, p.Epoch)
	if err != nil {
		return Resolution{}, err
	}
	f.Invalidate()

	event := f.quotes.RecordSmile(ctx, p.Quote.ID, p.SessionType, p.SessionCount, kind)
	return Resolution{
		Next:           next,
		Event:          event,
		RecapAvailable: f.timer.State().RecapAvailable(),
	}, nil
}

// Invalidate makes every outstanding prompt stale.
func (f *SmileFlow) Invalidate() {
	f.mu.Lock()
	f.token++
	f.mu.Unlock()
}
