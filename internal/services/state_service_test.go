package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/focus-smile/internal/adapters/storage"
	"github.com/xvierd/focus-smile/internal/domain"
)

func newTestStateService(t *testing.T) (*StateService, *QuoteService) {
	t.Helper()
	store := storage.NewMemory()
	timer, _ := newTestTimerService(t, store, domain.DefaultDurations())
	quotes := newTestQuoteService(t, store, staticSource{}, fixedRandom{r: 0.1})
	return NewStateService(timer, quotes), quotes
}

func TestStateService_TimerCommands(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestStateService(t)

	state, err := svc.GetCurrentState(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1500, state.Timer.RemainingSec)

	_, err = svc.PauseTimer(ctx)
	assert.ErrorIs(t, err, domain.ErrTimerNotRunning)

	state, err = svc.StartTimer(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.TimerRunning, state.Status)

	_, err = svc.StartTimer(ctx)
	assert.ErrorIs(t, err, domain.ErrTimerNotIdle)

	state, err = svc.PauseTimer(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.TimerIdle, state.Status)

	state, err = svc.SkipSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionTypeShortBreak, state.Timer.SessionType)

	state, err = svc.ResetTimer(ctx)
	require.NoError(t, err)
	assert.Equal(t, 300, state.Timer.RemainingSec)
}

func TestStateService_Quotes(t *testing.T) {
	ctx := context.Background()
	svc, quotes := newTestStateService(t)

	list, err := svc.ListQuotes(ctx, "focus")
	require.NoError(t, err)
	require.NotEmpty(t, list)
	assert.Equal(t, int64(2), list[0].ID)

	added, err := svc.AddQuote(ctx, "Less but better.", "Dieter Rams", "design")
	require.NoError(t, err)

	fav, err := svc.ToggleFavorite(ctx, added.ID)
	require.NoError(t, err)
	assert.True(t, fav.IsFavorite)

	q, branch, notice := svc.ContextualQuote(ctx, domain.SessionTypeWork)
	assert.NoError(t, notice)
	assert.Equal(t, domain.BranchFavorite, branch)
	assert.Equal(t, int64(2), q.ID)

	quotes.RecordSmile(ctx, 2, domain.SessionTypeWork, 0, domain.SmileTypeSmile)
	history, err := svc.GetSmileHistory(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}
