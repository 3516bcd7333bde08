package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/focus-smile/internal/adapters/clock"
	"github.com/xvierd/focus-smile/internal/adapters/storage"
	"github.com/xvierd/focus-smile/internal/domain"
	"github.com/xvierd/focus-smile/internal/ports"
	"go.uber.org/zap/zaptest"
)

var testDay = time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

func newTestTimerService(t *testing.T, store ports.KeyValueStore, d domain.SessionDurations, opts ...TimerOption) (*TimerService, *clock.Manual) {
	t.Helper()
	ticker := clock.NewManual()
	opts = append([]TimerOption{WithLogger(zaptest.NewLogger(t)), WithClock(func() time.Time { return testDay })}, opts...)
	svc := NewTimerService(store, ticker, domain.TimerSettings{Durations: d, Sound: true}, opts...)
	require.NoError(t, svc.Restore(context.Background()))
	return svc, ticker
}

func TestTimerService_WorkSessionAwaitsConfirmation(t *testing.T) {
	ctx := context.Background()
	notifier := &recordingNotifier{}
	svc, ticker := newTestTimerService(t, storage.NewMemory(), domain.SessionDurations{Work: 3, ShortBreak: 2, LongBreak: 4}, WithNotifier(notifier))

	var finished []domain.CurrentState
	svc.SetOnWorkFinished(func(st domain.CurrentState) { finished = append(finished, st) })

	require.True(t, svc.Start(ctx))
	assert.False(t, svc.Start(ctx), "second start is a no-op")
	assert.True(t, ticker.Running())

	assert.Equal(t, 3, ticker.Fire(10), "ticker must stop on completion")
	assert.False(t, ticker.Running())

	state := svc.State()
	assert.Equal(t, domain.TimerAwaitingConfirmation, state.Status)
	assert.Equal(t, 0, state.Timer.RemainingSec)
	require.Len(t, finished, 1)
	assert.True(t, finished[0].IsAwaitingConfirmation())

	svc.Shutdown(ctx)
	assert.Equal(t, []string{"Focus session complete"}, notifier.Titles())

	next, err := svc.ConfirmAndAdvance(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionTypeShortBreak, next)
	assert.Equal(t, 1, svc.State().CompletedWorkSessionsToday)
}

func TestTimerService_BreakAdvancesAutomatically(t *testing.T) {
	ctx := context.Background()
	notifier := &recordingNotifier{}
	svc, ticker := newTestTimerService(t, storage.NewMemory(), domain.SessionDurations{Work: 3, ShortBreak: 2, LongBreak: 4}, WithNotifier(notifier))

	var started []domain.SessionType
	svc.SetOnSessionStarted(func(next domain.SessionType) { started = append(started, next) })

	svc.Skip(ctx)
	require.Equal(t, domain.SessionTypeShortBreak, svc.State().Timer.SessionType)

	svc.Start(ctx)
	ticker.Fire(2)

	state := svc.State()
	assert.Equal(t, domain.TimerIdle, state.Status)
	assert.Equal(t, domain.SessionTypeWork, state.Timer.SessionType)
	assert.Equal(t, 3, state.Timer.RemainingSec)
	assert.Equal(t, 1, state.Timer.SessionCount)
	assert.Equal(t, []domain.SessionType{domain.SessionTypeWork}, started)
	assert.False(t, ticker.Running(), "next session does not auto-start")

	svc.Shutdown(ctx)
	assert.Equal(t, []string{"Break over"}, notifier.Titles())
}

func TestTimerService_PauseAndResume(t *testing.T) {
	ctx := context.Background()
	svc, ticker := newTestTimerService(t, storage.NewMemory(), domain.DefaultDurations())

	assert.False(t, svc.Pause(ctx))
	svc.Start(ctx)
	ticker.Fire(10)
	require.True(t, svc.Pause(ctx))
	assert.False(t, ticker.Running())

	assert.Zero(t, ticker.Fire(5))
	assert.Equal(t, 1490, svc.State().Timer.RemainingSec)

	svc.Start(ctx)
	ticker.Fire(5)
	assert.Equal(t, 1485, svc.State().Timer.RemainingSec)
	assert.Equal(t, 2, ticker.Starts())
}

func TestTimerService_StaleRunIgnored(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestTimerService(t, storage.NewMemory(), domain.DefaultDurations())

	svc.Start(ctx)
	svc.mu.Lock()
	oldRun := svc.run
	svc.mu.Unlock()

	svc.Pause(ctx)
	svc.Start(ctx)
	svc.tick(oldRun)

	assert.Equal(t, 1500, svc.State().Timer.RemainingSec, "tick from a superseded run must not count")
}

func TestTimerService_PersistsAndRestores(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	svc, ticker := newTestTimerService(t, store, domain.DefaultDurations())

	svc.Start(ctx)
	ticker.Fire(100)
	svc.Shutdown(ctx)

	restored, _ := newTestTimerService(t, store, domain.DefaultDurations())
	state := restored.State()
	assert.Equal(t, domain.TimerIdle, state.Status, "restored timer is always idle")
	assert.Equal(t, 1400, state.Timer.RemainingSec)
	assert.Equal(t, domain.SessionTypeWork, state.Timer.SessionType)
}

func TestTimerService_RestoreResetsDailyCountOnNewDay(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	snap := domain.TimerSnapshot{
		Settings:                   domain.DefaultTimerSettings(),
		TimerState:                 domain.TimerState{RemainingSec: 1500, SessionType: domain.SessionTypeWork, SessionCount: 2},
		CompletedWorkSessionsToday: 3,
		Day:                        "2026-10-14",
	}
	data, _ := json.Marshal(snap)
	require.NoError(t, store.Set(ctx, map[string][]byte{ports.KeyTimerState: data}))

	svc, _ := newTestTimerService(t, store, domain.DefaultDurations())

	state := svc.State()
	assert.Zero(t, state.CompletedWorkSessionsToday)
	assert.Equal(t, 2, state.Timer.SessionCount)
}

func TestTimerService_RestoreIgnoresCorruptSnapshot(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	require.NoError(t, store.Set(ctx, map[string][]byte{ports.KeyTimerState: []byte("{oops")}))

	svc, _ := newTestTimerService(t, store, domain.SessionDurations{Work: 60, ShortBreak: 10, LongBreak: 20})

	assert.Equal(t, 60, svc.State().Timer.RemainingSec)
}

func TestTimerService_PersistenceFailureTolerated(t *testing.T) {
	ctx := context.Background()
	svc, ticker := newTestTimerService(t, failingStore{storage.NewMemory()}, domain.SessionDurations{Work: 2, ShortBreak: 1, LongBreak: 1})

	require.True(t, svc.Start(ctx))
	ticker.Fire(2)

	assert.True(t, svc.State().IsAwaitingConfirmation())
	next, err := svc.ConfirmAndAdvance(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionTypeShortBreak, next)
}

func TestTimerService_ResetCancelsPendingConfirmation(t *testing.T) {
	ctx := context.Background()
	svc, ticker := newTestTimerService(t, storage.NewMemory(), domain.SessionDurations{Work: 1, ShortBreak: 1, LongBreak: 1})

	svc.Start(ctx)
	ticker.Fire(1)
	epoch := svc.State().Epoch

	state := svc.Reset(ctx)
	assert.Equal(t, domain.TimerIdle, state.Status)
	assert.Equal(t, 1, state.Timer.RemainingSec)

	_, err := svc.ConfirmAndAdvanceAt(ctx, epoch)
	assert.ErrorIs(t, err, domain.ErrStalePrompt)

	_, err = svc.ConfirmAndAdvance(ctx)
	assert.ErrorIs(t, err, domain.ErrNotAwaitingConfirmation)
}

func TestTimerService_UpdateSettings(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestTimerService(t, storage.NewMemory(), domain.DefaultDurations())

	merged, err := svc.UpdateSettings(ctx, domain.SessionDurations{Work: 50 * 60})
	require.NoError(t, err)
	assert.Equal(t, domain.SessionDurations{Work: 3000, ShortBreak: 300, LongBreak: 900}, merged)
	assert.Equal(t, 3000, svc.State().Timer.RemainingSec)

	svc.SetSound(ctx, false)
	assert.False(t, svc.Settings().Sound)
	assert.False(t, svc.Snapshot().Settings.Sound)
}

func TestTimerService_SoundAppliedToNotifier(t *testing.T) {
	ctx := context.Background()
	notifier := &recordingNotifier{}
	svc, _ := newTestTimerService(t, storage.NewMemory(), domain.DefaultDurations(), WithNotifier(notifier))

	svc.SetSound(ctx, false)

	require.NotNil(t, notifier.sound)
	assert.False(t, *notifier.sound)
}

func TestTimerService_FourthSessionScenario(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	snap := domain.TimerSnapshot{
		Settings:                   domain.DefaultTimerSettings(),
		TimerState:                 domain.TimerState{RemainingSec: 1500, SessionType: domain.SessionTypeWork},
		CompletedWorkSessionsToday: 3,
		Day:                        domain.DayKey(testDay),
	}
	data, _ := json.Marshal(snap)
	require.NoError(t, store.Set(ctx, map[string][]byte{ports.KeyTimerState: data}))

	svc, ticker := newTestTimerService(t, store, domain.DefaultDurations())

	svc.Start(ctx)
	ticker.Fire(1500)
	next, err := svc.ConfirmAndAdvance(ctx)
	require.NoError(t, err)

	state := svc.State()
	assert.Equal(t, 4, state.CompletedWorkSessionsToday)
	assert.Equal(t, domain.SessionTypeLongBreak, next)
	assert.Equal(t, 900, state.Timer.RemainingSec)
	assert.True(t, state.RecapAvailable())

	svc.Start(ctx)
	ticker.Fire(900)

	state = svc.State()
	assert.Equal(t, domain.SessionTypeWork, state.Timer.SessionType)
	assert.Equal(t, 1, state.Timer.SessionCount)
}
