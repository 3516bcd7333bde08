package services

import (
	"context"
	"sync"
	"time"

	"github.com/xvierd/focus-smile/internal/domain"
	"github.com/xvierd/focus-smile/internal/logging"
	"github.com/xvierd/focus-smile/internal/ports"
	"go.uber.org/zap"
)

// soundSetter is implemented by notifiers whose alert sound can be toggled.
type soundSetter interface {
	SetSound(on bool)
}

// TimerService owns the session timer: it drives it from a ticker, persists
// every change and raises notifications at session boundaries. All mutation
// is serialized by one mutex because ticks and commands arrive on different
// goroutines.
type TimerService struct {
	store    ports.KeyValueStore
	ticker   ports.Ticker
	notifier ports.Notifier
	logger   *zap.Logger
	now      func() time.Time
	defaults domain.TimerSettings

	mu    sync.Mutex
	timer *domain.SessionTimer
	sound bool
	day   string
	run   uint64
	epoch uint64

	onWorkFinished   func(domain.CurrentState)
	onSessionStarted func(domain.SessionType)
	dispatch         sync.WaitGroup
}

// TimerOption configures a TimerService.
type TimerOption func(*TimerService)

// WithNotifier sets the notifier used at session boundaries.
func WithNotifier(n ports.Notifier) TimerOption {
	return func(s *TimerService) { s.notifier = n }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) TimerOption {
	return func(s *TimerService) { s.logger = logging.OrNop(l) }
}

// WithClock overrides the wall clock used for the daily counter.
func WithClock(now func() time.Time) TimerOption {
	return func(s *TimerService) { s.now = now }
}

// NewTimerService creates a timer service. defaults apply until Restore
// finds a persisted snapshot.
func NewTimerService(store ports.KeyValueStore, ticker ports.Ticker, defaults domain.TimerSettings, opts ...TimerOption) *TimerService {
	if defaults.Durations.Validate() != nil {
		defaults.Durations = domain.DefaultDurations()
	}
	s := &TimerService{
		store:    store,
		ticker:   ticker,
		logger:   zap.NewNop(),
		now:      time.Now,
		defaults: defaults,
		sound:    defaults.Sound,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("timer")
	s.timer = domain.RestoreSessionTimer(defaults.Durations, domain.TimerState{
		RemainingSec: defaults.Durations.Work,
		SessionType:  domain.SessionTypeWork,
	}, 0)
	s.day = domain.DayKey(s.now())
	return s
}

// SetOnWorkFinished registers a callback fired when a work session reaches
// zero. It runs outside the service lock.
func (s *TimerService) SetOnWorkFinished(fn func(domain.CurrentState)) {
	s.mu.Lock()
	s.onWorkFinished = fn
	s.mu.Unlock()
}

// SetOnSessionStarted registers a callback fired when a break ends and the
// timer advanced on its own.
func (s *TimerService) SetOnSessionStarted(fn func(domain.SessionType)) {
	s.mu.Lock()
	s.onSessionStarted = fn
	s.mu.Unlock()
}

// Restore loads the persisted snapshot. A missing or unreadable snapshot
// leaves the defaults in place. The restored timer is always idle.
func (s *TimerService) Restore(ctx context.Context) error {
	var snap domain.TimerSnapshot
	found, err := loadJSON(ctx, s.store, ports.KeyTimerState, &snap)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.logger.Warn("ignoring unreadable timer snapshot", zap.Error(err))
		return nil
	}
	if !found {
		s.applySoundLocked()
		return nil
	}

	s.timer = domain.RestoreSessionTimer(snap.Settings.Durations, snap.TimerState, snap.CompletedWorkSessionsToday)
	s.sound = snap.Settings.Sound
	today := domain.DayKey(s.now())
	if snap.Day != "" && snap.Day != today {
		s.timer.ResetDailyCount()
	}
	s.day = today
	s.applySoundLocked()

	s.logger.Debug("timer restored",
		zap.String("session", string(snap.TimerState.SessionType)),
		zap.Int("remaining", snap.TimerState.RemainingSec),
		zap.Int("completed_today", s.timer.CompletedWorkSessionsToday()))
	return nil
}

// Start begins counting down. It returns false when the timer was not idle.
func (s *TimerService) Start(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rollDayLocked()
	if !s.timer.Start() {
		return false
	}
	s.run++
	run := s.run
	s.ticker.Start(func() { s.tick(run) })
	s.persistLocked(ctx)
	return true
}

// Pause stops counting down. It returns false when the timer was not running.
func (s *TimerService) Pause(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.timer.Pause() {
		return false
	}
	s.stopTickerLocked()
	s.persistLocked(ctx)
	return true
}

// Reset rewinds the current session and cancels any pending confirmation.
func (s *TimerService) Reset(ctx context.Context) domain.CurrentState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.timer.Reset()
	s.stopTickerLocked()
	s.epoch++
	s.persistLocked(ctx)
	return s.stateLocked()
}

// Skip jumps to the next session without confirmation.
func (s *TimerService) Skip(ctx context.Context) domain.SessionType {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rollDayLocked()
	next := s.timer.Skip()
	s.stopTickerLocked()
	s.epoch++
	s.persistLocked(ctx)
	return next
}

// ConfirmAndAdvance resolves a finished work session.
func (s *TimerService) ConfirmAndAdvance(ctx context.Context) (domain.SessionType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.confirmLocked(ctx)
}

// ConfirmAndAdvanceAt resolves a finished work session only if no session
// change happened since epoch was observed.
func (s *TimerService) ConfirmAndAdvanceAt(ctx context.Context, epoch uint64) (domain.SessionType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.epoch {
		return s.timer.State().SessionType, domain.ErrStalePrompt
	}
	return s.confirmLocked(ctx)
}

func (s *TimerService) confirmLocked(ctx context.Context) (domain.SessionType, error) {
	s.rollDayLocked()
	next, err := s.timer.ConfirmAndAdvance()
	if err != nil {
		return next, err
	}
	s.epoch++
	s.persistLocked(ctx)
	return next, nil
}

// UpdateSettings merges patch into the duration table. Non-positive fields
// of patch keep their current value.
func (s *TimerService) UpdateSettings(ctx context.Context, patch domain.SessionDurations) (domain.SessionDurations, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := s.timer.Durations().Merge(patch)
	if err := s.timer.UpdateSettings(merged); err != nil {
		return s.timer.Durations(), err
	}
	s.persistLocked(ctx)
	return merged, nil
}

// SetSound toggles the notification sound.
func (s *TimerService) SetSound(ctx context.Context, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sound = on
	s.applySoundLocked()
	s.persistLocked(ctx)
}

// State returns a read-only view of the timer.
func (s *TimerService) State() domain.CurrentState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Settings returns the current timer settings.
func (s *TimerService) Settings() domain.TimerSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.TimerSettings{Durations: s.timer.Durations(), Sound: s.sound}
}

// Snapshot returns the persisted form of the timer.
func (s *TimerService) Snapshot() domain.TimerSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Shutdown stops ticking and writes a final snapshot. Notifications already
// dispatched are awaited.
func (s *TimerService) Shutdown(ctx context.Context) {
	s.mu.Lock()
	s.stopTickerLocked()
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.dispatch.Wait()
}

// tick handles one ticker callback for the run that registered it.
func (s *TimerService) tick(run uint64) {
	s.mu.Lock()
	if run != s.run {
		s.mu.Unlock()
		return
	}

	outcome := s.timer.Tick()
	ctx := context.Background()

	var afterUnlock func()
	switch outcome {
	case domain.TickIgnored:
		s.stopTickerLocked()
	case domain.TickCounted:
		s.persistLocked(ctx)
	case domain.TickWorkFinished:
		s.stopTickerLocked()
		s.epoch++
		s.persistLocked(ctx)
		state := s.stateLocked()
		cb := s.onWorkFinished
		minutes := s.timer.Durations().Work / 60
		s.logger.Info("work session finished", zap.Int("session_count", state.Timer.SessionCount))
		afterUnlock = func() {
			s.notify(workFinishedMessage(minutes))
			if cb != nil {
				cb(state)
			}
		}
	case domain.TickBreakFinished:
		s.stopTickerLocked()
		s.epoch++
		s.rollDayLocked()
		s.persistLocked(ctx)
		next := s.timer.State().SessionType
		cb := s.onSessionStarted
		s.logger.Info("break finished", zap.String("next", string(next)))
		afterUnlock = func() {
			s.notify(sessionStartedMessage(next))
			if cb != nil {
				cb(next)
			}
		}
	}
	s.mu.Unlock()

	if afterUnlock != nil {
		afterUnlock()
	}
}

// notify sends a notification on its own goroutine so a slow desktop
// notifier never delays ticking.
func (s *TimerService) notify(title, body string) {
	if s.notifier == nil {
		return
	}
	s.dispatch.Add(1)
	go func() {
		defer s.dispatch.Done()
		if err := s.notifier.Notify(title, body); err != nil {
			s.logger.Debug("notification failed", zap.Error(err))
		}
	}()
}

func (s *TimerService) stopTickerLocked() {
	s.ticker.Stop()
	s.run++
}

// rollDayLocked zeroes the daily counter when the calendar day changed.
func (s *TimerService) rollDayLocked() {
	today := domain.DayKey(s.now())
	if today != s.day {
		s.timer.ResetDailyCount()
		s.day = today
	}
}

func (s *TimerService) applySoundLocked() {
	if ss, ok := s.notifier.(soundSetter); ok {
		ss.SetSound(s.sound)
	}
}

func (s *TimerService) stateLocked() domain.CurrentState {
	return domain.CurrentState{
		Timer:                      s.timer.State(),
		Status:                     s.timer.Status(),
		Durations:                  s.timer.Durations(),
		CompletedWorkSessionsToday: s.timer.CompletedWorkSessionsToday(),
		Epoch:                      s.epoch,
	}
}

func (s *TimerService) snapshotLocked() domain.TimerSnapshot {
	return domain.TimerSnapshot{
		Settings:                   domain.TimerSettings{Durations: s.timer.Durations(), Sound: s.sound},
		TimerState:                 s.timer.State(),
		CompletedWorkSessionsToday: s.timer.CompletedWorkSessionsToday(),
		Day:                        s.day,
	}
}

// persistLocked writes the snapshot. Failures are logged and otherwise
// ignored; the in-memory state stays authoritative.
func (s *TimerService) persistLocked(ctx context.Context) {
	if err := saveJSON(ctx, s.store, ports.KeyTimerState, s.snapshotLocked()); err != nil {
		s.logger.Warn("failed to persist timer state", zap.Error(err))
	}
}
