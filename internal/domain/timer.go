package domain

// TimerStatus is the run state of a SessionTimer.
type TimerStatus string

const (
	TimerIdle                 TimerStatus = "idle"
	TimerRunning              TimerStatus = "running"
	TimerAwaitingConfirmation TimerStatus = "awaiting_confirmation"
)

// Label returns a human-readable label for the status.
func (s TimerStatus) Label() string {
	switch s {
	case TimerIdle:
		return "Idle"
	case TimerRunning:
		return "Running"
	case TimerAwaitingConfirmation:
		return "Awaiting confirmation"
	default:
		return "Unknown"
	}
}

// TickOutcome reports what a tick did.
type TickOutcome int

const (
	// TickIgnored means the timer was not running.
	TickIgnored TickOutcome = iota
	// TickCounted means a second was consumed and the session continues.
	TickCounted
	// TickWorkFinished means a work session reached zero and now awaits confirmation.
	TickWorkFinished
	// TickBreakFinished means a break reached zero and the timer advanced to work.
	TickBreakFinished
)

// TimerState is the persisted countdown position.
type TimerState struct {
	RemainingSec int         `json:"remainingSec"`
	SessionType  SessionType `json:"sessionType"`
	SessionCount int         `json:"sessionCount"`
}

// SessionTimer is the work/break state machine. It is not safe for
// concurrent use; callers serialize access.
type SessionTimer struct {
	durations                  SessionDurations
	state                      TimerState
	status                     TimerStatus
	completedWorkSessionsToday int
}

// NewSessionTimer returns an idle timer at the start of a work session.
func NewSessionTimer(durations SessionDurations) (*SessionTimer, error) {
	if err := durations.Validate(); err != nil {
		return nil, err
	}
	return &SessionTimer{
		durations: durations,
		state: TimerState{
			RemainingSec: durations.Work,
			SessionType:  SessionTypeWork,
		},
		status: TimerIdle,
	}, nil
}

// RestoreSessionTimer rebuilds an idle timer from persisted values. Invalid
// pieces are replaced with defaults rather than rejected.
func RestoreSessionTimer(durations SessionDurations, state TimerState, completedToday int) *SessionTimer {
	if durations.Validate() != nil {
		durations = DefaultDurations()
	}
	if _, err := ParseSessionType(string(state.SessionType)); err != nil {
		state = TimerState{RemainingSec: durations.Work, SessionType: SessionTypeWork, SessionCount: state.SessionCount}
	}
	if state.RemainingSec < 0 {
		state.RemainingSec = 0
	}
	if state.SessionCount < 0 {
		state.SessionCount = 0
	}
	if completedToday < 0 {
		completedToday = 0
	}
	return &SessionTimer{
		durations:                  durations,
		state:                      state,
		status:                     TimerIdle,
		completedWorkSessionsToday: completedToday,
	}
}

// State returns the current countdown position.
func (t *SessionTimer) State() TimerState { return t.state }

// Status returns the current run state.
func (t *SessionTimer) Status() TimerStatus { return t.status }

// Durations returns the active duration table.
func (t *SessionTimer) Durations() SessionDurations { return t.durations }

// CompletedWorkSessionsToday returns how many work sessions have ended today.
func (t *SessionTimer) CompletedWorkSessionsToday() int { return t.completedWorkSessionsToday }

// ResetDailyCount zeroes the completed work session counter.
func (t *SessionTimer) ResetDailyCount() { t.completedWorkSessionsToday = 0 }

// Start begins counting down. It returns false when the timer was not idle.
func (t *SessionTimer) Start() bool {
	if t.status != TimerIdle {
		return false
	}
	t.status = TimerRunning
	return true
}

// Pause stops counting down. It returns false when the timer was not running.
func (t *SessionTimer) Pause() bool {
	if t.status != TimerRunning {
		return false
	}
	t.status = TimerIdle
	return true
}

// Tick consumes one elapsed second.
func (t *SessionTimer) Tick() TickOutcome {
	if t.status != TimerRunning {
		return TickIgnored
	}
	if t.state.RemainingSec > 0 {
		t.state.RemainingSec--
	}
	if t.state.RemainingSec > 0 {
		return TickCounted
	}

	if t.state.SessionType == SessionTypeWork {
		t.status = TimerAwaitingConfirmation
		return TickWorkFinished
	}
	t.advance()
	return TickBreakFinished
}

// ConfirmAndAdvance resolves a finished work session and moves to the break.
func (t *SessionTimer) ConfirmAndAdvance() (SessionType, error) {
	if t.status != TimerAwaitingConfirmation {
		return t.state.SessionType, ErrNotAwaitingConfirmation
	}
	return t.advance(), nil
}

// Skip jumps to the next session from any state without confirmation.
func (t *SessionTimer) Skip() SessionType {
	return t.advance()
}

// Reset rewinds the current session to its full duration and stops the timer.
// Calling it repeatedly has no further effect.
func (t *SessionTimer) Reset() {
	t.state.RemainingSec = t.durations.For(t.state.SessionType)
	t.status = TimerIdle
}

// UpdateSettings replaces the duration table. An idle timer is rewound to the
// new duration of its current session; a running or awaiting timer keeps its
// countdown.
func (t *SessionTimer) UpdateSettings(durations SessionDurations) error {
	if err := durations.Validate(); err != nil {
		return err
	}
	t.durations = durations
	if t.status == TimerIdle {
		t.state.RemainingSec = durations.For(t.state.SessionType)
	}
	return nil
}

// advance moves to the next session and leaves the timer idle.
func (t *SessionTimer) advance() SessionType {
	var next SessionType
	if t.state.SessionType == SessionTypeWork {
		t.completedWorkSessionsToday++
		next = NextBreakType(t.completedWorkSessionsToday)
	} else {
		next = SessionTypeWork
		t.state.SessionCount++
	}

	t.state.SessionType = next
	t.state.RemainingSec = t.durations.For(next)
	t.status = TimerIdle
	return next
}
