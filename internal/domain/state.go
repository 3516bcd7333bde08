package domain

import (
	"time"
)

// TimerSettings holds the user-editable timer settings.
type TimerSettings struct {
	Durations SessionDurations `json:"durations"`
	Sound     bool             `json:"sound"`
}

// DefaultTimerSettings returns the default durations with sound enabled.
func DefaultTimerSettings() TimerSettings {
	return TimerSettings{Durations: DefaultDurations(), Sound: true}
}

// TimerSnapshot is the persisted form of the timer. The run status is
// process-local and never stored.
type TimerSnapshot struct {
	Settings                   TimerSettings `json:"settings"`
	TimerState                 TimerState    `json:"timerState"`
	CompletedWorkSessionsToday int           `json:"completedWorkSessionsToday"`
	Day                        string        `json:"day,omitempty"`
}

// DayKey formats the calendar day used to scope the daily counter.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// CurrentState is a read-only view of the timer for displays.
type CurrentState struct {
	Timer                      TimerState
	Status                     TimerStatus
	Durations                  SessionDurations
	CompletedWorkSessionsToday int
	Epoch                      uint64
}

// Remaining returns the remaining time of the current session.
func (cs CurrentState) Remaining() time.Duration {
	return time.Duration(cs.Timer.RemainingSec) * time.Second
}

// Progress returns the completion fraction of the current session (0.0 to 1.0).
func (cs CurrentState) Progress() float64 {
	total := cs.Durations.For(cs.Timer.SessionType)
	if total <= 0 {
		return 0
	}
	done := float64(total-cs.Timer.RemainingSec) / float64(total)
	switch {
	case done < 0:
		return 0
	case done > 1:
		return 1
	}
	return done
}

// IsAwaitingConfirmation returns true while a finished work session waits
// for the smile prompt.
func (cs CurrentState) IsAwaitingConfirmation() bool {
	return cs.Status == TimerAwaitingConfirmation
}

// RecapAvailable returns true when a recap should be offered.
func (cs CurrentState) RecapAvailable() bool {
	return RecapAvailable(cs.CompletedWorkSessionsToday)
}
