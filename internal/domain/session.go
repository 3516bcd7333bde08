package domain

import (
	"fmt"
	"time"
)

// SessionType represents the kind of interval the timer is counting.
type SessionType string

const (
	SessionTypeWork       SessionType = "work"
	SessionTypeShortBreak SessionType = "shortBreak"
	SessionTypeLongBreak  SessionType = "longBreak"
)

// LongBreakInterval is the number of completed work sessions between long breaks.
const LongBreakInterval = 4

// ParseSessionType validates a session type string.
func ParseSessionType(s string) (SessionType, error) {
	switch t := SessionType(s); t {
	case SessionTypeWork, SessionTypeShortBreak, SessionTypeLongBreak:
		return t, nil
	}
	return "", fmt.Errorf("invalid session type %q: must be one of work, shortBreak, longBreak", s)
}

// IsBreak returns true for short and long breaks.
func (t SessionType) IsBreak() bool {
	return t == SessionTypeShortBreak || t == SessionTypeLongBreak
}

// Label returns a human-readable label for the session type.
func (t SessionType) Label() string {
	switch t {
	case SessionTypeWork:
		return "Work"
	case SessionTypeShortBreak:
		return "Short Break"
	case SessionTypeLongBreak:
		return "Long Break"
	default:
		return "Unknown"
	}
}

// SessionDurations maps each session type to its length in whole seconds.
type SessionDurations struct {
	Work       int `json:"work"`
	ShortBreak int `json:"shortBreak"`
	LongBreak  int `json:"longBreak"`
}

// DefaultDurations returns the classic 25/5/15 minute table.
func DefaultDurations() SessionDurations {
	return SessionDurations{
		Work:       25 * 60,
		ShortBreak: 5 * 60,
		LongBreak:  15 * 60,
	}
}

// DurationsFrom builds a table from time.Duration values, truncating to seconds.
func DurationsFrom(work, shortBreak, longBreak time.Duration) SessionDurations {
	return SessionDurations{
		Work:       int(work / time.Second),
		ShortBreak: int(shortBreak / time.Second),
		LongBreak:  int(longBreak / time.Second),
	}
}

// Validate checks that every duration is positive.
func (d SessionDurations) Validate() error {
	if d.Work <= 0 || d.ShortBreak <= 0 || d.LongBreak <= 0 {
		return ErrInvalidDuration
	}
	return nil
}

// For returns the duration in seconds for a session type.
func (d SessionDurations) For(t SessionType) int {
	switch t {
	case SessionTypeShortBreak:
		return d.ShortBreak
	case SessionTypeLongBreak:
		return d.LongBreak
	default:
		return d.Work
	}
}

// Merge returns a copy of d where every positive field of patch replaces the
// corresponding field.
func (d SessionDurations) Merge(patch SessionDurations) SessionDurations {
	if patch.Work > 0 {
		d.Work = patch.Work
	}
	if patch.ShortBreak > 0 {
		d.ShortBreak = patch.ShortBreak
	}
	if patch.LongBreak > 0 {
		d.LongBreak = patch.LongBreak
	}
	return d
}

// NextBreakType returns the break that follows the given number of completed
// work sessions.
func NextBreakType(completedWorkSessions int) SessionType {
	if completedWorkSessions%LongBreakInterval == 0 {
		return SessionTypeLongBreak
	}
	return SessionTypeShortBreak
}
