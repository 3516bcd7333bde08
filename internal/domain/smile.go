package domain

import (
	"fmt"
	"time"
)

// SmileType is the user's answer to the smile prompt.
type SmileType string

const (
	SmileTypeSmile SmileType = "smile"
	SmileTypeSkip  SmileType = "skip"
)

// MaxSmileEvents caps the smile log.
const MaxSmileEvents = 200

// ParseSmileType validates a smile type string.
func ParseSmileType(s string) (SmileType, error) {
	switch t := SmileType(s); t {
	case SmileTypeSmile, SmileTypeSkip:
		return t, nil
	}
	return "", fmt.Errorf("invalid smile type %q: must be smile or skip", s)
}

// SmileEvent records how a smile prompt was answered.
type SmileEvent struct {
	Timestamp    int64       `json:"timestamp"`
	QuoteID      int64       `json:"quoteId"`
	SessionType  SessionType `json:"sessionType"`
	SessionCount int         `json:"sessionCount"`
	Type         SmileType   `json:"type"`
}

// Time returns the event timestamp.
func (e SmileEvent) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// AppendSmileEvent appends e and evicts the oldest entries beyond
// MaxSmileEvents. The remaining entries keep their insertion order.
func AppendSmileEvent(log []SmileEvent, e SmileEvent) []SmileEvent {
	log = append(log, e)
	if over := len(log) - MaxSmileEvents; over > 0 {
		trimmed := make([]SmileEvent, MaxSmileEvents)
		copy(trimmed, log[over:])
		return trimmed
	}
	return log
}
