package services

import (
	"fmt"

	"github.com/xvierd/focus-smile/internal/domain"
)

func workFinishedMessage(minutes int) (string, string) {
	return "Focus session complete", fmt.Sprintf("Great job! You focused for %d minutes. Time to smile.", minutes)
}

func sessionStartedMessage(next domain.SessionType) (string, string) {
	return "Break over", fmt.Sprintf("Next up: %s. Ready when you are.", next.Label())
}
