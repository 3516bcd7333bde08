// Package domain contains the core entities of Focus Smile: the session
// timer state machine, quotes, smile events and the quote selection policy.
// Nothing in here knows about storage, terminals or the AI backend.
package domain

import (
	"errors"
	"fmt"
)

// Error categories. Specific errors wrap one of these so callers can branch
// on the category with errors.Is.
var (
	ErrConfiguration   = errors.New("configuration error")
	ErrExternalService = errors.New("external service error")
	ErrValidation      = errors.New("validation error")
)

// Configuration errors.
var (
	ErrNoAPIKey = fmt.Errorf("%w: no Gemini API key set", ErrConfiguration)
)

// Validation errors.
var (
	ErrInvalidAPIKey    = fmt.Errorf("%w: API key must be at least 30 characters of letters, digits, '-' or '_'", ErrValidation)
	ErrEmptyQuoteText   = fmt.Errorf("%w: quote text cannot be empty", ErrValidation)
	ErrEmptyQuoteAuthor = fmt.Errorf("%w: quote author cannot be empty", ErrValidation)
	ErrInvalidRating    = fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	ErrInvalidDuration  = fmt.Errorf("%w: durations must be greater than zero", ErrValidation)
	ErrUnknownModel     = fmt.Errorf("%w: unknown model", ErrValidation)
	ErrInvalidTheme     = fmt.Errorf("%w: theme must be light or dark", ErrValidation)
	ErrEmptyVibe        = fmt.Errorf("%w: vibe cannot be empty", ErrValidation)
)

// State errors.
var (
	ErrQuoteNotFound           = errors.New("quote not found")
	ErrNotAwaitingConfirmation = errors.New("timer is not awaiting confirmation")
	ErrStalePrompt             = errors.New("smile prompt is no longer current")
	ErrNoRecapAvailable        = errors.New("no recap available yet")
	ErrTimerNotIdle            = errors.New("timer is not idle")
	ErrTimerNotRunning         = errors.New("timer is not running")
)

// ExternalError wraps a failure of a collaborator (AI backend) so it matches
// ErrExternalService while keeping the original cause.
func ExternalError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrExternalService, op, err)
}
