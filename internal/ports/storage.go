// Package ports defines the interfaces (driven and driving ports)
// for the Focus Smile application following hexagonal architecture principles.
// These interfaces define the contracts between the domain layer and
// external infrastructure.
package ports

import (
	"context"
)

// Storage keys. Every persisted blob lives under one of these.
const (
	KeyTimerState    = "focus-smile-timer-state"
	KeyQuotes        = "focus-smile-quotes"
	KeySmileEvents   = "focus-smile-smile-events"
	KeyAPIKey        = "focus-smile-api-key"
	KeySelectedModel = "focus-smile-selected-model"
	KeyAppSettings   = "focus-smile-app-settings"
)

// AllKeys returns every storage key used by the application.
func AllKeys() []string {
	return []string{
		KeyTimerState,
		KeyQuotes,
		KeySmileEvents,
		KeyAPIKey,
		KeySelectedModel,
		KeyAppSettings,
	}
}

// KeyValueStore defines the interface for snapshot persistence.
// This is a driven port (implemented by adapters).
type KeyValueStore interface {
	// Get returns the values stored under keys. Missing keys are absent
	// from the result rather than reported as errors.
	Get(ctx context.Context, keys ...string) (map[string][]byte, error)

	// Set stores every entry of values, replacing previous values.
	Set(ctx context.Context, values map[string][]byte) error

	// Remove deletes keys. Removing a missing key is not an error.
	Remove(ctx context.Context, keys ...string) error

	// Close releases the underlying resources.
	Close() error
}
