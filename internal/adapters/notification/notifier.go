// Package notification provides desktop notification utilities.
package notification

import (
	"fmt"

	"github.com/gen2brain/beeep"
	"github.com/xvierd/focus-smile/internal/config"
	"github.com/xvierd/focus-smile/internal/ports"
)

// sendFunc matches beeep.Notify and beeep.Alert.
type sendFunc func(title, message string, icon any) error

// Notifier handles desktop notifications.
type Notifier struct {
	cfg    *config.NotificationConfig
	notify sendFunc
	alert  sendFunc
}

// Ensure Notifier implements ports.Notifier.
var _ ports.Notifier = (*Notifier)(nil)

// New creates a new notifier with the given configuration.
func New(cfg *config.NotificationConfig) *Notifier {
	return &Notifier{
		cfg:    cfg,
		notify: beeep.Notify,
		alert:  beeep.Alert,
	}
}

// Notify displays a desktop notification if enabled. With sound enabled the
// notification is raised as an alert, which plays the system sound.
func (n *Notifier) Notify(title, message string) error {
	if !n.IsEnabled() {
		return nil
	}
	send := n.notify
	if n.cfg.Sound {
		send = n.alert
	}
	if err := send(title, message, ""); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}

// SetSound toggles the alert sound.
func (n *Notifier) SetSound(on bool) {
	if n.cfg != nil {
		n.cfg.Sound = on
	}
}

// IsEnabled returns true if notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	return n.cfg != nil && n.cfg.Enabled
}
