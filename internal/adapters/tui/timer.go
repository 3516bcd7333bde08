package tui

import (
	"context"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/xvierd/focus-smile/internal/domain"
	"github.com/xvierd/focus-smile/internal/ports"
)

// Timer implements the ports.TimerView interface using Bubbletea.
type Timer struct {
	timer   TimerControl
	smile   SmileControl
	palette    Palette
	smileImage string
	options    []tea.ProgramOption

	mu      sync.RWMutex
	program *tea.Program
}

// Ensure Timer implements ports.TimerView.
var _ ports.TimerView = (*Timer)(nil)

// NewTimer creates a new TUI timer adapter. Extra program options are
// appended after the defaults (alt screen).
func NewTimer(timer TimerControl, smile SmileControl, settings domain.AppSettings, opts ...tea.ProgramOption) *Timer {
	return &Timer{
		timer:      timer,
		smile:      smile,
		palette:    PaletteFor(settings.Theme),
		smileImage: settings.CustomSmileImage,
		options:    opts,
	}
}

// Run starts the timer interface and blocks until the user quits or ctx
// is canceled.
func (t *Timer) Run(ctx context.Context, initialState domain.CurrentState) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := NewModel(ctx, t.timer, t.smile, t.palette, initialState).WithSmileImage(t.smileImage)
	opts := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, t.options...)
	program := tea.NewProgram(model, opts...)

	t.mu.Lock()
	t.program = program
	t.mu.Unlock()
	defer func() {
		t.mu.Lock()
		t.program = nil
		t.mu.Unlock()
	}()

	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// Stop gracefully stops the timer interface.
func (t *Timer) Stop() {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.program != nil {
		t.program.Quit()
	}
}

// NotifyWorkFinished forwards the end of a work session to the running
// program. It does nothing when no program is running.
func (t *Timer) NotifyWorkFinished(state domain.CurrentState) {
	t.mu.RLock()
	program := t.program
	t.mu.RUnlock()
	if program != nil {
		program.Send(workFinishedMsg{state: state})
	}
}
