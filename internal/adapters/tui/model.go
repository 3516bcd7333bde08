// Package tui provides the terminal user interface implementation
// using the Bubbletea framework.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/focus-smile/internal/domain"
	"github.com/xvierd/focus-smile/internal/services"
)

// TimerControl is the part of the timer service the display drives.
type TimerControl interface {
	State() domain.CurrentState
	Start(ctx context.Context) bool
	Pause(ctx context.Context) bool
	Reset(ctx context.Context) domain.CurrentState
	Skip(ctx context.Context) domain.SessionType
}

// SmileControl shows and answers smile prompts.
type SmileControl interface {
	Prompt(ctx context.Context) (services.Prompt, error)
	Resolve(ctx context.Context, p services.Prompt, kind domain.SmileType) (services.Resolution, error)
	IsCurrent(p services.Prompt) bool
}

// tickMsg is sent on every display refresh.
type tickMsg time.Time

// stateMsg wraps a freshly read timer state.
type stateMsg struct {
	state domain.CurrentState
}

// workFinishedMsg is sent from outside the program when a work session ends.
type workFinishedMsg struct {
	state domain.CurrentState
}

type promptMsg struct {
	prompt services.Prompt
	err    error
}

type resolvedMsg struct {
	res services.Resolution
	err error
}

type phase int

const (
	phaseTimer phase = iota
	phaseSelecting
	phasePrompt
	phaseResolving
)

// Model represents the TUI state.
type Model struct {
	ctx     context.Context
	timer   TimerControl
	smile   SmileControl
	palette Palette

	state    domain.CurrentState
	progress progress.Model
	spinner  spinner.Model
	width    int
	height   int

	smileImage string

	phase        phase
	prompt       *services.Prompt
	last         *services.Resolution
	notice       string
	err          error
	confirmReset bool
	confirmSkip  bool
}

// NewModel creates a new TUI model. A timer that is already awaiting
// confirmation gets its smile prompt as soon as the program starts.
func NewModel(ctx context.Context, timer TimerControl, smile SmileControl, palette Palette, initial domain.CurrentState) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(palette.Quote)

	pr := progress.New(progress.WithoutPercentage())
	pr.EmptyColor = string(palette.Empty)

	m := Model{
		ctx:      ctx,
		timer:    timer,
		smile:    smile,
		palette:  palette,
		state:    initial,
		progress: pr,
		spinner:  sp,
	}
	if initial.IsAwaitingConfirmation() {
		m.phase = phaseSelecting
	}
	return m
}

// WithSmileImage sets the picture referenced on the smile prompt.
func (m Model) WithSmileImage(path string) Model {
	m.smileImage = path
	return m
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(), m.spinner.Tick}
	if m.phase == phaseSelecting {
		cmds = append(cmds, m.promptCmd())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(msg.Width-8, 60)

	case tickMsg:
		return m, tea.Batch(tickCmd(), fetchStateCmd(m.timer))

	case stateMsg:
		return m.applyState(msg.state)

	case workFinishedMsg:
		m.state = msg.state
		if m.phase == phaseTimer {
			m.phase = phaseSelecting
			m.last = nil
			return m, m.promptCmd()
		}

	case promptMsg:
		if msg.err != nil {
			m.phase = phaseTimer
			if !errors.Is(msg.err, domain.ErrNotAwaitingConfirmation) {
				m.err = msg.err
			}
			return m, nil
		}
		p := msg.prompt
		m.prompt = &p
		m.phase = phasePrompt
		m.notice = noticeText(p.Notice)

	case resolvedMsg:
		m.phase = phaseTimer
		m.prompt = nil
		switch {
		case errors.Is(msg.err, domain.ErrStalePrompt):
			m.notice = "The session moved on, prompt dismissed."
		case msg.err != nil:
			m.err = msg.err
		default:
			res := msg.res
			m.last = &res
			m.notice = ""
		}
		return m, fetchStateCmd(m.timer)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// applyState replaces the displayed state and reconciles the prompt with it.
func (m Model) applyState(st domain.CurrentState) (tea.Model, tea.Cmd) {
	m.state = st
	if m.phase == phasePrompt && m.prompt != nil && !m.smile.IsCurrent(*m.prompt) {
		m.prompt = nil
		m.phase = phaseTimer
	}
	if m.phase == phaseTimer && st.IsAwaitingConfirmation() {
		m.phase = phaseSelecting
		m.last = nil
		return m, m.promptCmd()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" || key == "q" {
		return m, tea.Quit
	}

	if m.phase == phasePrompt && m.prompt != nil {
		switch key {
		case "y", "enter", "s":
			return m.resolve(domain.SmileTypeSmile)
		case "n", "esc", "x":
			return m.resolve(domain.SmileTypeSkip)
		}
		return m, nil
	}
	if m.phase != phaseTimer {
		return m, nil
	}

	m.err = nil
	switch key {
	case "s", " ":
		m.confirmReset, m.confirmSkip = false, false
		if m.state.Status == domain.TimerRunning {
			m.timer.Pause(m.ctx)
		} else if m.timer.Start(m.ctx) {
			m.last = nil
			m.notice = ""
		}
	case "r":
		m.confirmSkip = false
		if !m.confirmReset {
			m.confirmReset = true
			return m, nil
		}
		m.confirmReset = false
		m.state = m.timer.Reset(m.ctx)
	case "n":
		m.confirmReset = false
		if !m.confirmSkip {
			m.confirmSkip = true
			return m, nil
		}
		m.confirmSkip = false
		m.timer.Skip(m.ctx)
		m.last = nil
	default:
		m.confirmReset, m.confirmSkip = false, false
		return m, nil
	}
	return m, fetchStateCmd(m.timer)
}

func (m Model) resolve(kind domain.SmileType) (tea.Model, tea.Cmd) {
	p := *m.prompt
	m.phase = phaseResolving
	return m, func() tea.Msg {
		res, err := m.smile.Resolve(m.ctx, p, kind)
		return resolvedMsg{res: res, err: err}
	}
}

func (m Model) promptCmd() tea.Cmd {
	return func() tea.Msg {
		p, err := m.smile.Prompt(m.ctx)
		return promptMsg{prompt: p, err: err}
	}
}

// fetchStateCmd returns a tea.Cmd that reads the timer state asynchronously.
func fetchStateCmd(timer TimerControl) tea.Cmd {
	return func() tea.Msg {
		return stateMsg{state: timer.State()}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// noticeText explains why a prompt fell back to the built-in quote.
func noticeText(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrNoAPIKey):
		return "Set a Gemini API key to get fresh quotes: smile key set"
	case errors.Is(err, domain.ErrExternalService):
		return "Could not reach Gemini, showing a saved quote."
	default:
		return err.Error()
	}
}

// formatDuration formats a duration as MM:SS.
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	minutes := int(d / time.Minute)
	seconds := int(d/time.Second) % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
