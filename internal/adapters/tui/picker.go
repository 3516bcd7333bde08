package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/focus-smile/internal/domain"
)

// QuoteControl is the part of the quote service the picker drives.
type QuoteControl interface {
	List(ctx context.Context) ([]domain.Quote, error)
	ToggleSelection(ctx context.Context, id int64) (bool, error)
	SelectAll(ctx context.Context) error
	DeselectAll()
	Selected(ctx context.Context) ([]domain.Quote, error)
	ToggleFavorite(ctx context.Context, id int64) (domain.Quote, error)
	DeleteSelected(ctx context.Context) (int, error)
}

// PickerAction tells the caller what to do after the picker closed.
type PickerAction int

const (
	PickerDone PickerAction = iota
	PickerExport
	PickerAborted
)

// PickerResult holds the outcome of a picker interaction.
type PickerResult struct {
	Action  PickerAction
	Deleted int
}

type pickerModel struct {
	ctx     context.Context
	quotes  QuoteControl
	palette Palette

	items         []domain.Quote
	selected      map[int64]bool
	cursor        int
	confirmDelete bool
	deleted       int
	action        PickerAction
	err           error
}

func newPickerModel(ctx context.Context, quotes QuoteControl, palette Palette) pickerModel {
	m := pickerModel{ctx: ctx, quotes: quotes, palette: palette}
	m.reload()
	return m
}

func (m *pickerModel) reload() {
	items, err := m.quotes.List(m.ctx)
	if err != nil {
		m.err = err
		return
	}
	selected, err := m.quotes.Selected(m.ctx)
	if err != nil {
		m.err = err
		return
	}
	m.items = items
	m.selected = make(map[int64]bool, len(selected))
	for _, q := range selected {
		m.selected[q.ID] = true
	}
	if m.cursor >= len(m.items) {
		m.cursor = max(len(m.items)-1, 0)
	}
}

func (m pickerModel) Init() tea.Cmd { return nil }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.confirmDelete {
		m.confirmDelete = false
		if key.String() == "y" {
			n, err := m.quotes.DeleteSelected(m.ctx)
			m.err = err
			m.deleted += n
			m.reload()
		}
		return m, nil
	}

	m.err = nil
	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case " ":
		if q, ok := m.current(); ok {
			on, err := m.quotes.ToggleSelection(m.ctx, q.ID)
			m.err = err
			if err == nil {
				m.selected[q.ID] = on
			}
		}
	case "a":
		m.err = m.quotes.SelectAll(m.ctx)
		m.reload()
	case "A":
		m.quotes.DeselectAll()
		m.reload()
	case "f":
		if q, ok := m.current(); ok {
			_, m.err = m.quotes.ToggleFavorite(m.ctx, q.ID)
			m.reload()
		}
	case "d":
		if m.selectedCount() > 0 {
			m.confirmDelete = true
		}
	case "e":
		if m.selectedCount() > 0 {
			m.action = PickerExport
			return m, tea.Quit
		}
	case "enter":
		m.action = PickerDone
		return m, tea.Quit
	case "ctrl+c", "esc", "q":
		m.action = PickerAborted
		return m, tea.Quit
	}
	return m, nil
}

func (m pickerModel) current() (domain.Quote, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return domain.Quote{}, false
	}
	return m.items[m.cursor], true
}

func (m pickerModel) selectedCount() int {
	n := 0
	for _, on := range m.selected {
		if on {
			n++
		}
	}
	return n
}

func (m pickerModel) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(m.palette.Title)
	activeStyle := lipgloss.NewStyle().Foreground(m.palette.Work).Bold(true)
	favStyle := lipgloss.NewStyle().Foreground(m.palette.Quote)
	dimStyle := lipgloss.NewStyle().Foreground(m.palette.Help)

	b.WriteString("\n")
	b.WriteString(titleStyle.Render(fmt.Sprintf("  Quotes (%d selected)", m.selectedCount())) + "\n\n")

	if len(m.items) == 0 {
		b.WriteString(dimStyle.Render("    No quotes yet. Add one with: smile quote add") + "\n")
	}
	for i, q := range m.items {
		box := "[ ]"
		if m.selected[q.ID] {
			box = "[x]"
		}
		star := " "
		if q.IsFavorite {
			star = favStyle.Render("★")
		}
		line := fmt.Sprintf("%s %s %s", box, star, truncate(q.Format(), 70))
		if i == m.cursor {
			b.WriteString("  " + activeStyle.Render("▸ "+line) + "\n")
		} else {
			b.WriteString("    " + dimStyle.Render(line) + "\n")
		}
	}

	b.WriteString("\n")
	switch {
	case m.confirmDelete:
		warn := lipgloss.NewStyle().Foreground(m.palette.Error)
		b.WriteString(warn.Render(fmt.Sprintf("  Delete %d selected quotes? [y/N]", m.selectedCount())) + "\n")
	case m.err != nil:
		warn := lipgloss.NewStyle().Foreground(m.palette.Error)
		b.WriteString(warn.Render("  Error: "+m.err.Error()) + "\n")
	}
	b.WriteString(dimStyle.Render("  ↑/↓ move · space select · a/A all/none · f favorite · d delete · e export · enter done") + "\n")

	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// RunQuotePicker launches the interactive quote list. The selection it
// leaves behind stays in the quote service for the caller to use.
func RunQuotePicker(ctx context.Context, quotes QuoteControl, palette Palette, opts ...tea.ProgramOption) (PickerResult, error) {
	m := newPickerModel(ctx, quotes, palette)
	if m.err != nil {
		return PickerResult{}, m.err
	}

	p := tea.NewProgram(m, append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)...)
	result, err := p.Run()
	if err != nil {
		return PickerResult{Action: PickerAborted}, fmt.Errorf("failed to run quote picker: %w", err)
	}

	final := result.(pickerModel)
	return PickerResult{Action: final.action, Deleted: final.deleted}, nil
}
