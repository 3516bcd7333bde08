package tui

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/focus-smile/internal/domain"
)

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(m.palette.Title).MarginBottom(1)
	sections := []string{titleStyle.Render("😊 Focus Smile")}

	switch m.phase {
	case phasePrompt, phaseResolving:
		sections = append(sections, m.viewPrompt()...)
	case phaseSelecting:
		sections = append(sections, m.viewFinished(), "", m.spinner.View()+" Picking a quote for you...")
	default:
		sections = append(sections, m.viewTimer()...)
	}

	if m.err != nil {
		errStyle := lipgloss.NewStyle().Foreground(m.palette.Error)
		sections = append(sections, "", errStyle.Render("Error: "+m.err.Error()))
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) viewTimer() []string {
	st := m.state
	color := m.palette.sessionColor(st)
	accent := lipgloss.NewStyle().Foreground(color)
	help := lipgloss.NewStyle().Foreground(m.palette.Help)

	m.progress.FullColor = string(color)
	sections := []string{
		accent.Render(fmt.Sprintf("%s · %s", st.Timer.SessionType.Label(), st.Status.Label())),
		"",
		bigClock(formatDuration(st.Remaining()), lipgloss.NewStyle().Bold(true).Foreground(color), m.width),
		"",
		m.progress.ViewAs(st.Progress()),
		"",
		help.Render(fmt.Sprintf("Completed today: %d", st.CompletedWorkSessionsToday)),
	}

	if m.last != nil {
		sections = append(sections, "", accent.Render(fmt.Sprintf("Next up: %s", m.last.Next.Label())))
		if m.last.RecapAvailable {
			quote := lipgloss.NewStyle().Foreground(m.palette.Quote)
			sections = append(sections, quote.Render("Your recap is ready: smile recap"))
		}
	}
	if m.notice != "" {
		sections = append(sections, "", help.Render(m.notice))
	}

	sections = append(sections, "", help.Render(m.timerHelp()))
	return sections
}

func (m Model) timerHelp() string {
	switch {
	case m.confirmReset:
		return "Press r again to reset this session"
	case m.confirmSkip:
		return "Press n again to skip to the next session"
	case m.state.Status == domain.TimerRunning:
		return "[s] pause  [r]eset  [n]ext  [q]uit"
	default:
		return "[s]tart  [r]eset  [n]ext  [q]uit"
	}
}

func (m Model) viewFinished() string {
	accent := lipgloss.NewStyle().Bold(true).Foreground(m.palette.Work)
	return accent.Render("Work session complete! Time to smile.")
}

func (m Model) viewPrompt() []string {
	p := m.prompt
	quoteStyle := lipgloss.NewStyle().Italic(true).Foreground(m.palette.Quote).Width(min(max(m.width-10, 20), 70)).Align(lipgloss.Center)
	help := lipgloss.NewStyle().Foreground(m.palette.Help)

	sections := []string{
		m.viewFinished(),
		"",
		quoteStyle.Render(fmt.Sprintf("\"%s\"", p.Quote.Text)),
		help.Render("- " + p.Quote.Author),
	}
	if tag := branchTag(p.Quote, p.Branch); tag != "" {
		sections = append(sections, help.Render(tag))
	}
	if m.smileImage != "" {
		sections = append(sections, "", help.Render("Smile at "+filepath.Base(m.smileImage)+" :)"))
	}
	if m.notice != "" {
		sections = append(sections, "", help.Render(m.notice))
	}

	sections = append(sections, "")
	if m.phase == phaseResolving {
		sections = append(sections, m.spinner.View()+" Saving...")
	} else {
		sections = append(sections, help.Render("[y] smile  [n] skip  [q]uit"))
	}
	return sections
}

func branchTag(q domain.Quote, b domain.SelectionBranch) string {
	switch b {
	case domain.BranchFavorite:
		return "★ from your favorites"
	case domain.BranchGenerated:
		return "✨ freshly generated"
	case domain.BranchCategory:
		if q.Category != "" {
			return "#" + q.Category
		}
	}
	return ""
}
