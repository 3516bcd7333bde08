package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/focus-smile/internal/domain"
)

// RenderStatus formats the timer state for one-shot output. Colors are only
// applied when styled is true, so piped output stays plain.
func RenderStatus(st domain.CurrentState, p Palette, styled bool) string {
	render := func(c lipgloss.Color, bold bool, s string) string {
		if !styled {
			return s
		}
		return lipgloss.NewStyle().Foreground(c).Bold(bold).Render(s)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n",
		render(p.sessionColor(st), true, st.Timer.SessionType.Label()),
		render(p.Help, false, "("+st.Status.Label()+")"))
	fmt.Fprintf(&b, "   Remaining: %s (%.0f%%)\n", formatDuration(st.Remaining()), st.Progress()*100)
	fmt.Fprintf(&b, "   Completed today: %d\n", st.CompletedWorkSessionsToday)

	if st.Timer.SessionType == domain.SessionTypeWork {
		next := domain.NextBreakType(st.CompletedWorkSessionsToday + 1)
		fmt.Fprintf(&b, "   Next break: %s\n", next.Label())
	}
	if st.IsAwaitingConfirmation() {
		b.WriteString(render(p.Quote, false, "   A smile is waiting for you: smile start") + "\n")
	}
	if st.RecapAvailable() {
		b.WriteString(render(p.Quote, false, "   Recap available: smile recap") + "\n")
	}
	return b.String()
}
