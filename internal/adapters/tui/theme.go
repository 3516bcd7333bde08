package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/focus-smile/internal/domain"
)

// Palette holds the colors of one display theme.
type Palette struct {
	Title  lipgloss.Color
	Work   lipgloss.Color
	Break  lipgloss.Color
	Paused lipgloss.Color
	Quote  lipgloss.Color
	Help   lipgloss.Color
	Error  lipgloss.Color
	Empty  lipgloss.Color
}

var (
	darkPalette = Palette{
		Title:  "#F5A97F",
		Work:   "#ED8796",
		Break:  "#A6DA95",
		Paused: "#8087A2",
		Quote:  "#EED49F",
		Help:   "#6E738D",
		Error:  "#EE99A0",
		Empty:  "#363A4F",
	}
	lightPalette = Palette{
		Title:  "#FE640B",
		Work:   "#D20F39",
		Break:  "#40A02B",
		Paused: "#7C7F93",
		Quote:  "#DF8E1D",
		Help:   "#8C8FA1",
		Error:  "#E64553",
		Empty:  "#CCD0DA",
	}
)

// PaletteFor returns the palette of a theme. Unknown themes get the dark one.
func PaletteFor(t domain.Theme) Palette {
	if t == domain.ThemeLight {
		return lightPalette
	}
	return darkPalette
}

// sessionColor returns the accent for the timer in st.
func (p Palette) sessionColor(st domain.CurrentState) lipgloss.Color {
	switch {
	case st.Status != domain.TimerRunning:
		return p.Paused
	case st.Timer.SessionType.IsBreak():
		return p.Break
	default:
		return p.Work
	}
}
