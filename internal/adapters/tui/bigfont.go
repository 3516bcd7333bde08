package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const glyphRows = 5

// glyphs maps the clock characters to block art. Digits are 4 cells wide.
var glyphs = map[rune][glyphRows]string{
	'0': {"████", "█  █", "█  █", "█  █", "████"},
	'1': {"  █ ", " ██ ", "  █ ", "  █ ", " ███"},
	'2': {"████", "   █", "████", "█   ", "████"},
	'3': {"████", "   █", " ███", "   █", "████"},
	'4': {"█  █", "█  █", "████", "   █", "   █"},
	'5': {"████", "█   ", "████", "   █", "████"},
	'6': {"████", "█   ", "████", "█  █", "████"},
	'7': {"████", "   █", "  █ ", " █  ", " █  "},
	'8': {"████", "█  █", "████", "█  █", "████"},
	'9': {"████", "█  █", "████", "   █", "████"},
	':': {" ", "█", " ", "█", " "},
}

// minBigClockWidth is the narrowest terminal that gets the block clock.
const minBigClockWidth = 40

// bigClock renders a mm:ss string as block art. Narrow terminals and
// unknown characters get the plain text.
func bigClock(text string, style lipgloss.Style, width int) string {
	if width < minBigClockWidth {
		return style.Render(text)
	}

	var rows [glyphRows][]string
	for _, ch := range text {
		g, ok := glyphs[ch]
		if !ok {
			return style.Render(text)
		}
		for i := range rows {
			rows[i] = append(rows[i], g[i])
		}
	}

	lines := make([]string, glyphRows)
	for i, parts := range rows {
		lines[i] = style.Render(strings.Join(parts, " "))
	}
	return strings.Join(lines, "\n")
}
