package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tides-of-time/internal/core"
)

// palette maps core.Color to ANSI 256-color codes.
var palette = map[core.Color]string{
	core.ColorRed:      "1",
	core.ColorGreen:    "2",
	core.ColorYellow:   "3",
	core.ColorBlue:     "4",
	core.ColorCyan:     "6",
	core.ColorWhite:    "7",
	core.ColorGray:     "245",
	core.ColorSand:     "180",
	core.ColorFoam:     "159",
	core.ColorShallow:  "38",
	core.ColorDeep:     "25",
	core.ColorDanger:   "203",
	core.ColorHighlite: "229",
}

var colorStyles = buildStyles()

func buildStyles() map[core.Color]lipgloss.Style {
	styles := map[core.Color]lipgloss.Style{
		core.ColorDefault: lipgloss.NewStyle(),
	}
	for c, code := range palette {
		styles[c] = lipgloss.NewStyle().Foreground(lipgloss.Color(code))
	}
	styles[core.ColorHighlite] = styles[core.ColorHighlite].Bold(true)
	return styles
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Adjacent cells with the same color share one styled run.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		var run strings.Builder
		runColor := s.GetCell(0, y).Color
		flush := func() {
			style, ok := colorStyles[runColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
			run.Reset()
		}

		for x := range s.Width() {
			cell := s.GetCell(x, y)
			if cell.Color != runColor {
				flush()
				runColor = cell.Color
			}
			run.WriteRune(cell.Rune)
		}
		flush()
	}
	return sb.String()
}
