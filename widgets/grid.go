package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-beatgrid/surface"
	"go-beatgrid/theme"
)

// PadWidth is the rendered width of one pad including its gap.
const PadWidth = 2

// RenderPad renders a single coloured pad. Unlit pads show a dot.
func RenderPad(c theme.LEDColor) string {
	if c == theme.LEDOff {
		return lipgloss.NewStyle().Foreground(theme.Lipgloss(theme.RGB{60, 60, 60})).Render("·")
	}
	return lipgloss.NewStyle().Foreground(theme.Lipgloss(c.RGB())).Render("■")
}

// RenderPadRow renders a row of coloured pads with spacing
func RenderPadRow(colors []theme.LEDColor) string {
	var out strings.Builder
	for i, c := range colors {
		if i > 0 {
			out.WriteString(" ")
		}
		out.WriteString(RenderPad(c))
	}
	return out.String()
}

// RenderPadGrid renders the 8x8 grid, row 0 on top.
// Optional rightCol adds a 9th column (page buttons)
func RenderPadGrid(grid [surface.GridRows][surface.GridCols]theme.LEDColor, rightCol *[surface.NumPages]theme.LEDColor) string {
	lines := make([]string, 0, surface.GridRows)
	for row := 0; row < surface.GridRows; row++ {
		line := RenderPadRow(grid[row][:])
		if rightCol != nil {
			line += "  " + RenderPad(rightCol[row])
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// PadAt maps a click inside a rendered grid to a pad. x and y are relative
// to the grid's top-left corner.
func PadAt(x, y int) (row, col int, ok bool) {
	if x < 0 || y < 0 || y >= surface.GridRows || x%PadWidth != 0 {
		return 0, 0, false
	}
	col = x / PadWidth
	if col >= surface.GridCols {
		return 0, 0, false
	}
	return y, col, true
}

var faderBlocks = []string{" ", "▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

// RenderFaders draws one bar per fader. Toggled faders use the accent
// colour.
func RenderFaders(values [surface.NumFaders]float64, toggled [surface.NumFaders]bool, th *theme.Theme) string {
	var out strings.Builder
	for i, v := range values {
		if i > 0 {
			out.WriteString(" ")
		}
		idx := int(v*float64(len(faderBlocks)-1) + 0.5)
		if idx < 0 {
			idx = 0
		}
		if idx >= len(faderBlocks) {
			idx = len(faderBlocks) - 1
		}
		color := th.Muted()
		if toggled[i] {
			color = th.Accent()
		}
		out.WriteString(lipgloss.NewStyle().Foreground(color).Render(faderBlocks[idx]))
	}
	return out.String()
}

// RenderLegendItem renders a single legend item: "■ Name - description"
func RenderLegendItem(c theme.LEDColor, name, desc string) string {
	return fmt.Sprintf("  %s %s - %s", RenderPad(c), name, desc)
}
