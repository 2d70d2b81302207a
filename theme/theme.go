package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

type Theme struct {
	Name  string
	stops []colorful.Color
}

// plasma-like gradient, dark purple to bright yellow
var defaultStops = []string{"#0d0887", "#6a00a8", "#b12a90", "#e16462", "#fca636", "#f0f921"}

func New() *Theme {
	t := &Theme{Name: "plasma"}
	for _, h := range defaultStops {
		c, err := colorful.Hex(h)
		if err != nil {
			panic(fmt.Sprintf("bad theme stop %s: %v", h, err))
		}
		t.stops = append(t.stops, c)
	}
	return t
}

// Color roles mapped to gradient positions (0-1)
const (
	RoleBG      = 0.0
	RoleMuted   = 0.2
	RoleFG      = 0.4
	RoleAccent  = 0.5
	RoleActive  = 0.7
	RoleWarning = 0.8
	RoleSuccess = 1.0
)

// Lookup returns the Lab-interpolated colour for a normalized value 0-1
func (t *Theme) Lookup(norm float64) RGB {
	if norm <= 0 {
		return fromColorful(t.stops[0])
	}
	if norm >= 1 {
		return fromColorful(t.stops[len(t.stops)-1])
	}
	pos := norm * float64(len(t.stops)-1)
	i := int(pos)
	frac := pos - float64(i)
	return fromColorful(t.stops[i].BlendLab(t.stops[i+1], frac).Clamped())
}

func (t *Theme) FG() lipgloss.Color      { return t.Color(RoleFG) }
func (t *Theme) Accent() lipgloss.Color  { return t.Color(RoleAccent) }
func (t *Theme) Muted() lipgloss.Color   { return t.Color(RoleMuted) }
func (t *Theme) Active() lipgloss.Color  { return t.Color(RoleActive) }
func (t *Theme) Warning() lipgloss.Color { return t.Color(RoleWarning) }
func (t *Theme) Success() lipgloss.Color { return t.Color(RoleSuccess) }

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return Lipgloss(t.Lookup(norm))
}

// Lipgloss converts a raw RGB value to a terminal colour
func Lipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}

func fromColorful(c colorful.Color) RGB {
	r, g, b := c.RGB255()
	return RGB{r, g, b}
}
