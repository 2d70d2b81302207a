package theme

import (
	"fmt"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

type RGB [3]uint8

// LEDColor is a pad colour code on the APC mini mk2. It is sent as the
// NoteOn velocity and looked up by the device in its fixed palette.
type LEDColor uint8

const (
	LEDOff    LEDColor = 0
	LEDDim    LEDColor = 1
	LEDOn     LEDColor = 3
	LEDRed    LEDColor = 5
	LEDYellow LEDColor = 13
	LEDGreen  LEDColor = 21
	LEDCyan   LEDColor = 32
	LEDBlue   LEDColor = 37
	LEDPurple LEDColor = 53
	LEDPink   LEDColor = 56
	LEDOrange LEDColor = 60
)

// ledPalette is the subset of the device palette we use, with approximate
// RGB values for on-screen previews.
var ledPalette = []struct {
	code LEDColor
	name string
	rgb  RGB
}{
	{LEDOff, "off", RGB{0, 0, 0}},
	{LEDDim, "dim", RGB{40, 40, 40}},
	{LEDOn, "on", RGB{255, 255, 255}},
	{LEDRed, "red", RGB{255, 0, 0}},
	{LEDYellow, "yellow", RGB{255, 255, 0}},
	{LEDGreen, "green", RGB{0, 255, 0}},
	{LEDCyan, "cyan", RGB{0, 255, 200}},
	{LEDBlue, "blue", RGB{0, 170, 255}},
	{LEDPurple, "purple", RGB{150, 0, 255}},
	{LEDPink, "pink", RGB{255, 60, 170}},
	{LEDOrange, "orange", RGB{255, 110, 0}},
}

// PageColors lights the page-select button of the current page.
var PageColors = [8]LEDColor{
	LEDRed,
	LEDOrange,
	LEDPink,
	LEDPurple,
	LEDBlue,
	LEDCyan,
	LEDGreen,
	LEDYellow,
}

// StateColors is the fallback colour table for multistate controls.
var StateColors = []LEDColor{
	LEDDim,
	LEDGreen,
	LEDRed,
	LEDYellow,
	LEDCyan,
	LEDPurple,
	LEDOrange,
	LEDPink,
}

// CategoryColors maps preset categories to pad colours
var CategoryColors = map[string]LEDColor{
	"kick":       LEDRed,
	"bass":       LEDOrange,
	"snare":      LEDYellow,
	"hihat":      LEDGreen,
	"percussion": LEDCyan,
	"lead":       LEDBlue,
	"pad":        LEDPurple,
	"fx":         LEDPink,
}

// CategoryColor strips the trailing number from a preset name ("kick01")
// and returns its category colour, or LEDDim when unknown.
func CategoryColor(presetName string) LEDColor {
	category := strings.TrimRight(presetName, "0123456789")
	if c, ok := CategoryColors[category]; ok {
		return c
	}
	return LEDDim
}

func (c LEDColor) String() string {
	for _, p := range ledPalette {
		if p.code == c {
			return p.name
		}
	}
	return strconv.Itoa(int(c))
}

// RGB returns the preview colour. Codes outside the known subset render grey.
func (c LEDColor) RGB() RGB {
	for _, p := range ledPalette {
		if p.code == c {
			return p.rgb
		}
	}
	return RGB{128, 128, 128}
}

func (c LEDColor) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText accepts a palette name ("cyan"), a raw code ("45") or a hex
// colour ("#ff8800") which is snapped to the nearest palette entry.
func (c *LEDColor) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for _, p := range ledPalette {
		if p.name == s {
			*c = p.code
			return nil
		}
	}
	if strings.HasPrefix(s, "#") {
		col, err := colorful.Hex(s)
		if err != nil {
			return fmt.Errorf("led colour %q: %w", s, err)
		}
		r, g, b := col.RGB255()
		*c = NearestLED(RGB{r, g, b})
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 127 {
		return fmt.Errorf("unknown led colour %q", s)
	}
	*c = LEDColor(n)
	return nil
}

// NearestLED finds the palette code closest to rgb in Lab space.
func NearestLED(rgb RGB) LEDColor {
	target := toColorful(rgb)
	best := LEDOff
	bestDist := -1.0
	for _, p := range ledPalette {
		d := target.DistanceLab(toColorful(p.rgb))
		if bestDist < 0 || d < bestDist {
			bestDist = d
			best = p.code
		}
	}
	return best
}

func toColorful(c RGB) colorful.Color {
	return colorful.Color{R: float64(c[0]) / 255, G: float64(c[1]) / 255, B: float64(c[2]) / 255}
}
