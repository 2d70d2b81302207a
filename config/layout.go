package config

import (
	"go-beatgrid/engine"
	"go-beatgrid/looper"
	"go-beatgrid/surface"
	"go-beatgrid/theme"
)

// DefaultLayout builds the stock control layout.
//
// Page 0 is for playing: preset pads on rows 0-1, pattern toggles on row 2,
// tap/speed on row 4, looper record and clear on rows 6-7. Page 1 holds the
// preset selector with its random driver, a pulse sequence and a mode
// switch for the renderer.
func DefaultLayout(presets []string, patterns int) []surface.Config {
	var controls []surface.Config

	for i, name := range presets {
		if i >= 2*surface.GridCols {
			break
		}
		controls = append(controls, surface.Config{
			Key:           engine.PresetKey(i),
			Kind:          surface.Oneshot,
			Cells:         []surface.Cell{{Page: 0, Row: i / surface.GridCols, Col: i % surface.GridCols}},
			ActiveColor:   theme.LEDOn,
			InactiveColor: theme.CategoryColor(name),
		})
	}

	for i := 0; i < patterns && i < surface.GridCols; i++ {
		controls = append(controls, surface.Config{
			Key:         engine.PatternKey(i),
			Kind:        surface.Toggle,
			Cells:       []surface.Cell{{Page: 0, Row: 2, Col: i}},
			ActiveColor: theme.LEDGreen,
		})
	}

	controls = append(controls,
		surface.Config{
			Key:         engine.KeyTap,
			Kind:        surface.Oneshot,
			Cells:       []surface.Cell{{Page: 0, Row: 4, Col: 0}},
			ActiveColor: theme.LEDYellow,
		},
		surface.Config{
			Key:        engine.KeySpeed,
			Kind:       surface.Multistate,
			Cells:      []surface.Cell{{Page: 0, Row: 4, Col: 1}},
			StateCount: 5,
			StateColors: []theme.LEDColor{
				theme.LEDDim, theme.LEDCyan, theme.LEDBlue, theme.LEDOrange, theme.LEDRed,
			},
		},
	)

	for i := 0; i < looper.NumLoopers; i++ {
		controls = append(controls,
			surface.Config{
				Key:         engine.LooperRecordKey(i),
				Kind:        surface.Multistate,
				Cells:       []surface.Cell{{Page: 0, Row: 6, Col: i}},
				StateCount:  3,
				StateColors: []theme.LEDColor{theme.LEDDim, theme.LEDRed, theme.LEDGreen},
			},
			surface.Config{
				Key:           engine.LooperClearKey(i),
				Kind:          surface.Oneshot,
				Cells:         []surface.Cell{{Page: 0, Row: 7, Col: i}},
				ActiveColor:   theme.LEDOn,
				InactiveColor: theme.LEDOrange,
			},
		)
	}

	n := len(presets)
	if n > 2*surface.GridCols {
		n = 2 * surface.GridCols
	}
	if n > 1 {
		cells := make([]surface.Cell, n)
		for i := range cells {
			cells[i] = surface.Cell{Page: 1, Row: i / surface.GridCols, Col: i % surface.GridCols}
		}
		controls = append(controls,
			surface.Config{
				Key:         engine.KeyPresetSelect,
				Kind:        surface.Radio,
				Cells:       cells,
				ActiveColor: theme.LEDPink,
			},
			surface.Config{
				Key:         "preset_auto",
				Kind:        surface.Random,
				Target:      engine.KeyPresetSelect,
				Cells:       []surface.Cell{{Page: 1, Row: 2, Col: 0}},
				ActiveColor: theme.LEDPurple,
			},
			surface.Config{
				Key:         "preset_auto_fast",
				Kind:        surface.Random,
				Target:      engine.KeyPresetSelect,
				Speed:       2,
				Cells:       []surface.Cell{{Page: 1, Row: 2, Col: 1}},
				ActiveColor: theme.LEDPurple,
			},
		)
	}

	pulse := make([]surface.Cell, surface.GridCols)
	for i := range pulse {
		pulse[i] = surface.Cell{Page: 1, Row: 4, Col: i}
	}
	controls = append(controls,
		surface.Config{
			Key:         "pulse",
			Kind:        surface.Sequence,
			Cells:       pulse,
			Speed:       2,
			Pattern:     []bool{true, false, false, false, true, false, true, false},
			ActiveColor: theme.LEDOn,
			OnColor:     theme.LEDCyan,
		},
		surface.Config{
			Key:        "mode",
			Kind:       surface.Multistate,
			Cells:      []surface.Cell{{Page: 1, Row: 6, Col: 0}},
			StateCount: 4,
		},
		surface.Config{
			Key:         "blackout",
			Kind:        surface.Momentary,
			Cells:       []surface.Cell{{Page: 1, Row: 7, Col: 7}},
			ActiveColor: theme.LEDRed,
		},
	)
	return controls
}
