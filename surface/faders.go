package surface

import (
	"fmt"
	"math"
)

// NumFaders counts the eight channel faders plus the master.
const NumFaders = 9

// FaderMode picks what a fader button does when toggled on.
type FaderMode int

const (
	FaderMute   FaderMode = iota // effective value forced to 0
	FaderRandom                  // effective value flips between 0 and 1 every beat
)

func (m FaderMode) String() string {
	if m == FaderRandom {
		return "random"
	}
	return "mute"
}

func (m FaderMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *FaderMode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "mute", "":
		*m = FaderMute
	case "random":
		*m = FaderRandom
	default:
		return fmt.Errorf("unknown fader mode %q", string(text))
	}
	return nil
}

// FaderBank keeps raw fader positions and the effective values consumers
// see after the buttons are applied.
type FaderBank struct {
	mode    FaderMode
	raw     [NumFaders]float64
	values  [NumFaders]float64
	toggled [NumFaders]bool
}

func NewFaderBank(mode FaderMode) *FaderBank {
	return &FaderBank{mode: mode}
}

func (f *FaderBank) Mode() FaderMode {
	return f.mode
}

// SetFader records a fader move. v is clamped to [0, 1]. While the
// fader's button is on only the raw value changes.
func (f *FaderBank) SetFader(i int, v float64) {
	if i < 0 || i >= NumFaders {
		return
	}
	v = math.Max(0, math.Min(1, v))
	f.raw[i] = v
	if !f.toggled[i] {
		f.values[i] = v
	}
}

// PressButton flips a fader button. Turning it off restores the raw value.
func (f *FaderBank) PressButton(i int) {
	if i < 0 || i >= NumFaders {
		return
	}
	f.toggled[i] = !f.toggled[i]
	switch {
	case !f.toggled[i]:
		f.values[i] = f.raw[i]
	case f.mode == FaderMute:
		f.values[i] = 0
	}
}

// Advance updates buttons that are on for the given beat.
func (f *FaderBank) Advance(beat float64) {
	step := int64(math.Floor(beat))
	for i := range f.toggled {
		if !f.toggled[i] {
			continue
		}
		if f.mode == FaderMute {
			f.values[i] = 0
			continue
		}
		if unitRand(step, uint64(i)) < 0.5 {
			f.values[i] = 0
		} else {
			f.values[i] = 1
		}
	}
}

func (f *FaderBank) Value(i int) float64 {
	if i < 0 || i >= NumFaders {
		return 0
	}
	return f.values[i]
}

func (f *FaderBank) Raw(i int) float64 {
	if i < 0 || i >= NumFaders {
		return 0
	}
	return f.raw[i]
}

func (f *FaderBank) Toggled(i int) bool {
	return i >= 0 && i < NumFaders && f.toggled[i]
}

// Values returns all effective values.
func (f *FaderBank) Values() [NumFaders]float64 {
	return f.values
}
