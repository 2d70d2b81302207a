package surface

import (
	"fmt"

	"go-beatgrid/theme"
)

// Grid geometry of the controller
const (
	GridRows = 8
	GridCols = 8
	NumPages = 8
)

// Kind selects how a control reacts to presses and how it lights.
type Kind int

const (
	Toggle     Kind = iota // press flips on/off
	Oneshot                // press sets on, reading clears it
	Momentary              // on while held
	Radio                  // one selected cell out of many
	Random                 // armed flag; picks a new radio cell every scaled beat
	Sequence               // step pattern, one step per scaled beat
	Multistate             // press cycles 0..StateCount-1
)

var kindNames = [...]string{
	Toggle:     "toggle",
	Oneshot:    "oneshot",
	Momentary:  "momentary",
	Radio:      "radio",
	Random:     "random",
	Sequence:   "sequence",
	Multistate: "multistate",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

func (k Kind) valid() bool {
	return k >= Toggle && k <= Multistate
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.valid() {
		return nil, fmt.Errorf("invalid control kind %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	for i, name := range kindNames {
		if name == string(text) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown control kind %q", string(text))
}

// Cell is one physical pad, addressed by page, row (0 = top) and column.
type Cell struct {
	Page int `yaml:"page" json:"page"`
	Row  int `yaml:"row" json:"row"`
	Col  int `yaml:"col" json:"col"`
}

func (c Cell) String() string {
	return fmt.Sprintf("(page=%d, row=%d, col=%d)", c.Page, c.Row, c.Col)
}

func (c Cell) inRange() bool {
	return c.Page >= 0 && c.Page < NumPages &&
		c.Row >= 0 && c.Row < GridRows &&
		c.Col >= 0 && c.Col < GridCols
}

// Config describes one logical control. Zero colours mean "use the default".
type Config struct {
	Key           string         `yaml:"key"`
	Kind          Kind           `yaml:"type"`
	Cells         []Cell         `yaml:"cells"`
	ActiveColor   theme.LEDColor `yaml:"active_color,omitempty"`
	InactiveColor theme.LEDColor `yaml:"inactive_color,omitempty"`

	// Random: the radio control it drives, and whether a pick may repeat
	// the current selection.
	Target      string `yaml:"target,omitempty"`
	AllowRepeat bool   `yaml:"allow_repeat,omitempty"`

	// Random, Sequence: steps per beat (default 1)
	Speed float64 `yaml:"speed,omitempty"`

	// Sequence
	Pattern  []bool         `yaml:"pattern,omitempty"`
	OnColor  theme.LEDColor `yaml:"on_color,omitempty"`
	OffColor theme.LEDColor `yaml:"off_color,omitempty"`

	// Multistate
	StateCount  int              `yaml:"state_count,omitempty"`
	StateColors []theme.LEDColor `yaml:"state_colors,omitempty"`
}

// Value is the current state of a control as seen by consumers.
type Value struct {
	Kind  Kind
	On    bool // toggle, oneshot, momentary, random (armed), sequence (current step)
	Index int  // radio selection, multistate state
}

// Inputs is a snapshot of every control value, keyed by control key.
// Missing keys read as off / zero.
type Inputs map[string]Value

func (in Inputs) Bool(key string) bool {
	return in[key].On
}

func (in Inputs) Int(key string) int {
	return in[key].Index
}

// control is the runtime state behind a Config. Which fields matter depends
// on cfg.Kind; behaviour switches on it exhaustively.
type control struct {
	cfg Config

	on    bool
	index int

	pattern   []bool
	position  int
	watermark int64 // last applied scaled beat, -1 when none

	speed      float64
	stateCount int
	salt       uint64
}

func newControl(cfg Config) *control {
	c := &control{
		cfg:        cfg,
		speed:      cfg.Speed,
		stateCount: cfg.StateCount,
		salt:       keySalt(cfg.Key),
	}
	if c.speed == 0 {
		c.speed = 1
	}
	if c.stateCount == 0 {
		c.stateCount = 2
	}
	if cfg.Kind == Sequence {
		c.pattern = make([]bool, len(cfg.Cells))
		copy(c.pattern, cfg.Pattern)
	}
	c.reset()
	return c
}

// reset restores the default value. Sequence patterns are kept.
func (c *control) reset() {
	c.on = false
	c.index = 0
	c.watermark = -1
	c.position = 0
	if c.cfg.Kind == Sequence && len(c.pattern) > 0 {
		c.on = c.pattern[0]
	}
}

func (c *control) value() Value {
	return Value{Kind: c.cfg.Kind, On: c.on, Index: c.index}
}

func (c *control) activeColor() theme.LEDColor {
	if c.cfg.ActiveColor != theme.LEDOff {
		return c.cfg.ActiveColor
	}
	return theme.LEDOn
}

func (c *control) inactiveColor() theme.LEDColor {
	if c.cfg.InactiveColor != theme.LEDOff {
		return c.cfg.InactiveColor
	}
	return theme.LEDDim
}

func (c *control) stateColor(state int) theme.LEDColor {
	if len(c.cfg.StateColors) > 0 {
		return c.cfg.StateColors[state%len(c.cfg.StateColors)]
	}
	return theme.StateColors[state%len(theme.StateColors)]
}
