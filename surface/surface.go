package surface

import (
	"fmt"
	"sort"

	"go-beatgrid/debug"
	"go-beatgrid/theme"
)

type cellRef struct {
	key   string
	index int // position of the cell within its control's cell list
}

// Surface is the registry of logical controls laid over the 8x8 pad grid
// and its pages. It is not safe for concurrent use; the engine owns it.
type Surface struct {
	cells    map[Cell]cellRef
	controls map[string]*control
	order    []string
	blockers map[string][]string // radio key -> random controls driving it
	page     int

	Faders *FaderBank
}

func New(mode FaderMode) *Surface {
	return &Surface{
		cells:    make(map[Cell]cellRef),
		controls: make(map[string]*control),
		blockers: make(map[string][]string),
		Faders:   NewFaderBank(mode),
	}
}

// Register adds a control. Either the whole config is accepted or the
// surface is left untouched.
func (s *Surface) Register(cfg Config) error {
	if err := s.validate(cfg); err != nil {
		return err
	}
	c := newControl(cfg)
	for i, cell := range cfg.Cells {
		s.cells[cell] = cellRef{key: cfg.Key, index: i}
	}
	s.controls[cfg.Key] = c
	s.order = append(s.order, cfg.Key)
	if cfg.Kind == Random {
		s.blockers[cfg.Target] = append(s.blockers[cfg.Target], cfg.Key)
	}
	debug.Log("surface", "registered %s %q on %d cells", cfg.Kind, cfg.Key, len(cfg.Cells))
	return nil
}

// MustRegister is Register for static layouts; it panics on error.
func (s *Surface) MustRegister(cfg Config) {
	if err := s.Register(cfg); err != nil {
		panic(err)
	}
}

// RegisterAll registers configs in order and stops at the first error.
func (s *Surface) RegisterAll(cfgs []Config) error {
	for _, cfg := range cfgs {
		if err := s.Register(cfg); err != nil {
			return fmt.Errorf("register %q: %w", cfg.Key, err)
		}
	}
	return nil
}

func (s *Surface) validate(cfg Config) error {
	if cfg.Key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidConfig)
	}
	if _, ok := s.controls[cfg.Key]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, cfg.Key)
	}
	if !cfg.Kind.valid() {
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidConfig, int(cfg.Kind))
	}
	if len(cfg.Cells) == 0 {
		return fmt.Errorf("%w: %q has no cells", ErrInvalidConfig, cfg.Key)
	}
	if cfg.Speed < 0 {
		return fmt.Errorf("%w: %q has negative speed %v", ErrInvalidConfig, cfg.Key, cfg.Speed)
	}

	seen := make(map[Cell]bool, len(cfg.Cells))
	for _, cell := range cfg.Cells {
		if !cell.inRange() {
			return fmt.Errorf("%w: %s", ErrCellOutOfRange, cell)
		}
		if seen[cell] {
			return &DuplicateCellError{Cell: cell, Owner: cfg.Key, Key: cfg.Key}
		}
		seen[cell] = true
		if ref, ok := s.cells[cell]; ok {
			return &DuplicateCellError{Cell: cell, Owner: ref.key, Key: cfg.Key}
		}
	}

	switch cfg.Kind {
	case Random:
		target, ok := s.controls[cfg.Target]
		if !ok || target.cfg.Kind != Radio {
			return fmt.Errorf("%w: %q -> %q", ErrMissingTarget, cfg.Key, cfg.Target)
		}
	case Sequence:
		if len(cfg.Pattern) > 0 && len(cfg.Pattern) != len(cfg.Cells) {
			return fmt.Errorf("%w: %q pattern has %d steps for %d cells",
				ErrInvalidConfig, cfg.Key, len(cfg.Pattern), len(cfg.Cells))
		}
	case Multistate:
		if cfg.StateCount < 0 {
			return fmt.Errorf("%w: %q state count %d", ErrInvalidConfig, cfg.Key, cfg.StateCount)
		}
		n := cfg.StateCount
		if n == 0 {
			n = 2
		}
		if len(cfg.StateColors) > 0 && len(cfg.StateColors) < n {
			return fmt.Errorf("%w: %q has %d state colours for %d states",
				ErrInvalidConfig, cfg.Key, len(cfg.StateColors), n)
		}
	}
	return nil
}

// Press handles a pad press or release. Unmapped cells are ignored.
func (s *Surface) Press(page, row, col int, pressed bool) {
	ref, ok := s.cells[Cell{Page: page, Row: row, Col: col}]
	if !ok {
		return
	}
	c := s.controls[ref.key]

	if !pressed {
		if c.cfg.Kind == Momentary {
			c.on = false
		}
		return
	}

	switch c.cfg.Kind {
	case Toggle:
		c.on = !c.on
	case Oneshot, Momentary:
		c.on = true
	case Radio:
		if s.blocked(ref.key) {
			debug.Log("surface", "radio %q blocked by random", ref.key)
			return
		}
		c.index = ref.index
	case Random:
		c.on = !c.on
		c.watermark = -1
	case Sequence:
		// takes effect when the step is next visited
		c.pattern[ref.index] = !c.pattern[ref.index]
	case Multistate:
		c.index = (c.index + 1) % c.stateCount
	}
}

// blocked reports whether an armed random control drives the radio.
func (s *Surface) blocked(radioKey string) bool {
	for _, key := range s.blockers[radioKey] {
		if s.controls[key].on {
			return true
		}
	}
	return false
}

// ReadInputs returns every control value. Reading consumes oneshots.
func (s *Surface) ReadInputs() Inputs {
	in := make(Inputs, len(s.controls))
	for key, c := range s.controls {
		in[key] = c.value()
		if c.cfg.Kind == Oneshot {
			c.on = false
		}
	}
	return in
}

// Value peeks at one control without consuming it.
func (s *Surface) Value(key string) (Value, bool) {
	c, ok := s.controls[key]
	if !ok {
		return Value{}, false
	}
	return c.value(), true
}

// Reset returns a control to its default value.
func (s *Surface) Reset(key string) error {
	c, ok := s.controls[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownControl, key)
	}
	c.reset()
	return nil
}

// Keys lists control keys in registration order.
func (s *Surface) Keys() []string {
	return append([]string(nil), s.order...)
}

func (s *Surface) Config(key string) (Config, bool) {
	c, ok := s.controls[key]
	if !ok {
		return Config{}, false
	}
	return c.cfg, true
}

// Owner returns the control key bound to a cell.
func (s *Surface) Owner(cell Cell) (string, bool) {
	ref, ok := s.cells[cell]
	return ref.key, ok
}

// SetIndex sets the value of a radio or multistate control directly, as
// when restoring a session.
func (s *Surface) SetIndex(key string, index int) error {
	c, ok := s.controls[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownControl, key)
	}
	var n int
	switch c.cfg.Kind {
	case Radio:
		n = len(c.cfg.Cells)
	case Multistate:
		n = c.stateCount
	default:
		return fmt.Errorf("%w: %q is a %s control", ErrInvalidConfig, key, c.cfg.Kind)
	}
	if index < 0 || index >= n {
		return fmt.Errorf("%w: %q index %d outside [0, %d)", ErrInvalidConfig, key, index, n)
	}
	c.index = index
	return nil
}

// SequencePattern returns a copy of a sequence control's current steps.
func (s *Surface) SequencePattern(key string) ([]bool, error) {
	c, err := s.sequence(key)
	if err != nil {
		return nil, err
	}
	return append([]bool(nil), c.pattern...), nil
}

// SetSequencePattern replaces a sequence's steps, e.g. when restoring a save.
func (s *Surface) SetSequencePattern(key string, pattern []bool) error {
	c, err := s.sequence(key)
	if err != nil {
		return err
	}
	if len(pattern) != len(c.pattern) {
		return fmt.Errorf("%w: %q pattern has %d steps, want %d",
			ErrInvalidConfig, key, len(pattern), len(c.pattern))
	}
	copy(c.pattern, pattern)
	c.on = c.pattern[c.position]
	return nil
}

// Position returns the current step of a sequence control.
func (s *Surface) Position(key string) (int, error) {
	c, err := s.sequence(key)
	if err != nil {
		return 0, err
	}
	return c.position, nil
}

func (s *Surface) sequence(key string) (*control, error) {
	c, ok := s.controls[key]
	if !ok || c.cfg.Kind != Sequence {
		return nil, fmt.Errorf("%w: no sequence %q", ErrUnknownControl, key)
	}
	return c, nil
}

// SelectPage switches the visible page. Out of range pages are ignored.
func (s *Surface) SelectPage(page int) {
	if page < 0 || page >= NumPages {
		return
	}
	s.page = page
}

func (s *Surface) Page() int {
	return s.page
}

// UsedPages lists pages that carry at least one control.
func (s *Surface) UsedPages() []int {
	set := make(map[int]bool)
	for cell := range s.cells {
		set[cell.Page] = true
	}
	pages := make([]int, 0, len(set))
	for p := range set {
		pages = append(pages, p)
	}
	sort.Ints(pages)
	return pages
}

// LEDColorFor returns the colour a pad should show. Unmapped cells are off.
func (s *Surface) LEDColorFor(page, row, col int) theme.LEDColor {
	ref, ok := s.cells[Cell{Page: page, Row: row, Col: col}]
	if !ok {
		return theme.LEDOff
	}
	c := s.controls[ref.key]

	switch c.cfg.Kind {
	case Toggle, Oneshot, Momentary, Random:
		if c.on {
			return c.activeColor()
		}
		return c.inactiveColor()
	case Radio:
		if c.index == ref.index {
			return c.activeColor()
		}
		return c.inactiveColor()
	case Sequence:
		if ref.index == c.position {
			return c.activeColor()
		}
		if c.pattern[ref.index] {
			if c.cfg.OnColor != theme.LEDOff {
				return c.cfg.OnColor
			}
			return theme.LEDGreen
		}
		if c.cfg.OffColor != theme.LEDOff {
			return c.cfg.OffColor
		}
		return theme.LEDDim
	case Multistate:
		return c.stateColor(c.index)
	}
	return theme.LEDOff
}

// Grid returns the colours of the visible page, row 0 first.
func (s *Surface) Grid() [GridRows][GridCols]theme.LEDColor {
	var g [GridRows][GridCols]theme.LEDColor
	for r := 0; r < GridRows; r++ {
		for col := 0; col < GridCols; col++ {
			g[r][col] = s.LEDColorFor(s.page, r, col)
		}
	}
	return g
}
