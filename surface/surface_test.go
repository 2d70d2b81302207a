package surface

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-beatgrid/theme"
)

func row(page, r int, cols ...int) []Cell {
	cells := make([]Cell, len(cols))
	for i, c := range cols {
		cells[i] = Cell{Page: page, Row: r, Col: c}
	}
	return cells
}

func TestRegisterDefaults(t *testing.T) {
	s := New(FaderMute)
	s.MustRegister(Config{Key: "t", Kind: Toggle, Cells: row(0, 0, 0)})
	s.MustRegister(Config{Key: "o", Kind: Oneshot, Cells: row(0, 0, 1)})
	s.MustRegister(Config{Key: "m", Kind: Momentary, Cells: row(0, 0, 2)})
	s.MustRegister(Config{Key: "r", Kind: Radio, Cells: row(0, 1, 0, 1, 2, 3)})
	s.MustRegister(Config{Key: "rnd", Kind: Random, Target: "r", Cells: row(0, 0, 3)})
	s.MustRegister(Config{Key: "seq", Kind: Sequence, Cells: row(0, 2, 0, 1, 2, 3), Pattern: []bool{true, false, false, false}})
	s.MustRegister(Config{Key: "ms", Kind: Multistate, Cells: row(0, 0, 4), StateCount: 3})

	in := s.ReadInputs()
	assert.False(t, in.Bool("t"))
	assert.False(t, in.Bool("o"))
	assert.False(t, in.Bool("m"))
	assert.Equal(t, 0, in.Int("r"))
	assert.False(t, in.Bool("rnd"))
	assert.True(t, in.Bool("seq"))
	assert.Equal(t, 0, in.Int("ms"))
	assert.False(t, in.Bool("missing"))
	assert.Equal(t, []string{"t", "o", "m", "r", "rnd", "seq", "ms"}, s.Keys())
}

func TestRegisterErrors(t *testing.T) {
	s := New(FaderMute)
	s.MustRegister(Config{Key: "a", Kind: Toggle, Cells: row(0, 0, 0)})
	s.MustRegister(Config{Key: "tog", Kind: Toggle, Cells: row(0, 0, 7)})

	err := s.Register(Config{Key: "b", Kind: Toggle, Cells: row(0, 0, 0)})
	var dup *DuplicateCellError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "a", dup.Owner)
	assert.Equal(t, "b", dup.Key)
	assert.Equal(t, Cell{0, 0, 0}, dup.Cell)

	err = s.Register(Config{Key: "c", Kind: Radio, Cells: []Cell{{0, 3, 3}, {0, 3, 3}}})
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "c", dup.Owner)

	assert.ErrorIs(t, s.Register(Config{Key: "a", Kind: Toggle, Cells: row(0, 5, 5)}), ErrDuplicateKey)
	assert.ErrorIs(t, s.Register(Config{Key: "", Kind: Toggle, Cells: row(0, 5, 5)}), ErrInvalidConfig)
	assert.ErrorIs(t, s.Register(Config{Key: "d", Kind: Toggle}), ErrInvalidConfig)
	assert.ErrorIs(t, s.Register(Config{Key: "d", Kind: Kind(42), Cells: row(0, 5, 5)}), ErrInvalidConfig)
	assert.ErrorIs(t, s.Register(Config{Key: "d", Kind: Toggle, Cells: row(8, 0, 0)}), ErrCellOutOfRange)
	assert.ErrorIs(t, s.Register(Config{Key: "d", Kind: Toggle, Cells: row(0, 0, 8)}), ErrCellOutOfRange)
	assert.ErrorIs(t, s.Register(Config{Key: "d", Kind: Random, Target: "nope", Cells: row(0, 5, 5)}), ErrMissingTarget)
	assert.ErrorIs(t, s.Register(Config{Key: "d", Kind: Random, Target: "tog", Cells: row(0, 5, 5)}), ErrMissingTarget)
	assert.ErrorIs(t, s.Register(Config{Key: "d", Kind: Sequence, Cells: row(0, 5, 0, 1), Pattern: []bool{true}}), ErrInvalidConfig)
	assert.ErrorIs(t, s.Register(Config{Key: "d", Kind: Sequence, Speed: -1, Cells: row(0, 5, 0, 1)}), ErrInvalidConfig)
	assert.ErrorIs(t, s.Register(Config{Key: "d", Kind: Multistate, StateCount: 3,
		StateColors: []theme.LEDColor{theme.LEDRed}, Cells: row(0, 5, 5)}), ErrInvalidConfig)

	// failed registrations leave nothing behind
	_, owned := s.Owner(Cell{0, 5, 5})
	assert.False(t, owned)
	assert.Equal(t, []string{"a", "tog"}, s.Keys())
}

func TestRegisterAllStopsAtFirstError(t *testing.T) {
	s := New(FaderMute)
	err := s.RegisterAll([]Config{
		{Key: "a", Kind: Toggle, Cells: row(0, 0, 0)},
		{Key: "b", Kind: Toggle, Cells: row(0, 0, 0)},
		{Key: "c", Kind: Toggle, Cells: row(0, 0, 1)},
	})
	assert.Error(t, err)
	assert.Equal(t, []string{"a"}, s.Keys())
}

func TestMustRegisterPanics(t *testing.T) {
	s := New(FaderMute)
	assert.Panics(t, func() { s.MustRegister(Config{Key: "x", Kind: Toggle}) })
}

func TestTogglePress(t *testing.T) {
	s := New(FaderMute)
	s.MustRegister(Config{Key: "t", Kind: Toggle, Cells: row(0, 0, 0), ActiveColor: theme.LEDRed})

	s.Press(0, 0, 0, true)
	s.Press(0, 0, 0, false)
	assert.True(t, s.ReadInputs().Bool("t"))
	assert.True(t, s.ReadInputs().Bool("t"), "toggle survives reads")
	assert.Equal(t, theme.LEDRed, s.LEDColorFor(0, 0, 0))

	s.Press(0, 0, 0, true)
	assert.False(t, s.ReadInputs().Bool("t"))
	assert.Equal(t, theme.LEDDim, s.LEDColorFor(0, 0, 0))
}

func TestOneshotConsumedByRead(t *testing.T) {
	s := New(FaderMute)
	s.MustRegister(Config{Key: "o", Kind: Oneshot, Cells: row(0, 0, 0)})

	s.Press(0, 0, 0, true)
	s.Press(0, 0, 0, true)
	v, _ := s.Value("o")
	assert.True(t, v.On, "peeking does not consume")
	assert.True(t, s.ReadInputs().Bool("o"))
	assert.False(t, s.ReadInputs().Bool("o"))
}

func TestMomentaryFollowsHold(t *testing.T) {
	s := New(FaderMute)
	s.MustRegister(Config{Key: "m", Kind: Momentary, Cells: row(0, 0, 0)})

	s.Press(0, 0, 0, true)
	assert.True(t, s.ReadInputs().Bool("m"))
	assert.True(t, s.ReadInputs().Bool("m"))
	s.Press(0, 0, 0, false)
	assert.False(t, s.ReadInputs().Bool("m"))
}

func TestRadioSelectsPressedCell(t *testing.T) {
	s := New(FaderMute)
	s.MustRegister(Config{Key: "r", Kind: Radio, Cells: row(1, 4, 0, 1, 2, 3)})

	s.Press(1, 4, 2, true)
	assert.Equal(t, 2, s.ReadInputs().Int("r"))
	s.Press(1, 4, 2, false)
	assert.Equal(t, 2, s.ReadInputs().Int("r"))

	assert.Equal(t, theme.LEDOn, s.LEDColorFor(1, 4, 2))
	assert.Equal(t, theme.LEDDim, s.LEDColorFor(1, 4, 0))
	assert.Equal(t, theme.LEDOff, s.LEDColorFor(0, 4, 2), "other page is unmapped")
}

func TestMultistateCycles(t *testing.T) {
	s := New(FaderMute)
	s.MustRegister(Config{Key: "ms", Kind: Multistate, Cells: row(0, 0, 0), StateCount: 3,
		StateColors: []theme.LEDColor{theme.LEDOff, theme.LEDRed, theme.LEDGreen}})

	want := []int{1, 2, 0, 1}
	for _, w := range want {
		s.Press(0, 0, 0, true)
		assert.Equal(t, w, s.ReadInputs().Int("ms"))
	}
	assert.Equal(t, theme.LEDRed, s.LEDColorFor(0, 0, 0))
}

func TestMultistateDefaultsToTwoStates(t *testing.T) {
	s := New(FaderMute)
	s.MustRegister(Config{Key: "ms", Kind: Multistate, Cells: row(0, 0, 0)})
	s.Press(0, 0, 0, true)
	s.Press(0, 0, 0, true)
	assert.Equal(t, 0, s.ReadInputs().Int("ms"))
	assert.Equal(t, theme.StateColors[0], s.LEDColorFor(0, 0, 0))
}

func TestUnmappedPressIgnored(t *testing.T) {
	s := New(FaderMute)
	s.MustRegister(Config{Key: "t", Kind: Toggle, Cells: row(0, 0, 0)})
	s.Press(0, 7, 7, true)
	s.Press(3, 0, 0, true)
	assert.False(t, s.ReadInputs().Bool("t"))
}

func TestReset(t *testing.T) {
	s := New(FaderMute)
	s.MustRegister(Config{Key: "ms", Kind: Multistate, Cells: row(0, 0, 0), StateCount: 4})
	s.Press(0, 0, 0, true)
	s.Press(0, 0, 0, true)
	require.NoError(t, s.Reset("ms"))
	assert.Equal(t, 0, s.ReadInputs().Int("ms"))
	assert.ErrorIs(t, s.Reset("nope"), ErrUnknownControl)
}

func TestPages(t *testing.T) {
	s := New(FaderMute)
	s.MustRegister(Config{Key: "a", Kind: Toggle, Cells: row(2, 0, 0)})
	s.MustRegister(Config{Key: "b", Kind: Toggle, Cells: row(5, 0, 0)})

	s.SelectPage(2)
	assert.Equal(t, 2, s.Page())
	s.SelectPage(9)
	assert.Equal(t, 2, s.Page())
	assert.Equal(t, []int{2, 5}, s.UsedPages())

	s.Press(2, 0, 0, true)
	g := s.Grid()
	assert.Equal(t, theme.LEDOn, g[0][0])
	assert.Equal(t, theme.LEDOff, g[1][0])
}

func TestKindText(t *testing.T) {
	var k Kind
	require.NoError(t, k.UnmarshalText([]byte("multistate")))
	assert.Equal(t, Multistate, k)
	assert.Error(t, k.UnmarshalText([]byte("knob")))
	b, err := Sequence.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "sequence", string(b))
}

func TestSetIndex(t *testing.T) {
	s := New(FaderMute)
	s.MustRegister(Config{Key: "r", Kind: Radio, Cells: row(0, 0, 0, 1, 2)})
	s.MustRegister(Config{Key: "ms", Kind: Multistate, Cells: row(0, 1, 0), StateCount: 3})
	s.MustRegister(Config{Key: "t", Kind: Toggle, Cells: row(0, 2, 0)})

	require.NoError(t, s.SetIndex("r", 2))
	require.NoError(t, s.SetIndex("ms", 2))
	in := s.ReadInputs()
	assert.Equal(t, 2, in.Int("r"))
	assert.Equal(t, 2, in.Int("ms"))

	assert.ErrorIs(t, s.SetIndex("r", 3), ErrInvalidConfig)
	assert.ErrorIs(t, s.SetIndex("t", 0), ErrInvalidConfig)
	assert.ErrorIs(t, s.SetIndex("nope", 0), ErrUnknownControl)
}
