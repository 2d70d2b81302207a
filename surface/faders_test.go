package surface

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFaderMute(t *testing.T) {
	f := NewFaderBank(FaderMute)
	f.SetFader(0, 0.8)
	assert.Equal(t, 0.8, f.Value(0))

	f.PressButton(0)
	assert.Equal(t, 0.0, f.Value(0))
	f.SetFader(0, 0.4)
	assert.Equal(t, 0.0, f.Value(0))
	assert.Equal(t, 0.4, f.Raw(0))

	f.PressButton(0)
	assert.Equal(t, 0.4, f.Value(0))
}

func TestFaderRandom(t *testing.T) {
	f := NewFaderBank(FaderRandom)
	f.SetFader(3, 0.25)
	f.PressButton(3)
	assert.True(t, f.Toggled(3))

	for beat := 0; beat < 16; beat++ {
		f.Advance(float64(beat) + 0.1)
		v := f.Value(3)
		assert.True(t, v == 0 || v == 1)
		f.Advance(float64(beat) + 0.9)
		assert.Equal(t, v, f.Value(3), "stable within a beat")
	}

	f.PressButton(3)
	assert.Equal(t, 0.25, f.Value(3))
}

func TestFaderClampAndBounds(t *testing.T) {
	f := NewFaderBank(FaderMute)
	f.SetFader(8, 2)
	assert.Equal(t, 1.0, f.Value(8))
	f.SetFader(1, -1)
	assert.Equal(t, 0.0, f.Value(1))
	f.SetFader(9, 0.5)
	f.PressButton(-1)
	assert.Equal(t, 0.0, f.Value(9))
	assert.False(t, f.Toggled(9))
}

func TestFaderModeText(t *testing.T) {
	var m FaderMode
	assert.NoError(t, m.UnmarshalText([]byte("random")))
	assert.Equal(t, FaderRandom, m)
	assert.Error(t, m.UnmarshalText([]byte("solo")))
}
