package clock

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeatIsFrameRateIndependent(t *testing.T) {
	const beats = 8
	for _, bpm := range []float64{60, 97.3, 120, 174} {
		for _, step := range []float64{1, 7.3, 16.667, 33, 250} {
			t.Run(fmt.Sprintf("%.1fbpm/%.3fms", bpm, step), func(t *testing.T) {
				c := New(bpm)
				c.Start(0)
				total := beats * 60000 / bpm
				now := 0.0
				for now+step < total {
					now += step
					c.Tick(now)
				}
				c.Tick(total)
				assert.InDelta(t, float64(beats), c.Beat(), 1e-6)
			})
		}
	}
}

func TestPendingBPMWaitsForBeatBoundary(t *testing.T) {
	c := New(120)
	c.Start(0)
	c.Tick(100)

	c.SetBPM(60)
	pending, ok := c.PendingBPM()
	require.True(t, ok)
	assert.Equal(t, 60.0, pending)

	c.Tick(499)
	assert.Equal(t, 120.0, c.BPM())
	assert.Equal(t, 500.0, c.BeatInterval())
	assert.InDelta(t, 0.998, c.Beat(), 1e-9)

	c.Tick(500)
	assert.Equal(t, 60.0, c.BPM())
	assert.True(t, c.BeatAdvanced())
	_, ok = c.PendingBPM()
	assert.False(t, ok)
	assert.InDelta(t, 1.0, c.Beat(), 1e-9)

	c.Tick(1000)
	assert.False(t, c.BeatAdvanced())
	assert.InDelta(t, 1.5, c.Beat(), 1e-9)
}

func TestSetBPMIgnoresInvalidAndCurrentTempo(t *testing.T) {
	c := New(120)
	c.SetBPM(0)
	c.SetBPM(-10)
	_, ok := c.PendingBPM()
	assert.False(t, ok)

	c.SetBPM(90)
	c.SetBPM(120)
	_, ok = c.PendingBPM()
	assert.False(t, ok, "requesting the current tempo cancels the pending change")
}

func TestNewFallsBackToDefaultTempo(t *testing.T) {
	assert.Equal(t, DefaultBPM, New(0).BPM())
	assert.Equal(t, DefaultBPM, New(-3).BPM())
}

func TestTickDoesNothingWhileStopped(t *testing.T) {
	c := New(120)
	c.Tick(1000)
	assert.Equal(t, 0.0, c.Beat())

	c.Start(1000)
	c.Tick(1250)
	assert.InDelta(t, 0.5, c.Beat(), 1e-9)

	c.Stop()
	c.Tick(5000)
	assert.InDelta(t, 0.5, c.Beat(), 1e-9)
	assert.False(t, c.Playing())
}

func TestSpeedMultiplierExpiresAfterOneFrame(t *testing.T) {
	c := New(120)
	c.Start(0)
	c.Tick(500)
	require.InDelta(t, 1.0, c.Beat(), 1e-9)

	c.DoubleSpeed()
	assert.InDelta(t, 2.0, c.Beat(), 1e-9)

	c.Tick(750)
	assert.Equal(t, 2.0, c.SpeedMultiplier())
	assert.InDelta(t, 3.0, c.Beat(), 1e-9)

	c.Tick(1000)
	assert.Equal(t, 1.0, c.SpeedMultiplier())
	assert.InDelta(t, 2.0, c.Beat(), 1e-9)

	c.SetSpeedMultiplier(0)
	assert.Equal(t, 1.0, c.SpeedMultiplier())
}

func TestTapTempo(t *testing.T) {
	c := New(120)
	for i, ts := range []float64{0, 400, 800} {
		c.TapTempo(ts)
		assert.Equal(t, i+1, c.TapCount())
		_, ok := c.PendingBPM()
		assert.False(t, ok)
	}

	c.TapTempo(1200)
	pending, ok := c.PendingBPM()
	require.True(t, ok)
	assert.Equal(t, 150.0, pending)

	// history stays bounded
	c.TapTempo(1600)
	assert.Equal(t, 4, c.TapCount())
}

func TestTapTempoResetsAfterTimeout(t *testing.T) {
	c := New(120)
	c.TapTempo(0)
	c.TapTempo(500)
	c.TapTempo(3000)
	assert.Equal(t, 1, c.TapCount())
}
