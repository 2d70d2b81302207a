// Package clock converts wall-clock time into a fractional beat counter.
//
// All times are milliseconds as float64, supplied by the caller, so the clock
// can be driven by a real frame loop or by synthetic time in tests.
package clock

import (
	"math"

	"go-beatgrid/debug"
)

const DefaultBPM = 120.0

const (
	tapHistorySize = 4
	tapTimeoutMs   = 2000.0
)

// Clock is a frame-driven beat clock. It is not safe for concurrent use; the
// frame loop owns it.
type Clock struct {
	bpm      float64
	interval float64 // ms per beat

	lastUpdate float64
	elapsed    float64 // ms since the last whole beat, always < interval
	beatCount  int64
	playing    bool
	advanced   bool // a whole beat boundary was crossed on the last tick

	pendingBPM float64
	hasPending bool

	speed        float64
	speedApplied bool

	taps []float64
}

// New creates a stopped clock. Non-positive tempos fall back to DefaultBPM.
func New(bpm float64) *Clock {
	if bpm <= 0 || math.IsNaN(bpm) || math.IsInf(bpm, 0) {
		bpm = DefaultBPM
	}
	return &Clock{
		bpm:      bpm,
		interval: 60000 / bpm,
		speed:    1,
	}
}

// Start begins counting from beat 0 at nowMs. No-op if already playing.
func (c *Clock) Start(nowMs float64) {
	if c.playing {
		return
	}
	c.playing = true
	c.lastUpdate = nowMs
	c.elapsed = 0
	c.beatCount = 0
	debug.Log("clock", "started at %.0fms, %.2f bpm", nowMs, c.bpm)
}

// Stop freezes the beat counter. Start resets it.
func (c *Clock) Stop() {
	c.playing = false
	c.advanced = false
}

func (c *Clock) Playing() bool {
	return c.playing
}

// Tick advances the clock to nowMs. Pending tempo changes are applied only
// when a whole beat boundary is crossed.
func (c *Clock) Tick(nowMs float64) {
	// speed multipliers last one frame unless re-asserted
	if !c.speedApplied {
		c.speed = 1
	}
	c.speedApplied = false
	c.advanced = false

	if !c.playing {
		return
	}

	delta := nowMs - c.lastUpdate
	c.lastUpdate = nowMs
	if delta <= 0 {
		return
	}
	c.elapsed += delta

	for c.elapsed >= c.interval {
		n := math.Floor(c.elapsed / c.interval)
		c.beatCount += int64(n)
		c.elapsed = math.Mod(c.elapsed, c.interval)
		c.advanced = true

		if c.hasPending {
			c.bpm = c.pendingBPM
			c.interval = 60000 / c.bpm
			c.hasPending = false
			debug.Log("clock", "bpm changed to %.2f at beat %d", c.bpm, c.beatCount)
		}
	}
}

// Beat returns the fractional beat count scaled by the speed multiplier.
func (c *Clock) Beat() float64 {
	raw := float64(c.beatCount) + c.elapsed/c.interval
	return raw * c.speed
}

// BeatAdvanced reports whether the last Tick crossed a whole beat.
func (c *Clock) BeatAdvanced() bool {
	return c.advanced
}

// BPM returns the tempo currently in effect, ignoring any pending change.
func (c *Clock) BPM() float64 {
	return c.bpm
}

// BeatInterval returns the length of one beat in ms at the current tempo.
func (c *Clock) BeatInterval() float64 {
	return c.interval
}

// SetBPM schedules a tempo change for the next beat boundary. Requesting the
// tempo already in effect cancels any pending change.
func (c *Clock) SetBPM(bpm float64) {
	if bpm <= 0 || math.IsNaN(bpm) || math.IsInf(bpm, 0) {
		return
	}
	if bpm == c.bpm {
		c.hasPending = false
		return
	}
	c.pendingBPM = bpm
	c.hasPending = true
	debug.Log("clock", "bpm change to %.2f scheduled for next beat", bpm)
}

// PendingBPM returns the scheduled tempo, if any.
func (c *Clock) PendingBPM() (float64, bool) {
	return c.pendingBPM, c.hasPending
}

// SetSpeedMultiplier scales Beat for the current frame only. The next Tick
// reverts to 1 unless the multiplier is set again before it.
func (c *Clock) SetSpeedMultiplier(m float64) {
	if m <= 0 || math.IsNaN(m) || math.IsInf(m, 0) {
		return
	}
	c.speed = m
	c.speedApplied = true
}

func (c *Clock) SpeedMultiplier() float64 {
	return c.speed
}

func (c *Clock) DoubleSpeed()  { c.SetSpeedMultiplier(2) }
func (c *Clock) QuadSpeed()    { c.SetSpeedMultiplier(4) }
func (c *Clock) HalfSpeed()    { c.SetSpeedMultiplier(0.5) }
func (c *Clock) QuarterSpeed() { c.SetSpeedMultiplier(0.25) }
