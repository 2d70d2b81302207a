package clock

import (
	"math"

	"go-beatgrid/debug"
)

// TapTempo records a tap at nowMs. After four taps inside the timeout window
// the mean tap interval becomes the pending tempo.
func (c *Clock) TapTempo(nowMs float64) {
	if n := len(c.taps); n > 0 && nowMs-c.taps[n-1] > tapTimeoutMs {
		debug.Log("clock", "tap history reset after %.0fms gap", nowMs-c.taps[n-1])
		c.taps = c.taps[:0]
	}

	c.taps = append(c.taps, nowMs)
	if len(c.taps) > tapHistorySize {
		c.taps = c.taps[len(c.taps)-tapHistorySize:]
	}

	if len(c.taps) < tapHistorySize {
		return
	}

	sum := 0.0
	for i := 1; i < len(c.taps); i++ {
		sum += c.taps[i] - c.taps[i-1]
	}
	mean := sum / float64(len(c.taps)-1)
	if mean <= 0 {
		return
	}
	c.SetBPM(math.Round(60000 / mean))
}

// TapCount returns the number of taps in the current history.
func (c *Clock) TapCount() int {
	return len(c.taps)
}
