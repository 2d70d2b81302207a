package pattern

import "math"

// tolerance absorbs frame jitter around an event's beat. The due window is
// shifted forward by it, so an event fires up to tolerance beats early and
// adjacent windows still tile.
const tolerance = 0.01

// Player loops one pattern against the beat counter. Not safe for
// concurrent use.
type Player struct {
	pattern *Pattern
	last    float64
	primed  bool
}

func NewPlayer(p *Pattern) *Player {
	return &Player{pattern: p}
}

// SetPattern swaps the pattern (nil stops playback) and resets the player.
func (pl *Player) SetPattern(p *Pattern) {
	pl.pattern = p
	pl.Reset()
}

func (pl *Player) Pattern() *Pattern { return pl.pattern }

func (pl *Player) Name() string {
	if pl.pattern == nil {
		return ""
	}
	return pl.pattern.name
}

// Reset forgets the last processed beat; the next call only primes.
func (pl *Player) Reset() {
	pl.primed = false
	pl.last = 0
}

// EventsToPlay returns presets whose events fall in
// (last+tolerance, currentBeat+tolerance], mapped through the 8-beat loop,
// in chronological order. The first call after a reset, or after the beat
// moved backwards, only records the beat. Steps smaller than tolerance
// return nothing and keep the previous beat, and a jump longer than one
// period covers one period only.
func (pl *Player) EventsToPlay(currentBeat float64) []int {
	if pl.pattern == nil || len(pl.pattern.events) == 0 {
		return nil
	}
	if !pl.primed || currentBeat < pl.last {
		pl.last = currentBeat
		pl.primed = true
		return nil
	}
	if currentBeat-pl.last < tolerance {
		return nil
	}

	from := math.Max(pl.last, currentBeat-Length) + tolerance
	to := currentBeat + tolerance
	pl.last = currentBeat

	var due []int
	first := math.Floor(from / Length)
	last := math.Floor(to / Length)
	for cycle := first; cycle <= last; cycle++ {
		base := cycle * Length
		for _, e := range pl.pattern.events {
			b := base + e.Beat
			if b > from && b <= to {
				due = append(due, e.Preset)
			}
		}
	}
	return due
}
