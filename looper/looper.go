// Package looper records preset triggers and replays them in a fixed-length
// loop.
package looper

import (
	"fmt"
	"math"
	"sort"

	"go-beatgrid/debug"
)

type State int

const (
	Idle State = iota
	Recording
	Playing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Recording:
		return "recording"
	case Playing:
		return "playing"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Event is one recorded trigger. TimeMs is absolute while recording and
// becomes an offset into the loop once recording stops.
type Event struct {
	Preset int     `json:"preset"`
	TimeMs float64 `json:"time_ms"`
	Beat   float64 `json:"beat"`
}

// Looper is a single record/replay track. Not safe for concurrent use.
type Looper struct {
	index  int
	state  State
	events []Event

	recordStartMs float64
	durationMs    float64
	loopStartMs   float64
}

func New(index int) *Looper {
	return &Looper{index: index}
}

func (l *Looper) Index() int          { return l.index }
func (l *Looper) State() State        { return l.state }
func (l *Looper) DurationMs() float64 { return l.durationMs }

// Events returns a copy of the recorded events.
func (l *Looper) Events() []Event {
	return append([]Event(nil), l.events...)
}

// StartRecording discards any previous loop and begins capturing.
func (l *Looper) StartRecording(nowMs, nowBeat float64) {
	l.events = l.events[:0]
	l.durationMs = 0
	l.recordStartMs = nowMs
	l.state = Recording
	debug.Log("looper", "looper %d recording at beat %.2f", l.index, nowBeat)
}

// RecordEvent appends a trigger. No-op unless recording.
func (l *Looper) RecordEvent(preset int, nowMs, nowBeat float64) {
	if l.state != Recording {
		return
	}
	l.events = append(l.events, Event{Preset: preset, TimeMs: nowMs, Beat: nowBeat})
}

// StopRecordingAndPlay fixes the loop length and starts playback at nowMs.
// It returns false, leaving the looper recording, when nothing was captured
// or no time has passed.
func (l *Looper) StopRecordingAndPlay(nowMs, nowBeat float64) bool {
	if l.state != Recording || len(l.events) == 0 {
		return false
	}
	duration := nowMs - l.recordStartMs
	if duration <= 0 {
		return false
	}

	// Offsets are normalised into [0, duration) so an event captured on
	// the stop frame lands on the loop seam instead of never firing.
	for i := range l.events {
		l.events[i].TimeMs = math.Mod(l.events[i].TimeMs-l.recordStartMs, duration)
	}
	sort.SliceStable(l.events, func(i, j int) bool {
		return l.events[i].TimeMs < l.events[j].TimeMs
	})

	l.durationMs = duration
	l.loopStartMs = nowMs
	l.state = Playing
	debug.Log("looper", "looper %d playing %d events over %.0fms (beat %.2f)",
		l.index, len(l.events), duration, nowBeat)
	return true
}

// Clear returns to idle and drops the recording.
func (l *Looper) Clear() {
	if l.state != Idle {
		debug.Log("looper", "looper %d cleared", l.index)
	}
	l.state = Idle
	l.events = l.events[:0]
	l.durationMs = 0
	l.recordStartMs = 0
	l.loopStartMs = 0
}

// EventsToPlay returns the presets due in the frame that ended at nowMs and
// lasted deltaMs, in chronological order. The frame covers the half-open
// loop-time window [nowMs-deltaMs, nowMs), so consecutive frames tile and
// each event fires once per cycle. Frames longer than the loop are clamped
// to a single cycle, and nothing before the loop start is replayed.
func (l *Looper) EventsToPlay(nowMs, deltaMs float64) []int {
	if l.state != Playing || l.durationMs <= 0 || deltaMs <= 0 {
		return nil
	}
	now := nowMs - l.loopStartMs
	if now <= 0 {
		return nil
	}
	deltaMs = math.Min(deltaMs, math.Min(now, l.durationMs))
	prev := now - deltaMs

	var due []int
	first := math.Floor(prev / l.durationMs)
	last := math.Floor(now / l.durationMs)
	for cycle := first; cycle <= last; cycle++ {
		base := cycle * l.durationMs
		for _, e := range l.events {
			t := base + e.TimeMs
			if t >= prev && t < now {
				due = append(due, e.Preset)
			}
		}
	}
	return due
}

// Info is a compact view for UIs.
type Info struct {
	Index      int
	State      State
	Events     int
	DurationMs float64
}

func (l *Looper) Info() Info {
	return Info{Index: l.index, State: l.state, Events: len(l.events), DurationMs: l.durationMs}
}

// Snapshot is a playing loop in persistable form. Event times are offsets.
type Snapshot struct {
	DurationMs float64 `json:"duration_ms"`
	Events     []Event `json:"events"`
}

// Snapshot returns the loop if it is playing.
func (l *Looper) Snapshot() (Snapshot, bool) {
	if l.state != Playing {
		return Snapshot{}, false
	}
	return Snapshot{DurationMs: l.durationMs, Events: l.Events()}, true
}

// Restore replaces the track with a saved loop and starts it at nowMs.
func (l *Looper) Restore(s Snapshot, nowMs float64) error {
	if s.DurationMs <= 0 || len(s.Events) == 0 {
		return fmt.Errorf("looper %d: empty snapshot", l.index)
	}
	events := make([]Event, 0, len(s.Events))
	for _, e := range s.Events {
		if e.TimeMs < 0 || e.TimeMs >= s.DurationMs {
			return fmt.Errorf("looper %d: event offset %.1fms outside %.1fms loop", l.index, e.TimeMs, s.DurationMs)
		}
		events = append(events, e)
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].TimeMs < events[j].TimeMs })

	l.events = events
	l.durationMs = s.DurationMs
	l.recordStartMs = 0
	l.loopStartMs = nowMs
	l.state = Playing
	return nil
}
