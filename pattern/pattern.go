// Package pattern holds fixed 8-beat trigger patterns and the player that
// quantizes them against the live beat counter.
package pattern

import (
	"errors"
	"fmt"
	"sort"
)

// Length is the loop period of every pattern, in beats.
const Length = 8.0

var (
	ErrBeatOutOfRange = errors.New("event beat outside [0, 8)")
	ErrInvalidPattern = errors.New("invalid pattern")
	ErrUnknownPattern = errors.New("unknown pattern")
)

// Event triggers Preset at Beat within the 8-beat loop.
type Event struct {
	Beat   float64 `yaml:"beat" json:"beat"`
	Preset int     `yaml:"preset" json:"preset"`
}

// Pattern is immutable once built.
type Pattern struct {
	name   string
	events []Event
}

// New validates and copies events, ordering them by beat.
func New(name string, events []Event) (*Pattern, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrInvalidPattern)
	}
	evs := make([]Event, len(events))
	for i, e := range events {
		if e.Beat < 0 || e.Beat >= Length {
			return nil, fmt.Errorf("%w: %q event %d at beat %v", ErrBeatOutOfRange, name, i, e.Beat)
		}
		if e.Preset < 0 {
			return nil, fmt.Errorf("%w: %q event %d has preset %d", ErrInvalidPattern, name, i, e.Preset)
		}
		evs[i] = e
	}
	sort.SliceStable(evs, func(i, j int) bool { return evs[i].Beat < evs[j].Beat })
	return &Pattern{name: name, events: evs}, nil
}

func MustNew(name string, events []Event) *Pattern {
	p, err := New(name, events)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Pattern) Name() string { return p.name }

func (p *Pattern) Events() []Event {
	return append([]Event(nil), p.events...)
}

func (p *Pattern) Len() int { return len(p.events) }
