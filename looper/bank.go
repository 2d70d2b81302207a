package looper

// NumLoopers is the number of looper tracks on the surface.
const NumLoopers = 8

// Bank is the fixed set of looper tracks.
type Bank struct {
	loopers [NumLoopers]*Looper
}

func NewBank() *Bank {
	b := &Bank{}
	for i := range b.loopers {
		b.loopers[i] = New(i)
	}
	return b
}

// Get returns track i, or nil when out of range.
func (b *Bank) Get(i int) *Looper {
	if i < 0 || i >= NumLoopers {
		return nil
	}
	return b.loopers[i]
}

// RecordEvent records into every track that is recording.
func (b *Bank) RecordEvent(preset int, nowMs, nowBeat float64) {
	for _, l := range b.loopers {
		l.RecordEvent(preset, nowMs, nowBeat)
	}
}

// EventsToPlay collects due presets from all tracks, track 0 first.
func (b *Bank) EventsToPlay(nowMs, deltaMs float64) []int {
	var due []int
	for _, l := range b.loopers {
		due = append(due, l.EventsToPlay(nowMs, deltaMs)...)
	}
	return due
}

func (b *Bank) Infos() []Info {
	infos := make([]Info, NumLoopers)
	for i, l := range b.loopers {
		infos[i] = l.Info()
	}
	return infos
}

// Snapshots returns the playing loops keyed by track index.
func (b *Bank) Snapshots() map[int]Snapshot {
	snaps := make(map[int]Snapshot)
	for i, l := range b.loopers {
		if s, ok := l.Snapshot(); ok {
			snaps[i] = s
		}
	}
	return snaps
}

func (b *Bank) ClearAll() {
	for _, l := range b.loopers {
		l.Clear()
	}
}
