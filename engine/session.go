package engine

import (
	"fmt"

	"go-beatgrid/debug"
	"go-beatgrid/store"
	"go-beatgrid/surface"
)

// Snapshot captures the authored state worth saving.
func (e *Engine) Snapshot() store.Session {
	sess := store.Session{
		BPM:       e.clock.BPM(),
		Page:      e.surface.Page(),
		Sequences: make(map[string][]bool),
		Loopers:   e.loopers.Snapshots(),
	}
	if pending, ok := e.clock.PendingBPM(); ok {
		sess.BPM = pending
	}
	for _, key := range e.surface.Keys() {
		if cfg, _ := e.surface.Config(key); cfg.Kind == surface.Sequence {
			p, _ := e.surface.SequencePattern(key)
			sess.Sequences[key] = p
		}
	}
	return sess
}

// Restore loads a session at the current frame time. Sequences missing
// from the layout are skipped; restored loops start playing at once.
func (e *Engine) Restore(sess store.Session) error {
	if sess.BPM > 0 {
		e.clock.SetBPM(sess.BPM)
	}
	e.surface.SelectPage(sess.Page)

	for key, steps := range sess.Sequences {
		if err := e.surface.SetSequencePattern(key, steps); err != nil {
			debug.Log("engine", "restore %q: %v", key, err)
		}
	}

	for i, snap := range sess.Loopers {
		l := e.loopers.Get(i)
		if l == nil {
			return fmt.Errorf("restore: no looper %d", i)
		}
		if err := l.Restore(snap, e.lastFrame); err != nil {
			return fmt.Errorf("restore: %w", err)
		}
		if _, ok := e.surface.Config(LooperRecordKey(i)); ok {
			if err := e.surface.SetIndex(LooperRecordKey(i), 2); err != nil {
				return fmt.Errorf("restore: %w", err)
			}
			e.recordPrev[i] = 2
		}
	}
	return nil
}
