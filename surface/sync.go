package surface

import (
	"hash/fnv"
	"math"
)

// Advance applies beat-synced behaviour: armed random controls pick a new
// target cell and sequences step once per scaled beat. It also updates the
// fader bank. beat is the clock's musical beat.
func (s *Surface) Advance(beat float64) {
	for _, key := range s.order {
		c := s.controls[key]
		switch c.cfg.Kind {
		case Random:
			s.advanceRandom(c, beat)
		case Sequence:
			advanceSequence(c, beat)
		}
	}
	s.Faders.Advance(beat)
}

func (s *Surface) advanceRandom(c *control, beat float64) {
	if !c.on {
		return
	}
	step := int64(math.Floor(beat * c.speed))
	if step == c.watermark {
		return
	}
	c.watermark = step

	target := s.controls[c.cfg.Target]
	n := len(target.cfg.Cells)
	target.index = pick(n, target.index, !c.cfg.AllowRepeat, step, c.salt)
}

func advanceSequence(c *control, beat float64) {
	step := int64(math.Floor(beat * c.speed))
	if step == c.watermark {
		return
	}
	c.watermark = step
	n := int64(len(c.pattern))
	pos := step % n
	if pos < 0 {
		pos += n
	}
	c.position = int(pos)
	c.on = c.pattern[c.position]
}

// pick chooses a cell index in [0, n) for the given step. With exclude set
// and more than one cell, the current index is never chosen.
func pick(n, current int, exclude bool, step int64, salt uint64) int {
	if n <= 0 {
		return 0
	}
	u := unitRand(step, salt)
	if exclude && n > 1 && current >= 0 && current < n {
		r := int(u * float64(n-1))
		if r >= current {
			r++
		}
		return r
	}
	return int(u * float64(n))
}

// unitRand is a stateless hash of (step, salt) onto [0, 1). The same inputs
// always give the same value so replays and tests are reproducible.
func unitRand(step int64, salt uint64) float64 {
	x := uint64(step)*0x9e3779b97f4a7c15 ^ salt
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return float64(x>>11) / (1 << 53)
}

func keySalt(key string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(key))
	return h.Sum64()
}
