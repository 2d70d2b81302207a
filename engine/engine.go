// Package engine runs the per-frame pipeline: clock, control surface,
// patterns and loopers, then preset spawning and LED output.
package engine

import (
	"errors"
	"fmt"

	"go-beatgrid/clock"
	"go-beatgrid/debug"
	"go-beatgrid/looper"
	"go-beatgrid/midi"
	"go-beatgrid/pattern"
	"go-beatgrid/surface"
	"go-beatgrid/theme"
)

// LED refresh rate
const ledFPS = 30

const inputBuffer = 256

var ErrInvalidOptions = errors.New("invalid engine options")

// Spawner receives every due preset trigger.
type Spawner interface {
	Spawn(preset int, bpm float64) error
}

// SpawnerFunc adapts a function to Spawner.
type SpawnerFunc func(preset int, bpm float64) error

func (f SpawnerFunc) Spawn(preset int, bpm float64) error { return f(preset, bpm) }

// LEDSink takes LED changes. midi.Controller satisfies it.
type LEDSink interface {
	SendLEDs(updates []midi.LEDUpdate) error
}

type Options struct {
	BPM       float64
	Presets   int // number of preset slots
	Patterns  []*pattern.Pattern
	Controls  []surface.Config
	FaderMode surface.FaderMode
}

// FrameResult describes one processed frame.
type FrameResult struct {
	Beat         float64
	BPM          float64
	BeatAdvanced bool
	Spawned      []int
	Inputs       surface.Inputs // every control value this frame
	Faders       [surface.NumFaders]float64
}

type ledKey struct {
	note uint8
	grid bool
}

// Engine owns every piece of performance state. It is driven from a single
// goroutine through Frame; other goroutines hand it input with Post.
type Engine struct {
	clock    *clock.Clock
	surface  *surface.Surface
	loopers  *looper.Bank
	players  []*pattern.Player
	presets  int
	spawners []Spawner

	presetOneshot []bool
	presetPrev    []bool
	patternOn     []bool
	recordPrev    [looper.NumLoopers]int
	selectPrev    int
	speedState    int
	lastSpeed     float64

	inputs    chan midi.Input
	started   bool
	lastFrame float64

	sink      LEDSink
	attached  string
	prevLEDs  map[ledKey]theme.LEDColor
	ledDirty  bool
	lastFlush float64
}

// New builds the engine and registers the control layout. Layout and
// pattern errors are returned here rather than surfacing mid-performance.
func New(opts Options) (*Engine, error) {
	if opts.Presets <= 0 {
		return nil, fmt.Errorf("%w: %d preset slots", ErrInvalidOptions, opts.Presets)
	}

	e := &Engine{
		clock:         clock.New(opts.BPM),
		surface:       surface.New(opts.FaderMode),
		loopers:       looper.NewBank(),
		presets:       opts.Presets,
		presetOneshot: make([]bool, opts.Presets),
		presetPrev:    make([]bool, opts.Presets),
		patternOn:     make([]bool, len(opts.Patterns)),
		selectPrev:    -1,
		lastSpeed:     1,
		inputs:        make(chan midi.Input, inputBuffer),
		prevLEDs:      make(map[ledKey]theme.LEDColor),
	}

	for _, p := range opts.Patterns {
		for _, ev := range p.Events() {
			if ev.Preset >= opts.Presets {
				return nil, fmt.Errorf("%w: pattern %q uses preset %d of %d",
					ErrInvalidOptions, p.Name(), ev.Preset, opts.Presets)
			}
		}
		e.players = append(e.players, pattern.NewPlayer(p))
	}

	if err := e.surface.RegisterAll(opts.Controls); err != nil {
		return nil, err
	}
	if err := e.checkLayout(); err != nil {
		return nil, err
	}
	for i := range e.presetOneshot {
		if cfg, ok := e.surface.Config(PresetKey(i)); ok {
			e.presetOneshot[i] = cfg.Kind == surface.Oneshot
		}
	}
	return e, nil
}

// checkLayout rejects engine keys bound to controls of the wrong kind.
func (e *Engine) checkLayout() error {
	want := map[string]surface.Kind{
		KeyTap:          surface.Oneshot,
		KeySpeed:        surface.Multistate,
		KeyPresetSelect: surface.Radio,
	}
	for i := range e.players {
		want[PatternKey(i)] = surface.Toggle
	}
	for i := 0; i < looper.NumLoopers; i++ {
		want[LooperRecordKey(i)] = surface.Multistate
		want[LooperClearKey(i)] = surface.Oneshot
	}
	for key, kind := range want {
		cfg, ok := e.surface.Config(key)
		if ok && cfg.Kind != kind {
			return fmt.Errorf("%w: %q must be %s, got %s", ErrInvalidOptions, key, kind, cfg.Kind)
		}
	}
	for i := 0; i < looper.NumLoopers; i++ {
		cfg, ok := e.surface.Config(LooperRecordKey(i))
		if ok && cfg.StateCount != 3 {
			return fmt.Errorf("%w: %q needs 3 states", ErrInvalidOptions, LooperRecordKey(i))
		}
	}
	if cfg, ok := e.surface.Config(KeyPresetSelect); ok && len(cfg.Cells) > e.presets {
		return fmt.Errorf("%w: %q has %d cells for %d presets", ErrInvalidOptions, KeyPresetSelect, len(cfg.Cells), e.presets)
	}
	return nil
}

// AddSpawner registers a consumer of preset triggers.
func (e *Engine) AddSpawner(s Spawner) {
	e.spawners = append(e.spawners, s)
}

// SetSink sets the LED output and forces a full refresh.
func (e *Engine) SetSink(s LEDSink) {
	debug.Log("ctrl", "SetSink called, resetting diff state")
	e.sink = s
	e.prevLEDs = make(map[ledKey]theme.LEDColor)
	e.ledDirty = true
}

// Post queues input from any goroutine. It never blocks; input is dropped
// when the queue is full.
func (e *Engine) Post(in midi.Input) {
	select {
	case e.inputs <- in:
	default:
		debug.Log("engine", "input queue full, dropped %+v", in)
	}
}

// HandleInput applies one input immediately. Frame-goroutine only.
func (e *Engine) HandleInput(in midi.Input) {
	switch in.Kind {
	case midi.InputPad:
		e.surface.Press(e.surface.Page(), in.Row, in.Col, in.Pressed)
	case midi.InputFader:
		e.surface.Faders.SetFader(in.Index, in.Value)
	case midi.InputFaderButton:
		if in.Pressed {
			e.surface.Faders.PressButton(in.Index)
		}
	case midi.InputPage:
		if in.Pressed {
			e.surface.SelectPage(in.Index)
		}
	}
}

func (e *Engine) drainInputs() {
	for {
		select {
		case in := <-e.inputs:
			e.HandleInput(in)
		default:
			return
		}
	}
}

// Frame runs one pass at nowMs: clock, surface, patterns, loopers, presets,
// then LEDs. The first frame starts the clock.
func (e *Engine) Frame(nowMs float64) FrameResult {
	if !e.started {
		e.started = true
		e.lastFrame = nowMs
		e.clock.Start(nowMs)
	}
	delta := nowMs - e.lastFrame
	e.lastFrame = nowMs

	e.drainInputs()

	if e.speedState > 0 && e.speedState < len(speedSteps) {
		e.clock.SetSpeedMultiplier(speedSteps[e.speedState])
	}
	e.clock.Tick(nowMs)
	beat := e.clock.Beat()
	bpm := e.clock.BPM()

	// a multiplier change rescales the beat; players re-prime instead of
	// treating the jump as elapsed time
	if m := e.clock.SpeedMultiplier(); m != e.lastSpeed {
		e.lastSpeed = m
		for _, pl := range e.players {
			pl.Reset()
		}
	}

	e.surface.Advance(beat)
	in := e.surface.ReadInputs()

	if in.Bool(KeyTap) {
		e.clock.TapTempo(nowMs)
	}
	e.speedState = in.Int(KeySpeed)

	var spawned []int

	for i, pl := range e.players {
		on := in.Bool(PatternKey(i))
		if on != e.patternOn[i] {
			debug.Log("engine", "pattern %q %v", pl.Name(), on)
		}
		e.patternOn[i] = on
		if !on {
			pl.Reset()
			continue
		}
		spawned = append(spawned, pl.EventsToPlay(beat)...)
	}

	for i := 0; i < looper.NumLoopers; i++ {
		e.updateLooper(i, in, nowMs, beat)
	}

	for i := 0; i < e.presets; i++ {
		on := in.Bool(PresetKey(i))
		fire := on && (e.presetOneshot[i] || !e.presetPrev[i])
		e.presetPrev[i] = on
		if fire {
			spawned = append(spawned, i)
			e.loopers.RecordEvent(i, nowMs, beat)
		}
	}

	if v, ok := in[KeyPresetSelect]; ok {
		if v.Index != e.selectPrev && e.selectPrev >= 0 {
			spawned = append(spawned, v.Index)
			e.loopers.RecordEvent(v.Index, nowMs, beat)
		}
		e.selectPrev = v.Index
	}

	spawned = append(spawned, e.loopers.EventsToPlay(nowMs, delta)...)

	for _, p := range spawned {
		e.spawn(p, bpm)
	}

	if e.ledDirty || nowMs-e.lastFlush >= 1000.0/ledFPS {
		e.ledDirty = false
		e.lastFlush = nowMs
		e.flushLEDs()
	}

	return FrameResult{
		Beat:         beat,
		BPM:          bpm,
		BeatAdvanced: e.clock.BeatAdvanced(),
		Spawned:      spawned,
		Inputs:       in,
		Faders:       e.surface.Faders.Values(),
	}
}

// updateLooper follows the record control: 0->1 records, 1->2 plays,
// back to 0 clears. The clear oneshot wins over the record control.
func (e *Engine) updateLooper(i int, in surface.Inputs, nowMs, beat float64) {
	l := e.loopers.Get(i)

	if in.Bool(LooperClearKey(i)) {
		l.Clear()
		e.recordPrev[i] = 0
		if err := e.surface.Reset(LooperRecordKey(i)); err != nil {
			debug.Log("engine", "looper %d: %v", i, err)
		}
		return
	}

	state := in.Int(LooperRecordKey(i))
	if state == e.recordPrev[i] {
		return
	}
	switch state {
	case 1:
		l.StartRecording(nowMs, beat)
	case 2:
		if !l.StopRecordingAndPlay(nowMs, beat) {
			debug.Log("engine", "looper %d: nothing recorded, still recording", i)
		}
	case 0:
		l.Clear()
	}
	e.recordPrev[i] = state
}

func (e *Engine) spawn(preset int, bpm float64) {
	if preset < 0 || preset >= e.presets {
		return
	}
	debug.LogEvery(16, "spawn", "preset %d at %.1f bpm", preset, bpm)
	for _, s := range e.spawners {
		if err := s.Spawn(preset, bpm); err != nil {
			debug.Log("spawn", "preset %d: %v", preset, err)
		}
	}
}

// renderLEDs returns the full LED state: the visible page, fader buttons
// and page buttons.
func (e *Engine) renderLEDs() []midi.LEDUpdate {
	updates := make([]midi.LEDUpdate, 0, surface.GridRows*surface.GridCols+surface.NumFaders+surface.NumPages)
	grid := e.surface.Grid()
	for row := range grid {
		for col, c := range grid[row] {
			updates = append(updates, midi.PadLED(row, col, c))
		}
	}
	for i := 0; i < surface.NumFaders; i++ {
		updates = append(updates, midi.FaderButtonLED(i, e.surface.Faders.Toggled(i)))
	}
	page := e.surface.Page()
	for p := 0; p < surface.NumPages; p++ {
		c := theme.LEDOff
		if p == page {
			c = theme.PageColors[p]
		}
		updates = append(updates, midi.PageLED(p, c))
	}
	return updates
}

// flushLEDs sends only changed LEDs to the sink
func (e *Engine) flushLEDs() {
	if e.sink == nil {
		return
	}

	var updates []midi.LEDUpdate
	for _, u := range e.renderLEDs() {
		k := ledKey{note: u.Note, grid: u.Grid}
		if prev, ok := e.prevLEDs[k]; ok && prev == u.Color {
			continue
		}
		updates = append(updates, u)
	}
	if len(updates) == 0 {
		return
	}

	debug.LogEvery(30, "led", "flushLEDs: batch=%d prev=%d", len(updates), len(e.prevLEDs))
	if err := e.sink.SendLEDs(updates); err != nil {
		debug.Log("led", "send failed: %v", err)
		return
	}
	for _, u := range updates {
		e.prevLEDs[ledKey{note: u.Note, grid: u.Grid}] = u.Color
	}
}

func (e *Engine) Clock() *clock.Clock       { return e.clock }
func (e *Engine) Surface() *surface.Surface { return e.surface }

// Loopers returns a view of every looper track.
func (e *Engine) Loopers() []looper.Info {
	return e.loopers.Infos()
}

// Patterns returns the mounted pattern names in control order.
func (e *Engine) Patterns() []string {
	names := make([]string, len(e.players))
	for i, pl := range e.players {
		names[i] = pl.Name()
	}
	return names
}

// ActivePatterns lists the patterns currently playing.
func (e *Engine) ActivePatterns() []string {
	var names []string
	for i, on := range e.patternOn {
		if on {
			names = append(names, e.players[i].Name())
		}
	}
	return names
}

func (e *Engine) Presets() int { return e.presets }
