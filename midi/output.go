package midi

import (
	"fmt"
	"strings"

	"go-beatgrid/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// PresetOutput mirrors spawned presets as notes on a MIDI output, so
// external synths or visual tools can follow along.
type PresetOutput struct {
	port     drivers.Out
	send     func(msg gomidi.Message) error
	channel  uint8
	baseNote uint8
}

// OpenPresetOutput opens the first output port whose name contains match.
func OpenPresetOutput(match string, channel, baseNote uint8) (*PresetOutput, error) {
	if channel > 15 {
		return nil, fmt.Errorf("preset output: channel %d out of range", channel)
	}
	match = strings.ToLower(match)
	for _, out := range gomidi.GetOutPorts() {
		if !strings.Contains(strings.ToLower(out.String()), match) {
			continue
		}
		send, err := gomidi.SendTo(out)
		if err != nil {
			return nil, fmt.Errorf("preset output %q: %w", out.String(), err)
		}
		debug.Log("midi", "preset output on %q ch=%d base=%d", out.String(), channel, baseNote)
		return &PresetOutput{port: out, send: send, channel: channel, baseNote: baseNote}, nil
	}
	return nil, fmt.Errorf("preset output: no port matching %q", match)
}

// Spawn sends a short note for the preset. bpm is unused; the signature
// matches engine.Spawner.
func (o *PresetOutput) Spawn(preset int, bpm float64) error {
	note := int(o.baseNote) + preset
	if note < 0 || note > 127 {
		return fmt.Errorf("preset %d outside note range", preset)
	}
	if err := o.send(gomidi.NoteOn(o.channel, uint8(note), 100)); err != nil {
		return err
	}
	return o.send(gomidi.NoteOff(o.channel, uint8(note)))
}

func (o *PresetOutput) Close() error {
	return o.port.Close()
}
