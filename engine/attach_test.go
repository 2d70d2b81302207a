package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-beatgrid/midi"
	"go-beatgrid/surface"
)

type fakeController struct {
	fakeSink
	id     string
	inputs chan midi.Input
}

func (f *fakeController) ID() string                { return f.id }
func (f *fakeController) Type() midi.ControllerType { return midi.ControllerAPCMini }
func (f *fakeController) Inputs() <-chan midi.Input { return f.inputs }
func (f *fakeController) Close() error {
	close(f.inputs)
	return nil
}

func TestAttachForwardsInputAndDrivesLEDs(t *testing.T) {
	e, rec := newEngine(t, Options{Controls: []surface.Config{
		{Key: PresetKey(2), Kind: surface.Oneshot, Cells: cell(0, 0)},
	}})
	ctrl := &fakeController{id: "apc", inputs: make(chan midi.Input, 4)}

	e.Attach(ctrl)
	assert.Equal(t, "apc", e.Attached())

	ctrl.inputs <- pad(0, 0)
	now := 0.0
	require.Eventually(t, func() bool {
		e.Frame(now)
		now += 16
		return len(rec.spawns) > 0
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []int{2}, rec.presets())
	assert.NotEmpty(t, ctrl.batches)

	e.Detach("other")
	assert.Equal(t, "apc", e.Attached())
	e.Detach("apc")
	assert.Empty(t, e.Attached())

	sent := len(ctrl.batches)
	e.HandleInput(pad(0, 0))
	e.Frame(now + 100)
	assert.Len(t, ctrl.batches, sent, "detached controller gets no LEDs")
	ctrl.Close()
}
