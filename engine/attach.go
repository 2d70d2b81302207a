package engine

import (
	"go-beatgrid/debug"
	"go-beatgrid/midi"
)

// Attach makes c the LED sink and forwards its input until c closes.
// Frame-goroutine only.
func (e *Engine) Attach(c midi.Controller) {
	debug.Log("ctrl", "attach %q", c.ID())
	e.attached = c.ID()
	e.SetSink(c)
	go func() {
		for in := range c.Inputs() {
			e.Post(in)
		}
	}()
}

// Detach drops the sink if it belongs to the controller with id.
func (e *Engine) Detach(id string) {
	if e.attached != id {
		return
	}
	debug.Log("ctrl", "detach %q", id)
	e.attached = ""
	e.SetSink(nil)
}

// Attached returns the id of the controller driving the LEDs, if any.
func (e *Engine) Attached() string {
	return e.attached
}
