package midi

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go-beatgrid/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

var ledSendCount uint64

// ErrClosed is returned when sending to a closed controller.
var ErrClosed = errors.New("controller closed")

// APCController handles an Akai APC mini mk2
type APCController struct {
	id       string
	outPort  drivers.Out
	inPort   drivers.In
	send     func(msg gomidi.Message) error
	stopFunc func()

	inputs    chan Input
	closeOnce sync.Once

	sendMu sync.Mutex // serializes sends with Close
	closed bool
}

// NewAPCController opens the ports. Either port may be nil.
func NewAPCController(id string, inPort drivers.In, outPort drivers.Out) (*APCController, error) {
	apc := &APCController{
		id:      id,
		inPort:  inPort,
		outPort: outPort,
		inputs:  make(chan Input, 64),
	}

	if outPort != nil {
		send, err := gomidi.SendTo(outPort)
		if err != nil {
			return nil, fmt.Errorf("open output: %w", err)
		}
		apc.send = send
	}

	if inPort != nil {
		stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, timestampms int32) {
			in, ok := DecodeMessage(msg)
			if !ok {
				return
			}
			select {
			case apc.inputs <- in:
			default:
				debug.Log("apc", "input dropped: %s", msg)
			}
		})
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		apc.stopFunc = stop
	}

	return apc, nil
}

func (apc *APCController) ID() string {
	return apc.id
}

func (apc *APCController) Type() ControllerType {
	return ControllerAPCMini
}

func (apc *APCController) Inputs() <-chan Input {
	return apc.inputs
}

// SendLEDs sends one NoteOn per update. The caller diffs frames, so only
// changed LEDs arrive here.
func (apc *APCController) SendLEDs(updates []LEDUpdate) error {
	apc.sendMu.Lock()
	defer apc.sendMu.Unlock()
	if apc.closed {
		return ErrClosed
	}
	return apc.sendLocked(updates)
}

func (apc *APCController) sendLocked(updates []LEDUpdate) error {
	if apc.send == nil || len(updates) == 0 {
		return nil
	}

	for _, u := range updates {
		if err := apc.send(u.Message()); err != nil {
			return fmt.Errorf("send led %d: %w", u.Note, err)
		}
	}

	count := atomic.AddUint64(&ledSendCount, uint64(len(updates)))
	if count%100 < uint64(len(updates)) {
		debug.Log("apc-send", "batch count=%d (this batch=%d)", count, len(updates))
	}
	return nil
}

// Close blanks the LEDs and stops input. Safe to call more than once.
func (apc *APCController) Close() error {
	apc.closeOnce.Do(func() {
		apc.sendMu.Lock()
		apc.closed = true
		apc.sendLocked(AllOff())
		apc.sendMu.Unlock()

		if apc.stopFunc != nil {
			apc.stopFunc()
		}
		close(apc.inputs)
	})
	return nil
}
