package midi

// ControllerType identifies the kind of controller
type ControllerType int

const (
	ControllerUnknown ControllerType = iota
	ControllerAPCMini
)

func (t ControllerType) String() string {
	if t == ControllerAPCMini {
		return "apc mini mk2"
	}
	return "unknown"
}

// Controller is the interface for grid controllers
type Controller interface {
	ID() string
	Type() ControllerType

	// Decoded input from the device
	Inputs() <-chan Input

	// LED output; updates are sent in order
	SendLEDs(updates []LEDUpdate) error

	// Lifecycle
	Close() error
}
