package midi

import (
	"context"
	"strings"
	"sync"
	"time"

	"go-beatgrid/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
)

// portTimeout bounds a port listing; some backends hang when a device
// misbehaves.
const portTimeout = 3 * time.Second

// DeviceEvent is emitted when controllers connect/disconnect
type DeviceEvent struct {
	Type       DeviceEventType
	Controller Controller
	ID         string
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

// DeviceManager handles hot-plug detection of APC mini controllers
type DeviceManager struct {
	controllers map[string]Controller
	mu          sync.RWMutex
	events      chan DeviceEvent
	pollRate    time.Duration
	match       string
}

// NewDeviceManager creates a device manager. match narrows detection to
// ports whose name contains it; empty means any APC mini.
func NewDeviceManager(match string) *DeviceManager {
	return &DeviceManager{
		controllers: make(map[string]Controller),
		events:      make(chan DeviceEvent, 16),
		pollRate:    time.Second,
		match:       strings.ToLower(match),
	}
}

// Events returns a channel of device connect/disconnect events
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

// Controllers returns a snapshot of connected controllers
func (dm *DeviceManager) Controllers() map[string]Controller {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	snapshot := make(map[string]Controller, len(dm.controllers))
	for k, v := range dm.controllers {
		snapshot[k] = v
	}
	return snapshot
}

// Run starts the polling loop (blocking - run in goroutine)
func (dm *DeviceManager) Run(ctx context.Context) {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()

	// Initial scan
	dm.scan()

	for {
		select {
		case <-ctx.Done():
			dm.closeAll()
			close(dm.events)
			return
		case <-ticker.C:
			dm.scan()
		}
	}
}

type portsResult struct {
	inPorts  []drivers.In
	outPorts []drivers.Out
}

// listPorts queries the driver with a timeout.
func listPorts() (portsResult, bool) {
	ch := make(chan portsResult, 1)
	go func() {
		ch <- portsResult{inPorts: gomidi.GetInPorts(), outPorts: gomidi.GetOutPorts()}
	}()

	select {
	case result := <-ch:
		return result, true
	case <-time.After(portTimeout):
		return portsResult{}, false
	}
}

// PortNames lists input and output port names.
func PortNames() (ins, outs []string, ok bool) {
	ports, ok := listPorts()
	if !ok {
		return nil, nil, false
	}
	for _, p := range ports.inPorts {
		ins = append(ins, p.String())
	}
	for _, p := range ports.outPorts {
		outs = append(outs, p.String())
	}
	return ins, outs, true
}

func (dm *DeviceManager) scan() {
	ports, ok := listPorts()
	if !ok {
		debug.Log("midi", "port scan timed out")
		return
	}

	seenIDs := make(map[string]bool)

	for i, inPort := range ports.inPorts {
		name := strings.ToLower(inPort.String())
		if !dm.matches(name) {
			continue
		}
		id := inPort.String()
		seenIDs[id] = true

		dm.mu.RLock()
		_, exists := dm.controllers[id]
		dm.mu.RUnlock()
		if exists {
			continue
		}

		// Find matching output port
		var outPort drivers.Out
		for j, op := range ports.outPorts {
			if strings.ToLower(op.String()) == name {
				outPort = ports.outPorts[j]
				break
			}
		}

		apc, err := NewAPCController(id, ports.inPorts[i], outPort)
		if err != nil {
			debug.Log("midi", "open %q: %v", id, err)
			continue
		}

		dm.mu.Lock()
		dm.controllers[id] = apc
		dm.mu.Unlock()

		debug.Log("midi", "connected %q", id)
		dm.events <- DeviceEvent{
			Type:       DeviceConnected,
			Controller: apc,
			ID:         id,
		}
	}

	// Check for disconnects
	dm.mu.Lock()
	var toRemove []string
	for id := range dm.controllers {
		if !seenIDs[id] {
			toRemove = append(toRemove, id)
		}
	}
	for _, id := range toRemove {
		c := dm.controllers[id]
		c.Close()
		delete(dm.controllers, id)
		debug.Log("midi", "disconnected %q", id)
		dm.events <- DeviceEvent{
			Type: DeviceDisconnected,
			ID:   id,
		}
	}
	dm.mu.Unlock()
}

func (dm *DeviceManager) matches(name string) bool {
	if dm.match != "" {
		return strings.Contains(name, dm.match)
	}
	return isAPCMini(name)
}

func (dm *DeviceManager) closeAll() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	for _, c := range dm.controllers {
		c.Close()
	}
	dm.controllers = make(map[string]Controller)
}

func isAPCMini(name string) bool {
	name = strings.ToLower(name)
	return strings.Contains(name, "apc mini mk2") && !strings.Contains(name, "notes")
}
