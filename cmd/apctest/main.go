package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"go-beatgrid/midi"
	"go-beatgrid/theme"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "detect":
		detect()
	case "leds":
		testLEDs()
	case "monitor":
		monitor()
	default:
		usage()
	}
}

func usage() {
	fmt.Println("APC mini test scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list     - List all MIDI ports")
	fmt.Println("  detect   - Find an APC mini mk2")
	fmt.Println("  leds     - Test LED control")
	fmt.Println("  monitor  - Print decoded pad, fader and button input")
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	ins, outs, ok := midi.PortNames()
	if !ok {
		fmt.Println("\nTIMEOUT! The MIDI backend is hung.")
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
		return
	}
	for i, p := range ins {
		fmt.Printf("  %d: %s\n", i, p)
	}
	fmt.Println("\n=== MIDI Output Ports ===")
	for i, p := range outs {
		fmt.Printf("  %d: %s\n", i, p)
	}
}

// connect waits for the first controller the device manager finds.
func connect(ctx context.Context, timeout time.Duration) midi.Controller {
	dm := midi.NewDeviceManager("")
	go dm.Run(ctx)

	select {
	case ev := <-dm.Events():
		if ev.Type == midi.DeviceConnected {
			return ev.Controller
		}
	case <-time.After(timeout):
	}
	return nil
}

func detect() {
	fmt.Println("Looking for APC mini mk2...")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := connect(ctx, 3*time.Second)
	if c == nil {
		fmt.Println("\nAPC mini mk2 not found")
		return
	}
	fmt.Printf("\nAPC mini mk2 detected: %s\n", c.ID())
}

func testLEDs() {
	fmt.Println("Testing LED control...")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := connect(ctx, 3*time.Second)
	if c == nil {
		fmt.Println("No APC mini found")
		return
	}

	fmt.Println("Lighting up diagonal in page colours...")
	for i := 0; i < 8; i++ {
		if err := c.SendLEDs([]midi.LEDUpdate{
			midi.PadLED(i, i, theme.PageColors[i]),
			midi.PageLED(i, theme.LEDDim),
		}); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		time.Sleep(100 * time.Millisecond)
	}

	fmt.Println("Press Enter to clear...")
	fmt.Scanln()

	// Close clears every LED
	c.Close()
	fmt.Println("Done!")
}

func monitor() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println("Waiting for APC mini... Ctrl+C to exit.")
	c := connect(ctx, time.Minute)
	if c == nil {
		fmt.Println("No APC mini found")
		return
	}
	fmt.Printf("Monitoring %s\n", c.ID())

	for {
		select {
		case <-ctx.Done():
			c.Close()
			return
		case in, ok := <-c.Inputs():
			if !ok {
				fmt.Println("Controller closed")
				return
			}
			fmt.Printf("[%s] %s\n", time.Now().Format("15:04:05.000"), in)
		}
	}
}
