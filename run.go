package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"go-beatgrid/config"
	"go-beatgrid/debug"
	"go-beatgrid/engine"
	"go-beatgrid/midi"
	"go-beatgrid/store"
	"go-beatgrid/theme"
	"go-beatgrid/tui"
)

const frameInterval = time.Second / 60

func runPerformance(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts, err := cfg.EngineOptions()
	if err != nil {
		return err
	}
	e, err := engine.New(opts)
	if err != nil {
		return err
	}

	if out := cfg.PresetOutput; out.PortName != "" {
		po, err := midi.OpenPresetOutput(out.PortName, uint8(out.Channel-1), uint8(out.BaseNote))
		if err != nil {
			return err
		}
		defer po.Close()
		e.AddSpawner(po)
	}

	var st *store.Store
	if dir, err := store.DefaultDir(); err == nil {
		st = store.New(dir)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var deviceMgr *midi.DeviceManager
	if cfg.Controller.AutoConnect {
		deviceMgr = midi.NewDeviceManager(cfg.Controller.PortName)
		go deviceMgr.Run(ctx)
	}

	debug.Log("main", "starting bpm=%.1f presets=%d patterns=%v headless=%v",
		cfg.BPM, len(cfg.Presets), cfg.Patterns, headless)

	if headless {
		e.AddSpawner(printSpawner(cfg))
		var events <-chan midi.DeviceEvent
		if deviceMgr != nil {
			events = deviceMgr.Events()
		}
		fmt.Println("beatgrid running headless. Ctrl+C to exit.")
		runHeadless(ctx, e, events, frameInterval)
		return nil
	}

	m := tui.NewModel(e, deviceMgr, st, theme.New(), cfg.Presets)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func printSpawner(cfg *config.Config) engine.Spawner {
	return engine.SpawnerFunc(func(preset int, bpm float64) error {
		name := fmt.Sprintf("preset%d", preset)
		if preset < len(cfg.Presets) {
			name = cfg.Presets[preset]
		}
		fmt.Printf("[%s] %-14s %6.1f bpm\n", time.Now().Format("15:04:05.000"), name, bpm)
		return nil
	})
}

// runHeadless drives the engine from a ticker until ctx ends. Device
// events arrive on the same goroutine so Attach stays frame-safe.
func runHeadless(ctx context.Context, e *engine.Engine, events <-chan midi.DeviceEvent, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	start := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			switch ev.Type {
			case midi.DeviceConnected:
				e.Attach(ev.Controller)
				fmt.Println("connected", ev.ID)
			case midi.DeviceDisconnected:
				e.Detach(ev.ID)
				fmt.Println("disconnected", ev.ID)
			}
		case t := <-ticker.C:
			e.Frame(float64(t.Sub(start)) / float64(time.Millisecond))
		}
	}
}
