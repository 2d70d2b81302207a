package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go-beatgrid/engine"
	"go-beatgrid/pattern"
	"go-beatgrid/surface"

	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("invalid config")

// ControllerConfig selects the grid controller
type ControllerConfig struct {
	PortName    string `yaml:"port_name,omitempty"` // substring match; empty means any APC mini mk2
	AutoConnect bool   `yaml:"auto_connect"`
}

// PresetOutputConfig mirrors spawned presets as MIDI notes
type PresetOutputConfig struct {
	PortName string `yaml:"port_name,omitempty"`
	Channel  int    `yaml:"channel,omitempty"` // 1-16
	BaseNote int    `yaml:"base_note,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	BPM             float64            `yaml:"bpm"`
	FaderButtonMode surface.FaderMode  `yaml:"fader_button_mode"`
	Presets         []string           `yaml:"presets"`
	Patterns        []string           `yaml:"patterns,omitempty"`
	Controller      ControllerConfig   `yaml:"controller"`
	PresetOutput    PresetOutputConfig `yaml:"preset_output,omitempty"`
	Controls        []surface.Config   `yaml:"controls"`
}

// DefaultPresets names the stock preset slots; the name prefix picks the
// pad colour.
var DefaultPresets = []string{
	"kick01", "bass01", "snare01", "hihat01", "percussion01", "lead01", "pad01", "fx01",
	"kick03", "bass02", "snare03", "hihat03", "percussion02", "lead02", "lead03", "fx02",
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		BPM:             120,
		FaderButtonMode: surface.FaderRandom,
		Presets:         append([]string(nil), DefaultPresets...),
		Patterns:        pattern.Names(),
		Controller:      ControllerConfig{AutoConnect: true},
		Controls:        DefaultLayout(DefaultPresets, len(pattern.Names())),
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-beatgrid"), nil
}

// ConfigPath returns the full path to config.yaml
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config from the default path, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads a config file. A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	cfg.Controls = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(cfg.Controls) == 0 {
		cfg.Controls = DefaultLayout(cfg.Presets, len(cfg.Patterns))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to the default path
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the fields that do not need the engine to verify.
func (c *Config) Validate() error {
	if c.BPM <= 0 {
		return fmt.Errorf("%w: bpm %v", ErrInvalid, c.BPM)
	}
	if len(c.Presets) == 0 {
		return fmt.Errorf("%w: no presets", ErrInvalid)
	}
	for _, name := range c.Patterns {
		if _, err := pattern.Lookup(name); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalid, err)
		}
	}
	if o := c.PresetOutput; o.PortName != "" {
		if o.Channel < 1 || o.Channel > 16 {
			return fmt.Errorf("%w: preset output channel %d", ErrInvalid, o.Channel)
		}
		if o.BaseNote < 0 || o.BaseNote+len(c.Presets) > 128 {
			return fmt.Errorf("%w: preset output base note %d", ErrInvalid, o.BaseNote)
		}
	}
	return nil
}

// EngineOptions resolves pattern names into engine options.
func (c *Config) EngineOptions() (engine.Options, error) {
	opts := engine.Options{
		BPM:       c.BPM,
		Presets:   len(c.Presets),
		Controls:  c.Controls,
		FaderMode: c.FaderButtonMode,
	}
	for _, name := range c.Patterns {
		p, err := pattern.Lookup(name)
		if err != nil {
			return engine.Options{}, err
		}
		opts.Patterns = append(opts.Patterns, p)
	}
	return opts, nil
}
