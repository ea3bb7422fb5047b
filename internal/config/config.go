// Package config loads and saves the trainer's persistent settings.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/leandrodaf/eartrainer/internal/tester"
	"github.com/leandrodaf/eartrainer/sdk/contracts"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// EnvPath overrides the config file location when set.
const EnvPath = "EARTRAINER_CONFIG"

// Config is the persistent application configuration.
type Config struct {
	// NoteFrequency[d] is how many times degree d is tested in a run.
	NoteFrequency      [12]int `json:"noteFrequency"`
	Tonic              int     `json:"tonic"`
	TicksBetweenChords int     `json:"ticksBetweenChords"`
	TickPeriodMs       int     `json:"tickPeriodMs"`
	MIDILow            int     `json:"midiLow"`
	MIDIHigh           int     `json:"midiHigh"`
	AutoAdvance        bool    `json:"autoAdvance"`
	DatabasePath       string  `json:"databasePath"`
	LogLevel           string  `json:"logLevel"` // debug, info, warn, error
}

// DefaultConfig returns the defaults: the i-iv-v preset around middle C.
func DefaultConfig() *Config {
	return &Config{
		NoteFrequency:      mustPreset("i-iv-v").Frequencies,
		Tonic:              60,
		TicksBetweenChords: 5,
		TickPeriodMs:       100,
		MIDILow:            58,
		MIDIHigh:           73,
		DatabasePath:       filepath.Join(homeDir(), "results.db"),
		LogLevel:           "info",
	}
}

// Path returns the path to the config file.
func Path() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return filepath.Join(homeDir(), "config.json")
}

func homeDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".eartrainer")
}

// Load reads the config from Path, or returns defaults if there is none.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config at path. Fields missing from the file keep
// their default values.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to Path.
func (c *Config) Save() error {
	return c.SaveTo(Path())
}

// SaveTo writes the config to path, creating its directory.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the ranges the trainer relies on.
func (c *Config) Validate() error {
	for d, n := range c.NoteFrequency {
		if n < 0 {
			return fmt.Errorf("%w: negative frequency %d for degree %d", ErrInvalidConfig, n, d)
		}
	}
	if c.TicksBetweenChords <= 0 {
		return fmt.Errorf("%w: ticksBetweenChords must be positive", ErrInvalidConfig)
	}
	if c.TickPeriodMs <= 0 {
		return fmt.Errorf("%w: tickPeriodMs must be positive", ErrInvalidConfig)
	}
	if c.MIDILow > c.MIDIHigh {
		return fmt.Errorf("%w: midiLow %d above midiHigh %d", ErrInvalidConfig, c.MIDILow, c.MIDIHigh)
	}
	return nil
}

// Degrees expands NoteFrequency into the degree list handed to the tester.
func (c *Config) Degrees() []int {
	return tester.DegreesFromFrequencies(c.NoteFrequency[:])
}

// TickPeriod returns the scheduler period.
func (c *Config) TickPeriod() time.Duration {
	return time.Duration(c.TickPeriodMs) * time.Millisecond
}

// TrainerOptions converts the settings the core consumes into options.
func (c *Config) TrainerOptions() []contracts.TrainerOption {
	return []contracts.TrainerOption{
		contracts.WithTonic(c.Tonic),
		contracts.WithTicksBetweenChords(c.TicksBetweenChords),
		contracts.WithSoundRange(c.MIDILow, c.MIDIHigh),
		contracts.WithAutoAdvance(c.AutoAdvance),
	}
}
