package config

import (
	"errors"
	"fmt"
)

// ErrUnknownPreset is returned for a preset name that does not exist.
var ErrUnknownPreset = errors.New("unknown preset")

// Preset is a named degree-frequency table.
type Preset struct {
	Name        string
	Description string
	Frequencies [12]int
}

var presets = []Preset{
	{"none", "test nothing", [12]int{}},
	{"i-iv-v", "roots of the cadence chords", [12]int{5, 0, 0, 0, 0, 5, 0, 5, 0, 0, 0, 0}},
	{"white", "the major scale", [12]int{5, 0, 5, 0, 5, 5, 0, 5, 0, 5, 0, 5}},
	{"black", "the five chromatic degrees", [12]int{0, 5, 0, 5, 0, 0, 5, 0, 5, 0, 5, 0}},
	{"all", "every degree", [12]int{5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5}},
}

// Presets returns the standard presets in display order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// PresetByName looks a preset up by name.
func PresetByName(name string) (Preset, error) {
	for _, p := range presets {
		if p.Name == name {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

// ApplyPreset replaces the frequency table with the named preset.
func (c *Config) ApplyPreset(name string) error {
	p, err := PresetByName(name)
	if err != nil {
		return err
	}
	c.NoteFrequency = p.Frequencies
	return nil
}

func mustPreset(name string) Preset {
	p, err := PresetByName(name)
	if err != nil {
		panic(err)
	}
	return p
}
