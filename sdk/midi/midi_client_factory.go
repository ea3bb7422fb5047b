package midi

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/leandrodaf/eartrainer/internal/midi/mididarwin"
	"github.com/leandrodaf/eartrainer/internal/midi/midiwindows"
	"github.com/leandrodaf/eartrainer/sdk/contracts"
)

// ErrUnsupportedOS is returned when controller capture is not implemented for the OS.
var ErrUnsupportedOS = errors.New("unsupported operating system")

// clientInitializers maps GOOS values to capture client constructors.
var clientInitializers = map[string]func(*contracts.ClientOptions) (contracts.ClientMIDI, error){
	"darwin":  mididarwin.NewMIDIClient,
	"windows": midiwindows.NewMIDIClient,
}

// NewClient initializes a capture client for runtime.GOOS.
func NewClient(opts *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	if initializer, exists := clientInitializers[runtime.GOOS]; exists {
		return initializer(opts)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedOS, runtime.GOOS)
}

// Supported reports whether controller capture works on this system.
func Supported() bool {
	_, ok := clientInitializers[runtime.GOOS]
	return ok
}
