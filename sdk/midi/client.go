// Package midi opens an external MIDI controller for the trainer: a keyboard
// to answer on and, optionally, pedals to drive the test.
package midi

import (
	"fmt"

	"github.com/leandrodaf/eartrainer/sdk/contracts"
)

// NewMIDIClient creates a capture client for the current operating system.
// It applies default options and initializes the client.
//
// opts ...contracts.Option: A variadic list of option functions to customize the client configuration.
//
// Returns:
//   - contracts.ClientMIDI: An instance of the MIDI client.
//   - error: ErrUnsupportedOS when no client exists for this system.
func NewMIDIClient(opts ...contracts.Option) (contracts.ClientMIDI, error) {
	options := applyDefaultOptions(opts...)
	return NewClient(&options)
}

// OpenController creates a client, connects it to deviceID and starts
// forwarding messages to events.
//
// Returns:
//   - contracts.ClientMIDI: The capturing client; the caller stops it.
//   - error: An error if the client could not be created or the device selected.
func OpenController(deviceID int, events chan contracts.MIDI, opts ...contracts.Option) (contracts.ClientMIDI, error) {
	client, err := NewMIDIClient(opts...)
	if err != nil {
		return nil, err
	}
	if err := client.SelectDevice(deviceID); err != nil {
		_ = client.Stop()
		return nil, fmt.Errorf("select controller %d: %w", deviceID, err)
	}
	client.StartCapture(events)
	return client, nil
}
