//go:build !windows
// +build !windows

package midiwindows

import (
	"errors"

	"github.com/leandrodaf/eartrainer/sdk/contracts"
)

// ErrUnavailable is returned by every operation of the stand-in client.
var ErrUnavailable = errors.New("winmm MIDI is only available on Windows")

type dummyMIDIClient struct {
	logger contracts.Logger
}

// NewMIDIClient returns a stand-in client on systems without winmm.
func NewMIDIClient(options *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	options.Logger.Debug("winmm stand-in client created")
	return &dummyMIDIClient{logger: options.Logger}, nil
}

func (m *dummyMIDIClient) ListDevices() ([]contracts.DeviceInfo, error) {
	return nil, ErrUnavailable
}

func (m *dummyMIDIClient) SelectDevice(int) error {
	return ErrUnavailable
}

func (m *dummyMIDIClient) StartCapture(chan contracts.MIDI) {
	m.logger.Warn(ErrUnavailable.Error())
}

func (m *dummyMIDIClient) Stop() error {
	return nil
}
