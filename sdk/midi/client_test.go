package midi

import (
	"errors"
	"runtime"
	"testing"

	"github.com/leandrodaf/eartrainer/internal/logger"
	"github.com/leandrodaf/eartrainer/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	options  *contracts.ClientOptions
	selected int
	capture  chan contracts.MIDI
	stopped  bool
	fail     error
}

func (c *fakeClient) Stop() error { c.stopped = true; return nil }

func (c *fakeClient) ListDevices() ([]contracts.DeviceInfo, error) {
	return []contracts.DeviceInfo{{ID: 0, Name: "fake"}}, nil
}

func (c *fakeClient) SelectDevice(id int) error {
	if c.fail != nil {
		return c.fail
	}
	c.selected = id
	return nil
}

func (c *fakeClient) StartCapture(ch chan contracts.MIDI) { c.capture = ch }

func withInitializer(t *testing.T, fn func(*contracts.ClientOptions) (contracts.ClientMIDI, error)) {
	t.Helper()
	saved := clientInitializers
	clientInitializers = map[string]func(*contracts.ClientOptions) (contracts.ClientMIDI, error){}
	if fn != nil {
		clientInitializers[runtime.GOOS] = fn
	}
	t.Cleanup(func() { clientInitializers = saved })
}

func TestUnsupportedOS(t *testing.T) {
	withInitializer(t, nil)

	_, err := NewMIDIClient(contracts.WithLogger(logger.NewNopLogger()))

	assert.ErrorIs(t, err, ErrUnsupportedOS)
	assert.False(t, Supported())
}

func TestDefaultOptions(t *testing.T) {
	var got *contracts.ClientOptions
	withInitializer(t, func(o *contracts.ClientOptions) (contracts.ClientMIDI, error) {
		got = o
		return &fakeClient{options: o}, nil
	})

	_, err := NewMIDIClient(contracts.WithLogger(logger.NewNopLogger()))
	require.NoError(t, err)

	assert.Equal(t, DefaultClientName, got.CoreMIDIConfig.ClientName)
	assert.True(t, got.MIDIEventFilter.Allows(byte(contracts.NoteOn)))
	assert.True(t, got.MIDIEventFilter.Allows(byte(contracts.ControlChange)))
	assert.False(t, got.MIDIEventFilter.Allows(0xE0))
	assert.True(t, Supported())
}

func TestExplicitFilterKept(t *testing.T) {
	var got *contracts.ClientOptions
	withInitializer(t, func(o *contracts.ClientOptions) (contracts.ClientMIDI, error) {
		got = o
		return &fakeClient{}, nil
	})

	_, err := NewMIDIClient(
		contracts.WithLogger(logger.NewNopLogger()),
		contracts.WithMIDIEventFilter(contracts.MIDIEventFilter{Commands: []contracts.MIDICommand{contracts.NoteOn}}),
		contracts.WithCoreMIDIConfig(contracts.CoreMIDIConfig{ClientName: "lab"}),
	)
	require.NoError(t, err)

	assert.False(t, got.MIDIEventFilter.Allows(byte(contracts.ControlChange)))
	assert.Equal(t, "lab", got.CoreMIDIConfig.ClientName)
}

func TestOpenController(t *testing.T) {
	client := &fakeClient{}
	withInitializer(t, func(*contracts.ClientOptions) (contracts.ClientMIDI, error) { return client, nil })
	events := make(chan contracts.MIDI, 1)

	got, err := OpenController(2, events, contracts.WithLogger(logger.NewNopLogger()))

	require.NoError(t, err)
	assert.Same(t, client, got)
	assert.Equal(t, 2, client.selected)
	assert.Equal(t, events, client.capture)
}

func TestOpenControllerSelectFailure(t *testing.T) {
	boom := errors.New("gone")
	client := &fakeClient{fail: boom}
	withInitializer(t, func(*contracts.ClientOptions) (contracts.ClientMIDI, error) { return client, nil })

	_, err := OpenController(0, make(chan contracts.MIDI), contracts.WithLogger(logger.NewNopLogger()))

	assert.ErrorIs(t, err, boom)
	assert.True(t, client.stopped)
	assert.Nil(t, client.capture)
}
