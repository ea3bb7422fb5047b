//go:build darwin
// +build darwin

package mididarwin

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/leandrodaf/eartrainer/sdk/contracts"
	"github.com/youpy/go-coremidi"
)

// Error definitions for controller connection and handling issues.
var (
	ErrNoMIDIDevices        = errors.New("no MIDI devices found")
	ErrInvalidMIDIDevice    = errors.New("invalid MIDI device")
	ErrMIDIConnectionError  = errors.New("error connecting to MIDI device")
	ErrCreateInputPort      = errors.New("error creating input port")
	ErrIncompleteMIDIPacket = errors.New("incomplete MIDI packet")
)

type portConnection interface {
	Disconnect()
}

// ClientMid captures a controller through CoreMIDI. Packets arrive on a
// CoreMIDI thread and are forwarded to the capture channel without blocking.
type ClientMid struct {
	logger       contracts.Logger
	eventChannel atomic.Value // chan contracts.MIDI
	client       coremidi.Client
	inputPort    coremidi.InputPort
	portConn     portConnection
	filter       *contracts.MIDIEventFilter
	mu           sync.Mutex
	capturing    bool
	wg           sync.WaitGroup
	stopOnce     sync.Once
}

// NewMIDIClient creates the CoreMIDI client named in options.
func NewMIDIClient(options *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	client, err := coremidi.NewClient(options.CoreMIDIConfig.ClientName)
	if err != nil {
		return nil, err
	}
	options.Logger.Info("CoreMIDI client created", options.Logger.Field().String("name", options.CoreMIDIConfig.ClientName))

	return &ClientMid{
		logger: options.Logger,
		client: client,
		filter: options.MIDIEventFilter,
	}, nil
}

// ListDevices returns every CoreMIDI source.
func (m *ClientMid) ListDevices() ([]contracts.DeviceInfo, error) {
	sources, err := coremidi.AllSources()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI sources: %w", err)
	}
	if len(sources) == 0 {
		m.logger.Warn(ErrNoMIDIDevices.Error())
		return nil, ErrNoMIDIDevices
	}

	devices := make([]contracts.DeviceInfo, len(sources))
	for i, source := range sources {
		entity := source.Entity()
		devices[i] = contracts.DeviceInfo{
			ID:           i,
			Name:         source.Name(),
			EntityName:   entity.Name(),
			Manufacturer: entity.Manufacturer(),
		}
	}
	return devices, nil
}

// SelectDevice connects to the source at deviceID, replacing any previous one.
func (m *ClientMid) SelectDevice(deviceID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sources, err := coremidi.AllSources()
	if err != nil {
		return fmt.Errorf("error retrieving MIDI sources: %w", err)
	}
	if deviceID < 0 || deviceID >= len(sources) {
		m.logger.Error(ErrInvalidMIDIDevice.Error(), m.logger.Field().Int("deviceID", deviceID))
		return fmt.Errorf("%w: %d", ErrInvalidMIDIDevice, deviceID)
	}

	if m.portConn != nil {
		m.portConn.Disconnect()
		m.portConn = nil
	}

	source := sources[deviceID]
	m.inputPort, err = coremidi.NewInputPort(m.client, "eartrainer input", m.handlePacket)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCreateInputPort, err)
	}
	m.portConn, err = m.inputPort.Connect(source)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMIDIConnectionError, err)
	}

	m.logger.Info("controller connected",
		m.logger.Field().Int("deviceID", deviceID),
		m.logger.Field().String("deviceName", source.Name()))
	return nil
}

// handlePacket splits a packet into 3-byte channel messages, filters and
// forwards them.
func (m *ClientMid) handlePacket(_ coremidi.Source, packet coremidi.Packet) {
	m.wg.Add(1)
	defer m.wg.Done()

	ch, _ := m.eventChannel.Load().(chan contracts.MIDI)
	if ch == nil {
		return
	}
	if len(packet.Data) < 3 {
		m.logger.Warn(ErrIncompleteMIDIPacket.Error(), m.logger.Field().Int("length", len(packet.Data)))
		return
	}

	now := uint64(time.Now().UTC().UnixNano())
	for data := packet.Data; len(data) >= 3; data = data[3:] {
		event := contracts.NewMIDI(now, data[0], data[1], data[2])
		if !m.filter.Allows(event.Command) {
			continue
		}
		select {
		case ch <- event:
		default:
			m.logger.Warn("event buffer full; dropping controller message")
		}
	}
}

// StartCapture starts forwarding messages to eventChannel.
func (m *ClientMid) StartCapture(eventChannel chan contracts.MIDI) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if eventChannel == nil {
		m.logger.Error("StartCapture called with nil eventChannel")
		return
	}
	if m.capturing {
		m.logger.Warn("capture already started; switching channel")
	}

	m.eventChannel.Store(eventChannel)
	m.capturing = true
	m.logger.Info("controller capture started")
}

// Stop disconnects the source and waits for in-flight packets. Later calls
// do nothing.
func (m *ClientMid) Stop() error {
	m.stopOnce.Do(func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		if m.portConn != nil {
			m.portConn.Disconnect()
			m.portConn = nil
		}
		if m.capturing {
			m.capturing = false
			m.eventChannel.Store(make(chan contracts.MIDI))
			m.wg.Wait()
		}
		m.logger.Info("controller capture stopped")
	})
	return nil
}
