//go:build windows
// +build windows

package midiwindows

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/leandrodaf/eartrainer/sdk/contracts"
	"golang.org/x/sys/windows"
)

// Error definitions for controller connection and handling issues.
var (
	ErrNoMIDIDevices     = errors.New("no MIDI devices found")
	ErrInvalidMIDIDevice = errors.New("invalid MIDI device")
	ErrNotConnected      = errors.New("no MIDI device selected")
)

type hMIDIIn windows.Handle

const (
	callbackFunction = 0x00030000
	midiIOStatus     = 0x00000020
)

// winmm input messages.
const (
	mimOpen      = 0x3C1
	mimClose     = 0x3C2
	mimData      = 0x3C3
	mimError     = 0x3C5
	mimLongError = 0x3C6
	mimMoreData  = 0x3CC
)

type midiInCaps struct {
	wMid           uint16
	wPid           uint16
	vDriverVersion uint32
	szPname        [32]uint16
	dwSupport      uint32
}

// ClientMid captures a controller through the winmm midiIn API.
type ClientMid struct {
	logger       contracts.Logger
	eventChannel atomic.Value // chan contracts.MIDI
	handle       hMIDIIn
	connected    bool
	started      bool
	mu           sync.Mutex
	callback     uintptr
	filter       *contracts.MIDIEventFilter
}

var (
	winmm                = windows.NewLazySystemDLL("winmm.dll")
	procMidiInGetNumDevs = winmm.NewProc("midiInGetNumDevs")
	procMidiInGetDevCaps = winmm.NewProc("midiInGetDevCapsW")
	procMidiInOpen       = winmm.NewProc("midiInOpen")
	procMidiInStart      = winmm.NewProc("midiInStart")
	procMidiInStop       = winmm.NewProc("midiInStop")
	procMidiInClose      = winmm.NewProc("midiInClose")
)

// NewMIDIClient creates a winmm capture client.
func NewMIDIClient(options *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	options.Logger.Info("winmm MIDI client created")
	return &ClientMid{
		logger: options.Logger,
		filter: options.MIDIEventFilter,
	}, nil
}

// ListDevices lists the winmm input devices.
func (m *ClientMid) ListDevices() ([]contracts.DeviceInfo, error) {
	r0, _, _ := procMidiInGetNumDevs.Call()
	numDevices := uint32(r0)
	if numDevices == 0 {
		m.logger.Warn(ErrNoMIDIDevices.Error())
		return nil, ErrNoMIDIDevices
	}

	devices := make([]contracts.DeviceInfo, 0, numDevices)
	for i := uint32(0); i < numDevices; i++ {
		var caps midiInCaps
		r1, _, _ := procMidiInGetDevCaps.Call(
			uintptr(i),
			uintptr(unsafe.Pointer(&caps)),
			unsafe.Sizeof(caps),
		)
		if r1 != 0 {
			m.logger.Warn("failed to read MIDI device capabilities", m.logger.Field().Int("deviceID", int(i)))
			continue
		}
		name := windows.UTF16ToString(caps.szPname[:])
		devices = append(devices, contracts.DeviceInfo{
			ID:           int(i),
			Name:         name,
			EntityName:   name,
			Manufacturer: fmt.Sprintf("MID: %d PID: %d", caps.wMid, caps.wPid),
		})
	}
	return devices, nil
}

// SelectDevice opens the input device at deviceID, closing any previous one.
func (m *ClientMid) SelectDevice(deviceID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if deviceID < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMIDIDevice, deviceID)
	}
	if m.connected {
		if err := m.close(); err != nil {
			return fmt.Errorf("failed to close previous MIDI device: %w", err)
		}
	}

	m.callback = windows.NewCallback(midiInCallback)
	r1, _, err := procMidiInOpen.Call(
		uintptr(unsafe.Pointer(&m.handle)),
		uintptr(deviceID),
		m.callback,
		uintptr(unsafe.Pointer(m)),
		uintptr(callbackFunction|midiIOStatus),
	)
	if r1 != 0 {
		m.logger.Error("failed to open MIDI device", m.logger.Field().Int("deviceID", deviceID), m.logger.Field().Error("error", err))
		return fmt.Errorf("%w: %d: %v", ErrInvalidMIDIDevice, deviceID, err)
	}

	m.connected = true
	m.logger.Info("controller connected", m.logger.Field().Int("deviceID", deviceID))
	return nil
}

// StartCapture starts forwarding messages to eventChannel.
func (m *ClientMid) StartCapture(eventChannel chan contracts.MIDI) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected || m.handle == 0 {
		m.logger.Error(ErrNotConnected.Error())
		return
	}
	m.eventChannel.Store(eventChannel)
	if m.started {
		return
	}

	r1, _, err := procMidiInStart.Call(uintptr(m.handle))
	if r1 != 0 {
		m.logger.Error("failed to start MIDI capture", m.logger.Field().Error("error", err))
		return
	}
	m.started = true
	m.logger.Info("controller capture started")
}

func midiInCallback(hMidiIn uintptr, wMsg uint32, dwInstance uintptr, dwParam1 uintptr, dwParam2 uintptr) uintptr {
	m := (*ClientMid)(unsafe.Pointer(dwInstance))

	switch wMsg {
	case mimOpen, mimClose:
		m.logger.Debug("MIDI device state changed", m.logger.Field().Uint64("message", uint64(wMsg)))
	case mimData:
		event := contracts.NewMIDI(
			uint64(time.Now().UTC().UnixNano()),
			byte(dwParam1&0xFF),
			byte((dwParam1>>8)&0xFF),
			byte((dwParam1>>16)&0xFF),
		)
		if !m.filter.Allows(event.Command) {
			return 0
		}
		if ch, ok := m.eventChannel.Load().(chan contracts.MIDI); ok && ch != nil {
			select {
			case ch <- event:
			default:
				m.logger.Warn("event buffer full; dropping controller message")
			}
		}
	case mimError, mimLongError:
		m.logger.Error("MIDI input error", m.logger.Field().Uint64("message", uint64(wMsg)))
	case mimMoreData:
	default:
		m.logger.Warn("unknown MIDI input message", m.logger.Field().Uint64("message", uint64(wMsg)))
	}
	return 0
}

// Stop stops capture and closes the device.
func (m *ClientMid) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return nil
	}
	if err := m.close(); err != nil {
		return fmt.Errorf("failed to stop MIDI capture: %w", err)
	}
	m.logger.Info("controller capture stopped")
	return nil
}

func (m *ClientMid) close() error {
	if m.started {
		if r1, _, err := procMidiInStop.Call(uintptr(m.handle)); r1 != 0 {
			return err
		}
		m.started = false
	}
	if r1, _, err := procMidiInClose.Call(uintptr(m.handle)); r1 != 0 {
		return err
	}
	m.connected = false
	m.handle = 0
	m.eventChannel.Store((chan contracts.MIDI)(nil))
	return nil
}
