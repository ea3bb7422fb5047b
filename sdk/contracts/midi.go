package contracts

import "context"

// MIDI represents a raw message captured from an external controller.
type MIDI struct {
	Timestamp uint64 // Timestamp indicates the time the event occurred.
	Command   byte   // Command is the status nibble (e.g., Note On, Note Off, Control Change).
	Channel   byte   // Channel is the zero-based MIDI channel.
	Note      byte   // Note is the key number or, for control changes, the controller number.
	Velocity  byte   // Velocity is the note velocity or the controller value.
}

// Bytes re-assembles the message in wire format.
func (m MIDI) Bytes() []byte {
	return []byte{(m.Command & 0xF0) | (m.Channel & 0x0F), m.Note, m.Velocity}
}

// ClientMIDI defines an interface for controller capture operations.
type ClientMIDI interface {
	Stop() error                         // Stops the MIDI client and releases resources.
	ListDevices() ([]DeviceInfo, error)  // Lists all available MIDI devices.
	SelectDevice(deviceID int) error     // Selects a MIDI device by its ID for communication.
	StartCapture(eventChannel chan MIDI) // Starts capturing MIDI events and sends them to the specified channel.
}

// AudioOutput is the sound resource that must be ready before a test
// schedules its first cadence.
type AudioOutput interface {
	// Resume blocks until the output can accept notes or returns why it cannot.
	Resume(ctx context.Context) error
}

// AudioOutputFunc adapts a function to AudioOutput.
type AudioOutputFunc func(ctx context.Context) error

// Resume calls f(ctx).
func (f AudioOutputFunc) Resume(ctx context.Context) error {
	return f(ctx)
}

// NewMIDI decodes one channel-voice message. A Note On with velocity 0 is
// reported as a Note Off, as running-status keyboards send it that way.
func NewMIDI(timestamp uint64, status, data1, data2 byte) MIDI {
	m := MIDI{
		Timestamp: timestamp,
		Command:   status & 0xF0,
		Channel:   status & 0x0F,
		Note:      data1,
		Velocity:  data2,
	}
	if m.Command == byte(NoteOn) && m.Velocity == 0 {
		m.Command = byte(NoteOff)
	}
	return m
}
