package contracts

import "math/rand/v2"

// MIDICommand represents the types of MIDI commands for event filtering.
type MIDICommand byte

const (
	// NoteOn is the MIDI command for a Note On event (0x90).
	NoteOn MIDICommand = 0x90
	// NoteOff is the MIDI command for a Note Off event (0x80).
	NoteOff MIDICommand = 0x80
	// ControlChange is the MIDI command for a Control Change event (0xB0); pedals use it.
	ControlChange MIDICommand = 0xB0
)

// MIDIEventFilter allows users to specify which MIDI commands to capture.
type MIDIEventFilter struct {
	Commands []MIDICommand // List of MIDI commands to filter.
}

// Allows reports whether command passes the filter. A nil filter allows everything.
func (f *MIDIEventFilter) Allows(command byte) bool {
	if f == nil {
		return true
	}
	for _, allowed := range f.Commands {
		if command&0xF0 == byte(allowed) {
			return true
		}
	}
	return false
}

// CoreMIDIConfig holds configuration for CoreMIDI.
type CoreMIDIConfig struct {
	ClientName string // Name of the MIDI client.
}

// ClientOptions defines the configuration options for the MIDI capture client.
type ClientOptions struct {
	Logger          Logger           // Logger for logging events and errors.
	LogLevel        LogLevel         // Level of logging to use.
	LogFilePath     string           // File path for logging if file logging is enabled.
	MIDIEventFilter *MIDIEventFilter // Optional filter for MIDI events to capture.
	CoreMIDIConfig  *CoreMIDIConfig  // Configuration specific to CoreMIDI.
}

// Option is a function that modifies ClientOptions.
type Option func(*ClientOptions)

// WithLogger sets the logger for the MIDI client.
func WithLogger(l Logger) Option {
	return func(opts *ClientOptions) {
		opts.Logger = l
	}
}

// WithLogLevel sets the logging level for the MIDI client.
func WithLogLevel(level LogLevel) Option {
	return func(opts *ClientOptions) {
		opts.LogLevel = level
	}
}

// WithLogFilePath directs the client's log output to a file.
func WithLogFilePath(path string) Option {
	return func(opts *ClientOptions) {
		opts.LogFilePath = path
	}
}

// WithMIDIEventFilter sets the MIDI event filter for the MIDI client.
func WithMIDIEventFilter(filter MIDIEventFilter) Option {
	return func(opts *ClientOptions) {
		opts.MIDIEventFilter = &filter
	}
}

// WithCoreMIDIConfig sets the CoreMIDI configuration for the MIDI client.
func WithCoreMIDIConfig(config CoreMIDIConfig) Option {
	return func(opts *ClientOptions) {
		opts.CoreMIDIConfig = &config
	}
}

// TrainerOptions configures the trainer core. Zero values are replaced with
// defaults by the trainer constructor.
type TrainerOptions struct {
	Logger             Logger      // Logger shared by every component.
	Tonic              int         // MIDI note of the key's tonic; degree 0.
	TicksBetweenChords int         // Ticks between a chord's on and off, and between chords.
	LowNote            int         // Lowest playable pitch, inclusive.
	HighNote           int         // Highest playable pitch, inclusive.
	Rand               *rand.Rand  // Source for picking test degrees.
	Audio              AudioOutput // Resumed before every test start.
	AutoAdvance        bool        // Pick the next note as soon as an answer is graded and playback ends.
}

// TrainerOption is a function that modifies TrainerOptions.
type TrainerOption func(*TrainerOptions)

// WithTrainerLogger sets the logger for the trainer.
func WithTrainerLogger(l Logger) TrainerOption {
	return func(opts *TrainerOptions) {
		opts.Logger = l
	}
}

// WithTonic sets the tonic the cadence is built on and answers are graded against.
func WithTonic(note int) TrainerOption {
	return func(opts *TrainerOptions) {
		opts.Tonic = note
	}
}

// WithTicksBetweenChords sets the chord interval in ticks.
func WithTicksBetweenChords(ticks int) TrainerOption {
	return func(opts *TrainerOptions) {
		opts.TicksBetweenChords = ticks
	}
}

// WithSoundRange sets the inclusive range of pitches the sequencer will play.
func WithSoundRange(low, high int) TrainerOption {
	return func(opts *TrainerOptions) {
		opts.LowNote = low
		opts.HighNote = high
	}
}

// WithRandSource sets the random source used to pick test degrees.
func WithRandSource(r *rand.Rand) TrainerOption {
	return func(opts *TrainerOptions) {
		opts.Rand = r
	}
}

// WithAudioOutput sets the output resumed before a test starts.
func WithAudioOutput(a AudioOutput) TrainerOption {
	return func(opts *TrainerOptions) {
		opts.Audio = a
	}
}

// WithAutoAdvance enables picking the next test note without an explicit command.
func WithAutoAdvance(enabled bool) TrainerOption {
	return func(opts *TrainerOptions) {
		opts.AutoAdvance = enabled
	}
}
