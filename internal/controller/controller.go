// Package controller maps an external MIDI controller onto trainer commands.
//
// Keys played on the controller become sequencer-play-note requests, so they
// sound and are graded as answers. Sustain-style pedals (controllers 65 to 69)
// act as a transport button: they start a test, or pick the next note of a
// running one. During a test one press is accepted per test note.
package controller

import (
	"time"

	"github.com/bep/debounce"
	"github.com/leandrodaf/eartrainer/internal/bus"
	"github.com/leandrodaf/eartrainer/sdk/contracts"
	"gitlab.com/gomidi/midi/v2"
)

// Pedal controller numbers treated as transport.
const (
	PedalFirst = 65
	PedalLast  = 69
)

// pedalDown is the lowest controller value read as a press.
const pedalDown = 64

// DefaultDebounce is the window within which repeated pedal presses collapse.
const DefaultDebounce = 150 * time.Millisecond

// Config configures a Controller.
type Config struct {
	// Post delivers pedal requests back to the host loop. It is called from a
	// timer goroutine and must be safe for concurrent use.
	Post     func(contracts.Command)
	Debounce time.Duration
}

// Controller is fed from the host goroutine; only Post runs elsewhere.
type Controller struct {
	bus       *bus.Bus
	logger    contracts.Logger
	post      func(contracts.Command)
	debounced func(func())

	testRunning bool
	gateOpen    bool
}

// New creates a controller listening to the test lifecycle on b.
func New(b *bus.Bus, logger contracts.Logger, cfg Config) *Controller {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	c := &Controller{
		bus:       b,
		logger:    logger,
		post:      cfg.Post,
		debounced: debounce.New(cfg.Debounce),
		gateOpen:  true,
	}

	bus.On(b, contracts.TestStarted, func(contracts.TestResults) { c.testRunning = true })
	bus.On(b, contracts.TestFinished, func(contracts.TestFinishedPayload) {
		c.testRunning = false
		c.gateOpen = true
	})
	bus.On(b, contracts.CadenceStarted, func(int) { c.gateOpen = false })
	bus.On(b, contracts.TestNotePlayed, func(contracts.NoteEvent) { c.gateOpen = true })
	// A pick refused because the answer was still sounding may be retried
	// once playback stops. No cadence is sounding when the sequencer stops.
	bus.On(b, contracts.RunningStateChanged, func(running bool) {
		if !running && c.testRunning {
			c.gateOpen = true
		}
	})
	return c
}

// HandleMIDI processes one captured controller message.
func (c *Controller) HandleMIDI(ev contracts.MIDI) {
	msg := midi.Message(ev.Bytes())

	var ch, key, vel uint8
	if msg.GetNoteStart(&ch, &key, &vel) {
		c.logger.Debug("controller note on",
			c.logger.Field().String("note", midi.Note(key).String()),
			c.logger.Field().Uint8("velocity", vel))
		c.bus.Publish(contracts.SequencerPlayNote, int(key))
		return
	}

	var controller, value uint8
	if msg.GetControlChange(&ch, &controller, &value) {
		if controller >= PedalFirst && controller <= PedalLast && value >= pedalDown {
			c.pedal(controller)
		}
	}
}

// GateOpen reports whether a pedal press would currently be accepted.
func (c *Controller) GateOpen() bool {
	return c.gateOpen
}

func (c *Controller) pedal(controller uint8) {
	if !c.gateOpen {
		c.logger.Debug("pedal ignored while cadence plays", c.logger.Field().Uint8("controller", controller))
		return
	}

	cmd := contracts.Command{Name: contracts.TesterStart}
	if c.testRunning {
		cmd.Name = contracts.TesterPickNext
		c.gateOpen = false
	}
	c.logger.Debug("pedal pressed",
		c.logger.Field().Uint8("controller", controller),
		c.logger.Field().String("command", string(cmd.Name)))

	if c.post == nil {
		return
	}
	post := c.post
	c.debounced(func() { post(cmd) })
}
