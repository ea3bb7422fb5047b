// Package midiout sends the sequencer's notes to a MIDI output port.
package midiout

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/leandrodaf/eartrainer/internal/bus"
	"github.com/leandrodaf/eartrainer/sdk/contracts"
	"gitlab.com/gomidi/midi/v2"
)

// ErrOpenPort is returned by Resume when the port cannot be opened.
var ErrOpenPort = errors.New("error opening MIDI output port")

// Velocity used for every note-on.
const Velocity = 127

// Port is the subset of a gomidi drivers.Out used here.
type Port interface {
	Open() error
	IsOpen() bool
	Send(data []byte) error
}

// Output forwards note-played events to a Port and implements
// contracts.AudioOutput. It runs on the host goroutine.
type Output struct {
	bus      *bus.Bus
	logger   contracts.Logger
	port     Port
	channel  uint8
	sounding map[int]int
	failing  bool
}

// New creates an output on channel (0-15) and subscribes it to b.
func New(b *bus.Bus, logger contracts.Logger, port Port, channel uint8) *Output {
	o := &Output{
		bus:      b,
		logger:   logger,
		port:     port,
		channel:  channel & 0x0F,
		sounding: make(map[int]int),
	}
	bus.On(b, contracts.NotePlayed, o.onNotePlayed)
	bus.On(b, contracts.RunningStateChanged, func(running bool) {
		if !running {
			o.Silence()
		}
	})
	bus.On(b, contracts.TestFinished, func(contracts.TestFinishedPayload) { o.Silence() })
	return o
}

// Resume opens the port if it is closed.
func (o *Output) Resume(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if o.port.IsOpen() {
		return nil
	}
	if err := o.port.Open(); err != nil {
		o.logger.Error(ErrOpenPort.Error(), o.logger.Field().Error("error", err))
		return fmt.Errorf("%w: %v", ErrOpenPort, err)
	}
	o.logger.Info("MIDI output port opened")
	return nil
}

// Silence sends a note-off for every note still sounding.
func (o *Output) Silence() {
	if len(o.sounding) == 0 {
		return
	}
	notes := o.Sounding()
	o.logger.Debug("silencing sounding notes", o.logger.Field().Ints("notes", notes))
	for _, note := range notes {
		delete(o.sounding, note)
		o.send(midi.NoteOff(o.channel, uint8(note)))
	}
}

// Sounding returns the notes currently on, in ascending order.
func (o *Output) Sounding() []int {
	return slices.Sorted(maps.Keys(o.sounding))
}

func (o *Output) onNotePlayed(ev contracts.NoteEvent) {
	if !o.port.IsOpen() {
		o.logger.Debug("output port closed; note not sent", o.logger.Field().Int("note", ev.Note))
		return
	}
	if ev.On {
		o.sounding[ev.Note]++
		o.send(midi.NoteOn(o.channel, uint8(ev.Note), Velocity))
		return
	}
	if n := o.sounding[ev.Note]; n > 1 {
		o.sounding[ev.Note] = n - 1
	} else {
		delete(o.sounding, ev.Note)
	}
	o.send(midi.NoteOff(o.channel, uint8(ev.Note)))
}

func (o *Output) send(msg midi.Message) {
	if err := o.port.Send(msg); err != nil {
		o.logger.Error("failed to send MIDI message",
			o.logger.Field().String("message", msg.String()),
			o.logger.Field().Error("error", err))
		if !o.failing {
			o.failing = true
			o.bus.Publish(contracts.StatusMessage, contracts.Status{
				Source: contracts.SourceOutput,
				Error:  true,
				Text:   "MIDI output failed: " + err.Error(),
			})
		}
		return
	}
	o.failing = false
}
