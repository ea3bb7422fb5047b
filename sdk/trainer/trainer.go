// Package trainer assembles the ear-training core: an event bus, the tick
// sequencer and the adaptive tester.
//
// The trainer is single-threaded. Hosts call Tick once per scheduler period
// and Execute for every command, all from the same goroutine; the runner in
// internal/runner does exactly that.
package trainer

import (
	"context"

	"github.com/leandrodaf/eartrainer/internal/bus"
	"github.com/leandrodaf/eartrainer/internal/sequencer"
	"github.com/leandrodaf/eartrainer/internal/tester"
	"github.com/leandrodaf/eartrainer/sdk/contracts"
)

// Trainer is the assembled core.
type Trainer struct {
	options   contracts.TrainerOptions
	logger    contracts.Logger
	bus       *bus.Bus
	sequencer *sequencer.Sequencer
	tester    *tester.Tester
}

// NewTrainer creates a trainer with the specified options.
// It applies default options and wires the bus, the sequencer and the tester.
//
// opts ...contracts.TrainerOption: A variadic list of option functions to customize the trainer.
//
// Returns:
//   - *Trainer: A trainer ready to receive commands and ticks.
//   - error: ErrInvalidOptions if the sound range cannot hold the cadence and the tested degrees.
func NewTrainer(opts ...contracts.TrainerOption) (*Trainer, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}

	b := bus.New(options.Logger)
	seq := sequencer.New(b, options.Logger, sequencer.Config{
		Tonic:              options.Tonic,
		TicksBetweenChords: options.TicksBetweenChords,
		LowNote:            options.LowNote,
		HighNote:           options.HighNote,
	})
	t := &Trainer{
		options:   options,
		logger:    options.Logger,
		bus:       b,
		sequencer: seq,
		tester: tester.New(b, options.Logger, tester.Config{
			Tonic:       options.Tonic,
			Audio:       options.Audio,
			Rand:        options.Rand,
			AutoAdvance: options.AutoAdvance,
			Idle:        seq.Idle,
		}),
	}

	t.logger.Info("trainer created",
		t.logger.Field().Int("tonic", options.Tonic),
		t.logger.Field().Int("ticksBetweenChords", options.TicksBetweenChords),
		t.logger.Field().Int("lowNote", options.LowNote),
		t.logger.Field().Int("highNote", options.HighNote))
	return t, nil
}

// Execute publishes cmd on the bus. Unknown commands are reported as a
// status message and otherwise ignored.
func (t *Trainer) Execute(cmd contracts.Command) {
	if !contracts.IsCommand(cmd.Name) {
		t.logger.Warn("unknown command", t.logger.Field().String("command", string(cmd.Name)))
		t.bus.Publish(contracts.StatusMessage, contracts.Status{
			Source: contracts.SourceTrainer,
			Error:  true,
			Text:   "Unknown command: " + string(cmd.Name),
		})
		return
	}
	t.logger.Debug("command", t.logger.Field().String("command", string(cmd.Name)))
	t.bus.Publish(cmd.Name, cmd.Payload)
}

// Tick advances the sequencer by one period.
func (t *Trainer) Tick() {
	t.sequencer.OnTimerTick()
}

// Start starts a test with ctx bounding the audio resume. Unlike the
// tester-start command it returns the resume error.
func (t *Trainer) Start(ctx context.Context) error {
	return t.tester.Start(ctx)
}

// Subscribe registers listener for name on the trainer's bus.
func (t *Trainer) Subscribe(name contracts.EventName, listener func(payload any)) {
	t.bus.Subscribe(name, listener)
}

// Bus returns the bus shared by the core, for attaching adapters.
func (t *Trainer) Bus() *bus.Bus {
	return t.bus
}

// Options returns the effective options.
func (t *Trainer) Options() contracts.TrainerOptions {
	return t.options
}

// State returns the tester's phase.
func (t *Trainer) State() tester.State {
	return t.tester.State()
}

// Results returns a copy of the current or last run's results.
func (t *Trainer) Results() contracts.TestResults {
	return t.tester.Results()
}

// SequencerRunning reports whether notes are being played.
func (t *Trainer) SequencerRunning() bool {
	return t.sequencer.Running()
}

// Dropped returns how many out-of-range notes the sequencer discarded.
func (t *Trainer) Dropped() int {
	return t.sequencer.Dropped()
}
