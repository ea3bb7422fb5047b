package trainer

import (
	"errors"
	"fmt"
	"slices"

	"github.com/leandrodaf/eartrainer/internal/logger"
	"github.com/leandrodaf/eartrainer/internal/sequencer"
	"github.com/leandrodaf/eartrainer/internal/tester"
	"github.com/leandrodaf/eartrainer/sdk/contracts"
)

// ErrInvalidOptions is returned when the options cannot produce a playable trainer.
var ErrInvalidOptions = errors.New("invalid trainer options")

// Defaults applied when an option is left at its zero value.
const (
	DefaultTonic              = 60
	DefaultTicksBetweenChords = 5
	DefaultLowNote            = 58
	DefaultHighNote           = 73
)

// applyDefaultOptions sets default values for TrainerOptions if not explicitly
// provided, then checks that the cadence and every degree fit the sound range.
func applyDefaultOptions(opts ...contracts.TrainerOption) (contracts.TrainerOptions, error) {
	options := &contracts.TrainerOptions{}
	for _, opt := range opts {
		opt(options)
	}

	if options.Logger == nil {
		options.Logger = logger.NewZapLogger()
	}
	if options.Tonic == 0 {
		options.Tonic = DefaultTonic
	}
	if options.TicksBetweenChords == 0 {
		options.TicksBetweenChords = DefaultTicksBetweenChords
	}
	if options.LowNote == 0 && options.HighNote == 0 {
		options.LowNote = DefaultLowNote
		options.HighNote = DefaultHighNote
	}

	return *options, validateOptions(options)
}

func validateOptions(o *contracts.TrainerOptions) error {
	if o.TicksBetweenChords < 0 {
		return fmt.Errorf("%w: ticks between chords must be positive, got %d", ErrInvalidOptions, o.TicksBetweenChords)
	}
	if o.LowNote > o.HighNote {
		return fmt.Errorf("%w: sound range %d..%d is empty", ErrInvalidOptions, o.LowNote, o.HighNote)
	}

	notes := sequencer.CadenceNotes(o.Tonic)
	notes = append(notes, o.Tonic+tester.DegreeMin, o.Tonic+tester.DegreeMax)
	if low, high := slices.Min(notes), slices.Max(notes); low < o.LowNote || high > o.HighNote {
		return fmt.Errorf("%w: tonic %d needs %d..%d, sound range is %d..%d",
			ErrInvalidOptions, o.Tonic, low, high, o.LowNote, o.HighNote)
	}
	return nil
}
