// Package runner hosts the trainer on a single goroutine. Timer ticks,
// controller input and queued commands are handled one at a time, each to
// completion, so the core never sees concurrent calls.
package runner

import (
	"context"
	"errors"
	"time"

	"github.com/leandrodaf/eartrainer/sdk/contracts"
)

// ErrStopped is returned by Post after Run has returned.
var ErrStopped = errors.New("runner stopped")

// DefaultTickPeriod is the scheduler period used when none is configured.
const DefaultTickPeriod = 100 * time.Millisecond

const defaultQueueSize = 64

// Core is the part of the trainer the runner drives.
type Core interface {
	Tick()
	Execute(cmd contracts.Command)
}

// InputHandler consumes controller messages.
type InputHandler interface {
	HandleMIDI(ev contracts.MIDI)
}

// Config configures a Runner.
type Config struct {
	TickPeriod time.Duration         // Used when Ticks is nil.
	Ticks      <-chan time.Time      // Optional external tick source.
	Input      <-chan contracts.MIDI // Optional controller input.
	Controller InputHandler          // Receives Input; required when Input is set.
	QueueSize  int
}

// Runner serializes everything that touches the trainer core.
type Runner struct {
	core     Core
	logger   contracts.Logger
	cfg      Config
	commands chan contracts.Command
	done     chan struct{}
}

// New creates a runner for core.
func New(core Core, logger contracts.Logger, cfg Config) *Runner {
	if cfg.TickPeriod <= 0 {
		cfg.TickPeriod = DefaultTickPeriod
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	return &Runner{
		core:     core,
		logger:   logger,
		cfg:      cfg,
		commands: make(chan contracts.Command, cfg.QueueSize),
		done:     make(chan struct{}),
	}
}

// Post queues cmd for the host goroutine. It is safe for concurrent use and
// blocks only while the queue is full.
func (r *Runner) Post(cmd contracts.Command) error {
	select {
	case <-r.done:
		return ErrStopped
	default:
	}
	select {
	case r.commands <- cmd:
		return nil
	case <-r.done:
		return ErrStopped
	}
}

// Run processes triggers until ctx is done. It must be called once.
func (r *Runner) Run(ctx context.Context) error {
	defer close(r.done)

	ticks := r.cfg.Ticks
	if ticks == nil {
		ticker := time.NewTicker(r.cfg.TickPeriod)
		defer ticker.Stop()
		ticks = ticker.C
	}
	input := r.cfg.Input
	if r.cfg.Controller == nil {
		input = nil
	}

	r.logger.Info("runner started", r.logger.Field().Int64("tickPeriodMs", r.cfg.TickPeriod.Milliseconds()))
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("runner stopped")
			return ctx.Err()
		case _, ok := <-ticks:
			if !ok {
				r.logger.Warn("tick source closed")
				return nil
			}
			r.core.Tick()
		case ev, ok := <-input:
			if !ok {
				r.logger.Warn("controller input closed")
				input = nil
				continue
			}
			r.cfg.Controller.HandleMIDI(ev)
		case cmd := <-r.commands:
			r.core.Execute(cmd)
		}
	}
}
