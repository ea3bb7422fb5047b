package main

import (
	"context"
	"errors"
	"math/rand/v2"

	"github.com/leandrodaf/eartrainer/internal/config"
	"github.com/leandrodaf/eartrainer/internal/controller"
	"github.com/leandrodaf/eartrainer/internal/midiout"
	"github.com/leandrodaf/eartrainer/internal/runner"
	"github.com/leandrodaf/eartrainer/sdk/contracts"
	"github.com/leandrodaf/eartrainer/sdk/trainer"
)

// session wires a trainer to an output port, an optional controller and a runner.
type session struct {
	log     contracts.Logger
	trainer *trainer.Trainer
	output  *midiout.Output
	runner  *runner.Runner
	release func()
}

func newSession(cfg *config.Config, log contracts.Logger, outSel string, rng *rand.Rand, input <-chan contracts.MIDI) (*session, error) {
	port, release, err := openOutput(outSel, log)
	if err != nil {
		return nil, err
	}

	s := &session{log: log, release: release}
	opts := append(cfg.TrainerOptions(),
		contracts.WithTrainerLogger(log),
		contracts.WithAudioOutput(contracts.AudioOutputFunc(func(ctx context.Context) error {
			return s.output.Resume(ctx)
		})),
	)
	if rng != nil {
		opts = append(opts, contracts.WithRandSource(rng))
	}

	s.trainer, err = trainer.NewTrainer(opts...)
	if err != nil {
		release()
		return nil, err
	}
	s.output = midiout.New(s.trainer.Bus(), log, port, 0)

	rcfg := runner.Config{TickPeriod: cfg.TickPeriod()}
	if input != nil {
		rcfg.Input = input
		rcfg.Controller = controller.New(s.trainer.Bus(), log, controller.Config{Post: s.post})
	}
	s.runner = runner.New(s.trainer, log, rcfg)
	return s, nil
}

// post queues cmd for the runner; safe from any goroutine.
func (s *session) post(cmd contracts.Command) {
	if err := s.runner.Post(cmd); err != nil {
		s.log.Debug("command dropped", s.log.Field().String("command", string(cmd.Name)), s.log.Field().Error("error", err))
	}
}

// run blocks until ctx is done. Cancellation is a normal exit.
func (s *session) run(ctx context.Context) error {
	err := s.runner.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (s *session) close() {
	if n := s.trainer.Dropped(); n > 0 {
		s.log.Warn("notes outside the sound range were not played", s.log.Field().Int("dropped", n))
	}
	s.output.Silence()
	s.release()
}
