package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/leandrodaf/eartrainer/sdk/contracts"
	"github.com/spf13/cobra"
)

var playFlags struct {
	cadence bool
	out     string
}

func init() {
	playCmd.Flags().BoolVar(&playFlags.cadence, "cadence", false, "play the cadence before the note")
	playCmd.Flags().StringVar(&playFlags.out, "out", "", `MIDI output port index or name, or "none"`)
	rootCmd.AddCommand(playCmd)
}

var playCmd = &cobra.Command{
	Use:   "play <note>",
	Short: "Play one note, optionally after the cadence",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		note, err := parseNote(args[0], cfg.Tonic)
		if err != nil {
			return err
		}

		if note < cfg.MIDILow || note > cfg.MIDIHigh {
			return fmt.Errorf("%s is outside the playable range %s..%s",
				pitchName(note), pitchName(cfg.MIDILow), pitchName(cfg.MIDIHigh))
		}

		log := newLogger(cfg)
		defer syncLogger(log)

		s, err := newSession(cfg, log, playFlags.out, nil, nil)
		if err != nil {
			return err
		}
		defer s.close()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
		defer stop()
		if err := s.output.Resume(ctx); err != nil {
			return err
		}

		s.trainer.Subscribe(contracts.RunningStateChanged, func(p any) {
			if running, _ := p.(bool); !running {
				cancel()
			}
		})
		s.trainer.Subscribe(contracts.NotePlayed, func(p any) {
			if ev := p.(contracts.NoteEvent); ev.On && ev.Note == note && !ev.Role.IsCadence() {
				fmt.Fprintln(cmd.OutOrStdout(), pitchName(note))
			}
		})

		if playFlags.cadence {
			s.post(contracts.Command{Name: contracts.SequencerPlayCadenceAndNote, Payload: note})
		} else {
			s.post(contracts.PlayNote(note))
		}
		return s.run(ctx)
	},
}
