package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"

	"github.com/leandrodaf/eartrainer/internal/config"
	"github.com/leandrodaf/eartrainer/internal/store"
	"github.com/leandrodaf/eartrainer/sdk/contracts"
	"github.com/leandrodaf/eartrainer/sdk/midi"
	"github.com/spf13/cobra"
)

var testFlags struct {
	preset     string
	auto       bool
	controller int
	out        string
	seed       uint64
}

func init() {
	testCmd.Flags().StringVar(&testFlags.preset, "preset", "", "degree preset for this run (see `eartrainer presets`)")
	testCmd.Flags().BoolVar(&testFlags.auto, "auto", false, "play the next note as soon as an answer is graded")
	testCmd.Flags().IntVar(&testFlags.controller, "controller", -1, "MIDI controller device ID to answer on (see `eartrainer devices`)")
	testCmd.Flags().StringVar(&testFlags.out, "out", "", `MIDI output port index or name, or "none"`)
	testCmd.Flags().Uint64Var(&testFlags.seed, "seed", 0, "random seed for the note order (0 picks one)")
	rootCmd.AddCommand(testCmd)
}

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Run an ear-training test",
	Long: `Plays a cadence and a test note, then waits for your answer: a note name
(E, F#, Bb), a pitch (E4) or a MIDI number, typed or played on a controller.
Type "next" for the next note and "stop" to end the run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if testFlags.preset != "" {
			if err := cfg.ApplyPreset(testFlags.preset); err != nil {
				return err
			}
		}
		if testFlags.auto {
			cfg.AutoAdvance = true
		}
		degrees := cfg.Degrees()
		if len(degrees) == 0 {
			return fmt.Errorf("no degrees to test; pick a preset with `eartrainer presets --apply`")
		}
		return runTest(cmd.Context(), cfg, degrees, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func runTest(ctx context.Context, cfg *config.Config, degrees []int, in io.Reader, out io.Writer) error {
	log := newLogger(cfg)
	defer syncLogger(log)

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer st.Close()

	var input chan contracts.MIDI
	if testFlags.controller >= 0 {
		input = make(chan contracts.MIDI, 64)
		client, err := midi.OpenController(testFlags.controller, input, contracts.WithLogger(log))
		if err != nil {
			return err
		}
		defer client.Stop()
	}

	var rng *rand.Rand
	if testFlags.seed != 0 {
		rng = rand.New(rand.NewPCG(testFlags.seed, testFlags.seed))
	}
	s, err := newSession(cfg, log, testFlags.out, rng, input)
	if err != nil {
		return err
	}
	defer s.close()
	store.NewRecorder(st, s.trainer.Bus(), log)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	if err := s.output.Resume(ctx); err != nil {
		return err
	}

	tonic := cfg.Tonic
	printTestEvents(s, out, tonic, stop)

	go readAnswers(in, tonic, s.post, func(msg string) {
		fmt.Fprintln(out, warnStyle.Render(msg))
	})

	fmt.Fprintf(out, "%s key of %s, %d notes\n", titleStyle.Render("Ear training:"), pitchName(tonic), len(degrees))
	s.post(contracts.SetDegrees(degrees))
	s.post(contracts.Command{Name: contracts.TesterStart})
	return s.run(ctx)
}

// printTestEvents reports the test on out. Listeners run on the runner
// goroutine; done is called once the run is over.
func printTestEvents(s *session, out io.Writer, tonic int, done func()) {
	auto := s.trainer.Options().AutoAdvance
	tr := s.trainer
	tr.Subscribe(contracts.CadenceStarted, func(any) {
		fmt.Fprintln(out, mutedStyle.Render("listen..."))
	})
	tr.Subscribe(contracts.TestNotePlayed, func(any) {
		fmt.Fprint(out, "which note? ")
	})
	tr.Subscribe(contracts.NoteAnswered, func(p any) {
		a := p.(contracts.NoteAnsweredPayload)
		progress := mutedStyle.Render(fmt.Sprintf("(%d/%d)", a.Results.NotesTested, a.Results.TotalNotes))
		if a.Item.Correct {
			fmt.Fprintf(out, "%s %s %s\n", correctStyle.Render("correct"), pitchName(a.Item.TestNote), progress)
		} else {
			fmt.Fprintf(out, "%s it was %s, you played %s %s\n",
				wrongStyle.Render("wrong"), pitchName(a.Item.TestNote), pitchName(a.Item.AnswerNote), progress)
		}
		if !auto {
			fmt.Fprintln(out, mutedStyle.Render(`type "next" or press a pedal for the next note`))
		}
	})
	tr.Subscribe(contracts.TestFinished, func(p any) {
		r := p.(contracts.TestFinishedPayload).Results
		state := "finished"
		if !r.Finished {
			state = "stopped"
		}
		fmt.Fprintf(out, "\n%s %s: %s correct, %s wrong of %d tested (%d planned)\n",
			titleStyle.Render("Test"), state,
			correctStyle.Render(fmt.Sprint(r.NumCorrect)), wrongStyle.Render(fmt.Sprint(r.NumWrong)),
			r.NotesTested, r.TotalNotes)
		done()
	})
	tr.Subscribe(contracts.StatusMessage, func(p any) {
		st := p.(contracts.Status)
		if st.Error {
			fmt.Fprintln(out, wrongStyle.Render(string(st.Source)+": "+st.Text))
			return
		}
		fmt.Fprintln(out, mutedStyle.Render(st.Text))
	})
}

// readAnswers turns input lines into commands until in is exhausted.
func readAnswers(in io.Reader, tonic int, post func(contracts.Command), warn func(string)) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.ToLower(strings.TrimSpace(scanner.Text()))
		switch line {
		case "":
			continue
		case "next", "n":
			post(contracts.Command{Name: contracts.TesterPickNext})
		case "stop", "quit", "q":
			post(contracts.Command{Name: contracts.TesterStop})
		default:
			note, err := parseNote(line, tonic)
			if err != nil {
				warn(fmt.Sprintf("%q is not a note", line))
				continue
			}
			post(contracts.PlayNote(note))
		}
	}
}
