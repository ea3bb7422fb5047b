package main

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/leandrodaf/eartrainer/internal/logger"
	"github.com/leandrodaf/eartrainer/sdk/contracts"
	"github.com/leandrodaf/eartrainer/sdk/trainer"
)

// A self-answering test: every test note is echoed back as the answer, so
// the run ends with every note correct. No MIDI hardware is needed.
func main() {
	log := logger.NewStandardLogger()
	log.SetLevel(contracts.InfoLevel)

	t, err := trainer.NewTrainer(
		contracts.WithTrainerLogger(log),
		contracts.WithRandSource(rand.New(rand.NewPCG(1, 2))),
		contracts.WithAutoAdvance(true),
	)
	if err != nil {
		log.Error("Failed to initialize trainer", log.Field().Error("error", err))
		return
	}

	t.Subscribe(contracts.TestNotePlayed, func(p any) {
		ev := p.(contracts.NoteEvent)
		t.Execute(contracts.PlayNote(ev.Note))
	})
	t.Subscribe(contracts.NoteAnswered, func(p any) {
		a := p.(contracts.NoteAnsweredPayload)
		fmt.Printf("note %d answered %d correct=%v\n", a.Item.TestNote, a.Item.AnswerNote, a.Item.Correct)
	})

	finished := false
	t.Subscribe(contracts.TestFinished, func(p any) {
		r := p.(contracts.TestFinishedPayload).Results
		fmt.Printf("run %s: %d/%d correct\n", r.RunID, r.NumCorrect, r.NotesTested)
		finished = true
	})

	t.Execute(contracts.SetDegrees([]int{0, 2, 4, 5, 7, 9, 11}))
	if err := t.Start(context.Background()); err != nil {
		log.Error("Failed to start test", log.Field().Error("error", err))
		return
	}
	for !finished {
		t.Tick()
	}
}
