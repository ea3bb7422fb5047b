package store

import (
	"time"

	"github.com/leandrodaf/eartrainer/internal/bus"
	"github.com/leandrodaf/eartrainer/sdk/contracts"
)

// Recorder persists the test lifecycle published on a bus.
type Recorder struct {
	store  *Store
	bus    *bus.Bus
	logger contracts.Logger
	now    func() time.Time
}

// NewRecorder subscribes a recorder for st to b.
func NewRecorder(st *Store, b *bus.Bus, logger contracts.Logger) *Recorder {
	r := &Recorder{store: st, bus: b, logger: logger, now: time.Now}
	bus.On(b, contracts.TestStarted, r.onTestStarted)
	bus.On(b, contracts.NoteAnswered, r.onNoteAnswered)
	bus.On(b, contracts.TestFinished, r.onTestFinished)
	return r
}

func (r *Recorder) onTestStarted(results contracts.TestResults) {
	r.check("store run start", r.store.StartRun(results, r.now()))
}

func (r *Recorder) onNoteAnswered(p contracts.NoteAnsweredPayload) {
	r.check("store answer", r.store.RecordAnswer(p.Item))
}

func (r *Recorder) onTestFinished(p contracts.TestFinishedPayload) {
	r.check("store run result", r.store.FinishRun(p.Results, r.now()))
}

func (r *Recorder) check(op string, err error) {
	if err == nil {
		return
	}
	r.logger.Error("failed to "+op, r.logger.Field().Error("error", err))
	r.bus.Publish(contracts.StatusMessage, contracts.Status{
		Source: contracts.SourceTrainer,
		Error:  true,
		Text:   "Could not save results: " + err.Error(),
	})
}
