// Package tester runs ear-training tests on top of the sequencer: it picks a
// random degree from the pool, asks the sequencer for a cadence plus the
// test note, waits for the user's next note-on and grades it.
package tester

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/leandrodaf/eartrainer/internal/bus"
	"github.com/leandrodaf/eartrainer/sdk/contracts"
)

// ErrAudioUnavailable is returned by Start when the audio output cannot be resumed.
var ErrAudioUnavailable = errors.New("audio output unavailable")

// NoDegree is returned by PickNextNoteToTest when no pick was made.
const NoDegree = -1

// State is the externally visible phase of the tester.
type State int

const (
	Idle State = iota
	WaitingForTestNote
	WaitingForAnswer
)

func (s State) String() string {
	switch s {
	case WaitingForTestNote:
		return "waiting-for-test-note"
	case WaitingForAnswer:
		return "waiting-for-answer"
	}
	return "idle"
}

// Config holds the tester's collaborators and constants.
type Config struct {
	Tonic       int
	Audio       contracts.AudioOutput // nil means always ready
	Rand        *rand.Rand
	AutoAdvance bool
	// Idle reports whether the sequencer's pending set is empty. Notes
	// scheduled since the last tick make it false before running-state-changed
	// can say so. Nil means only the published state is used.
	Idle func() bool
}

// Tester is the adaptive test state machine. Like the sequencer it expects
// every call to come from the host goroutine.
type Tester struct {
	bus    *bus.Bus
	logger contracts.Logger
	cfg    Config

	pool            Pool
	degreeUnderTest int
	results         contracts.TestResults

	testRunning      bool
	waitingForAnswer bool
	sequencerRunning bool
	cadenceSounding  bool // between cadence-started and the test note, or a reset
	advancePending   bool
}

// New creates a tester and subscribes it to the tester commands and the
// sequencer notifications on b.
func New(b *bus.Bus, logger contracts.Logger, cfg Config) *Tester {
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	t := &Tester{bus: b, logger: logger, cfg: cfg, degreeUnderTest: NoDegree}

	bus.OnSignal(b, contracts.TesterStart, func() { _ = t.Start(context.Background()) })
	bus.OnSignal(b, contracts.TesterStop, t.Stop)
	bus.On(b, contracts.TesterSetDegrees, t.SetDegreesToTest)
	bus.OnSignal(b, contracts.TesterPickNext, func() { t.PickNextNoteToTest() })

	bus.On(b, contracts.RunningStateChanged, t.onSequencerRunning)
	bus.On(b, contracts.CadenceStarted, func(int) { t.cadenceSounding = true })
	bus.On(b, contracts.TestNotePlayed, t.onTestNotePlayed)
	bus.On(b, contracts.NotePlayed, t.onNotePlayed)
	return t
}

// Start begins a run when the pool is non-empty and nothing is playing. The
// audio output is resumed first; if that fails nothing is scheduled and the
// error is returned.
func (t *Tester) Start(ctx context.Context) error {
	if t.cfg.Audio != nil {
		if err := t.cfg.Audio.Resume(ctx); err != nil {
			t.logger.Error("failed to resume audio output", t.logger.Field().Error("error", err))
			t.status(true, "Audio output could not be resumed: "+err.Error())
			return fmt.Errorf("%w: %v", ErrAudioUnavailable, err)
		}
	}

	if t.busy() || t.testRunning || t.pool.Len() == 0 {
		t.logger.Debug("start ignored",
			t.logger.Field().Bool("busy", t.busy()),
			t.logger.Field().Bool("testRunning", t.testRunning),
			t.logger.Field().Int("pool", t.pool.Len()))
		return nil
	}

	t.testRunning = true
	t.results = contracts.TestResults{
		RunID:      uuid.NewString(),
		TotalNotes: t.pool.Len(),
		TestItems:  []contracts.TestItem{},
	}
	t.logger.Info("test started",
		t.logger.Field().String("runID", t.results.RunID),
		t.logger.Field().Int("totalNotes", t.results.TotalNotes))
	t.bus.Publish(contracts.TestStarted, t.results.Clone())
	t.PickNextNoteToTest()
	return nil
}

// Stop ends the running test, silences the sequencer and publishes whatever
// results have accumulated. It does nothing when no test is running.
func (t *Tester) Stop() {
	if !t.testRunning {
		return
	}
	t.testRunning = false
	t.waitingForAnswer = false
	t.advancePending = false
	t.logger.Info("test stopped",
		t.logger.Field().String("runID", t.results.RunID),
		t.logger.Field().Int("notesTested", t.results.NotesTested))
	t.bus.Publish(contracts.SequencerReset, nil)
	t.bus.Publish(contracts.TestFinished, contracts.TestFinishedPayload{Results: t.results.Clone()})
}

// SetDegreesToTest stops any run in progress and installs a new pool.
// Degrees outside 0..11 are left out.
func (t *Tester) SetDegreesToTest(degrees []int) {
	t.Stop()
	t.pool = NewPool(degrees)
	t.logger.Debug("degrees to test installed",
		t.logger.Field().Ints("degrees", t.pool.Degrees()),
		t.logger.Field().Int("dropped", len(degrees)-t.pool.Len()))
}

// PickNextNoteToTest draws a degree from the pool and asks the sequencer to
// play the cadence and that degree. When the pool is already empty the run
// finishes instead. It returns the degree and true only when a pick was made.
func (t *Tester) PickNextNoteToTest() (int, bool) {
	if t.busy() || !t.testRunning {
		return NoDegree, false
	}

	degree, ok := t.pool.Pick(t.cfg.Rand)
	if !ok {
		t.finish()
		return NoDegree, false
	}

	t.degreeUnderTest = degree
	t.waitingForAnswer = false
	t.advancePending = false
	t.logger.Debug("degree picked",
		t.logger.Field().Int("degree", degree),
		t.logger.Field().Int("remaining", t.pool.Len()))
	t.bus.Publish(contracts.SequencerPlayCadenceAndNote, t.cfg.Tonic+degree)
	return degree, true
}

// State reports the current phase.
func (t *Tester) State() State {
	switch {
	case !t.testRunning:
		return Idle
	case t.waitingForAnswer:
		return WaitingForAnswer
	}
	return WaitingForTestNote
}

// Results returns a copy of the current run's results.
func (t *Tester) Results() contracts.TestResults {
	return t.results.Clone()
}

// PoolLen returns how many degrees are left to test.
func (t *Tester) PoolLen() int {
	return t.pool.Len()
}

func (t *Tester) finish() {
	t.testRunning = false
	t.waitingForAnswer = false
	t.advancePending = false
	t.results.Finished = true
	t.logger.Info("test finished",
		t.logger.Field().String("runID", t.results.RunID),
		t.logger.Field().Int("numCorrect", t.results.NumCorrect),
		t.logger.Field().Int("numWrong", t.results.NumWrong))
	t.bus.Publish(contracts.TestFinished, contracts.TestFinishedPayload{Results: t.results.Clone()})
}

// busy reports whether the sequencer is playing, has notes pending or is
// about to play a cadence.
func (t *Tester) busy() bool {
	if t.sequencerRunning || t.cadenceSounding {
		return true
	}
	return t.cfg.Idle != nil && !t.cfg.Idle()
}

func (t *Tester) onSequencerRunning(running bool) {
	t.sequencerRunning = running
	if running {
		return
	}
	t.cadenceSounding = false
	if t.advancePending && t.testRunning {
		t.advancePending = false
		t.PickNextNoteToTest()
	}
}

func (t *Tester) onTestNotePlayed(contracts.NoteEvent) {
	t.cadenceSounding = false
	if t.testRunning {
		t.waitingForAnswer = true
	}
}

func (t *Tester) onNotePlayed(ev contracts.NoteEvent) {
	if !t.waitingForAnswer || !ev.On || t.cadenceSounding || ev.Role != contracts.RoleAnswer {
		return
	}
	t.grade(ev.Note)
}

func (t *Tester) grade(answer int) {
	t.waitingForAnswer = false

	expected := t.cfg.Tonic + t.degreeUnderTest
	item := contracts.TestItem{TestNote: expected, AnswerNote: answer, Correct: answer == expected}

	t.results.NotesTested++
	if item.Correct {
		t.results.NumCorrect++
	} else {
		t.results.NumWrong++
	}
	t.results.TestItems = append(t.results.TestItems, item)

	t.logger.Debug("note answered",
		t.logger.Field().Int("testNote", item.TestNote),
		t.logger.Field().Int("answerNote", item.AnswerNote),
		t.logger.Field().Bool("correct", item.Correct))
	t.bus.Publish(contracts.NoteAnswered, contracts.NoteAnsweredPayload{Item: item, Results: t.results.Clone()})

	if t.cfg.AutoAdvance {
		t.advancePending = true
	}
}

func (t *Tester) status(isError bool, text string) {
	t.bus.Publish(contracts.StatusMessage, contracts.Status{Source: contracts.SourceTester, Error: isError, Text: text})
}
