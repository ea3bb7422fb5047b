package contracts

// EventName identifies a topic on the trainer's event bus. Commands and
// notifications share the same namespace.
type EventName string

// Notifications published by the sequencer and the tester.
const (
	// NotePlayed carries a NoteEvent for every scheduled note that fires.
	NotePlayed EventName = "note-played"
	// TestNotePlayed carries the NoteEvent of a test note turning on.
	TestNotePlayed EventName = "test-note-played"
	// CadenceStarted carries the note under test (int) before any chord sounds.
	CadenceStarted EventName = "cadence-started"
	// RunningStateChanged carries the sequencer running flag (bool).
	RunningStateChanged EventName = "running-state-changed"
	// TestStarted carries a TestResults snapshot with zero answers.
	TestStarted EventName = "test-started"
	// TestFinished carries a TestFinishedPayload, possibly for a partial run.
	TestFinished EventName = "test-finished"
	// NoteAnswered carries a NoteAnsweredPayload.
	NoteAnswered EventName = "note-answered"
	// StatusMessage carries a Status diagnostic.
	StatusMessage EventName = "status-message"
)

// Role tags why a note is sounding. Consumers use it for positioning and
// decoration only; the sequencer treats every role the same way.
type Role int

const (
	RoleCadence1 Role = iota
	RoleCadence2
	RoleCadence3
	RoleCadence4
	RoleTestNote
	RoleAnswer
)

// RoleImmediate is the role of notes played on request, i.e. user answers.
const RoleImmediate = RoleAnswer

func (r Role) String() string {
	switch r {
	case RoleCadence1:
		return "cadence-1"
	case RoleCadence2:
		return "cadence-2"
	case RoleCadence3:
		return "cadence-3"
	case RoleCadence4:
		return "cadence-4"
	case RoleTestNote:
		return "test-note"
	case RoleAnswer:
		return "answer"
	}
	return "unknown"
}

// IsCadence reports whether the role belongs to one of the four cadence chords.
func (r Role) IsCadence() bool {
	return r >= RoleCadence1 && r <= RoleCadence4
}

// NoteEvent is one entry of the sequencer timeline. A note-on and its
// note-off are always two separate events.
type NoteEvent struct {
	Note int  // Absolute MIDI pitch.
	On   bool // True for note-on.
	Tick int  // Logical tick at which the event fires.
	Role Role // Why the note is playing.
}

// TestItem is one graded question. It is never modified after creation.
type TestItem struct {
	TestNote   int  `json:"testNote"`
	AnswerNote int  `json:"answerNote"`
	Correct    bool `json:"correct"`
}

// TestResults aggregates one test run.
type TestResults struct {
	RunID       string     `json:"runId"`
	TotalNotes  int        `json:"totalNotes"`
	NotesTested int        `json:"notesTested"`
	NumCorrect  int        `json:"numCorrect"`
	NumWrong    int        `json:"numWrong"`
	Finished    bool       `json:"finished"`
	TestItems   []TestItem `json:"testItems"`
}

// Clone returns a copy that shares no memory with r, suitable for publishing.
func (r TestResults) Clone() TestResults {
	c := r
	if r.TestItems != nil {
		c.TestItems = make([]TestItem, len(r.TestItems))
		copy(c.TestItems, r.TestItems)
	}
	return c
}

// NoteAnsweredPayload is published with NoteAnswered.
type NoteAnsweredPayload struct {
	Item    TestItem
	Results TestResults
}

// TestFinishedPayload is published with TestFinished. Results.Finished is
// false when the run was stopped before the degree pool was exhausted.
type TestFinishedPayload struct {
	Results TestResults
}

// StatusSource names the component that produced a Status.
type StatusSource string

const (
	SourceSequencer  StatusSource = "sequencer"
	SourceTester     StatusSource = "tester"
	SourceTrainer    StatusSource = "trainer"
	SourceController StatusSource = "controller"
	SourceOutput     StatusSource = "output"
)

// Status is a diagnostic message for whoever displays status lines.
type Status struct {
	Source StatusSource
	Error  bool
	Text   string
}
