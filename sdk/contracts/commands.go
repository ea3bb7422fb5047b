package contracts

// Commands consumed by the trainer core. They travel on the same bus as the
// notifications.
const (
	// SequencerReset has no payload.
	SequencerReset EventName = "sequencer-reset"
	// SequencerPlayNote carries the note to play immediately (int).
	SequencerPlayNote EventName = "sequencer-play-note"
	// SequencerPlayCadenceAndNote carries the note to test after the cadence (int).
	SequencerPlayCadenceAndNote EventName = "sequencer-play-cadence-and-note"
	// TesterStart has no payload.
	TesterStart EventName = "tester-start"
	// TesterStop has no payload.
	TesterStop EventName = "tester-stop"
	// TesterSetDegrees carries the degree list ([]int).
	TesterSetDegrees EventName = "tester-set-degrees"
	// TesterPickNext has no payload.
	TesterPickNext EventName = "tester-pick-next"
)

var commands = map[EventName]struct{}{
	SequencerReset:              {},
	SequencerPlayNote:           {},
	SequencerPlayCadenceAndNote: {},
	TesterStart:                 {},
	TesterStop:                  {},
	TesterSetDegrees:            {},
	TesterPickNext:              {},
}

// IsCommand reports whether name is one of the commands understood by the core.
func IsCommand(name EventName) bool {
	_, ok := commands[name]
	return ok
}

// Command is a request for the core, as queued by hosts and adapters.
type Command struct {
	Name    EventName
	Payload any
}

// PlayNote builds a SequencerPlayNote command.
func PlayNote(note int) Command {
	return Command{Name: SequencerPlayNote, Payload: note}
}

// SetDegrees builds a TesterSetDegrees command.
func SetDegrees(degrees []int) Command {
	return Command{Name: TesterSetDegrees, Payload: degrees}
}
