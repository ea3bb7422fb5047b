package sequencer

import "github.com/leandrodaf/eartrainer/sdk/contracts"

// Chord voicings relative to the tonic. The subdominant and dominant are
// voiced close to the tonic chord so the cadence stays inside one octave.
var (
	tonicChord       = []int{0, 4, 7}
	subdominantChord = []int{5, 9, 0}
	dominantChord    = []int{7, -1, 2}
)

type chordStep struct {
	intervals []int
	role      contracts.Role
}

// cadence is I-IV-V-I.
var cadence = []chordStep{
	{tonicChord, contracts.RoleCadence1},
	{subdominantChord, contracts.RoleCadence2},
	{dominantChord, contracts.RoleCadence3},
	{tonicChord, contracts.RoleCadence4},
}

// cadenceStartTick is where the first chord sounds. Tick 0 is left free so
// listeners of cadence-started have a full period before playback.
const cadenceStartTick = 1

// Test note placement, in multiples of the chord interval.
const (
	testNoteOnFactor  = 8
	testNoteOffFactor = 9
)

// CadenceNotes returns every pitch the cadence for tonic will sound.
func CadenceNotes(tonic int) []int {
	var notes []int
	for _, step := range cadence {
		for _, interval := range step.intervals {
			notes = append(notes, tonic+interval)
		}
	}
	return notes
}

// drainPasses bounds how often one tick re-reads the pending set.
const drainPasses = 2
