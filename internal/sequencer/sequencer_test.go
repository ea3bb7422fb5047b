package sequencer

import (
	"testing"

	"github.com/leandrodaf/eartrainer/internal/bus"
	"github.com/leandrodaf/eartrainer/internal/logger"
	"github.com/leandrodaf/eartrainer/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	names    []contracts.EventName
	played   []contracts.NoteEvent
	tests    []contracts.NoteEvent
	running  []bool
	cadences []int
}

func newTestSequencer(t *testing.T) (*Sequencer, *bus.Bus, *recorder) {
	t.Helper()
	b := bus.New(logger.NewNopLogger())
	s := New(b, logger.NewNopLogger(), Config{
		Tonic:              60,
		TicksBetweenChords: 5,
		LowNote:            58,
		HighNote:           73,
	})

	r := &recorder{}
	bus.On(b, contracts.NotePlayed, func(ev contracts.NoteEvent) {
		r.names = append(r.names, contracts.NotePlayed)
		r.played = append(r.played, ev)
	})
	bus.On(b, contracts.TestNotePlayed, func(ev contracts.NoteEvent) {
		r.names = append(r.names, contracts.TestNotePlayed)
		r.tests = append(r.tests, ev)
	})
	bus.On(b, contracts.RunningStateChanged, func(v bool) {
		r.names = append(r.names, contracts.RunningStateChanged)
		r.running = append(r.running, v)
	})
	bus.On(b, contracts.CadenceStarted, func(n int) {
		r.names = append(r.names, contracts.CadenceStarted)
		r.cadences = append(r.cadences, n)
	})
	return s, b, r
}

func tick(s *Sequencer, n int) {
	for i := 0; i < n; i++ {
		s.OnTimerTick()
	}
}

func TestPlayImmediateSchedulesOnAndOff(t *testing.T) {
	s, _, r := newTestSequencer(t)

	s.PlayImmediate(72)

	assert.Equal(t, []contracts.NoteEvent{
		{Note: 72, On: true, Tick: 0, Role: contracts.RoleImmediate},
		{Note: 72, On: false, Tick: 5, Role: contracts.RoleImmediate},
	}, s.Pending())

	tick(s, 2)
	assert.Equal(t, 2, s.Clock())
	require.Len(t, r.played, 1)
	assert.True(t, r.played[0].On)
	assert.Len(t, s.Pending(), 1)

	tick(s, 4)
	require.Len(t, r.played, 2)
	assert.Equal(t, contracts.NoteEvent{Note: 72, On: false, Tick: 5, Role: contracts.RoleImmediate}, r.played[1])
	assert.True(t, s.Idle())
	assert.Equal(t, 0, s.Clock())
	assert.False(t, s.Running())
	assert.Equal(t, []bool{true, false}, r.running)
}

func TestPlayImmediateOnOffSeparatedByInterval(t *testing.T) {
	for note := 58; note <= 73; note++ {
		s, _, r := newTestSequencer(t)
		s.PlayImmediate(note)
		tick(s, 10)

		require.Len(t, r.played, 2, "note %d", note)
		assert.Equal(t, note, r.played[0].Note)
		assert.Equal(t, note, r.played[1].Note)
		assert.True(t, r.played[0].On)
		assert.False(t, r.played[1].On)
		assert.Equal(t, 5, r.played[1].Tick-r.played[0].Tick)
	}
}

func TestOutOfRangeNotesAreDropped(t *testing.T) {
	s, _, r := newTestSequencer(t)

	s.PlayImmediate(30)
	s.PlayImmediate(74)
	s.PlayImmediate(57)
	tick(s, 10)

	assert.Empty(t, r.played)
	assert.Empty(t, r.running)
	assert.Equal(t, 3, s.Dropped())
}

func TestCadencePlusTestTimeline(t *testing.T) {
	s, _, r := newTestSequencer(t)

	s.PlayCadencePlusTest(67)

	pending := s.Pending()
	var cadenceEvents, testEvents []contracts.NoteEvent
	for _, ev := range pending {
		if ev.Role == contracts.RoleTestNote {
			testEvents = append(testEvents, ev)
		} else {
			cadenceEvents = append(cadenceEvents, ev)
		}
	}
	assert.Len(t, cadenceEvents, 4*3*2)
	require.Len(t, testEvents, 2)
	assert.Equal(t, contracts.NoteEvent{Note: 67, On: true, Tick: 40, Role: contracts.RoleTestNote}, testEvents[0])
	assert.Equal(t, contracts.NoteEvent{Note: 67, On: false, Tick: 45, Role: contracts.RoleTestNote}, testEvents[1])
	for _, ev := range cadenceEvents {
		assert.Less(t, ev.Tick, testEvents[0].Tick)
		assert.True(t, ev.Role.IsCadence())
	}

	// cadence-started precedes every note.
	require.Equal(t, []contracts.EventName{contracts.CadenceStarted}, r.names)
	assert.Equal(t, []int{67}, r.cadences)

	tick(s, 46)

	assert.True(t, s.Idle())
	assert.Equal(t, 0, s.Clock())
	assert.Len(t, r.played, 26)
	for i := 1; i < len(r.played); i++ {
		assert.LessOrEqual(t, r.played[i-1].Tick, r.played[i].Tick)
	}
	require.Len(t, r.tests, 1)
	assert.True(t, r.tests[0].On)
	assert.Equal(t, 40, r.tests[0].Tick)
	assert.Equal(t, []bool{true, false}, r.running)
}

func TestCadenceChordsAreTerminated(t *testing.T) {
	s, _, _ := newTestSequencer(t)
	s.PlayCadencePlusTest(60)

	ons := map[contracts.Role][]contracts.NoteEvent{}
	offs := map[contracts.Role][]contracts.NoteEvent{}
	for _, ev := range s.Pending() {
		if !ev.Role.IsCadence() {
			continue
		}
		if ev.On {
			ons[ev.Role] = append(ons[ev.Role], ev)
		} else {
			offs[ev.Role] = append(offs[ev.Role], ev)
		}
	}

	starts := map[contracts.Role]int{
		contracts.RoleCadence1: 1,
		contracts.RoleCadence2: 6,
		contracts.RoleCadence3: 11,
		contracts.RoleCadence4: 16,
	}
	for role, start := range starts {
		require.Len(t, ons[role], 3, role.String())
		require.Len(t, offs[role], 3, role.String())
		for i := range ons[role] {
			assert.Equal(t, start, ons[role][i].Tick)
			assert.Equal(t, start+5, offs[role][i].Tick)
			assert.Equal(t, ons[role][i].Note, offs[role][i].Note)
		}
	}
	assert.ElementsMatch(t, []int{60, 64, 67, 65, 69, 60, 67, 59, 62, 60, 64, 67}, CadenceNotes(60))
}

func TestResetCommandRoundTrip(t *testing.T) {
	s, b, r := newTestSequencer(t)
	s.PlayCadencePlusTest(64)
	tick(s, 3)

	b.Publish(contracts.SequencerReset, nil)

	require.NotEmpty(t, r.running)
	assert.False(t, r.running[len(r.running)-1])
	assert.True(t, s.Idle())
	assert.Equal(t, 0, s.Clock())

	// Reset is idempotent.
	b.Publish(contracts.SequencerReset, nil)
	assert.True(t, s.Idle())
	assert.False(t, s.Running())
}

func TestResetDuringDrainDiscardsRemainingEvents(t *testing.T) {
	s, b, r := newTestSequencer(t)
	resetOnce := false
	bus.On(b, contracts.NotePlayed, func(ev contracts.NoteEvent) {
		if !resetOnce {
			resetOnce = true
			s.Reset()
		}
	})

	s.PlayCadencePlusTest(62)
	tick(s, 10)

	assert.Len(t, r.played, 1)
	assert.True(t, s.Idle())
	assert.Equal(t, 0, s.Clock())
}

func TestNoteScheduledDuringDrainFiresSameTick(t *testing.T) {
	s, b, r := newTestSequencer(t)
	answered := false
	bus.On(b, contracts.TestNotePlayed, func(contracts.NoteEvent) {
		if !answered {
			answered = true
			b.Publish(contracts.SequencerPlayNote, 65)
		}
	})

	s.PlayCadencePlusTest(65)
	tick(s, 41)

	last := r.played[len(r.played)-1]
	assert.Equal(t, contracts.NoteEvent{Note: 65, On: true, Tick: 40, Role: contracts.RoleImmediate}, last)
}

func TestCommandsOnBus(t *testing.T) {
	s, b, r := newTestSequencer(t)

	b.Publish(contracts.SequencerPlayNote, 60)
	assert.Len(t, s.Pending(), 2)

	b.Publish(contracts.SequencerPlayCadenceAndNote, 61)
	assert.Equal(t, []int{61}, r.cadences)
	assert.Len(t, s.Pending(), 2+26)
}

func TestChainedImmediateNotesAreDeferred(t *testing.T) {
	s, b, r := newTestSequencer(t)
	bus.On(b, contracts.NotePlayed, func(ev contracts.NoteEvent) {
		if ev.On && ev.Role == contracts.RoleImmediate && ev.Note < 73 {
			s.PlayImmediate(ev.Note + 1)
		}
	})

	s.PlayImmediate(60)
	tick(s, 1)

	require.Len(t, r.played, 2)
	assert.Equal(t, contracts.NoteEvent{Note: 60, On: true, Tick: 0, Role: contracts.RoleImmediate}, r.played[0])
	assert.Equal(t, contracts.NoteEvent{Note: 61, On: true, Tick: 0, Role: contracts.RoleImmediate}, r.played[1])
	assert.Contains(t, s.Pending(), contracts.NoteEvent{Note: 62, On: true, Tick: 1, Role: contracts.RoleImmediate})
	assert.Equal(t, 1, s.Clock())

	tick(s, 1)
	var ons []int
	for _, ev := range r.played {
		if ev.On {
			ons = append(ons, ev.Note)
		}
	}
	assert.Equal(t, []int{60, 61, 62, 63}, ons)

	tick(s, 100)
	assert.True(t, s.Idle())
}
