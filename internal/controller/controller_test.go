package controller

import (
	"testing"
	"time"

	"github.com/leandrodaf/eartrainer/internal/bus"
	"github.com/leandrodaf/eartrainer/internal/logger"
	"github.com/leandrodaf/eartrainer/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestController(t *testing.T) (*Controller, *bus.Bus, chan contracts.Command, *[]int) {
	t.Helper()
	b := bus.New(logger.NewNopLogger())
	posted := make(chan contracts.Command, 8)
	c := New(b, logger.NewNopLogger(), Config{
		Post:     func(cmd contracts.Command) { posted <- cmd },
		Debounce: 10 * time.Millisecond,
	})
	var played []int
	bus.On(b, contracts.SequencerPlayNote, func(n int) { played = append(played, n) })
	return c, b, posted, &played
}

func noteOn(note, velocity byte) contracts.MIDI {
	return contracts.MIDI{Command: byte(contracts.NoteOn), Channel: 0, Note: note, Velocity: velocity}
}

func pedal(controller, value byte) contracts.MIDI {
	return contracts.MIDI{Command: byte(contracts.ControlChange), Channel: 0, Note: controller, Velocity: value}
}

func TestNoteOnRequestsImmediateNote(t *testing.T) {
	c, _, _, played := newTestController(t)

	c.HandleMIDI(noteOn(64, 90))
	c.HandleMIDI(noteOn(65, 0))
	c.HandleMIDI(contracts.MIDI{Command: byte(contracts.NoteOff), Note: 64, Velocity: 40})

	assert.Equal(t, []int{64}, *played)
}

func TestNoteOnAnyChannel(t *testing.T) {
	c, _, _, played := newTestController(t)
	ev := noteOn(60, 100)
	ev.Channel = 9

	c.HandleMIDI(ev)

	assert.Equal(t, []int{60}, *played)
}

func TestPedalStartsTestWhenIdle(t *testing.T) {
	c, _, posted, _ := newTestController(t)

	c.HandleMIDI(pedal(67, 127))
	c.HandleMIDI(pedal(67, 127))
	c.HandleMIDI(pedal(66, 100))

	select {
	case cmd := <-posted:
		assert.Equal(t, contracts.TesterStart, cmd.Name)
	case <-time.After(time.Second):
		t.Fatal("pedal request not posted")
	}
	assert.Never(t, func() bool { return len(posted) > 0 }, 50*time.Millisecond, 5*time.Millisecond)
}

func TestPedalPicksNextDuringTest(t *testing.T) {
	c, b, posted, _ := newTestController(t)
	b.Publish(contracts.TestStarted, contracts.TestResults{TotalNotes: 2})
	b.Publish(contracts.CadenceStarted, 62)
	require.False(t, c.GateOpen())

	c.HandleMIDI(pedal(65, 127))
	assert.Never(t, func() bool { return len(posted) > 0 }, 50*time.Millisecond, 5*time.Millisecond)

	b.Publish(contracts.TestNotePlayed, contracts.NoteEvent{Note: 62, On: true, Tick: 40, Role: contracts.RoleTestNote})
	require.True(t, c.GateOpen())
	c.HandleMIDI(pedal(65, 127))

	require.Eventually(t, func() bool { return len(posted) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, contracts.TesterPickNext, (<-posted).Name)
}

func TestOnePedalPressPerTestNote(t *testing.T) {
	c, b, posted, _ := newTestController(t)
	b.Publish(contracts.TestStarted, contracts.TestResults{TotalNotes: 3})
	b.Publish(contracts.TestNotePlayed, contracts.NoteEvent{Note: 64, On: true, Tick: 40, Role: contracts.RoleTestNote})

	c.HandleMIDI(pedal(65, 127))
	require.Eventually(t, func() bool { return len(posted) == 1 }, time.Second, 5*time.Millisecond)
	<-posted
	assert.False(t, c.GateOpen())

	// Pressed again well after the debounce window.
	c.HandleMIDI(pedal(65, 127))
	assert.Never(t, func() bool { return len(posted) > 0 }, 50*time.Millisecond, 5*time.Millisecond)

	b.Publish(contracts.TestNotePlayed, contracts.NoteEvent{Note: 67, On: true, Tick: 40, Role: contracts.RoleTestNote})
	c.HandleMIDI(pedal(65, 127))
	require.Eventually(t, func() bool { return len(posted) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, contracts.TesterPickNext, (<-posted).Name)
}

func TestRefusedPickCanBeRetriedWhenPlaybackStops(t *testing.T) {
	c, b, posted, _ := newTestController(t)
	b.Publish(contracts.TestStarted, contracts.TestResults{TotalNotes: 2})
	b.Publish(contracts.TestNotePlayed, contracts.NoteEvent{Note: 64, On: true, Tick: 40, Role: contracts.RoleTestNote})

	c.HandleMIDI(pedal(66, 127))
	require.Eventually(t, func() bool { return len(posted) == 1 }, time.Second, 5*time.Millisecond)
	<-posted
	require.False(t, c.GateOpen())

	b.Publish(contracts.RunningStateChanged, false)
	assert.True(t, c.GateOpen())
}

func TestPedalReleaseAndOtherControllersIgnored(t *testing.T) {
	c, _, posted, played := newTestController(t)

	c.HandleMIDI(pedal(65, 0))
	c.HandleMIDI(pedal(64, 127))
	c.HandleMIDI(pedal(70, 127))

	assert.Never(t, func() bool { return len(posted) > 0 }, 50*time.Millisecond, 5*time.Millisecond)
	assert.Empty(t, *played)
}

func TestGateReopensWhenTestFinishes(t *testing.T) {
	c, b, _, _ := newTestController(t)
	b.Publish(contracts.TestStarted, contracts.TestResults{TotalNotes: 1})
	b.Publish(contracts.CadenceStarted, 60)
	require.False(t, c.GateOpen())

	b.Publish(contracts.TestFinished, contracts.TestFinishedPayload{})

	assert.True(t, c.GateOpen())
}
