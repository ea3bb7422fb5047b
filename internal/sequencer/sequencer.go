// Package sequencer turns musical requests into a tick-ordered stream of
// note-on/note-off events published on the bus.
//
// The sequencer owns a logical clock advanced by OnTimerTick, which the host
// calls once per fixed period. Scheduled events sit in an unordered pending
// set until the clock equals their tick exactly; they are then published and
// removed. When the pending set drains the sequencer resets to idle.
package sequencer

import (
	"github.com/leandrodaf/eartrainer/internal/bus"
	"github.com/leandrodaf/eartrainer/sdk/contracts"
)

// Config holds the read-only parameters of a sequencer.
type Config struct {
	Tonic              int // Root of the cadence.
	TicksBetweenChords int // Chord length and spacing; also the length of an immediate note.
	LowNote            int // Lowest playable pitch, inclusive.
	HighNote           int // Highest playable pitch, inclusive.
}

// Sequencer is the tick scheduler. It is not safe for concurrent use; the
// host serializes every call on one goroutine.
type Sequencer struct {
	bus     *bus.Bus
	logger  contracts.Logger
	cfg     Config
	clock   int
	pending []contracts.NoteEvent
	running bool
	resets  uint64 // bumped by Reset so a drain can tell it was interrupted
	dropped int
}

// New creates a sequencer and subscribes it to the sequencer commands on b.
func New(b *bus.Bus, logger contracts.Logger, cfg Config) *Sequencer {
	s := &Sequencer{bus: b, logger: logger, cfg: cfg}
	bus.OnSignal(b, contracts.SequencerReset, s.Reset)
	bus.On(b, contracts.SequencerPlayNote, s.PlayImmediate)
	bus.On(b, contracts.SequencerPlayCadenceAndNote, s.PlayCadencePlusTest)
	return s
}

// Reset discards every pending event, rewinds the clock and reports the
// sequencer as not running. Pending note-offs are not sent.
func (s *Sequencer) Reset() {
	s.pending = nil
	s.clock = 0
	s.resets++
	s.running = false
	s.bus.Publish(contracts.RunningStateChanged, false)
}

// ScheduleNote adds one event to the pending set. Callers check the pitch range.
func (s *Sequencer) ScheduleNote(note int, on bool, tick int, role contracts.Role) {
	s.pending = append(s.pending, contracts.NoteEvent{Note: note, On: on, Tick: tick, Role: role})
}

// PlayImmediate sounds note at the current tick for one chord interval.
// Out-of-range notes are dropped. Called from a note-played listener while a
// tick drains, the note still sounds in that tick; a note requested in
// reaction to that one sounds a tick later.
func (s *Sequencer) PlayImmediate(note int) {
	if !s.validNote(note) {
		s.drop(note)
		return
	}
	s.ScheduleNote(note, true, s.clock, contracts.RoleImmediate)
	s.ScheduleNote(note, false, s.clock+s.cfg.TicksBetweenChords, contracts.RoleImmediate)
}

// PlayCadencePlusTest schedules the I-IV-V-I cadence followed by note, and
// publishes CadenceStarted before anything sounds.
func (s *Sequencer) PlayCadencePlusTest(note int) {
	interval := s.cfg.TicksBetweenChords
	tick := s.clock + cadenceStartTick
	for _, step := range cadence {
		s.addTerminatedChord(step, tick)
		tick += interval
	}
	s.scheduleChecked(note, true, s.clock+interval*testNoteOnFactor, contracts.RoleTestNote)
	s.scheduleChecked(note, false, s.clock+interval*testNoteOffFactor, contracts.RoleTestNote)

	s.logger.Debug("cadence scheduled",
		s.logger.Field().Int("testNote", note),
		s.logger.Field().Int("pending", len(s.pending)))
	s.bus.Publish(contracts.CadenceStarted, note)
}

// OnTimerTick advances the sequencer by one period: fire everything due at
// the current tick, then advance the clock or, if nothing is left, reset.
func (s *Sequencer) OnTimerTick() {
	if len(s.pending) == 0 {
		return
	}

	generation := s.resets
	s.setRunning(true)
	if s.resets != generation {
		return
	}

	// Listeners may schedule at the current tick while it drains (an answer
	// played in reaction to a note). Those fire in a second pass; anything
	// scheduled during that pass moves to the next tick.
	for pass := 0; pass < drainPasses; pass++ {
		due := s.takeDue()
		if len(due) == 0 {
			break
		}
		for _, ev := range due {
			if !s.fire(ev, generation) {
				return
			}
		}
	}
	s.deferDue()

	if len(s.pending) == 0 {
		s.Reset()
		return
	}
	s.clock++
}

// Clock returns the current tick.
func (s *Sequencer) Clock() int {
	return s.clock
}

// Running reports whether the sequencer is playing.
func (s *Sequencer) Running() bool {
	return s.running
}

// Idle reports whether nothing is pending.
func (s *Sequencer) Idle() bool {
	return len(s.pending) == 0
}

// Pending returns a copy of the pending set.
func (s *Sequencer) Pending() []contracts.NoteEvent {
	out := make([]contracts.NoteEvent, len(s.pending))
	copy(out, s.pending)
	return out
}

// Dropped returns how many notes were discarded as out of range.
func (s *Sequencer) Dropped() int {
	return s.dropped
}

func (s *Sequencer) fire(ev contracts.NoteEvent, generation uint64) bool {
	s.logger.Debug("note fired",
		s.logger.Field().Int("note", ev.Note),
		s.logger.Field().Bool("on", ev.On),
		s.logger.Field().Int("tick", ev.Tick),
		s.logger.Field().String("role", ev.Role.String()))

	s.bus.Publish(contracts.NotePlayed, ev)
	if s.resets != generation {
		return false
	}
	if ev.Role == contracts.RoleTestNote && ev.On {
		s.bus.Publish(contracts.TestNotePlayed, ev)
		if s.resets != generation {
			return false
		}
	}
	return true
}

// deferDue moves events still due at the current tick to the next one.
func (s *Sequencer) deferDue() {
	for i := range s.pending {
		if s.pending[i].Tick == s.clock {
			s.pending[i].Tick++
			s.logger.Debug("note deferred",
				s.logger.Field().Int("note", s.pending[i].Note),
				s.logger.Field().Int("tick", s.pending[i].Tick))
		}
	}
}

// takeDue removes and returns the events whose tick equals the clock, in
// insertion order.
func (s *Sequencer) takeDue() []contracts.NoteEvent {
	var due []contracts.NoteEvent
	kept := s.pending[:0]
	for _, ev := range s.pending {
		if ev.Tick == s.clock {
			due = append(due, ev)
		} else {
			kept = append(kept, ev)
		}
	}
	s.pending = kept
	return due
}

func (s *Sequencer) setRunning(running bool) {
	if s.running == running {
		return
	}
	s.running = running
	s.bus.Publish(contracts.RunningStateChanged, running)
}

func (s *Sequencer) addTerminatedChord(step chordStep, tick int) {
	for _, interval := range step.intervals {
		s.scheduleChecked(s.cfg.Tonic+interval, true, tick, step.role)
	}
	for _, interval := range step.intervals {
		s.scheduleChecked(s.cfg.Tonic+interval, false, tick+s.cfg.TicksBetweenChords, step.role)
	}
}

func (s *Sequencer) scheduleChecked(note int, on bool, tick int, role contracts.Role) {
	if !s.validNote(note) {
		s.drop(note)
		return
	}
	s.ScheduleNote(note, on, tick, role)
}

func (s *Sequencer) validNote(note int) bool {
	return note >= s.cfg.LowNote && note <= s.cfg.HighNote
}

func (s *Sequencer) drop(note int) {
	s.dropped++
	s.logger.Debug("note out of range dropped",
		s.logger.Field().Int("note", note),
		s.logger.Field().Int("low", s.cfg.LowNote),
		s.logger.Field().Int("high", s.cfg.HighNote))
}
