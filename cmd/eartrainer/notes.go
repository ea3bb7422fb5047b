package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var errBadNote = errors.New("not a note")

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var pitchClasses = map[byte]int{'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11}

// pitchName renders a MIDI pitch in scientific notation, 60 = C4.
func pitchName(pitch int) string {
	if pitch < 0 {
		return strconv.Itoa(pitch)
	}
	return fmt.Sprintf("%s%d", noteNames[pitch%12], pitch/12-1)
}

// parseNote accepts a MIDI number ("64"), a pitch with octave ("E4", "Bb3")
// or a bare name ("E", "f#"). Bare names resolve to the octave starting at
// tonic, so they name a degree of the key.
func parseNote(s string, tonic int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errBadNote
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}

	pc, ok := pitchClasses[strings.ToUpper(s[:1])[0]]
	if !ok {
		return 0, fmt.Errorf("%w: %q", errBadNote, s)
	}
	rest := s[1:]
	switch {
	case strings.HasPrefix(rest, "#"):
		pc++
		rest = rest[1:]
	case strings.HasPrefix(rest, "b"):
		pc--
		rest = rest[1:]
	}

	if rest == "" {
		return tonic + ((pc-tonic)%12+12)%12, nil
	}
	octave, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errBadNote, s)
	}
	return (octave+1)*12 + pc, nil
}
