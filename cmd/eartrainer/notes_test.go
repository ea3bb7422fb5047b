package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPitchName(t *testing.T) {
	assert.Equal(t, "C4", pitchName(60))
	assert.Equal(t, "A#3", pitchName(58))
	assert.Equal(t, "C-1", pitchName(0))
	assert.Equal(t, "G9", pitchName(127))
}

func TestParseNote(t *testing.T) {
	cases := []struct {
		in    string
		tonic int
		want  int
	}{
		{"64", 60, 64},
		{"C4", 60, 60},
		{"Bb3", 60, 58},
		{"f#4", 60, 66},
		{"E", 60, 64},
		{"c", 60, 60},
		{"B", 60, 71},
		{"C", 62, 72},
		{"D", 62, 62},
		{"Cb", 60, 71},
		{" G ", 60, 67},
	}
	for _, c := range cases {
		got, err := parseNote(c.in, c.tonic)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}

	for _, bad := range []string{"", "H", "next", "C#x"} {
		_, err := parseNote(bad, 60)
		assert.ErrorIs(t, err, errBadNote, bad)
	}
}
