package tester

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPoolFiltersOutOfRange(t *testing.T) {
	in := []int{-1, 0, 5, 11, 12, 7}
	p := NewPool(in)

	assert.Equal(t, []int{0, 5, 11, 7}, p.Degrees())
	assert.Equal(t, 4, p.Len())

	in[1] = 3
	assert.Equal(t, []int{0, 5, 11, 7}, p.Degrees(), "pool must not alias the input")
}

func TestPoolPickDrainsEveryDegreeOnce(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	p := NewPool([]int{0, 0, 5, 7})

	var picked []int
	for {
		d, ok := p.Pick(r)
		if !ok {
			break
		}
		picked = append(picked, d)
	}

	assert.ElementsMatch(t, []int{0, 0, 5, 7}, picked)
	assert.Zero(t, p.Len())
}

func TestPoolPickEmpty(t *testing.T) {
	p := NewPool(nil)
	_, ok := p.Pick(rand.New(rand.NewPCG(1, 2)))
	assert.False(t, ok)
}

func TestPoolPickIsUniform(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	counts := map[int]int{}
	const rounds = 6000
	for i := 0; i < rounds; i++ {
		p := NewPool([]int{1, 2, 3})
		d, ok := p.Pick(r)
		require.True(t, ok)
		counts[d]++
	}
	for _, d := range []int{1, 2, 3} {
		assert.InDelta(t, rounds/3, counts[d], rounds/10, "degree %d", d)
	}
}

func TestDegreesFromFrequencies(t *testing.T) {
	assert.Equal(t, []int{0, 0, 5, 7, 7, 7}, DegreesFromFrequencies([]int{2, 0, 0, 0, 0, 1, 0, 3}))
	assert.Empty(t, DegreesFromFrequencies(make([]int, 12)))
	assert.Equal(t, []int{11}, DegreesFromFrequencies([]int{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 4}))
}
