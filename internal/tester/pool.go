package tester

import "math/rand/v2"

// Degree range of the chromatic scale relative to the tonic: 0 = do, 1 = di,
// 2 = re, ... 11 = ti.
const (
	DegreeMin = 0
	DegreeMax = 11
)

// Pool is the multiset of degrees still to be tested in a run. Order carries
// no meaning.
type Pool struct {
	degrees []int
}

// NewPool builds a pool from degrees, silently leaving out anything outside
// DegreeMin..DegreeMax. The input slice is not retained.
func NewPool(degrees []int) Pool {
	filtered := make([]int, 0, len(degrees))
	for _, d := range degrees {
		if d >= DegreeMin && d <= DegreeMax {
			filtered = append(filtered, d)
		}
	}
	return Pool{degrees: filtered}
}

// Len returns the number of degrees left.
func (p *Pool) Len() int {
	return len(p.degrees)
}

// Pick removes one degree chosen uniformly at random and returns it. The
// picked slot is filled with the last element and the slice shrinks by one.
func (p *Pool) Pick(r *rand.Rand) (int, bool) {
	n := len(p.degrees)
	if n == 0 {
		return 0, false
	}
	i := r.IntN(n)
	d := p.degrees[i]
	p.degrees[i] = p.degrees[n-1]
	p.degrees = p.degrees[:n-1]
	return d, true
}

// Degrees returns a copy of the remaining degrees.
func (p *Pool) Degrees() []int {
	out := make([]int, len(p.degrees))
	copy(out, p.degrees)
	return out
}

// DegreesFromFrequencies expands a per-degree frequency table into a degree
// list: degree i appears freq[i] times. Entries past DegreeMax are ignored.
func DegreesFromFrequencies(freq []int) []int {
	var degrees []int
	for d, n := range freq {
		if d > DegreeMax {
			break
		}
		for i := 0; i < n; i++ {
			degrees = append(degrees, d)
		}
	}
	return degrees
}
