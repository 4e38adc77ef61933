package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type stepGenerator struct{ calls int }

func (s *stepGenerator) Intn(n int) int {
	s.calls++
	return n - 1
}

func TestShuffle(t *testing.T) {
	a := assert.New(t)

	vals := []int{1, 2, 3, 4, 5}
	g := &stepGenerator{}
	Shuffle(g, len(vals), func(i, j int) {
		vals[i], vals[j] = vals[j], vals[i]
	})

	// identity swaps with this generator
	a.Equal([]int{1, 2, 3, 4, 5}, vals)
	a.Equal(4, g.calls)
}
