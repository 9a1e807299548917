package entropy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeededSourceIsReproducible(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 20; i++ {
		require.Equal(t, a.Float64(), b.Float64())
		require.Equal(t, a.IntRange(3, 9), b.IntRange(3, 9))
	}
}

func TestIntRangeInclusive(t *testing.T) {
	src := New(7)
	seen := map[int]bool{}
	for i := 0; i < 500; i++ {
		n := src.IntRange(1, 3)
		require.GreaterOrEqual(t, n, 1)
		require.LessOrEqual(t, n, 3)
		seen[n] = true
	}
	assert.Len(t, seen, 3)
	assert.Equal(t, 5, src.IntRange(5, 5))
	assert.Equal(t, 5, src.IntRange(5, 2))
}

func TestFixedIntRange(t *testing.T) {
	assert.Equal(t, 1, Fixed(0).IntRange(1, 6))
	assert.Equal(t, 6, Fixed(0.9999).IntRange(1, 6))
	assert.Equal(t, 4, Fixed(0.5).IntRange(1, 6))
}

func TestSequenceWraps(t *testing.T) {
	s := NewSequence(0.1, 0.2)
	assert.Equal(t, 0.1, s.Float64())
	assert.Equal(t, 0.2, s.Float64())
	assert.Equal(t, 0.1, s.Float64())
	assert.Equal(t, 0.0, NewSequence().Float64())
}

func TestWeighted(t *testing.T) {
	assert.Equal(t, -1, Weighted(Fixed(0.5), []float64{0, -1}))
	assert.Equal(t, 1, Weighted(Fixed(0), []float64{0, 2, 3}))
	assert.Equal(t, 2, Weighted(Fixed(0.99), []float64{1, 0, 1}))
	assert.Equal(t, 0, Weighted(Fixed(0.49), []float64{1, 0, 1}))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 10, Clamp(12, 0, 10))
	assert.Equal(t, 0.0, Clamp(-0.5, 0.0, 1.0))
	assert.Equal(t, 0.25, Clamp(0.25, 0.0, 1.0))
}

func TestShuffleKeepsElements(t *testing.T) {
	items := []string{"a", "b", "c", "d"}
	Shuffle(New(3), items)
	assert.ElementsMatch(t, []string{"a", "b", "c", "d"}, items)
}
