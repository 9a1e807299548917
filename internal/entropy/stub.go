package entropy

// Fixed always returns the same draw. Fixed(0) makes every weighted choice take its
// first (best) candidate.
type Fixed float64

// Float64 returns the fixed value.
func (f Fixed) Float64() float64 { return float64(f) }

// IntRange maps the fixed value onto [min, max].
func (f Fixed) IntRange(min, max int) int {
	if max <= min {
		return min
	}
	n := min + int(float64(f)*float64(max-min+1))
	if n > max {
		return max
	}
	return n
}

// Sequence replays recorded draws in order and wraps around when exhausted.
type Sequence struct {
	Values []float64
	pos    int
}

// NewSequence creates a replaying source.
func NewSequence(values ...float64) *Sequence {
	return &Sequence{Values: values}
}

// Float64 returns the next recorded value (0 if none were recorded).
func (s *Sequence) Float64() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	v := s.Values[s.pos%len(s.Values)]
	s.pos++
	return v
}

// IntRange maps the next recorded value onto [min, max].
func (s *Sequence) IntRange(min, max int) int {
	return Fixed(s.Float64()).IntRange(min, max)
}
