package finance

import (
	"hash/fnv"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/polity/internal/entropy"
)

// trend gives each actor a slowly drifting fundraising momentum. It is a pure function of
// actor and day so it never consumes draws from the random source.
type trend struct {
	noise opensimplex.Noise
}

func newTrend(seed int64) trend {
	return trend{noise: opensimplex.NewNormalized(seed + 500)}
}

// at returns a multiplier in [0.75, 1.25].
func (t trend) at(actorID string, day int) float64 {
	h := fnv.New32a()
	h.Write([]byte(actorID))
	lane := float64(h.Sum32()%10000) * 0.37

	v := octaveNoise(t.noise, lane, float64(day), 3, 0.03, 0.5)
	return 0.75 + entropy.Clamp(v, 0, 1)*0.5
}

// octaveNoise layers several frequencies of normalized noise; the result stays in [0, 1].
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
