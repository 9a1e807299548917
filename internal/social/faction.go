package social

import (
	"math"
	"sort"

	"github.com/talgya/polity/internal/ideology"
)

// Faction is an internal bloc of a party.
type Faction struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	IdeologyID   string           `json:"ideology_id"`
	IdeologyName string           `json:"ideology_name"`
	Kind         FactionKind      `json:"kind"`
	Influence    int              `json:"influence"` // 0–100; a party's factions sum to 100
	LeaderID     string           `json:"leader_id"`
	LeaderName   string           `json:"leader_name"`
	LeaderScores ideology.Profile `json:"leader_scores"`
}

// FactionKind is how a faction relates to its party's line.
type FactionKind uint8

const (
	FactionModerate FactionKind = iota // Softer version of the party line
	FactionRelated                     // Built around a neighbouring ideology
	FactionRadical                     // Hard-line version of the party line
)

// String returns the lower-case kind label.
func (k FactionKind) String() string {
	switch k {
	case FactionRelated:
		return "related"
	case FactionRadical:
		return "radical"
	}
	return "moderate"
}

// NearestFaction returns the faction whose leader's ideology is closest to scores, or
// nil when no faction has a finite distance.
func NearestFaction(factions []*Faction, scores ideology.Profile) *Faction {
	var best *Faction
	bestDist := math.Inf(1)
	for _, f := range factions {
		if d := ideology.Distance(scores, f.LeaderScores); d < bestDist {
			best, bestDist = f, d
		}
	}
	return best
}

// TotalInfluence sums the influence of the given factions.
func TotalInfluence(factions []*Faction) int {
	total := 0
	for _, f := range factions {
		total += f.Influence
	}
	return total
}

// ApportionInfluence turns weights into integer shares summing to exactly 100, using
// largest remainders. Non-positive or non-finite weights count as zero; if every weight
// is zero the shares are split evenly.
func ApportionInfluence(weights []float64) []int {
	n := len(weights)
	if n == 0 {
		return nil
	}

	clean := make([]float64, n)
	sum := 0.0
	for i, w := range weights {
		if w > 0 && !math.IsInf(w, 0) && !math.IsNaN(w) {
			clean[i] = w
			sum += w
		}
	}
	if sum == 0 {
		for i := range clean {
			clean[i] = 1
		}
		sum = float64(n)
	}

	shares := make([]int, n)
	type remainder struct {
		idx  int
		frac float64
	}
	rems := make([]remainder, n)
	given := 0
	for i, w := range clean {
		exact := w / sum * 100
		shares[i] = int(math.Floor(exact))
		given += shares[i]
		rems[i] = remainder{i, exact - math.Floor(exact)}
	}

	sort.SliceStable(rems, func(a, b int) bool { return rems[a].frac > rems[b].frac })
	for i := 0; given < 100; i++ {
		shares[rems[i%n].idx]++
		given++
	}
	return shares
}
