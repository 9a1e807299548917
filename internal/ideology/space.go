// Package ideology defines the political axis space, profile normalisation from
// policy stances, and distance-based classification.
package ideology

import (
	"log/slog"
	"math"
)

// Axis names one dimension of the ideology space.
type Axis string

const (
	AxisEconomic             Axis = "economic"
	AxisSocialTraditionalism Axis = "social_traditionalism"
	AxisSovereignty          Axis = "sovereignty"
	AxisEcology              Axis = "ecology"
	AxisTheocratic           Axis = "theocratic"
	AxisPersonalLiberty      Axis = "personal_liberty"
	AxisAuthority            Axis = "authority"
	AxisStateIntervention    Axis = "state_intervention"
	AxisCollectivism         Axis = "collectivism"
	AxisTechnology           Axis = "technology"
	AxisRuralUrban           Axis = "rural_urban"
	AxisDigitalPrivacy       Axis = "digital_privacy"
)

// AllAxes lists every axis in canonical order.
var AllAxes = []Axis{
	AxisEconomic,
	AxisSocialTraditionalism,
	AxisSovereignty,
	AxisEcology,
	AxisTheocratic,
	AxisPersonalLiberty,
	AxisAuthority,
	AxisStateIntervention,
	AxisCollectivism,
	AxisTechnology,
	AxisRuralUrban,
	AxisDigitalPrivacy,
}

// CentristThreshold is the mean absolute axis score below which a profile counts as
// politically unpolarized.
const CentristThreshold = 0.25

// Profile is a point in the ideology space. Absent axes read as 0.
type Profile map[Axis]float64

// Get returns the score for an axis, 0 when absent.
func (p Profile) Get(a Axis) float64 {
	return p[a]
}

// Clone returns an independent copy. A nil profile clones to nil.
func (p Profile) Clone() Profile {
	if p == nil {
		return nil
	}
	out := make(Profile, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Scale returns a copy with every axis multiplied by f.
func (p Profile) Scale(f float64) Profile {
	out := make(Profile, len(p))
	for k, v := range p {
		out[k] = v * f
	}
	return out
}

// MeanAbs returns the mean absolute score across all axes.
func (p Profile) MeanAbs() float64 {
	sum := 0.0
	for _, a := range AllAxes {
		sum += math.Abs(p.Get(a))
	}
	return sum / float64(len(AllAxes))
}

// Distance returns the squared Euclidean distance between two profiles across all
// axes. Nil profiles and non-finite results report +Inf instead of failing.
func Distance(a, b Profile) float64 {
	if a == nil || b == nil {
		slog.Warn("ideology distance on missing profile", "a_nil", a == nil, "b_nil", b == nil)
		return math.Inf(1)
	}

	d := 0.0
	for _, axis := range AllAxes {
		diff := a.Get(axis) - b.Get(axis)
		d += diff * diff
	}
	if math.IsNaN(d) || math.IsInf(d, 0) {
		slog.Warn("non-finite ideology distance", "distance", d)
		return math.Inf(1)
	}
	return d
}

// Similarity maps distance onto (0, 1]; identical profiles score 1.
func Similarity(a, b Profile) float64 {
	d := Distance(a, b)
	if math.IsInf(d, 1) {
		return 0
	}
	return 1 / (1 + d)
}
