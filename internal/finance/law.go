// Package finance simulates campaign fundraising at three levels of detail and keeps
// the resulting records on actors and parties.
package finance

import (
	"math"
)

// DonorType classifies donors.
type DonorType string

const (
	DonorIndividual DonorType = "individual"
	DonorCorporate  DonorType = "corporate"
	DonorUnion      DonorType = "union"
	DonorOther      DonorType = "other"
)

// baseShares split fundraising between donor types before law renormalisation.
var baseShares = []struct {
	Type  DonorType
	Share float64
}{
	{DonorIndividual, 0.60},
	{DonorCorporate, 0.25},
	{DonorUnion, 0.15},
}

// TypeRule is what a law says about one donor type.
type TypeRule struct {
	Allowed bool `yaml:"allowed" json:"allowed"`
	// Per-donor cap per recipient; 0 means no cap.
	Limit float64 `yaml:"limit" json:"limit"`
}

// Law is a campaign donation regime.
type Law struct {
	ID    string                 `yaml:"id" json:"id"`
	Name  string                 `yaml:"name" json:"name"`
	Types map[DonorType]TypeRule `yaml:"types" json:"types"`

	AnonymousAllowed   bool    `yaml:"anonymous_allowed" json:"anonymous_allowed"`
	MaxAnonymousAmount float64 `yaml:"max_anonymous_amount" json:"max_anonymous_amount"`
	ForeignAllowed     bool    `yaml:"foreign_allowed" json:"foreign_allowed"`

	// Donations at or over this amount must be disclosed; nil means nothing is.
	TransparencyThreshold *float64 `yaml:"transparency_threshold" json:"transparency_threshold"`
}

// Rule returns the rule for a donor type. Types the law does not mention are allowed
// without a cap.
func (l *Law) Rule(t DonorType) TypeRule {
	if l == nil {
		return TypeRule{Allowed: true}
	}
	rule, ok := l.Types[t]
	if !ok {
		return TypeRule{Allowed: true}
	}
	return rule
}

// Allows reports whether the donor type may give at all.
func (l *Law) Allows(t DonorType) bool {
	return l.Rule(t).Allowed
}

// Limit returns the per-donor cap for a type, +Inf when uncapped.
func (l *Law) Limit(t DonorType) float64 {
	rule := l.Rule(t)
	if rule.Limit <= 0 {
		return math.Inf(1)
	}
	return rule.Limit
}

// RequiresDisclosure reports whether an amount crosses the transparency threshold.
func (l *Law) RequiresDisclosure(amount float64) bool {
	if l == nil || l.TransparencyThreshold == nil {
		return false
	}
	return amount >= *l.TransparencyThreshold
}

// CanDonate reports whether the donor may give amount on top of what they already gave.
func (l *Law) CanDonate(d *Donor, amount float64, anonymous bool) bool {
	if d == nil || amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return false
	}
	if !l.Allows(d.Type) {
		return false
	}
	if d.TotalDonated+amount > l.Limit(d.Type) {
		return false
	}
	if d.Capacity > 0 && d.TotalDonated+amount > d.Capacity {
		return false
	}
	if anonymous {
		if l == nil {
			return true
		}
		if !l.AnonymousAllowed || amount > l.MaxAnonymousAmount {
			return false
		}
	}
	if d.IsForeign && l != nil && !l.ForeignAllowed {
		return false
	}
	return true
}

// shares returns the donor-type split with banned types removed and the rest scaled to
// sum to 1. When every standard type is banned the whole amount is booked as other.
func (l *Law) shares() []typeShare {
	total := 0.0
	out := make([]typeShare, 0, len(baseShares))
	for _, s := range baseShares {
		if l.Allows(s.Type) {
			out = append(out, typeShare{s.Type, s.Share})
			total += s.Share
		}
	}
	if total == 0 {
		return []typeShare{{DonorOther, 1}}
	}
	for i := range out {
		out[i].share /= total
	}
	return out
}

type typeShare struct {
	t     DonorType
	share float64
}

// Float returns a pointer to v, for building thresholds.
func Float(v float64) *float64 {
	return &v
}
