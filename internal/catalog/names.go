package catalog

import (
	"strings"

	"github.com/talgya/polity/internal/actors"
	"github.com/talgya/polity/internal/entropy"
)

// NameSet is one locale's first and last names.
type NameSet struct {
	Male   []string `yaml:"male" json:"male"`
	Female []string `yaml:"female" json:"female"`
	Last   []string `yaml:"last" json:"last"`
}

func (n NameSet) complete() bool {
	return len(n.Male) > 0 && len(n.Female) > 0 && len(n.Last) > 0
}

// Names holds a default name set plus per-country overrides.
type Names struct {
	Default   NameSet            `yaml:"default" json:"default"`
	Countries map[string]NameSet `yaml:"countries" json:"countries"`
}

// NamePool draws personal names for a country, falling back to the default set.
type NamePool struct {
	rng   entropy.Source
	names Names
}

// NewNamePool creates a pool drawing from rng.
func NewNamePool(rng entropy.Source, names Names) *NamePool {
	return &NamePool{rng: rng, names: names}
}

// Name returns "First Last". Empty pools yield "Unnamed".
func (p *NamePool) Name(sex actors.Sex, countryID string) string {
	set := p.set(countryID)
	if !set.complete() {
		return "Unnamed"
	}
	firsts := set.Male
	if sex == actors.SexFemale {
		firsts = set.Female
	}
	return entropy.Pick(p.rng, firsts) + " " + entropy.Pick(p.rng, set.Last)
}

func (p *NamePool) set(countryID string) NameSet {
	if set, ok := p.names.Countries[strings.ToLower(countryID)]; ok && set.complete() {
		return set
	}
	return p.names.Default
}
