package ideology

import (
	"math"
	"strings"
)

// CentristID is the id of the fallback ideology.
const CentristID = "centrist"

// Ideology is a named ideal point in the space.
type Ideology struct {
	ID         string   `yaml:"id" json:"id"`
	Name       string   `yaml:"name" json:"name"`
	Ideal      Profile  `yaml:"ideal" json:"ideal"`
	Related    []string `yaml:"related,omitempty" json:"related,omitempty"`
	Color      string   `yaml:"color,omitempty" json:"color,omitempty"`
	PartyNames []string `yaml:"party_names,omitempty" json:"party_names,omitempty"`
}

// DefaultCentrist is used whenever a catalog has no centrist entry.
var DefaultCentrist = Ideology{
	ID:         CentristID,
	Name:       "Centrist",
	Ideal:      Profile{},
	Color:      "#9e9e9e",
	PartyNames: []string{"Centre Party", "Moderate Alliance"},
}

// Catalog holds the known ideologies in declaration order.
type Catalog struct {
	list   []Ideology
	byID   map[string]int
	byName map[string]int
}

// NewCatalog indexes the given ideologies. Duplicate ids keep the first entry.
func NewCatalog(ideologies []Ideology) *Catalog {
	c := &Catalog{
		byID:   make(map[string]int, len(ideologies)),
		byName: make(map[string]int, len(ideologies)),
	}
	for _, ideo := range ideologies {
		if ideo.ID == "" {
			continue
		}
		if _, dup := c.byID[ideo.ID]; dup {
			continue
		}
		if ideo.Ideal == nil {
			ideo.Ideal = Profile{}
		}
		c.byID[ideo.ID] = len(c.list)
		c.byName[strings.ToLower(ideo.Name)] = len(c.list)
		c.list = append(c.list, ideo)
	}
	return c
}

// Len returns the number of ideologies.
func (c *Catalog) Len() int {
	return len(c.list)
}

// All returns the ideologies in declaration order.
func (c *Catalog) All() []Ideology {
	out := make([]Ideology, len(c.list))
	copy(out, c.list)
	return out
}

// IDs returns every ideology id in declaration order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.list))
	for i, ideo := range c.list {
		ids[i] = ideo.ID
	}
	return ids
}

// ByID looks up an ideology by id.
func (c *Catalog) ByID(id string) (Ideology, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Ideology{}, false
	}
	return c.list[i], true
}

// ByName looks up an ideology by display name, case-insensitively.
func (c *Catalog) ByName(name string) (Ideology, bool) {
	i, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Ideology{}, false
	}
	return c.list[i], true
}

// Centrist returns the catalog's centrist entry, or the built-in default.
func (c *Catalog) Centrist() Ideology {
	if ideo, ok := c.ByID(CentristID); ok {
		return ideo
	}
	return DefaultCentrist
}

// Resolve finds scores for an ideology reference: by id first, then by name, then the
// centrist default.
func (c *Catalog) Resolve(id, name string) Ideology {
	if ideo, ok := c.ByID(id); ok {
		return ideo
	}
	if ideo, ok := c.ByName(name); ok {
		return ideo
	}
	return c.Centrist()
}

// Classify returns the ideology nearest to p. Profiles whose mean absolute score is
// under CentristThreshold classify as centrist regardless of the nearest point.
func (c *Catalog) Classify(p Profile) Ideology {
	if p == nil || p.MeanAbs() < CentristThreshold || len(c.list) == 0 {
		return c.Centrist()
	}

	best := -1
	bestDist := math.Inf(1)
	for i, ideo := range c.list {
		d := Distance(p, ideo.Ideal)
		if d < bestDist {
			best = i
			bestDist = d
		}
	}
	if best < 0 {
		return c.Centrist()
	}
	return c.list[best]
}
