// Package generator fabricates politicians, parties, factions, and committees whose
// stances and affiliations are consistent with the ideology space.
package generator

import (
	"github.com/google/uuid"

	"github.com/talgya/polity/internal/actors"
	"github.com/talgya/polity/internal/entropy"
	"github.com/talgya/polity/internal/ideology"
	"github.com/talgya/polity/internal/social"
)

// IndependenceThreshold is the squared distance beyond which an actor joins no party.
const IndependenceThreshold = 25.0

// Cumulative probabilities for taking the best and second-best option on a question;
// the third-best takes the rest.
const (
	bestOptionP   = 0.90
	secondOptionP = 0.98
)

// NameProvider supplies personal names.
type NameProvider interface {
	Name(sex actors.Sex, countryID string) string
}

// Pollster computes an actor's starting poll number (0–100).
type Pollster interface {
	Poll(p *actors.Politician) float64
}

// Cosmetics are the biography pools used for flavor fields.
type Cosmetics struct {
	Educations  []string `yaml:"educations" json:"educations"`
	Careers     []string `yaml:"careers" json:"careers"`
	Hometowns   []string `yaml:"hometowns" json:"hometowns"`
	StaffRoles  []string `yaml:"staff_roles" json:"staff_roles"`
	CommsRoles  []string `yaml:"comms_roles" json:"comms_roles"`
	Merchandise []string `yaml:"merchandise" json:"merchandise"`
}

// Deps are everything a Generator draws on. Nil fields fall back to built-in defaults.
type Deps struct {
	Rand       entropy.Source
	Ideologies *ideology.Catalog
	Questions  []ideology.Question
	Names      NameProvider
	Pollster   Pollster
	Committees []social.CommitteeTemplate
	Cosmetics  Cosmetics
	NewID      func() string
}

// Generator builds actors and parties. It is not safe for concurrent use; the Source it
// draws from usually is not either.
type Generator struct {
	rng        entropy.Source
	ideologies *ideology.Catalog
	questions  []ideology.Question
	names      NameProvider
	pollster   Pollster
	committees []social.CommitteeTemplate
	cosmetics  Cosmetics
	newID      func() string
}

// New creates a generator.
func New(d Deps) *Generator {
	g := &Generator{
		rng:        d.Rand,
		ideologies: d.Ideologies,
		questions:  d.Questions,
		names:      d.Names,
		pollster:   d.Pollster,
		committees: d.Committees,
		cosmetics:  d.Cosmetics,
		newID:      d.NewID,
	}
	if g.rng == nil {
		g.rng = entropy.New(0)
	}
	if g.ideologies == nil {
		g.ideologies = ideology.NewCatalog(nil)
	}
	if g.names == nil {
		g.names = fallbackNames{rng: g.rng}
	}
	if g.pollster == nil {
		g.pollster = RecognitionPollster{}
	}
	if len(g.committees) == 0 {
		g.committees = defaultCommittees
	}
	g.cosmetics = g.cosmetics.withDefaults()
	if g.newID == nil {
		g.newID = uuid.NewString
	}
	return g
}

// Ideologies returns the catalog the generator classifies against.
func (g *Generator) Ideologies() *ideology.Catalog {
	return g.ideologies
}

// Questions returns the policy questions actors take stances on.
func (g *Generator) Questions() []ideology.Question {
	return g.questions
}

func (c Cosmetics) withDefaults() Cosmetics {
	if len(c.Educations) == 0 {
		c.Educations = defaultEducations
	}
	if len(c.Careers) == 0 {
		c.Careers = defaultCareers
	}
	if len(c.Hometowns) == 0 {
		c.Hometowns = defaultHometowns
	}
	if len(c.StaffRoles) == 0 {
		c.StaffRoles = defaultStaffRoles
	}
	if len(c.CommsRoles) == 0 {
		c.CommsRoles = defaultCommsRoles
	}
	if len(c.Merchandise) == 0 {
		c.Merchandise = defaultMerchandise
	}
	return c
}
