// Package social provides parties and the blocs inside them: factions, committees,
// staff, and party finances.
package social

import (
	"github.com/talgya/polity/internal/ideology"
)

// Party is a political party.
type Party struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	Logo      string `json:"logo"`
	CountryID string `json:"country_id"`

	// Ideology
	IdeologyID     string           `json:"ideology_id"`
	IdeologyName   string           `json:"ideology_name"`
	IdeologyScores ideology.Profile `json:"ideology_scores"`
	Stances        ideology.Stances `json:"policy_stances"`

	// Leadership
	ChairID   string        `json:"chair_id"`
	ChairName string        `json:"chair_name"`
	Comms     []StaffMember `json:"comms_staff"`
	MemberIDs []string      `json:"member_ids"`

	Factions   []*Faction   `json:"factions"`
	Committees []*Committee `json:"committees"`
	Finances   Finances     `json:"finances"`

	// Scales every member's background fundraising.
	FundraisingMultiplier float64 `json:"fundraising_multiplier"`
	IsMinority            bool    `json:"is_minority"`
}

// EnsureIdeology fills the ideology fields from the catalog: the explicit id wins, then the
// name, then the centrist default. Scores are always populated afterwards.
func (p *Party) EnsureIdeology(cat *ideology.Catalog) {
	ideo := cat.Resolve(p.IdeologyID, p.IdeologyName)
	if p.IdeologyID != ideo.ID {
		p.IdeologyID = ideo.ID
		p.IdeologyName = ideo.Name
		p.IdeologyScores = nil
	}
	if p.IdeologyName == "" {
		p.IdeologyName = ideo.Name
	}
	if p.IdeologyScores == nil {
		p.IdeologyScores = ideo.Ideal.Clone()
		if p.IdeologyScores == nil {
			p.IdeologyScores = ideology.Profile{}
		}
	}
}

// Similarity is the ideological closeness of two parties in (0, 1].
func (p *Party) Similarity(other *Party) float64 {
	return ideology.Similarity(p.IdeologyScores, other.IdeologyScores)
}

// Faction returns the faction with the given id.
func (p *Party) Faction(id string) (*Faction, bool) {
	for _, f := range p.Factions {
		if f.ID == id {
			return f, true
		}
	}
	return nil, false
}

// Committee returns the committee with the given id.
func (p *Party) Committee(id string) (*Committee, bool) {
	for _, c := range p.Committees {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// HasMember reports whether the actor is listed as a member.
func (p *Party) HasMember(actorID string) bool {
	for _, id := range p.MemberIDs {
		if id == actorID {
			return true
		}
	}
	return false
}

// AddMember records the actor as a member. Adding twice is a no-op.
func (p *Party) AddMember(actorID string) {
	if !p.HasMember(actorID) {
		p.MemberIDs = append(p.MemberIDs, actorID)
	}
}

// Clone returns a deep copy.
func (p *Party) Clone() *Party {
	if p == nil {
		return nil
	}
	c := *p
	c.IdeologyScores = p.IdeologyScores.Clone()
	c.Stances = p.Stances.Clone()
	c.Comms = append([]StaffMember(nil), p.Comms...)
	c.MemberIDs = append([]string(nil), p.MemberIDs...)

	c.Factions = nil
	for _, f := range p.Factions {
		fc := *f
		fc.LeaderScores = f.LeaderScores.Clone()
		c.Factions = append(c.Factions, &fc)
	}
	c.Committees = nil
	for _, cm := range p.Committees {
		cc := *cm
		cc.Members = append([]CommitteeMember(nil), cm.Members...)
		c.Committees = append(c.Committees, &cc)
	}

	c.Finances = p.Finances.clone()
	return &c
}

// ByID indexes parties by id.
func ByID(parties []*Party) map[string]*Party {
	out := make(map[string]*Party, len(parties))
	for _, p := range parties {
		out[p.ID] = p
	}
	return out
}

// StaffMember is a party employee.
type StaffMember struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Role   string  `json:"role"`
	Skill  int     `json:"skill"`
	Salary float64 `json:"salary"`
}
