package generator

import (
	"math"

	"github.com/talgya/polity/internal/actors"
	"github.com/talgya/polity/internal/entropy"
	"github.com/talgya/polity/internal/social"
)

// GenerateCommittees samples 4–6 committees from the template catalog. Chairs are drawn
// from members not already chairing; when members run out a functionary is generated.
func (g *Generator) GenerateCommittees(party *social.Party, members []*actors.Politician) []*social.Committee {
	templates := append([]social.CommitteeTemplate(nil), g.committees...)
	entropy.Shuffle(g.rng, templates)

	n := min(g.rng.IntRange(4, 6), len(templates))
	chairs := append([]*actors.Politician(nil), members...)
	entropy.Shuffle(g.rng, chairs)

	out := make([]*social.Committee, 0, n)
	for i := 0; i < n; i++ {
		t := templates[i]

		var chair social.CommitteeMember
		if i < len(chairs) {
			chair = g.memberSeat(chairs[i], "Chair")
		} else {
			chair = g.functionary(party.CountryID, "Chair")
		}
		chair.Influence = g.rng.IntRange(50, 90)

		size := g.rng.IntRange(3, 7)
		seats := make([]social.CommitteeMember, size)
		for j := range seats {
			role := "Member"
			if len(t.Roles) > 0 {
				role = t.Roles[j%len(t.Roles)]
			}
			seats[j] = g.functionary(party.CountryID, role)
		}

		budget := t.BaseBudget
		if budget <= 0 {
			budget = 50000
		}
		importance := t.Importance
		if importance <= 0 {
			importance = g.rng.IntRange(3, 8)
		}

		out = append(out, &social.Committee{
			ID:         g.newID(),
			Name:       t.Name,
			FocusArea:  t.FocusArea,
			Chair:      chair,
			Members:    seats,
			Budget:     math.Round(budget * entropy.Between(g.rng, 0.8, 1.2)),
			Importance: importance,
		})
	}
	return out
}

func (g *Generator) memberSeat(p *actors.Politician, role string) social.CommitteeMember {
	return social.CommitteeMember{
		ID:        g.newID(),
		ActorID:   p.ID,
		Name:      p.Name,
		Role:      role,
		Expertise: entropy.Clamp((p.Attributes.Intelligence+p.Attributes.Management)/2, 0, 100),
		Loyalty:   g.rng.IntRange(40, 95),
	}
}

func (g *Generator) functionary(countryID, role string) social.CommitteeMember {
	sex := actors.SexMale
	if entropy.Chance(g.rng, 0.5) {
		sex = actors.SexFemale
	}
	return social.CommitteeMember{
		ID:        g.newID(),
		Name:      g.names.Name(sex, countryID),
		Role:      role,
		Influence: g.rng.IntRange(10, 60),
		Expertise: g.rng.IntRange(20, 90),
		Loyalty:   g.rng.IntRange(30, 95),
	}
}
