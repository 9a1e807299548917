package generator

import (
	"log/slog"

	"github.com/talgya/polity/internal/actors"
	"github.com/talgya/polity/internal/social"
)

// Office titles handed out by the generator.
const (
	OfficePartyChair = "Party Chair"
	OfficeLegislator = "Legislator"
)

// GenerateLegislature fills seats with incumbent legislators. Parties are seeded from the
// given list by ideology fit; actors that fit no party sit as independents.
func (g *Generator) GenerateLegislature(countryID string, parties []*social.Party, seats int) []*actors.Politician {
	out := make([]*actors.Politician, 0, seats)
	byParty := map[string]int{}
	for i := 0; i < seats; i++ {
		p := g.GenerateActor(countryID, parties, ActorOptions{
			Office:      OfficeLegislator,
			IsIncumbent: true,
			InCampaign:  true,
		})
		byParty[p.PartyID]++
		out = append(out, p)
	}

	slog.Info("legislature generated", "country", countryID, "seats", seats,
		"parties", len(byParty), "independents", byParty[actors.IndependentID])
	return out
}

// SeatCounts tallies legislators by party id.
func SeatCounts(legislators []*actors.Politician) map[string]int {
	counts := map[string]int{}
	for _, p := range legislators {
		if p.CurrentOffice == OfficeLegislator {
			counts[p.PartyID]++
		}
	}
	return counts
}
