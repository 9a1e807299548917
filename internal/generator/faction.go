package generator

import (
	"github.com/talgya/polity/internal/actors"
	"github.com/talgya/polity/internal/entropy"
	"github.com/talgya/polity/internal/ideology"
	"github.com/talgya/polity/internal/social"
)

// Faction ideal points relative to the party line.
const (
	moderateScale = 0.5
	radicalScale  = 1.5
)

type factionSeed struct {
	kind   social.FactionKind
	name   string
	ideo   ideology.Ideology
	ideal  ideology.Profile
	weight float64
}

// GenerateFactions builds 2–4 factions for a party: one moderate wing, then wings built on
// related ideologies or a radical version of the party line. Each faction gets a generated
// leader drawn towards its ideal point. Members are sorted into the faction with the
// nearest leader and influence is apportioned to sum to 100. The leaders are returned so
// they can be stored alongside the members.
func (g *Generator) GenerateFactions(party *social.Party, members []*actors.Politician) ([]*social.Faction, []*actors.Politician) {
	if party.IdeologyScores == nil {
		party.EnsureIdeology(g.ideologies)
	}
	seeds := g.factionSeeds(party, g.rng.IntRange(2, 4))

	factions := make([]*social.Faction, 0, len(seeds))
	leaders := make([]*actors.Politician, 0, len(seeds))
	for _, seed := range seeds {
		leader := g.GenerateActor(party.CountryID, []*social.Party{party}, ActorOptions{
			ForcePartyID: party.ID,
			Target:       seed.ideal,
		})
		f := &social.Faction{
			ID:           g.newID(),
			Name:         seed.name,
			IdeologyID:   seed.ideo.ID,
			IdeologyName: seed.ideo.Name,
			Kind:         seed.kind,
			LeaderID:     leader.ID,
			LeaderName:   leader.Name,
			LeaderScores: leader.Ideology.Scores.Clone(),
		}
		leader.FactionID = f.ID
		factions = append(factions, f)
		leaders = append(leaders, leader)
	}

	counts := make(map[string]int, len(factions))
	for _, m := range members {
		if f := social.NearestFaction(factions, m.Ideology.Scores); f != nil {
			m.FactionID = f.ID
			counts[f.ID]++
		}
	}

	weights := make([]float64, len(factions))
	for i, f := range factions {
		weights[i] = seeds[i].weight + 3*float64(counts[f.ID])
	}
	for i, share := range social.ApportionInfluence(weights) {
		factions[i].Influence = share
	}
	return factions, leaders
}

func (g *Generator) factionSeeds(party *social.Party, n int) []factionSeed {
	own := g.ideologies.Resolve(party.IdeologyID, party.IdeologyName)
	seeds := []factionSeed{{
		kind:   social.FactionModerate,
		name:   "Moderate " + own.Name + "s",
		ideo:   own,
		ideal:  party.IdeologyScores.Scale(moderateScale),
		weight: entropy.Between(g.rng, 30, 50),
	}}

	var related []ideology.Ideology
	for _, id := range own.Related {
		if ideo, ok := g.ideologies.ByID(id); ok && ideo.ID != own.ID {
			related = append(related, ideo)
		}
	}
	entropy.Shuffle(g.rng, related)

	radical := false
	for len(seeds) < n {
		switch {
		case len(related) > 0 && (radical || entropy.Chance(g.rng, 0.6)):
			ideo := related[0]
			related = related[1:]
			seeds = append(seeds, factionSeed{
				kind:   social.FactionRelated,
				name:   ideo.Name + " Caucus",
				ideo:   ideo,
				ideal:  ideo.Ideal.Clone(),
				weight: entropy.Between(g.rng, 15, 35),
			})
		case !radical:
			radical = true
			seeds = append(seeds, factionSeed{
				kind:   social.FactionRadical,
				name:   own.Name + " Hardliners",
				ideo:   own,
				ideal:  party.IdeologyScores.Scale(radicalScale),
				weight: entropy.Between(g.rng, 10, 25),
			})
		default:
			return seeds
		}
	}
	return seeds
}
