package generator

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/talgya/polity/internal/actors"
	"github.com/talgya/polity/internal/entropy"
	"github.com/talgya/polity/internal/ideology"
	"github.com/talgya/polity/internal/social"
)

// PartyOptions tune GenerateParties.
type PartyOptions struct {
	// Ideology ids (or names) of the parties that dominate the system.
	Dominant []string
	// Minority parties on top of the dominant ones; 0 draws 1–3.
	Minority int
	// Members generated per dominant party; minority parties get half. 0 means 8.
	MembersPerParty int
}

// Founding is the output of party generation: the parties and every actor created for
// them.
type Founding struct {
	Parties []*social.Party
	Members []*actors.Politician
}

// GenerateParties builds the party system of one country. When the ideology pool runs out
// before the target count, it returns the parties built so far.
func (g *Generator) GenerateParties(countryID string, opts PartyOptions) Founding {
	pool, dominant := g.ideologyPool(opts.Dominant)

	minority := opts.Minority
	if minority <= 0 {
		minority = g.rng.IntRange(1, 3)
	}
	target := dominant + minority

	perParty := opts.MembersPerParty
	if perParty <= 0 {
		perParty = 8
	}

	var out Founding
	usedNames := map[string]bool{}
	for i := 0; i < target; i++ {
		if i >= len(pool) {
			slog.Info("ideology pool exhausted, stopping party generation",
				"country", countryID, "built", len(out.Parties), "wanted", target)
			break
		}
		ideo := pool[i]
		isMinority := i >= dominant

		party := &social.Party{
			ID:           g.newID(),
			Name:         g.partyName(ideo, countryID, usedNames),
			Color:        ideo.Color,
			CountryID:    countryID,
			IdeologyID:   ideo.ID,
			IdeologyName: ideo.Name,
			IsMinority:   isMinority,
		}
		if party.Color == "" {
			party.Color = defaultPartyColors[i%len(defaultPartyColors)]
		}
		party.Logo = initials(party.Name)
		party.EnsureIdeology(g.ideologies)
		if isMinority {
			party.FundraisingMultiplier = entropy.Between(g.rng, 0.5, 0.9)
		} else {
			party.FundraisingMultiplier = entropy.Between(g.rng, 1.0, 1.4)
		}

		count := perParty
		if isMinority {
			count = max(3, perParty/2)
		}
		members := make([]*actors.Politician, 0, count+4)
		for j := 0; j < count; j++ {
			members = append(members, g.GenerateActor(countryID, []*social.Party{party}, ActorOptions{ForcePartyID: party.ID}))
		}

		factions, leaders := g.GenerateFactions(party, members)
		party.Factions = factions
		members = append(members, leaders...)

		party.Committees = g.GenerateCommittees(party, members)
		party.Stances = g.AggregateStances(members, party.IdeologyScores)
		g.appointLeadership(party, members)
		party.Finances = g.partyFinances(len(members), isMinority, party.Comms)

		out.Parties = append(out.Parties, party)
		out.Members = append(out.Members, members...)

		slog.Debug("party generated", "party", party.Name, "ideology", party.IdeologyName,
			"members", len(members), "factions", len(factions))
	}
	return out
}

// ideologyPool lists dominant ideologies first, then every other known ideology in random
// order, and returns how many dominant entries it kept. Unknown dominant entries resolve
// to the centrist default; duplicates collapse.
func (g *Generator) ideologyPool(dominant []string) ([]ideology.Ideology, int) {
	var pool []ideology.Ideology
	seen := map[string]bool{}
	for _, ref := range dominant {
		ideo := g.ideologies.Resolve(ref, ref)
		if ideo.ID != ref && !strings.EqualFold(ideo.Name, strings.TrimSpace(ref)) {
			slog.Warn("unknown dominant ideology, using centrist", "ideology", ref)
		}
		if seen[ideo.ID] {
			continue
		}
		seen[ideo.ID] = true
		pool = append(pool, ideo)
	}

	rest := make([]ideology.Ideology, 0, g.ideologies.Len())
	for _, ideo := range g.ideologies.All() {
		if !seen[ideo.ID] {
			rest = append(rest, ideo)
		}
	}
	kept := len(pool)
	entropy.Shuffle(g.rng, rest)
	return append(pool, rest...), kept
}

func (g *Generator) partyName(ideo ideology.Ideology, countryID string, used map[string]bool) string {
	candidates := append([]string(nil), ideo.PartyNames...)
	entropy.Shuffle(g.rng, candidates)
	candidates = append(candidates, ideo.Name+" Party")
	for _, name := range candidates {
		if !used[name] {
			used[name] = true
			return name
		}
	}
	for n := 2; ; n++ {
		name := fmt.Sprintf("%s Party of %s (%d)", ideo.Name, strings.ToUpper(countryID), n)
		if !used[name] {
			used[name] = true
			return name
		}
	}
}

func initials(name string) string {
	var b strings.Builder
	for _, w := range strings.Fields(name) {
		r := []rune(w)
		if len(r) > 0 && r[0] >= 'A' && r[0] <= 'Z' {
			b.WriteRune(r[0])
		}
	}
	if b.Len() == 0 {
		return "?"
	}
	return b.String()
}

// AggregateStances derives a party's position from its members: the most common answer on
// each question, ties and unanswered questions going to the option nearest partyPoint.
func (g *Generator) AggregateStances(members []*actors.Politician, partyPoint ideology.Profile) ideology.Stances {
	out := make(ideology.Stances, len(g.questions))
	for _, q := range g.questions {
		ranked := rankOptions(q.Options, partyPoint)
		if len(ranked) == 0 {
			continue
		}

		counts := map[string]int{}
		for _, m := range members {
			if opt, ok := m.Stances[q.ID]; ok {
				counts[opt]++
			}
		}

		best, bestCount := ranked[0].ID, -1
		for _, o := range ranked {
			if c := counts[o.ID]; c > bestCount {
				best, bestCount = o.ID, c
			}
		}
		out[q.ID] = best
	}
	return out
}

// appointLeadership makes the strongest member chair and hires the comms staff.
func (g *Generator) appointLeadership(party *social.Party, members []*actors.Politician) {
	var chair *actors.Politician
	bestScore := math.MinInt
	for _, m := range members {
		score := m.Attributes.Charisma + m.Attributes.Negotiation + m.Attributes.NameRecognition
		if score > bestScore {
			chair, bestScore = m, score
		}
	}
	if chair != nil {
		party.ChairID = chair.ID
		party.ChairName = chair.Name
		if chair.CurrentOffice == "" {
			chair.CurrentOffice = OfficePartyChair
		}
	}

	n := g.rng.IntRange(2, 4)
	party.Comms = make([]social.StaffMember, n)
	for i := range party.Comms {
		sex := actors.SexMale
		if entropy.Chance(g.rng, 0.5) {
			sex = actors.SexFemale
		}
		party.Comms[i] = social.StaffMember{
			ID:     g.newID(),
			Name:   g.names.Name(sex, party.CountryID),
			Role:   g.cosmetics.CommsRoles[i%len(g.cosmetics.CommsRoles)],
			Skill:  g.rng.IntRange(35, 90),
			Salary: float64(g.rng.IntRange(45, 110)) * 1000,
		}
	}
}

func (g *Generator) partyFinances(members int, minority bool, comms []social.StaffMember) social.Finances {
	scale := 1.0
	if minority {
		scale = 0.25
	}

	salaries := 0.0
	for _, s := range comms {
		salaries += s.Salary / 12
	}

	merch := make([]social.MerchandiseItem, 0, 3)
	for i := 0; i < 3 && i < len(g.cosmetics.Merchandise); i++ {
		cost := float64(g.rng.IntRange(2, 15))
		merch = append(merch, social.MerchandiseItem{
			ID:        g.newID(),
			Name:      g.cosmetics.Merchandise[i],
			UnitCost:  cost,
			UnitPrice: cost * float64(g.rng.IntRange(2, 4)),
			Stock:     g.rng.IntRange(100, 1000),
		})
	}

	return social.Finances{
		Treasury: math.Round(float64(g.rng.IntRange(250, 2000)) * 1000 * scale),
		MonthlyIncome: map[string]float64{
			"membership_dues": float64(members * g.rng.IntRange(200, 600)),
			"small_donors":    math.Round(float64(g.rng.IntRange(20, 80)) * 1000 * scale),
			"major_donors":    math.Round(float64(g.rng.IntRange(10, 120)) * 1000 * scale),
		},
		MonthlyExpenses: map[string]float64{
			"staff_salaries": math.Round(salaries),
			"office_rent":    float64(g.rng.IntRange(5, 25)) * 1000,
			"advertising":    math.Round(float64(g.rng.IntRange(10, 60)) * 1000 * scale),
			"events":         float64(g.rng.IntRange(5, 30)) * 1000,
		},
		Merchandise: merch,
	}
}
