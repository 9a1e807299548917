package generator

import (
	"log/slog"
	"math"
	"sort"

	"github.com/talgya/polity/internal/actors"
	"github.com/talgya/polity/internal/entropy"
	"github.com/talgya/polity/internal/ideology"
	"github.com/talgya/polity/internal/social"
)

// ActorOptions tune a single GenerateActor call.
type ActorOptions struct {
	ForcePartyID string
	Office       string
	IsIncumbent  bool
	IsPlayer     bool
	InCampaign   bool

	// Target overrides the ideal point stances are drawn towards.
	Target ideology.Profile
}

// GenerateActor builds one fully populated politician.
func (g *Generator) GenerateActor(countryID string, parties []*social.Party, opts ActorOptions) *actors.Politician {
	forced := forcedParty(parties, opts.ForcePartyID)
	if opts.ForcePartyID != "" && forced == nil {
		slog.Warn("forced party not available, assigning by ideology", "party", opts.ForcePartyID)
	}

	target := opts.Target
	if target == nil {
		target = g.targetIdeal(parties, forced)
	}

	stances := g.pickStances(target)
	scores := ideology.Normalize(stances, g.questions)
	ideo := g.ideologies.Classify(scores)

	sex := actors.SexMale
	if entropy.Chance(g.rng, 0.5) {
		sex = actors.SexFemale
	}

	p := &actors.Politician{
		ID:        g.newID(),
		Name:      g.names.Name(sex, countryID),
		Age:       g.rng.IntRange(30, 75),
		Sex:       sex,
		CountryID: countryID,
		Stances:   stances,
		Ideology: actors.IdeologyState{
			ID:     ideo.ID,
			Name:   ideo.Name,
			Scores: scores,
		},
		CurrentOffice: opts.Office,
		IsIncumbent:   opts.IsIncumbent,
		IsPlayer:      opts.IsPlayer,
	}

	party := forced
	if party == nil {
		party = nearestParty(parties, scores)
	}
	g.affiliate(p, party)

	p.Attributes = g.attributes(opts.IsIncumbent)
	p.Background = g.background(p.Age)
	p.Campaign = g.campaign(opts.InCampaign || opts.IsPlayer)
	p.Finances = actors.Finances{
		Treasury: float64(g.rng.IntRange(5, 100)) * 1000,
	}
	p.Staff = g.staff(countryID, opts.IsPlayer || opts.IsIncumbent)
	p.Campaign.Polling = entropy.Clamp(g.pollster.Poll(p), 0, 100)

	return p
}

func forcedParty(parties []*social.Party, id string) *social.Party {
	if id == "" {
		return nil
	}
	for _, p := range parties {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// targetIdeal picks the point stances are drawn towards: the forced party's, else an
// ideology some party holds, else any known ideology.
func (g *Generator) targetIdeal(parties []*social.Party, forced *social.Party) ideology.Profile {
	if forced != nil {
		if forced.IdeologyScores == nil {
			forced.EnsureIdeology(g.ideologies)
		}
		return forced.IdeologyScores
	}

	var ids []string
	seen := map[string]bool{}
	for _, p := range parties {
		if p.IdeologyID == "" || seen[p.IdeologyID] {
			continue
		}
		if _, ok := g.ideologies.ByID(p.IdeologyID); ok {
			seen[p.IdeologyID] = true
			ids = append(ids, p.IdeologyID)
		}
	}
	if len(ids) == 0 {
		ids = g.ideologies.IDs()
	}
	if len(ids) == 0 {
		return g.ideologies.Centrist().Ideal
	}

	ideo, _ := g.ideologies.ByID(entropy.Pick(g.rng, ids))
	return ideo.Ideal
}

// pickStances answers every question with an option near target: the best match 90% of
// the time, the second 8%, the third 2%.
func (g *Generator) pickStances(target ideology.Profile) ideology.Stances {
	stances := make(ideology.Stances, len(g.questions))
	for _, q := range g.questions {
		ranked := rankOptions(q.Options, target)
		if len(ranked) == 0 {
			continue
		}

		idx := 2
		r := g.rng.Float64()
		switch {
		case r < bestOptionP:
			idx = 0
		case r < secondOptionP:
			idx = 1
		}
		if idx >= len(ranked) {
			idx = len(ranked) - 1
		}
		stances[q.ID] = ranked[idx].ID
	}
	return stances
}

func rankOptions(options []ideology.Option, target ideology.Profile) []ideology.Option {
	ranked := append([]ideology.Option(nil), options...)
	dist := make(map[string]float64, len(ranked))
	for _, o := range ranked {
		effects := o.Effects
		if effects == nil {
			effects = ideology.Profile{}
		}
		dist[o.ID] = ideology.Distance(effects, target)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return dist[ranked[i].ID] < dist[ranked[j].ID]
	})
	return ranked
}

// nearestParty returns the closest party, or nil when none is within the independence
// threshold.
func nearestParty(parties []*social.Party, scores ideology.Profile) *social.Party {
	var best *social.Party
	bestDist := math.Inf(1)
	for _, p := range parties {
		if d := ideology.Distance(scores, p.IdeologyScores); d < bestDist {
			best, bestDist = p, d
		}
	}
	if best == nil || bestDist > IndependenceThreshold {
		return nil
	}
	return best
}

func (g *Generator) affiliate(p *actors.Politician, party *social.Party) {
	if party == nil {
		p.PartyID = actors.IndependentID
		p.PartyName = actors.IndependentName
		p.PartyColor = actors.IndependentColor
		return
	}
	p.PartyID = party.ID
	p.PartyName = party.Name
	p.PartyColor = party.Color
	if f := social.NearestFaction(party.Factions, p.Ideology.Scores); f != nil {
		p.FactionID = f.ID
	}
	party.AddMember(p.ID)
}

func (g *Generator) attributes(incumbent bool) actors.Attributes {
	a := actors.Attributes{
		Charisma:        g.rng.IntRange(30, 80),
		Integrity:       g.rng.IntRange(20, 90),
		Intelligence:    g.rng.IntRange(40, 90),
		Fundraising:     g.rng.IntRange(20, 80),
		Negotiation:     g.rng.IntRange(30, 80),
		Oratory:         g.rng.IntRange(30, 85),
		Management:      g.rng.IntRange(25, 80),
		NameRecognition: g.rng.IntRange(5, 40),
	}
	if incumbent {
		a.NameRecognition = entropy.Clamp(a.NameRecognition+g.rng.IntRange(15, 35), 0, 100)
	}
	return a
}

func (g *Generator) background(age int) actors.Background {
	maxYears := entropy.Clamp(age-25, 0, 40)
	return actors.Background{
		Education:  entropy.Pick(g.rng, g.cosmetics.Educations),
		Career:     entropy.Pick(g.rng, g.cosmetics.Careers),
		Hometown:   entropy.Pick(g.rng, g.cosmetics.Hometowns),
		YearsInPol: g.rng.IntRange(0, maxYears),
	}
}

func (g *Generator) campaign(active bool) actors.Campaign {
	if !active {
		return actors.Campaign{HoursPerDay: float64(g.rng.IntRange(2, 6))}
	}
	return actors.Campaign{
		IsInCampaign:   true,
		HoursPerDay:    float64(g.rng.IntRange(6, 14)),
		VolunteerCount: g.rng.IntRange(5, 60),
	}
}

func (g *Generator) staff(countryID string, important bool) []actors.Staffer {
	n := g.rng.IntRange(0, 1)
	if important {
		n = g.rng.IntRange(2, 4)
	}
	if n == 0 {
		return nil
	}
	out := make([]actors.Staffer, n)
	for i := range out {
		sex := actors.SexMale
		if entropy.Chance(g.rng, 0.5) {
			sex = actors.SexFemale
		}
		out[i] = actors.Staffer{
			ID:     g.newID(),
			Name:   g.names.Name(sex, countryID),
			Role:   g.cosmetics.StaffRoles[i%len(g.cosmetics.StaffRoles)],
			Skill:  g.rng.IntRange(30, 90),
			Salary: float64(g.rng.IntRange(40, 120)) * 1000,
		}
	}
	return out
}

// RecognitionPollster polls actors from name recognition and charisma.
type RecognitionPollster struct{}

// Poll returns a starting poll number in [0, 100].
func (RecognitionPollster) Poll(p *actors.Politician) float64 {
	v := float64(p.Attributes.NameRecognition)*0.4 + float64(p.Attributes.Charisma)*0.15
	if p.IsIncumbent {
		v += 8
	}
	if p.IsIndependent() {
		v *= 0.6
	}
	return math.Round(v*10) / 10
}
