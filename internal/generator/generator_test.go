package generator

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/polity/internal/actors"
	"github.com/talgya/polity/internal/entropy"
	"github.com/talgya/polity/internal/ideology"
	"github.com/talgya/polity/internal/social"
)

type staticNames struct{}

func (staticNames) Name(sex actors.Sex, countryID string) string {
	return fmt.Sprintf("%s-%s", countryID, sex)
}

func testIdeologies() *ideology.Catalog {
	return ideology.NewCatalog([]ideology.Ideology{
		{ID: ideology.CentristID, Name: "Centrist", Ideal: ideology.Profile{}},
		{ID: "right", Name: "Conservative", Ideal: ideology.Profile{ideology.AxisEconomic: 3, ideology.AxisTheocratic: 2},
			Related: []string{"religious"}, PartyNames: []string{"Conservative Union"}},
		{ID: "left", Name: "Socialist", Ideal: ideology.Profile{ideology.AxisEconomic: -3, ideology.AxisTheocratic: -1}},
		{ID: "religious", Name: "Theocrat", Ideal: ideology.Profile{ideology.AxisTheocratic: 3}},
	})
}

func testQuestions() []ideology.Question {
	return []ideology.Question{
		{ID: "tax", Options: []ideology.Option{
			{ID: "raise", Effects: ideology.Profile{ideology.AxisEconomic: -3}},
			{ID: "hold", Effects: ideology.Profile{}},
			{ID: "cut", Effects: ideology.Profile{ideology.AxisEconomic: 3}},
		}},
		{ID: "church", Options: []ideology.Option{
			{ID: "no", Effects: ideology.Profile{ideology.AxisTheocratic: -1}},
			{ID: "neutral", Effects: ideology.Profile{}},
			{ID: "yes", Effects: ideology.Profile{ideology.AxisTheocratic: 2}},
		}},
		{ID: "market", Options: []ideology.Option{
			{ID: "free", Effects: ideology.Profile{ideology.AxisEconomic: 3}},
			{ID: "planned", Effects: ideology.Profile{ideology.AxisEconomic: -3}},
		}},
	}
}

func counterIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestGenerator(src entropy.Source) *Generator {
	return New(Deps{
		Rand:       src,
		Ideologies: testIdeologies(),
		Questions:  testQuestions(),
		Names:      staticNames{},
		NewID:      counterIDs(),
	})
}

func TestForcedPartyUnderBestChoiceDraws(t *testing.T) {
	g := newTestGenerator(entropy.Fixed(0))
	right := &social.Party{ID: "p-right", Name: "Conservative Union", IdeologyID: "right"}
	right.EnsureIdeology(g.Ideologies())
	left := &social.Party{ID: "p-left", Name: "Workers", IdeologyID: "left"}
	left.EnsureIdeology(g.Ideologies())

	p := g.GenerateActor("usa", []*social.Party{left, right}, ActorOptions{ForcePartyID: "p-right"})

	assert.Equal(t, "p-right", p.PartyID)
	assert.Equal(t, ideology.Stances{"tax": "cut", "church": "yes", "market": "free"}, p.Stances)
	assert.Equal(t, "right", p.Ideology.ID)
	assert.Equal(t, "right", g.Ideologies().Classify(p.Ideology.Scores).ID)
	assert.True(t, right.HasMember(p.ID))
	assert.False(t, left.HasMember(p.ID))
}

func TestIndependenceThreshold(t *testing.T) {
	g := newTestGenerator(entropy.Fixed(0))
	far := &social.Party{ID: "far", Name: "Far Away", IdeologyScores: ideology.Profile{ideology.AxisEconomic: 20}}

	p := g.GenerateActor("usa", []*social.Party{far}, ActorOptions{})

	require.Greater(t, ideology.Distance(p.Ideology.Scores, far.IdeologyScores), IndependenceThreshold)
	assert.Equal(t, actors.IndependentID, p.PartyID)
	assert.Equal(t, actors.IndependentName, p.PartyName)
	assert.Empty(t, far.MemberIDs)
}

func TestNearestPartyWithinThreshold(t *testing.T) {
	g := newTestGenerator(entropy.Fixed(0))
	near := &social.Party{ID: "near", IdeologyScores: ideology.Profile{ideology.AxisEconomic: 4}}
	other := &social.Party{ID: "other", IdeologyScores: ideology.Profile{ideology.AxisEconomic: -4}}

	// Centrist target: hold, neutral, free → economic 3.
	p := g.GenerateActor("usa", []*social.Party{near, other}, ActorOptions{Target: ideology.Profile{}})
	assert.Equal(t, "near", p.PartyID)
}

func TestStanceNoiseTakesLowerRankedOptions(t *testing.T) {
	target := ideology.Profile{ideology.AxisEconomic: 3, ideology.AxisTheocratic: 2}

	second := newTestGenerator(entropy.Fixed(0.95)).pickStances(target)
	assert.Equal(t, "hold", second["tax"])
	assert.Equal(t, "planned", second["market"])

	third := newTestGenerator(entropy.Fixed(0.99)).pickStances(target)
	assert.Equal(t, "raise", third["tax"])
	assert.Equal(t, "planned", third["market"], "two options cap at the second")
}

func TestActorAttributesInRange(t *testing.T) {
	g := newTestGenerator(entropy.New(42))
	for i := 0; i < 50; i++ {
		p := g.GenerateActor("usa", nil, ActorOptions{})
		a := p.Attributes
		assert.GreaterOrEqual(t, a.Charisma, 30)
		assert.LessOrEqual(t, a.Charisma, 80)
		assert.GreaterOrEqual(t, a.Fundraising, 20)
		assert.LessOrEqual(t, a.Fundraising, 80)
		assert.GreaterOrEqual(t, p.Age, 30)
		assert.LessOrEqual(t, p.Age, 75)
		assert.GreaterOrEqual(t, p.Campaign.Polling, 0.0)
		assert.LessOrEqual(t, p.Campaign.Polling, 100.0)
		assert.Equal(t, actors.IndependentID, p.PartyID)
		assert.Len(t, p.Ideology.Scores, len(ideology.AllAxes))
	}
}

func TestMissingCatalogFallsBackToCentrist(t *testing.T) {
	g := New(Deps{Rand: entropy.Fixed(0)})
	p := g.GenerateActor("usa", nil, ActorOptions{})

	assert.Equal(t, ideology.CentristID, p.Ideology.ID)
	assert.NotEmpty(t, p.Name)
	assert.NotEmpty(t, p.ID)
}

func TestGeneratePartiesStopsWhenPoolExhausted(t *testing.T) {
	g := newTestGenerator(entropy.New(7))
	founding := g.GenerateParties("usa", PartyOptions{
		Dominant:        []string{"right", "Socialist"},
		Minority:        3,
		MembersPerParty: 4,
	})

	require.Len(t, founding.Parties, 4)
	assert.Equal(t, "right", founding.Parties[0].IdeologyID)
	assert.Equal(t, "left", founding.Parties[1].IdeologyID)
	assert.Equal(t, "Conservative Union", founding.Parties[0].Name)
	assert.False(t, founding.Parties[0].IsMinority)
	assert.True(t, founding.Parties[3].IsMinority)

	members := 0
	for _, p := range founding.Parties {
		members += len(p.MemberIDs)
		assert.NotNil(t, p.IdeologyScores)
		assert.NotEmpty(t, p.ChairID)
		assert.NotEmpty(t, p.Comms)
		assert.Len(t, p.Stances, len(testQuestions()))
		assert.Positive(t, p.Finances.Treasury)
	}
	assert.Equal(t, members, len(founding.Members))
}

func TestUnknownDominantIdeologiesCollapseToOneCentrist(t *testing.T) {
	g := newTestGenerator(entropy.New(3))
	founding := g.GenerateParties("usa", PartyOptions{
		Dominant:        []string{"nope1", "nope2"},
		Minority:        2,
		MembersPerParty: 4,
	})

	require.Len(t, founding.Parties, 3)
	assert.Equal(t, ideology.CentristID, founding.Parties[0].IdeologyID)
	assert.False(t, founding.Parties[0].IsMinority)
	for _, p := range founding.Parties[1:] {
		assert.True(t, p.IsMinority, p.Name)
		assert.Less(t, p.FundraisingMultiplier, 1.0, p.Name)
	}
}

func TestPartyStructureProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 40
	properties := gopter.NewProperties(parameters)

	properties.Property("faction influence sums to 100 and bloc sizes stay in range", prop.ForAll(
		func(seed int64) bool {
			g := newTestGenerator(entropy.New(seed))
			founding := g.GenerateParties("usa", PartyOptions{Dominant: []string{"right"}, MembersPerParty: 4})

			for _, p := range founding.Parties {
				if n := len(p.Factions); n < 2 || n > 4 {
					return false
				}
				if social.TotalInfluence(p.Factions) != 100 {
					return false
				}
				moderates := 0
				for _, f := range p.Factions {
					if f.Kind == social.FactionModerate {
						moderates++
					}
				}
				if moderates != 1 {
					return false
				}
				if n := len(p.Committees); n < 4 || n > 6 {
					return false
				}
				for _, c := range p.Committees {
					if len(c.Members) < 3 || len(c.Members) > 7 || c.Chair.Name == "" {
						return false
					}
				}
			}
			return len(founding.Parties) >= 2
		},
		gen.Int64Range(1, 1_000_000),
	))

	properties.TestingRun(t)
}

func TestFactionLeadersAndMembership(t *testing.T) {
	g := newTestGenerator(entropy.New(99))
	party := &social.Party{ID: "p", CountryID: "usa", IdeologyID: "right"}
	party.EnsureIdeology(g.Ideologies())

	var members []*actors.Politician
	for i := 0; i < 6; i++ {
		members = append(members, g.GenerateActor("usa", []*social.Party{party}, ActorOptions{ForcePartyID: "p"}))
	}

	factions, leaders := g.GenerateFactions(party, members)
	require.Len(t, leaders, len(factions))

	ids := map[string]bool{}
	for i, f := range factions {
		ids[f.ID] = true
		assert.Equal(t, leaders[i].ID, f.LeaderID)
		assert.Equal(t, f.ID, leaders[i].FactionID)
		assert.Equal(t, "p", leaders[i].PartyID)
	}
	for _, m := range members {
		assert.True(t, ids[m.FactionID], "member %s has no faction", m.ID)
	}
	assert.Equal(t, 100, social.TotalInfluence(factions))
}

func TestAggregateStances(t *testing.T) {
	g := newTestGenerator(entropy.Fixed(0))
	members := []*actors.Politician{
		{Stances: ideology.Stances{"tax": "raise", "church": "yes"}},
		{Stances: ideology.Stances{"tax": "raise", "church": "no"}},
		{Stances: ideology.Stances{"tax": "cut"}},
	}
	point := ideology.Profile{ideology.AxisTheocratic: 2}

	got := g.AggregateStances(members, point)

	assert.Equal(t, "raise", got["tax"])
	assert.Equal(t, "yes", got["church"], "tie goes to the option nearest the party")
	assert.Equal(t, "free", got["market"], "unanswered takes the nearest option")
}

func TestGenerateLegislature(t *testing.T) {
	g := newTestGenerator(entropy.New(3))
	founding := g.GenerateParties("usa", PartyOptions{Dominant: []string{"right", "left"}, Minority: 1, MembersPerParty: 3})

	legislators := g.GenerateLegislature("usa", founding.Parties, 120)
	require.Len(t, legislators, 120)

	total := 0
	for _, n := range SeatCounts(legislators) {
		total += n
	}
	assert.Equal(t, 120, total)
	for _, p := range legislators {
		assert.True(t, p.IsIncumbent)
		assert.Equal(t, OfficeLegislator, p.CurrentOffice)
	}
}
