package social

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/polity/internal/ideology"
)

func TestApportionInfluence(t *testing.T) {
	assert.Equal(t, []int{34, 33, 33}, ApportionInfluence([]float64{1, 1, 1}))
	assert.Equal(t, []int{50, 50}, ApportionInfluence([]float64{0, math.NaN()}))
	assert.Equal(t, []int{100, 0}, ApportionInfluence([]float64{5, -2}))
	assert.Nil(t, ApportionInfluence(nil))
}

func TestApportionInfluenceProperty(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("shares always sum to 100", prop.ForAll(
		func(weights []float64) bool {
			if len(weights) == 0 {
				return true
			}
			total := 0
			for _, s := range ApportionInfluence(weights) {
				if s < 0 || s > 100 {
					return false
				}
				total += s
			}
			return total == 100
		},
		gen.SliceOfN(4, gen.Float64Range(-10, 80)),
	))

	properties.TestingRun(t)
}

func TestEnsureIdeology(t *testing.T) {
	cat := ideology.NewCatalog([]ideology.Ideology{
		{ID: ideology.CentristID, Name: "Centrist", Ideal: ideology.Profile{}},
		{ID: "green", Name: "Green", Ideal: ideology.Profile{ideology.AxisEcology: 3}},
	})

	byName := &Party{IdeologyName: "green"}
	byName.EnsureIdeology(cat)
	assert.Equal(t, "green", byName.IdeologyID)
	assert.Equal(t, 3.0, byName.IdeologyScores[ideology.AxisEcology])

	unknown := &Party{IdeologyID: "pirate", IdeologyName: "Pirate"}
	unknown.EnsureIdeology(cat)
	assert.Equal(t, ideology.CentristID, unknown.IdeologyID)
	assert.NotNil(t, unknown.IdeologyScores)

	explicit := &Party{IdeologyID: "green", IdeologyScores: ideology.Profile{ideology.AxisEcology: 1}}
	explicit.EnsureIdeology(cat)
	assert.Equal(t, 1.0, explicit.IdeologyScores[ideology.AxisEcology], "existing scores are kept")
	assert.Equal(t, "Green", explicit.IdeologyName)
}

func TestNearestFaction(t *testing.T) {
	factions := []*Faction{
		{ID: "a", LeaderScores: ideology.Profile{ideology.AxisEconomic: 2}},
		{ID: "b", LeaderScores: ideology.Profile{ideology.AxisEconomic: -2}},
		{ID: "broken"},
	}

	f := NearestFaction(factions, ideology.Profile{ideology.AxisEconomic: -1})
	require.NotNil(t, f)
	assert.Equal(t, "b", f.ID)
	assert.Nil(t, NearestFaction(nil, ideology.Profile{}))
}

func TestPartyMembership(t *testing.T) {
	p := &Party{}
	p.AddMember("x")
	p.AddMember("x")
	p.AddMember("y")
	assert.Equal(t, []string{"x", "y"}, p.MemberIDs)

	a := &Party{IdeologyScores: ideology.Profile{}}
	b := &Party{IdeologyScores: ideology.Profile{ideology.AxisEconomic: 1}}
	assert.InDelta(t, 0.5, a.Similarity(b), 1e-9)
}

func TestPartyCloneIsDeep(t *testing.T) {
	p := &Party{
		ID:             "p1",
		IdeologyScores: ideology.Profile{ideology.AxisEconomic: 2},
		MemberIDs:      []string{"a"},
		Factions:       []*Faction{{ID: "f1", Influence: 100}},
		Committees:     []*Committee{{ID: "c1", Members: []CommitteeMember{{ID: "m1"}}}},
		Finances: Finances{
			MonthlyIncome: map[string]float64{"dues": 10},
			Merchandise:   []MerchandiseItem{{ID: "mug", Stock: 5}},
		},
	}
	c := p.Clone()
	require.Equal(t, p, c)

	c.IdeologyScores[ideology.AxisEconomic] = -1
	c.MemberIDs[0] = "b"
	c.Factions[0].Influence = 0
	c.Committees[0].Members[0].ID = "m2"
	c.Finances.MonthlyIncome["dues"] = 0
	c.Finances.Merchandise[0].Stock = 0

	assert.Equal(t, 2.0, p.IdeologyScores[ideology.AxisEconomic])
	assert.Equal(t, "a", p.MemberIDs[0])
	assert.Equal(t, 100, p.Factions[0].Influence)
	assert.Equal(t, "m1", p.Committees[0].Members[0].ID)
	assert.Equal(t, 10.0, p.Finances.MonthlyIncome["dues"])
	assert.Equal(t, 5, p.Finances.Merchandise[0].Stock)
	assert.Nil(t, (*Party)(nil).Clone())
}
