package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/polity/internal/entropy"
)

func mustDecode(t *testing.T, raw RawDescriptor) Descriptor {
	t.Helper()
	d, err := Decode(raw)
	require.NoError(t, err)
	return d
}

func chance(p float64) *float64 { return &p }

func TestPercentagePointChangeCreatesMissingPath(t *testing.T) {
	e := NewEngine(entropy.Fixed(0))
	s := NewState()

	ok := e.Apply(s, mustDecode(t, RawDescriptor{
		Level: LevelCity, Path: "economy.unemployment", Type: "percentage_point_change", Value: 5,
	}))

	require.True(t, ok)
	assert.Equal(t, 5.0, s.City["economy"].(Stats)["unemployment"])
}

func TestLevelChangeClampsAtTop(t *testing.T) {
	e := NewEngine(entropy.Fixed(0))
	s := NewState()
	s.State["schools"] = "Excellent"
	d := mustDecode(t, RawDescriptor{Level: LevelState, Path: "schools", Type: "level_change", Steps: 10})

	for i := 0; i < 5; i++ {
		require.True(t, e.Apply(s, d))
	}
	assert.Equal(t, RatingScale[len(RatingScale)-1], s.State["schools"])

	down := mustDecode(t, RawDescriptor{Level: LevelState, Path: "schools", Type: "level_change", Value: -99})
	e.Apply(s, down)
	assert.Equal(t, RatingScale[0], s.State["schools"])
}

func TestLevelChangeOnMissingRatingStartsMidScale(t *testing.T) {
	e := NewEngine(entropy.Fixed(0))
	s := NewState()
	e.Apply(s, mustDecode(t, RawDescriptor{Level: LevelNational, Path: "roads.quality", Type: "level_change", Steps: 1}))
	assert.Equal(t, "Good", s.National["roads"].(Stats)["quality"])
}

func TestMoodShiftUsesMoodScale(t *testing.T) {
	e := NewEngine(entropy.Fixed(0))
	s := NewState()
	s.City["mood"] = "Happy"
	e.Apply(s, mustDecode(t, RawDescriptor{Level: LevelCity, Path: "mood", Type: "mood_shift", Steps: 3}))
	assert.Equal(t, "Elated", s.City["mood"])
}

func TestConditionalShifts(t *testing.T) {
	e := NewEngine(entropy.Fixed(0))
	s := NewState()
	s.City["police"] = "Fair"
	s.City["mood"] = "Neutral"

	funded := RawDescriptor{Level: LevelCity, Path: "police", Type: "conditional_level_change_by_param",
		Param: "funding", Threshold: 100, Steps: 1, ElseSteps: -1, Params: map[string]float64{"funding": 120}}
	e.Apply(s, mustDecode(t, funded))
	assert.Equal(t, "Good", s.City["police"])

	cut := RawDescriptor{Level: LevelCity, Path: "mood", Type: "conditional_mood_shift_by_param",
		Param: "funding", Threshold: 100, Steps: 1, ElseSteps: -2, Params: map[string]float64{"funding": 20}}
	e.Apply(s, mustDecode(t, cut))
	assert.Equal(t, "Angry", s.City["mood"])
}

func TestAbsoluteChangeOnlyOnNumbers(t *testing.T) {
	e := NewEngine(entropy.Fixed(0))
	s := NewState()
	s.National["debt"] = 100
	s.National["motto"] = "onward"

	assert.True(t, e.Apply(s, mustDecode(t, RawDescriptor{Level: LevelNational, Path: "debt", Type: "absolute_change", Value: 25})))
	assert.Equal(t, 125.0, s.National["debt"])

	assert.False(t, e.Apply(s, mustDecode(t, RawDescriptor{Level: LevelNational, Path: "motto", Type: "absolute_change", Value: 1})))
	assert.False(t, e.Apply(s, mustDecode(t, RawDescriptor{Level: LevelNational, Path: "missing", Type: "absolute_change", Value: 1})))
	assert.Equal(t, "onward", s.National["motto"])
	_, created := s.National["missing"]
	assert.False(t, created)
}

func TestAbsoluteSetRateOverwrites(t *testing.T) {
	e := NewEngine(entropy.Fixed(0))
	s := NewState()
	s.State["rate"] = "text"
	e.Apply(s, mustDecode(t, RawDescriptor{Level: LevelState, Path: "rate", Type: "absolute_set_rate", Value: 0.07}))
	assert.Equal(t, 0.07, s.State["rate"])
}

func TestBudgetAndTaxRedirect(t *testing.T) {
	e := NewEngine(entropy.Fixed(0))
	s := NewState()

	e.Apply(s, mustDecode(t, RawDescriptor{Level: LevelCity, Path: "parks", Type: "percentage_point_change", Value: 3, IsBudgetItem: true}))
	e.Apply(s, mustDecode(t, RawDescriptor{Level: LevelCity, Path: "sales", Type: "absolute_set_rate", Value: 0.05, IsTaxRate: true}))

	budget := s.City["budget"].(Stats)
	assert.Equal(t, 3.0, budget["expenseAllocations"].(Stats)["parks"])
	assert.Equal(t, 0.05, budget["taxRates"].(Stats)["sales"])
	_, top := s.City["parks"]
	assert.False(t, top)
}

func TestChanceGate(t *testing.T) {
	s := NewState()
	d := mustDecode(t, RawDescriptor{Level: LevelCity, Path: "x", Type: "absolute_set_rate", Value: 1, Chance: chance(0.3)})

	assert.False(t, NewEngine(entropy.Fixed(0.5)).Apply(s, d))
	_, set := s.City["x"]
	assert.False(t, set)

	assert.True(t, NewEngine(entropy.Fixed(0.2)).Apply(s, d))
	assert.Equal(t, 1.0, s.City["x"])
}

func TestPathThroughScalarIsBlocked(t *testing.T) {
	e := NewEngine(entropy.Fixed(0))
	s := NewState()
	s.City["economy"] = 3.0
	assert.False(t, e.Apply(s, mustDecode(t, RawDescriptor{Level: LevelCity, Path: "economy.gdp", Type: "percentage_point_change", Value: 1})))
	assert.Equal(t, 3.0, s.City["economy"])
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode(RawDescriptor{Level: LevelCity, Path: "x", Type: "teleport"})
	assert.ErrorIs(t, err, ErrUnknownEffect)

	_, err = Decode(RawDescriptor{Level: "galaxy", Path: "x", Type: "level_change"})
	assert.ErrorIs(t, err, ErrUnknownLevel)

	d, err := Decode(RawDescriptor{Level: LevelCity, Path: "x", Type: "absolute_change_recurring", Value: 2})
	require.NoError(t, err)
	assert.Equal(t, AbsoluteChange{Delta: 2, Recurring: true}, d.Effect)
	assert.Equal(t, "absolute_change_recurring", d.Effect.Kind())
}

func TestApplyRawSkipsUnknown(t *testing.T) {
	e := NewEngine(entropy.Fixed(0))
	s := NewState()

	applied := e.ApplyRaw(s, []RawDescriptor{
		{Level: LevelCity, Path: "a", Type: "percentage_point_change", Value: 1},
		{Level: LevelCity, Path: "b", Type: "made_up"},
		{Level: LevelCity, Path: "c", Type: "absolute_set_rate", Value: 9},
	})

	assert.Equal(t, 2, applied)
	assert.Equal(t, 1.0, s.City["a"])
	assert.Equal(t, 9.0, s.City["c"])
}

func TestTickRecurring(t *testing.T) {
	e := NewEngine(entropy.Fixed(0))
	s := NewState()
	s.National["revenue"] = 0.0

	e.ApplyRaw(s, []RawDescriptor{{Level: LevelNational, Path: "revenue", Type: "absolute_change_recurring", Value: 10}})
	assert.Equal(t, 10.0, s.National["revenue"])

	assert.Equal(t, 1, e.TickRecurring(s))
	assert.Equal(t, 1, e.TickRecurring(s))
	assert.Equal(t, 30.0, s.National["revenue"])
	require.Len(t, e.Recurring(), 1)

	restored := NewEngine(entropy.Fixed(0))
	restored.RestoreRecurring(e.Recurring())
	restored.TickRecurring(s)
	assert.Equal(t, 40.0, s.National["revenue"])
}

func TestSeed(t *testing.T) {
	s := Seed(
		map[Level]Stats{LevelCity: {"population": 50000}},
		[]Department{
			{ID: "public_works", Level: LevelCity, Budget: 1e6},
			{ID: "defense", Name: "Ministry of Defence", Level: LevelNational, Budget: 5e9, Rating: "Good"},
		},
	)

	assert.Equal(t, 50000, s.City["population"])
	alloc := s.City["budget"].(Stats)["expenseAllocations"].(Stats)
	assert.Equal(t, 1e6, alloc["public_works"])

	works := s.City["departments"].(Stats)["public_works"].(Stats)
	assert.Equal(t, "Department of Public Works", works["name"])
	assert.Equal(t, "Fair", works["rating"])

	defense := s.National["departments"].(Stats)["defense"].(Stats)
	assert.Equal(t, "Ministry of Defence", defense["name"])
	assert.Equal(t, "Good", defense["rating"])

	clone := s.Clone()
	clone.City["budget"].(Stats)["expenseAllocations"].(Stats)["public_works"] = 0.0
	assert.Equal(t, 1e6, alloc["public_works"])
}
