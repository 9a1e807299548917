package persistence

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/polity/internal/actors"
	"github.com/talgya/polity/internal/finance"
	"github.com/talgya/polity/internal/ideology"
	"github.com/talgya/polity/internal/policy"
	"github.com/talgya/polity/internal/social"
	"github.com/talgya/polity/internal/store"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "polity.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testSnapshot() *store.Snapshot {
	full := &actors.Politician{
		ID:         "a1",
		Name:       "Ada Byrne",
		Age:        48,
		Sex:        actors.SexFemale,
		CountryID:  "usa",
		PartyID:    "p1",
		PartyName:  "Green Party",
		Attributes: actors.Attributes{Charisma: 71, Fundraising: 55, NameRecognition: 30},
		Stances:    ideology.Stances{"climate": "green_deal"},
		Ideology: actors.IdeologyState{
			ID:     "green",
			Name:   "Green",
			Scores: ideology.Profile{ideology.AxisEcology: 3.0, ideology.AxisEconomic: -1.25},
		},
		Campaign: actors.Campaign{IsInCampaign: true, HoursPerDay: 9.5, Polling: 14.2},
		Finances: actors.Finances{
			Treasury:      12000,
			CampaignFunds: 3400.5,
			Record: actors.Record{
				TotalRaised:      3400.5,
				DonorCount:       12,
				ByType:           map[string]actors.TypeTotals{"individual": {Total: 3400.5, Count: 12, Largest: 900}},
				LastProcessedDay: 3,
			},
		},
		Background: actors.Background{Education: "PhD", Career: "Engineer", Hometown: "Salem"},
		Staff:      []actors.Staffer{{ID: "s1", Name: "Lee Ray", Role: "Campaign Manager", Skill: 60, Salary: 52000}},
	}
	bare := &actors.Politician{ID: "a2", Name: "Bo Hall", PartyID: actors.IndependentID}
	return store.New().AddMany([]*actors.Politician{full, bare}).Remove("missing")
}

func TestOpenMigratesExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.SaveMeta(MetaDay, "12"))
	require.NoError(t, db.Close())

	again, err := Open(path)
	require.NoError(t, err)
	defer again.Close()
	day, err := again.GetMeta(MetaDay)
	require.NoError(t, err)
	assert.Equal(t, "12", day)
}

func TestSnapshotRoundTrip(t *testing.T) {
	db := openTestDB(t)
	assert.False(t, db.HasWorldState())

	_, err := db.LoadSnapshot()
	assert.ErrorIs(t, err, ErrNoState)

	snap := testSnapshot()
	require.NoError(t, db.SaveSnapshot(snap))
	assert.True(t, db.HasWorldState())

	loaded, err := db.LoadSnapshot()
	require.NoError(t, err)
	assert.Equal(t, snap.Columns(), loaded.Columns())
	assert.Equal(t, []string{"a1"}, loaded.Supporters("climate", "green_deal"))

	// Saving again replaces rather than duplicates.
	require.NoError(t, db.SaveSnapshot(loaded.Remove("a2")))
	again, err := db.LoadSnapshot()
	require.NoError(t, err)
	assert.Equal(t, []string{"a1"}, again.IDs())
}

func TestPartiesRoundTrip(t *testing.T) {
	db := openTestDB(t)
	parties := []*social.Party{
		{ID: "p2", Name: "Second", IdeologyScores: ideology.Profile{}, MemberIDs: []string{"a1"}},
		{ID: "p1", Name: "First", FundraisingMultiplier: 1.2, Factions: []*social.Faction{{ID: "f1", Influence: 100}}},
	}
	require.NoError(t, db.SaveParties(parties))

	loaded, err := db.LoadParties()
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "p2", loaded[0].ID)
	assert.Equal(t, parties[1], loaded[1])
}

func TestDonationLedger(t *testing.T) {
	db := openTestDB(t)
	date := time.Date(2028, 5, 3, 0, 0, 0, 0, time.UTC)
	ds := []finance.Donation{
		{ID: "d1", DonorID: "x", DonorName: "X", DonorType: finance.DonorIndividual, RecipientID: "a1", Amount: 50, Day: 1, Date: date},
		{ID: "d2", DonorID: "y", DonorName: "Y", DonorType: finance.DonorCorporate, RecipientID: "a1", Amount: 900, Day: 2, Date: date, RequiresDisclosure: true},
		{ID: "d3", DonorID: "z", DonorName: "Z", DonorType: finance.DonorIndividual, RecipientID: "a1", Amount: 20, Day: 2, Date: date, IsAnonymous: true},
		{ID: "d4", DonorID: "x", DonorName: "X", DonorType: finance.DonorIndividual, RecipientID: "a2", Amount: 10, Day: 2, Date: date},
	}
	require.NoError(t, db.SaveDonations(ds))
	require.NoError(t, db.SaveDonations(ds[:1]))
	require.NoError(t, db.SaveDonations(nil))

	recent, err := db.RecentDonations("a1", 10)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, ds[1], recent[0])
	assert.Equal(t, "d3", recent[1].ID)
	assert.True(t, recent[1].IsAnonymous)
	assert.Equal(t, "d1", recent[2].ID)

	limited, err := db.RecentDonations("a1", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestPolicyStateRoundTrip(t *testing.T) {
	db := openTestDB(t)
	_, _, err := db.LoadPolicyState()
	assert.ErrorIs(t, err, ErrNoState)

	state := policy.Seed(
		map[policy.Level]policy.Stats{policy.LevelCity: {"mood": "Neutral", "economy": policy.Stats{"unemployment": 5.5}}},
		[]policy.Department{{ID: "police", Level: policy.LevelCity, Budget: 1000}},
	)
	recurring := []policy.RawDescriptor{{Level: policy.LevelNational, Path: "debt", Type: "absolute_change_recurring", Value: 5}}
	require.NoError(t, db.SavePolicyState(state, recurring))

	loaded, rec, err := db.LoadPolicyState()
	require.NoError(t, err)
	assert.Equal(t, state, loaded)
	assert.Equal(t, recurring, rec)
}

func TestWorldRoundTrip(t *testing.T) {
	db := openTestDB(t)
	w := World{
		Snapshot: testSnapshot(),
		Parties:  []*social.Party{{ID: "p1", Name: "First"}},
		State:    policy.NewState(),
		Day:      12,
		Seed:     42,
		Election: finance.LevelState,
		LawID:    "federal",
		Donations: []finance.Donation{
			{ID: "d1", RecipientID: "a1", Amount: 5, Day: 12, DonorType: finance.DonorIndividual},
		},
	}
	require.NoError(t, db.SaveWorld(w))

	loaded, err := db.LoadWorld()
	require.NoError(t, err)
	assert.Equal(t, 12, loaded.Day)
	assert.Equal(t, int64(42), loaded.Seed)
	assert.Equal(t, finance.LevelState, loaded.Election)
	assert.Equal(t, "federal", loaded.LawID)
	assert.Equal(t, w.Snapshot.Columns(), loaded.Snapshot.Columns())
	assert.Len(t, loaded.Parties, 1)
	assert.Empty(t, loaded.Recurring)

	recent, err := db.RecentDonations("a1", 5)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}
