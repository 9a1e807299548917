package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/talgya/polity/internal/actors"
	"github.com/talgya/polity/internal/catalog"
	"github.com/talgya/polity/internal/config"
	"github.com/talgya/polity/internal/entropy"
	"github.com/talgya/polity/internal/finance"
	"github.com/talgya/polity/internal/generator"
	"github.com/talgya/polity/internal/persistence"
	"github.com/talgya/polity/internal/policy"
	"github.com/talgya/polity/internal/social"
	"github.com/talgya/polity/internal/store"
)

var (
	// ErrUnknownLaw is returned when the configured donation law is not in the catalog.
	ErrUnknownLaw = errors.New("unknown donation law")
	// ErrUnknownPolicy is returned by EnactPolicy for ids not in the catalog.
	ErrUnknownPolicy = errors.New("unknown policy")
)

// Setup is what a game is built from.
type Setup struct {
	Catalog *catalog.Catalog
	Game    config.Game
	Country string
	Seed    int64 // 0 draws a random seed
}

// Game holds the running game and wires the simulators together. Ticks and policy
// enactment are serialised; Snapshot may be read concurrently without locking.
type Game struct {
	mu sync.Mutex

	snap     atomic.Pointer[store.Snapshot]
	parties  []*social.Party
	byID     map[string]*social.Party
	state    *policy.State
	law      *finance.Law
	level    finance.Level
	voteDay  int
	start    time.Time
	seed     int64
	day      int
	catalog  *catalog.Catalog
	finance  *finance.Simulator
	policies *policy.Engine

	// Donations recorded since the last checkpoint.
	pending []finance.Donation
}

// DayReport summarises one TickDay.
type DayReport struct {
	Day       int     `json:"day"`
	Rounds    int     `json:"rounds"`
	Raised    float64 `json:"raised"`
	Donations int     `json:"donations"`
}

// Status is a point-in-time overview for the API.
type Status struct {
	Day         int           `json:"day"`
	Date        string        `json:"date"`
	Actors      int           `json:"actors"`
	Parties     int           `json:"parties"`
	Election    finance.Level `json:"election_level"`
	Stage       finance.Stage `json:"stage"`
	Law         string        `json:"law"`
	TotalRaised float64       `json:"total_raised"`
	Version     uint64        `json:"store_version"`
}

// NewGame generates a fresh game: parties with their members, a legislature, the player,
// and the starting jurisdiction statistics.
func NewGame(s Setup) (*Game, error) {
	g, rng, names, err := newGame(s)
	if err != nil {
		return nil, err
	}

	gen := generator.New(generator.Deps{
		Rand:       rng,
		Ideologies: s.Catalog.IdeologyCatalog(),
		Questions:  s.Catalog.Questions,
		Names:      names,
		Committees: s.Catalog.Committees,
		Cosmetics:  s.Catalog.Cosmetics,
	})

	founding := gen.GenerateParties(s.Country, generator.PartyOptions{
		Dominant:        s.Game.Dominant,
		Minority:        s.Game.Minority,
		MembersPerParty: s.Game.MembersPerParty,
	})
	legislature := gen.GenerateLegislature(s.Country, founding.Parties, s.Game.Seats)
	player := gen.GenerateActor(s.Country, founding.Parties, generator.ActorOptions{
		IsPlayer:   true,
		InCampaign: true,
	})

	everyone := append(append(founding.Members, legislature...), player)
	g.snap.Store(store.New().AddMany(everyone))
	g.setParties(founding.Parties)
	g.state = s.Catalog.InitialState()

	slog.Info("new game generated",
		"country", s.Country,
		"seed", g.seed,
		"parties", len(g.parties),
		"actors", len(everyone),
		"seats", generator.SeatCounts(legislature),
		"player", player.Name,
	)
	return g, nil
}

// Restore resumes a saved game.
func Restore(s Setup, w persistence.World) (*Game, error) {
	if w.Snapshot == nil {
		return nil, fmt.Errorf("restore: %w", persistence.ErrNoState)
	}
	if w.Seed != 0 {
		s.Seed = w.Seed
	}
	if w.LawID != "" {
		s.Game.LawID = w.LawID
	}
	if w.Election != "" {
		s.Game.ElectionLevel = w.Election
	}

	g, _, _, err := newGame(s)
	if err != nil {
		return nil, err
	}
	g.snap.Store(w.Snapshot)
	g.setParties(w.Parties)
	g.state = w.State
	if g.state == nil {
		g.state = s.Catalog.InitialState()
	}
	g.policies.RestoreRecurring(w.Recurring)
	g.day = w.Day

	slog.Info("game restored", "day", g.day, "actors", w.Snapshot.Len(), "parties", len(g.parties))
	return g, nil
}

func newGame(s Setup) (*Game, entropy.Source, *catalog.NamePool, error) {
	if s.Catalog == nil {
		return nil, nil, nil, errors.New("new game: no catalog")
	}
	law, ok := s.Catalog.Law(s.Game.LawID)
	if !ok {
		return nil, nil, nil, fmt.Errorf("new game: law %q: %w", s.Game.LawID, ErrUnknownLaw)
	}

	seed := s.Seed
	if seed == 0 {
		seed = entropy.CryptoSeed()
	}
	start, err := time.Parse(time.DateOnly, s.Game.StartDate)
	if err != nil {
		start = time.Date(2028, time.January, 1, 0, 0, 0, 0, time.UTC)
	}

	rng := entropy.New(seed)
	names := catalog.NewNamePool(rng, s.Catalog.Names)
	g := &Game{
		law:      law,
		level:    s.Game.ElectionLevel,
		voteDay:  max(1, s.Game.ElectionDay),
		start:    start,
		seed:     seed,
		catalog:  s.Catalog,
		finance:  finance.NewSimulator(rng, seed, names),
		policies: policy.NewEngine(rng),
	}
	return g, rng, names, nil
}

func (g *Game) setParties(parties []*social.Party) {
	g.parties = parties
	g.byID = social.ByID(parties)
	for _, p := range parties {
		g.finance.SetPartyMultiplier(p.ID, p.FundraisingMultiplier)
	}
}

// LODFor picks the fundraising detail for an actor: the player is simulated donor by
// donor, office holders and campaigners by donor type, everyone else in aggregate.
func LODFor(ident store.Identity, c actors.Campaign) finance.LOD {
	switch {
	case ident.IsPlayer:
		return finance.LODDetailed
	case ident.IsIncumbent, c.IsInCampaign, ident.CurrentOffice == generator.OfficePartyChair:
		return finance.LODVisible
	}
	return finance.LODBackground
}

// StageFor places a day within the campaign leading up to the vote.
func StageFor(day, voteDay int) finance.Stage {
	progress := float64(day) / float64(max(1, voteDay))
	switch {
	case progress < 1.0/3:
		return finance.StageEarly
	case progress < 2.0/3:
		return finance.StageMid
	}
	return finance.StageLate
}

func (g *Game) election(day int) finance.Election {
	return finance.Election{
		ID:    fmt.Sprintf("%s-%d", g.level, g.start.Year()),
		Level: g.level,
		Stage: StageFor(day, g.voteDay),
		Day:   day,
		Date:  GameDate(g.start, day),
	}
}

// TickDay runs the daily fundraising round of every actor whose cadence is due and
// publishes a new snapshot with the updated finances.
func (g *Game) TickDay(day int) DayReport {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.day = day
	e := g.election(day)
	snap := g.snap.Load()
	report := DayReport{Day: day}
	updates := map[string]actors.Finances{}

	snap.Base().Each(func(id string, ident store.Identity) bool {
		lean, ok := snap.RehydrateLean(id)
		if !ok {
			return true
		}
		campaign, _ := snap.Campaign(id)

		sum, ran := g.finance.ProcessDailyDonations(&lean, e, g.law, LODFor(ident, campaign))
		if !ran {
			return true
		}
		updates[id] = lean.Finances
		if party, ok := g.byID[lean.PartyID]; ok {
			finance.MergeIntoParty(party, sum)
		}
		g.pending = append(g.pending, sum.Donations...)

		report.Rounds++
		report.Raised += sum.TotalFunds
		report.Donations += len(sum.Donations)
		return true
	})

	g.snap.Store(snap.WithFinances(updates))

	slog.Info("daily report",
		"day", day,
		"date", DayLabel(g.start, day),
		"stage", e.Stage,
		"rounds", report.Rounds,
		"raised", finance.Money(report.Raised),
		"donations", report.Donations,
	)
	return report
}

// TickWeek reapplies recurring policy effects.
func (g *Game) TickWeek(day int) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	applied := g.policies.TickRecurring(g.state)
	slog.Info("weekly summary", "day", day, "recurring_effects", applied)
	return applied
}

// TickMonth settles every party's monthly income and expenses.
func (g *Game) TickMonth(day int) float64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	total := 0.0
	for _, p := range g.parties {
		if net, ok := g.finance.ProcessMonthlyPartyFinances(p, day); ok {
			total += net
			slog.Debug("party month settled", "party", p.Name, "net", finance.Money(net))
		}
	}
	slog.Info("monthly party finances", "day", day, "parties", len(g.parties), "net", finance.Money(total))
	return total
}

// EnactPolicy applies a catalog policy to the jurisdiction statistics and returns how many
// of its effects took.
func (g *Game) EnactPolicy(id string) (int, error) {
	p, ok := g.catalog.Policy(id)
	if !ok {
		return 0, fmt.Errorf("enact %q: %w", id, ErrUnknownPolicy)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return g.policies.Enact(g.state, p), nil
}

// Snapshot returns the current store version. It never blocks.
func (g *Game) Snapshot() *store.Snapshot {
	return g.snap.Load()
}

// Day returns the last processed game day.
func (g *Game) Day() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.day
}

// Parties returns deep copies of the parties.
func (g *Game) Parties() []*social.Party {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]*social.Party, len(g.parties))
	for i, p := range g.parties {
		out[i] = p.Clone()
	}
	return out
}

// Party returns a deep copy of one party.
func (g *Game) Party(id string) (*social.Party, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.byID[id]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// State returns a deep copy of the jurisdiction statistics.
func (g *Game) State() *policy.State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.Clone()
}

// Status returns a summary of the game.
func (g *Game) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()

	snap := g.snap.Load()
	total := 0.0
	for _, p := range g.parties {
		total += p.Finances.TotalRaised
	}
	return Status{
		Day:         g.day,
		Date:        GameDate(g.start, max(1, g.day)).Format(time.DateOnly),
		Actors:      snap.Len(),
		Parties:     len(g.parties),
		Election:    g.level,
		Stage:       StageFor(max(1, g.day), g.voteDay),
		Law:         g.law.ID,
		TotalRaised: total,
		Version:     snap.Version(),
	}
}

// Checkpoint returns everything a full save needs, including the donations not yet
// committed. Call Committed once the save has succeeded; until then the same donations
// are handed over again by the next Checkpoint.
func (g *Game) Checkpoint() persistence.World {
	g.mu.Lock()
	defer g.mu.Unlock()

	parties := make([]*social.Party, len(g.parties))
	for i, p := range g.parties {
		parties[i] = p.Clone()
	}
	w := persistence.World{
		Snapshot:  g.snap.Load(),
		Parties:   parties,
		State:     g.state.Clone(),
		Recurring: g.policies.Recurring(),
		Day:       g.day,
		Seed:      g.seed,
		Election:  g.level,
		LawID:     g.law.ID,
		Donations: append([]finance.Donation(nil), g.pending...),
	}
	return w
}

// Committed drops the donations of a successfully saved checkpoint from the pending list.
func (g *Game) Committed(w persistence.World) {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := min(len(w.Donations), len(g.pending))
	g.pending = append([]finance.Donation(nil), g.pending[n:]...)
}

// Policies lists the policies that can be enacted.
func (g *Game) Policies() []policy.Policy {
	return g.catalog.Policies
}
