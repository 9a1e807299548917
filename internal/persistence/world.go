package persistence

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/talgya/polity/internal/finance"
	"github.com/talgya/polity/internal/policy"
	"github.com/talgya/polity/internal/social"
	"github.com/talgya/polity/internal/store"
)

// World is everything a full save covers.
type World struct {
	Snapshot  *store.Snapshot
	Parties   []*social.Party
	State     *policy.State
	Recurring []policy.RawDescriptor
	Day       int
	Seed      int64
	Election  finance.Level
	LawID     string

	// Donations recorded since the last save; appended to the ledger.
	Donations []finance.Donation
}

// SaveWorld performs a full save.
func (db *DB) SaveWorld(w World) error {
	slog.Info("saving game state", "actors", w.Snapshot.Len(), "parties", len(w.Parties), "day", w.Day)

	if err := db.SaveSnapshot(w.Snapshot); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	if err := db.SaveParties(w.Parties); err != nil {
		return fmt.Errorf("save parties: %w", err)
	}
	if err := db.SavePolicyState(w.State, w.Recurring); err != nil {
		return fmt.Errorf("save policy state: %w", err)
	}
	if err := db.SaveDonations(w.Donations); err != nil {
		return fmt.Errorf("save donations: %w", err)
	}

	meta := map[string]string{
		MetaDay:           strconv.Itoa(w.Day),
		MetaSeed:          strconv.FormatInt(w.Seed, 10),
		MetaElectionLevel: string(w.Election),
		MetaLawID:         w.LawID,
	}
	for k, v := range meta {
		if err := db.SaveMeta(k, v); err != nil {
			return fmt.Errorf("save meta %s: %w", k, err)
		}
	}

	slog.Info("game state saved")
	return nil
}

// LoadWorld restores a full save. Donations are not loaded; query them with
// RecentDonations.
func (db *DB) LoadWorld() (World, error) {
	snap, err := db.LoadSnapshot()
	if err != nil {
		return World{}, fmt.Errorf("load snapshot: %w", err)
	}
	parties, err := db.LoadParties()
	if err != nil {
		return World{}, fmt.Errorf("load parties: %w", err)
	}
	state, recurring, err := db.LoadPolicyState()
	if errors.Is(err, ErrNoState) {
		state = policy.NewState()
	} else if err != nil {
		return World{}, fmt.Errorf("load policy state: %w", err)
	}

	w := World{
		Snapshot:  snap,
		Parties:   parties,
		State:     state,
		Recurring: recurring,
	}
	if v, err := db.GetMeta(MetaDay); err == nil {
		w.Day, _ = strconv.Atoi(v)
	}
	if v, err := db.GetMeta(MetaSeed); err == nil {
		w.Seed, _ = strconv.ParseInt(v, 10, 64)
	}
	if v, err := db.GetMeta(MetaElectionLevel); err == nil {
		w.Election = finance.Level(v)
	}
	if v, err := db.GetMeta(MetaLawID); err == nil {
		w.LawID = v
	}
	return w, nil
}
