package store

import (
	"errors"
	"fmt"

	"github.com/talgya/polity/internal/actors"
	"github.com/talgya/polity/internal/ideology"
)

// ErrUnknownGroup is returned by group-keyed accessors for names outside Groups.
var ErrUnknownGroup = errors.New("unknown attribute group")

// Group names one attribute group.
type Group string

const (
	GroupBase       Group = "base"
	GroupAttributes Group = "attributes"
	GroupStances    Group = "stances"
	GroupIdeology   Group = "ideology"
	GroupFinances   Group = "finances"
	GroupBackground Group = "background"
	GroupCampaign   Group = "campaign"
	GroupStaff      Group = "staff"
)

// Groups lists every attribute group.
var Groups = []Group{
	GroupBase, GroupAttributes, GroupStances, GroupIdeology,
	GroupFinances, GroupBackground, GroupCampaign, GroupStaff,
}

// Identity is the base group: who the actor is and where they sit.
type Identity struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Age           int        `json:"age"`
	Sex           actors.Sex `json:"sex"`
	CountryID     string     `json:"country_id"`
	PartyID       string     `json:"party_id"`
	PartyName     string     `json:"party_name"`
	PartyColor    string     `json:"party_color"`
	FactionID     string     `json:"faction_id,omitempty"`
	CurrentOffice string     `json:"current_office,omitempty"`
	IsIncumbent   bool       `json:"is_incumbent"`
	IsPlayer      bool       `json:"is_player"`
}

// Snapshot is one immutable version of the store.
type Snapshot struct {
	version uint64

	base       *Table[Identity]
	attributes *Table[actors.Attributes]
	stances    *Table[ideology.Stances]
	ideology   *Table[actors.IdeologyState]
	finances   *Table[actors.Finances]
	background *Table[actors.Background]
	campaign   *Table[actors.Campaign]
	staff      *Table[[]actors.Staffer]

	// question id → actor id → option id
	stanceIndex map[string]map[string]string
}

// New returns an empty snapshot.
func New() *Snapshot {
	return &Snapshot{
		base:        newTable[Identity](),
		attributes:  newTable[actors.Attributes](),
		stances:     newTable[ideology.Stances](),
		ideology:    newTable[actors.IdeologyState](),
		finances:    newTable[actors.Finances](),
		background:  newTable[actors.Background](),
		campaign:    newTable[actors.Campaign](),
		staff:       newTable[[]actors.Staffer](),
		stanceIndex: map[string]map[string]string{},
	}
}

// Version increments with every mutation.
func (s *Snapshot) Version() uint64 {
	return s.version
}

// Len returns the number of actors.
func (s *Snapshot) Len() int {
	return s.base.Len()
}

// Has reports whether the actor exists.
func (s *Snapshot) Has(id string) bool {
	return s.base.Has(id)
}

// IDs returns actor ids in insertion order.
func (s *Snapshot) IDs() []string {
	return s.base.IDs()
}

// Base exposes the identity table for read-only iteration.
func (s *Snapshot) Base() *Table[Identity] {
	return s.base
}

// Campaign returns one actor's campaign group.
func (s *Snapshot) Campaign(id string) (actors.Campaign, bool) {
	return s.campaign.Get(id)
}

// Add writes one actor into every group.
func (s *Snapshot) Add(p *actors.Politician) *Snapshot {
	return s.WithUpserted(p)
}

// AddMany writes several actors in one new snapshot.
func (s *Snapshot) AddMany(ps []*actors.Politician) *Snapshot {
	return s.WithUpserted(ps...)
}

// Remove deletes an actor from every group. Removing an unknown id returns s.
func (s *Snapshot) Remove(id string) *Snapshot {
	return s.WithRemoved(id)
}

// WithUpserted returns a new snapshot in which every group holds the actors' slices.
// Every group table and the stance index are fresh; s is not modified.
func (s *Snapshot) WithUpserted(ps ...*actors.Politician) *Snapshot {
	var (
		base       []Row[Identity]
		attributes []Row[actors.Attributes]
		stances    []Row[ideology.Stances]
		ideo       []Row[actors.IdeologyState]
		finances   []Row[actors.Finances]
		background []Row[actors.Background]
		campaign   []Row[actors.Campaign]
		staff      []Row[[]actors.Staffer]
	)

	for _, p := range ps {
		if p == nil || p.ID == "" {
			continue
		}
		base = append(base, Row[Identity]{p.ID, identityOf(p)})
		attributes = append(attributes, Row[actors.Attributes]{p.ID, p.Attributes})
		stances = append(stances, Row[ideology.Stances]{p.ID, nonNilStances(p.Stances)})
		ideo = append(ideo, Row[actors.IdeologyState]{p.ID, p.Ideology.Clone()})
		finances = append(finances, Row[actors.Finances]{p.ID, p.Finances.Clone()})
		background = append(background, Row[actors.Background]{p.ID, p.Background})
		campaign = append(campaign, Row[actors.Campaign]{p.ID, p.Campaign})
		staff = append(staff, Row[[]actors.Staffer]{p.ID, append([]actors.Staffer{}, p.Staff...)})
	}

	next := &Snapshot{
		version:    s.version + 1,
		base:       s.base.withUpserted(base),
		attributes: s.attributes.withUpserted(attributes),
		stances:    s.stances.withUpserted(stances),
		ideology:   s.ideology.withUpserted(ideo),
		finances:   s.finances.withUpserted(finances),
		background: s.background.withUpserted(background),
		campaign:   s.campaign.withUpserted(campaign),
		staff:      s.staff.withUpserted(staff),
	}
	next.stanceIndex = s.indexWithUpserted(stances)
	return next
}

// WithRemoved returns a new snapshot without the given actors. Ids that do not exist
// are ignored; when none exist, s itself is returned.
func (s *Snapshot) WithRemoved(ids ...string) *Snapshot {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if s.base.Has(id) {
			drop[id] = struct{}{}
		}
	}
	if len(drop) == 0 {
		return s
	}

	next := &Snapshot{
		version:    s.version + 1,
		base:       s.base.withRemoved(drop),
		attributes: s.attributes.withRemoved(drop),
		stances:    s.stances.withRemoved(drop),
		ideology:   s.ideology.withRemoved(drop),
		finances:   s.finances.withRemoved(drop),
		background: s.background.withRemoved(drop),
		campaign:   s.campaign.withRemoved(drop),
		staff:      s.staff.withRemoved(drop),
	}
	next.stanceIndex = s.indexWithRemoved(drop)
	return next
}

// WithFinances returns a new snapshot in which only the finances group changes. Ids that
// are not in the base group are ignored. The finances table is fresh; the other seven
// group tables and the stance index are shared with s, which is safe because tables are
// never mutated after construction. Use WithUpserted when every group must be rebuilt.
func (s *Snapshot) WithFinances(updates map[string]actors.Finances) *Snapshot {
	var rows []Row[actors.Finances]
	s.base.Each(func(id string, _ Identity) bool {
		if f, ok := updates[id]; ok {
			rows = append(rows, Row[actors.Finances]{id, f.Clone()})
		}
		return true
	})
	if len(rows) == 0 {
		return s
	}

	next := *s
	next.version = s.version + 1
	next.finances = s.finances.withUpserted(rows)
	return &next
}

// Rehydrate rebuilds the full actor from every group. The result is a deep copy; the
// bool is false when the id is not in the base group.
func (s *Snapshot) Rehydrate(id string) (*actors.Politician, bool) {
	ident, ok := s.base.Get(id)
	if !ok {
		return nil, false
	}

	p := &actors.Politician{
		ID:            ident.ID,
		Name:          ident.Name,
		Age:           ident.Age,
		Sex:           ident.Sex,
		CountryID:     ident.CountryID,
		PartyID:       ident.PartyID,
		PartyName:     ident.PartyName,
		PartyColor:    ident.PartyColor,
		FactionID:     ident.FactionID,
		CurrentOffice: ident.CurrentOffice,
		IsIncumbent:   ident.IsIncumbent,
		IsPlayer:      ident.IsPlayer,
	}
	p.Attributes, _ = s.attributes.Get(id)
	if st, ok := s.stances.Get(id); ok {
		p.Stances = st.Clone()
	} else {
		p.Stances = ideology.Stances{}
	}
	if ideo, ok := s.ideology.Get(id); ok {
		p.Ideology = ideo.Clone()
	}
	if fin, ok := s.finances.Get(id); ok {
		p.Finances = fin.Clone()
	}
	p.Background, _ = s.background.Get(id)
	p.Campaign, _ = s.campaign.Get(id)
	if staff, ok := s.staff.Get(id); ok && len(staff) > 0 {
		p.Staff = append([]actors.Staffer(nil), staff...)
	}
	return p, true
}

// RehydrateLean rebuilds only what the per-tick simulation loops read.
func (s *Snapshot) RehydrateLean(id string) (actors.Lean, bool) {
	ident, ok := s.base.Get(id)
	if !ok {
		return actors.Lean{}, false
	}
	lean := actors.Lean{
		ID:       ident.ID,
		Name:     ident.Name,
		PartyID:  ident.PartyID,
		IsPlayer: ident.IsPlayer,
	}
	lean.Attributes, _ = s.attributes.Get(id)
	if fin, ok := s.finances.Get(id); ok {
		lean.Finances = fin.Clone()
	}
	if c, ok := s.campaign.Get(id); ok {
		lean.HoursPerDay = c.HoursPerDay
		lean.Polling = c.Polling
	}
	return lean, true
}

// Supporters returns the actors holding optionID on questionID, in id order of the
// base table.
func (s *Snapshot) Supporters(questionID, optionID string) []string {
	byActor := s.stanceIndex[questionID]
	if len(byActor) == 0 {
		return nil
	}
	var out []string
	s.base.Each(func(id string, _ Identity) bool {
		if byActor[id] == optionID {
			out = append(out, id)
		}
		return true
	})
	return out
}

// StanceCounts tallies options chosen on one question.
func (s *Snapshot) StanceCounts(questionID string) map[string]int {
	counts := map[string]int{}
	for _, opt := range s.stanceIndex[questionID] {
		counts[opt]++
	}
	return counts
}

// GroupIDs lists the ids present in one group. Unknown groups are an integration bug and
// return ErrUnknownGroup.
func (s *Snapshot) GroupIDs(g Group) ([]string, error) {
	switch g {
	case GroupBase:
		return s.base.IDs(), nil
	case GroupAttributes:
		return s.attributes.IDs(), nil
	case GroupStances:
		return s.stances.IDs(), nil
	case GroupIdeology:
		return s.ideology.IDs(), nil
	case GroupFinances:
		return s.finances.IDs(), nil
	case GroupBackground:
		return s.background.IDs(), nil
	case GroupCampaign:
		return s.campaign.IDs(), nil
	case GroupStaff:
		return s.staff.IDs(), nil
	}
	return nil, fmt.Errorf("group %q: %w", g, ErrUnknownGroup)
}

func (s *Snapshot) indexWithUpserted(rows []Row[ideology.Stances]) map[string]map[string]string {
	next := make(map[string]map[string]string, len(s.stanceIndex))
	for q, m := range s.stanceIndex {
		next[q] = m
	}

	copied := map[string]bool{}
	writable := func(q string) map[string]string {
		if copied[q] {
			return next[q]
		}
		m := make(map[string]string, len(next[q])+1)
		for k, v := range next[q] {
			m[k] = v
		}
		next[q] = m
		copied[q] = true
		return m
	}

	// A batch may carry the same id more than once; later rows replace earlier ones.
	written := map[string]ideology.Stances{}
	for _, r := range rows {
		old, ok := written[r.ID]
		if !ok {
			old, ok = s.stances.Get(r.ID)
		}
		if ok {
			for q := range old {
				delete(writable(q), r.ID)
			}
		}
		for q, opt := range r.Value {
			writable(q)[r.ID] = opt
		}
		written[r.ID] = r.Value
	}
	return next
}

func (s *Snapshot) indexWithRemoved(drop map[string]struct{}) map[string]map[string]string {
	next := make(map[string]map[string]string, len(s.stanceIndex))
	for q, m := range s.stanceIndex {
		touched := false
		for id := range drop {
			if _, ok := m[id]; ok {
				touched = true
				break
			}
		}
		if !touched {
			next[q] = m
			continue
		}
		cp := make(map[string]string, len(m))
		for k, v := range m {
			if _, gone := drop[k]; !gone {
				cp[k] = v
			}
		}
		next[q] = cp
	}
	return next
}

func identityOf(p *actors.Politician) Identity {
	return Identity{
		ID:            p.ID,
		Name:          p.Name,
		Age:           p.Age,
		Sex:           p.Sex,
		CountryID:     p.CountryID,
		PartyID:       p.PartyID,
		PartyName:     p.PartyName,
		PartyColor:    p.PartyColor,
		FactionID:     p.FactionID,
		CurrentOffice: p.CurrentOffice,
		IsIncumbent:   p.IsIncumbent,
		IsPlayer:      p.IsPlayer,
	}
}

func nonNilStances(st ideology.Stances) ideology.Stances {
	if st == nil {
		return ideology.Stances{}
	}
	return st.Clone()
}
