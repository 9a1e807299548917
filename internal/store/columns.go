package store

import (
	"github.com/talgya/polity/internal/actors"
	"github.com/talgya/polity/internal/ideology"
)

// Columns is the serialisable per-group shape of a snapshot. Rows are kept even when
// their value is empty so a round trip is lossless.
type Columns struct {
	Version    uint64                      `json:"version"`
	Base       []Row[Identity]             `json:"base"`
	Attributes []Row[actors.Attributes]    `json:"attributes"`
	Stances    []Row[ideology.Stances]     `json:"stances"`
	Ideology   []Row[actors.IdeologyState] `json:"ideology"`
	Finances   []Row[actors.Finances]      `json:"finances"`
	Background []Row[actors.Background]    `json:"background"`
	Campaign   []Row[actors.Campaign]      `json:"campaign"`
	Staff      []Row[[]actors.Staffer]     `json:"staff"`
}

// Columns exports the snapshot.
func (s *Snapshot) Columns() Columns {
	return Columns{
		Version:    s.version,
		Base:       s.base.Rows(),
		Attributes: s.attributes.Rows(),
		Stances:    s.stances.Rows(),
		Ideology:   s.ideology.Rows(),
		Finances:   s.finances.Rows(),
		Background: s.background.Rows(),
		Campaign:   s.campaign.Rows(),
		Staff:      s.staff.Rows(),
	}
}

// Group returns the rows of one group as a generic slice of id/value pairs.
func (c Columns) Group(g Group) ([]Row[any], error) {
	switch g {
	case GroupBase:
		return anyRows(c.Base), nil
	case GroupAttributes:
		return anyRows(c.Attributes), nil
	case GroupStances:
		return anyRows(c.Stances), nil
	case GroupIdeology:
		return anyRows(c.Ideology), nil
	case GroupFinances:
		return anyRows(c.Finances), nil
	case GroupBackground:
		return anyRows(c.Background), nil
	case GroupCampaign:
		return anyRows(c.Campaign), nil
	case GroupStaff:
		return anyRows(c.Staff), nil
	}
	return nil, ErrUnknownGroup
}

// FromColumns rebuilds a snapshot, including the stance index.
func FromColumns(c Columns) *Snapshot {
	s := &Snapshot{
		version:    c.Version,
		base:       tableFromRows(c.Base),
		attributes: tableFromRows(c.Attributes),
		stances:    tableFromRows(c.Stances),
		ideology:   tableFromRows(c.Ideology),
		finances:   tableFromRows(c.Finances),
		background: tableFromRows(c.Background),
		campaign:   tableFromRows(c.Campaign),
		staff:      tableFromRows(c.Staff),
	}
	s.stanceIndex = New().indexWithUpserted(c.Stances)
	return s
}

func anyRows[T any](rows []Row[T]) []Row[any] {
	out := make([]Row[any], len(rows))
	for i, r := range rows {
		out[i] = Row[any]{ID: r.ID, Value: r.Value}
	}
	return out
}
