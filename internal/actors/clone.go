package actors

// Clone returns a deep copy of the politician.
func (p *Politician) Clone() *Politician {
	if p == nil {
		return nil
	}
	out := *p
	out.Stances = p.Stances.Clone()
	out.Ideology = p.Ideology.Clone()
	out.Finances = p.Finances.Clone()
	if p.Staff != nil {
		out.Staff = append([]Staffer(nil), p.Staff...)
	}
	return &out
}

// Clone returns a deep copy of the ideology state.
func (s IdeologyState) Clone() IdeologyState {
	s.Scores = s.Scores.Clone()
	return s
}

// Clone returns a deep copy of the finances.
func (f Finances) Clone() Finances {
	f.Record = f.Record.Clone()
	return f
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	if r.ByType != nil {
		byType := make(map[string]TypeTotals, len(r.ByType))
		for k, v := range r.ByType {
			byType[k] = v
		}
		r.ByType = byType
	}
	if r.Donors != nil {
		r.Donors = append([]DonorRef(nil), r.Donors...)
	}
	if r.Donations != nil {
		r.Donations = append([]DonationRef(nil), r.Donations...)
	}
	return r
}

// LeanOf projects a full politician onto the lean shape.
func LeanOf(p *Politician) Lean {
	return Lean{
		ID:          p.ID,
		Name:        p.Name,
		PartyID:     p.PartyID,
		IsPlayer:    p.IsPlayer,
		Attributes:  p.Attributes,
		Finances:    p.Finances.Clone(),
		HoursPerDay: p.Campaign.HoursPerDay,
		Polling:     p.Campaign.Polling,
	}
}
