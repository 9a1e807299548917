package social

// Committee is a standing party committee.
type Committee struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	FocusArea  string            `json:"focus_area"`
	Chair      CommitteeMember   `json:"chair"`
	Members    []CommitteeMember `json:"members"`
	Budget     float64           `json:"budget"`
	Importance int               `json:"importance"` // 1–10
}

// CommitteeMember is a committee seat. ActorID is set when the seat is held by a
// politician in the store; other seats are party functionaries.
type CommitteeMember struct {
	ID        string `json:"id"`
	ActorID   string `json:"actor_id,omitempty"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Influence int    `json:"influence"`
	Expertise int    `json:"expertise"`
	Loyalty   int    `json:"loyalty"`
}

// CommitteeTemplate is catalog data for one kind of committee.
type CommitteeTemplate struct {
	ID         string   `yaml:"id" json:"id"`
	Name       string   `yaml:"name" json:"name"`
	FocusArea  string   `yaml:"focus_area" json:"focus_area"`
	Importance int      `yaml:"importance" json:"importance"`
	BaseBudget float64  `yaml:"base_budget" json:"base_budget"`
	Roles      []string `yaml:"roles,omitempty" json:"roles,omitempty"`
}

// Size returns the number of seats including the chair.
func (c *Committee) Size() int {
	return len(c.Members) + 1
}

// TotalInfluence sums chair and member influence.
func (c *Committee) TotalInfluence() int {
	total := c.Chair.Influence
	for _, m := range c.Members {
		total += m.Influence
	}
	return total
}
