// Package actors provides the politician data model shared by the generator, the
// entity store, and the finance simulator.
package actors

import (
	"github.com/talgya/polity/internal/ideology"
)

// IndependentID is the party id of actors with no party.
const IndependentID = "independent"

// IndependentName is the display name used for unaffiliated actors.
const IndependentName = "Independent"

// IndependentColor is the display color used for unaffiliated actors.
const IndependentColor = "#b0b0b0"

// Sex represents the actor's sex for name generation and demographics.
type Sex uint8

const (
	SexMale   Sex = 0
	SexFemale Sex = 1
)

// String returns the lower-case sex label.
func (s Sex) String() string {
	if s == SexFemale {
		return "female"
	}
	return "male"
}

// Politician is a political actor, human or AI controlled.
type Politician struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Age       int    `json:"age"`
	Sex       Sex    `json:"sex"`
	CountryID string `json:"country_id"`

	// Affiliation
	PartyID    string `json:"party_id"`
	PartyName  string `json:"party_name"`
	PartyColor string `json:"party_color"`
	FactionID  string `json:"faction_id,omitempty"`

	Attributes Attributes       `json:"attributes"`
	Stances    ideology.Stances `json:"policy_stances"`
	Ideology   IdeologyState    `json:"ideology"`

	// Office and career
	CurrentOffice string `json:"current_office,omitempty"`
	IsIncumbent   bool   `json:"is_incumbent"`
	IsPlayer      bool   `json:"is_player"`

	Campaign   Campaign   `json:"campaign"`
	Finances   Finances   `json:"finances"`
	Background Background `json:"background"`
	Staff      []Staffer  `json:"staff,omitempty"`
}

// Attributes are skill scores bounded to [0, 100].
type Attributes struct {
	Charisma        int `json:"charisma"`
	Integrity       int `json:"integrity"`
	Intelligence    int `json:"intelligence"`
	Fundraising     int `json:"fundraising"`
	Negotiation     int `json:"negotiation"`
	Oratory         int `json:"oratory"`
	Management      int `json:"management"`
	NameRecognition int `json:"name_recognition"`
}

// IdeologyState is the actor's emergent ideology: its classification and its scores.
type IdeologyState struct {
	ID     string           `json:"id"`
	Name   string           `json:"name"`
	Scores ideology.Profile `json:"scores"`
}

// Campaign holds the actor's campaign activity.
type Campaign struct {
	IsInCampaign   bool    `json:"is_in_campaign"`
	HoursPerDay    float64 `json:"hours_per_day"`
	VolunteerCount int     `json:"volunteer_count"`
	Polling        float64 `json:"polling"` // Percent, 0–100
}

// Finances is the actor's money plus the record grown by the finance simulator.
type Finances struct {
	Treasury      float64 `json:"treasury"`
	CampaignFunds float64 `json:"campaign_funds"`
	Record        Record  `json:"record"`
}

// Record aggregates generated fundraising. Fields fill in by fidelity tier: totals always,
// by-type breakdown from tier 1, individual donors and donations from tier 2.
type Record struct {
	TotalRaised      float64               `json:"total_raised"`
	DonorCount       int                   `json:"donor_count"`
	ByType           map[string]TypeTotals `json:"by_type,omitempty"`
	AverageDonation  float64               `json:"average_donation,omitempty"`
	LargestDonation  float64               `json:"largest_donation,omitempty"`
	Donors           []DonorRef            `json:"donors,omitempty"`
	Donations        []DonationRef         `json:"donations,omitempty"`
	Disclosures      int                   `json:"disclosures,omitempty"`
	LastProcessedDay int                   `json:"last_processed_day"`
}

// TypeTotals is the per-donor-type slice of a record.
type TypeTotals struct {
	Total   float64 `json:"total"`
	Count   int     `json:"count"`
	Largest float64 `json:"largest"`
}

// DonorRef is a donor as remembered on an actor's record.
type DonorRef struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	TotalDonated float64 `json:"total_donated"`
}

// DonationRef is an immutable donation on an actor's record.
type DonationRef struct {
	ID                 string  `json:"id"`
	DonorID            string  `json:"donor_id"`
	Amount             float64 `json:"amount"`
	Day                int     `json:"day"`
	IsAnonymous        bool    `json:"is_anonymous"`
	RequiresDisclosure bool    `json:"requires_disclosure"`
}

// Background is cosmetic biography data.
type Background struct {
	Education  string `json:"education"`
	Career     string `json:"career"`
	Hometown   string `json:"hometown"`
	YearsInPol int    `json:"years_in_politics"`
}

// Staffer is a member of an actor's staff roster.
type Staffer struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Role   string  `json:"role"`
	Skill  int     `json:"skill"`
	Salary float64 `json:"salary"`
}

// Lean is the projection used by high-frequency simulation loops.
type Lean struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	PartyID     string     `json:"party_id"`
	IsPlayer    bool       `json:"is_player"`
	Attributes  Attributes `json:"attributes"`
	Finances    Finances   `json:"finances"`
	HoursPerDay float64    `json:"hours_per_day"`
	Polling     float64    `json:"polling"`
}

// IsIndependent reports whether the actor has no party.
func (p *Politician) IsIndependent() bool {
	return p.PartyID == "" || p.PartyID == IndependentID
}
