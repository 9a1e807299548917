package finance

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

// LOD is the level of detail fundraising is simulated at.
type LOD uint8

const (
	LODBackground LOD = 0 // Totals only
	LODVisible    LOD = 1 // Totals split by donor type
	LODDetailed   LOD = 2 // Individual donors and donations
)

// Level is the tier of the office being contested.
type Level string

const (
	LevelNational  Level = "national"
	LevelState     Level = "state"
	LevelRegional  Level = "regional"
	LevelMunicipal Level = "municipal"
)

// Stage is how far the campaign has progressed.
type Stage string

const (
	StageEarly Stage = "early"
	StageMid   Stage = "mid"
	StageLate  Stage = "late"
)

// Election is the race fundraising is simulated for.
type Election struct {
	ID    string    `json:"id"`
	Level Level     `json:"level"`
	Stage Stage     `json:"stage"`
	Day   int       `json:"day"` // Game day, starting at 1
	Date  time.Time `json:"date"`
}

// Cadence returns how many days pass between fundraising rounds at a level.
func (l Level) Cadence() int {
	switch l {
	case LevelNational:
		return 1
	case LevelState:
		return 3
	case LevelRegional:
		return 7
	case LevelMunicipal:
		return 14
	}
	return 7
}

type levelRates struct {
	funds  float64 // Per round for a fully skilled, fully known candidate
	donors float64
}

var baseRates = map[Level]levelRates{
	LevelNational:  {funds: 60000, donors: 420},
	LevelState:     {funds: 18000, donors: 140},
	LevelRegional:  {funds: 6000, donors: 45},
	LevelMunicipal: {funds: 1800, donors: 14},
}

var stageMultipliers = map[Stage]float64{
	StageEarly: 0.6,
	StageMid:   1.0,
	StageLate:  1.6,
}

// Donor is a generated contributor.
type Donor struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Type          DonorType `json:"type"`
	Capacity      float64   `json:"capacity"`
	TotalDonated  float64   `json:"total_donated"`
	DonationCount int       `json:"donation_count"`
	IsForeign     bool      `json:"is_foreign"`
}

// Donation is one immutable contribution.
type Donation struct {
	ID                 string    `json:"id"`
	DonorID            string    `json:"donor_id"`
	DonorName          string    `json:"donor_name"`
	DonorType          DonorType `json:"donor_type"`
	RecipientID        string    `json:"recipient_id"`
	Amount             float64   `json:"amount"`
	Day                int       `json:"day"`
	Date               time.Time `json:"date"`
	IsAnonymous        bool      `json:"is_anonymous"`
	RequiresDisclosure bool      `json:"requires_disclosure"`
}

// TypeSummary is one donor type's slice of a summary.
type TypeSummary struct {
	Total   float64 `json:"total"`
	Count   int     `json:"count"`
	Largest float64 `json:"largest"`
}

// Summary is the result of one fundraising round. Fields past TotalFunds and DonorCount
// are filled from LODVisible up; Donors and Donations only at LODDetailed.
type Summary struct {
	LOD        LOD     `json:"lod"`
	TotalFunds float64 `json:"total_funds"`
	DonorCount int     `json:"donor_count"`

	ByType          map[DonorType]TypeSummary `json:"by_type,omitempty"`
	AverageDonation float64                   `json:"average_donation,omitempty"`
	LargestDonation float64                   `json:"largest_donation,omitempty"`

	Donors      []Donor    `json:"donors,omitempty"`
	Donations   []Donation `json:"donations,omitempty"`
	Disclosures int        `json:"disclosures,omitempty"`
}

// String renders the headline numbers.
func (s Summary) String() string {
	return fmt.Sprintf("%s from %s donors", Money(s.TotalFunds), humanize.Comma(int64(s.DonorCount)))
}

// Money formats whole dollars with thousands separators.
func Money(v float64) string {
	return "$" + humanize.Commaf(math.Round(v))
}
