package finance

import (
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/talgya/polity/internal/actors"
	"github.com/talgya/polity/internal/entropy"
)

// Probabilities for LOD 2 donor traits.
const (
	anonymousP = 0.15
	foreignP   = 0.03
)

// Fundraising multiplier for actors without a registered party.
const independentMultiplier = 0.8

// Namer supplies personal names for individual donors.
type Namer interface {
	Name(sex actors.Sex, countryID string) string
}

// Simulator generates fundraising. It is not safe for concurrent use.
type Simulator struct {
	rng     entropy.Source
	trend   trend
	names   Namer
	parties map[string]float64
	newID   func() string
}

// NewSimulator creates a simulator. names may be nil.
func NewSimulator(rng entropy.Source, seed int64, names Namer) *Simulator {
	return &Simulator{
		rng:     rng,
		trend:   newTrend(seed),
		names:   names,
		parties: map[string]float64{},
		newID:   uuid.NewString,
	}
}

// SetPartyMultiplier registers a party's fundraising multiplier.
func (s *Simulator) SetPartyMultiplier(partyID string, m float64) {
	s.parties[partyID] = m
}

func (s *Simulator) partyMultiplier(partyID string) float64 {
	if m, ok := s.parties[partyID]; ok && m > 0 {
		return m
	}
	return independentMultiplier
}

// SimulateDonations runs one fundraising round. Every LOD draws the headline from the
// same computation, so LODBackground and LODVisible agree on TotalFunds exactly; at
// LODDetailed the total is the sum of the donations that passed the law.
func (s *Simulator) SimulateDonations(actor actors.Lean, e Election, law *Law, lod LOD) Summary {
	total, donors := s.aggregate(actor, e)

	switch lod {
	case LODBackground:
		return Summary{LOD: lod, TotalFunds: total, DonorCount: donors}
	case LODVisible:
		return s.byType(total, donors, law)
	default:
		return s.detailed(actor, e, law, total)
	}
}

// aggregate computes the headline numbers. It draws exactly one value from the source.
func (s *Simulator) aggregate(actor actors.Lean, e Election) (float64, int) {
	rates, ok := baseRates[e.Level]
	if !ok {
		rates = baseRates[LevelRegional]
	}
	stage, ok := stageMultipliers[e.Stage]
	if !ok {
		stage = 1
	}

	skill := math.Max(0.3, float64(actor.Attributes.Fundraising)/100) *
		math.Max(0.1, float64(actor.Attributes.NameRecognition)/100)
	effort := entropy.Clamp(0.5+actor.HoursPerDay/12, 0.5, 1.5)
	momentum := s.trend.at(actor.ID, e.Day)
	variance := entropy.Between(s.rng, 0.8, 1.2)

	scale := stage * skill * momentum * variance
	total := math.Round(rates.funds * scale * s.partyMultiplier(actor.PartyID) * effort)
	donors := max(1, int(math.Round(rates.donors*scale)))
	return total, donors
}

func (s *Simulator) byType(total float64, donors int, law *Law) Summary {
	sum := Summary{
		LOD:        LODVisible,
		TotalFunds: total,
		DonorCount: donors,
		ByType:     map[DonorType]TypeSummary{},
	}

	shares := law.shares()
	givenFunds, givenDonors := 0.0, 0
	for i, sh := range shares {
		ts := TypeSummary{}
		if i == len(shares)-1 {
			ts.Total = total - givenFunds
			ts.Count = donors - givenDonors
		} else {
			ts.Total = math.Round(total * sh.share)
			ts.Count = int(math.Round(float64(donors) * sh.share))
		}
		givenFunds += ts.Total
		givenDonors += ts.Count

		if ts.Count > 0 && ts.Total > 0 {
			avg := ts.Total / float64(ts.Count)
			largest := math.Min(avg*entropy.Between(s.rng, 2.5, 6), ts.Total)
			ts.Largest = math.Round(math.Min(largest, law.Limit(sh.t)))
		}
		sum.ByType[sh.t] = ts
		sum.LargestDonation = math.Max(sum.LargestDonation, ts.Largest)
	}
	if donors > 0 {
		sum.AverageDonation = math.Round(total/float64(donors)*100) / 100
	}
	return sum
}

// seedDonors returns how many donors a detailed round approaches.
func (s *Simulator) seedDonors(stage Stage) int {
	switch stage {
	case StageMid:
		return s.rng.IntRange(30, 120)
	case StageLate:
		return s.rng.IntRange(60, 200)
	}
	return s.rng.IntRange(8, 50)
}

func (s *Simulator) detailed(actor actors.Lean, e Election, law *Law, target float64) Summary {
	shares := law.shares()
	weights := make([]float64, len(shares))
	for i, sh := range shares {
		weights[i] = sh.share
	}

	n := s.seedDonors(e.Stage)
	perDonor := target / float64(n)

	sum := Summary{LOD: LODDetailed, ByType: map[DonorType]TypeSummary{}}
	for i := 0; i < n; i++ {
		t := shares[max(0, entropy.Weighted(s.rng, weights))].t
		d := Donor{
			ID:        s.newID(),
			Name:      s.donorName(t),
			Type:      t,
			Capacity:  capacityFor(t, law),
			IsForeign: entropy.Chance(s.rng, foreignP),
		}
		anonymous := entropy.Chance(s.rng, anonymousP)

		amount := math.Round(perDonor * entropy.Between(s.rng, 0.2, 2.5))
		amount = math.Max(5, math.Min(amount, d.Capacity))
		if !law.CanDonate(&d, amount, anonymous) {
			continue
		}

		d.TotalDonated = amount
		d.DonationCount = 1
		donation := Donation{
			ID:                 s.newID(),
			DonorID:            d.ID,
			DonorName:          d.Name,
			DonorType:          t,
			RecipientID:        actor.ID,
			Amount:             amount,
			Day:                e.Day,
			Date:               e.Date,
			IsAnonymous:        anonymous,
			RequiresDisclosure: law.RequiresDisclosure(amount),
		}
		if donation.RequiresDisclosure {
			sum.Disclosures++
		}

		sum.Donors = append(sum.Donors, d)
		sum.Donations = append(sum.Donations, donation)
		sum.TotalFunds += amount

		ts := sum.ByType[t]
		ts.Total += amount
		ts.Count++
		ts.Largest = math.Max(ts.Largest, amount)
		sum.ByType[t] = ts
		sum.LargestDonation = math.Max(sum.LargestDonation, amount)
	}

	sort.SliceStable(sum.Donations, func(i, j int) bool {
		return sum.Donations[i].Amount > sum.Donations[j].Amount
	})

	sum.DonorCount = len(sum.Donors)
	if sum.DonorCount > 0 {
		sum.AverageDonation = math.Round(sum.TotalFunds/float64(sum.DonorCount)*100) / 100
	}
	return sum
}

// Caps used when a law sets no limit for a type.
var defaultCapacity = map[DonorType]float64{
	DonorIndividual: 5000,
	DonorCorporate:  50000,
	DonorUnion:      25000,
	DonorOther:      10000,
}

func capacityFor(t DonorType, law *Law) float64 {
	if limit := law.Limit(t); !math.IsInf(limit, 1) {
		return limit
	}
	return defaultCapacity[t]
}

func (s *Simulator) donorName(t DonorType) string {
	switch t {
	case DonorCorporate:
		return entropy.Pick(s.rng, companyStems) + " " + entropy.Pick(s.rng, companySuffixes)
	case DonorUnion:
		return fmt.Sprintf("%s Local %d", entropy.Pick(s.rng, unionTrades), s.rng.IntRange(10, 999))
	case DonorOther:
		return entropy.Pick(s.rng, companyStems) + " Action Fund"
	}
	if s.names == nil {
		return fmt.Sprintf("Donor %d", s.rng.IntRange(1000, 9999))
	}
	sex := actors.SexMale
	if entropy.Chance(s.rng, 0.5) {
		sex = actors.SexFemale
	}
	return s.names.Name(sex, "")
}

var companyStems = []string{
	"Summit", "Pinnacle", "Harbor", "Keystone", "Redwood", "Liberty",
	"Meridian", "Granite", "Northstar", "Silverline", "Bluewater", "Ironbridge",
}

var companySuffixes = []string{
	"Holdings", "Industries", "Capital", "Energy", "Partners", "Logistics", "Group",
}

var unionTrades = []string{
	"Teachers Federation", "Steelworkers", "Nurses Association", "Electrical Workers",
	"Teamsters", "Service Employees", "Carpenters Union",
}
