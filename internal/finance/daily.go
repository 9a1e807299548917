package finance

import (
	"log/slog"
	"math"

	"github.com/talgya/polity/internal/actors"
	"github.com/talgya/polity/internal/entropy"
	"github.com/talgya/polity/internal/social"
)

// ProcessDailyDonations runs a fundraising round for the actor when the election level's
// cadence has elapsed since the last one, and merges the result into the actor's record.
// Calling it twice for the same day is a no-op. The bool reports whether a round ran.
func (s *Simulator) ProcessDailyDonations(actor *actors.Lean, e Election, law *Law, lod LOD) (Summary, bool) {
	rec := &actor.Finances.Record
	if rec.LastProcessedDay > 0 && e.Day < rec.LastProcessedDay+e.Level.Cadence() {
		return Summary{}, false
	}

	sum := s.SimulateDonations(*actor, e, law, lod)
	actor.Finances.CampaignFunds += sum.TotalFunds
	Merge(rec, sum)
	rec.LastProcessedDay = e.Day

	slog.Debug("donations processed", "actor", actor.ID, "day", e.Day, "lod", lod, "raised", sum.TotalFunds)
	return sum, true
}

// MaxRecordDonations bounds the donations kept on an actor's record. Older ones live only
// in the donation ledger.
const MaxRecordDonations = 100

// Merge adds a summary onto a record. Only the fields the summary's LOD produced are touched.
func Merge(rec *actors.Record, sum Summary) {
	rec.TotalRaised += sum.TotalFunds
	rec.DonorCount += sum.DonorCount
	if rec.DonorCount > 0 {
		rec.AverageDonation = math.Round(rec.TotalRaised/float64(rec.DonorCount)*100) / 100
	}
	if sum.LOD == LODBackground {
		return
	}

	rec.LargestDonation = math.Max(rec.LargestDonation, sum.LargestDonation)
	if rec.ByType == nil {
		rec.ByType = map[string]actors.TypeTotals{}
	}
	for t, ts := range sum.ByType {
		cur := rec.ByType[string(t)]
		cur.Total += ts.Total
		cur.Count += ts.Count
		cur.Largest = math.Max(cur.Largest, ts.Largest)
		rec.ByType[string(t)] = cur
	}
	if sum.LOD != LODDetailed {
		return
	}

	known := make(map[string]int, len(rec.Donors))
	for i, d := range rec.Donors {
		known[d.ID] = i
	}
	for _, d := range sum.Donors {
		if i, ok := known[d.ID]; ok {
			rec.Donors[i].TotalDonated += d.TotalDonated
			continue
		}
		known[d.ID] = len(rec.Donors)
		rec.Donors = append(rec.Donors, actors.DonorRef{
			ID:           d.ID,
			Name:         d.Name,
			Type:         string(d.Type),
			TotalDonated: d.TotalDonated,
		})
	}
	for _, dn := range sum.Donations {
		rec.Donations = append(rec.Donations, actors.DonationRef{
			ID:                 dn.ID,
			DonorID:            dn.DonorID,
			Amount:             dn.Amount,
			Day:                dn.Day,
			IsAnonymous:        dn.IsAnonymous,
			RequiresDisclosure: dn.RequiresDisclosure,
		})
	}
	if n := len(rec.Donations); n > MaxRecordDonations {
		rec.Donations = append([]actors.DonationRef(nil), rec.Donations[n-MaxRecordDonations:]...)
	}
	rec.Disclosures += sum.Disclosures
}

// MergeIntoParty books a member's fundraising round on the party: the total, and at
// LODDetailed every donor onto the party's donor list.
func MergeIntoParty(party *social.Party, sum Summary) {
	pf := &party.Finances
	pf.TotalRaised += sum.TotalFunds
	for _, d := range sum.Donors {
		if i := pf.Donor(d.ID); i >= 0 {
			pf.Donors[i].TotalDonated += d.TotalDonated
			continue
		}
		pf.Donors = append(pf.Donors, actors.DonorRef{
			ID:           d.ID,
			Name:         d.Name,
			Type:         string(d.Type),
			TotalDonated: d.TotalDonated,
		})
	}
}

// monthDays is the minimum spacing between party finance rounds.
const monthDays = 28

// ProcessMonthlyPartyFinances applies the party's standing income and expenses plus the
// month's merchandise sales to its treasury. It returns the month's net and false when a
// round already ran within the last month.
func (s *Simulator) ProcessMonthlyPartyFinances(party *social.Party, day int) (float64, bool) {
	pf := &party.Finances
	if pf.LastProcessedDay > 0 && day < pf.LastProcessedDay+monthDays {
		return 0, false
	}

	net := pf.Income() - pf.Expenses()
	for i := range pf.Merchandise {
		item := &pf.Merchandise[i]
		if item.Stock <= 0 {
			continue
		}
		sold := s.rng.IntRange(0, max(1, item.Stock/5))
		sold = entropy.Clamp(sold, 0, item.Stock)
		item.Stock -= sold
		item.Sold += sold
		net += float64(sold) * (item.UnitPrice - item.UnitCost)
	}

	net = math.Round(net)
	pf.Treasury += net
	pf.LastMonthNet = net
	pf.LastProcessedDay = day

	if pf.Treasury < 0 {
		slog.Warn("party treasury overdrawn", "party", party.Name, "treasury", Money(pf.Treasury))
	}
	return net, true
}
