package social

import (
	"github.com/talgya/polity/internal/actors"
)

// Finances is a party's money: treasury, the standing monthly breakdown, donors, and
// merchandise stock.
type Finances struct {
	Treasury        float64            `json:"treasury"`
	MonthlyIncome   map[string]float64 `json:"monthly_income"`
	MonthlyExpenses map[string]float64 `json:"monthly_expenses"`
	Donors          []actors.DonorRef  `json:"donors"`
	Merchandise     []MerchandiseItem  `json:"merchandise"`

	TotalRaised      float64 `json:"total_raised"`
	LastMonthNet     float64 `json:"last_month_net"`
	LastProcessedDay int     `json:"last_processed_day"`
}

// MerchandiseItem is one line of party merchandise.
type MerchandiseItem struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	UnitCost  float64 `json:"unit_cost"`
	UnitPrice float64 `json:"unit_price"`
	Stock     int     `json:"stock"`
	Sold      int     `json:"sold"`
}

// Income sums the monthly income breakdown.
func (f Finances) Income() float64 {
	return sumValues(f.MonthlyIncome)
}

// Expenses sums the monthly expense breakdown.
func (f Finances) Expenses() float64 {
	return sumValues(f.MonthlyExpenses)
}

// Donor returns the index of a donor in the list, or -1.
func (f Finances) Donor(id string) int {
	for i, d := range f.Donors {
		if d.ID == id {
			return i
		}
	}
	return -1
}

func (f Finances) clone() Finances {
	out := f
	out.MonthlyIncome = cloneAmounts(f.MonthlyIncome)
	out.MonthlyExpenses = cloneAmounts(f.MonthlyExpenses)
	out.Donors = append([]actors.DonorRef(nil), f.Donors...)
	out.Merchandise = append([]MerchandiseItem(nil), f.Merchandise...)
	return out
}

func cloneAmounts(m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func sumValues(m map[string]float64) float64 {
	total := 0.0
	for _, v := range m {
		total += v
	}
	return total
}
