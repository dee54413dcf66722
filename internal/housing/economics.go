// Package housing models monthly housing costs at a candidate municipality and
// the inverse question of how much space a given budget buys there.
package housing

import (
	"math"

	"github.com/sells-group/relocate-cli/internal/model"
)

// Financing and rent assumptions.
const (
	ReferenceSizeSqm = 55.0 // size the per-location apartment rent refers to
	LoanToValue      = 0.85
	AnnualRate       = 0.04
	LoanYears        = 30
)

// Loan describes an amortizing mortgage.
type Loan struct {
	AnnualRate float64
	Years      int
}

// DefaultLoan is the fixed 30-year, 4 % nominal mortgage used for owned housing.
var DefaultLoan = Loan{AnnualRate: AnnualRate, Years: LoanYears}

func (l Loan) periods() float64 { return float64(l.Years * 12) }

func (l Loan) monthlyRate() float64 { return l.AnnualRate / 12 }

// Payment returns the fixed monthly payment that amortizes principal over
// the loan term. A zero rate degrades to straight-line repayment.
func (l Loan) Payment(principal float64) float64 {
	n := l.periods()
	if n <= 0 {
		return principal
	}
	r := l.monthlyRate()
	if r == 0 {
		return principal / n
	}
	growth := math.Pow(1+r, n)
	return principal * r * growth / (growth - 1)
}

// Principal is the inverse of Payment: the largest loan a fixed monthly
// payment can service over the term.
func (l Loan) Principal(payment float64) float64 {
	n := l.periods()
	if n <= 0 {
		return payment
	}
	r := l.monthlyRate()
	if r == 0 {
		return payment * n
	}
	growth := math.Pow(1+r, n)
	return payment * (growth - 1) / (r * growth)
}

// Model computes housing economics for one loan configuration.
type Model struct {
	loan Loan
}

// NewModel returns a Model using the given loan terms.
func NewModel(loan Loan) *Model {
	return &Model{loan: loan}
}

// Default returns a Model with DefaultLoan.
func Default() *Model {
	return NewModel(DefaultLoan)
}

// Estimate is the forward result: the estimated monthly cost of the
// household's current housing type and size at the candidate.
type Estimate struct {
	Monthly   float64
	CostDelta float64 // Monthly minus the current cost; positive = more expensive
}

// MonthlyCost returns the unrounded monthly cost of a home of sizeSqm of the
// given type at loc.
func (m *Model) MonthlyCost(loc *model.Location, typ model.HousingType, sizeSqm float64) float64 {
	if typ.IsOwned() {
		price := loc.PricePerSqm * sizeSqm
		return m.loan.Payment(price * LoanToValue)
	}
	return loc.AvgRentApartment * sizeSqm / ReferenceSizeSqm
}

// EstimateDelta computes the candidate's monthly cost for the household's
// current housing and its delta to what the household pays today.
func (m *Model) EstimateDelta(loc *model.Location, h model.HousingProfile) Estimate {
	monthly := math.Round(m.MonthlyCost(loc, h.Type, h.SizeSqm))
	return Estimate{
		Monthly:   monthly,
		CostDelta: monthly - h.MonthlyCost,
	}
}

// AffordableSize returns how many square meters the household's current
// monthly cost buys at loc, rounded to whole m². When the candidate has no
// price data the household's current size is returned unchanged.
func (m *Model) AffordableSize(loc *model.Location, h model.HousingProfile) float64 {
	if h.Type.IsOwned() {
		if loc.PricePerSqm <= 0 {
			return h.SizeSqm
		}
		maxLoan := m.loan.Principal(h.MonthlyCost)
		maxPrice := maxLoan / LoanToValue
		return math.Round(maxPrice / loc.PricePerSqm)
	}
	if loc.AvgRentApartment <= 0 {
		return h.SizeSqm
	}
	return math.Round(h.MonthlyCost / loc.AvgRentApartment * ReferenceSizeSqm)
}
