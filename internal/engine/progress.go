package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tomaszg/debtcrusher/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Progress aggregates payoff totals derived from the current ledger.
type Progress struct {
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	TotalInitial     decimal.Decimal `json:"total_initial"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	PercentPaid      decimal.Decimal `json:"percent_paid"` // one fractional digit
	MonthlyCapacity  decimal.Decimal `json:"monthly_capacity"`
	MonthsToFreedom  *int            `json:"months_to_freedom,omitempty"`
	FreedomDate      string          `json:"freedom_date,omitempty"`
}

// AlreadyFree is reported as the freedom date when nothing is outstanding.
const AlreadyFree = "already free"

// Summarize derives payoff totals from the given debts. It never divides
// by zero: percent paid is exactly 0 with no debts, and months-to-freedom
// stays nil when no installment capacity is declared.
func Summarize(debts []domain.Debt, now time.Time) Progress {
	p := Progress{
		TotalOutstanding: decimal.Zero,
		TotalInitial:     decimal.Zero,
		MonthlyCapacity:  decimal.Zero,
	}
	for _, d := range debts {
		p.TotalOutstanding = p.TotalOutstanding.Add(d.CurrentBalance)
		p.TotalInitial = p.TotalInitial.Add(d.InitialAmount)
		if d.Installment != nil {
			p.MonthlyCapacity = p.MonthlyCapacity.Add(*d.Installment)
		}
	}
	p.TotalPaid = p.TotalInitial.Sub(p.TotalOutstanding)

	if p.TotalInitial.IsPositive() {
		p.PercentPaid = p.TotalPaid.Div(p.TotalInitial).Mul(hundred).Round(1)
	} else {
		p.PercentPaid = decimal.Zero.Round(1)
	}

	if p.MonthlyCapacity.IsPositive() {
		months := int(p.TotalOutstanding.Div(p.MonthlyCapacity).Ceil().IntPart())
		p.MonthsToFreedom = &months
		if months == 0 {
			p.FreedomDate = AlreadyFree
		} else {
			p.FreedomDate = monthOf(now, months).Format("January 2006")
		}
	}
	return p
}

// monthOf returns the first day of the month n months after now.
func monthOf(now time.Time, n int) time.Time {
	return time.Date(now.Year(), now.Month()+time.Month(n), 1, 0, 0, 0, 0, now.Location())
}
