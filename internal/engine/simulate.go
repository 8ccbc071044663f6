package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxSimulationMonths caps the burn-down horizon at ten years so the
// schedule terminates even when the capacity cannot finish the balance.
const MaxSimulationMonths = 120

// ScheduleEntry is one month of the projected burn-down.
type ScheduleEntry struct {
	MonthIndex int             `json:"month_index"`
	Date       time.Time       `json:"date"`
	Remaining  decimal.Decimal `json:"remaining"`
	Progress   decimal.Decimal `json:"progress_percent"`
}

// Schedule is the month-by-month payoff projection. ReachedCap is set
// when the horizon cap truncated the schedule before the balance hit
// zero; callers must not treat a truncated schedule as complete.
type Schedule struct {
	Entries    []ScheduleEntry `json:"entries"`
	ReachedCap bool            `json:"reached_cap"`
}

// Simulate projects a linear amortization: each month subtracts the full
// monthly capacity from the running balance, floored at zero. There is
// no per-debt allocation and no interest accrual. The schedule is empty
// when no capacity is declared.
func Simulate(outstanding, capacity, initialTotal decimal.Decimal, now time.Time) Schedule {
	var s Schedule
	if !capacity.IsPositive() {
		return s
	}

	remaining := outstanding
	for month := 1; remaining.IsPositive(); month++ {
		if month > MaxSimulationMonths {
			s.ReachedCap = true
			break
		}
		remaining = remaining.Sub(capacity)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}
		progress := hundred
		if initialTotal.IsPositive() {
			progress = initialTotal.Sub(remaining).Div(initialTotal).Mul(hundred)
			if progress.IsNegative() {
				progress = decimal.Zero
			}
		}
		s.Entries = append(s.Entries, ScheduleEntry{
			MonthIndex: month,
			Date:       monthOf(now, month),
			Remaining:  remaining,
			Progress:   progress.Round(1),
		})
	}
	return s
}
