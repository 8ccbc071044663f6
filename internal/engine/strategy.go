package engine

import (
	"sort"

	"github.com/tomaszg/debtcrusher/internal/domain"
)

// Rank orders the active debts under the given strategy. The sort is
// stable so equal balances or rates keep their insertion order, which
// keeps the ranking deterministic across recomputes. The first element
// is the priority target.
func Rank(debts []domain.Debt, strategy domain.Strategy) []domain.Debt {
	ranked := make([]domain.Debt, 0, len(debts))
	for _, d := range debts {
		if d.Active() {
			ranked = append(ranked, d)
		}
	}
	switch strategy {
	case domain.Avalanche:
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].RateOrZero().GreaterThan(ranked[j].RateOrZero())
		})
	default:
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].CurrentBalance.LessThan(ranked[j].CurrentBalance)
		})
	}
	return ranked
}

// PriorityTarget returns the single debt the engine recommends attacking
// next, or false when no debt is active.
func PriorityTarget(debts []domain.Debt, strategy domain.Strategy) (domain.Debt, bool) {
	ranked := Rank(debts, strategy)
	if len(ranked) == 0 {
		return domain.Debt{}, false
	}
	return ranked[0], true
}

// SettledDebts returns the fully paid debts, ordered ascending by their
// initial amount.
func SettledDebts(debts []domain.Debt) []domain.Debt {
	out := make([]domain.Debt, 0)
	for _, d := range debts {
		if d.Settled() {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].InitialAmount.LessThan(out[j].InitialAmount)
	})
	return out
}
