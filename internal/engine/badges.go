package engine

import (
	"github.com/shopspring/decimal"

	"github.com/tomaszg/debtcrusher/internal/domain"
)

// BadgeID identifies one achievement in the fixed catalog.
type BadgeID string

const (
	// BadgeFirstPayment unlocks on the first recorded payment.
	BadgeFirstPayment BadgeID = "first_payment"
	// BadgeDebtEliminated unlocks when any single debt is fully paid.
	BadgeDebtEliminated BadgeID = "debt_eliminated"
	// BadgeBigHitter unlocks on any single payment at or above the
	// large-payment threshold.
	BadgeBigHitter BadgeID = "big_hitter"
	// BadgeSteadyPayer unlocks at the third recorded payment.
	BadgeSteadyPayer BadgeID = "steady_payer"
	// BadgeDebtFree unlocks when every tracked debt is settled.
	BadgeDebtFree BadgeID = "debt_free"
	// BadgeJarSmasher unlocks after the savings jar is used. It depends
	// on side-channel jar state and is granted by the session layer, not
	// by EvaluateBadges.
	BadgeJarSmasher BadgeID = "jar_smasher"
)

// Badge describes one catalog entry.
type Badge struct {
	ID          BadgeID `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
}

// BadgeCatalog is the fixed achievement catalog, in display order.
var BadgeCatalog = []Badge{
	{BadgeFirstPayment, "First Payment", "Make your first payment toward a debt."},
	{BadgeDebtEliminated, "Debt Eliminated", "Pay off a single debt in full."},
	{BadgeBigHitter, "Big Hitter", "Make a single payment of 1000 or more."},
	{BadgeSteadyPayer, "Steady Payer", "Record at least 3 payments."},
	{BadgeJarSmasher, "Jar Smasher", "Smash the savings jar at least once."},
	{BadgeDebtFree, "Debt Free", "Pay off ALL your debts."},
}

// LargePaymentThreshold is the single-payment amount that unlocks the
// big-hitter badge.
var LargePaymentThreshold = decimal.NewFromInt(1000)

// minSteadyPayments is the payment count that unlocks the steady-payer badge.
const minSteadyPayments = 3

// EvaluateBadges recomputes the unlocked badge set from scratch on every
// call; no unlock state is persisted, so a changed predicate is never
// grandfathered. The jar-smasher badge is excluded: it is not derivable
// from ledger state and payment history alone.
func EvaluateBadges(history []domain.Payment, debts []domain.Debt, totalOutstanding decimal.Decimal) []BadgeID {
	var unlocked []BadgeID

	if len(history) > 0 {
		unlocked = append(unlocked, BadgeFirstPayment)
	}

	for _, d := range debts {
		if d.Settled() && d.InitialAmount.IsPositive() {
			unlocked = append(unlocked, BadgeDebtEliminated)
			break
		}
	}

	for _, p := range history {
		if p.Amount.GreaterThanOrEqual(LargePaymentThreshold) {
			unlocked = append(unlocked, BadgeBigHitter)
			break
		}
	}

	if len(history) >= minSteadyPayments {
		unlocked = append(unlocked, BadgeSteadyPayer)
	}

	if totalOutstanding.IsZero() && len(debts) > 0 {
		unlocked = append(unlocked, BadgeDebtFree)
	}

	return unlocked
}
