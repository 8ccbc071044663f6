package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category groups a debt by its origin.
type Category string

const (
	CategoryPayday      Category = "payday"
	CategoryPrivate     Category = "private"
	CategoryBusiness    Category = "business"
	CategoryInstallment Category = "installment"
	CategoryOther       Category = "other"
)

// ParseCategory maps free-form input onto the fixed category set.
// Anything unrecognized lands in CategoryOther.
func ParseCategory(s string) Category {
	switch Category(s) {
	case CategoryPayday, CategoryPrivate, CategoryBusiness, CategoryInstallment:
		return Category(s)
	default:
		return CategoryOther
	}
}

// Debt is a single liability tracked by the ledger.
// Invariant: 0 <= CurrentBalance <= InitialAmount at all times.
type Debt struct {
	ID             uuid.UUID        `json:"id"`
	Name           string           `json:"name"`
	Category       Category         `json:"category"`
	InitialAmount  decimal.Decimal  `json:"initial_amount"`
	CurrentBalance decimal.Decimal  `json:"current_balance"`
	Rate           *decimal.Decimal `json:"rate,omitempty"`        // annual percent, nil = unknown
	Installment    *decimal.Decimal `json:"installment,omitempty"` // declared monthly installment
	Priority       int              `json:"priority"`              // advisory ordering hint only
	Note           string           `json:"note,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

// Settled reports whether the debt is fully paid off.
func (d Debt) Settled() bool {
	return d.CurrentBalance.IsZero()
}

// Active reports whether the debt still carries a balance.
func (d Debt) Active() bool {
	return d.CurrentBalance.IsPositive()
}

// RateOrZero coerces an unknown rate to zero for strategy ranking.
func (d Debt) RateOrZero() decimal.Decimal {
	if d.Rate == nil {
		return decimal.Zero
	}
	return *d.Rate
}

// DebtPatch carries the fields of a partial debt update.
// Nil fields are left untouched.
type DebtPatch struct {
	Name        *string          `json:"name,omitempty"`
	Category    *Category        `json:"category,omitempty"`
	Balance     *decimal.Decimal `json:"current_balance,omitempty"`
	Rate        *decimal.Decimal `json:"rate,omitempty"`
	Installment *decimal.Decimal `json:"installment,omitempty"`
	Priority    *int             `json:"priority,omitempty"`
	Note        *string          `json:"note,omitempty"`
}

// Payment is the immutable record of one payment application.
// The amount is the requested face value, not the clamped delta.
type Payment struct {
	ID     uuid.UUID       `json:"id"`
	DebtID uuid.UUID       `json:"debt_id"`
	Amount decimal.Decimal `json:"amount"`
	PaidAt time.Time       `json:"paid_at"`
}

// Strategy selects how active debts are ranked.
type Strategy string

const (
	// Snowball orders active debts ascending by current balance.
	Snowball Strategy = "snowball"
	// Avalanche orders active debts descending by rate; unknown rates rank last.
	Avalanche Strategy = "avalanche"
)

// ParseStrategy validates a strategy name, defaulting to snowball for
// empty input.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case Snowball, Avalanche:
		return Strategy(s), nil
	case "":
		return Snowball, nil
	default:
		return "", &ValidationError{Field: "strategy", Reason: "must be snowball or avalanche"}
	}
}

// Jar is the side-channel savings balance ("piggy bank") that can be
// smashed into a payment on the priority target.
type Jar struct {
	Balance decimal.Decimal `json:"balance"`
	Used    bool            `json:"used"`
}
