package models

import (
	"github.com/shopspring/decimal"

	"github.com/tomaszg/debtcrusher/internal/domain"
	"github.com/tomaszg/debtcrusher/internal/engine"
)

// AddDebtRequest is the payload for creating a debt.
type AddDebtRequest struct {
	Name          string           `json:"name"`
	Category      string           `json:"category"`
	InitialAmount decimal.Decimal  `json:"initial_amount"`
	Rate          *decimal.Decimal `json:"rate,omitempty"`
	Installment   *decimal.Decimal `json:"installment,omitempty"`
	Priority      int              `json:"priority,omitempty"`
	Note          string           `json:"note,omitempty"`
}

// PaymentRequest is the payload for applying a payment to a debt.
type PaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// PaymentResponse reports the outcome of a payment application. Settled
// is the one signal the presentation layer keys celebrations on.
type PaymentResponse struct {
	Payment    domain.Payment  `json:"payment"`
	NewBalance decimal.Decimal `json:"new_balance"`
	Settled    bool            `json:"settled"`
}

// SavingsRequest is the payload for topping up the savings jar.
type SavingsRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// JarResponse is the savings jar state returned after jar operations.
type JarResponse struct {
	Balance decimal.Decimal `json:"balance"`
	Used    bool            `json:"used"`
}

// Overview is the full derived view state handed to the presentation
// layer: ranked debts, totals, projection, progression and badges.
type Overview struct {
	Strategy       domain.Strategy  `json:"strategy"`
	ActiveDebts    []domain.Debt    `json:"active_debts"`
	PriorityTarget *domain.Debt     `json:"priority_target,omitempty"`
	SettledDebts   []domain.Debt    `json:"settled_debts"`
	Progress       engine.Progress  `json:"progress"`
	Schedule       engine.Schedule  `json:"schedule"`
	Level          engine.LevelInfo `json:"level"`
	Badges         []engine.BadgeID `json:"badges"`
	JarBalance     decimal.Decimal  `json:"jar_balance"`
}
