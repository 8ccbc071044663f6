package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tomaszg/debtcrusher/internal/domain"
)

// ReopenBalance is the nominal balance a settled debt is restored to by
// Reopen. The pre-settlement balance is not retained anywhere, so exact
// restoration is impossible; this is accepted information loss.
var ReopenBalance = decimal.NewFromInt(100)

// PaymentResult reports the outcome of a payment application.
type PaymentResult struct {
	NewBalance decimal.Decimal
	Settled    bool
	Payment    domain.Payment
}

// ApplyPayment applies amount to the debt with the given id. The balance
// floors at zero; overpayment is legal and the payment record keeps the
// requested amount rather than the clamped delta. Settled is the sole
// trigger for any "fully paid" signal surfaced upward.
//
// ApplyPayment is intentionally not idempotent: every call appends a new
// payment record.
func (l *Ledger) ApplyPayment(id uuid.UUID, amount decimal.Decimal, now time.Time) (PaymentResult, error) {
	if !amount.IsPositive() {
		return PaymentResult{}, &domain.ValidationError{Field: "amount", Reason: "must be a positive amount"}
	}
	d, ok := l.debts[id]
	if !ok {
		return PaymentResult{}, domain.ErrNotFound
	}
	if !d.Active() {
		return PaymentResult{}, &domain.ValidationError{Field: "debt", Reason: "debt is already settled"}
	}

	newBalance := d.CurrentBalance.Sub(amount)
	if newBalance.IsNegative() {
		newBalance = decimal.Zero
	}
	d.CurrentBalance = newBalance

	return PaymentResult{
		NewBalance: newBalance,
		Settled:    newBalance.IsZero(),
		Payment: domain.Payment{
			ID:     uuid.New(),
			DebtID: id,
			Amount: amount,
			PaidAt: now,
		},
	}, nil
}

// Reopen restores a settled debt to the fixed ReopenBalance, clamped to
// the initial amount so the balance invariant holds for small debts.
// This is the one operation allowed to increase a balance.
func (l *Ledger) Reopen(id uuid.UUID) (domain.Debt, error) {
	d, ok := l.debts[id]
	if !ok {
		return domain.Debt{}, domain.ErrNotFound
	}
	if !d.Settled() {
		return domain.Debt{}, &domain.ValidationError{Field: "debt", Reason: "only settled debts can be reopened"}
	}
	restored := ReopenBalance
	if restored.GreaterThan(d.InitialAmount) {
		restored = d.InitialAmount
	}
	d.CurrentBalance = restored
	return *d, nil
}
