package engine

import (
	"github.com/google/uuid"

	"github.com/tomaszg/debtcrusher/internal/domain"
)

// Ledger owns the in-memory debt collection for one session. It performs
// no I/O; persistence is the caller's concern.
type Ledger struct {
	order []uuid.UUID
	debts map[uuid.UUID]*domain.Debt
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{debts: make(map[uuid.UUID]*domain.Debt)}
}

// Restore builds a ledger from previously persisted debts, preserving
// their order.
func Restore(debts []domain.Debt) *Ledger {
	l := NewLedger()
	for _, d := range debts {
		cp := d
		l.order = append(l.order, cp.ID)
		l.debts[cp.ID] = &cp
	}
	return l
}

// Add validates and inserts a new debt, assigning its id. The current
// balance defaults to the initial amount when unset.
func (l *Ledger) Add(d domain.Debt) (uuid.UUID, error) {
	if d.Name == "" {
		return uuid.Nil, &domain.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if !d.InitialAmount.IsPositive() {
		return uuid.Nil, &domain.ValidationError{Field: "initial_amount", Reason: "must be a positive amount"}
	}
	if d.CurrentBalance.IsZero() {
		d.CurrentBalance = d.InitialAmount
	}
	if err := checkInvariant(d); err != nil {
		return uuid.Nil, err
	}
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.Category == "" {
		d.Category = domain.CategoryOther
	}
	l.order = append(l.order, d.ID)
	l.debts[d.ID] = &d
	return d.ID, nil
}

// Get returns a copy of the debt with the given id.
func (l *Ledger) Get(id uuid.UUID) (domain.Debt, error) {
	d, ok := l.debts[id]
	if !ok {
		return domain.Debt{}, domain.ErrNotFound
	}
	return *d, nil
}

// Update merges the patch into the stored debt and re-validates the
// balance invariant. Callers are expected to clamp balances before
// calling; a violation here signals a precondition bug.
func (l *Ledger) Update(id uuid.UUID, patch domain.DebtPatch) (domain.Debt, error) {
	d, ok := l.debts[id]
	if !ok {
		return domain.Debt{}, domain.ErrNotFound
	}
	merged := *d
	if patch.Name != nil {
		if *patch.Name == "" {
			return domain.Debt{}, &domain.ValidationError{Field: "name", Reason: "must not be empty"}
		}
		merged.Name = *patch.Name
	}
	if patch.Category != nil {
		merged.Category = domain.ParseCategory(string(*patch.Category))
	}
	if patch.Balance != nil {
		merged.CurrentBalance = *patch.Balance
	}
	if patch.Rate != nil {
		r := *patch.Rate
		merged.Rate = &r
	}
	if patch.Installment != nil {
		inst := *patch.Installment
		merged.Installment = &inst
	}
	if patch.Priority != nil {
		merged.Priority = *patch.Priority
	}
	if patch.Note != nil {
		merged.Note = *patch.Note
	}
	if err := checkInvariant(merged); err != nil {
		return domain.Debt{}, err
	}
	*d = merged
	return merged, nil
}

// Remove deletes the debt with the given id.
func (l *Ledger) Remove(id uuid.UUID) error {
	if _, ok := l.debts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(l.debts, id)
	for i, oid := range l.order {
		if oid == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns copies of all debts in insertion order.
func (l *Ledger) List() []domain.Debt {
	out := make([]domain.Debt, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, *l.debts[id])
	}
	return out
}

// Len returns the number of debts in the ledger.
func (l *Ledger) Len() int {
	return len(l.debts)
}

func checkInvariant(d domain.Debt) error {
	if d.CurrentBalance.IsNegative() {
		return domain.ErrInvariantViolation
	}
	if d.CurrentBalance.GreaterThan(d.InitialAmount) {
		return domain.ErrInvariantViolation
	}
	return nil
}
