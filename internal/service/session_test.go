package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tomaszg/debtcrusher/internal/domain"
	"github.com/tomaszg/debtcrusher/internal/engine"
	"github.com/tomaszg/debtcrusher/internal/store"
)

type MockStore struct {
	Debts    []domain.Debt
	History  []domain.Payment
	JarState domain.Jar

	FailReads  bool
	FailWrites bool

	SavedDebts      int
	RecordedAmounts []decimal.Decimal
}

func (m *MockStore) LoadDebts(ctx context.Context) ([]domain.Debt, error) {
	if m.FailReads {
		return nil, errors.New("remote unavailable")
	}
	return m.Debts, nil
}

func (m *MockStore) LoadPayments(ctx context.Context, limit int) ([]domain.Payment, error) {
	if m.FailReads {
		return nil, errors.New("remote unavailable")
	}
	return m.History, nil
}

func (m *MockStore) SaveDebt(ctx context.Context, d domain.Debt) error {
	if m.FailWrites {
		return errors.New("save failed")
	}
	m.SavedDebts++
	return nil
}

func (m *MockStore) DeleteDebt(ctx context.Context, id uuid.UUID) error {
	if m.FailWrites {
		return errors.New("delete failed")
	}
	return nil
}

func (m *MockStore) RecordPayment(ctx context.Context, p domain.Payment) error {
	if m.FailWrites {
		return errors.New("record failed")
	}
	m.RecordedAmounts = append(m.RecordedAmounts, p.Amount)
	return nil
}

func (m *MockStore) LoadJar(ctx context.Context) (domain.Jar, error) {
	if m.FailReads {
		return domain.Jar{}, errors.New("remote unavailable")
	}
	return m.JarState, nil
}

func (m *MockStore) SaveJar(ctx context.Context, jar domain.Jar) error {
	if m.FailWrites {
		return errors.New("jar save failed")
	}
	m.JarState = jar
	return nil
}

func fixedNow() time.Time {
	return time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
}

func testDebt(name string, balance int64) domain.Debt {
	amount := decimal.NewFromInt(balance)
	return domain.Debt{
		ID:             uuid.New(),
		Name:           name,
		Category:       domain.CategoryPrivate,
		InitialAmount:  amount,
		CurrentBalance: amount,
	}
}

func newTestSession(st Store, cache store.SnapshotCache) *Session {
	s := NewSession(st, cache)
	s.now = fixedNow
	return s
}

func TestLoadPrefersRemote(t *testing.T) {
	mock := &MockStore{Debts: []domain.Debt{testDebt("remote", 100)}}
	cache := store.NewMemoryCache()
	cache.SaveSnapshot(context.Background(), store.Snapshot{
		Debts: []domain.Debt{testDebt("cached", 999)},
	})

	s := newTestSession(mock, cache)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	ov := s.Overview(domain.Snowball)
	if len(ov.ActiveDebts) != 1 || ov.ActiveDebts[0].Name != "remote" {
		t.Fatalf("expected remote state, got %+v", ov.ActiveDebts)
	}
}

func TestLoadFallsBackToSnapshotOnRemoteError(t *testing.T) {
	mock := &MockStore{FailReads: true}
	cache := store.NewMemoryCache()
	cache.SaveSnapshot(context.Background(), store.Snapshot{
		Debts: []domain.Debt{testDebt("cached", 500)},
	})

	s := newTestSession(mock, cache)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load must degrade, not fail: %v", err)
	}
	ov := s.Overview(domain.Snowball)
	if len(ov.ActiveDebts) != 1 || ov.ActiveDebts[0].Name != "cached" {
		t.Fatalf("expected cached state, got %+v", ov.ActiveDebts)
	}
}

func TestLoadSeedsEmptyRemoteFromSnapshot(t *testing.T) {
	mock := &MockStore{} // reachable but empty
	cache := store.NewMemoryCache()
	snap := store.Snapshot{
		Debts:    []domain.Debt{testDebt("cached", 500)},
		Payments: []domain.Payment{{ID: uuid.New(), Amount: decimal.NewFromInt(50), PaidAt: fixedNow()}},
	}
	cache.SaveSnapshot(context.Background(), snap)

	s := newTestSession(mock, cache)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if mock.SavedDebts != 1 {
		t.Fatalf("expected 1 seeded debt, got %d", mock.SavedDebts)
	}
	if len(mock.RecordedAmounts) != 1 {
		t.Fatalf("expected 1 seeded payment, got %d", len(mock.RecordedAmounts))
	}
}

func TestLoadEmptyEverywhere(t *testing.T) {
	s := newTestSession(&MockStore{}, store.NewMemoryCache())
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	ov := s.Overview(domain.Snowball)
	if len(ov.ActiveDebts) != 0 || len(ov.SettledDebts) != 0 {
		t.Fatal("expected an empty ledger")
	}
}

// A failed remote save never rolls back the in-memory payment: the
// mutation stands and a later reconciliation owns the gap.
func TestApplyPaymentIsOptimisticOnWriteFailure(t *testing.T) {
	debt := testDebt("card", 100)
	mock := &MockStore{Debts: []domain.Debt{debt}, FailWrites: true}
	s := newTestSession(mock, store.NewMemoryCache())
	s.Load(context.Background())

	res, err := s.ApplyPayment(context.Background(), debt.ID, decimal.NewFromInt(40))
	if err != nil {
		t.Fatalf("ApplyPayment: %v", err)
	}
	if !res.NewBalance.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("expected balance 60, got %s", res.NewBalance)
	}
	if got := len(s.Payments(0)); got != 1 {
		t.Fatalf("expected 1 payment in history, got %d", got)
	}
}

// Full payoff scenario: three debts with balances 100, 50 and 200.
// Snowball ranks them 50, 100, 200; two 50 payments on the middle debt
// settle it and unlock the elimination badge.
func TestSnowballPayoffScenario(t *testing.T) {
	small := testDebt("small", 50)
	mid := testDebt("mid", 100)
	large := testDebt("large", 200)
	mock := &MockStore{Debts: []domain.Debt{mid, small, large}}
	s := newTestSession(mock, store.NewMemoryCache())
	s.Load(context.Background())

	ov := s.Overview(domain.Snowball)
	if ov.ActiveDebts[0].Name != "small" || ov.ActiveDebts[1].Name != "mid" || ov.ActiveDebts[2].Name != "large" {
		t.Fatalf("snowball ranking wrong: %s, %s, %s",
			ov.ActiveDebts[0].Name, ov.ActiveDebts[1].Name, ov.ActiveDebts[2].Name)
	}
	if ov.PriorityTarget == nil || ov.PriorityTarget.Name != "small" {
		t.Fatal("expected small as priority target")
	}

	res, err := s.ApplyPayment(context.Background(), mid.ID, decimal.NewFromInt(50))
	if err != nil {
		t.Fatalf("first payment: %v", err)
	}
	if res.Settled || !res.NewBalance.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected open at 50, got settled=%v balance=%s", res.Settled, res.NewBalance)
	}

	res, err = s.ApplyPayment(context.Background(), mid.ID, decimal.NewFromInt(50))
	if err != nil {
		t.Fatalf("second payment: %v", err)
	}
	if !res.Settled || !res.NewBalance.IsZero() {
		t.Fatalf("expected settled at zero, got settled=%v balance=%s", res.Settled, res.NewBalance)
	}

	ov = s.Overview(domain.Snowball)
	found := false
	for _, b := range ov.Badges {
		if b == engine.BadgeDebtEliminated {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected elimination badge after settling, got %v", ov.Badges)
	}
	if len(ov.SettledDebts) != 1 || ov.SettledDebts[0].Name != "mid" {
		t.Fatalf("expected mid in settled list, got %+v", ov.SettledDebts)
	}
}

func TestPaymentsNewestFirstWithLimit(t *testing.T) {
	debt := testDebt("card", 1000)
	mock := &MockStore{Debts: []domain.Debt{debt}}
	s := newTestSession(mock, store.NewMemoryCache())
	s.Load(context.Background())

	for _, amt := range []int64{10, 20, 30} {
		if _, err := s.ApplyPayment(context.Background(), debt.ID, decimal.NewFromInt(amt)); err != nil {
			t.Fatalf("ApplyPayment(%d): %v", amt, err)
		}
	}

	got := s.Payments(2)
	if len(got) != 2 {
		t.Fatalf("expected 2 payments, got %d", len(got))
	}
	if !got[0].Amount.Equal(decimal.NewFromInt(30)) || !got[1].Amount.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected newest first, got %s then %s", got[0].Amount, got[1].Amount)
	}
}

func TestSmashSavingsPaysPriorityTarget(t *testing.T) {
	small := testDebt("small", 50)
	large := testDebt("large", 500)
	mock := &MockStore{Debts: []domain.Debt{large, small}}
	s := newTestSession(mock, store.NewMemoryCache())
	s.Load(context.Background())

	if _, err := s.AddSavings(context.Background(), decimal.NewFromInt(30)); err != nil {
		t.Fatalf("AddSavings: %v", err)
	}

	res, err := s.SmashSavings(context.Background(), domain.Snowball)
	if err != nil {
		t.Fatalf("SmashSavings: %v", err)
	}
	if res.Payment.DebtID != small.ID {
		t.Fatal("smash must hit the priority target")
	}
	if !res.NewBalance.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected balance 20, got %s", res.NewBalance)
	}

	jar := s.Jar()
	if !jar.Balance.IsZero() || !jar.Used {
		t.Fatalf("expected empty used jar, got %+v", jar)
	}

	ov := s.Overview(domain.Snowball)
	found := false
	for _, b := range ov.Badges {
		if b == engine.BadgeJarSmasher {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected jar badge after smashing, got %v", ov.Badges)
	}
}

func TestSmashSavingsRejectsEmptyJar(t *testing.T) {
	mock := &MockStore{Debts: []domain.Debt{testDebt("card", 100)}}
	s := newTestSession(mock, store.NewMemoryCache())
	s.Load(context.Background())

	if _, err := s.SmashSavings(context.Background(), domain.Snowball); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for empty jar, got %v", err)
	}
}

func TestAddSavingsRejectsNonPositive(t *testing.T) {
	s := newTestSession(&MockStore{}, store.NewMemoryCache())
	if _, err := s.AddSavings(context.Background(), decimal.Zero); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAddDebtAssignsPriority(t *testing.T) {
	mock := &MockStore{}
	s := newTestSession(mock, store.NewMemoryCache())
	s.Load(context.Background())

	first, err := s.AddDebt(context.Background(), domain.Debt{
		Name:          "first",
		InitialAmount: decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("AddDebt: %v", err)
	}
	second, _ := s.AddDebt(context.Background(), domain.Debt{
		Name:          "second",
		InitialAmount: decimal.NewFromInt(100),
	})
	if first.Priority != 1 || second.Priority != 2 {
		t.Fatalf("expected priorities 1 and 2, got %d and %d", first.Priority, second.Priority)
	}
	if mock.SavedDebts != 2 {
		t.Fatalf("expected 2 remote saves, got %d", mock.SavedDebts)
	}
}

func TestDeleteDebtRemovesLocally(t *testing.T) {
	debt := testDebt("card", 100)
	mock := &MockStore{Debts: []domain.Debt{debt}, FailWrites: true}
	s := newTestSession(mock, store.NewMemoryCache())
	s.Load(context.Background())

	if err := s.DeleteDebt(context.Background(), debt.ID); err != nil {
		t.Fatalf("DeleteDebt must tolerate remote failure: %v", err)
	}
	if _, err := s.GetDebt(debt.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatal("debt should be gone locally")
	}
}
