package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/tomaszg/debtcrusher/internal/domain"
	"github.com/tomaszg/debtcrusher/internal/engine"
	"github.com/tomaszg/debtcrusher/internal/models"
	"github.com/tomaszg/debtcrusher/internal/store"
)

var (
	paymentsApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "debtcrusher_payments_applied_total",
		Help: "Payments successfully applied to a debt",
	})
	debtsSettled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "debtcrusher_debts_settled_total",
		Help: "Debts fully paid off",
	})
)

// Store is the remote storage collaborator the session consumes. Reads
// may fail or return nothing; the session then falls back to the cached
// snapshot. Writes that fail are reported but never roll back the
// in-memory mutation.
type Store interface {
	LoadDebts(ctx context.Context) ([]domain.Debt, error)
	LoadPayments(ctx context.Context, limit int) ([]domain.Payment, error)
	SaveDebt(ctx context.Context, d domain.Debt) error
	DeleteDebt(ctx context.Context, id uuid.UUID) error
	RecordPayment(ctx context.Context, p domain.Payment) error
	LoadJar(ctx context.Context) (domain.Jar, error)
	SaveJar(ctx context.Context, jar domain.Jar) error
}

// Session owns one user's ledger, payment history and savings jar. The
// engine itself is lock-free; the session serializes access because the
// HTTP layer calls it concurrently.
type Session struct {
	mu       sync.Mutex
	store    Store
	cache    store.SnapshotCache
	ledger   *engine.Ledger
	payments []domain.Payment // oldest first
	jar      domain.Jar
	now      func() time.Time
}

// NewSession creates an empty session; call Load to populate it.
func NewSession(st Store, cache store.SnapshotCache) *Session {
	return &Session{
		store:  st,
		cache:  cache,
		ledger: engine.NewLedger(),
		jar:    domain.Jar{Balance: decimal.Zero},
		now:    time.Now,
	}
}

// Load populates the session, preferring remote state. When the remote
// store errors or is empty it degrades to the cached snapshot, and when
// the remote is empty but the snapshot is not, it opportunistically
// seeds the remote from the snapshot.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	debts, err := s.store.LoadDebts(ctx)
	if err != nil {
		log.Printf("Warning: remote load failed, using cached snapshot: %v", err)
		s.restoreSnapshot(ctx)
		return nil
	}

	if len(debts) == 0 {
		if snap, ok := s.cache.LoadSnapshot(ctx); ok && len(snap.Debts) > 0 {
			s.apply(snap)
			s.seedRemote(ctx, snap)
			return nil
		}
		s.ledger = engine.NewLedger()
		return nil
	}

	payments, err := s.store.LoadPayments(ctx, 0)
	if err != nil {
		log.Printf("Warning: payment history load failed: %v", err)
	}
	jar, err := s.store.LoadJar(ctx)
	if err != nil {
		log.Printf("Warning: jar load failed: %v", err)
		jar = domain.Jar{Balance: decimal.Zero}
	}

	// Remote returns newest first; history is kept oldest first.
	reverse(payments)
	s.apply(store.Snapshot{Debts: debts, Payments: payments, Jar: jar})
	s.mirror(ctx)
	return nil
}

// Overview assembles the full derived view for the presentation layer.
func (s *Session) Overview(strategy domain.Strategy) models.Overview {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	debts := s.ledger.List()
	ranked := engine.Rank(debts, strategy)
	progress := engine.Summarize(debts, now)
	schedule := engine.Simulate(progress.TotalOutstanding, progress.MonthlyCapacity, progress.TotalInitial, now)
	badges := engine.EvaluateBadges(s.payments, debts, progress.TotalOutstanding)
	if s.jar.Used {
		badges = append(badges, engine.BadgeJarSmasher)
	}

	ov := models.Overview{
		Strategy:     strategy,
		ActiveDebts:  ranked,
		SettledDebts: engine.SettledDebts(debts),
		Progress:     progress,
		Schedule:     schedule,
		Level:        engine.LevelFor(progress.TotalPaid),
		Badges:       badges,
		JarBalance:   s.jar.Balance,
	}
	if len(ranked) > 0 {
		target := ranked[0]
		ov.PriorityTarget = &target
	}
	return ov
}

// AddDebt validates and inserts a new debt, then persists it.
func (s *Session) AddDebt(ctx context.Context, d domain.Debt) (domain.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d.CreatedAt = s.now()
	if d.Priority == 0 {
		d.Priority = s.ledger.Len() + 1
	}
	id, err := s.ledger.Add(d)
	if err != nil {
		return domain.Debt{}, err
	}
	added, _ := s.ledger.Get(id)
	s.persistDebt(ctx, added)
	return added, nil
}

// GetDebt returns one debt by id.
func (s *Session) GetDebt(id uuid.UUID) (domain.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Get(id)
}

// UpdateDebt merges the patch and persists the result.
func (s *Session) UpdateDebt(ctx context.Context, id uuid.UUID, patch domain.DebtPatch) (domain.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated, err := s.ledger.Update(id, patch)
	if err != nil {
		return domain.Debt{}, err
	}
	s.persistDebt(ctx, updated)
	return updated, nil
}

// DeleteDebt removes the debt locally and remotely.
func (s *Session) DeleteDebt(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ledger.Remove(id); err != nil {
		return err
	}
	if err := s.store.DeleteDebt(ctx, id); err != nil {
		log.Printf("Warning: remote delete failed for %s: %v", id, err)
	}
	s.mirror(ctx)
	return nil
}

// ApplyPayment applies a payment and appends it to the history. The
// in-memory mutation stands even when the remote writes fail; a later
// reconciliation pass owns that gap.
func (s *Session) ApplyPayment(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (engine.PaymentResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyPaymentLocked(ctx, id, amount)
}

func (s *Session) applyPaymentLocked(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (engine.PaymentResult, error) {
	res, err := s.ledger.ApplyPayment(id, amount, s.now())
	if err != nil {
		return engine.PaymentResult{}, err
	}
	s.payments = append(s.payments, res.Payment)

	paymentsApplied.Inc()
	if res.Settled {
		debtsSettled.Inc()
	}

	debt, _ := s.ledger.Get(id)
	s.persistDebt(ctx, debt)
	if err := s.store.RecordPayment(ctx, res.Payment); err != nil {
		log.Printf("Warning: failed to record payment %s: %v", res.Payment.ID, err)
	}
	return res, nil
}

// Reopen restores a settled debt to the nominal reopen balance.
func (s *Session) Reopen(ctx context.Context, id uuid.UUID) (domain.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.ledger.Reopen(id)
	if err != nil {
		return domain.Debt{}, err
	}
	s.persistDebt(ctx, d)
	return d, nil
}

// Payments returns the most recent payments, newest first. A limit of
// zero or less returns the full history.
func (s *Session) Payments(limit int) []domain.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Payment, len(s.payments))
	copy(out, s.payments)
	reverse(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Jar returns the current savings jar state.
func (s *Session) Jar() domain.Jar {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jar
}

// AddSavings drops an amount into the savings jar.
func (s *Session) AddSavings(ctx context.Context, amount decimal.Decimal) (domain.Jar, error) {
	if !amount.IsPositive() {
		return domain.Jar{}, &domain.ValidationError{Field: "amount", Reason: "must be a positive amount"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jar.Balance = s.jar.Balance.Add(amount)
	s.persistJar(ctx)
	return s.jar, nil
}

// SmashSavings empties the jar and applies its balance as a payment to
// the priority target under the given strategy. Using the jar unlocks
// the jar badge permanently.
func (s *Session) SmashSavings(ctx context.Context, strategy domain.Strategy) (engine.PaymentResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.jar.Balance.IsPositive() {
		return engine.PaymentResult{}, &domain.ValidationError{Field: "jar", Reason: "the jar is empty"}
	}
	target, ok := engine.PriorityTarget(s.ledger.List(), strategy)
	if !ok {
		return engine.PaymentResult{}, &domain.ValidationError{Field: "jar", Reason: "no active debt to pay"}
	}

	amount := s.jar.Balance
	res, err := s.applyPaymentLocked(ctx, target.ID, amount)
	if err != nil {
		return engine.PaymentResult{}, err
	}
	s.jar.Balance = decimal.Zero
	s.jar.Used = true
	s.persistJar(ctx)
	return res, nil
}

func (s *Session) apply(snap store.Snapshot) {
	s.ledger = engine.Restore(snap.Debts)
	s.payments = snap.Payments
	s.jar = snap.Jar
}

func (s *Session) restoreSnapshot(ctx context.Context) {
	if snap, ok := s.cache.LoadSnapshot(ctx); ok {
		s.apply(snap)
		return
	}
	s.ledger = engine.NewLedger()
}

func (s *Session) seedRemote(ctx context.Context, snap store.Snapshot) {
	log.Printf("Seeding remote store from cached snapshot (%d debts)", len(snap.Debts))
	for _, d := range snap.Debts {
		if err := s.store.SaveDebt(ctx, d); err != nil {
			log.Printf("Warning: seed debt %s failed: %v", d.ID, err)
		}
	}
	for _, p := range snap.Payments {
		if err := s.store.RecordPayment(ctx, p); err != nil {
			log.Printf("Warning: seed payment %s failed: %v", p.ID, err)
		}
	}
	if err := s.store.SaveJar(ctx, snap.Jar); err != nil {
		log.Printf("Warning: seed jar failed: %v", err)
	}
}

func (s *Session) persistDebt(ctx context.Context, d domain.Debt) {
	if err := s.store.SaveDebt(ctx, d); err != nil {
		log.Printf("Warning: remote save failed for %s: %v", d.ID, err)
	}
	s.mirror(ctx)
}

func (s *Session) persistJar(ctx context.Context) {
	if err := s.store.SaveJar(ctx, s.jar); err != nil {
		log.Printf("Warning: jar save failed: %v", err)
	}
	s.mirror(ctx)
}

// mirror writes the full session state to the snapshot cache, best effort.
func (s *Session) mirror(ctx context.Context) {
	snap := store.Snapshot{
		Debts:    s.ledger.List(),
		Payments: s.payments,
		Jar:      s.jar,
	}
	if err := s.cache.SaveSnapshot(ctx, snap); err != nil {
		log.Printf("Warning: snapshot mirror failed: %v", err)
	}
}

func reverse(ps []domain.Payment) {
	for i, j := 0, len(ps)-1; i < j; i, j = i+1, j-1 {
		ps[i], ps[j] = ps[j], ps[i]
	}
}
