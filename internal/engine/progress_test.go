package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tomaszg/debtcrusher/internal/domain"
)

func installment(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestSummarizeReconciles(t *testing.T) {
	l := NewLedger()
	a, _ := l.Add(newDebt("a", 1000))
	l.Add(newDebt("b", 500))
	l.ApplyPayment(a, decimal.NewFromInt(300), testNow)

	p := Summarize(l.List(), testNow)
	if !p.TotalPaid.Add(p.TotalOutstanding).Equal(p.TotalInitial) {
		t.Fatalf("reconciliation broken: paid %s + outstanding %s != initial %s",
			p.TotalPaid, p.TotalOutstanding, p.TotalInitial)
	}
	if !p.TotalPaid.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("expected total paid 300, got %s", p.TotalPaid)
	}
	if !p.PercentPaid.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected 20 percent paid, got %s", p.PercentPaid)
	}
}

func TestSummarizeEmptyLedger(t *testing.T) {
	p := Summarize(nil, testNow)
	if !p.PercentPaid.IsZero() {
		t.Fatalf("percent paid must be 0 for an empty ledger, got %s", p.PercentPaid)
	}
	if p.MonthsToFreedom != nil {
		t.Fatal("months to freedom must stay unknown with no capacity")
	}
	if p.FreedomDate != "" {
		t.Fatalf("expected no freedom date, got %q", p.FreedomDate)
	}
}

func TestSummarizePercentHasOneFractionalDigit(t *testing.T) {
	l := NewLedger()
	a, _ := l.Add(newDebt("a", 300))
	l.ApplyPayment(a, decimal.NewFromInt(100), testNow)

	p := Summarize(l.List(), testNow)
	// 100/300 = 33.333... -> 33.3
	if !p.PercentPaid.Equal(decimal.RequireFromString("33.3")) {
		t.Fatalf("expected 33.3, got %s", p.PercentPaid)
	}
}

func TestSummarizeMonthlyCapacity(t *testing.T) {
	withInstallment := newDebt("a", 1000)
	withInstallment.Installment = installment(250)
	without := newDebt("b", 500)

	l := NewLedger()
	l.Add(withInstallment)
	l.Add(without)

	p := Summarize(l.List(), testNow)
	if !p.MonthlyCapacity.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("expected capacity 250, got %s", p.MonthlyCapacity)
	}
	// ceil(1500/250) = 6
	if p.MonthsToFreedom == nil || *p.MonthsToFreedom != 6 {
		t.Fatalf("expected 6 months to freedom, got %v", p.MonthsToFreedom)
	}
	want := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
	if p.FreedomDate != want {
		t.Fatalf("expected freedom date %q, got %q", want, p.FreedomDate)
	}
}

func TestSummarizeCeilsPartialMonths(t *testing.T) {
	d := newDebt("a", 1000)
	d.Installment = installment(300)
	l := NewLedger()
	l.Add(d)

	p := Summarize(l.List(), testNow)
	if p.MonthsToFreedom == nil || *p.MonthsToFreedom != 4 {
		t.Fatalf("expected ceil(1000/300)=4, got %v", p.MonthsToFreedom)
	}
}

func TestSummarizeAlreadyFree(t *testing.T) {
	d := newDebt("a", 1000)
	d.Installment = installment(300)
	l := NewLedger()
	id, _ := l.Add(d)

	zero := decimal.Zero
	if _, err := l.Update(id, domain.DebtPatch{Balance: &zero}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	p := Summarize(l.List(), testNow)
	if p.MonthsToFreedom == nil || *p.MonthsToFreedom != 0 {
		t.Fatalf("expected 0 months, got %v", p.MonthsToFreedom)
	}
	if p.FreedomDate != AlreadyFree {
		t.Fatalf("expected %q, got %q", AlreadyFree, p.FreedomDate)
	}
}
