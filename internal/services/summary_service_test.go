package services

import (
	"context"
	"testing"
	"time"

	"moneyman/internal/core"
	"moneyman/internal/ledger/memory"
)

func seedLedger(t *testing.T, store *memory.Store) {
	t.Helper()
	rows := []core.Transaction{
		{Kind: core.Income, Category: "salary", AmountCents: 500000, OccurredOn: "2025-03-01"},
		{Kind: core.Expense, Category: "rent", AmountCents: 90000, OccurredOn: "2025-03-01"},
		{Kind: core.Expense, Category: "food", AmountCents: 1250, OccurredOn: "2025-03-10"},
		{Kind: core.Expense, Category: "food", AmountCents: 800, OccurredOn: "2025-03-10"},
		{Kind: core.Expense, Category: "food", AmountCents: 3000, OccurredOn: "2025-04-02"},
	}
	for _, tx := range rows {
		if _, err := store.Insert(context.Background(), tx); err != nil {
			t.Fatalf("seed insert failed: %v", err)
		}
	}
}

func TestBuildMonthSummary(t *testing.T) {
	store := memory.New()
	seedLedger(t, store)
	svc := NewSummaryService(store)

	summary, err := svc.Build(context.Background(), core.ModeMonth, "2025-03-15")
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if summary.Window.From != "2025-03-01" || summary.Window.To != "2025-03-31" {
		t.Fatalf("unexpected window: %+v", summary.Window)
	}
	if summary.Totals.IncomeCents != 500000 {
		t.Fatalf("expected income 500000, got %d", summary.Totals.IncomeCents)
	}
	if summary.Totals.ExpenseCents != 92050 {
		t.Fatalf("expected expense 92050, got %d", summary.Totals.ExpenseCents)
	}
	if summary.Totals.BalanceCents != summary.Totals.IncomeCents-summary.Totals.ExpenseCents {
		t.Fatalf("balance must equal income minus expense, got %+v", summary.Totals)
	}

	// Category sums must reconcile with the kind totals.
	perKind := map[core.Kind]int64{}
	for _, row := range summary.ByCategory {
		perKind[row.Kind] += row.Cents
	}
	if perKind[core.Income] != summary.Totals.IncomeCents || perKind[core.Expense] != summary.Totals.ExpenseCents {
		t.Fatalf("category sums do not reconcile: %+v vs %+v", perKind, summary.Totals)
	}
}

func TestBuildDaySummary(t *testing.T) {
	store := memory.New()
	seedLedger(t, store)
	svc := NewSummaryService(store)

	summary, err := svc.Build(context.Background(), core.ModeDay, "2025-03-10")
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if summary.Totals.ExpenseCents != 2050 || summary.Totals.IncomeCents != 0 {
		t.Fatalf("unexpected day totals: %+v", summary.Totals)
	}
	if len(summary.ByCategory) != 1 || summary.ByCategory[0].Category != "food" {
		t.Fatalf("expected single food row, got %+v", summary.ByCategory)
	}
}

func TestBuildAllSummaryIsUnbounded(t *testing.T) {
	store := memory.New()
	seedLedger(t, store)
	svc := NewSummaryService(store)

	summary, err := svc.Build(context.Background(), core.ModeAll, "")
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if summary.Window.Bounded() {
		t.Fatalf("all mode must be unbounded, got %+v", summary.Window)
	}
	if summary.Totals.ExpenseCents != 95050 {
		t.Fatalf("expected all-time expense 95050, got %d", summary.Totals.ExpenseCents)
	}
}

func TestBuildInvalidModeFallsBackToAll(t *testing.T) {
	store := memory.New()
	seedLedger(t, store)
	svc := NewSummaryService(store)

	summary, err := svc.Build(context.Background(), core.Mode("week"), "")
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if summary.Mode != core.ModeAll {
		t.Fatalf("expected fallback to all, got %s", summary.Mode)
	}
}

func TestBuildInvalidAnchorUsesNow(t *testing.T) {
	store := memory.New()
	seedLedger(t, store)
	svc := NewSummaryService(store)
	svc.now = func() time.Time {
		return time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	}

	summary, err := svc.Build(context.Background(), core.ModeDay, "garbage")
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if summary.Date != "2025-03-10" {
		t.Fatalf("expected anchor fallback to 2025-03-10, got %s", summary.Date)
	}
	if summary.Totals.ExpenseCents != 2050 {
		t.Fatalf("unexpected totals after fallback: %+v", summary.Totals)
	}
}
