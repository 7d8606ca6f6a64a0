package storage

import (
	"context"
	"path/filepath"
	"testing"

	"moneyman/internal/core"
	"moneyman/internal/ledger"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func mustInsert(t *testing.T, repo *SQLiteRepository, kind core.Kind, category string, cents int64, date string) core.Transaction {
	t.Helper()
	tx, err := repo.Insert(context.Background(), core.Transaction{
		Kind:        kind,
		Category:    category,
		AmountCents: cents,
		OccurredOn:  date,
	})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	return tx
}

func TestInsertAndGet(t *testing.T) {
	repo := newTestRepo(t)

	tx := mustInsert(t, repo, core.Expense, "food", 1234, "2025-03-10")
	if tx.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if tx.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt set")
	}

	got, err := repo.Get(context.Background(), tx.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Category != "food" || got.AmountCents != 1234 || got.OccurredOn != "2025-03-10" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestListOrderingAndFilters(t *testing.T) {
	repo := newTestRepo(t)

	mustInsert(t, repo, core.Expense, "food", 100, "2025-03-01")
	mustInsert(t, repo, core.Income, "salary", 500, "2025-03-03")
	mustInsert(t, repo, core.Expense, "rent", 900, "2025-03-03")

	txs, err := repo.List(context.Background(), ledger.Filter{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(txs) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(txs))
	}
	if txs[0].Category != "rent" || txs[1].Category != "salary" {
		t.Fatalf("unexpected order: %s, %s", txs[0].Category, txs[1].Category)
	}

	kind := core.Expense
	txs, _ = repo.List(context.Background(), ledger.Filter{Kind: &kind})
	if len(txs) != 2 {
		t.Fatalf("expected 2 expenses, got %d", len(txs))
	}

	txs, _ = repo.List(context.Background(), ledger.Filter{From: "2025-03-02"})
	if len(txs) != 2 {
		t.Fatalf("expected 2 rows from 2025-03-02, got %d", len(txs))
	}
}

func TestDeleteReportsExistence(t *testing.T) {
	repo := newTestRepo(t)
	tx := mustInsert(t, repo, core.Expense, "food", 100, "2025-03-01")

	found, err := repo.Delete(context.Background(), tx.ID)
	if err != nil || !found {
		t.Fatalf("expected delete to succeed, found=%v err=%v", found, err)
	}
	found, err = repo.Delete(context.Background(), tx.ID)
	if err != nil || found {
		t.Fatalf("expected not found on second delete, found=%v err=%v", found, err)
	}
}

func TestAggregation(t *testing.T) {
	repo := newTestRepo(t)

	mustInsert(t, repo, core.Income, "salary", 5000, "2025-03-01")
	mustInsert(t, repo, core.Expense, "food", 1000, "2025-03-05")
	mustInsert(t, repo, core.Expense, "food", 500, "2025-03-06")
	mustInsert(t, repo, core.Expense, "rent", 9000, "2025-04-01")

	window := core.Window{From: "2025-03-01", To: "2025-03-31"}

	byKind, err := repo.SumByKind(context.Background(), window)
	if err != nil {
		t.Fatalf("sum by kind failed: %v", err)
	}
	if byKind[core.Income] != 5000 || byKind[core.Expense] != 1500 {
		t.Fatalf("unexpected sums: %+v", byKind)
	}

	rows, err := repo.SumByKindAndCategory(context.Background(), window)
	if err != nil {
		t.Fatalf("sum by category failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %+v", rows)
	}
	for _, row := range rows {
		if row.Kind == core.Expense && (row.Category != "food" || row.Cents != 1500) {
			t.Fatalf("unexpected expense row: %+v", row)
		}
	}
}

func TestPendingMirrorLifecycle(t *testing.T) {
	repo := newTestRepo(t)

	a := mustInsert(t, repo, core.Expense, "food", 100, "2025-03-01")
	b := mustInsert(t, repo, core.Expense, "rent", 900, "2025-03-02")

	pending, err := repo.GetPendingMirror(context.Background(), 10)
	if err != nil {
		t.Fatalf("pending scan failed: %v", err)
	}
	if len(pending) != 2 || pending[0].ID != a.ID {
		t.Fatalf("expected both rows pending in id order, got %+v", pending)
	}

	if err := repo.MarkMirrored(context.Background(), a.ID); err != nil {
		t.Fatalf("mark mirrored failed: %v", err)
	}

	pending, _ = repo.GetPendingMirror(context.Background(), 10)
	if len(pending) != 1 || pending[0].ID != b.ID {
		t.Fatalf("expected only second row pending, got %+v", pending)
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	repo, err := NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("first open failed: %v", err)
	}
	mustInsert(t, repo, core.Expense, "food", 100, "2025-03-01")
	_ = repo.Close()

	// Reopening runs migrations again; data must survive.
	repo, err = NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("second open failed: %v", err)
	}
	defer repo.Close()

	txs, err := repo.List(context.Background(), ledger.Filter{})
	if err != nil || len(txs) != 1 {
		t.Fatalf("expected surviving row, got %d (err=%v)", len(txs), err)
	}
}
