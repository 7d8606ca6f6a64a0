// Package storage persists the ledger in a single SQLite table, with
// embedded schema migrations. The kind and positive-amount invariants are
// also enforced by CHECK constraints, so aggregation queries can trust
// every stored row.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"moneyman/internal/core"
	"moneyman/internal/ledger"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, queries: New(db)}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Insert implements ledger.TransactionWriter.
func (r *SQLiteRepository) Insert(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	stored, err := r.queries.CreateTransaction(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", stored.ID,
		"kind", stored.Kind,
		"category", stored.Category,
		"amount_cents", stored.AmountCents,
		"occurred_on", stored.OccurredOn)

	return stored, nil
}

// List implements ledger.TransactionLister.
func (r *SQLiteRepository) List(ctx context.Context, f ledger.Filter) ([]core.Transaction, error) {
	txs, err := r.queries.ListTransactions(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// Delete implements ledger.TransactionDeleter.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) (bool, error) {
	found, err := r.queries.DeleteTransaction(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete transaction %d: %w", id, err)
	}
	return found, nil
}

// SumByKind implements ledger.SummaryReader.
func (r *SQLiteRepository) SumByKind(ctx context.Context, w core.Window) (map[core.Kind]int64, error) {
	sums, err := r.queries.SumByKind(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("sum by kind: %w", err)
	}
	return sums, nil
}

// SumByKindAndCategory implements ledger.SummaryReader.
func (r *SQLiteRepository) SumByKindAndCategory(ctx context.Context, w core.Window) ([]core.CategorySum, error) {
	sums, err := r.queries.SumByKindAndCategory(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("sum by kind and category: %w", err)
	}
	return sums, nil
}

// All implements ledger.Exporter.
func (r *SQLiteRepository) All(ctx context.Context) ([]core.Transaction, error) {
	txs, err := r.queries.AllTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("export transactions: %w", err)
	}
	return txs, nil
}

// Get returns a single transaction by id; used by the mirror worker when a
// queue event arrives.
func (r *SQLiteRepository) Get(ctx context.Context, id int64) (core.Transaction, error) {
	tx, err := r.queries.GetTransaction(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, err
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return tx, nil
}

// GetPendingMirror returns transactions awaiting the mirror snapshot,
// oldest first.
func (r *SQLiteRepository) GetPendingMirror(ctx context.Context, limit int) ([]core.Transaction, error) {
	txs, err := r.queries.GetPendingMirror(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending mirror transactions: %w", err)
	}
	return txs, nil
}

// MarkMirrored flags a transaction as written to the mirror snapshot.
func (r *SQLiteRepository) MarkMirrored(ctx context.Context, id int64) error {
	if err := r.queries.MarkMirrored(ctx, id); err != nil {
		return fmt.Errorf("mark transaction mirrored: %w", err)
	}
	return nil
}
