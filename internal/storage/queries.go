package storage

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"moneyman/internal/core"
	"moneyman/internal/ledger"
)

// Queries wraps the raw SQL against the transactions table. All list and
// aggregation queries share the same dynamic WHERE built from the optional
// kind and date bounds.
type Queries struct {
	db *sql.DB
}

func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

const txColumns = "id, kind, category, amount_cents, note, occurred_on, created_at"

func (q *Queries) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO transactions (kind, category, amount_cents, note, occurred_on, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		string(tx.Kind), tx.Category, tx.AmountCents, tx.Note, tx.OccurredOn, now)
	if err != nil {
		return core.Transaction{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, err
	}
	return q.GetTransaction(ctx, id)
}

func (q *Queries) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+txColumns+" FROM transactions WHERE id = ?", id)
	return scanTransaction(row)
}

func (q *Queries) ListTransactions(ctx context.Context, f ledger.Filter) ([]core.Transaction, error) {
	where, args := buildWhere(f.Kind, f.From, f.To)
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+txColumns+" FROM transactions"+where+
			" ORDER BY occurred_on DESC, id DESC LIMIT "+strconv.Itoa(ledger.MaxListRows),
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func (q *Queries) AllTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+txColumns+" FROM transactions ORDER BY occurred_on DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func (q *Queries) DeleteTransaction(ctx context.Context, id int64) (bool, error) {
	res, err := q.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (q *Queries) SumByKind(ctx context.Context, w core.Window) (map[core.Kind]int64, error) {
	where, args := buildWhere(nil, w.From, w.To)
	rows, err := q.db.QueryContext(ctx,
		"SELECT kind, SUM(amount_cents) FROM transactions"+where+" GROUP BY kind",
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sums := make(map[core.Kind]int64)
	for rows.Next() {
		var kind string
		var cents int64
		if err := rows.Scan(&kind, &cents); err != nil {
			return nil, err
		}
		sums[core.Kind(kind)] = cents
	}
	return sums, rows.Err()
}

func (q *Queries) SumByKindAndCategory(ctx context.Context, w core.Window) ([]core.CategorySum, error) {
	where, args := buildWhere(nil, w.From, w.To)
	rows, err := q.db.QueryContext(ctx,
		"SELECT kind, category, SUM(amount_cents) AS sum_cents FROM transactions"+where+
			" GROUP BY kind, category ORDER BY kind ASC, sum_cents DESC",
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.CategorySum
	for rows.Next() {
		var cs core.CategorySum
		var kind string
		if err := rows.Scan(&kind, &cs.Category, &cs.Cents); err != nil {
			return nil, err
		}
		cs.Kind = core.Kind(kind)
		out = append(out, cs)
	}
	return out, rows.Err()
}

// GetPendingMirror returns up to limit transactions not yet written to the
// mirror snapshot, oldest first.
func (q *Queries) GetPendingMirror(ctx context.Context, limit int) ([]core.Transaction, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+txColumns+" FROM transactions WHERE mirrored = 0 ORDER BY id ASC LIMIT ?",
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func (q *Queries) MarkMirrored(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "UPDATE transactions SET mirrored = 1 WHERE id = ?", id)
	return err
}

func buildWhere(kind *core.Kind, from, to string) (string, []any) {
	var conds []string
	var args []any
	if kind != nil {
		conds = append(conds, "kind = ?")
		args = append(args, string(*kind))
	}
	if from != "" {
		conds = append(conds, "occurred_on >= ?")
		args = append(args, from)
	}
	if to != "" {
		conds = append(conds, "occurred_on <= ?")
		args = append(args, to)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var tx core.Transaction
	var kind, createdAt string
	if err := row.Scan(&tx.ID, &kind, &tx.Category, &tx.AmountCents, &tx.Note, &tx.OccurredOn, &createdAt); err != nil {
		return core.Transaction{}, err
	}
	tx.Kind = core.Kind(kind)
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		tx.CreatedAt = t
	}
	return tx, nil
}

func collectTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	var out []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}
