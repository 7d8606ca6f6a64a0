// Package ledger declares the outbound ports of the transaction store.
// The SQLite repository and the in-memory store implement them; HTTP
// handlers, services and the mirror worker consume them.
package ledger

import (
	"context"

	"moneyman/internal/core"
)

// MaxListRows caps list responses to bound response size.
const MaxListRows = 500

// Filter narrows a list query. A nil Kind and empty bounds mean no filter.
type Filter struct {
	Kind *core.Kind
	From string
	To   string
}

type (
	TransactionWriter interface {
		// Insert persists a validated transaction and returns it with the
		// assigned id and creation timestamp.
		Insert(ctx context.Context, tx core.Transaction) (core.Transaction, error)
	}

	TransactionLister interface {
		// List returns matching transactions ordered by occurred_on DESC,
		// id DESC, capped at MaxListRows.
		List(ctx context.Context, f Filter) ([]core.Transaction, error)
	}

	TransactionDeleter interface {
		// Delete removes a transaction by id. The bool reports whether the
		// id existed; false is not an error.
		Delete(ctx context.Context, id int64) (bool, error)
	}

	SummaryReader interface {
		SumByKind(ctx context.Context, w core.Window) (map[core.Kind]int64, error)
		// SumByKindAndCategory returns rows ordered kind ASC, sum DESC so
		// the largest category surfaces first within its kind.
		SumByKindAndCategory(ctx context.Context, w core.Window) ([]core.CategorySum, error)
	}

	Exporter interface {
		// All returns the full record set, occurred_on DESC, id DESC.
		All(ctx context.Context) ([]core.Transaction, error)
	}
)

// Store bundles every port for backends that implement them all.
type Store interface {
	TransactionWriter
	TransactionLister
	TransactionDeleter
	SummaryReader
	Exporter
}
