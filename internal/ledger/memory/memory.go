// Package memory provides a mutex-guarded in-memory ledger store. It backs
// DATA_BACKEND=memory and the handler/service tests; semantics (ordering,
// caps, aggregation) match the SQLite repository.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"moneyman/internal/core"
	"moneyman/internal/ledger"
)

type Store struct {
	mu     sync.Mutex
	nextID int64
	items  []core.Transaction
}

func New() *Store {
	return &Store{nextID: 1}
}

func (s *Store) Insert(_ context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx.ID = s.nextID
	s.nextID++
	tx.CreatedAt = time.Now().UTC()
	s.items = append(s.items, tx)
	return tx, nil
}

func (s *Store) List(_ context.Context, f ledger.Filter) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Transaction
	for _, t := range s.items {
		if f.Kind != nil && t.Kind != *f.Kind {
			continue
		}
		if !inWindow(t.OccurredOn, f.From, f.To) {
			continue
		}
		out = append(out, t)
	}
	sortNewestFirst(out)
	if len(out) > ledger.MaxListRows {
		out = out[:ledger.MaxListRows]
	}
	return out, nil
}

func (s *Store) Delete(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.items {
		if t.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) SumByKind(_ context.Context, w core.Window) (map[core.Kind]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sums := make(map[core.Kind]int64)
	for _, t := range s.items {
		if inWindow(t.OccurredOn, w.From, w.To) {
			sums[t.Kind] += t.AmountCents
		}
	}
	return sums, nil
}

func (s *Store) SumByKindAndCategory(_ context.Context, w core.Window) ([]core.CategorySum, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	type key struct {
		kind     core.Kind
		category string
	}
	sums := make(map[key]int64)
	for _, t := range s.items {
		if inWindow(t.OccurredOn, w.From, w.To) {
			sums[key{t.Kind, t.Category}] += t.AmountCents
		}
	}

	out := make([]core.CategorySum, 0, len(sums))
	for k, cents := range sums {
		out = append(out, core.CategorySum{Kind: k.kind, Category: k.category, Cents: cents})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		if out[i].Cents != out[j].Cents {
			return out[i].Cents > out[j].Cents
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

func (s *Store) All(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]core.Transaction(nil), s.items...)
	sortNewestFirst(out)
	return out, nil
}

// Len reports the current row count; used by tests.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// inWindow relies on the lexicographic ordering of YYYY-MM-DD strings.
func inWindow(date, from, to string) bool {
	if from != "" && date < from {
		return false
	}
	if to != "" && date > to {
		return false
	}
	return true
}

func sortNewestFirst(txs []core.Transaction) {
	sort.Slice(txs, func(i, j int) bool {
		if txs[i].OccurredOn != txs[j].OccurredOn {
			return txs[i].OccurredOn > txs[j].OccurredOn
		}
		return txs[i].ID > txs[j].ID
	})
}
