package services

import (
	"context"
	"log/slog"

	"moneyman/internal/core"
	"moneyman/internal/ledger"
)

// Candidate is a loosely-shaped row from a bulk import payload, already
// coerced to strings by the transport layer.
type Candidate struct {
	Kind       string
	Category   string
	Amount     string
	Note       string
	OccurredOn string
}

// ImportResult reports how many rows were inserted and tallies skip
// reasons for the rest.
type ImportResult struct {
	Inserted int
	Skipped  map[string]int
}

// Skip reasons reported per invalid candidate field.
const (
	SkipKind     = "kind"
	SkipCategory = "category"
	SkipAmount   = "amount"
	SkipDate     = "date"
	SkipStore    = "store"
)

// ImportService inserts candidate rows one by one. Rows are independent:
// an invalid row is skipped and tallied, never aborting the batch, and a
// valid row is fully inserted or not at all.
type ImportService struct {
	writer ledger.TransactionWriter
}

func NewImportService(writer ledger.TransactionWriter) *ImportService {
	return &ImportService{writer: writer}
}

func (s *ImportService) Import(ctx context.Context, candidates []Candidate) (ImportResult, error) {
	result := ImportResult{Skipped: make(map[string]int)}

	for _, c := range candidates {
		tx, reason := normalizeCandidate(c)
		if reason != "" {
			result.Skipped[reason]++
			continue
		}

		if _, err := s.writer.Insert(ctx, tx); err != nil {
			// A store fault on one row does not abort the batch either.
			slog.ErrorContext(ctx, "Import row insert failed",
				"category", tx.Category, "occurred_on", tx.OccurredOn, "error", err)
			result.Skipped[SkipStore]++
			continue
		}
		result.Inserted++
	}

	return result, nil
}

// normalizeCandidate maps a loose candidate onto a valid Transaction or
// returns the skip reason. Unlike the create endpoint, the date is required
// here: imported rows carry their own history.
func normalizeCandidate(c Candidate) (core.Transaction, string) {
	kind, err := core.ParseKind(c.Kind)
	if err != nil {
		return core.Transaction{}, SkipKind
	}

	category := core.SanitizeText(c.Category, core.MaxCategoryLen)
	if category == "" {
		return core.Transaction{}, SkipCategory
	}

	cents, err := core.ParseAmountToCents(c.Amount)
	if err != nil {
		return core.Transaction{}, SkipAmount
	}

	if !core.ValidDate(c.OccurredOn) {
		return core.Transaction{}, SkipDate
	}

	return core.Transaction{
		Kind:        kind,
		Category:    category,
		AmountCents: cents,
		Note:        core.SanitizeText(c.Note, core.MaxNoteLen),
		OccurredOn:  c.OccurredOn,
	}, ""
}
