package services

import (
	"context"
	"fmt"
	"time"

	"moneyman/internal/core"
	"moneyman/internal/ledger"
)

// SummaryService resolves a time window and aggregates the ledger into
// totals and a per-category breakdown. Each request recomputes from the
// store; the aggregation is a single grouped scan, so no caching is kept.
type SummaryService struct {
	reader ledger.SummaryReader
	now    func() time.Time
}

func NewSummaryService(reader ledger.SummaryReader) *SummaryService {
	return &SummaryService{reader: reader, now: time.Now}
}

// Build produces the summary for the given mode and anchor date. An invalid
// mode falls back to all; an invalid anchor falls back to today.
func (s *SummaryService) Build(ctx context.Context, mode core.Mode, anchor string) (core.Summary, error) {
	if !mode.Valid() {
		mode = core.ModeAll
	}
	window, date := core.ResolveWindow(mode, anchor, s.now())

	byKind, err := s.reader.SumByKind(ctx, window)
	if err != nil {
		return core.Summary{}, fmt.Errorf("sum by kind: %w", err)
	}

	byCategory, err := s.reader.SumByKindAndCategory(ctx, window)
	if err != nil {
		return core.Summary{}, fmt.Errorf("sum by category: %w", err)
	}

	return core.Summary{
		Mode:       mode,
		Date:       date,
		Window:     window,
		Totals:     core.BuildTotals(byKind),
		ByCategory: byCategory,
	}, nil
}
