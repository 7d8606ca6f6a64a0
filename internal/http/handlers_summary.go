package http

import (
	"net/http"

	"moneyman/internal/core"
	applog "moneyman/internal/log"
)

type summaryRangeJSON struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type summaryTotalsJSON struct {
	Income  string `json:"income"`
	Expense string `json:"expense"`
	Balance string `json:"balance"`
}

type summaryCategoryJSON struct {
	Kind     string `json:"kind"`
	Category string `json:"category"`
	Amount   string `json:"amount"`
}

type summaryJSON struct {
	Mode       string                `json:"mode"`
	Date       string                `json:"date"`
	Range      *summaryRangeJSON     `json:"range"`
	Totals     summaryTotalsJSON     `json:"totals"`
	ByCategory []summaryCategoryJSON `json:"byCategory"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query()
	mode := core.Mode(q.Get("mode"))
	anchor := q.Get("date")

	summary, err := s.summaries.Build(r.Context(), mode, anchor)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Summary build failed",
			applog.FieldOperation, applog.OpSummary,
			applog.FieldMode, string(mode),
			applog.FieldError, err)
		writeError(w, http.StatusInternalServerError, "could not build summary")
		return
	}

	writeJSON(w, http.StatusOK, toSummaryJSON(summary))
}

func toSummaryJSON(summary core.Summary) summaryJSON {
	out := summaryJSON{
		Mode: string(summary.Mode),
		Date: summary.Date,
		Totals: summaryTotalsJSON{
			Income:  core.FormatCents(summary.Totals.IncomeCents),
			Expense: core.FormatCents(summary.Totals.ExpenseCents),
			Balance: core.FormatCents(summary.Totals.BalanceCents),
		},
		ByCategory: make([]summaryCategoryJSON, 0, len(summary.ByCategory)),
	}
	if summary.Window.Bounded() {
		out.Range = &summaryRangeJSON{From: summary.Window.From, To: summary.Window.To}
	}
	for _, row := range summary.ByCategory {
		out.ByCategory = append(out.ByCategory, summaryCategoryJSON{
			Kind:     string(row.Kind),
			Category: row.Category,
			Amount:   core.FormatCents(row.Cents),
		})
	}
	return out
}
