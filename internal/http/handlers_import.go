package http

import (
	"encoding/json"
	"net/http"

	applog "moneyman/internal/log"
	"moneyman/internal/services"
)

// importRowRequest mirrors the export shape loosely; amounts may arrive as
// strings or numbers and dates are validated downstream.
type importRowRequest struct {
	Kind       string `json:"kind"`
	Category   string `json:"category"`
	Amount     any    `json:"amount"`
	Note       string `json:"note"`
	OccurredOn string `json:"occurred_on"`
}

type importResponse struct {
	OK       bool           `json:"ok"`
	Inserted int            `json:"inserted"`
	Skipped  map[string]int `json:"skipped"`
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var rows []importRowRequest
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&rows); err != nil {
		writeError(w, http.StatusBadRequest, "body must be a JSON array of transactions")
		return
	}

	candidates := make([]services.Candidate, 0, len(rows))
	for _, row := range rows {
		candidates = append(candidates, services.Candidate{
			Kind:       row.Kind,
			Category:   row.Category,
			Amount:     stringValue(row.Amount),
			Note:       row.Note,
			OccurredOn: row.OccurredOn,
		})
	}

	result, err := s.importer.Import(r.Context(), candidates)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Import failed",
			applog.FieldOperation, applog.OpImport,
			applog.FieldError, err)
		writeError(w, http.StatusInternalServerError, "could not import transactions")
		return
	}

	writeJSON(w, http.StatusOK, importResponse{
		OK:       true,
		Inserted: result.Inserted,
		Skipped:  result.Skipped,
	})
}
