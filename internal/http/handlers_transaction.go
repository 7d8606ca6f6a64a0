package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"moneyman/internal/core"
	"moneyman/internal/ledger"
	applog "moneyman/internal/log"
)

// createTransactionRequest accepts the amount as either a JSON string or a
// number; stringValue normalizes it before parsing.
type createTransactionRequest struct {
	Kind       string `json:"kind"`
	Category   string `json:"category"`
	Amount     any    `json:"amount"`
	Note       string `json:"note"`
	OccurredOn string `json:"occurred_on"`
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateTransaction(w, r)
	case http.MethodGet:
		s.handleListTransactions(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	kind, err := core.ParseKind(req.Kind)
	if err != nil {
		writeError(w, http.StatusBadRequest, "kind must be 'income' or 'expense'")
		return
	}

	category := core.SanitizeText(req.Category, core.MaxCategoryLen)
	if category == "" {
		writeError(w, http.StatusBadRequest, "category is required")
		return
	}

	cents, err := core.ParseAmountToCents(stringValue(req.Amount))
	if err != nil {
		writeError(w, http.StatusBadRequest, "amount must be a positive number with at most two decimals")
		return
	}

	occurredOn := strings.TrimSpace(req.OccurredOn)
	if occurredOn == "" {
		occurredOn = time.Now().Format("2006-01-02")
	}
	if !core.ValidDate(occurredOn) {
		writeError(w, http.StatusBadRequest, "occurred_on must be a valid YYYY-MM-DD date")
		return
	}

	tx := core.Transaction{
		Kind:        kind,
		Category:    category,
		AmountCents: cents,
		Note:        core.SanitizeText(req.Note, core.MaxNoteLen),
		OccurredOn:  occurredOn,
	}
	if err := tx.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	saved, err := s.transactions.Create(r.Context(), tx)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Create transaction failed",
			applog.FieldOperation, applog.OpCreate,
			applog.FieldError, err)
		writeError(w, http.StatusInternalServerError, "could not save transaction")
		return
	}

	writeJSON(w, http.StatusCreated, toTransactionJSON(saved))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	// Malformed filters are ignored rather than rejected; the unfiltered
	// list is always a safe answer.
	var filter ledger.Filter
	if kind, err := core.ParseKind(q.Get("kind")); err == nil {
		filter.Kind = &kind
	}
	if from := strings.TrimSpace(q.Get("from")); core.ValidDate(from) {
		filter.From = from
	}
	if to := strings.TrimSpace(q.Get("to")); core.ValidDate(to) {
		filter.To = to
	}

	txs, err := s.lister.List(r.Context(), filter)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "List transactions failed",
			applog.FieldOperation, applog.OpList,
			applog.FieldError, err)
		writeError(w, http.StatusInternalServerError, "could not list transactions")
		return
	}

	writeJSON(w, http.StatusOK, toTransactionListJSON(txs))
}

func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	idStr := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	deleted, err := s.transactions.Delete(r.Context(), id)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Delete transaction failed",
			applog.FieldOperation, applog.OpDelete,
			applog.FieldTransactionID, id,
			applog.FieldError, err)
		writeError(w, http.StatusInternalServerError, "could not delete transaction")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
