package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"moneyman/internal/core"
)

type qrExtractRequest struct {
	Text string `json:"text"`
}

type qrExtractResponse struct {
	Amount string `json:"amount"`
	Note   string `json:"note"`
}

// handleQRExtract pulls an amount hint and a note out of scanned QR text.
// Extraction is best effort; an empty amount means no plausible match.
func (s *Server) handleQRExtract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req qrExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	hint := core.ExtractQRHint(req.Text)
	writeJSON(w, http.StatusOK, qrExtractResponse{Amount: hint.Amount, Note: hint.Note})
}
