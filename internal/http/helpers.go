package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"moneyman/internal/core"
)

type contextKey string

const requestIDKey contextKey = "request_id"

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// transactionJSON is the wire shape of a stored transaction. Amount is the
// display string; amount_cents is the exact value.
type transactionJSON struct {
	ID          int64  `json:"id"`
	Kind        string `json:"kind"`
	Category    string `json:"category"`
	AmountCents int64  `json:"amount_cents"`
	Amount      string `json:"amount"`
	Note        string `json:"note"`
	OccurredOn  string `json:"occurred_on"`
	CreatedAt   string `json:"created_at"`
}

func toTransactionJSON(tx core.Transaction) transactionJSON {
	return transactionJSON{
		ID:          tx.ID,
		Kind:        string(tx.Kind),
		Category:    tx.Category,
		AmountCents: tx.AmountCents,
		Amount:      core.FormatCents(tx.AmountCents),
		Note:        tx.Note,
		OccurredOn:  tx.OccurredOn,
		CreatedAt:   tx.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toTransactionListJSON(txs []core.Transaction) []transactionJSON {
	out := make([]transactionJSON, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionJSON(tx))
	}
	return out
}

// stringValue renders a decoded JSON value as a string. Numbers keep their
// textual form so the amount codec sees exactly what the client sent.
func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
