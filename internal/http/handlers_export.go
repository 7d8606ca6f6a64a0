package http

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"moneyman/internal/core"
	applog "moneyman/internal/log"
)

var exportHeader = []string{"id", "kind", "category", "amount", "note", "occurred_on", "created_at"}

func (s *Server) exportAll(w http.ResponseWriter, r *http.Request) ([]core.Transaction, bool) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return nil, false
	}
	txs, err := s.exporter.All(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Export failed",
			applog.FieldOperation, applog.OpExport,
			applog.FieldError, err)
		writeError(w, http.StatusInternalServerError, "could not export transactions")
		return nil, false
	}
	return txs, true
}

func (s *Server) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	txs, ok := s.exportAll(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="moneyman-export.json"`)
	writeJSON(w, http.StatusOK, toTransactionListJSON(txs))
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	txs, ok := s.exportAll(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="moneyman-export.csv"`)
	w.WriteHeader(http.StatusOK)

	// UTF-8 BOM so spreadsheet tools detect the encoding.
	_, _ = w.Write([]byte{0xEF, 0xBB, 0xBF})

	cw := csv.NewWriter(w)
	_ = cw.Write(exportHeader)
	for _, tx := range txs {
		_ = cw.Write([]string{
			strconv.FormatInt(tx.ID, 10),
			string(tx.Kind),
			tx.Category,
			core.FormatCents(tx.AmountCents),
			tx.Note,
			tx.OccurredOn,
			tx.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	cw.Flush()
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	txs, ok := s.exportAll(w, r)
	if !ok {
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Transactions"
	f.SetSheetName("Sheet1", sheet)

	header := make([]any, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		writeError(w, http.StatusInternalServerError, "could not build workbook")
		return
	}

	for i, tx := range txs {
		cell := fmt.Sprintf("A%d", i+2)
		row := []any{
			tx.ID,
			string(tx.Kind),
			tx.Category,
			core.FormatCents(tx.AmountCents),
			tx.Note,
			tx.OccurredOn,
			tx.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			writeError(w, http.StatusInternalServerError, "could not build workbook")
			return
		}
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="moneyman-export.xlsx"`)
	w.WriteHeader(http.StatusOK)
	if err := f.Write(w); err != nil {
		s.logger.ErrorContext(r.Context(), "Workbook write failed",
			applog.FieldOperation, applog.OpExport,
			applog.FieldError, err)
	}
}
