// Package http exposes the ledger as a JSON API. The Server wraps
// http.Server with security headers, per-IP rate limiting and structured
// request logging.
package http

import (
	"context"
	"net/http"
	"time"

	"moneyman/internal/ledger"
	applog "moneyman/internal/log"
	"moneyman/internal/services"
)

type Server struct {
	http.Server

	transactions *services.TransactionService
	summaries    *services.SummaryService
	importer     *services.ImportService
	lister       ledger.TransactionLister
	exporter     ledger.Exporter

	rateLimiter *rateLimiter
	metrics     *securityMetrics
	logger      *applog.Logger
}

// NewServer configures routes and middleware, returning a ready-to-run
// server. A nil publisher disables the event pipeline.
func NewServer(addr string, store ledger.Store, publisher services.EventPublisher, logger *applog.Logger) *Server {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}

	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		transactions: services.NewTransactionService(store, publisher),
		summaries:    services.NewSummaryService(store),
		importer:     services.NewImportService(store),
		lister:       store,
		exporter:     store,
		rateLimiter:  newRateLimiter(),
		metrics:      &securityMetrics{},
		logger:       logger.WithComponent(applog.ComponentHTTP),
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/api/transactions", s.withMiddleware(s.handleTransactions))
	mux.HandleFunc("/api/transactions/", s.withMiddleware(s.handleTransactionByID))
	mux.HandleFunc("/api/summary", s.withMiddleware(s.handleSummary))
	mux.HandleFunc("/api/export", s.withMiddleware(s.handleExportJSON))
	mux.HandleFunc("/api/export/csv", s.withMiddleware(s.handleExportCSV))
	mux.HandleFunc("/api/export/xlsx", s.withMiddleware(s.handleExportXLSX))
	mux.HandleFunc("/api/import", s.withMiddleware(s.handleImport))
	mux.HandleFunc("/api/qr/extract", s.withMiddleware(s.handleQRExtract))

	return s
}

// withMiddleware adds security headers, rate limiting, request IDs and
// request logging around a handler.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		ctx := withRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		s.logger.InfoContext(ctx, "Request started",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldClientIP, clientIP)

		if detectSuspiciousRequest(r, s.metrics) {
			s.logger.WarnContext(ctx, "Suspicious request",
				applog.FieldClientIP, clientIP,
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path)
		}

		// Mutating methods are rate limited per client IP.
		if (r.Method == http.MethodPost || r.Method == http.MethodDelete) &&
			!s.rateLimiter.allow(clientIP, s.metrics) {
			s.logger.WarnContext(ctx, "Rate limit exceeded",
				applog.FieldClientIP, clientIP,
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.logger.InfoContext(ctx, "Request completed",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, rw.statusCode,
			applog.FieldDuration, time.Since(start).Milliseconds(),
			applog.FieldClientIP, clientIP)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Shutdown stops the rate limiter's cleanup goroutine and then shuts down
// the underlying HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.rateLimiter.stop()
	return s.Server.Shutdown(ctx)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
