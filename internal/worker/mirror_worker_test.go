package worker

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"moneyman/internal/amqp"
	"moneyman/internal/core"
	"moneyman/internal/storage"
)

func newTestWorker(t *testing.T) (*MirrorWorker, *storage.SQLiteRepository, string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := storage.NewSQLiteRepository(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	path := filepath.Join(dir, "mirror.jsonl")
	w := NewMirrorWorker(repo, nil, path, 10, time.Minute)
	return w, repo, path
}

func readRecords(t *testing.T, path string) []mirrorRecord {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open mirror file: %v", err)
	}
	defer f.Close()

	var out []mirrorRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec mirrorRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("bad mirror line %q: %v", scanner.Text(), err)
		}
		out = append(out, rec)
	}
	return out
}

func TestMirrorPendingWritesSnapshot(t *testing.T) {
	w, repo, path := newTestWorker(t)
	ctx := context.Background()

	tx, err := repo.Insert(ctx, core.Transaction{
		Kind:        core.Expense,
		Category:    "food",
		AmountCents: 1234,
		OccurredOn:  "2025-03-10",
	})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	if err := w.MirrorPending(ctx); err != nil {
		t.Fatalf("mirror pending failed: %v", err)
	}

	recs := readRecords(t, path)
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	rec := recs[0]
	if rec.ID != tx.ID || rec.Action != amqp.ActionCreated {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.Amount != "12.34" || rec.AmountCents != 1234 {
		t.Fatalf("unexpected amounts: %+v", rec)
	}

	// A second scan finds nothing pending and appends nothing.
	if err := w.MirrorPending(ctx); err != nil {
		t.Fatalf("second scan failed: %v", err)
	}
	if recs := readRecords(t, path); len(recs) != 1 {
		t.Fatalf("expected no duplicate records, got %d", len(recs))
	}
}

func TestHandleDeletedEvent(t *testing.T) {
	w, _, path := newTestWorker(t)

	err := w.handleEvent(context.Background(), &amqp.TransactionEvent{
		ID:     42,
		Action: amqp.ActionDeleted,
	})
	if err != nil {
		t.Fatalf("handle event failed: %v", err)
	}

	recs := readRecords(t, path)
	if len(recs) != 1 || recs[0].Action != amqp.ActionDeleted || recs[0].ID != 42 {
		t.Fatalf("unexpected records: %+v", recs)
	}
}

func TestHandleCreatedEventForMissingRow(t *testing.T) {
	w, _, path := newTestWorker(t)

	// Row already deleted by the time the event arrives; not an error.
	err := w.handleEvent(context.Background(), &amqp.TransactionEvent{
		ID:     999,
		Action: amqp.ActionCreated,
	})
	if err != nil {
		t.Fatalf("vanished row must not fail the consumer: %v", err)
	}

	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		recs := readRecords(t, path)
		if len(recs) != 0 {
			t.Fatalf("expected no records, got %+v", recs)
		}
	}
}
