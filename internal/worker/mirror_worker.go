// Package worker mirrors committed transactions into an append-only JSONL
// snapshot file. Events from the broker trigger immediate mirroring; a
// periodic scan picks up rows the broker missed.
package worker

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"moneyman/internal/amqp"
	"moneyman/internal/core"
	"moneyman/internal/storage"
)

// mirrorRecord is one line of the snapshot file.
type mirrorRecord struct {
	ID          int64  `json:"id"`
	Action      string `json:"action"`
	Kind        string `json:"kind,omitempty"`
	Category    string `json:"category,omitempty"`
	AmountCents int64  `json:"amount_cents,omitempty"`
	Amount      string `json:"amount,omitempty"`
	Note        string `json:"note,omitempty"`
	OccurredOn  string `json:"occurred_on,omitempty"`
	MirroredAt  string `json:"mirrored_at"`
}

type MirrorWorker struct {
	store     *storage.SQLiteRepository
	events    *amqp.Client
	path      string
	batchSize int
	interval  time.Duration

	mu sync.Mutex // serializes snapshot appends
}

func NewMirrorWorker(store *storage.SQLiteRepository, events *amqp.Client, path string, batchSize int, interval time.Duration) *MirrorWorker {
	return &MirrorWorker{
		store:     store,
		events:    events,
		path:      path,
		batchSize: batchSize,
		interval:  interval,
	}
}

// Run consumes broker events and scans for pending rows until ctx is
// cancelled. Without a broker only the periodic scan runs.
func (w *MirrorWorker) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	if w.events != nil {
		g.Go(func() error {
			err := w.events.ConsumeTransactionEvents(ctx, func(msg *amqp.TransactionEvent) error {
				return w.handleEvent(ctx, msg)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	g.Go(func() error {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if err := w.MirrorPending(ctx); err != nil {
					slog.ErrorContext(ctx, "Pending mirror scan failed", "error", err)
				}
			}
		}
	})

	return g.Wait()
}

func (w *MirrorWorker) handleEvent(ctx context.Context, msg *amqp.TransactionEvent) error {
	switch msg.Action {
	case amqp.ActionCreated:
		tx, err := w.store.Get(ctx, msg.ID)
		if errors.Is(err, sql.ErrNoRows) {
			// Row deleted before the event arrived; nothing to mirror.
			slog.WarnContext(ctx, "Transaction vanished before mirroring", "id", msg.ID)
			return nil
		}
		if err != nil {
			return err
		}
		return w.mirrorTransaction(ctx, tx)
	case amqp.ActionDeleted:
		return w.appendRecord(mirrorRecord{
			ID:         msg.ID,
			Action:     amqp.ActionDeleted,
			MirroredAt: time.Now().UTC().Format(time.RFC3339),
		})
	default:
		slog.WarnContext(ctx, "Unknown transaction event action", "action", msg.Action, "id", msg.ID)
		return nil
	}
}

// MirrorPending mirrors up to one batch of unmirrored rows.
func (w *MirrorWorker) MirrorPending(ctx context.Context) error {
	pending, err := w.store.GetPendingMirror(ctx, w.batchSize)
	if err != nil {
		return err
	}
	for _, tx := range pending {
		if err := w.mirrorTransaction(ctx, tx); err != nil {
			return err
		}
	}
	if len(pending) > 0 {
		slog.InfoContext(ctx, "Mirrored pending transactions", "count", len(pending))
	}
	return nil
}

func (w *MirrorWorker) mirrorTransaction(ctx context.Context, tx core.Transaction) error {
	rec := mirrorRecord{
		ID:          tx.ID,
		Action:      amqp.ActionCreated,
		Kind:        string(tx.Kind),
		Category:    tx.Category,
		AmountCents: tx.AmountCents,
		Amount:      core.FormatCents(tx.AmountCents),
		Note:        tx.Note,
		OccurredOn:  tx.OccurredOn,
		MirroredAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if err := w.appendRecord(rec); err != nil {
		return err
	}
	return w.store.MarkMirrored(ctx, tx.ID)
}

func (w *MirrorWorker) appendRecord(rec mirrorRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if dir := filepath.Dir(w.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create mirror directory: %w", err)
		}
	}

	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open mirror file: %w", err)
	}
	defer f.Close()

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal mirror record: %w", err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append mirror record: %w", err)
	}
	return nil
}
