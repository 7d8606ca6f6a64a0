// Package services orchestrates the domain layer against the store and the
// optional event pipeline.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"moneyman/internal/amqp"
	"moneyman/internal/core"
	"moneyman/internal/ledger"
)

// EventPublisher is the slice of the AMQP client the service needs; nil
// means no broker is configured.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, id int64, action string) error
}

// TransactionService persists transactions and emits best-effort events for
// the mirror worker. The store write is authoritative; a publish failure is
// logged and never fails the request.
type TransactionService struct {
	store     ledger.Store
	publisher EventPublisher
}

func NewTransactionService(store ledger.Store, publisher EventPublisher) *TransactionService {
	return &TransactionService{store: store, publisher: publisher}
}

// Create inserts an already-validated transaction and publishes a created
// event.
func (s *TransactionService) Create(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	stored, err := s.store.Insert(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.publish(ctx, stored.ID, amqp.ActionCreated)
	return stored, nil
}

// Delete removes a transaction by id. The bool reports whether it existed.
func (s *TransactionService) Delete(ctx context.Context, id int64) (bool, error) {
	found, err := s.store.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete transaction: %w", err)
	}
	if found {
		s.publish(ctx, id, amqp.ActionDeleted)
	}
	return found, nil
}

func (s *TransactionService) publish(ctx context.Context, id int64, action string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTransactionEvent(ctx, id, action); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"id", id, "action", action, "error", err)
	}
}
