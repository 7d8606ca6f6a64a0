package services

import (
	"context"
	"errors"
	"testing"

	"moneyman/internal/amqp"
	"moneyman/internal/core"
	"moneyman/internal/ledger/memory"
)

type recordingPublisher struct {
	events []string
	fail   bool
}

func (p *recordingPublisher) PublishTransactionEvent(_ context.Context, id int64, action string) error {
	if p.fail {
		return errors.New("broker down")
	}
	p.events = append(p.events, action)
	return nil
}

func validTx() core.Transaction {
	return core.Transaction{
		Kind:        core.Expense,
		Category:    "food",
		AmountCents: 1200,
		OccurredOn:  "2025-03-10",
	}
}

func TestCreatePublishesEvent(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewTransactionService(memory.New(), pub)

	stored, err := svc.Create(context.Background(), validTx())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if stored.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if len(pub.events) != 1 || pub.events[0] != amqp.ActionCreated {
		t.Fatalf("expected one created event, got %v", pub.events)
	}
}

func TestCreateSurvivesPublishFailure(t *testing.T) {
	store := memory.New()
	svc := NewTransactionService(store, &recordingPublisher{fail: true})

	if _, err := svc.Create(context.Background(), validTx()); err != nil {
		t.Fatalf("publish failure must not fail the request: %v", err)
	}
	if store.Len() != 1 {
		t.Fatalf("expected row persisted, have %d", store.Len())
	}
}

func TestCreateWithoutPublisher(t *testing.T) {
	svc := NewTransactionService(memory.New(), nil)
	if _, err := svc.Create(context.Background(), validTx()); err != nil {
		t.Fatalf("create without broker failed: %v", err)
	}
}

func TestDeletePublishesOnlyWhenFound(t *testing.T) {
	pub := &recordingPublisher{}
	store := memory.New()
	svc := NewTransactionService(store, pub)

	stored, _ := svc.Create(context.Background(), validTx())
	pub.events = nil

	found, err := svc.Delete(context.Background(), stored.ID)
	if err != nil || !found {
		t.Fatalf("expected delete to succeed, found=%v err=%v", found, err)
	}
	if len(pub.events) != 1 || pub.events[0] != amqp.ActionDeleted {
		t.Fatalf("expected one deleted event, got %v", pub.events)
	}

	found, err = svc.Delete(context.Background(), stored.ID)
	if err != nil || found {
		t.Fatalf("expected not found, found=%v err=%v", found, err)
	}
	if len(pub.events) != 1 {
		t.Fatalf("missing row must not publish, got %v", pub.events)
	}
}
