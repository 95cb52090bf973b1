package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/portalteam/auth-api/internal/database"
	"github.com/portalteam/auth-api/internal/queue"
)

type fakeAuditStore struct {
	inserted []*database.LoginAuditRecord
	err      error
}

func (s *fakeAuditStore) Insert(_ context.Context, rec *database.LoginAuditRecord) error {
	if s.err != nil {
		return s.err
	}
	s.inserted = append(s.inserted, rec)
	return nil
}

type fakeMessage struct {
	event        *queue.LoginEvent
	acked        bool
	nacked       bool
	nackRequeued bool
}

func (m *fakeMessage) Ack() error {
	m.acked = true
	return nil
}

func (m *fakeMessage) Nack(requeue bool) error {
	m.nacked = true
	m.nackRequeued = requeue
	return nil
}

func (m *fakeMessage) GetEvent() *queue.LoginEvent {
	return m.event
}

func testEvent() *queue.LoginEvent {
	return &queue.LoginEvent{
		ID:       uuid.New(),
		Email:    "a@x.com",
		RemoteIP: "203.0.113.7",
		Success:  false,
		Reason:   "password mismatch",
		At:       time.Now().UTC(),
	}
}

func TestProcessMessage_Success(t *testing.T) {
	t.Parallel()

	store := &fakeAuditStore{}
	recorder := NewAuditRecorder(store, zap.NewNop())

	event := testEvent()
	msg := &fakeMessage{event: event}

	if err := recorder.ProcessMessage(context.Background(), msg); err != nil {
		t.Fatalf("ProcessMessage returned error: %v", err)
	}

	if !msg.acked {
		t.Error("Expected message to be acked")
	}
	if msg.nacked {
		t.Error("Expected message not to be nacked")
	}
	if len(store.inserted) != 1 {
		t.Fatalf("Expected 1 inserted record, got %d", len(store.inserted))
	}

	rec := store.inserted[0]
	if rec.ID != event.ID {
		t.Errorf("Expected record ID %s, got %s", event.ID, rec.ID)
	}
	if rec.Email != event.Email {
		t.Errorf("Expected email '%s', got '%s'", event.Email, rec.Email)
	}
	if rec.Success != event.Success {
		t.Errorf("Expected success %v, got %v", event.Success, rec.Success)
	}
	if rec.Reason != event.Reason {
		t.Errorf("Expected reason '%s', got '%s'", event.Reason, rec.Reason)
	}
}

func TestProcessMessage_InsertFailureRequeues(t *testing.T) {
	t.Parallel()

	store := &fakeAuditStore{err: errors.New("database unavailable")}
	recorder := NewAuditRecorder(store, zap.NewNop())

	msg := &fakeMessage{event: testEvent()}

	if err := recorder.ProcessMessage(context.Background(), msg); err == nil {
		t.Fatal("Expected an error when insert fails")
	}

	if msg.acked {
		t.Error("Expected message not to be acked")
	}
	if !msg.nacked {
		t.Error("Expected message to be nacked")
	}
	if !msg.nackRequeued {
		t.Error("Expected nack to requeue the message")
	}
}

func TestProcessMessage_MissingEventIsDropped(t *testing.T) {
	t.Parallel()

	store := &fakeAuditStore{}
	recorder := NewAuditRecorder(store, zap.NewNop())

	msg := &fakeMessage{event: nil}

	if err := recorder.ProcessMessage(context.Background(), msg); err == nil {
		t.Fatal("Expected an error for a message without an event")
	}

	if !msg.nacked {
		t.Error("Expected message to be nacked")
	}
	if msg.nackRequeued {
		t.Error("Expected nack not to requeue an undecodable message")
	}
	if len(store.inserted) != 0 {
		t.Errorf("Expected no inserted records, got %d", len(store.inserted))
	}
}
