package workers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/portalteam/auth-api/internal/database"
	"github.com/portalteam/auth-api/internal/logger"
	"github.com/portalteam/auth-api/internal/queue"
)

// AuditStore is the persistence the recorder needs. Satisfied by
// database.LoginAuditRepository; narrowed so tests can fake it.
type AuditStore interface {
	Insert(ctx context.Context, rec *database.LoginAuditRecord) error
}

// AuditRecorder drains login events from the queue into the audit table.
type AuditRecorder struct {
	store AuditStore
	log   *zap.Logger
}

// NewAuditRecorder creates a new audit recorder.
func NewAuditRecorder(store AuditStore, log *zap.Logger) *AuditRecorder {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuditRecorder{store: store, log: log}
}

// ProcessMessage persists one login event and acknowledges the message.
// Persistence failures nack with requeue so the event is retried rather
// than lost.
func (r *AuditRecorder) ProcessMessage(ctx context.Context, msg queue.MessageInterface) error {
	event := msg.GetEvent()
	if event == nil {
		// Undecodable payload. Requeueing would loop forever.
		if err := msg.Nack(false); err != nil {
			r.log.Error("failed_to_nack_empty_message", zap.Error(err))
		}
		return fmt.Errorf("message has no event payload")
	}

	rec := &database.LoginAuditRecord{
		ID:        event.ID,
		Email:     event.Email,
		RemoteIP:  event.RemoteIP,
		Success:   event.Success,
		Reason:    event.Reason,
		CreatedAt: event.At,
	}

	if err := r.store.Insert(ctx, rec); err != nil {
		r.log.Error("failed_to_insert_audit_record",
			zap.Error(err),
			zap.String("event_id", event.ID.String()),
		)
		if nackErr := msg.Nack(true); nackErr != nil {
			r.log.Error("failed_to_nack_message", zap.Error(nackErr))
		}
		return fmt.Errorf("failed to insert audit record: %w", err)
	}

	if err := msg.Ack(); err != nil {
		r.log.Error("failed_to_ack_message",
			zap.Error(err),
			zap.String("event_id", event.ID.String()),
		)
		return fmt.Errorf("failed to ack message: %w", err)
	}

	r.log.Info("login_attempt_recorded",
		zap.String("event_id", event.ID.String()),
		zap.String("email", logger.SanitizeEmail(event.Email)),
		zap.Bool("success", event.Success),
	)
	return nil
}

// Run consumes events until ctx is cancelled or the queue closes.
func (r *AuditRecorder) Run(ctx context.Context, eventQueue queue.EventQueue, prefetch int) error {
	messages, errs, err := eventQueue.Consume(ctx, prefetch)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			if err != nil {
				return fmt.Errorf("queue consumer failed: %w", err)
			}
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			if err := r.ProcessMessage(ctx, msg); err != nil {
				r.log.Warn("audit_event_processing_failed", zap.Error(err))
			}
		}
	}
}
