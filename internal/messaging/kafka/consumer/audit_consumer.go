package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"go-hrpay/internal/audit"
	"go-hrpay/internal/events"

	"github.com/jackc/pgx/v5/pgconn"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is satisfied by *kafkago.Reader.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

func ConsumeAuditRecorded(
	ctx context.Context,
	reader MessageReader,
	repo audit.Repository,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.audit")
	log.Info("audit consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("audit consumer stopped")
				return
			}
			log.Error("fetch audit message failed", zap.Error(err))
			continue
		}

		if err := HandleAuditMessage(ctx, repo, msg, log); err != nil {
			log.Error("persist audit log failed",
				zap.String("outbox_id", headerValue(msg, "outbox_id")),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit audit message failed", zap.Error(err))
		}
	}
}

// HandleAuditMessage stores one audit_recorded message. Undecodable messages
// and redeliveries return nil so the offset is committed.
func HandleAuditMessage(ctx context.Context, repo audit.Repository, msg kafkago.Message, log *zap.Logger) error {
	var event events.AuditRecordedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("decode audit_recorded event failed", zap.Error(err))
		return nil
	}
	if event.EventType != "" && event.EventType != events.AuditRecordedEventType {
		log.Warn("unexpected event type on audit topic", zap.String("event_type", event.EventType))
		return nil
	}

	eventID := headerValue(msg, "outbox_id")
	row := audit.FromEvent(eventID, event)
	if err := repo.Create(ctx, &row); err != nil {
		if isDuplicateAuditEvent(err) {
			log.Warn("audit event already stored, skipping", zap.String("outbox_id", eventID))
			return nil
		}
		return err
	}

	log.Debug("audit log stored",
		zap.String("action", event.Action),
		zap.String("entity_type", event.EntityType),
		zap.String("entity_id", event.EntityID),
	)
	return nil
}

func headerValue(msg kafkago.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func isDuplicateAuditEvent(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "uq_audit_logs_event_id"
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_audit_logs_event_id")
}
