package audit

import (
	"context"

	"go-hrpay/internal/events"
	"go-hrpay/internal/messaging/kafka"

	"go.uber.org/zap"
)

//go:generate mockgen -source=audit_sink.go -destination=mock/audit_sink_mock.go -package=mock
type Sink interface {
	Record(ctx context.Context, entry Entry) error
}

type outboxSink struct {
	outbox kafka.OutboxRepository
	topic  string
}

// NewOutboxSink queues entries on the outbox; the worker relays them to Kafka
// and the audit consumer persists them.
func NewOutboxSink(outbox kafka.OutboxRepository, topic string) Sink {
	if topic == "" {
		topic = events.AuditRecordedTopic
	}
	return &outboxSink{outbox: outbox, topic: topic}
}

func (s *outboxSink) Record(ctx context.Context, entry Entry) error {
	event, err := ToEvent(entry)
	if err != nil {
		return err
	}
	return kafka.Enqueue(ctx, s.outbox, kafka.OutboxMessage{
		RequestID:     entry.RequestID,
		AggregateType: entry.EntityType,
		AggregateID:   entry.EntityID,
		EventType:     events.AuditRecordedEventType,
		Topic:         s.topic,
		Payload:       event,
	})
}

type repositorySink struct {
	repo Repository
}

// NewRepositorySink writes entries straight to audit_logs.
func NewRepositorySink(repo Repository) Sink {
	return &repositorySink{repo: repo}
}

func (s *repositorySink) Record(ctx context.Context, entry Entry) error {
	event, err := ToEvent(entry)
	if err != nil {
		return err
	}
	l := FromEvent("", event)
	return s.repo.Create(ctx, &l)
}

type logSink struct {
	logger *zap.Logger
}

// NewLogSink only logs entries. Used when no database-backed sink is wired.
func NewLogSink(logger *zap.Logger) Sink {
	if logger == nil {
		logger = zap.L()
	}
	return &logSink{logger: logger.Named("audit")}
}

func (s *logSink) Record(_ context.Context, entry Entry) error {
	s.logger.Info("audit event",
		zap.String("action", entry.Action),
		zap.String("entity_type", entry.EntityType),
		zap.String("entity_id", entry.EntityID),
		zap.String("company_id", entry.CompanyID),
		zap.String("actor_id", entry.ActorID),
		zap.Any("metadata", entry.Metadata),
	)
	return nil
}
