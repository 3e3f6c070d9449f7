package consumer_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-hrpay/internal/audit"
	"go-hrpay/internal/events"
	"go-hrpay/internal/messaging/kafka/consumer"

	"github.com/jackc/pgx/v5/pgconn"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeAuditRepo struct {
	createFn func(ctx context.Context, l *audit.AuditLog) error
	created  []audit.AuditLog
}

func (f *fakeAuditRepo) Create(ctx context.Context, l *audit.AuditLog) error {
	if f.createFn != nil {
		if err := f.createFn(ctx, l); err != nil {
			return err
		}
	}
	f.created = append(f.created, *l)
	return nil
}
func (f *fakeAuditRepo) FindAll(context.Context, audit.Filter) ([]audit.AuditLog, int64, error) {
	return nil, 0, nil
}
func (f *fakeAuditRepo) FindByEntity(context.Context, string, string, string) ([]audit.AuditLog, error) {
	return nil, nil
}

type fakeReader struct {
	msgs      []kafkago.Message
	committed []kafkago.Message
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	if len(r.msgs) == 0 {
		r.cancel()
		<-ctx.Done()
		return kafkago.Message{}, ctx.Err()
	}
	m := r.msgs[0]
	r.msgs = r.msgs[1:]
	return m, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	r.committed = append(r.committed, msgs...)
	return nil
}

func auditMessage(t *testing.T, outboxID string) kafkago.Message {
	t.Helper()
	payload, err := json.Marshal(events.AuditRecordedEvent{
		EventType:  events.AuditRecordedEventType,
		Action:     audit.ActionLeaveApproved,
		EntityType: audit.EntityLeaveRequest,
		EntityID:   "leave-1",
		CompanyID:  "company-1",
		ActorID:    "approver-1",
		NewData:    json.RawMessage(`{"status":"approved"}`),
		OccurredAt: time.Now().UTC(),
	})
	assert.NoError(t, err)
	return kafkago.Message{
		Value:   payload,
		Headers: []kafkago.Header{{Key: "outbox_id", Value: []byte(outboxID)}},
	}
}

func TestHandleAuditMessage(t *testing.T) {
	ctx := context.Background()
	log := zap.NewNop()

	t.Run("stores row keyed by outbox id", func(t *testing.T) {
		repo := &fakeAuditRepo{}

		err := consumer.HandleAuditMessage(ctx, repo, auditMessage(t, "outbox-1"), log)

		assert.NoError(t, err)
		assert.Len(t, repo.created, 1)
		assert.Equal(t, "outbox-1", *repo.created[0].EventID)
		assert.Equal(t, audit.ActionLeaveApproved, repo.created[0].Action)
	})

	t.Run("duplicate delivery is skipped", func(t *testing.T) {
		repo := &fakeAuditRepo{
			createFn: func(context.Context, *audit.AuditLog) error {
				return &pgconn.PgError{Code: "23505", ConstraintName: "uq_audit_logs_event_id"}
			},
		}

		err := consumer.HandleAuditMessage(ctx, repo, auditMessage(t, "outbox-1"), log)

		assert.NoError(t, err)
	})

	t.Run("store failure is returned", func(t *testing.T) {
		repo := &fakeAuditRepo{
			createFn: func(context.Context, *audit.AuditLog) error { return errors.New("db down") },
		}

		err := consumer.HandleAuditMessage(ctx, repo, auditMessage(t, "outbox-1"), log)

		assert.EqualError(t, err, "db down")
	})

	t.Run("garbage payload is dropped", func(t *testing.T) {
		repo := &fakeAuditRepo{}

		err := consumer.HandleAuditMessage(ctx, repo, kafkago.Message{Value: []byte("{")}, log)

		assert.NoError(t, err)
		assert.Empty(t, repo.created)
	})
}

func TestConsumeAuditRecorded(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	failOnce := true
	repo := &fakeAuditRepo{
		createFn: func(_ context.Context, l *audit.AuditLog) error {
			if *l.EventID == "outbox-2" && failOnce {
				failOnce = false
				return errors.New("db down")
			}
			return nil
		},
	}
	reader := &fakeReader{
		msgs:   []kafkago.Message{auditMessage(t, "outbox-1"), auditMessage(t, "outbox-2")},
		cancel: cancel,
	}

	consumer.ConsumeAuditRecorded(ctx, reader, repo, zap.NewNop())

	assert.Len(t, repo.created, 1)
	assert.Len(t, reader.committed, 1)
	assert.Equal(t, "outbox-1", string(reader.committed[0].Headers[0].Value))
}
