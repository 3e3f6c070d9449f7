package audit

import (
	"encoding/json"
	"time"

	"go-hrpay/internal/events"

	"github.com/google/uuid"
)

const (
	ActionLeaveCreated         = "leave.created"
	ActionLeaveApproved        = "leave.approved"
	ActionLeaveRejected        = "leave.rejected"
	ActionLeaveCancelled       = "leave.cancelled"
	ActionLeaveBalanceRollback = "leave.balance_rollback"
	ActionExpenseCreated       = "expense.created"
	ActionExpenseApproved      = "expense.approved"
	ActionExpenseRejected      = "expense.rejected"
	ActionExpensePaid          = "expense.paid"
	ActionServerShutdown       = "server.shutdown"
)

const (
	EntityLeaveRequest = "leave_request"
	EntityLeaveBalance = "leave_balance"
	EntityExpenseClaim = "expense_claim"
	EntityServer       = "server"
)

// Entry is what domain services hand to a Sink. OldData and NewData are any
// JSON-encodable snapshot of the entity before and after the change.
type Entry struct {
	Action     string
	EntityType string
	EntityID   string
	CompanyID  string
	ActorID    string
	RequestID  string
	OldData    any
	NewData    any
	Metadata   map[string]any
	OccurredAt time.Time
}

type AuditLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EventID    *string   `gorm:"type:varchar(64);uniqueIndex:uq_audit_logs_event_id"`
	CompanyID  string    `gorm:"type:varchar(64);index:idx_audit_logs_company"`
	ActorID    string    `gorm:"type:varchar(64)"`
	RequestID  string    `gorm:"type:varchar(64)"`
	Action     string    `gorm:"type:varchar(64);not null;index:idx_audit_logs_action"`
	EntityType string    `gorm:"type:varchar(64);not null;index:idx_audit_logs_entity"`
	EntityID   string    `gorm:"type:varchar(64);not null;index:idx_audit_logs_entity"`
	OldData    []byte    `gorm:"type:jsonb"`
	NewData    []byte    `gorm:"type:jsonb"`
	Metadata   []byte    `gorm:"type:jsonb"`
	OccurredAt time.Time `gorm:"not null"`
	CreatedAt  time.Time
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

func encodeJSON(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	if m, ok := v.(map[string]any); ok && len(m) == 0 {
		return nil, nil
	}
	return json.Marshal(v)
}

// ToEvent encodes an entry for the outbox.
func ToEvent(entry Entry) (events.AuditRecordedEvent, error) {
	oldData, err := encodeJSON(entry.OldData)
	if err != nil {
		return events.AuditRecordedEvent{}, err
	}
	newData, err := encodeJSON(entry.NewData)
	if err != nil {
		return events.AuditRecordedEvent{}, err
	}
	var metadata json.RawMessage
	if len(entry.Metadata) > 0 {
		if metadata, err = json.Marshal(entry.Metadata); err != nil {
			return events.AuditRecordedEvent{}, err
		}
	}

	occurredAt := entry.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	return events.AuditRecordedEvent{
		EventType:  events.AuditRecordedEventType,
		RequestID:  entry.RequestID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		CompanyID:  entry.CompanyID,
		ActorID:    entry.ActorID,
		OldData:    oldData,
		NewData:    newData,
		Metadata:   metadata,
		OccurredAt: occurredAt,
	}, nil
}

// FromEvent builds the persisted row. eventID is the outbox id used to drop
// redelivered messages.
func FromEvent(eventID string, e events.AuditRecordedEvent) AuditLog {
	l := AuditLog{
		ID:         uuid.New(),
		CompanyID:  e.CompanyID,
		ActorID:    e.ActorID,
		RequestID:  e.RequestID,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		OldData:    nilIfEmpty(e.OldData),
		NewData:    nilIfEmpty(e.NewData),
		Metadata:   nilIfEmpty(e.Metadata),
		OccurredAt: e.OccurredAt,
	}
	if eventID != "" {
		l.EventID = &eventID
	}
	return l
}

func nilIfEmpty(raw json.RawMessage) []byte {
	if len(raw) == 0 {
		return nil
	}
	return raw
}
