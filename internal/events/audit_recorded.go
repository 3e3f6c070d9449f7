package events

import (
	"encoding/json"
	"time"
)

const (
	AuditRecordedTopic     = "hr.audit.v1"
	AuditRecordedEventType = "audit_recorded"
)

// AuditRecordedEvent carries one audit entry from the outbox to the audit
// consumer. OldData/NewData are pre-encoded JSON documents.
type AuditRecordedEvent struct {
	EventType  string          `json:"event_type"`
	RequestID  string          `json:"request_id,omitempty"`
	Action     string          `json:"action"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	CompanyID  string          `json:"company_id,omitempty"`
	ActorID    string          `json:"actor_id,omitempty"`
	OldData    json.RawMessage `json:"old_data,omitempty"`
	NewData    json.RawMessage `json:"new_data,omitempty"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}
