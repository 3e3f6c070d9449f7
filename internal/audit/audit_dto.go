package audit

import "encoding/json"

type ListAuditLogsRequest struct {
	Action     string `form:"action"`
	EntityType string `form:"entity_type"`
	EntityID   string `form:"entity_id"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

type AuditLogResponse struct {
	ID         string          `json:"id"`
	CompanyID  string          `json:"company_id,omitempty"`
	ActorID    string          `json:"actor_id,omitempty"`
	RequestID  string          `json:"request_id,omitempty"`
	Action     string          `json:"action"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	OldData    json.RawMessage `json:"old_data,omitempty"`
	NewData    json.RawMessage `json:"new_data,omitempty"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
	OccurredAt string          `json:"occurred_at"`
}
