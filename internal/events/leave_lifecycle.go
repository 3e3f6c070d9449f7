package events

import "time"

const LeaveLifecycleTopic = "hr.leave.lifecycle.v1"

const LeaveApprovedEventType = "leave_approved"

// LeaveLifecycleEvent is published when a leave decision changes a
// payroll-relevant total, so payroll and attendance consumers can react.
type LeaveLifecycleEvent struct {
	EventType      string    `json:"event_type"`
	RequestID      string    `json:"request_id,omitempty"`
	LeaveRequestID string    `json:"leave_request_id"`
	CompanyID      string    `json:"company_id"`
	EmployeeID     string    `json:"employee_id"`
	LeaveType      string    `json:"leave_type"`
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	TotalDays      string    `json:"total_days"`
	OccurredAt     time.Time `json:"occurred_at"`
}
