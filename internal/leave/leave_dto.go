package leave

import "github.com/shopspring/decimal"

type CreateLeaveRequest struct {
	EmployeeID    string  `json:"employee_id" binding:"required,uuid"`
	LeaveType     string  `json:"leave_type" binding:"required,oneof=annual sick casual maternity paternity unpaid"`
	StartDate     string  `json:"start_date" binding:"required"`
	EndDate       string  `json:"end_date" binding:"required"`
	Reason        string  `json:"reason"`
	IsHalfDay     bool    `json:"is_half_day"`
	HalfDayPeriod *string `json:"half_day_period"`
}

type RejectLeaveRequest struct {
	RejectionReason string `json:"rejection_reason" binding:"required"`
}

type ListLeaveRequest struct {
	Status     string `form:"status" binding:"omitempty,oneof=pending approved rejected cancelled"`
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

type LeaveResponse struct {
	ID              string          `json:"id"`
	CompanyID       string          `json:"company_id"`
	EmployeeID      string          `json:"employee_id"`
	ReferenceNo     string          `json:"reference_no,omitempty"`
	LeaveType       string          `json:"leave_type"`
	StartDate       string          `json:"start_date"`
	EndDate         string          `json:"end_date"`
	TotalDays       decimal.Decimal `json:"total_days"`
	IsHalfDay       bool            `json:"is_half_day"`
	HalfDayPeriod   *string         `json:"half_day_period,omitempty"`
	Reason          string          `json:"reason"`
	Status          string          `json:"status"`
	CreatedBy       string          `json:"created_by"`
	ApprovedBy      *string         `json:"approved_by,omitempty"`
	ApprovedAt      *string         `json:"approved_at,omitempty"`
	RejectionReason *string         `json:"rejection_reason,omitempty"`
	CancelledAt     *string         `json:"cancelled_at,omitempty"`
	CreatedAt       string          `json:"created_at"`
}

type BalanceResponse struct {
	ID             string          `json:"id"`
	EmployeeID     string          `json:"employee_id"`
	LeaveType      string          `json:"leave_type"`
	FinancialYear  string          `json:"financial_year"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Accrued        decimal.Decimal `json:"accrued"`
	Taken          decimal.Decimal `json:"taken"`
	Pending        decimal.Decimal `json:"pending"`
	Available      decimal.Decimal `json:"available"`
	Version        int64           `json:"version"`
}

type LeaveStats struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Approved  int64 `json:"approved"`
	Rejected  int64 `json:"rejected"`
	Cancelled int64 `json:"cancelled"`
}
