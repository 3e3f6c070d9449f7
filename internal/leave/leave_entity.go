package leave

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

const (
	TypeAnnual    = "annual"
	TypeSick      = "sick"
	TypeCasual    = "casual"
	TypeMaternity = "maternity"
	TypePaternity = "paternity"
	TypeUnpaid    = "unpaid"
)

const (
	HalfDayFirst  = "first_half"
	HalfDaySecond = "second_half"
)

var halfDay = decimal.NewFromFloat(0.5)

func IsValidLeaveType(t string) bool {
	switch t {
	case TypeAnnual, TypeSick, TypeCasual, TypeMaternity, TypePaternity, TypeUnpaid:
		return true
	}
	return false
}

type LeaveRequest struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID   uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_company_status"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_employee_dates"`
	ReferenceNo string    `gorm:"type:varchar(20)"`

	LeaveType     string          `gorm:"type:varchar(30);not null"`
	StartDate     time.Time       `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	EndDate       time.Time       `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	TotalDays     decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	IsHalfDay     bool            `gorm:"not null;default:false"`
	HalfDayPeriod *string         `gorm:"type:varchar(20)"`
	Reason        string          `gorm:"type:text"`

	Status          string     `gorm:"type:varchar(20);not null;default:'pending';index:idx_leave_requests_company_status"`
	CreatedBy       uuid.UUID  `gorm:"type:uuid;not null"`
	ApprovedBy      *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt      *time.Time
	RejectionReason *string `gorm:"type:text"`
	CancelledAt     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// LeaveBalance rows are created by onboarding/payroll. Every write goes
// through BalanceRepository.CompareAndSwap.
type LeaveBalance struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID    uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_balances_lookup"`
	LeaveType     string    `gorm:"type:varchar(30);not null;index:idx_leave_balances_lookup"`
	FinancialYear string    `gorm:"type:varchar(20);not null;index:idx_leave_balances_lookup"`

	OpeningBalance decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	Accrued        decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	Taken          decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	Pending        decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	Version        int64           `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveBalance) TableName() string {
	return "leave_balances"
}

func (b LeaveBalance) Available() decimal.Decimal {
	return b.OpeningBalance.Add(b.Accrued).Sub(b.Taken).Sub(b.Pending)
}

func (b LeaveBalance) Snapshot() BalanceSnapshot {
	return BalanceSnapshot{Taken: b.Taken, Pending: b.Pending, Version: b.Version}
}

// BalanceSnapshot holds the mutable part of a balance row.
type BalanceSnapshot struct {
	Taken   decimal.Decimal `json:"taken"`
	Pending decimal.Decimal `json:"pending"`
	Version int64           `json:"version"`
}

// StatusChange is the set of columns written when a pending request reaches a
// terminal state. Nil fields are left untouched.
type StatusChange struct {
	Status          string
	ApprovedBy      *uuid.UUID
	ApprovedAt      *time.Time
	RejectionReason *string
	CancelledAt     *time.Time
}

func (c StatusChange) apply(l *LeaveRequest) {
	l.Status = c.Status
	if c.ApprovedBy != nil {
		l.ApprovedBy = c.ApprovedBy
	}
	if c.ApprovedAt != nil {
		l.ApprovedAt = c.ApprovedAt
	}
	if c.RejectionReason != nil {
		l.RejectionReason = c.RejectionReason
	}
	if c.CancelledAt != nil {
		l.CancelledAt = c.CancelledAt
	}
}

type StatusCount struct {
	Status string
	Count  int64
}
