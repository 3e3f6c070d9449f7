package expense

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusPaid     = "paid"
)

const (
	CategoryTravel        = "travel"
	CategoryMeals         = "meals"
	CategoryAccommodation = "accommodation"
	CategoryOffice        = "office_supplies"
	CategoryTraining      = "training"
	CategoryOther         = "other"
)

func IsValidCategory(c string) bool {
	switch c {
	case CategoryTravel, CategoryMeals, CategoryAccommodation, CategoryOffice, CategoryTraining, CategoryOther:
		return true
	}
	return false
}

type ExpenseClaim struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID   uuid.UUID `gorm:"type:uuid;not null;index:idx_expense_claims_company_status"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;index:idx_expense_claims_employee"`
	ReferenceNo string    `gorm:"type:varchar(20)"`

	Category    string          `gorm:"type:varchar(30);not null"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Currency    string          `gorm:"type:varchar(3);not null;default:'INR'"`
	Merchant    string          `gorm:"type:varchar(150)"`
	ExpenseDate time.Time       `gorm:"type:date;not null"`
	Description string          `gorm:"type:text"`

	Status          string     `gorm:"type:varchar(20);not null;default:'pending';index:idx_expense_claims_company_status"`
	CreatedBy       uuid.UUID  `gorm:"type:uuid;not null"`
	ApproverID      *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt      *time.Time
	RejectionReason *string `gorm:"type:text"`
	PaidAt          *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ExpenseClaim) TableName() string {
	return "expense_claims"
}

// StatusChange is written only while the claim is still in the expected
// source status.
type StatusChange struct {
	Status          string
	ApproverID      *uuid.UUID
	ApprovedAt      *time.Time
	RejectionReason *string
	PaidAt          *time.Time
}

func (s StatusChange) apply(e *ExpenseClaim) {
	e.Status = s.Status
	if s.ApproverID != nil {
		e.ApproverID = s.ApproverID
	}
	if s.ApprovedAt != nil {
		e.ApprovedAt = s.ApprovedAt
	}
	if s.RejectionReason != nil {
		e.RejectionReason = s.RejectionReason
	}
	if s.PaidAt != nil {
		e.PaidAt = s.PaidAt
	}
}
