package expense

import "github.com/shopspring/decimal"

type CreateExpenseRequest struct {
	EmployeeID  string          `json:"employee_id" binding:"required,uuid"`
	Category    string          `json:"category" binding:"required,oneof=travel meals accommodation office_supplies training other"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency" binding:"omitempty,len=3"`
	Merchant    string          `json:"merchant" binding:"max=150"`
	ExpenseDate string          `json:"expense_date" binding:"required"`
	Description string          `json:"description"`
}

type RejectExpenseRequest struct {
	RejectionReason string `json:"rejection_reason" binding:"required"`
}

type ListExpenseRequest struct {
	Status     string `form:"status" binding:"omitempty,oneof=pending approved rejected paid"`
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

type ExpenseResponse struct {
	ID              string          `json:"id"`
	CompanyID       string          `json:"company_id"`
	EmployeeID      string          `json:"employee_id"`
	ReferenceNo     string          `json:"reference_no,omitempty"`
	Category        string          `json:"category"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	Merchant        string          `json:"merchant,omitempty"`
	ExpenseDate     string          `json:"expense_date"`
	Description     string          `json:"description,omitempty"`
	Status          string          `json:"status"`
	CreatedBy       string          `json:"created_by"`
	ApproverID      *string         `json:"approver_id,omitempty"`
	ApprovedAt      *string         `json:"approved_at,omitempty"`
	RejectionReason *string         `json:"rejection_reason,omitempty"`
	PaidAt          *string         `json:"paid_at,omitempty"`
	CreatedAt       string          `json:"created_at"`
}
