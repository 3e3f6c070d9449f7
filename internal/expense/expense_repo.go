package expense

import (
	"context"
	"time"

	"go-hrpay/internal/tenant"

	"gorm.io/gorm"
)

type ListFilter struct {
	Status     string
	EmployeeID string
}

//go:generate mockgen -source=expense_repo.go -destination=mock/expense_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, e *ExpenseClaim) error
	FindAllByCompany(ctx context.Context, companyID string, filter ListFilter) ([]ExpenseClaim, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*ExpenseClaim, error)
	// UpdateStatusIf applies change only while the row is still in from and
	// reports whether it did.
	UpdateStatusIf(ctx context.Context, companyID, id, from string, change StatusChange) (bool, error)
	CountByStatus(ctx context.Context, companyID, status string) (int64, error)
	EmployeeBelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, e *ExpenseClaim) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, filter ListFilter) ([]ExpenseClaim, error) {
	db := r.db.WithContext(ctx).Scopes(tenant.Scope(companyID))
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.EmployeeID != "" {
		db = db.Where("employee_id = ?", filter.EmployeeID)
	}

	var claims []ExpenseClaim
	err := db.Order("created_at DESC").Find(&claims).Error
	return claims, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*ExpenseClaim, error) {
	var e ExpenseClaim
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&e, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) UpdateStatusIf(ctx context.Context, companyID, id, from string, change StatusChange) (bool, error) {
	updates := map[string]any{
		"status":     change.Status,
		"updated_at": time.Now().UTC(),
	}
	if change.ApproverID != nil {
		updates["approver_id"] = *change.ApproverID
	}
	if change.ApprovedAt != nil {
		updates["approved_at"] = *change.ApprovedAt
	}
	if change.RejectionReason != nil {
		updates["rejection_reason"] = *change.RejectionReason
	}
	if change.PaidAt != nil {
		updates["paid_at"] = *change.PaidAt
	}

	res := r.db.WithContext(ctx).
		Model(&ExpenseClaim{}).
		Scopes(tenant.Scope(companyID)).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// CountByStatus spans every company when companyID is empty.
func (r *repository) CountByStatus(ctx context.Context, companyID, status string) (int64, error) {
	db := r.db.WithContext(ctx).Model(&ExpenseClaim{}).Where("status = ?", status)
	db = db.Scopes(tenant.ScopeOrAll(companyID))

	var count int64
	err := db.Count(&count).Error
	return count, err
}

func (r *repository) EmployeeBelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("employees").
		Where("id = ?", employeeID).
		Where("company_id = ?", companyID).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}
