package leave

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

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, l *LeaveRequest) error
	FindAllByCompany(ctx context.Context, companyID string, filter ListFilter) ([]LeaveRequest, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveRequest, error)
	// UpdateStatusIfPending applies change only while the row is still
	// pending and reports whether it did.
	UpdateStatusIfPending(ctx context.Context, companyID, id string, change StatusChange) (bool, error)
	// CountByStatus groups requests by status. An empty companyID spans all
	// companies.
	CountByStatus(ctx context.Context, companyID string) ([]StatusCount, error)
	EmployeeBelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error)
	HasOverlappingPeriod(ctx context.Context, companyID, employeeID string, startDate, endDate time.Time) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, filter ListFilter) ([]LeaveRequest, error) {
	db := r.db.WithContext(ctx).Scopes(tenant.Scope(companyID))
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.EmployeeID != "" {
		db = db.Where("employee_id = ?", filter.EmployeeID)
	}

	var leaves []LeaveRequest
	err := db.Order("created_at DESC").Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) UpdateStatusIfPending(ctx context.Context, companyID, id string, change StatusChange) (bool, error) {
	updates := map[string]any{
		"status":     change.Status,
		"updated_at": time.Now().UTC(),
	}
	if change.ApprovedBy != nil {
		updates["approved_by"] = *change.ApprovedBy
	}
	if change.ApprovedAt != nil {
		updates["approved_at"] = *change.ApprovedAt
	}
	if change.RejectionReason != nil {
		updates["rejection_reason"] = *change.RejectionReason
	}
	if change.CancelledAt != nil {
		updates["cancelled_at"] = *change.CancelledAt
	}

	res := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Scopes(tenant.Scope(companyID)).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) CountByStatus(ctx context.Context, companyID string) ([]StatusCount, error) {
	db := r.db.WithContext(ctx).Model(&LeaveRequest{})
	db = db.Scopes(tenant.ScopeOrAll(companyID))

	var counts []StatusCount
	err := db.Select("status, COUNT(*) AS count").Group("status").Scan(&counts).Error
	return counts, err
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

func (r *repository) HasOverlappingPeriod(ctx context.Context, companyID, employeeID string, startDate, endDate time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("status NOT IN ?", []string{StatusCancelled, StatusRejected}).
		Where("NOT (end_date < ? OR start_date > ?)", startDate, endDate).
		Count(&count).Error
	return count > 0, err
}
