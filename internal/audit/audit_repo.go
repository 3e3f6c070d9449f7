package audit

import (
	"context"

	"go-hrpay/internal/tenant"

	"gorm.io/gorm"
)

type Filter struct {
	CompanyID  string
	Action     string
	EntityType string
	EntityID   string
	Limit      int
	Offset     int
}

//go:generate mockgen -source=audit_repo.go -destination=mock/audit_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, l *AuditLog) error
	FindAll(ctx context.Context, filter Filter) ([]AuditLog, int64, error)
	FindByEntity(ctx context.Context, companyID, entityType, entityID string) ([]AuditLog, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, l *AuditLog) error {
	return r.db.WithContext(ctx).Create(l).Error
}

// FindAll returns one page, newest first, plus the total matching count.
// An empty CompanyID spans all companies.
func (r *repository) FindAll(ctx context.Context, filter Filter) ([]AuditLog, int64, error) {
	db := r.db.WithContext(ctx).Model(&AuditLog{})
	db = db.Scopes(tenant.ScopeOrAll(filter.CompanyID))
	if filter.Action != "" {
		db = db.Where("action = ?", filter.Action)
	}
	if filter.EntityType != "" {
		db = db.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != "" {
		db = db.Where("entity_id = ?", filter.EntityID)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []AuditLog
	q := db.Order("occurred_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}
	if err := q.Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

func (r *repository) FindByEntity(ctx context.Context, companyID, entityType, entityID string) ([]AuditLog, error) {
	db := r.db.WithContext(ctx).
		Where("entity_type = ?", entityType).
		Where("entity_id = ?", entityID)
	db = db.Scopes(tenant.ScopeOrAll(companyID))

	var logs []AuditLog
	err := db.Order("occurred_at ASC").Find(&logs).Error
	return logs, err
}
