// Package counter hands out per-company sequence numbers for human-readable
// document references.
package counter

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

const (
	TypeLeaveRequest = "leave_request"
	TypeExpenseClaim = "expense_claim"
)

// prefixes maps each counter type to the prefix of its references.
var prefixes = map[string]string{
	TypeLeaveRequest: "LV",
	TypeExpenseClaim: "EXP",
}

//go:generate mockgen -destination=mock/counter_repo_mock.go -package=mock . Repository
type Repository interface {
	GetNextValue(ctx context.Context, companyID string, counterType string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

const nextValueSQL = `
INSERT INTO company_counters AS c (company_id, counter_type, last_value, updated_at)
VALUES (?, ?, 1, now())
ON CONFLICT (company_id, counter_type)
DO UPDATE SET last_value = c.last_value + 1, updated_at = now()
RETURNING last_value`

func (r *repository) GetNextValue(ctx context.Context, companyID string, counterType string) (int64, error) {
	if _, ok := prefixes[counterType]; !ok {
		return 0, fmt.Errorf("unknown counter type %q", counterType)
	}

	var next int64
	if err := r.db.WithContext(ctx).Raw(nextValueSQL, companyID, counterType).Scan(&next).Error; err != nil {
		return 0, fmt.Errorf("next %s value: %w", counterType, err)
	}
	return next, nil
}

// NextReference draws the next value for counterType and formats it, e.g.
// LV-000042.
func NextReference(ctx context.Context, repo Repository, companyID, counterType string) (string, error) {
	next, err := repo.GetNextValue(ctx, companyID, counterType)
	if err != nil {
		return "", err
	}
	return FormatReference(prefixes[counterType], next), nil
}

func FormatReference(prefix string, value int64) string {
	return fmt.Sprintf("%s-%06d", prefix, value)
}
