package leave

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

//go:generate mockgen -source=balance_repo.go -destination=mock/balance_repo_mock.go -package=mock
type BalanceRepository interface {
	// FindCurrent returns the row whose financial year appears earliest in
	// labels, oldest first on ties, or gorm.ErrRecordNotFound.
	FindCurrent(ctx context.Context, employeeID, leaveType string, labels []string) (*LeaveBalance, error)
	FindByID(ctx context.Context, id uuid.UUID) (*LeaveBalance, error)
	// FindAllCurrent returns every matching row grouped by leave type, each
	// group ordered like FindCurrent.
	FindAllCurrent(ctx context.Context, employeeID string, labels []string) ([]LeaveBalance, error)
	// CompareAndSwap writes taken and pending only if the row is still at
	// expectedVersion, bumping the version by one. It reports whether the row
	// was written.
	CompareAndSwap(ctx context.Context, id uuid.UUID, expectedVersion int64, taken, pending decimal.Decimal) (bool, error)
}

type balanceRepository struct {
	db *gorm.DB
}

func NewBalanceRepository(db *gorm.DB) BalanceRepository {
	return &balanceRepository{db: db}
}

func (r *balanceRepository) FindCurrent(ctx context.Context, employeeID, leaveType string, labels []string) (*LeaveBalance, error) {
	var rows []LeaveBalance
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("leave_type = ?", leaveType).
		Where("financial_year IN ?", labels).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	sortByLabel(rows, labels)
	return &rows[0], nil
}

func (r *balanceRepository) FindByID(ctx context.Context, id uuid.UUID) (*LeaveBalance, error) {
	var b LeaveBalance
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *balanceRepository) FindAllCurrent(ctx context.Context, employeeID string, labels []string) ([]LeaveBalance, error) {
	var balances []LeaveBalance
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("financial_year IN ?", labels).
		Order("leave_type ASC, created_at ASC").
		Find(&balances).Error
	if err != nil {
		return nil, err
	}
	sortByLabel(balances, labels)
	return balances, nil
}

func (r *balanceRepository) CompareAndSwap(ctx context.Context, id uuid.UUID, expectedVersion int64, taken, pending decimal.Decimal) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&LeaveBalance{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(map[string]any{
			"taken":      taken,
			"pending":    pending,
			"version":    expectedVersion + 1,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// sortByLabel orders rows by leave type and then by the position of their
// financial year in labels. The sort is stable so query order breaks ties.
func sortByLabel(rows []LeaveBalance, labels []string) {
	rank := make(map[string]int, len(labels))
	for i, l := range labels {
		if _, ok := rank[l]; !ok {
			rank[l] = i
		}
	}
	slices.SortStableFunc(rows, func(a, b LeaveBalance) int {
		return cmp.Or(
			strings.Compare(a.LeaveType, b.LeaveType),
			cmp.Compare(rank[a.FinancialYear], rank[b.FinancialYear]),
		)
	})
}
