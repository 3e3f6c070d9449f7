package leave_test

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"go-hrpay/internal/leave"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// memBalanceStore is an in-memory BalanceRepository with real
// compare-and-swap semantics. conflicts makes the next N swaps lose to a
// phantom writer that only bumps the version.
type memBalanceStore struct {
	mu        sync.Mutex
	rows      map[uuid.UUID]*leave.LeaveBalance
	conflicts int
	swaps     int
}

func newMemBalanceStore(rows ...leave.LeaveBalance) *memBalanceStore {
	s := &memBalanceStore{rows: make(map[uuid.UUID]*leave.LeaveBalance)}
	for i := range rows {
		r := rows[i]
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
		if r.CreatedAt.IsZero() {
			r.CreatedAt = time.Date(2024, 4, 1, 0, 0, 0, i, time.UTC)
		}
		s.rows[r.ID] = &r
	}
	return s
}

func (s *memBalanceStore) FindCurrent(_ context.Context, employeeID, leaveType string, labels []string) (*leave.LeaveBalance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []leave.LeaveBalance
	for _, r := range s.rows {
		if r.EmployeeID.String() == employeeID && r.LeaveType == leaveType && contains(labels, r.FinancialYear) {
			out = append(out, *r)
		}
	}
	if len(out) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	sortByLabel(out, labels)
	return &out[0], nil
}

func (s *memBalanceStore) FindByID(_ context.Context, id uuid.UUID) (*leave.LeaveBalance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *memBalanceStore) FindAllCurrent(_ context.Context, employeeID string, labels []string) ([]leave.LeaveBalance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []leave.LeaveBalance
	for _, r := range s.rows {
		if r.EmployeeID.String() == employeeID && contains(labels, r.FinancialYear) {
			out = append(out, *r)
		}
	}
	sortByLabel(out, labels)
	return out, nil
}

// sortByLabel mirrors the repository ordering: leave type, label position,
// then creation time.
func sortByLabel(rows []leave.LeaveBalance, labels []string) {
	rank := make(map[string]int, len(labels))
	for i := len(labels) - 1; i >= 0; i-- {
		rank[labels[i]] = i
	}
	slices.SortFunc(rows, func(a, b leave.LeaveBalance) int {
		return cmp.Or(
			strings.Compare(a.LeaveType, b.LeaveType),
			cmp.Compare(rank[a.FinancialYear], rank[b.FinancialYear]),
			a.CreatedAt.Compare(b.CreatedAt),
		)
	})
}

func (s *memBalanceStore) CompareAndSwap(_ context.Context, id uuid.UUID, expectedVersion int64, taken, pending decimal.Decimal) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rows[id]
	if !ok {
		return false, nil
	}
	if s.conflicts > 0 {
		s.conflicts--
		r.Version++
		return false, nil
	}
	if r.Version != expectedVersion {
		return false, nil
	}
	r.Taken = taken
	r.Pending = pending
	r.Version++
	s.swaps++
	return true, nil
}

func (s *memBalanceStore) get(id uuid.UUID) leave.LeaveBalance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.rows[id]
}

func (s *memBalanceStore) setConflicts(n int) {
	s.mu.Lock()
	s.conflicts = n
	s.mu.Unlock()
}

// memLeaveRepo keeps leave requests in memory and honours the pending guard
// on status updates.
type memLeaveRepo struct {
	mu   sync.Mutex
	rows map[string]*leave.LeaveRequest

	// loseRace makes every guarded update report zero rows affected.
	loseRace bool
	// readBarrier, when set, holds each FindByIDAndCompany until all
	// participants have read.
	readBarrier *sync.WaitGroup
	updateErr   error

	foreignEmployee bool
	overlap         bool
}

func newMemLeaveRepo() *memLeaveRepo {
	return &memLeaveRepo{rows: make(map[string]*leave.LeaveRequest)}
}

func (r *memLeaveRepo) Create(_ context.Context, l *leave.LeaveRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *l
	cp.CreatedAt = time.Now()
	r.rows[l.ID.String()] = &cp
	return nil
}

func (r *memLeaveRepo) FindAllByCompany(_ context.Context, companyID string, filter leave.ListFilter) ([]leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []leave.LeaveRequest
	for _, l := range r.rows {
		if l.CompanyID.String() != companyID {
			continue
		}
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		if filter.EmployeeID != "" && l.EmployeeID.String() != filter.EmployeeID {
			continue
		}
		out = append(out, *l)
	}
	return out, nil
}

func (r *memLeaveRepo) FindByIDAndCompany(_ context.Context, companyID, id string) (*leave.LeaveRequest, error) {
	r.mu.Lock()
	l, ok := r.rows[id]
	var cp leave.LeaveRequest
	if ok {
		cp = *l
	}
	barrier := r.readBarrier
	r.mu.Unlock()

	if barrier != nil {
		barrier.Done()
		barrier.Wait()
	}
	if !ok || cp.CompanyID.String() != companyID {
		return nil, gorm.ErrRecordNotFound
	}
	return &cp, nil
}

func (r *memLeaveRepo) UpdateStatusIfPending(_ context.Context, companyID, id string, change leave.StatusChange) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.updateErr != nil {
		return false, r.updateErr
	}
	if r.loseRace {
		return false, nil
	}
	l, ok := r.rows[id]
	if !ok || l.CompanyID.String() != companyID || l.Status != leave.StatusPending {
		return false, nil
	}
	l.Status = change.Status
	if change.ApprovedBy != nil {
		l.ApprovedBy = change.ApprovedBy
	}
	if change.ApprovedAt != nil {
		l.ApprovedAt = change.ApprovedAt
	}
	if change.RejectionReason != nil {
		l.RejectionReason = change.RejectionReason
	}
	if change.CancelledAt != nil {
		l.CancelledAt = change.CancelledAt
	}
	return true, nil
}

func (r *memLeaveRepo) CountByStatus(_ context.Context, companyID string) ([]leave.StatusCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[string]int64{}
	for _, l := range r.rows {
		if companyID == "" || l.CompanyID.String() == companyID {
			counts[l.Status]++
		}
	}
	out := make([]leave.StatusCount, 0, len(counts))
	for status, n := range counts {
		out = append(out, leave.StatusCount{Status: status, Count: n})
	}
	return out, nil
}

func (r *memLeaveRepo) EmployeeBelongsToCompany(context.Context, string, string) (bool, error) {
	return !r.foreignEmployee, nil
}

func (r *memLeaveRepo) HasOverlappingPeriod(context.Context, string, string, time.Time, time.Time) (bool, error) {
	return r.overlap, nil
}

func (r *memLeaveRepo) status(id string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[id].Status
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func days(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func zeroDelayConfig(now time.Time) leave.MutatorConfig {
	return leave.MutatorConfig{
		CommitRetry:      leave.RetryPolicy{MaxAttempts: 3},
		ReservationRetry: leave.RetryPolicy{MaxAttempts: 1},
		Now:              fixedNow(now),
	}
}
