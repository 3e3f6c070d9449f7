package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrBalanceConflict means every attempt lost the version race.
	ErrBalanceConflict = errors.New("leave balance modified concurrently")
	ErrNonPositiveDays = errors.New("leave days must be positive")
)

type Operation string

const (
	OpReserve Operation = "reserve"
	OpDeduct  Operation = "deduct"
	OpRelease Operation = "release"
	OpRevert  Operation = "revert"
)

// RetryPolicy bounds the compare-and-swap loop. Attempt n (n > 1) waits
// BaseDelay * 2^(n-2) before reading the row again.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

var (
	DefaultCommitRetry      = RetryPolicy{MaxAttempts: 3, BaseDelay: 100 * time.Millisecond}
	DefaultReservationRetry = RetryPolicy{MaxAttempts: 1}
)

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

func (p RetryPolicy) backoff(retry int) time.Duration {
	if p.BaseDelay <= 0 {
		return 0
	}
	return p.BaseDelay << (retry - 1)
}

// MutatorConfig carries the retry policies. CommitRetry covers deductions and
// reverts; ReservationRetry covers reserve and release.
type MutatorConfig struct {
	CommitRetry      RetryPolicy
	ReservationRetry RetryPolicy
	Now              func() time.Time
}

func DefaultMutatorConfig() MutatorConfig {
	return MutatorConfig{
		CommitRetry:      DefaultCommitRetry,
		ReservationRetry: DefaultReservationRetry,
		Now:              time.Now,
	}
}

// Mutation describes one balance write. Applied is false when no balance row
// exists for the employee and leave type, which is not an error.
type Mutation struct {
	Op        Operation
	BalanceID uuid.UUID
	Applied   bool
	Before    BalanceSnapshot
	After     BalanceSnapshot
	Attempts  int
}

//go:generate mockgen -source=balance_mutator.go -destination=mock/balance_mutator_mock.go -package=mock
type BalanceMutator interface {
	Reserve(ctx context.Context, employeeID, leaveType string, days decimal.Decimal) (Mutation, error)
	Deduct(ctx context.Context, employeeID, leaveType string, days decimal.Decimal) (Mutation, error)
	Release(ctx context.Context, employeeID, leaveType string, days decimal.Decimal) (Mutation, error)
	// Revert applies the inverse of an applied mutation to the same row.
	Revert(ctx context.Context, m Mutation) (Mutation, error)
}

type balanceMutator struct {
	repo   BalanceRepository
	cfg    MutatorConfig
	logger *zap.Logger
}

func NewBalanceMutator(repo BalanceRepository, cfg MutatorConfig, logger ...*zap.Logger) BalanceMutator {
	l := zap.L().Named("leave.balance")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.balance")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &balanceMutator{repo: repo, cfg: cfg, logger: l}
}

type balanceChange func(b LeaveBalance) (taken, pending decimal.Decimal)

func (m *balanceMutator) currentLoader(employeeID, leaveType string) func(ctx context.Context) (*LeaveBalance, error) {
	return func(ctx context.Context) (*LeaveBalance, error) {
		return m.repo.FindCurrent(ctx, employeeID, leaveType, FinancialYearLabels(m.cfg.Now()))
	}
}

func (m *balanceMutator) Reserve(ctx context.Context, employeeID, leaveType string, days decimal.Decimal) (Mutation, error) {
	if !days.IsPositive() {
		return Mutation{Op: OpReserve}, ErrNonPositiveDays
	}
	return m.apply(ctx, OpReserve, m.cfg.ReservationRetry, m.currentLoader(employeeID, leaveType),
		func(b LeaveBalance) (decimal.Decimal, decimal.Decimal) {
			return b.Taken, b.Pending.Add(days)
		})
}

func (m *balanceMutator) Deduct(ctx context.Context, employeeID, leaveType string, days decimal.Decimal) (Mutation, error) {
	if !days.IsPositive() {
		return Mutation{Op: OpDeduct}, ErrNonPositiveDays
	}
	return m.apply(ctx, OpDeduct, m.cfg.CommitRetry, m.currentLoader(employeeID, leaveType),
		func(b LeaveBalance) (decimal.Decimal, decimal.Decimal) {
			return b.Taken.Add(days), clampZero(b.Pending.Sub(days))
		})
}

func (m *balanceMutator) Release(ctx context.Context, employeeID, leaveType string, days decimal.Decimal) (Mutation, error) {
	if !days.IsPositive() {
		return Mutation{Op: OpRelease}, ErrNonPositiveDays
	}
	return m.apply(ctx, OpRelease, m.cfg.ReservationRetry, m.currentLoader(employeeID, leaveType),
		func(b LeaveBalance) (decimal.Decimal, decimal.Decimal) {
			return b.Taken, clampZero(b.Pending.Sub(days))
		})
}

func (m *balanceMutator) Revert(ctx context.Context, mut Mutation) (Mutation, error) {
	if !mut.Applied {
		return Mutation{Op: OpRevert}, nil
	}

	takenDelta := mut.After.Taken.Sub(mut.Before.Taken)
	pendingDelta := mut.After.Pending.Sub(mut.Before.Pending)
	load := func(ctx context.Context) (*LeaveBalance, error) {
		return m.repo.FindByID(ctx, mut.BalanceID)
	}

	return m.apply(ctx, OpRevert, m.cfg.CommitRetry, load,
		func(b LeaveBalance) (decimal.Decimal, decimal.Decimal) {
			return b.Taken.Sub(takenDelta), clampZero(b.Pending.Sub(pendingDelta))
		})
}

func (m *balanceMutator) apply(
	ctx context.Context,
	op Operation,
	policy RetryPolicy,
	load func(ctx context.Context) (*LeaveBalance, error),
	change balanceChange,
) (Mutation, error) {
	mut := Mutation{Op: op}
	maxAttempts := policy.attempts()

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		mut.Attempts = attempt
		if attempt > 1 {
			if err := sleepContext(ctx, policy.backoff(attempt-1)); err != nil {
				return mut, err
			}
		}

		b, err := load(ctx)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				m.logger.Info("no leave balance row, skipping", zap.String("op", string(op)))
				return mut, nil
			}
			return mut, err
		}

		taken, pending := change(*b)
		ok, err := m.repo.CompareAndSwap(ctx, b.ID, b.Version, taken, pending)
		if err != nil {
			return mut, err
		}
		if ok {
			mut.BalanceID = b.ID
			mut.Applied = true
			mut.Before = b.Snapshot()
			mut.After = BalanceSnapshot{Taken: taken, Pending: pending, Version: b.Version + 1}
			return mut, nil
		}

		m.logger.Debug("leave balance version conflict",
			zap.String("op", string(op)),
			zap.String("balance_id", b.ID.String()),
			zap.Int64("version", b.Version),
			zap.Int("attempt", attempt),
		)
	}

	return mut, fmt.Errorf("%w: %s gave up after %d attempts", ErrBalanceConflict, op, maxAttempts)
}

func clampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
