package leave_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-hrpay/internal/leave"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

var mutatorNow = time.Date(2024, 9, 10, 9, 0, 0, 0, time.UTC)

func seedBalance(employeeID uuid.UUID, label string, taken, pending float64, version int64) leave.LeaveBalance {
	return leave.LeaveBalance{
		ID:             uuid.New(),
		EmployeeID:     employeeID,
		LeaveType:      leave.TypeAnnual,
		FinancialYear:  label,
		OpeningBalance: days(12),
		Taken:          days(taken),
		Pending:        days(pending),
		Version:        version,
	}
}

func TestBalanceMutator_Reserve(t *testing.T) {
	ctx := context.Background()
	emp := uuid.New()

	t.Run("adds to pending and bumps version", func(t *testing.T) {
		row := seedBalance(emp, "2024-25", 2, 1, 4)
		store := newMemBalanceStore(row)
		m := leave.NewBalanceMutator(store, zeroDelayConfig(mutatorNow))

		mut, err := m.Reserve(ctx, emp.String(), leave.TypeAnnual, days(3))

		assert.NoError(t, err)
		assert.True(t, mut.Applied)
		assert.Equal(t, leave.OpReserve, mut.Op)
		got := store.get(row.ID)
		assert.True(t, got.Pending.Equal(days(4)))
		assert.True(t, got.Taken.Equal(days(2)))
		assert.Equal(t, int64(5), got.Version)
		assert.True(t, mut.Before.Pending.Equal(days(1)))
		assert.Equal(t, int64(5), mut.After.Version)
	})

	t.Run("missing row is a no-op", func(t *testing.T) {
		store := newMemBalanceStore()
		m := leave.NewBalanceMutator(store, zeroDelayConfig(mutatorNow))

		mut, err := m.Reserve(ctx, emp.String(), leave.TypeAnnual, days(1))

		assert.NoError(t, err)
		assert.False(t, mut.Applied)
	})

	t.Run("row from another financial year is ignored", func(t *testing.T) {
		row := seedBalance(emp, "2021-22", 0, 0, 1)
		store := newMemBalanceStore(row)
		m := leave.NewBalanceMutator(store, zeroDelayConfig(mutatorNow))

		mut, err := m.Reserve(ctx, emp.String(), leave.TypeAnnual, days(1))

		assert.NoError(t, err)
		assert.False(t, mut.Applied)
		assert.Equal(t, int64(1), store.get(row.ID).Version)
	})

	t.Run("conflict is not retried", func(t *testing.T) {
		row := seedBalance(emp, "2024-25", 0, 0, 1)
		store := newMemBalanceStore(row)
		store.setConflicts(1)
		m := leave.NewBalanceMutator(store, zeroDelayConfig(mutatorNow))

		mut, err := m.Reserve(ctx, emp.String(), leave.TypeAnnual, days(1))

		assert.ErrorIs(t, err, leave.ErrBalanceConflict)
		assert.Equal(t, 1, mut.Attempts)
		assert.True(t, store.get(row.ID).Pending.IsZero())
	})

	t.Run("rejects non-positive days", func(t *testing.T) {
		m := leave.NewBalanceMutator(newMemBalanceStore(), zeroDelayConfig(mutatorNow))

		_, err := m.Reserve(ctx, emp.String(), leave.TypeAnnual, days(0))
		assert.ErrorIs(t, err, leave.ErrNonPositiveDays)
	})
}

func TestBalanceMutator_Deduct(t *testing.T) {
	ctx := context.Background()
	emp := uuid.New()

	t.Run("moves pending into taken", func(t *testing.T) {
		row := seedBalance(emp, "FY2024-2025", 2, 3, 7)
		store := newMemBalanceStore(row)
		m := leave.NewBalanceMutator(store, zeroDelayConfig(mutatorNow))

		mut, err := m.Deduct(ctx, emp.String(), leave.TypeAnnual, days(3))

		assert.NoError(t, err)
		assert.True(t, mut.Applied)
		got := store.get(row.ID)
		assert.True(t, got.Taken.Equal(days(5)))
		assert.True(t, got.Pending.IsZero())
		assert.Equal(t, int64(8), got.Version)
	})

	t.Run("pending is clamped at zero", func(t *testing.T) {
		row := seedBalance(emp, "2024", 0, 1, 0)
		store := newMemBalanceStore(row)
		m := leave.NewBalanceMutator(store, zeroDelayConfig(mutatorNow))

		_, err := m.Deduct(ctx, emp.String(), leave.TypeAnnual, days(2.5))

		assert.NoError(t, err)
		got := store.get(row.ID)
		assert.True(t, got.Taken.Equal(days(2.5)))
		assert.True(t, got.Pending.IsZero())
	})

	t.Run("retries until the swap lands", func(t *testing.T) {
		row := seedBalance(emp, "2024-25", 1, 1, 1)
		store := newMemBalanceStore(row)
		store.setConflicts(2)
		m := leave.NewBalanceMutator(store, zeroDelayConfig(mutatorNow))

		mut, err := m.Deduct(ctx, emp.String(), leave.TypeAnnual, days(1))

		assert.NoError(t, err)
		assert.Equal(t, 3, mut.Attempts)
		got := store.get(row.ID)
		assert.True(t, got.Taken.Equal(days(2)))
		// two phantom writes plus ours
		assert.Equal(t, int64(4), got.Version)
	})

	t.Run("exhausted retries leave values untouched", func(t *testing.T) {
		row := seedBalance(emp, "2024-25", 1, 1, 1)
		store := newMemBalanceStore(row)
		store.setConflicts(3)
		m := leave.NewBalanceMutator(store, zeroDelayConfig(mutatorNow))

		mut, err := m.Deduct(ctx, emp.String(), leave.TypeAnnual, days(1))

		assert.ErrorIs(t, err, leave.ErrBalanceConflict)
		assert.False(t, mut.Applied)
		assert.Equal(t, 3, mut.Attempts)
		got := store.get(row.ID)
		assert.True(t, got.Taken.Equal(days(1)))
		assert.True(t, got.Pending.Equal(days(1)))
	})

	t.Run("backoff honours context cancellation", func(t *testing.T) {
		row := seedBalance(emp, "2024-25", 0, 0, 0)
		store := newMemBalanceStore(row)
		store.setConflicts(1)
		cfg := zeroDelayConfig(mutatorNow)
		cfg.CommitRetry = leave.RetryPolicy{MaxAttempts: 3, BaseDelay: time.Hour}
		m := leave.NewBalanceMutator(store, cfg)

		cctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()
		_, err := m.Deduct(cctx, emp.String(), leave.TypeAnnual, days(1))

		assert.True(t, errors.Is(err, context.DeadlineExceeded))
	})
}

func TestBalanceMutator_PrefersCurrentFinancialYear(t *testing.T) {
	ctx := context.Background()
	emp := uuid.New()
	now := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)

	prev := seedBalance(emp, "2025-26", 0, 0, 0)
	prev.CreatedAt = time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	cur := seedBalance(emp, "FY2026-27", 0, 2, 0)
	cur.CreatedAt = time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	store := newMemBalanceStore(prev, cur)
	m := leave.NewBalanceMutator(store, zeroDelayConfig(now))

	mut, err := m.Deduct(ctx, emp.String(), leave.TypeAnnual, days(2))

	assert.NoError(t, err)
	assert.Equal(t, cur.ID, mut.BalanceID)
	assert.True(t, store.get(cur.ID).Taken.Equal(days(2)))
	assert.True(t, store.get(prev.ID).Taken.IsZero())

	t.Run("falls back to the neighbouring year", func(t *testing.T) {
		store := newMemBalanceStore(prev)
		m := leave.NewBalanceMutator(store, zeroDelayConfig(now))

		mut, err := m.Reserve(ctx, emp.String(), leave.TypeAnnual, days(1))

		assert.NoError(t, err)
		assert.Equal(t, prev.ID, mut.BalanceID)
	})
}

func TestBalanceMutator_Release(t *testing.T) {
	ctx := context.Background()
	emp := uuid.New()

	row := seedBalance(emp, "2024-25", 4, 2, 3)
	store := newMemBalanceStore(row)
	m := leave.NewBalanceMutator(store, zeroDelayConfig(mutatorNow))

	mut, err := m.Release(ctx, emp.String(), leave.TypeAnnual, days(3))

	assert.NoError(t, err)
	assert.True(t, mut.Applied)
	got := store.get(row.ID)
	assert.True(t, got.Pending.IsZero())
	assert.True(t, got.Taken.Equal(days(4)))
	assert.Equal(t, int64(4), got.Version)
}

func TestBalanceMutator_Revert(t *testing.T) {
	ctx := context.Background()
	emp := uuid.New()

	t.Run("restores pre-deduction values", func(t *testing.T) {
		row := seedBalance(emp, "2024-25", 2, 3, 1)
		store := newMemBalanceStore(row)
		m := leave.NewBalanceMutator(store, zeroDelayConfig(mutatorNow))

		deducted, err := m.Deduct(ctx, emp.String(), leave.TypeAnnual, days(3))
		assert.NoError(t, err)

		reverted, err := m.Revert(ctx, deducted)

		assert.NoError(t, err)
		assert.True(t, reverted.Applied)
		assert.Equal(t, leave.OpRevert, reverted.Op)
		got := store.get(row.ID)
		assert.True(t, got.Taken.Equal(days(2)))
		assert.True(t, got.Pending.Equal(days(3)))
		assert.Equal(t, int64(3), got.Version)
	})

	t.Run("reverting a no-op does nothing", func(t *testing.T) {
		m := leave.NewBalanceMutator(newMemBalanceStore(), zeroDelayConfig(mutatorNow))

		reverted, err := m.Revert(ctx, leave.Mutation{Op: leave.OpDeduct})

		assert.NoError(t, err)
		assert.False(t, reverted.Applied)
	})

	t.Run("keeps interleaved writes", func(t *testing.T) {
		row := seedBalance(emp, "2024-25", 0, 2, 1)
		store := newMemBalanceStore(row)
		m := leave.NewBalanceMutator(store, zeroDelayConfig(mutatorNow))

		deducted, err := m.Deduct(ctx, emp.String(), leave.TypeAnnual, days(2))
		assert.NoError(t, err)
		// another request reserves in between
		_, err = m.Reserve(ctx, emp.String(), leave.TypeAnnual, days(1))
		assert.NoError(t, err)

		_, err = m.Revert(ctx, deducted)

		assert.NoError(t, err)
		got := store.get(row.ID)
		assert.True(t, got.Taken.IsZero())
		assert.True(t, got.Pending.Equal(days(3)))
	})
}

func TestRetryPolicyDefaults(t *testing.T) {
	assert.Equal(t, 3, leave.DefaultCommitRetry.MaxAttempts)
	assert.Equal(t, 100*time.Millisecond, leave.DefaultCommitRetry.BaseDelay)
	assert.Equal(t, 1, leave.DefaultReservationRetry.MaxAttempts)

	cfg := leave.DefaultMutatorConfig()
	assert.Equal(t, leave.DefaultCommitRetry, cfg.CommitRetry)
	assert.NotNil(t, cfg.Now)
}
