package counter_test

import (
	"context"
	"errors"
	"testing"

	"go-hrpay/internal/shared/counter"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupCounterRepo(t *testing.T) (counter.Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)

	return counter.NewRepository(gormDB), mock
}

func TestCounterRepository_GetNextValue(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo, mock := setupCounterRepo(t)
		mock.ExpectQuery(`INSERT INTO company_counters`).
			WithArgs("company-1", counter.TypeLeaveRequest).
			WillReturnRows(sqlmock.NewRows([]string{"last_value"}).AddRow(42))

		v, err := repo.GetNextValue(ctx, "company-1", counter.TypeLeaveRequest)

		assert.NoError(t, err)
		assert.Equal(t, int64(42), v)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock := setupCounterRepo(t)
		mock.ExpectQuery(`INSERT INTO company_counters`).WillReturnError(errors.New("db down"))

		_, err := repo.GetNextValue(ctx, "company-1", counter.TypeLeaveRequest)

		assert.EqualError(t, err, "next leave_request value: db down")
	})

	t.Run("unknown type never reaches db", func(t *testing.T) {
		repo, mock := setupCounterRepo(t)

		_, err := repo.GetNextValue(ctx, "company-1", "payslip")

		assert.EqualError(t, err, `unknown counter type "payslip"`)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

type stubRepo struct{ next int64 }

func (s stubRepo) GetNextValue(context.Context, string, string) (int64, error) { return s.next, nil }

func TestNextReference(t *testing.T) {
	ref, err := counter.NextReference(context.Background(), stubRepo{next: 42}, "company-1", counter.TypeLeaveRequest)
	assert.NoError(t, err)
	assert.Equal(t, "LV-000042", ref)

	ref, err = counter.NextReference(context.Background(), stubRepo{next: 7}, "company-1", counter.TypeExpenseClaim)
	assert.NoError(t, err)
	assert.Equal(t, "EXP-000007", ref)
}

func TestFormatReference(t *testing.T) {
	assert.Equal(t, "LV-000042", counter.FormatReference("LV", 42))
	assert.Equal(t, "EXP-1234567", counter.FormatReference("EXP", 1234567))
}
