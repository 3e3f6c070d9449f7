package rbac

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupGormMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)
	return gdb, mock
}

func TestRepository_ListEmployeeRoles(t *testing.T) {
	gdb, mock := setupGormMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT employee_roles.employee_id, employee_roles.role_id FROM "employee_roles" JOIN roles ON roles.id = employee_roles.role_id WHERE roles.company_id = $1`)).
		WithArgs("company-1").
		WillReturnRows(sqlmock.NewRows([]string{"employee_id", "role_id"}).AddRow("emp-1", "role-manager"))

	rows, err := NewRepository(gdb).ListEmployeeRoles(context.Background(), "company-1")

	assert.NoError(t, err)
	assert.Equal(t, []EmployeeRoleRow{{EmployeeID: "emp-1", RoleID: "role-manager"}}, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListRolePermissions(t *testing.T) {
	gdb, mock := setupGormMock(t)

	mock.ExpectQuery(`SELECT role_permissions.role_id, permissions.resource, permissions.action FROM "role_permissions" JOIN .+ WHERE roles.company_id = \$1`).
		WithArgs("company-1").
		WillReturnRows(sqlmock.NewRows([]string{"role_id", "resource", "action"}).AddRow("role-manager", "leave", "approve"))

	rows, err := NewRepository(gdb).ListRolePermissions(context.Background(), "company-1")

	assert.NoError(t, err)
	assert.Equal(t, []RolePermissionRow{{RoleID: "role-manager", Resource: "leave", Action: "approve"}}, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
