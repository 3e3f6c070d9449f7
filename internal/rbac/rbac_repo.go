package rbac

import (
	"context"

	"gorm.io/gorm"
)

// EmployeeRoleRow grants RoleID to EmployeeID inside the role's company.
type EmployeeRoleRow struct {
	EmployeeID string
	RoleID     string
}

// RolePermissionRow lets RoleID perform Action on Resource.
type RolePermissionRow struct {
	RoleID   string
	Resource string
	Action   string
}

//go:generate mockgen -source=rbac_repo.go -destination=mock/rbac_repo_mock.go -package=mock
type Repository interface {
	ListEmployeeRoles(ctx context.Context, companyID string) ([]EmployeeRoleRow, error)
	ListRolePermissions(ctx context.Context, companyID string) ([]RolePermissionRow, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// companyRoles joins roles and keeps the rows belonging to companyID.
func companyRoles(companyID, fk string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Joins("JOIN roles ON roles.id = "+fk).Where("roles.company_id = ?", companyID)
	}
}

func (r *repository) ListEmployeeRoles(ctx context.Context, companyID string) ([]EmployeeRoleRow, error) {
	var rows []EmployeeRoleRow
	err := r.db.WithContext(ctx).
		Table("employee_roles").
		Select("employee_roles.employee_id, employee_roles.role_id").
		Scopes(companyRoles(companyID, "employee_roles.role_id")).
		Scan(&rows).Error
	return rows, err
}

func (r *repository) ListRolePermissions(ctx context.Context, companyID string) ([]RolePermissionRow, error) {
	var rows []RolePermissionRow
	err := r.db.WithContext(ctx).
		Table("role_permissions").
		Select("role_permissions.role_id, permissions.resource, permissions.action").
		Scopes(companyRoles(companyID, "role_permissions.role_id")).
		Joins("JOIN permissions ON permissions.id = role_permissions.permission_id").
		Scan(&rows).Error
	return rows, err
}
