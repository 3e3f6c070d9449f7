// Package tenant holds the gorm scopes that keep queries inside one company.
package tenant

import "gorm.io/gorm"

// Scope restricts a query to companyID.
func Scope(companyID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("company_id = ?", companyID)
	}
}

// ScopeOrAll is Scope for a non-empty companyID and a no-op for the empty
// string, which super admins use to read across companies.
func ScopeOrAll(companyID string) func(db *gorm.DB) *gorm.DB {
	if companyID == "" {
		return func(db *gorm.DB) *gorm.DB { return db }
	}
	return Scope(companyID)
}
