package models

import (
	"time"

	"spendtrack/internal/authz"
)

// Permissions are the per-account capability flags gating API actions.
type Permissions struct {
	CanAdd           bool `json:"canAdd"`
	CanEdit          bool `json:"canEdit"`
	CanDelete        bool `json:"canDelete"`
	CanViewTeam      bool `json:"canViewTeam"`
	CanManageUsers   bool `json:"canManageUsers"`
	CanExport        bool `json:"canExport"`
	CanAccessReports bool `json:"canAccessReports"`
}

func (p Permissions) Has(flag string) bool {
	switch flag {
	case authz.PermAdd:
		return p.CanAdd
	case authz.PermEdit:
		return p.CanEdit
	case authz.PermDelete:
		return p.CanDelete
	case authz.PermViewTeam:
		return p.CanViewTeam
	case authz.PermManageUsers:
		return p.CanManageUsers
	case authz.PermExport:
		return p.CanExport
	case authz.PermAccessReports:
		return p.CanAccessReports
	}
	return false
}

// DefaultUserPermissions is what a self-registered account starts with.
func DefaultUserPermissions() Permissions {
	return Permissions{
		CanAdd:           true,
		CanEdit:          true,
		CanDelete:        true,
		CanExport:        true,
		CanAccessReports: true,
	}
}

var (
	DefaultExpenseCategories = []string{"Food", "Transport", "Housing", "Utilities", "Health", "Entertainment", "Other"}
	DefaultIncomeCategories  = []string{"Salary", "Business", "Investments", "Gifts", "Other"}
)

type Account struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Mobile       string `json:"mobile"`
	PasswordHash string `json:"-"`

	Role       string `json:"role"`
	ManagerID  *int   `json:"manager_id,omitempty"`
	IsVerified bool   `json:"is_verified"`

	Permissions Permissions `json:"permissions"`

	ExpenseCategories []string `json:"expense_categories"`
	IncomeCategories  []string `json:"income_categories"`

	CreatedAt time.Time `json:"created_at"`
}

// Public strips everything a caller other than the account itself
// has no business seeing.
func (a *Account) Public() *Account {
	cp := *a
	cp.PasswordHash = ""
	return &cp
}

type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}
