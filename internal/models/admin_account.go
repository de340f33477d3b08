package models

import (
	"fmt"
	"time"
)

// AdminRole is the staff role attached to an admin account
type AdminRole string

const (
	AdminRoleAdmin      AdminRole = "admin"
	AdminRoleSuperAdmin AdminRole = "superadmin"
)

// ParseAdminRole validates a role, defaulting empty input to admin
func ParseAdminRole(s string) (AdminRole, error) {
	switch AdminRole(s) {
	case "":
		return AdminRoleAdmin, nil
	case AdminRoleAdmin, AdminRoleSuperAdmin:
		return AdminRole(s), nil
	}
	return "", fmt.Errorf("unknown admin role %q", s)
}

// CanSeeRestrictedNav reports whether the Activity Logs and Account Manager
// sections are available. Every role except plain admin sees them.
func (r AdminRole) CanSeeRestrictedNav() bool {
	return r != AdminRoleAdmin
}

// CanSeeRow reports whether a viewer with this role may see log rows
// belonging to an account with rowRole
func (r AdminRole) CanSeeRow(rowRole AdminRole) bool {
	if r == AdminRoleSuperAdmin {
		return true
	}
	return rowRole != AdminRoleSuperAdmin
}

// AdminAccount represents a staff login as returned by the remote API.
// The password is write-only and never present here.
type AdminAccount struct {
	ID        string     `json:"_id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      AdminRole  `json:"role"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// AdminForm is the create-or-update form of the account manager
type AdminForm struct {
	Name     string    `json:"name" validate:"required"`
	Email    string    `json:"email" validate:"required"`
	Password string    `json:"password" validate:"required"`
	Role     AdminRole `json:"role" validate:"omitempty,oneof=admin superadmin"`
}

// FormFor prefills the form from an existing account. The password is never prefilled.
func FormFor(a *AdminAccount) AdminForm {
	if a == nil {
		return AdminForm{Role: AdminRoleAdmin}
	}
	return AdminForm{Name: a.Name, Email: a.Email, Role: a.Role}
}

// LoginRequest is the credential pair posted to the remote login endpoint
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// NavPermissions tells a UI which sidebar sections to render
type NavPermissions struct {
	ActivityLogs   bool `json:"activity_logs"`
	AccountManager bool `json:"account_manager"`
}

// NavFor returns the navigation visible to role
func NavFor(role AdminRole) NavPermissions {
	restricted := role.CanSeeRestrictedNav()
	return NavPermissions{ActivityLogs: restricted, AccountManager: restricted}
}
