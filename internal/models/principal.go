package models

import (
	"github.com/google/uuid"
)

// Role is the coarse access level attached to every user.
type Role string

const (
	RoleSuperAdmin   Role = "super_admin"
	RoleCompanyAdmin Role = "company_admin"
	RoleCompanyUser  Role = "company_user"
	RoleEmployee     Role = "employee"
)

// Action is one of the operations a permission module can grant.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
	ActionExport Action = "export"
)

// ModulePermission is a per-user override refining the role defaults for
// one module. Overrides are an ordered set; the first entry matching a
// module wins.
type ModulePermission struct {
	Module  string   `json:"module"`
	Actions []Action `json:"actions"`
}

// Principal is the authenticated actor making a request. Resolved once per
// request by the JWT middleware and carried on the request context.
type Principal struct {
	UserID      uuid.UUID          `json:"user_id"`
	Email       string             `json:"email"`
	Role        Role               `json:"role"`
	CompanyID   *uuid.UUID         `json:"company_id,omitempty"`
	CompanyName string             `json:"company_name,omitempty"`
	Permissions []ModulePermission `json:"permissions,omitempty"`
}

// IsSuperAdmin reports whether the principal has implicit access to all
// companies.
func (p *Principal) IsSuperAdmin() bool {
	return p.Role == RoleSuperAdmin
}
