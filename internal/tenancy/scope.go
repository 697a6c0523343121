package tenancy

import (
	"github.com/google/uuid"

	"github.com/AmineshOptisoft/next-crm-sub003/internal/common"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/models"
)

// Scope is the data-scoping predicate derived from a principal. Every
// repository query takes a Scope; entity filters are merged on top of it
// and can never widen it.
type Scope struct {
	CompanyID *uuid.UUID
}

// All reports whether the scope matches every company (super admins only).
func (s Scope) All() bool {
	return s.CompanyID == nil
}

// ScopeFor derives the company predicate for a principal: empty for
// super_admin, otherwise the principal's own company.
func ScopeFor(p *models.Principal) Scope {
	if p == nil || p.IsSuperAdmin() {
		return Scope{}
	}
	return Scope{CompanyID: p.CompanyID}
}

// ScopeForCompany builds a scope pinned to a single company. Used by the
// scheduler, which iterates companies outside any request.
func ScopeForCompany(companyID uuid.UUID) Scope {
	return Scope{CompanyID: &companyID}
}

// ValidateCompanyAccess fails for non-super-admin principals with no
// company association. Callers must invoke this before any create/update
// that would otherwise write a record with a null tenant key.
func ValidateCompanyAccess(p *models.Principal) error {
	if p == nil {
		return common.NewAuthenticationError("Authentication required")
	}
	if p.IsSuperAdmin() {
		return nil
	}
	if p.CompanyID == nil {
		return common.NewValidationError("No company associated with this account")
	}
	return nil
}

// RequireCompany resolves the company a write should land in: the
// principal's own company, or an explicitly requested one for super
// admins. Non-super-admin principals can never write into another tenant.
func RequireCompany(p *models.Principal, requested *uuid.UUID) (uuid.UUID, error) {
	if p != nil && p.IsSuperAdmin() {
		if requested != nil {
			return *requested, nil
		}
		if p.CompanyID != nil {
			return *p.CompanyID, nil
		}
		return uuid.Nil, common.NewValidationError("company_id is required")
	}
	if err := ValidateCompanyAccess(p); err != nil {
		return uuid.Nil, err
	}
	if requested != nil && *requested != *p.CompanyID {
		return uuid.Nil, common.NewAuthorizationError("Cannot operate on another company")
	}
	return *p.CompanyID, nil
}
