package tenancy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/AmineshOptisoft/next-crm-sub003/internal/models"
)

func TestScopeFor(t *testing.T) {
	companyID := uuid.New()

	superAdmin := &models.Principal{Role: models.RoleSuperAdmin}
	assert.True(t, ScopeFor(superAdmin).All())

	// A super admin with a home company still scans everything.
	superAdmin.CompanyID = &companyID
	assert.True(t, ScopeFor(superAdmin).All())

	admin := &models.Principal{Role: models.RoleCompanyAdmin, CompanyID: &companyID}
	scope := ScopeFor(admin)
	assert.False(t, scope.All())
	assert.Equal(t, companyID, *scope.CompanyID)

	assert.True(t, ScopeFor(nil).All())
}

func TestScopeForCompany(t *testing.T) {
	companyID := uuid.New()
	scope := ScopeForCompany(companyID)
	assert.False(t, scope.All())
	assert.Equal(t, companyID, *scope.CompanyID)
}

func TestValidateCompanyAccess(t *testing.T) {
	companyID := uuid.New()

	assert.Error(t, ValidateCompanyAccess(nil))
	assert.NoError(t, ValidateCompanyAccess(&models.Principal{Role: models.RoleSuperAdmin}))
	assert.Error(t, ValidateCompanyAccess(&models.Principal{Role: models.RoleCompanyUser}))
	assert.NoError(t, ValidateCompanyAccess(&models.Principal{Role: models.RoleCompanyUser, CompanyID: &companyID}))
}

func TestRequireCompany(t *testing.T) {
	own := uuid.New()
	other := uuid.New()

	t.Run("super admin picks any company", func(t *testing.T) {
		p := &models.Principal{Role: models.RoleSuperAdmin}
		got, err := RequireCompany(p, &other)
		assert.NoError(t, err)
		assert.Equal(t, other, got)
	})

	t.Run("super admin without a target fails", func(t *testing.T) {
		p := &models.Principal{Role: models.RoleSuperAdmin}
		_, err := RequireCompany(p, nil)
		assert.Error(t, err)
	})

	t.Run("tenant user lands in own company", func(t *testing.T) {
		p := &models.Principal{Role: models.RoleCompanyUser, CompanyID: &own}
		got, err := RequireCompany(p, nil)
		assert.NoError(t, err)
		assert.Equal(t, own, got)

		got, err = RequireCompany(p, &own)
		assert.NoError(t, err)
		assert.Equal(t, own, got)
	})

	t.Run("tenant user cannot target another company", func(t *testing.T) {
		p := &models.Principal{Role: models.RoleCompanyUser, CompanyID: &own}
		_, err := RequireCompany(p, &other)
		assert.Error(t, err)
	})
}
