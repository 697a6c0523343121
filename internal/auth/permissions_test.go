package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/AmineshOptisoft/next-crm-sub003/internal/models"
)

type PermissionsTestSuite struct {
	suite.Suite
	companyID uuid.UUID
}

func (suite *PermissionsTestSuite) SetupTest() {
	suite.companyID = uuid.New()
}

func TestPermissionsTestSuite(t *testing.T) {
	suite.Run(t, new(PermissionsTestSuite))
}

func (suite *PermissionsTestSuite) principal(role models.Role, perms ...models.ModulePermission) *models.Principal {
	return &models.Principal{
		UserID:      uuid.New(),
		Email:       "user@example.com",
		Role:        role,
		CompanyID:   &suite.companyID,
		Permissions: perms,
	}
}

func (suite *PermissionsTestSuite) TestNilPrincipal() {
	err := CheckPermission(nil, ModuleContacts, models.ActionView)
	assert.Error(suite.T(), err)
}

func (suite *PermissionsTestSuite) TestSuperAdminAlwaysAllowed() {
	p := suite.principal(models.RoleSuperAdmin)
	for _, module := range KnownModules() {
		assert.NoError(suite.T(), CheckPermission(p, module, models.ActionDelete))
	}
	// Even an explicit empty override cannot restrict a super admin.
	p.Permissions = []models.ModulePermission{{Module: ModuleContacts, Actions: nil}}
	assert.NoError(suite.T(), CheckPermission(p, ModuleContacts, models.ActionDelete))
}

func (suite *PermissionsTestSuite) TestCompanyAdminDefaults() {
	p := suite.principal(models.RoleCompanyAdmin)

	assert.NoError(suite.T(), CheckPermission(p, ModuleContacts, models.ActionDelete))
	assert.NoError(suite.T(), CheckPermission(p, ModuleCampaigns, models.ActionExport))

	// companies is restricted to view/edit for admins.
	assert.NoError(suite.T(), CheckPermission(p, ModuleCompanies, models.ActionView))
	assert.NoError(suite.T(), CheckPermission(p, ModuleCompanies, models.ActionEdit))
	assert.Error(suite.T(), CheckPermission(p, ModuleCompanies, models.ActionDelete))
	assert.Error(suite.T(), CheckPermission(p, ModuleCompanies, models.ActionCreate))
}

func (suite *PermissionsTestSuite) TestCompanyUserDefaults() {
	p := suite.principal(models.RoleCompanyUser)

	assert.NoError(suite.T(), CheckPermission(p, ModuleDeals, models.ActionView))
	assert.NoError(suite.T(), CheckPermission(p, ModuleDeals, models.ActionCreate))
	assert.NoError(suite.T(), CheckPermission(p, ModuleDeals, models.ActionEdit))
	assert.Error(suite.T(), CheckPermission(p, ModuleDeals, models.ActionDelete))

	// employees and companies drop to view-only.
	assert.NoError(suite.T(), CheckPermission(p, ModuleEmployees, models.ActionView))
	assert.Error(suite.T(), CheckPermission(p, ModuleEmployees, models.ActionCreate))
	assert.Error(suite.T(), CheckPermission(p, ModuleCompanies, models.ActionEdit))
}

func (suite *PermissionsTestSuite) TestEmployeeDefaults() {
	p := suite.principal(models.RoleEmployee)

	assert.NoError(suite.T(), CheckPermission(p, ModuleTasks, models.ActionView))
	assert.Error(suite.T(), CheckPermission(p, ModuleTasks, models.ActionCreate))
	assert.Error(suite.T(), CheckPermission(p, ModuleEmployees, models.ActionView))
}

func (suite *PermissionsTestSuite) TestOverrideDecidesAlone() {
	// An override narrower than the role default must deny even actions the
	// default would have granted.
	p := suite.principal(models.RoleCompanyAdmin, models.ModulePermission{
		Module:  ModuleInvoices,
		Actions: []models.Action{models.ActionView},
	})
	assert.NoError(suite.T(), CheckPermission(p, ModuleInvoices, models.ActionView))
	assert.Error(suite.T(), CheckPermission(p, ModuleInvoices, models.ActionDelete))

	// An override wider than the default grants beyond it.
	p = suite.principal(models.RoleEmployee, models.ModulePermission{
		Module:  ModuleTasks,
		Actions: []models.Action{models.ActionView, models.ActionEdit},
	})
	assert.NoError(suite.T(), CheckPermission(p, ModuleTasks, models.ActionEdit))
}

func (suite *PermissionsTestSuite) TestFirstMatchingOverrideWins() {
	p := suite.principal(models.RoleCompanyUser,
		models.ModulePermission{Module: ModuleContacts, Actions: []models.Action{models.ActionView}},
		models.ModulePermission{Module: ModuleContacts, Actions: []models.Action{models.ActionView, models.ActionDelete}},
	)
	assert.Error(suite.T(), CheckPermission(p, ModuleContacts, models.ActionDelete))
}

func (suite *PermissionsTestSuite) TestOverrideDoesNotLeakAcrossModules() {
	p := suite.principal(models.RoleEmployee, models.ModulePermission{
		Module:  ModuleContacts,
		Actions: []models.Action{models.ActionDelete},
	})
	assert.NoError(suite.T(), CheckPermission(p, ModuleContacts, models.ActionDelete))
	// Other modules still resolve through the role default.
	assert.Error(suite.T(), CheckPermission(p, ModuleDeals, models.ActionDelete))
	assert.NoError(suite.T(), CheckPermission(p, ModuleDeals, models.ActionView))
}

func (suite *PermissionsTestSuite) TestUnknownModuleFallsThroughToDefaults() {
	p := suite.principal(models.RoleCompanyAdmin)
	assert.NoError(suite.T(), CheckPermission(p, "reports", models.ActionView))

	emp := suite.principal(models.RoleEmployee)
	assert.NoError(suite.T(), CheckPermission(emp, "reports", models.ActionView))
	assert.Error(suite.T(), CheckPermission(emp, "reports", models.ActionEdit))
}

func (suite *PermissionsTestSuite) TestValidateModules() {
	assert.NoError(suite.T(), ValidateModules())
	assert.True(suite.T(), IsKnownModule(ModuleServiceAreas))
	assert.False(suite.T(), IsKnownModule("reports"))
}
