package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/AmineshOptisoft/next-crm-sub003/internal/models"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/tenancy"
)

type DealRepoTestSuite struct {
	suite.Suite
	mock      pgxmock.PgxPoolIface
	repo      DealRepository
	companyID uuid.UUID
	dealID    uuid.UUID
	ctx       context.Context
}

func (suite *DealRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewDealRepo(mock)
	suite.companyID = uuid.New()
	suite.dealID = uuid.New()
	suite.ctx = context.Background()
}

func (suite *DealRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestDealRepoTestSuite(t *testing.T) {
	suite.Run(t, new(DealRepoTestSuite))
}

func (suite *DealRepoTestSuite) dealRow() *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{"id", "company_id", "contact_id", "owner_id", "name", "amount", "stage", "status", "expected_close", "notes", "created_at", "updated_at"}).
		AddRow(suite.dealID, suite.companyID, nil, nil, "Annual contract", 12000.0, "negotiation", "open", nil, nil, now, now)
}

func (suite *DealRepoTestSuite) TestGetByID_TenantScoped() {
	suite.mock.ExpectQuery(`SELECT .+ FROM deals WHERE company_id = \$1 AND id = \$2`).
		WithArgs(suite.companyID, suite.dealID).
		WillReturnRows(suite.dealRow())

	deal, err := suite.repo.GetByID(suite.ctx, tenancy.ScopeForCompany(suite.companyID), suite.dealID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.dealID, deal.ID)
	assert.Equal(suite.T(), suite.companyID, deal.CompanyID)
}

func (suite *DealRepoTestSuite) TestGetByID_CrossTenantMiss() {
	otherCompany := uuid.New()
	suite.mock.ExpectQuery(`SELECT .+ FROM deals WHERE company_id = \$1 AND id = \$2`).
		WithArgs(otherCompany, suite.dealID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	deal, err := suite.repo.GetByID(suite.ctx, tenancy.ScopeForCompany(otherCompany), suite.dealID)
	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), deal)
}

func (suite *DealRepoTestSuite) TestGetByID_SuperAdminUnscoped() {
	suite.mock.ExpectQuery(`SELECT .+ FROM deals WHERE id = \$1`).
		WithArgs(suite.dealID).
		WillReturnRows(suite.dealRow())

	deal, err := suite.repo.GetByID(suite.ctx, tenancy.Scope{}, suite.dealID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.dealID, deal.ID)
}

func (suite *DealRepoTestSuite) TestList_FiltersMergeOntoScope() {
	stage := "negotiation"
	minAmount := 1000.0

	suite.mock.ExpectQuery(`SELECT .+ FROM deals WHERE 1=1 AND company_id = \$1 AND stage = \$2 AND amount >= \$3 ORDER BY created_at DESC LIMIT \$4`).
		WithArgs(suite.companyID, stage, minAmount, 50).
		WillReturnRows(suite.dealRow())

	deals, err := suite.repo.List(suite.ctx, tenancy.ScopeForCompany(suite.companyID), &models.DealSearchFilter{Stage: &stage, MinAmount: &minAmount})
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), deals, 1)
}

func (suite *DealRepoTestSuite) TestList_UnscopedForSuperAdmin() {
	suite.mock.ExpectQuery(`SELECT .+ FROM deals WHERE 1=1 ORDER BY created_at DESC LIMIT \$1`).
		WithArgs(50).
		WillReturnRows(suite.dealRow())

	deals, err := suite.repo.List(suite.ctx, tenancy.Scope{}, nil)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), deals, 1)
}

func (suite *DealRepoTestSuite) TestDelete_Scoped() {
	suite.mock.ExpectExec(`DELETE FROM deals WHERE company_id = \$1 AND id = \$2`).
		WithArgs(suite.companyID, suite.dealID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := suite.repo.Delete(suite.ctx, tenancy.ScopeForCompany(suite.companyID), suite.dealID)
	assert.NoError(suite.T(), err)
}
