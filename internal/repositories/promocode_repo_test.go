package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/AmineshOptisoft/next-crm-sub003/internal/common"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/models"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/tenancy"
)

type PromocodeRepoTestSuite struct {
	suite.Suite
	mock       pgxmock.PgxPoolIface
	repo       PromocodeRepository
	companyID1 uuid.UUID
	companyID2 uuid.UUID
	ctx        context.Context
}

func (suite *PromocodeRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewPromocodeRepo(mock)
	suite.companyID1 = uuid.New()
	suite.companyID2 = uuid.New()
	suite.ctx = context.Background()
}

func (suite *PromocodeRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestPromocodeRepoTestSuite(t *testing.T) {
	suite.Run(t, new(PromocodeRepoTestSuite))
}

func (suite *PromocodeRepoTestSuite) promocode(companyID uuid.UUID, code string) *models.Promocode {
	return &models.Promocode{
		ID:        uuid.New(),
		CompanyID: companyID,
		Code:      code,
		Discount:  15,
		Active:    true,
	}
}

func (suite *PromocodeRepoTestSuite) TestCreate_Success() {
	promocode := suite.promocode(suite.companyID1, "SUMMER15")

	suite.mock.ExpectExec(`INSERT INTO promocodes`).
		WithArgs(promocode.ID, promocode.CompanyID, promocode.Code, promocode.Discount, promocode.Description, promocode.ExpiresAt, promocode.Active).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.ctx, promocode)
	assert.NoError(suite.T(), err)
}

func (suite *PromocodeRepoTestSuite) TestCreate_DuplicateCodeSameCompany() {
	promocode := suite.promocode(suite.companyID1, "SUMMER15")

	suite.mock.ExpectExec(`INSERT INTO promocodes`).
		WithArgs(promocode.ID, promocode.CompanyID, promocode.Code, promocode.Discount, promocode.Description, promocode.ExpiresAt, promocode.Active).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := suite.repo.Create(suite.ctx, promocode)
	assert.Error(suite.T(), err)

	appErr, ok := err.(*common.AppError)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), common.KindConflict, appErr.Kind)
}

func (suite *PromocodeRepoTestSuite) TestCreate_SameCodeDifferentCompany() {
	// The unique index is per company, so the same code string inserts
	// cleanly for another tenant.
	promocode := suite.promocode(suite.companyID2, "SUMMER15")

	suite.mock.ExpectExec(`INSERT INTO promocodes`).
		WithArgs(promocode.ID, promocode.CompanyID, promocode.Code, promocode.Discount, promocode.Description, promocode.ExpiresAt, promocode.Active).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.ctx, promocode)
	assert.NoError(suite.T(), err)
}

func (suite *PromocodeRepoTestSuite) TestGetByCode() {
	now := time.Now()
	rows := pgxmock.NewRows([]string{"id", "company_id", "code", "discount", "description", "expires_at", "active", "created_at", "updated_at"}).
		AddRow(uuid.New(), suite.companyID1, "SUMMER15", 15.0, nil, nil, true, now, now)

	suite.mock.ExpectQuery(`SELECT .+ FROM promocodes WHERE company_id = \$1 AND code = \$2`).
		WithArgs(suite.companyID1, "SUMMER15").
		WillReturnRows(rows)

	promocode, err := suite.repo.GetByCode(suite.ctx, suite.companyID1, "SUMMER15")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "SUMMER15", promocode.Code)
	assert.Equal(suite.T(), suite.companyID1, promocode.CompanyID)
}

func (suite *PromocodeRepoTestSuite) TestList_ScopedToCompany() {
	now := time.Now()
	rows := pgxmock.NewRows([]string{"id", "company_id", "code", "discount", "description", "expires_at", "active", "created_at", "updated_at"}).
		AddRow(uuid.New(), suite.companyID1, "WELCOME10", 10.0, nil, nil, true, now, now)

	suite.mock.ExpectQuery(`FROM promocodes\s+WHERE company_id = \$1`).
		WithArgs(suite.companyID1, 50, 0).
		WillReturnRows(rows)

	promocodes, err := suite.repo.List(suite.ctx, tenancy.ScopeForCompany(suite.companyID1), 50, 0)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), promocodes, 1)
}

func (suite *PromocodeRepoTestSuite) TestDelete_Scoped() {
	id := uuid.New()
	suite.mock.ExpectExec(`DELETE FROM promocodes WHERE company_id = \$1 AND id = \$2`).
		WithArgs(suite.companyID1, id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := suite.repo.Delete(suite.ctx, tenancy.ScopeForCompany(suite.companyID1), id)
	assert.NoError(suite.T(), err)
}
