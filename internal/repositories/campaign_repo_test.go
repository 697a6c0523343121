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

type CampaignRepoTestSuite struct {
	suite.Suite
	mock      pgxmock.PgxPoolIface
	repo      CampaignRepository
	companyID uuid.UUID
	ctx       context.Context
}

func (suite *CampaignRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewCampaignRepo(mock)
	suite.companyID = uuid.New()
	suite.ctx = context.Background()
}

func (suite *CampaignRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestCampaignRepoTestSuite(t *testing.T) {
	suite.Run(t, new(CampaignRepoTestSuite))
}

func (suite *CampaignRepoTestSuite) TestListActiveWithReminders() {
	now := time.Now()
	reminders := []models.Reminder{{Label: "24h before", Unit: models.ReminderUnitHours, Value: 24, Enabled: true}}
	rows := pgxmock.NewRows([]string{"id", "company_id", "name", "subject", "html_body", "status", "reminders", "created_at", "updated_at"}).
		AddRow(uuid.New(), suite.companyID, "Spring promo", "Your appointment", "<p>Hi {{.first_name}}</p>", "active", reminders, now, now)

	suite.mock.ExpectQuery(`WHERE status = 'active'\s+AND reminders @> '\[\{"enabled": true\}\]'`).
		WillReturnRows(rows)

	campaigns, err := suite.repo.ListActiveWithReminders(suite.ctx)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), campaigns, 1)
	assert.True(suite.T(), campaigns[0].HasEnabledReminder())
}

func (suite *CampaignRepoTestSuite) TestBulkActivate_Scoped() {
	// Draft and scheduled rows alike are promoted; only status <> 'active'
	// is excluded from the update.
	suite.mock.ExpectExec(`UPDATE email_campaigns\s+SET status = 'active', updated_at = NOW\(\)\s+WHERE status <> 'active'\s+AND reminders @> '\[\{"enabled": true\}\]'`).
		WithArgs(suite.companyID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	n, err := suite.repo.BulkActivate(suite.ctx, tenancy.ScopeForCompany(suite.companyID))
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(3), n)
}

func (suite *CampaignRepoTestSuite) TestBulkActivate_Idempotent() {
	// A second pass finds nothing left in a non-active state.
	suite.mock.ExpectExec(`UPDATE email_campaigns\s+SET status = 'active', updated_at = NOW\(\)\s+WHERE status <> 'active'`).
		WithArgs(suite.companyID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	n, err := suite.repo.BulkActivate(suite.ctx, tenancy.ScopeForCompany(suite.companyID))
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(0), n)
}

func (suite *CampaignRepoTestSuite) TestBulkActivate_Unscoped() {
	suite.mock.ExpectExec(`UPDATE email_campaigns\s+SET status = 'active'`).
		WillReturnResult(pgxmock.NewResult("UPDATE", 7))

	n, err := suite.repo.BulkActivate(suite.ctx, tenancy.Scope{})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(7), n)
}

func (suite *CampaignRepoTestSuite) TestUpdateStatus_Scoped() {
	id := uuid.New()
	suite.mock.ExpectExec(`UPDATE email_campaigns SET status = \$1, updated_at = NOW\(\) WHERE company_id = \$2 AND id = \$3`).
		WithArgs("active", suite.companyID, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.UpdateStatus(suite.ctx, tenancy.ScopeForCompany(suite.companyID), id, "active")
	assert.NoError(suite.T(), err)
}
