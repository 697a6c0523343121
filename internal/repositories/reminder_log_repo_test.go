package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type ReminderLogRepoTestSuite struct {
	suite.Suite
	mock       pgxmock.PgxPoolIface
	repo       ReminderLogRepository
	campaignID uuid.UUID
	contactID  uuid.UUID
	ctx        context.Context
}

func (suite *ReminderLogRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewReminderLogRepo(mock)
	suite.campaignID = uuid.New()
	suite.contactID = uuid.New()
	suite.ctx = context.Background()
}

func (suite *ReminderLogRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestReminderLogRepoTestSuite(t *testing.T) {
	suite.Run(t, new(ReminderLogRepoTestSuite))
}

func (suite *ReminderLogRepoTestSuite) TestClaimSent_FirstClaimWins() {
	suite.mock.ExpectExec(`INSERT INTO reminder_logs`).
		WithArgs(pgxmock.AnyArg(), suite.campaignID, suite.contactID, "24h before").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	claimed, err := suite.repo.ClaimSent(suite.ctx, suite.campaignID, suite.contactID, "24h before")
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), claimed)
}

func (suite *ReminderLogRepoTestSuite) TestClaimSent_SecondClaimLoses() {
	// The partial unique index swallows the insert; zero rows means a sent
	// row already exists for the triple.
	suite.mock.ExpectExec(`INSERT INTO reminder_logs`).
		WithArgs(pgxmock.AnyArg(), suite.campaignID, suite.contactID, "24h before").
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	claimed, err := suite.repo.ClaimSent(suite.ctx, suite.campaignID, suite.contactID, "24h before")
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), claimed)
}

func (suite *ReminderLogRepoTestSuite) TestClaimSent_Error() {
	suite.mock.ExpectExec(`INSERT INTO reminder_logs`).
		WithArgs(pgxmock.AnyArg(), suite.campaignID, suite.contactID, "1h before").
		WillReturnError(errors.New("connection refused"))

	claimed, err := suite.repo.ClaimSent(suite.ctx, suite.campaignID, suite.contactID, "1h before")
	assert.Error(suite.T(), err)
	assert.False(suite.T(), claimed)
}

func (suite *ReminderLogRepoTestSuite) TestMarkFailed() {
	suite.mock.ExpectExec(`UPDATE reminder_logs`).
		WithArgs("smtp timeout", suite.campaignID, suite.contactID, "24h before").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.MarkFailed(suite.ctx, suite.campaignID, suite.contactID, "24h before", "smtp timeout")
	assert.NoError(suite.T(), err)
}

func (suite *ReminderLogRepoTestSuite) TestHasSent() {
	suite.mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(suite.campaignID, suite.contactID, "24h before").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	sent, err := suite.repo.HasSent(suite.ctx, suite.campaignID, suite.contactID, "24h before")
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), sent)
}

func (suite *ReminderLogRepoTestSuite) TestListByCampaign() {
	now := time.Now()
	rows := pgxmock.NewRows([]string{"id", "campaign_id", "contact_id", "reminder_label", "status", "error", "sent_at"}).
		AddRow(uuid.New(), suite.campaignID, suite.contactID, "24h before", "sent", nil, now).
		AddRow(uuid.New(), suite.campaignID, uuid.New(), "1h before", "failed", strPtr("smtp timeout"), now.Add(-time.Hour))

	suite.mock.ExpectQuery(`SELECT id, campaign_id, contact_id, reminder_label, status, error, sent_at`).
		WithArgs(suite.campaignID, 50, 0).
		WillReturnRows(rows)

	logs, err := suite.repo.ListByCampaign(suite.ctx, suite.campaignID, 50, 0)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), logs, 2)
	assert.Equal(suite.T(), "sent", logs[0].Status)
	assert.Equal(suite.T(), "failed", logs[1].Status)
	assert.Equal(suite.T(), "smtp timeout", *logs[1].Error)
}

func strPtr(s string) *string {
	return &s
}
