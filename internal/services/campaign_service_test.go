package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/AmineshOptisoft/next-crm-sub003/internal/models"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/tenancy"
)

// In-memory doubles. Only the methods the reminder pipeline touches have
// real behavior; the rest satisfy the repository interfaces.

type fakeCampaignRepo struct {
	campaigns []*models.EmailCampaign
	activated int64
}

func (f *fakeCampaignRepo) Create(ctx context.Context, c *models.EmailCampaign) error { return nil }
func (f *fakeCampaignRepo) GetByID(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*models.EmailCampaign, error) {
	for _, c := range f.campaigns {
		if c.ID != id {
			continue
		}
		if !scope.All() && c.CompanyID != *scope.CompanyID {
			continue
		}
		return c, nil
	}
	return nil, errors.New("no rows in result set")
}
func (f *fakeCampaignRepo) Update(ctx context.Context, c *models.EmailCampaign) error { return nil }
func (f *fakeCampaignRepo) UpdateStatus(ctx context.Context, scope tenancy.Scope, id uuid.UUID, status string) error {
	return nil
}
func (f *fakeCampaignRepo) Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error {
	return nil
}
func (f *fakeCampaignRepo) List(ctx context.Context, scope tenancy.Scope, status *string, limit, offset int) ([]*models.EmailCampaign, error) {
	return f.campaigns, nil
}
func (f *fakeCampaignRepo) ListActiveWithReminders(ctx context.Context) ([]*models.EmailCampaign, error) {
	var out []*models.EmailCampaign
	for _, c := range f.campaigns {
		if c.Status == models.CampaignStatusActive && c.HasEnabledReminder() {
			out = append(out, c)
		}
	}
	return out, nil
}
func (f *fakeCampaignRepo) BulkActivate(ctx context.Context, scope tenancy.Scope) (int64, error) {
	var n int64
	for _, c := range f.campaigns {
		if c.Status == models.CampaignStatusActive || !c.HasEnabledReminder() {
			continue
		}
		if !scope.All() && c.CompanyID != *scope.CompanyID {
			continue
		}
		c.Status = models.CampaignStatusActive
		n++
	}
	f.activated += n
	return n, nil
}

type fakeBookingRepo struct {
	bookings []*models.Booking
}

func (f *fakeBookingRepo) Create(ctx context.Context, b *models.Booking) error { return nil }
func (f *fakeBookingRepo) GetByID(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*models.Booking, error) {
	return nil, errors.New("no rows in result set")
}
func (f *fakeBookingRepo) Update(ctx context.Context, b *models.Booking) error { return nil }
func (f *fakeBookingRepo) Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error {
	return nil
}
func (f *fakeBookingRepo) List(ctx context.Context, scope tenancy.Scope, status *string, from, to *time.Time, limit, offset int) ([]*models.Booking, error) {
	return f.bookings, nil
}
func (f *fakeBookingRepo) ListUpcomingByCompany(ctx context.Context, companyID uuid.UUID, after time.Time) ([]*models.Booking, error) {
	var out []*models.Booking
	for _, b := range f.bookings {
		if b.CompanyID == companyID && b.Status == "confirmed" && b.ScheduledAt.After(after) {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeContactRepo struct {
	contacts map[uuid.UUID]*models.Contact
}

func (f *fakeContactRepo) Create(ctx context.Context, c *models.Contact) error { return nil }
func (f *fakeContactRepo) GetByID(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*models.Contact, error) {
	c, ok := f.contacts[id]
	if !ok {
		return nil, errors.New("no rows in result set")
	}
	if !scope.All() && c.CompanyID != *scope.CompanyID {
		return nil, errors.New("no rows in result set")
	}
	return c, nil
}
func (f *fakeContactRepo) Update(ctx context.Context, c *models.Contact) error { return nil }
func (f *fakeContactRepo) Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error {
	return nil
}
func (f *fakeContactRepo) List(ctx context.Context, scope tenancy.Scope, limit, offset int) ([]*models.Contact, error) {
	return nil, nil
}
func (f *fakeContactRepo) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*models.Contact, error) {
	return nil, nil
}
func (f *fakeContactRepo) Search(ctx context.Context, scope tenancy.Scope, query string, limit, offset int) ([]*models.Contact, error) {
	return nil, nil
}

type fakeCompanyRepo struct {
	companies map[uuid.UUID]*models.Company
}

func (f *fakeCompanyRepo) Create(ctx context.Context, c *models.Company) error { return nil }
func (f *fakeCompanyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	if c, ok := f.companies[id]; ok {
		return c, nil
	}
	return nil, errors.New("no rows in result set")
}
func (f *fakeCompanyRepo) GetBySlug(ctx context.Context, slug string) (*models.Company, error) {
	return nil, errors.New("no rows in result set")
}
func (f *fakeCompanyRepo) Update(ctx context.Context, c *models.Company) error { return nil }
func (f *fakeCompanyRepo) List(ctx context.Context, limit, offset int) ([]*models.Company, error) {
	return nil, nil
}

type fakeReminderLogRepo struct {
	status map[string]string
}

func logKey(campaignID, contactID uuid.UUID, label string) string {
	return fmt.Sprintf("%s|%s|%s", campaignID, contactID, label)
}

func (f *fakeReminderLogRepo) ClaimSent(ctx context.Context, campaignID, contactID uuid.UUID, label string) (bool, error) {
	key := logKey(campaignID, contactID, label)
	if f.status[key] == models.ReminderStatusSent {
		return false, nil
	}
	f.status[key] = models.ReminderStatusSent
	return true, nil
}
func (f *fakeReminderLogRepo) MarkFailed(ctx context.Context, campaignID, contactID uuid.UUID, label, reason string) error {
	key := logKey(campaignID, contactID, label)
	if f.status[key] == models.ReminderStatusSent {
		f.status[key] = models.ReminderStatusFailed
	}
	return nil
}
func (f *fakeReminderLogRepo) HasSent(ctx context.Context, campaignID, contactID uuid.UUID, label string) (bool, error) {
	return f.status[logKey(campaignID, contactID, label)] == models.ReminderStatusSent, nil
}
func (f *fakeReminderLogRepo) ListByCampaign(ctx context.Context, campaignID uuid.UUID, limit, offset int) ([]*models.ReminderLog, error) {
	return nil, nil
}

type sentMail struct {
	to      string
	subject string
	body    string
}

type fakeMailer struct {
	sent    []sentMail
	failFor map[string]error
}

func (f *fakeMailer) Send(ctx context.Context, companyID uuid.UUID, to, subject, htmlBody string) (string, error) {
	if err, ok := f.failFor[to]; ok {
		return "", err
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: htmlBody})
	return "fake-ref", nil
}

type CampaignServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	companyID uuid.UUID
	campaigns *fakeCampaignRepo
	bookings  *fakeBookingRepo
	contacts  *fakeContactRepo
	companies *fakeCompanyRepo
	logs      *fakeReminderLogRepo
	mail      *fakeMailer
	svc       CampaignService
}

func (suite *CampaignServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.companyID = uuid.New()
	suite.campaigns = &fakeCampaignRepo{}
	suite.bookings = &fakeBookingRepo{}
	suite.contacts = &fakeContactRepo{contacts: map[uuid.UUID]*models.Contact{}}
	suite.companies = &fakeCompanyRepo{companies: map[uuid.UUID]*models.Company{}}
	suite.logs = &fakeReminderLogRepo{status: map[string]string{}}
	suite.mail = &fakeMailer{failFor: map[string]error{}}
	suite.svc = NewCampaignService(suite.campaigns, suite.bookings, suite.contacts, suite.companies, suite.logs, suite.mail, 5*time.Minute)

	suite.companies.companies[suite.companyID] = &models.Company{ID: suite.companyID, Name: "Acme Clean"}
}

func TestCampaignServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CampaignServiceTestSuite))
}

func (suite *CampaignServiceTestSuite) addContact(email string) *models.Contact {
	contact := &models.Contact{
		ID:        uuid.New(),
		CompanyID: suite.companyID,
		FirstName: "Dana",
		LastName:  "Reyes",
		Email:     email,
		Status:    "active",
	}
	suite.contacts.contacts[contact.ID] = contact
	return contact
}

func (suite *CampaignServiceTestSuite) addCampaign(status string, reminders ...models.Reminder) *models.EmailCampaign {
	campaign := &models.EmailCampaign{
		ID:        uuid.New(),
		CompanyID: suite.companyID,
		Name:      "Appointment reminders",
		Subject:   "See you soon, {{.first_name}}",
		HTMLBody:  "<p>Hi {{.first_name}}, {{.company_name}} will see you soon.</p>",
		Status:    status,
		Reminders: reminders,
	}
	suite.campaigns.campaigns = append(suite.campaigns.campaigns, campaign)
	return campaign
}

func (suite *CampaignServiceTestSuite) addBooking(campaignID uuid.UUID, contactID uuid.UUID, scheduledAt time.Time) *models.Booking {
	booking := &models.Booking{
		ID:          uuid.New(),
		CompanyID:   suite.companyID,
		ContactID:   contactID,
		CampaignID:  &campaignID,
		Title:       "Deep clean",
		ScheduledAt: scheduledAt,
		Status:      "confirmed",
	}
	suite.bookings.bookings = append(suite.bookings.bookings, booking)
	return booking
}

func (suite *CampaignServiceTestSuite) TestScanSendsDueReminderOnce() {
	reminder := models.Reminder{Label: "1h before", Unit: models.ReminderUnitHours, Value: 1, Enabled: true}
	campaign := suite.addCampaign(models.CampaignStatusActive, reminder)
	contact := suite.addContact("dana@example.com")

	now := time.Now()
	suite.addBooking(campaign.ID, contact.ID, now.Add(time.Hour-time.Minute))

	result, err := suite.svc.RunReminderScan(suite.ctx, now)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, result.Sent)
	assert.Equal(suite.T(), 0, result.Failed)
	assert.Len(suite.T(), suite.mail.sent, 1)
	assert.Equal(suite.T(), "See you soon, Dana", suite.mail.sent[0].subject)
	assert.Contains(suite.T(), suite.mail.sent[0].body, "Acme Clean")

	// A second scan in the same window must not send again.
	result, err = suite.svc.RunReminderScan(suite.ctx, now)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, result.Sent)
	assert.Equal(suite.T(), 1, result.Skipped)
	assert.Len(suite.T(), suite.mail.sent, 1)
}

func (suite *CampaignServiceTestSuite) TestScanRespectsDueWindow() {
	reminder := models.Reminder{Label: "1h before", Unit: models.ReminderUnitHours, Value: 1, Enabled: true}
	campaign := suite.addCampaign(models.CampaignStatusActive, reminder)
	contact := suite.addContact("dana@example.com")

	base := time.Now().Add(24 * time.Hour)
	suite.addBooking(campaign.ID, contact.ID, base)
	due := base.Add(-time.Hour)

	// Before the due instant nothing goes out.
	result, err := suite.svc.RunReminderScan(suite.ctx, due.Add(-time.Minute))
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, result.Sent)
	assert.Empty(suite.T(), result.Results)

	// Past due plus the grace window the reminder is stale, not resent.
	result, err = suite.svc.RunReminderScan(suite.ctx, due.Add(10*time.Minute))
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, result.Sent)

	// Inside [due, due+grace) it fires.
	result, err = suite.svc.RunReminderScan(suite.ctx, due.Add(time.Minute))
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, result.Sent)
}

func (suite *CampaignServiceTestSuite) TestScanShortOffsetReminderFiresAfterAnchor() {
	// A 1-minute-before reminder is still actionable after the booking
	// anchor passes, as long as now is inside the grace window.
	reminder := models.Reminder{Label: "1m before", Unit: models.ReminderUnitMinutes, Value: 1, Enabled: true}
	campaign := suite.addCampaign(models.CampaignStatusActive, reminder)
	contact := suite.addContact("dana@example.com")

	now := time.Now()
	suite.addBooking(campaign.ID, contact.ID, now.Add(-2*time.Minute))

	result, err := suite.svc.RunReminderScan(suite.ctx, now)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, result.Sent)
	assert.Len(suite.T(), suite.mail.sent, 1)
}

func (suite *CampaignServiceTestSuite) TestScanSkipsDisabledRemindersAndForeignBookings() {
	disabled := models.Reminder{Label: "24h before", Unit: models.ReminderUnitHours, Value: 24, Enabled: false}
	enabled := models.Reminder{Label: "1h before", Unit: models.ReminderUnitHours, Value: 1, Enabled: true}
	campaign := suite.addCampaign(models.CampaignStatusActive, disabled, enabled)
	contact := suite.addContact("dana@example.com")

	now := time.Now()
	suite.addBooking(campaign.ID, contact.ID, now.Add(time.Hour-time.Minute))

	// A booking with no campaign anchor never produces a reminder.
	orphan := suite.addBooking(campaign.ID, contact.ID, now.Add(time.Hour-time.Minute))
	orphan.CampaignID = nil

	// A booking anchored to some other campaign is invisible too.
	otherID := uuid.New()
	foreign := suite.addBooking(campaign.ID, contact.ID, now.Add(time.Hour-time.Minute))
	foreign.CampaignID = &otherID

	result, err := suite.svc.RunReminderScan(suite.ctx, now)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, result.Sent)
	assert.Len(suite.T(), suite.mail.sent, 1)
}

func (suite *CampaignServiceTestSuite) TestScanFailedSendRetriesNextPass() {
	reminder := models.Reminder{Label: "1h before", Unit: models.ReminderUnitHours, Value: 1, Enabled: true}
	campaign := suite.addCampaign(models.CampaignStatusActive, reminder)
	contact := suite.addContact("dana@example.com")

	now := time.Now()
	suite.addBooking(campaign.ID, contact.ID, now.Add(time.Hour-time.Minute))

	suite.mail.failFor[contact.Email] = errors.New("smtp timeout")
	result, err := suite.svc.RunReminderScan(suite.ctx, now)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, result.Failed)
	assert.NotNil(suite.T(), result.Results[0].Error)

	// The failed claim was downgraded, so the next pass tries again.
	delete(suite.mail.failFor, contact.Email)
	result, err = suite.svc.RunReminderScan(suite.ctx, now)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, result.Sent)
	assert.Len(suite.T(), suite.mail.sent, 1)
}

func (suite *CampaignServiceTestSuite) TestScanIgnoresInactiveCampaigns() {
	reminder := models.Reminder{Label: "1h before", Unit: models.ReminderUnitHours, Value: 1, Enabled: true}
	campaign := suite.addCampaign(models.CampaignStatusDraft, reminder)
	contact := suite.addContact("dana@example.com")

	now := time.Now()
	suite.addBooking(campaign.ID, contact.ID, now.Add(time.Hour-time.Minute))

	result, err := suite.svc.RunReminderScan(suite.ctx, now)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, result.Campaigns)
	assert.Empty(suite.T(), suite.mail.sent)
}

func (suite *CampaignServiceTestSuite) TestSendToRecipientsIsolatesFailures() {
	campaign := suite.addCampaign(models.CampaignStatusDraft)
	first := suite.addContact("first@example.com")
	second := suite.addContact("second@example.com")
	third := suite.addContact("third@example.com")

	suite.mail.failFor[second.Email] = errors.New("mailbox full")

	scope := tenancy.ScopeForCompany(suite.companyID)
	results, err := suite.svc.SendToRecipients(suite.ctx, scope, campaign.ID, []uuid.UUID{first.ID, second.ID, third.ID})
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), results, 3)
	assert.Equal(suite.T(), models.ReminderStatusSent, results[0].Status)
	assert.Equal(suite.T(), models.ReminderStatusFailed, results[1].Status)
	assert.Equal(suite.T(), "mailbox full", *results[1].Error)
	assert.Equal(suite.T(), models.ReminderStatusSent, results[2].Status)
	assert.Len(suite.T(), suite.mail.sent, 2)
}

func (suite *CampaignServiceTestSuite) TestSendToRecipientsUnknownContact() {
	campaign := suite.addCampaign(models.CampaignStatusDraft)
	known := suite.addContact("known@example.com")

	scope := tenancy.ScopeForCompany(suite.companyID)
	results, err := suite.svc.SendToRecipients(suite.ctx, scope, campaign.ID, []uuid.UUID{uuid.New(), known.ID})
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), results, 2)
	assert.Equal(suite.T(), models.ReminderStatusFailed, results[0].Status)
	assert.Equal(suite.T(), models.ReminderStatusSent, results[1].Status)
}

func (suite *CampaignServiceTestSuite) TestSendToRecipientsRequiresVisibleCampaign() {
	campaign := suite.addCampaign(models.CampaignStatusDraft)
	contact := suite.addContact("dana@example.com")

	otherCompany := uuid.New()
	_, err := suite.svc.SendToRecipients(suite.ctx, tenancy.ScopeForCompany(otherCompany), campaign.ID, []uuid.UUID{contact.ID})
	assert.Error(suite.T(), err)

	_, err = suite.svc.SendToRecipients(suite.ctx, tenancy.ScopeForCompany(suite.companyID), campaign.ID, nil)
	assert.Error(suite.T(), err)
}

func (suite *CampaignServiceTestSuite) TestTestSendWritesNoLog() {
	campaign := suite.addCampaign(models.CampaignStatusDraft)

	scope := tenancy.ScopeForCompany(suite.companyID)
	err := suite.svc.TestSend(suite.ctx, scope, campaign.ID, "qa@example.com")
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), suite.mail.sent, 1)
	assert.Equal(suite.T(), "See you soon, Test", suite.mail.sent[0].subject)
	assert.Empty(suite.T(), suite.logs.status)

	// Repeated test sends always go out.
	err = suite.svc.TestSend(suite.ctx, scope, campaign.ID, "qa@example.com")
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), suite.mail.sent, 2)
}

func (suite *CampaignServiceTestSuite) TestTestSendRejectsBadTemplate() {
	campaign := suite.addCampaign(models.CampaignStatusDraft)
	campaign.HTMLBody = "<p>{{.first_name</p>"

	err := suite.svc.TestSend(suite.ctx, tenancy.ScopeForCompany(suite.companyID), campaign.ID, "qa@example.com")
	assert.Error(suite.T(), err)
	assert.Empty(suite.T(), suite.mail.sent)
}

func (suite *CampaignServiceTestSuite) TestActivateReady() {
	// Scheduled and draft campaigns with an enabled reminder are both
	// promoted; only campaigns without one, or already active, stay put.
	reminder := models.Reminder{Label: "1h before", Unit: models.ReminderUnitHours, Value: 1, Enabled: true}
	suite.addCampaign(models.CampaignStatusScheduled, reminder)
	suite.addCampaign(models.CampaignStatusDraft, reminder)
	suite.addCampaign(models.CampaignStatusScheduled)
	suite.addCampaign(models.CampaignStatusActive, reminder)

	scope := tenancy.ScopeForCompany(suite.companyID)
	n, err := suite.svc.ActivateReady(suite.ctx, scope)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(2), n)

	n, err = suite.svc.ActivateReady(suite.ctx, scope)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(0), n)
}
