package background

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/AmineshOptisoft/next-crm-sub003/internal/services"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/tenancy"
)

type stubCampaignService struct {
	scans  atomic.Int64
	result *services.ScanResult
	err    error
}

func (s *stubCampaignService) RunReminderScan(ctx context.Context, now time.Time) (*services.ScanResult, error) {
	s.scans.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	if s.result != nil {
		return s.result, nil
	}
	return &services.ScanResult{StartedAt: now}, nil
}

func (s *stubCampaignService) SendToRecipients(ctx context.Context, scope tenancy.Scope, campaignID uuid.UUID, contactIDs []uuid.UUID) ([]services.RecipientResult, error) {
	return nil, nil
}

func (s *stubCampaignService) TestSend(ctx context.Context, scope tenancy.Scope, campaignID uuid.UUID, toEmail string) error {
	return nil
}

func (s *stubCampaignService) ActivateReady(ctx context.Context, scope tenancy.Scope) (int64, error) {
	return 0, nil
}

func TestForceScanRecordsOutcome(t *testing.T) {
	svc := &stubCampaignService{result: &services.ScanResult{Sent: 2, Campaigns: 1}}
	rs, err := NewReminderScheduler(svc, time.Minute)
	assert.NoError(t, err)
	defer rs.Stop()

	result, err := rs.ForceScan(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 2, result.Sent)
	assert.Equal(t, int64(1), svc.scans.Load())

	status := rs.Status()
	assert.False(t, status.Running)
	assert.NotNil(t, status.LastRunAt)
	assert.Equal(t, 2, status.LastScan.Sent)
	assert.Nil(t, status.LastError)
}

func TestForceScanSurfacesError(t *testing.T) {
	svc := &stubCampaignService{err: errors.New("database unreachable")}
	rs, err := NewReminderScheduler(svc, time.Minute)
	assert.NoError(t, err)
	defer rs.Stop()

	_, err = rs.ForceScan(context.Background())
	assert.Error(t, err)

	status := rs.Status()
	assert.NotNil(t, status.LastError)
	assert.Equal(t, "database unreachable", *status.LastError)
}

func TestStartIsIdempotent(t *testing.T) {
	svc := &stubCampaignService{}
	rs, err := NewReminderScheduler(svc, time.Hour)
	assert.NoError(t, err)

	rs.Start()
	rs.Start()
	status := rs.Status()
	assert.True(t, status.Running)
	assert.Equal(t, 3600, status.IntervalSecs)
	assert.NotNil(t, status.NextRunAt)

	assert.NoError(t, rs.Stop())
	assert.NoError(t, rs.Stop())
	assert.False(t, rs.Status().Running)
}
