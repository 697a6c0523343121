package mailer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/AmineshOptisoft/next-crm-sub003/internal/common"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/models"
)

type staticSettingsRepo struct {
	settings map[uuid.UUID]*models.MailSettings
}

func (s *staticSettingsRepo) Upsert(ctx context.Context, m *models.MailSettings) error { return nil }
func (s *staticSettingsRepo) GetByCompany(ctx context.Context, companyID uuid.UUID) (*models.MailSettings, error) {
	if m, ok := s.settings[companyID]; ok {
		return m, nil
	}
	return nil, errors.New("no rows in result set")
}

func TestSendWithoutSettingsIsDependencyError(t *testing.T) {
	m := NewSMTPMailer(&staticSettingsRepo{settings: map[uuid.UUID]*models.MailSettings{}}, time.Second)

	_, err := m.Send(context.Background(), uuid.New(), "to@example.com", "hi", "<p>hi</p>")
	assert.Error(t, err)

	appErr, ok := err.(*common.AppError)
	assert.True(t, ok)
	assert.Equal(t, common.KindDependency, appErr.Kind)
}

func TestBuildMessage(t *testing.T) {
	msg := buildMessage("Acme Clean", "noreply@acme.test", "dana@example.com", "See you soon", "<p>Hi</p>")

	assert.Contains(t, msg, "From: Acme Clean <noreply@acme.test>\r\n")
	assert.Contains(t, msg, "To: dana@example.com\r\n")
	assert.Contains(t, msg, "Subject: See you soon\r\n")
	assert.Contains(t, msg, "Content-Type: text/html; charset=utf-8\r\n")
	assert.Contains(t, msg, "\r\n<p>Hi</p>\r\n")
}

func TestBuildMessageWithoutFromName(t *testing.T) {
	msg := buildMessage("", "noreply@acme.test", "dana@example.com", "See you soon", "<p>Hi</p>")
	assert.Contains(t, msg, "From: noreply@acme.test\r\n")
}
