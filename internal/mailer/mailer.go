package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AmineshOptisoft/next-crm-sub003/internal/common"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/models"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/repositories"
)

// Mailer delivers a single HTML email on behalf of a company. The returned
// string is a provider message reference when the transport supplies one.
type Mailer interface {
	Send(ctx context.Context, companyID uuid.UUID, to, subject, htmlBody string) (string, error)
}

type smtpMailer struct {
	settings repositories.MailSettingsRepository
	timeout  time.Duration
}

func NewSMTPMailer(settings repositories.MailSettingsRepository, timeout time.Duration) Mailer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &smtpMailer{settings: settings, timeout: timeout}
}

// Send looks up the company's SMTP transport and delivers the message.
// A company without configured mail settings gets a dependency error so
// callers can report the recipient as failed without retry noise.
func (m *smtpMailer) Send(ctx context.Context, companyID uuid.UUID, to, subject, htmlBody string) (string, error) {
	settings, err := m.settings.GetByCompany(ctx, companyID)
	if err != nil {
		return "", common.NewDependencyError("Mail settings are not configured for this company", err)
	}

	if err := m.deliver(ctx, settings, to, subject, htmlBody); err != nil {
		return "", common.NewDependencyError("Mail delivery failed", err)
	}
	return fmt.Sprintf("smtp-%d", time.Now().UnixNano()), nil
}

func (m *smtpMailer) deliver(ctx context.Context, settings *models.MailSettings, to, subject, htmlBody string) error {
	addr := fmt.Sprintf("%s:%d", settings.Host, settings.Port)

	dialer := &net.Dialer{Timeout: m.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to dial SMTP server: %w", err)
	}

	client, err := smtp.NewClient(conn, settings.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open SMTP session: %w", err)
	}
	defer client.Close()

	if settings.UseStartTLS {
		tlsConfig := &tls.Config{ServerName: settings.Host}
		if err := client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	if settings.Username != "" {
		auth := smtp.PlainAuth("", settings.Username, settings.Password, settings.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("failed to authenticate: %w", err)
		}
	}

	if err := client.Mail(settings.FromAddress); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	message := buildMessage(settings.FromName, settings.FromAddress, to, subject, htmlBody)
	if _, err := wc.Write([]byte(message)); err != nil {
		return fmt.Errorf("failed to write email data: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to finish email data: %w", err)
	}

	return client.Quit()
}

func buildMessage(fromName, fromAddress, to, subject, htmlBody string) string {
	from := fromAddress
	if fromName != "" {
		from = fmt.Sprintf("%s <%s>", fromName, fromAddress)
	}

	var message strings.Builder
	message.WriteString(fmt.Sprintf("From: %s\r\n", from))
	message.WriteString(fmt.Sprintf("To: %s\r\n", to))
	message.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	message.WriteString("MIME-Version: 1.0\r\n")
	message.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	message.WriteString("\r\n")
	message.WriteString(htmlBody)
	message.WriteString("\r\n")
	return message.String()
}
