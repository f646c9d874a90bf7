// Package email implements notification delivery over SMTP, plus a logging
// sender for development. Delivery is the external edge of the system: the
// training service composes payloads and hands them here fire-and-forget.
package email

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/fittrack-hub/fitness-tracker-hub/internal/domain/notification"
	"github.com/fittrack-hub/fitness-tracker-hub/pkg/retry"
)

// Config holds SMTP relay settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string

	// From is the envelope and header sender address.
	From string
}

// Addr returns the relay address in "host:port" form.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SMTPSender implements notification.Sender against an SMTP relay.
// Transient relay failures are retried with backoff.
type SMTPSender struct {
	config  Config
	retrier *retry.Retrier
	logger  *slog.Logger

	// send is swappable for tests; defaults to smtp.SendMail.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPSender creates an SMTPSender.
func NewSMTPSender(cfg Config, logger *slog.Logger) *SMTPSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &SMTPSender{
		config:  cfg,
		retrier: retry.New(retry.WithMaxAttempts(3)),
		logger:  logger,
		send:    smtp.SendMail,
	}
}

// Send delivers the payload to its recipient.
func (s *SMTPSender) Send(ctx context.Context, p notification.Payload) error {
	msg := buildMessage(s.config.From, p)

	var auth smtp.Auth
	if s.config.Username != "" {
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	}

	err := s.retrier.Do(ctx, func(ctx context.Context) error {
		if err := s.send(s.config.Addr(), auth, s.config.From, []string{p.RecipientAddress}, msg); err != nil {
			return retry.Retryable(err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("email: sending to %s: %w", p.RecipientAddress, err)
	}

	s.logger.Info("notification email sent", "recipient", p.RecipientAddress, "subject", p.Subject)
	return nil
}

// buildMessage renders the payload as an RFC 5322 message.
func buildMessage(from string, p notification.Payload) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", p.RecipientAddress)
	fmt.Fprintf(&b, "Subject: %s\r\n", p.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(p.Body)
	return []byte(b.String())
}

// LogSender implements notification.Sender by logging payloads instead of
// delivering them. Used in development and when mail is disabled.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a LogSender.
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

// Send logs the payload and reports success.
func (s *LogSender) Send(ctx context.Context, p notification.Payload) error {
	s.logger.Info("notification (mail disabled)",
		"recipient", p.RecipientAddress,
		"subject", p.Subject,
		"body", p.Body,
	)
	return nil
}
