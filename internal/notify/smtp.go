package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/taskward/taskward-api/internal/config"
	"github.com/taskward/taskward-api/internal/domain"
)

// SMTPNotifier delivers notifications as plain-text email over SMTP.
type SMTPNotifier struct {
	addr   string
	from   string
	logger *slog.Logger

	// send is swappable for testing; defaults to smtp.SendMail.
	send func(addr, from string, to []string, msg []byte) error
}

// NewSMTPNotifier creates an SMTP-backed Notifier from configuration.
func NewSMTPNotifier(cfg config.NotifyConfig, logger *slog.Logger) *SMTPNotifier {
	if logger == nil {
		logger = slog.Default()
	}

	return &SMTPNotifier{
		addr:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		from:   cfg.From,
		logger: logger.With(slog.String("component", "smtp_notifier")),
		send: func(addr, from string, to []string, msg []byte) error {
			return smtp.SendMail(addr, nil, from, to, msg)
		},
	}
}

// Ensure SMTPNotifier implements Notifier
var _ Notifier = (*SMTPNotifier)(nil)

// Notify implements Notifier.Notify
func (n *SMTPNotifier) Notify(ctx context.Context, recipient *domain.User, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		n.from, recipient.Email, subject, body)

	if err := n.send(n.addr, n.from, []string{recipient.Email}, []byte(msg)); err != nil {
		n.logger.Error("failed to send notification email",
			slog.String("recipient_id", recipient.ID.String()),
			slog.String("subject", subject),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to send notification to %s: %w", recipient.Email, err)
	}

	n.logger.Info("notification email sent",
		slog.String("recipient_id", recipient.ID.String()),
		slog.String("subject", subject))
	return nil
}
