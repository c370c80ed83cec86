package notify

import (
	"context"
	"log/slog"

	"github.com/taskward/taskward-api/internal/domain"
)

// LogNotifier writes notifications to the structured log. It is the default
// dispatcher when no SMTP host is configured, which keeps local development
// and tests free of a mail dependency.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a log-backed Notifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger.With(slog.String("component", "log_notifier"))}
}

// Ensure LogNotifier implements Notifier
var _ Notifier = (*LogNotifier)(nil)

// Notify implements Notifier.Notify
func (n *LogNotifier) Notify(ctx context.Context, recipient *domain.User, subject, body string) error {
	n.logger.Info("notification",
		slog.String("recipient_id", recipient.ID.String()),
		slog.String("recipient_email", recipient.Email),
		slog.String("subject", subject),
		slog.String("body", body))
	return nil
}
