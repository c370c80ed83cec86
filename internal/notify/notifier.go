// Package notify defines the outbound notification contract the overdue
// sweep depends on, with SMTP and log-backed implementations. Notification
// failure is never fatal to the caller; the sweep records it and moves on.
package notify

import (
	"context"

	"github.com/taskward/taskward-api/internal/domain"
)

// Notifier dispatches a message to a recipient. Implementations must be safe
// for concurrent use.
type Notifier interface {
	// Notify sends subject/body to the recipient. The returned error is a
	// collaborator fault: callers log and count it, they do not roll back
	// the state change the notification describes.
	Notify(ctx context.Context, recipient *domain.User, subject, body string) error
}
