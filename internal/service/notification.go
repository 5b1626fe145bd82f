// Package service contains application services.
package service

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/mindhq/mindcore/internal/domain/task"
	"github.com/mindhq/mindcore/internal/port/notifier"
)

// NotificationService dispatches outcome notifications to all registered
// notifiers. Delivery is best-effort: failures are logged and never surface
// to the caller.
type NotificationService struct {
	notifiers []notifier.Notifier
}

// NewNotificationService creates a NotificationService with the given notifiers.
func NewNotificationService(notifiers []notifier.Notifier) *NotificationService {
	return &NotificationService{notifiers: notifiers}
}

// Notify fans a notification out to every provider concurrently and waits for
// all sends to finish. Per-provider errors are logged, not returned.
func (s *NotificationService) Notify(ctx context.Context, n notifier.Notification) {
	if len(s.notifiers) == 0 || n.Contact == "" {
		return
	}

	var g errgroup.Group
	for _, provider := range s.notifiers {
		provider := provider
		g.Go(func() error {
			if err := provider.Send(ctx, n); err != nil {
				slog.Warn("notification send failed",
					"provider", provider.Name(),
					"title", n.Title,
					"error", err,
				)
				return nil
			}
			slog.Debug("notification sent", "provider", provider.Name(), "status", n.Status)
			return nil
		})
	}
	_ = g.Wait()
}

// NotifierCount returns the number of registered notifiers.
func (s *NotificationService) NotifierCount() int {
	return len(s.notifiers)
}

// notificationFor builds the outcome notification for a finalized task.
// Only completed tasks carry the outcome payload.
func notificationFor(t *task.Task) notifier.Notification {
	n := notifier.Notification{
		Contact:     t.RequesterContact,
		Category:    t.Category,
		Title:       t.Title,
		Description: t.Prompt,
		Status:      t.Status,
	}
	if t.Status == task.StatusCompleted {
		n.Outcome = t.Outcome
	}
	return n
}
