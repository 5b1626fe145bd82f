// Package notifier defines the notification port (interface) and its
// provider registry.
package notifier

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mindhq/mindcore/internal/domain/task"
)

// ErrNotConfigured is returned when a notifier is not properly configured.
var ErrNotConfigured = errors.New("notifier: not configured")

// Notification is the outcome payload delivered to the requester. Delivery is
// best-effort: a failed send is logged by the caller and never affects the
// task record or the caller-visible result of submit/cancel.
type Notification struct {
	Contact     string          `json:"contact"`
	Category    task.Category   `json:"category"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Status      task.Status     `json:"status"`
	Outcome     json.RawMessage `json:"outcome,omitempty"`
}

// Notifier is the port interface for sending outcome notifications.
type Notifier interface {
	// Name returns the unique identifier for this notifier (e.g. "email").
	Name() string

	// Send delivers a notification.
	Send(ctx context.Context, n Notification) error
}
