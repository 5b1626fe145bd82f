// Package messagequeue defines the message queue port (interface).
package messagequeue

import "context"

// Queue is the port interface for publishing task lifecycle events. Consumers
// are external; the orchestrator publishes best-effort and logs failures.
type Queue interface {
	// Publish sends a message to the given subject.
	Publish(ctx context.Context, subject string, data []byte) error

	// Drain gracefully drains pending messages before closing.
	Drain() error

	// Close shuts down the queue connection immediately.
	Close() error
}

// Subjects for task lifecycle events.
const (
	SubjectTaskCreated   = "tasks.created"
	SubjectTaskCompleted = "tasks.completed"
	SubjectTaskFailed    = "tasks.failed"
	SubjectTaskCancelled = "tasks.cancelled"
)
