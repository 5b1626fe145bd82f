// Package database defines the task store port (interface).
package database

import (
	"context"
	"encoding/json"

	"github.com/mindhq/mindcore/internal/domain/task"
)

// Store is the port interface for the task store. It is the single source of
// truth for task status; every status-changing write is a conditional update
// against the expected current status.
type Store interface {
	// CreateTask inserts a new task in status "processing" with started_at set.
	CreateTask(ctx context.Context, req task.SubmitRequest, interpretation string) (*task.Task, error)

	// GetTask returns a task by ID, or domain.ErrNotFound.
	GetTask(ctx context.Context, id string) (*task.Task, error)

	// ListTasksByRequester returns all tasks for a requester, newest first.
	ListTasksByRequester(ctx context.Context, requesterID string) ([]task.Task, error)

	// FinalizeTask transitions a task from the expected current status to a
	// terminal status, setting outcome, error detail and completed_at in one
	// conditional update. When the persisted status no longer matches `from`
	// (a concurrent writer won), it returns domain.ErrInvalidState; callers
	// translate that per their contract. A missing row is domain.ErrNotFound.
	FinalizeTask(ctx context.Context, id string, from, to task.Status, outcome json.RawMessage, errorDetail string) (*task.Task, error)
}
