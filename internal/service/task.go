package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/mindhq/mindcore/internal/domain"
	"github.com/mindhq/mindcore/internal/domain/audit"
	"github.com/mindhq/mindcore/internal/domain/task"
	"github.com/mindhq/mindcore/internal/port/auditlog"
	"github.com/mindhq/mindcore/internal/port/cache"
	"github.com/mindhq/mindcore/internal/port/database"
)

// TaskService serves task reads, with an optional read-through cache for
// single-task lookups.
type TaskService struct {
	store    database.Store
	auditLog auditlog.Log
	cache    cache.Cache // optional
	ttl      time.Duration
}

// NewTaskService creates a TaskService. cache may be nil to disable caching.
func NewTaskService(store database.Store, auditLog auditlog.Log, c cache.Cache, ttl time.Duration) *TaskService {
	return &TaskService{store: store, auditLog: auditLog, cache: c, ttl: ttl}
}

// Get returns a task by ID. Requesters can only read their own tasks.
func (s *TaskService) Get(ctx context.Context, id, requesterID string) (*task.Task, error) {
	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.RequesterID != requesterID {
		return nil, fmt.Errorf("task %s belongs to another requester: %w", id, domain.ErrForbidden)
	}
	return t, nil
}

// List returns the requester's tasks, newest first.
func (s *TaskService) List(ctx context.Context, requesterID string) ([]task.Task, error) {
	return s.store.ListTasksByRequester(ctx, requesterID)
}

// Audit returns the audit trail for one of the requester's tasks, oldest
// first. Ownership is checked against the task record.
func (s *TaskService) Audit(ctx context.Context, taskID, requesterID string) ([]audit.Entry, error) {
	if _, err := s.Get(ctx, taskID, requesterID); err != nil {
		return nil, err
	}
	return s.auditLog.ListByTask(ctx, taskID)
}

// load reads a task through the cache when one is configured.
func (s *TaskService) load(ctx context.Context, id string) (*task.Task, error) {
	key := taskKey(id)
	if s.cache != nil {
		if data, ok, err := s.cache.Get(ctx, key); err == nil && ok {
			var t task.Task
			if err := json.Unmarshal(data, &t); err == nil {
				return &t, nil
			}
			// Corrupt entry; fall through to the store.
			_ = s.cache.Delete(ctx, key)
		}
	}

	t, err := s.store.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(t); err == nil {
			if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
				slog.Debug("task cache set failed", "task_id", id, "error", err)
			}
		}
	}
	return t, nil
}

// invalidate drops a task from the cache after a status change. Safe to call
// on a nil service or with no cache configured.
func (s *TaskService) invalidate(ctx context.Context, id string) {
	if s == nil || s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, taskKey(id)); err != nil {
		slog.Debug("task cache invalidate failed", "task_id", id, "error", err)
	}
}

func taskKey(id string) string { return "task:" + id }
