package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mindhq/mindcore/internal/domain/audit"
)

// AuditStore implements auditlog.Log using PostgreSQL (append-only).
type AuditStore struct {
	pool *pgxpool.Pool
}

// NewAuditStore creates a new AuditStore backed by the given connection pool.
func NewAuditStore(pool *pgxpool.Pool) *AuditStore {
	return &AuditStore{pool: pool}
}

// Append inserts a new entry into the audit_log table.
func (s *AuditStore) Append(ctx context.Context, entry *audit.Entry) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO audit_log (task_id, actor_id, action, before, after)
		 VALUES ($1, $2, $3, $4, $5)`,
		entry.TaskID, entry.ActorID, entry.Action, entry.Before, entry.After)
	if err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

// ListByTask returns all entries for a task, oldest first.
func (s *AuditStore) ListByTask(ctx context.Context, taskID string) ([]audit.Entry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, task_id, actor_id, action, before, after, created_at
		 FROM audit_log WHERE task_id = $1 ORDER BY created_at ASC`, taskID)
	if err != nil {
		return nil, fmt.Errorf("list audit entries for task %s: %w", taskID, err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var e audit.Entry
		if err := rows.Scan(&e.ID, &e.TaskID, &e.ActorID, &e.Action, &e.Before, &e.After, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
