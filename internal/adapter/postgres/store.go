package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mindhq/mindcore/internal/domain"
	"github.com/mindhq/mindcore/internal/domain/task"
)

// Store implements database.Store using PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// taskColumns is the SELECT column list for tasks queries.
const taskColumns = `id, category, title, prompt, status, COALESCE(interpretation, ''), outcome, COALESCE(error_detail, ''), requester_id, requester_contact, created_at, started_at, completed_at`

// scanTask scans a row into a Task.
func scanTask(scanner interface{ Scan(dest ...any) error }) (task.Task, error) {
	var t task.Task
	err := scanner.Scan(
		&t.ID, &t.Category, &t.Title, &t.Prompt, &t.Status,
		&t.Interpretation, &t.Outcome, &t.ErrorDetail,
		&t.RequesterID, &t.RequesterContact,
		&t.CreatedAt, &t.StartedAt, &t.CompletedAt,
	)
	return t, err
}

// CreateTask inserts a new task in status "processing" with started_at set.
func (s *Store) CreateTask(ctx context.Context, req task.SubmitRequest, interpretation string) (*task.Task, error) {
	row := s.pool.QueryRow(ctx,
		fmt.Sprintf(`INSERT INTO tasks (category, title, prompt, status, interpretation, requester_id, requester_contact, started_at)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, now())
		 RETURNING %s`, taskColumns),
		req.Category, task.Title(req.Category), req.Prompt, task.StatusProcessing,
		interpretation, req.RequesterID, req.RequesterContact)

	t, err := scanTask(row)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return &t, nil
}

// GetTask returns a task by ID.
func (s *Store) GetTask(ctx context.Context, id string) (*task.Task, error) {
	row := s.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM tasks WHERE id = $1`, taskColumns), id)

	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get task %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get task %s: %w", id, err)
	}
	return &t, nil
}

// ListTasksByRequester returns all tasks for a requester, newest first.
func (s *Store) ListTasksByRequester(ctx context.Context, requesterID string) ([]task.Task, error) {
	rows, err := s.pool.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM tasks WHERE requester_id = $1 ORDER BY created_at DESC`, taskColumns),
		requesterID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// FinalizeTask transitions a task from the expected current status to a
// terminal status in one conditional update. The WHERE clause on the current
// status is what serializes racing writers: whichever lands first wins, and
// the loser observes zero rows.
func (s *Store) FinalizeTask(ctx context.Context, id string, from, to task.Status, outcome json.RawMessage, errorDetail string) (*task.Task, error) {
	row := s.pool.QueryRow(ctx,
		fmt.Sprintf(`UPDATE tasks
		 SET status = $3, outcome = $4, error_detail = NULLIF($5, ''), completed_at = now()
		 WHERE id = $1 AND status = $2
		 RETURNING %s`, taskColumns),
		id, from, to, outcome, errorDetail)

	t, err := scanTask(row)
	if err == nil {
		return &t, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("finalize task %s: %w", id, err)
	}

	// Zero rows: either the task does not exist or another writer changed
	// the status first. Distinguish with a follow-up read.
	if _, getErr := s.GetTask(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, fmt.Errorf("finalize task %s from %s to %s: %w", id, from, to, domain.ErrInvalidState)
}
