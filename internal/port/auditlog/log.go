// Package auditlog defines the append-only audit log port (interface).
package auditlog

import (
	"context"

	"github.com/mindhq/mindcore/internal/domain/audit"
)

// Log is the port interface for the audit trail. Entries are append-only;
// there is no update or delete operation by design of the data model.
type Log interface {
	// Append records one state-changing action.
	Append(ctx context.Context, entry *audit.Entry) error

	// ListByTask returns all entries for a task, oldest first.
	ListByTask(ctx context.Context, taskID string) ([]audit.Entry, error)
}
