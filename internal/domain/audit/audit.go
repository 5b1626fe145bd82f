// Package audit defines the append-only audit trail entity.
package audit

import (
	"encoding/json"
	"time"
)

// Actions recorded in the audit trail.
const (
	ActionCancelled     = "cancelled"
	ActionStatusChanged = "status_changed"
)

// Entry is an immutable record of one state-changing action on a task.
// Entries reference tasks but are retained independently of them.
type Entry struct {
	ID        string          `json:"id"`
	TaskID    string          `json:"task_id"`
	ActorID   string          `json:"actor_id"`
	Action    string          `json:"action"`
	Before    json.RawMessage `json:"before,omitempty"`
	After     json.RawMessage `json:"after,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Snapshot is the before/after payload captured for status changes.
type Snapshot struct {
	Status string `json:"status"`
}

// StatusSnapshot marshals a status into an audit snapshot. Marshalling a
// flat struct cannot fail, so the error is discarded.
func StatusSnapshot(status string) json.RawMessage {
	b, _ := json.Marshal(Snapshot{Status: status})
	return b
}
