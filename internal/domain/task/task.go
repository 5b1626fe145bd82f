// Package task defines the Task domain entity and its status state machine.
package task

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mindhq/mindcore/internal/domain"
)

// Category determines which executor handles a task.
type Category string

const (
	CategoryMessage       Category = "message"
	CategoryShopping      Category = "shopping"
	CategoryEntertainment Category = "entertainment"
)

// Known reports whether the category has a dedicated executor. Unknown
// categories are still accepted and routed to the default executor.
func (c Category) Known() bool {
	switch c {
	case CategoryMessage, CategoryShopping, CategoryEntertainment:
		return true
	}
	return false
}

// Status represents the current state of a task.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// Terminal reports whether no further transition is legal from this status.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the state machine permits moving from s to
// next. The only legal edges are processing -> completed|failed|cancelled.
func (s Status) CanTransitionTo(next Status) bool {
	if s != StatusProcessing {
		return false
	}
	switch next {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Task is one user-submitted automation request and its lifecycle record.
type Task struct {
	ID               string          `json:"id"`
	Category         Category        `json:"category"`
	Title            string          `json:"title"`
	Prompt           string          `json:"prompt"`
	Status           Status          `json:"status"`
	Interpretation   string          `json:"interpretation,omitempty"`
	Outcome          json.RawMessage `json:"outcome,omitempty"`
	ErrorDetail      string          `json:"error_detail,omitempty"`
	RequesterID      string          `json:"requester_id"`
	RequesterContact string          `json:"requester_contact"`
	CreatedAt        time.Time       `json:"created_at"`
	StartedAt        *time.Time      `json:"started_at,omitempty"`
	CompletedAt      *time.Time      `json:"completed_at,omitempty"`
}

// SubmitRequest holds the fields needed to submit a new task.
type SubmitRequest struct {
	Category         Category `json:"category"`
	Prompt           string   `json:"prompt"`
	RequesterID      string   `json:"requester_id"`
	RequesterContact string   `json:"requester_contact"`
}

// Validate checks the request before any task record is created.
func (r SubmitRequest) Validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return fmt.Errorf("prompt is required: %w", domain.ErrValidation)
	}
	if r.Category == "" {
		return fmt.Errorf("category is required: %w", domain.ErrValidation)
	}
	if r.RequesterID == "" {
		return fmt.Errorf("requester_id is required: %w", domain.ErrValidation)
	}
	if r.RequesterContact == "" {
		return fmt.Errorf("requester_contact is required: %w", domain.ErrValidation)
	}
	return nil
}

// Title derives the human-readable title for a task of the given category.
func Title(c Category) string {
	name := string(c)
	if name == "" {
		return "Task"
	}
	return strings.ToUpper(name[:1]) + name[1:] + " task"
}
