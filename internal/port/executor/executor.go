// Package executor defines the executor port (interface) and the registry
// that maps task categories to executor capabilities.
package executor

import (
	"context"
	"encoding/json"

	"github.com/mindhq/mindcore/internal/domain/task"
)

// Request carries everything an executor needs to act on a task.
type Request struct {
	TaskID           string
	Interpretation   string
	RequesterContact string
}

// Outcome is the value object every executor returns. It is folded into the
// task record by the orchestrator and never persisted on its own.
type Outcome struct {
	Success      bool            `json:"success"`
	Payload      json.RawMessage `json:"payload,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
}

// Failure builds a failed outcome from an error message.
func Failure(msg string) Outcome {
	return Outcome{Success: false, ErrorMessage: msg}
}

// SuccessFrom builds a successful outcome. Marshalling failures are folded
// into a failed outcome so that executors keep their never-raise contract.
func SuccessFrom(payload any) Outcome {
	b, err := json.Marshal(payload)
	if err != nil {
		return Failure("marshal outcome payload: " + err.Error())
	}
	return Outcome{Success: true, Payload: b}
}

// Executor is the uniform invoke contract every category executor implements.
// Execute must not return an error or panic: capability failures and
// malformed interpretations are converted into a failed Outcome.
type Executor interface {
	// Category returns the task category this executor handles.
	Category() task.Category

	// Execute attempts the task and reports the outcome.
	Execute(ctx context.Context, req Request) Outcome
}
