// Package interpreter defines the interpretation gateway port (interface).
package interpreter

import (
	"context"
	"errors"
	"strings"

	"github.com/mindhq/mindcore/internal/domain/task"
)

// Gateway failure modes. The orchestrator treats all three identically:
// submission fails fast, no task is created, the caller retries.
var (
	ErrUnavailable        = errors.New("interpreter: unavailable")
	ErrInvalidCredentials = errors.New("interpreter: invalid credentials")
	ErrRateLimited        = errors.New("interpreter: rate limited")
)

// Result is the opaque payload returned by the interpretation oracle. No
// schema is enforced; Text may be a structured JSON document or free prose,
// and downstream consumers must tolerate both.
type Result struct {
	Text string `json:"text"`
}

// Summary returns a short single-line digest of the result, suitable for
// echoing back to the submitter.
func (r *Result) Summary() string {
	line := strings.TrimSpace(r.Text)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	const maxLen = 140
	if len(line) > maxLen {
		line = line[:maxLen-3] + "..."
	}
	return line
}

// Interpreter is the port interface for the external interpretation oracle.
type Interpreter interface {
	// Interpret analyzes a free-text prompt for the given category. The call
	// is pure request/response; failures map onto the sentinel errors above.
	Interpret(ctx context.Context, category task.Category, prompt string) (*Result, error)
}
