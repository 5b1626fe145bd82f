package http

import (
	"net/http"

	"github.com/mindhq/mindcore/internal/domain/task"
	"github.com/mindhq/mindcore/internal/port/interpreter"
	"github.com/mindhq/mindcore/internal/service"
)

// maxBodyBytes caps submit request bodies.
const maxBodyBytes = 64 * 1024

// Handlers holds the services behind the REST surface.
type Handlers struct {
	orch  *service.Orchestrator
	tasks *service.TaskService
}

// NewHandlers creates the handler set.
func NewHandlers(orch *service.Orchestrator, tasks *service.TaskService) *Handlers {
	return &Handlers{orch: orch, tasks: tasks}
}

// submitResponse is the task snapshot plus a short digest of the
// interpretation, so callers need not parse the raw oracle payload.
type submitResponse struct {
	task.Task
	InterpretationSummary string `json:"interpretation_summary,omitempty"`
}

// SubmitTask runs the full pipeline synchronously and returns the task in a
// terminal status.
func (h *Handlers) SubmitTask(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[task.SubmitRequest](w, r, maxBodyBytes)
	if !ok {
		return
	}
	if req.RequesterID == "" {
		req.RequesterID = requesterID(r)
	}

	t, err := h.orch.Submit(r.Context(), req)
	if err != nil {
		writeDomainError(w, err, "task could not be submitted")
		return
	}

	summary := (&interpreter.Result{Text: t.Interpretation}).Summary()
	writeJSON(w, http.StatusCreated, submitResponse{Task: *t, InterpretationSummary: summary})
}

// CancelTask moves a processing task to cancelled. The actor comes from the
// optional JSON body, the requester_id query parameter, or the header.
func (h *Handlers) CancelTask(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")

	var body struct {
		RequesterID string `json:"requester_id"`
	}
	_ = decodeOptionalJSON(r, &body)
	actor := body.RequesterID
	if actor == "" {
		actor = requesterID(r)
	}
	if actor == "" {
		writeError(w, http.StatusBadRequest, "validation_error", "requester_id is required")
		return
	}

	t, err := h.orch.Cancel(r.Context(), id, actor)
	if err != nil {
		writeDomainError(w, err, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// GetTask returns one of the requester's tasks.
func (h *Handlers) GetTask(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")
	actor := requesterID(r)
	if actor == "" {
		writeError(w, http.StatusBadRequest, "validation_error", "requester_id is required")
		return
	}

	t, err := h.tasks.Get(r.Context(), id, actor)
	if err != nil {
		writeDomainError(w, err, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// ListTasks returns the requester's tasks, newest first.
func (h *Handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	actor := requesterID(r)
	if actor == "" {
		writeError(w, http.StatusBadRequest, "validation_error", "requester_id is required")
		return
	}

	tasks, err := h.tasks.List(r.Context(), actor)
	if err != nil {
		writeDomainError(w, err, "tasks could not be listed")
		return
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

// GetTaskAudit returns the audit trail for one of the requester's tasks.
func (h *Handlers) GetTaskAudit(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")
	actor := requesterID(r)
	if actor == "" {
		writeError(w, http.StatusBadRequest, "validation_error", "requester_id is required")
		return
	}

	entries, err := h.tasks.Audit(r.Context(), id, actor)
	if err != nil {
		writeDomainError(w, err, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// Health reports liveness.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
