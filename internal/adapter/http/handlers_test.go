package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mindhq/mindcore/internal/config"
	"github.com/mindhq/mindcore/internal/domain"
	"github.com/mindhq/mindcore/internal/domain/audit"
	"github.com/mindhq/mindcore/internal/domain/task"
	"github.com/mindhq/mindcore/internal/port/executor"
	"github.com/mindhq/mindcore/internal/port/interpreter"
	"github.com/mindhq/mindcore/internal/service"
)

// memStore is an in-memory database.Store for handler tests.
type memStore struct {
	mu    sync.Mutex
	tasks map[string]*task.Task
	seq   int
}

func newMemStore() *memStore {
	return &memStore{tasks: make(map[string]*task.Task)}
}

func (s *memStore) CreateTask(_ context.Context, req task.SubmitRequest, interpretation string) (*task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	now := time.Now()
	t := &task.Task{
		ID:               fmt.Sprintf("t%d", s.seq),
		Category:         req.Category,
		Title:            task.Title(req.Category),
		Prompt:           req.Prompt,
		Status:           task.StatusProcessing,
		Interpretation:   interpretation,
		RequesterID:      req.RequesterID,
		RequesterContact: req.RequesterContact,
		CreatedAt:        now,
		StartedAt:        &now,
	}
	s.tasks[t.ID] = t
	cp := *t
	return &cp, nil
}

func (s *memStore) GetTask(_ context.Context, id string) (*task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %s: %w", id, domain.ErrNotFound)
	}
	cp := *t
	return &cp, nil
}

func (s *memStore) ListTasksByRequester(_ context.Context, requesterID string) ([]task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []task.Task
	for _, t := range s.tasks {
		if t.RequesterID == requesterID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *memStore) FinalizeTask(_ context.Context, id string, from, to task.Status, outcome json.RawMessage, errorDetail string) (*task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %s: %w", id, domain.ErrNotFound)
	}
	if t.Status != from {
		return nil, fmt.Errorf("task %s is %s: %w", id, t.Status, domain.ErrInvalidState)
	}
	now := time.Now()
	t.Status = to
	t.Outcome = outcome
	t.ErrorDetail = errorDetail
	t.CompletedAt = &now
	cp := *t
	return &cp, nil
}

type memAudit struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (a *memAudit) Append(_ context.Context, e *audit.Entry) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, *e)
	return nil
}

func (a *memAudit) ListByTask(_ context.Context, taskID string) ([]audit.Entry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []audit.Entry
	for _, e := range a.entries {
		if e.TaskID == taskID {
			out = append(out, e)
		}
	}
	return out, nil
}

type stubInterpreter struct {
	text string
	err  error
}

func (s *stubInterpreter) Interpret(_ context.Context, _ task.Category, _ string) (*interpreter.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &interpreter.Result{Text: s.text}, nil
}

type okExecutor struct{ cat task.Category }

func (e *okExecutor) Category() task.Category { return e.cat }

func (e *okExecutor) Execute(_ context.Context, _ executor.Request) executor.Outcome {
	return executor.SuccessFrom(map[string]any{"action": "done"})
}

type testServer struct {
	srv   *httptest.Server
	store *memStore
}

func newTestServer(t *testing.T, interp *stubInterpreter) *testServer {
	t.Helper()
	store := newMemStore()
	auditLog := &memAudit{}
	registry := executor.NewRegistry(&okExecutor{cat: task.CategoryMessage})

	tasks := service.NewTaskService(store, auditLog, nil, 0)
	orch := service.NewOrchestrator(store, auditLog, interp, registry,
		service.NewNotificationService(nil), nil, nil,
		config.Executors{DefaultTimeout: time.Second}, tasks)

	r := chi.NewRouter()
	MountRoutes(r, NewHandlers(orch, tasks))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &testServer{srv: srv, store: store}
}

func (ts *testServer) do(t *testing.T, method, path, body, requester string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, ts.srv.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if requester != "" {
		req.Header.Set("X-Requester-ID", requester)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, raw
}

const submitBody = `{"category":"message","prompt":"send a note","requester_id":"u1","requester_contact":"u1@mail.com"}`

func TestSubmitReturnsTerminalTask(t *testing.T) {
	ts := newTestServer(t, &stubInterpreter{text: "ok"})

	resp, body := ts.do(t, http.MethodPost, "/api/v1/tasks", submitBody, "u1")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}

	var got struct {
		task.Task
		InterpretationSummary string `json:"interpretation_summary"`
	}
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if got.Status != task.StatusCompleted {
		t.Errorf("task status = %s", got.Status)
	}
	if got.InterpretationSummary != "ok" {
		t.Errorf("interpretation_summary = %q", got.InterpretationSummary)
	}
}

func TestSubmitValidationError(t *testing.T) {
	ts := newTestServer(t, &stubInterpreter{text: "ok"})

	resp, body := ts.do(t, http.MethodPost, "/api/v1/tasks",
		`{"category":"message","prompt":"  ","requester_id":"u1","requester_contact":"u1@mail.com"}`, "u1")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var e errorResponse
	_ = json.Unmarshal(body, &e)
	if e.ErrorCode != "validation_error" {
		t.Errorf("error_code = %q", e.ErrorCode)
	}
}

func TestSubmitGatewayErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{interpreter.ErrUnavailable, http.StatusServiceUnavailable, "gateway_unavailable"},
		{interpreter.ErrInvalidCredentials, http.StatusBadGateway, "invalid_credentials"},
		{interpreter.ErrRateLimited, http.StatusTooManyRequests, "rate_limited"},
	}
	for _, tt := range tests {
		ts := newTestServer(t, &stubInterpreter{err: tt.err})
		resp, body := ts.do(t, http.MethodPost, "/api/v1/tasks", submitBody, "u1")
		if resp.StatusCode != tt.status {
			t.Errorf("%v: status = %d, want %d", tt.err, resp.StatusCode, tt.status)
		}
		var e errorResponse
		_ = json.Unmarshal(body, &e)
		if e.ErrorCode != tt.code {
			t.Errorf("%v: error_code = %q, want %q", tt.err, e.ErrorCode, tt.code)
		}
	}
}

func TestCancelLifecycle(t *testing.T) {
	ts := newTestServer(t, &stubInterpreter{text: "ok"})
	created, _ := ts.store.CreateTask(context.Background(), task.SubmitRequest{
		Category: task.CategoryMessage, Prompt: "p", RequesterID: "u1", RequesterContact: "u1@mail.com",
	}, "ok")

	resp, body := ts.do(t, http.MethodPost, "/api/v1/tasks/"+created.ID+"/cancel", `{"requester_id":"u1"}`, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var got task.Task
	_ = json.Unmarshal(body, &got)
	if got.Status != task.StatusCancelled {
		t.Errorf("status = %s", got.Status)
	}

	// Second cancel conflicts.
	resp, body = ts.do(t, http.MethodPost, "/api/v1/tasks/"+created.ID+"/cancel", `{"requester_id":"u1"}`, "")
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("second cancel status = %d", resp.StatusCode)
	}
	var e errorResponse
	_ = json.Unmarshal(body, &e)
	if e.ErrorCode != "invalid_state" {
		t.Errorf("error_code = %q", e.ErrorCode)
	}
}

func TestCancelForeignTask(t *testing.T) {
	ts := newTestServer(t, &stubInterpreter{text: "ok"})
	created, _ := ts.store.CreateTask(context.Background(), task.SubmitRequest{
		Category: task.CategoryMessage, Prompt: "p", RequesterID: "u1", RequesterContact: "u1@mail.com",
	}, "ok")

	resp, _ := ts.do(t, http.MethodPost, "/api/v1/tasks/"+created.ID+"/cancel", "", "intruder")
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestGetTaskNotFound(t *testing.T) {
	ts := newTestServer(t, &stubInterpreter{text: "ok"})

	resp, body := ts.do(t, http.MethodGet, "/api/v1/tasks/nope", "", "u1")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var e errorResponse
	_ = json.Unmarshal(body, &e)
	if e.ErrorCode != "not_found" {
		t.Errorf("error_code = %q", e.ErrorCode)
	}
}

func TestGetTaskRequiresIdentity(t *testing.T) {
	ts := newTestServer(t, &stubInterpreter{text: "ok"})

	resp, _ := ts.do(t, http.MethodGet, "/api/v1/tasks/t1", "", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestListTasksByQueryParam(t *testing.T) {
	ts := newTestServer(t, &stubInterpreter{text: "ok"})
	_, _ = ts.store.CreateTask(context.Background(), task.SubmitRequest{
		Category: task.CategoryMessage, Prompt: "p", RequesterID: "u1", RequesterContact: "u1@mail.com",
	}, "ok")

	resp, body := ts.do(t, http.MethodGet, "/api/v1/tasks?requester_id=u1", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var got []task.Task
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("tasks = %d", len(got))
	}
}

func TestListTasksEmptyIsArray(t *testing.T) {
	ts := newTestServer(t, &stubInterpreter{text: "ok"})

	resp, body := ts.do(t, http.MethodGet, "/api/v1/tasks", "", "u1")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if strings.TrimSpace(string(body)) != "[]" {
		t.Errorf("body = %s, want empty array", body)
	}
}

func TestAuditEndpoint(t *testing.T) {
	ts := newTestServer(t, &stubInterpreter{text: "ok"})

	resp, body := ts.do(t, http.MethodPost, "/api/v1/tasks", submitBody, "u1")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("submit status = %d", resp.StatusCode)
	}
	var created task.Task
	_ = json.Unmarshal(body, &created)

	resp, body = ts.do(t, http.MethodGet, "/api/v1/tasks/"+created.ID+"/audit", "", "u1")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("audit status = %d", resp.StatusCode)
	}
	var entries []audit.Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Action != audit.ActionStatusChanged {
		t.Errorf("entries = %+v", entries)
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, &stubInterpreter{text: "ok"})

	resp, _ := ts.do(t, http.MethodGet, "/health", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}
