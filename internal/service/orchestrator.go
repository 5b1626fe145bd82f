package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mindhq/mindcore/internal/adapter/otel"
	"github.com/mindhq/mindcore/internal/config"
	"github.com/mindhq/mindcore/internal/domain"
	"github.com/mindhq/mindcore/internal/domain/audit"
	"github.com/mindhq/mindcore/internal/domain/task"
	"github.com/mindhq/mindcore/internal/port/auditlog"
	"github.com/mindhq/mindcore/internal/port/database"
	"github.com/mindhq/mindcore/internal/port/executor"
	"github.com/mindhq/mindcore/internal/port/interpreter"
	"github.com/mindhq/mindcore/internal/port/messagequeue"
)

// cancelledDetail is recorded on tasks cancelled by their requester.
const cancelledDetail = "task was cancelled by requester"

// notifyTimeout bounds the fire-and-forget notification dispatch.
const notifyTimeout = 10 * time.Second

// Orchestrator runs the synchronous task pipeline: interpret the prompt,
// create the task record, execute, finalize, notify. It also owns cancel.
type Orchestrator struct {
	store    database.Store
	audit    auditlog.Log
	interp   interpreter.Interpreter
	execs    *executor.Registry
	notify   *NotificationService
	queue    messagequeue.Queue // optional
	metrics  *otel.Metrics      // optional
	timeouts config.Executors
	tasks    *TaskService

	// dispatched signals completion of an async notification dispatch.
	// Tests use it to wait; nil in production.
	dispatched chan struct{}
}

// NewOrchestrator creates the pipeline service. queue and metrics may be nil.
func NewOrchestrator(
	store database.Store,
	auditLog auditlog.Log,
	interp interpreter.Interpreter,
	execs *executor.Registry,
	notify *NotificationService,
	queue messagequeue.Queue,
	metrics *otel.Metrics,
	timeouts config.Executors,
	tasks *TaskService,
) *Orchestrator {
	return &Orchestrator{
		store:    store,
		audit:    auditLog,
		interp:   interp,
		execs:    execs,
		notify:   notify,
		queue:    queue,
		metrics:  metrics,
		timeouts: timeouts,
		tasks:    tasks,
	}
}

// Submit runs the full pipeline and returns the task in a terminal status.
// A failed interpretation aborts before any task record exists; every later
// step finalizes the record instead of erroring out.
func (o *Orchestrator) Submit(ctx context.Context, req task.SubmitRequest) (*task.Task, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx, span := otel.StartPipelineSpan(ctx, string(req.Category))
	defer span.End()
	start := time.Now()
	o.count(ctx, func(m *otel.Metrics) { m.TasksSubmitted.Add(ctx, 1) })

	interpretation, err := o.interpret(ctx, req)
	if err != nil {
		o.count(ctx, func(m *otel.Metrics) { m.InterpretErrors.Add(ctx, 1) })
		return nil, err
	}

	t, err := o.store.CreateTask(ctx, req, interpretation)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	o.publish(ctx, messagequeue.SubjectTaskCreated, t)

	outcome := o.execute(ctx, t)

	final, err := o.finalize(ctx, t, outcome)
	if err != nil {
		return nil, err
	}

	o.count(ctx, func(m *otel.Metrics) {
		m.PipelineDuration.Record(ctx, time.Since(start).Seconds())
	})
	o.dispatch(final)
	return final, nil
}

// Cancel moves a processing task to cancelled on behalf of its requester.
// Terminal tasks are rejected with ErrInvalidState and left untouched.
func (o *Orchestrator) Cancel(ctx context.Context, id, actorID string) (*task.Task, error) {
	t, err := o.store.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.RequesterID != actorID {
		return nil, fmt.Errorf("task %s belongs to another requester: %w", id, domain.ErrForbidden)
	}
	if t.Status.Terminal() {
		return nil, fmt.Errorf("task %s is already %s: %w", id, t.Status, domain.ErrInvalidState)
	}

	final, err := o.store.FinalizeTask(ctx, id, task.StatusProcessing, task.StatusCancelled, nil, cancelledDetail)
	if err != nil {
		return nil, err
	}

	o.appendAudit(ctx, &audit.Entry{
		TaskID:  final.ID,
		ActorID: actorID,
		Action:  audit.ActionCancelled,
		Before:  audit.StatusSnapshot(string(task.StatusProcessing)),
		After:   audit.StatusSnapshot(string(final.Status)),
	})

	o.count(ctx, func(m *otel.Metrics) { m.TasksCancelled.Add(ctx, 1) })
	o.publish(ctx, messagequeue.SubjectTaskCancelled, final)
	o.tasks.invalidate(ctx, final.ID)
	o.dispatch(final)
	return final, nil
}

// interpret calls the language gateway under its own span.
func (o *Orchestrator) interpret(ctx context.Context, req task.SubmitRequest) (string, error) {
	ctx, span := otel.StartInterpretSpan(ctx, string(req.Category))
	defer span.End()

	res, err := o.interp.Interpret(ctx, req.Category, req.Prompt)
	if err != nil {
		return "", fmt.Errorf("interpret prompt: %w", err)
	}
	return res.Text, nil
}

// execute resolves the executor for the task's category and runs it under
// the per-category timeout. Panics become failed outcomes.
func (o *Orchestrator) execute(ctx context.Context, t *task.Task) executor.Outcome {
	ctx, span := otel.StartExecuteSpan(ctx, t.ID, string(t.Category))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, o.timeouts.TimeoutFor(string(t.Category)))
	defer cancel()

	exec := o.execs.Resolve(t.Category)
	return safeExecute(ctx, exec, executor.Request{
		TaskID:           t.ID,
		Interpretation:   t.Interpretation,
		RequesterContact: t.RequesterContact,
	})
}

// safeExecute shields the pipeline from a panicking executor.
func safeExecute(ctx context.Context, exec executor.Executor, req executor.Request) (out executor.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("executor panicked", "task_id", req.TaskID, "panic", r)
			out = executor.Failure(fmt.Sprintf("executor panic: %v", r))
		}
	}()
	return exec.Execute(ctx, req)
}

// finalize records the outcome with a guarded transition from processing.
// Losing the race to a concurrent cancel is not an error: the cancelled
// record wins and is returned as-is.
func (o *Orchestrator) finalize(ctx context.Context, t *task.Task, outcome executor.Outcome) (*task.Task, error) {
	to := task.StatusCompleted
	var payload json.RawMessage
	errDetail := ""
	if outcome.Success {
		payload = outcome.Payload
	} else {
		to = task.StatusFailed
		errDetail = outcome.ErrorMessage
	}

	final, err := o.store.FinalizeTask(ctx, t.ID, task.StatusProcessing, to, payload, errDetail)
	if errors.Is(err, domain.ErrInvalidState) {
		slog.Info("task finalized elsewhere during execution", "task_id", t.ID)
		return o.store.GetTask(ctx, t.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("finalize task: %w", err)
	}

	o.appendAudit(ctx, &audit.Entry{
		TaskID:  final.ID,
		ActorID: final.RequesterID,
		Action:  audit.ActionStatusChanged,
		Before:  audit.StatusSnapshot(string(task.StatusProcessing)),
		After:   audit.StatusSnapshot(string(final.Status)),
	})

	if final.Status == task.StatusCompleted {
		o.count(ctx, func(m *otel.Metrics) { m.TasksCompleted.Add(ctx, 1) })
		o.publish(ctx, messagequeue.SubjectTaskCompleted, final)
	} else {
		o.count(ctx, func(m *otel.Metrics) { m.TasksFailed.Add(ctx, 1) })
		o.publish(ctx, messagequeue.SubjectTaskFailed, final)
	}
	o.tasks.invalidate(ctx, final.ID)
	return final, nil
}

// appendAudit records an audit entry. The trail is best-effort relative to
// the task record: a failed append is logged, not propagated.
func (o *Orchestrator) appendAudit(ctx context.Context, e *audit.Entry) {
	if o.audit == nil {
		return
	}
	if err := o.audit.Append(ctx, e); err != nil {
		slog.Error("audit append failed", "task_id", e.TaskID, "action", e.Action, "error", err)
	}
}

// lifecycleEvent is the envelope published on task status changes.
type lifecycleEvent struct {
	EventID   string     `json:"event_id"`
	EmittedAt time.Time  `json:"emitted_at"`
	Task      *task.Task `json:"task"`
}

// publish sends a lifecycle event to the queue, best-effort.
func (o *Orchestrator) publish(ctx context.Context, subject string, t *task.Task) {
	if o.queue == nil {
		return
	}
	data, err := json.Marshal(lifecycleEvent{
		EventID:   uuid.NewString(),
		EmittedAt: time.Now().UTC(),
		Task:      t,
	})
	if err != nil {
		slog.Error("marshal lifecycle event", "task_id", t.ID, "error", err)
		return
	}
	if err := o.queue.Publish(ctx, subject, data); err != nil {
		slog.Error("publish lifecycle event failed", "subject", subject, "task_id", t.ID, "error", err)
	}
}

// dispatch fires the outcome notification without blocking the caller.
func (o *Orchestrator) dispatch(t *task.Task) {
	if o.notify == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		o.notify.Notify(ctx, notificationFor(t))
		if o.dispatched != nil {
			o.dispatched <- struct{}{}
		}
	}()
}

// count applies fn when metrics are configured.
func (o *Orchestrator) count(_ context.Context, fn func(*otel.Metrics)) {
	if o.metrics != nil {
		fn(o.metrics)
	}
}
