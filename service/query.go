package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/hugofmello/startup-pitch/apperr"
	"github.com/hugofmello/startup-pitch/model"
	"github.com/hugofmello/startup-pitch/pkg/logger"
)

// QueryService owns the task lifecycle state machine:
//
//	PROCESSING -> {COMPLETED, FAILED, <other upstream>} -> CONSUMED
//
// A CONSUMED task is served from the result cache without touching the
// extraction service, so the upstream fetch is billed at most once per task.
// The COMPLETED -> CONSUMED transition only happens through Consume, an
// explicit call made by the caller after it has durably stored the result.
type QueryService struct {
	tasks     TaskStore
	results   ResultStore
	extractor Extractor
}

func NewQueryService(tasks TaskStore, results ResultStore, extractor Extractor) *QueryService {
	return &QueryService{
		tasks:     tasks,
		results:   results,
		extractor: extractor,
	}
}

// TaskView is the query response payload. Result is present once the task
// has completed.
type TaskView struct {
	TaskID    string `json:"taskId"`
	Status    string `json:"status"`
	StartupID string `json:"startupId"`
	FileType  string `json:"fileType"`
	FileName  string `json:"fileName"`
	Result    any    `json:"result,omitempty"`
}

// Get polls a single task. Non-terminal tasks are refreshed from the
// extraction service on every call (write-every-poll, not a no-op skip);
// CONSUMED tasks short-circuit to the cache.
func (s *QueryService) Get(ctx context.Context, taskID string) (*TaskView, error) {
	task, err := s.tasks.Get(ctx, taskID)
	if err != nil {
		return nil, apperr.Dependency("load task", err)
	}
	if task == nil {
		return nil, apperr.NotFoundf("task not found: %s", taskID)
	}

	if task.Status == model.StatusConsumed {
		return s.consumedView(ctx, task)
	}

	upstream, err := s.extractor.Fetch(ctx, taskID)
	if err != nil {
		// Task record deliberately left unchanged.
		return nil, apperr.Dependency("fetch extraction status", err)
	}

	status := upstream.Status
	if status == "" {
		status = model.StatusUnknown
	}

	now := time.Now().UTC()
	if err := s.tasks.UpdateStatus(ctx, taskID, status, now); err != nil {
		if errors.Is(err, ErrConditionFailed) {
			// A concurrent caller consumed the task between our read and
			// this write; the row stays CONSUMED and this poll's view is
			// still valid.
			logger.Warn(ctx, "skipped status write for consumed task", "task_id", taskID)
		} else {
			return nil, apperr.Dependency("update task status", err)
		}
	}

	view := &TaskView{
		TaskID:    task.TaskID,
		Status:    status,
		StartupID: task.StartupID,
		FileType:  task.FileType,
		FileName:  task.FileName,
	}

	if status == model.StatusCompleted {
		payload := normalizeResult(upstream.Response)
		created, err := s.results.PutIfAbsent(ctx, model.Result{
			TaskID:    task.TaskID,
			StartupID: task.StartupID,
			FileType:  task.FileType,
			FileName:  task.FileName,
			Result:    payload,
			CreatedAt: now,
		})
		if err != nil {
			return nil, apperr.Dependency("cache result", err)
		}
		if created {
			logger.Info(ctx, "extraction result cached", "task_id", taskID)
		}
		view.Result = payload
	}

	return view, nil
}

// List returns every task record. No upstream calls, no transitions.
func (s *QueryService) List(ctx context.Context) ([]model.Task, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, apperr.Dependency("list tasks", err)
	}
	return tasks, nil
}

// Consume marks a COMPLETED task as CONSUMED. Consuming an already consumed
// task is an idempotent success so crash-retrying callers are safe; any other
// status is rejected, since a result only exists for completed tasks.
func (s *QueryService) Consume(ctx context.Context, taskID string) (*TaskView, error) {
	task, err := s.tasks.Get(ctx, taskID)
	if err != nil {
		return nil, apperr.Dependency("load task", err)
	}
	if task == nil {
		return nil, apperr.NotFoundf("task not found: %s", taskID)
	}

	if task.Status == model.StatusConsumed {
		return s.consumedView(ctx, task)
	}
	if task.Status != model.StatusCompleted {
		return nil, apperr.Validationf("task %s cannot be consumed in status %s", taskID, task.Status)
	}

	err = s.tasks.TransitionStatus(ctx, taskID, model.StatusCompleted, model.StatusConsumed, time.Now().UTC())
	if errors.Is(err, ErrConditionFailed) {
		// Lost the race against another consumer; confirm before failing.
		current, readErr := s.tasks.Get(ctx, taskID)
		if readErr != nil {
			return nil, apperr.Dependency("load task", readErr)
		}
		if current == nil || current.Status != model.StatusConsumed {
			return nil, apperr.Validationf("task %s cannot be consumed", taskID)
		}
	} else if err != nil {
		return nil, apperr.Dependency("mark task consumed", err)
	}

	logger.Info(ctx, "task consumed", "task_id", taskID)
	return s.consumedView(ctx, task)
}

// consumedView builds the response for a CONSUMED task from the result
// cache. A missing cache entry yields a null result, not an error.
func (s *QueryService) consumedView(ctx context.Context, task *model.Task) (*TaskView, error) {
	result, err := s.results.Get(ctx, task.TaskID)
	if err != nil {
		return nil, apperr.Dependency("load cached result", err)
	}

	view := &TaskView{
		TaskID:    task.TaskID,
		Status:    model.StatusConsumed,
		StartupID: task.StartupID,
		FileType:  task.FileType,
		FileName:  task.FileName,
	}
	if result != nil {
		view.Result = result.Result
	}
	return view, nil
}

// normalizeResult turns the raw upstream response payload into the cached
// form: a JSON string that itself parses as JSON is stored parsed, any other
// string is kept as text, and structured payloads pass through as-is.
func normalizeResult(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return string(raw)
	}

	if text, ok := value.(string); ok {
		var inner any
		if err := json.Unmarshal([]byte(text), &inner); err == nil {
			return inner
		}
		return text
	}

	return value
}
