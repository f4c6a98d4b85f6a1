package handler

import (
	"context"
	"sync"
	"time"

	"github.com/hugofmello/startup-pitch/model"
	"github.com/hugofmello/startup-pitch/service"
)

// In-memory fakes for the store contracts, mirroring the per-key semantics
// of the real stores.

type memObjectStore struct{}

func (memObjectStore) Upload(context.Context, string, []byte, string) error {
	return nil
}

func (memObjectStore) PresignedURL(_ context.Context, objectName string) (string, error) {
	return "https://blobs.test/" + objectName, nil
}

type memTaskStore struct {
	mu    sync.Mutex
	tasks map[string]model.Task
}

func newMemTaskStore() *memTaskStore {
	return &memTaskStore{tasks: make(map[string]model.Task)}
}

func (s *memTaskStore) Put(_ context.Context, task model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.TaskID] = task
	return nil
}

func (s *memTaskStore) Get(_ context.Context, taskID string) (*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[taskID]
	if !ok {
		return nil, nil
	}
	return &task, nil
}

func (s *memTaskStore) List(_ context.Context) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var tasks []model.Task
	for _, t := range s.tasks {
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (s *memTaskStore) UpdateStatus(_ context.Context, taskID, status string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[taskID]
	if !ok || task.Status == model.StatusConsumed {
		return service.ErrConditionFailed
	}
	task.Status = status
	task.UpdatedAt = updatedAt
	s.tasks[taskID] = task
	return nil
}

func (s *memTaskStore) TransitionStatus(_ context.Context, taskID, from, to string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[taskID]
	if !ok || task.Status != from {
		return service.ErrConditionFailed
	}
	task.Status = to
	task.UpdatedAt = updatedAt
	s.tasks[taskID] = task
	return nil
}

type memResultStore struct {
	mu      sync.Mutex
	results map[string]model.Result
}

func newMemResultStore() *memResultStore {
	return &memResultStore{results: make(map[string]model.Result)}
}

func (s *memResultStore) PutIfAbsent(_ context.Context, result model.Result) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.results[result.TaskID]; exists {
		return false, nil
	}
	s.results[result.TaskID] = result
	return true, nil
}

func (s *memResultStore) Get(_ context.Context, taskID string) (*model.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result, ok := s.results[taskID]
	if !ok {
		return nil, nil
	}
	return &result, nil
}

type memStartupStore struct {
	mu       sync.Mutex
	startups map[string]model.Startup
	putErr   error
}

func newMemStartupStore() *memStartupStore {
	return &memStartupStore{startups: make(map[string]model.Startup)}
}

func (s *memStartupStore) Put(_ context.Context, startup model.Startup) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startups[startup.ID] = startup
	return nil
}

func (s *memStartupStore) Get(_ context.Context, id string) (*model.Startup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	startup, ok := s.startups[id]
	if !ok {
		return nil, nil
	}
	return &startup, nil
}

func (s *memStartupStore) List(_ context.Context) ([]model.Startup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var startups []model.Startup
	for _, st := range s.startups {
		startups = append(startups, st)
	}
	return startups, nil
}

func (s *memStartupStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.startups, id)
	return nil
}

type stubExtractor struct {
	mu          sync.Mutex
	submitFn    func(fileURL, deploymentID string) (string, error)
	fetchFn     func(taskID string) (*service.ExtractionStatusResponse, error)
	submitCalls int
	fetchCalls  int
}

func (e *stubExtractor) Submit(_ context.Context, fileURL, deploymentID string) (string, error) {
	e.mu.Lock()
	e.submitCalls++
	e.mu.Unlock()
	if e.submitFn != nil {
		return e.submitFn(fileURL, deploymentID)
	}
	return "ext-task-1", nil
}

func (e *stubExtractor) Fetch(_ context.Context, taskID string) (*service.ExtractionStatusResponse, error) {
	e.mu.Lock()
	e.fetchCalls++
	e.mu.Unlock()
	if e.fetchFn != nil {
		return e.fetchFn(taskID)
	}
	return &service.ExtractionStatusResponse{Status: model.StatusProcessing}, nil
}
