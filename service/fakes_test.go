package service

import (
	"context"
	"sync"
	"time"

	"github.com/hugofmello/startup-pitch/model"
)

// In-memory fakes for the store and extractor contracts.

type fakeObjectStore struct {
	mu        sync.Mutex
	uploads   map[string][]byte
	uploadErr error
	urlErr    error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{uploads: make(map[string][]byte)}
}

func (f *fakeObjectStore) Upload(_ context.Context, objectName string, data []byte, _ string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads[objectName] = data
	return nil
}

func (f *fakeObjectStore) PresignedURL(_ context.Context, objectName string) (string, error) {
	if f.urlErr != nil {
		return "", f.urlErr
	}
	return "https://blobs.test/" + objectName, nil
}

type fakeTaskStore struct {
	mu     sync.Mutex
	tasks  map[string]model.Task
	putErr error
	getErr error
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: make(map[string]model.Task)}
}

func (f *fakeTaskStore) Put(_ context.Context, task model.Task) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[task.TaskID] = task
	return nil
}

func (f *fakeTaskStore) Get(_ context.Context, taskID string) (*model.Task, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.tasks[taskID]
	if !ok {
		return nil, nil
	}
	return &task, nil
}

func (f *fakeTaskStore) List(_ context.Context) ([]model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var tasks []model.Task
	for _, t := range f.tasks {
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (f *fakeTaskStore) UpdateStatus(_ context.Context, taskID, status string, updatedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.tasks[taskID]
	if !ok || task.Status == model.StatusConsumed {
		return ErrConditionFailed
	}
	task.Status = status
	task.UpdatedAt = updatedAt
	f.tasks[taskID] = task
	return nil
}

func (f *fakeTaskStore) TransitionStatus(_ context.Context, taskID, from, to string, updatedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.tasks[taskID]
	if !ok || task.Status != from {
		return ErrConditionFailed
	}
	task.Status = to
	task.UpdatedAt = updatedAt
	f.tasks[taskID] = task
	return nil
}

type fakeResultStore struct {
	mu       sync.Mutex
	results  map[string]model.Result
	putErr   error
	putCalls int
}

func newFakeResultStore() *fakeResultStore {
	return &fakeResultStore{results: make(map[string]model.Result)}
}

func (f *fakeResultStore) PutIfAbsent(_ context.Context, result model.Result) (bool, error) {
	if f.putErr != nil {
		return false, f.putErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.putCalls++
	if _, exists := f.results[result.TaskID]; exists {
		return false, nil
	}
	f.results[result.TaskID] = result
	return true, nil
}

func (f *fakeResultStore) Get(_ context.Context, taskID string) (*model.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result, ok := f.results[taskID]
	if !ok {
		return nil, nil
	}
	return &result, nil
}

type fakeExtractor struct {
	mu          sync.Mutex
	submitFn    func(fileURL, deploymentID string) (string, error)
	fetchFn     func(taskID string) (*ExtractionStatusResponse, error)
	submitCalls int
	fetchCalls  int
}

func (f *fakeExtractor) Submit(_ context.Context, fileURL, deploymentID string) (string, error) {
	f.mu.Lock()
	f.submitCalls++
	f.mu.Unlock()
	if f.submitFn != nil {
		return f.submitFn(fileURL, deploymentID)
	}
	return "ext-task-1", nil
}

func (f *fakeExtractor) Fetch(_ context.Context, taskID string) (*ExtractionStatusResponse, error) {
	f.mu.Lock()
	f.fetchCalls++
	f.mu.Unlock()
	if f.fetchFn != nil {
		return f.fetchFn(taskID)
	}
	return &ExtractionStatusResponse{Status: model.StatusProcessing}, nil
}
