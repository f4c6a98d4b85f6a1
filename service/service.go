package service

import (
	"context"
	"errors"
	"time"

	"github.com/hugofmello/startup-pitch/model"
)

// ErrConditionFailed is returned by conditional store writes when the guard
// did not hold (row missing, or status already past the expected state).
var ErrConditionFailed = errors.New("conditional write failed")

// ObjectStore is the blob store gateway contract: store raw document bytes
// and hand back a retrievable reference.
type ObjectStore interface {
	Upload(ctx context.Context, objectName string, data []byte, contentType string) error
	PresignedURL(ctx context.Context, objectName string) (string, error)
}

// TaskStore is the durable task record contract. Get returns nil when the
// task is absent. UpdateStatus refuses to overwrite a CONSUMED row;
// TransitionStatus writes only when the current status matches from.
type TaskStore interface {
	Put(ctx context.Context, task model.Task) error
	Get(ctx context.Context, taskID string) (*model.Task, error)
	List(ctx context.Context) ([]model.Task, error)
	UpdateStatus(ctx context.Context, taskID, status string, updatedAt time.Time) error
	TransitionStatus(ctx context.Context, taskID, from, to string, updatedAt time.Time) error
}

// ResultStore is the write-once result cache contract. PutIfAbsent reports
// whether this call created the entry.
type ResultStore interface {
	PutIfAbsent(ctx context.Context, result model.Result) (bool, error)
	Get(ctx context.Context, taskID string) (*model.Result, error)
}

// StartupStore is plain key-value CRUD for the owning entity.
type StartupStore interface {
	Put(ctx context.Context, startup model.Startup) error
	Get(ctx context.Context, id string) (*model.Startup, error)
	List(ctx context.Context) ([]model.Startup, error)
	Delete(ctx context.Context, id string) error
}

// Extractor is the external extraction API contract.
type Extractor interface {
	Submit(ctx context.Context, fileURL, deploymentID string) (string, error)
	Fetch(ctx context.Context, taskID string) (*ExtractionStatusResponse, error)
}
