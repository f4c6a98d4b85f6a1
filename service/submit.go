package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hugofmello/startup-pitch/apperr"
	"github.com/hugofmello/startup-pitch/config"
	"github.com/hugofmello/startup-pitch/model"
	"github.com/hugofmello/startup-pitch/pkg/logger"
)

// SubmitService orchestrates a document upload: validation, blob storage,
// extraction submission and task creation. Side effects are not rolled back
// on partial failure; a blob whose follow-up steps fail stays orphaned and is
// cleaned up out of band.
type SubmitService struct {
	cfg       *config.ExtractionConfig
	objects   ObjectStore
	extractor Extractor
	tasks     TaskStore
}

func NewSubmitService(cfg *config.ExtractionConfig, objects ObjectStore, extractor Extractor, tasks TaskStore) *SubmitService {
	return &SubmitService{
		cfg:       cfg,
		objects:   objects,
		extractor: extractor,
		tasks:     tasks,
	}
}

// UploadRequest is the canonical submission request. FileContent is base64.
type UploadRequest struct {
	FileContent string `json:"fileContent"`
	FileType    string `json:"fileType"`
	FileName    string `json:"fileName"`
	StartupID   string `json:"startupId"`
}

// UploadResponse echoes the task identity and its initial status.
type UploadResponse struct {
	TaskID    string `json:"taskId"`
	StartupID string `json:"startupId"`
	FileType  string `json:"fileType"`
	Status    string `json:"status"`
}

// Submit validates the request, stores the document, submits it to the
// extraction service and creates the task record with status PROCESSING.
func (s *SubmitService) Submit(ctx context.Context, req UploadRequest) (*UploadResponse, error) {
	var missing []string
	if req.FileContent == "" {
		missing = append(missing, "fileContent")
	}
	if req.FileType == "" {
		missing = append(missing, "fileType")
	}
	if req.FileName == "" {
		missing = append(missing, "fileName")
	}
	if req.StartupID == "" {
		missing = append(missing, "startupId")
	}
	if len(missing) > 0 {
		return nil, apperr.MissingFields(missing...)
	}

	profile, ok := model.ProfileForFileType(req.FileType)
	if !ok {
		return nil, apperr.Validationf("unsupported file type: %s", req.FileType)
	}

	deploymentID, err := s.cfg.DeploymentID(profile)
	if err != nil {
		return nil, apperr.Dependency("resolve deployment", err)
	}

	data, err := base64.StdEncoding.DecodeString(req.FileContent)
	if err != nil {
		return nil, apperr.Validationf("failed to decode file content: %v", err)
	}

	// Key stays human-traceable while the random part avoids collisions.
	objectName := fmt.Sprintf("%s/%s-%s", req.StartupID, uuid.New().String(), req.FileName)

	if err := s.objects.Upload(ctx, objectName, data, "application/octet-stream"); err != nil {
		return nil, apperr.Dependency("upload document", err)
	}

	fileURL, err := s.objects.PresignedURL(ctx, objectName)
	if err != nil {
		return nil, apperr.Dependency("generate document URL", err)
	}

	externalID, err := s.extractor.Submit(ctx, fileURL, deploymentID)
	if err != nil {
		return nil, apperr.Dependency("submit extraction task", err)
	}

	taskID := externalID
	if taskID == "" {
		taskID = uuid.New().String()
		logger.Info(ctx, "extraction service returned no task id, generated locally", "task_id", taskID)
	}

	now := time.Now().UTC()
	task := model.Task{
		TaskID:    taskID,
		StartupID: req.StartupID,
		FileType:  req.FileType,
		FileName:  req.FileName,
		FileURL:   fileURL,
		Status:    model.StatusProcessing,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.tasks.Put(ctx, task); err != nil {
		return nil, apperr.Dependency("save task", err)
	}

	logger.Info(ctx, "task submitted",
		"task_id", taskID,
		"startup_id", req.StartupID,
		"file_type", req.FileType,
		"file_name", req.FileName,
	)

	return &UploadResponse{
		TaskID:    taskID,
		StartupID: req.StartupID,
		FileType:  req.FileType,
		Status:    model.StatusProcessing,
	}, nil
}
