package model

import (
	"time"
)

// Task statuses. PROCESSING is set at submission time; COMPLETED, FAILED or
// any other status string arrives verbatim from the extraction service;
// CONSUMED is terminal and set only by the explicit consume operation.
const (
	StatusProcessing = "PROCESSING"
	StatusCompleted  = "COMPLETED"
	StatusFailed     = "FAILED"
	StatusConsumed   = "CONSUMED"
	StatusUnknown    = "UNKNOWN"
)

// Task represents one document submitted for extraction.
type Task struct {
	TaskID    string    `json:"taskId" dynamodbav:"taskId"`
	StartupID string    `json:"startupId" dynamodbav:"startupId"`
	FileType  string    `json:"fileType" dynamodbav:"fileType"`
	FileName  string    `json:"fileName" dynamodbav:"fileName"`
	FileURL   string    `json:"fileUrl" dynamodbav:"fileUrl"`
	Status    string    `json:"status" dynamodbav:"status"`
	CreatedAt time.Time `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" dynamodbav:"updatedAt"`
}

// Result is the finalized extraction payload for a completed task. The
// startup/file fields are denormalized copies captured at completion time.
// Written exactly once per task.
type Result struct {
	TaskID    string    `json:"taskId"`
	StartupID string    `json:"startupId"`
	FileType  string    `json:"fileType"`
	FileName  string    `json:"fileName"`
	Result    any       `json:"result"`
	CreatedAt time.Time `json:"createdAt"`
}
