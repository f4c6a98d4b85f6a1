package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hugofmello/startup-pitch/apperr"
	"github.com/hugofmello/startup-pitch/config"
)

// ExtractionClient talks to the external document-extraction API. Both
// operations are synchronous and carry the API key in the x-api-key header.
// Non-2xx responses are translated to apperr.UpstreamError; the client never
// retries.
type ExtractionClient struct {
	config     *config.ExtractionConfig
	httpClient *http.Client
}

// ExtractionTaskRequest is the body of the task-creation call.
type ExtractionTaskRequest struct {
	DeploymentID string `json:"deploymentId"`
	FileURL      string `json:"fileUrl"`
}

// ExtractionSubmitResponse is the task-creation response. The service may
// omit taskId, in which case the caller generates one locally.
type ExtractionSubmitResponse struct {
	TaskID string `json:"taskId"`
}

// ExtractionStatusResponse is the status/result query response. Response is
// kept raw: depending on the deployment it is a JSON object or a JSON string
// that itself contains structured text.
type ExtractionStatusResponse struct {
	Status   string          `json:"status"`
	Response json.RawMessage `json:"response,omitempty"`
}

func NewExtractionClient(cfg *config.ExtractionConfig) *ExtractionClient {
	return &ExtractionClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Submit creates an extraction task for the document at fileURL and returns
// the external task id, which may be empty.
func (c *ExtractionClient) Submit(ctx context.Context, fileURL, deploymentID string) (string, error) {
	reqBody := ExtractionTaskRequest{
		DeploymentID: deploymentID,
		FileURL:      fileURL,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.APIURL+"/tasks", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", &apperr.UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result ExtractionSubmitResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w, body: %s", err, string(body))
	}

	return result.TaskID, nil
}

// Fetch queries the status and, once completed, the result of a task.
func (c *ExtractionClient) Fetch(ctx context.Context, taskID string) (*ExtractionStatusResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/tasks/%s", c.config.APIURL, taskID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &apperr.UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result ExtractionStatusResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w, body: %s", err, string(body))
	}

	return &result, nil
}
