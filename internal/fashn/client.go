package fashn

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Job status values reported by the FASHN API. Unknown strings may appear as
// the provider evolves its vocabulary; callers must not treat them as terminal.
const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
	StatusTimeout    = "timeout"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// RunRequest is the body for POST /run. Field names are part of the FASHN
// wire contract and must not change.
type RunRequest struct {
	ModelName string    `json:"model_name"`
	Inputs    RunInputs `json:"inputs"`
}

type RunInputs struct {
	ModelImage   string `json:"model_image"`
	ProductImage string `json:"product_image"`
	Category     string `json:"category,omitempty"`
	Seed         int    `json:"seed"`
}

type RunResponse struct {
	ID    string `json:"id"`
	Error string `json:"error,omitempty"`
}

type StatusResponse struct {
	ID     string   `json:"id,omitempty"`
	Status string   `json:"status"`
	Output []string `json:"output,omitempty"`
	Error  string   `json:"error,omitempty"`
}

// APIError is returned for any non-2xx provider response so callers can
// classify by status code.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("fashn api error: status %d, body: %s", e.StatusCode, e.Body)
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Run submits a try-on generation job and returns the provider-assigned job id.
func (c *Client) Run(ctx context.Context, runReq RunRequest) (*RunResponse, error) {
	jsonData, err := json.Marshal(runReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + "/run"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result RunResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w, body: %s", err, string(body))
	}

	if result.Error != "" {
		return nil, fmt.Errorf("run rejected by provider: %s", result.Error)
	}
	if result.ID == "" {
		return nil, fmt.Errorf("job id is empty in response, body: %s", string(body))
	}

	return &result, nil
}

// GetStatus fetches the current state of a job.
func (c *Client) GetStatus(ctx context.Context, jobID string) (*StatusResponse, error) {
	url := c.baseURL + "/status/" + jobID
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result StatusResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w, body: %s", err, string(body))
	}

	return &result, nil
}
