// Package langsmith is a minimal HTTP client for the LangSmith REST API,
// covering dataset management, experiment sessions, run tracking and
// feedback.
package langsmith

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	DefaultEndpoint = "https://api.smith.langchain.com"

	apiBasePath = "/api/v1"
)

// APIError reports a non-2xx response from the service.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Status, e.Body)
}

// Dataset is a named collection of evaluation examples owned by the service.
type Dataset struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Example is one question/reference-answer pair inside a dataset.
type Example struct {
	ID        string         `json:"id"`
	DatasetID string         `json:"dataset_id"`
	Inputs    map[string]any `json:"inputs"`
	Outputs   map[string]any `json:"outputs"`
}

// Session is an experiment grouping evaluation runs against a dataset.
type Session struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	ReferenceDatasetID string `json:"reference_dataset_id,omitempty"`
}

// Run records one traced invocation of the target under evaluation.
type Run struct {
	ID                 string         `json:"id"`
	Name               string         `json:"name"`
	RunType            string         `json:"run_type"`
	Inputs             map[string]any `json:"inputs"`
	Outputs            map[string]any `json:"outputs,omitempty"`
	SessionID          string         `json:"session_id,omitempty"`
	SessionName        string         `json:"session_name,omitempty"`
	ReferenceExampleID string         `json:"reference_example_id,omitempty"`
	StartTime          time.Time      `json:"start_time"`
	EndTime            time.Time      `json:"end_time"`
	Extra              map[string]any `json:"extra,omitempty"`
}

// Feedback attaches an evaluator verdict to a run.
type Feedback struct {
	RunID   string  `json:"run_id"`
	Key     string  `json:"key"`
	Score   float64 `json:"score"`
	Comment string  `json:"comment,omitempty"`
}

// Client talks to one LangSmith endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a LangSmith client. An empty baseURL falls back to the
// public endpoint; a nil http.Client falls back to http.DefaultClient.
func NewClient(baseURL, apiKey string, c *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultEndpoint
	}
	if c == nil {
		c = http.DefaultClient
	}
	return &Client{
		httpClient: c,
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

// HasDataset reports whether a dataset with the given name exists.
func (c *Client) HasDataset(ctx context.Context, name string) (bool, error) {
	datasets, err := c.listDatasets(ctx, name)
	if err != nil {
		return false, err
	}
	return len(datasets) > 0, nil
}

// ReadDataset fetches a dataset by name.
func (c *Client) ReadDataset(ctx context.Context, name string) (*Dataset, error) {
	datasets, err := c.listDatasets(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(datasets) == 0 {
		return nil, fmt.Errorf("dataset %q not found", name)
	}
	return &datasets[0], nil
}

func (c *Client) listDatasets(ctx context.Context, name string) ([]Dataset, error) {
	query := url.Values{}
	query.Set("name", name)
	query.Set("limit", "1")

	var datasets []Dataset
	if err := c.do(ctx, http.MethodGet, "/datasets", query, nil, &datasets); err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	return datasets, nil
}

// CreateDataset creates a new named dataset.
func (c *Client) CreateDataset(ctx context.Context, name, description string) (*Dataset, error) {
	body := map[string]any{
		"name":        name,
		"description": description,
	}
	var dataset Dataset
	if err := c.do(ctx, http.MethodPost, "/datasets", nil, body, &dataset); err != nil {
		return nil, fmt.Errorf("failed to create dataset: %w", err)
	}
	return &dataset, nil
}

// ExamplePayload is one example to register in a dataset.
type ExamplePayload struct {
	DatasetID string         `json:"dataset_id"`
	Inputs    map[string]any `json:"inputs"`
	Outputs   map[string]any `json:"outputs"`
}

// CreateExamples bulk-registers examples into a dataset.
func (c *Client) CreateExamples(ctx context.Context, examples []ExamplePayload) ([]Example, error) {
	var created []Example
	if err := c.do(ctx, http.MethodPost, "/examples/bulk", nil, examples, &created); err != nil {
		return nil, fmt.Errorf("failed to create examples: %w", err)
	}
	return created, nil
}

// ListExamples returns every example in a dataset.
func (c *Client) ListExamples(ctx context.Context, datasetID string) ([]Example, error) {
	query := url.Values{}
	query.Set("dataset", datasetID)

	var examples []Example
	if err := c.do(ctx, http.MethodGet, "/examples", query, nil, &examples); err != nil {
		return nil, fmt.Errorf("failed to list examples: %w", err)
	}
	return examples, nil
}

// CreateSession creates an experiment session, optionally bound to a
// reference dataset.
func (c *Client) CreateSession(ctx context.Context, name, referenceDatasetID string, extra map[string]any) (*Session, error) {
	body := map[string]any{
		"name": name,
	}
	if referenceDatasetID != "" {
		body["reference_dataset_id"] = referenceDatasetID
	}
	if len(extra) > 0 {
		body["extra"] = extra
	}

	var session Session
	if err := c.do(ctx, http.MethodPost, "/sessions", nil, body, &session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &session, nil
}

// CreateRun records a run. The service replies asynchronously, so the
// response body is discarded.
func (c *Client) CreateRun(ctx context.Context, run Run) error {
	if err := c.do(ctx, http.MethodPost, "/runs", nil, run, nil); err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// CreateFeedback records an evaluator verdict against a run.
func (c *Client) CreateFeedback(ctx context.Context, feedback Feedback) error {
	if err := c.do(ctx, http.MethodPost, "/feedback", nil, feedback, nil); err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + apiBasePath + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error marshaling request: %w", err)
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Body: string(respBody)}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("error unmarshaling response: %w", err)
		}
	}
	return nil
}
