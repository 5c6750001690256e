package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// PredictRequest is the body sent to the model server.
type PredictRequest struct {
	Instances [][]float64 `json:"instances"`
}

// PredictResponse is the model server reply. Predictions is left undecoded
// beyond JSON so any shape the server returns can be rendered.
type PredictResponse struct {
	Predictions interface{} `json:"predictions"`
	Error       string      `json:"error,omitempty"`
}

// RemotePipeline calls an external model server over HTTP.
type RemotePipeline struct {
	baseURL    string
	httpClient *http.Client
}

func NewRemotePipeline(baseURL string, timeout time.Duration) *RemotePipeline {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RemotePipeline{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *RemotePipeline) Predict(ctx context.Context, data [][]float64) (interface{}, error) {
	body, err := json.Marshal(PredictRequest{Instances: data})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		if err != nil || len(respBody) == 0 {
			return nil, fmt.Errorf("model server returned status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("model server returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var result PredictResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if result.Error != "" {
		return nil, fmt.Errorf("model server error: %s", result.Error)
	}
	if result.Predictions == nil {
		return nil, errors.New("model server returned no predictions")
	}
	return result.Predictions, nil
}

// Health checks the model server.
func (c *RemotePipeline) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("model server not healthy: status %d", resp.StatusCode)
	}
	return nil
}
