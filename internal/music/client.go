package music

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// generateTimeout bounds one remote provider call
const generateTimeout = 60 * time.Second

// apiClient issues authenticated JSON requests to a provider endpoint
type apiClient struct {
	httpClient *http.Client
	apiKey     string
}

func newAPIClient(apiKey string) *apiClient {
	return &apiClient{
		httpClient: &http.Client{Timeout: generateTimeout},
		apiKey:     apiKey,
	}
}

// postJSON sends the payload and returns the raw response body.
// Non-2xx responses are returned as errors so adapters can route them
// through their fallback branch.
func (c *apiClient) postJSON(ctx context.Context, url string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return respBody, nil
}
