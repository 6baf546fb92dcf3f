// Package mcptool exposes a subset of the construct-api endpoints as MCP
// tools. The adapter is a pure translation layer: every tool performs
// exactly one HTTP call against the API and relays the JSON response.
package mcptool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/buildledger/construct-api/pkg/logger"
	"go.uber.org/zap"
)

// APIClient performs authenticated calls against the construct-api
type APIClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewAPIClient creates a client for the given API base URL and bearer token
func NewAPIClient(baseURL, token string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Call issues one HTTP request and returns the raw response body. Non-2xx
// responses are returned as errors carrying the API's error payload.
func (a *APIClient) Call(ctx context.Context, method, path string, query url.Values, body interface{}) (string, error) {
	endpoint := a.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return "", fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	log := logger.FromContext(ctx)
	resp, err := a.httpClient.Do(req)
	if err != nil {
		log.Error("API call failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return "", fmt.Errorf("calling %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	log.Debug("API call completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode))

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("API returned %d: %s", resp.StatusCode, string(payload))
	}

	return string(payload), nil
}
