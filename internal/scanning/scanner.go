// Package scanning defines the malware scanning collaborator boundary and an
// HTTP client for an external scan daemon.
package scanning

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mateo/quotient/internal/types"
)

// Scanner checks an uploaded file for threats. The call is synchronous; an
// infected verdict is returned as data, and an error means the scan itself
// could not run.
type Scanner interface {
	ScanFile(ctx context.Context, path, mimeType string) (*types.ScanVerdict, error)
}

// HTTPScanner calls an external scan daemon over JSON/HTTP.
type HTTPScanner struct {
	baseURL string
	client  *http.Client
}

// NewHTTPScanner creates a scanner client for the daemon at baseURL. No
// client timeout is set here; cancellation is governed by the caller's
// context.
func NewHTTPScanner(baseURL string) *HTTPScanner {
	return &HTTPScanner{
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

// scanRequest is the wire request to the scan daemon.
type scanRequest struct {
	Path     string `json:"path"`
	MimeType string `json:"mime_type"`
}

// scanResponse is the daemon's wire response.
type scanResponse struct {
	Clean   bool     `json:"clean"`
	Threats []string `json:"threats"`
}

// ScanFile submits the stored file path and declared MIME type to the
// daemon and returns its verdict.
func (s *HTTPScanner) ScanFile(ctx context.Context, path, mimeType string) (*types.ScanVerdict, error) {
	body, err := json.Marshal(scanRequest{Path: path, MimeType: mimeType})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scan request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/scan", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build scan request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scan service call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scan service error: %d", resp.StatusCode)
	}

	var wire scanResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("failed to decode scan response: %w", err)
	}

	return &types.ScanVerdict{
		Clean:     wire.Clean,
		Threats:   wire.Threats,
		ScannedAt: time.Now().UTC(),
	}, nil
}
