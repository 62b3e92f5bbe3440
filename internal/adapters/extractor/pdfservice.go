// Package extractor provides text extraction adapters implementing
// ports.TextExtractor. PDF extraction happens in an external service;
// this adapter only ships bytes and receives text.
package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// PDFServiceExtractor extracts PDF text via the extraction HTTP service.
type PDFServiceExtractor struct {
	serviceURL string
	client     *http.Client
}

// NewPDFServiceExtractor creates an extractor client.
func NewPDFServiceExtractor(serviceURL string, timeout time.Duration) *PDFServiceExtractor {
	if serviceURL == "" {
		serviceURL = "http://localhost:8081"
	}
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &PDFServiceExtractor{
		serviceURL: serviceURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// extractResponse is the extraction service response format.
type extractResponse struct {
	Text  string `json:"text"`
	Pages int    `json:"pages"`
	Error string `json:"error,omitempty"`
}

// Extract reads the document at path and returns its extracted text.
func (e *PDFServiceExtractor) Extract(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", e.serviceURL+"/parse", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling extraction service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	var result extractResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if result.Error != "" {
		return "", fmt.Errorf("extraction error: %s", result.Error)
	}
	return result.Text, nil
}

// IsServiceHealthy checks whether the extraction service is reachable.
func (e *PDFServiceExtractor) IsServiceHealthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, "GET", e.serviceURL+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}
