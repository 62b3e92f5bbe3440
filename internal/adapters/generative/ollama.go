// Package generative - ollama.go is the local-mode adapter: Ollama's
// generate API stands in for Gemini during offline development. The
// system instruction maps onto Ollama's "system" field, keeping it
// separate from the prompt body.
package generative

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"lecturerag/internal/domain/entities"
	"lecturerag/internal/domain/ports"
)

// OllamaAdapter implements ports.GenerativeService using the Ollama API.
type OllamaAdapter struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllamaAdapter creates a new Ollama generative adapter.
func NewOllamaAdapter(baseURL, model string, timeout time.Duration) *OllamaAdapter {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3.2"
	}
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &OllamaAdapter{
		baseURL: baseURL,
		model:   model,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// ollamaGenerateRequest is the Ollama generate API request.
type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	System string `json:"system,omitempty"`
	Stream bool   `json:"stream"`
}

// ollamaGenerateResponse is the Ollama generate API response.
type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Generate produces a response for the assembled request.
func (a *OllamaAdapter) Generate(ctx context.Context, genReq entities.GenerationRequest) (string, error) {
	reqBody := ollamaGenerateRequest{
		Model:  a.model,
		Prompt: genReq.Contents,
		System: genReq.SystemInstruction,
		Stream: false,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", &ports.GenerationError{Kind: ports.GenerationUnparsable, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", a.baseURL+"/api/generate", bytes.NewReader(jsonData))
	if err != nil {
		return "", &ports.GenerationError{Kind: ports.GenerationConnection, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", &ports.GenerationError{Kind: ports.GenerationConnection, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", &ports.GenerationError{
			Kind:   ports.GenerationBadStatus,
			Status: resp.StatusCode,
			Body:   string(body),
		}
	}

	var genResp ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", &ports.GenerationError{Kind: ports.GenerationUnparsable, Err: err}
	}

	if genResp.Response == "" {
		return "", &ports.GenerationError{Kind: ports.GenerationUnparsable}
	}
	return genResp.Response, nil
}
