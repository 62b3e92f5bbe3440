// Package generative provides generative-model adapters implementing
// ports.GenerativeService. Failures are classified into
// ports.GenerationError kinds so the query pipeline can normalize them
// into fixed answer strings.
package generative

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"lecturerag/internal/domain/entities"
	"lecturerag/internal/domain/ports"
)

// GeminiAdapter calls the Gemini generateContent API, non-streaming.
// The system instruction travels in its own payload field, never
// merged into the content body.
type GeminiAdapter struct {
	baseURL string
	model   string
	apiKey  string
	client  *http.Client
}

// NewGeminiAdapter creates a Gemini adapter. baseURL overrides the API
// host; leave it empty outside tests.
func NewGeminiAdapter(baseURL, model, apiKey string, timeout time.Duration) *GeminiAdapter {
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &GeminiAdapter{
		baseURL: baseURL,
		model:   model,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// geminiPart is one text fragment in a content block.
type geminiPart struct {
	Text string `json:"text"`
}

// geminiContent is a block of parts, used for both the content body
// and the system instruction.
type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

// generateContentRequest is the generateContent API request format.
type generateContentRequest struct {
	Contents          []geminiContent `json:"contents"`
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
}

// generateContentResponse is the generateContent API response format.
type generateContentResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

// Generate dispatches the assembled request as a single non-streaming
// call and returns the model's text.
func (a *GeminiAdapter) Generate(ctx context.Context, genReq entities.GenerationRequest) (string, error) {
	if a.apiKey == "" {
		return "", &ports.GenerationError{Kind: ports.GenerationNotConfigured}
	}

	payload := generateContentRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: genReq.Contents}}},
		},
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: genReq.SystemInstruction}},
		},
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", &ports.GenerationError{Kind: ports.GenerationUnparsable, Err: err}
	}
	log.Printf("[DEBUG] Gemini payload: %s", jsonData)

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", a.baseURL, a.model, a.apiKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonData))
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

	var genResp generateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", &ports.GenerationError{Kind: ports.GenerationUnparsable, Err: err}
	}

	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return "", &ports.GenerationError{Kind: ports.GenerationUnparsable}
	}
	text := genResp.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", &ports.GenerationError{Kind: ports.GenerationUnparsable}
	}
	return text, nil
}
