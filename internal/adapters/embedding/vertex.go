// Package embedding provides embedding-model adapters.
// These implement ports.EmbeddingService; the domain layer does not
// know which model is behind the interface.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// VertexAdapter calls the Vertex AI prediction API for text embeddings.
type VertexAdapter struct {
	endpoint string
	tokens   oauth2.TokenSource
	client   *http.Client
}

// NewVertexAdapter creates a Vertex embedding adapter for the given
// project, location and publisher model. baseURL overrides the regional
// API host; leave it empty outside tests.
func NewVertexAdapter(project, location, model, baseURL string, tokens oauth2.TokenSource, timeout time.Duration) *VertexAdapter {
	if model == "" {
		model = "text-embedding-005"
	}
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s-aiplatform.googleapis.com", location)
	}
	endpoint := fmt.Sprintf("%s/v1/projects/%s/locations/%s/publishers/google/models/%s:predict",
		baseURL, project, location, model)
	return &VertexAdapter{
		endpoint: endpoint,
		tokens:   tokens,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// vertexPredictRequest is the prediction API request format.
type vertexPredictRequest struct {
	Instances []vertexInstance `json:"instances"`
}

type vertexInstance struct {
	Content string `json:"content"`
}

// vertexPredictResponse is the prediction API response format.
type vertexPredictResponse struct {
	Predictions []vertexPrediction `json:"predictions"`
}

type vertexPrediction struct {
	Embeddings vertexEmbeddings `json:"embeddings"`
}

type vertexEmbeddings struct {
	Values []float32 `json:"values"`
}

// Embed generates an embedding for a single text.
func (a *VertexAdapter) Embed(ctx context.Context, text string) ([]float32, error) {
	reqBody := vertexPredictRequest{
		Instances: []vertexInstance{{Content: text}},
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", a.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	token, err := a.tokens.Token()
	if err != nil {
		return nil, fmt.Errorf("fetching access token: %w", err)
	}
	token.SetAuthHeader(req)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling Vertex AI: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Vertex AI returned status %d", resp.StatusCode)
	}

	var predictResp vertexPredictResponse
	if err := json.NewDecoder(resp.Body).Decode(&predictResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if len(predictResp.Predictions) == 0 {
		return nil, fmt.Errorf("response contained no predictions")
	}
	values := predictResp.Predictions[0].Embeddings.Values
	if len(values) == 0 {
		return nil, fmt.Errorf("response did not include an embedding vector")
	}
	return values, nil
}
