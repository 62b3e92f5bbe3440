// Package vectorindex provides vector index adapters implementing
// ports.VectorIndex. The Vertex adapter talks to a deployed Vector
// Search index; the SQLite and memory adapters back local development.
package vectorindex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"lecturerag/internal/domain/entities"
)

// VertexConfig holds the identifiers of a deployed Vector Search index.
// IndexEndpoint and Index may be bare IDs; they are expanded to full
// resource names.
type VertexConfig struct {
	Project       string
	Location      string
	IndexEndpoint string // queried at find-neighbors time
	DeployedIndex string
	Index         string // written at upsert time
	BaseURL       string // overrides the regional API host in tests
	Timeout       time.Duration
}

// VertexIndex is a REST client for Vertex AI Vector Search.
type VertexIndex struct {
	baseURL       string
	endpointName  string
	deployedIndex string
	indexName     string
	tokens        oauth2.TokenSource
	client        *http.Client
}

// NewVertexIndex creates a Vector Search adapter.
func NewVertexIndex(cfg VertexConfig, tokens oauth2.TokenSource) *VertexIndex {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s-aiplatform.googleapis.com", cfg.Location)
	}
	return &VertexIndex{
		baseURL:       baseURL,
		endpointName:  resourceName(cfg.Project, cfg.Location, "indexEndpoints", cfg.IndexEndpoint),
		deployedIndex: cfg.DeployedIndex,
		indexName:     resourceName(cfg.Project, cfg.Location, "indexes", cfg.Index),
		tokens:        tokens,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// resourceName expands a bare identifier to a full resource name.
// Identifiers already in projects/... form pass through unchanged.
func resourceName(project, location, collection, id string) string {
	if strings.HasPrefix(id, "projects/") {
		return id
	}
	return fmt.Sprintf("projects/%s/locations/%s/%s/%s", project, location, collection, id)
}

// restrictPayload is the wire form of a datapoint restrict.
type restrictPayload struct {
	Namespace string   `json:"namespace"`
	AllowList []string `json:"allowList,omitempty"`
}

// datapointPayload is the wire form of an index datapoint.
type datapointPayload struct {
	DatapointID   string            `json:"datapointId"`
	FeatureVector []float32         `json:"featureVector,omitempty"`
	Restricts     []restrictPayload `json:"restricts,omitempty"`
}

// upsertDatapointsRequest is the upsertDatapoints API request format.
type upsertDatapointsRequest struct {
	Datapoints []datapointPayload `json:"datapoints"`
}

// findNeighborsRequest is the findNeighbors API request format.
type findNeighborsRequest struct {
	DeployedIndexID     string          `json:"deployedIndexId"`
	Queries             []neighborQuery `json:"queries"`
	ReturnFullDatapoint bool            `json:"returnFullDatapoint"`
}

type neighborQuery struct {
	Datapoint     queryDatapoint `json:"datapoint"`
	NeighborCount int            `json:"neighborCount"`
}

type queryDatapoint struct {
	FeatureVector []float32 `json:"featureVector"`
}

// findNeighborsResponse is the findNeighbors API response format.
type findNeighborsResponse struct {
	NearestNeighbors []nearestNeighbors `json:"nearestNeighbors"`
}

type nearestNeighbors struct {
	Neighbors []neighborPayload `json:"neighbors"`
}

type neighborPayload struct {
	Datapoint datapointPayload `json:"datapoint"`
	Distance  float64          `json:"distance"`
}

// Upsert writes one batch of datapoints. Records are keyed by
// datapoint ID, so repeating an upsert overwrites instead of
// duplicating.
func (v *VertexIndex) Upsert(ctx context.Context, datapoints []entities.Datapoint) error {
	payload := upsertDatapointsRequest{
		Datapoints: make([]datapointPayload, len(datapoints)),
	}
	for i, dp := range datapoints {
		payload.Datapoints[i] = toPayload(dp)
	}

	url := fmt.Sprintf("%s/v1/%s:upsertDatapoints", v.baseURL, v.indexName)
	if err := v.postJSON(ctx, url, payload, nil); err != nil {
		return fmt.Errorf("upserting datapoints: %w", err)
	}
	return nil
}

// FindNeighbors issues one nearest-neighbor query with full datapoint
// payloads and maps the first query's matches in return order.
func (v *VertexIndex) FindNeighbors(ctx context.Context, vector []float32, neighborCount int) ([]entities.NeighborMatch, error) {
	payload := findNeighborsRequest{
		DeployedIndexID: v.deployedIndex,
		Queries: []neighborQuery{
			{
				Datapoint:     queryDatapoint{FeatureVector: vector},
				NeighborCount: neighborCount,
			},
		},
		ReturnFullDatapoint: true,
	}

	var resp findNeighborsResponse
	url := fmt.Sprintf("%s/v1/%s:findNeighbors", v.baseURL, v.endpointName)
	if err := v.postJSON(ctx, url, payload, &resp); err != nil {
		return nil, fmt.Errorf("finding neighbors: %w", err)
	}

	if len(resp.NearestNeighbors) == 0 {
		return nil, nil
	}
	neighbors := resp.NearestNeighbors[0].Neighbors
	matches := make([]entities.NeighborMatch, 0, len(neighbors))
	for _, n := range neighbors {
		matches = append(matches, entities.NeighborMatch{
			Datapoint: fromPayload(n.Datapoint),
			Distance:  n.Distance,
		})
	}
	return matches, nil
}

func (v *VertexIndex) postJSON(ctx context.Context, url string, body, out any) error {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	token, err := v.tokens.Token()
	if err != nil {
		return fmt.Errorf("fetching access token: %w", err)
	}
	token.SetAuthHeader(req)

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling Vector Search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Vector Search returned status %d", resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

func toPayload(dp entities.Datapoint) datapointPayload {
	restricts := make([]restrictPayload, len(dp.Restricts))
	for i, r := range dp.Restricts {
		restricts[i] = restrictPayload{Namespace: r.Namespace, AllowList: r.AllowTokens}
	}
	return datapointPayload{
		DatapointID:   dp.ID,
		FeatureVector: dp.Vector,
		Restricts:     restricts,
	}
}

func fromPayload(p datapointPayload) entities.Datapoint {
	restricts := make([]entities.Restrict, len(p.Restricts))
	for i, r := range p.Restricts {
		restricts[i] = entities.Restrict{Namespace: r.Namespace, AllowTokens: r.AllowList}
	}
	return entities.Datapoint{
		ID:        p.DatapointID,
		Vector:    p.FeatureVector,
		Restricts: restricts,
	}
}
