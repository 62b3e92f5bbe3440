package usecases

import (
	"context"
	"os"
	"path/filepath"

	"lecturerag/internal/domain/entities"
)

// mockEmbedder returns a canned vector, or fails on selected calls.
type mockEmbedder struct {
	vector []float32
	err    error
	failOn map[int]error // 0-based call number -> error
	calls  int
	inputs []string
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	call := m.calls
	m.calls++
	m.inputs = append(m.inputs, text)
	if err, ok := m.failOn[call]; ok {
		return nil, err
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.vector, nil
}

// mockIndex records upserts and serves canned neighbor matches.
type mockIndex struct {
	matches      []entities.NeighborMatch
	findErr      error
	upsertErr    error
	upsertFailOn map[int]error // 0-based upsert call number -> error
	upserts      [][]entities.Datapoint
	lastVector   []float32
	lastCount    int
}

func (m *mockIndex) Upsert(ctx context.Context, datapoints []entities.Datapoint) error {
	call := len(m.upserts)
	m.upserts = append(m.upserts, datapoints)
	if err, ok := m.upsertFailOn[call]; ok {
		return err
	}
	return m.upsertErr
}

func (m *mockIndex) FindNeighbors(ctx context.Context, vector []float32, neighborCount int) ([]entities.NeighborMatch, error) {
	m.lastVector = vector
	m.lastCount = neighborCount
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.matches, nil
}

// mockGenerator captures the request it was handed.
type mockGenerator struct {
	response string
	err      error
	lastReq  entities.GenerationRequest
	calls    int
}

func (m *mockGenerator) Generate(ctx context.Context, req entities.GenerationRequest) (string, error) {
	m.calls++
	m.lastReq = req
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

// mockStore writes canned content to the destination path.
type mockStore struct {
	content string
	err     error
	bucket  string
	name    string
	deleted []string
}

func (m *mockStore) Download(ctx context.Context, bucket, name, dest string) error {
	m.bucket = bucket
	m.name = name
	if m.err != nil {
		return m.err
	}
	return os.WriteFile(dest, []byte(m.content), 0o644)
}

func (m *mockStore) Delete(ctx context.Context, bucket, name string) error {
	m.deleted = append(m.deleted, bucket+"/"+name)
	return nil
}

// mockExtractor returns canned text for any path.
type mockExtractor struct {
	text     string
	err      error
	lastPath string
}

func (m *mockExtractor) Extract(ctx context.Context, path string) (string, error) {
	m.lastPath = path
	if m.err != nil {
		return "", m.err
	}
	return m.text, nil
}

// textMatch builds a neighbor match carrying a text snippet, the shape
// the index returns for indexed chunks.
func textMatch(id, snippet string) entities.NeighborMatch {
	return entities.NeighborMatch{
		Datapoint: entities.Datapoint{
			ID: id,
			Restricts: []entities.Restrict{
				{Namespace: "source_file", AllowTokens: []string{filepath.Base(id)}},
				{Namespace: "text", AllowTokens: []string{snippet}},
			},
		},
	}
}
