// Package vectorindex - memory.go is an in-memory index for tests and
// throwaway runs. Same brute-force cosine search as the SQLite index,
// no persistence.
package vectorindex

import (
	"context"
	"sort"
	"sync"

	"lecturerag/internal/domain/entities"
)

// InMemoryIndex implements ports.VectorIndex in memory.
type InMemoryIndex struct {
	mu         sync.RWMutex
	datapoints map[string]entities.Datapoint
}

// NewInMemoryIndex creates an empty in-memory index.
func NewInMemoryIndex() *InMemoryIndex {
	return &InMemoryIndex{
		datapoints: make(map[string]entities.Datapoint),
	}
}

// Upsert stores datapoints keyed by ID, overwriting existing records.
func (s *InMemoryIndex) Upsert(ctx context.Context, datapoints []entities.Datapoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, dp := range datapoints {
		s.datapoints[dp.ID] = dp
	}
	return nil
}

// FindNeighbors returns the neighborCount most similar datapoints.
func (s *InMemoryIndex) FindNeighbors(ctx context.Context, vector []float32, neighborCount int) ([]entities.NeighborMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]entities.NeighborMatch, 0, len(s.datapoints))
	for _, dp := range s.datapoints {
		score := cosineSimilarity(vector, dp.Vector)
		matches = append(matches, entities.NeighborMatch{
			Datapoint: dp,
			Distance:  1 - score,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})
	if len(matches) > neighborCount {
		matches = matches[:neighborCount]
	}
	return matches, nil
}

// Count returns the number of stored datapoints.
func (s *InMemoryIndex) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.datapoints)
}
