// Package ports defines interfaces for external dependencies.
// Usecases depend on these abstractions, not concrete implementations.
// Adapters implement these interfaces.
package ports

import (
	"context"

	"lecturerag/internal/domain/entities"
)

// EmbeddingService converts text into a fixed-dimension vector.
// Used both for corpus chunks during ingestion and for live queries.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)
}

// VectorIndex is the nearest-neighbor service holding embedded chunks.
type VectorIndex interface {
	// Upsert writes datapoints keyed by their stable IDs.
	// Re-upserting an existing ID overwrites the record.
	Upsert(ctx context.Context, datapoints []entities.Datapoint) error

	// FindNeighbors returns up to neighborCount matches for the query
	// vector, best first, with full datapoint payloads.
	FindNeighbors(ctx context.Context, vector []float32, neighborCount int) ([]entities.NeighborMatch, error)
}

// GenerativeService produces free text from an assembled request.
// The system instruction must be passed to the model as a field
// distinct from the content body.
type GenerativeService interface {
	Generate(ctx context.Context, req entities.GenerationRequest) (string, error)
}

// ObjectStore reads raw uploaded documents.
type ObjectStore interface {
	// Download copies the object bucket/name to the local path dest.
	Download(ctx context.Context, bucket, name, dest string) error

	// Delete removes the object from the store. Used only when the
	// deployment drains its upload bucket after ingestion.
	Delete(ctx context.Context, bucket, name string) error
}

// TextExtractor turns a downloaded document into raw text.
// Extraction itself happens in an external collaborator.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// ObjectEvent identifies an uploaded object to ingest.
type ObjectEvent struct {
	Bucket string
	Name   string
}

// FileWatcher monitors an upload directory and emits one ObjectEvent
// per new document. Local stand-in for bucket notifications.
type FileWatcher interface {
	// Watch starts monitoring the directory and emits events.
	Watch(ctx context.Context, dir string) (<-chan ObjectEvent, error)

	// Stop stops the watcher.
	Stop() error
}
