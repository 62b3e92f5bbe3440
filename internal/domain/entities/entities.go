// Package entities contains core business entities.
// These are the enterprise business rules - pure domain objects with no external dependencies.
package entities

// Document represents a lecture document fetched from object storage.
// Lifecycle: downloaded once, chunked, then the local copy is discarded.
type Document struct {
	Bucket string
	Name   string
	Text   string
}

// Chunk is a bounded-size segment of extracted document text,
// the unit of embedding and indexing.
type Chunk struct {
	SourceID string
	Index    int // 0-based position within the document
	Text     string
}

// Restrict is a named attribute attached to an index datapoint.
// The "text" namespace carries the retrievable snippet, "source_file"
// the originating document name.
type Restrict struct {
	Namespace   string
	AllowTokens []string
}

// Datapoint is one record in the vector index. Written once, never
// mutated; the ID is stable so re-ingesting the same document
// overwrites prior records instead of duplicating them.
type Datapoint struct {
	ID        string
	Vector    []float32
	Restricts []Restrict
}

// NeighborMatch is one nearest-neighbor result, ranked by return order.
type NeighborMatch struct {
	Datapoint Datapoint
	Distance  float64
}

// ChatMessage represents a single conversation turn supplied by the
// caller. History lives exactly one request; nothing is persisted.
type ChatMessage struct {
	Role string // "user" or "assistant"
	Text string
}

// ChatRequest is a user question with optional conversation history.
type ChatRequest struct {
	Prompt  string
	History []ChatMessage
}

// GenerationRequest is the fully assembled input for the generative
// model. The system instruction is carried separately from the content
// body and must reach the model unmodified.
type GenerationRequest struct {
	SystemInstruction string
	Contents          string
}

// IngestSummary reports the best-effort outcome of one ingestion run.
// Served as-is by the manual ingestion endpoint.
type IngestSummary struct {
	Source        string `json:"source"`
	Chunked       int    `json:"chunked"`
	Embedded      int    `json:"embedded"`
	Skipped       int    `json:"skipped"` // chunks dropped because embedding failed
	Upserted      int    `json:"upserted"`
	FailedBatches []int  `json:"failed_batches,omitempty"` // 1-based batch numbers
}
