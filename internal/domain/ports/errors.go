package ports

import "fmt"

// EmbeddingError means the embedding collaborator errored or returned
// an unusable vector. Fatal for the single unit of work only: one
// chunk during ingestion, the whole retrieval during a query.
type EmbeddingError struct {
	Err error
}

func (e *EmbeddingError) Error() string { return fmt.Sprintf("embedding generation failed: %v", e.Err) }
func (e *EmbeddingError) Unwrap() error { return e.Err }

// RetrievalError means the vector index call itself failed. Callers
// substitute the no-context sentinel instead of aborting the request.
type RetrievalError struct {
	Err error
}

func (e *RetrievalError) Error() string { return fmt.Sprintf("vector search failed: %v", e.Err) }
func (e *RetrievalError) Unwrap() error { return e.Err }

// GenerationErrorKind classifies generative-model failures so they can
// be normalized into fixed, greppable answer prefixes.
type GenerationErrorKind int

const (
	// GenerationNotConfigured: missing credentials, nothing was sent.
	GenerationNotConfigured GenerationErrorKind = iota
	// GenerationBadStatus: the model API answered with a non-200 status.
	GenerationBadStatus
	// GenerationUnparsable: the response carried no extractable text.
	GenerationUnparsable
	// GenerationConnection: transport failure, including timeouts.
	GenerationConnection
)

// GenerationError is a classified generative-model failure.
type GenerationError struct {
	Kind   GenerationErrorKind
	Status int    // HTTP status for GenerationBadStatus
	Body   string // response body for GenerationBadStatus
	Err    error
}

func (e *GenerationError) Error() string {
	switch e.Kind {
	case GenerationNotConfigured:
		return "generation failed: API key not configured"
	case GenerationBadStatus:
		return fmt.Sprintf("generation failed: received status %d", e.Status)
	case GenerationUnparsable:
		return "generation failed: could not parse text from API response"
	default:
		return fmt.Sprintf("generation failed: %v", e.Err)
	}
}

func (e *GenerationError) Unwrap() error { return e.Err }

// UpsertError means one batch upsert failed during ingestion. Remaining
// batches are still attempted; ingestion stays best-effort.
type UpsertError struct {
	Batch int // 1-based batch number
	Err   error
}

func (e *UpsertError) Error() string { return fmt.Sprintf("upsert failed for batch %d: %v", e.Batch, e.Err) }
func (e *UpsertError) Unwrap() error { return e.Err }
