// Package usecases - query.go runs the question-answering pipeline:
// embed the question, retrieve neighbor snippets, assemble the prompt
// and invoke the generative model.
package usecases

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"lecturerag/internal/domain/entities"
	"lecturerag/internal/domain/ports"
)

// NoContextSentinel replaces the retrieved context when retrieval
// fails or finds nothing. The two cases are deliberately not
// distinguished in the response.
const NoContextSentinel = "No relevant context found via Vertex AI Vector Search."

// textRestrictNamespace is the restrict carrying the chunk snippet.
const textRestrictNamespace = "text"

// DefaultNeighborCount is the number of matches requested per query.
const DefaultNeighborCount = 4

// QueryUseCase handles retrieval and answer generation.
type QueryUseCase struct {
	embedder      ports.EmbeddingService
	index         ports.VectorIndex
	generator     ports.GenerativeService
	neighborCount int
}

// NewQueryUseCase creates a QueryUseCase with injected dependencies.
func NewQueryUseCase(
	embedder ports.EmbeddingService,
	index ports.VectorIndex,
	generator ports.GenerativeService,
	neighborCount int,
) *QueryUseCase {
	if neighborCount <= 0 {
		neighborCount = DefaultNeighborCount
	}
	return &QueryUseCase{
		embedder:      embedder,
		index:         index,
		generator:     generator,
		neighborCount: neighborCount,
	}
}

// Answer runs the full query pipeline. It never returns an error:
// retrieval failures degrade to the no-context sentinel and generation
// failures are normalized into descriptive answer strings, so the HTTP
// boundary always has a response to hand back.
func (uc *QueryUseCase) Answer(ctx context.Context, req *entities.ChatRequest) string {
	lectureContext, err := uc.retrieveContext(ctx, req.Prompt)
	if err != nil {
		log.Printf("[WARN] Retrieval degraded, answering without context: %v", err)
		lectureContext = NoContextSentinel
	}

	transcript := FormatHistory(req.History)
	genReq := AssemblePrompt(req.Prompt, lectureContext, transcript)

	answer, err := uc.generator.Generate(ctx, genReq)
	if err != nil {
		return normalizeGenerationFailure(err)
	}
	return answer
}

// retrieveContext embeds the question and joins the matched snippets.
// A query that legitimately matches nothing yields the sentinel with a
// nil error; only collaborator failures surface as errors.
func (uc *QueryUseCase) retrieveContext(ctx context.Context, question string) (string, error) {
	vector, err := uc.embedder.Embed(ctx, question)
	if err != nil {
		return "", &ports.EmbeddingError{Err: err}
	}
	if len(vector) == 0 {
		return "", &ports.EmbeddingError{Err: errors.New("response did not include an embedding vector")}
	}
	log.Printf("[INFO] Generated embedding length=%d", len(vector))

	snippets, err := uc.Search(ctx, vector)
	if err != nil {
		return "", err
	}
	if len(snippets) == 0 {
		return NoContextSentinel, nil
	}
	return strings.Join(snippets, "\n"), nil
}

// Search fetches the nearest neighbors for a query vector and extracts
// their text snippets in match order. Zero neighbors or neighbors
// without a text restrict yield an empty slice, not an error.
func (uc *QueryUseCase) Search(ctx context.Context, vector []float32) ([]string, error) {
	matches, err := uc.index.FindNeighbors(ctx, vector, uc.neighborCount)
	if err != nil {
		return nil, &ports.RetrievalError{Err: err}
	}

	var snippets []string
	for _, m := range matches {
		for _, r := range m.Datapoint.Restricts {
			if r.Namespace == textRestrictNamespace {
				snippets = append(snippets, r.AllowTokens...)
			}
		}
	}
	log.Printf("[INFO] Vector search returned %d text snippets", len(snippets))
	return snippets, nil
}

// normalizeGenerationFailure converts a generation error into the
// user-visible answer string. The prefixes are fixed so operators and
// tests can grep for degraded answers.
func normalizeGenerationFailure(err error) string {
	var genErr *ports.GenerationError
	if errors.As(err, &genErr) {
		switch genErr.Kind {
		case ports.GenerationNotConfigured:
			return "Error: GEMINI_API_KEY not configured."
		case ports.GenerationBadStatus:
			return fmt.Sprintf("Error: Received status %d\n%s", genErr.Status, genErr.Body)
		case ports.GenerationUnparsable:
			return "Error: Could not parse text from API response."
		case ports.GenerationConnection:
			return fmt.Sprintf("Connection Error: %v", genErr.Err)
		}
	}
	return fmt.Sprintf("Unexpected Error: %v", err)
}
