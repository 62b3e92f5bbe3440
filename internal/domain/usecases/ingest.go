// Package usecases - ingest.go turns an uploaded document into indexed
// datapoints: download, extract, chunk, embed per chunk, batch upsert.
package usecases

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"lecturerag/internal/domain/entities"
	"lecturerag/internal/domain/ports"
)

const (
	// documentExtension is the only upload type that gets processed.
	documentExtension = ".pdf"

	// upsertBatchSize is the number of datapoints per upsert call.
	upsertBatchSize = 100

	// textRestrictLimit caps the stored text snippet. Index attribute
	// values are size-limited, so retrieved context is lossy for
	// chunks longer than this.
	textRestrictLimit = 1000
)

// IngestUseCase handles document ingestion into the vector index.
// Ingestion is best-effort: a failed chunk or batch is logged and
// skipped, never retried, and never aborts the rest of the run.
type IngestUseCase struct {
	store         ports.ObjectStore
	extractor     ports.TextExtractor
	embedder      ports.EmbeddingService
	index         ports.VectorIndex
	maxChunkChars int
	tmpDir        string
	drainSource   bool
}

// NewIngestUseCase creates an IngestUseCase with injected dependencies.
// An empty tmpDir falls back to the system temp directory.
func NewIngestUseCase(
	store ports.ObjectStore,
	extractor ports.TextExtractor,
	embedder ports.EmbeddingService,
	index ports.VectorIndex,
	maxChunkChars int,
	tmpDir string,
) *IngestUseCase {
	if maxChunkChars <= 0 {
		maxChunkChars = DefaultMaxChunkChars
	}
	if tmpDir == "" {
		tmpDir = os.TempDir()
	}
	return &IngestUseCase{
		store:         store,
		extractor:     extractor,
		embedder:      embedder,
		index:         index,
		maxChunkChars: maxChunkChars,
		tmpDir:        tmpDir,
	}
}

// DrainSource enables deleting the uploaded object after a successful
// ingestion run, for deployments that treat the bucket as a queue.
func (uc *IngestUseCase) DrainSource(enable bool) {
	uc.drainSource = enable
}

// ProcessObject ingests one uploaded object. Uploads without the
// document extension are a logged no-op. The local copy is removed on
// every exit path.
func (uc *IngestUseCase) ProcessObject(ctx context.Context, event ports.ObjectEvent) (*entities.IngestSummary, error) {
	log.Printf("[INFO] Processing %s from bucket %s", event.Name, event.Bucket)

	base := filepath.Base(event.Name)
	summary := &entities.IngestSummary{Source: base}

	if !strings.HasSuffix(strings.ToLower(event.Name), documentExtension) {
		log.Printf("[INFO] %s is not a %s upload, skipping", event.Name, documentExtension)
		return summary, nil
	}

	localPath := filepath.Join(uc.tmpDir, base)
	if err := uc.store.Download(ctx, event.Bucket, event.Name, localPath); err != nil {
		return nil, fmt.Errorf("downloading %s: %w", event.Name, err)
	}
	defer func() {
		if err := os.Remove(localPath); err != nil {
			log.Printf("[WARN] Cleanup failed for %s: %v", localPath, err)
		}
	}()

	text, err := uc.extractor.Extract(ctx, localPath)
	if err != nil {
		return nil, fmt.Errorf("extracting text from %s: %w", base, err)
	}

	chunks := SplitChunks(text, uc.maxChunkChars)
	summary.Chunked = len(chunks)
	log.Printf("[INFO] Chunked %s into %d segments", base, len(chunks))

	datapoints := uc.embedChunks(ctx, base, chunks, summary)
	if len(datapoints) == 0 {
		log.Printf("[WARN] No datapoints generated for %s, skipping upsert", base)
		return summary, nil
	}

	uc.upsertBatches(ctx, datapoints, summary)
	log.Printf("[INFO] Ingestion of %s complete: %d upserted, %d skipped, %d failed batches",
		base, summary.Upserted, summary.Skipped, len(summary.FailedBatches))

	if uc.drainSource && len(summary.FailedBatches) == 0 {
		if err := uc.store.Delete(ctx, event.Bucket, event.Name); err != nil {
			log.Printf("[WARN] Draining source object failed: %v", err)
		}
	}
	return summary, nil
}

// embedChunks embeds each chunk and assembles datapoints. A chunk
// whose embedding fails is logged and skipped; the rest continue.
func (uc *IngestUseCase) embedChunks(ctx context.Context, sourceFile string, chunks []string, summary *entities.IngestSummary) []entities.Datapoint {
	datapoints := make([]entities.Datapoint, 0, len(chunks))
	for i, chunk := range chunks {
		vector, err := uc.embedder.Embed(ctx, chunk)
		if err == nil && len(vector) == 0 {
			err = fmt.Errorf("response did not include an embedding vector")
		}
		if err != nil {
			embErr := &ports.EmbeddingError{Err: err}
			log.Printf("[ERROR] Embedding failed for chunk %d of %s: %v", i, sourceFile, embErr)
			summary.Skipped++
			continue
		}
		datapoints = append(datapoints, BuildDatapoint(sourceFile, i, chunk, vector))
		summary.Embedded++
	}
	return datapoints
}

// upsertBatches writes datapoints in fixed-size batches, sequentially.
// Upsert is not transactional: a failed batch is recorded and the
// remaining batches are still attempted.
func (uc *IngestUseCase) upsertBatches(ctx context.Context, datapoints []entities.Datapoint, summary *entities.IngestSummary) {
	for start := 0; start < len(datapoints); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(datapoints) {
			end = len(datapoints)
		}
		batch := datapoints[start:end]
		batchNum := start/upsertBatchSize + 1

		log.Printf("[INFO] Upserting batch %d (%d datapoints)", batchNum, len(batch))
		if err := uc.index.Upsert(ctx, batch); err != nil {
			upErr := &ports.UpsertError{Batch: batchNum, Err: err}
			log.Printf("[ERROR] %v", upErr)
			summary.FailedBatches = append(summary.FailedBatches, batchNum)
			continue
		}
		summary.Upserted += len(batch)
	}
}

// BuildDatapoint assembles one index record. IDs are derived from the
// source file and chunk position so re-ingesting an unchanged document
// overwrites the same records.
func BuildDatapoint(sourceFile string, index int, text string, vector []float32) entities.Datapoint {
	snippet := text
	if len(snippet) > textRestrictLimit {
		snippet = snippet[:textRestrictLimit]
	}
	return entities.Datapoint{
		ID:     fmt.Sprintf("%s-chunk-%d", sourceFile, index),
		Vector: vector,
		Restricts: []entities.Restrict{
			{Namespace: "source_file", AllowTokens: []string{sourceFile}},
			{Namespace: textRestrictNamespace, AllowTokens: []string{snippet}},
		},
	}
}
