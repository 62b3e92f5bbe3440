// Package vectorindex - sqlite.go is a persistent local index backed
// by SQLite. Search is brute-force cosine similarity over the stored
// vectors, which is plenty for a single lecturer's corpus.
package vectorindex

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"lecturerag/internal/domain/entities"
)

// SQLiteIndex implements ports.VectorIndex with SQLite persistence.
type SQLiteIndex struct {
	mu sync.RWMutex
	db *sql.DB
}

// NewSQLiteIndex creates or opens a local datapoint index under dataPath.
func NewSQLiteIndex(dataPath string) (*SQLiteIndex, error) {
	if dataPath == "" {
		dataPath = "./data"
	}

	if err := os.MkdirAll(dataPath, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataPath, "datapoints.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	idx := &SQLiteIndex{db: db}
	if err := idx.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return idx, nil
}

// initSchema creates the necessary tables.
func (s *SQLiteIndex) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS datapoints (
		id TEXT PRIMARY KEY,
		vector BLOB NOT NULL,
		restricts BLOB NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Upsert writes datapoints keyed by ID. INSERT OR REPLACE keeps
// re-ingestion idempotent.
func (s *SQLiteIndex) Upsert(ctx context.Context, datapoints []entities.Datapoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO datapoints (id, vector, restricts)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, dp := range datapoints {
		vectorJSON, err := json.Marshal(dp.Vector)
		if err != nil {
			return fmt.Errorf("encoding vector: %w", err)
		}
		restrictsJSON, err := json.Marshal(dp.Restricts)
		if err != nil {
			return fmt.Errorf("encoding restricts: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, dp.ID, vectorJSON, restrictsJSON); err != nil {
			return fmt.Errorf("inserting datapoint: %w", err)
		}
	}

	return tx.Commit()
}

// FindNeighbors scans all datapoints and returns the neighborCount
// most similar to the query vector, best first.
func (s *SQLiteIndex) FindNeighbors(ctx context.Context, vector []float32, neighborCount int) ([]entities.NeighborMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT id, vector, restricts FROM datapoints`)
	if err != nil {
		return nil, fmt.Errorf("querying datapoints: %w", err)
	}
	defer rows.Close()

	var matches []entities.NeighborMatch
	for rows.Next() {
		var dp entities.Datapoint
		var vectorJSON, restrictsJSON []byte

		if err := rows.Scan(&dp.ID, &vectorJSON, &restrictsJSON); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if err := json.Unmarshal(vectorJSON, &dp.Vector); err != nil {
			continue // Skip corrupted vectors
		}
		if err := json.Unmarshal(restrictsJSON, &dp.Restricts); err != nil {
			continue
		}

		score := cosineSimilarity(vector, dp.Vector)
		matches = append(matches, entities.NeighborMatch{
			Datapoint: dp,
			Distance:  1 - score,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	// Sort by distance ascending (most similar first)
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})
	if len(matches) > neighborCount {
		matches = matches[:neighborCount]
	}
	return matches, nil
}

// Close closes the database connection.
func (s *SQLiteIndex) Close() error {
	return s.db.Close()
}

// DatapointCount returns the number of stored datapoints.
func (s *SQLiteIndex) DatapointCount(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM datapoints").Scan(&count)
	return count, err
}

// cosineSimilarity calculates cosine similarity between two vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
