package vectorindex

import (
	"context"
	"testing"

	"lecturerag/internal/domain/entities"
)

func newTestSQLiteIndex(t *testing.T) *SQLiteIndex {
	t.Helper()
	idx, err := NewSQLiteIndex(t.TempDir())
	if err != nil {
		t.Fatalf("creating index: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx
}

func chunkDatapoint(id string, vector []float32, snippet string) entities.Datapoint {
	return entities.Datapoint{
		ID:     id,
		Vector: vector,
		Restricts: []entities.Restrict{
			{Namespace: "text", AllowTokens: []string{snippet}},
		},
	}
}

func TestSQLiteUpsertAndFind(t *testing.T) {
	idx := newTestSQLiteIndex(t)
	ctx := context.Background()

	err := idx.Upsert(ctx, []entities.Datapoint{
		chunkDatapoint("a-chunk-0", []float32{1, 0}, "about gradients"),
		chunkDatapoint("a-chunk-1", []float32{0, 1}, "about datasets"),
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	matches, err := idx.FindNeighbors(ctx, []float32{1, 0.1}, 1)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Datapoint.ID != "a-chunk-0" {
		t.Errorf("expected nearest datapoint a-chunk-0, got %q", matches[0].Datapoint.ID)
	}
	if got := matches[0].Datapoint.Restricts[0].AllowTokens[0]; got != "about gradients" {
		t.Errorf("restricts not round-tripped, got %q", got)
	}
}

func TestSQLiteUpsertIdempotent(t *testing.T) {
	idx := newTestSQLiteIndex(t)
	ctx := context.Background()

	dp := chunkDatapoint("a-chunk-0", []float32{1, 0}, "v1")
	if err := idx.Upsert(ctx, []entities.Datapoint{dp}); err != nil {
		t.Fatal(err)
	}
	dp.Restricts[0].AllowTokens[0] = "v2"
	if err := idx.Upsert(ctx, []entities.Datapoint{dp}); err != nil {
		t.Fatal(err)
	}

	count, err := idx.DatapointCount(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("expected 1 datapoint after re-upsert, got %d", count)
	}

	matches, err := idx.FindNeighbors(ctx, []float32{1, 0}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if matches[0].Datapoint.Restricts[0].AllowTokens[0] != "v2" {
		t.Error("re-upsert must overwrite the stored record")
	}
}

func TestSQLiteFindNeighborsOrdering(t *testing.T) {
	idx := newTestSQLiteIndex(t)
	ctx := context.Background()

	err := idx.Upsert(ctx, []entities.Datapoint{
		chunkDatapoint("far", []float32{0, 1}, "far"),
		chunkDatapoint("near", []float32{1, 0}, "near"),
		chunkDatapoint("mid", []float32{1, 1}, "mid"),
	})
	if err != nil {
		t.Fatal(err)
	}

	matches, err := idx.FindNeighbors(ctx, []float32{1, 0}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}
	if matches[0].Datapoint.ID != "near" || matches[2].Datapoint.ID != "far" {
		t.Errorf("matches not ordered by distance: %v, %v, %v",
			matches[0].Datapoint.ID, matches[1].Datapoint.ID, matches[2].Datapoint.ID)
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Distance < matches[i-1].Distance {
			t.Error("distances must be ascending")
		}
	}
}

func TestSQLiteFindNeighborsEmpty(t *testing.T) {
	idx := newTestSQLiteIndex(t)

	matches, err := idx.FindNeighbors(context.Background(), []float32{1}, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected no matches from empty index, got %v", matches)
	}
}

func TestCosineSimilarity(t *testing.T) {
	if got := cosineSimilarity([]float32{1, 0}, []float32{1, 0}); got != 1 {
		t.Errorf("identical vectors: expected 1, got %v", got)
	}
	if got := cosineSimilarity([]float32{1, 0}, []float32{0, 1}); got != 0 {
		t.Errorf("orthogonal vectors: expected 0, got %v", got)
	}
	if got := cosineSimilarity([]float32{1, 0}, []float32{1}); got != 0 {
		t.Errorf("mismatched lengths: expected 0, got %v", got)
	}
	if got := cosineSimilarity(nil, nil); got != 0 {
		t.Errorf("empty vectors: expected 0, got %v", got)
	}
}
