package vectorindex

import (
	"context"
	"testing"

	"lecturerag/internal/domain/entities"
)

func TestInMemoryUpsertAndFind(t *testing.T) {
	idx := NewInMemoryIndex()
	ctx := context.Background()

	err := idx.Upsert(ctx, []entities.Datapoint{
		chunkDatapoint("a", []float32{1, 0}, "a"),
		chunkDatapoint("b", []float32{0, 1}, "b"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if idx.Count() != 2 {
		t.Errorf("expected 2 datapoints, got %d", idx.Count())
	}

	matches, err := idx.FindNeighbors(ctx, []float32{0, 1}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 || matches[0].Datapoint.ID != "b" {
		t.Errorf("unexpected matches: %v", matches)
	}
}

func TestInMemoryUpsertOverwrites(t *testing.T) {
	idx := NewInMemoryIndex()
	ctx := context.Background()

	idx.Upsert(ctx, []entities.Datapoint{chunkDatapoint("a", []float32{1}, "v1")})
	idx.Upsert(ctx, []entities.Datapoint{chunkDatapoint("a", []float32{1}, "v2")})

	if idx.Count() != 1 {
		t.Errorf("expected 1 datapoint, got %d", idx.Count())
	}
}
