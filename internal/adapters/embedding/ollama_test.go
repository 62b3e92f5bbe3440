package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaEmbed(t *testing.T) {
	var gotBody ollamaEmbedRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embeddings" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(ollamaEmbedResponse{Embedding: []float32{0.5, 0.6}})
	}))
	defer server.Close()

	adapter := NewOllamaAdapter(server.URL, "nomic-embed-text", 0)

	vector, err := adapter.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vector) != 2 {
		t.Errorf("unexpected vector: %v", vector)
	}
	if gotBody.Model != "nomic-embed-text" || gotBody.Prompt != "hello" {
		t.Errorf("unexpected request body: %+v", gotBody)
	}
}

func TestOllamaEmbedEmptyVector(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ollamaEmbedResponse{})
	}))
	defer server.Close()

	adapter := NewOllamaAdapter(server.URL, "", 0)
	if _, err := adapter.Embed(context.Background(), "x"); err == nil {
		t.Fatal("expected error for empty embedding")
	}
}
