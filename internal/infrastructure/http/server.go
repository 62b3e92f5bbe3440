// Package http wires the HTTP API: the query endpoint used by the
// lecture chat frontend, a manual ingestion trigger, and a health
// probe.
package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"lecturerag/internal/domain/entities"
	"lecturerag/internal/domain/ports"
	"lecturerag/internal/domain/usecases"
)

// Server serves the JSON API.
type Server struct {
	query        *usecases.QueryUseCase
	ingest       *usecases.IngestUseCase
	addr         string
	corsAllowAll bool
}

// NewServer creates a new HTTP server.
func NewServer(query *usecases.QueryUseCase, ingest *usecases.IngestUseCase, addr string, corsAllowAll bool) *Server {
	return &Server{
		query:        query,
		ingest:       ingest,
		addr:         addr,
		corsAllowAll: corsAllowAll,
	}
}

// chatMessage is one prior conversation turn.
type chatMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// queryRequest is the body of POST /api/v1/query.
type queryRequest struct {
	Prompt  string        `json:"prompt"`
	History []chatMessage `json:"history"`
}

// queryResponse always carries the answer text, even when the pipeline
// degraded along the way.
type queryResponse struct {
	Response string `json:"response"`
}

// ingestRequest mirrors a storage object notification.
type ingestRequest struct {
	Bucket string `json:"bucket"`
	Name   string `json:"name"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler builds the route table. Split out from Start so tests can
// exercise the routes without a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/query", s.handleQuery)
	mux.HandleFunc("/api/v1/ingest", s.handleIngest)
	mux.HandleFunc("/healthz", s.handleHealth)

	var handler http.Handler = mux
	if s.corsAllowAll {
		handler = corsMiddleware(handler)
	}
	return loggingMiddleware(handler)
}

// Start runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[ERROR] Server shutdown: %v", err)
		}
	}()

	log.Printf("[INFO] Listening on %s", s.addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "prompt is required"})
		return
	}

	history := make([]entities.ChatMessage, 0, len(req.History))
	for _, m := range req.History {
		history = append(history, entities.ChatMessage{Role: m.Role, Text: m.Text})
	}

	// Pipeline failures surface in the response text, never as an
	// HTTP error.
	answer := s.query.Answer(r.Context(), &entities.ChatRequest{
		Prompt:  req.Prompt,
		History: history,
	})

	writeJSON(w, http.StatusOK, queryResponse{Response: answer})
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}
	if s.ingest == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "ingestion not configured"})
		return
	}

	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Bucket == "" || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bucket and name are required"})
		return
	}

	summary, err := s.ingest.ProcessObject(r.Context(), ports.ObjectEvent{Bucket: req.Bucket, Name: req.Name})
	if err != nil {
		log.Printf("[ERROR] Ingestion failed for %s/%s: %v", req.Bucket, req.Name, err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ERROR] Encoding response: %v", err)
	}
}

// loggingMiddleware logs each request with its duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("[INFO] %s %s %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// corsMiddleware allows cross-origin requests from any origin. Only
// enabled when the deployment fronts a separately hosted frontend.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
