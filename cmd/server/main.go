package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2/google"

	"lecturerag/internal/adapters/embedding"
	"lecturerag/internal/adapters/extractor"
	"lecturerag/internal/adapters/filewatcher"
	"lecturerag/internal/adapters/generative"
	"lecturerag/internal/adapters/objectstore"
	"lecturerag/internal/adapters/vectorindex"
	"lecturerag/internal/config"
	"lecturerag/internal/domain/ports"
	"lecturerag/internal/domain/usecases"
	httpserver "lecturerag/internal/infrastructure/http"
)

func main() {
	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[ERROR] Loading config: %v", err)
	}

	if strings.EqualFold(cfg.LogLevel, "debug") {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	timeout := time.Duration(cfg.TimeoutSecs) * time.Second

	var (
		embedder  ports.EmbeddingService
		index     ports.VectorIndex
		store     ports.ObjectStore
		generator ports.GenerativeService
	)

	switch cfg.Mode {
	case "vertex":
		tokens, err := google.DefaultTokenSource(ctx, "https://www.googleapis.com/auth/cloud-platform")
		if err != nil {
			log.Fatalf("[ERROR] Loading Google credentials: %v", err)
		}
		embedder = embedding.NewVertexAdapter(cfg.Project, cfg.Location, cfg.EmbeddingModel, "", tokens, timeout)
		index = vectorindex.NewVertexIndex(vectorindex.VertexConfig{
			Project:       cfg.Project,
			Location:      cfg.Location,
			IndexEndpoint: cfg.IndexEndpoint,
			DeployedIndex: cfg.DeployedIndex,
			Index:         cfg.Index,
			Timeout:       timeout,
		}, tokens)
		gcs, err := objectstore.NewGCSStore(ctx)
		if err != nil {
			log.Fatalf("[ERROR] Creating storage client: %v", err)
		}
		store = gcs
		generator = generative.NewGeminiAdapter("", cfg.GeminiModel, cfg.GeminiAPIKey, timeout)
		if cfg.GeminiAPIKey == "" {
			log.Printf("[WARN] GEMINI_API_KEY not set, queries will fail")
		}

	case "local":
		embedder = embedding.NewOllamaAdapter(cfg.OllamaURL, "", timeout)
		sqlIndex, err := vectorindex.NewSQLiteIndex(cfg.DataPath)
		if err != nil {
			log.Fatalf("[ERROR] Opening vector index: %v", err)
		}
		defer sqlIndex.Close()
		index = sqlIndex
		store = objectstore.NewLocalStore()
		generator = localGenerator(cfg, timeout)

	case "memory":
		embedder = embedding.NewOllamaAdapter(cfg.OllamaURL, "", timeout)
		index = vectorindex.NewInMemoryIndex()
		store = objectstore.NewLocalStore()
		generator = localGenerator(cfg, timeout)

	default:
		log.Fatalf("[ERROR] Unknown mode %q", cfg.Mode)
	}

	pdfExtractor := extractor.NewPDFServiceExtractor(cfg.ExtractorURL, timeout)
	if !pdfExtractor.IsServiceHealthy(ctx) {
		log.Printf("[WARN] Extraction service not reachable at startup")
	}

	queryUC := usecases.NewQueryUseCase(embedder, index, generator, cfg.NeighborCount)
	ingestUC := usecases.NewIngestUseCase(store, pdfExtractor, embedder, index, cfg.MaxChunkChars, "")
	ingestUC.DrainSource(cfg.DrainAfterIngest)

	if cfg.WatchDir != "" {
		watcher, err := filewatcher.NewFSNotifyWatcher(nil)
		if err != nil {
			log.Fatalf("[ERROR] Creating file watcher: %v", err)
		}
		defer watcher.Stop()

		events, err := watcher.Watch(ctx, cfg.WatchDir)
		if err != nil {
			log.Fatalf("[ERROR] Watching %s: %v", cfg.WatchDir, err)
		}
		log.Printf("[INFO] Watching %s for uploads", cfg.WatchDir)

		go func() {
			for event := range events {
				if _, err := ingestUC.ProcessObject(ctx, event); err != nil {
					log.Printf("[ERROR] Ingestion failed for %s/%s: %v", event.Bucket, event.Name, err)
				}
			}
		}()
	}

	server := httpserver.NewServer(queryUC, ingestUC, cfg.Addr(), cfg.CORSAllowAll)
	if err := server.Start(ctx); err != nil {
		log.Printf("[ERROR] Server error: %v", err)
		os.Exit(1)
	}
	log.Printf("[INFO] Shutdown complete")
}

// localGenerator prefers Gemini when an API key is configured,
// otherwise uses the local Ollama model so the whole pipeline runs
// offline.
func localGenerator(cfg *config.Config, timeout time.Duration) ports.GenerativeService {
	if cfg.GeminiAPIKey != "" {
		return generative.NewGeminiAdapter("", cfg.GeminiModel, cfg.GeminiAPIKey, timeout)
	}
	log.Printf("[INFO] GEMINI_API_KEY not set, using Ollama for generation")
	return generative.NewOllamaAdapter(cfg.OllamaURL, "", timeout)
}
