// Package config loads the service configuration from an optional
// YAML file, with environment variables taking precedence. Secrets
// (the Gemini API key) come from the environment only.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root service configuration.
type Config struct {
	// Server
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	LogLevel     string `yaml:"log_level"`
	CORSAllowAll bool   `yaml:"cors_allow_all"`
	TimeoutSecs  int    `yaml:"http_timeout_secs"`

	// Vertex AI
	Project        string `yaml:"project"`
	Location       string `yaml:"location"`
	IndexEndpoint  string `yaml:"index_endpoint"`
	DeployedIndex  string `yaml:"deployed_index"`
	Index          string `yaml:"index"`
	EmbeddingModel string `yaml:"embedding_model"`

	// Gemini
	GeminiModel  string `yaml:"gemini_model"`
	GeminiAPIKey string `yaml:"-"` // env only, never from file

	// Pipeline tuning
	NeighborCount int `yaml:"neighbor_count"`
	MaxChunkChars int `yaml:"max_chunk_chars"`

	// Ingestion
	ExtractorURL     string `yaml:"extractor_url"`
	WatchDir         string `yaml:"watch_dir"`
	DrainAfterIngest bool   `yaml:"drain_after_ingest"`

	// Local mode ("vertex", "local" or "memory")
	Mode      string `yaml:"mode"`
	DataPath  string `yaml:"data_path"`
	OllamaURL string `yaml:"ollama_url"`
}

// Load reads a config from path. A missing file yields defaults;
// environment variables override file values either way.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func applyEnv(cfg *Config) {
	setString(&cfg.Host, "HOST")
	setInt(&cfg.Port, "PORT")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setBool(&cfg.CORSAllowAll, "CORS_ALLOW_ALL")
	setInt(&cfg.TimeoutSecs, "HTTP_TIMEOUT_SECONDS")

	setString(&cfg.Project, "GOOGLE_CLOUD_PROJECT")
	setString(&cfg.Location, "GOOGLE_CLOUD_LOCATION")
	setString(&cfg.IndexEndpoint, "VERTEX_AI_INDEX_ENDPOINT")
	setString(&cfg.DeployedIndex, "VERTEX_AI_DEPLOYED_INDEX")
	setString(&cfg.Index, "VERTEX_AI_INDEX")
	setString(&cfg.EmbeddingModel, "EMBEDDING_MODEL")

	setString(&cfg.GeminiModel, "GEMINI_MODEL")
	setString(&cfg.GeminiAPIKey, "GEMINI_API_KEY")

	setInt(&cfg.NeighborCount, "NEIGHBOR_COUNT")
	setInt(&cfg.MaxChunkChars, "MAX_CHUNK_CHARS")

	setString(&cfg.ExtractorURL, "EXTRACTOR_URL")
	setString(&cfg.WatchDir, "WATCH_DIR")
	setBool(&cfg.DrainAfterIngest, "DRAIN_AFTER_INGEST")

	setString(&cfg.Mode, "RAG_MODE")
	setString(&cfg.DataPath, "DATA_PATH")
	setString(&cfg.OllamaURL, "OLLAMA_URL")
}

func applyDefaults(cfg *Config) {
	if cfg.Host == "" {
		cfg.Host = "0.0.0.0"
	}
	if cfg.Port == 0 {
		cfg.Port = 8000
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.TimeoutSecs == 0 {
		cfg.TimeoutSecs = 60
	}
	if cfg.Location == "" {
		cfg.Location = "us-central1"
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = "text-embedding-005"
	}
	if cfg.GeminiModel == "" {
		cfg.GeminiModel = "gemini-2.5-flash"
	}
	if cfg.NeighborCount == 0 {
		cfg.NeighborCount = 4
	}
	if cfg.MaxChunkChars == 0 {
		cfg.MaxChunkChars = 1500
	}
	if cfg.Mode == "" {
		cfg.Mode = "vertex"
	}
	if cfg.DataPath == "" {
		cfg.DataPath = "./data"
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "yes", "on":
			*dst = true
		case "0", "false", "no", "off":
			*dst = false
		}
	}
}
