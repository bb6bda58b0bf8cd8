package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Completion model (Groq / OpenAI-compatible)
	GroqAPIKey  string
	GroqBaseURL string
	ModelName   string
	LLMTimeout  time.Duration

	// Embeddings (OpenAI-compatible; defaults to the completion key)
	EmbedAPIKey  string
	EmbedBaseURL string
	EmbedModel   string

	// Auth (optional; anonymous access when empty)
	APIKey string

	// Reference document and index
	DataPath  string // Explicit document path; empty means resolve from DataDir
	DataDir   string
	IndexPath string

	// Retrieval
	RetrieveK    int
	ChunkSize    int
	ChunkOverlap int

	// Caching
	QueryCacheTTL time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		GroqAPIKey:  os.Getenv("GROQ_API_KEY"),
		GroqBaseURL: envOr("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		ModelName:   envOr("MODEL_NAME", "llama-3.1-8b-instant"),
		LLMTimeout:  envDuration("LLM_TIMEOUT", 120*time.Second),

		EmbedAPIKey:  os.Getenv("EMBED_API_KEY"),
		EmbedBaseURL: os.Getenv("EMBED_BASE_URL"),
		EmbedModel:   envOr("EMBED_MODEL", "text-embedding-3-small"),

		APIKey: os.Getenv("COREPQA_API_KEY"),

		DataPath:  os.Getenv("DATA_PATH"),
		DataDir:   envOr("DATA_DIR", "data"),
		IndexPath: envOr("INDEX_PATH", "corep_index.json"),

		RetrieveK:    envInt("RETRIEVE_K", 5),
		ChunkSize:    envInt("CHUNK_SIZE", 1200),
		ChunkOverlap: envInt("CHUNK_OVERLAP", 200),

		QueryCacheTTL: envDuration("QUERY_CACHE_TTL", 15*time.Minute),
	}

	if cfg.EmbedAPIKey == "" {
		cfg.EmbedAPIKey = cfg.GroqAPIKey
	}
	if cfg.RetrieveK <= 0 {
		cfg.RetrieveK = 5
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 1200
	}
	if cfg.ChunkOverlap <= 0 {
		cfg.ChunkOverlap = 200
	}
	if cfg.LLMTimeout <= 0 {
		cfg.LLMTimeout = 120 * time.Second
	}

	return cfg
}

func (c Config) Validate() error {
	if c.GroqAPIKey == "" {
		return fmt.Errorf("GROQ_API_KEY is required")
	}
	if c.EmbedAPIKey == "" {
		return fmt.Errorf("EMBED_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
