package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/subosito/gotenv"
)

// Config is the explicit startup configuration. Credentials are validated
// once here instead of at package load time, so a missing value surfaces
// as a typed error before any handler is constructed.
type Config struct {
	ListenAddr string

	// Gemini
	GoogleAPIKey   string
	GeminiModel    string
	EmbeddingModel string

	// Pinecone
	PineconeAPIKey    string
	PineconeIndexHost string
	RetrievalTopK     int

	// Postgres
	DatabaseURL string

	// Auth
	JWTSecret     string
	ServiceAPIKey string

	Debug bool
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	gotenv.Load()

	cfg := &Config{
		ListenAddr:        getenv("LISTEN_ADDR", ":8080"),
		GoogleAPIKey:      os.Getenv("GOOGLE_GENERATIVE_AI_API_KEY"),
		GeminiModel:       getenv("GEMINI_MODEL", "gemini-2.0-flash"),
		EmbeddingModel:    getenv("GEMINI_EMBEDDING_MODEL", "embedding-001"),
		PineconeAPIKey:    os.Getenv("PINECONE_API_KEY"),
		PineconeIndexHost: os.Getenv("PINECONE_INDEX_HOST"),
		RetrievalTopK:     getint("RETRIEVAL_TOP_K", 5),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		ServiceAPIKey:     os.Getenv("SERVICE_API_KEY"),
		Debug:             os.Getenv("DEBUG") == "true",
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET is required")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("config: DATABASE_URL is required")
	}
	// The Gemini key is deliberately not required here: the feedback
	// contract reports its absence per request as a 500 with details.
	return cfg, nil
}

// HasGeminiCredential reports whether completion calls can be attempted.
func (c *Config) HasGeminiCredential() bool {
	return c.GoogleAPIKey != ""
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
