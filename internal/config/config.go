package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// Wiki source (ingestion only)
	WikiBaseURL   string
	WikiUserEmail string
	WikiAPIToken  string
	WikiSpaceKey  string

	// Generation backend
	GenerationBaseURL string
	GenerationModel   string
	GenerationAPIKey  string

	// Embedding backend
	EmbeddingBaseURL string
	EmbeddingModel   string

	// Stores
	DBPath           string
	QdrantURL        string
	QdrantCollection string
	QdrantVectorSize int

	// Retrieval
	RetrievalTopK int
	RerankTopK    int

	APIPort   string
	LogLevel  slog.Level
	LogFormat string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// A .env file in the current directory or any parent up to the module root is
// loaded automatically; variables already set take precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ {
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		WikiBaseURL:       getEnv("WIKI_BASE_URL", ""),
		WikiUserEmail:     getEnv("WIKI_USER_EMAIL", ""),
		WikiAPIToken:      getEnv("WIKI_API_TOKEN", ""),
		WikiSpaceKey:      getEnv("WIKI_SPACE_KEY", ""),
		GenerationBaseURL: getEnv("GENERATION_BASE_URL", "https://api.together.xyz"),
		GenerationModel:   getEnv("GENERATION_MODEL", "deepseek-ai/DeepSeek-R1"),
		GenerationAPIKey:  getEnv("GENERATION_API_KEY", ""),
		EmbeddingBaseURL:  getEnv("EMBEDDING_BASE_URL", "http://localhost:8081"),
		EmbeddingModel:    getEnv("EMBEDDING_MODEL", "bge-m3"),
		DBPath:            getEnv("DB_PATH", "./data/wikirag.db"),
		QdrantURL:         getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection:  getEnv("QDRANT_COLLECTION", "wiki_chunks"),
		APIPort:           getEnv("API_PORT", "9000"),
		LogFormat:         getEnv("LOG_FORMAT", "text"),
	}

	// Must match the embedding model's output dimension; the Qdrant collection
	// has to be recreated if it changes.
	vectorSizeStr := getEnv("QDRANT_VECTOR_SIZE", "1024")
	vectorSize, err := strconv.Atoi(vectorSizeStr)
	if err != nil {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be a valid integer: %w", err)
	}
	if vectorSize <= 0 {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be greater than 0")
	}
	cfg.QdrantVectorSize = vectorSize

	cfg.RetrievalTopK, err = getEnvInt("RETRIEVAL_TOP_K", 3)
	if err != nil {
		return nil, err
	}
	cfg.RerankTopK, err = getEnvInt("RERANK_TOP_K", 1)
	if err != nil {
		return nil, err
	}

	level, err := parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	if cfg.GenerationAPIKey == "" {
		return nil, fmt.Errorf("GENERATION_API_KEY is required")
	}

	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// ValidateWiki checks the fields the ingestion job needs. The query service
// does not talk to the wiki, so this is separate from Load validation.
func (c *Config) ValidateWiki() error {
	var missing []string
	if c.WikiBaseURL == "" {
		missing = append(missing, "WIKI_BASE_URL")
	}
	if c.WikiUserEmail == "" {
		missing = append(missing, "WIKI_USER_EMAIL")
	}
	if c.WikiAPIToken == "" {
		missing = append(missing, "WIKI_API_TOKEN")
	}
	if c.WikiSpaceKey == "" {
		missing = append(missing, "WIKI_SPACE_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid LOG_LEVEL: %q", s)
	}
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}
	return v, nil
}
