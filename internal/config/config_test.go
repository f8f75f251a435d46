package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

// setEnv sets an environment variable, ignoring errors (for test setup)
func setEnv(key, value string) {
	_ = os.Setenv(key, value)
}

// unsetEnv unsets an environment variable, ignoring errors (for test cleanup)
func unsetEnv(key string) {
	_ = os.Unsetenv(key)
}

func TestLoad(t *testing.T) {
	// Save original env vars
	originalEnv := make(map[string]string)
	envVars := []string{
		"WIKI_BASE_URL", "WIKI_USER_EMAIL", "WIKI_API_TOKEN", "WIKI_SPACE_KEY",
		"GENERATION_BASE_URL", "GENERATION_MODEL", "GENERATION_API_KEY",
		"EMBEDDING_BASE_URL", "EMBEDDING_MODEL",
		"DB_PATH", "QDRANT_URL", "QDRANT_COLLECTION", "QDRANT_VECTOR_SIZE",
		"RETRIEVAL_TOP_K", "RERANK_TOP_K", "API_PORT", "LOG_LEVEL", "LOG_FORMAT",
	}
	for _, key := range envVars {
		originalEnv[key] = os.Getenv(key)
		unsetEnv(key)
	}
	defer func() {
		for key, value := range originalEnv {
			if value != "" {
				setEnv(key, value)
			} else {
				unsetEnv(key)
			}
		}
	}()

	tests := []struct {
		name        string
		setupEnv    func(*testing.T)
		wantErr     bool
		checkConfig func(*Config) bool
	}{
		{
			name: "valid config with defaults",
			setupEnv: func(t *testing.T) {
				setEnv("GENERATION_API_KEY", "test-key")
				setEnv("DB_PATH", filepath.Join(t.TempDir(), "test.db"))
			},
			wantErr: false,
			checkConfig: func(cfg *Config) bool {
				return cfg.GenerationAPIKey == "test-key" &&
					cfg.QdrantVectorSize == 1024 &&
					cfg.RetrievalTopK == 3 &&
					cfg.RerankTopK == 1 &&
					cfg.APIPort == "9000" &&
					cfg.LogLevel == slog.LevelInfo
			},
		},
		{
			name: "missing GENERATION_API_KEY",
			setupEnv: func(t *testing.T) {
				setEnv("DB_PATH", filepath.Join(t.TempDir(), "test.db"))
			},
			wantErr: true,
		},
		{
			name: "invalid QDRANT_VECTOR_SIZE",
			setupEnv: func(t *testing.T) {
				setEnv("GENERATION_API_KEY", "test-key")
				setEnv("DB_PATH", filepath.Join(t.TempDir(), "test.db"))
				setEnv("QDRANT_VECTOR_SIZE", "not-a-number")
			},
			wantErr: true,
		},
		{
			name: "zero QDRANT_VECTOR_SIZE",
			setupEnv: func(t *testing.T) {
				setEnv("GENERATION_API_KEY", "test-key")
				setEnv("DB_PATH", filepath.Join(t.TempDir(), "test.db"))
				setEnv("QDRANT_VECTOR_SIZE", "0")
			},
			wantErr: true,
		},
		{
			name: "negative RETRIEVAL_TOP_K",
			setupEnv: func(t *testing.T) {
				setEnv("GENERATION_API_KEY", "test-key")
				setEnv("DB_PATH", filepath.Join(t.TempDir(), "test.db"))
				setEnv("RETRIEVAL_TOP_K", "-1")
			},
			wantErr: true,
		},
		{
			name: "invalid LOG_LEVEL",
			setupEnv: func(t *testing.T) {
				setEnv("GENERATION_API_KEY", "test-key")
				setEnv("DB_PATH", filepath.Join(t.TempDir(), "test.db"))
				setEnv("LOG_LEVEL", "verbose")
			},
			wantErr: true,
		},
		{
			name: "overridden retrieval knobs",
			setupEnv: func(t *testing.T) {
				setEnv("GENERATION_API_KEY", "test-key")
				setEnv("DB_PATH", filepath.Join(t.TempDir(), "test.db"))
				setEnv("RETRIEVAL_TOP_K", "5")
				setEnv("RERANK_TOP_K", "2")
			},
			wantErr: false,
			checkConfig: func(cfg *Config) bool {
				return cfg.RetrievalTopK == 5 && cfg.RerankTopK == 2
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range envVars {
				unsetEnv(key)
			}
			tt.setupEnv(t)

			cfg, err := Load()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && tt.checkConfig != nil && !tt.checkConfig(cfg) {
				t.Errorf("Load() config check failed: %+v", cfg)
			}
		})
	}
}

func TestValidateWiki(t *testing.T) {
	complete := Config{
		WikiBaseURL:   "https://wiki.example.com/rest/api",
		WikiUserEmail: "svc@example.com",
		WikiAPIToken:  "token",
		WikiSpaceKey:  "ENG",
	}
	if err := complete.ValidateWiki(); err != nil {
		t.Errorf("ValidateWiki() error = %v, want nil", err)
	}

	missing := complete
	missing.WikiAPIToken = ""
	missing.WikiSpaceKey = ""
	err := missing.ValidateWiki()
	if err == nil {
		t.Fatal("ValidateWiki() error = nil, want missing-field error")
	}
}
