package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"wikirag/internal/config"
	"wikirag/internal/http"
	"wikirag/internal/llm"
	"wikirag/internal/rag"
	"wikirag/internal/router"
	"wikirag/internal/storage"
	"wikirag/internal/vectorstore"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	documentRepo := storage.NewDocumentRepo(db)
	chunkRepo := storage.NewChunkRepo(db)

	ctx := context.Background()

	// Initialize Qdrant vector store
	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}
	if err := vectorStore.EnsureCollection(ctx, cfg.QdrantCollection, cfg.QdrantVectorSize); err != nil {
		log.Fatalf("Failed to ensure Qdrant collection: %v", err)
	}
	slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.QdrantVectorSize)

	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.GenerationAPIKey, cfg.EmbeddingModel, cfg.QdrantVectorSize)
	generator := llm.NewClient(cfg.GenerationBaseURL, cfg.GenerationAPIKey, cfg.GenerationModel, nil)

	engine := rag.NewEngine(
		embedder,
		vectorStore,
		cfg.QdrantCollection,
		chunkRepo,
		documentRepo,
		generator,
		rag.TokenOverlapReranker{},
		cfg.RetrievalTopK,
		cfg.RerankTopK,
	)
	classifier := router.NewClassifier(generator, documentRepo)
	slog.Info("Query engine initialized")

	deps := &http.Deps{
		Engine:      engine,
		Classifier:  classifier,
		Documents:   documentRepo,
		DB:          db,
		VectorStore: vectorStore,
		Collection:  cfg.QdrantCollection,
	}
	mux := http.NewRouter(deps)

	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("Generation configuration", "base_url", cfg.GenerationBaseURL, "model", cfg.GenerationModel)
	if err := nethttp.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
