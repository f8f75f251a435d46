package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"wikirag/internal/config"
	"wikirag/internal/indexer"
	"wikirag/internal/llm"
	"wikirag/internal/storage"
	"wikirag/internal/vectorstore"
	"wikirag/internal/wiki"
)

// The ingest job is an offline batch: it fetches every page of the configured
// wiki space, normalizes and chunks them, and replaces the stored index. It
// is meant to run separately from the query service.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.ValidateWiki(); err != nil {
		log.Fatalf("Invalid ingestion configuration: %v", err)
	}

	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))

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

	ctx := context.Background()

	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}
	if err := vectorStore.EnsureCollection(ctx, cfg.QdrantCollection, cfg.QdrantVectorSize); err != nil {
		log.Fatalf("Failed to ensure Qdrant collection: %v", err)
	}

	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.GenerationAPIKey, cfg.EmbeddingModel, cfg.QdrantVectorSize)

	source := wiki.NewClient(cfg.WikiBaseURL, cfg.WikiUserEmail, cfg.WikiAPIToken, cfg.WikiSpaceKey)
	slog.Info("Fetching pages", "base_url", cfg.WikiBaseURL, "space", cfg.WikiSpaceKey)
	pages, err := source.ListPages(ctx)
	if err != nil {
		log.Fatalf("Failed to fetch pages: %v", err)
	}
	slog.Info("Pages fetched", "count", len(pages))

	pipeline := indexer.NewPipeline(
		storage.NewDocumentRepo(db),
		storage.NewChunkRepo(db),
		vectorStore,
		embedder,
		cfg.QdrantCollection,
	)

	report, err := pipeline.Run(ctx, pages)
	if err != nil {
		log.Fatalf("Ingestion aborted: %v", err)
	}

	slog.Info("Ingestion completed",
		"pages_seen", report.PagesSeen,
		"pages_indexed", report.PagesIndexed,
		"pages_failed", report.PagesFailed,
		"chunks_stored", report.ChunksStored,
	)
	if report.PagesFailed > 0 {
		os.Exit(1)
	}
}
