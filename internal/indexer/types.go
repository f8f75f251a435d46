package indexer

import "context"

// Embedder produces dense vectors for batches of text.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Report summarizes one ingestion run.
type Report struct {
	PagesSeen    int
	PagesIndexed int
	PagesFailed  int
	ChunksStored int
}
