// Package indexer turns raw wiki pages into searchable chunks: it normalizes
// markup, splits the result into bounded windows, and writes each chunk to
// both the relational store and the vector store under a shared ID.
package indexer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"wikirag/internal/contextutil"
	"wikirag/internal/normalizer"
	"wikirag/internal/storage"
	"wikirag/internal/vectorstore"
	"wikirag/internal/wiki"
)

// Pipeline orchestrates ingestion of wiki pages.
type Pipeline struct {
	documents  storage.DocumentStore
	chunks     storage.ChunkStore
	vectors    vectorstore.VectorStore
	embedder   Embedder
	splitter   *Splitter
	collection string
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(
	documents storage.DocumentStore,
	chunks storage.ChunkStore,
	vectors vectorstore.VectorStore,
	embedder Embedder,
	collection string,
) *Pipeline {
	return &Pipeline{
		documents:  documents,
		chunks:     chunks,
		vectors:    vectors,
		embedder:   embedder,
		splitter:   NewSplitter(),
		collection: collection,
	}
}

// Run ingests every page in the batch. A page that fails is logged and
// skipped; one bad page never aborts the run. Ingesting a page the store has
// already seen replaces its document record, chunks, and vector points
// wholesale.
func (p *Pipeline) Run(ctx context.Context, pages []wiki.Page) (*Report, error) {
	logger := contextutil.LoggerFromContext(ctx)
	report := &Report{PagesSeen: len(pages)}

	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		stored, err := p.ingestPage(ctx, page)
		if err != nil {
			logger.Error("failed to ingest page", "page_id", page.ID, "title", page.Title, "error", err)
			report.PagesFailed++
			continue
		}

		logger.Info("indexed page", "page_id", page.ID, "title", page.Title, "chunks", stored)
		report.PagesIndexed++
		report.ChunksStored += stored
	}

	return report, nil
}

// ingestPage processes a single page and returns the number of chunks stored.
func (p *Pipeline) ingestPage(ctx context.Context, page wiki.Page) (int, error) {
	text, err := normalizer.Normalize(page.Body)
	if err != nil {
		return 0, fmt.Errorf("normalize: %w", err)
	}
	text = Clean(text)

	blocks := normalizer.ParseBlocks(text)
	stats, err := json.Marshal(normalizer.Classify(blocks).Stats())
	if err != nil {
		return 0, fmt.Errorf("marshal block stats: %w", err)
	}

	doc := &storage.DocumentRecord{
		ID:           page.ID,
		Title:        page.Title,
		SourceURL:    page.WebURL,
		AuthorName:   page.AuthorName,
		AuthorEmail:  page.AuthorEmail,
		AuthorID:     page.AuthorID,
		LastModified: page.When,
		BlockStats:   string(stats),
	}
	if err := p.documents.Upsert(ctx, doc); err != nil {
		return 0, fmt.Errorf("upsert document: %w", err)
	}

	// Stale vector points must go before the relational chunks do, or their
	// IDs are unrecoverable.
	oldIDs, err := p.chunks.ListIDsByDocument(ctx, page.ID)
	if err != nil {
		return 0, fmt.Errorf("list old chunk IDs: %w", err)
	}
	if len(oldIDs) > 0 {
		if err := p.vectors.Delete(ctx, p.collection, oldIDs); err != nil {
			return 0, fmt.Errorf("delete old vectors: %w", err)
		}
	}

	pieces := p.splitter.Split(text)
	if len(pieces) == 0 {
		// An empty page still gets a document record, just no chunks.
		return 0, p.chunks.ReplaceForDocument(ctx, page.ID, nil)
	}

	vectors, err := p.embedder.EmbedTexts(ctx, pieces)
	if err != nil {
		return 0, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(pieces) {
		return 0, fmt.Errorf("embedding count mismatch: got %d vectors for %d chunks", len(vectors), len(pieces))
	}

	records := make([]*storage.ChunkRecord, len(pieces))
	points := make([]vectorstore.Point, len(pieces))
	for i, piece := range pieces {
		id := uuid.New().String()
		records[i] = &storage.ChunkRecord{
			ID:         id,
			DocumentID: page.ID,
			SplitID:    i,
			Content:    piece,
		}
		points[i] = vectorstore.Point{
			ID:  id,
			Vec: vectors[i],
			Meta: map[string]any{
				"document_id":  page.ID,
				"split_id":     i,
				"page_title":   page.Title,
				"author_name":  page.AuthorName,
				"author_email": page.AuthorEmail,
				"page_url":     page.WebURL,
				"date":         page.When,
			},
		}
	}

	if err := p.chunks.ReplaceForDocument(ctx, page.ID, records); err != nil {
		return 0, fmt.Errorf("store chunks: %w", err)
	}
	if err := p.vectors.Upsert(ctx, p.collection, points); err != nil {
		return 0, fmt.Errorf("store vectors: %w", err)
	}

	return len(records), nil
}
