// Package rag implements the query-time pipeline: hybrid retrieval over the
// lexical and dense indexes, fusion, reranking, and grounded generation.
package rag

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"wikirag/internal/contextutil"
	"wikirag/internal/llm"
	"wikirag/internal/storage"
	"wikirag/internal/vectorstore"
)

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_engine.go -package=mocks wikirag/internal/rag Engine

// Embedder produces dense vectors for batches of text.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Engine answers queries over the ingested corpus.
type Engine interface {
	// Answer retrieves relevant chunks for the query and generates one
	// grounded response per reranked chunk.
	Answer(ctx context.Context, query string) ([]Response, error)
	// Summarize generates a summary of the document with the given title.
	Summarize(ctx context.Context, query, title string) (Response, error)
}

type engine struct {
	embedder   Embedder
	vectors    vectorstore.VectorStore
	collection string
	chunks     storage.ChunkStore
	documents  storage.DocumentStore
	generator  Generator
	reranker   Reranker
	retrieveK  int
	rerankK    int
}

// NewEngine creates a query engine. retrieveK bounds each retrieval arm,
// rerankK bounds how many chunks are grounded against.
func NewEngine(
	embedder Embedder,
	vectors vectorstore.VectorStore,
	collection string,
	chunks storage.ChunkStore,
	documents storage.DocumentStore,
	generator Generator,
	reranker Reranker,
	retrieveK, rerankK int,
) Engine {
	return &engine{
		embedder:   embedder,
		vectors:    vectors,
		collection: collection,
		chunks:     chunks,
		documents:  documents,
		generator:  generator,
		reranker:   reranker,
		retrieveK:  retrieveK,
		rerankK:    rerankK,
	}
}

// Answer runs the retrieval path for a query.
func (e *engine) Answer(ctx context.Context, query string) ([]Response, error) {
	logger := contextutil.LoggerFromContext(ctx)

	candidates, err := e.retrieve(ctx, query)
	if err != nil {
		return nil, err
	}
	logger.Info("retrieval completed", "query", query, "candidates", len(candidates))

	if len(candidates) == 0 {
		return []Response{}, nil
	}

	top, err := rerank(ctx, e.reranker, query, candidates, e.rerankK)
	if err != nil {
		return nil, fmt.Errorf("rerank: %w", err)
	}

	responses := make([]Response, 0, len(top))
	for _, cand := range top {
		resp := Response{Metadata: e.documentMetadata(ctx, cand.DocumentID)}

		answer, err := e.generate(ctx, answerPrompt(query, cand.Content))
		if err != nil {
			if errors.Is(err, llm.ErrGenerationUnavailable) {
				// Degrade to a null answer for this chunk, keep the rest.
				logger.Warn("generation unavailable for chunk", "chunk_id", cand.ChunkID, "error", err)
				responses = append(responses, resp)
				continue
			}
			return nil, err
		}

		resp.Answer = &answer
		responses = append(responses, resp)
	}

	return responses, nil
}

// Summarize generates a summary of one full document.
func (e *engine) Summarize(ctx context.Context, query, title string) (Response, error) {
	content, meta, err := AssembleDocument(ctx, e.documents, e.chunks, title)
	if err != nil {
		return Response{}, fmt.Errorf("assemble %q: %w", title, err)
	}

	resp := Response{Metadata: meta}
	summary, err := e.generate(ctx, summaryPrompt(content, query))
	if err != nil {
		if errors.Is(err, llm.ErrGenerationUnavailable) {
			contextutil.LoggerFromContext(ctx).Warn("generation unavailable for summary", "title", title, "error", err)
			return resp, nil
		}
		return Response{}, err
	}

	resp.Answer = &summary
	return resp, nil
}

// retrieve runs the lexical and dense arms concurrently and fuses their
// results. Both arms complete before fusion; an error in either fails the
// query.
func (e *engine) retrieve(ctx context.Context, query string) ([]Candidate, error) {
	var (
		wg       sync.WaitGroup
		lexical  []Candidate
		dense    []Candidate
		lexErr   error
		denseErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		lexical, lexErr = e.searchLexical(ctx, query)
	}()
	go func() {
		defer wg.Done()
		dense, denseErr = e.searchDense(ctx, query)
	}()
	wg.Wait()

	if lexErr != nil {
		return nil, fmt.Errorf("lexical retrieval: %w", lexErr)
	}
	if denseErr != nil {
		return nil, fmt.Errorf("dense retrieval: %w", denseErr)
	}

	return fuse(lexical, dense), nil
}

func (e *engine) searchLexical(ctx context.Context, query string) ([]Candidate, error) {
	hits, err := e.chunks.SearchLexical(ctx, query, e.retrieveK)
	if err != nil {
		return nil, err
	}

	cands := make([]Candidate, 0, len(hits))
	for _, hit := range hits {
		cands = append(cands, Candidate{
			ChunkID:    hit.Chunk.ID,
			DocumentID: hit.Chunk.DocumentID,
			SplitID:    hit.Chunk.SplitID,
			Content:    hit.Chunk.Content,
			Score:      hit.Score,
		})
	}
	return cands, nil
}

func (e *engine) searchDense(ctx context.Context, query string) ([]Candidate, error) {
	embeddings, err := e.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embedding returned for query")
	}

	results, err := e.vectors.Search(ctx, e.collection, embeddings[0], e.retrieveK, nil)
	if err != nil {
		return nil, err
	}

	logger := contextutil.LoggerFromContext(ctx)
	cands := make([]Candidate, 0, len(results))
	for _, result := range results {
		chunk, err := e.chunks.GetByID(ctx, result.PointID)
		if err != nil {
			// The vector index can briefly trail the relational store after a
			// re-ingestion; a dangling point is skipped, not fatal.
			logger.Warn("failed to fetch chunk for vector hit", "chunk_id", result.PointID, "error", err)
			continue
		}
		cands = append(cands, Candidate{
			ChunkID:    chunk.ID,
			DocumentID: chunk.DocumentID,
			SplitID:    chunk.SplitID,
			Content:    chunk.Content,
			Score:      float64(result.Score),
		})
	}
	return cands, nil
}

// generate calls the backend and strips any leading reasoning segment.
func (e *engine) generate(ctx context.Context, prompt string) (string, error) {
	raw, err := e.generator.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return llm.ExtractAfterTag(raw, "think"), nil
}

// documentMetadata fetches provenance for a chunk's parent document. Missing
// documents yield an empty map; presentation-time defaulting fills the gaps.
func (e *engine) documentMetadata(ctx context.Context, documentID string) map[string]string {
	doc, err := e.documents.GetByID(ctx, documentID)
	if err != nil {
		contextutil.LoggerFromContext(ctx).Warn("failed to fetch document metadata", "document_id", documentID, "error", err)
		return map[string]string{}
	}
	return doc.Metadata()
}
