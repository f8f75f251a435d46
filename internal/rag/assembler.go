package rag

import (
	"context"
	"fmt"
	"strings"

	"wikirag/internal/storage"
)

// AssembleDocument reconstructs the full normalized text of a document from
// its stored chunks, in ascending split order, along with the document's
// provenance metadata. Overlapping windows are concatenated as stored; the
// duplication at window seams is acceptable for summarization input.
// Returns storage.ErrNotFound for an unknown title.
func AssembleDocument(ctx context.Context, documents storage.DocumentStore, chunks storage.ChunkStore, title string) (string, map[string]string, error) {
	doc, err := documents.GetByTitle(ctx, title)
	if err != nil {
		return "", nil, err
	}

	records, err := chunks.ListByTitle(ctx, title)
	if err != nil {
		return "", nil, fmt.Errorf("list chunks for %q: %w", title, err)
	}

	parts := make([]string, len(records))
	for i, rec := range records {
		parts[i] = rec.Content
	}

	return strings.Join(parts, " "), doc.Metadata(), nil
}
