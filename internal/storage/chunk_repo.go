package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chunk_store.go -package=mocks wikirag/internal/storage ChunkStore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"unicode"
)

// LexicalResult is one hit from BM25-ranked full-text search.
type LexicalResult struct {
	Chunk ChunkRecord
	Score float64 // higher is better
}

// ChunkStore defines the interface for chunk storage and lexical search.
type ChunkStore interface {
	// ReplaceForDocument atomically replaces all chunks of a document.
	// Chunk IDs must be set (UUID) before calling this method.
	ReplaceForDocument(ctx context.Context, documentID string, chunks []*ChunkRecord) error
	// ListIDsByDocument returns all chunk IDs for a document, ordered by split_id.
	ListIDsByDocument(ctx context.Context, documentID string) ([]string, error)
	// GetByID gets a chunk by its ID. Returns ErrNotFound if not found.
	GetByID(ctx context.Context, id string) (*ChunkRecord, error)
	// ListByTitle returns all chunks of the document with the given exact
	// title, ordered ascending by split_id.
	ListByTitle(ctx context.Context, title string) ([]ChunkRecord, error)
	// SearchLexical runs a term-overlap ranked search over chunk contents and
	// returns up to k results, best first.
	SearchLexical(ctx context.Context, query string, k int) ([]LexicalResult, error)
}

// ChunkRepo provides methods for chunk operations.
// It implements the ChunkStore interface.
type ChunkRepo struct {
	db *sql.DB
}

// NewChunkRepo creates a new ChunkRepo.
func NewChunkRepo(db *sql.DB) *ChunkRepo {
	return &ChunkRepo{db: db}
}

// ReplaceForDocument atomically replaces all chunks of a document.
// Re-ingestion is a full replace, never a patch.
func (r *ChunkRepo) ReplaceForDocument(ctx context.Context, documentID string, chunks []*ChunkRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", documentID); err != nil {
		return fmt.Errorf("failed to delete old chunks: %w", err)
	}

	for _, chunk := range chunks {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO chunks (id, document_id, split_id, content) VALUES (?, ?, ?, ?)",
			chunk.ID, chunk.DocumentID, chunk.SplitID, chunk.Content,
		); err != nil {
			return fmt.Errorf("failed to insert chunk %d: %w", chunk.SplitID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit chunk replacement: %w", err)
	}
	return nil
}

// ListIDsByDocument returns all chunk IDs for a document, ordered by split_id.
// Used to collect vector store point IDs for deletion before re-ingestion.
func (r *ChunkRepo) ListIDsByDocument(ctx context.Context, documentID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id FROM chunks WHERE document_id = ? ORDER BY split_id",
		documentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunk IDs: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan chunk ID: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return ids, nil
}

// GetByID gets a chunk by its ID. Returns ErrNotFound if not found.
func (r *ChunkRepo) GetByID(ctx context.Context, id string) (*ChunkRecord, error) {
	var chunk ChunkRecord
	err := r.db.QueryRowContext(ctx,
		"SELECT id, document_id, split_id, content FROM chunks WHERE id = ?",
		id,
	).Scan(&chunk.ID, &chunk.DocumentID, &chunk.SplitID, &chunk.Content)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query chunk: %w", err)
	}

	return &chunk, nil
}

// ListByTitle returns all chunks of the document with the given exact title,
// ordered ascending by split_id. An unknown title yields an empty slice.
func (r *ChunkRepo) ListByTitle(ctx context.Context, title string) ([]ChunkRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.id, c.document_id, c.split_id, c.content
		 FROM chunks c
		 JOIN documents d ON d.id = c.document_id
		 WHERE d.title = ?
		 ORDER BY c.split_id`,
		title,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks by title: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var chunks []ChunkRecord
	for rows.Next() {
		var chunk ChunkRecord
		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.SplitID, &chunk.Content); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return chunks, nil
}

// SearchLexical runs a BM25-ranked full-text search over chunk contents.
// FTS5's rank is smaller-is-better; it is negated so callers always see
// higher-is-better scores.
func (r *ChunkRepo) SearchLexical(ctx context.Context, query string, k int) ([]LexicalResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be greater than 0")
	}

	match := ftsQuery(query)
	if match == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT c.id, c.document_id, c.split_id, c.content, rank
		 FROM chunks_fts f
		 JOIN chunks c ON c.rowid = f.rowid
		 WHERE chunks_fts MATCH ?
		 ORDER BY rank
		 LIMIT ?`,
		match, k,
	)
	if err != nil {
		return nil, fmt.Errorf("lexical search: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var results []LexicalResult
	for rows.Next() {
		var res LexicalResult
		var rank float64
		if err := rows.Scan(&res.Chunk.ID, &res.Chunk.DocumentID, &res.Chunk.SplitID, &res.Chunk.Content, &rank); err != nil {
			return nil, fmt.Errorf("failed to scan lexical result: %w", err)
		}
		res.Score = -rank
		results = append(results, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return results, nil
}

// ftsQuery turns free text into a safe FTS5 MATCH expression: terms are
// stripped to letters and digits, quoted, and OR-combined so a chunk matching
// any query term is ranked rather than excluded.
func ftsQuery(query string) string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(fields) == 0 {
		return ""
	}
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		terms = append(terms, `"`+f+`"`)
	}
	return strings.Join(terms, " OR ")
}
