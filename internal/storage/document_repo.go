package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_store.go -package=mocks wikirag/internal/storage DocumentStore

import (
	"context"
	"database/sql"
	"fmt"
)

// DocumentStore defines the interface for document metadata operations.
type DocumentStore interface {
	// Upsert inserts or fully replaces a document record.
	Upsert(ctx context.Context, doc *DocumentRecord) error
	// GetByID gets a document by its ID. Returns ErrNotFound if not found.
	GetByID(ctx context.Context, id string) (*DocumentRecord, error)
	// GetByTitle gets a document by its exact title. Returns ErrNotFound if not found.
	GetByTitle(ctx context.Context, title string) (*DocumentRecord, error)
	// ListTitles returns all known document titles.
	ListTitles(ctx context.Context) ([]string, error)
}

// DocumentRepo provides methods for document operations.
// It implements the DocumentStore interface.
type DocumentRepo struct {
	db *sql.DB
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// Upsert inserts or fully replaces a document record.
func (r *DocumentRepo) Upsert(ctx context.Context, doc *DocumentRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO documents (id, title, source_url, author_name, author_email, author_id, last_modified, block_stats)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			source_url = excluded.source_url,
			author_name = excluded.author_name,
			author_email = excluded.author_email,
			author_id = excluded.author_id,
			last_modified = excluded.last_modified,
			block_stats = excluded.block_stats,
			indexed_at = CURRENT_TIMESTAMP`,
		doc.ID, doc.Title, doc.SourceURL, doc.AuthorName, doc.AuthorEmail, doc.AuthorID, doc.LastModified, doc.BlockStats,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}
	return nil
}

// GetByID gets a document by its ID. Returns ErrNotFound if not found.
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*DocumentRecord, error) {
	return r.get(ctx, "id = ?", id)
}

// GetByTitle gets a document by its exact title. Returns ErrNotFound if not found.
func (r *DocumentRepo) GetByTitle(ctx context.Context, title string) (*DocumentRecord, error) {
	return r.get(ctx, "title = ?", title)
}

func (r *DocumentRepo) get(ctx context.Context, where string, arg any) (*DocumentRecord, error) {
	var doc DocumentRecord
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, source_url, author_name, author_email, author_id, last_modified, block_stats, indexed_at
		 FROM documents WHERE `+where, arg,
	).Scan(&doc.ID, &doc.Title, &doc.SourceURL, &doc.AuthorName, &doc.AuthorEmail, &doc.AuthorID, &doc.LastModified, &doc.BlockStats, &doc.IndexedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}
	return &doc, nil
}

// ListTitles returns all known document titles ordered alphabetically.
func (r *DocumentRepo) ListTitles(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT title FROM documents ORDER BY title")
	if err != nil {
		return nil, fmt.Errorf("failed to query titles: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("failed to scan title: %w", err)
		}
		titles = append(titles, title)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return titles, nil
}
