package storage

import "time"

// DocumentRecord represents an ingested wiki page in the database.
// A document is immutable once indexed; re-ingestion replaces it and all of
// its chunks wholesale.
type DocumentRecord struct {
	ID           string // wiki page ID
	Title        string
	SourceURL    string
	AuthorName   string
	AuthorEmail  string
	AuthorID     string
	LastModified string // display form from the source, stored as-is
	BlockStats   string // JSON block-category counts from normalization
	IndexedAt    time.Time
}

// ChunkRecord represents one bounded slice of a document's normalized text.
type ChunkRecord struct {
	ID         string // UUID, shared with the vector store point ID
	DocumentID string
	SplitID    int // 0-based ordinal, defines reconstruction order
	Content    string
}

// Metadata returns the presentation metadata keys carried by every chunk of
// the document.
func (d *DocumentRecord) Metadata() map[string]string {
	return map[string]string{
		"Page_Title":   d.Title,
		"Author_Name":  d.AuthorName,
		"Author_Email": d.AuthorEmail,
		"Page_URL":     d.SourceURL,
		"Date":         d.LastModified,
	}
}
