package rag

import "context"

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_generator.go -package=mocks wikirag/internal/rag Generator

// Generator produces text from a prompt. Satisfied by llm.Client.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Response is one answered chunk: the generated text plus the provenance
// metadata of the document the chunk came from. Answer is nil when the
// generation backend was unavailable for this chunk.
type Response struct {
	Answer   *string           `json:"response"`
	Metadata map[string]string `json:"metadata"`
}

// retrieval source labels recorded on fused candidates.
const (
	SourceLexical = "lexical"
	SourceDense   = "dense"
)

// Candidate is one retrieved chunk before reranking. Sources records which
// retrieval arms produced it; a chunk found by both is kept once with both
// labels.
type Candidate struct {
	ChunkID    string
	DocumentID string
	SplitID    int
	Content    string
	Score      float64
	Sources    map[string]struct{}
}
