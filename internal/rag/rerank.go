package rag

import (
	"context"
	"sort"
	"strings"
	"unicode"
)

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_reranker.go -package=mocks wikirag/internal/rag Reranker

// Reranker assigns a query-relative relevance score to a chunk. Higher is
// better.
type Reranker interface {
	Score(ctx context.Context, query, content string) (float64, error)
}

const rerankLengthScale = 10.0

var rerankStopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "but": {}, "by": {},
	"for": {}, "from": {}, "has": {}, "have": {}, "in": {}, "is": {}, "it": {}, "of": {}, "on": {},
	"or": {}, "the": {}, "to": {}, "was": {}, "were": {}, "with": {},
}

// TokenOverlapReranker scores chunks by length-normalized query term
// frequency. It is deterministic and never errors, which keeps the rerank
// stage dependency-free.
type TokenOverlapReranker struct{}

// Score computes the overlap score of content against query.
func (TokenOverlapReranker) Score(_ context.Context, query, content string) (float64, error) {
	queryTokens := filterStopwords(tokenize(query))
	if len(queryTokens) == 0 {
		return 0, nil
	}

	contentTokens := tokenize(content)
	if len(contentTokens) == 0 {
		return 0, nil
	}

	freq := make(map[string]int, len(contentTokens))
	for _, token := range contentTokens {
		freq[token]++
	}

	var matches int
	for _, token := range queryTokens {
		matches += freq[token]
	}

	return float64(matches) / (1 + float64(len(contentTokens))) * rerankLengthScale, nil
}

// rerank scores every candidate and returns the top k in descending score
// order. The sort is stable so candidates with equal scores keep their
// retrieval order.
func rerank(ctx context.Context, r Reranker, query string, cands []Candidate, k int) ([]Candidate, error) {
	scored := make([]Candidate, len(cands))
	copy(scored, cands)

	for i := range scored {
		score, err := r.Score(ctx, query, scored[i].Content)
		if err != nil {
			return nil, err
		}
		scored[i].Score = score
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k > 0 && len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

func tokenize(text string) []string {
	if text == "" {
		return nil
	}

	var builder strings.Builder
	builder.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			builder.WriteRune(r)
		} else {
			builder.WriteRune(' ')
		}
	}
	tokens := strings.Fields(builder.String())
	if len(tokens) == 0 {
		return nil
	}
	return tokens
}

func filterStopwords(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}

	result := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, isStop := rerankStopwords[token]; isStop {
			continue
		}
		result = append(result, token)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
