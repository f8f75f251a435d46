// Package router classifies incoming queries so the service can choose
// between chunk-level retrieval and whole-document summarization.
package router

import (
	"context"
	"fmt"
	"strings"

	"wikirag/internal/contextutil"
	"wikirag/internal/llm"
	"wikirag/internal/rag"
)

// Intent is the routed query category.
type Intent string

const (
	IntentRetrieval     Intent = "Retrieval"
	IntentSummarization Intent = "Summarization"
)

// Classification is the routing decision for one query.
type Classification struct {
	Intent        Intent
	MatchedTitles []string
	// Ambiguous is set when the model's output named neither intent and the
	// Retrieval default was applied.
	Ambiguous bool
}

// Classifier routes queries using the generation backend plus literal
// matching over the known document titles.
type Classifier struct {
	generator rag.Generator
	documents TitleLister
}

// TitleLister supplies the known document titles.
type TitleLister interface {
	ListTitles(ctx context.Context) ([]string, error)
}

// NewClassifier creates a query classifier.
func NewClassifier(generator rag.Generator, documents TitleLister) *Classifier {
	return &Classifier{generator: generator, documents: documents}
}

// Classify determines the intent of a query and any document titles it
// references. Model failures and garbled output both degrade to Retrieval;
// classification never fails a query on its own unless the title listing
// itself is unavailable.
func (c *Classifier) Classify(ctx context.Context, query string) (Classification, error) {
	logger := contextutil.LoggerFromContext(ctx)

	titles, err := c.documents.ListTitles(ctx)
	if err != nil {
		return Classification{}, fmt.Errorf("list document titles: %w", err)
	}

	raw, err := c.generator.Generate(ctx, analyzerPrompt(query, titles))
	if err != nil {
		logger.Warn("query classification unavailable, defaulting to retrieval", "error", err)
		return Classification{Intent: IntentRetrieval, Ambiguous: true}, nil
	}

	verdict := llm.ExtractAfterTag(raw, "think")
	result := parseVerdict(verdict, titles)

	logger.Info("query classified",
		"intent", result.Intent,
		"matched_titles", result.MatchedTitles,
		"ambiguous", result.Ambiguous,
	)
	return result, nil
}

// parseVerdict extracts intent and referenced titles from the model's
// free-text classification. Summarization wins when both literals appear;
// neither literal falls back to Retrieval.
func parseVerdict(verdict string, titles []string) Classification {
	var result Classification

	switch {
	case strings.Contains(verdict, string(IntentSummarization)):
		result.Intent = IntentSummarization
	case strings.Contains(verdict, string(IntentRetrieval)):
		result.Intent = IntentRetrieval
	default:
		result.Intent = IntentRetrieval
		result.Ambiguous = true
	}

	lowered := strings.ToLower(verdict)
	for _, title := range titles {
		if title == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(title)) {
			result.MatchedTitles = append(result.MatchedTitles, title)
		}
	}

	return result
}
