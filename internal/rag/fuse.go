package rag

import "fmt"

// fuse merges the lexical and dense retrieval results into a single candidate
// list. Identity is (document_id, split_id): a chunk found by both arms
// appears once, with both source labels and the first-seen content. Order is
// lexical results first, then dense, each in their ranked order.
func fuse(lexical, dense []Candidate) []Candidate {
	seen := make(map[string]int, len(lexical)+len(dense))
	fused := make([]Candidate, 0, len(lexical)+len(dense))

	add := func(c Candidate, source string) {
		key := fmt.Sprintf("%s\x00%d", c.DocumentID, c.SplitID)
		if idx, ok := seen[key]; ok {
			fused[idx].Sources[source] = struct{}{}
			return
		}
		c.Sources = map[string]struct{}{source: {}}
		seen[key] = len(fused)
		fused = append(fused, c)
	}

	for _, c := range lexical {
		add(c, SourceLexical)
	}
	for _, c := range dense {
		add(c, SourceDense)
	}

	return fused
}
