package rag

import "testing"

func TestFuseDeduplicates(t *testing.T) {
	lexical := []Candidate{
		{ChunkID: "a", DocumentID: "doc-1", SplitID: 0, Content: "alpha"},
		{ChunkID: "b", DocumentID: "doc-1", SplitID: 1, Content: "beta"},
	}
	dense := []Candidate{
		{ChunkID: "a", DocumentID: "doc-1", SplitID: 0, Content: "alpha"},
		{ChunkID: "c", DocumentID: "doc-2", SplitID: 0, Content: "gamma"},
	}

	fused := fuse(lexical, dense)
	if len(fused) != 3 {
		t.Fatalf("fuse() returned %d candidates, want 3", len(fused))
	}

	// The shared chunk appears once with both source labels.
	shared := fused[0]
	if shared.ChunkID != "a" {
		t.Fatalf("first fused candidate = %q, want a", shared.ChunkID)
	}
	if _, ok := shared.Sources[SourceLexical]; !ok {
		t.Error("shared candidate missing lexical source label")
	}
	if _, ok := shared.Sources[SourceDense]; !ok {
		t.Error("shared candidate missing dense source label")
	}

	// Single-arm candidates carry exactly their own label.
	if len(fused[1].Sources) != 1 {
		t.Errorf("lexical-only candidate sources = %v, want one label", fused[1].Sources)
	}
	if _, ok := fused[2].Sources[SourceDense]; !ok || len(fused[2].Sources) != 1 {
		t.Errorf("dense-only candidate sources = %v, want only dense", fused[2].Sources)
	}
}

func TestFuseDistinguishesSplitIDs(t *testing.T) {
	// Same document, different splits: both kept.
	lexical := []Candidate{{ChunkID: "a", DocumentID: "doc-1", SplitID: 0}}
	dense := []Candidate{{ChunkID: "b", DocumentID: "doc-1", SplitID: 1}}

	fused := fuse(lexical, dense)
	if len(fused) != 2 {
		t.Errorf("fuse() returned %d candidates, want 2", len(fused))
	}
}

func TestFuseEmptyArms(t *testing.T) {
	if got := fuse(nil, nil); len(got) != 0 {
		t.Errorf("fuse(nil, nil) = %v, want empty", got)
	}

	dense := []Candidate{{ChunkID: "a", DocumentID: "d", SplitID: 0}}
	fused := fuse(nil, dense)
	if len(fused) != 1 {
		t.Fatalf("fuse(nil, dense) returned %d candidates, want 1", len(fused))
	}
	if _, ok := fused[0].Sources[SourceDense]; !ok {
		t.Error("candidate missing dense source label")
	}
}
