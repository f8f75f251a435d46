package indexer

import (
	"context"
	"fmt"
	"testing"

	storage_mocks "wikirag/internal/storage/mocks"
	vectorstore_mocks "wikirag/internal/vectorstore/mocks"
	"wikirag/internal/wiki"

	"go.uber.org/mock/gomock"
)

// fakeEmbedder returns a fixed-size zero vector per input text.
type fakeEmbedder struct {
	size int
	err  error
}

func (f *fakeEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = make([]float32, f.size)
	}
	return out, nil
}

func TestNewPipeline(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	pipeline := NewPipeline(
		storage_mocks.NewMockDocumentStore(ctrl),
		storage_mocks.NewMockChunkStore(ctrl),
		vectorstore_mocks.NewMockVectorStore(ctrl),
		&fakeEmbedder{size: 8},
		"test-collection",
	)

	if pipeline == nil {
		t.Fatal("NewPipeline() returned nil")
	}
	if pipeline.splitter == nil {
		t.Error("NewPipeline() splitter should not be nil")
	}
	if pipeline.collection != "test-collection" {
		t.Errorf("NewPipeline() collection = %v, want test-collection", pipeline.collection)
	}
}

func TestPipelineRunIndexesPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDocs := storage_mocks.NewMockDocumentStore(ctrl)
	mockChunks := storage_mocks.NewMockChunkStore(ctrl)
	mockVectors := vectorstore_mocks.NewMockVectorStore(ctrl)

	page := wiki.Page{
		ID:          "page-1",
		Title:       "Employee Handbook",
		Body:        "<h1>Handbook</h1><p>Vacation policy details.</p>",
		AuthorName:  "Ada",
		AuthorEmail: "ada@example.com",
		WebURL:      "https://wiki.example.com/pages/1",
		When:        "yesterday",
	}

	mockDocs.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil)
	mockChunks.EXPECT().ListIDsByDocument(gomock.Any(), "page-1").Return([]string{"old-chunk"}, nil)
	mockVectors.EXPECT().Delete(gomock.Any(), "test-collection", []string{"old-chunk"}).Return(nil)
	mockChunks.EXPECT().ReplaceForDocument(gomock.Any(), "page-1", gomock.Any()).Return(nil)
	mockVectors.EXPECT().Upsert(gomock.Any(), "test-collection", gomock.Any()).Return(nil)

	pipeline := NewPipeline(mockDocs, mockChunks, mockVectors, &fakeEmbedder{size: 8}, "test-collection")

	report, err := pipeline.Run(context.Background(), []wiki.Page{page})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.PagesIndexed != 1 {
		t.Errorf("PagesIndexed = %d, want 1", report.PagesIndexed)
	}
	if report.PagesFailed != 0 {
		t.Errorf("PagesFailed = %d, want 0", report.PagesFailed)
	}
	if report.ChunksStored != 1 {
		t.Errorf("ChunksStored = %d, want 1", report.ChunksStored)
	}
}

func TestPipelineRunSkipsFailedPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDocs := storage_mocks.NewMockDocumentStore(ctrl)
	mockChunks := storage_mocks.NewMockChunkStore(ctrl)
	mockVectors := vectorstore_mocks.NewMockVectorStore(ctrl)

	// Both pages reach the document upsert; the embedder fails both, so
	// neither is indexed, but the run itself completes.
	mockDocs.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	mockChunks.EXPECT().ListIDsByDocument(gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)

	pipeline := NewPipeline(mockDocs, mockChunks, mockVectors, &fakeEmbedder{err: fmt.Errorf("backend down")}, "test-collection")

	pages := []wiki.Page{
		{ID: "a", Title: "First", Body: "<p>alpha</p>"},
		{ID: "b", Title: "Second", Body: "<p>beta</p>"},
	}
	report, err := pipeline.Run(context.Background(), pages)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.PagesFailed != 2 {
		t.Errorf("PagesFailed = %d, want 2", report.PagesFailed)
	}
	if report.PagesIndexed != 0 {
		t.Errorf("PagesIndexed = %d, want 0", report.PagesIndexed)
	}
}

func TestPipelineRunEmptyPageStoresDocumentOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDocs := storage_mocks.NewMockDocumentStore(ctrl)
	mockChunks := storage_mocks.NewMockChunkStore(ctrl)
	mockVectors := vectorstore_mocks.NewMockVectorStore(ctrl)

	mockDocs.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil)
	mockChunks.EXPECT().ListIDsByDocument(gomock.Any(), "empty").Return(nil, nil)
	mockChunks.EXPECT().ReplaceForDocument(gomock.Any(), "empty", gomock.Nil()).Return(nil)

	pipeline := NewPipeline(mockDocs, mockChunks, mockVectors, &fakeEmbedder{size: 8}, "test-collection")

	report, err := pipeline.Run(context.Background(), []wiki.Page{{ID: "empty", Title: "Blank", Body: ""}})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.PagesIndexed != 1 {
		t.Errorf("PagesIndexed = %d, want 1", report.PagesIndexed)
	}
	if report.ChunksStored != 0 {
		t.Errorf("ChunksStored = %d, want 0", report.ChunksStored)
	}
}
