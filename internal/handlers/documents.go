package handlers

import (
	"encoding/json"
	"net/http"

	"wikirag/internal/contextutil"
	"wikirag/internal/storage"
)

// DocumentsHandler lists the ingested documents.
type DocumentsHandler struct {
	documents storage.DocumentStore
}

// NewDocumentsHandler creates a new DocumentsHandler.
func NewDocumentsHandler(documents storage.DocumentStore) *DocumentsHandler {
	return &DocumentsHandler{documents: documents}
}

// DocumentsResponse is the list of known document titles.
type DocumentsResponse struct {
	Titles []string `json:"titles"`
}

// ServeHTTP returns the titles of every ingested document.
func (h *DocumentsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	titles, err := h.documents.ListTitles(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list documents", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to list documents"})
		return
	}
	if titles == nil {
		titles = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(DocumentsResponse{Titles: titles}); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}
