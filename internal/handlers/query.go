package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"wikirag/internal/contextutil"
	"wikirag/internal/rag"
	"wikirag/internal/router"
	"wikirag/internal/storage"
)

// metadataKeys are the provenance fields every response element carries.
// Absent values are filled with "Unknown" at presentation time; stored data
// is never defaulted.
var metadataKeys = []string{"Page_Title", "Author_Name", "Date", "Page_URL", "Author_Email"}

// QueryHandler handles question-answering requests over the ingested corpus.
type QueryHandler struct {
	engine     rag.Engine
	classifier *router.Classifier
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(engine rag.Engine, classifier *router.Classifier) *QueryHandler {
	return &QueryHandler{engine: engine, classifier: classifier}
}

// QueryRequest is the HTTP request payload for queries.
type QueryRequest struct {
	Query string `json:"query"`
}

// QueryResponse is the HTTP response payload: one element per grounded
// chunk or summarized document. Response is null for an element whose
// generation failed.
type QueryResponse struct {
	Responses []ResponseElement `json:"responses"`
}

// ResponseElement is one generated answer plus its source provenance.
type ResponseElement struct {
	Response *string           `json:"response"`
	Metadata map[string]string `json:"metadata"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ServeHTTP answers a query. The query is classified first: summarization
// requests that name a known document get whole-document summaries, anything
// else takes the retrieval path.
func (h *QueryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Query == "" {
		logger.WarnContext(ctx, "empty query in request")
		h.writeError(w, http.StatusBadRequest, "Query is required")
		return
	}

	verdict, err := h.classifier.Classify(ctx, req.Query)
	if err != nil {
		logger.ErrorContext(ctx, "classification failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to process query")
		return
	}

	var results []rag.Response
	if verdict.Intent == router.IntentSummarization && len(verdict.MatchedTitles) > 0 {
		results, err = h.summarize(r, verdict.MatchedTitles, req.Query)
	} else {
		results, err = h.engine.Answer(ctx, req.Query)
	}
	if err != nil {
		logger.ErrorContext(ctx, "query failed", "intent", verdict.Intent, "error", err)
		h.writeError(w, http.StatusBadGateway, "Failed to process query")
		return
	}

	elements := make([]ResponseElement, 0, len(results))
	for _, res := range results {
		elements = append(elements, ResponseElement{
			Response: res.Answer,
			Metadata: presentationMetadata(res.Metadata),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(QueryResponse{Responses: elements}); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// summarize produces one summary per matched title. A title that no longer
// resolves is skipped; if none resolve, the query falls back to retrieval.
func (h *QueryHandler) summarize(r *http.Request, titles []string, query string) ([]rag.Response, error) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	results := make([]rag.Response, 0, len(titles))
	for _, title := range titles {
		res, err := h.engine.Summarize(ctx, query, title)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				logger.WarnContext(ctx, "matched title not found, skipping", "title", title)
				continue
			}
			return nil, err
		}
		results = append(results, res)
	}

	if len(results) == 0 {
		return h.engine.Answer(ctx, query)
	}
	return results, nil
}

// presentationMetadata fills the canonical metadata keys, defaulting missing
// or empty values to "Unknown".
func presentationMetadata(meta map[string]string) map[string]string {
	out := make(map[string]string, len(metadataKeys))
	for _, key := range metadataKeys {
		if v, ok := meta[key]; ok && v != "" {
			out[key] = v
		} else {
			out[key] = "Unknown"
		}
	}
	return out
}

// writeError writes an error response.
func (h *QueryHandler) writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}
