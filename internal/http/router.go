// Package http wires the service's HTTP surface: routing, middleware, and
// handler registration.
package http

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"wikirag/internal/handlers"
	"wikirag/internal/rag"
	"wikirag/internal/router"
	"wikirag/internal/storage"
	"wikirag/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Engine      rag.Engine
	Classifier  *router.Classifier
	Documents   storage.DocumentStore
	DB          *sql.DB
	VectorStore vectorstore.VectorStore
	Collection  string
}

// NewRouter creates the HTTP router with all routes registered.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS)

	queryHandler := handlers.NewQueryHandler(deps.Engine, deps.Classifier)
	documentsHandler := handlers.NewDocumentsHandler(deps.Documents)
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.VectorStore, deps.Collection)

	r.Route("/api/v1", func(r chi.Router) {
		r.Method(http.MethodPost, "/query", queryHandler)
		r.Method(http.MethodGet, "/documents", documentsHandler)
	})
	r.Method(http.MethodGet, "/api/health", healthHandler)

	return r
}
