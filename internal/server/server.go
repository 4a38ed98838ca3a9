// Package server exposes the implication editor's REST API: context reads,
// suggested-field derivation, and the field mutation endpoints the editor
// flushes change sets through.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/stateworks/go-implied/internal/store"
)

// Config assembles a Server.
type Config struct {
	Addr    string
	Store   *store.Store
	SpecDir string
	Logger  *zap.Logger
}

// Server wires the router, store, and renderers behind one http.Handler.
type Server struct {
	addr    string
	store   *store.Store
	specDir string
	log     *zap.Logger
	preview *previewRenderer
	router  chi.Router
}

// New validates the embedded OpenAPI contract, prepares the preview
// renderer, and registers all routes.
func New(cfg Config) (*Server, error) {
	if cfg.Store == nil {
		return nil, errors.New("server: store is required")
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if err := validateContract(context.Background()); err != nil {
		return nil, err
	}

	preview, err := newPreviewRenderer()
	if err != nil {
		return nil, err
	}

	s := &Server{
		addr:    cfg.Addr,
		store:   cfg.Store,
		specDir: cfg.SpecDir,
		log:     log,
		preview: preview,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(logging(s.log))
	r.Use(recovery(s.log))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/api/openapi.json", s.handleOpenAPI)

	r.Route("/api/implications", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Get("/context", s.handleContext)
		r.Get("/suggested-fields", s.handleSuggestedFields)
		r.Get("/preview", s.handlePreview)
		r.Post("/add-context-field", s.handleAddField)
		r.Post("/delete-context-field", s.handleDeleteField)
		r.Post("/update-context", s.handleUpdateContext)
	})
	return r
}

// Handler returns the assembled http.Handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.log.Warn("shutdown", zap.Error(err))
		}
	}()

	s.log.Info("listening", zap.String("addr", s.addr))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}
