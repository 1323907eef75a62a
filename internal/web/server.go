// Package web serves the upload form and delivers generated documents.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"attendgen/internal/config"
	"attendgen/internal/logger"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server wires the routes to a batch store
type Server struct {
	cfg   *config.Config
	store *Store
}

// NewServer creates a server using cfg for every batch
func NewServer(cfg *config.Config) *Server {
	return &Server{
		cfg:   cfg,
		store: NewStore(cfg.Server.KeepBatches),
	}
}

// Store returns the batch store
func (s *Server) Store() *Store {
	return s.store
}

// Handler returns the routed handler
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Post("/generate", s.handleGenerate)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/batches/{id}", func(r chi.Router) {
		r.Get("/", s.handleBatch)
		r.Get("/manifest.csv", s.handleManifest)
		r.Get("/report.xlsx", s.handleReport)
		r.Get("/{name}", s.handleDownload)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down within the
// configured grace period.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Listening on %s", s.cfg.Server.Addr)

	errChan := make(chan error, 1)
	go func() {
		errChan <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	grace := s.cfg.Server.ShutdownGrace
	if grace <= 0 {
		grace = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()

	logger.Info("Shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	<-errChan
	return nil
}
