// Package server exposes the dashboard datasets as a JSON API and serves the
// single-page application that draws them.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/KaramelBytes/hpvdash/internal/dataset"
)

//go:embed static
var staticFiles embed.FS

// Loader produces a fresh bundle, typically dataset.LoadBundle over the data dir.
type Loader func() (*dataset.Bundle, error)

// Options configures a Server.
type Options struct {
	Load Loader
	Log  *zap.Logger
}

// Server holds the current bundle behind a lock so it can be swapped on reload.
type Server struct {
	mu     sync.RWMutex
	bundle *dataset.Bundle
	load   Loader
	log    *zap.Logger
	router chi.Router
}

// New loads the first bundle and builds the router.
func New(opt Options) (*Server, error) {
	if opt.Load == nil {
		return nil, errors.New("server: loader is required")
	}
	log := opt.Log
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{load: opt.Load, log: log}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler { return s.router }

// Bundle returns the bundle currently served.
func (s *Server) Bundle() *dataset.Bundle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bundle
}

// Reload replaces the bundle. On error the previous bundle keeps being served.
func (s *Server) Reload() error {
	b, err := s.load()
	if err != nil {
		return fmt.Errorf("load datasets: %w", err)
	}
	s.mu.Lock()
	s.bundle = b
	s.mu.Unlock()
	s.log.Info("datasets loaded", zap.Int("warnings", len(b.Warnings)), zap.Time("loaded_at", b.LoadedAt))
	return nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/organs", s.handleOrgans)
		r.Get("/organs/{id}", s.handleOrgan)

		r.Get("/cancers", s.handleCancerOptions)
		r.Get("/cancers/map", s.handleCancerMap)

		r.Get("/coverage/years", s.handleCoverageYears)
		r.Get("/coverage/map", s.handleCoverageMap)
		r.Get("/coverage/timeline", s.handleCoverageTimeline)
		r.Get("/coverage/next", s.handleCoverageNext)

		r.Get("/introductions", s.handleIntroductions)
		r.Get("/introductions/countries", s.handleIntroductionCountries)
		r.Get("/introductions/{year}", s.handleIntroductionYear)

		r.Get("/france/regions.geojson", s.handleRegions)
		r.Get("/france/screening", s.handleScreening)
		r.Get("/france/coverage/years", s.handleRegionalYears)
		r.Get("/france/coverage", s.handleRegionalMap)
		r.Get("/france/coverage/{region}", s.handleRegionEvolution)
	})
	r.Get("/charts/{name}.png", s.handleChartPNG)

	static, _ := fs.Sub(staticFiles, "static")
	r.Handle("/*", http.FileServer(http.FS(static)))
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("took", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
