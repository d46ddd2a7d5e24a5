// Package server exposes the snapshot aggregations as a JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/verte-zerg/rankview/internal/model"
	"github.com/verte-zerg/rankview/internal/snapshot"
)

const shutdownTimeout = 10 * time.Second

// Options configures the HTTP server.
type Options struct {
	Addr string
	// AppVersion is reported by /api/version next to the snapshot version.
	AppVersion string
}

// Server serves one immutable snapshot. Handlers only read it, so requests
// need no locking.
type Server struct {
	snap       model.Snapshot
	warnings   []snapshot.Warning
	appVersion string
	router     chi.Router
	httpServer *http.Server
}

// New builds the router for a loaded snapshot.
func New(snap model.Snapshot, warnings []snapshot.Warning, opts Options) *Server {
	s := &Server{
		snap:       snap,
		warnings:   warnings,
		appVersion: opts.AppVersion,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(api chi.Router) {
		api.Get("/version", s.handleVersion)
		api.Get("/durations", s.handleDurations)
		api.Get("/machines", s.handleMachines)
		api.Get("/editors", s.handleEditors)
		api.Get("/languages", s.handleLanguages)
		api.Get("/characters", s.handleCharacters)
		api.Get("/summary", s.handleSummary)
		api.Get("/chart/languages", s.handleLanguageChart)
		api.Get("/chart/characters", s.handleCharacterChart)
		api.Get("/trend", s.handleTrend)
	})
	s.router = r

	s.httpServer = &http.Server{
		Addr:              opts.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to serve: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
