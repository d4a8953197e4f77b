package webview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/five82/herospath/internal/diff"
	"github.com/five82/herospath/internal/timeline"
)

const shutdownTimeout = 5 * time.Second

// Source provides the timeline to serve. *session.Session satisfies it.
type Source interface {
	Timeline() timeline.Reel
	Engine() *diff.Engine
}

// Server serves the timeline page and its JSON over HTTP.
type Server struct {
	source Source
	opts   PageOptions
	logger *slog.Logger
	router *chi.Mux
}

// TimelineResponse is the body of GET /api/timeline.
type TimelineResponse struct {
	Count      int         `json:"count"`
	IntervalMS int64       `json:"interval_ms"`
	Frames     []FrameData `json:"frames"`
}

// NewServer builds the router. Each request reads the current timeline from
// source, so recorded saves show up on reload.
func NewServer(source Source, opts PageOptions, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Engine == nil && source != nil {
		opts.Engine = source.Engine()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	s := &Server{source: source, opts: opts.withDefaults(), logger: logger, router: r}
	r.Get("/", s.handlePage)
	r.Get("/api/timeline", s.handleTimeline)
	r.Get("/healthz", s.handleHealth)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info("web viewer listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown web viewer: %w", err)
	}
	return nil
}

func (s *Server) reel() timeline.Reel {
	if s.source == nil {
		return timeline.Reel{}
	}
	return s.source.Timeline()
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	page, err := Page(s.reel(), s.opts)
	if err != nil {
		s.logger.Error("render page failed", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	reel := s.reel()
	resp := TimelineResponse{
		Count:      reel.Len(),
		IntervalMS: s.opts.Interval.Milliseconds(),
		Frames:     Frames(reel, s.opts),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Warn("encode timeline failed", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}
