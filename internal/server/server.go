// Package server serves freshly generated declarations over HTTP, so a
// frontend dev server can pull types straight from the live database.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/koustreak/kyselygen/internal/codegen"
	"github.com/koustreak/kyselygen/internal/errs"
	"github.com/koustreak/kyselygen/internal/logger"
	"github.com/koustreak/kyselygen/internal/transform"
)

const (
	contentTypeTS   = "application/typescript; charset=utf-8"
	contentTypeJSON = "application/json"

	shutdownTimeout = 5 * time.Second
)

// Source produces a generation result. codegen.Generator.Run bound to a
// request is the usual implementation.
type Source func(ctx context.Context) (*codegen.Output, error)

// FromGenerator binds a generator to a request.
func FromGenerator(g *codegen.Generator, req codegen.Request) Source {
	return func(ctx context.Context) (*codegen.Output, error) {
		return g.Run(ctx, req)
	}
}

// Server regenerates on GET /types.ts and remembers the last result for
// GET /warnings.
type Server struct {
	source Source
	log    *logger.Logger

	mu   sync.Mutex
	last *codegen.Output
}

// New returns a server over source. A nil log discards output.
func New(source Source, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{source: source, log: log}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Get("/types.ts", s.handleTypes)
	r.Get("/warnings", s.handleWarnings)
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.With().Str("addr", addr).Logger().Info("dev server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errs.Wrap(errs.ErrKindConnectionFailed, "dev server failed", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errs.Wrap(errs.ErrKindTimeout, "dev server shutdown", err)
	}
	s.log.Info("dev server stopped")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTypes(w http.ResponseWriter, r *http.Request) {
	out, err := s.generate(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentTypeTS)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(out.Source))
}

type warningsResponse struct {
	Warnings []transform.Warning `json:"warnings"`
	Tables   int                 `json:"tables"`
	Enums    int                 `json:"enums"`
}

func (s *Server) handleWarnings(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := s.last
	s.mu.Unlock()

	if out == nil {
		var err error
		if out, err = s.generate(r.Context()); err != nil {
			s.writeError(w, err)
			return
		}
	}

	warnings := out.Warnings
	if warnings == nil {
		warnings = []transform.Warning{}
	}
	writeJSON(w, http.StatusOK, warningsResponse{Warnings: warnings, Tables: out.Tables, Enums: out.Enums})
}

func (s *Server) generate(ctx context.Context) (*codegen.Output, error) {
	out, err := s.source(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.last = out
	s.mu.Unlock()
	return out, nil
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.ErrorWith("generation failed", err, map[string]interface{}{"status": status})
	}
	writeJSON(w, status, map[string]string{
		"error": err.Error(),
		"kind":  errs.KindOf(err).String(),
	})
}

// statusFor maps an error kind to an HTTP status.
func statusFor(err error) int {
	switch errs.KindOf(err) {
	case errs.ErrKindInvalidInput:
		return http.StatusBadRequest
	case errs.ErrKindNotFound:
		return http.StatusNotFound
	case errs.ErrKindPermissionDenied:
		return http.StatusForbidden
	case errs.ErrKindTimeout:
		return http.StatusGatewayTimeout
	case errs.ErrKindConnectionFailed, errs.ErrKindQueryFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// requestLogger logs one line per request through the zerolog logger.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		s.log.RequestEvent().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("elapsed", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}
