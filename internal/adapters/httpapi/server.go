// Package httpapi exposes the scaffold service over HTTP.
//
// Concurrent requests targeting the same project are serialised by the
// route registry, so every accepted merge lands in the route table.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/example/crudkit/internal/errs"
	"github.com/example/crudkit/internal/frameworks"
	"github.com/example/crudkit/internal/logging"
	"github.com/example/crudkit/internal/ports/primary"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
	maxBodyBytes      = 1 << 20
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Kind    string `json:"kind,omitempty"`
}

// ScaffoldBody is the JSON body of POST /v1/scaffold.
type ScaffoldBody struct {
	Model       string `json:"model"`
	Framework   string `json:"framework"`
	ProjectPath string `json:"project_path"`
	ViewName    string `json:"view_name"`
	Fields      string `json:"fields,omitempty"`
	DryRun      bool   `json:"dry_run,omitempty"`
	SkipInit    bool   `json:"skip_init,omitempty"`
}

// FrameworkInfo describes one supported framework.
type FrameworkInfo struct {
	ID         string `json:"id"`
	Extension  string `json:"extension"`
	RouterPath string `json:"router_path"`
}

// Defaults fills request fields the client left empty. ProjectPath is also
// the root every requested project path must stay inside.
type Defaults struct {
	Framework   string
	ProjectPath string
	ViewName    string
}

// Server serves the scaffold API.
type Server struct {
	service  primary.ScaffoldService
	defaults Defaults
	logger   zerolog.Logger
	router   chi.Router
}

// NewServer creates a Server and registers its routes.
func NewServer(service primary.ScaffoldService, defaults Defaults, logger zerolog.Logger) *Server {
	s := &Server{
		service:  service,
		defaults: defaults,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{
			Error:   "Not Found",
			Message: fmt.Sprintf("Path %s not found", r.URL.Path),
		})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{
			Error:   "Method Not Allowed",
			Message: fmt.Sprintf("Method %s not allowed for %s", r.Method, r.URL.Path),
		})
	})

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/frameworks", s.handleFrameworks)
		r.Get("/schemas/{model}", s.handleSchema)
		r.Post("/scaffold", s.handleScaffold)
		r.Get("/routes", s.handleRoutes)
	})

	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", ln.Addr().String()).Msg("http api listening")
		errCh <- srv.Serve(ln)
	}()

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
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info().Msg("http api stopped")
	return nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		logger := s.logger.With().Str("request_id", middleware.GetReqID(r.Context())).Logger()
		next.ServeHTTP(ww, r.WithContext(logging.WithContext(r.Context(), logger)))
		logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleFrameworks(w http.ResponseWriter, r *http.Request) {
	ids := frameworks.Supported()
	out := make([]FrameworkInfo, 0, len(ids))
	for _, id := range ids {
		fw, err := frameworks.New(id)
		if err != nil {
			s.writeError(w, err)
			return
		}
		out = append(out, FrameworkInfo{ID: id, Extension: fw.FileExtension(), RouterPath: fw.RouterPath()})
	}
	writeJSON(w, http.StatusOK, map[string]any{"frameworks": out})
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	model := chi.URLParam(r, "model")
	schema, err := s.service.DescribeSchema(r.Context(), primary.SchemaRequest{
		Model:  model,
		Fields: r.URL.Query().Get("fields"),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"model": model, "attributes": schema})
}

func (s *Server) handleScaffold(w http.ResponseWriter, r *http.Request) {
	var body ScaffoldBody
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   http.StatusText(http.StatusBadRequest),
			Message: fmt.Sprintf("invalid JSON: %v", err),
		})
		return
	}

	projectPath, err := s.projectPath(body.ProjectPath)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp, err := s.service.Scaffold(r.Context(), primary.ScaffoldRequest{
		Model:       body.Model,
		Framework:   orDefault(body.Framework, s.defaults.Framework),
		ProjectPath: projectPath,
		ViewName:    orDefault(body.ViewName, s.defaults.ViewName),
		Fields:      body.Fields,
		DryRun:      body.DryRun,
		SkipInit:    body.SkipInit,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	status := http.StatusOK
	if len(resp.Failed()) > 0 {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	projectPath, err := s.projectPath(q.Get("project_path"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	table, err := s.service.GetRoutes(r.Context(), primary.ProjectRef{
		Framework:   orDefault(q.Get("framework"), s.defaults.Framework),
		ProjectPath: projectPath,
		ViewName:    orDefault(q.Get("view_name"), s.defaults.ViewName),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"routes": table, "count": len(table)})
}

// writeError maps an error kind to a status code.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	kind := errs.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case errs.ErrKindConfiguration:
		status = http.StatusBadRequest
	case errs.ErrKindGeneration, errs.ErrKindPersistence:
		status = http.StatusUnprocessableEntity
	}
	if errors.Is(err, context.Canceled) {
		status = http.StatusServiceUnavailable
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error().Err(err).Msg("request failed")
	}

	writeJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: err.Error(),
		Kind:    kind.String(),
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

// projectPath resolves a client-supplied project path against the configured
// root. Relative paths are joined to the root and paths outside it are
// rejected.
func (s *Server) projectPath(requested string) (string, error) {
	root := filepath.Clean(s.defaults.ProjectPath)
	if requested == "" {
		return root, nil
	}

	p := requested
	if !filepath.IsAbs(p) {
		p = filepath.Join(root, p)
	}
	p = filepath.Clean(p)

	rel, err := filepath.Rel(root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errs.New(errs.ErrKindConfiguration, fmt.Sprintf("project_path %q is outside %s", requested, root))
	}
	return p, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
