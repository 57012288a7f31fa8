// Package server exposes the profile builder over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-profilegen/internal/metrics"
	"github.com/goliatone/go-profilegen/pkg/chrome"
	"github.com/goliatone/go-profilegen/pkg/orchestrator"
	"github.com/goliatone/go-profilegen/pkg/profile"
	"github.com/goliatone/go-profilegen/pkg/shell"
	"github.com/goliatone/go-profilegen/pkg/widgets"
)

const maxBodyBytes = 1 << 20

// Options configures the server.
type Options struct {
	// Origin is used for share links. Empty derives it from each request.
	Origin string
	// Username is the profile edited on /profile.
	Username string
	// Assets is served under /assets/.
	Assets fs.FS
	Logger *slog.Logger
}

// Server is the HTTP front of an orchestrator.
type Server struct {
	app      *orchestrator.Orchestrator
	origin   string
	username string
	assets   fs.FS
	logger   *slog.Logger
}

// New builds a server over app.
func New(app *orchestrator.Orchestrator, opts Options) (*Server, error) {
	if app == nil {
		return nil, errors.New("server: orchestrator is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	username := strings.TrimSpace(opts.Username)
	if username == "" {
		username = shell.PlaceholderUsername
	}
	return &Server{
		app:      app,
		origin:   strings.TrimRight(strings.TrimSpace(opts.Origin), "/"),
		username: username,
		assets:   opts.Assets,
		logger:   logger,
	}, nil
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(s.requestLogger)

	router.Get("/healthz", s.handleHealthz)
	router.Handle("/metrics", metrics.Handler())
	if s.assets != nil {
		router.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(s.assets))))
	}

	router.Route("/api", func(r chi.Router) {
		r.Route("/widgets", func(r chi.Router) {
			r.Get("/", s.handleListWidgets)
			r.Get("/schemas", s.handleWidgetSchemas)
			r.Get("/{type}/schema", s.handleWidgetSchema)
			r.Post("/{type}/validate", s.handleValidateWidget)
		})
		r.Route("/profile", func(r chi.Router) {
			r.Get("/", s.handleGetProfile)
			r.Post("/widgets", s.handleAddWidget)
			r.Put("/widgets/{id}", s.handleUpdateWidget)
			r.Delete("/widgets/{id}", s.handleRemoveWidget)
		})
	})

	router.Route("/profile", func(r chi.Router) {
		r.Get("/", s.handleShell)
		r.Get("/preview", s.handlePreview)
		r.Post("/widgets/{id}", s.handleSubmitForm)
	})
	router.Get("/{username}", s.handlePublic)

	return router
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Int("bytes", ww.BytesWritten()),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// originFor returns the configured origin or one derived from r. The
// derived form trusts Host and X-Forwarded-Proto, so it is only meant for
// local use or behind a proxy that sets both; the scheme is limited to
// http/https and hosts carrying URL delimiters fall back to localhost.
func (s *Server) originFor(r *http.Request) string {
	if s.origin != "" {
		return s.origin
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	switch forwarded := strings.ToLower(strings.TrimSpace(r.Header.Get("X-Forwarded-Proto"))); forwarded {
	case "http", "https":
		scheme = forwarded
	}
	host := r.Host
	if host == "" || strings.ContainsAny(host, "/\\@?#\"'<> \t") {
		host = "localhost"
	}
	return scheme + "://" + host
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListWidgets(w http.ResponseWriter, _ *http.Request) {
	descriptors := s.app.Widgets().List()
	out := make([]widgets.Meta, 0, len(descriptors))
	for _, descriptor := range descriptors {
		out = append(out, descriptor.Metadata())
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleWidgetSchemas(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.app.Widgets().Schemas())
}

func (s *Server) handleWidgetSchema(w http.ResponseWriter, r *http.Request) {
	descriptor, err := s.app.Widgets().Lookup(widgets.WidgetType(chi.URLParam(r, "type")))
	if err != nil {
		respondError(w, statusFor(err), err)
		return
	}
	respondJSON(w, http.StatusOK, descriptor.Schema())
}

func (s *Server) handleValidateWidget(w http.ResponseWriter, r *http.Request) {
	raw, err := readBody(w, r)
	if err != nil {
		respondError(w, bodyStatus(err), err)
		return
	}
	_, result, err := s.app.Validate(widgets.WidgetType(chi.URLParam(r, "type")), raw)
	if err != nil {
		respondError(w, statusFor(err), err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.app.Profile(r.Context(), s.username)
	if err != nil {
		respondError(w, statusFor(err), err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

type addWidgetRequest struct {
	Type widgets.WidgetType `json:"type"`
}

func (s *Server) handleAddWidget(w http.ResponseWriter, r *http.Request) {
	raw, err := readBody(w, r)
	if err != nil {
		respondError(w, bodyStatus(err), err)
		return
	}
	var req addWidgetRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	instance, err := s.app.AddWidget(r.Context(), s.username, req.Type)
	if err != nil {
		respondError(w, statusFor(err), err)
		return
	}
	respondJSON(w, http.StatusCreated, instance)
}

type updateWidgetResponse struct {
	Widget     *profile.Instance        `json:"widget,omitempty"`
	Validation widgets.ValidationResult `json:"validation"`
}

func (s *Server) handleUpdateWidget(w http.ResponseWriter, r *http.Request) {
	raw, err := readBody(w, r)
	if err != nil {
		respondError(w, bodyStatus(err), err)
		return
	}
	instance, result, err := s.app.UpdateWidget(r.Context(), s.username, chi.URLParam(r, "id"), raw)
	switch {
	case errors.Is(err, orchestrator.ErrInvalidWidget):
		respondJSON(w, http.StatusUnprocessableEntity, updateWidgetResponse{Validation: result})
	case err != nil:
		respondError(w, statusFor(err), err)
	default:
		respondJSON(w, http.StatusOK, updateWidgetResponse{Widget: &instance, Validation: result})
	}
}

func (s *Server) handleRemoveWidget(w http.ResponseWriter, r *http.Request) {
	if err := s.app.RemoveWidget(r.Context(), s.username, chi.URLParam(r, "id")); err != nil {
		respondError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleShell(w http.ResponseWriter, r *http.Request) {
	s.renderShell(w, r, http.StatusOK, shell.EditorState{Notice: r.URL.Query().Get("notice")})
}

func (s *Server) renderShell(w http.ResponseWriter, r *http.Request, status int, state shell.EditorState) {
	ctx := chrome.WithStore(r.Context(), chrome.NewStore())
	var buf strings.Builder
	if err := s.app.RenderShell(ctx, &buf, s.originFor(r), s.username, state); err != nil {
		s.logger.Error("render shell failed", "error", err)
		respondError(w, statusFor(err), err)
		return
	}
	respondHTML(w, status, buf.String())
}

func (s *Server) handleSubmitForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		respondError(w, bodyStatus(err), err)
		return
	}
	id := chi.URLParam(r, "id")
	draft, result, err := s.app.SubmitForm(r.Context(), s.username, id, r.PostForm)
	switch {
	case errors.Is(err, orchestrator.ErrInvalidWidget):
		var state shell.EditorState
		state.Invalid(id, draft, result)
		s.renderShell(w, r, http.StatusUnprocessableEntity, state)
	case err != nil:
		respondError(w, statusFor(err), err)
	default:
		http.Redirect(w, r, "/profile?notice=Cambios+guardados", http.StatusSeeOther)
	}
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	html, err := s.app.RenderPreview(r.Context(), s.username)
	if err != nil {
		respondError(w, statusFor(err), err)
		return
	}
	respondHTML(w, http.StatusOK, string(html))
}

func (s *Server) handlePublic(w http.ResponseWriter, r *http.Request) {
	var buf strings.Builder
	if err := s.app.RenderPublic(r.Context(), &buf, chi.URLParam(r, "username")); err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		s.logger.Error("render public failed", "error", err)
		respondError(w, statusFor(err), err)
		return
	}
	respondHTML(w, http.StatusOK, buf.String())
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
}

// bodyStatus maps a readBody or ParseForm failure to a status code.
func bodyStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

func statusFor(err error) int {
	var decodeErr *widgets.DecodeError
	switch {
	case errors.Is(err, widgets.ErrUnknownWidget),
		errors.Is(err, profile.ErrNotFound),
		errors.Is(err, profile.ErrWidgetNotFound):
		return http.StatusNotFound
	case errors.As(err, &decodeErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, struct {
		Error  string `json:"error"`
		Status int    `json:"status"`
	}{Error: err.Error(), Status: status})
}

func respondHTML(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}
