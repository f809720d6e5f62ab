package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	blogs "github.com/ts1257/acme-blogs"
	"github.com/ts1257/acme-blogs/internal/logging"
	"github.com/ts1257/acme-blogs/pkg/domain"
	"github.com/ts1257/acme-blogs/pkg/session"
)

// Server serves one board per viewer. Viewers are told apart by a session cookie.
type Server struct {
	Sessions *session.Manager
	Streams  *StreamManager

	metrics http.Handler
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithMetrics exposes h on GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates the HTTP handler for the boards held by sessions.
func NewHandler(sessions *session.Manager, opts ...Option) http.Handler {
	s := &Server{
		Sessions: sessions,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Get("/", s.GetPage)
	r.Get("/session", s.GetSession)
	r.Post("/select", s.Select)
	r.Post("/posts/{postID}/toggle", s.Toggle)
	r.Get("/events", s.SubscribeEvents)
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}
	return r
}

func requestLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("HTTP Request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

// GetPage handles GET / and writes the viewer's page.
func (s *Server) GetPage(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(w, r)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.Sessions.Render(r.Context(), sid, w); err != nil {
		s.fail(w, "Render", err)
	}
}

// GetSession handles GET /session and returns what the viewer currently sees.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(w, r)
	board, err := s.Sessions.Open(r.Context(), sid)
	if err != nil {
		s.fail(w, "GetSession", err)
		return
	}
	snap := board.Snapshot()
	snap.ID = sid
	writeJSON(w, http.StatusOK, snap)
}

// Select handles POST /select with the form field "user".
func (s *Server) Select(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	sid := sessionID(w, r)

	res, diff, err := s.Sessions.Select(r.Context(), sid, r.FormValue("user"))
	s.broadcast(sid, diff)
	if err != nil {
		s.fail(w, "Select", err)
		return
	}
	s.respond(w, r, res)
}

// Toggle handles POST /posts/{postID}/toggle.
func (s *Server) Toggle(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.Atoi(chi.URLParam(r, "postID"))
	if err != nil || postID <= 0 {
		http.Error(w, "Invalid post id", http.StatusBadRequest)
		return
	}
	sid := sessionID(w, r)

	res, diff, err := s.Sessions.Toggle(r.Context(), sid, postID)
	s.broadcast(sid, diff)
	if err != nil {
		s.fail(w, "Toggle", err)
		return
	}
	if !res.Found {
		http.Error(w, fmt.Sprintf("Post %d is not displayed", postID), http.StatusNotFound)
		return
	}
	s.respond(w, r, res)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	active := s.Sessions.Active()
	writeJSON(w, http.StatusOK, map[string]any{
		"app":      "acme-blogs-http",
		"version":  strings.TrimSpace(blogs.Version),
		"sessions": active,
	})
}

// respond answers API clients with JSON and browsers with a redirect back to the page.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, v any) {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		writeJSON(w, http.StatusOK, v)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) broadcast(sessionID string, diff *domain.SessionDiff) {
	if diff == nil {
		return
	}
	data, err := json.Marshal(diff)
	if err != nil {
		s.logger.Error("Failed to encode session diff", "session_id", sessionID, "error", err)
		return
	}
	s.Streams.Broadcast(sessionID, string(data))
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(op+" failed", "error", err)
	} else {
		s.logger.Warn(op+" rejected", "error", err)
	}
	http.Error(w, fmt.Sprintf("%s error: %v", op, err), status)
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrStaleRefresh):
		return http.StatusConflict
	case errors.Is(err, domain.ErrFetchFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
