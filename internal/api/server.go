package api

import (
	"log/slog"
	"net/http"

	"github.com/dmoon/examview/internal/config"
	"github.com/dmoon/examview/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for examview.
type Server struct {
	router   chi.Router
	sessions *session.Registry
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(sessions *session.Registry, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		sessions: sessions,
		log:      log,
		cfg:      cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Gated endpoints.
	r.Group(func(r chi.Router) {
		if s.cfg.AccessPassword != "" {
			r.Use(AuthMiddleware(s.cfg.AccessPassword))
		}
		r.Use(s.withSession)

		r.Get("/api/files", s.handleListFiles)
		r.Post("/api/files", s.handleUpload)
		r.Put("/api/files/current", s.handleSelectFile)

		r.Get("/api/document", s.handleDocument)
		r.Get("/api/questions", s.handleListQuestions)
		r.Get("/api/questions/{index}", s.handleGetQuestion)
		r.Get("/api/summary", s.handleSummary)
		r.Get("/api/export", s.handleExport)

		r.Post("/api/validate", s.handleValidate)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
