package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/finreg-tools/corepqa/internal/config"
	"github.com/finreg-tools/corepqa/internal/extract"
	"github.com/finreg-tools/corepqa/internal/pipeline"
)

// QueryRunner answers one question with a validated result.
type QueryRunner interface {
	Run(ctx context.Context, question string) (pipeline.Result, error)
}

// Server is the HTTP API for the reporting assistant.
type Server struct {
	router   chi.Router
	pipeline QueryRunner
	llm      *extract.GroqClient
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server. llm may be nil; the
// stats endpoint then reports unavailable.
func NewServer(p QueryRunner, llm *extract.GroqClient, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		pipeline: p,
		llm:      llm,
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
	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)

	// Query endpoints; bearer auth only when a key is configured.
	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/query", s.handleQuery)
		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"message":"COREP Reporting Assistant is running"}`))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
