// Package api exposes the quiz over JSON/HTTP.
package api

import (
	"errors"
	"io"
	"log"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Bradwave/parabolawhat/internal/explain"
	"github.com/Bradwave/parabolawhat/internal/problemgen"
	"github.com/Bradwave/parabolawhat/internal/scoring"
	"github.com/Bradwave/parabolawhat/internal/session"
)

// Options configures a Server. Generator and Session are required.
type Options struct {
	Generator *problemgen.Generator
	Policy    scoring.Policy
	Session   *session.Session

	// Explainer may be nil or disabled; /api/explain then answers 503.
	Explainer *explain.Service

	CORSOrigins []string
	Logger      *slog.Logger

	// RequestLog receives chi's access log lines. Nil disables it.
	RequestLog io.Writer
}

// Server serves one quiz session. The generator and the session are not
// safe for concurrent use, so every handler touching them holds mu.
type Server struct {
	mu      sync.Mutex
	gen     *problemgen.Generator
	policy  scoring.Policy
	sess    *session.Session
	explain *explain.Service
	logger  *slog.Logger

	handler http.Handler
}

// New builds the server and its routes.
func New(opts Options) (*Server, error) {
	if opts.Generator == nil {
		return nil, errors.New("api: generator is required")
	}
	if opts.Session == nil {
		return nil, errors.New("api: session is required")
	}
	s := &Server{
		gen:     opts.Generator,
		policy:  opts.Policy,
		sess:    opts.Session,
		explain: opts.Explainer,
		logger:  opts.Logger,
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s.handler = s.routes(opts)
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) routes(opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP)
	if opts.RequestLog != nil {
		r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
			Logger:  log.New(opts.RequestLog, "", log.LstdFlags),
			NoColor: true,
		}))
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/question", s.handleQuestion)
		r.Post("/distractors", s.handleDistractors)
		r.Post("/parse", s.handleParse)
		r.Post("/analyze", s.handleAnalyze)

		r.Route("/score", func(r chi.Router) {
			r.Post("/choice", s.handleScoreChoice)
			r.Post("/text", s.handleScoreText)
			r.Post("/drawing", s.handleScoreDrawing)
		})

		r.Route("/session", func(r chi.Router) {
			r.Get("/", s.handleSession)
			r.Post("/start", s.handleSessionStart)
			r.Post("/answer", s.handleSessionAnswer)
			r.Post("/retry", s.handleSessionRetry)
			r.Post("/next", s.handleSessionNext)
			r.Post("/exit", s.handleSessionExit)
		})

		r.Get("/stats", s.handleStats)
		r.Delete("/stats", s.handleResetStats)

		r.Post("/explain", s.handleExplain)
	})
	return r
}
