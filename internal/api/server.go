package api

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dgallion1/docchat/internal/config"
	"github.com/dgallion1/docchat/internal/llm"
)

// Completer produces one chat-completion answer for an assembled prompt.
// Satisfied by *llm.GroqClient; handler tests substitute a stub.
type Completer interface {
	Model() string
	Complete(ctx context.Context, req llm.CompletionRequest) (string, error)
}

// Server is the HTTP API server for docchat.
type Server struct {
	router    chi.Router
	completer Completer
	stats     *llm.Stats
	log       *slog.Logger
	cfg       config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(completer Completer, stats *llm.Stats, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		completer: completer,
		stats:     stats,
		log:       log,
		cfg:       cfg,
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
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{
			"X-CSRF-Token", "X-Requested-With", "Accept", "Accept-Version",
			"Content-Length", "Content-MD5", "Content-Type", "Date", "X-Api-Version",
		},
	}))

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	})

	r.Get("/health", s.handleHealth)
	r.Get("/stats/llm", s.handleLLMStats)

	r.Post("/extract-text", s.handleExtractText)
	r.Post("/analyze-text", s.handleAnalyzeText)
	r.Post("/chat-with-pdf", s.handleChatWithPDF)

	// Frontend assets, when present.
	if s.cfg.StaticDir != "" {
		if info, err := os.Stat(s.cfg.StaticDir); err == nil && info.IsDir() {
			r.Handle("/*", http.FileServer(http.Dir(s.cfg.StaticDir)))
		}
	}

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
