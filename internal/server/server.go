// Package server exposes the analysis and review pipeline over HTTP.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jonathan/voicereview/internal/config"
	"github.com/jonathan/voicereview/internal/db"
	"github.com/jonathan/voicereview/internal/llm"
	"github.com/jonathan/voicereview/internal/review"
	"github.com/jonathan/voicereview/internal/search"
	"github.com/jonathan/voicereview/internal/server/middleware"
	"github.com/jonathan/voicereview/internal/server/ratelimit"
)

// DefaultPort is used when the config does not set one.
const DefaultPort = 8080

// Server wires handlers, auth, and the pipeline services together.
type Server struct {
	cfg        *config.Config
	database   *db.DB
	client     llm.Client
	reviews    *review.Service
	searcher   *search.Client
	jwtService *JWTService
	passwords  *config.PasswordConfig
	limiter    *ratelimit.Limiter
	httpServer *http.Server
}

// Options carries the dependencies a Server needs beyond config.
type Options struct {
	Database  *db.DB
	Client    llm.Client
	Searcher  *search.Client // optional; place lookup is skipped when nil
	JWT       *config.JWTConfig
	Passwords *config.PasswordConfig
}

// New builds a Server with routes registered but not yet listening.
func New(cfg *config.Config, opts Options) (*Server, error) {
	if opts.Database == nil {
		return nil, fmt.Errorf("server requires a database")
	}
	if opts.Client == nil {
		return nil, fmt.Errorf("server requires a generator client")
	}
	if opts.JWT == nil {
		return nil, fmt.Errorf("server requires JWT configuration")
	}

	passwords := opts.Passwords
	if passwords == nil {
		var err error
		passwords, err = config.NewPasswordConfig()
		if err != nil {
			return nil, err
		}
	}

	s := &Server{
		cfg:        cfg,
		database:   opts.Database,
		client:     opts.Client,
		reviews:    review.NewService(opts.Database, opts.Client),
		searcher:   opts.Searcher,
		jwtService: NewJWTService(opts.JWT),
		passwords:  passwords,
		limiter:    ratelimit.NewLimiter(ratelimit.DefaultConfig()),
	}

	port := cfg.Port
	if port == 0 {
		port = DefaultPort
	}
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("GET /health", s.handleHealth)

	auth := middleware.Auth(s.jwtService.AsTokenValidator())
	mux.Handle("POST /api/analyze", auth(http.HandlerFunc(s.handleAnalyze)))
	mux.Handle("POST /api/reviews/generate", auth(http.HandlerFunc(s.handleGenerate)))
	mux.Handle("POST /api/reviews/edit", auth(http.HandlerFunc(s.handleEdit)))
	mux.Handle("GET /api/profile", auth(http.HandlerFunc(s.handleGetProfile)))
	mux.Handle("GET /api/reviews", auth(http.HandlerFunc(s.handleListReviews)))

	return mux
}

// ListenAndServe blocks until the server stops.
func (s *Server) ListenAndServe() error {
	log.Printf("[SERVER] listening on %s", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops listening.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
