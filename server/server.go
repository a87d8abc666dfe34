// Package server is the reference backend for the tracker wire protocol: a
// single GET endpoint that dispatches on the `route` query parameter and
// answers with a callback-wrapped JSON body, so browser clients can reach it
// from any origin without CORS.
package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/misexecutive/minda-corp/internal/config"
)

type Server struct {
	env    string
	router *mux.Router
	config config.Config
	tokens *TokenService

	users    *UserStore
	projects *ProjectStore
	updates  *UpdateStore
}

func New(cfg config.Config) (*Server, error) {
	s := &Server{
		env:      cfg.GetEnv(),
		router:   mux.NewRouter(),
		config:   cfg,
		tokens:   NewTokenService(cfg.GetTokenSecret(), cfg.GetTokenTTL()),
		users:    NewUserStore(),
		projects: NewProjectStore(),
		updates:  NewUpdateStore(),
	}

	if err := s.seed(); err != nil {
		return nil, fmt.Errorf("[Server New] failed to seed stores: %w", err)
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) initRoutes() {
	s.router.HandleFunc("/api", ChainMiddleware(s.APIHandler(), s.LoggingMiddleware, s.RecoverMiddleware)).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", s.HealthHandler()).Methods(http.MethodGet)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	logRoute(http.MethodGet, "/api")
	logRoute(http.MethodGet, "/healthz")
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}
}
