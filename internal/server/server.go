package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/prathvinaik206-create/farmdirect/internal/config"
	"github.com/prathvinaik206-create/farmdirect/internal/middleware"
	"github.com/prathvinaik206-create/farmdirect/internal/telemetry"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wraps router with tracing, CORS and request logging and returns a
// ready server.
func New(cfg config.Config, router *mux.Router) *Server {
	handler := telemetry.Middleware(middleware.CORS(cfg.CORSOrigins, middleware.Logging(router)))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Handler returns the fully wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.inner.Handler
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
