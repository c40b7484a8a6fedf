// Package server assembles the HTTP surface of the signal relay: webhook
// ingestion, status endpoints, quote lookups, and the WebSocket attach
// point, wrapped in the middleware chain.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/maelrouault/signalrelay/internal/domain"
	"github.com/maelrouault/signalrelay/internal/server/handler"
	"github.com/maelrouault/signalrelay/internal/server/middleware"
	"github.com/maelrouault/signalrelay/internal/server/ws"
)

// Config holds the HTTP server configuration.
type Config struct {
	Port        int
	CORSOrigins []string
	APIKey      string // guards the quote endpoint; empty disables auth

	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// Handlers aggregates the HTTP handlers the server registers. Quotes may be
// nil when no quote provider is configured; its route is then not served.
type Handlers struct {
	Webhook *handler.WebhookHandler
	Health  *handler.HealthHandler
	Status  *handler.StatusHandler
	Quotes  *handler.QuoteHandler
}

// Server is the HTTP + WebSocket front of the signal relay.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates a Server with all routes registered and the middleware
// chain applied: rate limiting (HTTP routes only, never the WebSocket
// attach), request logging, CORS.
func NewServer(cfg Config, handlers Handlers, wsHub *ws.Hub, limiter domain.RateLimiter, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	// Webhook ingestion; authorization is the path secret, checked by the
	// handler in constant time.
	mux.HandleFunc("POST /webhook/tradingview/{secret}", handlers.Webhook.Receive)

	// Info and status probes.
	mux.HandleFunc("GET /{$}", handlers.Status.Info)
	mux.HandleFunc("GET /test", handlers.Status.Probe)
	mux.HandleFunc("GET /api/health", handlers.Health.HealthCheck)

	// Quote lookup, behind the optional API key.
	if handlers.Quotes != nil {
		auth := middleware.Auth(cfg.APIKey)
		mux.Handle("GET /api/quote/{symbol}", auth(http.HandlerFunc(handlers.Quotes.GetQuote)))
	}

	limited := middleware.RateLimit(limiter, cfg.RateLimitRequests, cfg.RateLimitWindow)(mux)

	// The WebSocket endpoint sits outside the rate limiter: subscriber
	// connections are long-lived and must not consume the per-IP budget.
	root := http.NewServeMux()
	root.HandleFunc("GET /ws", wsHub.HandleWS)
	root.Handle("/", limited)

	var h http.Handler = root
	h = middleware.Logging(logger)(h)
	h = middleware.CORS(cfg.CORSOrigins)(h)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
	}
}

// Start begins listening for HTTP requests. It blocks until the server
// encounters an error or is shut down.
func (s *Server) Start() error {
	s.logger.Info("server: starting",
		slog.String("addr", s.httpServer.Addr),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server, waiting for in-flight requests
// to complete within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server: shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
