package http

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/custodia-labs/bridge-core/internal/core/ports/driven"
	"github.com/custodia-labs/bridge-core/internal/core/ports/driving"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	version    string
	logger     *slog.Logger

	// Services
	oauthService      driving.OAuthService
	credentialService driving.CredentialService
	itemService       driving.ItemService
	providerService   driving.ProviderService

	// Infrastructure
	verifier driven.TokenVerifier // nil disables service-token auth
	store    Pinger               // active KV store health check
}

// Config holds server configuration
type Config struct {
	Host    string
	Port    int
	Version string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:    "0.0.0.0",
		Port:    8080,
		Version: "dev",
	}
}

// NewServer creates a new HTTP server
func NewServer(
	cfg Config,
	oauthService driving.OAuthService,
	credentialService driving.CredentialService,
	itemService driving.ItemService,
	providerService driving.ProviderService,
	verifier driven.TokenVerifier, // can be nil
	store Pinger,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		router:            http.NewServeMux(),
		version:           cfg.Version,
		logger:            logger,
		oauthService:      oauthService,
		credentialService: credentialService,
		itemService:       itemService,
		providerService:   providerService,
		verifier:          verifier,
		store:             store,
	}

	requestLogger := NewRequestLogger(logger)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      requestLogger.Wrap(s.router),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Health endpoints (no auth)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)

	// Provider discovery (no auth, no tenant data)
	s.router.HandleFunc("GET /providers", s.handleListProviders)

	// Tenant-facing endpoints (service-token auth when configured)
	s.router.Handle("GET /authorize/{provider}", s.protected(http.HandlerFunc(s.handleAuthorize)))
	s.router.Handle("GET /credentials/{provider}", s.protected(http.HandlerFunc(s.handleTakeCredentials)))
	s.router.Handle("GET /items/{provider}", s.protected(http.HandlerFunc(s.handleListItems)))

	// Callback is public - receives redirects from OAuth providers
	s.router.HandleFunc("GET /oauth2callback/{provider}", s.handleOAuthCallback)
	s.router.HandleFunc("POST /oauth2callback/{provider}", s.handleOAuthCallback)
}

// protected wraps a handler with service-token auth when a verifier is
// configured.
func (s *Server) protected(h http.Handler) http.Handler {
	if s.verifier == nil {
		return h
	}
	return NewAuthMiddleware(s.verifier).Authenticate(h)
}

// Start starts the HTTP server with graceful shutdown
func (s *Server) Start() error {
	// Channel to listen for OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		log.Printf("Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-stop
	log.Println("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
