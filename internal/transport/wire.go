package transport

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jamesprial/mcp-oauth-2.1/internal/config"
	"github.com/jamesprial/mcp-oauth-2.1/internal/core"
	"github.com/jamesprial/mcp-oauth-2.1/internal/keyset"
	"github.com/jamesprial/mcp-oauth-2.1/internal/mcp"
	"github.com/jamesprial/mcp-oauth-2.1/internal/oauth"
	"github.com/jamesprial/mcp-oauth-2.1/internal/transport/internal/handlers"
	transporthttp "github.com/jamesprial/mcp-oauth-2.1/internal/transport/internal/http"
	"github.com/jamesprial/mcp-oauth-2.1/internal/transport/internal/middleware"
)

// NewServer creates a configured HTTP server.
// The server is configured with timeouts from the config and uses the provided router.
func NewServer(cfg *config.Config, router Router) Server {
	return transporthttp.NewServer(cfg, router)
}

// NewRouter creates a new HTTP router backed by http.ServeMux.
func NewRouter() Router {
	return transporthttp.NewRouter()
}

// NewAuthMiddleware creates authentication middleware backed by the
// Authorization Callback (spec.md §4.6). authCfg carries the shared,
// read-only pipeline configuration (key set, required scope, DPoP policy).
func NewAuthMiddleware(authCfg core.Config, responder ErrorResponder) AuthMiddleware {
	return middleware.NewAuthMiddleware(authCfg, responder)
}

// NewErrorResponder creates an error responder for non-auth error paths.
func NewErrorResponder() ErrorResponder {
	return transporthttp.NewErrorResponder()
}

// NewMetadataHandler creates the OAuth protected resource metadata handler.
// It serves metadata at /.well-known/oauth-protected-resource per RFC 9728.
func NewMetadataHandler(service oauth.MetadataService, responder ErrorResponder) http.Handler {
	return handlers.NewMetadataHandler(service, responder)
}

// NewMCPHandler creates the MCP protocol handler.
// It handles JSON-RPC requests at the configured MCP endpoint.
func NewMCPHandler(handler mcp.Handler, responder ErrorResponder) http.Handler {
	return handlers.NewMCPHandler(handler, responder)
}

// NewHealthHandler creates the health check handler.
// It provides a simple health status endpoint.
func NewHealthHandler(responder ErrorResponder) http.Handler {
	return handlers.NewHealthHandler(responder)
}

// NewLoggingMiddleware creates request logging middleware.
// It logs HTTP request details using structured logging.
// If logger is nil, it uses the default slog logger.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return middleware.NewLoggingMiddleware(logger)
}

// NewRecoveryMiddleware creates panic recovery middleware.
// It recovers from panics and returns a 500 error to the client.
// If logger is nil, it uses the default slog logger.
func NewRecoveryMiddleware(responder ErrorResponder, logger *slog.Logger) Middleware {
	return middleware.NewRecoveryMiddleware(responder, logger)
}

// Config holds the configuration needed for the transport layer.
type Config struct {
	// ServerConfig is the server configuration.
	ServerConfig *config.Config

	// KeySet is the public key set the Signature Verifier checks
	// token signatures against, built by the caller from either
	// ServerConfig.JWKSStatic or ServerConfig.JWKSURL.
	KeySet keyset.Set

	// MetadataService provides protected resource metadata.
	MetadataService oauth.MetadataService

	// MCPHandler processes MCP protocol requests.
	MCPHandler mcp.Handler
}

// buildAuthConfig translates the flat environment configuration into the
// Authorization Callback's core.Config (spec.md §3), resolving TokenMethod's
// string form into a core.TokenLocation.
func buildAuthConfig(cfg *config.Config, keys keyset.Set, resourceMetadataURL string) (core.Config, error) {
	var method core.TokenLocation
	switch cfg.TokenMethod {
	case "", "header":
		method = core.Header
	case "body":
		method = core.Body
	case "query":
		method = core.Query
	default:
		return core.Config{}, fmt.Errorf("unknown OAUTH_TOKEN_METHOD %q", cfg.TokenMethod)
	}

	return core.Config{
		Method:              method,
		Realm:               cfg.Realm,
		ResourceMetadataURL: resourceMetadataURL,
		RequiredScope:       cfg.RequiredScope,
		AcceptAccessToken:   cfg.AcceptAccessToken,
		AcceptClientToken:   cfg.AcceptClientToken,
		KeySet:              keys,
		RemoteKeys: core.RemoteKeyPolicy{
			AllowX5U:     cfg.AllowX5U,
			FetchTimeout: cfg.RemoteKeyFetchTimeout,
		},
		HTM:    cfg.DPoPHTM,
		HTU:    cfg.DPoPHTU,
		MaxIAT: durationOrDefault(cfg.DPoPMaxIAT, 5*time.Minute),
	}, nil
}

func durationOrDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}

// NewTransportServices creates all transport layer services from the configuration.
// This is a convenience function for dependency injection that wires up the complete
// HTTP transport layer with routing, middleware, and handlers.
func NewTransportServices(cfg *Config) (Server, Router, error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.ServerConfig == nil {
		return nil, nil, fmt.Errorf("server config cannot be nil")
	}
	if cfg.KeySet == nil {
		return nil, nil, fmt.Errorf("key set cannot be nil")
	}
	if cfg.MetadataService == nil {
		return nil, nil, fmt.Errorf("metadata service cannot be nil")
	}
	if cfg.MCPHandler == nil {
		return nil, nil, fmt.Errorf("mcp handler cannot be nil")
	}

	// Get metadata URL from service
	metadataURL := cfg.MetadataService.GetMetadataURL()

	authCfg, err := buildAuthConfig(cfg.ServerConfig, cfg.KeySet, metadataURL)
	if err != nil {
		return nil, nil, fmt.Errorf("build auth config: %w", err)
	}

	// Create error responder
	responder := NewErrorResponder()

	// Create middleware
	recoveryMiddleware := NewRecoveryMiddleware(responder, nil)
	loggingMiddleware := NewLoggingMiddleware(nil)
	authMiddleware := NewAuthMiddleware(authCfg, responder)

	// Create handlers
	metadataHandler := NewMetadataHandler(cfg.MetadataService, responder)
	mcpHandler := NewMCPHandler(cfg.MCPHandler, responder)
	healthHandler := NewHealthHandler(responder)

	// Create router
	router := NewRouter()

	// Apply global middleware
	router.Use(recoveryMiddleware, loggingMiddleware)

	// Register routes
	// Public endpoints (no auth required)
	router.Handle("GET /.well-known/oauth-protected-resource", metadataHandler)
	router.Handle("GET /health", healthHandler)

	// Protected endpoints (auth required)
	authenticatedMCP := authMiddleware.Authenticate()(mcpHandler)
	router.Handle("POST /mcp", authenticatedMCP)

	// Create server
	server := NewServer(cfg.ServerConfig, router)

	return server, router, nil
}
