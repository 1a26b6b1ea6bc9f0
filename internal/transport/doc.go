// Package transport provides HTTP transport layer for the OAuth 2.1 MCP server.
//
// # Architecture
//
// The transport package implements the HTTP layer that connects OAuth 2.1 token
// validation with MCP protocol handling. It follows the adapter pattern to bridge
// the internal OAuth and MCP verticals with HTTP.
//
// Package structure:
//
//	internal/transport/
//	├── transport.go              # Public interfaces
//	├── errors.go                 # Transport domain errors
//	├── context.go                # Context keys and helpers
//	├── wire.go                   # Factory functions
//	├── internal/
//	│   ├── http/
//	│   │   ├── server.go         # HTTP server with graceful shutdown
//	│   │   ├── router.go         # HTTP routing
//	│   │   └── response.go       # Error responder for 500/400 responses
//	│   ├── middleware/
//	│   │   ├── auth.go           # Authentication middleware
//	│   │   ├── logging.go        # Request logging
//	│   │   └── recovery.go       # Panic recovery
//	│   └── handlers/
//	│       ├── metadata.go       # /.well-known/oauth-protected-resource
//	│       ├── mcp.go            # MCP protocol endpoint
//	│       └── health.go         # Health check endpoint
//
// # OAuth 2.1 Compliance
//
// The transport layer enforces OAuth 2.1 requirements:
//
//   - The access token is read from the location OAUTH_TOKEN_METHOD selects:
//     the Authorization header (default), the form body, or the query string
//   - 401 responses include WWW-Authenticate header with resource_metadata parameter
//   - Insufficient scope is also a 401, with error="insufficient_scope" and the required scopes
//   - Protected Resource Metadata is served at /.well-known/oauth-protected-resource
//
// # Middleware Chain
//
// The middleware chain is applied in this order:
//
//  1. Recovery - catches panics and returns 500 errors
//  2. Logging - logs request details
//  3. Authentication - runs the Authorization Callback, which also checks
//     the required scopes (protected routes only)
//
// # Error Handling
//
// Authentication failures follow RFC 6750 (Bearer Token Usage) and RFC 9728.
// Every failure is a 401 with a single WWW-Authenticate challenge and no body:
//
// Missing token:
//
//	HTTP/1.1 401 Unauthorized
//	WWW-Authenticate: Bearer error="invalid_token", error_description="The access token is missing", resource_metadata="https://example.com/.well-known/oauth-protected-resource"
//
// Insufficient scope:
//
//	HTTP/1.1 401 Unauthorized
//	WWW-Authenticate: Bearer error="insufficient_scope", error_description="The scope is invalid", scope="mcp:read mcp:write", resource_metadata="https://example.com/.well-known/oauth-protected-resource"
//
// # Usage Example
//
//	// Create transport services
//	cfg := &transport.Config{
//		ServerConfig:    serverConfig,
//		KeySet:          keySet,
//		MetadataService: metadataService,
//		MCPHandler:      mcpHandler,
//	}
//
//	server, router, err := transport.NewTransportServices(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Start server
//	if err := server.Start(); err != nil {
//		log.Fatal(err)
//	}
//
//	// Graceful shutdown
//	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
//	defer cancel()
//	if err := server.Shutdown(ctx); err != nil {
//		log.Printf("shutdown error: %v", err)
//	}
//
// # Endpoints
//
// Public endpoints (no authentication):
//   - GET /.well-known/oauth-protected-resource - Protected Resource Metadata (RFC 9728)
//   - GET /health - Health check
//
// Protected endpoints (authentication required):
//   - POST /mcp - MCP protocol (JSON-RPC 2.0)
//
// # Context Values
//
// The authentication middleware stores the Authorization Callback's Result
// in the request context:
//
//	result, ok := transport.ResultFromContext(r.Context())
//	if !ok {
//		// Not authenticated
//	}
//
//	subject := result.Sub
//	scope := result.Scope
package transport
