// Package main provides the entry point for the OAuth 2.1 MCP server.
// It wires together all components using dependency injection and manages
// the server lifecycle with graceful shutdown.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jamesprial/mcp-oauth-2.1/internal/config"
	"github.com/jamesprial/mcp-oauth-2.1/internal/keyset"
	"github.com/jamesprial/mcp-oauth-2.1/internal/mcp"
	"github.com/jamesprial/mcp-oauth-2.1/internal/oauth"
	"github.com/jamesprial/mcp-oauth-2.1/internal/resource"
	"github.com/jamesprial/mcp-oauth-2.1/internal/transport"
)

func main() {
	// Set up structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	slog.Info("server configuration loaded",
		"addr", cfg.Addr,
		"base_url", cfg.BaseURL,
		"auth_servers", cfg.AuthorizationServers,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Build the key set the Signature Verifier reads from: a static inline
	// JWKS document takes precedence over a remote URL when both are set.
	keySet, err := buildKeySet(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to build key set: %v", err)
	}

	// Wire OAuth metadata discovery (RFC 9728)
	oauthCfg := &oauth.Config{
		BaseURL:              cfg.BaseURL,
		AuthorizationServers: cfg.AuthorizationServers,
		Audience:             cfg.Audience,
		ScopesSupported:      cfg.ScopesSupported,
	}
	metadataService := oauth.NewMetadataService(oauthCfg)

	slog.Info("oauth metadata service initialized",
		"metadata_url", metadataService.GetMetadataURL(),
	)

	// Wire MCP components
	mcpCfg := &mcp.Config{
		ServerName:    "mcp-oauth-2.1",
		ServerVersion: "1.0.0",
	}

	mcpHandler, resourceRegistry := mcp.NewMCPServices(mcpCfg)

	if err := resourceRegistry.RegisterResource(resource.WhoAmIURI, resource.NewWhoAmIProvider()); err != nil {
		log.Fatalf("failed to register whoami resource: %v", err)
	}

	slog.Info("mcp services initialized",
		"server_name", mcpCfg.ServerName,
		"server_version", mcpCfg.ServerVersion,
	)

	// Wire transport layer
	transportCfg := &transport.Config{
		ServerConfig:    cfg,
		KeySet:          keySet,
		MetadataService: metadataService,
		MCPHandler:      mcpHandler,
	}

	server, router, err := transport.NewTransportServices(transportCfg)
	if err != nil {
		log.Fatalf("failed to create transport services: %v", err)
	}
	_ = router // Router is used internally by server

	// Start server in background goroutine
	serverErrCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.Addr)
		if err := server.Start(); err != nil {
			serverErrCh <- err
		}
	}()

	// Wait for shutdown signal or server error
	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received, stopping server gracefully...")
	case err := <-serverErrCh:
		slog.Error("server error", "error", err)
		stop()
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped successfully")
}

// buildKeySet constructs the Signature Verifier's key set from whichever of
// JWKSStatic/JWKSURL the configuration sets, preferring the inline document
// since it requires no network round trip at startup.
func buildKeySet(ctx context.Context, cfg *config.Config) (keyset.Set, error) {
	if cfg.JWKSStatic != "" {
		keys, err := keyset.ParseJWKSDocument([]byte(cfg.JWKSStatic))
		if err != nil {
			return nil, err
		}
		slog.Info("loaded static jwks document", "key_count", len(keys))
		return keyset.NewStatic(keys), nil
	}

	if cfg.JWKSURL != "" {
		fetcher, err := keyset.NewRemoteFetcher(ctx, cfg.JWKSURL, keyset.RemoteKeyPolicy{
			FetchTimeout: cfg.RemoteKeyFetchTimeout,
			AllowX5U:     cfg.AllowX5U,
		})
		if err != nil {
			return nil, err
		}
		if err := fetcher.Refresh(ctx); err != nil {
			return nil, err
		}
		slog.Info("loaded remote jwks", "jwks_url", cfg.JWKSURL)
		return fetcher.Set(), nil
	}

	slog.Warn("no jwks source configured; starting with an empty key set")
	return keyset.NewStatic(nil), nil
}
