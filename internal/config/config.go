// Package config provides configuration management for the OAuth 2.1 MCP server.
// Configuration is loaded from environment variables with sensible defaults.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds the complete server configuration in a flat structure.
type Config struct {
	// Server settings
	// Addr is the address to bind the HTTP server (e.g., ":8080").
	Addr string

	// BaseURL is the canonical base URL for this server (e.g., "https://example.com/mcp").
	// This is used for the resource metadata document.
	BaseURL string

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeout time.Duration

	// IdleTimeout is the maximum duration to wait for the next request when keep-alives are enabled.
	IdleTimeout time.Duration

	// OAuth settings
	// AuthorizationServers is a list of trusted authorization server URLs.
	// These servers are listed in the protected resource metadata.
	AuthorizationServers []string

	// Audience is the server's audience identifier (OAUTH_AUDIENCE). Load
	// requires it to be an absolute http(s) URL; it is not compared with
	// the aud claim of incoming tokens.
	Audience string

	// ScopesSupported is a list of OAuth scopes this server supports.
	ScopesSupported []string

	// JWKSCacheTTL is read from OAUTH_JWKS_CACHE_TTL and must be positive.
	// The remote JWKS fetcher does not use it; refresh timing is left to
	// the jwk cache's own defaults.
	JWKSCacheTTL time.Duration

	// ClockSkew is read from OAUTH_CLOCK_SKEW and must be positive. Token
	// expiration checks do not apply it: exp is compared with the current
	// time exactly.
	ClockSkew time.Duration

	// MCP settings
	// SessionTTL is read from MCP_SESSION_TTL and must be positive. The MCP
	// handler keeps no sessions, so nothing expires on it.
	SessionTTL time.Duration

	// Authorization core settings (spec.md §3/§6)
	// TokenMethod selects where the Authorization Callback looks for the
	// access token: "header", "body", or "query".
	TokenMethod string

	// Realm is the optional protection-space name included in
	// WWW-Authenticate challenges.
	Realm string

	// RequiredScope is the configured required-scope string, space
	// separated. Empty means any granted scope is accepted.
	RequiredScope string

	// AcceptAccessToken enables the access_token claim-type branch.
	AcceptAccessToken bool

	// AcceptClientToken enables the client_token claim-type branch.
	AcceptClientToken bool

	// JWKSURL is the remote JWKS document this server polls for signing
	// keys. Mutually exclusive with JWKSStatic in practice, but both may be
	// set for tests.
	JWKSURL string

	// JWKSStatic is an inline JWKS JSON document, used when keys are
	// embedded in configuration rather than fetched remotely.
	JWKSStatic string

	// AllowX5U decides whether keys in the remote JWKS that carry an x5u
	// URL are kept (true) or skipped (false). The x5u URL itself is never
	// fetched. DPoP proofs with x5u/x5c headers are rejected regardless of
	// this setting (spec.md §4.5 step 6).
	AllowX5U bool

	// RemoteKeyFetchTimeout bounds the HTTP client that polls JWKSURL.
	RemoteKeyFetchTimeout time.Duration

	// DPoPHTM is copied into core.Config.HTM. The HTTP auth middleware
	// replaces that value with each request's method before running the
	// Authorization Callback, so it has no effect on requests served
	// through it.
	DPoPHTM string

	// DPoPHTU is copied into core.Config.HTU. The HTTP auth middleware
	// replaces that value with each request's absolute URL before running
	// the Authorization Callback, so it has no effect on requests served
	// through it.
	DPoPHTU string

	// DPoPMaxIAT is the DPoP proof freshness window (spec.md §4.5 step 11).
	DPoPMaxIAT time.Duration
}

// Load reads configuration from environment variables and returns a Config.
// It sets default values for optional fields and validates the configuration.
func Load() (*Config, error) {
	// Parse durations with error handling
	readTimeout, err := parseDurationWithDefault("SERVER_READ_TIMEOUT", "30s")
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := parseDurationWithDefault("SERVER_WRITE_TIMEOUT", "30s")
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_WRITE_TIMEOUT: %w", err)
	}

	idleTimeout, err := parseDurationWithDefault("SERVER_IDLE_TIMEOUT", "120s")
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_IDLE_TIMEOUT: %w", err)
	}

	jwksCacheTTL, err := parseDurationWithDefault("OAUTH_JWKS_CACHE_TTL", "1h")
	if err != nil {
		return nil, fmt.Errorf("invalid OAUTH_JWKS_CACHE_TTL: %w", err)
	}

	clockSkew, err := parseDurationWithDefault("OAUTH_CLOCK_SKEW", "1m")
	if err != nil {
		return nil, fmt.Errorf("invalid OAUTH_CLOCK_SKEW: %w", err)
	}

	sessionTTL, err := parseDurationWithDefault("MCP_SESSION_TTL", "1h")
	if err != nil {
		return nil, fmt.Errorf("invalid MCP_SESSION_TTL: %w", err)
	}

	remoteKeyFetchTimeout, err := parseDurationWithDefault("OAUTH_REMOTE_KEY_FETCH_TIMEOUT", "10s")
	if err != nil {
		return nil, fmt.Errorf("invalid OAUTH_REMOTE_KEY_FETCH_TIMEOUT: %w", err)
	}

	dpopMaxIAT, err := parseDurationWithDefault("OAUTH_DPOP_MAX_IAT", "5m")
	if err != nil {
		return nil, fmt.Errorf("invalid OAUTH_DPOP_MAX_IAT: %w", err)
	}

	cfg := &Config{
		// Server settings
		Addr:         getEnvWithDefault("SERVER_ADDR", ":8080"),
		BaseURL:      os.Getenv("SERVER_BASE_URL"),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,

		// OAuth settings
		AuthorizationServers: parseCommaSeparated("OAUTH_AUTHORIZATION_SERVERS"),
		Audience:             os.Getenv("OAUTH_AUDIENCE"),
		ScopesSupported:      parseCommaSeparated("OAUTH_SCOPES_SUPPORTED"),
		JWKSCacheTTL:         jwksCacheTTL,
		ClockSkew:            clockSkew,

		// MCP settings
		SessionTTL: sessionTTL,

		// Authorization core settings
		TokenMethod:           getEnvWithDefault("OAUTH_TOKEN_METHOD", "header"),
		Realm:                 os.Getenv("OAUTH_REALM"),
		RequiredScope:         os.Getenv("OAUTH_REQUIRED_SCOPE"),
		AcceptAccessToken:     getEnvWithDefault("OAUTH_ACCEPT_ACCESS_TOKEN", "true") == "true",
		AcceptClientToken:     getEnvWithDefault("OAUTH_ACCEPT_CLIENT_TOKEN", "false") == "true",
		JWKSURL:               os.Getenv("OAUTH_JWKS_URL"),
		JWKSStatic:            os.Getenv("OAUTH_JWKS_STATIC"),
		AllowX5U:              getEnvWithDefault("OAUTH_ALLOW_X5U", "false") == "true",
		RemoteKeyFetchTimeout: remoteKeyFetchTimeout,
		DPoPHTM:               os.Getenv("OAUTH_DPOP_HTM"),
		DPoPHTU:               os.Getenv("OAUTH_DPOP_HTU"),
		DPoPMaxIAT:            dpopMaxIAT,
	}

	// Validate configuration
	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// getEnvWithDefault returns the environment variable value or the default if not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseCommaSeparated parses a comma-separated environment variable into a string slice.
// Empty values are filtered out. Returns nil if the environment variable is not set.
func parseCommaSeparated(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	var result []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}

// parseDurationWithDefault parses a duration from an environment variable.
// If the variable is not set, it uses the default value.
// Returns an error if the value is set but cannot be parsed.
func parseDurationWithDefault(key, defaultValue string) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		// Use default if not set
		duration, err := time.ParseDuration(defaultValue)
		if err != nil {
			return 0, fmt.Errorf("invalid default duration %q: %w", defaultValue, err)
		}
		return duration, nil
	}

	// Parse the provided value
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("cannot parse duration %q: %w", value, err)
	}

	return duration, nil
}

// String returns a string representation of the configuration (for debugging).
// Sensitive values are redacted.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Addr: %s, BaseURL: %s, ReadTimeout: %v, WriteTimeout: %v, IdleTimeout: %v, AuthorizationServers: %v, Audience: %s, ScopesSupported: %v, JWKSCacheTTL: %v, ClockSkew: %v, SessionTTL: %v, TokenMethod: %s, Realm: %s, RequiredScope: %s, AcceptAccessToken: %v, AcceptClientToken: %v, AllowX5U: %v}",
		c.Addr, c.BaseURL, c.ReadTimeout, c.WriteTimeout, c.IdleTimeout,
		c.AuthorizationServers, c.Audience, c.ScopesSupported,
		c.JWKSCacheTTL, c.ClockSkew, c.SessionTTL,
		c.TokenMethod, c.Realm, c.RequiredScope, c.AcceptAccessToken, c.AcceptClientToken, c.AllowX5U)
}
