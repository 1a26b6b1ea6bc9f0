// Package oauth provides Protected Resource Metadata discovery (RFC 9728)
// for the MCP server acting as a Resource Server. Token validation itself
// lives in internal/core, internal/sigverify, internal/claimvalidator,
// internal/scopeset, and internal/dpop — the Authorization Callback pipeline
// this package's metadata complements.
package oauth

import (
	"context"
)

// MetadataService provides Protected Resource Metadata per RFC 9728.
// This metadata helps clients discover the authorization servers and
// supported scopes for this protected resource.
type MetadataService interface {
	// GetMetadata returns the protected resource metadata document.
	// The metadata includes authorization servers, supported scopes,
	// and other discovery information per RFC 9728.
	GetMetadata(ctx context.Context) (*ProtectedResourceMetadata, error)

	// GetMetadataURL returns the canonical URL where this metadata is served.
	// Typically: {baseURL}/.well-known/oauth-protected-resource
	GetMetadataURL() string
}

// ProtectedResourceMetadata represents the OAuth 2.0 Protected Resource
// Metadata as defined in RFC 9728. This metadata is served at the
// /.well-known/oauth-protected-resource endpoint to aid client discovery.
type ProtectedResourceMetadata struct {
	// Resource is the canonical URI for this protected resource.
	// This value must match the "aud" (audience) claim in access tokens.
	Resource string `json:"resource"`

	// AuthorizationServers is an array of authorization server URLs that can
	// issue tokens for this resource. At least one server must be listed.
	AuthorizationServers []string `json:"authorization_servers"`

	// ScopesSupported is an optional array of OAuth scope values supported
	// by this protected resource. Recommended for client discovery.
	ScopesSupported []string `json:"scopes_supported,omitempty"`

	// BearerMethodsSupported indicates supported methods for presenting
	// bearer tokens. OAuth 2.1 requires "header" (Authorization header only).
	BearerMethodsSupported []string `json:"bearer_methods_supported,omitempty"`
}
