package oauth

import (
	"context"

	"github.com/jamesprial/mcp-oauth-2.1/internal/oauth/internal/metadata"
)

// metadataServiceAdapter adapts metadata.Service to oauth.MetadataService interface.
type metadataServiceAdapter struct {
	service *metadata.Service
}

func (a *metadataServiceAdapter) GetMetadata(ctx context.Context) (*ProtectedResourceMetadata, error) {
	meta, err := a.service.GetMetadata(ctx)
	if err != nil {
		return nil, err
	}
	// Convert metadata.ProtectedResourceMetadata to oauth.ProtectedResourceMetadata
	return &ProtectedResourceMetadata{
		Resource:               meta.Resource,
		AuthorizationServers:   meta.AuthorizationServers,
		ScopesSupported:        meta.ScopesSupported,
		BearerMethodsSupported: meta.BearerMethodsSupported,
	}, nil
}

func (a *metadataServiceAdapter) GetMetadataURL() string {
	return a.service.GetMetadataURL()
}

// Config holds the configuration needed to construct OAuth metadata services.
type Config struct {
	// BaseURL is the canonical base URL for this protected resource.
	BaseURL string

	// AuthorizationServers is a list of trusted authorization server URLs.
	AuthorizationServers []string

	// Audience is the server's configured audience identifier. The
	// metadata document does not carry it and NewMetadataService does not
	// read it; core.Config has no audience field, so no token's aud claim
	// is compared with it.
	Audience string

	// ScopesSupported is a list of OAuth scopes this server supports.
	ScopesSupported []string
}

// NewMetadataService creates a new protected resource metadata service.
// The service provides RFC 9728 compliant metadata at the well-known endpoint.
func NewMetadataService(cfg *Config) MetadataService {
	service := metadata.NewService(
		cfg.BaseURL,
		cfg.AuthorizationServers,
		cfg.ScopesSupported,
	)
	return &metadataServiceAdapter{service: service}
}
