package oauth

import (
	"context"
	"testing"
)

func TestNewMetadataService(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		BaseURL:              "https://example.com/mcp",
		AuthorizationServers: []string{"https://auth.example.com"},
		ScopesSupported:      []string{"mcp:read", "mcp:write"},
	}

	service := NewMetadataService(cfg)
	if service == nil {
		t.Fatal("NewMetadataService() returned nil")
	}

	metadata, err := service.GetMetadata(context.Background())
	if err != nil {
		t.Fatalf("GetMetadata() unexpected error: %v", err)
	}

	if metadata.Resource != "https://example.com/mcp" {
		t.Errorf("Resource = %q, want %q", metadata.Resource, "https://example.com/mcp")
	}
}

func TestMetadataServiceAdapter(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		BaseURL:              "https://example.com/mcp",
		AuthorizationServers: []string{"https://auth.example.com", "https://auth2.example.com"},
		ScopesSupported:      []string{"mcp:read", "mcp:write"},
	}

	service := NewMetadataService(cfg)

	metadata, err := service.GetMetadata(context.Background())
	if err != nil {
		t.Fatalf("GetMetadata() unexpected error: %v", err)
	}

	if len(metadata.AuthorizationServers) != 2 {
		t.Errorf("AuthorizationServers length = %d, want 2", len(metadata.AuthorizationServers))
	}

	if len(metadata.ScopesSupported) != 2 {
		t.Errorf("ScopesSupported length = %d, want 2", len(metadata.ScopesSupported))
	}

	metadataURL := service.GetMetadataURL()
	expectedURL := "https://example.com/mcp/.well-known/oauth-protected-resource"
	if metadataURL != expectedURL {
		t.Errorf("GetMetadataURL() = %q, want %q", metadataURL, expectedURL)
	}
}

func TestConfig_DefaultValues(t *testing.T) {
	t.Parallel()

	cfg := &Config{}

	metadataService := NewMetadataService(cfg)
	if metadataService == nil {
		t.Error("NewMetadataService() should handle empty config")
	}
}

func BenchmarkNewMetadataService(b *testing.B) {
	cfg := &Config{
		BaseURL:              "https://example.com/mcp",
		AuthorizationServers: []string{"https://auth.example.com"},
		ScopesSupported:      []string{"mcp:read", "mcp:write"},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = NewMetadataService(cfg)
	}
}
