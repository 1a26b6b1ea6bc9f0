package mcp

// Config holds configuration for MCP services.
type Config struct {
	// ServerName is the name of the MCP server.
	ServerName string

	// ServerVersion is the version of the MCP server.
	ServerVersion string
}

// NewHandler creates a new MCP protocol handler.
// The handler routes JSON-RPC requests to the resource registry.
func NewHandler(cfg *Config, resourceRegistry ResourceRegistry) Handler {
	if cfg == nil {
		panic("config cannot be nil")
	}
	if resourceRegistry == nil {
		panic("resourceRegistry cannot be nil")
	}

	info := serverInfo{
		Name:    cfg.ServerName,
		Version: cfg.ServerVersion,
	}

	return newHandler(resourceRegistry, info)
}

// NewMCPServices creates all MCP services from the configuration.
// This is a convenience function for dependency injection.
func NewMCPServices(cfg *Config) (Handler, ResourceRegistry) {
	resourceRegistry := NewResourceRegistry()
	handler := NewHandler(cfg, resourceRegistry)

	return handler, resourceRegistry
}
