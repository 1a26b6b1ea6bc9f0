package transport

import (
	"github.com/jamesprial/mcp-oauth-2.1/internal/transport/transportcore"
)

// Re-export errors from transportcore for backward compatibility.
// This allows external packages to import transport without creating cycles.
var (
	// ErrMethodNotAllowed indicates the HTTP method is not allowed for the endpoint.
	ErrMethodNotAllowed = transportcore.ErrMethodNotAllowed

	// ErrServerClosed indicates the server has been closed and cannot accept requests.
	ErrServerClosed = transportcore.ErrServerClosed
)
