package transport

import (
	"context"

	"github.com/jamesprial/mcp-oauth-2.1/internal/core"
	"github.com/jamesprial/mcp-oauth-2.1/internal/transport/transportcore"
)

// Re-export context key and helpers from transportcore for backward compatibility.
// This allows external packages to import transport without creating cycles.

// ResultContextKey is the context key for the Authorization Callback's
// attached Result.
const ResultContextKey = transportcore.ResultContextKey

// ResultFromContext extracts the validated Result from the request context.
// Returns nil and false if no Result was attached.
func ResultFromContext(ctx context.Context) (*core.Result, bool) {
	return transportcore.ResultFromContext(ctx)
}

// ContextWithResult adds the Result to the request context.
func ContextWithResult(ctx context.Context, result *core.Result) context.Context {
	return transportcore.ContextWithResult(ctx, result)
}
