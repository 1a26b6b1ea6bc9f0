package transportcore

import (
	"context"

	"github.com/jamesprial/mcp-oauth-2.1/internal/core"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// ResultContextKey is the context key for the Authorization Callback's
	// attached Result.
	ResultContextKey contextKey = "authorization_result"
)

// ResultFromContext extracts the validated Result from the request context.
// Returns nil and false if no Result was attached — the request either never
// went through authentication middleware or failed it.
func ResultFromContext(ctx context.Context) (*core.Result, bool) {
	if ctx == nil {
		return nil, false
	}
	result, ok := ctx.Value(ResultContextKey).(*core.Result)
	return result, ok
}

// ContextWithResult adds the Result to the request context.
// Used by authentication middleware to carry the outcome of a successful
// Authorize call to downstream handlers.
func ContextWithResult(ctx context.Context, result *core.Result) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ResultContextKey, result)
}
