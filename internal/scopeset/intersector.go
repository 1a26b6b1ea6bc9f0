// Package scopeset implements the Scope Intersector (spec.md §4.4): it
// reconciles a token's granted scope string against the configured required
// scopes.
package scopeset

import (
	"fmt"
	"strings"

	"github.com/jamesprial/mcp-oauth-2.1/internal/core/coreerr"
)

const op = "scopeset.Intersect"

// Result carries both shapes spec.md §9's Open Question distinguishes: Raw
// holds the token's verbatim scope string (used when required is empty),
// Granted holds the required-order intersection (used otherwise). Exactly
// one is populated; core.Result.Scope surfaces whichever one as an `any`
// rather than silently choosing a single representation for both cases.
type Result struct {
	Raw     string
	Granted []string
}

// Intersect implements spec.md §4.4 verbatim, including the empty-required
// passthrough and the required-order intersection.
func Intersect(tokenScope, required string) (Result, error) {
	if required == "" {
		return Result{Raw: tokenScope}, nil
	}

	tokenScopes := strings.Split(tokenScope, " ")
	requiredScopes := strings.Split(required, " ")
	if len(tokenScopes) == 0 || len(requiredScopes) == 0 {
		return Result{}, coreerr.NewInternalError(op, fmt.Errorf("scope split produced no tokens"))
	}

	present := make(map[string]bool, len(tokenScopes))
	for _, s := range tokenScopes {
		if s != "" {
			present[s] = true
		}
	}

	granted := make([]string, 0, len(requiredScopes))
	for _, r := range requiredScopes {
		if present[r] {
			granted = append(granted, r)
		}
	}

	if len(granted) == 0 {
		return Result{}, coreerr.NewInsufficientScopeError(op, required)
	}

	return Result{Granted: granted}, nil
}
