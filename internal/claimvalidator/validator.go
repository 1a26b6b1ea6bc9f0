// Package claimvalidator implements the Claim Validator (spec.md §4.3): the
// three-part conjunction every signature-verified claim set must satisfy
// before the Scope Intersector or DPoP Verifier ever run.
package claimvalidator

import (
	"fmt"
	"time"

	"github.com/jamesprial/mcp-oauth-2.1/internal/core"
	"github.com/jamesprial/mcp-oauth-2.1/internal/core/coreerr"
)

const op = "claimvalidator.Validate"

// Validate checks claims against spec.md §4.3's three conditions. now is
// passed in rather than read from time.Now() so callers (and tests) control
// the wall clock precisely.
func Validate(claims core.Claims, acceptAccessToken, acceptClientToken bool, now time.Time) error {
	if claims == nil {
		return coreerr.NewInvalidTokenError(op, fmt.Errorf("no claim set"))
	}

	exp, ok := claims.GetInt64("exp")
	if !ok {
		return coreerr.NewInvalidRequestError(op, fmt.Errorf("exp claim missing or not an integer"))
	}
	if exp <= now.Unix() {
		return coreerr.NewInvalidRequestError(op, fmt.Errorf("exp claim is not strictly in the future"))
	}

	typ, ok := claims.GetString("type")
	if !ok {
		return coreerr.NewInvalidRequestError(op, fmt.Errorf("type claim missing or not a string"))
	}

	switch {
	case acceptAccessToken && typ == "access_token":
		sub, ok := claims.GetString("sub")
		if !ok || sub == "" {
			return coreerr.NewInvalidRequestError(op, fmt.Errorf("access_token requires a non-empty sub claim"))
		}
		return nil
	case acceptClientToken && typ == "client_token":
		aud, ok := claims.GetString("aud")
		if !ok || aud == "" {
			return coreerr.NewInvalidRequestError(op, fmt.Errorf("client_token requires a non-empty aud claim"))
		}
		return nil
	default:
		return coreerr.NewInvalidRequestError(op, fmt.Errorf("unsupported or disallowed type claim %q", typ))
	}
}
