// Package sigverify implements the Signature Verifier (spec.md §4.2): it
// parses a compact-serialized JWT, selects a public key from a keyset.Set by
// kid (or the set's default when the header carries none), and verifies the
// signature with golang-jwt/jwt/v5 — the same JWT library the teacher repo
// used for its own token validator (internal/oauth/internal/token/validator.go).
package sigverify

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jamesprial/mcp-oauth-2.1/internal/core"
	"github.com/jamesprial/mcp-oauth-2.1/internal/core/coreerr"
	"github.com/jamesprial/mcp-oauth-2.1/internal/keyset"
)

const op = "sigverify.Verify"

// Verify implements spec.md §4.2 in full: it does not validate exp, aud, or
// any other registered claim itself — that is internal/claimvalidator's job
// (§4.3). This stage only establishes that the token was signed by a key in
// keys and hands back the raw claim set.
func Verify(tokenString string, keys keyset.Set) (core.Claims, error) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())

	unverified, _, err := parser.ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return nil, coreerr.NewInvalidTokenError(op, fmt.Errorf("parse token: %w", err))
	}

	kid, _ := unverified.Header["kid"].(string)

	var key keyset.Key
	var ok bool
	if kid != "" {
		key, ok = keys.ByID(kid)
	} else {
		key, ok = keys.Default()
	}
	if !ok {
		return nil, coreerr.NewInvalidTokenError(op, fmt.Errorf("no matching key for kid %q", kid))
	}

	validated, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		return key.PublicKey, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, coreerr.NewInvalidTokenError(op, fmt.Errorf("verify signature: %w", err))
	}
	if !validated.Valid {
		return nil, coreerr.NewInvalidTokenError(op, fmt.Errorf("token signature invalid"))
	}

	claims, ok := validated.Claims.(jwt.MapClaims)
	if !ok {
		return nil, coreerr.NewInternalError(op, fmt.Errorf("unexpected claims type %T", validated.Claims))
	}

	return core.Claims(claims), nil
}
