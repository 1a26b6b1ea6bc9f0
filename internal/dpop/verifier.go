// Package dpop implements the DPoP Verifier (spec.md §4.5): the 13-step,
// short-circuiting validation sequence for a proof-of-possession JWT bound
// to an access token via RFC 9449.
package dpop

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jamesprial/mcp-oauth-2.1/internal/core"
	"github.com/jamesprial/mcp-oauth-2.1/internal/core/coreerr"
)

const op = "dpop.Verify"

// allowedAlgorithms is the exact 11-algorithm whitelist from spec.md §4.5
// step 5 — deliberately wider than BrettM86-coves' ES256-only DPoP verifier,
// since every one of these algorithms must be accepted, not just the one the
// reference project's own atproto client happens to issue.
var allowedAlgorithms = map[string]bool{
	"RS256": true, "RS384": true, "RS512": true,
	"ES256": true, "ES384": true, "ES512": true,
	"PS256": true, "PS384": true, "PS512": true,
	"EdDSA": true, "ES256K": true,
}

// Proof is the parsed DPoP proof's header and claims, returned on success
// for observability (spec.md §4.5 "return OK together with the proof's
// header and claims").
type Proof struct {
	Header map[string]any
	Claims core.Claims
}

// Verify implements spec.md §4.5's full sequence. The caller's extraction
// stage guarantees a non-empty accessToken, but proofJWT is the raw DPoP
// header and may be empty; step 1 rejects any empty input.
func Verify(proofJWT, accessToken, expectedHTM, expectedHTU string, maxIAT time.Duration, cnfJKT string, now time.Time) (*Proof, error) {
	// Step 1: all inputs present and non-empty.
	if proofJWT == "" || accessToken == "" || expectedHTM == "" || expectedHTU == "" || cnfJKT == "" {
		return nil, coreerr.NewInvalidRequestError(op, fmt.Errorf("missing required dpop input"))
	}

	// Step 2: parse without verifying claims or signature yet.
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	unverified, _, err := parser.ParseUnverified(proofJWT, jwt.MapClaims{})
	if err != nil {
		return nil, coreerr.NewInvalidTokenError(op, fmt.Errorf("parse dpop proof: %w", err))
	}
	header := unverified.Header

	// Step 4: typ must equal "dpop+jwt" exactly (RFC 9449 §4.2), not merely
	// contain it as a substring — the original implementation's inverted
	// check is a bug the server deliberately does not reproduce.
	typ, _ := header["typ"].(string)
	if typ != "dpop+jwt" {
		return nil, coreerr.NewInvalidTokenError(op, fmt.Errorf("typ header must equal dpop+jwt, got %q", typ))
	}

	// Step 5: algorithm whitelist.
	alg, _ := header["alg"].(string)
	if !allowedAlgorithms[alg] {
		return nil, coreerr.NewInvalidTokenError(op, fmt.Errorf("algorithm %q is not permitted for dpop proofs", alg))
	}

	// Step 6: embedded or remote certificate references are always forbidden
	// in DPoP proofs, independent of the access-token signature path's x5u
	// policy.
	if _, hasX5C := header["x5c"]; hasX5C {
		return nil, coreerr.NewInvalidTokenError(op, fmt.Errorf("x5c header is not permitted in dpop proofs"))
	}
	if _, hasX5U := header["x5u"]; hasX5U {
		return nil, coreerr.NewInvalidTokenError(op, fmt.Errorf("x5u header is not permitted in dpop proofs"))
	}

	jwkHeader, ok := header["jwk"].(map[string]any)
	if !ok {
		return nil, coreerr.NewInvalidTokenError(op, fmt.Errorf("missing or malformed jwk header"))
	}

	// Step 7: import the embedded public key.
	pub, err := parsePublicKey(jwkHeader)
	if err != nil {
		return nil, coreerr.NewInvalidTokenError(op, fmt.Errorf("import dpop jwk: %w", err))
	}

	// Step 3: verify the self-signed proof with the key it carries.
	validated, err := jwt.Parse(proofJWT, func(t *jwt.Token) (any, error) {
		return pub, nil
	}, jwt.WithValidMethods([]string{alg}), jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, coreerr.NewInvalidTokenError(op, fmt.Errorf("dpop proof signature invalid: %w", err))
	}
	if !validated.Valid {
		return nil, coreerr.NewInvalidTokenError(op, fmt.Errorf("dpop proof signature invalid"))
	}

	claims, ok := validated.Claims.(jwt.MapClaims)
	if !ok {
		return nil, coreerr.NewInternalError(op, fmt.Errorf("unexpected dpop claims type %T", validated.Claims))
	}
	proofClaims := core.Claims(claims)

	// Step 8: jti must be a non-empty string.
	jti, ok := proofClaims.GetString("jti")
	if !ok || jti == "" {
		return nil, coreerr.NewInvalidTokenError(op, fmt.Errorf("dpop proof missing jti claim"))
	}

	// Step 9: htm must match exactly.
	htm, ok := proofClaims.GetString("htm")
	if !ok || htm != expectedHTM {
		return nil, coreerr.NewInvalidTokenError(op, fmt.Errorf("dpop proof htm mismatch"))
	}

	// Step 10: htu must match exactly — no query/fragment normalization,
	// unlike BrettM86-coves' stripQueryFragment comparison.
	htu, ok := proofClaims.GetString("htu")
	if !ok || htu != expectedHTU {
		return nil, coreerr.NewInvalidTokenError(op, fmt.Errorf("dpop proof htu mismatch"))
	}

	// Step 11: iat freshness window, inclusive on both ends.
	iat, ok := proofClaims.GetInt64("iat")
	if !ok {
		return nil, coreerr.NewInvalidTokenError(op, fmt.Errorf("dpop proof missing iat claim"))
	}
	iatTime := time.Unix(iat, 0)
	if iatTime.After(now) || iatTime.Add(maxIAT).Before(now) {
		return nil, coreerr.NewInvalidTokenError(op, fmt.Errorf("dpop proof iat outside freshness window"))
	}

	// Step 12: ath must equal base64url(SHA-256(access token)), unconditionally
	// — unlike BrettM86-coves, which treats a missing ath as acceptable.
	ath, ok := proofClaims.GetString("ath")
	if !ok || ath == "" {
		return nil, coreerr.NewInvalidTokenError(op, fmt.Errorf("dpop proof missing ath claim"))
	}
	tokenHash := sha256.Sum256([]byte(accessToken))
	expectedAth := base64.RawURLEncoding.EncodeToString(tokenHash[:])
	if ath != expectedAth {
		return nil, coreerr.NewInvalidTokenError(op, fmt.Errorf("dpop proof ath does not match access token"))
	}

	// Step 13: the proof key's thumbprint must match the access token's
	// cnf.jkt.
	jkt, err := thumbprint(jwkHeader)
	if err != nil {
		return nil, coreerr.NewInternalError(op, fmt.Errorf("compute dpop jwk thumbprint: %w", err))
	}
	if jkt != cnfJKT {
		return nil, coreerr.NewInvalidTokenError(op, fmt.Errorf("dpop proof jwk thumbprint does not match cnf.jkt"))
	}

	return &Proof{Header: header, Claims: proofClaims}, nil
}
