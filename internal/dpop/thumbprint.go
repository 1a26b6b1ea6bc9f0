package dpop

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// thumbprint computes the RFC 7638 JWK thumbprint: the base64url-encoded
// SHA-256 digest of the JWK's required members, serialized with lexically
// sorted keys and no insignificant whitespace. Grounded on
// BrettM86-coves' CalculateJWKThumbprint, extended with the OKP member set
// RFC 8037 adds (BrettM86-coves' version only handles EC and RSA).
func thumbprint(jwk map[string]any) (string, error) {
	kty, ok := jwk["kty"].(string)
	if !ok || kty == "" {
		return "", fmt.Errorf("jwk missing kty")
	}

	var canonical map[string]string
	switch kty {
	case "EC":
		crv, err := requireString(jwk, "crv")
		if err != nil {
			return "", err
		}
		x, err := requireString(jwk, "x")
		if err != nil {
			return "", err
		}
		y, err := requireString(jwk, "y")
		if err != nil {
			return "", err
		}
		canonical = map[string]string{"crv": crv, "kty": kty, "x": x, "y": y}
	case "RSA":
		e, err := requireString(jwk, "e")
		if err != nil {
			return "", err
		}
		n, err := requireString(jwk, "n")
		if err != nil {
			return "", err
		}
		canonical = map[string]string{"e": e, "kty": kty, "n": n}
	case "OKP":
		crv, err := requireString(jwk, "crv")
		if err != nil {
			return "", err
		}
		x, err := requireString(jwk, "x")
		if err != nil {
			return "", err
		}
		canonical = map[string]string{"crv": crv, "kty": kty, "x": x}
	default:
		return "", fmt.Errorf("unsupported jwk kty %q for thumbprint", kty)
	}

	// encoding/json marshals map[string]string with lexically sorted keys,
	// which is exactly the canonical member ordering RFC 7638 requires.
	canonicalJSON, err := json.Marshal(canonical)
	if err != nil {
		return "", fmt.Errorf("marshal canonical jwk: %w", err)
	}

	digest := sha256.Sum256(canonicalJSON)
	return base64.RawURLEncoding.EncodeToString(digest[:]), nil
}

func requireString(jwk map[string]any, key string) (string, error) {
	v, ok := jwk[key].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("jwk missing %s member", key)
	}
	return v, nil
}
