package keyset

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// jwksDocument is the top-level shape of a JWKS document (RFC 7517 §5).
type jwksDocument struct {
	Keys []map[string]any `json:"keys"`
}

// ParseJWKSDocument parses an inline JWKS JSON document (the
// OAUTH_JWKS_STATIC configuration path) into an ordered slice of Keys,
// preserving document order so the first key becomes the Default.
// Keys of an unsupported or malformed kty are skipped rather than
// rejecting the whole document, mirroring the Remote Fetcher's tolerance
// for keys it cannot materialize.
func ParseJWKSDocument(doc []byte) ([]Key, error) {
	var parsed jwksDocument
	if err := json.Unmarshal(doc, &parsed); err != nil {
		return nil, fmt.Errorf("parse jwks document: %w", err)
	}

	keys := make([]Key, 0, len(parsed.Keys))
	for _, member := range parsed.Keys {
		pub, err := parseStaticPublicKey(member)
		if err != nil {
			continue
		}
		kid, _ := member["kid"].(string)
		keys = append(keys, Key{ID: kid, PublicKey: pub})
	}
	return keys, nil
}

// parseStaticPublicKey converts one JWKS "keys" member into a Go public key.
// Grounded on the same RSA/EC/OKP/secp256k1 dispatch internal/dpop's proof
// verifier uses for embedded jwk headers; kept as a separate copy here since
// keyset sits below internal/core in the import graph and cannot depend on
// internal/dpop without creating a cycle.
func parseStaticPublicKey(member map[string]any) (any, error) {
	kty, _ := member["kty"].(string)
	switch kty {
	case "RSA":
		return parseStaticRSAKey(member)
	case "EC":
		return parseStaticECKey(member)
	case "OKP":
		return parseStaticOKPKey(member)
	default:
		return nil, fmt.Errorf("unsupported jwk kty %q", kty)
	}
}

func decodeStaticB64URL(field string, member map[string]any) ([]byte, error) {
	s, ok := member[field].(string)
	if !ok || s == "" {
		return nil, fmt.Errorf("jwk missing %s member", field)
	}
	return base64.RawURLEncoding.DecodeString(s)
}

func parseStaticRSAKey(member map[string]any) (*rsa.PublicKey, error) {
	nBytes, err := decodeStaticB64URL("n", member)
	if err != nil {
		return nil, err
	}
	eBytes, err := decodeStaticB64URL("e", member)
	if err != nil {
		return nil, err
	}
	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: int(new(big.Int).SetBytes(eBytes).Int64()),
	}, nil
}

func parseStaticECKey(member map[string]any) (any, error) {
	crv, _ := member["crv"].(string)

	xBytes, err := decodeStaticB64URL("x", member)
	if err != nil {
		return nil, err
	}
	yBytes, err := decodeStaticB64URL("y", member)
	if err != nil {
		return nil, err
	}

	if crv == "secp256k1" {
		var x, y secp256k1.FieldVal
		if overflow := x.SetByteSlice(xBytes); overflow {
			return nil, fmt.Errorf("secp256k1 x coordinate overflows field")
		}
		if overflow := y.SetByteSlice(yBytes); overflow {
			return nil, fmt.Errorf("secp256k1 y coordinate overflows field")
		}
		return secp256k1.NewPublicKey(&x, &y), nil
	}

	var curve elliptic.Curve
	switch crv {
	case "P-256":
		curve = elliptic.P256()
	case "P-384":
		curve = elliptic.P384()
	case "P-521":
		curve = elliptic.P521()
	default:
		return nil, fmt.Errorf("unsupported EC crv %q", crv)
	}

	pub := &ecdsa.PublicKey{Curve: curve, X: new(big.Int).SetBytes(xBytes), Y: new(big.Int).SetBytes(yBytes)}
	if !curve.IsOnCurve(pub.X, pub.Y) {
		return nil, fmt.Errorf("ec public key is not on curve %s", crv)
	}
	return pub, nil
}

func parseStaticOKPKey(member map[string]any) (ed25519.PublicKey, error) {
	crv, _ := member["crv"].(string)
	if crv != "Ed25519" {
		return nil, fmt.Errorf("unsupported OKP crv %q", crv)
	}
	xBytes, err := decodeStaticB64URL("x", member)
	if err != nil {
		return nil, err
	}
	if len(xBytes) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("ed25519 public key has wrong length %d", len(xBytes))
	}
	return ed25519.PublicKey(xBytes), nil
}
