package sigverify

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jamesprial/mcp-oauth-2.1/internal/keyset"
)

func signToken(t *testing.T, key *rsa.PrivateKey, kid string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if kid != "" {
		tok.Header["kid"] = kid
	}
	signed, err := tok.SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestVerify_SuccessByKid(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	keys := keyset.NewStatic([]keyset.Key{{ID: "kid-1", PublicKey: &priv.PublicKey}})

	token := signToken(t, priv, "kid-1", jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	claims, err := Verify(token, keys)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if sub, _ := claims.GetString("sub"); sub != "user-1" {
		t.Fatalf("unexpected sub claim: %v", claims)
	}
}

func TestVerify_FallsBackToDefaultKey(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	keys := keyset.NewStatic([]keyset.Key{{ID: "", PublicKey: &priv.PublicKey}})

	token := signToken(t, priv, "", jwt.MapClaims{"sub": "user-2"})

	claims, err := Verify(token, keys)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if sub, _ := claims.GetString("sub"); sub != "user-2" {
		t.Fatalf("unexpected sub claim: %v", claims)
	}
}

func TestVerify_UnknownKid(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	keys := keyset.NewStatic([]keyset.Key{{ID: "kid-1", PublicKey: &priv.PublicKey}})

	token := signToken(t, priv, "nonexistent", jwt.MapClaims{"sub": "user-1"})

	if _, err := Verify(token, keys); err == nil {
		t.Fatal("expected error for unknown kid, got nil")
	}
}

func TestVerify_WrongKeySignature(t *testing.T) {
	signer, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate signer key: %v", err)
	}
	other, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate other key: %v", err)
	}
	keys := keyset.NewStatic([]keyset.Key{{ID: "kid-1", PublicKey: &other.PublicKey}})

	token := signToken(t, signer, "kid-1", jwt.MapClaims{"sub": "user-1"})

	if _, err := Verify(token, keys); err == nil {
		t.Fatal("expected signature verification failure, got nil")
	}
}

func TestVerify_MalformedToken(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	keys := keyset.NewStatic([]keyset.Key{{ID: "kid-1", PublicKey: &priv.PublicKey}})

	if _, err := Verify("not-a-jwt", keys); err == nil {
		t.Fatal("expected parse error, got nil")
	}
}
