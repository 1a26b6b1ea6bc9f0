package claimvalidator

import (
	"testing"
	"time"

	"github.com/jamesprial/mcp-oauth-2.1/internal/core"
)

func TestValidate_AccessTokenOK(t *testing.T) {
	now := time.Unix(1_000_000, 0)
	claims := core.Claims{
		"exp":  now.Add(time.Hour).Unix(),
		"type": "access_token",
		"sub":  "user-1",
	}
	if err := Validate(claims, true, false, now); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
}

func TestValidate_ClientTokenOK(t *testing.T) {
	now := time.Unix(1_000_000, 0)
	claims := core.Claims{
		"exp":  now.Add(time.Hour).Unix(),
		"type": "client_token",
		"aud":  "resource-1",
	}
	if err := Validate(claims, false, true, now); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
}

func TestValidate_ExpiredRejected(t *testing.T) {
	now := time.Unix(1_000_000, 0)
	claims := core.Claims{
		"exp":  now.Add(-time.Second).Unix(),
		"type": "access_token",
		"sub":  "user-1",
	}
	if err := Validate(claims, true, false, now); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestValidate_ExpNotStrictlyFuture(t *testing.T) {
	now := time.Unix(1_000_000, 0)
	claims := core.Claims{
		"exp":  now.Unix(),
		"type": "access_token",
		"sub":  "user-1",
	}
	if err := Validate(claims, true, false, now); err == nil {
		t.Fatal("exp equal to now must be rejected (not strictly greater)")
	}
}

func TestValidate_MissingExp(t *testing.T) {
	now := time.Unix(1_000_000, 0)
	claims := core.Claims{"type": "access_token", "sub": "user-1"}
	if err := Validate(claims, true, false, now); err == nil {
		t.Fatal("expected missing exp to be rejected")
	}
}

func TestValidate_MissingType(t *testing.T) {
	now := time.Unix(1_000_000, 0)
	claims := core.Claims{"exp": now.Add(time.Hour).Unix(), "sub": "user-1"}
	if err := Validate(claims, true, false, now); err == nil {
		t.Fatal("expected missing type to be rejected")
	}
}

func TestValidate_AccessTokenMissingSub(t *testing.T) {
	now := time.Unix(1_000_000, 0)
	claims := core.Claims{"exp": now.Add(time.Hour).Unix(), "type": "access_token"}
	if err := Validate(claims, true, false, now); err == nil {
		t.Fatal("expected missing sub to be rejected")
	}
}

func TestValidate_ClientTokenMissingAud(t *testing.T) {
	now := time.Unix(1_000_000, 0)
	claims := core.Claims{"exp": now.Add(time.Hour).Unix(), "type": "client_token"}
	if err := Validate(claims, false, true, now); err == nil {
		t.Fatal("expected missing aud to be rejected")
	}
}

func TestValidate_TypeNotAccepted(t *testing.T) {
	now := time.Unix(1_000_000, 0)
	claims := core.Claims{
		"exp":  now.Add(time.Hour).Unix(),
		"type": "client_token",
		"aud":  "resource-1",
	}
	// client_token present but configuration only accepts access_token.
	if err := Validate(claims, true, false, now); err == nil {
		t.Fatal("expected disallowed type to be rejected")
	}
}

func TestValidate_NilClaims(t *testing.T) {
	if err := Validate(nil, true, true, time.Unix(1_000_000, 0)); err == nil {
		t.Fatal("expected nil claim set to be rejected")
	}
}
