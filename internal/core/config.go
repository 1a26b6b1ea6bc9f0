package core

import (
	"time"

	"github.com/jamesprial/mcp-oauth-2.1/internal/keyset"
)

// TokenLocation selects where the Authorization Callback looks for the
// access token, per spec.md §4.1. The three modes are mutually exclusive.
type TokenLocation int

const (
	// Header inspects the Authorization request header for a Bearer or
	// DPoP-scheme token.
	Header TokenLocation = iota

	// Body reads the access_token form field, only when the request's
	// Content-Type is application/x-www-form-urlencoded.
	Body

	// Query reads the access_token query parameter.
	Query
)

// RemoteKeyPolicy records the remote key-loading settings (x5u policy and
// fetch timeout) in the core configuration. Authorize and the Signature
// Verifier do not read it: access tokens are verified only against keys
// already present in KeySet, and no x5u URL or x5c chain is followed during
// verification. The x5u gate that takes effect is keyset.RemoteKeyPolicy,
// applied while the remote JWKS is loaded. DPoP's rejection of x5c/x5u
// headers (spec.md §4.5 step 6) is a fixed rule unaffected by either policy.
type RemoteKeyPolicy struct {
	// AllowX5U mirrors keyset.RemoteKeyPolicy.AllowX5U.
	AllowX5U bool

	// FetchTimeout mirrors keyset.RemoteKeyPolicy.FetchTimeout.
	FetchTimeout time.Duration
}

// Config is the immutable Configuration record described in spec.md §3. It
// is constructed once at startup and shared without locking across all
// concurrently processed requests.
type Config struct {
	// Method selects the token-extraction mode (spec.md §4.1).
	Method TokenLocation

	// Realm is an optional protection-space name included in challenge
	// headers.
	Realm string

	// ResourceMetadataURL, if set, is attached to every challenge response
	// as the RFC 9728 resource_metadata parameter, letting clients discover
	// this resource's authorization servers after a failed request.
	ResourceMetadataURL string

	// RequiredScope is the configured required-scope string, space
	// separated, possibly empty. It is intentionally left unsplit here; the
	// Scope Intersector owns splitting per spec.md §4.4.
	RequiredScope string

	// AcceptAccessToken enables the type == "access_token" branch of the
	// Claim Validator (spec.md §4.3).
	AcceptAccessToken bool

	// AcceptClientToken enables the type == "client_token" branch of the
	// Claim Validator (spec.md §4.3).
	AcceptClientToken bool

	// KeySet is the ordered public key set used by the Signature Verifier.
	KeySet keyset.Set

	// RemoteKeys carries the remote key-loading policy; see RemoteKeyPolicy
	// for why it has no effect on verification.
	RemoteKeys RemoteKeyPolicy

	// HTM is the expected DPoP htm (HTTP method) claim value.
	HTM string

	// HTU is the expected DPoP htu (HTTP URI) claim value.
	HTU string

	// MaxIAT is the DPoP freshness window (spec.md §4.5 step 11).
	MaxIAT time.Duration
}
