// Package challenge builds the RFC 6750 WWW-Authenticate header value the
// Authorization Callback emits on failure (spec.md §4.6), grounded on the
// teacher's internal/errors.OAuthError.WWWAuthenticate.
package challenge

import (
	"fmt"
	"strings"
)

// Challenge is the single header value returned to a caller on any
// authorization failure. The scheme token is always "Bearer", even for
// DPoP-flagged requests — spec.md §4.6 calls this out explicitly as
// matching the source rather than RFC 9449's suggestion of a DPoP scheme.
type Challenge struct {
	Realm            string
	Code             string
	Description      string
	Scope            string
	ResourceMetadata string
}

// New builds a Challenge for the given error code and human-readable
// message.
func New(realm, code, description string) Challenge {
	return Challenge{Realm: realm, Code: code, Description: description}
}

// WithScope attaches the insufficient_scope challenge's required-scope
// parameter.
func (c Challenge) WithScope(scope string) Challenge {
	c.Scope = scope
	return c
}

// WithResourceMetadata attaches the RFC 9728 resource_metadata parameter.
func (c Challenge) WithResourceMetadata(url string) Challenge {
	c.ResourceMetadata = url
	return c
}

// Header renders the Challenge per spec.md §4.6's template: "Bearer " then,
// if realm is configured, realm=<realm>, then error="<code>",
// error_description="<message>".
func (c Challenge) Header() string {
	var parts []string
	if c.Realm != "" {
		parts = append(parts, fmt.Sprintf(`realm="%s"`, escapeQuotes(c.Realm)))
	}
	parts = append(parts, fmt.Sprintf(`error="%s"`, escapeQuotes(c.Code)))
	if c.Description != "" {
		parts = append(parts, fmt.Sprintf(`error_description="%s"`, escapeQuotes(c.Description)))
	}
	if c.Scope != "" {
		parts = append(parts, fmt.Sprintf(`scope="%s"`, escapeQuotes(c.Scope)))
	}
	if c.ResourceMetadata != "" {
		parts = append(parts, fmt.Sprintf(`resource_metadata="%s"`, escapeQuotes(c.ResourceMetadata)))
	}
	return "Bearer " + strings.Join(parts, ", ")
}

func escapeQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

// Error codes per spec.md §4.6 and §7.
const (
	CodeInvalidToken      = "invalid_token"
	CodeInvalidRequest    = "invalid_request"
	CodeInsufficientScope = "insufficient_scope"
)

// Messages reused verbatim across the failure table in spec.md §4.6.
const (
	MsgTokenMissing  = "The access token is missing"
	MsgTokenInvalid  = "The access token is invalid"
	MsgInternalError = "Internal server error"
	MsgScopeInvalid  = "The scope is invalid"
	MsgDPoPRequired  = "DPoP required"
)
