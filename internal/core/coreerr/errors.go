// Package coreerr provides DomainError constructors for the authorization
// core. It is separate from internal/core to avoid import cycles when core's
// subpackages (sigverify, claimvalidator, scopeset, dpop) need to construct
// domain errors without importing their parent.
package coreerr

import (
	"fmt"

	ierrors "github.com/jamesprial/mcp-oauth-2.1/internal/errors"
)

const domainCore = "core"

// NewInvalidTokenError creates a DomainError for the INVALID_TOKEN outcome kind.
func NewInvalidTokenError(op string, err error) *ierrors.DomainError {
	return ierrors.New(domainCore, op, ierrors.ErrUnauthorized, err).
		WithContext("outcome", "INVALID_TOKEN")
}

// NewInvalidRequestError creates a DomainError for the INVALID_REQUEST outcome kind.
func NewInvalidRequestError(op string, err error) *ierrors.DomainError {
	return ierrors.New(domainCore, op, ierrors.ErrUnauthorized, err).
		WithContext("outcome", "INVALID_REQUEST")
}

// NewInsufficientScopeError creates a DomainError for the INSUFFICIENT_SCOPE outcome kind.
func NewInsufficientScopeError(op string, required string) *ierrors.DomainError {
	return ierrors.New(domainCore, op, ierrors.ErrForbidden, fmt.Errorf("insufficient_scope")).
		WithContext("outcome", "INSUFFICIENT_SCOPE").
		WithContext("required_scope", required)
}

// NewInternalError creates a DomainError for the INTERNAL outcome kind.
// Internal diagnostics stay in the wrapped error; callers must not surface
// err.Error() to the client, only the generic challenge description.
func NewInternalError(op string, err error) *ierrors.DomainError {
	return ierrors.New(domainCore, op, ierrors.ErrInternal, err).
		WithContext("outcome", "INTERNAL")
}

// OutcomeTag extracts the "outcome" context value a coreerr constructor
// attached to err, for the orchestrator to map back onto core.Outcome
// without coreerr importing core (which would cycle back through this
// package).
func OutcomeTag(err error) (string, bool) {
	de, ok := err.(*ierrors.DomainError)
	if !ok {
		return "", false
	}
	tag, ok := de.Context["outcome"].(string)
	return tag, ok
}

// RequiredScopeTag extracts the "required_scope" context value attached by
// NewInsufficientScopeError, for building the insufficient_scope challenge.
func RequiredScopeTag(err error) (string, bool) {
	de, ok := err.(*ierrors.DomainError)
	if !ok {
		return "", false
	}
	s, ok := de.Context["required_scope"].(string)
	return s, ok
}
