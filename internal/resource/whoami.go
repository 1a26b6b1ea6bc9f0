// Package resource provides MCP resource providers backed by the
// Authorization Callback's Result (spec.md §4.6), replacing the teacher's
// tool-execution surface with read-only introspection of the caller's own
// validated token.
package resource

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jamesprial/mcp-oauth-2.1/internal/mcp"
	"github.com/jamesprial/mcp-oauth-2.1/internal/transport"
)

// WhoAmIURI is the resource URI this provider registers under.
const WhoAmIURI = "whoami://token"

// whoAmIView is the JSON shape returned to the client — a deliberately
// narrow projection of core.Result, not the raw claim set, so a client
// can't depend on claim names the Claim Validator doesn't guarantee.
type whoAmIView struct {
	Sub    string `json:"sub,omitempty"`
	Scope  any    `json:"scope,omitempty"`
	JKT    string `json:"jkt,omitempty"`
	Aud    []string `json:"aud,omitempty"`
	Client string `json:"client_id,omitempty"`
}

// whoAmIProvider implements mcp.ResourceProvider by reading the Result the
// Authorization Callback attached to the current request's context.
type whoAmIProvider struct{}

// NewWhoAmIProvider creates the "whoami" resource provider. Register it with
// an mcp.ResourceRegistry under WhoAmIURI.
func NewWhoAmIProvider() mcp.ResourceProvider {
	return &whoAmIProvider{}
}

// Read renders the caller's validated token state as JSON. It reads ctx
// rather than taking a *core.Result parameter because mcp.ResourceProvider's
// Read signature carries only a context — the Result arrives there via
// transport.ResultFromContext, having been placed by the auth middleware.
func (p *whoAmIProvider) Read(ctx context.Context) (*mcp.Resource, error) {
	result, ok := transport.ResultFromContext(ctx)
	if !ok || result == nil {
		return nil, fmt.Errorf("no authorization result in context")
	}

	view := whoAmIView{
		Scope:  result.Scope,
		Aud:    result.Aud,
		Client: result.ClientID,
	}
	if result.HasSub {
		view.Sub = result.Sub
	}
	if result.HasJKT {
		view.JKT = result.JKT
	}

	body, err := json.Marshal(view)
	if err != nil {
		return nil, fmt.Errorf("marshal whoami view: %w", err)
	}

	return &mcp.Resource{
		URI:      WhoAmIURI,
		MimeType: "application/json",
		Text:     string(body),
	}, nil
}

// Definition describes the resource for client discovery (resources/list).
func (p *whoAmIProvider) Definition() mcp.ResourceDefinition {
	return mcp.ResourceDefinition{
		URI:         WhoAmIURI,
		Name:        "whoami",
		Description: "The validated claims and scope of the caller's current access token",
		MimeType:    "application/json",
	}
}
