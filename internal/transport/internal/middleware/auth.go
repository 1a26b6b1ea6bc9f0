// Package middleware provides HTTP middleware for the transport layer.
package middleware

import (
	"errors"
	"net/http"

	"github.com/jamesprial/mcp-oauth-2.1/internal/core"
	internalhttp "github.com/jamesprial/mcp-oauth-2.1/internal/transport/internal/http"
	"github.com/jamesprial/mcp-oauth-2.1/internal/transport/transportcore"
)

// errAuthorizeFailed is returned to the ErrorResponder when the
// Authorization Callback reports core.Error — an internal failure distinct
// from a credential rejection (spec.md §4.6's Disposition taxonomy).
var errAuthorizeFailed = errors.New("authorization callback failed")

// authMiddleware implements transportcore.AuthMiddleware by adapting each
// request/response pair onto core.Request/core.Response and running the
// Authorization Callback (spec.md §4.6).
type authMiddleware struct {
	cfg       core.Config
	responder transportcore.ErrorResponder
}

// NewAuthMiddleware creates authentication middleware backed by the
// Authorization Callback. cfg is shared, read-only configuration (spec.md
// §3); HTM and HTU are overridden per request from the incoming method and
// URL before each Authorize call, since those two fields are necessarily
// request-scoped rather than static deployment config.
func NewAuthMiddleware(cfg core.Config, responder transportcore.ErrorResponder) transportcore.AuthMiddleware {
	if responder == nil {
		panic("responder cannot be nil")
	}

	return &authMiddleware{cfg: cfg, responder: responder}
}

// Authenticate runs the Authorization Callback against the incoming request.
// On Continue, the attached Result is stored in the request context and the
// next handler runs. On Unauthorized, the challenge header set by Authorize
// is already on w; this only needs to write the status line. On Error, it
// delegates to the ErrorResponder.
func (m *authMiddleware) Authenticate() transportcore.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req := internalhttp.NewRequestAdapter(r)
			resp := internalhttp.NewResponseAdapter(w)

			cfg := m.cfg
			cfg.HTM = r.Method
			cfg.HTU = requestURL(r)

			switch core.Authorize(req, resp, cfg) {
			case core.Continue:
				result := resp.Result()
				ctx := transportcore.ContextWithResult(r.Context(), result)
				next.ServeHTTP(w, r.WithContext(ctx))

			case core.Unauthorized:
				w.WriteHeader(http.StatusUnauthorized)

			default:
				m.responder.InternalError(w, errAuthorizeFailed)
			}
		})
	}
}

// requestURL reconstructs the absolute request URL for DPoP's htu claim
// comparison (RFC 9449 §4.2), since r.URL on the server side is
// scheme-less and host-less.
func requestURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host + r.URL.Path
}
