package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jamesprial/mcp-oauth-2.1/internal/transport/transportcore"
	"github.com/jamesprial/mcp-oauth-2.1/pkg/oauth"
)

// errorResponse represents a JSON error response body.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// errorResponder implements transportcore.ErrorResponder for non-auth error
// paths (malformed requests, internal failures). Authentication challenges
// are written directly by internal/core.Authorize, not through this type.
type errorResponder struct{}

// NewErrorResponder creates a new error responder.
func NewErrorResponder() transportcore.ErrorResponder {
	return &errorResponder{}
}

// InternalError sends a 500 Internal Server Error response.
// The response body contains a JSON error message.
func (e *errorResponder) InternalError(w http.ResponseWriter, err error) {
	w.Header().Set(oauth.HeaderContentType, oauth.ContentTypeJSON)
	w.WriteHeader(http.StatusInternalServerError)

	slog.Error("internal server error", "error", err)

	resp := errorResponse{
		Error:   "internal_error",
		Message: "An internal server error occurred",
	}
	if encodeErr := json.NewEncoder(w).Encode(resp); encodeErr != nil {
		slog.Error("failed to encode error response", "error", encodeErr)
	}
}

// BadRequest sends a 400 Bad Request response.
// The response body contains a JSON error message.
func (e *errorResponder) BadRequest(w http.ResponseWriter, err error) {
	w.Header().Set(oauth.HeaderContentType, oauth.ContentTypeJSON)
	w.WriteHeader(http.StatusBadRequest)

	slog.Warn("bad request", "error", err)

	message := "Invalid request"
	if err != nil {
		message = err.Error()
	}

	resp := errorResponse{
		Error:   "bad_request",
		Message: message,
	}
	if encodeErr := json.NewEncoder(w).Encode(resp); encodeErr != nil {
		slog.Error("failed to encode error response", "error", encodeErr)
	}
}
