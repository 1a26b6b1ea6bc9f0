package http

import (
	"mime"
	"net/http"

	"github.com/jamesprial/mcp-oauth-2.1/internal/core"
)

// RequestAdapter adapts an *http.Request onto core.Request, per spec.md §6's
// host-framework decoupling.
type RequestAdapter struct {
	r *http.Request
}

// NewRequestAdapter wraps r. Form is only populated when the request's
// Content-Type is application/x-www-form-urlencoded, per core.Request's
// Form contract; ParseForm is safe to call repeatedly and is a no-op for
// non-form requests beyond populating r.Form from the query string, which
// RequestAdapter.Form deliberately ignores by reading r.PostForm instead.
func NewRequestAdapter(r *http.Request) *RequestAdapter {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		_ = r.ParseForm()
	}
	return &RequestAdapter{r: r}
}

func (a *RequestAdapter) Header(name string) (string, bool) {
	v := a.r.Header.Get(name)
	if v == "" {
		if _, ok := a.r.Header[http.CanonicalHeaderKey(name)]; !ok {
			return "", false
		}
	}
	return v, true
}

func (a *RequestAdapter) Form(name string) (string, bool) {
	if a.r.PostForm == nil {
		return "", false
	}
	if _, ok := a.r.PostForm[name]; !ok {
		return "", false
	}
	return a.r.PostForm.Get(name), true
}

func (a *RequestAdapter) Query(name string) (string, bool) {
	q := a.r.URL.Query()
	if _, ok := q[name]; !ok {
		return "", false
	}
	return q.Get(name), true
}

// ResponseAdapter adapts an http.ResponseWriter onto core.Response, capturing
// the attached Result for the caller to push into the request context after
// core.Authorize returns (the core package never touches context directly,
// per spec.md §6).
type ResponseAdapter struct {
	w      http.ResponseWriter
	result *core.Result
}

func NewResponseAdapter(w http.ResponseWriter) *ResponseAdapter {
	return &ResponseAdapter{w: w}
}

func (a *ResponseAdapter) SetHeader(name, value string) {
	a.w.Header().Set(name, value)
}

func (a *ResponseAdapter) AttachShared(result *core.Result) {
	a.result = result
}

// Result returns the Result attached by a successful Authorize call, or nil
// if none was attached.
func (a *ResponseAdapter) Result() *core.Result {
	return a.result
}
