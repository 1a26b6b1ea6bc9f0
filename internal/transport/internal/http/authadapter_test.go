package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/jamesprial/mcp-oauth-2.1/internal/core"
)

func TestRequestAdapter_Header(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/test", nil)
	r.Header.Set("Authorization", "Bearer abc")

	a := NewRequestAdapter(r)

	v, ok := a.Header("Authorization")
	if !ok || v != "Bearer abc" {
		t.Errorf("Header(Authorization) = %q, %v, want %q, true", v, ok, "Bearer abc")
	}

	if _, ok := a.Header("X-Missing"); ok {
		t.Error("Header(X-Missing) should report absent")
	}
}

func TestRequestAdapter_Form(t *testing.T) {
	t.Parallel()

	body := strings.NewReader("access_token=tok123&other=x")
	r := httptest.NewRequest(http.MethodPost, "/test", body)
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	a := NewRequestAdapter(r)

	v, ok := a.Form("access_token")
	if !ok || v != "tok123" {
		t.Errorf("Form(access_token) = %q, %v, want tok123, true", v, ok)
	}

	if _, ok := a.Form("nonexistent"); ok {
		t.Error("Form(nonexistent) should report absent")
	}
}

func TestRequestAdapter_Form_IgnoredWithoutFormContentType(t *testing.T) {
	t.Parallel()

	body := strings.NewReader("access_token=tok123")
	r := httptest.NewRequest(http.MethodPost, "/test", body)
	r.Header.Set("Content-Type", "application/json")

	a := NewRequestAdapter(r)

	if _, ok := a.Form("access_token"); ok {
		t.Error("Form should not be populated for non-form content types")
	}
}

func TestRequestAdapter_Query(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/test?access_token=qtok", nil)
	a := NewRequestAdapter(r)

	v, ok := a.Query("access_token")
	if !ok || v != "qtok" {
		t.Errorf("Query(access_token) = %q, %v, want qtok, true", v, ok)
	}

	if _, ok := a.Query("missing"); ok {
		t.Error("Query(missing) should report absent")
	}
}

func TestResponseAdapter_SetHeaderAndAttachShared(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	a := NewResponseAdapter(w)

	a.SetHeader("WWW-Authenticate", `Bearer error="invalid_token"`)
	if w.Header().Get("WWW-Authenticate") != `Bearer error="invalid_token"` {
		t.Errorf("SetHeader did not propagate to the underlying writer")
	}

	result := &core.Result{Sub: "user1"}
	a.AttachShared(result)

	if got := a.Result(); got != result {
		t.Errorf("Result() = %v, want %v", got, result)
	}
}

func TestResponseAdapter_ResultNilByDefault(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	a := NewResponseAdapter(w)

	if a.Result() != nil {
		t.Error("Result() should be nil before AttachShared is called")
	}
}

func TestNewRequestAdapter_FormWithCharset(t *testing.T) {
	t.Parallel()

	body := strings.NewReader("access_token=tok")
	r := httptest.NewRequest(http.MethodPost, "/test", body)
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=utf-8")

	a := NewRequestAdapter(r)

	if v, ok := a.Form("access_token"); !ok || v != "tok" {
		t.Errorf("Form(access_token) = %q, %v, want tok, true", v, ok)
	}
}

func TestRequestAdapter_QueryEscaping(t *testing.T) {
	t.Parallel()

	u := &url.URL{Path: "/test", RawQuery: "access_token=a%20b"}
	r := &http.Request{Method: http.MethodGet, URL: u, Header: http.Header{}}
	a := NewRequestAdapter(r)

	v, ok := a.Query("access_token")
	if !ok || v != "a b" {
		t.Errorf("Query(access_token) = %q, %v, want %q, true", v, ok, "a b")
	}
}
