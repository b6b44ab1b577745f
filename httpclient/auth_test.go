package httpclient

import (
	"net/http"
	"testing"
)

func TestBearerAuth(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
	BearerAuth("my-token").apply(req)
	if got := req.Header.Get("Authorization"); got != "Bearer my-token" {
		t.Errorf("got %q, want %q", got, "Bearer my-token")
	}
}

func TestAPIKeyAuth(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", "X-API-Key"},
		{"api-key", "Api-Key"},
	}
	for _, tt := range tests {
		req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
		APIKeyAuth("secret", tt.header).apply(req)
		if got := req.Header.Get(tt.want); got != "secret" {
			t.Errorf("header %q: got %q", tt.want, got)
		}
	}
}

func TestCustomAuth(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
	CustomAuth(func(r *http.Request) { r.Header.Set("X-Signed", "yes") }).apply(req)
	if req.Header.Get("X-Signed") != "yes" {
		t.Error("custom auth not applied")
	}
}

func TestNilAuth(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
	var a *AuthConfig
	a.apply(req)
	if req.Header.Get("Authorization") != "" {
		t.Error("nil auth should not set headers")
	}
}
