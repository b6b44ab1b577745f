package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kbukum/speechkit/resilience"
)

func TestClient_Do_GET(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/models/base.en" {
			t.Errorf("expected /models/base.en, got %s", r.URL.Path)
		}
		if got := r.Header.Get("User-Agent"); got != "speechkit" {
			t.Errorf("expected default user agent, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"name": "base.en"})
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/models/base.en"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.IsSuccess() {
		t.Errorf("expected success, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(resp.Body), "base.en") {
		t.Errorf("unexpected body %s", resp.Body)
	}
}

func TestClient_Do_POST_JSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected Content-Type application/json, got %s", ct)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL})
	resp, err := c.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/engines",
		Body:   map[string]string{"name": "groq"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("expected 201, got %d", resp.StatusCode)
	}
}

func TestClient_Do_HeadersAndQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Custom"); got != "override" {
			t.Errorf("expected request header to win, got %q", got)
		}
		if got := r.URL.Query().Get("page"); got != "2" {
			t.Errorf("expected page=2, got %q", got)
		}
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL, Headers: map[string]string{"X-Custom": "default"}})
	_, err := c.Do(context.Background(), Request{
		Method:  http.MethodGet,
		Path:    "/items",
		Headers: map[string]string{"X-Custom": "override"},
		Query:   map[string]string{"page": "2"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_Do_Auth_PerRequestOverride(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer override-token" {
			t.Errorf("expected override-token, got %q", got)
		}
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL, Auth: BearerAuth("default-token")})
	_, err := c.Do(context.Background(), Request{
		Method: http.MethodGet,
		Path:   "/",
		Auth:   BearerAuth("override-token"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_Do_ErrorClassification(t *testing.T) {
	tests := []struct {
		code    int
		checker func(error) bool
	}{
		{401, IsAuth},
		{403, IsAuth},
		{404, IsNotFound},
		{429, IsRateLimit},
		{500, IsServerError},
		{503, IsServerError},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("HTTP_%d", tt.code), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				_, _ = w.Write([]byte(`{"error":"test"}`))
			}))
			defer srv.Close()

			c, _ := New(Config{BaseURL: srv.URL})
			resp, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
			if !tt.checker(err) {
				t.Errorf("error classification failed for HTTP %d: %v", tt.code, err)
			}
			if resp == nil || resp.StatusCode != tt.code {
				t.Fatalf("expected response with status %d", tt.code)
			}

			var httpErr *Error
			if !asError(err, &httpErr) {
				t.Fatal("expected *Error")
			}
			if httpErr.HTTPStatus() != tt.code {
				t.Errorf("HTTPStatus() = %d", httpErr.HTTPStatus())
			}
			if string(httpErr.ResponseBody()) != `{"error":"test"}` {
				t.Errorf("ResponseBody() = %q", httpErr.ResponseBody())
			}
		})
	}
}

func asError(err error, target **Error) bool {
	e, ok := err.(*Error)
	if ok {
		*target = e
	}
	return ok
}

func TestClient_Do_ClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	if !IsTimeout(err) {
		t.Errorf("expected timeout error, got %v", err)
	}
}

func TestClient_Do_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, _ := New(Config{})
	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: url})
	if !IsConnection(err) {
		t.Errorf("expected connection error, got %v", err)
	}
	if !IsRetryable(err) {
		t.Error("connection errors should be retryable")
	}
}

func TestClient_Do_InvalidURL(t *testing.T) {
	c, _ := New(Config{Retry: DefaultRetryConfig()})
	for _, url := range []string{"ftp://example.com/upload", "api.example.com/v1", "http://"} {
		_, err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: url})
		var herr *Error
		if !errors.As(err, &herr) || !herr.RequestInvalid() {
			t.Errorf("%s: err = %v, want invalid request", url, err)
		}
		if IsRetryable(err) {
			t.Errorf("%s: invalid requests must not be retried", url)
		}
	}
}

func TestClient_Do_Retry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	retry := DefaultRetryConfig()
	retry.InitialBackoff = time.Millisecond
	c, _ := New(Config{BaseURL: srv.URL, Retry: retry})

	resp, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Body) != "ok" || calls.Load() != 3 {
		t.Errorf("expected success on third call, got %q after %d calls", resp.Body, calls.Load())
	}
}

func TestClient_Do_NoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL, Retry: &resilience.RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		RetryIf:        IsRetryable,
	}})

	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	if !IsAuth(err) {
		t.Errorf("expected auth error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("expected 1 call, got %d", calls.Load())
	}
}

func TestClient_DoStream(t *testing.T) {
	payload := strings.Repeat("x", 4096)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", fmt.Sprint(len(payload)))
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL, Timeout: time.Millisecond})
	stream, err := c.DoStream(context.Background(), Request{Method: http.MethodGet, Path: "/model.bin"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer stream.Close()

	if stream.ContentLength() != int64(len(payload)) {
		t.Errorf("ContentLength() = %d", stream.ContentLength())
	}
	data, err := io.ReadAll(stream.Body)
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if string(data) != payload {
		t.Error("stream body mismatch")
	}
}

func TestClient_DoStream_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "missing", http.StatusNotFound)
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL})
	_, err := c.DoStream(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	if !IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestClient_Do_FullURL_IgnoresBaseURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: "http://unused.invalid"})
	if _, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: srv.URL + "/v1/audio/transcriptions"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
