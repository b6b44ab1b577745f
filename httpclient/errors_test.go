package httpclient

import (
	"errors"
	"testing"
)

func TestErrorCode_String(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{ErrCodeTimeout, "timeout"},
		{ErrCodeConnection, "connection"},
		{ErrCodeAuth, "auth"},
		{ErrCodeNotFound, "not_found"},
		{ErrCodeRateLimit, "rate_limit"},
		{ErrCodeTooLarge, "too_large"},
		{ErrCodeValidation, "validation"},
		{ErrCodeServer, "server"},
		{ErrorCode(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.code.String(); got != tt.want {
			t.Errorf("ErrorCode(%d).String() = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestError_Error(t *testing.T) {
	e := &Error{StatusCode: 404, Code: ErrCodeNotFound, Message: "HTTP 404"}
	if got, want := e.Error(), "httpclient: not_found (HTTP 404): HTTP 404"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	e2 := &Error{Code: ErrCodeConnection, Message: "connection refused"}
	if got, want := e2.Error(), "httpclient: connection: connection refused"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNewConnectionError_Unwraps(t *testing.T) {
	inner := errors.New("dial tcp: refused")
	e := NewConnectionError(inner)
	if !errors.Is(e, inner) {
		t.Error("expected connection error to wrap its cause")
	}
	if e.HTTPStatus() != 0 {
		t.Error("transport errors carry no status")
	}
}

func TestClassifyStatusCode(t *testing.T) {
	tests := []struct {
		code    int
		wantNil bool
		errCode ErrorCode
		retry   bool
	}{
		{200, true, 0, false},
		{204, true, 0, false},
		{400, false, ErrCodeValidation, false},
		{401, false, ErrCodeAuth, false},
		{403, false, ErrCodeAuth, false},
		{404, false, ErrCodeNotFound, false},
		{413, false, ErrCodeTooLarge, false},
		{422, false, ErrCodeValidation, false},
		{429, false, ErrCodeRateLimit, true},
		{500, false, ErrCodeServer, true},
		{503, false, ErrCodeServer, true},
	}
	for _, tt := range tests {
		got := ClassifyStatusCode(tt.code, []byte("body"))
		if tt.wantNil {
			if got != nil {
				t.Errorf("%d: expected nil, got %v", tt.code, got)
			}
			continue
		}
		if got == nil {
			t.Fatalf("%d: expected error", tt.code)
		}
		if got.Code != tt.errCode {
			t.Errorf("%d: code = %s, want %s", tt.code, got.Code, tt.errCode)
		}
		if got.Retryable != tt.retry {
			t.Errorf("%d: retryable = %v, want %v", tt.code, got.Retryable, tt.retry)
		}
		if string(got.Body) != "body" {
			t.Errorf("%d: body not preserved", tt.code)
		}
	}
}
