package errors

import (
	"context"
	"crypto/x509"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
)

type statusErr struct {
	status int
	body   string
}

func (e *statusErr) Error() string        { return fmt.Sprintf("status %d", e.status) }
func (e *statusErr) HTTPStatus() int      { return e.status }
func (e *statusErr) ResponseBody() []byte { return []byte(e.body) }

type buildErr struct{}

func (buildErr) Error() string        { return "create request: bad url" }
func (buildErr) RequestInvalid() bool { return true }

func TestClassify_RequestNotBuilt(t *testing.T) {
	err := Classify(fmt.Errorf("upload: %w", buildErr{}))
	if err.Code != ErrCodeDataEncodingError {
		t.Fatalf("code = %s, want %s", err.Code, ErrCodeDataEncodingError)
	}
	if !strings.Contains(Describe(err), "API endpoint") {
		t.Errorf("Describe = %q", Describe(err))
	}
}

func TestDescribe_StatusBuckets(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{401, "Authentication failed"},
		{403, "Access forbidden"},
		{404, "Endpoint not found"},
		{422, "Check model name and parameters"},
		{500, "Server error"},
		{502, "Server error"},
		{400, "Bad Request"},
		{429, "Too Many Requests"},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("HTTP %d", tc.status), func(t *testing.T) {
			msg := Describe(Classify(&statusErr{status: tc.status}))
			if !strings.HasPrefix(msg, fmt.Sprintf("HTTP %d - ", tc.status)) {
				t.Errorf("expected status prefix, got %q", msg)
			}
			if !strings.Contains(msg, tc.want) {
				t.Errorf("expected %q in %q", tc.want, msg)
			}
			if strings.Contains(msg, "Server response") {
				t.Errorf("expected no server response line for empty body, got %q", msg)
			}
		})
	}
}

func TestDescribe_AppendsBody(t *testing.T) {
	msg := Describe(Classify(&statusErr{status: 401, body: `{"error":"bad key"}`}))
	want := "HTTP 401 - Authentication failed. Check your API key.\nServer response: {\"error\":\"bad key\"}"
	if msg != want {
		t.Errorf("got %q, want %q", msg, want)
	}
}

func TestClassify_WrappedStatusError(t *testing.T) {
	err := Classify(fmt.Errorf("post: %w", &statusErr{status: 404, body: "nope"}))
	if err.Code != ErrCodeAPIRequestFailed {
		t.Fatalf("expected API_REQUEST_FAILED, got %s", err.Code)
	}
	if err.StatusCode != 404 || err.Body != "nope" {
		t.Errorf("unexpected payload: %d %q", err.StatusCode, err.Body)
	}
}

func TestClassify_PassesAppErrorThrough(t *testing.T) {
	orig := MissingAPIKey()
	if got := Classify(fmt.Errorf("wrap: %w", orig)); got != orig {
		t.Error("expected the original AppError")
	}
	if Classify(nil) != nil {
		t.Error("expected nil for nil")
	}
}

func TestClassify_MissingFile(t *testing.T) {
	_, err := os.Open(filepath.Join(t.TempDir(), "absent.wav"))
	got := Classify(err)
	if got.Code != ErrCodeAudioFileNotFound {
		t.Errorf("expected AUDIO_FILE_NOT_FOUND, got %s", got.Code)
	}
}

func TestClassify_NetworkKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind NetworkKind
		want string
	}{
		{
			"dns",
			&url.Error{Op: "Post", URL: "https://nowhere.invalid", Err: &net.OpError{Op: "dial", Err: &net.DNSError{Err: "no such host", Name: "nowhere.invalid", IsNotFound: true}}},
			NetworkHostNotFound,
			"Cannot find host",
		},
		{
			"deadline",
			&url.Error{Op: "Post", URL: "https://slow.example", Err: context.DeadlineExceeded},
			NetworkTimeout,
			"Request timed out",
		},
		{
			"unreachable",
			&net.OpError{Op: "dial", Err: os.NewSyscallError("connect", syscall.ENETUNREACH)},
			NetworkOffline,
			"No internet connection",
		},
		{
			"tls",
			&url.Error{Op: "Post", URL: "https://self-signed.example", Err: x509.UnknownAuthorityError{}},
			NetworkTLS,
			"SSL/TLS connection failed",
		},
		{
			"other",
			&net.OpError{Op: "dial", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)},
			NetworkOther,
			"Network error: ",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if kind := NetworkKindOf(tc.err); kind != tc.kind {
				t.Errorf("expected kind %s, got %s", tc.kind, kind)
			}
			got := Classify(tc.err)
			if got.Code != ErrCodeNetworkError {
				t.Fatalf("expected NETWORK_ERROR, got %s", got.Code)
			}
			if msg := Describe(got); !strings.Contains(msg, tc.want) {
				t.Errorf("expected %q in %q", tc.want, msg)
			}
		})
	}
}

func TestDescribe_Unclassified(t *testing.T) {
	msg := Describe(fmt.Errorf("socket closed"))
	if msg != "Connection failed: socket closed" {
		t.Errorf("unexpected message %q", msg)
	}
}
