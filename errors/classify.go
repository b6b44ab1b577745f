package errors

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	stderrors "errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"syscall"
)

// NetworkKind distinguishes transport failures that get distinct remediation.
type NetworkKind int

const (
	// NetworkOther is any transport failure not covered below.
	NetworkOther NetworkKind = iota
	// NetworkHostNotFound is a DNS resolution failure.
	NetworkHostNotFound
	// NetworkOffline is an unreachable or down network.
	NetworkOffline
	// NetworkTimeout is a request or dial timeout.
	NetworkTimeout
	// NetworkTLS is a TLS handshake or certificate failure.
	NetworkTLS
)

// String returns the kind name.
func (k NetworkKind) String() string {
	switch k {
	case NetworkHostNotFound:
		return "host_not_found"
	case NetworkOffline:
		return "offline"
	case NetworkTimeout:
		return "timeout"
	case NetworkTLS:
		return "tls"
	default:
		return "other"
	}
}

// StatusCoder is implemented by HTTP client errors that carry a response.
type StatusCoder interface {
	HTTPStatus() int
	ResponseBody() []byte
}

// InvalidRequester is implemented by HTTP client errors for requests that
// were never sent.
type InvalidRequester interface {
	RequestInvalid() bool
}

// NetworkKindOf inspects err's chain for a recognizable transport failure.
func NetworkKindOf(err error) NetworkKind {
	if err == nil {
		return NetworkOther
	}

	var dnsErr *net.DNSError
	if stderrors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return NetworkTimeout
		}
		return NetworkHostNotFound
	}

	if isTLSError(err) {
		return NetworkTLS
	}

	if stderrors.Is(err, context.DeadlineExceeded) {
		return NetworkTimeout
	}
	var netErr net.Error
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return NetworkTimeout
	}

	if stderrors.Is(err, syscall.ENETUNREACH) ||
		stderrors.Is(err, syscall.ENETDOWN) ||
		stderrors.Is(err, syscall.EHOSTUNREACH) {
		return NetworkOffline
	}

	return NetworkOther
}

func isTLSError(err error) bool {
	var recordErr tls.RecordHeaderError
	var alertErr tls.AlertError
	var verifyErr *tls.CertificateVerificationError
	var authorityErr x509.UnknownAuthorityError
	var hostnameErr x509.HostnameError
	var invalidErr x509.CertificateInvalidError
	return stderrors.As(err, &recordErr) ||
		stderrors.As(err, &alertErr) ||
		stderrors.As(err, &verifyErr) ||
		stderrors.As(err, &authorityErr) ||
		stderrors.As(err, &hostnameErr) ||
		stderrors.As(err, &invalidErr)
}

func networkHint(kind NetworkKind, cause error) string {
	switch kind {
	case NetworkHostNotFound:
		return "Cannot find host. Check the API endpoint URL."
	case NetworkOffline:
		return "No internet connection."
	case NetworkTimeout:
		return "Request timed out. The server may be slow or unreachable."
	case NetworkTLS:
		return "SSL/TLS connection failed. Check if HTTPS is required."
	default:
		if cause == nil {
			return "Network error."
		}
		return "Network error: " + cause.Error()
	}
}

// StatusHint returns the remediation for an HTTP status code.
func StatusHint(statusCode int) string {
	switch {
	case statusCode == http.StatusUnauthorized:
		return "Authentication failed. Check your API key."
	case statusCode == http.StatusForbidden:
		return "Access forbidden. Verify API key permissions."
	case statusCode == http.StatusNotFound:
		return "Endpoint not found. Check the API endpoint URL."
	case statusCode == http.StatusUnprocessableEntity:
		return "Invalid request. Check model name and parameters."
	case statusCode >= http.StatusInternalServerError:
		return "Server error. The API service may be down."
	default:
		if text := http.StatusText(statusCode); text != "" {
			return text + "."
		}
		return "Unexpected response status."
	}
}

// Classify maps a raw failure into the taxonomy. AppErrors pass through;
// errors carrying an HTTP status become ErrCodeAPIRequestFailed; requests
// that could not be built become ErrCodeDataEncodingError; missing
// files become ErrCodeAudioFileNotFound; everything else is treated as a
// transport failure. Classify(nil) returns nil.
func Classify(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}

	var sc StatusCoder
	if stderrors.As(err, &sc) && sc.HTTPStatus() > 0 {
		return APIRequestFailed(sc.HTTPStatus(), string(sc.ResponseBody()))
	}

	var ir InvalidRequester
	if stderrors.As(err, &ir) && ir.RequestInvalid() {
		return RequestNotBuilt(err)
	}

	var pathErr *fs.PathError
	if stderrors.As(err, &pathErr) && stderrors.Is(err, fs.ErrNotExist) {
		return AudioFileNotFound(pathErr.Path).WithCause(err)
	}

	return NetworkError(err)
}

// Describe renders the one-line diagnostic for err. API failures include
// the server response body on a second line when one was returned.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	appErr, ok := AsAppError(err)
	if !ok {
		return fmt.Sprintf("Connection failed: %v", err)
	}

	switch appErr.Code {
	case ErrCodeAPIRequestFailed:
		details := fmt.Sprintf("HTTP %d - %s", appErr.StatusCode, appErr.Hint)
		if appErr.Body != "" {
			details += "\nServer response: " + appErr.Body
		}
		return details
	default:
		if appErr.Hint != "" {
			return appErr.Hint
		}
		return appErr.Message
	}
}
