package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
)

// AppError is the unified transcription error type.
type AppError struct {
	// Code is the taxonomy member.
	Code ErrorCode `json:"code"`
	// Message is a short human-readable summary.
	Message string `json:"message"`
	// Hint is a one-line actionable remediation.
	Hint string `json:"hint"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// StatusCode is the HTTP status for ErrCodeAPIRequestFailed, zero otherwise.
	StatusCode int `json:"status_code,omitempty"`
	// Body is the server response text for ErrCodeAPIRequestFailed.
	Body string `json:"body,omitempty"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an *AppError with the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message, hint string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Hint:      hint,
		Retryable: IsRetryableCode(code),
	}
}

// AsAppError extracts an *AppError from err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err carries the given taxonomy code.
func IsCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// CodeOf returns the taxonomy code of err, or "" when err is not classified.
func CodeOf(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ""
}

// --- Taxonomy constructors ---

// ModelLoadFailed creates an error for a model that could not be loaded.
func ModelLoadFailed(cause error) *AppError {
	return New(ErrCodeModelLoadFailed, "Failed to load the transcription model.",
		"Check that the model files are present and readable, then try again.").WithCause(cause)
}

// NotInitialized creates an error for an engine with no usable model source.
func NotInitialized(reason string) *AppError {
	return New(ErrCodeNotInitialized, "Transcription engine is not initialized: "+reason,
		"Configure a models directory or enable automatic model download.")
}

// InvalidAudioData creates an error for undecodable audio.
func InvalidAudioData(cause error) *AppError {
	return New(ErrCodeInvalidAudioData, "Audio data is invalid or too short.",
		"Record again; the file must be a 16 kHz mono 16-bit PCM WAV.").WithCause(cause)
}

// AudioFileNotFound creates an error for a missing audio file.
func AudioFileNotFound(path string) *AppError {
	return New(ErrCodeAudioFileNotFound, "Audio file not found.",
		"Audio file not found (internal error).").WithDetail("path", path)
}

// DataEncodingError creates an error for a payload that could not be encoded.
func DataEncodingError(cause error) *AppError {
	return New(ErrCodeDataEncodingError, "Failed to encode request data.",
		"Data encoding error.").WithCause(cause)
}

// RequestNotBuilt creates an error for a request that could not be built,
// usually because of a malformed endpoint.
func RequestNotBuilt(cause error) *AppError {
	return New(ErrCodeDataEncodingError, "Failed to build the request.",
		"Could not build the request. Check that the API endpoint is a valid http(s) URL.").WithCause(cause)
}

// APIRequestFailed creates an error for a non-2xx HTTP response.
func APIRequestFailed(statusCode int, body string) *AppError {
	return &AppError{
		Code:       ErrCodeAPIRequestFailed,
		Message:    fmt.Sprintf("HTTP %d", statusCode),
		Hint:       StatusHint(statusCode),
		Retryable:  statusCode >= http.StatusInternalServerError || statusCode == http.StatusTooManyRequests,
		StatusCode: statusCode,
		Body:       strings.TrimSpace(body),
	}
}

// NetworkError creates an error for a transport failure. The hint depends on
// the kind of failure found in the cause chain.
func NetworkError(cause error) *AppError {
	kind := NetworkKindOf(cause)
	return &AppError{
		Code:      ErrCodeNetworkError,
		Message:   "Network request failed.",
		Hint:      networkHint(kind, cause),
		Retryable: true,
		Details:   map[string]any{"kind": kind.String()},
		Cause:     cause,
	}
}

// NoTranscriptionReturned creates an error for a response without text.
func NoTranscriptionReturned() *AppError {
	return New(ErrCodeNoTranscriptionReturned, "No transcription in response.",
		"No transcription in response. The endpoint may not be OpenAI-compatible.")
}

// RateLimitExceeded creates an error for a rate-limited provider.
func RateLimitExceeded() *AppError {
	return New(ErrCodeRateLimitExceeded, "Rate limit exceeded.", "Rate limit exceeded. Try again later.")
}

// InvalidAPIKey creates an error for a rejected credential.
func InvalidAPIKey() *AppError {
	return New(ErrCodeInvalidAPIKey, "Invalid API key.", "Invalid API key. Check your credentials.")
}

// RequestTooLarge creates an error for an oversized payload.
func RequestTooLarge() *AppError {
	return New(ErrCodeRequestTooLarge, "Request too large.",
		"Request too large. Shorten the recording or enable voice activity detection.")
}

// ModelNotAvailable creates an error for a missing or unknown model identifier.
func ModelNotAvailable(model string) *AppError {
	return New(ErrCodeModelNotAvailable, fmt.Sprintf("Model %q is not available.", model),
		"Model not available. Check the model name.").WithDetail("model", model)
}

// UnsupportedProvider creates an error for a backend no engine serves.
func UnsupportedProvider(backend string) *AppError {
	return New(ErrCodeUnsupportedProvider, fmt.Sprintf("Unsupported provider %q.", backend),
		"Unsupported provider. Pick a local or cloud model.").WithDetail("backend", backend)
}

// MissingAPIKey creates an error for a cloud descriptor without a credential.
func MissingAPIKey() *AppError {
	return New(ErrCodeMissingAPIKey, "Missing API key.", "Missing API key. Add one in the engine settings.")
}
