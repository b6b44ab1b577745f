package httpclient

import (
	"io"
	"strconv"
)

// Request describes an outbound HTTP request.
type Request struct {
	// Method is the HTTP method.
	Method string
	// Path is appended to BaseURL, or used as-is when it is absolute.
	Path string
	// Headers are merged over the client defaults.
	Headers map[string]string
	// Query are URL query parameters.
	Query map[string]string
	// Body accepts *MultipartBody, io.Reader, []byte, string, or any value
	// that will be JSON-encoded.
	Body any
	// Auth overrides the client-level auth for this request.
	Auth *AuthConfig
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// StreamResponse is a response whose body is read by the caller.
type StreamResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       io.ReadCloser
}

// ContentLength returns the declared body length, or -1 when unknown.
func (r *StreamResponse) ContentLength() int64 {
	n, err := strconv.ParseInt(r.Headers["Content-Length"], 10, 64)
	if err != nil {
		return -1
	}
	return n
}

// Close releases the underlying connection.
func (r *StreamResponse) Close() error {
	if r.Body == nil {
		return nil
	}
	return r.Body.Close()
}
