// Package resilience retries transient failures with exponential backoff.
//
// Model downloads and other idempotent network steps are wrapped in Retry:
//
//	path, err := resilience.Retry(ctx, resilience.DefaultRetryConfig(), func() (string, error) {
//	    return download(ctx, url)
//	})
//
// Errors wrapped with Permanent stop the loop immediately.
package resilience
