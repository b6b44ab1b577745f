package provider

import "context"

// Provider is the base interface every backend implements.
type Provider interface {
	// Name returns the backend's unique name.
	Name() string
	// IsAvailable reports whether the backend can take requests right now.
	// It must be cheap and must not load models or open connections.
	IsAvailable(ctx context.Context) bool
}
