package component

import "context"

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health holds health information for a component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is a lifecycle-managed part of the application.
type Component interface {
	// Name returns the unique registration name.
	Name() string

	// Start prepares the component for use.
	Start(ctx context.Context) error

	// Stop releases everything the component holds.
	Stop(ctx context.Context) error

	// Health reports the current state.
	Health(ctx context.Context) Health
}

// Description is a one-line summary of a component for status output.
type Description struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Details string `json:"details,omitempty"`
}

// Describable is optionally implemented by components that can summarize
// their configuration.
type Describable interface {
	Describe() Description
}
