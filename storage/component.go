package storage

import (
	"context"
	"fmt"

	"github.com/kbukum/speechkit/component"
	"github.com/kbukum/speechkit/logger"
)

// Component builds the configured Storage on Start.
type Component struct {
	storage Storage
	cfg     Config
	log     *logger.Logger
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates a storage component.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	if log == nil {
		log = logger.Get("storage")
	}
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, log: log}
}

// Storage returns the started Storage, or nil before Start.
func (c *Component) Storage() Storage {
	return c.storage
}

// Name returns the component name.
func (c *Component) Name() string { return "storage" }

// Start builds the backend.
func (c *Component) Start(_ context.Context) error {
	s, err := New(c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("storage start: %w", err)
	}
	c.storage = s
	return nil
}

// Stop drops the backend.
func (c *Component) Stop(_ context.Context) error {
	c.storage = nil
	return nil
}

// Health probes the backend with an existence check.
func (c *Component) Health(ctx context.Context) component.Health {
	if c.storage == nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "storage not initialized"}
	}
	if _, err := c.storage.Exists(ctx, ".health"); err != nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: fmt.Sprintf("health probe failed: %v", err)}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

// Describe summarizes the provider.
func (c *Component) Describe() component.Description {
	details := "provider=" + c.cfg.Provider
	switch c.cfg.Provider {
	case ProviderLocal:
		details += " path=" + c.cfg.BasePath
	case ProviderS3:
		details += " bucket=" + c.cfg.S3.Bucket
	}
	return component.Description{Name: "Storage", Type: "storage", Details: details}
}
