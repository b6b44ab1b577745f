package observability

import (
	"fmt"
	"time"
)

// Config controls OTLP export of traces and metrics.
type Config struct {
	// Enabled turns on the OTLP exporters.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	// Insecure allows plain HTTP to the collector.
	Insecure bool `yaml:"insecure" mapstructure:"insecure"`
	// SampleRate is the trace sampling rate (0.0 to 1.0).
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
	// Interval is the metric export interval.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// DefaultConfig returns a disabled config pointing at a local collector.
func DefaultConfig() Config {
	return Config{
		Endpoint:   "localhost:4318",
		Insecure:   true,
		SampleRate: 1.0,
		Interval:   15 * time.Second,
	}
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	def := DefaultConfig()
	if c.Endpoint == "" {
		c.Endpoint = def.Endpoint
	}
	if c.SampleRate == 0 {
		c.SampleRate = def.SampleRate
	}
	if c.Interval <= 0 {
		c.Interval = def.Interval
	}
}

// Validate checks the config.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Endpoint == "" {
		return fmt.Errorf("observability: endpoint is required when telemetry is enabled")
	}
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("observability: sample_rate must be between 0 and 1, got %v", c.SampleRate)
	}
	return nil
}
