package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Provider names.
const (
	ProviderLocal  = "local"
	ProviderMemory = "memory"
	ProviderS3     = "s3"
)

const defaultRegion = "us-east-1"

// Config selects and configures the settings store.
type Config struct {
	// Provider is one of local, memory, s3. Defaults to local.
	Provider string `yaml:"provider" mapstructure:"provider"`

	// BasePath is the root directory of the local provider. Defaults to
	// <user config dir>/speechkit.
	BasePath string `yaml:"base_path" mapstructure:"base_path"`

	// S3 configures the s3 provider.
	S3 S3Config `yaml:"s3" mapstructure:"s3"`
}

// S3Config configures the s3 provider.
type S3Config struct {
	Bucket string `yaml:"bucket" mapstructure:"bucket"`
	// Prefix is prepended to every object key.
	Prefix    string `yaml:"prefix" mapstructure:"prefix"`
	Region    string `yaml:"region" mapstructure:"region"`
	Endpoint  string `yaml:"endpoint" mapstructure:"endpoint"`
	AccessKey string `yaml:"access_key" mapstructure:"access_key"`
	SecretKey string `yaml:"secret_key" mapstructure:"secret_key"`
	// ForcePathStyle is implied when Endpoint is set.
	ForcePathStyle bool `yaml:"force_path_style" mapstructure:"force_path_style"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderLocal
	}
	if c.Provider == ProviderLocal && c.BasePath == "" {
		c.BasePath = DefaultBasePath()
	}
	if c.Provider == ProviderS3 && c.S3.Region == "" {
		c.S3.Region = defaultRegion
	}
}

// Validate checks the settings the selected provider needs.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderLocal:
		if c.BasePath == "" {
			return fmt.Errorf("storage: base_path is required for local provider")
		}
	case ProviderMemory:
	case ProviderS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("storage: s3.bucket is required for s3 provider")
		}
	default:
		return fmt.Errorf("storage: unsupported provider %q", c.Provider)
	}
	return nil
}

// DefaultBasePath returns <user config dir>/speechkit, or ./.speechkit when
// the user config dir cannot be determined.
func DefaultBasePath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return ".speechkit"
	}
	return filepath.Join(dir, "speechkit")
}
