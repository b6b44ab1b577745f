package main

import (
	"fmt"
	"path/filepath"

	"github.com/kbukum/speechkit/audio/ffmpeg"
	"github.com/kbukum/speechkit/config"
	"github.com/kbukum/speechkit/encryption"
	"github.com/kbukum/speechkit/observability"
	"github.com/kbukum/speechkit/storage"
	"github.com/kbukum/speechkit/transcription/cloud"
	"github.com/kbukum/speechkit/transcription/whispercpp"
	"github.com/kbukum/speechkit/vad"
	"github.com/kbukum/speechkit/version"
)

const serviceName = "speechkit"

// LocalConfig configures the on-device engine.
type LocalConfig struct {
	whispercpp.Config `yaml:",inline" mapstructure:",squash"`
	// KeepLoaded keeps the model resident between transcriptions.
	KeepLoaded bool `yaml:"keep_loaded" mapstructure:"keep_loaded"`
}

// SecretsConfig enables encryption of stored API keys.
type SecretsConfig struct {
	// Key is the passphrase; empty stores keys as plaintext.
	Key       string               `yaml:"key" mapstructure:"key"`
	Algorithm encryption.Algorithm `yaml:"algorithm" mapstructure:"algorithm"`
}

// AppConfig is the speechkit configuration, read from speechkit.yml and
// SPEECHKIT_ environment variables.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Local   LocalConfig   `yaml:"local" mapstructure:"local"`
	VAD     vad.Config    `yaml:"vad" mapstructure:"vad"`
	Cloud   cloud.Config  `yaml:"cloud" mapstructure:"cloud"`
	Secrets SecretsConfig `yaml:"secrets" mapstructure:"secrets"`
	// FFmpeg is the converter used for non-WAV input.
	FFmpeg    string               `yaml:"ffmpeg" mapstructure:"ffmpeg"`
	Store     storage.Config       `yaml:"store" mapstructure:"store"`
	Telemetry observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// ApplyDefaults fills in everything a fresh install needs. Models and VAD
// calibration live next to the settings store by default.
func (c *AppConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	if c.Version == "" {
		c.Version = version.Get().Short()
	}
	c.ServiceConfig.ApplyDefaults()

	c.Local.ApplyDefaults()
	if c.Local.ModelsDir == "" {
		c.Local.ModelsDir = filepath.Join(storage.DefaultBasePath(), "models")
	}
	if c.VAD.ModelDir == "" {
		c.VAD.ModelDir = filepath.Join(storage.DefaultBasePath(), "vad")
	}
	c.Cloud.ApplyDefaults()
	if c.FFmpeg == "" {
		c.FFmpeg = ffmpeg.DefaultBinary
	}
	c.Store.ApplyDefaults()
	if c.Secrets.Algorithm == "" {
		c.Secrets.Algorithm = encryption.AlgorithmAESGCM
	}
	if c.Telemetry.Enabled {
		c.Telemetry.ApplyDefaults()
	}
}

// Validate checks the whole configuration.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if c.Telemetry.Enabled {
		if err := c.Telemetry.Validate(); err != nil {
			return fmt.Errorf("telemetry: %w", err)
		}
	}
	return nil
}

// loadConfig reads the config file and environment, then applies the
// command-line overrides.
func loadConfig(cli *CLI) (*AppConfig, error) {
	var opts []config.LoaderOption
	if cli.Config != "" {
		opts = append(opts, config.WithConfigFile(cli.Config))
	}

	cfg := &AppConfig{}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}

	if cli.Debug {
		cfg.Debug = true
	}
	if cli.Ephemeral {
		cfg.Store.Provider = storage.ProviderMemory
	}
	if cli.OTLPEndpoint != "" {
		cfg.Telemetry.Enabled = true
		cfg.Telemetry.Endpoint = cli.OTLPEndpoint
		cfg.Telemetry.Insecure = cli.OTLPInsecure
	}
	return cfg, nil
}
