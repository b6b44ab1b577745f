package whispercpp

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"github.com/kbukum/speechkit/logger"
	"github.com/kbukum/speechkit/transcription/local"
	"github.com/kbukum/speechkit/transcription/whispercpp/models"
)

// Config selects and tunes a whisper.cpp model.
type Config struct {
	// ModelsDir holds the ggml model files.
	ModelsDir string `yaml:"models_dir" mapstructure:"models_dir"`
	// Model is the model file name, e.g. "ggml-base.en.bin".
	Model string `yaml:"model" mapstructure:"model"`
	// AutoDownload fetches a catalog model that is not on disk yet.
	AutoDownload bool `yaml:"auto_download" mapstructure:"auto_download"`
	// Language is an ISO code or "auto".
	Language string `yaml:"language" mapstructure:"language"`
	// Threads is the inference thread count; 0 lets whisper.cpp decide.
	Threads uint `yaml:"threads" mapstructure:"threads"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Model == "" {
		c.Model = models.DefaultModel
	}
	if c.Language == "" {
		c.Language = "auto"
	}
}

// Path returns the model file location.
func (c Config) Path() string {
	return filepath.Join(c.ModelsDir, c.Model)
}

// Source loads whisper.cpp models from disk.
type Source struct {
	cfg        Config
	downloader *models.Downloader
	log        *logger.Logger
}

var _ local.ModelSource = (*Source)(nil)

// NewSource creates a model source. downloader may be nil when
// cfg.AutoDownload is false.
func NewSource(cfg Config, downloader *models.Downloader, log *logger.Logger) *Source {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.Get("whispercpp")
	}
	return &Source{cfg: cfg, downloader: downloader, log: log}
}

// Config returns the effective configuration.
func (s *Source) Config() Config { return s.cfg }

// Ready reports whether the model file is present or can be fetched.
func (s *Source) Ready() bool {
	if s.cfg.ModelsDir == "" {
		return false
	}
	if models.IsDownloaded(s.cfg.ModelsDir, s.cfg.Model) {
		return true
	}
	_, known := models.Lookup(s.cfg.Model)
	return s.cfg.AutoDownload && s.downloader != nil && known
}

// Describe names the model file.
func (s *Source) Describe() string {
	return "whisper.cpp " + s.cfg.Path()
}

// Load fetches the model if needed and loads it into memory.
func (s *Source) Load(ctx context.Context) (local.Model, error) {
	if s.cfg.ModelsDir == "" {
		return nil, fmt.Errorf("whisper.cpp models directory not configured")
	}

	path := s.cfg.Path()
	if !models.IsDownloaded(s.cfg.ModelsDir, s.cfg.Model) {
		entry, known := models.Lookup(s.cfg.Model)
		switch {
		case !s.cfg.AutoDownload || s.downloader == nil:
			return nil, fmt.Errorf("model file %s not found", path)
		case !known:
			return nil, fmt.Errorf("model %s is not in the download catalog", s.cfg.Model)
		}
		var err error
		if path, err = s.downloader.Download(ctx, entry, s.cfg.ModelsDir); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	m, err := whisper.New(path)
	if err != nil {
		return nil, fmt.Errorf("load whisper model %s: %w", path, err)
	}
	s.log.Info("whisper.cpp model loaded", logger.Fields(
		"path", path,
		"multilingual", m.IsMultilingual(),
		"duration_ms", time.Since(start).Milliseconds()))

	return &model{model: m, language: s.cfg.Language, threads: s.cfg.Threads, log: s.log}, nil
}
