package local

import (
	"context"
	"strings"
	"time"

	"github.com/kbukum/speechkit/audio"
	"github.com/kbukum/speechkit/component"
	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/logger"
	"github.com/kbukum/speechkit/observability"
	"github.com/kbukum/speechkit/transcription"
	"github.com/kbukum/speechkit/vad"
)

// EngineName is the name the local engine registers under.
const EngineName = "local"

// Segmenter narrows audio to speech before inference.
type Segmenter interface {
	Segment(ctx context.Context, buf audio.Buffer) vad.Result
}

// Option configures an Engine.
type Option func(*Engine)

// WithSegmenter enables voice activity segmentation.
func WithSegmenter(s Segmenter) Option {
	return func(e *Engine) { e.segmenter = s }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithInstruments sets the metric instruments.
func WithInstruments(inst *observability.Instruments) Option {
	return func(e *Engine) { e.inst = inst }
}

// WithKeepLoaded keeps the model resident between requests instead of
// releasing it after each one.
func WithKeepLoaded(keep bool) Option {
	return func(e *Engine) { e.keepLoaded = keep }
}

// WithPreload loads the model when the engine is started as a component.
func WithPreload(preload bool) Option {
	return func(e *Engine) { e.preload = preload }
}

// Engine implements transcription.Engine on an on-device model.
type Engine struct {
	source     ModelSource
	lifecycle  *Lifecycle
	segmenter  Segmenter
	readAudio  func(path string) (audio.Buffer, error)
	log        *logger.Logger
	inst       *observability.Instruments
	keepLoaded bool
	preload    bool
}

var (
	_ transcription.Engine  = (*Engine)(nil)
	_ component.Component   = (*Engine)(nil)
	_ component.Describable = (*Engine)(nil)
)

// NewEngine creates a local engine. source may be nil, in which case every
// request fails with notInitialized.
func NewEngine(source ModelSource, opts ...Option) *Engine {
	e := &Engine{source: source, readAudio: audio.ReadFile}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = logger.Get("local")
	}
	e.lifecycle = NewLifecycle(source, e.log, e.inst)
	return e
}

// Name returns the engine name.
func (e *Engine) Name() string { return EngineName }

// IsAvailable reports whether a model source is configured and ready.
func (e *Engine) IsAvailable(_ context.Context) bool {
	return e.source != nil && e.source.Ready()
}

// Lifecycle exposes the model lifecycle for state observation.
func (e *Engine) Lifecycle() *Lifecycle { return e.lifecycle }

// IsModelLoaded reports whether the model is resident.
func (e *Engine) IsModelLoaded() bool { return e.lifecycle.IsLoaded() }

// LoadModel loads the model ahead of the first request.
func (e *Engine) LoadModel(ctx context.Context) error {
	if e.source == nil {
		return errors.NotInitialized("no local model source is configured")
	}
	return e.lifecycle.LoadModel(ctx)
}

// Transcribe loads the model if needed, decodes and segments the audio, runs
// inference and schedules the model release. Inference errors are returned
// as they are.
func (e *Engine) Transcribe(ctx context.Context, audioPath string, model transcription.Model) (string, error) {
	if e.source == nil {
		return "", errors.NotInitialized("no local model source is configured")
	}

	m, err := e.lifecycle.Acquire(ctx)
	if err != nil {
		return "", err
	}
	defer e.lifecycle.Finish(!e.keepLoaded)

	buf, err := e.readAudio(audioPath)
	if err != nil {
		return "", err
	}

	samples := buf
	if e.segmenter != nil {
		res := e.segmenter.Segment(ctx, buf)
		samples = res.Samples
		if res.Diagnostic != nil {
			e.log.Warn("voice activity detection skipped", logger.Fields(
				"reason", res.Reason,
				"error", res.Diagnostic.Error(),
			))
		}
	}

	start := time.Now()
	text, err := m.Transcribe(ctx, samples)
	if err != nil {
		return "", err
	}
	e.log.Debug("inference finished", logger.Fields(
		"model", model.Name(),
		"audio_seconds", samples.Seconds(),
		"duration", time.Since(start).String(),
	))
	return strings.TrimSpace(text), nil
}

// Cleanup releases the model synchronously.
func (e *Engine) Cleanup() {
	e.lifecycle.Release()
}

// Start loads the model when preload is set.
func (e *Engine) Start(ctx context.Context) error {
	if !e.preload || e.source == nil {
		return nil
	}
	return e.LoadModel(ctx)
}

// Stop waits for scheduled releases and frees the model.
func (e *Engine) Stop(_ context.Context) error {
	e.lifecycle.Wait()
	e.Cleanup()
	return nil
}

// Health maps the lifecycle state to component health.
func (e *Engine) Health(_ context.Context) component.Health {
	h := component.Health{Name: e.Name(), Status: component.StatusHealthy}
	if e.source == nil {
		h.Status = component.StatusUnhealthy
		h.Message = "no model source configured"
		return h
	}
	state := e.lifecycle.State()
	h.Message = "model " + state.String()
	switch {
	case state == StateFailed:
		h.Status = component.StatusDegraded
		h.Message = "last model load failed"
	case !e.source.Ready():
		h.Status = component.StatusDegraded
		h.Message = "model not downloaded"
	}
	return h
}

// Describe summarizes the model source.
func (e *Engine) Describe() component.Description {
	details := "no model source"
	if e.source != nil {
		details = e.source.Describe()
	}
	return component.Description{Name: "Local engine", Type: "transcription", Details: details}
}
