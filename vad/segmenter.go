package vad

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/speechkit/audio"
	"github.com/kbukum/speechkit/logger"
	"github.com/kbukum/speechkit/observability"
)

const (
	// MinSegmentDuration is the shortest input that is segmented at all.
	MinSegmentDuration = 20 * time.Second

	// DetectionThreshold is the voice probability that marks a frame as speech.
	DetectionThreshold = 0.7
)

// Reasons reported on Result when the full input is returned.
const (
	ReasonDisabled     = "disabled"
	ReasonTooShort     = "too_short"
	ReasonInitFailed   = "init_failed"
	ReasonDetectFailed = "detect_failed"
	ReasonNoSpeech     = "no_speech"
)

// Strategy names.
const (
	StrategySpeechOnly = "speechOnly"
	StrategyFullAudio  = "fullAudio"
)

// Config controls segmentation.
type Config struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// ModelDir holds the detector model and its vad.yaml calibration.
	ModelDir string `yaml:"model_dir" mapstructure:"model_dir"`
}

// Result is the outcome of Segment.
type Result struct {
	// Samples is what should be transcribed. Never empty for non-empty input.
	Samples audio.Buffer
	// Segmented is true when Samples holds only the detected speech.
	Segmented bool
	// Segments is the number of speech segments concatenated.
	Segments int
	// Strategy is the name of the strategy that produced Samples, empty
	// when segmentation was skipped.
	Strategy string
	// Reason says why the full input was returned, empty when Segmented.
	Reason string
	// Diagnostic holds the initialization or detection error, if any.
	Diagnostic error
}

// FallbackError is returned by a strategy that declines to produce samples.
type FallbackError struct {
	Reason string
	Err    error
}

func (e *FallbackError) Error() string {
	if e.Err == nil {
		return "vad: " + e.Reason
	}
	return fmt.Sprintf("vad: %s: %v", e.Reason, e.Err)
}

func (e *FallbackError) Unwrap() error { return e.Err }

// Strategy selects the spans of buf to transcribe. A nil result defers to
// the next strategy in the list.
type Strategy struct {
	Name  string
	Apply func(ctx context.Context, buf audio.Buffer) ([]Segment, error)
}

// Option configures a Segmenter.
type Option func(*Segmenter)

// WithLoader sets the detector loader. Defaults to EnergyLoader.
func WithLoader(l Loader) Option {
	return func(s *Segmenter) { s.loader = l }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Segmenter) { s.log = l }
}

// WithInstruments sets the metric instruments.
func WithInstruments(inst *observability.Instruments) Option {
	return func(s *Segmenter) { s.inst = inst }
}

// Segmenter applies voice activity detection to decoded audio. The detector
// is initialized on first use; a failed initialization is remembered until
// Reset.
type Segmenter struct {
	cfg        Config
	loader     Loader
	log        *logger.Logger
	inst       *observability.Instruments
	strategies []Strategy

	// use is held for reading while the detector runs and for writing while
	// it is closed. Taken before mu.
	use      sync.RWMutex
	mu       sync.Mutex
	initDone bool
	initErr  error
	detector Detector
}

// NewSegmenter creates a segmenter.
func NewSegmenter(cfg Config, opts ...Option) *Segmenter {
	s := &Segmenter{cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	if s.loader == nil {
		s.loader = EnergyLoader()
	}
	if s.log == nil {
		s.log = logger.Get("vad")
	}
	s.strategies = []Strategy{
		{Name: StrategySpeechOnly, Apply: s.speechOnly},
		{Name: StrategyFullAudio, Apply: fullAudio},
	}
	return s
}

// Enabled reports whether segmentation is switched on.
func (s *Segmenter) Enabled() bool { return s.cfg.Enabled }

// Segment returns the samples to transcribe.
func (s *Segmenter) Segment(ctx context.Context, buf audio.Buffer) Result {
	if !s.cfg.Enabled {
		return Result{Samples: buf, Reason: ReasonDisabled}
	}
	if buf.Duration() < MinSegmentDuration {
		return Result{Samples: buf, Reason: ReasonTooShort}
	}

	ctx, op := observability.StartOperation(ctx, observability.SpanSegment,
		attribute.Float64(observability.AttrAudioSeconds, buf.Seconds()))

	res := Result{Samples: buf}
	for _, st := range s.strategies {
		segs, err := st.Apply(ctx, buf)
		if err != nil {
			var fb *FallbackError
			if errors.As(err, &fb) {
				res.Reason = fb.Reason
				if fb.Err != nil {
					res.Diagnostic = fb.Err
				}
			} else {
				res.Reason = ReasonDetectFailed
				res.Diagnostic = err
			}
			continue
		}
		if segs == nil {
			continue
		}
		if len(segs) == 1 && segs[0] == (Segment{Start: 0, End: len(buf)}) {
			res.Samples = buf
		} else {
			res.Samples = Concat(buf, segs)
		}
		res.Segments = len(segs)
		res.Strategy = st.Name
		break
	}

	res.Segmented = res.Strategy == StrategySpeechOnly
	if res.Segmented {
		res.Reason = ""
		s.log.Debug("audio segmented", logger.Fields(
			"segments", res.Segments,
			"input_seconds", buf.Seconds(),
			"output_seconds", res.Samples.Seconds(),
		))
	} else {
		s.inst.RecordVADFallback(ctx, res.Reason)
	}
	op.Span().SetAttributes(attribute.Int(observability.AttrSegments, res.Segments))
	op.End(res.Diagnostic)
	return res
}

func (s *Segmenter) speechOnly(ctx context.Context, buf audio.Buffer) ([]Segment, error) {
	s.use.RLock()
	defer s.use.RUnlock()

	det, err := s.ensureDetector(ctx)
	if err != nil {
		return nil, &FallbackError{Reason: ReasonInitFailed, Err: err}
	}

	segs, err := det.Detect(ctx, buf)
	if err != nil {
		s.log.Warn("speech detection failed, using full audio", logger.Fields("error", err.Error()))
		return nil, &FallbackError{Reason: ReasonDetectFailed, Err: err}
	}
	segs = Normalize(segs, len(buf))
	if len(segs) == 0 {
		s.log.Debug("no speech detected, using full audio")
		return nil, &FallbackError{Reason: ReasonNoSpeech}
	}
	return segs, nil
}

func fullAudio(_ context.Context, buf audio.Buffer) ([]Segment, error) {
	return []Segment{{Start: 0, End: len(buf)}}, nil
}

func (s *Segmenter) ensureDetector(ctx context.Context) (Detector, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initDone {
		return s.detector, s.initErr
	}
	s.initDone = true

	if s.cfg.ModelDir == "" {
		s.initErr = errors.New("vad: model directory not configured")
	} else {
		det, err := s.loader.Load(ctx, s.cfg.ModelDir, DetectionThreshold)
		if err != nil {
			s.initErr = fmt.Errorf("vad: initialize detector: %w", err)
		} else {
			s.detector = det
		}
	}
	if s.initErr != nil {
		s.log.Warn("voice activity detection unavailable, using full audio", logger.Fields(
			"model_dir", s.cfg.ModelDir,
			"error", s.initErr.Error(),
		))
	}
	return s.detector, s.initErr
}

// Reset drops the detector and any remembered initialization failure, so the
// next Segment initializes again.
func (s *Segmenter) Reset() {
	s.use.Lock()
	defer s.use.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeDetector()
	s.initDone = false
	s.initErr = nil
}

// Close releases the detector once running detections have returned.
func (s *Segmenter) Close() error {
	s.use.Lock()
	defer s.use.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeDetector()
}

func (s *Segmenter) closeDetector() error {
	var err error
	if c, ok := s.detector.(io.Closer); ok {
		err = c.Close()
	}
	s.detector = nil
	s.initDone = false
	return err
}
