package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"

	"github.com/kbukum/speechkit/logger"
)

// Metric names.
const (
	MetricTranscriptions        = "speechkit.transcriptions"
	MetricTranscriptionDuration = "speechkit.transcription.duration"
	MetricModelLoadDuration     = "speechkit.model.load.duration"
	MetricVADFallbacks          = "speechkit.vad.fallbacks"
	MetricErrors                = "speechkit.errors"
)

// Status values recorded on metrics.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// StatusOf maps an error to StatusOK or StatusError.
func StatusOf(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusOK
}

// InitMeter installs a periodic OTLP meter provider as the global provider.
func InitMeter(ctx context.Context, cfg Config, res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"endpoint", cfg.Endpoint,
		"interval", cfg.Interval.String(),
	))
	return mp, nil
}

// Meter returns the speechkit meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Instruments holds the engine metrics. A nil *Instruments records nothing.
type Instruments struct {
	transcriptions        metric.Int64Counter
	transcriptionDuration metric.Float64Histogram
	modelLoadDuration     metric.Float64Histogram
	vadFallbacks          metric.Int64Counter
	errors                metric.Int64Counter
}

// NewInstruments creates the instruments on the given meter.
func NewInstruments(meter metric.Meter) (*Instruments, error) {
	transcriptions, err := meter.Int64Counter(MetricTranscriptions,
		metric.WithDescription("Transcriptions by backend and status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricTranscriptions, err)
	}

	transcriptionDuration, err := meter.Float64Histogram(MetricTranscriptionDuration,
		metric.WithDescription("Duration of transcriptions in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricTranscriptionDuration, err)
	}

	modelLoadDuration, err := meter.Float64Histogram(MetricModelLoadDuration,
		metric.WithDescription("Duration of local model loads in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricModelLoadDuration, err)
	}

	vadFallbacks, err := meter.Int64Counter(MetricVADFallbacks,
		metric.WithDescription("Segmentations that fell back to the full audio, by reason"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricVADFallbacks, err)
	}

	errorTotal, err := meter.Int64Counter(MetricErrors,
		metric.WithDescription("Errors by code and component"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricErrors, err)
	}

	return &Instruments{
		transcriptions:        transcriptions,
		transcriptionDuration: transcriptionDuration,
		modelLoadDuration:     modelLoadDuration,
		vadFallbacks:          vadFallbacks,
		errors:                errorTotal,
	}, nil
}

// DefaultInstruments creates instruments on the global meter. On failure it
// logs and returns nil, which records nothing.
func DefaultInstruments() *Instruments {
	inst, err := NewInstruments(Meter())
	if err != nil {
		logger.Warn("metrics disabled", logger.Fields("error", err.Error()))
		return nil
	}
	return inst
}

// RecordTranscription records one finished transcription.
func (i *Instruments) RecordTranscription(ctx context.Context, backend, status string, d time.Duration) {
	if i == nil {
		return
	}
	i.transcriptions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("backend", backend),
		attribute.String("status", status),
	))
	i.transcriptionDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("backend", backend),
	))
}

// RecordModelLoad records one local model load attempt.
func (i *Instruments) RecordModelLoad(ctx context.Context, status string, d time.Duration) {
	if i == nil {
		return
	}
	i.modelLoadDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("status", status),
	))
}

// RecordVADFallback records a segmentation that returned the full audio.
func (i *Instruments) RecordVADFallback(ctx context.Context, reason string) {
	if i == nil {
		return
	}
	i.vadFallbacks.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// RecordError records an error by code and component.
func (i *Instruments) RecordError(ctx context.Context, code, component string) {
	if i == nil {
		return
	}
	i.errors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("code", code),
		attribute.String("component", component),
	))
}
