package transcription

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/logger"
	"github.com/kbukum/speechkit/observability"
)

// Middleware wraps an Engine with cross-cutting behavior.
type Middleware func(Engine) Engine

// Chain composes middlewares; the first is outermost.
//
// Chain(a, b, c)(engine) is equivalent to a(b(c(engine))).
func Chain(middlewares ...Middleware) Middleware {
	return func(inner Engine) Engine {
		for i := len(middlewares) - 1; i >= 0; i-- {
			inner = middlewares[i](inner)
		}
		return inner
	}
}

// wrapped forwards everything but Transcribe.
type wrapped struct {
	Engine
}

// Unwrap returns the wrapped engine.
func (w wrapped) Unwrap() Engine { return w.Engine }

// WithLogging logs each Transcribe call with its duration and outcome.
func WithLogging(log *logger.Logger) Middleware {
	return func(inner Engine) Engine {
		return &loggingEngine{wrapped{inner}, log}
	}
}

type loggingEngine struct {
	wrapped
	log *logger.Logger
}

func (l *loggingEngine) Transcribe(ctx context.Context, audioPath string, model Model) (string, error) {
	start := time.Now()
	text, err := l.Engine.Transcribe(ctx, audioPath, model)

	fields := map[string]interface{}{
		"engine":   l.Engine.Name(),
		"model":    model.Name(),
		"duration": time.Since(start).String(),
	}
	if err != nil {
		fields["error"] = err.Error()
		if code := errors.CodeOf(err); code != "" {
			fields["code"] = string(code)
		}
		l.log.Error("transcription failed", fields)
	} else {
		fields["chars"] = len(text)
		l.log.Info("transcription completed", fields)
	}
	return text, err
}

// WithMetrics records transcription counts, durations and error codes.
func WithMetrics(inst *observability.Instruments) Middleware {
	return func(inner Engine) Engine {
		return &metricsEngine{wrapped{inner}, inst}
	}
}

type metricsEngine struct {
	wrapped
	inst *observability.Instruments
}

func (m *metricsEngine) Transcribe(ctx context.Context, audioPath string, model Model) (string, error) {
	start := time.Now()
	text, err := m.Engine.Transcribe(ctx, audioPath, model)

	backend := string(model.Backend)
	m.inst.RecordTranscription(ctx, backend, observability.StatusOf(err), time.Since(start))
	if err != nil {
		code := string(errors.CodeOf(err))
		if code == "" {
			code = "unclassified"
		}
		m.inst.RecordError(ctx, code, m.Engine.Name())
	}
	return text, err
}

// WithTracing wraps each Transcribe call in a span.
func WithTracing() Middleware {
	return func(inner Engine) Engine {
		return &tracingEngine{wrapped{inner}}
	}
}

type tracingEngine struct {
	wrapped
}

func (t *tracingEngine) Transcribe(ctx context.Context, audioPath string, model Model) (string, error) {
	ctx, op := observability.StartOperation(ctx, observability.SpanTranscribe,
		attribute.String(observability.AttrBackend, string(model.Backend)),
		attribute.String(observability.AttrModel, model.ModelName),
	)
	text, err := t.Engine.Transcribe(ctx, audioPath, model)
	if code := errors.CodeOf(err); code != "" {
		op.Span().SetAttributes(attribute.String(observability.AttrErrorCode, string(code)))
	}
	op.End(err)
	return text, err
}
