package transcription

import (
	"context"
	"fmt"

	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/logger"
	"github.com/kbukum/speechkit/provider"
)

// Router dispatches each request to the engine registered for the model's
// backend.
type Router struct {
	engines  *provider.Registry[Engine]
	selector provider.Selector[Engine]
	log      *logger.Logger
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithSelector sets the strategy used by Select. Defaults to local first,
// then cloud.
func WithSelector(s provider.Selector[Engine]) RouterOption {
	return func(r *Router) { r.selector = s }
}

// WithRouterLogger sets the logger.
func WithRouterLogger(l *logger.Logger) RouterOption {
	return func(r *Router) { r.log = l }
}

// NewRouter creates an empty router.
func NewRouter(opts ...RouterOption) *Router {
	r := &Router{
		engines: provider.NewRegistry[Engine](),
		selector: &provider.PrioritySelector[Engine]{
			Priority: []string{string(BackendLocal), string(BackendCloud)},
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.Get("transcription")
	}
	return r
}

// Register makes e serve models of the given backend.
func (r *Router) Register(kind BackendKind, e Engine) {
	r.engines.Register(string(kind), e)
	r.log.Debug("engine registered", logger.Fields("backend", string(kind), "engine", e.Name()))
}

// Engine returns the engine for kind, or an unsupportedProvider error.
func (r *Router) Engine(kind BackendKind) (Engine, error) {
	e, ok := r.engines.Get(string(kind))
	if !ok {
		return nil, errors.UnsupportedProvider(string(kind))
	}
	return e, nil
}

// Backends returns the registered backends in registration order.
func (r *Router) Backends() []BackendKind {
	names := r.engines.Names()
	kinds := make([]BackendKind, len(names))
	for i, n := range names {
		kinds[i] = BackendKind(n)
	}
	return kinds
}

// Select returns the preferred available engine.
func (r *Router) Select(ctx context.Context) (Engine, error) {
	e, err := r.selector.Select(ctx, r.engines.All())
	if err != nil {
		return nil, fmt.Errorf("select engine: %w", err)
	}
	return e, nil
}

// Transcribe dispatches to the engine for model.Backend.
func (r *Router) Transcribe(ctx context.Context, audioPath string, model Model) (string, error) {
	e, err := r.Engine(model.Backend)
	if err != nil {
		return "", err
	}
	return e.Transcribe(ctx, audioPath, model)
}

// LoadModel warms up the engine for kind.
func (r *Router) LoadModel(ctx context.Context, kind BackendKind) error {
	e, err := r.Engine(kind)
	if err != nil {
		return err
	}
	return e.LoadModel(ctx)
}

// Cleanup releases every registered engine.
func (r *Router) Cleanup() {
	for _, name := range r.engines.Names() {
		if e, ok := r.engines.Get(name); ok {
			e.Cleanup()
		}
	}
}
