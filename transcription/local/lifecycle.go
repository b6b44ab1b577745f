package local

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/logger"
	"github.com/kbukum/speechkit/observability"
)

// State is the model lifecycle state.
type State int

const (
	StateUnloaded State = iota
	StateLoading
	StateLoaded
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Lifecycle owns the model handle.
type Lifecycle struct {
	source ModelSource
	log    *logger.Logger
	inst   *observability.Instruments

	// cycle is a one-slot semaphore held for a whole
	// load→transcribe→release cycle.
	cycle chan struct{}

	mu    sync.Mutex
	state State
	model Model
	gen   uint64

	releases sync.WaitGroup
}

// NewLifecycle creates a lifecycle over source. A nil source makes every
// load fail with notInitialized.
func NewLifecycle(source ModelSource, log *logger.Logger, inst *observability.Instruments) *Lifecycle {
	if log == nil {
		log = logger.Get("local")
	}
	return &Lifecycle{
		source: source,
		log:    log,
		inst:   inst,
		cycle:  make(chan struct{}, 1),
	}
}

// State returns the current state.
func (l *Lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// IsLoaded reports whether a model is resident.
func (l *Lifecycle) IsLoaded() bool {
	return l.State() == StateLoaded
}

func (l *Lifecycle) lock(ctx context.Context) error {
	select {
	case l.cycle <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Lifecycle) unlock() {
	<-l.cycle
}

// Acquire starts a cycle: it takes the cycle lock and ensures the model is
// loaded. On success the caller must call Finish exactly once.
func (l *Lifecycle) Acquire(ctx context.Context) (Model, error) {
	if err := l.lock(ctx); err != nil {
		return nil, err
	}
	l.mu.Lock()
	l.gen++
	l.mu.Unlock()

	m, err := l.ensureLoaded(ctx)
	if err != nil {
		l.unlock()
		return nil, err
	}
	return m, nil
}

// Finish ends the cycle started by Acquire. With release set, a release is
// scheduled in the background; it waits for the cycle lock and is skipped if
// another cycle has begun in the meantime.
func (l *Lifecycle) Finish(release bool) {
	if release {
		l.mu.Lock()
		gen := l.gen
		l.mu.Unlock()
		l.scheduleRelease(gen)
	}
	l.unlock()
}

func (l *Lifecycle) scheduleRelease(gen uint64) {
	l.releases.Add(1)
	go func() {
		defer l.releases.Done()
		l.cycle <- struct{}{}
		defer l.unlock()

		l.mu.Lock()
		stale := l.gen != gen
		l.mu.Unlock()
		if stale {
			l.log.Debug("skipping release, model in use by a newer request")
			return
		}
		l.releaseLocked()
	}()
}

// ensureLoaded returns the resident model, loading it if needed. Callers
// hold the cycle lock, which is also what keeps concurrent loads down to
// one: a waiter finds the model loaded once it gets the lock. A failed load
// leaves the state Failed and the next call retries. A canceled load is not
// a failure; the state returns to Unloaded and ctx's error is returned.
func (l *Lifecycle) ensureLoaded(ctx context.Context) (Model, error) {
	l.mu.Lock()
	if l.state == StateLoaded && l.model != nil {
		m := l.model
		l.mu.Unlock()
		return m, nil
	}
	if l.source == nil {
		l.mu.Unlock()
		return nil, errors.NotInitialized("no local model source is configured")
	}
	l.state = StateLoading
	l.mu.Unlock()

	m, err := l.load(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	switch {
	case err == nil:
		l.state = StateLoaded
		l.model = m
	case isCanceled(ctx, err):
		l.state = StateUnloaded
	default:
		l.state = StateFailed
	}
	return m, err
}

// isCanceled reports whether err comes from ctx being done.
func isCanceled(ctx context.Context, err error) bool {
	cerr := ctx.Err()
	return cerr != nil && stderrors.Is(err, cerr)
}

func (l *Lifecycle) load(ctx context.Context) (Model, error) {
	ctx, op := observability.StartOperation(ctx, observability.SpanModelLoad,
		attribute.String(observability.AttrModel, l.source.Describe()))
	l.log.Info("loading model", logger.Fields("source", l.source.Describe()))

	m, err := l.source.Load(ctx)
	if err != nil {
		if m != nil {
			if cerr := m.Close(); cerr != nil {
				l.log.Warn("closing partially loaded model failed", logger.Fields("error", cerr.Error()))
			}
		}
		if !isCanceled(ctx, err) && !errors.IsCode(err, errors.ErrCodeModelLoadFailed) && !errors.IsCode(err, errors.ErrCodeNotInitialized) {
			err = errors.ModelLoadFailed(err)
		}
	}
	d := op.End(err)
	l.inst.RecordModelLoad(ctx, observability.StatusOf(err), d)

	if isCanceled(ctx, err) {
		l.log.Info("model load canceled", logger.Fields("source", l.source.Describe()))
		return nil, err
	}
	if err != nil {
		l.log.Error("model load failed", logger.Fields("source", l.source.Describe(), "error", err.Error()))
		return nil, err
	}
	l.log.Info("model loaded", logger.Fields("source", l.source.Describe(), "duration", d.Round(time.Millisecond).String()))
	return m, nil
}

// LoadModel loads the model ahead of the first request. It supersedes any
// pending release.
func (l *Lifecycle) LoadModel(ctx context.Context) error {
	if err := l.lock(ctx); err != nil {
		return err
	}
	defer l.unlock()
	l.mu.Lock()
	l.gen++
	l.mu.Unlock()
	_, err := l.ensureLoaded(ctx)
	return err
}

// Release closes the model now, waiting for any running cycle to finish.
func (l *Lifecycle) Release() {
	l.cycle <- struct{}{}
	defer l.unlock()
	l.releaseLocked()
}

// releaseLocked requires the cycle lock.
func (l *Lifecycle) releaseLocked() {
	l.mu.Lock()
	m := l.model
	l.model = nil
	if l.state != StateLoading {
		l.state = StateUnloaded
	}
	l.mu.Unlock()

	if m == nil {
		return
	}
	if err := m.Close(); err != nil {
		l.log.Warn("model close failed", logger.Fields("error", err.Error()))
		return
	}
	l.log.Debug("model released")
}

// Wait blocks until every scheduled release has finished.
func (l *Lifecycle) Wait() {
	l.releases.Wait()
}
