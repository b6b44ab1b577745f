package customengine

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/kbukum/speechkit/encryption"
	"github.com/kbukum/speechkit/logger"
	"github.com/kbukum/speechkit/storage"
	"github.com/kbukum/speechkit/transcription"
	"github.com/kbukum/speechkit/validation"
)

// StoreKey is the storage path of the engine list.
const StoreKey = "customCloudModels"

// ErrNotFound is returned when no engine has the requested ID.
var ErrNotFound = stderrors.New("custom engine not found")

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(r *Registry) { r.log = l }
}

// WithEngine sets the engine used by TestEndpoint.
func WithEngine(e transcription.Engine) Option {
	return func(r *Registry) { r.engine = e }
}

// WithSealer encrypts API keys at rest.
func WithSealer(s encryption.Sealer) Option {
	return func(r *Registry) { r.sealer = s }
}

// Registry holds the custom engines and persists every change.
type Registry struct {
	store  storage.Storage
	engine transcription.Engine
	sealer encryption.Sealer
	log    *logger.Logger

	mu      sync.RWMutex
	engines []Config
}

// NewRegistry loads the stored engine list. A missing or undecodable
// document yields an empty registry; storage failures are returned.
func NewRegistry(ctx context.Context, store storage.Storage, opts ...Option) (*Registry, error) {
	r := &Registry{store: store}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.Get("customengine")
	}
	if err := r.load(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) load(ctx context.Context) error {
	data, err := storage.ReadAll(ctx, r.store, StoreKey)
	if stderrors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load custom engines: %w", err)
	}

	var engines []Config
	if err := json.Unmarshal(data, &engines); err != nil {
		r.log.Error("failed to decode custom engines, starting empty", logger.Fields("error", err.Error()))
		return nil
	}
	for i := range engines {
		key, err := r.openKey(engines[i].APIKey)
		if err != nil {
			return fmt.Errorf("open API key of %s: %w", engines[i].Name, err)
		}
		engines[i].APIKey = key
	}
	r.engines = engines
	r.log.Debug("custom engines loaded", logger.Fields("count", len(engines)))
	return nil
}

func (r *Registry) openKey(stored string) (string, error) {
	if r.sealer != nil {
		return r.sealer.Open(stored)
	}
	if encryption.IsSealed(stored) {
		return "", stderrors.New("API key is encrypted and no secret key is configured")
	}
	return stored, nil
}

// save writes engines to the store, sealing API keys when a sealer is
// set. Callers hold r.mu.
func (r *Registry) save(ctx context.Context, engines []Config) error {
	out := engines
	if r.sealer != nil {
		out = slices.Clone(engines)
		for i := range out {
			key, err := r.sealer.Seal(out[i].APIKey)
			if err != nil {
				return fmt.Errorf("seal API key of %s: %w", out[i].Name, err)
			}
			out[i].APIKey = key
		}
	}
	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("encode custom engines: %w", err)
	}
	if err := storage.WriteAll(ctx, r.store, StoreKey, data); err != nil {
		return fmt.Errorf("save custom engines: %w", err)
	}
	return nil
}

// Validate returns the problems with cfg, ignoring the engine with ID
// excludingID in the name uniqueness check. An empty result means valid.
func (r *Registry) Validate(cfg Config, excludingID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return validate(cfg, r.engines, excludingID)
}

func (r *Registry) check(cfg Config, excludingID string) error {
	msgs := validate(cfg, r.engines, excludingID)
	var verr *validation.Error
	if err := validation.Validate(cfg); stderrors.As(err, &verr) {
		msgs = append(msgs, verr.Messages()...)
	}
	if len(msgs) > 0 {
		return &ValidationError{Messages: msgs}
	}
	return nil
}

// Add validates and stores a new engine. An empty ID is assigned. The
// stored config is returned.
func (r *Registry) Add(ctx context.Context, cfg Config) (Config, error) {
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(cfg.ID) >= 0 {
		return Config{}, fmt.Errorf("custom engine %s already exists", cfg.ID)
	}
	if err := r.check(cfg, ""); err != nil {
		return Config{}, err
	}

	next := append(slices.Clone(r.engines), cfg)
	if err := r.save(ctx, next); err != nil {
		return Config{}, err
	}
	r.engines = next
	r.log.Info("custom engine added", logger.Fields("id", cfg.ID, "name", cfg.Name))
	return cfg, nil
}

// Update replaces the engine with cfg.ID.
func (r *Registry) Update(ctx context.Context, cfg Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(cfg.ID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, cfg.ID)
	}
	if err := r.check(cfg, cfg.ID); err != nil {
		return err
	}

	next := slices.Clone(r.engines)
	next[i] = cfg
	if err := r.save(ctx, next); err != nil {
		return err
	}
	r.engines = next
	r.log.Info("custom engine updated", logger.Fields("id", cfg.ID, "name", cfg.Name))
	return nil
}

// Remove deletes the engine with id. Removing an unknown ID is a no-op.
func (r *Registry) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil
	}
	removed := r.engines[i]
	next := slices.Delete(slices.Clone(r.engines), i, i+1)
	if err := r.save(ctx, next); err != nil {
		return err
	}
	r.engines = next
	r.log.Info("custom engine removed", logger.Fields("id", id, "name", removed.Name))
	return nil
}

// Get returns the engine with id.
func (r *Registry) Get(id string) (Config, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.indexOf(id); i >= 0 {
		return r.engines[i], true
	}
	return Config{}, false
}

// FindByName returns the engine named name.
func (r *Registry) FindByName(name string) (Config, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.engines {
		if c.Name == name {
			return c, true
		}
	}
	return Config{}, false
}

// List returns the engines in insertion order.
func (r *Registry) List() []Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.engines)
}

// Models returns the transcription descriptors of every engine.
func (r *Registry) Models() []transcription.Model {
	list := r.List()
	out := make([]transcription.Model, len(list))
	for i, c := range list {
		out[i] = c.Model()
	}
	return out
}

func (r *Registry) indexOf(id string) int {
	return slices.IndexFunc(r.engines, func(c Config) bool { return c.ID == id })
}
