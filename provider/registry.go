package provider

import (
	"fmt"
	"sync"
)

// Registry holds named provider instances in registration order.
type Registry[T Provider] struct {
	mu        sync.RWMutex
	instances map[string]T
	order     []string
}

// NewRegistry creates a new empty Registry.
func NewRegistry[T Provider]() *Registry[T] {
	return &Registry[T]{instances: make(map[string]T)}
}

// Register stores instance under name, replacing any previous one.
func (r *Registry[T]) Register(name string, instance T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.instances[name]; !ok {
		r.order = append(r.order, name)
	}
	r.instances[name] = instance
}

// Get returns the instance registered under name.
func (r *Registry[T]) Get(name string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inst, ok := r.instances[name]
	return inst, ok
}

// MustGet is Get with an error for unknown names.
func (r *Registry[T]) MustGet(name string) (T, error) {
	if inst, ok := r.Get(name); ok {
		return inst, nil
	}
	var zero T
	return zero, fmt.Errorf("provider %q not registered", name)
}

// Names returns the registered names in registration order.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// All returns a snapshot of the registered instances keyed by name.
func (r *Registry[T]) All() map[string]T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cp := make(map[string]T, len(r.instances))
	for k, v := range r.instances {
		cp[k] = v
	}
	return cp
}
