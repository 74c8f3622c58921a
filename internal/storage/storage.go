// Package storage defines the capability contract for cart persistence
// backends and the registry that resolves configured driver names to
// concrete implementations.
package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	apperrors "github.com/acidvertigo/cart/pkg/errors"
)

// Driver is the full capability set a storage backend must implement.
// The interface is checked at compile time; a backend that cannot satisfy
// all three operations cannot be registered at all.
type Driver interface {
	// Save persists an opaque blob under the given key, overwriting any
	// previous value.
	Save(ctx context.Context, key string, data []byte) error

	// Restore retrieves the blob stored under the key. The boolean reports
	// whether any data existed; absence is not an error.
	Restore(ctx context.Context, key string) ([]byte, bool, error)

	// Clear removes the blob stored under the key. Clearing an absent key
	// is a no-op.
	Clear(ctx context.Context, key string) error
}

// Registry maps driver names to backend implementations. Names are
// case-normalized at registration and lookup. Registration is validated
// once; resolution never falls back to a substitute backend.
type Registry struct {
	mu      sync.RWMutex
	drivers map[string]Driver
}

// NewRegistry creates an empty driver registry.
func NewRegistry() *Registry {
	return &Registry{
		drivers: make(map[string]Driver),
	}
}

// Register adds a backend under the given name. Empty names, nil backends,
// and duplicate registrations are configuration errors.
func (r *Registry) Register(name string, d Driver) error {
	normalized := normalize(name)
	if normalized == "" {
		return fmt.Errorf("register storage driver: name is required")
	}
	if d == nil {
		return fmt.Errorf("register storage driver %q: driver is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.drivers[normalized]; exists {
		return fmt.Errorf("register storage driver %q: already registered", normalized)
	}
	r.drivers[normalized] = d
	return nil
}

// Resolve returns the backend registered under the given name.
func (r *Registry) Resolve(name string) (Driver, error) {
	normalized := normalize(name)

	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.drivers[normalized]
	if !ok {
		return nil, apperrors.InvalidStorageImplementation(name)
	}
	return d, nil
}

// Names returns the registered driver names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.drivers))
	for name := range r.drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
