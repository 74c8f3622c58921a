// Package manager owns the set of live cart instances. It tracks which
// instance is current, resolves per-cart configuration, and orchestrates
// save/restore/clear against the configured storage backends.
package manager

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/acidvertigo/cart/internal/config"
	"github.com/acidvertigo/cart/internal/domain"
	"github.com/acidvertigo/cart/internal/storage"
	apperrors "github.com/acidvertigo/cart/pkg/errors"
)

// defaultCurrency applies when a cart's config does not set one.
const defaultCurrency = "USD"

// Instance pairs a cart ID with its entity and resolved configuration.
type Instance struct {
	ID     string
	Cart   *domain.Cart
	Config config.CartConfig
}

// Publisher receives instance lifecycle notifications. Implementations must
// not block indefinitely; publish failures are logged by the manager and
// never fail the triggering operation.
type Publisher interface {
	InstanceCreated(ctx context.Context, id string) error
	InstanceDestroyed(ctx context.Context, id string, storageCleared bool) error
	InstanceSaved(ctx context.Context, id string, itemCount int, totalAmount int64) error
}

// InstanceOptions control NewInstance behavior. The zero value matches the
// common case: overwrite an existing instance and switch context to the new
// one.
type InstanceOptions struct {
	// Config, when non-nil, is used verbatim instead of resolving from the
	// global configuration tree.
	Config config.CartConfig

	// NoOverwrite makes creation fail with ErrDuplicateInstance when an
	// instance already exists under the same ID.
	NoOverwrite bool

	// KeepCurrent leaves the current context untouched.
	KeepCurrent bool
}

// Manager is the registry and lifecycle coordinator for cart instances.
// Construct one per process with New and drive it through Initialize.
type Manager struct {
	mu        sync.RWMutex
	global    *config.GlobalConfig
	instances map[string]*Instance
	current   string
	autosave  []string

	drivers *storage.Registry
	events  Publisher
	logger  *slog.Logger
}

// New creates a manager with an empty registry. events may be nil.
func New(drivers *storage.Registry, events Publisher, logger *slog.Logger) *Manager {
	return &Manager{
		global:    config.NewGlobalConfig(),
		instances: make(map[string]*Instance),
		drivers:   drivers,
		events:    events,
		logger:    logger,
	}
}

// Initialize installs the global configuration tree and creates one instance
// per declared cart, merging defaults with that cart's overrides and caching
// the merged result back into the tree. Context is set to the first declared
// cart. Calling Initialize again replaces all prior state.
func (m *Manager) Initialize(ctx context.Context, global *config.GlobalConfig) error {
	if global == nil {
		global = config.NewGlobalConfig()
	}

	m.mu.Lock()
	m.global = global
	m.instances = make(map[string]*Instance)
	m.current = ""
	m.autosave = nil
	m.mu.Unlock()

	for _, id := range global.Declared {
		resolved := global.Resolve(id)
		global.CacheResolved(id, resolved)

		if _, err := m.NewInstance(ctx, id, InstanceOptions{
			Config:      resolved,
			KeepCurrent: true,
		}); err != nil {
			return err
		}
	}

	if len(global.Declared) > 0 {
		m.mu.Lock()
		m.current = global.Declared[0]
		m.mu.Unlock()
	}

	m.logger.InfoContext(ctx, "cart manager initialized",
		slog.Int("instances", len(global.Declared)),
		slog.String("context", m.Current()),
	)
	return nil
}

// NewInstance creates a cart instance under the given ID and registers it.
// If the resolved config names a storage driver, prior state is restored
// immediately; if it enables autosave, a deferred save is registered for
// Release. Context switches to the new instance unless opts.KeepCurrent.
func (m *Manager) NewInstance(ctx context.Context, id string, opts InstanceOptions) (*Instance, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("cart instance id is required")
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = m.CartConfig(id)
	}

	inst := &Instance{
		ID:     id,
		Cart:   domain.NewCart(id, cfg.String("currency", defaultCurrency)),
		Config: cfg,
	}

	m.mu.Lock()
	if _, exists := m.instances[id]; exists && opts.NoOverwrite {
		m.mu.Unlock()
		return nil, apperrors.DuplicateCartInstance(id)
	}
	m.instances[id] = inst
	m.mu.Unlock()

	sc := cfg.Storage()
	if sc.Driver != "" {
		if err := m.RestoreState(ctx, id); err != nil {
			// A failed restore leaves no trace: the half-created instance
			// is removed again so creation is all-or-nothing.
			m.mu.Lock()
			if m.instances[id] == inst {
				delete(m.instances, id)
			}
			m.mu.Unlock()
			return nil, err
		}
	}

	m.mu.Lock()
	if sc.Autosave {
		m.autosave = append(m.autosave, id)
	}
	if !opts.KeepCurrent {
		m.current = id
	}
	m.mu.Unlock()

	instancesCreated.Inc()
	instancesLive.Set(float64(m.count()))

	m.logger.InfoContext(ctx, "cart instance created",
		slog.String("cart_id", id),
		slog.String("storage_driver", sc.Driver),
		slog.Bool("autosave", sc.Autosave),
	)
	m.publish(ctx, func(p Publisher) error { return p.InstanceCreated(ctx, id) })

	return inst, nil
}

// Destroy removes the instance from the registry. An empty id resolves from
// context; a missing instance is a silent no-op so teardown stays idempotent.
// When clearStorage is true and the instance has a storage driver, its
// persisted state is cleared as well.
func (m *Manager) Destroy(ctx context.Context, id string, clearStorage bool) error {
	m.mu.Lock()
	if id == "" {
		id = m.current
	}
	inst, ok := m.instances[id]
	if !ok {
		m.mu.Unlock()
		return nil
	}
	delete(m.instances, id)
	if m.current == id {
		m.current = ""
	}
	m.mu.Unlock()

	cleared := false
	if clearStorage && inst.Config.Storage().Driver != "" {
		if err := m.clearFor(ctx, inst); err != nil {
			return err
		}
		cleared = true
	}

	instancesDestroyed.Inc()
	instancesLive.Set(float64(m.count()))

	m.logger.InfoContext(ctx, "cart instance destroyed",
		slog.String("cart_id", id),
		slog.Bool("storage_cleared", cleared),
	)
	m.publish(ctx, func(p Publisher) error { return p.InstanceDestroyed(ctx, id, cleared) })

	return nil
}

// DestroyAll destroys every live instance, applying the same clearStorage
// policy to each.
func (m *Manager) DestroyAll(ctx context.Context, clearStorage bool) error {
	m.mu.RLock()
	ids := make([]string, 0, len(m.instances))
	for id := range m.instances {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	var errs []error
	for _, id := range ids {
		if err := m.Destroy(ctx, id, clearStorage); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Has reports whether an instance exists under the given ID.
func (m *Manager) Has(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.instances[id]
	return ok
}

// Instance returns the instance under the given ID. An empty id resolves
// from context. Fails with ErrInvalidInstance if no such instance exists.
func (m *Manager) Instance(id string) (*Instance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.instanceLocked(id)
}

// instanceLocked resolves an instance while m.mu is held.
func (m *Manager) instanceLocked(id string) (*Instance, error) {
	if id == "" {
		id = m.current
	}
	inst, ok := m.instances[id]
	if !ok {
		return nil, apperrors.InvalidCartInstance(id)
	}
	return inst, nil
}

// IDs returns the IDs of all live instances in unspecified order.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.instances))
	for id := range m.instances {
		ids = append(ids, id)
	}
	return ids
}

// Current returns the ID of the contextual instance, or "" when none is set.
func (m *Manager) Current() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// SetCurrent switches context to the given instance. Fails with
// ErrInvalidInstance (context unchanged) when the instance does not exist.
func (m *Manager) SetCurrent(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.instances[id]; !ok {
		return apperrors.InvalidCartInstance(id)
	}
	m.current = id
	return nil
}

// CartConfig resolves the configuration for the given cart ID from the
// static tree: the per-cart merge when the ID is declared, the defaults
// unmodified otherwise. The instance does not have to exist.
func (m *Manager) CartConfig(id string) config.CartConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.global.Resolve(id)
}

// count returns the number of live instances.
func (m *Manager) count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.instances)
}

// publish delivers a lifecycle notification when a publisher is wired.
func (m *Manager) publish(ctx context.Context, fn func(Publisher) error) {
	if m.events == nil {
		return
	}
	if err := fn(m.events); err != nil {
		m.logger.ErrorContext(ctx, "failed to publish lifecycle event",
			slog.String("error", err.Error()),
		)
	}
}
