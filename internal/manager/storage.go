package manager

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/acidvertigo/cart/internal/domain"
	"github.com/acidvertigo/cart/internal/storage"
)

// StorageKey derives the persistence key for the given cart ID from its
// resolved configuration: prefix + id + suffix. Pure function of the config
// tree; stable across calls for unchanged config.
func (m *Manager) StorageKey(id string) string {
	sc := m.CartConfig(id).Storage()
	return sc.KeyPrefix + id + sc.KeySuffix
}

// StorageDriver resolves the storage backend configured for the given cart
// ID. Fails with ErrInvalidStorage when no driver is configured or the
// configured name does not resolve to a registered backend.
func (m *Manager) StorageDriver(id string) (storage.Driver, error) {
	return m.drivers.Resolve(m.CartConfig(id).Storage().Driver)
}

// SaveState serializes the instance's exported snapshot and hands it to the
// configured storage backend under the derived storage key.
func (m *Manager) SaveState(ctx context.Context, id string) error {
	m.mu.RLock()
	inst, err := m.instanceLocked(id)
	m.mu.RUnlock()
	if err != nil {
		return err
	}

	driver, err := m.drivers.Resolve(inst.Config.Storage().Driver)
	if err != nil {
		return err
	}

	snap := inst.Cart.Export()
	blob, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot for %s: %w", inst.ID, err)
	}

	key := storageKeyFor(inst)
	if err := driver.Save(ctx, key, blob); err != nil {
		return fmt.Errorf("save state for %s: %w", inst.ID, err)
	}

	stateSaves.Inc()
	m.logger.DebugContext(ctx, "cart state saved",
		slog.String("cart_id", inst.ID),
		slog.String("storage_key", key),
		slog.Int("items", snap.Cart.ItemCount()),
	)
	m.publish(ctx, func(p Publisher) error {
		return p.InstanceSaved(ctx, inst.ID, snap.Cart.ItemCount(), snap.Cart.TotalAmount())
	})

	return nil
}

// RestoreState retrieves the persisted blob for the instance and imports it
// into the Cart entity. When no prior data exists the instance keeps its
// freshly constructed state and no error is returned.
func (m *Manager) RestoreState(ctx context.Context, id string) error {
	m.mu.RLock()
	inst, err := m.instanceLocked(id)
	m.mu.RUnlock()
	if err != nil {
		return err
	}

	driver, err := m.drivers.Resolve(inst.Config.Storage().Driver)
	if err != nil {
		return err
	}

	key := storageKeyFor(inst)
	blob, ok, err := driver.Restore(ctx, key)
	if err != nil {
		return fmt.Errorf("restore state for %s: %w", inst.ID, err)
	}
	if !ok {
		return nil
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(blob, &snap); err != nil {
		return fmt.Errorf("decode snapshot for %s: %w", inst.ID, err)
	}
	if err := inst.Cart.Import(snap); err != nil {
		return fmt.Errorf("import snapshot for %s: %w", inst.ID, err)
	}

	stateRestores.Inc()
	m.logger.DebugContext(ctx, "cart state restored",
		slog.String("cart_id", inst.ID),
		slog.String("storage_key", key),
		slog.Int("items", inst.Cart.ItemCount()),
	)
	return nil
}

// ClearState removes the persisted blob for the instance.
func (m *Manager) ClearState(ctx context.Context, id string) error {
	m.mu.RLock()
	inst, err := m.instanceLocked(id)
	m.mu.RUnlock()
	if err != nil {
		return err
	}
	return m.clearFor(ctx, inst)
}

// clearFor clears the persisted state for an instance that may already have
// been removed from the registry (destroy path).
func (m *Manager) clearFor(ctx context.Context, inst *Instance) error {
	driver, err := m.drivers.Resolve(inst.Config.Storage().Driver)
	if err != nil {
		return err
	}

	key := storageKeyFor(inst)
	if err := driver.Clear(ctx, key); err != nil {
		return fmt.Errorf("clear state for %s: %w", inst.ID, err)
	}

	stateClears.Inc()
	m.logger.DebugContext(ctx, "cart state cleared",
		slog.String("cart_id", inst.ID),
		slog.String("storage_key", key),
	)
	return nil
}

// Release performs all pending autosaves exactly once and empties the
// pending list. The hosting application calls it at the end of the owning
// scope (request teardown or process shutdown). IDs registered more than
// once save once; IDs whose instance was destroyed in the meantime are
// skipped silently.
func (m *Manager) Release(ctx context.Context) error {
	m.mu.Lock()
	pending := m.autosave
	m.autosave = nil
	m.mu.Unlock()

	seen := make(map[string]bool, len(pending))
	var errs []error
	for _, id := range pending {
		if seen[id] {
			continue
		}
		seen[id] = true

		if !m.Has(id) {
			continue
		}
		if err := m.SaveState(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}

	if len(pending) > 0 {
		m.logger.InfoContext(ctx, "autosave released",
			slog.Int("registered", len(pending)),
			slog.Int("saved", len(seen)),
		)
	}
	return errors.Join(errs...)
}

// storageKeyFor derives the storage key from an instance's own resolved
// config, without consulting the global tree.
func storageKeyFor(inst *Instance) string {
	sc := inst.Config.Storage()
	return sc.KeyPrefix + inst.ID + sc.KeySuffix
}
