package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Storage sub-config keys recognized inside a cart config tree.
const (
	storageSection  = "storage"
	storageDriver   = "driver"
	storageAutosave = "autosave"
	storagePrefix   = "key_prefix"
	storageSuffix   = "key_suffix"
)

// CartConfig is a configuration tree for one cart instance. A resolved config
// is always the deep merge of the global defaults with the cart's overrides.
type CartConfig map[string]any

// StorageConfig is the typed view of a cart's storage sub-config.
type StorageConfig struct {
	Driver    string
	Autosave  bool
	KeyPrefix string
	KeySuffix string
}

// Storage extracts the storage sub-config. Missing keys yield zero values,
// which means "no persistence".
func (c CartConfig) Storage() StorageConfig {
	sc := StorageConfig{}
	section, ok := c[storageSection].(map[string]any)
	if !ok {
		return sc
	}
	if v, ok := section[storageDriver].(string); ok {
		sc.Driver = v
	}
	if v, ok := section[storageAutosave].(bool); ok {
		sc.Autosave = v
	}
	if v, ok := section[storagePrefix].(string); ok {
		sc.KeyPrefix = v
	}
	if v, ok := section[storageSuffix].(string); ok {
		sc.KeySuffix = v
	}
	return sc
}

// String returns the string value stored under key, or def when absent or of
// a different type.
func (c CartConfig) String(key, def string) string {
	if v, ok := c[key].(string); ok {
		return v
	}
	return def
}

// Clone returns a deep copy of the config tree.
func (c CartConfig) Clone() CartConfig {
	return CartConfig(cloneTree(map[string]any(c)))
}

func cloneTree(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for k, v := range src {
		if nested, ok := v.(map[string]any); ok {
			dst[k] = cloneTree(nested)
			continue
		}
		dst[k] = v
	}
	return dst
}

// mergeTree overlays override onto base and returns a new tree. Presence in
// the override decides: any key the override declares wins, zero values
// included, so `autosave = false` or `driver = ""` beat a non-empty default.
// Nested maps merge recursively; everything else replaces wholesale.
func mergeTree(base, override map[string]any) map[string]any {
	dst := cloneTree(base)
	for k, v := range override {
		if nested, ok := v.(map[string]any); ok {
			if existing, ok := dst[k].(map[string]any); ok {
				dst[k] = mergeTree(existing, nested)
				continue
			}
			dst[k] = cloneTree(nested)
			continue
		}
		dst[k] = v
	}
	return dst
}

// GlobalConfig is the static cart configuration tree: base defaults, per-cart
// overrides, and the declaration order of the carts. It is read-only after
// manager initialization, except for the resolved-override caching the
// manager performs during Initialize.
type GlobalConfig struct {
	Defaults CartConfig
	Carts    map[string]CartConfig
	Declared []string
}

// NewGlobalConfig returns an empty configuration tree.
func NewGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		Defaults: CartConfig{},
		Carts:    make(map[string]CartConfig),
	}
}

// Resolve returns the fully resolved config for the given cart ID: the deep
// merge of defaults with the cart's overrides. An unknown ID resolves to the
// defaults unmodified. Resolution works purely off the static tree, so a cart
// that has no live instance yet can still be configured.
func (g *GlobalConfig) Resolve(id string) CartConfig {
	override, ok := g.Carts[id]
	if !ok {
		return g.Defaults.Clone()
	}
	return CartConfig(mergeTree(map[string]any(g.Defaults), map[string]any(override)))
}

// CacheResolved stores the resolved config back into the overrides map so
// later resolutions of a declared cart skip the merge.
func (g *GlobalConfig) CacheResolved(id string, resolved CartConfig) {
	g.Carts[id] = resolved
}

// cartsFile is the raw shape of the TOML carts file.
type cartsFile struct {
	Defaults map[string]any            `toml:"defaults"`
	Carts    map[string]map[string]any `toml:"carts"`
}

// LoadCartsFile reads the cart configuration tree from a TOML file.
// Declaration order of the [carts.*] tables is preserved, it determines the
// initial context after manager initialization.
func LoadCartsFile(path string) (*GlobalConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read carts file: %w", err)
	}
	g, err := ParseCarts(data)
	if err != nil {
		return nil, fmt.Errorf("parse carts file %s: %w", path, err)
	}
	return g, nil
}

// ParseCarts parses the cart configuration tree from raw TOML.
func ParseCarts(data []byte) (*GlobalConfig, error) {
	var raw cartsFile
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, err
	}

	g := NewGlobalConfig()
	if raw.Defaults != nil {
		g.Defaults = CartConfig(raw.Defaults)
	}
	for id, override := range raw.Carts {
		g.Carts[id] = CartConfig(override)
	}

	// Recover declaration order from the TOML metadata. A cart counts as
	// declared at its first mention, whether that is [carts.main] or a
	// nested table like [carts.main.storage].
	seen := make(map[string]bool, len(raw.Carts))
	for _, key := range md.Keys() {
		if len(key) >= 2 && key[0] == "carts" && !seen[key[1]] {
			seen[key[1]] = true
			g.Declared = append(g.Declared, key[1])
		}
	}

	return g, nil
}
