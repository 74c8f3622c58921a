package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCartsTOML = `
[defaults]
currency = "USD"

[defaults.storage]
driver = "redis"
autosave = true

[carts.main]
label = "Main cart"

[carts.wishlist]
currency = "EUR"

[carts.wishlist.storage]
driver = "postgres"
autosave = false
key_prefix = "wish_"
key_suffix = "_v1"

[carts.comparison]

[carts.comparison.storage]
driver = ""
`

func parseSample(t *testing.T) *GlobalConfig {
	t.Helper()
	g, err := ParseCarts([]byte(sampleCartsTOML))
	require.NoError(t, err)
	return g
}

func TestParseCarts_DeclarationOrder(t *testing.T) {
	g := parseSample(t)

	assert.Equal(t, []string{"main", "wishlist", "comparison"}, g.Declared)
}

func TestResolve_MergesDefaultsWithOverrides(t *testing.T) {
	g := parseSample(t)

	cfg := g.Resolve("wishlist")

	assert.Equal(t, "EUR", cfg.String("currency", ""))

	sc := cfg.Storage()
	assert.Equal(t, "postgres", sc.Driver)
	assert.False(t, sc.Autosave)
	assert.Equal(t, "wish_", sc.KeyPrefix)
	assert.Equal(t, "_v1", sc.KeySuffix)
}

func TestResolve_OverrideInheritsDefaultStorage(t *testing.T) {
	g := parseSample(t)

	cfg := g.Resolve("main")

	// "main" overrides nothing under storage, so the defaults apply.
	assert.Equal(t, "USD", cfg.String("currency", ""))
	assert.Equal(t, "Main cart", cfg.String("label", ""))

	sc := cfg.Storage()
	assert.Equal(t, "redis", sc.Driver)
	assert.True(t, sc.Autosave)
	assert.Empty(t, sc.KeyPrefix)
	assert.Empty(t, sc.KeySuffix)
}

func TestResolve_UnknownIDReturnsDefaults(t *testing.T) {
	g := parseSample(t)

	cfg := g.Resolve("unknown")

	assert.Equal(t, map[string]any(g.Defaults), map[string]any(cfg))
}

func TestResolve_UnknownIDReturnsCopy(t *testing.T) {
	g := parseSample(t)

	cfg := g.Resolve("unknown")
	cfg["currency"] = "JPY"

	assert.Equal(t, "USD", g.Defaults.String("currency", ""))
}

func TestResolve_EmptyDriverOverrideDisablesStorage(t *testing.T) {
	g := parseSample(t)

	sc := g.Resolve("comparison").Storage()

	assert.Empty(t, sc.Driver)
}

func TestResolve_FalseOverrideBeatsTrueDefault(t *testing.T) {
	g, err := ParseCarts([]byte(`
[defaults]
currency = "USD"

[defaults.storage]
driver = "redis"
autosave = true
key_prefix = "cart_"

[carts.wishlist.storage]
autosave = false
`))
	require.NoError(t, err)

	sc := g.Resolve("wishlist").Storage()

	assert.False(t, sc.Autosave, "declared autosave = false must beat the default")
	assert.Equal(t, "redis", sc.Driver)
	assert.Equal(t, "cart_", sc.KeyPrefix)
}

func TestResolve_ReturnsIsolatedTree(t *testing.T) {
	g := parseSample(t)

	cfg := g.Resolve("wishlist")
	cfg["storage"].(map[string]any)["driver"] = "mutated"

	assert.Equal(t, "redis", g.Defaults.Storage().Driver)
	assert.Equal(t, "postgres", g.Carts["wishlist"].Storage().Driver)
}

func TestCacheResolved(t *testing.T) {
	g := parseSample(t)

	resolved := g.Resolve("main")
	g.CacheResolved("main", resolved)

	assert.Equal(t, resolved, g.Carts["main"])
}

func TestStorage_MissingSection(t *testing.T) {
	cfg := CartConfig{"currency": "USD"}

	sc := cfg.Storage()

	assert.Empty(t, sc.Driver)
	assert.False(t, sc.Autosave)
}

func TestClone_DeepCopiesNestedMaps(t *testing.T) {
	orig := CartConfig{
		"currency": "USD",
		"storage":  map[string]any{"driver": "redis"},
	}

	clone := orig.Clone()
	clone["storage"].(map[string]any)["driver"] = "postgres"

	assert.Equal(t, "redis", orig.Storage().Driver)
}

func TestParseCarts_Invalid(t *testing.T) {
	_, err := ParseCarts([]byte("not [ valid toml"))
	require.Error(t, err)
}

func TestParseCarts_Empty(t *testing.T) {
	g, err := ParseCarts(nil)
	require.NoError(t, err)

	assert.Empty(t, g.Declared)
	assert.Empty(t, g.Carts)
}
