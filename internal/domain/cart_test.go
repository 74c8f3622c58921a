package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func widget(qty int) CartItem {
	return CartItem{
		ProductID: "prod-1",
		VariantID: "var-1",
		Name:      "Widget",
		SKU:       "WDG-1",
		Price:     1990,
		Quantity:  qty,
	}
}

func TestNewCart(t *testing.T) {
	c := NewCart("main", "USD")

	assert.Equal(t, "main", c.InstanceID)
	assert.Equal(t, "USD", c.Currency)
	assert.Empty(t, c.Items)
	assert.NotZero(t, c.CreatedAt)
}

func TestAddItem(t *testing.T) {
	c := NewCart("main", "USD")

	require.NoError(t, c.AddItem(widget(2)))

	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Quantity)
	assert.Equal(t, int64(3980), c.TotalAmount())
	assert.Equal(t, 2, c.ItemCount())
}

func TestAddItem_MergesSameVariant(t *testing.T) {
	c := NewCart("main", "USD")

	require.NoError(t, c.AddItem(widget(2)))

	updated := widget(3)
	updated.Price = 1790
	require.NoError(t, c.AddItem(updated))

	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Quantity)
	assert.Equal(t, int64(1790), c.Items[0].Price)
}

func TestAddItem_Validation(t *testing.T) {
	c := NewCart("main", "USD")

	assert.Error(t, c.AddItem(CartItem{VariantID: "v", Quantity: 1}))
	assert.Error(t, c.AddItem(CartItem{ProductID: "p", VariantID: "v", Quantity: 0}))
	assert.Error(t, c.AddItem(CartItem{ProductID: "p", VariantID: "v", Quantity: MaxQuantityPerItem + 1}))
	assert.Error(t, c.AddItem(CartItem{ProductID: "p", VariantID: "v", Quantity: 1, Price: -1}))
}

func TestAddItem_CombinedQuantityLimit(t *testing.T) {
	c := NewCart("main", "USD")

	require.NoError(t, c.AddItem(widget(MaxQuantityPerItem)))
	assert.Error(t, c.AddItem(widget(1)))
}

func TestSetItemQuantity(t *testing.T) {
	c := NewCart("main", "USD")
	require.NoError(t, c.AddItem(widget(2)))

	found, err := c.SetItemQuantity("prod-1", "var-1", 7)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 7, c.Items[0].Quantity)
}

func TestSetItemQuantity_ZeroRemoves(t *testing.T) {
	c := NewCart("main", "USD")
	require.NoError(t, c.AddItem(widget(2)))

	found, err := c.SetItemQuantity("prod-1", "var-1", 0)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, c.Items)
}

func TestSetItemQuantity_Missing(t *testing.T) {
	c := NewCart("main", "USD")

	found, err := c.SetItemQuantity("prod-x", "var-x", 1)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRemoveItem(t *testing.T) {
	c := NewCart("main", "USD")
	require.NoError(t, c.AddItem(widget(2)))

	assert.True(t, c.RemoveItem("prod-1", "var-1"))
	assert.Empty(t, c.Items)
	assert.False(t, c.RemoveItem("prod-1", "var-1"))
}

func TestClear(t *testing.T) {
	c := NewCart("main", "USD")
	require.NoError(t, c.AddItem(widget(2)))

	c.Clear()

	assert.Empty(t, c.Items)
	assert.Zero(t, c.TotalAmount())
}

func TestExportImport_RoundTrip(t *testing.T) {
	c := NewCart("main", "USD")
	require.NoError(t, c.AddItem(widget(2)))

	snap := c.Export()
	assert.Equal(t, SnapshotSchemaVersion, snap.SchemaVersion)

	fresh := NewCart("main", "USD")
	require.NoError(t, fresh.Import(snap))

	assert.Equal(t, c.Items, fresh.Items)
	assert.Equal(t, c.TotalAmount(), fresh.TotalAmount())
}

func TestExport_IsolatedFromLaterMutations(t *testing.T) {
	c := NewCart("main", "USD")
	require.NoError(t, c.AddItem(widget(2)))

	snap := c.Export()
	c.Clear()

	require.Len(t, snap.Cart.Items, 1)
	assert.Equal(t, 2, snap.Cart.Items[0].Quantity)
}

func TestImport_RejectsUnknownSchemaVersion(t *testing.T) {
	c := NewCart("main", "USD")

	err := c.Import(Snapshot{SchemaVersion: 99})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema version")
}

func TestImport_KeepsInstanceBinding(t *testing.T) {
	source := NewCart("main", "EUR")
	require.NoError(t, source.AddItem(widget(1)))

	target := NewCart("wishlist", "USD")
	require.NoError(t, target.Import(source.Export()))

	assert.Equal(t, "wishlist", target.InstanceID)
	assert.Equal(t, "EUR", target.Currency)
	assert.Len(t, target.Items, 1)
}
