package domain

import "fmt"

// SnapshotSchemaVersion is the current version of the persisted snapshot
// format. Bump it on incompatible changes; Import rejects versions it does
// not understand rather than silently misreading stored state.
const SnapshotSchemaVersion = 1

// Snapshot is the explicit, versioned serializable form of a cart's state.
// Storage drivers treat the encoded snapshot as an opaque blob.
type Snapshot struct {
	SchemaVersion int  `json:"schema_version"`
	Cart          Cart `json:"cart"`
}

// Export produces a snapshot of the cart's current state. The snapshot owns
// its own copy of the items, so later cart mutations do not leak into it.
func (c *Cart) Export() Snapshot {
	copied := *c
	copied.Items = make([]CartItem, len(c.Items))
	copy(copied.Items, c.Items)
	return Snapshot{
		SchemaVersion: SnapshotSchemaVersion,
		Cart:          copied,
	}
}

// Import replaces the cart's state with the snapshot contents. The cart keeps
// its own instance binding; only the state carried by the snapshot is taken.
func (c *Cart) Import(s Snapshot) error {
	if s.SchemaVersion != SnapshotSchemaVersion {
		return fmt.Errorf("unsupported snapshot schema version %d (expected %d)",
			s.SchemaVersion, SnapshotSchemaVersion)
	}

	items := make([]CartItem, len(s.Cart.Items))
	copy(items, s.Cart.Items)

	c.Items = items
	if s.Cart.Currency != "" {
		c.Currency = s.Cart.Currency
	}
	c.CreatedAt = s.Cart.CreatedAt
	c.UpdatedAt = s.Cart.UpdatedAt
	return nil
}
