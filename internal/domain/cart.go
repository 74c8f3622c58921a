package domain

import (
	"fmt"
	"time"
)

// Cart operation upper-bound limits to prevent abuse.
const (
	// MaxQuantityPerItem is the maximum quantity allowed for a single cart item.
	MaxQuantityPerItem = 100
	// MaxItemsPerCart is the maximum number of distinct items allowed in a cart.
	MaxItemsPerCart = 50
)

// Cart represents the mutable state of one cart instance.
type Cart struct {
	InstanceID string     `json:"instance_id"`
	Items      []CartItem `json:"items"`
	Currency   string     `json:"currency"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// CartItem represents a single item in the cart.
type CartItem struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id"`
	Name      string `json:"name"`
	SKU       string `json:"sku"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	ImageURL  string `json:"image_url,omitempty"`
}

// NewCart creates an empty cart bound to the given instance ID.
func NewCart(instanceID, currency string) *Cart {
	now := time.Now().UTC()
	return &Cart{
		InstanceID: instanceID,
		Items:      []CartItem{},
		Currency:   currency,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// TotalAmount calculates the total price of all items in the cart (in cents).
func (c *Cart) TotalAmount() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.Price * int64(item.Quantity)
	}
	return total
}

// ItemCount returns the total number of items in the cart.
func (c *Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// FindItemIndex returns the index of the cart item matching the given product
// and variant IDs, or -1 if not found.
func (c *Cart) FindItemIndex(productID, variantID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID && c.Items[i].VariantID == variantID {
			return i
		}
	}
	return -1
}

// AddItem adds an item to the cart. If the same product+variant exists, it
// merges by increasing quantity and refreshing the descriptive fields.
func (c *Cart) AddItem(item CartItem) error {
	if item.ProductID == "" || item.VariantID == "" {
		return fmt.Errorf("product id and variant id are required")
	}
	if item.Quantity <= 0 {
		return fmt.Errorf("quantity must be greater than 0")
	}
	if item.Quantity > MaxQuantityPerItem {
		return fmt.Errorf("quantity must not exceed %d", MaxQuantityPerItem)
	}
	if item.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}

	if i := c.FindItemIndex(item.ProductID, item.VariantID); i >= 0 {
		newQty := c.Items[i].Quantity + item.Quantity
		if newQty > MaxQuantityPerItem {
			return fmt.Errorf("combined quantity must not exceed %d", MaxQuantityPerItem)
		}
		c.Items[i].Quantity = newQty
		c.Items[i].Price = item.Price
		c.Items[i].Name = item.Name
		c.Items[i].SKU = item.SKU
		c.Items[i].ImageURL = item.ImageURL
		c.touch()
		return nil
	}

	if len(c.Items) >= MaxItemsPerCart {
		return fmt.Errorf("cart must not contain more than %d items", MaxItemsPerCart)
	}
	c.Items = append(c.Items, item)
	c.touch()
	return nil
}

// SetItemQuantity updates the quantity of an item. Quantity 0 removes the
// item. Returns false if no matching item exists.
func (c *Cart) SetItemQuantity(productID, variantID string, quantity int) (bool, error) {
	if quantity < 0 {
		return false, fmt.Errorf("quantity must not be negative")
	}
	if quantity > MaxQuantityPerItem {
		return false, fmt.Errorf("quantity must not exceed %d", MaxQuantityPerItem)
	}

	i := c.FindItemIndex(productID, variantID)
	if i < 0 {
		return false, nil
	}

	if quantity == 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	} else {
		c.Items[i].Quantity = quantity
	}
	c.touch()
	return true, nil
}

// RemoveItem removes a specific item from the cart. Returns false if no
// matching item exists.
func (c *Cart) RemoveItem(productID, variantID string) bool {
	i := c.FindItemIndex(productID, variantID)
	if i < 0 {
		return false
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	c.touch()
	return true
}

// Clear removes all items from the cart.
func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.touch()
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now().UTC()
}
