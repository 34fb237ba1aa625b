// Package cart holds the products a shopper has picked during a session.
package cart

import "github.com/abgdnv/glowcart/internal/catalog"

// Cart is a last-in-first-out stack of product snapshots. Each entry's
// Quantity is the amount selected, not the stock level.
type Cart struct {
	items []catalog.Product
}

// New creates an empty Cart.
func New() *Cart {
	return &Cart{}
}

// Push places p on top of the cart.
func (c *Cart) Push(p catalog.Product) {
	c.items = append(c.items, p)
}

// Pop removes and returns the most recently added entry.
func (c *Cart) Pop() (catalog.Product, bool) {
	if len(c.items) == 0 {
		return catalog.Product{}, false
	}
	p := c.items[len(c.items)-1]
	c.items = c.items[:len(c.items)-1]
	return p, true
}

// Len returns the number of entries.
func (c *Cart) Len() int {
	return len(c.items)
}

// Items returns the entries from top to bottom without modifying the cart.
func (c *Cart) Items() []catalog.Product {
	out := make([]catalog.Product, 0, len(c.items))
	for i := len(c.items) - 1; i >= 0; i-- {
		out = append(out, c.items[i])
	}
	return out
}

// Total returns the sum of price times selected quantity.
func (c *Cart) Total() float64 {
	var total float64
	for _, p := range c.items {
		total += p.Price * float64(p.Quantity)
	}
	return total
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.items = nil
}
