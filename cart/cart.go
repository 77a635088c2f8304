// Package cart holds the customer's in-progress selection of menu items.
// The cart is an explicit store object: every mutation goes through a
// named operation, and a view that needs the cart is handed the same
// *Cart by reference. State lives only in memory for the life of the
// process; nothing survives a restart.
package cart

import "smart-restaurant/api"

// Line is one cart entry. Quantity is always >= 1; removing the last
// unit deletes the line instead of leaving a zero-quantity entry.
type Line struct {
	ItemID   int
	Name     string
	Price    float64
	Quantity int
}

// Cart is owned by a single goroutine (the UI loop) and is not
// synchronized.
type Cart struct {
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// Add puts one unit of the item in the cart, incrementing the quantity
// if a line for it already exists.
func (c *Cart) Add(item api.MenuItem) {
	for i := range c.lines {
		if c.lines[i].ItemID == item.ItemID {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, Line{
		ItemID:   item.ItemID,
		Name:     item.Name,
		Price:    item.Price,
		Quantity: 1,
	})
}

// Remove takes one unit of the item out of the cart, deleting the line
// when the quantity reaches zero. Removing an item that is not in the
// cart is a no-op.
func (c *Cart) Remove(itemID int) {
	for i := range c.lines {
		if c.lines[i].ItemID != itemID {
			continue
		}
		if c.lines[i].Quantity > 1 {
			c.lines[i].Quantity--
		} else {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		}
		return
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// Total returns the sum of price × quantity over all lines.
func (c *Cart) Total() float64 {
	var total float64
	for _, l := range c.lines {
		total += l.Price * float64(l.Quantity)
	}
	return total
}

// Lines returns a copy of the cart contents in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

// Payload builds the checkout request. Only item ids and quantities
// travel; prices are resolved server-side at order time.
func (c *Cart) Payload() api.CreateOrderRequest {
	req := api.CreateOrderRequest{Items: make([]api.CreateOrderItem, 0, len(c.lines))}
	for _, l := range c.lines {
		req.Items = append(req.Items, api.CreateOrderItem{
			ItemID:   l.ItemID,
			Quantity: l.Quantity,
		})
	}
	return req
}
