// Package cart aggregates configured menu items into cart lines.
//
// A Cart is owned by a single writer; callers that share one across
// goroutines must serialize access (see package session).
package cart

import (
	"slices"

	"github.com/alebarre/italicita/internal/domain"
	"github.com/alebarre/italicita/internal/pricing"
	"github.com/shopspring/decimal"
)

type Cart struct {
	items     []domain.CartLine
	total     decimal.Decimal
	itemCount int
}

func New() *Cart {
	return &Cart{total: decimal.Zero}
}

// State returns a snapshot of the cart. Lines and their selections are
// copied, so the snapshot never aliases the cart.
func (c *Cart) State() domain.CartState {
	items := make([]domain.CartLine, len(c.items))
	for i, l := range c.items {
		items[i] = l.Clone()
	}
	return domain.CartState{
		Items:     items,
		Total:     c.total,
		ItemCount: c.itemCount,
	}
}

// AddItem merges the configuration into an existing line with the same
// structural identity, or appends a new line with quantity 1.
// It returns the id of the affected line.
func (c *Cart) AddItem(item domain.MenuItem, sel domain.Selection) string {
	id := LineID(item.ID, sel)

	if i := c.index(id); i >= 0 {
		c.items[i].Quantity++
	} else {
		c.items = append(c.items, domain.CartLine{
			ID:         id,
			MenuItemID: item.ID,
			Name:       item.Name,
			BasePrice:  item.BasePrice,
			Quantity:   1,
			Selection:  sel,
			FinalPrice: pricing.CalculateItemPrice(pricing.ConfiguredItem{BasePrice: item.BasePrice, Selection: sel}),
		})
	}

	c.recalculate()
	return id
}

// UpdateQuantity sets the quantity of a line. A quantity of zero or less
// removes the line; an unknown id is ignored.
func (c *Cart) UpdateQuantity(lineID string, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(lineID)
		return
	}

	i := c.index(lineID)
	if i < 0 {
		return
	}
	c.items[i].Quantity = quantity
	c.recalculate()
}

func (c *Cart) RemoveItem(lineID string) {
	i := c.index(lineID)
	if i < 0 {
		return
	}
	c.items = slices.Delete(c.items, i, i+1)
	c.recalculate()
}

func (c *Cart) Clear() {
	c.items = nil
	c.recalculate()
}

// Deduct takes quantity units off a line, removing it when nothing is left.
// An unknown id is ignored.
func (c *Cart) Deduct(lineID string, quantity int) {
	i := c.index(lineID)
	if i < 0 || quantity <= 0 {
		return
	}
	c.UpdateQuantity(lineID, c.items[i].Quantity-quantity)
}

// Line returns a copy of the line with the given id.
func (c *Cart) Line(lineID string) (domain.CartLine, bool) {
	i := c.index(lineID)
	if i < 0 {
		return domain.CartLine{}, false
	}
	return c.items[i].Clone(), true
}

// Contains reports whether a line with the given id exists.
func (c *Cart) Contains(lineID string) bool {
	return c.index(lineID) >= 0
}

func (c *Cart) index(lineID string) int {
	return slices.IndexFunc(c.items, func(l domain.CartLine) bool { return l.ID == lineID })
}

func (c *Cart) recalculate() {
	total := decimal.Zero
	count := 0
	for _, l := range c.items {
		total = total.Add(l.Subtotal())
		count += l.Quantity
	}
	c.total = total
	c.itemCount = count
}
