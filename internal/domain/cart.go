package domain

import "github.com/shopspring/decimal"

// CartLine is one aggregated entry of the cart. FinalPrice is the unit price
// with every selected option applied, unrounded.
type CartLine struct {
	ID         string          `json:"id"`
	MenuItemID string          `json:"menu_item_id"`
	Name       string          `json:"name"`
	BasePrice  decimal.Decimal `json:"base_price"`
	Quantity   int             `json:"quantity"`
	Selection  Selection       `json:"selection"`
	FinalPrice decimal.Decimal `json:"final_price"`
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.FinalPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Clone returns a copy that shares no memory with l.
func (l CartLine) Clone() CartLine {
	l.Selection = l.Selection.Clone()
	return l
}

// CartState is a snapshot of the cart. Total and ItemCount are always derived from Items.
type CartState struct {
	Items     []CartLine      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

func (s CartState) IsEmpty() bool {
	return len(s.Items) == 0
}
