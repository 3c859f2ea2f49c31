// Package pricing computes unit prices for configured menu items and the
// amounts charged at payment handoff.
package pricing

import (
	"github.com/alebarre/italicita/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultDeliveryFee is the flat fee added to every order.
var DefaultDeliveryFee = decimal.RequireFromString("5.00")

// ConfiguredItem is a menu item base price together with the chosen options.
type ConfiguredItem struct {
	BasePrice decimal.Decimal
	Selection domain.Selection
}

// CalculateItemPrice returns the unit price of a configured item:
// base + pasta adjustment + size adjustment + sauce + add-ons + extras.
// The result is not rounded.
func CalculateItemPrice(item ConfiguredItem) decimal.Decimal {
	sel := item.Selection
	price := item.BasePrice.Add(sel.Size.PriceAdjustment)

	if sel.Pasta != nil {
		price = price.Add(sel.Pasta.PriceAdjustment)
	}
	if sel.Sauce != nil {
		price = price.Add(sel.Sauce.Price)
	}
	for _, a := range sel.AddOns {
		price = price.Add(a.Price)
	}
	for _, e := range sel.Extras {
		price = price.Add(e.Price)
	}
	return price
}

// OrderAmount is the amount handed to payment: cart total plus delivery fee.
func OrderAmount(cartTotal, deliveryFee decimal.Decimal) decimal.Decimal {
	return cartTotal.Add(deliveryFee)
}
