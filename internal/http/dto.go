package http

import (
	"time"

	"github.com/alebarre/italicita/internal/domain"
	"github.com/alebarre/italicita/internal/payment"
	"github.com/alebarre/italicita/internal/pricing"
)

// Money goes out as an exact decimal string next to a display string.

type MenuItemDTO struct {
	domain.MenuItem
	BasePriceDisplay string `json:"base_price_display"`
}

type MenuResponseDTO struct {
	Items []MenuItemDTO `json:"items"`
}

type QuoteResponseDTO struct {
	MenuItemID       string           `json:"menu_item_id"`
	LineID           string           `json:"line_id"`
	Selection        domain.Selection `json:"selection"`
	UnitPrice        string           `json:"unit_price"`
	UnitPriceDisplay string           `json:"unit_price_display"`
}

type CartLineDTO struct {
	domain.CartLine
	FinalPriceDisplay string `json:"final_price_display"`
	Subtotal          string `json:"subtotal"`
	SubtotalDisplay   string `json:"subtotal_display"`
}

type CartResponseDTO struct {
	SessionID    string        `json:"session_id"`
	LineID       string        `json:"line_id,omitempty"`
	Items        []CartLineDTO `json:"items"`
	Total        string        `json:"total"`
	TotalDisplay string        `json:"total_display"`
	ItemCount    int           `json:"item_count"`
}

type OrderResponseDTO struct {
	*domain.Order
	SubtotalDisplay    string `json:"subtotal_display"`
	DeliveryFeeDisplay string `json:"delivery_fee_display"`
	TotalDisplay       string `json:"total_display"`
}

type PaymentResponseDTO struct {
	payment.Session
	AmountDisplay    string `json:"amount_display"`
	CopyPaste        string `json:"copy_paste"`
	RemainingSeconds int    `json:"remaining_seconds"`
}

type CheckoutResponseDTO struct {
	Order        OrderResponseDTO    `json:"order"`
	WhatsAppLink string              `json:"whatsapp_link"`
	Payment      *PaymentResponseDTO `json:"payment,omitempty"`
}

func toMenuItemDTO(item domain.MenuItem) MenuItemDTO {
	return MenuItemDTO{MenuItem: item, BasePriceDisplay: pricing.Format(item.BasePrice)}
}

func toCartDTO(sessionID string, state domain.CartState) CartResponseDTO {
	lines := make([]CartLineDTO, len(state.Items))
	for i, l := range state.Items {
		lines[i] = CartLineDTO{
			CartLine:          l,
			FinalPriceDisplay: pricing.Format(l.FinalPrice),
			Subtotal:          pricing.Fixed(l.Subtotal()),
			SubtotalDisplay:   pricing.Format(l.Subtotal()),
		}
	}
	return CartResponseDTO{
		SessionID:    sessionID,
		Items:        lines,
		Total:        pricing.Fixed(state.Total),
		TotalDisplay: pricing.Format(state.Total),
		ItemCount:    state.ItemCount,
	}
}

type OrderListResponseDTO struct {
	Orders []OrderResponseDTO `json:"orders"`
}

func toOrderDTO(o *domain.Order) OrderResponseDTO {
	return OrderResponseDTO{
		Order:              o,
		SubtotalDisplay:    pricing.Format(o.Subtotal),
		DeliveryFeeDisplay: pricing.Format(o.DeliveryFee),
		TotalDisplay:       pricing.Format(o.Total),
	}
}

func toPaymentDTO(s payment.Session, remaining time.Duration) *PaymentResponseDTO {
	return &PaymentResponseDTO{
		Session:          s,
		AmountDisplay:    pricing.Format(s.Amount),
		CopyPaste:        payment.CopyPaste(s.Code),
		RemainingSeconds: int(remaining.Seconds()),
	}
}
