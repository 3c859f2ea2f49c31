package orders

import (
	"github.com/alebarre/italicita/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newTestOrder() *domain.Order {
	adulto := domain.SizeOption{ID: "size-2", Name: domain.SizeAdulto, Weight: "500g", PriceAdjustment: decimal.RequireFromString("8.00"), IsAvailable: true}
	bolonhesa := &domain.SauceOption{ID: "sauce-1", Name: "Molho Bolonhesa", Price: decimal.RequireFromString("3.00"), IsAvailable: true}
	bacon := domain.AddOnOption{ID: "addon-3", Name: "Bacon", Price: decimal.RequireFromString("4.00"), IsAvailable: true}

	id := uuid.New()
	return &domain.Order{
		ID:        id,
		Number:    "IT" + id.String()[:8],
		SessionID: "session-123",
		Items: []domain.CartLine{
			{
				ID:         "item-1-0123456789abcdef",
				MenuItemID: "item-1",
				Name:       "Spaghetti Clássico",
				BasePrice:  decimal.RequireFromString("25.90"),
				Quantity:   2,
				Selection:  domain.Selection{Size: adulto, Sauce: bolonhesa, AddOns: []domain.AddOnOption{bacon}},
				FinalPrice: decimal.RequireFromString("40.90"),
			},
		},
		Subtotal:      decimal.RequireFromString("81.80"),
		DeliveryFee:   decimal.RequireFromString("5.00"),
		Total:         decimal.RequireFromString("86.80"),
		PaymentMethod: domain.PaymentMethodPix,
		Delivery:      domain.DeliveryInfo{Name: "Ana", Address: "Rua das Flores, 10", Phone: "21999990000"},
		Status:        domain.OrderStatusPendingPayment,
	}
}
