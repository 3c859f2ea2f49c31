package pricing

import (
	"testing"

	"github.com/alebarre/italicita/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCalculateItemPrice_Spaghetti(t *testing.T) {
	item := ConfiguredItem{
		BasePrice: d("25.90"),
		Selection: domain.Selection{
			Pasta:  &domain.PastaOption{ID: "pasta-1", PriceAdjustment: d("0")},
			Size:   domain.SizeOption{ID: "size-2", PriceAdjustment: d("8.00")},
			Sauce:  &domain.SauceOption{ID: "sauce-1", Price: d("3.00")},
			AddOns: []domain.AddOnOption{{ID: "addon-3", Price: d("4.00")}},
		},
	}

	assert.True(t, d("40.90").Equal(CalculateItemPrice(item)))
}

func TestCalculateItemPrice_BaseAndSizeOnly(t *testing.T) {
	item := ConfiguredItem{
		BasePrice: d("16.90"),
		Selection: domain.Selection{Size: domain.DefaultSize},
	}

	assert.True(t, d("16.90").Equal(CalculateItemPrice(item)))
}

func TestCalculateItemPrice_OrderIndependent(t *testing.T) {
	addOns := []domain.AddOnOption{
		{ID: "addon-1", Price: d("7.00")},
		{ID: "addon-2", Price: d("12.00")},
		{ID: "addon-3", Price: d("4.00")},
	}
	extras := []domain.ExtraOption{
		{ID: "extra-1", Price: d("2.00")},
		{ID: "extra-2", Price: d("6.00")},
	}
	reversedAddOns := []domain.AddOnOption{addOns[2], addOns[1], addOns[0]}
	reversedExtras := []domain.ExtraOption{extras[1], extras[0]}

	a := CalculateItemPrice(ConfiguredItem{
		BasePrice: d("32.90"),
		Selection: domain.Selection{Size: domain.SizeOption{PriceAdjustment: d("8")}, AddOns: addOns, Extras: extras},
	})
	b := CalculateItemPrice(ConfiguredItem{
		BasePrice: d("32.90"),
		Selection: domain.Selection{Size: domain.SizeOption{PriceAdjustment: d("8")}, AddOns: reversedAddOns, Extras: reversedExtras},
	})

	assert.True(t, a.Equal(b))
	assert.True(t, d("71.90").Equal(a))
}

func TestCalculateItemPrice_NotRounded(t *testing.T) {
	item := ConfiguredItem{
		BasePrice: d("10.005"),
		Selection: domain.Selection{Size: domain.SizeOption{PriceAdjustment: d("0.001")}},
	}

	assert.Equal(t, "10.006", CalculateItemPrice(item).String())
}

func TestOrderAmount(t *testing.T) {
	assert.True(t, d("86.80").Equal(OrderAmount(d("81.80"), DefaultDeliveryFee)))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "R$ 40.90", Format(d("40.9")))
	assert.Equal(t, "R$ 0.00", Format(decimal.Zero))
	assert.Equal(t, "81.80", Fixed(d("81.8")))
}
