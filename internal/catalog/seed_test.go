package catalog

import (
	"testing"

	"github.com/alebarre/italicita/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSeed_ReferenceMenu(t *testing.T) {
	items, err := LoadSeed()
	require.NoError(t, err)
	require.Len(t, items, 8)

	spaghetti := items[0]
	assert.Equal(t, "item-1", spaghetti.ID)
	assert.Equal(t, domain.CategoryMassas, spaghetti.Category)
	assert.True(t, decimal.RequireFromString("25.90").Equal(spaghetti.BasePrice))
	assert.Len(t, spaghetti.AllowedPasta, 1)
	assert.Len(t, spaghetti.AllowedSizes, 2)
	assert.Len(t, spaghetti.AllowedSauces, 3)
	require.Len(t, spaghetti.AllowedAddOns, 2)
	assert.Equal(t, "addon-1", spaghetti.AllowedAddOns[0].ID)
	assert.Equal(t, "addon-3", spaghetti.AllowedAddOns[1].ID)
	assert.True(t, decimal.RequireFromString("8.00").Equal(spaghetti.AllowedSizes[1].PriceAdjustment))
	assert.Equal(t, "500g", spaghetti.AllowedSizes[1].Weight)

	tiramisu := items[5]
	assert.Equal(t, "item-6", tiramisu.ID)
	assert.Empty(t, tiramisu.AllowedSizes)
	assert.False(t, tiramisu.HasOptions())
}

func TestParseSeed_UnknownOption(t *testing.T) {
	doc := []byte(`
sizes:
  - id: size-1
    name: Junior
    price_adjustment: "0"
    is_available: true
items:
  - id: item-x
    name: X
    category: massas
    base_price: "1.00"
    sizes: [size-9]
`)

	_, err := ParseSeed(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown size option "size-9"`)
}

func TestParseSeed_InvalidCategory(t *testing.T) {
	doc := []byte(`
items:
  - id: item-x
    name: X
    category: pizzas
    base_price: "1.00"
`)

	_, err := ParseSeed(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category")
}

func TestParseSeed_DuplicateItem(t *testing.T) {
	doc := []byte(`
items:
  - id: item-x
    name: X
    category: bebidas
    base_price: "1.00"
  - id: item-x
    name: Y
    category: bebidas
    base_price: "2.00"
`)

	_, err := ParseSeed(doc)
	assert.ErrorContains(t, err, "duplicate menu item")
}
