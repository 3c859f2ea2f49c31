package cart

import (
	"testing"

	"github.com/alebarre/italicita/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var (
	junior  = domain.SizeOption{ID: "size-1", Name: domain.SizeJunior, PriceAdjustment: d("0")}
	adulto  = domain.SizeOption{ID: "size-2", Name: domain.SizeAdulto, PriceAdjustment: d("8.00")}
	frango  = domain.AddOnOption{ID: "addon-1", Price: d("7.00")}
	bacon   = domain.AddOnOption{ID: "addon-3", Price: d("4.00")}
	queijo  = domain.ExtraOption{ID: "extra-1", Price: d("2.00")}
	paoAlho = domain.ExtraOption{ID: "extra-2", Price: d("6.00")}
)

func spaghetti() domain.MenuItem {
	return domain.MenuItem{ID: "item-1", Name: "Spaghetti Clássico", BasePrice: d("25.90"), IsAvailable: true}
}

func TestLineID_Deterministic(t *testing.T) {
	a := domain.Selection{Size: junior, AddOns: []domain.AddOnOption{frango, bacon}, Extras: []domain.ExtraOption{queijo, paoAlho}}
	b := domain.Selection{Size: junior, AddOns: []domain.AddOnOption{bacon, frango}, Extras: []domain.ExtraOption{paoAlho, queijo}}

	assert.Equal(t, LineID("item-1", a), LineID("item-1", b))
	assert.Equal(t, Canonical("item-1", a), Canonical("item-1", b))
	assert.Regexp(t, `^item-1-[0-9a-f]{16}$`, LineID("item-1", a))
}

func TestLineID_Discriminates(t *testing.T) {
	pasta := &domain.PastaOption{ID: "pasta-1"}
	sauce := &domain.SauceOption{ID: "sauce-1"}
	base := domain.Selection{Pasta: pasta, Size: junior, Sauce: sauce}

	variants := map[string]domain.Selection{
		"size":     {Pasta: pasta, Size: adulto, Sauce: sauce},
		"pasta":    {Pasta: &domain.PastaOption{ID: "pasta-2"}, Size: junior, Sauce: sauce},
		"no pasta": {Size: junior, Sauce: sauce},
		"sauce":    {Pasta: pasta, Size: junior, Sauce: &domain.SauceOption{ID: "sauce-2"}},
		"add-on":   {Pasta: pasta, Size: junior, Sauce: sauce, AddOns: []domain.AddOnOption{bacon}},
		"extra":    {Pasta: pasta, Size: junior, Sauce: sauce, Extras: []domain.ExtraOption{queijo}},
	}

	baseID := LineID("item-1", base)
	assert.NotEqual(t, baseID, LineID("item-2", base))
	for name, sel := range variants {
		assert.NotEqual(t, baseID, LineID("item-1", sel), name)
	}
}

func TestLineID_AddOnAndExtraDoNotAlias(t *testing.T) {
	asAddOn := domain.Selection{Size: junior, AddOns: []domain.AddOnOption{{ID: "x"}}}
	asExtra := domain.Selection{Size: junior, Extras: []domain.ExtraOption{{ID: "x"}}}

	assert.NotEqual(t, LineID("item-1", asAddOn), LineID("item-1", asExtra))
}

func TestAddItem_MergesAndAppends(t *testing.T) {
	c := New()
	item := spaghetti()

	id1 := c.AddItem(item, domain.Selection{Size: junior})
	id2 := c.AddItem(item, domain.Selection{Size: adulto})
	id3 := c.AddItem(item, domain.Selection{Size: junior})

	assert.Equal(t, id1, id3)
	assert.NotEqual(t, id1, id2)

	state := c.State()
	require.Len(t, state.Items, 2)
	assert.Equal(t, id1, state.Items[0].ID)
	assert.Equal(t, 2, state.Items[0].Quantity)
	assert.Equal(t, 1, state.Items[1].Quantity)
	assert.Equal(t, 3, state.ItemCount)
	assert.True(t, d("85.70").Equal(state.Total), state.Total.String())
}

func TestAggregatesConsistentAfterEveryMutation(t *testing.T) {
	c := New()
	item := spaghetti()

	check := func() {
		t.Helper()
		s := c.State()
		total := decimal.Zero
		count := 0
		for _, l := range s.Items {
			assert.GreaterOrEqual(t, l.Quantity, 1)
			total = total.Add(l.FinalPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
			count += l.Quantity
		}
		assert.True(t, total.Equal(s.Total))
		assert.Equal(t, count, s.ItemCount)
	}

	a := c.AddItem(item, domain.Selection{Size: junior, AddOns: []domain.AddOnOption{bacon}})
	check()
	b := c.AddItem(item, domain.Selection{Size: adulto, Extras: []domain.ExtraOption{queijo}})
	check()
	c.UpdateQuantity(a, 4)
	check()
	c.UpdateQuantity(b, 0)
	check()
	c.RemoveItem(a)
	check()
	c.AddItem(item, domain.Selection{Size: junior})
	c.Clear()
	check()
}

func TestUpdateQuantity_FloorRemoves(t *testing.T) {
	for _, q := range []int{0, -5} {
		c := New()
		id := c.AddItem(spaghetti(), domain.Selection{Size: junior})

		c.UpdateQuantity(id, q)

		assert.False(t, c.Contains(id))
		assert.True(t, c.State().IsEmpty())
		assert.True(t, c.State().Total.IsZero())
	}
}

func TestUnknownLineIsNoop(t *testing.T) {
	c := New()
	c.AddItem(spaghetti(), domain.Selection{Size: junior})
	before := c.State()

	c.UpdateQuantity("item-1-ffffffffffffffff", 3)
	c.RemoveItem("item-1-ffffffffffffffff")

	assert.Equal(t, before, c.State())
}

func TestClear_Idempotent(t *testing.T) {
	c := New()
	c.AddItem(spaghetti(), domain.Selection{Size: adulto})

	c.Clear()
	first := c.State()
	c.Clear()

	assert.Equal(t, first, c.State())
	assert.Empty(t, first.Items)
	assert.Equal(t, 0, first.ItemCount)
	assert.True(t, first.Total.IsZero())
}

func TestState_ReturnsCopy(t *testing.T) {
	c := New()
	id := c.AddItem(spaghetti(), domain.Selection{Size: junior})

	s := c.State()
	s.Items[0].Quantity = 99

	assert.Equal(t, 1, c.State().Items[0].Quantity)
	assert.True(t, c.Contains(id))
}

func TestState_DoesNotAliasSelection(t *testing.T) {
	c := New()
	sauce := &domain.SauceOption{ID: "sauce-1", Price: d("3.00")}
	c.AddItem(spaghetti(), domain.Selection{Size: junior, Sauce: sauce, AddOns: []domain.AddOnOption{bacon}})

	s := c.State()
	s.Items[0].Selection.Sauce.ID = "sauce-9"
	s.Items[0].Selection.AddOns[0].ID = "addon-9"

	line := c.State().Items[0]
	assert.Equal(t, "sauce-1", line.Selection.Sauce.ID)
	assert.Equal(t, "addon-3", line.Selection.AddOns[0].ID)
}

func TestDeduct(t *testing.T) {
	c := New()
	a := c.AddItem(spaghetti(), domain.Selection{Size: junior})
	c.AddItem(spaghetti(), domain.Selection{Size: junior})
	c.AddItem(spaghetti(), domain.Selection{Size: junior})
	b := c.AddItem(spaghetti(), domain.Selection{Size: adulto})

	c.Deduct(a, 2)
	line, ok := c.Line(a)
	require.True(t, ok)
	assert.Equal(t, 1, line.Quantity)

	c.Deduct(b, 5)
	assert.False(t, c.Contains(b))

	c.Deduct("missing", 1)
	c.Deduct(a, 0)

	s := c.State()
	assert.Equal(t, 1, s.ItemCount)
	assert.True(t, s.Total.Equal(d("25.90")))
}
