package cart_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/alebarre/italicita/internal/cart"
	"github.com/alebarre/italicita/internal/catalog"
	"github.com/alebarre/italicita/internal/domain"
	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"
)

type cartTestContext struct {
	menu     map[string]domain.MenuItem
	cart     *cart.Cart
	lastLine string
}

func (c *cartTestContext) reset() {
	c.menu = nil
	c.cart = nil
	c.lastLine = ""
}

func (c *cartTestContext) theReferenceMenu() error {
	items, err := catalog.LoadSeed()
	if err != nil {
		return err
	}
	c.menu = make(map[string]domain.MenuItem, len(items))
	for _, it := range items {
		c.menu[it.ID] = it
	}
	return nil
}

func (c *cartTestContext) anEmptyCart() error {
	c.cart = cart.New()
	return nil
}

// parseConfig reads "pasta=pasta-1 size=size-2 addons=addon-1,addon-3".
func parseConfig(s string) (domain.SelectionRequest, error) {
	var req domain.SelectionRequest
	for _, tok := range strings.Fields(s) {
		k, v, ok := strings.Cut(tok, "=")
		if !ok {
			return req, fmt.Errorf("bad token %q", tok)
		}
		switch k {
		case "pasta":
			req.PastaID = v
		case "size":
			req.SizeID = v
		case "sauce":
			req.SauceID = v
		case "addons":
			req.AddOnIDs = strings.Split(v, ",")
		case "extras":
			req.ExtraIDs = strings.Split(v, ",")
		default:
			return req, fmt.Errorf("unknown key %q", k)
		}
	}
	return req, nil
}

func (c *cartTestContext) iAddConfiguredAs(itemID, config string) error {
	item, ok := c.menu[itemID]
	if !ok {
		return fmt.Errorf("menu item %q not in reference menu", itemID)
	}
	req, err := parseConfig(config)
	if err != nil {
		return err
	}
	sel, err := item.ResolveSelection(req)
	if err != nil {
		return err
	}
	c.lastLine = c.cart.AddItem(item, sel)
	return nil
}

func (c *cartTestContext) iSetTheQuantityOfTheLastLineTo(q int) error {
	c.cart.UpdateQuantity(c.lastLine, q)
	return nil
}

func (c *cartTestContext) iSetTheQuantityOfLineTo(lineID string, q int) error {
	c.cart.UpdateQuantity(lineID, q)
	return nil
}

func (c *cartTestContext) iRemoveLine(lineID string) error {
	c.cart.RemoveItem(lineID)
	return nil
}

func (c *cartTestContext) iClearTheCart() error {
	c.cart.Clear()
	return nil
}

func (c *cartTestContext) theCartHasLines(n int) error {
	if got := len(c.cart.State().Items); got != n {
		return fmt.Errorf("expected %d lines, got %d", n, got)
	}
	return nil
}

func (c *cartTestContext) theCartTotalIs(want string) error {
	total := c.cart.State().Total
	if !total.Equal(decimal.RequireFromString(want)) {
		return fmt.Errorf("expected total %s, got %s", want, total)
	}
	return nil
}

func (c *cartTestContext) theItemCountIs(n int) error {
	if got := c.cart.State().ItemCount; got != n {
		return fmt.Errorf("expected item count %d, got %d", n, got)
	}
	return nil
}

func (c *cartTestContext) line() (domain.CartLine, error) {
	for _, l := range c.cart.State().Items {
		if l.ID == c.lastLine {
			return l, nil
		}
	}
	return domain.CartLine{}, errors.New("last line is not in the cart")
}

func (c *cartTestContext) theLastLineHasQuantity(n int) error {
	l, err := c.line()
	if err != nil {
		return err
	}
	if l.Quantity != n {
		return fmt.Errorf("expected quantity %d, got %d", n, l.Quantity)
	}
	return nil
}

func (c *cartTestContext) theLastLineUnitPriceIs(want string) error {
	l, err := c.line()
	if err != nil {
		return err
	}
	if !l.FinalPrice.Equal(decimal.RequireFromString(want)) {
		return fmt.Errorf("expected unit price %s, got %s", want, l.FinalPrice)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &cartTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	ctx.Step(`^the reference menu$`, tc.theReferenceMenu)
	ctx.Step(`^an empty cart$`, tc.anEmptyCart)

	ctx.Step(`^I add "([^"]*)" configured as "([^"]*)"$`, tc.iAddConfiguredAs)
	ctx.Step(`^I set the quantity of the last line to (-?\d+)$`, tc.iSetTheQuantityOfTheLastLineTo)
	ctx.Step(`^I set the quantity of line "([^"]*)" to (-?\d+)$`, tc.iSetTheQuantityOfLineTo)
	ctx.Step(`^I remove line "([^"]*)"$`, tc.iRemoveLine)
	ctx.Step(`^I clear the cart$`, tc.iClearTheCart)

	ctx.Step(`^the cart has (\d+) lines?$`, tc.theCartHasLines)
	ctx.Step(`^the cart total is "([^"]*)"$`, tc.theCartTotalIs)
	ctx.Step(`^the item count is (\d+)$`, tc.theItemCountIs)
	ctx.Step(`^the last line has quantity (\d+)$`, tc.theLastLineHasQuantity)
	ctx.Step(`^the last line unit price is "([^"]*)"$`, tc.theLastLineUnitPriceIs)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
