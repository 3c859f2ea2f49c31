package cart

import (
	"fmt"
	"slices"
	"strings"

	"github.com/alebarre/italicita/internal/domain"
	"github.com/cespare/xxhash/v2"
)

const (
	fieldSep = "\x1f"
	listSep  = "\x1e"
)

// Canonical returns the canonical encoding of a configuration: menu item id,
// pasta id, size id, sauce id, sorted add-on ids and sorted extra ids.
// Option names and prices do not take part in it.
func Canonical(menuItemID string, sel domain.Selection) string {
	var pastaID, sauceID string
	if sel.Pasta != nil {
		pastaID = sel.Pasta.ID
	}
	if sel.Sauce != nil {
		sauceID = sel.Sauce.ID
	}

	addOns := make([]string, 0, len(sel.AddOns))
	for _, a := range sel.AddOns {
		addOns = append(addOns, a.ID)
	}
	slices.Sort(addOns)

	extras := make([]string, 0, len(sel.Extras))
	for _, e := range sel.Extras {
		extras = append(extras, e.ID)
	}
	slices.Sort(extras)

	return strings.Join([]string{
		menuItemID,
		pastaID,
		sel.Size.ID,
		sauceID,
		strings.Join(addOns, listSep),
		strings.Join(extras, listSep),
	}, fieldSep)
}

// LineID derives the structural identity of a cart line. Two configurations
// share a line id iff their canonical encodings hash equal.
func LineID(menuItemID string, sel domain.Selection) string {
	return fmt.Sprintf("%s-%016x", menuItemID, xxhash.Sum64String(Canonical(menuItemID, sel)))
}
