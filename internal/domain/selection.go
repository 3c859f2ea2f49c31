package domain

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Selection is a validated customization of one menu item.
// Size is always present; Pasta and Sauce are optional; AddOns and Extras are sets.
type Selection struct {
	Pasta  *PastaOption  `json:"pasta,omitempty"`
	Size   SizeOption    `json:"size"`
	Sauce  *SauceOption  `json:"sauce,omitempty"`
	AddOns []AddOnOption `json:"add_ons,omitempty"`
	Extras []ExtraOption `json:"extras,omitempty"`
}

// Clone returns a deep copy of the selection.
func (s Selection) Clone() Selection {
	if s.Pasta != nil {
		p := *s.Pasta
		s.Pasta = &p
	}
	if s.Sauce != nil {
		sc := *s.Sauce
		s.Sauce = &sc
	}
	s.AddOns = slices.Clone(s.AddOns)
	s.Extras = slices.Clone(s.Extras)
	return s
}

// DefaultSize is used for items that publish no sizes (desserts, drinks).
var DefaultSize = SizeOption{
	ID:              "size-default",
	Name:            SizeJunior,
	PriceAdjustment: decimal.Zero,
	IsAvailable:     true,
}

// SelectionRequest carries raw option ids as submitted by a client.
type SelectionRequest struct {
	PastaID  string   `json:"pasta_id,omitempty"`
	SizeID   string   `json:"size_id,omitempty"`
	SauceID  string   `json:"sauce_id,omitempty"`
	AddOnIDs []string `json:"add_on_ids,omitempty"`
	ExtraIDs []string `json:"extra_ids,omitempty"`
}

// ResolveSelection turns option ids into a Selection, checking every id
// against the item's catalogs and availability.
func (m MenuItem) ResolveSelection(req SelectionRequest) (Selection, error) {
	var sel Selection

	if !m.IsAvailable {
		return sel, optionErr("menu item", m.ID, ErrItemUnavailable)
	}

	switch {
	case len(m.AllowedSizes) == 0 && (req.SizeID == "" || req.SizeID == DefaultSize.ID):
		sel.Size = DefaultSize
	case req.SizeID == "":
		return sel, ErrSizeRequired
	default:
		size, err := lookup("size", m.AllowedSizes, req.SizeID, func(o SizeOption) (string, bool) { return o.ID, o.IsAvailable })
		if err != nil {
			return sel, err
		}
		sel.Size = size
	}

	if req.PastaID != "" {
		pasta, err := lookup("pasta", m.AllowedPasta, req.PastaID, func(o PastaOption) (string, bool) { return o.ID, o.IsAvailable })
		if err != nil {
			return sel, err
		}
		sel.Pasta = &pasta
	} else if len(m.AllowedPasta) > 0 {
		return sel, ErrPastaRequired
	}

	if req.SauceID != "" {
		sauce, err := lookup("sauce", m.AllowedSauces, req.SauceID, func(o SauceOption) (string, bool) { return o.ID, o.IsAvailable })
		if err != nil {
			return sel, err
		}
		sel.Sauce = &sauce
	}

	addOns, err := lookupSet("add-on", m.AllowedAddOns, req.AddOnIDs, func(o AddOnOption) (string, bool) { return o.ID, o.IsAvailable })
	if err != nil {
		return sel, err
	}
	sel.AddOns = addOns

	extras, err := lookupSet("extra", m.AllowedExtras, req.ExtraIDs, func(o ExtraOption) (string, bool) { return o.ID, o.IsAvailable })
	if err != nil {
		return sel, err
	}
	sel.Extras = extras

	return sel, nil
}

func lookup[T any](kind string, opts []T, id string, key func(T) (string, bool)) (T, error) {
	var zero T
	for _, o := range opts {
		optID, available := key(o)
		if optID != id {
			continue
		}
		if !available {
			return zero, optionErr(kind, id, ErrOptionUnavailable)
		}
		return o, nil
	}
	return zero, optionErr(kind, id, ErrOptionNotAllowed)
}

func lookupSet[T any](kind string, opts []T, ids []string, key func(T) (string, bool)) ([]T, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return nil, optionErr(kind, id, ErrDuplicateOption)
		}
		seen[id] = struct{}{}
		o, err := lookup(kind, opts, id, key)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}
