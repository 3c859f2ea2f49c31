package catalog

import (
	_ "embed"
	"fmt"

	"github.com/alebarre/italicita/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

type seedOption struct {
	ID              string          `yaml:"id"`
	Name            string          `yaml:"name"`
	Description     string          `yaml:"description"`
	Weight          string          `yaml:"weight"`
	Price           decimal.Decimal `yaml:"price"`
	PriceAdjustment decimal.Decimal `yaml:"price_adjustment"`
	IsAvailable     bool            `yaml:"is_available"`
}

type seedItem struct {
	ID              string          `yaml:"id"`
	Name            string          `yaml:"name"`
	Description     string          `yaml:"description"`
	Category        domain.Category `yaml:"category"`
	BasePrice       decimal.Decimal `yaml:"base_price"`
	Images          []string        `yaml:"images"`
	IsAvailable     bool            `yaml:"is_available"`
	PreparationTime int             `yaml:"preparation_time"`
	Tags            []string        `yaml:"tags"`
	Pasta           []string        `yaml:"pasta"`
	Sizes           []string        `yaml:"sizes"`
	Sauces          []string        `yaml:"sauces"`
	AddOns          []string        `yaml:"add_ons"`
	Extras          []string        `yaml:"extras"`
}

type seedFile struct {
	Pasta  []seedOption `yaml:"pasta"`
	Sizes  []seedOption `yaml:"sizes"`
	Sauces []seedOption `yaml:"sauces"`
	AddOns []seedOption `yaml:"add_ons"`
	Extras []seedOption `yaml:"extras"`
	Items  []seedItem   `yaml:"items"`
}

// LoadSeed returns the reference menu bundled with the binary.
func LoadSeed() ([]domain.MenuItem, error) {
	return ParseSeed(seedYAML)
}

// ParseSeed decodes a menu document where items reference shared options by id.
func ParseSeed(data []byte) ([]domain.MenuItem, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode menu seed: %w", err)
	}

	opts := map[string]map[string]seedOption{
		"pasta":  index(f.Pasta),
		"size":   index(f.Sizes),
		"sauce":  index(f.Sauces),
		"add-on": index(f.AddOns),
		"extra":  index(f.Extras),
	}

	items := make([]domain.MenuItem, 0, len(f.Items))
	seen := make(map[string]struct{}, len(f.Items))
	for _, si := range f.Items {
		if si.ID == "" {
			return nil, fmt.Errorf("menu item without id")
		}
		if _, dup := seen[si.ID]; dup {
			return nil, fmt.Errorf("duplicate menu item %q", si.ID)
		}
		seen[si.ID] = struct{}{}

		if !si.Category.Valid() {
			return nil, fmt.Errorf("menu item %q: unknown category %q", si.ID, si.Category)
		}
		if si.BasePrice.IsNegative() {
			return nil, fmt.Errorf("menu item %q: negative base price", si.ID)
		}

		item := domain.MenuItem{
			ID:              si.ID,
			Name:            si.Name,
			Description:     si.Description,
			Category:        si.Category,
			BasePrice:       si.BasePrice,
			Images:          si.Images,
			IsAvailable:     si.IsAvailable,
			PreparationTime: si.PreparationTime,
			Tags:            si.Tags,
		}

		for _, id := range si.Pasta {
			o, err := ref(opts, "pasta", si.ID, id)
			if err != nil {
				return nil, err
			}
			item.AllowedPasta = append(item.AllowedPasta, domain.PastaOption{
				ID: o.ID, Name: o.Name, Description: o.Description, Weight: o.Weight,
				PriceAdjustment: o.PriceAdjustment, IsAvailable: o.IsAvailable,
			})
		}
		for _, id := range si.Sizes {
			o, err := ref(opts, "size", si.ID, id)
			if err != nil {
				return nil, err
			}
			item.AllowedSizes = append(item.AllowedSizes, domain.SizeOption{
				ID: o.ID, Name: o.Name, Description: o.Description, Weight: o.Weight,
				PriceAdjustment: o.PriceAdjustment, IsAvailable: o.IsAvailable,
			})
		}
		for _, id := range si.Sauces {
			o, err := ref(opts, "sauce", si.ID, id)
			if err != nil {
				return nil, err
			}
			item.AllowedSauces = append(item.AllowedSauces, domain.SauceOption{
				ID: o.ID, Name: o.Name, Description: o.Description, Weight: o.Weight,
				Price: o.Price, IsAvailable: o.IsAvailable,
			})
		}
		for _, id := range si.AddOns {
			o, err := ref(opts, "add-on", si.ID, id)
			if err != nil {
				return nil, err
			}
			item.AllowedAddOns = append(item.AllowedAddOns, domain.AddOnOption{
				ID: o.ID, Name: o.Name, Description: o.Description, Weight: o.Weight,
				Price: o.Price, IsAvailable: o.IsAvailable,
			})
		}
		for _, id := range si.Extras {
			o, err := ref(opts, "extra", si.ID, id)
			if err != nil {
				return nil, err
			}
			item.AllowedExtras = append(item.AllowedExtras, domain.ExtraOption{
				ID: o.ID, Name: o.Name, Description: o.Description,
				Price: o.Price, IsAvailable: o.IsAvailable,
			})
		}

		items = append(items, item)
	}

	return items, nil
}

func index(opts []seedOption) map[string]seedOption {
	m := make(map[string]seedOption, len(opts))
	for _, o := range opts {
		m[o.ID] = o
	}
	return m
}

func ref(opts map[string]map[string]seedOption, kind, itemID, optID string) (seedOption, error) {
	o, ok := opts[kind][optID]
	if !ok {
		return seedOption{}, fmt.Errorf("menu item %q: unknown %s option %q", itemID, kind, optID)
	}
	return o, nil
}
