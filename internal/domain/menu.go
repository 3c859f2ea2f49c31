package domain

import "github.com/shopspring/decimal"

type Category string

const (
	CategoryMassas          Category = "massas"
	CategoryRisotos         Category = "risotos"
	CategoryCarnes          Category = "carnes"
	CategorySaladas         Category = "saladas"
	CategorySobremesas      Category = "sobremesas"
	CategoryBebidas         Category = "bebidas"
	CategoryAcompanhamentos Category = "acompanhamentos"
)

var categories = []Category{
	CategoryMassas,
	CategoryRisotos,
	CategoryCarnes,
	CategorySaladas,
	CategorySobremesas,
	CategoryBebidas,
	CategoryAcompanhamentos,
}

// Categories returns the menu categories in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// Size names used by the reference menu. SizeOption.Name is not limited to these.
const (
	SizeJunior = "Junior"
	SizeAdulto = "Adulto"
)

type PastaOption struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	Weight          string          `json:"weight,omitempty"`
	PriceAdjustment decimal.Decimal `json:"price_adjustment"`
	IsAvailable     bool            `json:"is_available"`
}

type SizeOption struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	Weight          string          `json:"weight,omitempty"`
	PriceAdjustment decimal.Decimal `json:"price_adjustment"`
	IsAvailable     bool            `json:"is_available"`
}

type SauceOption struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Weight      string          `json:"weight,omitempty"`
	Price       decimal.Decimal `json:"price"`
	IsAvailable bool            `json:"is_available"`
}

type AddOnOption struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Weight      string          `json:"weight,omitempty"`
	Price       decimal.Decimal `json:"price"`
	IsAvailable bool            `json:"is_available"`
}

type ExtraOption struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	IsAvailable bool            `json:"is_available"`
}

// MenuItem is a dish as published by the catalog. Items are read-only once loaded.
type MenuItem struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Category        Category        `json:"category"`
	BasePrice       decimal.Decimal `json:"base_price"`
	Images          []string        `json:"images"`
	IsAvailable     bool            `json:"is_available"`
	PreparationTime int             `json:"preparation_time"`
	Tags            []string        `json:"tags,omitempty"`

	AllowedPasta  []PastaOption `json:"allowed_pasta,omitempty"`
	AllowedSizes  []SizeOption  `json:"allowed_sizes,omitempty"`
	AllowedSauces []SauceOption `json:"allowed_sauces,omitempty"`
	AllowedAddOns []AddOnOption `json:"allowed_add_ons,omitempty"`
	AllowedExtras []ExtraOption `json:"allowed_extras,omitempty"`
}

// HasOptions reports whether the item offers anything to customize beyond the default size.
func (m MenuItem) HasOptions() bool {
	return len(m.AllowedPasta) > 0 || len(m.AllowedSizes) > 0 || len(m.AllowedSauces) > 0 ||
		len(m.AllowedAddOns) > 0 || len(m.AllowedExtras) > 0
}
