// internal/core/domain/product.go
package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Category represents the product category
type Category string

const (
	CategoryFootball    Category = "football"
	CategoryCasual      Category = "casual"
	CategoryFormal      Category = "formal"
	CategorySportswear  Category = "sportswear"
	CategoryAccessories Category = "accessories"
)

// IsValid reports whether c is a known category.
func (c Category) IsValid() bool {
	switch c {
	case CategoryFootball, CategoryCasual, CategoryFormal, CategorySportswear, CategoryAccessories:
		return true
	}
	return false
}

// Season represents the season a product is intended for
type Season string

const (
	SeasonSpring    Season = "spring"
	SeasonSummer    Season = "summer"
	SeasonFall      Season = "fall"
	SeasonWinter    Season = "winter"
	SeasonAllSeason Season = "all-season"
)

// IsValid reports whether s is a known season.
func (s Season) IsValid() bool {
	switch s {
	case SeasonSpring, SeasonSummer, SeasonFall, SeasonWinter, SeasonAllSeason:
		return true
	}
	return false
}

// Gender represents the target audience
type Gender string

const (
	GenderMen    Gender = "men"
	GenderWomen  Gender = "women"
	GenderUnisex Gender = "unisex"
	GenderKids   Gender = "kids"
)

// IsValid reports whether g is a known gender.
func (g Gender) IsValid() bool {
	switch g {
	case GenderMen, GenderWomen, GenderUnisex, GenderKids:
		return true
	}
	return false
}

// PlayerType distinguishes fan and player cut football shirts
type PlayerType string

const (
	PlayerTypeFan     PlayerType = "fan"
	PlayerTypePlayer  PlayerType = "player"
	PlayerTypeJugador PlayerType = "jugador"
)

// IsValid reports whether p is a known player type.
func (p PlayerType) IsValid() bool {
	switch p {
	case PlayerTypeFan, PlayerTypePlayer, PlayerTypeJugador:
		return true
	}
	return false
}

// Product represents a clothing item in the catalog
type Product struct {
	ID          string          `json:"id,omitempty"`
	Name        string          `json:"name"`
	Category    Category        `json:"category"`
	Subcategory string          `json:"subcategory"`
	Brand       string          `json:"brand,omitempty"`
	Color       string          `json:"color"`
	Material    string          `json:"material,omitempty"`
	Season      Season          `json:"season,omitempty"`
	Gender      Gender          `json:"gender"`
	Team        string          `json:"team,omitempty"`
	Country     string          `json:"country,omitempty"`
	PlayerType  PlayerType      `json:"playerType,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
	Images      []string        `json:"images"`
	Sizes       []string        `json:"sizes"`
	Inventory   map[string]int  `json:"inventory"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Validate applies the admin form rules and fills defaults
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return Validationf("name is required")
	}
	if !p.Category.IsValid() {
		return Validationf("invalid category %q", p.Category)
	}
	if strings.TrimSpace(p.Subcategory) == "" {
		return Validationf("subcategory is required")
	}
	if strings.TrimSpace(p.Color) == "" {
		return Validationf("color is required")
	}
	if !p.Gender.IsValid() {
		return Validationf("invalid gender %q", p.Gender)
	}
	if p.Season == "" {
		p.Season = SeasonAllSeason
	}
	if !p.Season.IsValid() {
		return Validationf("invalid season %q", p.Season)
	}
	if p.PlayerType != "" && !p.PlayerType.IsValid() {
		return Validationf("invalid player type %q", p.PlayerType)
	}
	if p.Price.IsNegative() {
		return Validationf("price cannot be negative")
	}
	if len(p.Images) == 0 {
		return Validationf("at least one image is required")
	}
	if len(p.Sizes) == 0 {
		return Validationf("at least one size is required")
	}

	sizes := make(map[string]bool, len(p.Sizes))
	for _, s := range p.Sizes {
		sizes[s] = true
	}
	for size, qty := range p.Inventory {
		if !sizes[size] {
			return Validationf("inventory size %q is not in sizes", size)
		}
		if qty < 0 {
			return Validationf("stock for size %q cannot be negative", size)
		}
	}
	if p.TotalStock() == 0 {
		return Validationf("at least one size must have stock")
	}

	return nil
}

// StockFor returns the units held for a size, 0 when the size is unknown.
func (p *Product) StockFor(size string) int {
	return p.Inventory[size]
}

// TotalStock sums the inventory across all sizes.
func (p *Product) TotalStock() int {
	total := 0
	for _, qty := range p.Inventory {
		total += qty
	}
	return total
}

// SizesInStock lists sizes with stock, in the order of Sizes.
func (p *Product) SizesInStock() []string {
	var out []string
	for _, s := range p.Sizes {
		if p.Inventory[s] > 0 {
			out = append(out, s)
		}
	}
	return out
}

// HasStock reports whether qty units of size are available.
func (p *Product) HasStock(size string, qty int) bool {
	return p.StockFor(size) >= qty
}

// ToDocument maps the product to its stored shape. Id and created_at are left
// to the store. Empty optional fields are omitted.
func (p *Product) ToDocument() Document {
	return p.document(false)
}

// ReplacementDocument is ToDocument with empty optional fields written as "",
// so a merge update clears them.
func (p *Product) ReplacementDocument() Document {
	return p.document(true)
}

func (p *Product) document(keepEmpty bool) Document {
	inventory := make(map[string]any, len(p.Inventory))
	for size, qty := range p.Inventory {
		inventory[size] = qty
	}

	doc := Document{
		"name":        p.Name,
		"category":    string(p.Category),
		"subcategory": p.Subcategory,
		"color":       p.Color,
		"season":      string(p.Season),
		"gender":      string(p.Gender),
		"price":       p.Price.InexactFloat64(),
		"images":      stringsToAny(p.Images),
		"sizes":       stringsToAny(p.Sizes),
		"inventory":   inventory,
	}

	optional := map[string]string{
		"brand":       p.Brand,
		"material":    p.Material,
		"team":        p.Team,
		"country":     p.Country,
		"playerType":  string(p.PlayerType),
		"description": p.Description,
	}
	for k, v := range optional {
		if v != "" || keepEmpty {
			doc[k] = v
		}
	}

	return doc
}

// ProductFromDocument decodes a normalized document.
func ProductFromDocument(d Document) (*Product, error) {
	var p Product
	createdAt, err := decodeRecord(d, &p)
	if err != nil {
		return nil, err
	}
	p.CreatedAt = createdAt
	if p.Inventory == nil {
		p.Inventory = map[string]int{}
	}
	return &p, nil
}

func stringsToAny(in []string) []any {
	out := make([]any, 0, len(in))
	for _, s := range in {
		out = append(out, s)
	}
	return out
}
