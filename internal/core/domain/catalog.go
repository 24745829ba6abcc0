// internal/core/domain/catalog.go
package domain

import (
	"sort"
	"strings"
)

// Facets lists the distinct values offered as catalog filters.
type Facets struct {
	Categories    []string `json:"categories"`
	Subcategories []string `json:"subcategories"`
	Brands        []string `json:"brands"`
	Colors        []string `json:"colors"`
	Genders       []string `json:"genders"`
	Sizes         []string `json:"sizes"`
}

// BuildFacets collects sorted distinct values across products.
func BuildFacets(products []*Product) *Facets {
	sets := map[string]map[string]struct{}{}
	add := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			return
		}
		if sets[name] == nil {
			sets[name] = map[string]struct{}{}
		}
		sets[name][value] = struct{}{}
	}

	for _, p := range products {
		add("category", string(p.Category))
		add("subcategory", p.Subcategory)
		add("brand", p.Brand)
		add("color", p.Color)
		add("gender", string(p.Gender))
		for _, s := range p.Sizes {
			add("size", s)
		}
	}

	sorted := func(name string) []string {
		out := make([]string, 0, len(sets[name]))
		for v := range sets[name] {
			out = append(out, v)
		}
		sort.Strings(out)
		return out
	}

	return &Facets{
		Categories:    sorted("category"),
		Subcategories: sorted("subcategory"),
		Brands:        sorted("brand"),
		Colors:        sorted("color"),
		Genders:       sorted("gender"),
		Sizes:         sorted("size"),
	}
}
