// cmd/seeder/products.go
package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/catalog-be/internal/core/domain"
)

// Header names recognised in the first row of a products sheet. Matching is
// case-insensitive and column order is free.
const (
	colName        = "name"
	colCategory    = "category"
	colSubcategory = "subcategory"
	colBrand       = "brand"
	colColor       = "color"
	colGender      = "gender"
	colSeason      = "season"
	colTeam        = "team"
	colCountry     = "country"
	colPlayerType  = "playertype"
	colPrice       = "price"
	colDescription = "description"
	colImages      = "images"
	colInventory   = "inventory"
)

var errNoProducts = errors.New("products file has no product rows")

// readProducts parses the first sheet of f. Inventory cells look like
// "S:5,M:10,L:3" and also define the size list; images are separated by "|".
func readProducts(f *xlsx.File) ([]*domain.Product, error) {
	if len(f.Sheets) == 0 {
		return nil, errNoProducts
	}
	sheet := f.Sheets[0]

	header := make(map[string]int)
	for c := 0; c < sheet.MaxCol; c++ {
		cell, err := sheet.Cell(0, c)
		if err != nil {
			return nil, fmt.Errorf("failed to read header: %w", err)
		}
		if name := strings.ToLower(strings.TrimSpace(cell.Value)); name != "" {
			header[name] = c
		}
	}
	for _, required := range []string{colName, colPrice, colInventory} {
		if _, ok := header[required]; !ok {
			return nil, fmt.Errorf("missing %q column", required)
		}
	}

	var products []*domain.Product
	for r := 1; r < sheet.MaxRow; r++ {
		value := func(col string) string {
			c, ok := header[col]
			if !ok {
				return ""
			}
			cell, err := sheet.Cell(r, c)
			if err != nil {
				return ""
			}
			return strings.TrimSpace(cell.Value)
		}

		name := value(colName)
		if name == "" {
			continue
		}

		price, err := decimal.NewFromString(value(colPrice))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid price %q", r+1, value(colPrice))
		}
		sizes, inventory, err := parseInventory(value(colInventory))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", r+1, err)
		}

		products = append(products, &domain.Product{
			Name:        name,
			Category:    domain.Category(strings.ToLower(value(colCategory))),
			Subcategory: value(colSubcategory),
			Brand:       value(colBrand),
			Color:       value(colColor),
			Gender:      domain.Gender(strings.ToLower(value(colGender))),
			Season:      domain.Season(strings.ToLower(value(colSeason))),
			Team:        value(colTeam),
			Country:     value(colCountry),
			PlayerType:  domain.PlayerType(strings.ToLower(value(colPlayerType))),
			Price:       price,
			Description: value(colDescription),
			Images:      splitList(value(colImages), "|"),
			Sizes:       sizes,
			Inventory:   inventory,
		})
	}

	if len(products) == 0 {
		return nil, errNoProducts
	}
	return products, nil
}

func parseInventory(raw string) ([]string, map[string]int, error) {
	var sizes []string
	inventory := make(map[string]int)
	for _, entry := range splitList(raw, ",") {
		size, qty, ok := strings.Cut(entry, ":")
		size = strings.TrimSpace(size)
		if !ok || size == "" {
			return nil, nil, fmt.Errorf("invalid inventory entry %q", entry)
		}
		n, err := strconv.Atoi(strings.TrimSpace(qty))
		if err != nil {
			return nil, nil, fmt.Errorf("invalid quantity for size %s", size)
		}
		if _, seen := inventory[size]; !seen {
			sizes = append(sizes, size)
		}
		inventory[size] = n
	}
	return sizes, inventory, nil
}

func splitList(raw, sep string) []string {
	var out []string
	for _, part := range strings.Split(raw, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func mustPrice(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
