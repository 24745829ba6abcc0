// cmd/seeder/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/catalog-be/internal/adapters/docstore"
	"github.com/ammerola/catalog-be/internal/core/domain"
	"github.com/ammerola/catalog-be/internal/core/ports"
	"github.com/ammerola/catalog-be/internal/core/services"
	"github.com/ammerola/catalog-be/internal/pkg/config"
	"github.com/ammerola/catalog-be/internal/pkg/logger"
)

func main() {
	var (
		productsFile = flag.String("products", "", "Excel file with one product per row (built-in samples when empty)")
		driver       = flag.String("driver", "", "Override STORE_DRIVER (mongo, postgres, memory, http)")
		logLevel     = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
		dryRun       = flag.Bool("dry-run", false, "Validate products without writing them")
		force        = flag.Bool("force", false, "Insert products even when one with the same name exists")
	)
	flag.Parse()

	slogger := logger.SetupLogger(*logLevel, "text")

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *driver != "" {
		cfg.Store.Driver = strings.ToLower(*driver)
	}

	products := sampleProducts()
	if *productsFile != "" {
		f, err := xlsx.OpenFile(*productsFile)
		if err != nil {
			slogger.Error("failed to open products file", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if products, err = readProducts(f); err != nil {
			slogger.Error("failed to read products file", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	ctx := context.Background()

	if *dryRun {
		invalid := 0
		for _, p := range products {
			if err := p.Validate(); err != nil {
				invalid++
				fmt.Printf("INVALID: %s - %v\n", p.Name, err)
			}
		}
		fmt.Printf("\n[DRY RUN] %d products read, %d invalid. No changes were made\n", len(products), invalid)
		return
	}

	store, err := docstore.Open(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to open document store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			slogger.Error("failed to close document store", slog.String("error", err.Error()))
		}
	}()

	docs := services.NewDocumentService(store, cfg.Store.Collections, slogger)
	catalog := services.NewCatalogService(docs, nil, 0, slogger)

	result := seed(ctx, docs, catalog, products, *force, slogger)

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("SEED SUMMARY")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Products created: %d\n", len(result.Created))
	fmt.Printf("Products skipped: %d\n", len(result.Skipped))
	if len(result.Failed) > 0 {
		fmt.Printf("\nFailed products (%d):\n", len(result.Failed))
		for name, reason := range result.Failed {
			fmt.Printf("  - %s: %s\n", name, reason)
		}
	}

	slogger.Info("seed operation completed",
		slog.Int("created", len(result.Created)),
		slog.Int("skipped", len(result.Skipped)),
		slog.Int("failed", len(result.Failed)))

	if len(result.Failed) > 0 {
		os.Exit(1)
	}
}

type seedResult struct {
	Created []string
	Skipped []string
	Failed  map[string]string
}

// seed creates every product not already present by name
func seed(ctx context.Context, docs ports.DocumentService, catalog ports.CatalogService,
	products []*domain.Product, force bool, logger *slog.Logger) seedResult {
	result := seedResult{Failed: make(map[string]string)}

	for _, p := range products {
		if !force {
			existing, err := docs.List(ctx, domain.CollectionProducts, url.Values{"name": {p.Name}, "limit": {"1"}})
			if err != nil {
				result.Failed[p.Name] = err.Error()
				continue
			}
			if len(existing) > 0 {
				logger.Info("skipping existing product", slog.String("name", p.Name))
				result.Skipped = append(result.Skipped, p.Name)
				continue
			}
		}

		created, err := catalog.CreateProduct(ctx, p)
		if err != nil {
			logger.Error("failed to create product",
				slog.String("name", p.Name),
				slog.String("error", err.Error()))
			result.Failed[p.Name] = err.Error()
			continue
		}

		fmt.Printf("SUCCESS: %s (%s) - %d units\n", created.Name, created.ID, created.TotalStock())
		result.Created = append(result.Created, created.ID)
	}

	return result
}

// sampleProducts is the catalog loaded when no products file is given
func sampleProducts() []*domain.Product {
	return []*domain.Product{
		{
			Name:        "Camiseta de Prueba",
			Category:    domain.CategoryFootball,
			Subcategory: "camisetas",
			Brand:       "Adidas",
			Color:       "blanco",
			Season:      domain.SeasonAllSeason,
			Gender:      domain.GenderUnisex,
			Team:        "Real Madrid",
			Country:     "España",
			PlayerType:  domain.PlayerTypeFan,
			Price:       mustPrice("150"),
			Description: "Camiseta oficial de local",
			Images:      []string{"https://images.example/camiseta.jpg"},
			Sizes:       []string{"S", "M", "L"},
			Inventory:   map[string]int{"S": 5, "M": 10, "L": 3},
		},
		{
			Name:        "Buzo Canguro",
			Category:    domain.CategoryCasual,
			Subcategory: "buzos",
			Brand:       "Nike",
			Color:       "gris",
			Season:      domain.SeasonWinter,
			Gender:      domain.GenderMen,
			Price:       mustPrice("420.50"),
			Images:      []string{"https://images.example/buzo.jpg"},
			Sizes:       []string{"M", "L", "XL"},
			Inventory:   map[string]int{"M": 4, "L": 2, "XL": 0},
		},
		{
			Name:        "Camiseta Alternativa",
			Category:    domain.CategoryFootball,
			Subcategory: "camisetas",
			Brand:       "Puma",
			Color:       "azul",
			Season:      domain.SeasonSummer,
			Gender:      domain.GenderWomen,
			Team:        "Boca Juniors",
			Country:     "Argentina",
			PlayerType:  domain.PlayerTypeJugador,
			Price:       mustPrice("185"),
			Images:      []string{"https://images.example/alternativa.jpg"},
			Sizes:       []string{"XS", "S", "M"},
			Inventory:   map[string]int{"XS": 1, "S": 3, "M": 2},
		},
	}
}
