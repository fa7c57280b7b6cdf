package main

// Loads catalog items from a CSV export into Postgres.
//
// Usage:
//   go run scripts/load_catalog.go --file catalog.csv
//
// Expected columns:
//   product_name,brand,gender,category,fabric,pattern,color,price,rating_count,discount_percent

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"smartretail/internal/adapters/config"
	"smartretail/internal/adapters/postgres"
	"smartretail/internal/domain/catalog"
	pgrepo "smartretail/internal/repository/postgres"
	"smartretail/internal/services/recommendation"
)

func main() {
	file := flag.String("file", "catalog.csv", "CSV file to load")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	client, err := postgres.NewClient(cfg.Postgres)
	if err != nil {
		fmt.Printf("Error: failed to connect to postgres: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	f, err := os.Open(*file)
	if err != nil {
		fmt.Printf("Error: failed to open %s: %v\n", *file, err)
		os.Exit(1)
	}
	defer f.Close()

	repo := pgrepo.NewCatalogRepository(client.DB())
	ctx := context.Background()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		fmt.Printf("Error: failed to read header: %v\n", err)
		os.Exit(1)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}

	loaded, skipped := 0, 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Printf("Error: failed to read row: %v\n", err)
			os.Exit(1)
		}

		item, err := parseItem(cols, record)
		if err != nil {
			skipped++
			continue
		}

		if err := repo.Save(ctx, item); err != nil {
			fmt.Printf("Error: failed to save %q: %v\n", item.ProductName, err)
			os.Exit(1)
		}
		loaded++
	}

	fmt.Printf("Loaded %d items, skipped %d invalid rows\n", loaded, skipped)
	fmt.Println("Run cmd/indexer to embed the new items for recommendations")
}

func parseItem(cols map[string]int, record []string) (*catalog.Item, error) {
	get := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return record[idx]
	}

	price, err := decimal.NewFromString(get("price"))
	if err != nil {
		return nil, fmt.Errorf("invalid price: %w", err)
	}

	ratingCount, _ := strconv.Atoi(get("rating_count"))
	discount, _ := strconv.ParseFloat(get("discount_percent"), 64)

	item := &catalog.Item{
		ID:              uuid.New(),
		ProductName:     get("product_name"),
		Brand:           get("brand"),
		Gender:          get("gender"),
		Category:        get("category"),
		Fabric:          get("fabric"),
		Pattern:         get("pattern"),
		Color:           get("color"),
		Price:           price,
		RatingCount:     ratingCount,
		DiscountPercent: discount,
		CreatedAt:       time.Now().UTC(),
	}

	if item.ProductName == "" || item.Brand == "" || item.Category == "" {
		return nil, fmt.Errorf("missing required fields")
	}

	item.Document = recommendation.BuildDocument(item)
	return item, nil
}
