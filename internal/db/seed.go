package db

import (
	"context"
	"fmt"

	"github.com/diewo77/go-crm/internal/models"
	"github.com/diewo77/go-crm/internal/store"
	"github.com/shopspring/decimal"
)

// DemoArticles is the catalogue inserted by Seed.
func DemoArticles() []models.Article {
	return []models.Article{
		{
			Name:             "Consulting hour",
			ShortDescription: "On-site or remote consulting, billed per hour",
			UnitPrice:        decimal.NewFromInt(100),
			VATRate:          decimal.NewFromInt(21),
			DiscountRate:     decimal.Zero,
			Unit:             "hour",
		},
		{
			Name:              "Network cable 5m",
			ShortDescription:  "Cat6 patch cable, five metres",
			UnitPrice:         decimal.RequireFromString("8.50"),
			VATRate:           decimal.NewFromInt(21),
			DiscountRate:      decimal.Zero,
			Unit:              "piece",
			WarehouseLocation: "A-01-03",
		},
		{
			Name:             "Maintenance plan",
			ShortDescription: "Monthly preventive maintenance subscription",
			UnitPrice:        decimal.NewFromInt(50),
			VATRate:          decimal.NewFromInt(9),
			DiscountRate:     decimal.NewFromInt(10),
			Unit:             "month",
		},
	}
}

// Seed inserts the demo articles that are not present yet, matched by name.
// It works against any article store and returns how many were created.
func Seed(ctx context.Context, articles store.ArticleStore) (int, error) {
	existing, err := articles.ListArticles(ctx)
	if err != nil {
		return 0, fmt.Errorf("list articles: %w", err)
	}
	names := make(map[string]bool, len(existing))
	for _, a := range existing {
		names[a.Name] = true
	}
	created := 0
	for _, a := range DemoArticles() {
		if names[a.Name] {
			continue
		}
		if err := articles.CreateArticle(ctx, &a); err != nil {
			return created, fmt.Errorf("seed article %q: %w", a.Name, err)
		}
		created++
	}
	return created, nil
}
