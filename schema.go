package creatorconnect

import (
	"context"

	"github.com/uptrace/bun"
)

var categorySeeds = []*Category{
	{Slug: "beauty", Name: "Beauty"},
	{Slug: "fashion", Name: "Fashion"},
	{Slug: "fitness", Name: "Fitness"},
	{Slug: "food-drink", Name: "Food & Drink"},
	{Slug: "gaming", Name: "Gaming"},
	{Slug: "lifestyle", Name: "Lifestyle"},
	{Slug: "music", Name: "Music"},
	{Slug: "tech", Name: "Tech"},
	{Slug: "travel", Name: "Travel"},
}

// SetupSchema creates the application tables and seeds reference data
func SetupSchema(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*Account)(nil),
		(*CreatorProfile)(nil),
		(*BrandProfile)(nil),
		(*Category)(nil),
	}

	for _, model := range models {
		if _, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}
	}

	return seedCategories(ctx, db)
}

func seedCategories(ctx context.Context, db *bun.DB) error {
	seeds := make([]*Category, 0, len(categorySeeds))
	for _, seed := range categorySeeds {
		record := *seed
		prepareCategoryDefaults(&record)
		seeds = append(seeds, &record)
	}

	_, err := db.NewInsert().
		Model(&seeds).
		On("CONFLICT (slug) DO NOTHING").
		Exec(ctx)

	return err
}
