package migrations

import (
	"context"

	"github.com/uptrace/bun"

	"topic-quiz-service/internal/domain"
	"topic-quiz-service/internal/infra/sqlstore"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			rows := make([]sqlstore.CategoryModel, 0, len(domain.SeedCategories))
			for _, c := range domain.SeedCategories {
				rows = append(rows, sqlstore.CategoryModel{
					ID:          c.ID,
					Slug:        c.Slug,
					Name:        c.Name,
					Description: c.Description,
				})
			}
			_, err := db.NewInsert().Model(&rows).Exec(ctx)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			slugs := make([]string, 0, len(domain.SeedCategories))
			for _, c := range domain.SeedCategories {
				slugs = append(slugs, c.Slug)
			}
			_, err := db.NewDelete().
				Model((*sqlstore.CategoryModel)(nil)).
				Where("slug IN (?)", bun.In(slugs)).
				Exec(ctx)
			return err
		},
	)
}
