package migrations

import (
	"context"

	"github.com/uptrace/bun"

	"topic-quiz-service/internal/infra/sqlstore"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
				if _, err := tx.NewCreateTable().
					Model((*sqlstore.CategoryModel)(nil)).
					IfNotExists().
					Exec(ctx); err != nil {
					return err
				}
				if _, err := tx.NewCreateTable().
					Model((*sqlstore.TopicModel)(nil)).
					IfNotExists().
					ForeignKey(`("category_id") REFERENCES "categories" ("id")`).
					Exec(ctx); err != nil {
					return err
				}
				if _, err := tx.NewCreateTable().
					Model((*sqlstore.QuestionModel)(nil)).
					IfNotExists().
					ForeignKey(`("topic_id") REFERENCES "topics" ("id") ON DELETE CASCADE`).
					Exec(ctx); err != nil {
					return err
				}
				if _, err := tx.NewCreateIndex().
					Model((*sqlstore.QuestionModel)(nil)).
					Index("questions_topic_created_idx").
					IfNotExists().
					Column("topic_id", "created_at").
					Exec(ctx); err != nil {
					return err
				}
				_, err := tx.NewCreateTable().
					Model((*sqlstore.ResultModel)(nil)).
					IfNotExists().
					Exec(ctx)
				return err
			})
		},
		func(ctx context.Context, db *bun.DB) error {
			models := []interface{}{
				(*sqlstore.ResultModel)(nil),
				(*sqlstore.QuestionModel)(nil),
				(*sqlstore.TopicModel)(nil),
				(*sqlstore.CategoryModel)(nil),
			}
			for _, model := range models {
				if _, err := db.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
					return err
				}
			}
			return nil
		},
	)
}
