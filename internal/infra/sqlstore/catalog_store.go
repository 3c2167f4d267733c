package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"topic-quiz-service/internal/domain"
)

// CatalogStore implements app.CatalogStore on top of bun. It works with
// both the Postgres and the sqlite dialect.
type CatalogStore struct {
	db    *bun.DB
	clock func() time.Time
}

func NewCatalogStore(db *bun.DB) *CatalogStore {
	return &CatalogStore{db: db, clock: time.Now}
}

func (s *CatalogStore) now() time.Time {
	return s.clock().UTC()
}

func (s *CatalogStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var rows []CategoryModel
	if err := s.db.NewSelect().Model(&rows).Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make([]domain.Category, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (s *CatalogStore) CategoryExists(ctx context.Context, categoryID int64) (bool, error) {
	ok, err := s.db.NewSelect().Model((*CategoryModel)(nil)).Where("id = ?", categoryID).Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("check category: %w", err)
	}
	return ok, nil
}

func (s *CatalogStore) ListTopicsByCategory(ctx context.Context, slug string) ([]domain.TopicSummary, error) {
	var rows []topicSummaryRow
	err := s.db.NewSelect().
		TableExpr("topics AS t").
		Join("JOIN categories AS c ON c.id = t.category_id").
		ColumnExpr("t.id, t.category_id, t.name, t.description, t.logo, t.created_at").
		ColumnExpr("c.name AS category_name").
		ColumnExpr("(SELECT COUNT(*) FROM questions AS q WHERE q.topic_id = t.id) AS question_count").
		Where("c.slug = ?", slug).
		OrderExpr("t.id ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	out := make([]domain.TopicSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (s *CatalogStore) GetTopic(ctx context.Context, topicID int64) (domain.Topic, error) {
	var row TopicModel
	err := s.db.NewSelect().Model(&row).Where("id = ?", topicID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Topic{}, domain.ErrTopicNotFound
	}
	if err != nil {
		return domain.Topic{}, fmt.Errorf("get topic: %w", err)
	}
	return row.toDomain(), nil
}

func (s *CatalogStore) CreateTopic(ctx context.Context, topic domain.Topic) (int64, error) {
	row := TopicModel{
		CategoryID:  topic.CategoryID,
		Name:        topic.Name,
		Description: topic.Description,
		Logo:        topic.Logo,
		CreatedAt:   s.now(),
	}
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return 0, fmt.Errorf("create topic: %w", err)
	}
	return row.ID, nil
}

func (s *CatalogStore) UpdateTopic(ctx context.Context, topic domain.Topic) error {
	row := TopicModel{ID: topic.ID, Name: topic.Name, Description: topic.Description, Logo: topic.Logo}
	res, err := s.db.NewUpdate().
		Model(&row).
		Column("name", "description", "logo").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update topic: %w", err)
	}
	return affected(res, domain.ErrTopicNotFound)
}

// DeleteTopic removes the topic and its questions in one transaction.
// Recorded results are kept.
func (s *CatalogStore) DeleteTopic(ctx context.Context, topicID int64) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*QuestionModel)(nil)).Where("topic_id = ?", topicID).Exec(ctx); err != nil {
			return fmt.Errorf("delete topic questions: %w", err)
		}
		res, err := tx.NewDelete().Model((*TopicModel)(nil)).Where("id = ?", topicID).Exec(ctx)
		if err != nil {
			return fmt.Errorf("delete topic: %w", err)
		}
		return affected(res, domain.ErrTopicNotFound)
	})
}

// ListByTopic returns a topic's questions oldest first.
func (s *CatalogStore) ListByTopic(ctx context.Context, topicID int64) ([]domain.Question, error) {
	var rows []QuestionModel
	err := s.db.NewSelect().
		Model(&rows).
		Where("topic_id = ?", topicID).
		Order("created_at ASC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	out := make([]domain.Question, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (s *CatalogStore) GetQuestion(ctx context.Context, questionID int64) (domain.Question, error) {
	var row QuestionModel
	err := s.db.NewSelect().Model(&row).Where("id = ?", questionID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	if err != nil {
		return domain.Question{}, fmt.Errorf("get question: %w", err)
	}
	return row.toDomain(), nil
}

func (s *CatalogStore) CreateQuestion(ctx context.Context, question domain.Question) (int64, error) {
	row := questionModel(question)
	row.ID = 0
	row.CreatedAt = s.now()
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return 0, fmt.Errorf("create question: %w", err)
	}
	return row.ID, nil
}

func (s *CatalogStore) UpdateQuestion(ctx context.Context, question domain.Question) error {
	row := questionModel(question)
	res, err := s.db.NewUpdate().
		Model(&row).
		Column("question", "answer_a", "answer_b", "answer_c", "answer_d", "correct_answer", "time_limit").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update question: %w", err)
	}
	return affected(res, domain.ErrQuestionNotFound)
}

func (s *CatalogStore) DeleteQuestion(ctx context.Context, questionID int64) error {
	res, err := s.db.NewDelete().Model((*QuestionModel)(nil)).Where("id = ?", questionID).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	return affected(res, domain.ErrQuestionNotFound)
}

// Record stores a finished attempt in quiz_sessions.
func (s *CatalogStore) Record(ctx context.Context, result domain.QuizResult) error {
	row := ResultModel{
		TopicID:         result.TopicID,
		TotalQuestions:  result.TotalQuestions,
		CorrectAnswers:  result.CorrectAnswers,
		ScorePercentage: result.ScorePercentage,
		CreatedAt:       s.now(),
	}
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return fmt.Errorf("insert quiz result: %w", err)
	}
	return nil
}

// ListResults returns a topic's results newest first; limit <= 0 means all.
func (s *CatalogStore) ListResults(ctx context.Context, topicID int64, limit int) ([]domain.QuizResult, error) {
	var rows []ResultModel
	q := s.db.NewSelect().
		Model(&rows).
		Where("topic_id = ?", topicID).
		Order("created_at DESC", "id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	out := make([]domain.QuizResult, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func affected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
