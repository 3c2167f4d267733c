package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"topic-quiz-service/internal/domain"
)

// QuestionLoader reads a topic's questions straight from Postgres. It is the
// play-path QuestionSource when a database is configured; catalog writes go
// through the bun store.
type QuestionLoader struct {
	pool *pgxpool.Pool
}

func NewQuestionLoader(pool *pgxpool.Pool) *QuestionLoader {
	return &QuestionLoader{pool: pool}
}

const listByTopicSQL = `SELECT id, topic_id, question, answer_a, answer_b, answer_c, answer_d,
	correct_answer, time_limit, created_at
FROM questions
WHERE topic_id = $1
ORDER BY created_at ASC, id ASC`

func (l *QuestionLoader) ListByTopic(ctx context.Context, topicID int64) ([]domain.Question, error) {
	rows, err := l.pool.Query(ctx, listByTopicSQL, topicID)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	questions := []domain.Question{}
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(
			&q.ID, &q.TopicID, &q.Prompt,
			&q.AnswerA, &q.AnswerB, &q.AnswerC, &q.AnswerD,
			&q.CorrectAnswer, &q.TimeLimit, &q.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		q.CreatedAt = q.CreatedAt.UTC()
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	return questions, nil
}
