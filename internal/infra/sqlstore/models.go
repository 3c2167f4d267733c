package sqlstore

import (
	"time"

	"github.com/uptrace/bun"

	"topic-quiz-service/internal/domain"
)

// Table models. Migrations create tables from these definitions, so a
// column change here needs a new migration.

type CategoryModel struct {
	bun.BaseModel `bun:"table:categories,alias:c"`

	ID          int64  `bun:"id,pk,autoincrement"`
	Slug        string `bun:"slug,notnull,unique"`
	Name        string `bun:"name,notnull"`
	Description string `bun:"description"`
}

type TopicModel struct {
	bun.BaseModel `bun:"table:topics,alias:t"`

	ID          int64     `bun:"id,pk,autoincrement"`
	CategoryID  int64     `bun:"category_id,notnull"`
	Name        string    `bun:"name,notnull"`
	Description string    `bun:"description"`
	Logo        string    `bun:"logo"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
}

type QuestionModel struct {
	bun.BaseModel `bun:"table:questions,alias:q"`

	ID            int64     `bun:"id,pk,autoincrement"`
	TopicID       int64     `bun:"topic_id,notnull"`
	Question      string    `bun:"question,notnull"`
	AnswerA       string    `bun:"answer_a,notnull"`
	AnswerB       string    `bun:"answer_b,notnull"`
	AnswerC       string    `bun:"answer_c,notnull"`
	AnswerD       string    `bun:"answer_d,notnull"`
	CorrectAnswer string    `bun:"correct_answer,notnull"`
	TimeLimit     int       `bun:"time_limit,notnull"`
	CreatedAt     time.Time `bun:"created_at,notnull"`
}

// ResultModel rows live in quiz_sessions: one row per finished attempt.
type ResultModel struct {
	bun.BaseModel `bun:"table:quiz_sessions,alias:r"`

	ID              int64     `bun:"id,pk,autoincrement"`
	TopicID         int64     `bun:"topic_id,notnull"`
	TotalQuestions  int       `bun:"total_questions,notnull"`
	CorrectAnswers  int       `bun:"correct_answers,notnull"`
	ScorePercentage int       `bun:"score_percentage,notnull"`
	CreatedAt       time.Time `bun:"created_at,notnull"`
}

type topicSummaryRow struct {
	ID            int64     `bun:"id"`
	CategoryID    int64     `bun:"category_id"`
	Name          string    `bun:"name"`
	Description   string    `bun:"description"`
	Logo          string    `bun:"logo"`
	CreatedAt     time.Time `bun:"created_at"`
	CategoryName  string    `bun:"category_name"`
	QuestionCount int       `bun:"question_count"`
}

func (m CategoryModel) toDomain() domain.Category {
	return domain.Category{ID: m.ID, Slug: m.Slug, Name: m.Name, Description: m.Description}
}

func (m TopicModel) toDomain() domain.Topic {
	return domain.Topic{
		ID:          m.ID,
		CategoryID:  m.CategoryID,
		Name:        m.Name,
		Description: m.Description,
		Logo:        m.Logo,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}

func (r topicSummaryRow) toDomain() domain.TopicSummary {
	return domain.TopicSummary{
		Topic: domain.Topic{
			ID:          r.ID,
			CategoryID:  r.CategoryID,
			Name:        r.Name,
			Description: r.Description,
			Logo:        r.Logo,
			CreatedAt:   r.CreatedAt.UTC(),
		},
		CategoryName:  r.CategoryName,
		QuestionCount: r.QuestionCount,
	}
}

func questionModel(q domain.Question) QuestionModel {
	return QuestionModel{
		ID:            q.ID,
		TopicID:       q.TopicID,
		Question:      q.Prompt,
		AnswerA:       q.AnswerA,
		AnswerB:       q.AnswerB,
		AnswerC:       q.AnswerC,
		AnswerD:       q.AnswerD,
		CorrectAnswer: q.CorrectAnswer,
		TimeLimit:     q.TimeLimit,
		CreatedAt:     q.CreatedAt,
	}
}

func (m QuestionModel) toDomain() domain.Question {
	return domain.Question{
		ID:            m.ID,
		TopicID:       m.TopicID,
		Prompt:        m.Question,
		AnswerA:       m.AnswerA,
		AnswerB:       m.AnswerB,
		AnswerC:       m.AnswerC,
		AnswerD:       m.AnswerD,
		CorrectAnswer: m.CorrectAnswer,
		TimeLimit:     m.TimeLimit,
		CreatedAt:     m.CreatedAt.UTC(),
	}
}

func (m ResultModel) toDomain() domain.QuizResult {
	return domain.QuizResult{
		ID:              m.ID,
		TopicID:         m.TopicID,
		TotalQuestions:  m.TotalQuestions,
		CorrectAnswers:  m.CorrectAnswers,
		ScorePercentage: m.ScorePercentage,
		CreatedAt:       m.CreatedAt.UTC(),
	}
}
