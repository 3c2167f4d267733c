package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// AnswerLabels lists the option slots in display order; slot index == label index.
var AnswerLabels = [4]string{"A", "B", "C", "D"}

// Timeout is the pseudo-answer recorded when a question's countdown expires.
const Timeout = -1

const (
	DefaultTimeLimit = 10 // seconds
	MinTimeLimit     = 5
	MaxTimeLimit     = 60
)

// Category is a top-level grouping of topics.
type Category struct {
	ID          int64  `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Topic is a named collection of questions under a category.
type Topic struct {
	ID          int64     `json:"id"`
	CategoryID  int64     `json:"category_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Logo        string    `json:"logo"`
	CreatedAt   time.Time `json:"created_at"`
}

// TopicSummary is a topic row as listed under its category.
type TopicSummary struct {
	Topic
	CategoryName  string `json:"category_name"`
	QuestionCount int    `json:"question_count"`
}

// Question is a four-option multiple choice question.
type Question struct {
	ID            int64     `json:"id"`
	TopicID       int64     `json:"topic_id"`
	Prompt        string    `json:"question"`
	AnswerA       string    `json:"answer_a"`
	AnswerB       string    `json:"answer_b"`
	AnswerC       string    `json:"answer_c"`
	AnswerD       string    `json:"answer_d"`
	CorrectAnswer string    `json:"correct_answer"`
	TimeLimit     int       `json:"time_limit"` // seconds, 0 means default
	CreatedAt     time.Time `json:"created_at"`
}

// Answers returns the option texts in A-D order.
func (q Question) Answers() [4]string {
	return [4]string{q.AnswerA, q.AnswerB, q.AnswerC, q.AnswerD}
}

// CorrectIndex resolves the correct label to its slot index.
func (q Question) CorrectIndex() (int, error) {
	label := strings.ToUpper(strings.TrimSpace(q.CorrectAnswer))
	for i, candidate := range AnswerLabels {
		if label == candidate {
			return i, nil
		}
	}
	return 0, fmt.Errorf("question %d: %w (got %q)", q.ID, ErrInvalidCorrectAnswer, q.CorrectAnswer)
}

// EffectiveTimeLimit returns the question limit or fallback when unset.
func (q Question) EffectiveTimeLimit(fallback int) int {
	if q.TimeLimit > 0 {
		return q.TimeLimit
	}
	if fallback > 0 {
		return fallback
	}
	return DefaultTimeLimit
}

// QuizResult is the aggregate score of one finished play-through.
type QuizResult struct {
	ID              int64     `json:"id,omitempty"`
	TopicID         int64     `json:"topic_id"`
	TotalQuestions  int       `json:"total_questions"`
	CorrectAnswers  int       `json:"correct_answers"`
	ScorePercentage int       `json:"score_percentage"`
	CreatedAt       time.Time `json:"created_at,omitempty"`
}

// NewQuizResult builds a result with the percentage rounded half-up.
func NewQuizResult(topicID int64, total, correct int) QuizResult {
	return QuizResult{
		TopicID:         topicID,
		TotalQuestions:  total,
		CorrectAnswers:  correct,
		ScorePercentage: ScorePercentage(correct, total),
	}
}

// ScorePercentage returns round(correct/total*100) as an integer in [0,100].
func ScorePercentage(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Floor(float64(correct)*100/float64(total) + 0.5))
}

// SeedCategories is the fixed category list every store starts with.
var SeedCategories = []Category{
	{ID: 1, Slug: "gdct", Name: "Political education", Description: "Civic and political education"},
	{ID: 2, Slug: "legal", Name: "Legal knowledge", Description: "Military law and regulations"},
	{ID: 3, Slug: "permanent", Name: "Standing knowledge", Description: "Continuous review"},
}
