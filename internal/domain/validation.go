package domain

import (
	"fmt"
	"strings"
)

// Validate checks a topic before it is written.
func (t *Topic) Validate() error {
	t.Name = strings.TrimSpace(t.Name)
	t.Description = strings.TrimSpace(t.Description)
	t.Logo = strings.TrimSpace(t.Logo)
	if t.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidTopic)
	}
	return nil
}

// Validate normalizes and checks a question before it is written.
// A zero time limit is replaced with defaultLimit.
func (q *Question) Validate(defaultLimit int) error {
	q.Prompt = strings.TrimSpace(q.Prompt)
	if q.Prompt == "" {
		return fmt.Errorf("%w: question text is required", ErrInvalidQuestion)
	}
	for i, text := range q.Answers() {
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("%w: answer %s is required", ErrInvalidQuestion, AnswerLabels[i])
		}
	}
	idx, err := q.CorrectIndex()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidQuestion, err)
	}
	q.CorrectAnswer = AnswerLabels[idx]

	if q.TimeLimit == 0 {
		q.TimeLimit = defaultLimit
		if q.TimeLimit <= 0 {
			q.TimeLimit = DefaultTimeLimit
		}
	}
	if q.TimeLimit < MinTimeLimit || q.TimeLimit > MaxTimeLimit {
		return fmt.Errorf("%w: time limit must be between %d and %d seconds", ErrInvalidQuestion, MinTimeLimit, MaxTimeLimit)
	}
	return nil
}

// Validate checks the counters of a submitted result.
func (r QuizResult) Validate() error {
	switch {
	case r.TopicID <= 0:
		return fmt.Errorf("%w: topic_id is required", ErrInvalidResult)
	case r.TotalQuestions <= 0:
		return fmt.Errorf("%w: total_questions must be positive", ErrInvalidResult)
	case r.CorrectAnswers < 0 || r.CorrectAnswers > r.TotalQuestions:
		return fmt.Errorf("%w: correct_answers must be between 0 and total_questions", ErrInvalidResult)
	case r.ScorePercentage < 0 || r.ScorePercentage > 100:
		return fmt.Errorf("%w: score_percentage must be between 0 and 100", ErrInvalidResult)
	}
	return nil
}
