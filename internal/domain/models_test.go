package domain

import (
	"errors"
	"testing"
)

func TestScorePercentageRoundsHalfUp(t *testing.T) {
	cases := []struct {
		correct, total, want int
	}{
		{3, 4, 75},
		{1, 2, 50},
		{1, 8, 13},
		{1, 3, 33},
		{2, 3, 67},
		{0, 5, 0},
		{5, 5, 100},
		{0, 0, 0},
	}
	for _, tc := range cases {
		if got := ScorePercentage(tc.correct, tc.total); got != tc.want {
			t.Fatalf("ScorePercentage(%d, %d) = %d, want %d", tc.correct, tc.total, got, tc.want)
		}
	}
}

func TestCorrectIndexAcceptsLowercaseAndRejectsUnknown(t *testing.T) {
	q := Question{ID: 7, CorrectAnswer: "c"}
	idx, err := q.CorrectIndex()
	if err != nil || idx != 2 {
		t.Fatalf("CorrectIndex() = (%d, %v), want (2, nil)", idx, err)
	}

	q.CorrectAnswer = "E"
	if _, err := q.CorrectIndex(); !errors.Is(err, ErrInvalidCorrectAnswer) {
		t.Fatalf("expected ErrInvalidCorrectAnswer, got %v", err)
	}
}

func TestQuestionValidate(t *testing.T) {
	valid := func() Question {
		return Question{
			Prompt:        "  Capital of France?  ",
			AnswerA:       "Paris",
			AnswerB:       "Rome",
			AnswerC:       "Madrid",
			AnswerD:       "Berlin",
			CorrectAnswer: "a",
		}
	}

	q := valid()
	if err := q.Validate(12); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if q.Prompt != "Capital of France?" || q.CorrectAnswer != "A" || q.TimeLimit != 12 {
		t.Fatalf("unexpected normalization: %+v", q)
	}

	q = valid()
	q.AnswerC = "   "
	if err := q.Validate(10); !errors.Is(err, ErrInvalidQuestion) {
		t.Fatalf("expected ErrInvalidQuestion for blank answer, got %v", err)
	}

	q = valid()
	q.CorrectAnswer = "X"
	if err := q.Validate(10); !errors.Is(err, ErrInvalidQuestion) {
		t.Fatalf("expected ErrInvalidQuestion for bad label, got %v", err)
	}

	q = valid()
	q.TimeLimit = 61
	if err := q.Validate(10); !errors.Is(err, ErrInvalidQuestion) {
		t.Fatalf("expected ErrInvalidQuestion for time limit, got %v", err)
	}
}

func TestQuizResultValidate(t *testing.T) {
	if err := NewQuizResult(1, 4, 3).Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	bad := []QuizResult{
		{TopicID: 0, TotalQuestions: 1},
		{TopicID: 1, TotalQuestions: 0},
		{TopicID: 1, TotalQuestions: 2, CorrectAnswers: 3},
		{TopicID: 1, TotalQuestions: 2, CorrectAnswers: 1, ScorePercentage: 101},
	}
	for _, r := range bad {
		if err := r.Validate(); !errors.Is(err, ErrInvalidResult) {
			t.Fatalf("expected ErrInvalidResult for %+v, got %v", r, err)
		}
	}
}
