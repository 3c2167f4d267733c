package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"topic-quiz-service/internal/domain"
)

func question(id int64, correct string, limit int) domain.Question {
	return domain.Question{
		ID:            id,
		TopicID:       1,
		Prompt:        "prompt",
		AnswerA:       "a",
		AnswerB:       "b",
		AnswerC:       "c",
		AnswerD:       "d",
		CorrectAnswer: correct,
		TimeLimit:     limit,
	}
}

func TestNewQuizSessionRejectsEmptyAndCorruptInput(t *testing.T) {
	_, err := NewQuizSession(1, nil, 10)
	require.ErrorIs(t, err, domain.ErrNoQuestions)

	_, err = NewQuizSession(1, []domain.Question{question(1, "A", 10), question(2, "Z", 10)}, 10)
	require.ErrorIs(t, err, domain.ErrInvalidCorrectAnswer)
}

func TestStartUsesFirstLimitOrDefault(t *testing.T) {
	s, err := NewQuizSession(1, []domain.Question{question(1, "A", 0)}, 12)
	require.NoError(t, err)
	require.Equal(t, StatePlaying, s.State())
	require.Equal(t, 0, s.Position())
	require.Equal(t, 0, s.Score())
	require.Equal(t, 12, s.TimeRemaining())

	s, err = NewQuizSession(1, []domain.Question{question(1, "A", 7)}, 12)
	require.NoError(t, err)
	require.Equal(t, 7, s.TimeRemaining())
}

func TestTwoQuestionScenario(t *testing.T) {
	s, err := NewQuizSession(1, []domain.Question{question(1, "B", 10), question(2, "C", 5)}, 10)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.False(t, s.Tick())
	}
	require.Equal(t, 7, s.TimeRemaining())

	accepted, err := s.SubmitAnswer(1)
	require.NoError(t, err)
	require.True(t, accepted)
	require.Equal(t, StateAnswered, s.State())
	require.Equal(t, 1, s.Score())

	_, finished := s.Advance()
	require.False(t, finished)
	require.Equal(t, StatePlaying, s.State())
	require.Equal(t, 1, s.Position())
	require.Equal(t, 5, s.TimeRemaining())

	for i := 0; i < 4; i++ {
		require.False(t, s.Tick())
	}
	require.True(t, s.Tick(), "fifth tick must time the question out")
	outcome, ok := s.LastOutcome()
	require.True(t, ok)
	require.Equal(t, domain.Timeout, outcome.Selected)
	require.False(t, outcome.Correct)
	require.Equal(t, 1, s.Score())

	result, finished := s.Advance()
	require.True(t, finished)
	require.Equal(t, StateFinished, s.State())
	require.Equal(t, domain.QuizResult{TopicID: 1, TotalQuestions: 2, CorrectAnswers: 1, ScorePercentage: 50}, result)
}

func TestTimeoutMatchesSubmittingMinusOne(t *testing.T) {
	questions := []domain.Question{question(1, "A", 2)}

	timedOut, err := NewQuizSession(1, questions, 10)
	require.NoError(t, err)
	timedOut.Tick()
	timedOut.Tick()

	explicit, err := NewQuizSession(1, questions, 10)
	require.NoError(t, err)
	accepted, err := explicit.SubmitAnswer(domain.Timeout)
	require.NoError(t, err)
	require.True(t, accepted)

	a, b := timedOut.Snapshot(), explicit.Snapshot()
	a.TimeRemaining, b.TimeRemaining = 0, 0
	require.Equal(t, b, a)
	require.Equal(t, 0, timedOut.Score())
}

func TestSubmitAnswerOnlyScoresOnce(t *testing.T) {
	s, err := NewQuizSession(1, []domain.Question{question(1, "D", 10), question(2, "A", 10)}, 10)
	require.NoError(t, err)

	accepted, err := s.SubmitAnswer(3)
	require.NoError(t, err)
	require.True(t, accepted)

	accepted, err = s.SubmitAnswer(3)
	require.NoError(t, err)
	require.False(t, accepted)
	require.Equal(t, 1, s.Score())

	require.False(t, s.Tick(), "ticks are ignored while answered")
	require.Equal(t, StateAnswered, s.State())
}

func TestSubmitAnswerRejectsOutOfRange(t *testing.T) {
	s, err := NewQuizSession(1, []domain.Question{question(1, "A", 10)}, 10)
	require.NoError(t, err)

	accepted, err := s.SubmitAnswer(4)
	require.ErrorIs(t, err, domain.ErrAnswerOutOfRange)
	require.False(t, accepted)
	require.Equal(t, StatePlaying, s.State())
}

func TestFourQuestionsThreeCorrectIsSeventyFive(t *testing.T) {
	labels := []string{"A", "B", "C", "D"}
	questions := make([]domain.Question, 0, len(labels))
	for i, l := range labels {
		questions = append(questions, question(int64(i+1), l, 10))
	}
	s, err := NewQuizSession(9, questions, 10)
	require.NoError(t, err)

	answers := []int{0, 1, 0, 3}
	var result domain.QuizResult
	for i, a := range answers {
		_, err := s.SubmitAnswer(a)
		require.NoError(t, err)
		r, finished := s.Advance()
		require.Equal(t, i == len(answers)-1, finished)
		result = r
	}
	require.Equal(t, 4, result.TotalQuestions)
	require.Equal(t, 3, result.CorrectAnswers)
	require.Equal(t, 75, result.ScorePercentage)
}

func TestInvariantsHoldThroughPlay(t *testing.T) {
	s, err := NewQuizSession(1, []domain.Question{question(1, "A", 3), question(2, "B", 3), question(3, "C", 3)}, 10)
	require.NoError(t, err)

	prevScore := 0
	steps := 0
	for s.State() != StateFinished {
		require.GreaterOrEqual(t, s.Position(), 0)
		require.Less(t, s.Position(), s.Total())
		require.GreaterOrEqual(t, s.Score(), prevScore)
		prevScore = s.Score()

		switch s.State() {
		case StatePlaying:
			if steps%2 == 0 {
				s.Tick()
			} else {
				_, _ = s.SubmitAnswer(1)
			}
		case StateAnswered:
			s.Advance()
		}
		steps++
		require.Less(t, steps, 100)
	}
}

func TestRestartOnlyFromFinished(t *testing.T) {
	questions := []domain.Question{question(1, "A", 4), question(2, "B", 6)}
	s, err := NewQuizSession(1, questions, 10)
	require.NoError(t, err)

	require.ErrorIs(t, s.Restart(), domain.ErrSessionNotFinished)

	_, _ = s.SubmitAnswer(0)
	s.Advance()
	_, _ = s.SubmitAnswer(1)
	_, finished := s.Advance()
	require.True(t, finished)
	require.Equal(t, 2, s.Score())

	require.NoError(t, s.Restart())
	require.Equal(t, StatePlaying, s.State())
	require.Equal(t, 0, s.Position())
	require.Equal(t, 0, s.Score())
	require.Equal(t, 4, s.TimeRemaining())
	require.Equal(t, int64(1), s.Current().ID)
}

func TestAdvanceOutsideAnsweredIsNoop(t *testing.T) {
	s, err := NewQuizSession(1, []domain.Question{question(1, "A", 4)}, 10)
	require.NoError(t, err)

	_, finished := s.Advance()
	require.False(t, finished)
	require.Equal(t, StatePlaying, s.State())
}

func TestSnapshotRevealsKeyOnlyAfterAnswer(t *testing.T) {
	s, err := NewQuizSession(1, []domain.Question{question(1, "C", 4)}, 10)
	require.NoError(t, err)

	snap := s.Snapshot()
	require.Equal(t, "playing", snap.State)
	require.Empty(t, snap.CorrectAnswer)
	require.NotNil(t, snap.Question)
	require.Nil(t, snap.Selected)

	_, _ = s.SubmitAnswer(0)
	snap = s.Snapshot()
	require.Equal(t, "answered", snap.State)
	require.Equal(t, "C", snap.CorrectAnswer)
	require.Equal(t, 0, *snap.Selected)
	require.False(t, *snap.Correct)

	s.Advance()
	snap = s.Snapshot()
	require.Equal(t, "finished", snap.State)
	require.Nil(t, snap.Question)
	require.NotNil(t, snap.Result)
	require.Equal(t, 0, snap.Result.ScorePercentage)
}
