package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"topic-quiz-service/internal/app"
	"topic-quiz-service/internal/domain"
	"topic-quiz-service/internal/infra/memory"
)

func playQuestions() map[int64][]domain.Question {
	return map[int64][]domain.Question{
		1: {
			{ID: 1, TopicID: 1, Prompt: "First?", AnswerA: "a1", AnswerB: "b1", AnswerC: "c1", AnswerD: "d1", CorrectAnswer: "B", TimeLimit: 200},
			{ID: 2, TopicID: 1, Prompt: "Second?", AnswerA: "a2", AnswerB: "b2", AnswerC: "c2", AnswerD: "d2", CorrectAnswer: "C", TimeLimit: 2},
		},
		2: {},
	}
}

func fastPlay() app.PlayerConfig {
	return app.PlayerConfig{Tick: 5 * time.Millisecond, ResultDisplay: 50 * time.Millisecond, RecordTimeout: time.Second}
}

func TestRunPlayScoresAndTimesOut(t *testing.T) {
	ctx := context.Background()
	store := memory.NewCatalogStore()
	var out bytes.Buffer

	err := runPlay(ctx, strings.NewReader("b\n"), &out, 1,
		memory.NewStaticQuestionSource(playQuestions()), store, 10, fastPlay())
	require.NoError(t, err)

	text := out.String()
	require.Contains(t, text, "Question 1/2 [200s]: First?")
	require.Contains(t, text, "  B. b1")
	require.Contains(t, text, "Correct!")
	require.Contains(t, text, "Score: 1/2 (50%)")

	results, err := store.ListResults(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, 50, results[0].ScorePercentage)
}

func TestRunPlayQuitsAndReportsBadInput(t *testing.T) {
	store := memory.NewCatalogStore()
	var out bytes.Buffer

	err := runPlay(context.Background(), strings.NewReader("x\nq\n"), &out, 1,
		memory.NewStaticQuestionSource(playQuestions()), store, 10, fastPlay())
	require.NoError(t, err)
	require.Contains(t, out.String(), "type A, B, C or D to answer")

	results, _ := store.ListResults(context.Background(), 1, 0)
	require.Empty(t, results, "quitting mid-quiz records nothing")
}

func TestRunPlayUnplayableTopics(t *testing.T) {
	src := memory.NewStaticQuestionSource(playQuestions())
	var out bytes.Buffer

	err := runPlay(context.Background(), strings.NewReader(""), &out, 99, src, nil, 10, fastPlay())
	require.ErrorIs(t, err, domain.ErrTopicNotFound)

	err = runPlay(context.Background(), strings.NewReader(""), &out, 2, src, nil, 10, fastPlay())
	require.ErrorIs(t, err, domain.ErrNoQuestions)
}
