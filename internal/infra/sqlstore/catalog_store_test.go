package sqlstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"topic-quiz-service/internal/domain"
	"topic-quiz-service/internal/infra/sqlstore"
	"topic-quiz-service/internal/infra/sqlstore/migrations"
)

func newStore(t *testing.T) *sqlstore.CatalogStore {
	t.Helper()
	db, err := sqlstore.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Apply(context.Background(), db))
	return sqlstore.NewCatalogStore(db)
}

func question(topicID int64, prompt, correct string) domain.Question {
	return domain.Question{
		TopicID:       topicID,
		Prompt:        prompt,
		AnswerA:       "a",
		AnswerB:       "b",
		AnswerC:       "c",
		AnswerD:       "d",
		CorrectAnswer: correct,
		TimeLimit:     15,
	}
}

func TestMigrationsSeedCategories(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	categories, err := store.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 3)
	require.Equal(t, "gdct", categories[0].Slug)

	ok, err := store.CategoryExists(ctx, 2)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = store.CategoryExists(ctx, 42)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestTopicsWithQuestionCounts(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	first, err := store.CreateTopic(ctx, domain.Topic{CategoryID: 1, Name: "Constitution", Logo: "c.png"})
	require.NoError(t, err)
	second, err := store.CreateTopic(ctx, domain.Topic{CategoryID: 1, Name: "Party history"})
	require.NoError(t, err)
	_, err = store.CreateTopic(ctx, domain.Topic{CategoryID: 2, Name: "Service law"})
	require.NoError(t, err)

	for _, prompt := range []string{"one", "two"} {
		_, err := store.CreateQuestion(ctx, question(first, prompt, "A"))
		require.NoError(t, err)
	}

	topics, err := store.ListTopicsByCategory(ctx, "gdct")
	require.NoError(t, err)
	require.Len(t, topics, 2)
	require.Equal(t, first, topics[0].ID)
	require.Equal(t, 2, topics[0].QuestionCount)
	require.Equal(t, "Political education", topics[0].CategoryName)
	require.Equal(t, second, topics[1].ID)
	require.Equal(t, 0, topics[1].QuestionCount)

	topics, err = store.ListTopicsByCategory(ctx, "nope")
	require.NoError(t, err)
	require.Empty(t, topics)

	require.NoError(t, store.UpdateTopic(ctx, domain.Topic{ID: second, Name: "Renamed", Description: "d"}))
	topic, err := store.GetTopic(ctx, second)
	require.NoError(t, err)
	require.Equal(t, "Renamed", topic.Name)
	require.Equal(t, int64(1), topic.CategoryID)

	require.ErrorIs(t, store.UpdateTopic(ctx, domain.Topic{ID: 999, Name: "x"}), domain.ErrTopicNotFound)
	_, err = store.GetTopic(ctx, 999)
	require.ErrorIs(t, err, domain.ErrTopicNotFound)
}

func TestQuestionsOrderedAndCascadeOnTopicDelete(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	topicID, err := store.CreateTopic(ctx, domain.Topic{CategoryID: 3, Name: "Drill"})
	require.NoError(t, err)

	var ids []int64
	for _, prompt := range []string{"first", "second", "third"} {
		id, err := store.CreateQuestion(ctx, question(topicID, prompt, "B"))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	questions, err := store.ListByTopic(ctx, topicID)
	require.NoError(t, err)
	require.Len(t, questions, 3)
	for i, q := range questions {
		require.Equal(t, ids[i], q.ID)
	}
	require.Equal(t, "first", questions[0].Prompt)
	require.Equal(t, "B", questions[0].CorrectAnswer)
	require.Equal(t, 15, questions[0].TimeLimit)

	update := question(topicID, "second, reworded", "D")
	update.ID = ids[1]
	update.TimeLimit = 45
	require.NoError(t, store.UpdateQuestion(ctx, update))
	got, err := store.GetQuestion(ctx, ids[1])
	require.NoError(t, err)
	require.Equal(t, "second, reworded", got.Prompt)
	require.Equal(t, "D", got.CorrectAnswer)
	require.Equal(t, 45, got.TimeLimit)

	require.NoError(t, store.DeleteQuestion(ctx, ids[0]))
	require.ErrorIs(t, store.DeleteQuestion(ctx, ids[0]), domain.ErrQuestionNotFound)

	require.NoError(t, store.DeleteTopic(ctx, topicID))
	_, err = store.GetQuestion(ctx, ids[2])
	require.ErrorIs(t, err, domain.ErrQuestionNotFound)
	require.ErrorIs(t, store.DeleteTopic(ctx, topicID), domain.ErrTopicNotFound)
}

func TestResultsNewestFirst(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	for correct := 1; correct <= 3; correct++ {
		require.NoError(t, store.Record(ctx, domain.NewQuizResult(5, 4, correct)))
	}
	require.NoError(t, store.Record(ctx, domain.NewQuizResult(6, 2, 2)))

	results, err := store.ListResults(ctx, 5, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, 3, results[0].CorrectAnswers)
	require.Equal(t, 75, results[0].ScorePercentage)
	require.Equal(t, 2, results[1].CorrectAnswers)

	all, err := store.ListResults(ctx, 5, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
}
