package integration

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"topic-quiz-service/internal/app"
	"topic-quiz-service/internal/domain"
	pgloader "topic-quiz-service/internal/infra/postgres"
	infraredis "topic-quiz-service/internal/infra/redis"
	"topic-quiz-service/internal/infra/sqlstore"
	"topic-quiz-service/internal/infra/sqlstore/migrations"
)

func TestPlayTopicEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	db := sqlstore.OpenPostgres(pgURL)
	defer db.Close()
	require.NoError(t, migrations.Apply(ctx, db))

	store := sqlstore.NewCatalogStore(db)
	topicID := seedTopic(t, ctx, store)

	pool, err := pgxpool.Connect(ctx, pgURL)
	require.NoError(t, err)
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	require.NoError(t, err)
	defer redisClient.Close()

	cache := infraredis.NewQuestionCache(redisClient, pgloader.NewQuestionLoader(pool), 5*time.Minute)
	sessions := infraredis.NewSessionStore(redisClient, 5*time.Minute)
	play := app.NewPlayService(sessions, cache, store, app.PlayConfig{
		DefaultTimeLimit: 10,
		Player:           app.PlayerConfig{Tick: time.Second, ResultDisplay: 50 * time.Millisecond},
	})

	player, err := play.Start(ctx, topicID)
	require.NoError(t, err)
	defer play.End(ctx, player.ID())

	updates, cancel, err := play.Subscribe(ctx, player.ID())
	require.NoError(t, err)
	defer cancel()

	snap, accepted, err := play.Answer(ctx, player.ID(), 1)
	require.NoError(t, err)
	require.True(t, accepted)
	require.Equal(t, "B", snap.CorrectAnswer)

	waitForState(t, updates, "playing")
	_, accepted, err = play.Answer(ctx, player.ID(), 0)
	require.NoError(t, err)
	require.True(t, accepted)
	final := waitForState(t, updates, "finished")
	require.Equal(t, 50, final.Result.ScorePercentage)

	require.Eventually(t, func() bool {
		results, err := store.ListResults(ctx, topicID, 10)
		return err == nil && len(results) == 1 && results[0].CorrectAnswers == 1
	}, 5*time.Second, 50*time.Millisecond)

	cached, err := redisClient.Exists(ctx, fmt.Sprintf("topic:%d:questions", topicID)).Result()
	require.NoError(t, err)
	require.Equal(t, int64(1), cached)
}

func seedTopic(t *testing.T, ctx context.Context, store *sqlstore.CatalogStore) int64 {
	t.Helper()
	topicID, err := store.CreateTopic(ctx, domain.Topic{CategoryID: 1, Name: "Defence basics", Description: "Seeded"})
	require.NoError(t, err)

	for _, q := range []domain.Question{
		{TopicID: topicID, Prompt: "2 + 2?", AnswerA: "3", AnswerB: "4", AnswerC: "5", AnswerD: "6", CorrectAnswer: "B", TimeLimit: 30},
		{TopicID: topicID, Prompt: "Capital of France?", AnswerA: "Rome", AnswerB: "Berlin", AnswerC: "Paris", AnswerD: "Madrid", CorrectAnswer: "C", TimeLimit: 30},
	} {
		_, err := store.CreateQuestion(ctx, q)
		require.NoError(t, err)
	}
	return topicID
}

func waitForState(t *testing.T, updates <-chan app.Snapshot, state string) app.Snapshot {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case snap, ok := <-updates:
			if !ok {
				t.Fatalf("updates closed waiting for %s", state)
			}
			if snap.State == state {
				return snap
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s", state)
		}
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	return fmt.Sprintf("redis://%s:%s", host, port.Port()), func() {
		_ = container.Terminate(ctx)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(opts), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
