package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"topic-quiz-service/internal/app"
	"topic-quiz-service/internal/config"
	"topic-quiz-service/internal/infra/disk"
	"topic-quiz-service/internal/infra/memory"
	pgloader "topic-quiz-service/internal/infra/postgres"
	"topic-quiz-service/internal/infra/rabbit"
	infraredis "topic-quiz-service/internal/infra/redis"
	"topic-quiz-service/internal/infra/sqlstore"
	"topic-quiz-service/internal/infra/sqlstore/migrations"
	transport "topic-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	var store app.CatalogStore = memory.NewCatalogStore()
	if db != nil {
		defer db.Close()
		if err := migrations.Apply(ctx, db); err != nil {
			return err
		}
		store = sqlstore.NewCatalogStore(db)
	} else {
		log.Printf("no sql store configured, catalog is kept in memory")
	}

	var loader app.QuestionSource = store
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		loader = pgloader.NewQuestionLoader(pool)
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}
	redisTTL := config.Duration(cfg.Redis.TTL, 30*time.Minute)
	cacheTTL := config.Duration(cfg.Quiz.CacheTTL, 10*time.Minute)

	var questions interface {
		app.QuestionSource
		app.QuestionCache
	}
	var sessions app.SessionRepository
	if redisClient != nil {
		questions = infraredis.NewQuestionCache(redisClient, loader, cacheTTL)
		sessions = infraredis.NewSessionStore(redisClient, redisTTL)
	} else {
		questions = memory.NewQuestionCache(loader, cacheTTL)
		sessions = memory.NewSessionStore()
	}

	var sink app.ResultSink = store
	if cfg.Rabbit.URL != "" {
		publisher, err := rabbit.Dial(cfg.Rabbit.URL, cfg.Rabbit.Queue)
		if err != nil {
			return err
		}
		defer publisher.Close()
		sink = app.FanoutSink{store, publisher}
	}

	catalog := app.NewCatalogService(store, questions, cfg.Quiz.DefaultTimeLimit)
	play := app.NewPlayService(sessions, questions, sink, app.PlayConfig{
		DefaultTimeLimit: cfg.Quiz.DefaultTimeLimit,
		Player: app.PlayerConfig{
			Tick:          config.Duration(cfg.Quiz.Tick, time.Second),
			ResultDisplay: config.Duration(cfg.Quiz.ResultDisplay, 2*time.Second),
			RecordTimeout: config.Duration(cfg.Quiz.RecordTimeout, 5*time.Second),
		},
	})
	uploads := disk.NewUploadStore(cfg.Upload.Dir, cfg.Upload.MaxSize, cfg.Upload.AllowedTypes)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewRouter(catalog, play, uploads),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
