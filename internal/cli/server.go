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

	"quiz-maker-service/internal/app"
	"quiz-maker-service/internal/config"
	"quiz-maker-service/internal/domain"
	"quiz-maker-service/internal/infra/memory"
	"quiz-maker-service/internal/infra/postgres"
	infraredis "quiz-maker-service/internal/infra/redis"
	transport "quiz-maker-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz maker server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

type repositories struct {
	quizzes  app.QuizRepository
	drafts   app.DraftRepository
	progress app.ProgressRepository
	attempts app.AttemptRepository
	feeds    app.FeedRegistry

	redisFeeds *infraredis.FeedRegistry
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
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

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	repos := buildRepositories(cfg, pool, redisClient)
	if repos.redisFeeds != nil {
		if err := repos.redisFeeds.Start(ctx); err != nil {
			return err
		}
		defer repos.redisFeeds.Close()
	}

	quizzes := app.NewQuizService(repos.quizzes, repos.attempts, repos.progress)
	drafts := app.NewDraftService(repos.drafts, quizzes)
	progress := app.NewProgressService(repos.progress, repos.feeds)
	attempts := app.NewAttemptService(repos.quizzes, repos.attempts, progress)
	take := app.NewTakeService(repos.quizzes, progress, attempts)

	if pool == nil {
		if err := seedSampleQuiz(ctx, quizzes); err != nil {
			return err
		}
	}

	handler := transport.NewHandler(quizzes, drafts, progress, attempts)
	wsHandler := transport.NewWSHandler(take, progress)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewRouter(handler, wsHandler, cfg.Origins()),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz maker on :%s", finalPort)
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.TTLDuration(cfg.Server.ShutdownTimeout, 5*time.Second))
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// buildRepositories picks Postgres for durable records when configured and
// Redis for caching, progress and cross-instance progress feeds when
// configured; anything left unconfigured runs in memory.
func buildRepositories(cfg config.Config, pool *pgxpool.Pool, redisClient *redis.Client) repositories {
	var repos repositories
	var quizStore app.QuizRepository

	if pool != nil {
		quizStore = postgres.NewQuizStore(pool)
		repos.drafts = postgres.NewDraftStore(pool)
		repos.attempts = postgres.NewAttemptStore(pool)
		repos.progress = postgres.NewProgressStore(pool)
	} else {
		quizStore = memory.NewQuizStore()
		repos.drafts = memory.NewDraftStore()
		repos.attempts = memory.NewAttemptStore()
		repos.progress = memory.NewProgressStore()
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	if redisClient != nil {
		repos.quizzes = infraredis.NewQuizRepository(redisClient, quizStore, config.TTLDuration(cfg.Redis.TTL, quizTTL))
		repos.progress = infraredis.NewProgressStore(redisClient, config.TTLDuration(cfg.Progress.TTL, 0))
		repos.redisFeeds = infraredis.NewFeedRegistry(redisClient)
		repos.feeds = repos.redisFeeds
	} else {
		repos.quizzes = memory.NewQuizRepository(quizStore, quizTTL)
		repos.feeds = memory.NewFeedRegistry()
	}
	return repos
}

// seedSampleQuiz gives an in-memory server something to take right away.
func seedSampleQuiz(ctx context.Context, quizzes *app.QuizService) error {
	quiz, err := quizzes.CreateQuiz(ctx, app.QuizInput{QuizContent: sampleQuiz()})
	if err != nil {
		return err
	}
	log.Printf("seeded sample quiz %s (share code %s)", quiz.ID, quiz.ShareCode)
	return nil
}

func sampleQuiz() domain.QuizContent {
	return domain.QuizContent{
		Title:       "Getting started",
		Description: "A two-question warm-up",
		Questions: []domain.Question{
			{
				Text: "What is 2 + 2?",
				Hint: "It is an even number",
				AnswerOptions: []domain.AnswerOption{
					{Text: "3"},
					{Text: "4", IsCorrect: true, Rationale: "Two pairs make four"},
					{Text: "5"},
				},
			},
			{
				Text: "Which of these are primary colours?",
				AnswerOptions: []domain.AnswerOption{
					{Text: "Red", IsCorrect: true},
					{Text: "Blue", IsCorrect: true},
					{Text: "Green"},
				},
			},
		},
	}
}
