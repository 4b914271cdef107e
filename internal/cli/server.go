package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"quizforge/internal/config"
	"quizforge/internal/generate"
	"quizforge/internal/infra/memory"
	pgbank "quizforge/internal/infra/postgres"
	redisinfra "quizforge/internal/infra/redis"
	"quizforge/internal/persist"
	"quizforge/internal/quiz"
	"quizforge/internal/store"
	transport "quizforge/internal/transport/http"
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

func newLogger(mode string) (*zap.Logger, error) {
	switch strings.ToLower(mode) {
	case "prod", "production":
		return zap.NewProduction()
	default:
		return zap.NewDevelopment()
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log.Mode)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Sugar()

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	// Storage backend: Redis when configured, in-process memory otherwise.
	var backend store.Backend = memory.NewBackend()
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		backend = redisinfra.NewBackend(client, config.Duration(cfg.Redis.TTL, 7*24*time.Hour))
		log.Infow("using redis storage backend", "addr", cfg.Redis.Addr)
	}
	adapter := store.New(backend, log)

	// Optional Postgres question bank feeding the demo generator.
	var sets generate.SetProvider
	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
			return err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		sets = memory.NewQuestionBank(pgbank.NewSetLoader(pool), config.Duration(cfg.Demo.SetTTL, 10*time.Minute))
		log.Infow("question bank enabled")
	}

	demoGen := generate.NewDemo(sets, config.Duration(cfg.Demo.Delay, 2*time.Second))

	var gen quiz.Generator
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		gemini, err := generate.NewGemini(ctx, apiKey, cfg.Generator.Model)
		if err != nil {
			return err
		}
		defer gemini.Close()
		gen = gemini
		log.Infow("gemini generator enabled", "model", cfg.Generator.Model)
	} else {
		log.Warnw("GEMINI_API_KEY not set, PDF generation disabled (demo mode only)")
	}

	staleAfter := config.Duration(cfg.Storage.StaleAfter, persist.DefaultMaxAge)
	historyCap := cfg.Storage.HistoryCap

	manager := quiz.NewManager(func(sessionID string) *quiz.Service {
		scoped := adapter.WithPrefix("session:" + sessionID + ":")
		return quiz.NewService(
			persist.NewProgressLedger(scoped, staleAfter),
			persist.NewQuestionsCache(scoped, staleAfter),
			persist.NewHistoryArchive(scoped, historyCap),
			gen,
			demoGen,
			log.With("session", sessionID),
		)
	})

	wsHandler := transport.NewWSHandler(manager, log)
	uploadHandler := transport.NewUploadHandler(manager, log)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	mux.HandleFunc("/generate", uploadHandler.ServeGenerate)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		log.Infow("starting quiz server", "port", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorw("failed to start server", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Infow("shutting down server")
	case <-ctx.Done():
		log.Infow("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
