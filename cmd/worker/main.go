package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/dawaa-dev/backend-dawaa/internal/catalog"
	"github.com/dawaa-dev/backend-dawaa/internal/config"
	"github.com/dawaa-dev/backend-dawaa/internal/jobs"
	"github.com/dawaa-dev/backend-dawaa/internal/obs"
	"github.com/dawaa-dev/backend-dawaa/internal/plan"
	"github.com/dawaa-dev/backend-dawaa/internal/subscription"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid REDIS_URL")
	}
	redisConn := asynq.RedisClientOpt{
		Addr:     redisOpts.Addr,
		Password: redisOpts.Password,
		DB:       redisOpts.DB,
	}

	asynqClient := asynq.NewClient(redisConn)
	defer func() { _ = asynqClient.Close() }()

	subSvc := &subscription.Service{
		Q:         subscription.Store{Pool: pool},
		Items:     &catalog.Service{Q: catalog.Store{Pool: pool}},
		Plans:     &plan.Service{Q: plan.Store{Pool: pool}},
		Scheduler: jobs.Scheduler{Client: asynqClient, Logger: logger},
		Logger:    logger,
	}

	srv := asynq.NewServer(redisConn, asynq.Config{
		Concurrency: cfg.WorkerConcurrency,
	})
	mux := asynq.NewServeMux()
	jobs.Handler{Subs: subSvc, Logger: logger}.Register(mux)

	go func() {
		<-ctx.Done()
		logger.Info().Msg("worker shutting down")
		srv.Shutdown()
	}()

	logger.Info().Int("concurrency", cfg.WorkerConcurrency).Msg("worker starting")
	if err := srv.Run(mux); err != nil {
		logger.Fatal().Err(err).Msg("worker failed")
	}
}
