package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/dawaa-dev/backend-dawaa/internal/account"
	"github.com/dawaa-dev/backend-dawaa/internal/address"
	"github.com/dawaa-dev/backend-dawaa/internal/catalog"
	"github.com/dawaa-dev/backend-dawaa/internal/common"
	"github.com/dawaa-dev/backend-dawaa/internal/config"
	"github.com/dawaa-dev/backend-dawaa/internal/health"
	"github.com/dawaa-dev/backend-dawaa/internal/jobs"
	"github.com/dawaa-dev/backend-dawaa/internal/obs"
	"github.com/dawaa-dev/backend-dawaa/internal/plan"
	"github.com/dawaa-dev/backend-dawaa/internal/ratelimit"
	"github.com/dawaa-dev/backend-dawaa/internal/security"
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

	shutdownTracer, err := obs.InitTracer(ctx, obs.TracingConfig{
		ServiceName:   cfg.ServiceName,
		Endpoint:      cfg.TracingEndpoint,
		Exporter:      cfg.TracingExporter,
		SamplingRatio: cfg.TracingSamplingRatio,
		Environment:   cfg.AppEnv,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("tracing disabled")
		shutdownTracer = func(context.Context) error { return nil }
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracer(shutdownCtx)
	}()

	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid DATABASE_URL")
	}
	poolCfg.ConnConfig.Tracer = obs.PGXTracer{}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid REDIS_URL")
	}
	rdb := redis.NewClient(redisOpts)
	defer func() { _ = rdb.Close() }()
	if err := redisotel.InstrumentTracing(rdb); err != nil {
		logger.Warn().Err(err).Msg("redis tracing instrumentation failed")
	}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     redisOpts.Addr,
		Password: redisOpts.Password,
		DB:       redisOpts.DB,
	})
	defer func() { _ = asynqClient.Close() }()

	validate := validator.New()
	httpMetrics := obs.NewHTTPMetrics("dawaa", obs.ParseBucketsCSV(cfg.MetricsBucketsCSV), nil)
	subMetrics := obs.NewSubscriptionMetrics("dawaa", nil)

	catalogSvc := &catalog.Service{
		Q:        catalog.Store{Pool: pool},
		Redis:    rdb,
		CacheTTL: cfg.CatalogCacheTTL,
		Logger:   logger,
	}
	planSvc := &plan.Service{Q: plan.Store{Pool: pool}, Validate: validate}
	addrCache := address.Cache{R: rdb, Max: int64(cfg.AddressCacheMax), TTL: cfg.AddressCacheTTL}

	var scheduler subscription.TaskScheduler
	if cfg.DeliveryReminderEnabled {
		scheduler = jobs.Scheduler{Client: asynqClient, Logger: logger}
	}
	subSvc := &subscription.Service{
		Q:         subscription.Store{Pool: pool},
		Items:     catalogSvc,
		Plans:     planSvc,
		Addresses: addrCache,
		Scheduler: scheduler,
		Metrics:   subMetrics,
		Validate:  validate,
		Logger:    logger,
	}
	accountSvc := &account.Service{Q: account.Store{Pool: pool}, Validate: validate}

	catalogHandlers := catalog.Handlers{
		Svc:          catalogSvc,
		DefaultLimit: cfg.CatalogDefaultLimit,
		MaxLimit:     cfg.CatalogMaxLimit,
		Logger:       logger,
	}
	planHandlers := plan.Handlers{Svc: planSvc, Logger: logger}
	addrHandlers := address.Handlers{Cache: addrCache, Logger: logger}
	subHandlers := subscription.Handlers{Svc: subSvc, Logger: logger}
	accountHandlers := account.Handlers{Svc: accountSvc, DefaultLimit: cfg.CatalogDefaultLimit, Logger: logger}
	healthHandlers := health.Handlers{
		DB:    health.CheckerFunc(pool.Ping),
		Redis: health.CheckerFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
	}

	idem := common.Idem{R: rdb, TTL: cfg.IdempotencyTTL}
	limiter := ratelimit.Limiter{
		R:      rdb,
		Window: cfg.RateLimitWindow,
		Max:    cfg.RateLimitMax,
		Prefix: "rl:subscriptions:",
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(obs.RoutePatternMiddleware)
	r.Use(obs.TracingMiddleware)
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	r.Use(chimw.Recoverer)
	r.Use(security.Headers)
	r.Use(security.BodyLimit(cfg.RequestBodyLimit))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Idempotency-Key"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", healthHandlers.Live)
	r.Get("/readyz", healthHandlers.Ready)
	r.Handle("/metrics", promhttp.Handler())

	if cfg.PprofUser != "" && cfg.PprofPass != "" {
		r.Route("/debug/pprof", func(pr chi.Router) {
			pr.Use(chimw.BasicAuth("pprof", map[string]string{cfg.PprofUser: cfg.PprofPass}))
			pr.Get("/", pprof.Index)
			pr.Get("/cmdline", pprof.Cmdline)
			pr.Get("/profile", pprof.Profile)
			pr.Get("/symbol", pprof.Symbol)
			pr.Get("/trace", pprof.Trace)
		})
	}

	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/catalog/items", func(cr chi.Router) {
			cr.Get("/", catalogHandlers.List)
			cr.Get("/{itemID}", catalogHandlers.Get)
		})

		api.Route("/plans", func(pr chi.Router) {
			pr.Get("/", planHandlers.List)
			pr.Get("/{planID}", planHandlers.Get)
		})
		api.Route("/admin/plans", func(pr chi.Router) {
			pr.Post("/", planHandlers.Create)
			pr.Put("/{planID}", planHandlers.Update)
		})

		api.Post("/addresses/validate", addrHandlers.Validate)

		api.Route("/subscriptions", func(sr chi.Router) {
			sr.Post("/quote", subHandlers.Quote)
			sr.With(limiter.Handler, idem.Middleware).Post("/", subHandlers.Create)
			sr.Get("/{subscriptionID}", subHandlers.Get)
			sr.With(limiter.Handler).Post("/{subscriptionID}/cancel", subHandlers.Cancel)
			sr.With(limiter.Handler).Post("/{subscriptionID}/pause", subHandlers.Pause)
			sr.With(limiter.Handler).Post("/{subscriptionID}/resume", subHandlers.Resume)
		})

		api.Route("/customers/{customerID}", func(cr chi.Router) {
			cr.Get("/subscriptions", subHandlers.ListByCustomer)
			cr.Get("/addresses/recent", addrHandlers.Recent)
		})

		api.Route("/accounts", func(ar chi.Router) {
			ar.Get("/", accountHandlers.List)
			ar.Post("/", accountHandlers.Create)
			ar.Get("/{accountID}", accountHandlers.Get)
			ar.Put("/{accountID}", accountHandlers.Update)
			ar.Post("/{accountID}/activate", accountHandlers.Activate)
			ar.Post("/{accountID}/deactivate", accountHandlers.Deactivate)
			ar.Delete("/{accountID}", accountHandlers.Delete)
		})
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Str("env", cfg.AppEnv).Msg("api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
