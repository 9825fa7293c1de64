package main

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"juros/internal/amqp"
	"juros/internal/backend"
	"juros/internal/cache"
	"juros/internal/cli"
	"juros/internal/config"
	apphttp "juros/internal/http"
	applog "juros/internal/log"
	"juros/internal/middleware/ratelimit"
	"juros/internal/rates"
	"juros/internal/services"
)

func main() {
	cfg, logger := cli.Bootstrap(applog.ComponentApp)

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Server stopped with error", applog.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, logger *applog.Logger) error {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	result, err := backend.NewFactory(logger).CreateBackend(initCtx, backendCfg)
	cancel()
	if err != nil {
		return err
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", applog.FieldError, err.Error())
			}
		}()
	}

	checks := make(map[string]apphttp.CheckFunc)
	if result.Ping != nil {
		checks["database"] = apphttp.CheckFunc(result.Ping)
	}

	cacheManager := cache.NewManager(logger)
	var cacheStats func() cache.Stats
	if cached, ok := result.Catalog.(*rates.CachedCatalog); ok {
		cacheManager.Register(cached.Cache())
		cacheStats = cached.Cache().Stats
	}

	g, gctx := errgroup.WithContext(ctx)

	limitCfg := ratelimit.Config{RequestsPerMinute: cfg.RateLimitPerMinute}
	var (
		limiter       ratelimit.Limiter
		activeClients func() int
	)
	switch cfg.RateLimitBackend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		rl := ratelimit.NewRedisLimiter(rdb, limitCfg)
		checks["redis"] = rl.Ping
		limiter = rl
		logger.Info("Using Redis rate limiter", "addr", cfg.RedisAddr, "per_minute", cfg.RateLimitPerMinute)
	default:
		ml := ratelimit.NewMemoryLimiter(limitCfg)
		g.Go(func() error { return ml.Run(gctx) })
		limiter = ml
		activeClients = ml.ActiveClients
		logger.Info("Using in-memory rate limiter", "per_minute", cfg.RateLimitPerMinute)
	}

	// A nil *amqp.Client must not reach the service as a non-nil interface.
	var publisher services.EventPublisher
	if cfg.AMQPEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			return err
		}
		defer client.Close()
		publisher = client
		checks["amqp"] = func(context.Context) error { return client.CheckConnection() }
		logger.Info("Publishing projection events", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - projection events will not be published")
	}

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Service:       services.NewProjectionService(publisher, logger),
		Catalog:       result.Catalog,
		Limiter:       limiter,
		Logger:        logger,
		Checks:        checks,
		CacheStats:    cacheStats,
		ActiveClients: activeClients,
	})

	g.Go(func() error { return cacheManager.Run(gctx, 5*time.Minute) })
	g.Go(func() error { return srv.Run(gctx) })

	logger.Info("Starting juros server",
		applog.FieldOperation, applog.OpStartup,
		"port", cfg.Port,
		"rates_backend", cfg.RatesBackend,
		"rate_limit_backend", cfg.RateLimitBackend,
		"amqp_enabled", strconv.FormatBool(cfg.AMQPEnabled()))

	return g.Wait()
}
