package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/samansa/movie-store/api/routes"
	"github.com/samansa/movie-store/internal/ledger"
	"github.com/samansa/movie-store/internal/subscriptions"
	applewebhook "github.com/samansa/movie-store/internal/webhooks/apple"
	"github.com/samansa/movie-store/pkg/config"
	"github.com/samansa/movie-store/pkg/db"
	"github.com/samansa/movie-store/pkg/instance"
	"github.com/samansa/movie-store/pkg/logger"
	"github.com/samansa/movie-store/pkg/metrics"
	"github.com/samansa/movie-store/pkg/migrate"
	"github.com/samansa/movie-store/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var (
		redisPinger    redis.Pinger
		processedCache *applewebhook.ProcessedCache
	)
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		redisPinger = redisClient
		processedCache, err = applewebhook.NewProcessedCache(redisClient, cfg.Webhook.ProcessedCacheTTL)
		if err != nil {
			logg.Error(context.Background(), "failed to create processed cache", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "redis not configured, processed-notification cache disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	subsRepo := subscriptions.NewRepository(dbClient.DB())
	ledgerRepo := ledger.NewRepository(dbClient.DB())

	subsService, err := subscriptions.NewService(subscriptions.ServiceParams{Repo: subsRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create subscription service", err)
		os.Exit(1)
	}
	ledgerService, err := ledger.NewService(ledgerRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create ledger service", err)
		os.Exit(1)
	}

	webhookParams := applewebhook.ServiceParams{
		SubscriptionRepo:  subsRepo,
		LedgerRepo:        ledgerRepo,
		TransactionRunner: dbClient,
		Metrics:           metrics.NewWebhookMetrics(registry),
		Logger:            logg,
	}
	if processedCache != nil {
		webhookParams.Cache = processedCache
	}
	appleService, err := applewebhook.NewService(webhookParams)
	if err != nil {
		logg.Error(context.Background(), "failed to create apple webhook service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, dbClient, redisPinger, registry, subsService, ledgerService, appleService, time.Now),
		ReadHeaderTimeout: 10 * time.Second,
	}

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		logg.Info(ctx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logg.Info(ctx, "shutting down api server")
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "api server stopped")
}
