package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"

	"github.com/geopin/geopin-bot/internal/apiclient"
	"github.com/geopin/geopin-bot/internal/bot"
	"github.com/geopin/geopin-bot/internal/health"
	"github.com/geopin/geopin-bot/internal/state"
	"github.com/geopin/geopin-bot/pkg/config"
	"github.com/geopin/geopin-bot/pkg/graceful"
	"github.com/geopin/geopin-bot/pkg/logger"
	"github.com/geopin/geopin-bot/pkg/metrics"
	"github.com/geopin/geopin-bot/pkg/redis"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	log := logger.New(cfg.Log)
	slog.SetDefault(log)

	log.Info("starting geopin bot",
		slog.String("env", cfg.AppEnv), slog.String("api", cfg.Bot.APIBaseURL))

	if cfg.Sentry.Enabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.AppEnv,
		}); err != nil {
			log.Error("failed to initialize sentry", slog.Any("error", err))
			os.Exit(1)
		}
	}

	var (
		storage     state.Storage
		redisClient *goredis.Client
	)
	if cfg.Redis.Enabled {
		client, err := redis.New(ctx, cfg.Redis.Config)
		if err != nil {
			log.Error("failed to connect to redis", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			if cerr := client.Close(); cerr != nil {
				log.Error("error closing redis client", slog.Any("error", cerr))
			}
		}()

		redisClient = client.Client
		storage = state.NewRedisStorage(redisClient, log, cfg.Bot.SessionTTL)
	} else {
		log.Info("redis disabled, using in-memory session storage")
		storage = state.NewMemoryStorage(log)
	}

	fsm := state.NewMachine(storage, log, redisClient)
	state.RegisterTransitionRecorder(metrics.RecordSessionTransition)

	apiClient := apiclient.New(cfg.Bot.APIBaseURL, cfg.Bot.Timeout, log)

	b, err := bot.New(*cfg, log, apiClient, fsm)
	if err != nil {
		log.Error("failed to initialize bot", slog.Any("error", err))
		os.Exit(1)
	}

	cleaner := state.NewCleaner(storage, log, cfg.Bot.SessionTTL, cfg.Bot.CleanupInterval)
	go cleaner.Run(ctx)

	checker := health.NewChecker(log)
	checker.AddCheck("telegram", health.NewTelegramChecker(b.Telebot()))
	if redisClient != nil {
		checker.AddCheck("redis", health.NewRedisChecker(redisClient))
	}

	mux := http.NewServeMux()
	mux.Handle("/health", checker.Handler())
	mux.Handle("/metrics", promhttp.Handler())

	healthSrv := &http.Server{Addr: cfg.Bot.HealthAddr, Handler: mux}
	go func() {
		if err := graceful.Run(ctx, healthSrv, cfg.Server.ShutdownTimeout, log); err != nil {
			log.Error("health server stopped with error", slog.Any("error", err))
		}
	}()

	go func() {
		<-ctx.Done()
		b.Stop()
	}()

	log.Info("bot started", slog.String("name", cfg.Bot.Name))
	b.Start()

	log.Info("geopin bot shut down")
}
