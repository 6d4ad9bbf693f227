package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/getsentry/sentry-go"

	"github.com/geopin/geopin-bot/internal/api"
	"github.com/geopin/geopin-bot/internal/group"
	"github.com/geopin/geopin-bot/internal/health"
	"github.com/geopin/geopin-bot/internal/location"
	"github.com/geopin/geopin-bot/internal/repository"
	"github.com/geopin/geopin-bot/internal/user"
	"github.com/geopin/geopin-bot/pkg/config"
	"github.com/geopin/geopin-bot/pkg/graceful"
	"github.com/geopin/geopin-bot/pkg/logger"
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

	log.Info("starting geopin api",
		slog.String("env", cfg.AppEnv), slog.String("port", cfg.Server.Port))

	if cfg.Sentry.Enabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.AppEnv,
		}); err != nil {
			log.Error("failed to initialize sentry", slog.Any("error", err))
			os.Exit(1)
		}
	}

	db, err := repository.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}

	users := repository.NewUserRepository(db, log)
	groups := repository.NewGroupRepository(db, log)
	locations := repository.NewLocationRepository(db, log)

	checker := health.NewChecker(log)
	checker.AddCheck("database", health.NewDBChecker(db))

	handler := api.NewHandler(
		user.NewService(users, log),
		group.NewService(groups, users, log),
		location.NewService(locations, users, log),
		checker,
		log,
	)

	srv := &http.Server{
		Addr:    cfg.Server.Port,
		Handler: handler.InitRoutes(),
	}

	if err := graceful.Run(ctx, srv, cfg.Server.ShutdownTimeout, log); err != nil {
		log.Error("http server stopped with error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("geopin api shut down")
}
