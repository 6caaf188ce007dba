package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	accesshttp "github.com/devmarket/devmarket/internal/access/http"
	"github.com/devmarket/devmarket/internal/app"
	"github.com/devmarket/devmarket/internal/audit"
	audithttp "github.com/devmarket/devmarket/internal/audit/http"
	"github.com/devmarket/devmarket/internal/catalog"
	"github.com/devmarket/devmarket/internal/observability"
	"github.com/devmarket/devmarket/internal/platform/cache"
	"github.com/devmarket/devmarket/internal/platform/db"
	"github.com/devmarket/devmarket/internal/rbac"
	"github.com/devmarket/devmarket/internal/shared"
	"github.com/devmarket/devmarket/internal/users"
	"github.com/devmarket/devmarket/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	sessions := shared.NewSessionStore(redisClient, cfg.SessionCookie)

	usersService := users.NewService(users.NewRepository(dbpool))
	catalogService := catalog.NewService(catalog.NewRepository(dbpool))
	auditService := audit.NewService(audit.NewRepository(dbpool))

	rbacMiddleware := rbac.Middleware{Actors: usersService, Logger: logger, Observer: metrics}

	var jobClient *jobs.Client
	if cfg.AuditDenials {
		jobClient = jobs.NewClient(cache.QueueOpts(cfg.RedisAddr))
		defer func() {
			if err := jobClient.Close(); err != nil {
				logger.Warn("job client close", slog.Any("error", err))
			}
		}()
		rbacMiddleware.Denials = &jobs.DenialPublisher{Client: jobClient, Logger: logger, Observer: metrics}
	}

	inspector := asynq.NewInspector(cache.QueueOpts(cfg.RedisAddr))
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		Sessions:       sessions,
		RBACMiddleware: rbacMiddleware,
		AccessHandler:  accesshttp.NewHandler(logger, catalogService, rbacMiddleware),
		UsersHandler:   users.NewHandler(logger, usersService, rbacMiddleware),
		AuditHandler:   audithttp.NewHandler(logger, auditService, rbacMiddleware),
		JobHandler:     jobs.NewHandler(inspector, logger),
		Metrics:        metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
