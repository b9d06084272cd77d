package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/taskdeck/backend/api/handler"
	"github.com/taskdeck/backend/internal/config"
	"github.com/taskdeck/backend/internal/infrastructure/monitor"
	pgInfra "github.com/taskdeck/backend/internal/infrastructure/postgres"
	redisInfra "github.com/taskdeck/backend/internal/infrastructure/redis"
	"github.com/taskdeck/backend/internal/middleware"
	"github.com/taskdeck/backend/internal/router"
	"github.com/taskdeck/backend/internal/services"
	"github.com/taskdeck/backend/internal/services/lifecycle"
	"github.com/taskdeck/backend/internal/token"
	"github.com/taskdeck/backend/pkg/httpcontext"
	"github.com/taskdeck/backend/pkg/logger"
	"github.com/taskdeck/backend/repository/postgres"
	redisRepo "github.com/taskdeck/backend/repository/redis"
	authUC "github.com/taskdeck/backend/usecase/auth"
	taskUC "github.com/taskdeck/backend/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
		Service:  cfg.AppName,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	closer := lifecycle.NewCloser(cfg.Context.ShutdownTimeout, zapLogger)
	appCtx, cancel := closer.NotifyContext(context.Background())
	defer cancel()

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	closer.OnStop("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	closer.OnStop("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	mon := monitor.New(pool, redisClient, 10*time.Second, zapLogger)
	mon.Start()
	closer.OnStop("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	tokenStore := redisRepo.NewTokenStore(redisClient)

	if cfg.Stats.Enabled {
		stats := services.NewStatsReporter(userRepo, taskRepo, zapLogger, services.ReporterConfig{
			Interval: cfg.Stats.Interval,
		})
		stats.Start()
		closer.OnStop("stats_reporter", func(ctx context.Context) error {
			stats.Stop(ctx)
			return nil
		})
	}

	tokenManager := token.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)

	authUseCase := authUC.New(userRepo, tokenStore, tokenManager, zapLogger)
	taskUseCase := taskUC.New(taskRepo, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:   apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger, cfg.IsProduction()),
		Task:   apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.Auth(tokenManager, tokenStore, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	closer.OnStop("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := closer.Close(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
