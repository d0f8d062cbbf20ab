package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/teamboard/backend/api/handler"
	"github.com/teamboard/backend/internal/config"
	"github.com/teamboard/backend/internal/infrastructure/journal"
	"github.com/teamboard/backend/internal/infrastructure/monitor"
	pgInfra "github.com/teamboard/backend/internal/infrastructure/postgres"
	redisInfra "github.com/teamboard/backend/internal/infrastructure/redis"
	"github.com/teamboard/backend/internal/middleware"
	"github.com/teamboard/backend/internal/router"
	"github.com/teamboard/backend/internal/services"
	"github.com/teamboard/backend/internal/services/lifecycle"
	"github.com/teamboard/backend/pkg/httpcontext"
	"github.com/teamboard/backend/pkg/logger"
	"github.com/teamboard/backend/repository/postgres"
	redisRepo "github.com/teamboard/backend/repository/redis"
	authUC "github.com/teamboard/backend/usecase/auth"
	"github.com/teamboard/backend/usecase/coordinator"
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

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	journalStore, err := journal.Open(cfg.Journal.Path, "mutations")
	if err != nil {
		zapLogger.Fatal("failed to open mutation journal", zap.Error(err))
	}
	manager.Register("journal", func(ctx context.Context) error {
		return journalStore.Close()
	})

	mon := monitor.New(pool, redisClient, journalStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	workspaceRepo := postgres.NewWorkspaceRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	projectRepo := postgres.NewProjectRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	commentRepo := postgres.NewCommentRepository(pool)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.JWT.SessionTTL)
	cacheRepo := redisRepo.NewCacheRepository(redisClient, cfg.Cache.Timeout, cfg.Cache.TTL, zapLogger)

	sweeper := services.NewJournalSweeper(journalStore, zapLogger, services.SweeperConfig{
		Interval:  cfg.Journal.SweepInterval,
		Retention: cfg.Journal.Retention,
	})
	sweeper.Start()
	manager.Register("journal_sweeper", func(ctx context.Context) error {
		sweeper.Stop(ctx)
		return nil
	})

	coord := coordinator.New(
		workspaceRepo,
		userRepo,
		projectRepo,
		taskRepo,
		commentRepo,
		cacheRepo,
		services.NewJournalRecorder(journalStore),
		zapLogger,
	).WithCacheTTL(cfg.Cache.TTL)

	authUseCase := authUC.New(workspaceRepo, userRepo, sessionRepo, authUC.Config{
		JWTSecret:  cfg.JWT.Secret,
		Issuer:     cfg.JWT.Issuer,
		SessionTTL: cfg.JWT.SessionTTL,
	}, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:    apiHandler.NewAuthHandler(authUseCase, coord, ctxAdapter, zapLogger),
		User:    apiHandler.NewUserHandler(coord, ctxAdapter, zapLogger),
		Project: apiHandler.NewProjectHandler(coord, ctxAdapter, zapLogger),
		Task:    apiHandler.NewTaskHandler(coord, ctxAdapter, zapLogger),
		Health:  apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, zapLogger)
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

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
