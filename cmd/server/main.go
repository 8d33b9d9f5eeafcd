package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/junaydb/kanban-board/api/handler"
	"github.com/junaydb/kanban-board/internal/config"
	"github.com/junaydb/kanban-board/internal/infrastructure/buffer"
	"github.com/junaydb/kanban-board/internal/infrastructure/monitor"
	pgInfra "github.com/junaydb/kanban-board/internal/infrastructure/postgres"
	redisInfra "github.com/junaydb/kanban-board/internal/infrastructure/redis"
	"github.com/junaydb/kanban-board/internal/middleware"
	"github.com/junaydb/kanban-board/internal/router"
	"github.com/junaydb/kanban-board/internal/services"
	"github.com/junaydb/kanban-board/internal/services/lifecycle"
	"github.com/junaydb/kanban-board/pkg/httpcontext"
	"github.com/junaydb/kanban-board/pkg/logger"
	"github.com/junaydb/kanban-board/repository/postgres"
	redisRepo "github.com/junaydb/kanban-board/repository/redis"
	authUC "github.com/junaydb/kanban-board/usecase/auth"
	boardUC "github.com/junaydb/kanban-board/usecase/board"
	taskUC "github.com/junaydb/kanban-board/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if cfg.Migrations.Enabled {
		if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
			zapLogger.Fatal("migrations failed", zap.Error(err))
		}
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

	bufferStore, err := buffer.Open(cfg.Buffer.Path, "buffer")
	if err != nil {
		zapLogger.Fatal("failed to open buffer store", zap.Error(err))
	}
	manager.Register("buffer", func(ctx context.Context) error {
		return bufferStore.Close()
	})

	mon := monitor.New(pool, redisClient, bufferStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	boardRepo := postgres.NewBoardRepository(pool)
	positionRepo := postgres.NewPositionRepository(pool)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.Auth.SessionTTL)

	bufferProcessor := services.NewBufferProcessor(
		bufferStore,
		mon,
		taskRepo,
		positionRepo,
		zapLogger,
		services.ProcessorConfig{
			Interval:   cfg.Buffer.SyncInterval,
			BatchSize:  cfg.Buffer.BatchSize,
			MaxRetries: cfg.Buffer.MaxRetry,
		},
	)
	bufferProcessor.Start()
	manager.Register("buffer_processor", func(ctx context.Context) error {
		bufferProcessor.Stop(ctx)
		return nil
	})

	bufferBridge := services.NewBufferBridge(bufferProcessor)

	authUseCase := authUC.New(userRepo, sessionRepo, cfg.Auth.JWTSecret, cfg.Auth.Issuer, zapLogger)
	boardUseCase := boardUC.New(boardRepo, zapLogger)
	taskUseCase := taskUC.New(taskRepo, positionRepo, bufferBridge, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:   apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger, cfg.Auth.SessionTTL),
		Board:  apiHandler.NewBoardHandler(boardUseCase, ctxAdapter, zapLogger),
		Task:   apiHandler.NewTaskHandler(taskUseCase, boardUseCase, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.SessionAuth(cfg.Auth.JWTSecret, sessionRepo, zapLogger)
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
