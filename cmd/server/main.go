package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/streakmap/api/handler"
	"github.com/fastygo/streakmap/internal/config"
	"github.com/fastygo/streakmap/internal/infrastructure/buffer"
	"github.com/fastygo/streakmap/internal/infrastructure/monitor"
	"github.com/fastygo/streakmap/internal/infrastructure/oauth"
	pgInfra "github.com/fastygo/streakmap/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/streakmap/internal/infrastructure/redis"
	"github.com/fastygo/streakmap/internal/middleware"
	"github.com/fastygo/streakmap/internal/router"
	"github.com/fastygo/streakmap/internal/services"
	"github.com/fastygo/streakmap/internal/services/lifecycle"
	"github.com/fastygo/streakmap/internal/session"
	"github.com/fastygo/streakmap/pkg/httpcontext"
	"github.com/fastygo/streakmap/pkg/logger"
	"github.com/fastygo/streakmap/repository/postgres"
	redisRepo "github.com/fastygo/streakmap/repository/redis"
	activityUC "github.com/fastygo/streakmap/usecase/activity"
	authUC "github.com/fastygo/streakmap/usecase/auth"
	profileUC "github.com/fastygo/streakmap/usecase/profile"
	taskUC "github.com/fastygo/streakmap/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:       cfg.Logger.Level,
		Encoding:    cfg.Logger.Encoding,
		Development: !cfg.IsProduction(),
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	appCtx, stop := manager.NotifyContext(context.Background())
	defer stop()

	if err := pgInfra.RunMigrations(appCtx, cfg.Database, cfg.Migrations, zapLogger); err != nil {
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

	redisClient, err := redisInfra.NewClient(appCtx, cfg.Redis)
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

	mon := monitor.New(pool.Ping, redisInfra.Check(redisClient), bufferStore, cfg.Buffer.MonitorInterval, zapLogger)

	userRepo := postgres.NewUserRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	activityRepo := postgres.NewActivityRepository(pool)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.Session.TTL)
	stateRepo := redisRepo.NewStateRepository(redisClient, cfg.Session.StateTTL)

	bufferProcessor := services.NewBufferProcessor(
		bufferStore,
		mon,
		taskRepo,
		activityRepo,
		zapLogger,
		services.ProcessorConfig{
			Interval:   cfg.Buffer.SyncInterval,
			BatchSize:  50,
			MaxRetries: cfg.Buffer.MaxRetry,
			Retention:  time.Duration(cfg.Buffer.RetentionHours) * time.Hour,
		},
	)
	mon.OnRecover(func() {
		ctx, cancel := context.WithTimeout(appCtx, cfg.Buffer.SyncInterval)
		defer cancel()
		if err := bufferProcessor.Drain(ctx); err != nil {
			zapLogger.Error("buffer drain after reconnect failed", zap.Error(err))
		}
	})
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	bufferProcessor.Start()
	manager.Register("buffer_processor", func(ctx context.Context) error {
		bufferProcessor.Stop(ctx)
		return nil
	})

	bufferBridge := services.NewBufferBridge(bufferProcessor)

	tokens := session.NewTokens(cfg.Session.Secret, cfg.Session.Issuer)
	authUseCase := authUC.New(userRepo, sessionRepo, stateRepo, oauth.NewGoogle(cfg.Google), tokens, cfg.Session.TTL, zapLogger)
	profileUseCase := profileUC.New(userRepo, zapLogger)
	taskUseCase := taskUC.New(taskRepo, bufferBridge, zapLogger)
	activityUseCase := activityUC.New(taskRepo, activityRepo, bufferBridge, activityUC.Config{
		WindowDays:  cfg.Heatmap.WindowDays,
		Parallelism: cfg.Heatmap.Parallelism,
	}, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)
	cookie := apiHandler.CookieConfig{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.Secure,
	}

	handlers := router.Handlers{
		Auth:     apiHandler.NewAuthHandler(authUseCase, cookie, cfg.ClientURL, ctxAdapter, zapLogger),
		Profile:  apiHandler.NewProfileHandler(profileUseCase, ctxAdapter, zapLogger),
		Task:     apiHandler.NewTaskHandler(taskUseCase, activityUseCase, ctxAdapter, zapLogger),
		Activity: apiHandler.NewActivityHandler(activityUseCase, ctxAdapter, zapLogger),
		Health:   apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.SessionAuth(authUseCase, cfg.Session.CookieName, ctxAdapter, zapLogger)
	r := router.New(handlers, authMiddleware, zapLogger)

	server := &fasthttp.Server{
		Handler: middleware.Chain(r.Handler,
			middleware.AccessLog(zapLogger),
			middleware.CORS(cfg.ClientURL),
		),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Concurrency:  cfg.HTTP.MaxConn,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("environment", cfg.Environment),
			zap.Int("heatmap_window_days", cfg.Heatmap.WindowDays))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()
	zapLogger.Info("shutting down")

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
