package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"sprintos.backend/internal/config"
	"sprintos.backend/internal/infrastructure/chat"
	"sprintos.backend/internal/infrastructure/datasources/postgres"
	"sprintos.backend/internal/infrastructure/jobs"
	"sprintos.backend/internal/infrastructure/realtime"
	"sprintos.backend/internal/infrastructure/repositories"
	"sprintos.backend/internal/interfaces/http/handlers"
	"sprintos.backend/internal/interfaces/http/middleware"
	"sprintos.backend/internal/usecases"
	"sprintos.backend/pkg/jwt"
	"sprintos.backend/pkg/logger"
	"sprintos.backend/pkg/redis"
)

var (
	loadDotenv      = godotenv.Load
	loadCfg         = config.Load
	initLog         = logger.Init
	initRedis       = redis.Init
	openDB          = postgres.Open
	newSessionStore = redis.NewSessionStore
	startBroker     = func(ctx context.Context, b *realtime.RedisBroker) error { return b.Start(ctx) }
	runServer       = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB        = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	logger.Info(ctx, "Logger initialized", zap.String("env", cfg.Server.Env))

	redisErr := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD)
	if redisErr == nil {
		logger.Info(ctx, "Redis initialized")
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := handlers.RegisterValidators(); err != nil {
		return fmt.Errorf("failed to register validators: %w", err)
	}

	// Setup-required mode: checked once, the server still starts without redis or a database
	var db *gorm.DB
	ready := false
	if redisErr != nil {
		logger.Warn(ctx, "Redis not available, serving setup-required responses", zap.Error(redisErr))
	} else if !cfg.Database.IsConfigured() {
		logger.Warn(ctx, "Database is not configured, serving setup-required responses")
	} else if opened, err := openDB(cfg.Database); err != nil {
		logger.Warn(ctx, "Database not available, serving setup-required responses", zap.Error(err))
	} else {
		db = opened
		ready = true
		sqlDB, err := getStdDB(db)
		if err != nil {
			return fmt.Errorf("failed to get generic database object: %w", err)
		}
		defer sqlDB.Close()
		logger.Info(ctx, "Connected to PostgreSQL via GORM")
	}

	origins := middleware.ParseOrigins(cfg.Realtime.AllowedOrigins)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.CORSMiddleware(origins))
	r.Use(middleware.SetupRequiredMiddleware(ready, healthPath, metricsPath))

	registerHealthRoute(r)
	registerMetricsRoute(r)

	var presenceJob *jobs.PresenceSweepJob
	if ready {
		jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiry, cfg.JWT.RefreshExpiry)

		sessionStore, err := newSessionStore(cfg.Security.SessionEncryptionKey)
		if err != nil {
			return fmt.Errorf("failed to initialize session store: %w", err)
		}

		hub := realtime.NewHub(cfg.Realtime.BufferSize)
		broker := realtime.NewRedisBroker(hub, cfg.Realtime.Channel)
		if err := startBroker(ctx, broker); err != nil {
			return fmt.Errorf("failed to start realtime broker: %w", err)
		}

		// Repositories
		userRepo := repositories.NewUserRepository(db)
		teamRepo := repositories.NewTeamRepository(db)
		memberRepo := repositories.NewTeamMemberRepository(db)
		taskRepo := repositories.NewTaskRepository(db)
		noteRepo := repositories.NewNoteRepository(db)
		summaryRepo := repositories.NewSummaryRepository(db)
		uow := repositories.NewUnitOfWork(db)

		completer := chat.NewClient(chat.Options{
			APIKey:      cfg.AI.APIKey,
			BaseURL:     cfg.AI.BaseURL,
			Model:       cfg.AI.Model,
			Temperature: cfg.AI.Temperature,
			Timeout:     cfg.AI.Timeout,
			MaxRetries:  cfg.AI.MaxRetries,
		})
		if !completer.Configured() {
			logger.Warn(ctx, "Chat API key missing, summaries will use the fallback text")
		}

		// Usecases
		authUsecase := usecases.NewAuthUsecase(userRepo, jwtService, sessionStore)
		teamUsecase := usecases.NewTeamUsecase(teamRepo, memberRepo, uow, redis.NewActiveTeamStore(cfg.Realtime.ActiveTeamTTL), broker)
		teamUsecase.SetPresenceWindow(cfg.Presence.IdleAfter)
		inviteUsecase := usecases.NewInviteUsecase(teamRepo, memberRepo, uow, broker)
		taskUsecase := usecases.NewTaskUsecase(taskRepo, memberRepo, broker)
		noteUsecase := usecases.NewNoteUsecase(noteRepo, broker)
		summaryUsecase := usecases.NewSummaryUsecase(noteRepo, summaryRepo, taskUsecase, completer, broker)
		analyticsUsecase := usecases.NewAnalyticsUsecase(teamRepo, memberRepo, taskRepo, summaryRepo, userRepo)
		analyticsUsecase.SetPresenceWindow(cfg.Presence.IdleAfter)

		registerAPIV1Routes(r, routeDeps{
			authHandler:         handlers.NewAuthHandler(authUsecase),
			teamHandler:         handlers.NewTeamHandler(teamUsecase, inviteUsecase),
			taskHandler:         handlers.NewTaskHandler(taskUsecase),
			noteHandler:         handlers.NewNoteHandler(noteUsecase),
			summaryHandler:      handlers.NewSummaryHandler(summaryUsecase),
			analyticsHandler:    handlers.NewAnalyticsHandler(analyticsUsecase),
			realtimeHandler:     handlers.NewRealtimeHandler(hub, origins),
			authMiddleware:      middleware.AuthMiddleware(jwtService, authUsecase),
			teamScopeMiddleware: middleware.TeamScopeMiddleware(teamUsecase),
			idempotency:         middleware.IdempotencyMiddleware(),
		})

		presenceJob = jobs.NewPresenceSweepJob(memberRepo, broker, cfg.Presence.Schedule, cfg.Presence.IdleAfter)
		if err := presenceJob.Start(ctx); err != nil {
			return fmt.Errorf("failed to start presence sweep: %w", err)
		}
		defer presenceJob.Stop()
	}

	for _, route := range r.Routes() {
		logger.Debug(ctx, "Route registered", zap.String("method", route.Method), zap.String("path", route.Path))
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info(context.Background(), "Shutting down server")
		if presenceJob != nil {
			presenceJob.Stop()
		}
		cancel()
		os.Exit(0)
	}()

	logger.Info(ctx, "SprintOS backend starting",
		zap.String("port", cfg.Server.Port),
		zap.Bool("setup_required", !ready),
	)
	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
