package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/tag-service/adapters/event"
	httpAdapter "github.com/khoahotran/tag-service/adapters/http"
	"github.com/khoahotran/tag-service/adapters/object_storage"
	"github.com/khoahotran/tag-service/adapters/persistence"
	"github.com/khoahotran/tag-service/internal/application/service"
	tagUC "github.com/khoahotran/tag-service/internal/application/usecase/tag"
	"github.com/khoahotran/tag-service/internal/config"
	"github.com/khoahotran/tag-service/pkg/auth"
	"github.com/khoahotran/tag-service/pkg/logger"
	"github.com/khoahotran/tag-service/pkg/tracing"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		panic("cannot load config: " + err.Error())
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()

	appLogger.Info("Start Tag Service API Server...")

	ctx := context.Background()

	shutdownTracing, err := tracing.NewTracerProvider(ctx, cfg, appLogger, "tag-service-api")
	if err != nil {
		appLogger.Fatal("cannot init tracing", err)
	}
	defer shutdownTracing(context.Background())

	// Initialize dependencies
	dbPool, err := persistence.NewPostgresPool(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Postgres", err)
	}
	defer dbPool.Close()

	var locker service.Locker
	if cfg.Redis.Addr != "" {
		redisClient, err := persistence.NewRedisClient(ctx, cfg, appLogger)
		if err != nil {
			appLogger.Fatal("cannot connect Redis", err)
		}
		defer redisClient.Close()
		locker = persistence.NewRedisLocker(redisClient, cfg.Lock.TTL, cfg.Lock.Wait, appLogger)
	} else {
		appLogger.Warn("Redis not configured, tag locks are local to this process")
		locker = persistence.NewLocalLocker()
	}

	kafkaClient, err := event.NewKafkaProducerClient(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot init Kafka", err)
	}
	defer kafkaClient.Close()

	storage, err := object_storage.NewMinioAdapter(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot init object storage", err)
	}

	// Repositories
	tagRepo := persistence.NewPostgresTagRepo(dbPool, appLogger)

	// Use Cases
	createTagUseCase := tagUC.NewCreateTagUseCase(tagRepo, storage, locker, kafkaClient, appLogger)
	getTagUseCase := tagUC.NewGetTagUseCase(tagRepo, storage, appLogger)
	renameTagUseCase := tagUC.NewRenameTagUseCase(tagRepo, locker, appLogger)
	deleteTagUseCase := tagUC.NewDeleteTagUseCase(tagRepo, storage, locker, kafkaClient, appLogger)
	listTagsUseCase := tagUC.NewListTagsUseCase(tagRepo, storage, appLogger)
	replacePictureUseCase := tagUC.NewReplacePictureUseCase(tagRepo, storage, locker, appLogger)

	// HTTP Handlers
	tagHandler := httpAdapter.NewTagHandler(
		createTagUseCase,
		getTagUseCase,
		renameTagUseCase,
		deleteTagUseCase,
		listTagsUseCase,
		replacePictureUseCase,
		cfg.App.MaxPictureBytes,
	)

	var jwtSvc *auth.JWTService
	if cfg.Auth.JWTSecret != "" {
		jwtSvc = auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
	} else {
		appLogger.Warn("JWT secret not configured, mutating tag routes are open")
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := httpAdapter.RegisterValidators(); err != nil {
		appLogger.Fatal("cannot register validators", err)
	}
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		TagHandler:   tagHandler,
		JWTService:   jwtSvc,
		Logger:       appLogger,
		RateLimitRPS: cfg.App.RateLimitRPS,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Cannot run server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Error shutting down HTTP server", err)
	}

	appLogger.Info("Server stopped")
}
