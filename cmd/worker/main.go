package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/tag-service/adapters/event"
	"github.com/khoahotran/tag-service/adapters/object_storage"
	tagUC "github.com/khoahotran/tag-service/internal/application/usecase/tag"
	"github.com/khoahotran/tag-service/internal/config"
	"github.com/khoahotran/tag-service/pkg/logger"
	"github.com/khoahotran/tag-service/pkg/metrics"
	"github.com/khoahotran/tag-service/pkg/tracing"
)

const retryBackoff = 5 * time.Second

func main() {
	// Configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		panic("cannot load config: " + err.Error())
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()

	appLogger.Info("Starting Tag Service Worker...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.NewTracerProvider(ctx, cfg, appLogger, "tag-service-worker")
	if err != nil {
		appLogger.Fatal("cannot init tracing", err)
	}
	defer shutdownTracing(context.Background())

	if len(cfg.Kafka.Brokers) == 0 {
		appLogger.Fatal("config Kafka brokers not found", nil)
	}

	// Object storage
	storage, err := object_storage.NewMinioAdapter(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize object storage", err)
	}

	// Worker Use Case
	cleanupBucketUC := tagUC.NewCleanupBucketUseCase(storage, appLogger)

	// Kafka Consumer
	cleanupConsumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    event.TopicBucketCleanup,
		GroupID:  cfg.Kafka.CleanupGroup,
		MinBytes: 10e3,
		MaxBytes: 10e6,
		MaxWait:  time.Second,
	})
	defer cleanupConsumer.Close()

	appLogger.Info("Worker listening", zap.String("topic", event.TopicBucketCleanup), zap.String("group", cfg.Kafka.CleanupGroup))

	for {
		msg, err := cleanupConsumer.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				appLogger.Info("Worker stopped")
				return
			}
			appLogger.Error("Failed to read message from Kafka", err)
			continue
		}

		appLogger.Debug("Received message", zap.String("topic", msg.Topic), zap.String("key", string(msg.Key)), zap.Int64("offset", msg.Offset))

		req, err := event.DecodeBucketCleanup(msg.Value)
		if err != nil {
			appLogger.Error("Failed to decode cleanup event, skipping", err, zap.Int64("offset", msg.Offset))
			commitMessage(ctx, cleanupConsumer, msg, appLogger)
			continue
		}

		// Uncommitted messages are redelivered after a rebalance or restart,
		// so a failed cleanup is retried in place until it succeeds.
		for {
			err = cleanupBucketUC.Execute(ctx, req)
			if err == nil || ctx.Err() != nil {
				break
			}
			metrics.BucketCleanups.WithLabelValues("failed", req.Reason).Inc()
			appLogger.Error("Failed to clean up bucket, retrying", err, zap.String("bucket", req.Bucket))
			select {
			case <-ctx.Done():
			case <-time.After(retryBackoff):
			}
		}
		if ctx.Err() != nil {
			appLogger.Info("Worker stopped")
			return
		}

		commitMessage(ctx, cleanupConsumer, msg, appLogger)
	}
}

func commitMessage(ctx context.Context, consumer *kafka.Reader, msg kafka.Message, log logger.Logger) {
	if err := consumer.CommitMessages(ctx, msg); err != nil {
		log.Error("Failed to commit message", err, zap.Int64("offset", msg.Offset))
	}
}
