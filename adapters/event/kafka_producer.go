package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/tag-service/internal/application/service"
	"github.com/khoahotran/tag-service/internal/config"
	"github.com/khoahotran/tag-service/pkg/logger"
)

const TopicBucketCleanup = "bucket.cleanup"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaProducerClient struct {
	CleanupWriter messageWriter
	logger        logger.Logger
}

var _ service.CleanupQueue = (*KafkaProducerClient)(nil)

func NewKafkaProducerClient(cfg config.Config, log logger.Logger) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	// writer 'bucket.cleanup'
	cleanupWriter := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  TopicBucketCleanup,
		Balancer:               &kafka.LeastBytes{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}

	log.Info("Initialize Kafka Producers successfully.", zap.Strings("brokers", brokers))

	return &KafkaProducerClient{CleanupWriter: cleanupWriter, logger: log}, nil
}

// EnqueueBucketCleanup publishes the request keyed by bucket name so retries
// for the same bucket land on the same partition.
func (c *KafkaProducerClient) EnqueueBucketCleanup(ctx context.Context, req service.BucketCleanupRequest) error {
	payload := BucketCleanupPayload{
		EventType:   EventTypeBucketCleanup,
		Bucket:      req.Bucket,
		TagID:       req.TagID,
		Reason:      req.Reason,
		RequestedAt: time.Now().UTC(),
	}
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal cleanup payload: %w", err)
	}

	err = c.CleanupWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(req.Bucket),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("publish cleanup for bucket %s: %w", req.Bucket, err)
	}
	c.logger.Info("Bucket cleanup enqueued", zap.String("bucket", req.Bucket), zap.String("reason", req.Reason))
	return nil
}

func (c *KafkaProducerClient) Close() {
	if c.CleanupWriter != nil {
		if err := c.CleanupWriter.Close(); err != nil {
			c.logger.Warn("Failed to close Kafka writer", zap.Error(err))
		}
	}
	c.logger.Info("Closed Kafka Producers")
}

// DecodeBucketCleanup parses a message value published by EnqueueBucketCleanup.
func DecodeBucketCleanup(value []byte) (service.BucketCleanupRequest, error) {
	var payload BucketCleanupPayload
	if err := json.Unmarshal(value, &payload); err != nil {
		return service.BucketCleanupRequest{}, fmt.Errorf("unmarshal cleanup payload: %w", err)
	}
	if payload.Bucket == "" {
		return service.BucketCleanupRequest{}, fmt.Errorf("cleanup payload has no bucket")
	}
	return service.BucketCleanupRequest{Bucket: payload.Bucket, TagID: payload.TagID, Reason: payload.Reason}, nil
}
