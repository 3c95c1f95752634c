package tag

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/khoahotran/tag-service/internal/application/service"
	"github.com/khoahotran/tag-service/internal/domain/tag"
	"github.com/khoahotran/tag-service/pkg/logger"
	"github.com/khoahotran/tag-service/pkg/metrics"
)

var tracer = otel.Tracer("github.com/khoahotran/tag-service/usecase/tag")

const (
	ReasonInsertFailed = "insert_failed"
	ReasonDeleteFailed = "delete_failed"
	ReasonReconcile    = "reconcile"
)

// bucketJanitor removes tag buckets and falls back to the cleanup queue when
// removal fails. The row and the bucket are never updated atomically.
type bucketJanitor struct {
	storage service.ObjectStorage
	queue   service.CleanupQueue
	logger  logger.Logger
}

// removeBucket deletes the picture object and then the bucket. A bucket that
// is already gone counts as removed.
func (j *bucketJanitor) removeBucket(ctx context.Context, bucket string) error {
	exists, err := j.storage.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		return nil
	}
	if err := j.storage.DeleteObject(ctx, bucket, tag.PictureKey); err != nil && !errors.Is(err, service.ErrBucketNotFound) {
		return fmt.Errorf("delete picture: %w", err)
	}
	if err := j.storage.DeleteBucket(ctx, bucket); err != nil && !errors.Is(err, service.ErrBucketNotFound) {
		return fmt.Errorf("delete bucket: %w", err)
	}
	return nil
}

// removeOrEnqueue never fails the caller: whatever cannot be removed now is
// handed to the worker, and whatever cannot be handed over is logged.
func (j *bucketJanitor) removeOrEnqueue(ctx context.Context, bucket string, tagID int64, reason string) {
	ctx = context.WithoutCancel(ctx)
	l := j.logger.With(zap.String("bucket", bucket), zap.Int64("tag_id", tagID), zap.String("reason", reason))

	err := j.removeBucket(ctx, bucket)
	if err == nil {
		return
	}
	l.Warn("Bucket removal failed, enqueueing for cleanup", zap.Error(err))

	req := service.BucketCleanupRequest{Bucket: bucket, TagID: tagID, Reason: reason}
	if qErr := j.queue.EnqueueBucketCleanup(ctx, req); qErr != nil {
		l.Error("Failed to enqueue bucket cleanup, bucket is leaked", qErr)
		return
	}
	metrics.BucketCleanups.WithLabelValues("enqueued", reason).Inc()
}
