package tag

import (
	"context"

	"go.uber.org/zap"

	"github.com/khoahotran/tag-service/internal/application/service"
	"github.com/khoahotran/tag-service/internal/domain/tag"
	"github.com/khoahotran/tag-service/pkg/apperror"
	"github.com/khoahotran/tag-service/pkg/logger"
	"github.com/khoahotran/tag-service/pkg/metrics"
)

// CleanupBucketUseCase runs in the worker for buckets that could not be
// removed inline. It is idempotent.
type CleanupBucketUseCase struct {
	janitor *bucketJanitor
	logger  logger.Logger
}

func NewCleanupBucketUseCase(s service.ObjectStorage, log logger.Logger) *CleanupBucketUseCase {
	return &CleanupBucketUseCase{
		janitor: &bucketJanitor{storage: s, logger: log},
		logger:  log,
	}
}

func (uc *CleanupBucketUseCase) Execute(ctx context.Context, req service.BucketCleanupRequest) error {
	ctx, span := tracer.Start(ctx, "CleanupBucket")
	defer span.End()

	l := uc.logger.With(zap.String("bucket", req.Bucket), zap.Int64("tag_id", req.TagID), zap.String("reason", req.Reason))

	if !tag.IsBucketRef(req.Bucket) {
		l.Warn("Refusing to clean up a bucket not owned by a tag")
		return nil
	}

	if err := uc.janitor.removeBucket(ctx, req.Bucket); err != nil {
		return apperror.NewStorageWrite("cleanup of bucket "+req.Bucket, err)
	}

	metrics.BucketCleanups.WithLabelValues("removed", req.Reason).Inc()
	l.Info("Bucket cleaned up")
	return nil
}
