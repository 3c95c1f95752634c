package tag

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/tag-service/internal/application/service"
	"github.com/khoahotran/tag-service/internal/domain/tag"
	"github.com/khoahotran/tag-service/pkg/apperror"
	"github.com/khoahotran/tag-service/pkg/logger"
	"github.com/khoahotran/tag-service/pkg/metrics"
)

const DefaultReconcileMinAge = 10 * time.Minute

// ReconcileBucketsUseCase finds tag buckets that no row references. Buckets
// younger than MinAge are skipped since a Create may still be between
// provisioning and insert.
type ReconcileBucketsUseCase struct {
	tagRepo tag.Repository
	storage service.ObjectStorage
	janitor *bucketJanitor
	logger  logger.Logger
	now     func() time.Time
}

func NewReconcileBucketsUseCase(r tag.Repository, s service.ObjectStorage, log logger.Logger) *ReconcileBucketsUseCase {
	return &ReconcileBucketsUseCase{
		tagRepo: r,
		storage: s,
		janitor: &bucketJanitor{storage: s, logger: log},
		logger:  log,
		now:     time.Now,
	}
}

type ReconcileBucketsInput struct {
	DryRun bool
	MinAge time.Duration
}

type ReconcileBucketsOutput struct {
	Orphans []string
	Removed []string
	Failed  map[string]error
}

func (uc *ReconcileBucketsUseCase) Execute(ctx context.Context, input ReconcileBucketsInput) (*ReconcileBucketsOutput, error) {
	ctx, span := tracer.Start(ctx, "ReconcileBuckets")
	defer span.End()

	if input.MinAge <= 0 {
		input.MinAge = DefaultReconcileMinAge
	}

	buckets, err := uc.storage.ListBuckets(ctx, tag.BucketPrefix)
	if err != nil {
		return nil, apperror.NewStorageRead("listing buckets", err)
	}
	refs, err := uc.tagRepo.ListBucketRefs(ctx)
	if err != nil {
		return nil, err
	}
	referenced := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		referenced[ref] = struct{}{}
	}

	out := &ReconcileBucketsOutput{Failed: make(map[string]error)}
	cutoff := uc.now().Add(-input.MinAge)
	for _, b := range buckets {
		if !tag.IsBucketRef(b.Name) {
			continue
		}
		if _, ok := referenced[b.Name]; ok {
			continue
		}
		if b.CreatedAt.After(cutoff) {
			continue
		}
		out.Orphans = append(out.Orphans, b.Name)
	}

	if input.DryRun {
		return out, nil
	}

	for _, name := range out.Orphans {
		if err := uc.janitor.removeBucket(ctx, name); err != nil {
			uc.logger.Warn("Failed to remove orphan bucket", zap.String("bucket", name), zap.Error(err))
			out.Failed[name] = err
			continue
		}
		metrics.BucketCleanups.WithLabelValues("removed", ReasonReconcile).Inc()
		out.Removed = append(out.Removed, name)
	}

	uc.logger.Info("Bucket reconciliation finished",
		zap.Int("orphans", len(out.Orphans)),
		zap.Int("removed", len(out.Removed)),
		zap.Int("failed", len(out.Failed)),
	)
	return out, nil
}
