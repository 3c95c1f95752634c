package tag

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/tag-service/internal/application/service"
	"github.com/khoahotran/tag-service/internal/domain/tag"
	"github.com/khoahotran/tag-service/pkg/logger"
)

type DeleteTagUseCase struct {
	tagRepo tag.Repository
	locker  service.Locker
	janitor *bucketJanitor
	logger  logger.Logger
}

func NewDeleteTagUseCase(
	r tag.Repository,
	s service.ObjectStorage,
	l service.Locker,
	q service.CleanupQueue,
	log logger.Logger,
) *DeleteTagUseCase {
	return &DeleteTagUseCase{
		tagRepo: r,
		locker:  l,
		janitor: &bucketJanitor{storage: s, queue: q, logger: log},
		logger:  log,
	}
}

type DeleteTagInput struct {
	ID int64
}

// Execute removes the bucket (best effort, see bucketJanitor) and then the
// row. The row is removed even when the bucket could not be.
func (uc *DeleteTagUseCase) Execute(ctx context.Context, input DeleteTagInput) error {
	ctx, span := tracer.Start(ctx, "DeleteTag")
	defer span.End()
	span.SetAttributes(attribute.Int64("tag.id", input.ID))

	unlock, err := acquire(ctx, uc.locker, idLockKey(input.ID))
	if err != nil {
		return err
	}
	defer unlock()

	t, err := uc.tagRepo.FindByID(ctx, input.ID)
	if err != nil {
		return err
	}

	if t.HasBucket() {
		uc.janitor.removeOrEnqueue(ctx, t.Bucket(), t.ID, ReasonDeleteFailed)
	}

	if err := uc.tagRepo.Delete(ctx, t.ID); err != nil {
		return err
	}

	uc.logger.Info("Tag deleted", zap.Int64("tag_id", t.ID), zap.String("bucket", t.Bucket()))
	return nil
}
