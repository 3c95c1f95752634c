package tag

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/tag-service/internal/application/service"
	"github.com/khoahotran/tag-service/internal/domain/tag"
	"github.com/khoahotran/tag-service/pkg/apperror"
	"github.com/khoahotran/tag-service/pkg/logger"
)

type CreateTagUseCase struct {
	tagRepo tag.Repository
	storage service.ObjectStorage
	locker  service.Locker
	janitor *bucketJanitor
	logger  logger.Logger
}

func NewCreateTagUseCase(
	r tag.Repository,
	s service.ObjectStorage,
	l service.Locker,
	q service.CleanupQueue,
	log logger.Logger,
) *CreateTagUseCase {
	return &CreateTagUseCase{
		tagRepo: r,
		storage: s,
		locker:  l,
		janitor: &bucketJanitor{storage: s, queue: q, logger: log},
		logger:  log,
	}
}

type CreateTagInput struct {
	Name string
}

type CreateTagOutput struct {
	Tag *tag.Tag
}

func (uc *CreateTagUseCase) Execute(ctx context.Context, input CreateTagInput) (*CreateTagOutput, error) {
	ctx, span := tracer.Start(ctx, "CreateTag")
	defer span.End()

	name := tag.NormalizeName(input.Name)
	if err := tag.ValidateName(name); err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}
	span.SetAttributes(attribute.String("tag.name", name))

	unlock, err := acquire(ctx, uc.locker, nameLockKey(name))
	if err != nil {
		return nil, err
	}
	defer unlock()

	existing, err := uc.tagRepo.FindByName(ctx, name)
	if err != nil && !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflict("tag", "name", name)
	}

	bucket := tag.NewBucketRef()
	if err := uc.storage.CreateBucket(ctx, bucket); err != nil {
		uc.logger.Error("Failed creating bucket", err, zap.String("bucket", bucket))
		return nil, apperror.NewProvisioning("bucket "+bucket, err)
	}

	newTag := &tag.Tag{Name: name, BucketRef: &bucket}
	if err := uc.tagRepo.Insert(ctx, newTag); err != nil {
		uc.janitor.removeOrEnqueue(ctx, bucket, 0, ReasonInsertFailed)
		return nil, err
	}

	uc.logger.Info("Tag created", zap.Int64("tag_id", newTag.ID), zap.String("bucket", bucket))
	return &CreateTagOutput{Tag: newTag}, nil
}
