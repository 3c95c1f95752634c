package tag

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/khoahotran/tag-service/internal/application/service"
	"github.com/khoahotran/tag-service/internal/domain/tag"
	"github.com/khoahotran/tag-service/pkg/apperror"
	"github.com/khoahotran/tag-service/pkg/logger"
)

type GetTagUseCase struct {
	tagRepo tag.Repository
	storage service.ObjectStorage
	logger  logger.Logger
}

func NewGetTagUseCase(r tag.Repository, s service.ObjectStorage, log logger.Logger) *GetTagUseCase {
	return &GetTagUseCase{tagRepo: r, storage: s, logger: log}
}

type GetTagInput struct {
	ID int64
}

type GetTagOutput struct {
	Tag     *tag.Tag
	Picture []service.ObjectInfo
}

func (uc *GetTagUseCase) Execute(ctx context.Context, input GetTagInput) (*GetTagOutput, error) {
	ctx, span := tracer.Start(ctx, "GetTag")
	defer span.End()
	span.SetAttributes(attribute.Int64("tag.id", input.ID))

	t, err := uc.tagRepo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if !t.HasBucket() {
		return nil, apperror.NewNoBucket(fmt.Sprintf("tag %d has no bucket reference", t.ID), nil)
	}

	objects, err := uc.storage.ListObjects(ctx, t.Bucket(), tag.PictureKey)
	if err != nil {
		if errors.Is(err, service.ErrBucketNotFound) {
			return nil, apperror.NewNoBucket(fmt.Sprintf("bucket %s of tag %d does not exist", t.Bucket(), t.ID), err)
		}
		return nil, apperror.NewStorageRead(fmt.Sprintf("listing bucket %s of tag %d", t.Bucket(), t.ID), err)
	}

	return &GetTagOutput{Tag: t, Picture: objects}, nil
}
