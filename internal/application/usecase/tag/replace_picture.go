package tag

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/tag-service/internal/application/service"
	"github.com/khoahotran/tag-service/internal/domain/tag"
	"github.com/khoahotran/tag-service/pkg/apperror"
	"github.com/khoahotran/tag-service/pkg/logger"
)

const defaultContentType = "application/octet-stream"

type ReplacePictureUseCase struct {
	tagRepo tag.Repository
	storage service.ObjectStorage
	locker  service.Locker
	logger  logger.Logger
}

func NewReplacePictureUseCase(r tag.Repository, s service.ObjectStorage, l service.Locker, log logger.Logger) *ReplacePictureUseCase {
	return &ReplacePictureUseCase{tagRepo: r, storage: s, locker: l, logger: log}
}

type ReplacePictureInput struct {
	ID          int64
	Picture     io.Reader
	Size        int64
	ContentType string
}

func (uc *ReplacePictureUseCase) Execute(ctx context.Context, input ReplacePictureInput) error {
	ctx, span := tracer.Start(ctx, "ReplacePicture")
	defer span.End()
	span.SetAttributes(attribute.Int64("tag.id", input.ID), attribute.Int64("picture.size", input.Size))

	if input.Picture == nil {
		return apperror.NewInvalidInput("picture is required", nil)
	}
	contentType := input.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	unlock, err := acquire(ctx, uc.locker, idLockKey(input.ID))
	if err != nil {
		return err
	}
	defer unlock()

	t, err := uc.tagRepo.FindByID(ctx, input.ID)
	if err != nil {
		return err
	}
	if !t.HasBucket() {
		return apperror.NewNoBucket(fmt.Sprintf("tag %d has no bucket reference", t.ID), nil)
	}

	exists, err := uc.storage.BucketExists(ctx, t.Bucket())
	if err != nil {
		return apperror.NewStorageRead(fmt.Sprintf("checking bucket %s", t.Bucket()), err)
	}
	if !exists {
		return apperror.NewNoBucket(fmt.Sprintf("bucket %s does not exist", t.Bucket()), nil)
	}

	if err := uc.storage.PutObject(ctx, t.Bucket(), tag.PictureKey, input.Picture, input.Size, contentType); err != nil {
		return apperror.NewStorageWrite(fmt.Sprintf("uploading picture of tag %d", t.ID), err)
	}

	// Nothing on the row changes except updated_at.
	if err := uc.tagRepo.Update(ctx, t); err != nil {
		return err
	}

	uc.logger.Info("Tag picture replaced", zap.Int64("tag_id", t.ID), zap.String("content_type", contentType))
	return nil
}
