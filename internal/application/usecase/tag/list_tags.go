package tag

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/khoahotran/tag-service/internal/application/service"
	"github.com/khoahotran/tag-service/internal/domain/tag"
	"github.com/khoahotran/tag-service/pkg/apperror"
	"github.com/khoahotran/tag-service/pkg/logger"
)

type ListTagsUseCase struct {
	tagRepo tag.Repository
	storage service.ObjectStorage
	logger  logger.Logger
}

func NewListTagsUseCase(r tag.Repository, s service.ObjectStorage, log logger.Logger) *ListTagsUseCase {
	return &ListTagsUseCase{tagRepo: r, storage: s, logger: log}
}

type TagWithPicture struct {
	Tag *tag.Tag
	// Picture is nil for tags without a bucket.
	Picture []service.ObjectInfo
}

type ListTagsOutput struct {
	Tags []TagWithPicture
}

// Execute is all or nothing: one failed bucket listing fails the whole call.
func (uc *ListTagsUseCase) Execute(ctx context.Context) (*ListTagsOutput, error) {
	ctx, span := tracer.Start(ctx, "ListTags")
	defer span.End()

	tags, err := uc.tagRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("tag.count", len(tags)))

	items := make([]TagWithPicture, 0, len(tags))
	for _, t := range tags {
		item := TagWithPicture{Tag: t}
		if t.HasBucket() {
			objects, err := uc.storage.ListObjects(ctx, t.Bucket(), tag.PictureKey)
			if err != nil {
				return nil, apperror.NewStorageRead(fmt.Sprintf("can't load picture in tag with id = %d", t.ID), err)
			}
			item.Picture = objects
		}
		items = append(items, item)
	}
	return &ListTagsOutput{Tags: items}, nil
}
