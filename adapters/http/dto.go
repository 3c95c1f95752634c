package http

import (
	"time"

	"github.com/khoahotran/tag-service/internal/application/service"
	tagUC "github.com/khoahotran/tag-service/internal/application/usecase/tag"
	"github.com/khoahotran/tag-service/internal/domain/tag"
)

type CreateTagRequest struct {
	Name string `json:"name" binding:"required,tagname"`
}

type RenameTagRequest struct {
	Name string `json:"name" binding:"required,tagname"`
}

type PictureDTO struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"content_type"`
	ETag         string    `json:"etag,omitempty"`
	LastModified time.Time `json:"last_modified"`
	URL          string    `json:"url,omitempty"`
}

// TagDTO.Picture is null for a tag without a bucket and [] for an empty one.
type TagDTO struct {
	ID      int64        `json:"id"`
	Name    string       `json:"name"`
	Picture []PictureDTO `json:"picture"`
}

func ToPictureDTOs(objects []service.ObjectInfo) []PictureDTO {
	if objects == nil {
		return nil
	}
	dtos := make([]PictureDTO, len(objects))
	for i, o := range objects {
		dtos[i] = PictureDTO{
			Key:          o.Key,
			Size:         o.Size,
			ContentType:  o.ContentType,
			ETag:         o.ETag,
			LastModified: o.LastModified,
			URL:          o.URL,
		}
	}
	return dtos
}

func ToTagDTO(t *tag.Tag, picture []service.ObjectInfo) TagDTO {
	return TagDTO{ID: t.ID, Name: t.Name, Picture: ToPictureDTOs(picture)}
}

func ToTagDTOs(items []tagUC.TagWithPicture) []TagDTO {
	dtos := make([]TagDTO, len(items))
	for i, item := range items {
		dtos[i] = ToTagDTO(item.Tag, item.Picture)
	}
	return dtos
}
