package tag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/tag-service/internal/domain/tag"
	"github.com/khoahotran/tag-service/pkg/apperror"
)

func TestReplacePicture_OverwritesObject(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created := f.mustCreate(t, "cats")

	require.NoError(t, f.picture.Execute(ctx, ReplacePictureInput{ID: created.ID, Picture: strings.NewReader("v1"), Size: 2, ContentType: "image/png"}))
	require.NoError(t, f.picture.Execute(ctx, ReplacePictureInput{ID: created.ID, Picture: strings.NewReader("v2!"), Size: 3, ContentType: "image/jpeg"}))

	obj, ok := f.storage.Object(created.Bucket(), tag.PictureKey)
	require.True(t, ok)
	assert.Equal(t, "v2!", string(obj.Data))
	assert.Equal(t, "image/jpeg", obj.ContentType)

	stored, _ := f.repo.Get(created.ID)
	assert.Equal(t, "cats", stored.Name)
	assert.Equal(t, created.Bucket(), stored.Bucket())
}

func TestReplacePicture_DefaultsContentType(t *testing.T) {
	f := newFixture()
	created := f.mustCreate(t, "cats")

	require.NoError(t, f.picture.Execute(context.Background(), ReplacePictureInput{ID: created.ID, Picture: strings.NewReader("raw"), Size: 3}))

	obj, _ := f.storage.Object(created.Bucket(), tag.PictureKey)
	assert.Equal(t, defaultContentType, obj.ContentType)
}

func TestReplacePicture_NotFound(t *testing.T) {
	f := newFixture()

	err := f.picture.Execute(context.Background(), ReplacePictureInput{ID: 5, Picture: strings.NewReader("x"), Size: 1})

	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestReplacePicture_NoBucket(t *testing.T) {
	f := newFixture()
	plain := f.seedWithoutBucket("plain")
	ref := tag.NewBucketRef()
	gone := f.repo.Seed(tag.Tag{Name: "gone", BucketRef: &ref})

	err := f.picture.Execute(context.Background(), ReplacePictureInput{ID: plain.ID, Picture: strings.NewReader("x"), Size: 1})
	assert.ErrorIs(t, err, apperror.ErrNoBucket)

	err = f.picture.Execute(context.Background(), ReplacePictureInput{ID: gone.ID, Picture: strings.NewReader("x"), Size: 1})
	assert.ErrorIs(t, err, apperror.ErrNoBucket)
}

func TestReplacePicture_UploadFailure(t *testing.T) {
	f := newFixture()
	created := f.mustCreate(t, "cats")
	f.storage.PutErr = errors.New("quota exceeded")

	err := f.picture.Execute(context.Background(), ReplacePictureInput{ID: created.ID, Picture: strings.NewReader("x"), Size: 1})

	assert.ErrorIs(t, err, apperror.ErrStorageWrite)
}

func TestReplacePicture_RequiresBody(t *testing.T) {
	f := newFixture()
	created := f.mustCreate(t, "cats")

	err := f.picture.Execute(context.Background(), ReplacePictureInput{ID: created.ID})

	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}
