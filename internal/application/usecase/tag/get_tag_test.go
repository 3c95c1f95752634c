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

func TestGetTag_ReturnsPictureListing(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created := f.mustCreate(t, "cats")
	require.NoError(t, f.storage.PutObject(ctx, created.Bucket(), tag.PictureKey, strings.NewReader("png"), 3, "image/png"))

	out, err := f.get.Execute(ctx, GetTagInput{ID: created.ID})

	require.NoError(t, err)
	assert.Equal(t, created.ID, out.Tag.ID)
	assert.Equal(t, "cats", out.Tag.Name)
	require.Len(t, out.Picture, 1)
	assert.Equal(t, tag.PictureKey, out.Picture[0].Key)
	assert.Equal(t, "image/png", out.Picture[0].ContentType)
}

func TestGetTag_EmptyBucketListsNothing(t *testing.T) {
	f := newFixture()
	created := f.mustCreate(t, "cats")

	out, err := f.get.Execute(context.Background(), GetTagInput{ID: created.ID})

	require.NoError(t, err)
	assert.NotNil(t, out.Picture)
	assert.Empty(t, out.Picture)
}

func TestGetTag_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.get.Execute(context.Background(), GetTagInput{ID: 42})

	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestGetTag_NullBucketReference(t *testing.T) {
	f := newFixture()
	seeded := f.seedWithoutBucket("orphan")

	_, err := f.get.Execute(context.Background(), GetTagInput{ID: seeded.ID})

	assert.ErrorIs(t, err, apperror.ErrNoBucket)
}

func TestGetTag_MissingBucketIsNoBucket(t *testing.T) {
	f := newFixture()
	ref := tag.NewBucketRef()
	seeded := f.repo.Seed(tag.Tag{Name: "ghost", BucketRef: &ref})

	_, err := f.get.Execute(context.Background(), GetTagInput{ID: seeded.ID})

	assert.ErrorIs(t, err, apperror.ErrNoBucket)
}

func TestGetTag_StorageFailureKeepsCause(t *testing.T) {
	f := newFixture()
	created := f.mustCreate(t, "cats")
	cause := errors.New("connection reset")
	f.storage.ListErr[created.Bucket()] = cause

	_, err := f.get.Execute(context.Background(), GetTagInput{ID: created.ID})

	assert.ErrorIs(t, err, apperror.ErrStorageRead)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, apperror.ErrNoBucket)
}
