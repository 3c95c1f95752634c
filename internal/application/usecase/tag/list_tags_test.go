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

func TestListTags_MixedRows(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	withPicture := f.mustCreate(t, "cats")
	empty := f.mustCreate(t, "dogs")
	noBucket := f.seedWithoutBucket("birds")
	require.NoError(t, f.storage.PutObject(ctx, withPicture.Bucket(), tag.PictureKey, strings.NewReader("x"), 1, "image/png"))

	out, err := f.list.Execute(ctx)

	require.NoError(t, err)
	require.Len(t, out.Tags, 3)
	assert.Equal(t, withPicture.ID, out.Tags[0].Tag.ID)
	assert.Len(t, out.Tags[0].Picture, 1)
	assert.Equal(t, empty.ID, out.Tags[1].Tag.ID)
	assert.NotNil(t, out.Tags[1].Picture)
	assert.Empty(t, out.Tags[1].Picture)
	assert.Equal(t, noBucket.ID, out.Tags[2].Tag.ID)
	assert.Nil(t, out.Tags[2].Picture)
}

func TestListTags_Empty(t *testing.T) {
	f := newFixture()

	out, err := f.list.Execute(context.Background())

	require.NoError(t, err)
	assert.Empty(t, out.Tags)
}

func TestListTags_OneBadBucketFailsEverything(t *testing.T) {
	f := newFixture()
	f.mustCreate(t, "cats")
	bad := f.mustCreate(t, "dogs")
	f.mustCreate(t, "birds")
	cause := errors.New("access denied")
	f.storage.ListErr[bad.Bucket()] = cause

	out, err := f.list.Execute(context.Background())

	assert.Nil(t, out)
	assert.ErrorIs(t, err, apperror.ErrStorageRead)
	assert.ErrorIs(t, err, cause)
}

func TestListTags_RepositoryFailure(t *testing.T) {
	f := newFixture()
	f.repo.ListErr = apperror.NewInternal("db down", nil)

	_, err := f.list.Execute(context.Background())

	assert.ErrorIs(t, err, apperror.ErrInternal)
}
