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

func TestDeleteTag_RemovesRowObjectAndBucket(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created := f.mustCreate(t, "cats")
	require.NoError(t, f.storage.PutObject(ctx, created.Bucket(), tag.PictureKey, strings.NewReader("img"), 3, "image/jpeg"))

	require.NoError(t, f.del.Execute(ctx, DeleteTagInput{ID: created.ID}))

	_, ok := f.repo.Get(created.ID)
	assert.False(t, ok)
	assert.False(t, f.storage.HasBucket(created.Bucket()))
	assert.Empty(t, f.queue.Enqueued())
}

func TestDeleteTag_NotFound(t *testing.T) {
	f := newFixture()

	err := f.del.Execute(context.Background(), DeleteTagInput{ID: 99})

	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Zero(t, f.repo.DeleteCalls)
}

func TestDeleteTag_RowRemovedWhenBucketDeletionFails(t *testing.T) {
	f := newFixture()
	created := f.mustCreate(t, "cats")
	f.storage.DeleteBucketErr = errors.New("bucket busy")

	require.NoError(t, f.del.Execute(context.Background(), DeleteTagInput{ID: created.ID}))

	_, ok := f.repo.Get(created.ID)
	assert.False(t, ok, "row is removed regardless of bucket cleanup")
	requests := f.queue.Enqueued()
	require.Len(t, requests, 1)
	assert.Equal(t, created.Bucket(), requests[0].Bucket)
	assert.Equal(t, created.ID, requests[0].TagID)
	assert.Equal(t, ReasonDeleteFailed, requests[0].Reason)
}

func TestDeleteTag_RowRemovedWhenStorageUnreachable(t *testing.T) {
	f := newFixture()
	created := f.mustCreate(t, "cats")
	f.storage.ExistsErr = errors.New("timeout")
	f.queue.EnqueueErr = errors.New("kafka down")

	require.NoError(t, f.del.Execute(context.Background(), DeleteTagInput{ID: created.ID}))

	_, ok := f.repo.Get(created.ID)
	assert.False(t, ok)
}

func TestDeleteTag_MissingBucketSkipsStorage(t *testing.T) {
	f := newFixture()
	seeded := f.seedWithoutBucket("plain")
	ref := tag.NewBucketRef()
	gone := f.repo.Seed(tag.Tag{Name: "gone", BucketRef: &ref})

	require.NoError(t, f.del.Execute(context.Background(), DeleteTagInput{ID: seeded.ID}))
	require.NoError(t, f.del.Execute(context.Background(), DeleteTagInput{ID: gone.ID}))

	assert.Zero(t, f.storage.DeleteBucketCalls)
	assert.Zero(t, f.repo.Count())
}

func TestDeleteTag_RepositoryFailure(t *testing.T) {
	f := newFixture()
	created := f.mustCreate(t, "cats")
	f.repo.DeleteErr = apperror.NewInternal("db down", nil)

	err := f.del.Execute(context.Background(), DeleteTagInput{ID: created.ID})

	assert.ErrorIs(t, err, apperror.ErrInternal)
}
