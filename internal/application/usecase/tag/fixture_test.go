package tag

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/khoahotran/tag-service/internal/domain/tag"
	"github.com/khoahotran/tag-service/internal/mocks"
	"github.com/khoahotran/tag-service/pkg/logger"
)

type fixture struct {
	repo    *mocks.MockTagRepository
	storage *mocks.MockObjectStorage
	locker  *mocks.MockLocker
	queue   *mocks.MockCleanupQueue

	create  *CreateTagUseCase
	get     *GetTagUseCase
	rename  *RenameTagUseCase
	del     *DeleteTagUseCase
	list    *ListTagsUseCase
	picture *ReplacePictureUseCase
}

func newFixture() *fixture {
	log := logger.NewNopLogger()
	f := &fixture{
		repo:    mocks.NewMockTagRepository(),
		storage: mocks.NewMockObjectStorage(),
		locker:  &mocks.MockLocker{},
		queue:   &mocks.MockCleanupQueue{},
	}
	f.create = NewCreateTagUseCase(f.repo, f.storage, f.locker, f.queue, log)
	f.get = NewGetTagUseCase(f.repo, f.storage, log)
	f.rename = NewRenameTagUseCase(f.repo, f.locker, log)
	f.del = NewDeleteTagUseCase(f.repo, f.storage, f.locker, f.queue, log)
	f.list = NewListTagsUseCase(f.repo, f.storage, log)
	f.picture = NewReplacePictureUseCase(f.repo, f.storage, f.locker, log)
	return f
}

func (f *fixture) mustCreate(t *testing.T, name string) *tag.Tag {
	t.Helper()
	out, err := f.create.Execute(context.Background(), CreateTagInput{Name: name})
	require.NoError(t, err)
	return out.Tag
}

// seedWithoutBucket stores a row whose bucket reference is null.
func (f *fixture) seedWithoutBucket(name string) *tag.Tag {
	return f.repo.Seed(tag.Tag{Name: name})
}
