package persistence

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/khoahotran/tag-service/internal/domain/tag"
	"github.com/khoahotran/tag-service/pkg/apperror"
	"github.com/khoahotran/tag-service/pkg/logger"
)

type TagRepoIntegrationTestSuite struct {
	suite.Suite
	dbPool      *pgxpool.Pool
	pgContainer *postgres.PostgresContainer
	tagRepo     tag.Repository
}

func (s *TagRepoIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(1*time.Minute),
		),
	)
	if err != nil {
		s.T().Fatalf("Failed to start postgres container: %s", err)
	}
	s.pgContainer = pgContainer

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		s.T().Fatalf("Failed to get connection string: %s", err)
	}

	m, err := migrate.New("file://../../migrations", dsn)
	if err != nil {
		s.T().Fatalf("Failed to create migrate instance: %s", err)
	}
	if err := m.Up(); err != nil {
		s.T().Fatalf("Failed to run migrations: %s", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		s.T().Fatalf("Failed to create pgxpool: %s", err)
	}
	s.dbPool = pool
	s.tagRepo = NewPostgresTagRepo(s.dbPool, logger.NewNopLogger())
}

func (s *TagRepoIntegrationTestSuite) SetupTest() {
	_, err := s.dbPool.Exec(context.Background(), `TRUNCATE tags RESTART IDENTITY`)
	s.Require().NoError(err)
}

func (s *TagRepoIntegrationTestSuite) TearDownSuite() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(context.Background()); err != nil {
			s.T().Fatalf("Failed to terminate postgres container: %s", err)
		}
	}
}

func TestTagRepoIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode.")
	}
	suite.Run(t, new(TagRepoIntegrationTestSuite))
}

func newTag(name string) *tag.Tag {
	ref := tag.NewBucketRef()
	return &tag.Tag{Name: name, BucketRef: &ref}
}

func (s *TagRepoIntegrationTestSuite) Test_Insert_And_Find() {
	ctx := context.Background()
	t := newTag("cats")

	s.Require().NoError(s.tagRepo.Insert(ctx, t))
	s.NotZero(t.ID)
	s.False(t.CreatedAt.IsZero())

	byID, err := s.tagRepo.FindByID(ctx, t.ID)
	s.Require().NoError(err)
	s.Equal("cats", byID.Name)
	s.Equal(t.Bucket(), byID.Bucket())

	byName, err := s.tagRepo.FindByName(ctx, "cats")
	s.Require().NoError(err)
	s.Equal(t.ID, byName.ID)

	_, err = s.tagRepo.FindByID(ctx, t.ID+100)
	s.ErrorIs(err, apperror.ErrNotFound)
	_, err = s.tagRepo.FindByName(ctx, "dogs")
	s.ErrorIs(err, apperror.ErrNotFound)
}

func (s *TagRepoIntegrationTestSuite) Test_Insert_DuplicateName() {
	ctx := context.Background()
	s.Require().NoError(s.tagRepo.Insert(ctx, newTag("cats")))

	err := s.tagRepo.Insert(ctx, newTag("cats"))

	s.ErrorIs(err, apperror.ErrConflict)
}

func (s *TagRepoIntegrationTestSuite) Test_Insert_ConcurrentSameName() {
	ctx := context.Background()
	const workers = 8

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.tagRepo.Insert(ctx, newTag("race"))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		s.ErrorIs(err, apperror.ErrConflict)
	}
	s.Equal(1, succeeded)
}

func (s *TagRepoIntegrationTestSuite) Test_Insert_NullBucket() {
	ctx := context.Background()
	t := &tag.Tag{Name: "plain"}

	s.Require().NoError(s.tagRepo.Insert(ctx, t))

	found, err := s.tagRepo.FindByID(ctx, t.ID)
	s.Require().NoError(err)
	s.Nil(found.BucketRef)
}

func (s *TagRepoIntegrationTestSuite) Test_Update_AllowsDuplicateName() {
	ctx := context.Background()
	a := newTag("a")
	b := newTag("b")
	s.Require().NoError(s.tagRepo.Insert(ctx, a))
	s.Require().NoError(s.tagRepo.Insert(ctx, b))

	a.Name = "b"
	s.Require().NoError(s.tagRepo.Update(ctx, a))

	found, err := s.tagRepo.FindByID(ctx, a.ID)
	s.Require().NoError(err)
	s.Equal("b", found.Name)
	s.Equal(a.Bucket(), found.Bucket())

	missing := &tag.Tag{ID: 9999, Name: "x"}
	s.ErrorIs(s.tagRepo.Update(ctx, missing), apperror.ErrNotFound)
}

func (s *TagRepoIntegrationTestSuite) Test_Delete() {
	ctx := context.Background()
	t := newTag("cats")
	s.Require().NoError(s.tagRepo.Insert(ctx, t))

	s.Require().NoError(s.tagRepo.Delete(ctx, t.ID))

	_, err := s.tagRepo.FindByID(ctx, t.ID)
	s.ErrorIs(err, apperror.ErrNotFound)
	s.ErrorIs(s.tagRepo.Delete(ctx, t.ID), apperror.ErrNotFound)
}

func (s *TagRepoIntegrationTestSuite) Test_ListAll_And_BucketRefs() {
	ctx := context.Background()
	first := newTag("first")
	plain := &tag.Tag{Name: "plain"}
	last := newTag("last")
	for _, t := range []*tag.Tag{first, plain, last} {
		s.Require().NoError(s.tagRepo.Insert(ctx, t))
	}

	all, err := s.tagRepo.ListAll(ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal(first.ID, all[0].ID)
	s.Equal(plain.ID, all[1].ID)
	s.Nil(all[1].BucketRef)
	s.Equal(last.ID, all[2].ID)

	refs, err := s.tagRepo.ListBucketRefs(ctx)
	s.Require().NoError(err)
	s.Equal([]string{first.Bucket(), last.Bucket()}, refs)
}
