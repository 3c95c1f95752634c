package mocks

import (
	"context"
	"strconv"
	"sort"
	"sync"
	"time"

	"github.com/khoahotran/tag-service/internal/domain/tag"
	"github.com/khoahotran/tag-service/pkg/apperror"
)

// MockTagRepository is an in-memory tag.Repository with failure switches.
type MockTagRepository struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]tag.Tag

	InsertErr error
	UpdateErr error
	DeleteErr error
	ListErr   error

	InsertCalls int
	DeleteCalls int
}

var _ tag.Repository = (*MockTagRepository)(nil)

func NewMockTagRepository() *MockTagRepository {
	return &MockTagRepository{rows: make(map[int64]tag.Tag)}
}

// Seed stores t as is, assigning an ID when it has none.
func (m *MockTagRepository) Seed(t tag.Tag) *tag.Tag {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID == 0 {
		m.nextID++
		t.ID = m.nextID
	} else if t.ID > m.nextID {
		m.nextID = t.ID
	}
	m.rows[t.ID] = t
	return clone(&t)
}

func (m *MockTagRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func (m *MockTagRepository) Get(id int64) (*tag.Tag, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.rows[id]
	if !ok {
		return nil, false
	}
	return clone(&t), true
}

func (m *MockTagRepository) FindByName(_ context.Context, name string) (*tag.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range m.sortedIDs() {
		if t := m.rows[id]; t.Name == name {
			return clone(&t), nil
		}
	}
	return nil, apperror.NewNotFound("tag", name)
}

func (m *MockTagRepository) FindByID(_ context.Context, id int64) (*tag.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.rows[id]
	if !ok {
		return nil, apperror.NewNotFound("tag", strconv.FormatInt(id, 10))
	}
	return clone(&t), nil
}

func (m *MockTagRepository) Insert(_ context.Context, t *tag.Tag) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InsertCalls++
	if m.InsertErr != nil {
		return m.InsertErr
	}
	for _, row := range m.rows {
		if row.Name == t.Name {
			return apperror.NewConflict("tag", "name", t.Name)
		}
	}
	m.nextID++
	now := time.Now().UTC()
	t.ID = m.nextID
	t.CreatedAt = now
	t.UpdatedAt = now
	m.rows[t.ID] = *clone(t)
	return nil
}

func (m *MockTagRepository) Update(_ context.Context, t *tag.Tag) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	if _, ok := m.rows[t.ID]; !ok {
		return apperror.NewNotFound("tag", strconv.FormatInt(t.ID, 10))
	}
	t.UpdatedAt = time.Now().UTC()
	m.rows[t.ID] = *clone(t)
	return nil
}

func (m *MockTagRepository) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls++
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	if _, ok := m.rows[id]; !ok {
		return apperror.NewNotFound("tag", strconv.FormatInt(id, 10))
	}
	delete(m.rows, id)
	return nil
}

func (m *MockTagRepository) ListAll(_ context.Context) ([]*tag.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := make([]*tag.Tag, 0, len(m.rows))
	for _, id := range m.sortedIDs() {
		t := m.rows[id]
		out = append(out, clone(&t))
	}
	return out, nil
}

func (m *MockTagRepository) ListBucketRefs(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	var refs []string
	for _, id := range m.sortedIDs() {
		if t := m.rows[id]; t.HasBucket() {
			refs = append(refs, t.Bucket())
		}
	}
	return refs, nil
}

func (m *MockTagRepository) sortedIDs() []int64 {
	ids := make([]int64, 0, len(m.rows))
	for id := range m.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func clone(t *tag.Tag) *tag.Tag {
	c := *t
	if t.BucketRef != nil {
		ref := *t.BucketRef
		c.BucketRef = &ref
	}
	return &c
}
