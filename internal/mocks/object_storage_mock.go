package mocks

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/khoahotran/tag-service/internal/application/service"
)

type StoredObject struct {
	Data        []byte
	ContentType string
}

// MockObjectStorage is an in-memory service.ObjectStorage. Errors can be
// injected globally per operation or per bucket for listings.
type MockObjectStorage struct {
	mu      sync.Mutex
	buckets map[string]map[string]StoredObject
	created map[string]time.Time

	CreateBucketErr error
	DeleteBucketErr error
	DeleteObjectErr error
	ExistsErr       error
	PutErr          error
	ListErr         map[string]error
	ListBucketsErr  error

	CreateBucketCalls int
	DeleteBucketCalls int
}

var _ service.ObjectStorage = (*MockObjectStorage)(nil)

func NewMockObjectStorage() *MockObjectStorage {
	return &MockObjectStorage{
		buckets: make(map[string]map[string]StoredObject),
		created: make(map[string]time.Time),
		ListErr: make(map[string]error),
	}
}

// AddBucket creates a bucket directly, bypassing injected errors.
func (m *MockObjectStorage) AddBucket(name string, createdAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.buckets[name]; !ok {
		m.buckets[name] = make(map[string]StoredObject)
	}
	m.created[name] = createdAt
}

func (m *MockObjectStorage) HasBucket(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.buckets[name]
	return ok
}

func (m *MockObjectStorage) BucketCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.buckets)
}

func (m *MockObjectStorage) Object(bucket, key string) (StoredObject, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.buckets[bucket][key]
	return obj, ok
}

func (m *MockObjectStorage) BucketExists(_ context.Context, bucket string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ExistsErr != nil {
		return false, m.ExistsErr
	}
	_, ok := m.buckets[bucket]
	return ok, nil
}

func (m *MockObjectStorage) CreateBucket(_ context.Context, bucket string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateBucketCalls++
	if m.CreateBucketErr != nil {
		return m.CreateBucketErr
	}
	if _, ok := m.buckets[bucket]; !ok {
		m.buckets[bucket] = make(map[string]StoredObject)
		m.created[bucket] = time.Now()
	}
	return nil
}

func (m *MockObjectStorage) DeleteBucket(_ context.Context, bucket string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteBucketCalls++
	if m.DeleteBucketErr != nil {
		return m.DeleteBucketErr
	}
	objects, ok := m.buckets[bucket]
	if !ok {
		return fmt.Errorf("delete %s: %w", bucket, service.ErrBucketNotFound)
	}
	if len(objects) > 0 {
		return fmt.Errorf("bucket %s is not empty", bucket)
	}
	delete(m.buckets, bucket)
	delete(m.created, bucket)
	return nil
}

func (m *MockObjectStorage) PutObject(_ context.Context, bucket, key string, body io.Reader, _ int64, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PutErr != nil {
		return m.PutErr
	}
	objects, ok := m.buckets[bucket]
	if !ok {
		return fmt.Errorf("put %s/%s: %w", bucket, key, service.ErrBucketNotFound)
	}
	objects[key] = StoredObject{Data: data, ContentType: contentType}
	return nil
}

func (m *MockObjectStorage) DeleteObject(_ context.Context, bucket, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteObjectErr != nil {
		return m.DeleteObjectErr
	}
	objects, ok := m.buckets[bucket]
	if !ok {
		return fmt.Errorf("delete %s/%s: %w", bucket, key, service.ErrBucketNotFound)
	}
	delete(objects, key)
	return nil
}

func (m *MockObjectStorage) ListObjects(_ context.Context, bucket, prefix string) ([]service.ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ListErr[bucket]; err != nil {
		return nil, err
	}
	objects, ok := m.buckets[bucket]
	if !ok {
		return nil, fmt.Errorf("list %s: %w", bucket, service.ErrBucketNotFound)
	}
	out := make([]service.ObjectInfo, 0, len(objects))
	for key, obj := range objects {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		out = append(out, service.ObjectInfo{
			Key:         key,
			Size:        int64(len(obj.Data)),
			ContentType: obj.ContentType,
			URL:         "https://storage.test/" + bucket + "/" + key,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m *MockObjectStorage) ListBuckets(_ context.Context, prefix string) ([]service.BucketInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListBucketsErr != nil {
		return nil, m.ListBucketsErr
	}
	var out []service.BucketInfo
	for name := range m.buckets {
		if strings.HasPrefix(name, prefix) {
			out = append(out, service.BucketInfo{Name: name, CreatedAt: m.created[name]})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
