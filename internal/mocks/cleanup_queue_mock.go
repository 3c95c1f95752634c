package mocks

import (
	"context"
	"sync"

	"github.com/khoahotran/tag-service/internal/application/service"
)

type MockCleanupQueue struct {
	mu         sync.Mutex
	Requests   []service.BucketCleanupRequest
	EnqueueErr error
}

var _ service.CleanupQueue = (*MockCleanupQueue)(nil)

func (m *MockCleanupQueue) EnqueueBucketCleanup(_ context.Context, req service.BucketCleanupRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.EnqueueErr != nil {
		return m.EnqueueErr
	}
	m.Requests = append(m.Requests, req)
	return nil
}

func (m *MockCleanupQueue) Enqueued() []service.BucketCleanupRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]service.BucketCleanupRequest(nil), m.Requests...)
}
