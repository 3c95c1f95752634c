package mocks

import (
	"context"
	"sync"

	"github.com/khoahotran/tag-service/internal/application/service"
)

// MockLocker records lock keys and fails when LockErr is set. It does not
// block.
type MockLocker struct {
	mu      sync.Mutex
	Keys    []string
	Held    int
	LockErr error
}

var _ service.Locker = (*MockLocker)(nil)

func (m *MockLocker) Lock(_ context.Context, key string) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LockErr != nil {
		return nil, m.LockErr
	}
	m.Keys = append(m.Keys, key)
	m.Held++
	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			m.Held--
			m.mu.Unlock()
		})
	}, nil
}
