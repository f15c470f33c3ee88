package store

import (
	"context"
	"sync"

	"github.com/edupath/dashclient/client/auth/session"
)

// Store is a pluggable persistence layer for session credentials.
type Store interface {
	session.Persister
}

type memoryStore struct {
	mu          sync.RWMutex
	credentials *session.Credentials
}

func (m *memoryStore) Load(ctx context.Context) (*session.Credentials, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.credentials == nil {
		return nil, nil
	}
	ret := *m.credentials
	return &ret, nil
}

func (m *memoryStore) Save(ctx context.Context, credentials *session.Credentials) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot := *credentials
	m.credentials = &snapshot
	return nil
}

func (m *memoryStore) Delete(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.credentials = nil
	return nil
}

// NewMemoryStore creates a process-local store
func NewMemoryStore() Store {
	return &memoryStore{}
}
