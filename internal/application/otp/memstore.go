package otp

import (
	"context"
	"fmt"
	"sync"

	"github.com/harshpatel9469/medoh-v2-sub002/internal/domain"
)

// MemoryStore is a process-local Store for single-instance deployments.
// Codes issued here are unverifiable on another instance; multi-instance
// deployments must use the DynamoDB-backed store instead.
type MemoryStore struct {
	mu    sync.RWMutex
	codes map[string]domain.OTPCode
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{codes: make(map[string]domain.OTPCode)}
}

func (m *MemoryStore) Put(_ context.Context, c *domain.OTPCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[c.Identifier] = *c
	return nil
}

func (m *MemoryStore) Get(_ context.Context, identifier string) (*domain.OTPCode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.codes[identifier]
	if !ok {
		return nil, fmt.Errorf("otp code not found: %w", domain.ErrNotFound)
	}
	return &c, nil
}

func (m *MemoryStore) Delete(_ context.Context, identifier string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.codes, identifier)
	return nil
}
