package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory SnapshotStore for service tests.
type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memStore) Put(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memStore) Close() error { return nil }

func (m *memStore) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

func TestGuard_EstablishThenValid(t *testing.T) {
	store := newMemStore()
	guard := NewGuard(store)

	require.NoError(t, guard.Establish("abc", time.Now().Add(time.Hour)))

	assert.True(t, guard.CurrentValid())
	assert.Equal(t, "abc", guard.Token())
	assert.True(t, store.has(sessionKey), "session must be persisted")
}

func TestGuard_ExpiredSessionClearsItself(t *testing.T) {
	store := newMemStore()
	now := time.Now()
	guard := newGuard(store, func() time.Time { return now })

	require.NoError(t, guard.Establish("abc", now.Add(time.Minute)))
	require.True(t, guard.CurrentValid())

	// Move past expiry: the validity check itself must clear the session.
	now = now.Add(2 * time.Minute)

	assert.False(t, guard.CurrentValid())
	assert.Empty(t, guard.Token(), "no token retrievable after expiry")
	assert.False(t, store.has(sessionKey), "stale session must not linger in storage")
}

func TestGuard_EstablishWithPastExpiry(t *testing.T) {
	store := newMemStore()
	guard := NewGuard(store)

	require.NoError(t, guard.Establish("abc", time.Now().Add(-time.Hour)))

	assert.False(t, guard.CurrentValid())
	assert.Empty(t, guard.Token())
}

func TestGuard_InvalidateIsIdempotent(t *testing.T) {
	store := newMemStore()
	guard := NewGuard(store)

	require.NoError(t, guard.Establish("abc", time.Now().Add(time.Hour)))
	require.NoError(t, guard.Invalidate())
	require.NoError(t, guard.Invalidate())

	assert.False(t, guard.CurrentValid())
	assert.False(t, store.has(sessionKey))
}

func TestGuard_ReloadsPersistedSession(t *testing.T) {
	store := newMemStore()

	first := NewGuard(store)
	require.NoError(t, first.Establish("persisted", time.Now().Add(time.Hour)))

	second := NewGuard(store)
	assert.True(t, second.CurrentValid())
	assert.Equal(t, "persisted", second.Token())
}

func TestGuard_CorruptPersistedSessionTreatedAsAbsent(t *testing.T) {
	store := newMemStore()
	require.NoError(t, store.Put(context.Background(), sessionKey, []byte("{not json")))

	guard := NewGuard(store)
	assert.False(t, guard.CurrentValid())
	assert.Empty(t, guard.Token())
}

func TestGuard_NoSessionIsInvalid(t *testing.T) {
	guard := NewGuard(newMemStore())
	assert.False(t, guard.CurrentValid())
}
