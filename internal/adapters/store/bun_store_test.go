package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBunStore(t *testing.T) *BunStore {
	t.Helper()
	s, err := NewBunStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestBunStore_PutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestBunStore(t)

	_, ok, err := s.Get(ctx, "session")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, "session", []byte(`{"token":"abc"}`)))

	value, ok, err := s.Get(ctx, "session")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"token":"abc"}`, string(value))
}

func TestBunStore_PutOverwrites(t *testing.T) {
	ctx := context.Background()
	s := newTestBunStore(t)

	require.NoError(t, s.Put(ctx, "favorites", []byte(`[]`)))
	require.NoError(t, s.Put(ctx, "favorites", []byte(`[{"id":"1"}]`)))

	value, ok, err := s.Get(ctx, "favorites")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":"1"}]`, string(value))
}

func TestBunStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := newTestBunStore(t)

	require.NoError(t, s.Put(ctx, "session", []byte(`{}`)))
	require.NoError(t, s.Delete(ctx, "session"))
	require.NoError(t, s.Delete(ctx, "session")) // absent key is a no-op

	_, ok, err := s.Get(ctx, "session")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBunStore_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	s := newTestBunStore(t)

	require.NoError(t, s.Put(ctx, "session", []byte(`{"token":"abc"}`)))
	require.NoError(t, s.Put(ctx, "favorites", []byte(`[{"id":"1"}]`)))
	require.NoError(t, s.Delete(ctx, "session"))

	value, ok, err := s.Get(ctx, "favorites")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":"1"}]`, string(value))
}
