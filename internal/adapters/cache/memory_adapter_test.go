package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAdapter_SetAndGet(t *testing.T) {
	adapter := NewMemoryAdapter()
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "k", []byte("v"), 60))

	value, err := adapter.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), value)
}

func TestMemoryAdapter_GetMissingKey(t *testing.T) {
	adapter := NewMemoryAdapter()

	_, err := adapter.Get(context.Background(), "absent")
	assert.ErrorContains(t, err, "key not found")
}

func TestMemoryAdapter_ExpiredEntryIsDropped(t *testing.T) {
	adapter := NewMemoryAdapter()
	ctx := context.Background()

	current := time.Now()
	adapter.now = func() time.Time { return current }

	require.NoError(t, adapter.Set(ctx, "k", []byte("v"), 10))

	current = current.Add(11 * time.Second)

	_, err := adapter.Get(ctx, "k")
	assert.ErrorContains(t, err, "key not found")

	// The stale entry is removed, not just hidden.
	adapter.mu.RLock()
	_, stillThere := adapter.entries["k"]
	adapter.mu.RUnlock()
	assert.False(t, stillThere)
}

func TestMemoryAdapter_EntryLivesUntilExpiry(t *testing.T) {
	adapter := NewMemoryAdapter()
	ctx := context.Background()

	current := time.Now()
	adapter.now = func() time.Time { return current }

	require.NoError(t, adapter.Set(ctx, "k", []byte("v"), 10))

	current = current.Add(9 * time.Second)

	value, err := adapter.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), value)
}

func TestMemoryAdapter_Delete(t *testing.T) {
	adapter := NewMemoryAdapter()
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "k", []byte("v"), 60))
	require.NoError(t, adapter.Delete(ctx, "k"))

	_, err := adapter.Get(ctx, "k")
	assert.Error(t, err)
}

func TestMemoryAdapter_GetReturnsCopy(t *testing.T) {
	adapter := NewMemoryAdapter()
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "k", []byte("abc"), 60))

	first, err := adapter.Get(ctx, "k")
	require.NoError(t, err)
	first[0] = 'x'

	second, err := adapter.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), second)
}
