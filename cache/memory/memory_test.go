package memory

import (
	"context"
	"testing"
	"time"

	"github.com/anoixa/image-share/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGetBytes(t *testing.T) {
	provider, err := NewMemory(DefaultConfig())
	require.NoError(t, err)
	defer provider.Close()

	ctx := context.Background()
	require.NoError(t, provider.Set(ctx, "key", []byte("value"), time.Minute))

	var got []byte
	require.NoError(t, provider.Get(ctx, "key", &got))
	assert.Equal(t, []byte("value"), got)
}

func TestGetMiss(t *testing.T) {
	provider, err := NewMemory(DefaultConfig())
	require.NoError(t, err)
	defer provider.Close()

	var got []byte
	err = provider.Get(context.Background(), "absent", &got)
	assert.True(t, cache.IsCacheMiss(err))
}

func TestDeleteAndExists(t *testing.T) {
	provider, err := NewMemory(DefaultConfig())
	require.NoError(t, err)
	defer provider.Close()

	ctx := context.Background()
	require.NoError(t, provider.Set(ctx, "key", []byte("v"), time.Minute))

	exists, err := provider.Exists(ctx, "key")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, provider.Delete(ctx, "key"))

	exists, err = provider.Exists(ctx, "key")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStructValuesRoundTrip(t *testing.T) {
	provider, err := NewMemory(DefaultConfig())
	require.NoError(t, err)
	defer provider.Close()

	type payload struct {
		Name  string
		Count int
	}

	ctx := context.Background()
	require.NoError(t, provider.Set(ctx, "key", payload{Name: "a", Count: 3}, time.Minute))

	var got payload
	require.NoError(t, provider.Get(ctx, "key", &got))
	assert.Equal(t, payload{Name: "a", Count: 3}, got)
}
