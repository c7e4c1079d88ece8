package fork

import (
	"context"
	"testing"

	"github.com/0xPolygon/zksync-test-node/types"
	"github.com/stretchr/testify/require"
)

func TestNewCache(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name string
		cfg  CacheConfig
		err  bool
	}{
		{name: "none", cfg: CacheConfig{Type: CacheNone}},
		{name: "default", cfg: CacheConfig{}},
		{name: "memory", cfg: CacheConfig{Type: CacheMemory, Size: 2}},
		{name: "disk", cfg: CacheConfig{Type: CacheDisk, Dir: t.TempDir(), Reset: true}},
		{name: "unknown", cfg: CacheConfig{Type: "redis"}, err: true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cache, err := NewCache(ctx, c.cfg)
			if c.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NoError(t, cache.Put(ctx, KindTransactions, "0x1", []byte("{}")))
		})
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	cache, err := newMemoryCache(2)
	require.NoError(t, err)

	require.NoError(t, cache.Put(ctx, KindBlocksFull, "0x1", []byte("a")))
	require.NoError(t, cache.Put(ctx, KindBlocksMin, "0x1", []byte("b")))

	value, err := cache.Get(ctx, KindBlocksFull, "0x1")
	require.NoError(t, err)
	require.Equal(t, []byte("a"), value)

	// the least recently used entry is evicted
	require.NoError(t, cache.Put(ctx, KindBlocksFull, "0x2", []byte("c")))
	_, err = cache.Get(ctx, KindBlocksMin, "0x1")
	require.ErrorIs(t, err, types.ErrNotFound)

	require.NoError(t, cache.Empty(ctx))
	_, err = cache.Get(ctx, KindBlocksFull, "0x1")
	require.ErrorIs(t, err, types.ErrNotFound)
}
