package sqlcache

import (
	"context"
	"path/filepath"
	"testing"

	localCommon "github.com/0xPolygon/zksync-test-node/common"
	"github.com/0xPolygon/zksync-test-node/types"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := New(localCommon.SQLLiteDriverName, filepath.Join(t.TempDir(), "cache.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

func TestCache_PutGet(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache(t)

	tests := []struct {
		name        string
		kind        string
		key         string
		value       []byte
		expectedErr error
	}{
		{
			name:  "Put new block",
			kind:  "blocks_full",
			key:   "0x1",
			value: []byte(`{"number":"0x1"}`),
		},
		{
			name:  "Same key with another kind",
			kind:  "blocks_min",
			key:   "0x1",
			value: []byte(`{"number":"0x1","transactions":[]}`),
		},
		{
			name:        "Duplicate entry",
			kind:        "blocks_full",
			key:         "0x1",
			value:       []byte(`{"number":"0x2"}`),
			expectedErr: types.ErrAlreadyExists,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := cache.Put(ctx, test.kind, test.key, test.value)
			if test.expectedErr != nil {
				require.ErrorIs(t, err, test.expectedErr)
				return
			}
			require.NoError(t, err)

			value, err := cache.Get(ctx, test.kind, test.key)
			require.NoError(t, err)
			require.Equal(t, test.value, value)
		})
	}
}

func TestCache_GetMissing(t *testing.T) {
	cache := newTestCache(t)

	_, err := cache.Get(context.Background(), "transactions", "0xdead")
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestCache_RemoveAndEmpty(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache(t)

	require.NoError(t, cache.Put(ctx, "transactions", "0x1", []byte(`{}`)))
	require.NoError(t, cache.Put(ctx, "transactions", "0x2", []byte(`{}`)))

	require.NoError(t, cache.Remove(ctx, "transactions", "0x1"))
	require.ErrorIs(t, cache.Remove(ctx, "transactions", "0x1"), types.ErrNotFound)

	require.NoError(t, cache.Empty(ctx))
	_, err := cache.Get(ctx, "transactions", "0x2")
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestCache_CorruptedEntry(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache(t)

	require.NoError(t, cache.Put(ctx, "bytecodes", "0xabc", []byte(`"0x00"`)))
	_, err := cache.db.ExecContext(ctx, "UPDATE fork_cache SET value = $1 WHERE cache_key = $2", `"0x01"`, "0xabc")
	require.NoError(t, err)

	_, err = cache.Get(ctx, "bytecodes", "0xabc")
	require.ErrorIs(t, err, types.ErrNotFound)

	// the corrupted row is gone so the value can be stored again
	require.NoError(t, cache.Put(ctx, "bytecodes", "0xabc", []byte(`"0x00"`)))
}

func TestUnsupportedDriver(t *testing.T) {
	_, err := New("mysql", "")
	require.ErrorContains(t, err, "unsupported fork cache driver")
}

func TestDialect(t *testing.T) {
	require.Equal(t, "postgres", dialect(localCommon.PostgresDriverName))
	require.Equal(t, "sqlite3", dialect(localCommon.SQLLiteDriverName))
}
