package fork

import (
	"errors"
	"testing"

	"github.com/0xPolygon/zksync-test-node/mocks"
	"github.com/0xPolygon/zksync-test-node/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	testAddr = common.HexToAddress("0x36615Cf349d7F6344891B1e7CA7C72883F5dc049")
	testKey  = types.NewStorageKey(testAddr, common.HexToHash("0x1"))
)

func newForkedStorage(t *testing.T) (*Storage, *mocks.ForkSource) {
	t.Helper()
	source := mocks.NewForkSource(t)
	details := &Details{Source: source, L2MiniblockNumber: 42}
	return NewStorage(details, 260), source
}

func TestReadValueFallsBackToFork(t *testing.T) {
	storage, source := newForkedStorage(t)

	value := common.HexToHash("0xabcd")
	source.EXPECT().GetStorageAt(mock.Anything, testAddr, testKey.Key, mock.Anything).
		Return(value, nil).Once()

	_, cached := storage.CachedValue(testKey)
	require.False(t, cached)

	require.Equal(t, value, storage.ReadValue(testKey))

	cachedValue, cached := storage.CachedValue(testKey)
	require.True(t, cached)
	require.Equal(t, value, cachedValue)

	// memoized, the fork is not called again
	require.Equal(t, value, storage.ReadValue(testKey))
}

func TestReadValueOrder(t *testing.T) {
	storage, source := newForkedStorage(t)

	source.EXPECT().GetStorageAt(mock.Anything, testAddr, testKey.Key, mock.Anything).
		Return(common.HexToHash("0x1"), nil).Once()
	require.Equal(t, common.HexToHash("0x1"), storage.ReadValue(testKey))

	storage.SetValue(testKey, common.HexToHash("0x2"))
	require.Equal(t, common.HexToHash("0x2"), storage.ReadValue(testKey))

	// local writes never reach the read cache
	cachedValue, _ := storage.CachedValue(testKey)
	require.Equal(t, common.HexToHash("0x1"), cachedValue)
}

func TestReadValueForkFailure(t *testing.T) {
	storage, source := newForkedStorage(t)

	source.EXPECT().GetStorageAt(mock.Anything, testAddr, testKey.Key, mock.Anything).
		Return(common.Hash{}, errors.New("boom")).Once()

	require.Equal(t, common.Hash{}, storage.ReadValue(testKey))
	_, cached := storage.CachedValue(testKey)
	require.False(t, cached)
}

func TestReadValueWithoutFork(t *testing.T) {
	storage := NewStorage(nil, 260)
	require.Equal(t, common.Hash{}, storage.ReadValue(testKey))
	require.True(t, storage.IsWriteInitial(testKey))

	storage.SetValue(testKey, common.HexToHash("0x5"))
	require.Equal(t, common.HexToHash("0x5"), storage.ReadValue(testKey))
	require.False(t, storage.IsWriteInitial(testKey))
	require.Nil(t, storage.Fork())
	require.Equal(t, uint64(260), storage.ChainID())
}

func TestLoadFactoryDep(t *testing.T) {
	storage, source := newForkedStorage(t)
	local := common.HexToHash("0x01")
	remote := common.HexToHash("0x02")
	missing := common.HexToHash("0x03")

	storage.StoreFactoryDep(local, []byte{1})
	source.EXPECT().GetBytecodeByHash(mock.Anything, remote).Return([]byte{2}, nil).Once()
	source.EXPECT().GetBytecodeByHash(mock.Anything, missing).Return(nil, types.ErrNotFound).Once()

	require.Equal(t, []byte{1}, storage.LoadFactoryDep(local))
	require.Equal(t, []byte{2}, storage.LoadFactoryDep(remote))
	require.Equal(t, []byte{2}, storage.LoadFactoryDep(remote))
	require.Nil(t, storage.LoadFactoryDep(missing))
}

func TestSnapshotRestore(t *testing.T) {
	storage := NewStorage(nil, 260)
	storage.SetValue(testKey, common.HexToHash("0x1"))
	storage.StoreFactoryDep(common.HexToHash("0xaa"), []byte{1, 2})

	snapshot := storage.Snapshot()
	archived := storage.RawStorageCopy()

	storage.SetValue(testKey, common.HexToHash("0x2"))
	storage.StoreFactoryDep(common.HexToHash("0xbb"), []byte{3})
	require.Equal(t, common.HexToHash("0x1"), archived[testKey])

	storage.Restore(snapshot)
	require.Equal(t, common.HexToHash("0x1"), storage.ReadValue(testKey))
	require.Nil(t, storage.LoadFactoryDep(common.HexToHash("0xbb")))
	require.Equal(t, []byte{1, 2}, storage.LoadFactoryDep(common.HexToHash("0xaa")))

	// restoring does not alias the snapshot
	storage.SetValue(testKey, common.HexToHash("0x3"))
	require.Equal(t, common.HexToHash("0x1"), snapshot.RawStorage[testKey])
}
