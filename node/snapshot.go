package node

import (
	"fmt"

	"github.com/0xPolygon/zksync-test-node/filters"
	"github.com/0xPolygon/zksync-test-node/fork"
	"github.com/0xPolygon/zksync-test-node/types"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"
)

// snapshot is a copy of the whole node state. Blocks and results are never
// modified once sealed so the maps holding them are copied shallowly.
type snapshot struct {
	time                 TimeState
	l1GasPrice           uint64
	l2GasPrice           uint64
	currentBatch         uint64
	currentMiniblock     uint64
	currentMiniblockHash common.Hash
	txResults            map[common.Hash]*TxResult
	blocks               map[common.Hash]*types.Block
	blockHashes          map[uint64]common.Hash
	filters              *filters.Registry
	impersonation        ImpersonationState
	richAccounts         []common.Address
	previousStates       map[common.Hash]map[types.StorageKey]common.Hash
	previousOrder        []common.Hash
	storage              fork.StorageState
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	cp := make(map[K]V, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

func (in *inner) snapshot() *snapshot {
	return &snapshot{
		time:                 in.time.State(),
		l1GasPrice:           in.l1GasPrice,
		l2GasPrice:           in.l2GasPrice,
		currentBatch:         in.currentBatch,
		currentMiniblock:     in.currentMiniblock,
		currentMiniblockHash: in.currentMiniblockHash,
		txResults:            copyMap(in.txResults),
		blocks:               copyMap(in.blocks),
		blockHashes:          copyMap(in.blockHashes),
		filters:              in.filters.Clone(),
		impersonation:        in.impersonation.State(),
		richAccounts:         in.richAccounts.ToSlice(),
		previousStates:       copyMap(in.previousStates),
		previousOrder:        append([]common.Hash(nil), in.previousOrder...),
		storage:              in.storage.Snapshot(),
	}
}

func (in *inner) restore(s *snapshot) {
	in.time.Restore(s.time)
	in.l1GasPrice = s.l1GasPrice
	in.l2GasPrice = s.l2GasPrice
	in.currentBatch = s.currentBatch
	in.currentMiniblock = s.currentMiniblock
	in.currentMiniblockHash = s.currentMiniblockHash
	in.txResults = copyMap(s.txResults)
	in.blocks = copyMap(s.blocks)
	in.blockHashes = copyMap(s.blockHashes)
	in.filters = s.filters.Clone()
	in.impersonation.Restore(s.impersonation)
	in.richAccounts = mapset.NewThreadUnsafeSet[common.Address](s.richAccounts...)
	in.previousStates = copyMap(s.previousStates)
	in.previousOrder = append([]common.Hash(nil), s.previousOrder...)
	in.storage.Restore(s.storage)
}

// snapshots is the stack of taken snapshots. Ids start at 1 and always match
// the position in the stack.
type snapshots struct {
	stack []*snapshot
}

func (s *snapshots) push(snap *snapshot) (uint64, error) {
	if len(s.stack) >= MaxSnapshots {
		return 0, fmt.Errorf("maximum number of '%d' snapshots exceeded", MaxSnapshots)
	}
	s.stack = append(s.stack, snap)
	return uint64(len(s.stack)), nil
}

// pop removes the snapshot id and every snapshot taken after it.
func (s *snapshots) pop(id uint64) (*snapshot, error) {
	if id == 0 || id > uint64(len(s.stack)) {
		return nil, fmt.Errorf("%w for the id '%d'", ErrSnapshotNotFound, id)
	}
	snap := s.stack[id-1]
	s.stack = s.stack[:id-1]
	return snap, nil
}

func (s *snapshots) reset() {
	s.stack = nil
}
