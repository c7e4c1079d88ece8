package fork

import (
	"context"
	"sync"

	"github.com/0xPolygon/zksync-test-node/log"
	"github.com/0xPolygon/zksync-test-node/types"
	"github.com/ethereum/go-ethereum/common"
)

// StorageState is the data held by Storage. It is also the unit captured by
// snapshots, so copies are always deep.
type StorageState struct {
	RawStorage      map[types.StorageKey]common.Hash
	FactoryDeps     map[common.Hash][]byte
	ValueReadCache  map[types.StorageKey]common.Hash
	FactoryDepCache map[common.Hash][]byte
}

func newStorageState() StorageState {
	return StorageState{
		RawStorage:      make(map[types.StorageKey]common.Hash),
		FactoryDeps:     make(map[common.Hash][]byte),
		ValueReadCache:  make(map[types.StorageKey]common.Hash),
		FactoryDepCache: make(map[common.Hash][]byte),
	}
}

// Copy returns a deep copy of the state
func (s StorageState) Copy() StorageState {
	cp := newStorageState()
	for k, v := range s.RawStorage {
		cp.RawStorage[k] = v
	}
	for k, v := range s.ValueReadCache {
		cp.ValueReadCache[k] = v
	}
	for k, v := range s.FactoryDeps {
		cp.FactoryDeps[k] = common.CopyBytes(v)
	}
	for k, v := range s.FactoryDepCache {
		cp.FactoryDepCache[k] = common.CopyBytes(v)
	}
	return cp
}

// Storage is the in-memory state of the node: authoritative values written
// locally, overlaid on the fork (if any) which is read lazily and memoized.
type Storage struct {
	mu      sync.RWMutex
	state   StorageState
	fork    *Details
	chainID uint64
}

// NewStorage creates the storage. fork may be nil.
func NewStorage(fork *Details, chainID uint64) *Storage {
	return &Storage{
		state:   newStorageState(),
		fork:    fork,
		chainID: chainID,
	}
}

// Fork returns the fork details, nil when the node is not forked.
func (s *Storage) Fork() *Details {
	return s.fork
}

// ChainID of the node
func (s *Storage) ChainID() uint64 {
	return s.chainID
}

// ReadValue returns the value of key: the local value if written, else the
// memoized fork value, else the value read from the fork. Missing values and
// fork failures read as zero.
func (s *Storage) ReadValue(key types.StorageKey) common.Hash {
	s.mu.RLock()
	if v, ok := s.state.RawStorage[key]; ok {
		s.mu.RUnlock()
		return v
	}
	s.mu.RUnlock()
	return s.ReadForkValue(key)
}

// ReadForkValue returns the value key had at the fork block, ignoring local writes.
func (s *Storage) ReadForkValue(key types.StorageKey) common.Hash {
	s.mu.RLock()
	if v, ok := s.state.ValueReadCache[key]; ok {
		s.mu.RUnlock()
		return v
	}
	s.mu.RUnlock()

	if s.fork == nil {
		return common.Hash{}
	}

	v, err := s.fork.Source.GetStorageAt(context.Background(), key.Address, key.Key, s.fork.PinnedBlock())
	if err != nil {
		log.Warnf("failed to read %s from the fork: %v", key, err)
		return common.Hash{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ValueReadCache[key] = v
	return v
}

// IsWriteInitial reports whether key has never held a non-zero value.
func (s *Storage) IsWriteInitial(key types.StorageKey) bool {
	s.mu.RLock()
	_, ok := s.state.RawStorage[key]
	s.mu.RUnlock()
	if ok {
		return false
	}
	return s.ReadValue(key) == (common.Hash{})
}

// SetValue writes a local value. The fork is never contacted.
func (s *Storage) SetValue(key types.StorageKey, value common.Hash) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.RawStorage[key] = value
}

// SetValues writes a batch of local values atomically.
func (s *Storage) SetValues(values map[types.StorageKey]common.Hash) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range values {
		s.state.RawStorage[k] = v
	}
}

// RawValue returns the local value of key without falling back to the fork.
func (s *Storage) RawValue(key types.StorageKey) (common.Hash, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.state.RawStorage[key]
	return v, ok
}

// CachedValue returns the memoized fork value of key.
func (s *Storage) CachedValue(key types.StorageKey) (common.Hash, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.state.ValueReadCache[key]
	return v, ok
}

// LoadFactoryDep returns the bytecode stored under hash, looking up the fork
// when it is not known locally. It returns nil when the bytecode is unknown.
func (s *Storage) LoadFactoryDep(hash common.Hash) []byte {
	s.mu.RLock()
	if code, ok := s.state.FactoryDeps[hash]; ok {
		s.mu.RUnlock()
		return code
	}
	if code, ok := s.state.FactoryDepCache[hash]; ok {
		s.mu.RUnlock()
		return code
	}
	s.mu.RUnlock()

	if s.fork == nil {
		return nil
	}

	code, err := s.fork.Source.GetBytecodeByHash(context.Background(), hash)
	if err != nil {
		log.Debugf("bytecode %s not found in the fork: %v", hash, err)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.FactoryDepCache[hash] = code
	return code
}

// StoreFactoryDep stores a bytecode locally.
func (s *Storage) StoreFactoryDep(hash common.Hash, code []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.FactoryDeps[hash] = common.CopyBytes(code)
}

// RawStorageCopy returns a copy of the local values. It is what gets archived
// for historical reads when a block is sealed.
func (s *Storage) RawStorageCopy() map[types.StorageKey]common.Hash {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := make(map[types.StorageKey]common.Hash, len(s.state.RawStorage))
	for k, v := range s.state.RawStorage {
		cp[k] = v
	}
	return cp
}

// Snapshot returns a deep copy of the whole state.
func (s *Storage) Snapshot() StorageState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Copy()
}

// Restore replaces the whole state with a copy of state.
func (s *Storage) Restore(state StorageState) {
	cp := state.Copy()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = cp
}
