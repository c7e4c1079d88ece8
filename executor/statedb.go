package executor

import (
	"math/big"
	"sort"

	"github.com/0xPolygon/zksync-test-node/types"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/params"
	"github.com/holiman/uint256"
)

var _ vm.StateDB = (*stateDB)(nil)

type revision struct {
	id           int
	journalIndex int
}

// stateDB exposes the zkSync storage layout to the EVM as an account model:
// balances live in the base token contract, nonces in the nonce holder and
// code hashes in the account code storage. Every write is kept in an overlay
// so the outcome of a transaction is a plain storage diff.
type stateDB struct {
	base Storage

	dirty      map[types.StorageKey]common.Hash
	deps       map[common.Hash][]byte
	created    map[common.Address]bool
	destructed map[common.Address]bool
	transient  map[common.Address]map[common.Hash]common.Hash
	accessList *accessList
	refund     uint64
	logs       []*ethtypes.Log

	storageLogs []StorageLog

	journal        journal
	validRevisions []revision
	nextRevisionID int
}

func newStateDB(base Storage) *stateDB {
	return &stateDB{
		base:       base,
		dirty:      make(map[types.StorageKey]common.Hash),
		deps:       make(map[common.Hash][]byte),
		created:    make(map[common.Address]bool),
		destructed: make(map[common.Address]bool),
		transient:  make(map[common.Address]map[common.Hash]common.Hash),
		accessList: newAccessList(),
	}
}

func (s *stateDB) getValue(key types.StorageKey) common.Hash {
	if v, ok := s.dirty[key]; ok {
		return v
	}
	v := s.base.ReadValue(key)
	s.storageLogs = append(s.storageLogs, StorageLog{Kind: StorageRead, Key: key, Value: v})
	return v
}

func (s *stateDB) setValue(key types.StorageKey, value common.Hash) {
	prev, written := s.dirty[key]
	s.journal.append(valueChange{key: key, prev: prev, written: written})
	s.dirty[key] = value
	s.storageLogs = append(s.storageLogs, StorageLog{Kind: StorageWrite, Key: key, Value: value})
}

func (s *stateDB) fullNonce(addr common.Address) (txNonce, deploymentNonce *uint256.Int) {
	return types.DecomposeFullNonce(s.getValue(types.NonceKey(addr)))
}

// CreateAccount resets the nonce and the code of addr, the balance is kept.
func (s *stateDB) CreateAccount(addr common.Address) {
	s.journal.append(createChange{account: addr})
	s.created[addr] = true
	s.setValue(types.NonceKey(addr), common.Hash{})
	s.setValue(types.CodeKey(addr), common.Hash{})
}

func (s *stateDB) GetBalance(addr common.Address) *big.Int {
	return types.HashToBig(s.getValue(types.BalanceKey(addr)))
}

func (s *stateDB) setBalance(addr common.Address, amount *big.Int) {
	s.setValue(types.BalanceKey(addr), types.BigToHash(amount))
}

func (s *stateDB) AddBalance(addr common.Address, amount *big.Int) {
	if amount.Sign() == 0 {
		return
	}
	s.setBalance(addr, new(big.Int).Add(s.GetBalance(addr), amount))
}

func (s *stateDB) SubBalance(addr common.Address, amount *big.Int) {
	if amount.Sign() == 0 {
		return
	}
	s.setBalance(addr, new(big.Int).Sub(s.GetBalance(addr), amount))
}

func (s *stateDB) GetNonce(addr common.Address) uint64 {
	txNonce, _ := s.fullNonce(addr)
	return txNonce.Uint64()
}

// SetNonce updates the transaction nonce and keeps the deployment nonce.
func (s *stateDB) SetNonce(addr common.Address, nonce uint64) {
	_, deploymentNonce := s.fullNonce(addr)
	s.setValue(types.NonceKey(addr), types.ComposeFullNonce(uint256.NewInt(nonce), deploymentNonce))
}

func (s *stateDB) codeHash(addr common.Address) common.Hash {
	return s.getValue(types.CodeKey(addr))
}

func (s *stateDB) GetCodeHash(addr common.Address) common.Hash {
	if hash := s.codeHash(addr); hash != (common.Hash{}) {
		return hash
	}
	if !s.Exist(addr) {
		return common.Hash{}
	}
	return ethtypes.EmptyCodeHash
}

func (s *stateDB) GetCode(addr common.Address) []byte {
	hash := s.codeHash(addr)
	if hash == (common.Hash{}) {
		return nil
	}
	if code, ok := s.deps[hash]; ok {
		return code
	}
	return s.base.LoadFactoryDep(hash)
}

// SetCode stores code as a factory dependency and points addr at it.
func (s *stateDB) SetCode(addr common.Address, code []byte) {
	hash := types.BytecodeHash(code)
	if hash != (common.Hash{}) {
		s.deps[hash] = common.CopyBytes(code)
	}
	s.setValue(types.CodeKey(addr), hash)
}

func (s *stateDB) GetCodeSize(addr common.Address) int {
	return len(s.GetCode(addr))
}

func (s *stateDB) AddRefund(gas uint64) {
	s.journal.append(refundChange{prev: s.refund})
	s.refund += gas
}

func (s *stateDB) SubRefund(gas uint64) {
	s.journal.append(refundChange{prev: s.refund})
	if gas > s.refund {
		s.refund = 0
		return
	}
	s.refund -= gas
}

func (s *stateDB) GetRefund() uint64 {
	return s.refund
}

// GetCommittedState returns the value a slot had before the transaction started.
func (s *stateDB) GetCommittedState(addr common.Address, slot common.Hash) common.Hash {
	return s.base.ReadValue(types.NewStorageKey(addr, slot))
}

func (s *stateDB) GetState(addr common.Address, slot common.Hash) common.Hash {
	return s.getValue(types.NewStorageKey(addr, slot))
}

func (s *stateDB) SetState(addr common.Address, slot common.Hash, value common.Hash) {
	s.setValue(types.NewStorageKey(addr, slot), value)
}

func (s *stateDB) GetTransientState(addr common.Address, key common.Hash) common.Hash {
	return s.transient[addr][key]
}

func (s *stateDB) SetTransientState(addr common.Address, key, value common.Hash) {
	prev := s.GetTransientState(addr, key)
	if prev == value {
		return
	}
	s.journal.append(transientStorageChange{account: addr, key: key, prev: prev})
	s.setTransientState(addr, key, value)
}

func (s *stateDB) setTransientState(addr common.Address, key, value common.Hash) {
	slots, ok := s.transient[addr]
	if !ok {
		slots = make(map[common.Hash]common.Hash)
		s.transient[addr] = slots
	}
	slots[key] = value
}

// SelfDestruct marks addr for removal and burns its balance. The account is
// wiped by finalise, its storage slots are left untouched.
func (s *stateDB) SelfDestruct(addr common.Address) {
	s.journal.append(destructChange{account: addr, prev: s.destructed[addr]})
	s.destructed[addr] = true
	s.setBalance(addr, new(big.Int))
}

func (s *stateDB) HasSelfDestructed(addr common.Address) bool {
	return s.destructed[addr]
}

func (s *stateDB) Selfdestruct6780(addr common.Address) {
	if s.created[addr] {
		s.SelfDestruct(addr)
	}
}

func (s *stateDB) Exist(addr common.Address) bool {
	if s.created[addr] || s.destructed[addr] {
		return true
	}
	return !s.Empty(addr)
}

func (s *stateDB) Empty(addr common.Address) bool {
	txNonce, deploymentNonce := s.fullNonce(addr)
	return txNonce.IsZero() && deploymentNonce.IsZero() &&
		s.GetBalance(addr).Sign() == 0 &&
		s.codeHash(addr) == (common.Hash{})
}

func (s *stateDB) AddressInAccessList(addr common.Address) bool {
	return s.accessList.ContainsAddress(addr)
}

func (s *stateDB) SlotInAccessList(addr common.Address, slot common.Hash) (addressOk bool, slotOk bool) {
	return s.accessList.Contains(addr, slot)
}

func (s *stateDB) AddAddressToAccessList(addr common.Address) {
	if s.accessList.AddAddress(addr) {
		s.journal.append(accessListAddAccountChange{address: addr})
	}
}

func (s *stateDB) AddSlotToAccessList(addr common.Address, slot common.Hash) {
	addrMod, slotMod := s.accessList.AddSlot(addr, slot)
	if addrMod {
		s.journal.append(accessListAddAccountChange{address: addr})
	}
	if slotMod {
		s.journal.append(accessListAddSlotChange{address: addr, slot: slot})
	}
}

// Prepare warms up the access list and clears the transient storage before a transaction.
func (s *stateDB) Prepare(rules params.Rules, sender, coinbase common.Address, dst *common.Address, precompiles []common.Address, list ethtypes.AccessList) {
	if rules.IsBerlin {
		al := newAccessList()
		s.accessList = al

		al.AddAddress(sender)
		if dst != nil {
			al.AddAddress(*dst)
		}
		for _, addr := range precompiles {
			al.AddAddress(addr)
		}
		for _, el := range list {
			al.AddAddress(el.Address)
			for _, key := range el.StorageKeys {
				al.AddSlot(el.Address, key)
			}
		}
		if rules.IsShanghai {
			al.AddAddress(coinbase)
		}
	}
	s.transient = make(map[common.Address]map[common.Hash]common.Hash)
}

func (s *stateDB) Snapshot() int {
	id := s.nextRevisionID
	s.nextRevisionID++
	s.validRevisions = append(s.validRevisions, revision{id: id, journalIndex: s.journal.length()})
	return id
}

func (s *stateDB) RevertToSnapshot(revid int) {
	idx := sort.Search(len(s.validRevisions), func(i int) bool {
		return s.validRevisions[i].id >= revid
	})
	if idx == len(s.validRevisions) || s.validRevisions[idx].id != revid {
		panic("revision id cannot be reverted")
	}
	snapshot := s.validRevisions[idx].journalIndex

	s.journal.revert(s, snapshot)
	s.validRevisions = s.validRevisions[:idx]
}

func (s *stateDB) AddLog(log *ethtypes.Log) {
	s.journal.append(addLogChange{})
	log.Index = uint(len(s.logs))
	s.logs = append(s.logs, log)
}

func (s *stateDB) AddPreimage(common.Hash, []byte) {}

// finalise wipes the accounts destructed by the transaction.
func (s *stateDB) finalise() {
	for addr := range s.destructed {
		s.setValue(types.NonceKey(addr), common.Hash{})
		s.setValue(types.CodeKey(addr), common.Hash{})
		s.setValue(types.BalanceKey(addr), common.Hash{})
	}
}

// diff returns the values written by the transaction.
func (s *stateDB) diff() map[types.StorageKey]common.Hash {
	out := make(map[types.StorageKey]common.Hash, len(s.dirty))
	for k, v := range s.dirty {
		out[k] = v
	}
	return out
}

// factoryDeps returns the bytecodes published by the transaction: the ones it
// carried and the ones deployed by it that are still referenced.
func (s *stateDB) factoryDeps(carried [][]byte) map[common.Hash][]byte {
	out := make(map[common.Hash][]byte)
	for _, dep := range carried {
		if hash := types.BytecodeHash(dep); hash != (common.Hash{}) {
			out[hash] = dep
		}
	}
	for key, value := range s.dirty {
		if key.Address != types.AccountCodeStorageAddress {
			continue
		}
		if code, ok := s.deps[value]; ok {
			out[value] = code
		}
	}
	return out
}
