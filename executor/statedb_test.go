package executor

import (
	"math/big"
	"testing"

	"github.com/0xPolygon/zksync-test-node/fork"
	"github.com/0xPolygon/zksync-test-node/types"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateDBAccounts(t *testing.T) {
	s := fork.NewStorage(nil, testChainID)
	db := newStateDB(s)
	addr := common.HexToAddress("0xabc")

	assert.False(t, db.Exist(addr))
	assert.True(t, db.Empty(addr))
	assert.Equal(t, common.Hash{}, db.GetCodeHash(addr))

	db.AddBalance(addr, big.NewInt(10))
	assert.True(t, db.Exist(addr))
	assert.Equal(t, ethtypes.EmptyCodeHash, db.GetCodeHash(addr))
	db.SubBalance(addr, big.NewInt(3))
	assert.Equal(t, big.NewInt(7), db.GetBalance(addr))

	db.SetNonce(addr, 4)
	assert.Equal(t, uint64(4), db.GetNonce(addr))

	code := []byte{0x60, 0x00}
	db.SetCode(addr, code)
	assert.Equal(t, code, db.GetCode(addr))
	assert.Equal(t, 2, db.GetCodeSize(addr))
	assert.Equal(t, types.BytecodeHash(code), db.GetCodeHash(addr))

	db.SetState(addr, common.HexToHash("0x1"), common.HexToHash("0x2"))
	assert.Equal(t, common.HexToHash("0x2"), db.GetState(addr, common.HexToHash("0x1")))
	assert.Equal(t, common.Hash{}, db.GetCommittedState(addr, common.HexToHash("0x1")))

	diff := db.diff()
	assert.Equal(t, types.BigToHash(big.NewInt(7)), diff[types.BalanceKey(addr)])
	assert.Equal(t, common.HexToHash("0x2"), diff[types.NewStorageKey(addr, common.HexToHash("0x1"))])
	assert.Equal(t, code, db.factoryDeps(nil)[types.BytecodeHash(code)])
}

func TestStateDBSnapshots(t *testing.T) {
	s := fork.NewStorage(nil, testChainID)
	db := newStateDB(s)
	addr := common.HexToAddress("0xabc")
	slot := common.HexToHash("0x1")

	db.SetState(addr, slot, common.HexToHash("0x1"))
	first := db.Snapshot()
	db.SetState(addr, slot, common.HexToHash("0x2"))
	db.AddRefund(10)
	db.AddLog(&ethtypes.Log{Address: addr})
	db.AddSlotToAccessList(addr, slot)
	db.SetTransientState(addr, slot, common.HexToHash("0x3"))
	second := db.Snapshot()
	db.SetState(addr, slot, common.HexToHash("0x4"))

	db.RevertToSnapshot(second)
	assert.Equal(t, common.HexToHash("0x2"), db.GetState(addr, slot))

	db.RevertToSnapshot(first)
	assert.Equal(t, common.HexToHash("0x1"), db.GetState(addr, slot))
	assert.Equal(t, uint64(0), db.GetRefund())
	assert.Empty(t, db.logs)
	assert.False(t, db.AddressInAccessList(addr))
	assert.Equal(t, common.Hash{}, db.GetTransientState(addr, slot))

	require.Panics(t, func() { db.RevertToSnapshot(second) })
}

func TestStateDBSelfDestruct(t *testing.T) {
	s := fork.NewStorage(nil, testChainID)
	addr := common.HexToAddress("0xabc")
	slot := common.HexToHash("0x1")
	s.SetValue(types.BalanceKey(addr), types.BigToHash(big.NewInt(5)))
	installCode(s, addr, []byte{0x00})
	s.SetValue(types.NewStorageKey(addr, slot), common.HexToHash("0x9"))

	db := newStateDB(s)
	db.Selfdestruct6780(addr)
	assert.False(t, db.HasSelfDestructed(addr), "only accounts created in the same transaction")

	db.SelfDestruct(addr)
	assert.True(t, db.HasSelfDestructed(addr))
	assert.True(t, db.Exist(addr))
	db.finalise()

	diff := db.diff()
	assert.Equal(t, common.Hash{}, diff[types.BalanceKey(addr)])
	assert.Equal(t, common.Hash{}, diff[types.CodeKey(addr)])
	_, touched := diff[types.NewStorageKey(addr, slot)]
	assert.False(t, touched)
}
