package node

import (
	"context"
	"encoding/binary"
	"math/big"

	"github.com/0xPolygon/zksync-test-node/executor"
	"github.com/0xPolygon/zksync-test-node/filters"
	"github.com/0xPolygon/zksync-test-node/fork"
	"github.com/0xPolygon/zksync-test-node/log"
	"github.com/0xPolygon/zksync-test-node/types"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// TxResult is everything the node keeps about an included transaction
type TxResult struct {
	Tx              *types.L2Tx
	BatchNumber     uint64
	MiniblockNumber uint64
	Result          *executor.Result
	Receipt         *types.TransactionReceipt
	Debug           types.DebugCall
}

// DebugInfo returns the call tree, without the inner calls when onlyTop is set.
func (r *TxResult) DebugInfo(onlyTop bool) types.DebugCall {
	call := r.Debug
	if onlyTop {
		call.Calls = []types.DebugCall{}
	}
	return call
}

// inner is the state guarded by the node lock.
type inner struct {
	chainID    uint64
	l1GasPrice uint64
	l2GasPrice uint64

	time                 *TimeManager
	currentBatch         uint64
	currentMiniblock     uint64
	currentMiniblockHash common.Hash

	txResults   map[common.Hash]*TxResult
	blocks      map[common.Hash]*types.Block
	blockHashes map[uint64]common.Hash

	filters       *filters.Registry
	impersonation *ImpersonationManager
	richAccounts  mapset.Set[common.Address]

	previousStates map[common.Hash]map[types.StorageKey]common.Hash
	// archive order, oldest first
	previousOrder []common.Hash

	storage *fork.Storage
	knobs   Knobs
}

// BlockHash computes the hash of the block number on top of parent
func BlockHash(number uint64, parent common.Hash) common.Hash {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], number)
	return crypto.Keccak256Hash(n[:], parent.Bytes())
}

func newEmptyBlock(number, timestamp, batch uint64, parent common.Hash, baseFee uint64) *types.Block {
	l1Batch := hexutil.Uint64(batch)
	l1BatchTimestamp := hexutil.Uint64(timestamp)
	return &types.Block{
		Hash:             BlockHash(number, parent),
		ParentHash:       parent,
		UncleHash:        ethtypes.EmptyUncleHash,
		Miner:            types.BootloaderAddress,
		TxRoot:           ethtypes.EmptyTxsHash,
		ReceiptsRoot:     ethtypes.EmptyReceiptsHash,
		Number:           hexutil.Uint64(number),
		L1BatchNumber:    &l1Batch,
		GasLimit:         BlockGasLimit,
		BaseFeePerGas:    (*hexutil.Big)(new(big.Int).SetUint64(baseFee)),
		ExtraData:        hexutil.Bytes{},
		Timestamp:        hexutil.Uint64(timestamp),
		L1BatchTimestamp: &l1BatchTimestamp,
		Difficulty:       (*hexutil.Big)(new(big.Int)),
		TotalDifficulty:  (*hexutil.Big)(new(big.Int)),
		SealFields:       []hexutil.Bytes{},
		Uncles:           []common.Hash{},
		Transactions:     types.BlockTransactions{Full: true, Txs: []types.Transaction{}},
	}
}

// newInner builds the state of a node forked from details, or a genesis only
// node when details is nil.
func newInner(cfg Config, chainID uint64, details *fork.Details) (*inner, error) {
	in := &inner{
		chainID:        chainID,
		l1GasPrice:     cfg.L1GasPrice,
		l2GasPrice:     cfg.L2GasPrice,
		txResults:      make(map[common.Hash]*TxResult),
		blocks:         make(map[common.Hash]*types.Block),
		blockHashes:    make(map[uint64]common.Hash),
		filters:        filters.NewRegistry(),
		impersonation:  NewImpersonationManager(),
		richAccounts:   mapset.NewThreadUnsafeSet[common.Address](),
		previousStates: make(map[common.Hash]map[types.StorageKey]common.Hash),
		storage:        fork.NewStorage(details, chainID),
		knobs:          cfg.Knobs,
	}
	in.impersonation.SetAuto(cfg.AutoImpersonate)

	if details != nil {
		in.time = NewTimeManager(details.BlockTimestamp)
		in.currentBatch = details.L1BatchNumber
		in.currentMiniblock = details.L2MiniblockNumber
		in.currentMiniblockHash = details.L2MiniblockHash
		if details.L1GasPrice != 0 {
			in.l1GasPrice = details.L1GasPrice
		}
	} else {
		genesis := newEmptyBlock(0, NonForkFirstBlockTimestamp, 0, common.Hash{}, in.l2GasPrice)
		in.time = NewTimeManager(NonForkFirstBlockTimestamp)
		in.currentMiniblockHash = genesis.Hash
		in.blocks[genesis.Hash] = genesis
		in.blockHashes[0] = genesis.Hash
	}

	balance, err := cfg.richBalance()
	if err != nil {
		return nil, err
	}
	for _, wallet := range RichWallets {
		in.setRichAccount(common.HexToAddress(wallet.Address), balance)
	}
	for _, acc := range cfg.GenesisAccounts {
		b, err := parseWei(acc.Balance)
		if err != nil {
			return nil, err
		}
		in.setRichAccount(acc.Address, b)
		if acc.Code != "" {
			code := common.FromHex(acc.Code)
			hash := types.BytecodeHash(code)
			in.storage.StoreFactoryDep(hash, code)
			in.storage.SetValue(types.CodeKey(acc.Address), hash)
		}
		for slot, value := range acc.Storage {
			in.storage.SetValue(types.NewStorageKey(acc.Address, common.HexToHash(slot)), common.HexToHash(value))
		}
	}
	if details == nil {
		in.archiveState(in.currentMiniblockHash)
	}
	return in, nil
}

func (in *inner) setRichAccount(addr common.Address, balance *big.Int) {
	in.storage.SetValue(types.BalanceKey(addr), types.BigToHash(balance))
	in.richAccounts.Add(addr)
}

func (in *inner) forkDetails() *fork.Details {
	return in.storage.Fork()
}

// resolveBlockNumber maps a block number or tag onto a block number. Tags
// resolve to the current block and numbers are capped at it.
func (in *inner) resolveBlockNumber(bn types.BlockNumber) uint64 {
	return bn.Resolve(in.currentMiniblock)
}

// resolveBlockID returns the number of the block selected by id, the current one when id is nil.
func (in *inner) resolveBlockID(id *types.BlockID) (uint64, bool) {
	if id == nil {
		return in.currentMiniblock, true
	}
	if id.Hash != nil {
		if b, ok := in.blocks[*id.Hash]; ok {
			return uint64(b.Number), true
		}
		return 0, false
	}
	if id.Number != nil {
		return in.resolveBlockNumber(*id.Number), true
	}
	return in.currentMiniblock, true
}

// blockByNumber returns the local block, or the fork one for blocks up to the fork block.
func (in *inner) blockByNumber(ctx context.Context, bn types.BlockNumber, full bool) (*types.Block, error) {
	number := in.resolveBlockNumber(bn)
	if hash, ok := in.blockHashes[number]; ok {
		return in.blocks[hash].WithHashes(full), nil
	}
	if f := in.forkDetails(); f != nil && number <= f.L2MiniblockNumber {
		lookup := bn
		if bn.IsTag() {
			lookup = types.BlockNumber(number)
		}
		b, err := f.Source.GetBlockByNumber(ctx, lookup, full)
		if err != nil {
			log.Debugf("block %d not found in the fork: %v", number, err)
			return nil, nil
		}
		return b, nil
	}
	return nil, nil
}

func (in *inner) blockByHash(ctx context.Context, hash common.Hash, full bool) (*types.Block, error) {
	if b, ok := in.blocks[hash]; ok {
		return b.WithHashes(full), nil
	}
	if f := in.forkDetails(); f != nil {
		b, err := f.Source.GetBlockByHash(ctx, hash, full)
		if err != nil {
			log.Debugf("block %s not found in the fork: %v", hash, err)
			return nil, nil
		}
		return b, nil
	}
	return nil, nil
}

func (in *inner) localBlock(number uint64) (*types.Block, bool) {
	hash, ok := in.blockHashes[number]
	if !ok {
		return nil, false
	}
	b, ok := in.blocks[hash]
	return b, ok
}

// transaction returns a local transaction, or asks the fork.
func (in *inner) transaction(ctx context.Context, hash common.Hash) (*types.Transaction, error) {
	if r, ok := in.txResults[hash]; ok {
		if b, ok := in.localBlock(r.MiniblockNumber); ok {
			for _, tx := range b.Transactions.Txs {
				if tx.Hash == hash {
					tx := tx
					return &tx, nil
				}
			}
		}
	}
	if f := in.forkDetails(); f != nil {
		tx, err := f.Source.GetTransactionByHash(ctx, hash)
		if err != nil {
			log.Debugf("transaction %s not found in the fork: %v", hash, err)
			return nil, nil
		}
		return tx, nil
	}
	return nil, nil
}

func transactionAt(b *types.Block, index uint64) *types.Transaction {
	if !b.Transactions.Full || index >= uint64(len(b.Transactions.Txs)) {
		return nil
	}
	tx := b.Transactions.Txs[index]
	return &tx
}

// storageAt reads a slot as it was at the end of the selected block.
func (in *inner) storageAt(ctx context.Context, addr common.Address, slot common.Hash, id *types.BlockID) (common.Hash, error) {
	key := types.NewStorageKey(addr, slot)
	number, ok := in.resolveBlockID(id)
	if !ok {
		return common.Hash{}, ErrNoBlock
	}
	if number == in.currentMiniblock {
		return in.storage.ReadValue(key), nil
	}
	if hash, ok := in.blockHashes[number]; ok {
		state, archived := in.previousStates[hash]
		if !archived {
			return in.storage.ReadValue(key), nil
		}
		if v, ok := state[key]; ok {
			return v, nil
		}
		return in.storage.ReadForkValue(key), nil
	}
	f := in.forkDetails()
	if f == nil {
		return common.Hash{}, ErrNoBlock
	}
	v, err := f.Source.GetStorageAt(ctx, addr, slot, types.BlockIDFromNumber(types.BlockNumber(number)))
	if err != nil {
		log.Errorf("unable to get storage at address %s, index %s for block %d: %v", addr, slot, number, err)
		return common.Hash{}, err
	}
	return v, nil
}

func (in *inner) balance(addr common.Address) *big.Int {
	return types.HashToBig(in.storage.ReadValue(types.BalanceKey(addr)))
}

func (in *inner) nonces(addr common.Address) (txNonce, deploymentNonce uint64) {
	tx, deployment := types.DecomposeFullNonce(in.storage.ReadValue(types.NonceKey(addr)))
	return tx.Uint64(), deployment.Uint64()
}

func (in *inner) code(addr common.Address) []byte {
	hash := in.storage.ReadValue(types.CodeKey(addr))
	if hash == (common.Hash{}) {
		return []byte{}
	}
	code := in.storage.LoadFactoryDep(hash)
	if code == nil {
		return []byte{}
	}
	return code
}

// archiveState keeps a copy of the local storage as the state at the end of block hash.
func (in *inner) archiveState(hash common.Hash) {
	if len(in.previousOrder) >= MaxPreviousStates {
		oldest := in.previousOrder[0]
		in.previousOrder = in.previousOrder[1:]
		delete(in.previousStates, oldest)
		log.Debugf("removing archived state for previous block %s", oldest)
	}
	log.Debugf("archiving state for %s #%d", hash, in.currentMiniblock)
	in.previousStates[hash] = in.storage.RawStorageCopy()
	in.previousOrder = append(in.previousOrder, hash)
}

func (in *inner) executionEnv(mode executor.Mode, number, timestamp, gasLimit uint64) executor.Env {
	return executor.Env{
		Mode:        mode,
		ChainID:     in.chainID,
		BlockNumber: number,
		Timestamp:   timestamp,
		BaseFee:     new(big.Int).SetUint64(in.l2GasPrice),
		GasLimit:    gasLimit,
		GetHash: func(n uint64) common.Hash {
			return in.blockHashes[n]
		},
	}
}
