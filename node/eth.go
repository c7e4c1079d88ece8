package node

import (
	"context"
	"errors"
	"math/big"
	"sort"
	"time"

	"github.com/0xPolygon/zksync-test-node/filters"
	"github.com/0xPolygon/zksync-test-node/log"
	"github.com/0xPolygon/zksync-test-node/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// maxFeeHistoryBlocks bounds the block count of FeeHistory
const maxFeeHistoryBlocks = 1024

// ChainID of the node
func (n *Node) ChainID() uint64 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.inner.chainID
}

// BlockNumber is the number of the latest miniblock
func (n *Node) BlockNumber() uint64 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.inner.currentMiniblock
}

// L1BatchNumber is the number of the latest L1 batch
func (n *Node) L1BatchNumber() uint64 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.inner.currentBatch
}

// GasPrice is the L2 gas price, the base fee of every block
func (n *Node) GasPrice() *big.Int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return new(big.Int).SetUint64(n.inner.l2GasPrice)
}

// L1GasPrice used by the fee model
func (n *Node) L1GasPrice() uint64 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.inner.l1GasPrice
}

// Accounts returns the rich accounts
func (n *Node) Accounts() []common.Address {
	n.mu.RLock()
	defer n.mu.RUnlock()
	accounts := n.inner.richAccounts.ToSlice()
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Hex() < accounts[j].Hex()
	})
	return accounts
}

// GetBlockByNumber returns nil when the block is unknown
func (n *Node) GetBlockByNumber(ctx context.Context, bn types.BlockNumber, full bool) (*types.Block, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.inner.blockByNumber(ctx, bn, full)
}

// GetBlockByHash returns nil when the block is unknown
func (n *Node) GetBlockByHash(ctx context.Context, hash common.Hash, full bool) (*types.Block, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.inner.blockByHash(ctx, hash, full)
}

// GetBlockTransactionCountByNumber returns nil when the block is unknown
func (n *Node) GetBlockTransactionCountByNumber(ctx context.Context, bn types.BlockNumber) (*uint64, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	number := n.inner.resolveBlockNumber(bn)
	if b, ok := n.inner.localBlock(number); ok {
		count := uint64(b.Transactions.Len())
		return &count, nil
	}
	if f := n.inner.forkDetails(); f != nil && number <= f.L2MiniblockNumber {
		count, err := f.Source.GetBlockTransactionCountByNumber(ctx, types.BlockNumber(number))
		if err != nil {
			log.Debugf("transaction count of block %d not found in the fork: %v", number, err)
			return nil, nil
		}
		return &count, nil
	}
	return nil, nil
}

// GetBlockTransactionCountByHash returns nil when the block is unknown
func (n *Node) GetBlockTransactionCountByHash(ctx context.Context, hash common.Hash) (*uint64, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if b, ok := n.inner.blocks[hash]; ok {
		count := uint64(b.Transactions.Len())
		return &count, nil
	}
	if f := n.inner.forkDetails(); f != nil {
		count, err := f.Source.GetBlockTransactionCountByHash(ctx, hash)
		if err != nil {
			log.Debugf("transaction count of block %s not found in the fork: %v", hash, err)
			return nil, nil
		}
		return &count, nil
	}
	return nil, nil
}

// GetTransactionByHash returns nil when the transaction is unknown
func (n *Node) GetTransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.inner.transaction(ctx, hash)
}

// GetTransactionByBlockHashAndIndex returns nil when the transaction is unknown
func (n *Node) GetTransactionByBlockHashAndIndex(ctx context.Context, hash common.Hash, index uint64) (*types.Transaction, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if b, ok := n.inner.blocks[hash]; ok {
		return transactionAt(b, index), nil
	}
	if f := n.inner.forkDetails(); f != nil {
		tx, err := f.Source.GetTransactionByBlockHashAndIndex(ctx, hash, index)
		if err != nil {
			log.Debugf("transaction %d of block %s not found in the fork: %v", index, hash, err)
			return nil, nil
		}
		return tx, nil
	}
	return nil, nil
}

// GetTransactionByBlockNumberAndIndex returns nil when the transaction is unknown
func (n *Node) GetTransactionByBlockNumberAndIndex(ctx context.Context, bn types.BlockNumber, index uint64) (*types.Transaction, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	number := n.inner.resolveBlockNumber(bn)
	if b, ok := n.inner.localBlock(number); ok {
		return transactionAt(b, index), nil
	}
	if f := n.inner.forkDetails(); f != nil && number <= f.L2MiniblockNumber {
		tx, err := f.Source.GetTransactionByBlockNumberAndIndex(ctx, types.BlockNumber(number), index)
		if err != nil {
			log.Debugf("transaction %d of block %d not found in the fork: %v", index, number, err)
			return nil, nil
		}
		return tx, nil
	}
	return nil, nil
}

// GetTransactionReceipt returns nil for transactions not included in a local block
func (n *Node) GetTransactionReceipt(hash common.Hash) *types.TransactionReceipt {
	n.mu.RLock()
	defer n.mu.RUnlock()
	r, ok := n.inner.txResults[hash]
	if !ok {
		return nil
	}
	return r.Receipt
}

// GetBalance of addr at the end of the selected block
func (n *Node) GetBalance(ctx context.Context, addr common.Address, id *types.BlockID) (*big.Int, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	key := types.BalanceKey(addr)
	v, err := n.inner.storageAt(ctx, key.Address, key.Key, id)
	if err != nil {
		return nil, err
	}
	return types.HashToBig(v), nil
}

// GetTransactionCount is the transaction nonce of addr at the end of the selected block
func (n *Node) GetTransactionCount(ctx context.Context, addr common.Address, id *types.BlockID) (uint64, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	key := types.NonceKey(addr)
	v, err := n.inner.storageAt(ctx, key.Address, key.Key, id)
	if err != nil {
		return 0, err
	}
	txNonce, _ := types.DecomposeFullNonce(v)
	return txNonce.Uint64(), nil
}

// GetCode of addr at the end of the selected block, empty for accounts without code
func (n *Node) GetCode(ctx context.Context, addr common.Address, id *types.BlockID) ([]byte, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	key := types.CodeKey(addr)
	hash, err := n.inner.storageAt(ctx, key.Address, key.Key, id)
	if err != nil {
		return nil, err
	}
	if hash == (common.Hash{}) {
		return []byte{}, nil
	}
	code := n.inner.storage.LoadFactoryDep(hash)
	if code == nil {
		return []byte{}, nil
	}
	return code, nil
}

// GetStorageAt reads a slot at the end of the selected block
func (n *Node) GetStorageAt(ctx context.Context, addr common.Address, slot common.Hash, id *types.BlockID) (common.Hash, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.inner.storageAt(ctx, addr, slot, id)
}

// SendRawTransaction decodes and submits a signed transaction
func (n *Node) SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error) {
	tx, err := types.DecodeL2Tx(raw, n.ChainID())
	if err != nil {
		return common.Hash{}, NewInvalidTransactionError("%v", err)
	}
	tx.ReceivedAt = time.Now()
	return n.submit(ctx, tx)
}

// SendTransaction submits an unsigned transaction of an impersonated account
func (n *Node) SendTransaction(ctx context.Context, req types.CallRequest) (common.Hash, error) {
	if req.From == nil {
		return common.Hash{}, NewInvalidTransactionError("missing from address")
	}
	if req.GasPrice != nil && (req.MaxFeePerGas != nil || req.MaxPriorityFeePerGas != nil) {
		return common.Hash{}, NewInvalidTransactionError("Transaction contains unsupported fields: max_fee_per_gas or max_priority_fee_per_gas")
	}

	n.mu.RLock()
	chainID := n.inner.chainID
	l2GasPrice := new(big.Int).SetUint64(n.inner.l2GasPrice)
	nonce, _ := n.inner.nonces(*req.From)
	impersonated := n.inner.impersonation.IsImpersonating(*req.From)
	n.mu.RUnlock()

	if !impersonated {
		return common.Hash{}, NewInvalidTransactionError("Initiator address %s is not allowed to perform transactions", req.From)
	}

	args := types.ImpersonatedTxArgs{
		From:  *req.From,
		To:    req.To,
		Nonce: nonce,
		Gas:   MaxL2TxGasLimit,
		Data:  req.Calldata(),
	}
	if req.Nonce != nil {
		args.Nonce = uint64(*req.Nonce)
	}
	if req.Gas != nil {
		args.Gas = req.Gas.ToInt().Uint64()
	}
	if req.Value != nil {
		args.Value = req.Value.ToInt()
	}
	if req.GasPrice != nil {
		args.GasPrice = req.GasPrice.ToInt()
	} else {
		args.MaxFeePerGas = l2GasPrice
		if req.MaxFeePerGas != nil {
			args.MaxFeePerGas = req.MaxFeePerGas.ToInt()
		}
		if req.MaxPriorityFeePerGas != nil {
			args.MaxPriorityFeePerGas = req.MaxPriorityFeePerGas.ToInt()
		}
	}

	tx, err := types.NewImpersonatedTx(args, chainID)
	if err != nil {
		return common.Hash{}, NewInvalidTransactionError("%v", err)
	}
	tx.ReceivedAt = time.Now()
	return n.submit(ctx, tx)
}

// submit validates tx and either seals it right away or queues it for the next seal.
func (n *Node) submit(ctx context.Context, tx *types.L2Tx) (common.Hash, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.inner.checkInitiator(tx); err != nil {
		return common.Hash{}, err
	}
	if err := n.inner.validateTx(tx); err != nil {
		return common.Hash{}, err
	}

	if !n.sealer.IsImmediate() {
		if err := n.pool.Add(tx); err != nil {
			return common.Hash{}, NewInvalidTransactionError("%v", err)
		}
		n.inner.filters.NotifyNewPendingTransaction(tx.Hash)
		return tx.Hash, nil
	}

	if err := validatePoolTx(tx); err != nil {
		return common.Hash{}, NewInvalidTransactionError("%v", err)
	}
	n.inner.filters.NotifyNewPendingTransaction(tx.Hash)
	sealed, err := n.seal(ctx, []*types.L2Tx{tx}, 0, true)
	if err != nil {
		return common.Hash{}, err
	}
	if err, halted := sealed.Halted[tx.Hash]; halted {
		return common.Hash{}, err
	}
	return tx.Hash, nil
}

// callTx builds the transaction run by Call and EstimateFee. The lock must be held.
func (n *Node) callTx(req types.CallRequest) *types.L2Tx {
	var nonce uint64
	if req.From != nil {
		nonce, _ = n.inner.nonces(*req.From)
	}
	return req.ToL2Tx(n.inner.chainID, new(big.Int).SetUint64(n.inner.l2GasPrice), nonce)
}

// Call runs req on top of the latest block without changing the state
func (n *Node) Call(ctx context.Context, req types.CallRequest) ([]byte, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	result, err := n.inner.ethCall(ctx, n.vm, n.callTx(req))
	if err != nil {
		return nil, err
	}
	return result.Output, nil
}

// EstimateFee returns the fee a transaction needs to succeed
func (n *Node) EstimateFee(ctx context.Context, req types.CallRequest) (types.Fee, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.inner.estimateFee(ctx, n.vm, n.callTx(req))
}

// EstimateGas is the gas limit of EstimateFee
func (n *Node) EstimateGas(ctx context.Context, req types.CallRequest) (uint64, error) {
	fee, err := n.EstimateFee(ctx, req)
	if err != nil {
		return 0, err
	}
	return fee.GasLimit.Uint64(), nil
}

// GetLogs returns the logs of local blocks matching criteria
func (n *Node) GetLogs(criteria filters.LogFilter) []types.Log {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.inner.logs(&criteria)
}

func (in *inner) logs(criteria *filters.LogFilter) []types.Log {
	var first uint64
	if f := in.forkDetails(); f != nil {
		first = f.L2MiniblockNumber + 1
	}
	logs := []types.Log{}
	for number := first; number <= in.currentMiniblock; number++ {
		b, ok := in.localBlock(number)
		if !ok {
			continue
		}
		if criteria.BlockHash != nil && *criteria.BlockHash != b.Hash {
			continue
		}
		for _, tx := range b.Transactions.Txs {
			r, ok := in.txResults[tx.Hash]
			if !ok {
				continue
			}
			for i := range r.Receipt.Logs {
				if criteria.Matches(&r.Receipt.Logs[i], in.currentMiniblock) {
					logs = append(logs, r.Receipt.Logs[i])
				}
			}
		}
	}
	return logs
}

// FeeHistory reports the constant L2 gas price for the requested range.
func (n *Node) FeeHistory(blockCount uint64, newest types.BlockNumber, percentiles []float64) *types.FeeHistory {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if blockCount > maxFeeHistoryBlocks {
		blockCount = maxFeeHistoryBlocks
	}
	if blockCount == 0 {
		blockCount = 1
	}
	newestNumber := n.inner.resolveBlockNumber(newest)
	if blockCount > newestNumber+1 {
		blockCount = newestNumber + 1
	}
	oldest := newestNumber + 1 - blockCount

	history := &types.FeeHistory{
		OldestBlock:   hexutil.Uint64(oldest),
		BaseFeePerGas: make([]*hexutil.Big, 0, blockCount+1),
		GasUsedRatio:  make([]float64, 0, blockCount),
		Reward:        make([][]*hexutil.Big, 0, blockCount),
	}
	for i := uint64(0); i <= blockCount; i++ {
		history.BaseFeePerGas = append(history.BaseFeePerGas, (*hexutil.Big)(new(big.Int).SetUint64(n.inner.l2GasPrice)))
	}
	for i := uint64(0); i < blockCount; i++ {
		history.GasUsedRatio = append(history.GasUsedRatio, 0)
		rewards := make([]*hexutil.Big, len(percentiles))
		for j := range rewards {
			rewards[j] = (*hexutil.Big)(new(big.Int))
		}
		history.Reward = append(history.Reward, rewards)
	}
	return history
}

// NewFilter installs a log filter
func (n *Node) NewFilter(criteria filters.LogFilter) filters.ID {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.inner.filters.AddLogFilter(criteria)
}

// NewBlockFilter installs a block filter
func (n *Node) NewBlockFilter() filters.ID {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.inner.filters.AddBlockFilter()
}

// NewPendingTransactionFilter installs a pending transaction filter
func (n *Node) NewPendingTransactionFilter() filters.ID {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.inner.filters.AddPendingTransactionFilter()
}

// UninstallFilter reports whether the filter existed
func (n *Node) UninstallFilter(id filters.ID) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.inner.filters.Remove(id)
}

// GetFilterChanges returns and forgets the updates of a filter since the last poll
func (n *Node) GetFilterChanges(id filters.ID) (filters.Changes, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.inner.filters.GetNewChanges(id)
}

// GetFilterLogs returns every log matching a log filter
func (n *Node) GetFilterLogs(id filters.ID) ([]types.Log, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	criteria, err := n.inner.filters.GetFilter(id)
	if err != nil {
		return nil, err
	}
	return n.inner.logs(criteria), nil
}

// IsNotFound reports whether err means an unknown block or transaction
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNoBlock) || errors.Is(err, types.ErrNotFound)
}
