package jsonrpc

import (
	"context"
	"math/big"

	"github.com/0xPolygon/zksync-test-node/filters"
	"github.com/0xPolygon/zksync-test-node/node"
	"github.com/0xPolygon/zksync-test-node/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// EthAPI implements the eth namespace
type EthAPI struct {
	node *node.Node
}

// NewEthAPI creates the eth namespace
func NewEthAPI(n *node.Node) *EthAPI {
	return &EthAPI{node: n}
}

// ChainId implements eth_chainId.
func (api *EthAPI) ChainId() hexutil.Uint64 { //nolint:revive,stylecheck
	return hexutil.Uint64(api.node.ChainID())
}

// BlockNumber implements eth_blockNumber, also served as eth_getBlockNumber.
func (api *EthAPI) BlockNumber() hexutil.Uint64 {
	return hexutil.Uint64(api.node.BlockNumber())
}

// Call implements eth_call. Calls always run on top of the latest block.
func (api *EthAPI) Call(ctx context.Context, req types.CallRequest, _ *types.BlockID) (hexutil.Bytes, error) {
	out, err := api.node.Call(ctx, req)
	if err != nil {
		return nil, toRPCError("eth_call", err)
	}
	return out, nil
}

// EstimateGas implements eth_estimateGas.
func (api *EthAPI) EstimateGas(ctx context.Context, req types.CallRequest, _ *types.BlockID) (*hexutil.Big, error) {
	gas, err := api.node.EstimateGas(ctx, req)
	if err != nil {
		return nil, toRPCError("eth_estimateGas", err)
	}
	return (*hexutil.Big)(new(big.Int).SetUint64(gas)), nil
}

// GasPrice implements eth_gasPrice.
func (api *EthAPI) GasPrice() *hexutil.Big {
	return (*hexutil.Big)(api.node.GasPrice())
}

// GetBalance implements eth_getBalance.
func (api *EthAPI) GetBalance(ctx context.Context, addr common.Address, block *types.BlockID) (*hexutil.Big, error) {
	balance, err := api.node.GetBalance(ctx, addr, block)
	if err != nil {
		return nil, toRPCError("eth_getBalance", err)
	}
	return (*hexutil.Big)(balance), nil
}

// GetTransactionCount implements eth_getTransactionCount.
func (api *EthAPI) GetTransactionCount(ctx context.Context, addr common.Address, block *types.BlockID) (hexutil.Uint64, error) {
	nonce, err := api.node.GetTransactionCount(ctx, addr, block)
	if err != nil {
		return 0, toRPCError("eth_getTransactionCount", err)
	}
	return hexutil.Uint64(nonce), nil
}

// GetCode implements eth_getCode.
func (api *EthAPI) GetCode(ctx context.Context, addr common.Address, block *types.BlockID) (hexutil.Bytes, error) {
	code, err := api.node.GetCode(ctx, addr, block)
	if err != nil {
		return nil, toRPCError("eth_getCode", err)
	}
	return code, nil
}

// GetStorageAt implements eth_getStorageAt.
func (api *EthAPI) GetStorageAt(ctx context.Context, addr common.Address, slot hexutil.Big, block *types.BlockID) (common.Hash, error) {
	value, err := api.node.GetStorageAt(ctx, addr, types.BigToHash(slot.ToInt()), block)
	if err != nil {
		return common.Hash{}, toRPCError("eth_getStorageAt", err)
	}
	return value, nil
}

// GetBlockByNumber implements eth_getBlockByNumber.
func (api *EthAPI) GetBlockByNumber(ctx context.Context, number types.BlockNumber, full bool) (*types.Block, error) {
	b, err := api.node.GetBlockByNumber(ctx, number, full)
	return b, toRPCError("eth_getBlockByNumber", err)
}

// GetBlockByHash implements eth_getBlockByHash.
func (api *EthAPI) GetBlockByHash(ctx context.Context, hash common.Hash, full bool) (*types.Block, error) {
	b, err := api.node.GetBlockByHash(ctx, hash, full)
	return b, toRPCError("eth_getBlockByHash", err)
}

// GetBlockTransactionCountByNumber implements eth_getBlockTransactionCountByNumber.
func (api *EthAPI) GetBlockTransactionCountByNumber(ctx context.Context, number types.BlockNumber) (*hexutil.Uint64, error) {
	count, err := api.node.GetBlockTransactionCountByNumber(ctx, number)
	if err != nil || count == nil {
		return nil, toRPCError("eth_getBlockTransactionCountByNumber", err)
	}
	return (*hexutil.Uint64)(count), nil
}

// GetBlockTransactionCountByHash implements eth_getBlockTransactionCountByHash.
func (api *EthAPI) GetBlockTransactionCountByHash(ctx context.Context, hash common.Hash) (*hexutil.Uint64, error) {
	count, err := api.node.GetBlockTransactionCountByHash(ctx, hash)
	if err != nil || count == nil {
		return nil, toRPCError("eth_getBlockTransactionCountByHash", err)
	}
	return (*hexutil.Uint64)(count), nil
}

// GetTransactionByHash implements eth_getTransactionByHash.
func (api *EthAPI) GetTransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, error) {
	tx, err := api.node.GetTransactionByHash(ctx, hash)
	return tx, toRPCError("eth_getTransactionByHash", err)
}

// GetTransactionByBlockHashAndIndex implements eth_getTransactionByBlockHashAndIndex.
func (api *EthAPI) GetTransactionByBlockHashAndIndex(ctx context.Context, hash common.Hash, index hexutil.Uint64) (*types.Transaction, error) {
	tx, err := api.node.GetTransactionByBlockHashAndIndex(ctx, hash, uint64(index))
	return tx, toRPCError("eth_getTransactionByBlockHashAndIndex", err)
}

// GetTransactionByBlockNumberAndIndex implements eth_getTransactionByBlockNumberAndIndex.
func (api *EthAPI) GetTransactionByBlockNumberAndIndex(ctx context.Context, number types.BlockNumber, index hexutil.Uint64) (*types.Transaction, error) {
	tx, err := api.node.GetTransactionByBlockNumberAndIndex(ctx, number, uint64(index))
	return tx, toRPCError("eth_getTransactionByBlockNumberAndIndex", err)
}

// GetTransactionReceipt implements eth_getTransactionReceipt.
func (api *EthAPI) GetTransactionReceipt(hash common.Hash) *types.TransactionReceipt {
	return api.node.GetTransactionReceipt(hash)
}

// SendRawTransaction implements eth_sendRawTransaction.
func (api *EthAPI) SendRawTransaction(ctx context.Context, raw hexutil.Bytes) (common.Hash, error) {
	hash, err := api.node.SendRawTransaction(ctx, raw)
	if err != nil {
		return common.Hash{}, toRPCError("eth_sendRawTransaction", err)
	}
	return hash, nil
}

// SendTransaction implements eth_sendTransaction for impersonated accounts.
func (api *EthAPI) SendTransaction(ctx context.Context, req types.CallRequest) (common.Hash, error) {
	hash, err := api.node.SendTransaction(ctx, req)
	if err != nil {
		return common.Hash{}, toRPCError("eth_sendTransaction", err)
	}
	return hash, nil
}

// NewFilter implements eth_newFilter.
func (api *EthAPI) NewFilter(criteria filters.LogFilter) filters.ID {
	return api.node.NewFilter(criteria)
}

// NewBlockFilter implements eth_newBlockFilter.
func (api *EthAPI) NewBlockFilter() filters.ID {
	return api.node.NewBlockFilter()
}

// NewPendingTransactionFilter implements eth_newPendingTransactionFilter.
func (api *EthAPI) NewPendingTransactionFilter() filters.ID {
	return api.node.NewPendingTransactionFilter()
}

// UninstallFilter implements eth_uninstallFilter.
func (api *EthAPI) UninstallFilter(id filters.ID) bool {
	return api.node.UninstallFilter(id)
}

// GetFilterChanges implements eth_getFilterChanges.
func (api *EthAPI) GetFilterChanges(id filters.ID) (filters.Changes, error) {
	changes, err := api.node.GetFilterChanges(id)
	if err != nil {
		return filters.Changes{}, toRPCError("eth_getFilterChanges", err)
	}
	return changes, nil
}

// GetFilterLogs implements eth_getFilterLogs.
func (api *EthAPI) GetFilterLogs(id filters.ID) ([]types.Log, error) {
	logs, err := api.node.GetFilterLogs(id)
	if err != nil {
		return nil, toRPCError("eth_getFilterLogs", err)
	}
	return logs, nil
}

// GetLogs implements eth_getLogs.
func (api *EthAPI) GetLogs(criteria filters.LogFilter) []types.Log {
	return api.node.GetLogs(criteria)
}

// FeeHistory implements eth_feeHistory.
func (api *EthAPI) FeeHistory(blockCount ArgUint64, newest types.BlockNumber, percentiles []float64) *types.FeeHistory {
	return api.node.FeeHistory(uint64(blockCount), newest, percentiles)
}

// ProtocolVersion implements eth_protocolVersion.
func (api *EthAPI) ProtocolVersion() string {
	return node.ProtocolVersion
}

// Syncing implements eth_syncing, the node is always in sync.
func (api *EthAPI) Syncing() bool {
	return false
}

// Accounts implements eth_accounts.
func (api *EthAPI) Accounts() []common.Address {
	return api.node.Accounts()
}

// Coinbase is not implemented.
func (api *EthAPI) Coinbase() (common.Address, error) {
	return common.Address{}, errNotImplemented("eth_coinbase")
}

// GetCompilers is not implemented.
func (api *EthAPI) GetCompilers() ([]string, error) {
	return nil, errNotImplemented("eth_getCompilers")
}

// Hashrate is not implemented.
func (api *EthAPI) Hashrate() (hexutil.Uint64, error) {
	return 0, errNotImplemented("eth_hashrate")
}

// Mining is not implemented.
func (api *EthAPI) Mining() (bool, error) {
	return false, errNotImplemented("eth_mining")
}

// GetUncleCountByBlockHash is not implemented.
func (api *EthAPI) GetUncleCountByBlockHash(common.Hash) (hexutil.Uint64, error) {
	return 0, errNotImplemented("eth_getUncleCountByBlockHash")
}

// GetUncleCountByBlockNumber is not implemented.
func (api *EthAPI) GetUncleCountByBlockNumber(types.BlockNumber) (hexutil.Uint64, error) {
	return 0, errNotImplemented("eth_getUncleCountByBlockNumber")
}

// GetUncleByBlockHashAndIndex is not implemented.
func (api *EthAPI) GetUncleByBlockHashAndIndex(common.Hash, hexutil.Uint64) (*types.Block, error) {
	return nil, errNotImplemented("eth_getUncleByBlockHashAndIndex")
}

// GetUncleByBlockNumberAndIndex is not implemented.
func (api *EthAPI) GetUncleByBlockNumberAndIndex(types.BlockNumber, hexutil.Uint64) (*types.Block, error) {
	return nil, errNotImplemented("eth_getUncleByBlockNumberAndIndex")
}

// GetWork is not implemented.
func (api *EthAPI) GetWork() ([]string, error) {
	return nil, errNotImplemented("eth_getWork")
}

// SubmitWork is not implemented.
func (api *EthAPI) SubmitWork(string, common.Hash, common.Hash) (bool, error) {
	return false, errNotImplemented("eth_submitWork")
}

// SubmitHashrate is not implemented.
func (api *EthAPI) SubmitHashrate(common.Hash, common.Hash) (bool, error) {
	return false, errNotImplemented("eth_submitHashrate")
}

// Sign is not implemented.
func (api *EthAPI) Sign(common.Address, hexutil.Bytes) (hexutil.Bytes, error) {
	return nil, errNotImplemented("eth_sign")
}
