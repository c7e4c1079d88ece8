package jsonrpc

import (
	"context"

	"github.com/0xPolygon/zksync-test-node/node"
	"github.com/0xPolygon/zksync-test-node/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ZksAPI implements the zks namespace
type ZksAPI struct {
	node *node.Node
}

// NewZksAPI creates the zks namespace
func NewZksAPI(n *node.Node) *ZksAPI {
	return &ZksAPI{node: n}
}

// EstimateFee implements zks_estimateFee.
func (api *ZksAPI) EstimateFee(ctx context.Context, req types.CallRequest) (*types.FeeJSON, error) {
	fee, err := api.node.EstimateFee(ctx, req)
	if err != nil {
		return nil, toRPCError("zks_estimateFee", err)
	}
	out := types.NewFeeJSON(fee)
	return &out, nil
}

// EstimateGasL1ToL2 is not implemented.
func (api *ZksAPI) EstimateGasL1ToL2(types.CallRequest) (*hexutil.Big, error) {
	return nil, errNotImplemented("zks_estimateGasL1ToL2")
}

// GetMainContract is not implemented.
func (api *ZksAPI) GetMainContract() (common.Address, error) {
	return common.Address{}, errNotImplemented("zks_getMainContract")
}

// GetTestnetPaymaster is not implemented.
func (api *ZksAPI) GetTestnetPaymaster() (*common.Address, error) {
	return nil, errNotImplemented("zks_getTestnetPaymaster")
}

// GetBridgeContracts implements zks_getBridgeContracts.
func (api *ZksAPI) GetBridgeContracts(ctx context.Context) (*types.BridgeAddresses, error) {
	bridges, err := api.node.GetBridgeContracts(ctx)
	if err != nil {
		return nil, toRPCError("zks_getBridgeContracts", err)
	}
	return bridges, nil
}

// L1ChainId is served as zks_L1ChainId. The node is not attached to any L1.
func (api *ZksAPI) L1ChainId() (hexutil.Uint64, error) { //nolint:revive,stylecheck
	return 0, errNotImplemented("zks_L1ChainId")
}

// L1BatchNumber is served as zks_L1BatchNumber.
func (api *ZksAPI) L1BatchNumber() hexutil.Uint64 {
	return hexutil.Uint64(api.node.L1BatchNumber())
}

// GetConfirmedTokens implements zks_getConfirmedTokens.
func (api *ZksAPI) GetConfirmedTokens(ctx context.Context, from uint32, limit uint8) ([]types.Token, error) {
	tokens, err := api.node.GetConfirmedTokens(ctx, from, uint32(limit))
	if err != nil {
		return nil, toRPCError("zks_getConfirmedTokens", err)
	}
	return tokens, nil
}

// GetTokenPrice implements zks_getTokenPrice.
func (api *ZksAPI) GetTokenPrice(token common.Address) (string, error) {
	price, err := api.node.GetTokenPrice(token)
	if err != nil {
		return "", errInvalidParams("%s", err.Error())
	}
	return price, nil
}

// GetAllAccountBalances implements zks_getAllAccountBalances.
func (api *ZksAPI) GetAllAccountBalances(ctx context.Context, addr common.Address) (map[common.Address]*hexutil.Big, error) {
	balances, err := api.node.GetAllAccountBalances(ctx, addr)
	if err != nil {
		return nil, toRPCError("zks_getAllAccountBalances", err)
	}
	return balances, nil
}

// GetL2ToL1MsgProof is not implemented.
func (api *ZksAPI) GetL2ToL1MsgProof(ArgUint64, common.Address, common.Hash, *ArgUint64) (interface{}, error) {
	return nil, errNotImplemented("zks_getL2ToL1MsgProof")
}

// GetL2ToL1LogProof is not implemented.
func (api *ZksAPI) GetL2ToL1LogProof(common.Hash, *ArgUint64) (interface{}, error) {
	return nil, errNotImplemented("zks_getL2ToL1LogProof")
}

// GetBlockDetails implements zks_getBlockDetails.
func (api *ZksAPI) GetBlockDetails(ctx context.Context, number ArgUint64) (*types.BlockDetails, error) {
	details, err := api.node.GetBlockDetails(ctx, uint64(number))
	return details, toRPCError("zks_getBlockDetails", err)
}

// GetL1BatchBlockRange implements zks_getL1BatchBlockRange for local batches.
func (api *ZksAPI) GetL1BatchBlockRange(batch ArgUint64) []hexutil.Uint64 {
	first, last, ok := api.node.L1BatchBlockRange(uint64(batch))
	if !ok {
		return nil
	}
	return []hexutil.Uint64{hexutil.Uint64(first), hexutil.Uint64(last)}
}

// GetTransactionDetails implements zks_getTransactionDetails.
func (api *ZksAPI) GetTransactionDetails(ctx context.Context, hash common.Hash) (*types.TransactionDetails, error) {
	details, err := api.node.GetTransactionDetails(ctx, hash)
	return details, toRPCError("zks_getTransactionDetails", err)
}

// GetRawBlockTransactions implements zks_getRawBlockTransactions.
func (api *ZksAPI) GetRawBlockTransactions(ctx context.Context, number ArgUint64) (interface{}, error) {
	txs, err := api.node.GetRawBlockTransactions(ctx, uint64(number))
	if err != nil {
		return nil, toRPCError("zks_getRawBlockTransactions", err)
	}
	return txs, nil
}

// GetL1BatchDetails implements zks_getL1BatchDetails, batches are never committed to L1.
func (api *ZksAPI) GetL1BatchDetails(ArgUint64) interface{} {
	return nil
}

// GetBytecodeByHash implements zks_getBytecodeByHash. The bytecode is
// rendered as an array of numbers, nil when unknown.
func (api *ZksAPI) GetBytecodeByHash(hash common.Hash) []uint16 {
	code := api.node.GetBytecodeByHash(hash)
	if code == nil {
		return nil
	}
	out := make([]uint16, len(code))
	for i, b := range code {
		out[i] = uint16(b)
	}
	return out
}

// GetL1GasPrice implements zks_getL1GasPrice.
func (api *ZksAPI) GetL1GasPrice() hexutil.Uint64 {
	return hexutil.Uint64(api.node.L1GasPrice())
}

// GetProtocolVersion is not implemented.
func (api *ZksAPI) GetProtocolVersion(*uint16) (interface{}, error) {
	return nil, errNotImplemented("zks_getProtocolVersion")
}

// GetProof is not implemented.
func (api *ZksAPI) GetProof(common.Address, []common.Hash, ArgUint64) (interface{}, error) {
	return nil, errNotImplemented("zks_getProof")
}

// GetBaseTokenL1Address implements zks_getBaseTokenL1Address, the base token is ETH.
func (api *ZksAPI) GetBaseTokenL1Address() common.Address {
	return node.BaseToken.L1Address
}
