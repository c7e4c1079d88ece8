package jsonrpc

import (
	"context"

	"github.com/0xPolygon/zksync-test-node/node"
	"github.com/0xPolygon/zksync-test-node/types"
	"github.com/ethereum/go-ethereum/common"
)

// DebugAPI implements the debug namespace
type DebugAPI struct {
	node *node.Node
}

// NewDebugAPI creates the debug namespace
func NewDebugAPI(n *node.Node) *DebugAPI {
	return &DebugAPI{node: n}
}

// TraceBlockByNumber implements debug_traceBlockByNumber.
func (api *DebugAPI) TraceBlockByNumber(number types.BlockNumber, cfg *types.TracerConfig) ([]types.ResultDebugCall, error) {
	traces, err := api.node.TraceBlockByNumber(number, cfg)
	if err != nil {
		return nil, toRPCError("debug_traceBlockByNumber", err)
	}
	return traces, nil
}

// TraceBlockByHash implements debug_traceBlockByHash.
func (api *DebugAPI) TraceBlockByHash(hash common.Hash, cfg *types.TracerConfig) ([]types.ResultDebugCall, error) {
	traces, err := api.node.TraceBlockByHash(hash, cfg)
	if err != nil {
		return nil, toRPCError("debug_traceBlockByHash", err)
	}
	return traces, nil
}

// TraceCall implements debug_traceCall. Only the latest block can be traced.
func (api *DebugAPI) TraceCall(ctx context.Context, req types.CallRequest, block *types.BlockID, cfg *types.TracerConfig) (*types.DebugCall, error) {
	if block != nil && block.Number != nil && *block.Number != types.LatestBlockNumber {
		return nil, errNotImplemented("debug_traceCall with a block other than latest")
	}
	call, err := api.node.TraceCall(ctx, req, cfg)
	if err != nil {
		return nil, toRPCError("debug_traceCall", err)
	}
	return call, nil
}

// TraceTransaction implements debug_traceTransaction.
func (api *DebugAPI) TraceTransaction(hash common.Hash, cfg *types.TracerConfig) (*types.DebugCall, error) {
	call, err := api.node.TraceTransaction(hash, cfg)
	return call, toRPCError("debug_traceTransaction", err)
}
