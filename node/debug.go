package node

import (
	"context"
	"errors"
	"math/big"

	"github.com/0xPolygon/zksync-test-node/executor"
	"github.com/0xPolygon/zksync-test-node/types"
	"github.com/ethereum/go-ethereum/common"
)

// CallTracer is the only tracer supported by the debug methods
const CallTracer = "callTracer"

// ErrUnsupportedTracer is returned for tracers other than CallTracer
var ErrUnsupportedTracer = errors.New("only the callTracer is supported")

func onlyTopCall(cfg *types.TracerConfig) (bool, error) {
	if cfg == nil {
		return false, nil
	}
	if cfg.Tracer != "" && cfg.Tracer != CallTracer {
		return false, ErrUnsupportedTracer
	}
	return cfg.TracerConfig.OnlyTopCall, nil
}

// TraceTransaction returns the call tree of an included transaction, nil when unknown
func (n *Node) TraceTransaction(hash common.Hash, cfg *types.TracerConfig) (*types.DebugCall, error) {
	onlyTop, err := onlyTopCall(cfg)
	if err != nil {
		return nil, err
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	r, ok := n.inner.txResults[hash]
	if !ok {
		return nil, nil
	}
	call := r.DebugInfo(onlyTop)
	return &call, nil
}

// TraceBlockByNumber returns the call trees of the transactions of a local block
func (n *Node) TraceBlockByNumber(bn types.BlockNumber, cfg *types.TracerConfig) ([]types.ResultDebugCall, error) {
	onlyTop, err := onlyTopCall(cfg)
	if err != nil {
		return nil, err
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	b, ok := n.inner.localBlock(n.inner.resolveBlockNumber(bn))
	if !ok {
		return nil, ErrNoBlock
	}
	return n.inner.traceBlock(b, onlyTop), nil
}

// TraceBlockByHash returns the call trees of the transactions of a local block
func (n *Node) TraceBlockByHash(hash common.Hash, cfg *types.TracerConfig) ([]types.ResultDebugCall, error) {
	onlyTop, err := onlyTopCall(cfg)
	if err != nil {
		return nil, err
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	b, ok := n.inner.blocks[hash]
	if !ok {
		return nil, ErrNoBlock
	}
	return n.inner.traceBlock(b, onlyTop), nil
}

func (in *inner) traceBlock(b *types.Block, onlyTop bool) []types.ResultDebugCall {
	traces := make([]types.ResultDebugCall, 0, b.Transactions.Len())
	for _, tx := range b.Transactions.Txs {
		r, ok := in.txResults[tx.Hash]
		if !ok {
			continue
		}
		traces = append(traces, types.ResultDebugCall{Result: r.DebugInfo(onlyTop)})
	}
	return traces
}

// TraceCall runs req on top of the latest block and returns its call tree.
// Reverts are reported in the tree instead of as an error.
func (n *Node) TraceCall(ctx context.Context, req types.CallRequest, cfg *types.TracerConfig) (*types.DebugCall, error) {
	onlyTop, err := onlyTopCall(cfg)
	if err != nil {
		return nil, err
	}
	n.mu.RLock()
	defer n.mu.RUnlock()

	tx := n.callTx(req)
	tx.Fee.GasLimit = big.NewInt(EthCallGasLimit)
	result, err := n.inner.ethCall(ctx, n.vm, tx)
	var execErr *ExecutionError
	if err != nil && !errors.As(err, &execErr) {
		return nil, err
	}
	if result == nil {
		result = &executor.Result{Kind: executor.ResultHalt}
	}
	call := debugCall(tx, result)
	if onlyTop {
		call.Calls = []types.DebugCall{}
	}
	return &call, nil
}
