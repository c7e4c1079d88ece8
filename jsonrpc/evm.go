package jsonrpc

import (
	"context"

	"github.com/0xPolygon/zksync-test-node/node"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// EvmAPI implements the evm namespace
type EvmAPI struct {
	node *node.Node
}

// NewEvmAPI creates the evm namespace
func NewEvmAPI(n *node.Node) *EvmAPI {
	return &EvmAPI{node: n}
}

// Mine implements evm_mine, it seals a single block.
func (api *EvmAPI) Mine(ctx context.Context) (string, error) {
	if _, err := api.node.Mine(ctx, 1, 0); err != nil {
		return "", toRPCError("evm_mine", err)
	}
	return "0x0", nil
}

// IncreaseTime implements evm_increaseTime.
func (api *EvmAPI) IncreaseTime(seconds ArgUint64) uint64 {
	return api.node.IncreaseTime(uint64(seconds))
}

// SetNextBlockTimestamp implements evm_setNextBlockTimestamp.
func (api *EvmAPI) SetNextBlockTimestamp(timestamp ArgUint64) (hexutil.Uint64, error) {
	if err := api.node.SetNextBlockTimestamp(uint64(timestamp)); err != nil {
		return 0, errInvalidParams("%s", err.Error())
	}
	return hexutil.Uint64(timestamp), nil
}

// SetTime implements evm_setTime, it returns the applied difference in seconds.
func (api *EvmAPI) SetTime(timestamp ArgUint64) int64 {
	return api.node.SetTime(uint64(timestamp))
}

// Snapshot implements evm_snapshot.
func (api *EvmAPI) Snapshot() (hexutil.Uint64, error) {
	id, err := api.node.Snapshot()
	if err != nil {
		return 0, toRPCError("evm_snapshot", err)
	}
	return hexutil.Uint64(id), nil
}

// Revert implements evm_revert.
func (api *EvmAPI) Revert(id ArgUint64) (bool, error) {
	if err := api.node.RevertSnapshot(uint64(id)); err != nil {
		return false, toRPCError("evm_revert", err)
	}
	return true, nil
}
