package jsonrpc

import (
	"context"

	"github.com/0xPolygon/zksync-test-node/fork"
	"github.com/0xPolygon/zksync-test-node/log"
	"github.com/0xPolygon/zksync-test-node/node"
	"github.com/0xPolygon/zksync-test-node/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// DetailedTransaction is a transaction of a block returned by mine_detailed
type DetailedTransaction struct {
	types.Transaction
	Output       hexutil.Bytes `json:"output"`
	RevertReason *string       `json:"revertReason"`
}

// DetailedBlock is a block whose transactions carry their execution output
type DetailedBlock struct {
	*types.Block
	Transactions []DetailedTransaction `json:"transactions"`
}

// HardhatAPI implements the hardhat namespace. Resetting onto a new fork uses
// the fork client settings and cache of the server.
type HardhatAPI struct {
	node    *node.Node
	forkCfg fork.Config
	cache   fork.Cache
}

// NewHardhatAPI creates the hardhat namespace
func NewHardhatAPI(n *node.Node, forkCfg fork.Config, cache fork.Cache) *HardhatAPI {
	return &HardhatAPI{node: n, forkCfg: forkCfg, cache: cache}
}

// SetBalance overwrites the balance of addr.
func (api *HardhatAPI) SetBalance(addr common.Address, balance hexutil.Big) bool {
	api.node.SetBalance(addr, balance.ToInt())
	return true
}

// SetNonce overwrites the nonces of addr, they can only increase.
func (api *HardhatAPI) SetNonce(addr common.Address, nonce hexutil.Big) (bool, error) {
	if err := api.node.SetNonce(addr, nonce.ToInt()); err != nil {
		return false, toRPCError("setNonce", err)
	}
	return true, nil
}

// Mine seals num blocks, one by default, spaced by interval seconds.
func (api *HardhatAPI) Mine(ctx context.Context, num, interval *ArgUint64) (bool, error) {
	blocks, seconds := uint64(1), uint64(1)
	if num != nil {
		blocks = uint64(*num)
	}
	if interval != nil {
		seconds = uint64(*interval)
	}
	if _, err := api.node.Mine(ctx, blocks, seconds); err != nil {
		return false, toRPCError("mine", err)
	}
	return true, nil
}

// MineDetailed seals a block and returns it with the output of every transaction.
func (api *HardhatAPI) MineDetailed(ctx context.Context) (*DetailedBlock, error) {
	block, results, err := api.node.MineDetailed(ctx)
	if err != nil {
		return nil, toRPCError("mine_detailed", err)
	}
	byHash := make(map[common.Hash]*node.TxResult, len(results))
	for _, r := range results {
		byHash[r.Tx.Hash] = r
	}

	detailed := &DetailedBlock{Block: block, Transactions: make([]DetailedTransaction, 0, len(block.Transactions.Txs))}
	for _, tx := range block.Transactions.Txs {
		out := DetailedTransaction{Transaction: tx, Output: hexutil.Bytes{}}
		if r, ok := byHash[tx.Hash]; ok {
			out.Output = r.Result.Output
			if r.Result.Failed() {
				reason := r.Result.Message()
				out.RevertReason = &reason
			}
		}
		detailed.Transactions = append(detailed.Transactions, out)
	}
	return detailed, nil
}

// ImpersonateAccount starts accepting unsigned transactions of addr.
func (api *HardhatAPI) ImpersonateAccount(addr common.Address) bool {
	return api.node.ImpersonateAccount(addr)
}

// StopImpersonatingAccount stops impersonating addr.
func (api *HardhatAPI) StopImpersonatingAccount(addr common.Address) bool {
	return api.node.StopImpersonatingAccount(addr)
}

// SetCode deploys code at addr.
func (api *HardhatAPI) SetCode(addr common.Address, code hexutil.Bytes) {
	api.node.SetCode(addr, code)
}

// SetStorageAt overwrites a storage slot.
func (api *HardhatAPI) SetStorageAt(addr common.Address, slot, value hexutil.Big) bool {
	api.node.SetStorageAt(addr, types.BigToHash(slot.ToInt()), types.BigToHash(value.ToInt()))
	return true
}

// GetAutomine reports whether blocks are sealed on every transaction.
func (api *HardhatAPI) GetAutomine() bool {
	return api.node.GetAutomine()
}

// SetAutomine toggles sealing on every transaction.
func (api *HardhatAPI) SetAutomine(enabled bool) {
	api.node.SetAutomine(enabled)
}

// SetIntervalMining seals a block every seconds, zero disables mining.
func (api *HardhatAPI) SetIntervalMining(seconds ArgUint64) error {
	if err := api.node.SetIntervalMining(uint64(seconds)); err != nil {
		return errInvalidParams("%s", err.Error())
	}
	return nil
}

// Reset replaces the state of the node. Without parameters the node starts
// over on its current network, with forking parameters it forks a new one.
func (api *HardhatAPI) Reset(ctx context.Context, req *ResetRequest) (bool, error) {
	if req != nil && req.To != nil {
		return false, errInvalidParams("Only fork reset is supported")
	}

	details := api.node.ForkDetails()
	if req != nil && req.Forking != nil {
		var forkAt *uint64
		if req.Forking.BlockNumber != nil {
			n := uint64(*req.Forking.BlockNumber)
			forkAt = &n
		}
		var err error
		details, err = fork.NewDetailsFromNetwork(ctx, req.Forking.JSONRPCURL, forkAt, api.forkCfg, api.cache)
		if err != nil {
			log.Errorf("failed to fork %s: %v", req.Forking.JSONRPCURL, err)
			return false, NewRPCError(InternalErrorCode, "failed to fork %s: %v", req.Forking.JSONRPCURL, err)
		}
	}

	if err := api.node.Reset(ctx, details); err != nil {
		return false, toRPCError("reset", err)
	}
	return true, nil
}

// AnvilAPI implements the anvil namespace, a superset of the hardhat one
type AnvilAPI struct {
	*HardhatAPI
	evm *EvmAPI
}

// NewAnvilAPI creates the anvil namespace
func NewAnvilAPI(hardhat *HardhatAPI, evm *EvmAPI) *AnvilAPI {
	return &AnvilAPI{HardhatAPI: hardhat, evm: evm}
}

// Snapshot implements anvil_snapshot.
func (api *AnvilAPI) Snapshot() (hexutil.Uint64, error) {
	return api.evm.Snapshot()
}

// Revert implements anvil_revert.
func (api *AnvilAPI) Revert(id ArgUint64) (bool, error) {
	return api.evm.Revert(id)
}

// SetTime implements anvil_setTime.
func (api *AnvilAPI) SetTime(timestamp ArgUint64) int64 {
	return api.evm.SetTime(timestamp)
}

// IncreaseTime implements anvil_increaseTime.
func (api *AnvilAPI) IncreaseTime(seconds ArgUint64) uint64 {
	return api.evm.IncreaseTime(seconds)
}

// SetNextBlockTimestamp implements anvil_setNextBlockTimestamp.
func (api *AnvilAPI) SetNextBlockTimestamp(timestamp ArgUint64) error {
	_, err := api.evm.SetNextBlockTimestamp(timestamp)
	return err
}

// AutoImpersonateAccount toggles the impersonation of every account.
func (api *AnvilAPI) AutoImpersonateAccount(enabled bool) {
	api.node.AutoImpersonate(enabled)
}

// DropTransaction removes a pooled transaction, it returns its hash when it was pooled.
func (api *AnvilAPI) DropTransaction(hash common.Hash) *common.Hash {
	if !api.node.DropTransaction(hash) {
		return nil
	}
	return &hash
}

// DropAllTransactions empties the pool.
func (api *AnvilAPI) DropAllTransactions() {
	api.node.DropAllTransactions()
}

// RemovePoolTransactions removes the pooled transactions sent by addr.
func (api *AnvilAPI) RemovePoolTransactions(addr common.Address) {
	dropped := api.node.RemovePoolTransactions(addr)
	log.Debugf("removed %d pooled transactions of %s", len(dropped), addr)
}

// SetMinGasPrice is accepted and ignored, the L2 gas price is fixed.
func (api *AnvilAPI) SetMinGasPrice(hexutil.Big) {
	log.Info("anvil_setMinGasPrice is unsupported, the L2 gas price is fixed")
}

// SetLoggingEnabled switches between the info and the error log level.
func (api *AnvilAPI) SetLoggingEnabled(enabled bool) {
	level := "error"
	if enabled {
		level = "info"
	}
	if err := log.SetLevel(level); err != nil {
		log.Warnf("failed to change the log level: %v", err)
	}
}
