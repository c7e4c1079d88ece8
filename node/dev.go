package node

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/0xPolygon/zksync-test-node/fork"
	"github.com/0xPolygon/zksync-test-node/log"
	"github.com/0xPolygon/zksync-test-node/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// ErrZeroBlocks is returned when mining is requested for no blocks
var ErrZeroBlocks = errors.New("Number of blocks must be greater than 0")

// CurrentTimestamp is the timestamp of the latest block
func (n *Node) CurrentTimestamp() uint64 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.inner.time.Last()
}

// IncreaseTime moves the time forward and returns delta
func (n *Node) IncreaseTime(delta uint64) uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	if delta == 0 {
		return 0
	}
	now := n.inner.time.Increase(delta)
	log.Infof("time increased by %d seconds, current timestamp %d", delta, now)
	return delta
}

// SetNextBlockTimestamp pins the timestamp of the next block
func (n *Node) SetNextBlockTimestamp(t uint64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.inner.time.SetNext(t)
}

// SetTime replaces the current time, even with an older one, and returns the difference.
func (n *Node) SetTime(t uint64) int64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.inner.time.SetUnchecked(t)
}

// Mine seals num blocks. The first one gets every pooled transaction and the
// next timestamp, the following ones are empty and spaced by interval seconds.
func (n *Node) Mine(ctx context.Context, num, interval uint64) ([]*types.Block, error) {
	if num == 0 {
		return nil, ErrZeroBlocks
	}
	if interval == 0 {
		interval = 1
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	blocks := make([]*types.Block, 0, num)
	for i := uint64(0); i < num; i++ {
		var txs []*types.L2Tx
		blockInterval := uint64(0)
		if i == 0 {
			txs = n.pool.TakeAll(0)
		} else {
			blockInterval = interval
		}
		sealed, err := n.seal(ctx, txs, blockInterval, false)
		if err != nil {
			return blocks, err
		}
		blocks = append(blocks, sealed.Block)
	}
	log.Infof("mined %d blocks", num)
	return blocks, nil
}

// Snapshot captures the whole state and returns its id
func (n *Node) Snapshot() (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	id, err := n.snapshots.push(n.inner.snapshot())
	if err != nil {
		return 0, err
	}
	log.Infof("created snapshot %d", id)
	return id, nil
}

// RevertSnapshot restores snapshot id and discards it together with every later one
func (n *Node) RevertSnapshot(id uint64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	snap, err := n.snapshots.pop(id)
	if err != nil {
		return err
	}
	n.inner.restore(snap)
	log.Infof("reverted to snapshot %d", id)
	return nil
}

// SetBalance overwrites the base token balance of addr
func (n *Node) SetBalance(addr common.Address, balance *big.Int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.inner.storage.SetValue(types.BalanceKey(addr), types.BigToHash(balance))
	log.Infof("balance of %s set to %s wei", addr, balance)
}

// SetNonce sets both the transaction and the deployment nonce of addr. Nonces only go up.
func (n *Node) SetNonce(addr common.Address, nonce *big.Int) error {
	requested, overflow := uint256.FromBig(nonce)
	if overflow {
		return NewInvalidTransactionError("nonce %s out of range", nonce)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	key := types.NonceKey(addr)
	txNonce, deploymentNonce := types.DecomposeFullNonce(n.inner.storage.ReadValue(key))
	if txNonce.Cmp(requested) >= 0 {
		return NewInvalidTransactionError("Account Nonce is already set to a higher value (%s, requested %s)", txNonce.Dec(), requested.Dec())
	}
	if deploymentNonce.Cmp(requested) >= 0 {
		return NewInvalidTransactionError("Deployment Nonce is already set to a higher value (%s, requested %s)", deploymentNonce.Dec(), requested.Dec())
	}
	n.inner.storage.SetValue(key, types.ComposeFullNonce(requested, requested))
	log.Infof("nonces of %s set to %s", addr, requested.Dec())
	return nil
}

// SetCode deploys code at addr without running any constructor
func (n *Node) SetCode(addr common.Address, code []byte) {
	n.mu.Lock()
	defer n.mu.Unlock()
	hash := types.BytecodeHash(code)
	n.inner.storage.StoreFactoryDep(hash, code)
	n.inner.storage.SetValue(types.CodeKey(addr), hash)
	log.Infof("code of %s set, bytecode hash %s", addr, hash)
}

// SetStorageAt overwrites a storage slot
func (n *Node) SetStorageAt(addr common.Address, slot, value common.Hash) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.inner.storage.SetValue(types.NewStorageKey(addr, slot), value)
}

// ImpersonateAccount returns false if addr was already impersonated
func (n *Node) ImpersonateAccount(addr common.Address) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	changed := n.inner.impersonation.Impersonate(addr)
	if changed {
		log.Infof("account %s has been impersonated", addr)
	}
	return changed
}

// StopImpersonatingAccount returns false if addr was not impersonated
func (n *Node) StopImpersonatingAccount(addr common.Address) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	changed := n.inner.impersonation.Stop(addr)
	if changed {
		log.Infof("stopped impersonating account %s", addr)
	}
	return changed
}

// AutoImpersonate toggles the impersonation of every account
func (n *Node) AutoImpersonate(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.inner.impersonation.SetAuto(enabled)
}

// GetAutomine reports whether blocks are sealed on every submission
func (n *Node) GetAutomine() bool {
	return n.sealer.IsImmediate()
}

// SetAutomine switches between immediate sealing and manual mining
func (n *Node) SetAutomine(enabled bool) {
	n.sealer.SetImmediate(enabled)
	log.Infof("automine set to %t", enabled)
}

// SetIntervalMining seals a block every seconds, zero disables mining.
func (n *Node) SetIntervalMining(seconds uint64) error {
	return n.sealer.SetInterval(time.Duration(seconds) * time.Second)
}

// SealingMode returns the current sealing mode
func (n *Node) SealingMode() (SealingMode, time.Duration) {
	return n.sealer.Mode()
}

// DropTransaction removes a pooled transaction, it reports whether it was pooled.
func (n *Node) DropTransaction(hash common.Hash) bool {
	return n.pool.Drop(hash)
}

// DropAllTransactions empties the pool
func (n *Node) DropAllTransactions() {
	n.pool.Clear()
}

// RemovePoolTransactions removes the pooled transactions of addr
func (n *Node) RemovePoolTransactions(addr common.Address) []common.Hash {
	return n.pool.DropBySender(addr)
}

// PendingTransactions is the number of pooled transactions
func (n *Node) PendingTransactions() int {
	return n.pool.Len()
}

// MineDetailed seals one block with the pooled transactions and returns it
// together with the results of its transactions.
func (n *Node) MineDetailed(ctx context.Context) (*types.Block, []*TxResult, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	sealed, err := n.seal(ctx, n.pool.TakeAll(0), 0, false)
	if err != nil {
		return nil, nil, err
	}
	return sealed.Block, sealed.Results, nil
}

// ForkDetails returns the fork the node runs on, nil when it is not forked
func (n *Node) ForkDetails() *fork.Details {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.inner.forkDetails()
}
