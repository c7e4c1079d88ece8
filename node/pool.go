package node

import (
	"errors"
	"fmt"
	"sync"

	"github.com/0xPolygon/zksync-test-node/types"
	"github.com/ethereum/go-ethereum/common"
)

// ErrEmptyTransaction is returned when a transaction carries no encoding
var ErrEmptyTransaction = errors.New("empty transaction")

// Pool is the FIFO queue of transactions waiting to be sealed. Transactions
// are never reordered or replaced.
type Pool struct {
	mu     sync.Mutex
	txs    []*types.L2Tx
	notify chan struct{}
}

// NewPool creates an empty pool
func NewPool() *Pool {
	return &Pool{notify: make(chan struct{}, 1)}
}

func validatePoolTx(tx *types.L2Tx) error {
	if len(tx.Raw) == 0 {
		return ErrEmptyTransaction
	}
	if len(tx.Raw) > types.MaxTxSize {
		return types.ErrOversizedData
	}
	hash, err := tx.ComputeHash()
	if err != nil {
		return fmt.Errorf("failed to compute transaction hash: %w", err)
	}
	if hash != tx.Hash {
		return types.ErrHashMismatch
	}
	return nil
}

// Add validates and appends tx
func (p *Pool) Add(tx *types.L2Tx) error {
	return p.AddMany([]*types.L2Tx{tx})
}

// AddMany validates and appends txs. Either all of them are added or none.
func (p *Pool) AddMany(txs []*types.L2Tx) error {
	for _, tx := range txs {
		if err := validatePoolTx(tx); err != nil {
			return err
		}
	}
	p.mu.Lock()
	p.txs = append(p.txs, txs...)
	p.mu.Unlock()

	select {
	case p.notify <- struct{}{}:
	default:
	}
	return nil
}

// TakeAll drains at most max transactions in arrival order. max == 0 drains everything.
func (p *Pool) TakeAll(max int) []*types.L2Tx {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := len(p.txs)
	if max > 0 && max < n {
		n = max
	}
	taken := p.txs[:n:n]
	p.txs = append([]*types.L2Tx(nil), p.txs[n:]...)
	return taken
}

// Drop removes the transaction with the given hash. It returns whether one was removed.
func (p *Pool) Drop(hash common.Hash) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, tx := range p.txs {
		if tx.Hash == hash {
			p.txs = append(p.txs[:i:i], p.txs[i+1:]...)
			return true
		}
	}
	return false
}

// DropBySender removes every transaction initiated by addr and returns their hashes.
func (p *Pool) DropBySender(addr common.Address) []common.Hash {
	p.mu.Lock()
	defer p.mu.Unlock()
	var dropped []common.Hash
	kept := make([]*types.L2Tx, 0, len(p.txs))
	for _, tx := range p.txs {
		if tx.From == addr {
			dropped = append(dropped, tx.Hash)
			continue
		}
		kept = append(kept, tx)
	}
	p.txs = kept
	return dropped
}

// Clear drops every transaction
func (p *Pool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.txs = nil
}

// Len returns the number of queued transactions
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.txs)
}

// Contains reports whether a transaction with the given hash is queued
func (p *Pool) Contains(hash common.Hash) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, tx := range p.txs {
		if tx.Hash == hash {
			return true
		}
	}
	return false
}

// Notify is signaled, coalesced, whenever transactions are added
func (p *Pool) Notify() <-chan struct{} {
	return p.notify
}
