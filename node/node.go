package node

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/0xPolygon/zksync-test-node/executor"
	"github.com/0xPolygon/zksync-test-node/fork"
	"github.com/0xPolygon/zksync-test-node/log"
	"github.com/0xPolygon/zksync-test-node/metrics"
	"github.com/0xPolygon/zksync-test-node/types"
)

// Node is the in-memory zkSync node. Every read takes the read lock and every
// mutation the write lock of the node; the fork storage lock nests inside.
type Node struct {
	mu        sync.RWMutex
	inner     *inner
	snapshots snapshots
	cfg       Config
	vm        executor.VM
	pool      *Pool
	sealer    *Sealer
	interop   *interopWriter

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a node forked from details, or a node starting from genesis when details is nil.
func New(ctx context.Context, cfg Config, details *fork.Details) (*Node, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	knobs, err := cfg.Knobs.normalize()
	if err != nil {
		return nil, err
	}
	cfg.Knobs = knobs

	chainID, err := resolveChainID(ctx, cfg, details)
	if err != nil {
		return nil, err
	}
	in, err := newInner(cfg, chainID, details)
	if err != nil {
		return nil, err
	}

	n := &Node{
		inner:  in,
		cfg:    cfg,
		vm:     executor.NewEVM(),
		pool:   NewPool(),
		sealer: NewSealerFromConfig(cfg.NoMining, cfg.BlockTime.Duration),
	}
	if cfg.Interop.Enabled {
		n.interop = newInteropWriter(cfg.Interop, chainID)
	}
	n.ctx, n.cancel = context.WithCancel(context.Background())
	return n, nil
}

func resolveChainID(ctx context.Context, cfg Config, details *fork.Details) (uint64, error) {
	if cfg.ChainID != 0 {
		return cfg.ChainID, nil
	}
	if details != nil {
		return details.ChainID(ctx)
	}
	return TestNodeNetworkID, nil
}

// Start seals blocks as the sealing mode requires until Stop is called.
// Blocks of immediate mode are sealed on submission, the loop only drains
// the pool when switching into it.
func (n *Node) Start() {
	ticker, tick := n.newTicker()
	for {
		select {
		case <-n.ctx.Done():
			stopTicker(ticker)
			return
		case <-n.sealer.Changed():
			stopTicker(ticker)
			ticker, tick = n.newTicker()
			if n.sealer.IsImmediate() {
				n.sealBacklog()
			}
		case <-n.pool.Notify():
			if n.sealer.IsImmediate() {
				n.sealBacklog()
			}
		case <-tick:
			if err := n.sealPool(); err != nil {
				n.logErrorAndWait("failed to seal block: %v", err)
			}
		}
	}
}

// newTicker returns a ticker firing every interval of the interval mode, or a
// nil channel for the other modes.
func (n *Node) newTicker() (*time.Ticker, <-chan time.Time) {
	mode, interval := n.sealer.Mode()
	if mode != SealInterval {
		return nil, nil
	}
	ticker := time.NewTicker(interval)
	return ticker, ticker.C
}

func stopTicker(ticker *time.Ticker) {
	if ticker != nil {
		ticker.Stop()
	}
}

// Stop stops the sealing loop
func (n *Node) Stop() {
	n.cancel()
}

func (n *Node) logErrorAndWait(msg string, err error) {
	log.Errorf(msg, err)
	select {
	case <-n.ctx.Done():
	case <-time.After(time.Second):
	}
}

// sealPool seals a block with every pooled transaction, possibly none.
func (n *Node) sealPool() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, err := n.seal(n.ctx, n.pool.TakeAll(0), 0, false)
	return err
}

// sealBacklog seals the pooled transactions in blocks of at most MaxBlockTransactions.
func (n *Node) sealBacklog() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for n.pool.Len() > 0 {
		if _, err := n.seal(n.ctx, n.pool.TakeAll(MaxBlockTransactions), 0, true); err != nil {
			log.Errorf("failed to seal pooled transactions: %v", err)
			return
		}
	}
}

// seal produces a block with txs. The write lock must be held.
func (n *Node) seal(ctx context.Context, txs []*types.L2Tx, interval uint64, skipEmpty bool) (*sealedBlock, error) {
	sealed, err := n.inner.sealBlock(ctx, n.vm, txs, interval, skipEmpty)
	if err != nil {
		return nil, fmt.Errorf("failed to seal block: %w", err)
	}
	for range sealed.Halted {
		metrics.TxExecuted(executor.ResultHalt.String())
	}
	if sealed.Block == nil {
		return sealed, nil
	}

	metrics.BlockSealed(uint64(sealed.Block.Number))
	for _, r := range sealed.Results {
		metrics.TxExecuted(r.Result.Kind.String())
		if n.interop != nil {
			n.interop.handleLogs(r.Receipt.Logs)
		}
	}
	return sealed, nil
}

// Reset replaces the whole state with a new node forked from details, or a
// genesis node when details is nil. The pool and the snapshots are cleared.
func (n *Node) Reset(ctx context.Context, details *fork.Details) error {
	cfg := n.cfg
	chainID, err := resolveChainID(ctx, cfg, details)
	if err != nil {
		return err
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	cfg.Knobs = n.inner.knobs
	in, err := newInner(cfg, chainID, details)
	if err != nil {
		return err
	}
	n.inner = in
	n.snapshots.reset()
	n.pool.Clear()
	if n.interop != nil {
		n.interop = newInteropWriter(cfg.Interop, chainID)
	}
	if details != nil {
		log.Infof("node reset to the fork %s at block %d", details.URL, details.L2MiniblockNumber)
	} else {
		log.Info("node reset to genesis")
	}
	return nil
}
