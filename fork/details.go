package fork

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/0xPolygon/zksync-test-node/log"
	"github.com/0xPolygon/zksync-test-node/types"
	"github.com/ethereum/go-ethereum/common"
)

// Well known networks the node can fork from
const (
	NetworkMainnet        = "mainnet"
	NetworkSepoliaTestnet = "sepolia-testnet"
	NetworkGoerliTestnet  = "goerli-testnet"
	NetworkTestnet        = "testnet"
)

var networkURLs = map[string]string{
	NetworkMainnet:        "https://mainnet.era.zksync.io:443",
	NetworkSepoliaTestnet: "https://sepolia.era.zksync.dev:443",
	NetworkGoerliTestnet:  "https://testnet.era.zksync.dev:443",
	NetworkTestnet:        "https://testnet.era.zksync.dev:443",
}

// NetworkURL resolves a network name into its RPC URL. Anything that is not a
// well known network is taken as an URL.
func NetworkURL(network string) string {
	if url, ok := networkURLs[strings.ToLower(network)]; ok {
		return url
	}
	return network
}

// Details describes the block a node is forked at. Once built it is never modified.
type Details struct {
	Source            types.ForkSource
	URL               string
	L1BatchNumber     uint64
	L2MiniblockNumber uint64
	L2MiniblockHash   common.Hash
	BlockTimestamp    uint64
	OverwriteChainID  *uint64
	L1GasPrice        uint64
}

// PinnedBlock is the block every fork read is issued at.
func (d *Details) PinnedBlock() *types.BlockID {
	return types.BlockIDFromNumber(types.BlockNumber(d.L2MiniblockNumber))
}

// ChainID is the overwritten chain id if any, otherwise the one of the fork.
func (d *Details) ChainID(ctx context.Context) (uint64, error) {
	if d.OverwriteChainID != nil {
		return *d.OverwriteChainID, nil
	}
	chainID, err := d.Source.ChainID(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get the fork chain id: %w", err)
	}
	return chainID.Uint64(), nil
}

// NewDetailsFromNetwork forks network at block forkAt, or at its latest block when forkAt is nil.
func NewDetailsFromNetwork(ctx context.Context, network string, forkAt *uint64, cfg Config, cache Cache) (*Details, error) {
	cfg.URL = NetworkURL(network)
	client, err := NewClient(cfg, cache)
	if err != nil {
		return nil, err
	}

	var number uint64
	if forkAt != nil {
		number = *forkAt
	} else {
		number, err = client.BlockNumber(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get the latest block of %s: %w", cfg.URL, err)
		}
	}

	return NewDetails(ctx, client, cfg.URL, number)
}

// NewDetailsFromTx forks network right before the block that included txHash,
// so the transaction can be replayed.
func NewDetailsFromTx(ctx context.Context, network string, txHash common.Hash, cfg Config, cache Cache) (*Details, error) {
	cfg.URL = NetworkURL(network)
	client, err := NewClient(cfg, cache)
	if err != nil {
		return nil, err
	}

	tx, err := client.GetTransactionByHash(ctx, txHash)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction %s: %w", txHash, err)
	}
	if tx.BlockNumber == nil {
		return nil, fmt.Errorf("transaction %s is not included in a block", txHash)
	}
	if *tx.BlockNumber == 0 {
		return nil, errors.New("cannot replay a transaction of the genesis block")
	}

	return NewDetails(ctx, client, cfg.URL, uint64(*tx.BlockNumber)-1)
}

// NewDetails builds the fork details of source at the miniblock number.
func NewDetails(ctx context.Context, source types.ForkSource, url string, number uint64) (*Details, error) {
	block, err := source.GetBlockByNumber(ctx, types.BlockNumber(number), true)
	if err != nil {
		return nil, fmt.Errorf("failed to get block %d of the fork: %w", number, err)
	}
	details, err := source.GetBlockDetails(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("failed to get details of block %d of the fork: %w", number, err)
	}

	log.Infof("creating fork from %s L1 batch: %d miniblock: %d", url, details.L1BatchNumber, number)

	return &Details{
		Source:            source,
		URL:               url,
		L1BatchNumber:     details.L1BatchNumber,
		L2MiniblockNumber: number,
		L2MiniblockHash:   block.Hash,
		BlockTimestamp:    uint64(block.Timestamp),
		L1GasPrice:        details.L1GasPrice,
	}, nil
}
