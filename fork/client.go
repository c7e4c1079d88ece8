package fork

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	configTypes "github.com/0xPolygon/zksync-test-node/config/types"
	"github.com/0xPolygon/zksync-test-node/log"
	"github.com/0xPolygon/zksync-test-node/types"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
)

const defaultRequestTimeout = 30 * time.Second

// Config represents the configuration of the fork source client
type Config struct {
	// URL is the URL of the zkSync node to fork from
	URL string `mapstructure:"URL"`
	// HTTPHeaders are the headers to be used in the HTTP requests
	HTTPHeaders map[string]string `mapstructure:"HTTPHeaders"`
	// Timeout of every request sent to the fork
	Timeout configTypes.Duration `mapstructure:"Timeout"`
}

// EthereumClient is the subset of ethclient used by the fork client
type EthereumClient interface {
	ethereum.ChainStateReader
	ChainID(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// RPCCaller sends raw JSON-RPC calls
type RPCCaller interface {
	CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error
}

var _ types.ForkSource = (*Client)(nil)

// Client is the HTTP backed fork source. Responses that never change for a
// pinned chain are kept in the configured Cache.
type Client struct {
	EthClient EthereumClient
	RPC       RPCCaller
	cache     Cache
	timeout   time.Duration
}

// NewClient connects to the fork source described by cfg.
func NewClient(cfg Config, cache Cache) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("fork URL cannot be empty")
	}

	ethClient, err := ethclient.Dial(cfg.URL)
	if err != nil {
		log.Errorf("error connecting to %s: %+v", cfg.URL, err)
		return nil, err
	}

	for key, value := range cfg.HTTPHeaders {
		ethClient.Client().SetHeader(key, value)
	}

	if cache == nil {
		cache = noCache{}
	}
	timeout := cfg.Timeout.Duration
	if timeout == 0 {
		timeout = defaultRequestTimeout
	}

	return &Client{
		EthClient: ethClient,
		RPC:       ethClient.Client(),
		cache:     cache,
		timeout:   timeout,
	}, nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout == 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// call sends method to the fork and decodes the result into a T. When kind is
// not empty the raw response is looked up and stored in the cache under key.
func call[T any](ctx context.Context, c *Client, kind, key, method string, args ...interface{}) (*T, error) {
	if kind != "" {
		if raw, err := c.cache.Get(ctx, kind, key); err == nil {
			var out T
			if err := json.Unmarshal(raw, &out); err == nil {
				return &out, nil
			}
			log.Warnf("ignoring undecodable fork cache entry %s/%s", kind, key)
		}
	}

	callCtx, cancel := c.withTimeout(ctx)
	defer cancel()

	var raw json.RawMessage
	if err := c.RPC.CallContext(callCtx, &raw, method, args...); err != nil {
		return nil, translateError(err)
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil, types.ErrNotFound
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", method, err)
	}

	if kind != "" {
		if err := c.cache.Put(ctx, kind, key, raw); err != nil && !errors.Is(err, types.ErrAlreadyExists) {
			log.Warnf("failed to cache %s response: %v", method, err)
		}
	}
	return &out, nil
}

func translateError(err error) error {
	if err == nil {
		return nil
	}
	if err.Error() == ethereum.NotFound.Error() {
		return types.ErrNotFound
	}
	return err
}

// GetStorageAt returns the value of a storage slot at the given block.
func (c *Client) GetStorageAt(ctx context.Context, addr common.Address, idx common.Hash, block *types.BlockID) (common.Hash, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if block != nil && block.Number != nil && !block.Number.IsTag() {
		value, err := c.EthClient.StorageAt(ctx, addr, idx, new(big.Int).SetUint64(uint64(*block.Number)))
		if err != nil {
			return common.Hash{}, translateError(err)
		}
		return common.BytesToHash(value), nil
	}

	if block == nil {
		block = types.BlockIDFromNumber(types.LatestBlockNumber)
	}
	var value hexutil.Bytes
	if err := c.RPC.CallContext(ctx, &value, "eth_getStorageAt", addr, idx, block); err != nil {
		return common.Hash{}, translateError(err)
	}
	return common.BytesToHash(value), nil
}

// GetBytecodeByHash returns the bytecode stored under hash.
func (c *Client) GetBytecodeByHash(ctx context.Context, hash common.Hash) ([]byte, error) {
	raw, err := call[json.RawMessage](ctx, c, KindBytecodes, hash.Hex(), "zks_getBytecodeByHash", hash)
	if err != nil {
		return nil, err
	}
	return decodeBytes(*raw)
}

// decodeBytes accepts both a hex string and an array of numbers.
func decodeBytes(raw json.RawMessage) ([]byte, error) {
	var numbers []uint16
	if err := json.Unmarshal(raw, &numbers); err == nil {
		out := make([]byte, len(numbers))
		for i, n := range numbers {
			if n > 0xff {
				return nil, fmt.Errorf("invalid byte value %d", n)
			}
			out[i] = byte(n)
		}
		return out, nil
	}
	var hex hexutil.Bytes
	if err := json.Unmarshal(raw, &hex); err != nil {
		return nil, err
	}
	return hex, nil
}

// GetTransactionByHash returns a transaction of the forked chain.
func (c *Client) GetTransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, error) {
	return call[types.Transaction](ctx, c, KindTransactions, hash.Hex(), "eth_getTransactionByHash", hash)
}

// GetTransactionDetails returns the zkSync details of a transaction.
func (c *Client) GetTransactionDetails(ctx context.Context, hash common.Hash) (*types.TransactionDetails, error) {
	return call[types.TransactionDetails](ctx, c, "", "", "zks_getTransactionDetails", hash)
}

// GetRawBlockTransactions returns the raw transactions of a miniblock.
func (c *Client) GetRawBlockTransactions(ctx context.Context, number uint64) ([]json.RawMessage, error) {
	txs, err := call[[]json.RawMessage](ctx, c, KindBlockRawTransactions, hexutil.EncodeUint64(number),
		"zks_getRawBlockTransactions", number)
	if err != nil {
		return nil, err
	}
	return *txs, nil
}

func blockKind(full bool) string {
	if full {
		return KindBlocksFull
	}
	return KindBlocksMin
}

// GetBlockByHash returns a block of the forked chain.
func (c *Client) GetBlockByHash(ctx context.Context, hash common.Hash, full bool) (*types.Block, error) {
	return call[types.Block](ctx, c, blockKind(full), hash.Hex(), "eth_getBlockByHash", hash, full)
}

// GetBlockByNumber returns a block of the forked chain. Blocks addressed by a
// tag are never cached.
func (c *Client) GetBlockByNumber(ctx context.Context, number types.BlockNumber, full bool) (*types.Block, error) {
	kind, key := "", ""
	if !number.IsTag() {
		kind, key = blockKind(full), number.String()
	}
	return call[types.Block](ctx, c, kind, key, "eth_getBlockByNumber", number, full)
}

// GetBlockDetails returns the zkSync details of a miniblock.
func (c *Client) GetBlockDetails(ctx context.Context, number uint64) (*types.BlockDetails, error) {
	return call[types.BlockDetails](ctx, c, "", "", "zks_getBlockDetails", number)
}

// GetBlockTransactionCountByHash returns the number of transactions of a block.
func (c *Client) GetBlockTransactionCountByHash(ctx context.Context, hash common.Hash) (uint64, error) {
	count, err := call[hexutil.Uint64](ctx, c, "", "", "eth_getBlockTransactionCountByHash", hash)
	if err != nil {
		return 0, err
	}
	return uint64(*count), nil
}

// GetBlockTransactionCountByNumber returns the number of transactions of a block.
func (c *Client) GetBlockTransactionCountByNumber(ctx context.Context, number types.BlockNumber) (uint64, error) {
	count, err := call[hexutil.Uint64](ctx, c, "", "", "eth_getBlockTransactionCountByNumber", number)
	if err != nil {
		return 0, err
	}
	return uint64(*count), nil
}

// GetTransactionByBlockHashAndIndex returns a transaction by its position in a block.
func (c *Client) GetTransactionByBlockHashAndIndex(ctx context.Context, hash common.Hash, index uint64) (*types.Transaction, error) {
	return call[types.Transaction](ctx, c, "", "", "eth_getTransactionByBlockHashAndIndex", hash, hexutil.Uint64(index))
}

// GetTransactionByBlockNumberAndIndex returns a transaction by its position in a block.
func (c *Client) GetTransactionByBlockNumberAndIndex(ctx context.Context, number types.BlockNumber, index uint64) (*types.Transaction, error) {
	return call[types.Transaction](ctx, c, "", "", "eth_getTransactionByBlockNumberAndIndex", number, hexutil.Uint64(index))
}

// GetBridgeContracts returns the bridge addresses of the forked chain.
func (c *Client) GetBridgeContracts(ctx context.Context) (*types.BridgeAddresses, error) {
	return call[types.BridgeAddresses](ctx, c, KindBridgeAddresses, "default", "zks_getBridgeContracts")
}

// GetConfirmedTokens returns a page of the tokens known to the forked chain.
func (c *Client) GetConfirmedTokens(ctx context.Context, from, limit uint32) ([]types.Token, error) {
	tokens, err := call[[]types.Token](ctx, c, KindConfirmedTokens, fmt.Sprintf("%d-%d", from, limit),
		"zks_getConfirmedTokens", from, limit)
	if err != nil {
		return nil, err
	}
	return *tokens, nil
}

// ChainID of the forked chain
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	chainID, err := c.EthClient.ChainID(ctx)
	return chainID, translateError(err)
}

// BlockNumber returns the latest miniblock of the forked chain.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	number, err := c.EthClient.BlockNumber(ctx)
	return number, translateError(err)
}
