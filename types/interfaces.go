package types

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrNotFound when the object is not found
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists when the object already exists
	ErrAlreadyExists = errors.New("already exists")
)

// ForkSource is the read-only accessor of the remote chain the node is forked from.
// Every call may fail; callers that need a value turn failures into "absent".
type ForkSource interface {
	GetStorageAt(ctx context.Context, addr common.Address, idx common.Hash, block *BlockID) (common.Hash, error)
	GetBytecodeByHash(ctx context.Context, hash common.Hash) ([]byte, error)
	GetTransactionByHash(ctx context.Context, hash common.Hash) (*Transaction, error)
	GetTransactionDetails(ctx context.Context, hash common.Hash) (*TransactionDetails, error)
	GetRawBlockTransactions(ctx context.Context, number uint64) ([]json.RawMessage, error)
	GetBlockByHash(ctx context.Context, hash common.Hash, full bool) (*Block, error)
	GetBlockByNumber(ctx context.Context, number BlockNumber, full bool) (*Block, error)
	GetBlockDetails(ctx context.Context, number uint64) (*BlockDetails, error)
	GetBlockTransactionCountByHash(ctx context.Context, hash common.Hash) (uint64, error)
	GetBlockTransactionCountByNumber(ctx context.Context, number BlockNumber) (uint64, error)
	GetTransactionByBlockHashAndIndex(ctx context.Context, hash common.Hash, index uint64) (*Transaction, error)
	GetTransactionByBlockNumberAndIndex(ctx context.Context, number BlockNumber, index uint64) (*Transaction, error)
	GetBridgeContracts(ctx context.Context) (*BridgeAddresses, error)
	GetConfirmedTokens(ctx context.Context, from, limit uint32) ([]Token, error)
	ChainID(ctx context.Context) (*big.Int, error)
}
