package node

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/0xPolygon/zksync-test-node/log"
	"github.com/0xPolygon/zksync-test-node/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// maxConfirmedTokens is the page of tokens GetAllAccountBalances looks at
const maxConfirmedTokens = 100

// BaseToken is the only token known to a node that is not forked
var BaseToken = types.Token{
	L1Address: common.Address{},
	L2Address: types.L2BaseTokenAddress,
	Name:      "Ether",
	Symbol:    "ETH",
	Decimals:  18,
}

// tokenPrices are the fixed prices of the well known tokens, by lowercase L1 address
var tokenPrices = map[string]string{
	"0x0000000000000000000000000000000000000000": "1500",
	"0x40609141db628beee3bfab8034fc2d8278d0cc78": "1",
	"0x0bfce1d53451b4a8175dd94e6e029f7d8a701e9c": "1",
	"0x0faf6df7054946141266420b43783387a78d82a9": "1",
	"0x3e7676937a7e96cfb7616f255b9ad9ff47363d4b": "1",
}

// GetTokenPrice returns the fixed USD price of a well known token
func (n *Node) GetTokenPrice(token common.Address) (string, error) {
	price, ok := tokenPrices[strings.ToLower(token.Hex())]
	if !ok {
		log.Errorf("token price requested for unknown address %s", token)
		return "", fmt.Errorf("unknown token %s", token)
	}
	return price, nil
}

// GetBridgeContracts returns the bridges of the fork, empty ones when not forked
func (n *Node) GetBridgeContracts(ctx context.Context) (*types.BridgeAddresses, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	f := n.inner.forkDetails()
	if f == nil {
		return &types.BridgeAddresses{}, nil
	}
	bridges, err := f.Source.GetBridgeContracts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get the bridge contracts of the fork: %w", err)
	}
	return bridges, nil
}

// GetConfirmedTokens returns a page of the tokens of the fork, the base token when not forked
func (n *Node) GetConfirmedTokens(ctx context.Context, from, limit uint32) ([]types.Token, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.inner.confirmedTokens(ctx, from, limit)
}

func (in *inner) confirmedTokens(ctx context.Context, from, limit uint32) ([]types.Token, error) {
	f := in.forkDetails()
	if f == nil {
		return []types.Token{BaseToken}, nil
	}
	tokens, err := f.Source.GetConfirmedTokens(ctx, from, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get the confirmed tokens of the fork: %w", err)
	}
	return tokens, nil
}

// GetAllAccountBalances returns the non zero balances of addr by token L2 address
func (n *Node) GetAllAccountBalances(ctx context.Context, addr common.Address) (map[common.Address]*hexutil.Big, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	tokens, err := n.inner.confirmedTokens(ctx, 0, maxConfirmedTokens)
	if err != nil {
		return nil, err
	}
	balances := make(map[common.Address]*hexutil.Big)
	for _, token := range tokens {
		balance := types.HashToBig(n.inner.storage.ReadValue(types.TokenBalanceKey(token.L2Address, addr)))
		if balance.Sign() != 0 {
			balances[token.L2Address] = (*hexutil.Big)(balance)
		}
	}
	return balances, nil
}

// GetBlockDetails returns nil when the block is unknown
func (n *Node) GetBlockDetails(ctx context.Context, number uint64) (*types.BlockDetails, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if b, ok := n.inner.localBlock(number); ok {
		root := b.Hash
		version := "Version" + ProtocolVersionID
		batch := uint64(0)
		if b.L1BatchNumber != nil {
			batch = uint64(*b.L1BatchNumber)
		}
		return &types.BlockDetails{
			Number:          number,
			L1BatchNumber:   batch,
			Timestamp:       uint64(b.Timestamp),
			L1TxCount:       0,
			L2TxCount:       uint64(b.Transactions.Len()),
			RootHash:        &root,
			Status:          types.BlockStatusVerified,
			L1GasPrice:      n.inner.l1GasPrice,
			L2FairGasPrice:  n.inner.l2GasPrice,
			OperatorAddress: common.Address{},
			ProtocolVersion: &version,
		}, nil
	}
	if f := n.inner.forkDetails(); f != nil {
		details, err := f.Source.GetBlockDetails(ctx, number)
		if err != nil {
			log.Debugf("details of block %d not found in the fork: %v", number, err)
			return nil, nil
		}
		return details, nil
	}
	return nil, nil
}

// GetTransactionDetails returns nil when the transaction is unknown
func (n *Node) GetTransactionDetails(ctx context.Context, hash common.Hash) (*types.TransactionDetails, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if r, ok := n.inner.txResults[hash]; ok {
		fee := new(big.Int).Mul(r.Receipt.EffectiveGasPrice.ToInt(), new(big.Int).SetUint64(uint64(r.Receipt.GasUsed)))
		gasPerPubdata := r.Tx.Fee.GasPerPubdataLimit
		if gasPerPubdata == nil {
			gasPerPubdata = big.NewInt(types.DefaultGasPerPubdata)
		}
		return &types.TransactionDetails{
			IsL1Originated:   false,
			Status:           types.TxStatusIncluded,
			Fee:              (*hexutil.Big)(fee),
			GasPerPubdata:    (*hexutil.Big)(new(big.Int).Set(gasPerPubdata)),
			InitiatorAddress: r.Tx.From,
			ReceivedAt:       r.Tx.ReceivedAt.UTC(),
		}, nil
	}
	if n.pool.Contains(hash) {
		return &types.TransactionDetails{Status: types.TxStatusPending}, nil
	}
	if f := n.inner.forkDetails(); f != nil {
		details, err := f.Source.GetTransactionDetails(ctx, hash)
		if err != nil {
			log.Debugf("details of transaction %s not found in the fork: %v", hash, err)
			return nil, nil
		}
		return details, nil
	}
	return nil, nil
}

// GetRawBlockTransactions returns the transactions of a block in their raw form
func (n *Node) GetRawBlockTransactions(ctx context.Context, number uint64) (interface{}, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if b, ok := n.inner.localBlock(number); ok {
		raw := make([]types.RawTransaction, 0, b.Transactions.Len())
		for _, tx := range b.Transactions.Txs {
			if r, ok := n.inner.txResults[tx.Hash]; ok {
				raw = append(raw, types.NewRawTransaction(r.Tx))
			}
		}
		return raw, nil
	}
	if f := n.inner.forkDetails(); f != nil {
		raw, err := f.Source.GetRawBlockTransactions(ctx, number)
		if err != nil {
			return nil, fmt.Errorf("failed to get raw transactions of block %d from the fork: %w", number, err)
		}
		return raw, nil
	}
	return nil, ErrNoBlock
}

// GetBytecodeByHash returns nil when the bytecode is unknown
func (n *Node) GetBytecodeByHash(hash common.Hash) []byte {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.inner.storage.LoadFactoryDep(hash)
}

// L1BatchBlockRange returns the first and last local miniblocks of batch
func (n *Node) L1BatchBlockRange(batch uint64) (first, last uint64, ok bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	var start uint64
	if f := n.inner.forkDetails(); f != nil {
		start = f.L2MiniblockNumber + 1
	}
	for number := start; number <= n.inner.currentMiniblock; number++ {
		b, found := n.inner.localBlock(number)
		if !found || b.L1BatchNumber == nil || uint64(*b.L1BatchNumber) != batch {
			continue
		}
		if !ok {
			first, ok = number, true
		}
		last = number
	}
	return first, last, ok
}
