package node

import (
	"context"
	"encoding/json"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	configTypes "github.com/0xPolygon/zksync-test-node/config/types"
	"github.com/0xPolygon/zksync-test-node/filters"
	"github.com/0xPolygon/zksync-test-node/fork"
	"github.com/0xPolygon/zksync-test-node/mocks"
	"github.com/0xPolygon/zksync-test-node/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	richAddr = common.HexToAddress(RichWallets[0].Address)
	// returns 42 as a uint256
	returnCode = common.FromHex("0x602a60005260206000f3")
	// reverts with empty data
	revertCode = common.FromHex("0x60006000fd")
	// returns the gas left
	gasLeftCode = common.FromHex("0x5a60005260206000f3")
)

func newTestNode(t *testing.T, cfg Config) *Node {
	t.Helper()
	n, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	return n
}

func transferRequest(from common.Address, value int64) types.CallRequest {
	to := testRecipient
	return types.CallRequest{
		From:  &from,
		To:    &to,
		Value: (*hexutil.Big)(big.NewInt(value)),
	}
}

func blockAt(number uint64) *types.BlockID {
	return types.BlockIDFromNumber(types.BlockNumber(number))
}

// log4Code emits an event with the given topics and no data
func log4Code(topics [4]common.Hash) []byte {
	code := []byte{}
	for i := 3; i >= 0; i-- {
		code = append(code, 0x7f)
		code = append(code, topics[i].Bytes()...)
	}
	// size, offset, LOG4, STOP
	return append(code, 0x60, 0x00, 0x60, 0x00, 0xa4, 0x00)
}

func TestNewGenesisNode(t *testing.T) {
	ctx := context.Background()
	n := newTestNode(t, Config{})

	assert.Equal(t, uint64(TestNodeNetworkID), n.ChainID())
	assert.Equal(t, uint64(0), n.BlockNumber())
	assert.Equal(t, uint64(0), n.L1BatchNumber())
	assert.Equal(t, uint64(NonForkFirstBlockTimestamp), n.CurrentTimestamp())
	assert.Len(t, n.Accounts(), len(RichWallets))

	genesis, err := n.GetBlockByNumber(ctx, types.LatestBlockNumber, false)
	require.NoError(t, err)
	require.NotNil(t, genesis)
	assert.Equal(t, hexutil.Uint64(0), genesis.Number)
	assert.Equal(t, BlockHash(0, common.Hash{}), genesis.Hash)

	balance, err := n.GetBalance(ctx, richAddr, nil)
	require.NoError(t, err)
	assert.Equal(t, RichBalance, balance)

	missing, err := n.GetBlockByNumber(ctx, types.BlockNumber(5), false)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), uint64(missing.Number), "numbers above the head resolve to the head")
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(context.Background(), Config{Knobs: Knobs{ShowCalls: "everything"}}, nil)
	require.Error(t, err)

	_, err = New(context.Background(), Config{RichAccountBalance: "lots"}, nil)
	require.Error(t, err)
}

func TestImmediateTransfer(t *testing.T) {
	ctx := context.Background()
	n := newTestNode(t, Config{})
	require.True(t, n.ImpersonateAccount(richAddr))

	hash, err := n.SendTransaction(ctx, transferRequest(richAddr, 100))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n.BlockNumber())
	assert.Equal(t, 0, n.PendingTransactions())

	receipt := n.GetTransactionReceipt(hash)
	require.NotNil(t, receipt)
	assert.Equal(t, hexutil.Uint64(1), receipt.Status)
	assert.Equal(t, hexutil.Uint64(1), receipt.BlockNumber)
	assert.Equal(t, richAddr, receipt.From)

	tx, err := n.GetTransactionByHash(ctx, hash)
	require.NoError(t, err)
	require.NotNil(t, tx)
	assert.Equal(t, hash, tx.Hash)

	latest, err := n.GetBalance(ctx, testRecipient, nil)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100), latest)

	before, err := n.GetBalance(ctx, testRecipient, blockAt(0))
	require.NoError(t, err)
	assert.Equal(t, 0, before.Sign())

	nonce, err := n.GetTransactionCount(ctx, richAddr, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), nonce)

	count, err := n.GetBlockTransactionCountByNumber(ctx, types.BlockNumber(1))
	require.NoError(t, err)
	require.NotNil(t, count)
	assert.Equal(t, uint64(1), *count)
}

func TestSendRawTransaction(t *testing.T) {
	ctx := context.Background()
	n := newTestNode(t, Config{})

	key, err := crypto.HexToECDSA(RichWallets[1].PrivateKey[2:])
	require.NoError(t, err)
	to := testRecipient
	signed, err := ethtypes.SignNewTx(key, ethtypes.LatestSignerForChainID(big.NewInt(TestNodeNetworkID)), &ethtypes.DynamicFeeTx{
		ChainID:   big.NewInt(TestNodeNetworkID),
		GasTipCap: big.NewInt(0),
		GasFeeCap: big.NewInt(L2GasPrice),
		Gas:       1_000_000,
		To:        &to,
		Value:     big.NewInt(7),
	})
	require.NoError(t, err)
	raw, err := signed.MarshalBinary()
	require.NoError(t, err)

	hash, err := n.SendRawTransaction(ctx, raw)
	require.NoError(t, err)
	assert.Equal(t, signed.Hash(), hash)
	require.NotNil(t, n.GetTransactionReceipt(hash))

	balance, err := n.GetBalance(ctx, testRecipient, nil)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(7), balance)
}

func TestSubmitRejections(t *testing.T) {
	ctx := context.Background()
	n := newTestNode(t, Config{})

	t.Run("not impersonated", func(t *testing.T) {
		_, err := n.SendTransaction(ctx, transferRequest(richAddr, 1))
		require.ErrorContains(t, err, "is not allowed to perform transactions")
	})

	t.Run("max fee too low", func(t *testing.T) {
		require.True(t, n.ImpersonateAccount(richAddr))
		defer n.StopImpersonatingAccount(richAddr)
		req := transferRequest(richAddr, 1)
		req.MaxFeePerGas = (*hexutil.Big)(big.NewInt(1))
		_, err := n.SendTransaction(ctx, req)
		var invalid *InvalidTransactionError
		require.ErrorAs(t, err, &invalid)
		assert.Contains(t, err.Error(), "block base fee higher than max fee per gas")
	})

	t.Run("halted transactions are not sealed", func(t *testing.T) {
		require.True(t, n.ImpersonateAccount(richAddr))
		defer n.StopImpersonatingAccount(richAddr)
		req := transferRequest(richAddr, 1)
		wrongNonce := hexutil.Uint64(5)
		req.Nonce = &wrongNonce
		_, err := n.SendTransaction(ctx, req)
		require.ErrorContains(t, err, "Transaction HALT")
	})

	assert.Equal(t, uint64(0), n.BlockNumber())
}

func TestSignerMismatch(t *testing.T) {
	ctx := context.Background()
	n := newTestNode(t, Config{})
	signer, err := crypto.HexToECDSA(RichWallets[1].PrivateKey[2:])
	require.NoError(t, err)

	to := testRecipient
	tx := &types.L2Tx{
		ChainID: big.NewInt(TestNodeNetworkID),
		From:    richAddr,
		To:      &to,
		Value:   big.NewInt(5),
		Fee: types.Fee{
			GasLimit:             big.NewInt(1_000_000),
			MaxFeePerGas:         big.NewInt(L2GasPrice),
			MaxPriorityFeePerGas: big.NewInt(0),
			GasPerPubdataLimit:   big.NewInt(types.DefaultGasPerPubdata),
		},
	}
	require.NoError(t, types.SignEIP712(tx, signer))

	_, err = n.SendRawTransaction(ctx, tx.Raw)
	var invalid *InvalidTransactionError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, err.Error(), ErrInvalidSignature.Error())
	assert.Equal(t, uint64(0), n.BlockNumber())

	require.True(t, n.ImpersonateAccount(richAddr))
	hash, err := n.SendRawTransaction(ctx, tx.Raw)
	require.NoError(t, err)
	assert.Equal(t, tx.Hash, hash)
	receipt := n.GetTransactionReceipt(hash)
	require.NotNil(t, receipt)
	assert.Equal(t, richAddr, receipt.From)
}

func TestCoSealedTransactionIndexes(t *testing.T) {
	ctx := context.Background()
	n := newTestNode(t, Config{NoMining: true})
	other := common.HexToAddress(RichWallets[1].Address)
	require.True(t, n.ImpersonateAccount(richAddr))
	require.True(t, n.ImpersonateAccount(other))

	// same nonce, recipient and value from two senders
	first, err := n.SendTransaction(ctx, transferRequest(richAddr, 100))
	require.NoError(t, err)
	second, err := n.SendTransaction(ctx, transferRequest(other, 100))
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	blocks, err := n.Mine(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, 2, blocks[0].Transactions.Len())

	for i, c := range []struct {
		hash common.Hash
		from common.Address
	}{{first, richAddr}, {second, other}} {
		receipt := n.GetTransactionReceipt(c.hash)
		require.NotNil(t, receipt)
		assert.Equal(t, c.from, receipt.From)
		assert.Equal(t, hexutil.Uint64(i), receipt.TransactionIndex)

		tx, err := n.GetTransactionByHash(ctx, c.hash)
		require.NoError(t, err)
		require.NotNil(t, tx)
		require.NotNil(t, tx.TransactionIndex)
		assert.Equal(t, hexutil.Uint64(i), *tx.TransactionIndex)
	}
}

func TestIntervalSealingUnderLoad(t *testing.T) {
	ctx := context.Background()
	n := newTestNode(t, Config{BlockTime: configTypes.NewDuration(300 * time.Millisecond)})
	require.True(t, n.ImpersonateAccount(richAddr))
	go n.Start()
	defer n.Stop()

	// submissions arrive faster than the interval
	deadline := time.Now().Add(1200 * time.Millisecond)
	for i := int64(1); time.Now().Before(deadline); i++ {
		_, err := n.SendTransaction(ctx, transferRequest(richAddr, i))
		require.NoError(t, err)
		time.Sleep(50 * time.Millisecond)
	}

	assert.GreaterOrEqual(t, n.BlockNumber(), uint64(2))
}

func TestRevertedTransactionIsIncluded(t *testing.T) {
	ctx := context.Background()
	n := newTestNode(t, Config{})
	contract := common.HexToAddress("0xc0ffee")
	n.SetCode(contract, revertCode)
	require.True(t, n.ImpersonateAccount(richAddr))

	hash, err := n.SendTransaction(ctx, types.CallRequest{From: &richAddr, To: &contract})
	require.NoError(t, err)
	receipt := n.GetTransactionReceipt(hash)
	require.NotNil(t, receipt)
	assert.Equal(t, hexutil.Uint64(0), receipt.Status)
	assert.Equal(t, uint64(1), n.BlockNumber())
}

func TestCall(t *testing.T) {
	ctx := context.Background()
	n := newTestNode(t, Config{})
	returner := common.HexToAddress("0x1234")
	reverter := common.HexToAddress("0x5678")
	n.SetCode(returner, returnCode)
	n.SetCode(reverter, revertCode)

	code, err := n.GetCode(ctx, returner, nil)
	require.NoError(t, err)
	assert.Equal(t, returnCode, code)

	out, err := n.Call(ctx, types.CallRequest{To: &returner})
	require.NoError(t, err)
	assert.Equal(t, common.LeftPadBytes([]byte{42}, 32), out)

	_, err = n.Call(ctx, types.CallRequest{To: &reverter})
	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)

	// calls never seal blocks
	assert.Equal(t, uint64(0), n.BlockNumber())
}

func TestCallGasLimitIsPinned(t *testing.T) {
	ctx := context.Background()
	n := newTestNode(t, Config{})
	meter := common.HexToAddress("0x9a5")
	n.SetCode(meter, gasLeftCode)

	for _, gas := range []uint64{0, 1_000_000_000} {
		req := types.CallRequest{To: &meter}
		if gas > 0 {
			req.Gas = (*hexutil.Big)(new(big.Int).SetUint64(gas))
		}
		out, err := n.Call(ctx, req)
		require.NoError(t, err)
		left := new(big.Int).SetBytes(out).Uint64()
		assert.Less(t, left, uint64(EthCallGasLimit))
		assert.Greater(t, left, uint64(EthCallGasLimit-100_000))

		trace, err := n.TraceCall(ctx, req, nil)
		require.NoError(t, err)
		assert.Equal(t, uint64(EthCallGasLimit), trace.Gas.ToInt().Uint64())
	}
}

func TestEstimateFee(t *testing.T) {
	ctx := context.Background()
	n := newTestNode(t, Config{})

	fee, err := n.EstimateFee(ctx, transferRequest(richAddr, 1))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, fee.GasLimit.Uint64(), uint64(21_000))
	assert.LessOrEqual(t, fee.GasLimit.Uint64(), uint64(MaxL2TxGasLimit))
	assert.Equal(t, big.NewInt(L2GasPrice), fee.MaxFeePerGas)
	assert.Equal(t, 0, fee.MaxPriorityFeePerGas.Sign())
	// ceil(50 gwei * 1.2 * 17 / 0.25 gwei)
	assert.Equal(t, big.NewInt(4080), fee.GasPerPubdataLimit)

	gas, err := n.EstimateGas(ctx, transferRequest(richAddr, 1))
	require.NoError(t, err)
	assert.Equal(t, fee.GasLimit.Uint64(), gas)

	reverter := common.HexToAddress("0x5678")
	n.SetCode(reverter, revertCode)
	_, err = n.EstimateFee(ctx, types.CallRequest{From: &richAddr, To: &reverter})
	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
}

func TestSnapshots(t *testing.T) {
	ctx := context.Background()
	n := newTestNode(t, Config{})
	require.True(t, n.ImpersonateAccount(richAddr))

	id, err := n.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)

	hash, err := n.SendTransaction(ctx, transferRequest(richAddr, 100))
	require.NoError(t, err)
	require.Equal(t, uint64(1), n.BlockNumber())
	_, err = n.Snapshot()
	require.NoError(t, err)

	require.NoError(t, n.RevertSnapshot(id))
	assert.Equal(t, uint64(0), n.BlockNumber())
	assert.Nil(t, n.GetTransactionReceipt(hash))
	balance, err := n.GetBalance(ctx, testRecipient, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, balance.Sign())

	// the snapshot and every later one are gone
	require.ErrorContains(t, n.RevertSnapshot(id), "no snapshot exists for the id '1'")
	require.Error(t, n.RevertSnapshot(2))

	// the state after a revert is usable
	_, err = n.SendTransaction(ctx, transferRequest(richAddr, 5))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n.BlockNumber())
}

func TestSnapshotLimit(t *testing.T) {
	n := newTestNode(t, Config{})
	for i := 0; i < MaxSnapshots; i++ {
		_, err := n.Snapshot()
		require.NoError(t, err)
	}
	_, err := n.Snapshot()
	require.ErrorContains(t, err, "maximum number of '100' snapshots exceeded")
}

func TestMine(t *testing.T) {
	ctx := context.Background()
	n := newTestNode(t, Config{NoMining: true})
	require.True(t, n.ImpersonateAccount(richAddr))

	hash, err := n.SendTransaction(ctx, transferRequest(richAddr, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, n.PendingTransactions())
	assert.Equal(t, uint64(0), n.BlockNumber())
	assert.Nil(t, n.GetTransactionReceipt(hash))

	_, err = n.Mine(ctx, 0, 0)
	require.ErrorIs(t, err, ErrZeroBlocks)

	blocks, err := n.Mine(ctx, 3, 10)
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	assert.Equal(t, 1, blocks[0].Transactions.Len())
	assert.Equal(t, 0, blocks[1].Transactions.Len())
	assert.Equal(t, hexutil.Uint64(NonForkFirstBlockTimestamp+1), blocks[0].Timestamp)
	assert.Equal(t, hexutil.Uint64(NonForkFirstBlockTimestamp+11), blocks[1].Timestamp)
	assert.Equal(t, hexutil.Uint64(NonForkFirstBlockTimestamp+21), blocks[2].Timestamp)
	assert.Equal(t, blocks[0].Hash, blocks[1].ParentHash)

	assert.Equal(t, uint64(3), n.BlockNumber())
	assert.Equal(t, 0, n.PendingTransactions())
	assert.NotNil(t, n.GetTransactionReceipt(hash))
}

func TestTimeControls(t *testing.T) {
	ctx := context.Background()
	n := newTestNode(t, Config{NoMining: true})

	assert.Equal(t, uint64(0), n.IncreaseTime(0))
	assert.Equal(t, uint64(100), n.IncreaseTime(100))
	assert.Equal(t, uint64(NonForkFirstBlockTimestamp+100), n.CurrentTimestamp())

	require.Error(t, n.SetNextBlockTimestamp(10))
	require.NoError(t, n.SetNextBlockTimestamp(5_000))
	blocks, err := n.Mine(ctx, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, hexutil.Uint64(5_000), blocks[0].Timestamp)

	assert.Equal(t, int64(-4_000), n.SetTime(1_000))
	assert.Equal(t, uint64(1_000), n.GetCurrentTimestamp())
}

func TestSetNonce(t *testing.T) {
	ctx := context.Background()
	n := newTestNode(t, Config{})
	addr := common.HexToAddress("0xabc")

	require.NoError(t, n.SetNonce(addr, big.NewInt(5)))
	nonce, err := n.GetTransactionCount(ctx, addr, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), nonce)

	cases := []struct {
		name  string
		nonce *big.Int
		err   string
	}{
		{name: "lower", nonce: big.NewInt(3), err: "Account Nonce is already set to a higher value"},
		{name: "equal", nonce: big.NewInt(5), err: "Account Nonce is already set to a higher value"},
		{name: "out of range", nonce: new(big.Int).Lsh(big.NewInt(1), 300), err: "out of range"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.ErrorContains(t, n.SetNonce(addr, c.nonce), c.err)
		})
	}
}

func TestStateMutators(t *testing.T) {
	ctx := context.Background()
	n := newTestNode(t, Config{})
	addr := common.HexToAddress("0xdef")

	n.SetBalance(addr, big.NewInt(1_000))
	balance, err := n.GetBalance(ctx, addr, nil)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1_000), balance)

	slot := common.HexToHash("0x01")
	value := common.HexToHash("0xff")
	n.SetStorageAt(addr, slot, value)
	got, err := n.GetStorageAt(ctx, addr, slot, nil)
	require.NoError(t, err)
	assert.Equal(t, value, got)

	n.SetCode(addr, returnCode)
	assert.Equal(t, returnCode, n.GetBytecodeByHash(types.BytecodeHash(returnCode)))
}

func TestFilters(t *testing.T) {
	ctx := context.Background()
	n := newTestNode(t, Config{NoMining: true})
	require.True(t, n.ImpersonateAccount(richAddr))

	blockFilter := n.NewBlockFilter()
	pendingFilter := n.NewPendingTransactionFilter()

	hash, err := n.SendTransaction(ctx, transferRequest(richAddr, 1))
	require.NoError(t, err)
	blocks, err := n.Mine(ctx, 2, 1)
	require.NoError(t, err)

	changes, err := n.GetFilterChanges(blockFilter)
	require.NoError(t, err)
	assert.Equal(t, []common.Hash{blocks[0].Hash, blocks[1].Hash}, changes.Hashes)

	changes, err = n.GetFilterChanges(pendingFilter)
	require.NoError(t, err)
	assert.Equal(t, []common.Hash{hash}, changes.Hashes)

	// changes are only delivered once
	changes, err = n.GetFilterChanges(blockFilter)
	require.NoError(t, err)
	assert.Equal(t, 0, changes.Len())

	assert.True(t, n.UninstallFilter(blockFilter))
	assert.False(t, n.UninstallFilter(blockFilter))
	_, err = n.GetFilterChanges(blockFilter)
	require.ErrorIs(t, err, filters.ErrInvalidFilter)
}

func TestLogsAndInterop(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	n := newTestNode(t, Config{Interop: InteropConfig{Enabled: true, Dir: dir}})
	require.True(t, n.ImpersonateAccount(richAddr))

	destination := common.BigToHash(big.NewInt(271))
	topics := [4]common.Hash{InteropEventTopic, destination, common.HexToHash("0xbeef"), common.HexToHash("0xcafe")}
	emitter := common.HexToAddress("0xe111")
	n.SetCode(emitter, log4Code(topics))

	logFilter := n.NewFilter(filters.LogFilter{ToBlock: types.LatestBlockNumber, Addresses: []common.Address{emitter}})

	hash, err := n.SendTransaction(ctx, types.CallRequest{From: &richAddr, To: &emitter})
	require.NoError(t, err)
	receipt := n.GetTransactionReceipt(hash)
	require.NotNil(t, receipt)
	require.Len(t, receipt.Logs, 1)
	assert.Equal(t, topics[:], receipt.Logs[0].Topics)

	logs := n.GetLogs(filters.LogFilter{ToBlock: types.LatestBlockNumber, Topics: [][]common.Hash{{InteropEventTopic}}})
	require.Len(t, logs, 1)
	assert.Equal(t, hash, logs[0].TransactionHash)
	assert.Empty(t, n.GetLogs(filters.LogFilter{ToBlock: types.LatestBlockNumber, Addresses: []common.Address{richAddr}}))

	filterLogs, err := n.GetFilterLogs(logFilter)
	require.NoError(t, err)
	assert.Len(t, filterLogs, 1)
	changes, err := n.GetFilterChanges(logFilter)
	require.NoError(t, err)
	assert.Len(t, changes.Logs, 1)

	content, err := os.ReadFile(filepath.Join(dir, "interop_to_271.json"))
	require.NoError(t, err)
	var messages InteropMessages
	require.NoError(t, json.Unmarshal(content, &messages))
	require.Len(t, messages.Messages, 1)
	msg := messages.Messages[0]
	assert.Equal(t, uint64(TestNodeNetworkID), msg.SourceChain)
	assert.Equal(t, destination, msg.DestinationChain)
	assert.Equal(t, topics[2], msg.DestinationAddress)
	assert.Equal(t, topics[3], msg.SourceAddress)
	assert.Equal(t, "", msg.Payload)
}

func TestTraces(t *testing.T) {
	ctx := context.Background()
	n := newTestNode(t, Config{})
	require.True(t, n.ImpersonateAccount(richAddr))
	returner := common.HexToAddress("0x1234")
	n.SetCode(returner, returnCode)

	hash, err := n.SendTransaction(ctx, types.CallRequest{From: &richAddr, To: &returner})
	require.NoError(t, err)

	call, err := n.TraceTransaction(hash, nil)
	require.NoError(t, err)
	require.NotNil(t, call)
	assert.Equal(t, richAddr, call.From)

	missing, err := n.TraceTransaction(common.HexToHash("0x01"), nil)
	require.NoError(t, err)
	assert.Nil(t, missing)

	traces, err := n.TraceBlockByNumber(types.BlockNumber(1), nil)
	require.NoError(t, err)
	assert.Len(t, traces, 1)

	_, err = n.TraceBlockByHash(common.HexToHash("0x02"), nil)
	require.ErrorIs(t, err, ErrNoBlock)

	_, err = n.TraceTransaction(hash, &types.TracerConfig{Tracer: "prestateTracer"})
	require.ErrorIs(t, err, ErrUnsupportedTracer)

	topOnly := &types.TracerConfig{Tracer: CallTracer}
	topOnly.TracerConfig.OnlyTopCall = true
	traced, err := n.TraceCall(ctx, types.CallRequest{From: &richAddr, To: &returner}, topOnly)
	require.NoError(t, err)
	assert.Empty(t, traced.Calls)
}

func TestKnobs(t *testing.T) {
	n := newTestNode(t, Config{})

	assert.Equal(t, "None", n.GetShowCalls())
	assert.Equal(t, "User", n.SetShowCalls("user"))
	assert.Equal(t, "User", n.SetShowCalls("everything"))
	assert.Equal(t, "User", n.GetShowCalls())
	assert.Equal(t, "Write", n.SetShowStorageLogs("WRITE"))
	assert.Equal(t, "All", n.SetShowVMDetails("all"))
	assert.Equal(t, "None", n.SetShowGasDetails("none"))

	assert.False(t, n.GetShowOutputs())
	assert.True(t, n.SetShowOutputs(true))
	assert.True(t, n.GetShowOutputs())
	assert.True(t, n.SetResolveHashes(true))

	assert.True(t, n.SetLogLevel("debug"))
	assert.False(t, n.SetLogLevel("verbose"))
	assert.True(t, n.SetLogging("zksync_node=warn,rpc=info"))
	assert.False(t, n.SetLogging(""))
	assert.True(t, n.SetLogLevel("info"))
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	n := newTestNode(t, Config{})
	require.True(t, n.ImpersonateAccount(richAddr))
	_, err := n.SendTransaction(ctx, transferRequest(richAddr, 1))
	require.NoError(t, err)
	_, err = n.Snapshot()
	require.NoError(t, err)

	require.NoError(t, n.Reset(ctx, nil))
	assert.Equal(t, uint64(0), n.BlockNumber())
	require.Error(t, n.RevertSnapshot(1))
	_, err = n.SendTransaction(ctx, transferRequest(richAddr, 1))
	require.ErrorContains(t, err, "is not allowed to perform transactions")
}

func TestForkedReads(t *testing.T) {
	ctx := context.Background()
	source := mocks.NewForkSource(t)
	details := &fork.Details{
		Source:            source,
		URL:               "http://fork",
		L1BatchNumber:     10,
		L2MiniblockNumber: 100,
		L2MiniblockHash:   common.HexToHash("0x64"),
		BlockTimestamp:    5_000,
	}
	n, err := New(ctx, Config{ChainID: 300}, details)
	require.NoError(t, err)

	assert.Equal(t, uint64(300), n.ChainID())
	assert.Equal(t, uint64(100), n.BlockNumber())
	assert.Equal(t, uint64(10), n.L1BatchNumber())
	assert.Equal(t, uint64(5_000), n.CurrentTimestamp())

	addr := common.HexToAddress("0x1111")
	slot := common.HexToHash("0x02")
	value := common.HexToHash("0x2a")
	source.On("GetStorageAt", mock.Anything, addr, slot, mock.Anything).Return(value, nil)

	old, err := n.GetStorageAt(ctx, addr, slot, blockAt(50))
	require.NoError(t, err)
	assert.Equal(t, value, old)
	latest, err := n.GetStorageAt(ctx, addr, slot, nil)
	require.NoError(t, err)
	assert.Equal(t, value, latest)

	forkBlock := &types.Block{Number: 50, Hash: common.HexToHash("0x32")}
	source.On("GetBlockByNumber", mock.Anything, types.BlockNumber(50), false).Return(forkBlock, nil).Once()
	b, err := n.GetBlockByNumber(ctx, types.BlockNumber(50), false)
	require.NoError(t, err)
	assert.Equal(t, forkBlock.Hash, b.Hash)

	// local blocks are built on top of the fork block
	blocks, err := n.Mine(ctx, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, hexutil.Uint64(101), blocks[0].Number)
	assert.Equal(t, details.L2MiniblockHash, blocks[0].ParentHash)
	assert.Equal(t, hexutil.Uint64(5_001), blocks[0].Timestamp)
}
