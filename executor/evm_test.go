package executor

import (
	"context"
	"math/big"
	"testing"

	"github.com/0xPolygon/zksync-test-node/fork"
	"github.com/0xPolygon/zksync-test-node/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testChainID = 260

var (
	l2GasPrice = big.NewInt(250_000_000)
	sender     = common.HexToAddress("0x36615Cf349d7F6344891B1e7CA7C72883F5dc049")
	recipient  = common.HexToAddress("0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045")
	oneEther   = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

	// returns the word 42
	runtimeCode = hexutil.MustDecode("0x602a60005260206000f3")
	// deploys runtimeCode
	initCode = hexutil.MustDecode("0x69602a60005260206000f3600052600a6016f3")
	// emits LOG1 with topic 7
	loggerCode = hexutil.MustDecode("0x600760006000a100")
	// JUMPDEST PUSH1 0 JUMP
	loopCode = hexutil.MustDecode("0x5b600056")
	// PUSH1 0 PUSH1 0 REVERT
	revertCode = hexutil.MustDecode("0x60006000fd")
)

func newTestEnv(mode Mode) Env {
	return Env{
		Mode:        mode,
		ChainID:     testChainID,
		BlockNumber: 1,
		Timestamp:   1001,
		BaseFee:     l2GasPrice,
		GasLimit:    1<<32 - 1,
	}
}

func newFundedStorage(t *testing.T) *fork.Storage {
	t.Helper()
	s := fork.NewStorage(nil, testChainID)
	s.SetValue(types.BalanceKey(sender), types.BigToHash(oneEther))
	return s
}

func installCode(s *fork.Storage, addr common.Address, code []byte) {
	hash := types.BytecodeHash(code)
	s.StoreFactoryDep(hash, code)
	s.SetValue(types.CodeKey(addr), hash)
}

func apply(s *fork.Storage, result *Result) {
	s.SetValues(result.StorageDiff)
	for hash, code := range result.FactoryDeps {
		s.StoreFactoryDep(hash, code)
	}
}

func newTx(to *common.Address, nonce uint64, gas int64, value int64, input []byte) *types.L2Tx {
	return &types.L2Tx{
		Type:    types.DynamicFeeTxType,
		ChainID: big.NewInt(testChainID),
		Nonce:   nonce,
		From:    sender,
		To:      to,
		Value:   big.NewInt(value),
		Input:   input,
		Fee: types.Fee{
			GasLimit:             big.NewInt(gas),
			MaxFeePerGas:         l2GasPrice,
			MaxPriorityFeePerGas: new(big.Int),
			GasPerPubdataLimit:   big.NewInt(types.DefaultGasPerPubdata),
		},
	}
}

func TestTransfer(t *testing.T) {
	s := newFundedStorage(t)
	to := recipient

	result, err := NewEVM().Run(context.Background(), newTestEnv(ModeVerifyExecute), s, newTx(&to, 0, 21000, 100, nil))
	require.NoError(t, err)
	require.Equal(t, ResultSuccess, result.Kind)
	assert.Equal(t, uint64(21000), result.GasUsed)
	assert.Nil(t, result.ContractAddress)
	assert.Empty(t, result.Message())

	fee := new(big.Int).Mul(big.NewInt(21000), l2GasPrice)
	expectedSenderBalance := new(big.Int).Sub(oneEther, new(big.Int).Add(fee, big.NewInt(100)))
	assert.Equal(t, types.BigToHash(big.NewInt(100)), result.StorageDiff[types.BalanceKey(recipient)])
	assert.Equal(t, types.BigToHash(expectedSenderBalance), result.StorageDiff[types.BalanceKey(sender)])
	assert.Equal(t, types.ComposeFullNonce(uint256.NewInt(1), uint256.NewInt(0)), result.StorageDiff[types.NonceKey(sender)])

	// nothing reached the storage
	assert.Equal(t, types.BigToHash(oneEther), s.ReadValue(types.BalanceKey(sender)))
}

func TestDeployAndCall(t *testing.T) {
	s := newFundedStorage(t)
	vm := NewEVM()

	result, err := vm.Run(context.Background(), newTestEnv(ModeVerifyExecute), s, newTx(nil, 0, 1_000_000, 0, initCode))
	require.NoError(t, err)
	require.Equal(t, ResultSuccess, result.Kind, result.Message())

	expectedAddress := crypto.CreateAddress(sender, 0)
	require.NotNil(t, result.ContractAddress)
	assert.Equal(t, expectedAddress, *result.ContractAddress)

	codeHash := crypto.Keccak256Hash(runtimeCode)
	assert.Equal(t, codeHash, result.StorageDiff[types.CodeKey(expectedAddress)])
	assert.Equal(t, runtimeCode, result.FactoryDeps[codeHash])
	require.NotNil(t, result.Call)
	assert.Equal(t, "CREATE", result.Call.Type)

	apply(s, result)

	// anybody can call, eth_call neither charges fees nor checks nonces
	stranger := common.HexToAddress("0x1234")
	call := newTx(&expectedAddress, 99, 100_000, 0, nil)
	call.From = stranger
	result, err = vm.Run(context.Background(), newTestEnv(ModeEthCall), s, call)
	require.NoError(t, err)
	require.Equal(t, ResultSuccess, result.Kind, result.Message())
	assert.Equal(t, common.LeftPadBytes([]byte{42}, 32), result.Output)
	require.NotNil(t, result.Call)
	assert.Equal(t, "CALL", result.Call.Type)
	assert.Equal(t, stranger, result.Call.From)
}

func TestRunOutcomes(t *testing.T) {
	logger := common.HexToAddress("0x1001")
	looper := common.HexToAddress("0x1002")
	reverter := common.HexToAddress("0x1003")

	cases := []struct {
		name            string
		tx              *types.L2Tx
		expectedKind    ResultKind
		expectedMessage string
		expectedFault   Fault
		expectedLogs    int
	}{
		{
			name:         "emits a log",
			tx:           newTx(&logger, 0, 100_000, 0, nil),
			expectedKind: ResultSuccess,
			expectedLogs: 1,
		},
		{
			name:            "reverts",
			tx:              newTx(&reverter, 0, 100_000, 0, nil),
			expectedKind:    ResultRevert,
			expectedMessage: "execution reverted",
		},
		{
			name:            "runs out of gas",
			tx:              newTx(&looper, 0, 50_000, 0, nil),
			expectedKind:    ResultRevert,
			expectedMessage: "execution reverted: out of gas",
			expectedFault:   FaultOutOfGas,
		},
		{
			name:            "nonce too high",
			tx:              newTx(&logger, 5, 100_000, 0, nil),
			expectedKind:    ResultHalt,
			expectedMessage: "execution halted: nonce too high",
		},
		{
			name:            "intrinsic gas too low",
			tx:              newTx(&logger, 0, 20_000, 0, nil),
			expectedKind:    ResultHalt,
			expectedMessage: "execution halted: intrinsic gas too low",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := newFundedStorage(t)
			installCode(s, logger, loggerCode)
			installCode(s, looper, loopCode)
			installCode(s, reverter, revertCode)

			result, err := NewEVM().Run(context.Background(), newTestEnv(ModeVerifyExecute), s, c.tx)
			require.NoError(t, err)
			assert.Equal(t, c.expectedKind, result.Kind)
			if c.expectedKind == ResultHalt {
				assert.Contains(t, result.Message(), c.expectedMessage)
			} else {
				assert.Equal(t, c.expectedMessage, result.Message())
			}
			assert.Len(t, result.Logs, c.expectedLogs)
			if c.expectedFault != "" {
				assert.Contains(t, result.Faults, c.expectedFault)
			}
			if c.expectedKind == ResultHalt {
				assert.Nil(t, result.StorageDiff)
				return
			}
			// reverted or not, the nonce is consumed
			assert.Equal(t, types.ComposeFullNonce(uint256.NewInt(1), uint256.NewInt(0)), result.StorageDiff[types.NonceKey(sender)])
		})
	}
}

func TestLogContents(t *testing.T) {
	s := newFundedStorage(t)
	logger := common.HexToAddress("0x1001")
	installCode(s, logger, loggerCode)

	result, err := NewEVM().Run(context.Background(), newTestEnv(ModeVerifyExecute), s, newTx(&logger, 0, 100_000, 0, nil))
	require.NoError(t, err)
	require.Len(t, result.Logs, 1)
	assert.Equal(t, logger, result.Logs[0].Address)
	assert.Equal(t, []common.Hash{common.BigToHash(big.NewInt(7))}, result.Logs[0].Topics)
	assert.Empty(t, result.Logs[0].Data)
}

func TestRunErrors(t *testing.T) {
	s := newFundedStorage(t)
	_, err := NewEVM().Run(context.Background(), newTestEnv(ModeVerifyExecute), s, nil)
	require.Error(t, err)

	env := newTestEnv(ModeVerifyExecute)
	env.BaseFee = nil
	to := recipient
	_, err = NewEVM().Run(context.Background(), env, s, newTx(&to, 0, 21000, 1, nil))
	require.Error(t, err)
}
