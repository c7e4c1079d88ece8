package executor

import (
	"context"
	"errors"
	"math/big"

	"github.com/0xPolygon/zksync-test-node/log"
	"github.com/0xPolygon/zksync-test-node/types"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"
)

var _ VM = (*EVM)(nil)

// EVM runs transactions with the go-ethereum virtual machine on top of the
// zkSync storage layout.
type EVM struct{}

// NewEVM creates the default VM
func NewEVM() *EVM {
	return &EVM{}
}

// ChainConfig enables every fork up to Shanghai at genesis.
func ChainConfig(chainID uint64) *params.ChainConfig {
	zero := uint64(0)
	return &params.ChainConfig{
		ChainID:                       new(big.Int).SetUint64(chainID),
		HomesteadBlock:                new(big.Int),
		EIP150Block:                   new(big.Int),
		EIP155Block:                   new(big.Int),
		EIP158Block:                   new(big.Int),
		ByzantiumBlock:                new(big.Int),
		ConstantinopleBlock:           new(big.Int),
		PetersburgBlock:               new(big.Int),
		IstanbulBlock:                 new(big.Int),
		MuirGlacierBlock:              new(big.Int),
		BerlinBlock:                   new(big.Int),
		LondonBlock:                   new(big.Int),
		ArrowGlacierBlock:             new(big.Int),
		GrayGlacierBlock:              new(big.Int),
		MergeNetsplitBlock:            new(big.Int),
		ShanghaiTime:                  &zero,
		TerminalTotalDifficulty:       new(big.Int),
		TerminalTotalDifficultyPassed: true,
	}
}

func newMessage(env Env, tx *types.L2Tx) *core.Message {
	value := tx.Value
	if value == nil {
		value = new(big.Int)
	}
	msg := &core.Message{
		To:         tx.To,
		From:       tx.From,
		Nonce:      tx.Nonce,
		Value:      value,
		GasLimit:   tx.GasLimit(),
		GasPrice:   new(big.Int),
		GasFeeCap:  new(big.Int),
		GasTipCap:  new(big.Int),
		Data:       tx.Input,
		AccessList: tx.AccessList,
	}
	if env.Mode != ModeVerifyExecute {
		msg.SkipAccountChecks = true
		return msg
	}

	if tx.Fee.MaxFeePerGas != nil {
		msg.GasFeeCap = new(big.Int).Set(tx.Fee.MaxFeePerGas)
	}
	if tx.Fee.MaxPriorityFeePerGas != nil {
		msg.GasTipCap = new(big.Int).Set(tx.Fee.MaxPriorityFeePerGas)
	}
	// effective price: min(tip + base fee, fee cap)
	msg.GasPrice = new(big.Int).Add(msg.GasTipCap, env.BaseFee)
	if msg.GasPrice.Cmp(msg.GasFeeCap) > 0 {
		msg.GasPrice.Set(msg.GasFeeCap)
	}
	return msg
}

// Run executes tx over state. VM faults and failed account checks are reported
// as a halted Result, the returned error is reserved for invalid invocations.
func (e *EVM) Run(ctx context.Context, env Env, state Storage, tx *types.L2Tx) (*Result, error) {
	if tx == nil {
		return nil, errors.New("nil transaction")
	}
	if env.BaseFee == nil {
		return nil, errors.New("base fee not set")
	}

	statedb := newStateDB(state)
	for _, dep := range tx.FactoryDeps {
		if hash := types.BytecodeHash(dep); hash != (common.Hash{}) {
			statedb.deps[hash] = common.CopyBytes(dep)
		}
	}

	getHash := env.GetHash
	if getHash == nil {
		getHash = func(uint64) common.Hash { return common.Hash{} }
	}
	random := common.Hash{}
	blockCtx := vm.BlockContext{
		CanTransfer: core.CanTransfer,
		Transfer:    core.Transfer,
		GetHash:     getHash,
		Coinbase:    types.BootloaderAddress,
		GasLimit:    env.GasLimit,
		BlockNumber: new(big.Int).SetUint64(env.BlockNumber),
		Time:        env.Timestamp,
		Difficulty:  new(big.Int),
		BaseFee:     new(big.Int).Set(env.BaseFee),
		Random:      &random,
	}
	if env.Mode != ModeVerifyExecute {
		// calls are free, a zero base fee keeps the coinbase tip from going negative
		blockCtx.BaseFee = new(big.Int)
	}

	msg := newMessage(env, tx)
	calls := newCallTracer()
	faults := NewCallErrorTracer()
	evm := vm.NewEVM(blockCtx, core.NewEVMTxContext(msg), statedb, ChainConfig(env.ChainID), vm.Config{
		Tracer:    tracers{calls, faults},
		NoBaseFee: env.Mode != ModeVerifyExecute,
	})

	var contractAddress *common.Address
	if tx.IsDeployment() {
		addr := crypto.CreateAddress(tx.From, statedb.GetNonce(tx.From))
		contractAddress = &addr
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			evm.Cancel()
		case <-done:
		}
	}()

	gp := new(core.GasPool).AddGas(env.GasLimit)
	res, err := core.ApplyMessage(evm, msg, gp)
	if err != nil {
		log.Debugf("transaction %s halted: %v", tx.Hash, err)
		return &Result{
			Kind:        ResultHalt,
			HaltReason:  err.Error(),
			Faults:      faults.Faults(),
			StorageLogs: statedb.storageLogs,
		}, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	statedb.finalise()
	result := &Result{
		Kind:        ResultSuccess,
		Output:      res.ReturnData,
		GasUsed:     res.UsedGas,
		Logs:        statedb.logs,
		StorageDiff: statedb.diff(),
		FactoryDeps: statedb.factoryDeps(tx.FactoryDeps),
		Call:        calls.result(),
		Faults:      faults.Faults(),
		StorageLogs: statedb.storageLogs,
	}
	if res.Failed() {
		result.Kind = ResultRevert
		result.Logs = nil
		result.RevertReason = revertReason(res)
		return result, nil
	}
	result.ContractAddress = contractAddress
	return result, nil
}

func revertReason(res *core.ExecutionResult) string {
	if !errors.Is(res.Err, vm.ErrExecutionReverted) {
		return res.Err.Error()
	}
	if reason, err := abi.UnpackRevert(res.Revert()); err == nil {
		return reason
	}
	return ""
}
