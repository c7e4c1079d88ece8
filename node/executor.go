package node

import (
	"context"
	"math"
	"math/big"

	zkcommon "github.com/0xPolygon/zksync-test-node/common"
	"github.com/0xPolygon/zksync-test-node/executor"
	"github.com/0xPolygon/zksync-test-node/log"
	"github.com/0xPolygon/zksync-test-node/types"
)

var maxU32 = big.NewInt(math.MaxUint32)

// validateTx rejects transactions that can never be executed by the node.
func (in *inner) validateTx(tx *types.L2Tx) error {
	if (tx.Fee.GasLimit != nil && tx.Fee.GasLimit.Cmp(maxU32) > 0) ||
		(tx.Fee.GasPerPubdataLimit != nil && tx.Fee.GasPerPubdataLimit.Cmp(maxU32) > 0) {
		return NewInvalidTransactionError("exceeds block gas limit")
	}

	maxFee := tx.Fee.MaxFeePerGas
	if maxFee == nil {
		maxFee = new(big.Int)
	}
	if maxFee.Cmp(new(big.Int).SetUint64(in.l2GasPrice)) < 0 {
		log.Infof("submitted tx %s is unexecutable because of max fee per gas too low: %s", tx.Hash, maxFee)
		return NewInvalidTransactionError("block base fee higher than max fee per gas")
	}

	if tx.Fee.MaxPriorityFeePerGas != nil && maxFee.Cmp(tx.Fee.MaxPriorityFeePerGas) < 0 {
		log.Infof("submitted tx %s is unexecutable because of max priority fee greater than max fee: %s", tx.Hash, maxFee)
		return NewInvalidTransactionError("max priority fee per gas higher than max fee per gas")
	}
	return nil
}

// checkInitiator accepts transactions signed by their initiator, and any
// transaction of an impersonated account.
func (in *inner) checkInitiator(tx *types.L2Tx) error {
	if in.impersonation.IsImpersonating(tx.From) {
		return nil
	}
	if tx.Signer != tx.From {
		return NewInvalidTransactionError("%s: %s", ErrInvalidSignature, tx.From)
	}
	return nil
}

// executeTx runs tx on top of the current state in the given block, it does not touch the state.
func (in *inner) executeTx(ctx context.Context, vm executor.VM, env executor.Env, tx *types.L2Tx) (*executor.Result, error) {
	result, err := vm.Run(ctx, env, in.storage, tx)
	if err != nil {
		return nil, err
	}
	in.logExecution(tx, env, result)
	return result, nil
}

// applyResult writes the state changes of an executed transaction.
func (in *inner) applyResult(result *executor.Result) {
	in.storage.SetValues(result.StorageDiff)
	for hash, code := range result.FactoryDeps {
		in.storage.StoreFactoryDep(hash, code)
	}
}

func executionError(result *executor.Result) *ExecutionError {
	err := &ExecutionError{Message: result.Message(), Data: []byte{}}
	if result.Kind == executor.ResultRevert {
		err.Data = result.Output
	}
	return err
}

// ethCall runs tx as a read only call on top of the latest block.
func (in *inner) ethCall(ctx context.Context, vm executor.VM, tx *types.L2Tx) (*executor.Result, error) {
	call := *tx
	call.Fee.GasLimit = big.NewInt(EthCallGasLimit)
	env := in.executionEnv(executor.ModeEthCall, in.currentMiniblock+1, in.time.Peek(), call.GasLimit())
	result, err := in.executeTx(ctx, vm, env, &call)
	if err != nil {
		return nil, err
	}
	if result.Failed() {
		return result, executionError(result)
	}
	return result, nil
}

// gasPerPubdata is the L2 gas charged per published byte at the estimation L1 gas price.
func (in *inner) gasPerPubdata() *big.Int {
	l1GasPrice := uint64(float64(in.l1GasPrice) * estimateGasL1GasPriceScaleFactor)
	pubdataPrice := new(big.Int).Mul(new(big.Int).SetUint64(l1GasPrice), big.NewInt(l1GasPerPubdataByte))
	return zkcommon.CeilDiv(pubdataPrice, new(big.Int).SetUint64(in.l2GasPrice))
}

// estimateFee looks for the lowest gas limit tx succeeds with.
func (in *inner) estimateFee(ctx context.Context, vm executor.VM, tx *types.L2Tx) (types.Fee, error) {
	gasPerPubdata := in.gasPerPubdata()

	var pubdata uint64
	for _, dep := range tx.FactoryDeps {
		if in.storage.LoadFactoryDep(types.BytecodeHash(dep)) != nil {
			continue
		}
		pubdata += uint64(len(dep)) + estimateGasPublishByteOverhead
	}
	gasForPubdata := pubdata * gasPerPubdata.Uint64()

	env := in.executionEnv(executor.ModeEstimateFee, in.currentMiniblock+1, in.time.Peek(), math.MaxUint64)
	try := func(gas uint64) (*executor.Result, error) {
		attempt := *tx
		attempt.Fee.GasLimit = new(big.Int).SetUint64(gasForPubdata + gas)
		env.GasLimit = gasForPubdata + gas
		return vm.Run(ctx, env, in.storage, &attempt)
	}

	result, err := try(MaxL2TxGasLimit)
	if err != nil {
		return types.Fee{}, err
	}
	if result.Failed() {
		log.Infof("unable to estimate gas for the request with the max gas limit %d: %s", MaxL2TxGasLimit, result.Message())
		return types.Fee{}, executionError(result)
	}

	lower, upper := uint64(0), uint64(MaxL2TxGasLimit)
	attempts := 1
	for lower+estimateGasAcceptableOverestimation < upper {
		mid := (lower + upper) / 2
		result, err := try(mid)
		if err != nil {
			return types.Fee{}, err
		}
		if result.Failed() {
			lower = mid + 1
		} else {
			upper = mid
		}
		attempts++
	}

	body := uint64(float64(upper) * estimateGasScaleFactor)
	if body > MaxL2TxGasLimit {
		body = MaxL2TxGasLimit
	}
	result, err = try(body)
	if err != nil {
		return types.Fee{}, err
	}
	if result.Failed() {
		log.Infof("unable to estimate gas for the request with the suggested gas limit %d, body: %d, pubdata: %d",
			body+gasForPubdata, body, gasForPubdata)
		return types.Fee{}, executionError(result)
	}

	log.Debugf("gas estimation took %d attempts, body: %d, pubdata: %d", attempts, body, gasForPubdata)
	return types.Fee{
		GasLimit:             new(big.Int).SetUint64(body + gasForPubdata),
		MaxFeePerGas:         new(big.Int).SetUint64(in.l2GasPrice),
		MaxPriorityFeePerGas: new(big.Int),
		GasPerPubdataLimit:   gasPerPubdata,
	}, nil
}
