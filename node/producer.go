package node

import (
	"context"
	"fmt"
	"math/big"

	"github.com/0xPolygon/zksync-test-node/executor"
	"github.com/0xPolygon/zksync-test-node/log"
	"github.com/0xPolygon/zksync-test-node/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// sealedBlock is the outcome of sealBlock
type sealedBlock struct {
	Block   *types.Block
	Results []*TxResult
	// Halted transactions were dropped, keyed by hash
	Halted map[common.Hash]error
}

func haltError(result *executor.Result) error {
	return &ExecutionError{Message: fmt.Sprintf("Transaction HALT: %s", result.HaltReason), Data: []byte{}}
}

// sealBlock executes txs in a new block on top of the current one. A non zero
// interval is the distance in seconds from the previous block timestamp. When
// skipEmpty is set and every transaction halted, nothing is sealed and the
// returned block is nil.
func (in *inner) sealBlock(ctx context.Context, vm executor.VM, txs []*types.L2Tx, interval uint64, skipEmpty bool) (*sealedBlock, error) {
	number := in.currentMiniblock + 1
	parent := in.currentMiniblockHash
	batch := in.currentBatch + 1
	timestamp := in.time.PeekWithInterval(interval)
	hash := BlockHash(number, parent)
	env := in.executionEnv(executor.ModeVerifyExecute, number, timestamp, BlockGasLimit)

	sealed := &sealedBlock{Halted: make(map[common.Hash]error)}
	for _, tx := range txs {
		result, err := in.executeTx(ctx, vm, env, tx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			log.Errorf("failed to execute transaction %s: %v", tx.Hash, err)
			sealed.Halted[tx.Hash] = err
			continue
		}
		if result.Kind == executor.ResultHalt {
			log.Infof("transaction %s halted: %s", tx.Hash, result.HaltReason)
			sealed.Halted[tx.Hash] = haltError(result)
			continue
		}
		in.applyResult(result)
		sealed.Results = append(sealed.Results, &TxResult{
			Tx:              tx,
			BatchNumber:     batch,
			MiniblockNumber: number,
			Result:          result,
		})
	}

	if skipEmpty && len(txs) > 0 && len(sealed.Results) == 0 {
		return sealed, nil
	}

	in.time.NextWithInterval(interval)
	block := newEmptyBlock(number, timestamp, batch, parent, in.l2GasPrice)
	in.fillBlock(block, sealed.Results)

	in.blocks[block.Hash] = block
	in.blockHashes[number] = block.Hash
	for _, r := range sealed.Results {
		in.txResults[r.Tx.Hash] = r
	}
	in.currentBatch = batch
	in.currentMiniblock = number
	in.currentMiniblockHash = hash
	in.archiveState(hash)

	in.filters.NotifyNewBlock(hash)
	for _, r := range sealed.Results {
		for _, l := range r.Receipt.Logs {
			in.filters.NotifyNewLog(l, number)
		}
	}

	log.Infof("sealed block #%d %s with %d transactions, timestamp %d", number, hash, len(sealed.Results), timestamp)
	sealed.Block = block
	return sealed, nil
}

// fillBlock builds the receipts of results and the transaction related fields of block.
func (in *inner) fillBlock(block *types.Block, results []*TxResult) {
	gasPrice := new(big.Int).SetUint64(in.l2GasPrice)
	batch := hexutil.Uint64(*block.L1BatchNumber)

	var (
		cumulative uint64
		logIndex   uint64
		blockLogs  []*ethtypes.Log
		txHashes   []byte
	)
	for i, r := range results {
		index := hexutil.Uint64(i)
		tx := types.NewTransaction(r.Tx, gasPrice)
		blockHash := block.Hash
		blockNumber := block.Number
		tx.BlockHash = &blockHash
		tx.BlockNumber = &blockNumber
		tx.TransactionIndex = &index
		tx.L1BatchNumber = &batch
		tx.L1BatchTxIndex = &index
		block.Transactions.Txs = append(block.Transactions.Txs, tx)
		txHashes = append(txHashes, r.Tx.Hash.Bytes()...)

		cumulative += r.Result.GasUsed
		receipt := &types.TransactionReceipt{
			TransactionHash:   r.Tx.Hash,
			TransactionIndex:  index,
			BlockHash:         block.Hash,
			BlockNumber:       block.Number,
			L1BatchTxIndex:    &index,
			L1BatchNumber:     &batch,
			From:              r.Tx.From,
			To:                r.Tx.To,
			CumulativeGasUsed: hexutil.Uint64(cumulative),
			GasUsed:           hexutil.Uint64(r.Result.GasUsed),
			EffectiveGasPrice: (*hexutil.Big)(new(big.Int).Set(gasPrice)),
			ContractAddress:   r.Result.ContractAddress,
			Logs:              []types.Log{},
			L2ToL1Logs:        []types.L2ToL1Log{},
			Status:            hexutil.Uint64(types.ReceiptStatusSuccessful),
			LogsBloom:         ethtypes.BytesToBloom(ethtypes.LogsBloom(r.Result.Logs)),
			Type:              hexutil.Uint64(r.Tx.Type),
		}
		if r.Result.Kind != executor.ResultSuccess {
			receipt.Status = hexutil.Uint64(types.ReceiptStatusFailed)
		}
		for txLogIndex, l := range r.Result.Logs {
			receipt.Logs = append(receipt.Logs, types.Log{
				Address:             l.Address,
				Topics:              l.Topics,
				Data:                l.Data,
				BlockHash:           block.Hash,
				BlockNumber:         block.Number,
				L1BatchNumber:       &batch,
				TransactionHash:     r.Tx.Hash,
				TransactionIndex:    index,
				LogIndex:            hexutil.Uint64(logIndex),
				TransactionLogIndex: hexutil.Uint64(txLogIndex),
			})
			logIndex++
		}
		blockLogs = append(blockLogs, r.Result.Logs...)
		r.Receipt = receipt
		r.Debug = debugCall(r.Tx, r.Result)
	}

	block.GasUsed = hexutil.Uint64(cumulative)
	block.LogsBloom = ethtypes.BytesToBloom(ethtypes.LogsBloom(blockLogs))
	if len(results) > 0 {
		block.TxRoot = crypto.Keccak256Hash(txHashes)
	}
}

// debugCall is the call tree of an executed transaction.
func debugCall(tx *types.L2Tx, result *executor.Result) types.DebugCall {
	if result.Call != nil {
		return *result.Call
	}
	to := types.ContractDeployerAddress
	if tx.To != nil {
		to = *tx.To
	}
	value := tx.Value
	if value == nil {
		value = new(big.Int)
	}
	call := types.DebugCall{
		Type:    "Call",
		From:    tx.From,
		To:      to,
		Gas:     (*hexutil.Big)(new(big.Int).SetUint64(tx.GasLimit())),
		GasUsed: (*hexutil.Big)(new(big.Int).SetUint64(result.GasUsed)),
		Value:   (*hexutil.Big)(new(big.Int).Set(value)),
		Output:  result.Output,
		Input:   tx.Input,
		Calls:   []types.DebugCall{},
	}
	if result.Failed() {
		msg := result.Message()
		call.Error = &msg
		if result.RevertReason != "" {
			reason := result.RevertReason
			call.RevertReason = &reason
		}
	}
	return call
}
