package node

import (
	"strings"

	"github.com/0xPolygon/zksync-test-node/executor"
	"github.com/0xPolygon/zksync-test-node/log"
	"github.com/0xPolygon/zksync-test-node/types"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// logExecution prints what the output knobs ask for about an executed transaction.
func (in *inner) logExecution(tx *types.L2Tx, env executor.Env, result *executor.Result) {
	if env.Mode != executor.ModeVerifyExecute {
		return
	}

	logger := log.WithFields("tx", tx.Hash.Hex(), "block", env.BlockNumber)
	switch result.Kind {
	case executor.ResultSuccess:
		logger.Infof("transaction executed, gas used: %d", result.GasUsed)
	default:
		logger.Infof("transaction failed: %s", result.Message())
	}

	if in.knobs.ShowGasDetails == ShowGasDetailsAll {
		limit := tx.GasLimit()
		logger.Infof("gas limit: %d, used: %d, refunded: %d, price: %d", limit, result.GasUsed,
			saturatingSub(limit, result.GasUsed), in.l2GasPrice)
	}

	if in.knobs.ShowVMDetails == ShowVMDetailsAll {
		logger.Infof("vm result: %s, storage writes: %d, storage accesses: %d, factory deps: %d, faults: %v",
			result.Kind, len(result.StorageDiff), len(result.StorageLogs), len(result.FactoryDeps), result.Faults)
	}

	if in.knobs.ShowStorageLogs != ShowStorageLogsNone {
		for _, l := range result.StorageLogs {
			if !showStorageLog(in.knobs.ShowStorageLogs, l.Kind) {
				continue
			}
			logger.Infof("storage %s %s = %s", l.Kind, l.Key, l.Value)
		}
	}

	if in.knobs.ShowCalls != ShowCallsNone && result.Call != nil {
		var sb strings.Builder
		in.formatCall(&sb, result.Call, 0)
		if sb.Len() > 0 {
			logger.Infof("calls:\n%s", strings.TrimRight(sb.String(), "\n"))
		}
	}
}

func showStorageLog(knob ShowStorageLogs, kind executor.StorageLogKind) bool {
	switch knob {
	case ShowStorageLogsAll:
		return true
	case ShowStorageLogsRead:
		return kind == executor.StorageRead
	case ShowStorageLogsWrite:
		return kind == executor.StorageWrite
	default:
		return false
	}
}

// showCall reports whether a call frame is printed. User calls are the ones
// not involving system contracts.
func showCall(knob ShowCalls, call *types.DebugCall) bool {
	system := types.IsSystemContract(call.From) || types.IsSystemContract(call.To)
	switch knob {
	case ShowCallsAll:
		return true
	case ShowCallsSystem:
		return system
	case ShowCallsUser:
		return !system
	default:
		return false
	}
}

func (in *inner) formatCall(sb *strings.Builder, call *types.DebugCall, depth int) {
	next := depth
	if showCall(in.knobs.ShowCalls, call) {
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(call.Type)
		sb.WriteString(" ")
		sb.WriteString(call.From.Hex())
		sb.WriteString(" -> ")
		sb.WriteString(call.To.Hex())
		if len(call.Input) >= 4 {
			sb.WriteString(" ")
			sb.WriteString(hexutil.Encode(call.Input[:4]))
		}
		if in.knobs.ShowOutputs && len(call.Output) > 0 {
			sb.WriteString(" output: ")
			sb.WriteString(hexutil.Encode(call.Output))
		}
		if call.Error != nil {
			sb.WriteString(" error: ")
			sb.WriteString(*call.Error)
		}
		sb.WriteString("\n")
		next++
	}
	for i := range call.Calls {
		in.formatCall(sb, &call.Calls[i], next)
	}
}

func saturatingSub(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}
