package executor

import (
	"context"
	"fmt"
	"math/big"

	"github.com/0xPolygon/zksync-test-node/types"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// Storage is the state a transaction runs over. Writes never reach it, they are
// returned in the Result instead.
type Storage interface {
	ReadValue(key types.StorageKey) common.Hash
	LoadFactoryDep(hash common.Hash) []byte
}

// Mode of execution
type Mode int

const (
	// ModeVerifyExecute runs a transaction that is going to be included in a block
	ModeVerifyExecute Mode = iota
	// ModeEthCall runs a read only call, fees are not charged and account checks are skipped
	ModeEthCall
	// ModeEstimateFee runs a call while searching for the gas limit of a transaction
	ModeEstimateFee
)

func (m Mode) String() string {
	switch m {
	case ModeVerifyExecute:
		return "verify_execute"
	case ModeEthCall:
		return "eth_call"
	case ModeEstimateFee:
		return "estimate_fee"
	default:
		return "unknown"
	}
}

// Env pins the block a transaction is executed in.
type Env struct {
	Mode        Mode
	ChainID     uint64
	BlockNumber uint64
	Timestamp   uint64
	// BaseFee is the L2 gas price
	BaseFee  *big.Int
	GasLimit uint64
	// GetHash returns the hash of a previous block, nil reads as zero
	GetHash func(number uint64) common.Hash
}

// ResultKind tells how a transaction ended
type ResultKind int

// Result kinds
const (
	ResultSuccess ResultKind = iota
	ResultRevert
	ResultHalt
)

func (k ResultKind) String() string {
	switch k {
	case ResultSuccess:
		return "success"
	case ResultRevert:
		return "revert"
	case ResultHalt:
		return "halt"
	default:
		return "unknown"
	}
}

// StorageLogKind distinguishes reads from writes
type StorageLogKind string

// Storage log kinds
const (
	StorageRead  StorageLogKind = "read"
	StorageWrite StorageLogKind = "write"
)

// StorageLog is a single storage access of a transaction
type StorageLog struct {
	Kind  StorageLogKind
	Key   types.StorageKey
	Value common.Hash
}

// Result of running a transaction. Halted transactions carry no state changes.
type Result struct {
	Kind ResultKind
	// Output is the return data, or the revert data for reverted transactions
	Output          []byte
	RevertReason    string
	HaltReason      string
	GasUsed         uint64
	Logs            []*ethtypes.Log
	StorageDiff     map[types.StorageKey]common.Hash
	FactoryDeps     map[common.Hash][]byte
	ContractAddress *common.Address
	Call            *types.DebugCall
	Faults          []Fault
	StorageLogs     []StorageLog
}

// Failed reports whether the transaction did not succeed
func (r *Result) Failed() bool {
	return r.Kind != ResultSuccess
}

// Message renders the outcome of a failed transaction the way it is shown to users.
func (r *Result) Message() string {
	switch r.Kind {
	case ResultRevert:
		if r.RevertReason == "" {
			return "execution reverted"
		}
		return fmt.Sprintf("execution reverted: %s", r.RevertReason)
	case ResultHalt:
		if r.HaltReason == "" {
			return "execution halted"
		}
		return fmt.Sprintf("execution halted: %s", r.HaltReason)
	default:
		return ""
	}
}

// VM runs a single L2 transaction.
type VM interface {
	Run(ctx context.Context, env Env, state Storage, tx *types.L2Tx) (*Result, error)
}
