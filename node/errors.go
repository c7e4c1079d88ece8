package node

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

var (
	// ErrNoBlock is returned when the requested block is neither local nor in the fork
	ErrNoBlock = errors.New("block not found")
	// ErrNotImplemented is returned by operations the node does not support
	ErrNotImplemented = errors.New("not implemented")
	// ErrSnapshotNotFound is returned when reverting to an unknown snapshot
	ErrSnapshotNotFound = errors.New("no snapshot exists")
	// ErrInvalidSignature is returned when the recovered signer does not match the initiator
	ErrInvalidSignature = errors.New("transaction signer does not match the initiator")
)

// InvalidTransactionError is returned when a transaction is rejected before it is executed
type InvalidTransactionError struct {
	Reason string
}

// NewInvalidTransactionError creates an InvalidTransactionError
func NewInvalidTransactionError(format string, args ...interface{}) *InvalidTransactionError {
	return &InvalidTransactionError{Reason: fmt.Sprintf(format, args...)}
}

func (e *InvalidTransactionError) Error() string {
	return e.Reason
}

// ExecutionError is returned when a transaction, call or estimation reverts or halts
type ExecutionError struct {
	Message string
	// Data is the revert data, empty for halts
	Data []byte
}

func (e *ExecutionError) Error() string {
	return e.Message
}

// EncodedData is the hex encoded revert data
func (e *ExecutionError) EncodedData() string {
	return hexutil.Encode(e.Data)
}
