package jsonrpc

import (
	"errors"
	"fmt"

	"github.com/0xPolygon/zksync-test-node/filters"
	"github.com/0xPolygon/zksync-test-node/log"
	"github.com/0xPolygon/zksync-test-node/node"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

const (
	// DefaultErrorCode is used for unknown blocks and rejected transactions
	DefaultErrorCode = -32000
	// InvalidParamsErrorCode is used for malformed or out of range parameters
	InvalidParamsErrorCode = -32602
	// InternalErrorCode is used for unexpected failures
	InternalErrorCode = -32603
	// NotImplementedErrorCode is returned by the methods the node does not support
	NotImplementedErrorCode = -32004
	// RevertedErrorCode is used for reverted and halted executions, data holds the revert bytes
	RevertedErrorCode = 3
)

// RPCError is an error returned to JSON-RPC clients
type RPCError struct {
	code int
	err  string
	data []byte
}

// NewRPCError creates a new error without data
func NewRPCError(code int, err string, args ...interface{}) *RPCError {
	return NewRPCErrorWithData(code, fmt.Sprintf(err, args...), nil)
}

// NewRPCErrorWithData creates a new error with data
func NewRPCErrorWithData(code int, err string, data []byte) *RPCError {
	return &RPCError{code: code, err: err, data: data}
}

// Error returns the error message
func (e *RPCError) Error() string {
	return e.err
}

// ErrorCode returns the error code
func (e *RPCError) ErrorCode() int {
	return e.code
}

// ErrorData returns the hex encoded data, nil when the error has none
func (e *RPCError) ErrorData() interface{} {
	if e.data == nil {
		return nil
	}
	return hexutil.Encode(e.data)
}

func errNotImplemented(method string) *RPCError {
	return NewRPCError(NotImplementedErrorCode, "Method %s is not implemented", method)
}

func errInvalidParams(format string, args ...interface{}) *RPCError {
	return NewRPCError(InvalidParamsErrorCode, format, args...)
}

// toRPCError maps the errors of the node onto JSON-RPC errors. Unknown errors
// are logged and reported as internal errors.
func toRPCError(method string, err error) error {
	if err == nil {
		return nil
	}

	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr
	}
	var execErr *node.ExecutionError
	if errors.As(err, &execErr) {
		return NewRPCErrorWithData(RevertedErrorCode, execErr.Message, execErr.Data)
	}
	var invalidTx *node.InvalidTransactionError
	if errors.As(err, &invalidTx) {
		return NewRPCError(DefaultErrorCode, "%s", invalidTx.Reason)
	}

	switch {
	case node.IsNotFound(err), errors.Is(err, filters.ErrInvalidFilter):
		return NewRPCError(DefaultErrorCode, "%s", err.Error())
	case errors.Is(err, node.ErrZeroBlocks), errors.Is(err, node.ErrSnapshotNotFound),
		errors.Is(err, node.ErrUnsupportedTracer):
		return errInvalidParams("%s", err.Error())
	case errors.Is(err, node.ErrNotImplemented):
		return errNotImplemented(method)
	}

	log.Errorf("%s failed: %v", method, err)
	return NewRPCError(InternalErrorCode, "%s", err.Error())
}
