package jsonrpc

import (
	"errors"
	"fmt"
	"testing"

	"github.com/0xPolygon/zksync-test-node/filters"
	"github.com/0xPolygon/zksync-test-node/node"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToRPCError(t *testing.T) {
	testCases := []struct {
		name         string
		err          error
		expectedCode int
		expectedData interface{}
	}{
		{
			name:         "execution error",
			err:          &node.ExecutionError{Message: "execution reverted: nope", Data: []byte{0x08, 0xc3}},
			expectedCode: RevertedErrorCode,
			expectedData: "0x08c3",
		},
		{
			name:         "invalid transaction",
			err:          node.NewInvalidTransactionError("nonce too low"),
			expectedCode: DefaultErrorCode,
		},
		{
			name:         "unknown block",
			err:          fmt.Errorf("lookup: %w", node.ErrNoBlock),
			expectedCode: DefaultErrorCode,
		},
		{
			name:         "unknown filter",
			err:          filters.ErrInvalidFilter,
			expectedCode: DefaultErrorCode,
		},
		{
			name:         "unknown snapshot",
			err:          fmt.Errorf("%w for the id '7'", node.ErrSnapshotNotFound),
			expectedCode: InvalidParamsErrorCode,
		},
		{
			name:         "not implemented",
			err:          node.ErrNotImplemented,
			expectedCode: NotImplementedErrorCode,
		},
		{
			name:         "unexpected",
			err:          errors.New("disk on fire"),
			expectedCode: InternalErrorCode,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := toRPCError("eth_test", tc.err)
			var rpcErr *RPCError
			require.True(t, errors.As(err, &rpcErr))
			assert.Equal(t, tc.expectedCode, rpcErr.ErrorCode())
			assert.Equal(t, tc.expectedData, rpcErr.ErrorData())
		})
	}

	assert.NoError(t, toRPCError("eth_test", nil))
}

func TestNotImplementedMessage(t *testing.T) {
	err := toRPCError("zks_getProof", node.ErrNotImplemented)
	assert.Equal(t, "Method zks_getProof is not implemented", err.Error())
}
