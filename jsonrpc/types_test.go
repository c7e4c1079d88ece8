package jsonrpc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgUint64(t *testing.T) {
	testCases := []struct {
		input    string
		expected ArgUint64
		err      bool
	}{
		{input: `10`, expected: 10},
		{input: `"10"`, expected: 10},
		{input: `"0xa"`, expected: 10},
		{input: `"0XA"`, expected: 10},
		{input: `"0x"`, err: true},
		{input: `"ten"`, err: true},
		{input: `-1`, err: true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			var a ArgUint64
			err := json.Unmarshal([]byte(tc.input), &a)
			if tc.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, a)
		})
	}

	out, err := json.Marshal(ArgUint64(255))
	require.NoError(t, err)
	assert.Equal(t, `"0xff"`, string(out))
}

func TestResetRequest(t *testing.T) {
	var req ResetRequest
	require.NoError(t, json.Unmarshal([]byte(`{"forking":{"jsonRpcUrl":"mainnet","blockNumber":"0x64"}}`), &req))
	require.NotNil(t, req.Forking)
	assert.Nil(t, req.To)
	assert.Equal(t, "mainnet", req.Forking.JSONRPCURL)
	require.NotNil(t, req.Forking.BlockNumber)
	assert.Equal(t, ArgUint64(100), *req.Forking.BlockNumber)
}
