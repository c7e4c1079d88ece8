package types

import (
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockNumberUnmarshal(t *testing.T) {
	cases := []struct {
		input    string
		expected BlockNumber
		err      bool
	}{
		{input: `"earliest"`, expected: EarliestBlockNumber},
		{input: `"latest"`, expected: LatestBlockNumber},
		{input: `"pending"`, expected: PendingBlockNumber},
		{input: `"committed"`, expected: CommittedBlockNumber},
		{input: `"finalized"`, expected: FinalizedBlockNumber},
		{input: `"0x10"`, expected: BlockNumber(16)},
		{input: `12`, expected: BlockNumber(12)},
		{input: `"foo"`, err: true},
		{input: `-1`, err: true},
	}

	for _, c := range cases {
		t.Run(c.input, func(t *testing.T) {
			var bn BlockNumber
			err := json.Unmarshal([]byte(c.input), &bn)
			if c.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.expected, bn)
		})
	}
}

func TestBlockNumberResolve(t *testing.T) {
	assert.Equal(t, uint64(0), EarliestBlockNumber.Resolve(10))
	assert.Equal(t, uint64(10), LatestBlockNumber.Resolve(10))
	assert.Equal(t, uint64(10), PendingBlockNumber.Resolve(10))
	assert.Equal(t, uint64(10), CommittedBlockNumber.Resolve(10))
	assert.Equal(t, uint64(10), FinalizedBlockNumber.Resolve(10))
	assert.Equal(t, uint64(4), BlockNumber(4).Resolve(10))
	assert.Equal(t, uint64(10), BlockNumber(40).Resolve(10))
}

func TestBlockIDUnmarshal(t *testing.T) {
	hash := common.HexToHash("0x1234")

	var id BlockID
	require.NoError(t, json.Unmarshal([]byte(`"latest"`), &id))
	require.NotNil(t, id.Number)
	assert.Equal(t, LatestBlockNumber, *id.Number)

	id = BlockID{}
	require.NoError(t, json.Unmarshal([]byte(`{"blockNumber":"0x2"}`), &id))
	require.NotNil(t, id.Number)
	assert.Equal(t, BlockNumber(2), *id.Number)

	id = BlockID{}
	require.NoError(t, json.Unmarshal([]byte(`{"blockHash":"`+hash.Hex()+`"}`), &id))
	require.NotNil(t, id.Hash)
	assert.Equal(t, hash, *id.Hash)

	id = BlockID{}
	require.NoError(t, json.Unmarshal([]byte(`"`+hash.Hex()+`"`), &id))
	require.NotNil(t, id.Hash)
	assert.Equal(t, hash, *id.Hash)

	id = BlockID{}
	require.Error(t, json.Unmarshal([]byte(`{}`), &id))
}

func TestBlockTransactionsJSON(t *testing.T) {
	block := &Block{Transactions: BlockTransactions{Full: true, Txs: []Transaction{{Hash: common.HexToHash("0x1")}}}}

	full, err := json.Marshal(block.WithHashes(true).Transactions)
	require.NoError(t, err)
	var decoded BlockTransactions
	require.NoError(t, json.Unmarshal(full, &decoded))
	assert.True(t, decoded.Full)
	assert.Equal(t, 1, decoded.Len())

	hashes, err := json.Marshal(block.WithHashes(false).Transactions)
	require.NoError(t, err)
	assert.Equal(t, `["`+common.HexToHash("0x1").Hex()+`"]`, string(hashes))

	empty, err := json.Marshal(BlockTransactions{})
	require.NoError(t, err)
	assert.Equal(t, "[]", string(empty))
}
