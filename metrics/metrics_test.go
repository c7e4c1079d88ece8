package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	blocks := testutil.ToFloat64(blocksSealed)
	BlockSealed(7)
	assert.Equal(t, blocks+1, testutil.ToFloat64(blocksSealed))
	assert.Equal(t, float64(7), testutil.ToFloat64(latestBlock))

	success := testutil.ToFloat64(txsExecuted.WithLabelValues("success"))
	TxExecuted("success")
	TxExecuted("success")
	assert.Equal(t, success+2, testutil.ToFloat64(txsExecuted.WithLabelValues("success")))

	calls := testutil.ToFloat64(rpcRequests.WithLabelValues("eth_chainId"))
	RPCRequest("eth_chainId")
	assert.Equal(t, calls+1, testutil.ToFloat64(rpcRequests.WithLabelValues("eth_chainId")))
}
