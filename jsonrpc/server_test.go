package jsonrpc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/0xPolygon/zksync-test-node/fork"
	"github.com/0xPolygon/zksync-test-node/metrics"
	"github.com/0xPolygon/zksync-test-node/node"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testAddr  = common.HexToAddress("0x1000000000000000000000000000000000000001")
	otherAddr = common.HexToAddress("0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045")
)

type testServer struct {
	url    string
	client *rpc.Client
}

func newTestServer(t *testing.T, cfg Config, nodeCfg node.Config) *testServer {
	t.Helper()
	n, err := node.New(context.Background(), nodeCfg, nil)
	require.NoError(t, err)

	s, err := NewServer(cfg, metrics.Config{Enabled: true}, n, fork.Config{}, nil)
	require.NoError(t, err)

	httpSrv := httptest.NewServer(s.Handler())
	t.Cleanup(httpSrv.Close)

	client, err := rpc.DialHTTP(httpSrv.URL)
	require.NoError(t, err)
	t.Cleanup(client.Close)

	return &testServer{url: httpSrv.URL, client: client}
}

func (s *testServer) call(t *testing.T, result interface{}, method string, args ...interface{}) {
	t.Helper()
	require.NoError(t, s.client.CallContext(context.Background(), result, method, args...))
}

func (s *testServer) post(t *testing.T, body string) []byte {
	t.Helper()
	res, err := http.Post(s.url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	out, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return out
}

func rpcErrorCode(t *testing.T, err error) int {
	t.Helper()
	require.Error(t, err)
	var rpcErr rpc.Error
	require.True(t, errors.As(err, &rpcErr), "not an rpc error: %v", err)
	return rpcErr.ErrorCode()
}

func TestChainInfo(t *testing.T) {
	s := newTestServer(t, Config{}, node.Config{})

	var chainID hexutil.Uint64
	s.call(t, &chainID, "eth_chainId")
	assert.Equal(t, hexutil.Uint64(node.TestNodeNetworkID), chainID)

	var version string
	s.call(t, &version, "net_version")
	assert.Equal(t, "260", version)

	var clientVersion string
	s.call(t, &clientVersion, "web3_clientVersion")
	assert.Equal(t, ClientVersion, clientVersion)

	var number hexutil.Uint64
	s.call(t, &number, "eth_getBlockNumber")
	assert.Equal(t, hexutil.Uint64(0), number)

	var batch hexutil.Uint64
	s.call(t, &batch, "zks_L1BatchNumber")
	assert.Equal(t, hexutil.Uint64(0), batch)

	var syncing bool
	s.call(t, &syncing, "eth_syncing")
	assert.False(t, syncing)
}

func TestErrorCodes(t *testing.T) {
	s := newTestServer(t, Config{}, node.Config{})
	ctx := context.Background()

	s.call(t, nil, "hardhat_setCode", testAddr, hexutil.Bytes(common.FromHex("0x60006000fd")))

	testCases := []struct {
		name         string
		method       string
		args         []interface{}
		expectedCode int
		expectedMsg  string
	}{
		{
			name:         "not implemented",
			method:       "eth_coinbase",
			expectedCode: NotImplementedErrorCode,
			expectedMsg:  "Method eth_coinbase is not implemented",
		},
		{
			name:         "aliased not implemented",
			method:       "zks_L1ChainId",
			expectedCode: NotImplementedErrorCode,
			expectedMsg:  "Method zks_L1ChainId is not implemented",
		},
		{
			name:         "unknown snapshot",
			method:       "evm_revert",
			args:         []interface{}{"0x5"},
			expectedCode: InvalidParamsErrorCode,
		},
		{
			name:         "unknown filter",
			method:       "eth_getFilterChanges",
			args:         []interface{}{"0x99"},
			expectedCode: DefaultErrorCode,
		},
		{
			name:         "reverted call",
			method:       "eth_call",
			args:         []interface{}{map[string]interface{}{"to": testAddr}},
			expectedCode: RevertedErrorCode,
		},
		{
			name:         "not impersonated sender",
			method:       "eth_sendTransaction",
			args:         []interface{}{map[string]interface{}{"from": otherAddr, "to": testAddr}},
			expectedCode: DefaultErrorCode,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var result json.RawMessage
			err := s.client.CallContext(ctx, &result, tc.method, tc.args...)
			assert.Equal(t, tc.expectedCode, rpcErrorCode(t, err))
			if tc.expectedMsg != "" {
				assert.Equal(t, tc.expectedMsg, err.Error())
			}
		})
	}
}

func TestImpersonatedTransfer(t *testing.T) {
	s := newTestServer(t, Config{}, node.Config{})

	var ok bool
	s.call(t, &ok, "hardhat_impersonateAccount", otherAddr)
	assert.True(t, ok)
	s.call(t, &ok, "hardhat_setBalance", otherAddr, "0xde0b6b3a7640000")
	assert.True(t, ok)

	var hash common.Hash
	s.call(t, &hash, "eth_sendTransaction", map[string]interface{}{
		"from":  otherAddr,
		"to":    testAddr,
		"value": "0x64",
	})

	var receipt map[string]interface{}
	s.call(t, &receipt, "eth_getTransactionReceipt", hash)
	require.NotNil(t, receipt)
	assert.Equal(t, "0x1", receipt["status"])
	assert.Equal(t, "0x1", receipt["blockNumber"])

	var balance hexutil.Big
	s.call(t, &balance, "eth_getBalance", testAddr, "latest")
	assert.Equal(t, int64(100), balance.ToInt().Int64())

	s.call(t, &ok, "hardhat_stopImpersonatingAccount", otherAddr)
	assert.True(t, ok)
}

func TestSnapshotAndMine(t *testing.T) {
	s := newTestServer(t, Config{}, node.Config{})

	var id hexutil.Uint64
	s.call(t, &id, "evm_snapshot")
	assert.Equal(t, hexutil.Uint64(1), id)

	var mined bool
	s.call(t, &mined, "hardhat_mine", "0x3", "0xa")
	assert.True(t, mined)

	var number hexutil.Uint64
	s.call(t, &number, "eth_blockNumber")
	assert.Equal(t, hexutil.Uint64(3), number)

	var evmMine string
	s.call(t, &evmMine, "evm_mine")
	assert.Equal(t, "0x0", evmMine)

	var reverted bool
	s.call(t, &reverted, "anvil_revert", "0x1")
	assert.True(t, reverted)
	s.call(t, &number, "eth_blockNumber")
	assert.Equal(t, hexutil.Uint64(0), number)
}

func TestMineDetailedAlias(t *testing.T) {
	s := newTestServer(t, Config{}, node.Config{})

	for _, method := range []string{"hardhat_mine_detailed", "anvil_mine_detailed"} {
		t.Run(method, func(t *testing.T) {
			var block map[string]interface{}
			s.call(t, &block, method)
			require.NotNil(t, block)
			assert.Contains(t, block, "hash")
			assert.Equal(t, []interface{}{}, block["transactions"])
		})
	}
}

func TestBatchAliases(t *testing.T) {
	s := newTestServer(t, Config{}, node.Config{})

	out := s.post(t, `[
		{"jsonrpc":"2.0","id":1,"method":"eth_getBlockNumber","params":[]},
		{"jsonrpc":"2.0","id":2,"method":"zks_L1ChainId","params":[]}
	]`)

	var responses []struct {
		ID     int             `json:"id"`
		Result json.RawMessage `json:"result"`
		Error  *struct {
			Code int `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(out, &responses))
	require.Len(t, responses, 2)
	for _, r := range responses {
		switch r.ID {
		case 1:
			assert.Nil(t, r.Error)
			assert.Equal(t, `"0x0"`, string(r.Result))
		case 2:
			require.NotNil(t, r.Error)
			assert.Equal(t, NotImplementedErrorCode, r.Error.Code)
		}
	}
}

func TestConfigNamespace(t *testing.T) {
	s := newTestServer(t, Config{}, node.Config{})

	var showCalls string
	s.call(t, &showCalls, "config_setShowCalls", "user")
	assert.Equal(t, "User", showCalls)
	s.call(t, &showCalls, "config_setShowCalls", "bogus")
	assert.Equal(t, "User", showCalls)
	s.call(t, &showCalls, "config_getShowCalls")
	assert.Equal(t, "User", showCalls)

	var vmDetails string
	s.call(t, &vmDetails, "config_setShowVmDetails", "all")
	assert.Equal(t, "All", vmDetails)

	var timestamp uint64
	s.call(t, &timestamp, "config_getCurrentTimestamp")
	assert.Equal(t, uint64(node.NonForkFirstBlockTimestamp), timestamp)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, Config{HealthCheckEndpoint: true}, node.Config{})

	res, err := http.Get(s.url + "/health")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	s.post(t, `{"jsonrpc":"2.0","id":1,"method":"eth_chainId","params":[]}`)

	res, err = http.Get(s.url + "/metrics")
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `zksync_test_node_rpc_requests_total{method="eth_chainId"}`)
}

func TestHealthDisabled(t *testing.T) {
	s := newTestServer(t, Config{}, node.Config{})

	res, err := http.Get(s.url + "/health")
	require.NoError(t, err)
	res.Body.Close()
	assert.NotEqual(t, http.StatusOK, res.StatusCode)
}

func TestRewriteMethods(t *testing.T) {
	testCases := []struct {
		name     string
		body     string
		expected string
		rewrite  bool
	}{
		{
			name:     "single alias",
			body:     `{"jsonrpc":"2.0","id":1,"method":"zks_L1BatchNumber"}`,
			expected: "zks_l1BatchNumber",
			rewrite:  true,
		},
		{
			name: "no alias",
			body: `{"jsonrpc":"2.0","id":1,"method":"eth_chainId"}`,
		},
		{
			name: "invalid json",
			body: `{"jsonrpc":`,
		},
		{
			name:     "batch",
			body:     ` [{"method":"eth_chainId"},{"method":"hardhat_mine_detailed"}]`,
			expected: "hardhat_mineDetailed",
			rewrite:  true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, ok := rewriteMethods([]byte(tc.body))
			assert.Equal(t, tc.rewrite, ok)
			if tc.rewrite {
				assert.Contains(t, string(out), `"`+tc.expected+`"`)
			}
		})
	}
}
