package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/0xPolygon/zksync-test-node/fork"
	"github.com/0xPolygon/zksync-test-node/node"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, []string{"stderr"}, cfg.Log.Outputs)
	assert.Equal(t, 8011, cfg.RPC.Port)
	assert.Equal(t, 60*time.Second, cfg.RPC.ReadTimeout.Duration)
	assert.Equal(t, []string{"*"}, cfg.RPC.CORSAllowedOrigins)
	assert.Equal(t, uint64(node.L1GasPrice), cfg.Node.L1GasPrice)
	assert.Equal(t, uint64(node.L2GasPrice), cfg.Node.L2GasPrice)
	assert.Equal(t, node.ShowCallsNone, cfg.Node.Knobs.ShowCalls)
	assert.Equal(t, 30*time.Second, cfg.Fork.Timeout.Duration)
	assert.Equal(t, fork.CacheDisk, cfg.Cache.Type)
	assert.False(t, cfg.Metrics.Enabled)
	require.NoError(t, cfg.Node.Validate())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "node.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[RPC]
Port = 9000

[Node]
NoMining = true
	[Node.Knobs]
	ShowCalls = "user"

[Cache]
Type = "memory"
`), 0o600))

	t.Setenv("ZKSYNC_NODE_METRICS_ENABLED", "true")
	t.Setenv("ZKSYNC_NODE_NODE_L2GASPRICE", "1000")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.RPC.Port)
	assert.Equal(t, "0.0.0.0", cfg.RPC.Host)
	assert.True(t, cfg.Node.NoMining)
	assert.Equal(t, node.ShowCallsUser, cfg.Node.Knobs.ShowCalls)
	assert.Equal(t, fork.CacheMemory, cfg.Cache.Type)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, uint64(1000), cfg.Node.L2GasPrice)
}

func TestLoadGenesisFromJSONString(t *testing.T) {
	testCases := []struct {
		name     string
		json     string
		expected []node.GenesisAccount
		err      bool
	}{
		{
			name: "balance and code",
			json: `{"genesis":[
				{"address":"0x1000000000000000000000000000000000000001","balance":"1000"},
				{"address":"0x1000000000000000000000000000000000000002","bytecode":"0x602a","storage":{"0x01":"0x02"},"contractName":"Answer"}
			]}`,
			expected: []node.GenesisAccount{
				{Address: common.HexToAddress("0x1000000000000000000000000000000000000001"), Balance: "1000"},
				{
					Address: common.HexToAddress("0x1000000000000000000000000000000000000002"),
					Balance: "0",
					Code:    "0x602a",
					Storage: map[string]string{"0x01": "0x02"},
				},
			},
		},
		{
			name:     "empty",
			json:     `{"genesis":[]}`,
			expected: []node.GenesisAccount{},
		},
		{
			name: "invalid address",
			json: `{"genesis":[{"address":"0x12"}]}`,
			err:  true,
		},
		{
			name: "invalid json",
			json: `{"genesis":`,
			err:  true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			accounts, err := LoadGenesisFromJSONString(tc.json)
			if tc.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, accounts)
		})
	}
}

func TestLoadGenesisFile(t *testing.T) {
	_, err := LoadGenesisFile("")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "genesis.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"genesis":[{"address":"0x1000000000000000000000000000000000000001","balance":"0x10"}]}`), 0o600))
	accounts, err := LoadGenesisFile(path)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "0x10", accounts[0].Balance)
}
