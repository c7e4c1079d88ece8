package types

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFullNonce(t *testing.T) {
	cases := []struct {
		name       string
		txNonce    uint64
		deployment uint64
	}{
		{name: "zero", txNonce: 0, deployment: 0},
		{name: "tx only", txNonce: 42, deployment: 0},
		{name: "deployment only", txNonce: 0, deployment: 3},
		{name: "both", txNonce: 1 << 40, deployment: 1 << 20},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			full := ComposeFullNonce(uint256.NewInt(c.txNonce), uint256.NewInt(c.deployment))

			expected := new(big.Int).Lsh(new(big.Int).SetUint64(c.deployment), 128)
			expected.Add(expected, new(big.Int).SetUint64(c.txNonce))
			require.Equal(t, 0, expected.Cmp(HashToBig(full)))

			txNonce, deployment := DecomposeFullNonce(full)
			assert.Equal(t, c.txNonce, txNonce.Uint64())
			assert.Equal(t, c.deployment, deployment.Uint64())
		})
	}
}

func TestStorageKeys(t *testing.T) {
	addr := common.HexToAddress("0x36615Cf349d7F6344891B1e7CA7C72883F5dc049")
	mappingKey := crypto.Keccak256Hash(common.LeftPadBytes(addr.Bytes(), 32), make([]byte, 32))

	balance := BalanceKey(addr)
	assert.Equal(t, L2BaseTokenAddress, balance.Address)
	assert.Equal(t, mappingKey, balance.Key)

	nonce := NonceKey(addr)
	assert.Equal(t, NonceHolderAddress, nonce.Address)
	assert.Equal(t, mappingKey, nonce.Key)

	code := CodeKey(addr)
	assert.Equal(t, AccountCodeStorageAddress, code.Address)
	assert.Equal(t, common.BytesToHash(addr.Bytes()), code.Key)

	assert.NotEqual(t, balance.HashedKey(), nonce.HashedKey())
}

func TestIsSystemContract(t *testing.T) {
	assert.True(t, IsSystemContract(BootloaderAddress))
	assert.True(t, IsSystemContract(L2BaseTokenAddress))
	assert.False(t, IsSystemContract(common.Address{}))
	assert.False(t, IsSystemContract(common.HexToAddress("0x10000")))
}

func TestBigToHash(t *testing.T) {
	assert.Equal(t, common.Hash{}, BigToHash(nil))
	assert.Equal(t, common.BigToHash(big.NewInt(1337)), BigToHash(big.NewInt(1337)))
	assert.Equal(t, common.Hash{}, BytecodeHash(nil))
}
