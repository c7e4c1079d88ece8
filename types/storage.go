package types

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// System contract addresses of the zkSync Era kernel space.
var (
	BootloaderAddress         = common.HexToAddress("0x0000000000000000000000000000000000008001")
	AccountCodeStorageAddress = common.HexToAddress("0x0000000000000000000000000000000000008002")
	NonceHolderAddress        = common.HexToAddress("0x0000000000000000000000000000000000008003")
	KnownCodesStorageAddress  = common.HexToAddress("0x0000000000000000000000000000000000008004")
	ContractDeployerAddress   = common.HexToAddress("0x0000000000000000000000000000000000008006")
	L1MessengerAddress        = common.HexToAddress("0x0000000000000000000000000000000000008008")
	L2BaseTokenAddress        = common.HexToAddress("0x000000000000000000000000000000000000800a")
	SystemContextAddress      = common.HexToAddress("0x000000000000000000000000000000000000800b")
)

// maxSystemContractAddress is the upper bound of the kernel address space.
var maxSystemContractAddress = common.HexToAddress("0x000000000000000000000000000000000000ffff")

// IsSystemContract reports whether the address lives in the kernel address space.
func IsSystemContract(addr common.Address) bool {
	return addr.Big().Cmp(maxSystemContractAddress.Big()) <= 0 && addr != (common.Address{})
}

// StorageKey identifies a single slot of a single account.
type StorageKey struct {
	Address common.Address `json:"address"`
	Key     common.Hash    `json:"key"`
}

// NewStorageKey builds a StorageKey
func NewStorageKey(addr common.Address, key common.Hash) StorageKey {
	return StorageKey{Address: addr, Key: key}
}

// HashedKey returns the flat key used by the zkSync state tree.
func (k StorageKey) HashedKey() common.Hash {
	return crypto.Keccak256Hash(common.LeftPadBytes(k.Address.Bytes(), 32), k.Key.Bytes())
}

func (k StorageKey) String() string {
	return fmt.Sprintf("%s:%s", k.Address.Hex(), k.Key.Hex())
}

// AddressMappingKey returns the slot of `mapping(address => ...)` declared at position.
func AddressMappingKey(addr common.Address, position common.Hash) common.Hash {
	return crypto.Keccak256Hash(common.LeftPadBytes(addr.Bytes(), 32), position.Bytes())
}

// BalanceKey is the key holding the base token balance of addr.
func BalanceKey(addr common.Address) StorageKey {
	return TokenBalanceKey(L2BaseTokenAddress, addr)
}

// TokenBalanceKey is the key holding the balance of addr in a standard token contract.
func TokenBalanceKey(token, addr common.Address) StorageKey {
	return NewStorageKey(token, AddressMappingKey(addr, common.Hash{}))
}

// NonceKey is the key holding the packed transaction and deployment nonces of addr.
func NonceKey(addr common.Address) StorageKey {
	return NewStorageKey(NonceHolderAddress, AddressMappingKey(addr, common.Hash{}))
}

// CodeKey is the key holding the bytecode hash deployed at addr.
func CodeKey(addr common.Address) StorageKey {
	return NewStorageKey(AccountCodeStorageAddress, common.BytesToHash(addr.Bytes()))
}

var nonceModulus = new(uint256.Int).Lsh(uint256.NewInt(1), 128)

// DecomposeFullNonce splits the value stored under NonceKey into the transaction
// nonce (low 128 bits) and the deployment nonce (high 128 bits).
func DecomposeFullNonce(full common.Hash) (txNonce, deploymentNonce *uint256.Int) {
	v := new(uint256.Int).SetBytes(full.Bytes())
	txNonce = new(uint256.Int).Mod(v, nonceModulus)
	deploymentNonce = new(uint256.Int).Rsh(v, 128)
	return txNonce, deploymentNonce
}

// ComposeFullNonce is the inverse of DecomposeFullNonce.
func ComposeFullNonce(txNonce, deploymentNonce *uint256.Int) common.Hash {
	v := new(uint256.Int).Lsh(deploymentNonce, 128)
	v.Add(v, new(uint256.Int).Mod(txNonce, nonceModulus))
	return common.Hash(v.Bytes32())
}

// HashToBig interprets a storage value as an unsigned integer.
func HashToBig(h common.Hash) *big.Int {
	return new(big.Int).SetBytes(h.Bytes())
}

// BigToHash stores an unsigned integer as a storage value. Values wider than
// 256 bits are truncated to their low 256 bits.
func BigToHash(v *big.Int) common.Hash {
	if v == nil {
		return common.Hash{}
	}
	u, _ := uint256.FromBig(v)
	return common.Hash(u.Bytes32())
}

// BytecodeHash is the hash under which a bytecode is stored as a factory dependency.
func BytecodeHash(code []byte) common.Hash {
	if len(code) == 0 {
		return common.Hash{}
	}
	return crypto.Keccak256Hash(code)
}
