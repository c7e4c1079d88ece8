package types

import (
	"bytes"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
)

// Transaction type codes understood by the node.
const (
	LegacyTxType          = 0x00
	AccessListTxType      = 0x01
	DynamicFeeTxType      = 0x02
	EIP712TxType          = 0x71
	ProtocolUpgradeTxType = 0xfe
	PriorityOpTxType      = 0xff
)

const (
	// MaxTxSize is the largest encoded transaction accepted by the node
	MaxTxSize = 1_000_000
	// DefaultGasPerPubdata is the gas per pubdata limit assumed for non EIP-712 transactions
	DefaultGasPerPubdata = 50_000
)

var (
	// ErrOversizedData is returned when the encoded transaction exceeds MaxTxSize
	ErrOversizedData = errors.New("oversized data")
	// ErrInvalidChainID is returned when the transaction is signed for another chain
	ErrInvalidChainID = errors.New("invalid chain id")
	// ErrUnsupportedTxType is returned for encodings the node cannot execute
	ErrUnsupportedTxType = errors.New("unsupported transaction type")
	// ErrHashMismatch is returned when the stored hash does not match the encoding
	ErrHashMismatch = errors.New("computed hash does not match the provided hash")
)

// Fee holds the fee parameters of an L2 transaction.
type Fee struct {
	GasLimit             *big.Int
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
	GasPerPubdataLimit   *big.Int
}

// PaymasterParams of an EIP-712 transaction.
type PaymasterParams struct {
	Paymaster      common.Address
	PaymasterInput []byte
}

// L2Tx is a transaction accepted by the node, whatever its wire encoding.
type L2Tx struct {
	Hash        common.Hash
	Type        uint8
	ChainID     *big.Int
	Nonce       uint64
	From        common.Address
	To          *common.Address
	Value       *big.Int
	Input       []byte
	Fee         Fee
	AccessList  ethtypes.AccessList
	Signature   []byte
	FactoryDeps [][]byte
	Paymaster   *PaymasterParams
	Raw         []byte
	ReceivedAt  time.Time

	// Signer is the address recovered from Signature. It differs from From only
	// for EIP-712 transactions carrying somebody else's signature and for
	// unsigned transactions of impersonated accounts, where it is zero.
	Signer common.Address

	eth      *ethtypes.Transaction
	unsigned bool
}

// GasLimit as an uint64
func (tx *L2Tx) GasLimit() uint64 {
	if tx.Fee.GasLimit == nil || !tx.Fee.GasLimit.IsUint64() {
		return math.MaxUint64
	}
	return tx.Fee.GasLimit.Uint64()
}

// IsDeployment reports whether the transaction creates a contract.
func (tx *L2Tx) IsDeployment() bool {
	return tx.To == nil
}

// SignatureValues splits the 65 bytes signature into its v, r and s values.
func (tx *L2Tx) SignatureValues() (v, r, s *big.Int) {
	if tx.eth != nil {
		return tx.eth.RawSignatureValues()
	}
	if len(tx.Signature) != crypto.SignatureLength {
		return new(big.Int), new(big.Int), new(big.Int)
	}
	r = new(big.Int).SetBytes(tx.Signature[:32])
	s = new(big.Int).SetBytes(tx.Signature[32:64])
	v = new(big.Int).SetUint64(uint64(tx.Signature[64]))
	return v, r, s
}

// ComputeHash recomputes the hash from the canonical encoding of the transaction.
func (tx *L2Tx) ComputeHash() (common.Hash, error) {
	switch tx.Type {
	case EIP712TxType:
		digest := tx.EIP712SigningHash()
		return crypto.Keccak256Hash(digest.Bytes(), crypto.Keccak256(tx.Signature)), nil
	case LegacyTxType, AccessListTxType, DynamicFeeTxType:
		if tx.eth == nil {
			return common.Hash{}, ErrUnsupportedTxType
		}
		raw, err := tx.eth.MarshalBinary()
		if err != nil {
			return common.Hash{}, err
		}
		if tx.unsigned {
			return crypto.Keccak256Hash(raw, tx.From.Bytes()), nil
		}
		return crypto.Keccak256Hash(raw), nil
	default:
		return common.Hash{}, ErrUnsupportedTxType
	}
}

// DecodeL2Tx decodes a signed transaction in any of the supported encodings.
func DecodeL2Tx(raw []byte, chainID uint64) (*L2Tx, error) {
	if len(raw) == 0 {
		return nil, errors.New("empty transaction")
	}
	if len(raw) > MaxTxSize {
		return nil, ErrOversizedData
	}
	if raw[0] == EIP712TxType {
		return decodeEIP712(raw, chainID)
	}

	ethTx := new(ethtypes.Transaction)
	if err := ethTx.UnmarshalBinary(raw); err != nil {
		return nil, fmt.Errorf("failed to decode transaction: %w", err)
	}
	if ethTx.Type() > ethtypes.DynamicFeeTxType {
		return nil, ErrUnsupportedTxType
	}
	if ethTx.Protected() && ethTx.ChainId().Uint64() != chainID {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrInvalidChainID, chainID, ethTx.ChainId().Uint64())
	}
	signer := ethtypes.LatestSignerForChainID(new(big.Int).SetUint64(chainID))
	from, err := ethtypes.Sender(signer, ethTx)
	if err != nil {
		return nil, fmt.Errorf("failed to recover sender: %w", err)
	}

	tx := fromEthTransaction(ethTx, from)
	tx.Raw = common.CopyBytes(raw)
	return tx, nil
}

func fromEthTransaction(ethTx *ethtypes.Transaction, from common.Address) *L2Tx {
	v, r, s := ethTx.RawSignatureValues()
	sig := make([]byte, crypto.SignatureLength)
	r.FillBytes(sig[:32])
	s.FillBytes(sig[32:64])
	sig[64] = normalizeV(ethTx, v)

	return &L2Tx{
		Hash:    ethTx.Hash(),
		Type:    ethTx.Type(),
		ChainID: ethTx.ChainId(),
		Nonce:   ethTx.Nonce(),
		From:    from,
		To:      ethTx.To(),
		Value:   ethTx.Value(),
		Input:   ethTx.Data(),
		Fee: Fee{
			GasLimit:             new(big.Int).SetUint64(ethTx.Gas()),
			MaxFeePerGas:         ethTx.GasFeeCap(),
			MaxPriorityFeePerGas: ethTx.GasTipCap(),
			GasPerPubdataLimit:   big.NewInt(DefaultGasPerPubdata),
		},
		AccessList: ethTx.AccessList(),
		Signature:  sig,
		Signer:     from,
		ReceivedAt: time.Now(),
		eth:        ethTx,
	}
}

func normalizeV(ethTx *ethtypes.Transaction, v *big.Int) byte {
	if ethTx.Type() != ethtypes.LegacyTxType {
		return byte(v.Uint64()) + 27
	}
	if !ethTx.Protected() {
		return byte(v.Uint64())
	}
	// v = chainID * 2 + 35 + yParity
	parity := new(big.Int).Sub(v, new(big.Int).Mul(ethTx.ChainId(), big.NewInt(2)))
	return byte(parity.Uint64()-35) + 27
}

// ImpersonatedTxArgs carries the fields of an unsigned transaction sent on behalf
// of an impersonated account.
type ImpersonatedTxArgs struct {
	From                 common.Address
	To                   *common.Address
	Nonce                uint64
	Gas                  uint64
	GasPrice             *big.Int
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
	Value                *big.Int
	Data                 []byte
}

// NewImpersonatedTx builds an unsigned transaction. The hash covers the encoding
// with an all-zero signature followed by the sender address, so equal requests
// from different accounts never collide.
func NewImpersonatedTx(args ImpersonatedTxArgs, chainID uint64) (*L2Tx, error) {
	value := args.Value
	if value == nil {
		value = new(big.Int)
	}
	var inner ethtypes.TxData
	if args.GasPrice != nil {
		inner = &ethtypes.LegacyTx{
			Nonce:    args.Nonce,
			GasPrice: args.GasPrice,
			Gas:      args.Gas,
			To:       args.To,
			Value:    value,
			Data:     args.Data,
			V:        big.NewInt(27),
			R:        new(big.Int),
			S:        new(big.Int),
		}
	} else {
		tip := args.MaxPriorityFeePerGas
		if tip == nil {
			tip = new(big.Int)
		}
		inner = &ethtypes.DynamicFeeTx{
			ChainID:   new(big.Int).SetUint64(chainID),
			Nonce:     args.Nonce,
			GasTipCap: tip,
			GasFeeCap: args.MaxFeePerGas,
			Gas:       args.Gas,
			To:        args.To,
			Value:     value,
			Data:      args.Data,
			V:         new(big.Int),
			R:         new(big.Int),
			S:         new(big.Int),
		}
	}
	ethTx := ethtypes.NewTx(inner)
	raw, err := ethTx.MarshalBinary()
	if err != nil {
		return nil, err
	}
	tx := fromEthTransaction(ethTx, args.From)
	tx.Signer = common.Address{}
	tx.Raw = raw
	tx.unsigned = true
	if tx.Hash, err = tx.ComputeHash(); err != nil {
		return nil, err
	}
	return tx, nil
}

// eip712Envelope is the RLP layout of a 0x71 transaction.
type eip712Envelope struct {
	Nonce                uint64
	MaxPriorityFeePerGas *big.Int
	MaxFeePerGas         *big.Int
	GasLimit             *big.Int
	To                   []byte
	Value                *big.Int
	Data                 []byte
	V                    *big.Int
	R                    *big.Int
	S                    *big.Int
	ChainID              *big.Int
	From                 common.Address
	GasPerPubdata        *big.Int
	FactoryDeps          [][]byte
	CustomSignature      []byte
	PaymasterParams      [][]byte
}

func decodeEIP712(raw []byte, chainID uint64) (*L2Tx, error) {
	var env eip712Envelope
	if err := rlp.DecodeBytes(raw[1:], &env); err != nil {
		return nil, fmt.Errorf("failed to decode EIP-712 transaction: %w", err)
	}
	if env.ChainID == nil || env.ChainID.Uint64() != chainID {
		return nil, fmt.Errorf("%w: expected %d", ErrInvalidChainID, chainID)
	}

	tx := &L2Tx{
		Type:    EIP712TxType,
		ChainID: env.ChainID,
		Nonce:   env.Nonce,
		From:    env.From,
		Value:   env.Value,
		Input:   env.Data,
		Fee: Fee{
			GasLimit:             env.GasLimit,
			MaxFeePerGas:         env.MaxFeePerGas,
			MaxPriorityFeePerGas: env.MaxPriorityFeePerGas,
			GasPerPubdataLimit:   env.GasPerPubdata,
		},
		FactoryDeps: env.FactoryDeps,
		Raw:         common.CopyBytes(raw),
		ReceivedAt:  time.Now(),
	}
	if len(env.To) > 0 {
		to := common.BytesToAddress(env.To)
		tx.To = &to
	}
	switch len(env.PaymasterParams) {
	case 0:
	case 2:
		tx.Paymaster = &PaymasterParams{
			Paymaster:      common.BytesToAddress(env.PaymasterParams[0]),
			PaymasterInput: env.PaymasterParams[1],
		}
	default:
		return nil, errors.New("invalid paymaster params")
	}

	if len(env.CustomSignature) > 0 {
		tx.Signature = env.CustomSignature
	} else {
		sig := make([]byte, crypto.SignatureLength)
		env.R.FillBytes(sig[:32])
		env.S.FillBytes(sig[32:64])
		sig[64] = byte(env.V.Uint64()) + 27
		tx.Signature = sig
	}

	hash, err := tx.ComputeHash()
	if err != nil {
		return nil, err
	}
	tx.Hash = hash
	tx.Signer = recoverEIP712Signer(tx)
	return tx, nil
}

func recoverEIP712Signer(tx *L2Tx) common.Address {
	if len(tx.Signature) != crypto.SignatureLength {
		return common.Address{}
	}
	sig := common.CopyBytes(tx.Signature)
	if sig[64] >= 27 {
		sig[64] -= 27
	}
	pub, err := crypto.SigToPub(tx.EIP712SigningHash().Bytes(), sig)
	if err != nil {
		return common.Address{}
	}
	return crypto.PubkeyToAddress(*pub)
}

var (
	eip712DomainTypeHash = crypto.Keccak256Hash([]byte("EIP712Domain(string name,string version,uint256 chainId)"))
	eip712TxTypeHash     = crypto.Keccak256Hash([]byte("Transaction(uint256 txType,uint256 from,uint256 to," +
		"uint256 gasLimit,uint256 gasPerPubdataByteLimit,uint256 maxFeePerGas,uint256 maxPriorityFeePerGas," +
		"uint256 paymaster,uint256 nonce,uint256 value,bytes data,bytes32[] factoryDeps,bytes paymasterInput)"))
)

func word(v *big.Int) []byte {
	if v == nil {
		return make([]byte, 32)
	}
	return common.LeftPadBytes(v.Bytes(), 32)
}

// EIP712SigningHash returns the typed data digest signed by the initiator of an EIP-712 transaction.
func (tx *L2Tx) EIP712SigningHash() common.Hash {
	domain := crypto.Keccak256(
		eip712DomainTypeHash.Bytes(),
		crypto.Keccak256([]byte("zkSync")),
		crypto.Keccak256([]byte("2")),
		word(tx.ChainID),
	)

	var to common.Address
	if tx.To != nil {
		to = *tx.To
	}
	var paymaster common.Address
	var paymasterInput []byte
	if tx.Paymaster != nil {
		paymaster = tx.Paymaster.Paymaster
		paymasterInput = tx.Paymaster.PaymasterInput
	}
	var depHashes bytes.Buffer
	for _, dep := range tx.FactoryDeps {
		depHashes.Write(BytecodeHash(dep).Bytes())
	}

	structHash := crypto.Keccak256(
		eip712TxTypeHash.Bytes(),
		word(big.NewInt(EIP712TxType)),
		common.LeftPadBytes(tx.From.Bytes(), 32),
		common.LeftPadBytes(to.Bytes(), 32),
		word(tx.Fee.GasLimit),
		word(tx.Fee.GasPerPubdataLimit),
		word(tx.Fee.MaxFeePerGas),
		word(tx.Fee.MaxPriorityFeePerGas),
		common.LeftPadBytes(paymaster.Bytes(), 32),
		word(new(big.Int).SetUint64(tx.Nonce)),
		word(tx.Value),
		crypto.Keccak256(tx.Input),
		crypto.Keccak256(depHashes.Bytes()),
		crypto.Keccak256(paymasterInput),
	)

	return crypto.Keccak256Hash([]byte{0x19, 0x01}, domain, structHash)
}

// SignEIP712 signs an EIP-712 transaction with key and fills in its signature,
// encoding and hash. The From field is left untouched so callers can produce
// transactions whose signer is not the initiator.
func SignEIP712(tx *L2Tx, key *ecdsa.PrivateKey) error {
	tx.Type = EIP712TxType
	sig, err := crypto.Sign(tx.EIP712SigningHash().Bytes(), key)
	if err != nil {
		return err
	}
	sig[64] += 27
	tx.Signature = sig

	raw, err := EncodeEIP712(tx)
	if err != nil {
		return err
	}
	tx.Raw = raw
	tx.Hash, err = tx.ComputeHash()
	if err != nil {
		return err
	}
	tx.Signer = recoverEIP712Signer(tx)
	return nil
}

// EncodeEIP712 returns the 0x71 wire encoding of tx.
func EncodeEIP712(tx *L2Tx) ([]byte, error) {
	env := eip712Envelope{
		Nonce:                tx.Nonce,
		MaxPriorityFeePerGas: orZero(tx.Fee.MaxPriorityFeePerGas),
		MaxFeePerGas:         orZero(tx.Fee.MaxFeePerGas),
		GasLimit:             orZero(tx.Fee.GasLimit),
		Value:                orZero(tx.Value),
		Data:                 tx.Input,
		V:                    orZero(tx.ChainID),
		R:                    new(big.Int),
		S:                    new(big.Int),
		ChainID:              orZero(tx.ChainID),
		From:                 tx.From,
		GasPerPubdata:        orZero(tx.Fee.GasPerPubdataLimit),
		FactoryDeps:          tx.FactoryDeps,
		CustomSignature:      tx.Signature,
		PaymasterParams:      [][]byte{},
	}
	if env.FactoryDeps == nil {
		env.FactoryDeps = [][]byte{}
	}
	if tx.To != nil {
		env.To = tx.To.Bytes()
	}
	if tx.Paymaster != nil {
		env.PaymasterParams = [][]byte{tx.Paymaster.Paymaster.Bytes(), tx.Paymaster.PaymasterInput}
	}
	payload, err := rlp.EncodeToBytes(&env)
	if err != nil {
		return nil, err
	}
	return append([]byte{EIP712TxType}, payload...), nil
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
