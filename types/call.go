package types

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// PaymasterParamsJSON is the JSON representation of PaymasterParams
type PaymasterParamsJSON struct {
	Paymaster      common.Address `json:"paymaster"`
	PaymasterInput hexutil.Bytes  `json:"paymasterInput"`
}

// EIP712Meta carries the zkSync specific fields of a call request
type EIP712Meta struct {
	GasPerPubdata   *hexutil.Big         `json:"gasPerPubdata"`
	FactoryDeps     []hexutil.Bytes      `json:"factoryDeps"`
	CustomSignature hexutil.Bytes        `json:"customSignature"`
	PaymasterParams *PaymasterParamsJSON `json:"paymasterParams"`
}

// CallRequest is the transaction object of eth_call, eth_estimateGas,
// zks_estimateFee and eth_sendTransaction.
type CallRequest struct {
	From                 *common.Address `json:"from"`
	To                   *common.Address `json:"to"`
	Gas                  *hexutil.Big    `json:"gas"`
	GasPrice             *hexutil.Big    `json:"gasPrice"`
	MaxFeePerGas         *hexutil.Big    `json:"maxFeePerGas"`
	MaxPriorityFeePerGas *hexutil.Big    `json:"maxPriorityFeePerGas"`
	Value                *hexutil.Big    `json:"value"`
	Data                 *hexutil.Bytes  `json:"data"`
	Input                *hexutil.Bytes  `json:"input"`
	Nonce                *hexutil.Uint64 `json:"nonce"`
	TransactionType      *hexutil.Uint64 `json:"transaction_type"`
	AccessList           *AccessListJSON `json:"accessList"`
	EIP712Meta           *EIP712Meta     `json:"eip712Meta"`
}

// AccessListJSON is the access list of a call request
type AccessListJSON []struct {
	Address     common.Address `json:"address"`
	StorageKeys []common.Hash  `json:"storageKeys"`
}

// Calldata prefers input over data, like go-ethereum does.
func (r *CallRequest) Calldata() []byte {
	if r.Input != nil {
		return *r.Input
	}
	if r.Data != nil {
		return *r.Data
	}
	return []byte{}
}

func bigOrNil(v *hexutil.Big) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v.ToInt())
}

// ToL2Tx builds the unsigned transaction described by the request. Fee fields
// left empty are set to gasPrice and the nonce to the given account nonce.
func (r *CallRequest) ToL2Tx(chainID uint64, gasPrice *big.Int, nonce uint64) *L2Tx {
	tx := &L2Tx{
		Type:       DynamicFeeTxType,
		ChainID:    new(big.Int).SetUint64(chainID),
		Nonce:      nonce,
		To:         r.To,
		Value:      bigOrNil(r.Value),
		Input:      r.Calldata(),
		ReceivedAt: time.Now(),
		Fee: Fee{
			GasLimit:             bigOrNil(r.Gas),
			MaxFeePerGas:         bigOrNil(r.MaxFeePerGas),
			MaxPriorityFeePerGas: bigOrNil(r.MaxPriorityFeePerGas),
			GasPerPubdataLimit:   big.NewInt(DefaultGasPerPubdata),
		},
	}
	if r.From != nil {
		tx.From = *r.From
	}
	if r.Nonce != nil {
		tx.Nonce = uint64(*r.Nonce)
	}
	if tx.Value == nil {
		tx.Value = new(big.Int)
	}
	if r.GasPrice != nil && tx.Fee.MaxFeePerGas == nil {
		tx.Fee.MaxFeePerGas = bigOrNil(r.GasPrice)
	}
	if tx.Fee.MaxFeePerGas == nil {
		tx.Fee.MaxFeePerGas = new(big.Int).Set(gasPrice)
	}
	if tx.Fee.MaxPriorityFeePerGas == nil {
		tx.Fee.MaxPriorityFeePerGas = new(big.Int)
	}
	if r.AccessList != nil {
		for _, entry := range *r.AccessList {
			tx.AccessList = append(tx.AccessList, ethtypes.AccessTuple{Address: entry.Address, StorageKeys: entry.StorageKeys})
		}
	}
	if meta := r.EIP712Meta; meta != nil {
		tx.Type = EIP712TxType
		if meta.GasPerPubdata != nil {
			tx.Fee.GasPerPubdataLimit = bigOrNil(meta.GasPerPubdata)
		}
		for _, dep := range meta.FactoryDeps {
			tx.FactoryDeps = append(tx.FactoryDeps, common.CopyBytes(dep))
		}
		tx.Signature = meta.CustomSignature
		if meta.PaymasterParams != nil {
			tx.Paymaster = &PaymasterParams{
				Paymaster:      meta.PaymasterParams.Paymaster,
				PaymasterInput: meta.PaymasterParams.PaymasterInput,
			}
		}
	}
	return tx
}
