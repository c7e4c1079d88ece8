package types

import (
	"bytes"
	"encoding/json"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// Block is the JSON representation of a miniblock.
type Block struct {
	Hash             common.Hash         `json:"hash"`
	ParentHash       common.Hash         `json:"parentHash"`
	UncleHash        common.Hash         `json:"sha3Uncles"`
	Miner            common.Address      `json:"miner"`
	StateRoot        common.Hash         `json:"stateRoot"`
	TxRoot           common.Hash         `json:"transactionsRoot"`
	ReceiptsRoot     common.Hash         `json:"receiptsRoot"`
	Number           hexutil.Uint64      `json:"number"`
	L1BatchNumber    *hexutil.Uint64     `json:"l1BatchNumber"`
	GasUsed          hexutil.Uint64      `json:"gasUsed"`
	GasLimit         hexutil.Uint64      `json:"gasLimit"`
	BaseFeePerGas    *hexutil.Big        `json:"baseFeePerGas"`
	ExtraData        hexutil.Bytes       `json:"extraData"`
	LogsBloom        ethtypes.Bloom      `json:"logsBloom"`
	Timestamp        hexutil.Uint64      `json:"timestamp"`
	L1BatchTimestamp *hexutil.Uint64     `json:"l1BatchTimestamp"`
	Difficulty       *hexutil.Big        `json:"difficulty"`
	TotalDifficulty  *hexutil.Big        `json:"totalDifficulty"`
	SealFields       []hexutil.Bytes     `json:"sealFields"`
	Uncles           []common.Hash       `json:"uncles"`
	Transactions     BlockTransactions   `json:"transactions"`
	Size             hexutil.Uint64      `json:"size"`
	MixHash          common.Hash         `json:"mixHash"`
	Nonce            ethtypes.BlockNonce `json:"nonce"`
}

// BlockTransactions holds the transactions of a block either fully or as hashes.
type BlockTransactions struct {
	Full   bool
	Txs    []Transaction
	Hashes []common.Hash
}

// Len is the number of transactions regardless of the representation.
func (bt BlockTransactions) Len() int {
	if bt.Full {
		return len(bt.Txs)
	}
	return len(bt.Hashes)
}

// MarshalJSON renders either the full objects or the hashes.
func (bt BlockTransactions) MarshalJSON() ([]byte, error) {
	if bt.Full {
		if bt.Txs == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(bt.Txs)
	}
	if bt.Hashes == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(bt.Hashes)
}

// UnmarshalJSON detects the representation from the first element.
func (bt *BlockTransactions) UnmarshalJSON(data []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*bt = BlockTransactions{}
	if len(items) == 0 {
		return nil
	}
	if bytes.HasPrefix(bytes.TrimSpace(items[0]), []byte("{")) {
		bt.Full = true
		return json.Unmarshal(data, &bt.Txs)
	}
	return json.Unmarshal(data, &bt.Hashes)
}

// WithHashes returns a shallow copy of the block whose transactions are
// rendered as hashes when full is false.
func (b *Block) WithHashes(full bool) *Block {
	cp := *b
	if full || !b.Transactions.Full {
		return &cp
	}
	hashes := make([]common.Hash, 0, len(b.Transactions.Txs))
	for _, tx := range b.Transactions.Txs {
		hashes = append(hashes, tx.Hash)
	}
	cp.Transactions = BlockTransactions{Hashes: hashes}
	return &cp
}

// Transaction is the JSON representation of an L2 transaction.
type Transaction struct {
	Hash                 common.Hash     `json:"hash"`
	Nonce                hexutil.Uint64  `json:"nonce"`
	BlockHash            *common.Hash    `json:"blockHash"`
	BlockNumber          *hexutil.Uint64 `json:"blockNumber"`
	TransactionIndex     *hexutil.Uint64 `json:"transactionIndex"`
	From                 common.Address  `json:"from"`
	To                   *common.Address `json:"to"`
	Value                *hexutil.Big    `json:"value"`
	GasPrice             *hexutil.Big    `json:"gasPrice"`
	Gas                  *hexutil.Big    `json:"gas"`
	Input                hexutil.Bytes   `json:"input"`
	V                    *hexutil.Big    `json:"v"`
	R                    *hexutil.Big    `json:"r"`
	S                    *hexutil.Big    `json:"s"`
	Type                 *hexutil.Uint64 `json:"type,omitempty"`
	MaxFeePerGas         *hexutil.Big    `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas *hexutil.Big    `json:"maxPriorityFeePerGas,omitempty"`
	ChainID              *hexutil.Big    `json:"chainId"`
	L1BatchNumber        *hexutil.Uint64 `json:"l1BatchNumber"`
	L1BatchTxIndex       *hexutil.Uint64 `json:"l1BatchTxIndex"`
}

// NewTransaction renders tx as it is returned by the API. Location fields are
// filled by the caller once the transaction is included.
func NewTransaction(tx *L2Tx, gasPrice *big.Int) Transaction {
	v, r, s := tx.SignatureValues()
	out := Transaction{
		Hash:     tx.Hash,
		Nonce:    hexutil.Uint64(tx.Nonce),
		From:     tx.From,
		To:       tx.To,
		Value:    (*hexutil.Big)(orZero(tx.Value)),
		GasPrice: (*hexutil.Big)(orZero(gasPrice)),
		Gas:      (*hexutil.Big)(orZero(tx.Fee.GasLimit)),
		Input:    tx.Input,
		V:        (*hexutil.Big)(v),
		R:        (*hexutil.Big)(r),
		S:        (*hexutil.Big)(s),
		ChainID:  (*hexutil.Big)(orZero(tx.ChainID)),
	}
	if tx.Type != LegacyTxType {
		t := hexutil.Uint64(tx.Type)
		out.Type = &t
		out.MaxFeePerGas = (*hexutil.Big)(orZero(tx.Fee.MaxFeePerGas))
		out.MaxPriorityFeePerGas = (*hexutil.Big)(orZero(tx.Fee.MaxPriorityFeePerGas))
	}
	return out
}

// Log is the JSON representation of an event emitted by a transaction.
type Log struct {
	Address             common.Address  `json:"address"`
	Topics              []common.Hash   `json:"topics"`
	Data                hexutil.Bytes   `json:"data"`
	BlockHash           common.Hash     `json:"blockHash"`
	BlockNumber         hexutil.Uint64  `json:"blockNumber"`
	L1BatchNumber       *hexutil.Uint64 `json:"l1BatchNumber"`
	TransactionHash     common.Hash     `json:"transactionHash"`
	TransactionIndex    hexutil.Uint64  `json:"transactionIndex"`
	LogIndex            hexutil.Uint64  `json:"logIndex"`
	TransactionLogIndex hexutil.Uint64  `json:"transactionLogIndex"`
	LogType             *string         `json:"logType"`
	Removed             bool            `json:"removed"`
}

// L2ToL1Log is a system log sent to L1. The node never emits them but the
// receipt field is always present.
type L2ToL1Log struct {
	BlockNumber      hexutil.Uint64 `json:"blockNumber"`
	L1BatchNumber    hexutil.Uint64 `json:"l1BatchNumber"`
	TransactionIndex hexutil.Uint64 `json:"transactionIndex"`
	ShardID          hexutil.Uint64 `json:"shardId"`
	IsService        bool           `json:"isService"`
	Sender           common.Address `json:"sender"`
	Key              common.Hash    `json:"key"`
	Value            common.Hash    `json:"value"`
	TransactionHash  common.Hash    `json:"transactionHash"`
	LogIndex         hexutil.Uint64 `json:"logIndex"`
}

// Receipt statuses
const (
	ReceiptStatusFailed     = uint64(0)
	ReceiptStatusSuccessful = uint64(1)
)

// TransactionReceipt is the JSON representation of a receipt.
type TransactionReceipt struct {
	TransactionHash   common.Hash     `json:"transactionHash"`
	TransactionIndex  hexutil.Uint64  `json:"transactionIndex"`
	BlockHash         common.Hash     `json:"blockHash"`
	BlockNumber       hexutil.Uint64  `json:"blockNumber"`
	L1BatchTxIndex    *hexutil.Uint64 `json:"l1BatchTxIndex"`
	L1BatchNumber     *hexutil.Uint64 `json:"l1BatchNumber"`
	From              common.Address  `json:"from"`
	To                *common.Address `json:"to"`
	CumulativeGasUsed hexutil.Uint64  `json:"cumulativeGasUsed"`
	GasUsed           hexutil.Uint64  `json:"gasUsed"`
	EffectiveGasPrice *hexutil.Big    `json:"effectiveGasPrice"`
	ContractAddress   *common.Address `json:"contractAddress"`
	Logs              []Log           `json:"logs"`
	L2ToL1Logs        []L2ToL1Log     `json:"l2ToL1Logs"`
	Status            hexutil.Uint64  `json:"status"`
	Root              common.Hash     `json:"root"`
	LogsBloom         ethtypes.Bloom  `json:"logsBloom"`
	Type              hexutil.Uint64  `json:"type"`
}

// Block statuses reported by zks_getBlockDetails and zks_getTransactionDetails
const (
	BlockStatusSealed   = "sealed"
	BlockStatusVerified = "verified"
	TxStatusIncluded    = "included"
	TxStatusPending     = "pending"
	TxStatusFailed      = "failed"
)

// BaseSystemContractsHashes of a block
type BaseSystemContractsHashes struct {
	Bootloader common.Hash `json:"bootloader"`
	DefaultAA  common.Hash `json:"default_aa"`
}

// BlockDetails is returned by zks_getBlockDetails.
type BlockDetails struct {
	Number                    uint64                    `json:"number"`
	L1BatchNumber             uint64                    `json:"l1BatchNumber"`
	Timestamp                 uint64                    `json:"timestamp"`
	L1TxCount                 uint64                    `json:"l1TxCount"`
	L2TxCount                 uint64                    `json:"l2TxCount"`
	RootHash                  *common.Hash              `json:"rootHash"`
	Status                    string                    `json:"status"`
	CommitTxHash              *common.Hash              `json:"commitTxHash"`
	CommittedAt               *time.Time                `json:"committedAt"`
	ProveTxHash               *common.Hash              `json:"proveTxHash"`
	ProvenAt                  *time.Time                `json:"provenAt"`
	ExecuteTxHash             *common.Hash              `json:"executeTxHash"`
	ExecutedAt                *time.Time                `json:"executedAt"`
	L1GasPrice                uint64                    `json:"l1GasPrice"`
	L2FairGasPrice            uint64                    `json:"l2FairGasPrice"`
	BaseSystemContractsHashes BaseSystemContractsHashes `json:"baseSystemContractsHashes"`
	OperatorAddress           common.Address            `json:"operatorAddress"`
	ProtocolVersion           *string                   `json:"protocolVersion"`
}

// TransactionDetails is returned by zks_getTransactionDetails.
type TransactionDetails struct {
	IsL1Originated   bool           `json:"isL1Originated"`
	Status           string         `json:"status"`
	Fee              *hexutil.Big   `json:"fee"`
	GasPerPubdata    *hexutil.Big   `json:"gasPerPubdata"`
	InitiatorAddress common.Address `json:"initiatorAddress"`
	ReceivedAt       time.Time      `json:"receivedAt"`
	EthCommitTxHash  *common.Hash   `json:"ethCommitTxHash"`
	EthProveTxHash   *common.Hash   `json:"ethProveTxHash"`
	EthExecuteTxHash *common.Hash   `json:"ethExecuteTxHash"`
}

// BridgeAddresses is returned by zks_getBridgeContracts.
type BridgeAddresses struct {
	L1Erc20DefaultBridge *common.Address `json:"l1Erc20DefaultBridge"`
	L2Erc20DefaultBridge *common.Address `json:"l2Erc20DefaultBridge"`
	L1WethBridge         *common.Address `json:"l1WethBridge"`
	L2WethBridge         *common.Address `json:"l2WethBridge"`
}

// Token is an entry of zks_getConfirmedTokens.
type Token struct {
	L1Address common.Address `json:"l1Address"`
	L2Address common.Address `json:"l2Address"`
	Name      string         `json:"name"`
	Symbol    string         `json:"symbol"`
	Decimals  uint8          `json:"decimals"`
}

// FeeJSON is the fee returned by zks_estimateFee.
type FeeJSON struct {
	GasLimit             *hexutil.Big `json:"gas_limit"`
	MaxFeePerGas         *hexutil.Big `json:"max_fee_per_gas"`
	MaxPriorityFeePerGas *hexutil.Big `json:"max_priority_fee_per_gas"`
	GasPerPubdataLimit   *hexutil.Big `json:"gas_per_pubdata_limit"`
}

// NewFeeJSON renders a Fee.
func NewFeeJSON(fee Fee) FeeJSON {
	return FeeJSON{
		GasLimit:             (*hexutil.Big)(orZero(fee.GasLimit)),
		MaxFeePerGas:         (*hexutil.Big)(orZero(fee.MaxFeePerGas)),
		MaxPriorityFeePerGas: (*hexutil.Big)(orZero(fee.MaxPriorityFeePerGas)),
		GasPerPubdataLimit:   (*hexutil.Big)(orZero(fee.GasPerPubdataLimit)),
	}
}

// FeeHistory is returned by eth_feeHistory.
type FeeHistory struct {
	OldestBlock   hexutil.Uint64   `json:"oldestBlock"`
	BaseFeePerGas []*hexutil.Big   `json:"baseFeePerGas"`
	GasUsedRatio  []float64        `json:"gasUsedRatio"`
	Reward        [][]*hexutil.Big `json:"reward,omitempty"`
}

// DebugCall is a node of the call tree returned by the debug namespace.
type DebugCall struct {
	Type         string         `json:"type"`
	From         common.Address `json:"from"`
	To           common.Address `json:"to"`
	Gas          *hexutil.Big   `json:"gas"`
	GasUsed      *hexutil.Big   `json:"gasUsed"`
	Value        *hexutil.Big   `json:"value"`
	Output       hexutil.Bytes  `json:"output"`
	Input        hexutil.Bytes  `json:"input"`
	Error        *string        `json:"error"`
	RevertReason *string        `json:"revertReason"`
	Calls        []DebugCall    `json:"calls"`
}

// ResultDebugCall wraps a call tree for the block tracing methods.
type ResultDebugCall struct {
	Result DebugCall `json:"result"`
}

// TracerConfig of the debug namespace. Only the call tracer is supported.
type TracerConfig struct {
	Tracer       string `json:"tracer"`
	TracerConfig struct {
		OnlyTopCall bool `json:"onlyTopCall"`
	} `json:"tracerConfig"`
}

// RawTransaction is the entry returned by zks_getRawBlockTransactions for local blocks.
type RawTransaction struct {
	CommonData struct {
		L2 RawL2CommonData `json:"L2"`
	} `json:"common_data"`
	Execute struct {
		ContractAddress common.Address  `json:"contractAddress"`
		Calldata        hexutil.Bytes   `json:"calldata"`
		Value           *hexutil.Big    `json:"value"`
		FactoryDeps     []hexutil.Bytes `json:"factoryDeps"`
	} `json:"execute"`
	ReceivedTimestampMs uint64        `json:"received_timestamp_ms"`
	RawBytes            hexutil.Bytes `json:"raw_bytes"`
}

// RawL2CommonData is the L2 specific part of a RawTransaction.
type RawL2CommonData struct {
	Nonce            uint64         `json:"nonce"`
	Fee              FeeJSON        `json:"fee"`
	InitiatorAddress common.Address `json:"initiatorAddress"`
	Signature        hexutil.Bytes  `json:"signature"`
	TransactionType  string         `json:"transactionType"`
	Hash             common.Hash    `json:"hash"`
}

// NewRawTransaction renders tx for zks_getRawBlockTransactions.
func NewRawTransaction(tx *L2Tx) RawTransaction {
	var raw RawTransaction
	raw.CommonData.L2 = RawL2CommonData{
		Nonce:            tx.Nonce,
		Fee:              NewFeeJSON(tx.Fee),
		InitiatorAddress: tx.From,
		Signature:        tx.Signature,
		TransactionType:  txTypeName(tx.Type),
		Hash:             tx.Hash,
	}
	if tx.To != nil {
		raw.Execute.ContractAddress = *tx.To
	} else {
		raw.Execute.ContractAddress = ContractDeployerAddress
	}
	raw.Execute.Calldata = tx.Input
	raw.Execute.Value = (*hexutil.Big)(orZero(tx.Value))
	for _, dep := range tx.FactoryDeps {
		raw.Execute.FactoryDeps = append(raw.Execute.FactoryDeps, dep)
	}
	raw.ReceivedTimestampMs = uint64(tx.ReceivedAt.UnixMilli())
	raw.RawBytes = tx.Raw
	return raw
}

func txTypeName(t uint8) string {
	switch t {
	case LegacyTxType:
		return "LegacyTransaction"
	case AccessListTxType:
		return "EIP2930Transaction"
	case DynamicFeeTxType:
		return "EIP1559Transaction"
	case EIP712TxType:
		return "EIP712Transaction"
	case PriorityOpTxType:
		return "PriorityOpTransaction"
	case ProtocolUpgradeTxType:
		return "ProtocolUpgradeTransaction"
	default:
		return "Unknown"
	}
}
