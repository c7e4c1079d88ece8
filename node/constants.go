package node

import (
	"math/big"

	"github.com/0xPolygon/zksync-test-node/common"
)

const (
	// NonForkFirstBlockTimestamp is the timestamp of the genesis block
	NonForkFirstBlockTimestamp = 1_000
	// TestNodeNetworkID is the chain id used when none is configured
	TestNodeNetworkID = 260
	// L1GasPrice is the default L1 gas price, 50 gwei
	L1GasPrice = 50_000_000_000
	// L2GasPrice is the default L2 gas price, 0.25 gwei
	L2GasPrice = 250_000_000
	// BlockGasLimit is the gas limit of every block
	BlockGasLimit = 1<<32 - 1
	// MaxL2TxGasLimit bounds the fee estimation search
	MaxL2TxGasLimit = 80_000_000
	// EthCallGasLimit is the gas given to eth_call and debug_traceCall, whatever the request sets
	EthCallGasLimit = 50_000_000
	// MaxPreviousStates is the number of sealed blocks kept for historical storage reads
	MaxPreviousStates = 128
	// MaxSnapshots is the number of snapshots that can be taken at once
	MaxSnapshots = 100
	// ProtocolVersion returned by eth_protocolVersion
	ProtocolVersion = "zks/1"
	// ProtocolVersionID is the zkSync protocol version reported in block details
	ProtocolVersionID = "24"
	// MaxBlockTransactions bounds the size of a block sealed from the pool backlog
	MaxBlockTransactions = 1000
)

const (
	estimateGasL1GasPriceScaleFactor    = 1.2
	estimateGasPublishByteOverhead      = 100
	estimateGasAcceptableOverestimation = 1_000
	estimateGasScaleFactor              = 1.3
	// l1GasPerPubdataByte is the L1 gas spent per published byte
	l1GasPerPubdataByte = 17
)

// RichBalance is the balance given to the rich accounts, 10^30 wei
var RichBalance = new(big.Int).Exp(big.NewInt(common.Base10), big.NewInt(30), nil)

// RichWallet is a funded account whose private key is publicly known
type RichWallet struct {
	Address    string
	PrivateKey string
}

// RichWallets are funded at startup
var RichWallets = []RichWallet{
	{Address: "0x36615Cf349d7F6344891B1e7CA7C72883F5dc049", PrivateKey: "0x7726827caac94a7f9e1b160f7ea819f172f7b6f9d2a97f992c38edeab82d4110"},
	{Address: "0xa61464658AfeAf65CccaaFD3a512b69A83B77618", PrivateKey: "0xac1e735be8536c6534bb4f17f06f6afc73b2b5ba84ac2cfb12f7461b20c0bbe3"},
	{Address: "0x0D43eB5B8a47bA8900d84AA36656c92024e9772e", PrivateKey: "0xd293c684d884d56f8d6abd64fc76757d3664904e309a0645baf8522ab6366d9e"},
	{Address: "0xA13c10C0D5bd6f79041B9835c63f91de35A15883", PrivateKey: "0x850683b40d4a740aa6e745f889a6fdc8327be76e122f5aba645a5b02d0248db8"},
}
