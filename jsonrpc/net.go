package jsonrpc

import (
	"strconv"

	"github.com/0xPolygon/zksync-test-node/node"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// ClientVersion is returned by web3_clientVersion
const ClientVersion = "zkSync/v2.0"

// NetAPI implements the net namespace
type NetAPI struct {
	node *node.Node
}

// NewNetAPI creates the net namespace
func NewNetAPI(n *node.Node) *NetAPI {
	return &NetAPI{node: n}
}

// Version implements net_version.
func (api *NetAPI) Version() string {
	return strconv.FormatUint(api.node.ChainID(), 10)
}

// PeerCount implements net_peerCount, the node has no peers.
func (api *NetAPI) PeerCount() hexutil.Uint {
	return 0
}

// Listening implements net_listening.
func (api *NetAPI) Listening() bool {
	return false
}

// Web3API implements the web3 namespace
type Web3API struct{}

// ClientVersion implements web3_clientVersion.
func (Web3API) ClientVersion() string {
	return ClientVersion
}

// Sha3 implements web3_sha3.
func (Web3API) Sha3(input hexutil.Bytes) hexutil.Bytes {
	return crypto.Keccak256(input)
}
