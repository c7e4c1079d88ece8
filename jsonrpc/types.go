package jsonrpc

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ArgUint64 is a numeric parameter sent either as a JSON number, a decimal
// string or a 0x prefixed hex string.
type ArgUint64 uint64

// UnmarshalJSON decodes the argument
func (a *ArgUint64) UnmarshalJSON(data []byte) error {
	input := strings.TrimSpace(string(data))
	if !strings.HasPrefix(input, `"`) {
		var n uint64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("invalid number %s: %w", input, err)
		}
		*a = ArgUint64(n)
		return nil
	}

	str, err := strconv.Unquote(input)
	if err != nil {
		return err
	}
	if strings.HasPrefix(str, "0x") || strings.HasPrefix(str, "0X") {
		n, err := hexutil.DecodeUint64(strings.ToLower(str[:2]) + str[2:])
		if err != nil {
			return fmt.Errorf("invalid hex number %s: %w", str, err)
		}
		*a = ArgUint64(n)
		return nil
	}
	n, err := strconv.ParseUint(str, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid number %s: %w", str, err)
	}
	*a = ArgUint64(n)
	return nil
}

// MarshalText renders the argument as a hex quantity
func (a ArgUint64) MarshalText() ([]byte, error) {
	return []byte(hexutil.EncodeUint64(uint64(a))), nil
}

// ResetRequestForking selects the network a reset forks from
type ResetRequestForking struct {
	JSONRPCURL  string     `json:"jsonRpcUrl"`
	BlockNumber *ArgUint64 `json:"blockNumber"`
}

// ResetRequest is the parameter of hardhat_reset and anvil_reset
type ResetRequest struct {
	To      *ArgUint64           `json:"to"`
	Forking *ResetRequestForking `json:"forking"`
}
