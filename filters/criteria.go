package filters

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/0xPolygon/zksync-test-node/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

const maxTopics = 4

// ID identifies an installed filter
type ID uint64

// MarshalText renders the id as a hex quantity
func (id ID) MarshalText() ([]byte, error) {
	return []byte(hexutil.EncodeUint64(uint64(id))), nil
}

// UnmarshalJSON accepts hex quantities, with or without leading zeros, and plain numbers.
func (id *ID) UnmarshalJSON(data []byte) error {
	input := strings.Trim(strings.TrimSpace(string(data)), `"`)
	v := new(big.Int)
	var ok bool
	if strings.HasPrefix(input, "0x") || strings.HasPrefix(input, "0X") {
		_, ok = v.SetString(input[2:], 16)
	} else {
		_, ok = v.SetString(input, 10)
	}
	if !ok || !v.IsUint64() {
		return fmt.Errorf("invalid filter id %s", input)
	}
	*id = ID(v.Uint64())
	return nil
}

// LogFilter selects logs by block range, emitter and topics.
type LogFilter struct {
	FromBlock types.BlockNumber
	ToBlock   types.BlockNumber
	BlockHash *common.Hash
	Addresses []common.Address
	// Topics per position, an empty position matches anything
	Topics [][]common.Hash
}

// UnmarshalJSON parses the filter object of eth_newFilter and eth_getLogs.
func (f *LogFilter) UnmarshalJSON(data []byte) error {
	var raw struct {
		FromBlock *types.BlockNumber `json:"fromBlock"`
		ToBlock   *types.BlockNumber `json:"toBlock"`
		BlockHash *common.Hash       `json:"blockHash"`
		Address   json.RawMessage    `json:"address"`
		Topics    []json.RawMessage  `json:"topics"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*f = LogFilter{FromBlock: types.LatestBlockNumber, ToBlock: types.LatestBlockNumber, BlockHash: raw.BlockHash}
	if raw.BlockHash != nil && (raw.FromBlock != nil || raw.ToBlock != nil) {
		return errors.New("cannot specify both blockHash and fromBlock/toBlock")
	}
	if raw.FromBlock != nil {
		f.FromBlock = *raw.FromBlock
	}
	if raw.ToBlock != nil {
		f.ToBlock = *raw.ToBlock
	}

	addresses, err := oneOrMany[common.Address](raw.Address)
	if err != nil {
		return fmt.Errorf("invalid address: %w", err)
	}
	f.Addresses = addresses

	if len(raw.Topics) > maxTopics {
		return errors.New("too many topics")
	}
	for _, t := range raw.Topics {
		topics, err := oneOrMany[common.Hash](t)
		if err != nil {
			return fmt.Errorf("invalid topic: %w", err)
		}
		f.Topics = append(f.Topics, topics)
	}
	return nil
}

// oneOrMany decodes null, a single value or an array of values.
func oneOrMany[T any](raw json.RawMessage) ([]T, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var many []T
		err := json.Unmarshal(raw, &many)
		return many, err
	}
	var one T
	if err := json.Unmarshal(raw, &one); err != nil {
		return nil, err
	}
	return []T{one}, nil
}

func resolveBound(bn types.BlockNumber, latest uint64) uint64 {
	switch {
	case bn == types.EarliestBlockNumber:
		return 0
	case bn.IsTag():
		return latest
	default:
		return uint64(bn)
	}
}

// Matches reports whether log satisfies the filter, resolving block tags against latest.
func (f *LogFilter) Matches(log *types.Log, latest uint64) bool {
	if f.BlockHash != nil {
		if *f.BlockHash != log.BlockHash {
			return false
		}
	} else {
		number := uint64(log.BlockNumber)
		if resolveBound(f.FromBlock, latest) > number || resolveBound(f.ToBlock, latest) < number {
			return false
		}
	}

	if len(f.Addresses) > 0 {
		found := false
		for _, addr := range f.Addresses {
			if addr == log.Address {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	for i, set := range f.Topics {
		if len(set) == 0 {
			continue
		}
		if i >= len(log.Topics) {
			return false
		}
		found := false
		for _, topic := range set {
			if topic == log.Topics[i] {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (f *LogFilter) copy() *LogFilter {
	cp := *f
	cp.Addresses = append([]common.Address(nil), f.Addresses...)
	cp.Topics = make([][]common.Hash, len(f.Topics))
	for i, set := range f.Topics {
		cp.Topics[i] = append([]common.Hash(nil), set...)
	}
	if f.BlockHash != nil {
		h := *f.BlockHash
		cp.BlockHash = &h
	}
	return &cp
}
