package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// BlockNumber is a block number or one of the block tags
type BlockNumber int64

// Block tags, all of them negative so they never collide with real numbers
const (
	CommittedBlockNumber = BlockNumber(-5)
	FinalizedBlockNumber = BlockNumber(-4)
	EarliestBlockNumber  = BlockNumber(-3)
	PendingBlockNumber   = BlockNumber(-2)
	LatestBlockNumber    = BlockNumber(-1)
)

var errInvalidBlockNumber = errors.New("invalid block number")

// UnmarshalJSON parses a block tag, a hex quantity or a plain JSON number.
func (bn *BlockNumber) UnmarshalJSON(data []byte) error {
	input := strings.TrimSpace(string(data))
	if len(input) >= 2 && input[0] == '"' && input[len(input)-1] == '"' {
		input = input[1 : len(input)-1]
	} else {
		n, err := strconv.ParseUint(input, 10, 63)
		if err != nil {
			return errInvalidBlockNumber
		}
		*bn = BlockNumber(n)
		return nil
	}

	switch input {
	case "earliest":
		*bn = EarliestBlockNumber
	case "latest", "":
		*bn = LatestBlockNumber
	case "pending":
		*bn = PendingBlockNumber
	case "committed":
		*bn = CommittedBlockNumber
	case "finalized", "safe":
		*bn = FinalizedBlockNumber
	default:
		n, err := hexutil.DecodeUint64(input)
		if err != nil {
			return fmt.Errorf("%w: %s", errInvalidBlockNumber, input)
		}
		if n > uint64(1<<63-1) {
			return errInvalidBlockNumber
		}
		*bn = BlockNumber(n)
	}
	return nil
}

// MarshalText renders tags by name and numbers as hex quantities.
func (bn BlockNumber) MarshalText() ([]byte, error) {
	return []byte(bn.String()), nil
}

func (bn BlockNumber) String() string {
	switch bn {
	case EarliestBlockNumber:
		return "earliest"
	case LatestBlockNumber:
		return "latest"
	case PendingBlockNumber:
		return "pending"
	case CommittedBlockNumber:
		return "committed"
	case FinalizedBlockNumber:
		return "finalized"
	default:
		return hexutil.EncodeUint64(uint64(bn))
	}
}

// IsTag reports whether bn is one of the block tags rather than a number.
func (bn BlockNumber) IsTag() bool {
	return bn < 0
}

// Resolve maps the block number onto a local block: earliest is 0, the other
// tags are the current block and numbers are capped at the current block.
func (bn BlockNumber) Resolve(current uint64) uint64 {
	switch {
	case bn == EarliestBlockNumber:
		return 0
	case bn < 0:
		return current
	case uint64(bn) > current:
		return current
	default:
		return uint64(bn)
	}
}

// BlockID selects a block by number, by tag or by hash.
type BlockID struct {
	Number *BlockNumber
	Hash   *common.Hash
}

// UnmarshalJSON accepts a block number, a tag, {"blockNumber": ...} or {"blockHash": ...}.
func (id *BlockID) UnmarshalJSON(data []byte) error {
	input := strings.TrimSpace(string(data))
	if strings.HasPrefix(input, "{") {
		var obj struct {
			BlockNumber *BlockNumber `json:"blockNumber"`
			BlockHash   *common.Hash `json:"blockHash"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		if obj.BlockNumber != nil && obj.BlockHash != nil {
			return errors.New("cannot specify both blockHash and blockNumber")
		}
		if obj.BlockNumber == nil && obj.BlockHash == nil {
			return errors.New("either blockHash or blockNumber must be specified")
		}
		id.Number, id.Hash = obj.BlockNumber, obj.BlockHash
		return nil
	}

	// a bare 32 bytes hash
	if len(input) == 68 && strings.HasPrefix(input, `"0x`) {
		var hash common.Hash
		if err := json.Unmarshal(data, &hash); err != nil {
			return err
		}
		id.Hash = &hash
		return nil
	}

	var bn BlockNumber
	if err := bn.UnmarshalJSON(data); err != nil {
		return err
	}
	id.Number = &bn
	return nil
}

// BlockIDFromNumber wraps a number into a BlockID.
func BlockIDFromNumber(bn BlockNumber) *BlockID {
	return &BlockID{Number: &bn}
}

// MarshalJSON renders the id the way it is accepted by zkSync nodes.
func (id BlockID) MarshalJSON() ([]byte, error) {
	if id.Hash != nil {
		return json.Marshal(map[string]interface{}{"blockHash": id.Hash})
	}
	if id.Number != nil {
		return json.Marshal(id.Number.String())
	}
	return json.Marshal("latest")
}
