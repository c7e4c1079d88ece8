package node

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/0xPolygon/zksync-test-node/log"
	"github.com/0xPolygon/zksync-test-node/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gofrs/flock"
)

// InteropEventTopic is the topic of InteropMessage(uint256,address,address,bytes)
var InteropEventTopic = common.HexToHash("0xaeb45e9fa7465a0054db321a0901056bc5e2ac40d10855aaaef37227d896635c")

// InteropMessage is a cross chain message written for the destination chain to pick up
type InteropMessage struct {
	SourceChain        uint64      `json:"source_chain"`
	DestinationChain   common.Hash `json:"destination_chain"`
	DestinationAddress common.Hash `json:"destination_address"`
	SourceAddress      common.Hash `json:"source_address"`
	// Payload is the hex encoded event data, without prefix
	Payload string `json:"payload"`
}

// InteropMessages is the content of a destination chain file
type InteropMessages struct {
	Messages []InteropMessage `json:"messages"`
}

// interopWriter appends the interop events emitted by the node to the file of
// their destination chain. Every write holds an exclusive lock on dir/LOCK.
type interopWriter struct {
	dir     string
	chainID uint64
}

func newInteropWriter(cfg InteropConfig, chainID uint64) *interopWriter {
	dir := cfg.Dir
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "interop")
	}
	return &interopWriter{dir: dir, chainID: chainID}
}

// DestinationFile is the file holding the messages sent to chainID
func (w *interopWriter) DestinationFile(chainID uint64) string {
	return filepath.Join(w.dir, fmt.Sprintf("interop_to_%d.json", chainID))
}

// handleLogs writes every interop event of logs. Failures are logged only.
func (w *interopWriter) handleLogs(logs []types.Log) {
	for _, l := range logs {
		if len(l.Topics) < 4 || l.Topics[0] != InteropEventTopic {
			continue
		}
		if err := w.send(l); err != nil {
			log.Errorf("failed to write interop message of tx %s: %v", l.TransactionHash, err)
		}
	}
}

func (w *interopWriter) send(l types.Log) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return err
	}

	lock := flock.New(filepath.Join(w.dir, "LOCK"))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire the interop lock: %w", err)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			log.Warnf("failed to release the interop lock: %v", err)
		}
	}()

	destination := l.Topics[1].Big().Uint64()
	file := w.DestinationFile(destination)

	var messages InteropMessages
	content, err := os.ReadFile(file)
	switch {
	case err == nil:
		if err := json.Unmarshal(content, &messages); err != nil {
			return fmt.Errorf("failed to decode %s: %w", file, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return err
	}

	messages.Messages = append(messages.Messages, InteropMessage{
		SourceChain:        w.chainID,
		DestinationChain:   l.Topics[1],
		DestinationAddress: l.Topics[2],
		SourceAddress:      l.Topics[3],
		Payload:            hex.EncodeToString(l.Data),
	})

	out, err := json.MarshalIndent(messages, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(file, out, 0o644); err != nil {
		return err
	}
	log.Debugf("interop message from %s sent to chain %d", l.Address, destination)
	return nil
}
