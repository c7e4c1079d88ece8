package executor

import (
	"github.com/0xPolygon/zksync-test-node/types"
	"github.com/ethereum/go-ethereum/common"
)

// journalEntry is a modification of the state that can be undone.
type journalEntry interface {
	revert(*stateDB)
}

type journal struct {
	entries []journalEntry
}

func (j *journal) append(entry journalEntry) {
	j.entries = append(j.entries, entry)
}

// revert undoes every entry recorded after snapshot
func (j *journal) revert(s *stateDB, snapshot int) {
	for i := len(j.entries) - 1; i >= snapshot; i-- {
		j.entries[i].revert(s)
	}
	j.entries = j.entries[:snapshot]
}

func (j *journal) length() int {
	return len(j.entries)
}

type (
	valueChange struct {
		key     types.StorageKey
		prev    common.Hash
		written bool
	}
	createChange struct {
		account common.Address
	}
	destructChange struct {
		account common.Address
		prev    bool
	}
	refundChange struct {
		prev uint64
	}
	addLogChange struct{}
	accessListAddAccountChange struct {
		address common.Address
	}
	accessListAddSlotChange struct {
		address common.Address
		slot    common.Hash
	}
	transientStorageChange struct {
		account common.Address
		key     common.Hash
		prev    common.Hash
	}
)

func (ch valueChange) revert(s *stateDB) {
	if ch.written {
		s.dirty[ch.key] = ch.prev
		return
	}
	delete(s.dirty, ch.key)
}

func (ch createChange) revert(s *stateDB) {
	delete(s.created, ch.account)
}

func (ch destructChange) revert(s *stateDB) {
	if ch.prev {
		s.destructed[ch.account] = true
		return
	}
	delete(s.destructed, ch.account)
}

func (ch refundChange) revert(s *stateDB) {
	s.refund = ch.prev
}

func (ch addLogChange) revert(s *stateDB) {
	s.logs = s.logs[:len(s.logs)-1]
}

func (ch accessListAddAccountChange) revert(s *stateDB) {
	s.accessList.DeleteAddress(ch.address)
}

func (ch accessListAddSlotChange) revert(s *stateDB) {
	s.accessList.DeleteSlot(ch.address, ch.slot)
}

func (ch transientStorageChange) revert(s *stateDB) {
	s.setTransientState(ch.account, ch.key, ch.prev)
}
