package filters

import (
	"encoding/json"
	"errors"

	"github.com/0xPolygon/zksync-test-node/types"
	"github.com/ethereum/go-ethereum/common"
)

// ErrInvalidFilter is returned for unknown filter ids
var ErrInvalidFilter = errors.New("invalid filter")

// Type of an installed filter
type Type int

// Filter types
const (
	TypeLog Type = iota
	TypeBlock
	TypePendingTransaction
)

type filter struct {
	kind   Type
	logs   *LogFilter
	hashes []common.Hash
	events []types.Log
}

// Changes are the updates delivered by eth_getFilterChanges: hashes for block
// and pending transaction filters, logs for log filters.
type Changes struct {
	Hashes []common.Hash
	Logs   []types.Log
	isLogs bool
}

// MarshalJSON renders the changes as a plain array.
func (c Changes) MarshalJSON() ([]byte, error) {
	if c.isLogs {
		if c.Logs == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(c.Logs)
	}
	if c.Hashes == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.Hashes)
}

// Len is the number of delivered updates
func (c Changes) Len() int {
	if c.isLogs {
		return len(c.Logs)
	}
	return len(c.Hashes)
}

// Registry keeps the installed filters and buffers their updates until they
// are polled. It is not safe for concurrent use, the node lock guards it.
type Registry struct {
	lastID  uint64
	filters map[ID]*filter
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{filters: make(map[ID]*filter)}
}

func (r *Registry) add(f *filter) ID {
	r.lastID++
	id := ID(r.lastID)
	r.filters[id] = f
	return id
}

// AddLogFilter installs a log filter
func (r *Registry) AddLogFilter(criteria LogFilter) ID {
	return r.add(&filter{kind: TypeLog, logs: criteria.copy()})
}

// AddBlockFilter installs a block filter
func (r *Registry) AddBlockFilter() ID {
	return r.add(&filter{kind: TypeBlock})
}

// AddPendingTransactionFilter installs a pending transaction filter
func (r *Registry) AddPendingTransactionFilter() ID {
	return r.add(&filter{kind: TypePendingTransaction})
}

// Remove uninstalls a filter. It returns false if the filter does not exist.
func (r *Registry) Remove(id ID) bool {
	if _, ok := r.filters[id]; !ok {
		return false
	}
	delete(r.filters, id)
	return true
}

// GetFilter returns the criteria of a log filter.
func (r *Registry) GetFilter(id ID) (*LogFilter, error) {
	f, ok := r.filters[id]
	if !ok || f.kind != TypeLog {
		return nil, ErrInvalidFilter
	}
	return f.logs.copy(), nil
}

// GetNewChanges returns the updates buffered since the last poll and resets the buffer.
func (r *Registry) GetNewChanges(id ID) (Changes, error) {
	f, ok := r.filters[id]
	if !ok {
		return Changes{}, ErrInvalidFilter
	}
	if f.kind == TypeLog {
		changes := Changes{Logs: f.events, isLogs: true}
		f.events = nil
		return changes, nil
	}
	changes := Changes{Hashes: f.hashes}
	f.hashes = nil
	return changes, nil
}

// NotifyNewBlock delivers a sealed block hash to the block filters
func (r *Registry) NotifyNewBlock(hash common.Hash) {
	for _, f := range r.filters {
		if f.kind == TypeBlock {
			f.hashes = append(f.hashes, hash)
		}
	}
}

// NotifyNewPendingTransaction delivers an accepted transaction hash to the pending transaction filters
func (r *Registry) NotifyNewPendingTransaction(hash common.Hash) {
	for _, f := range r.filters {
		if f.kind == TypePendingTransaction {
			f.hashes = append(f.hashes, hash)
		}
	}
}

// NotifyNewLog delivers a log to the log filters it matches
func (r *Registry) NotifyNewLog(log types.Log, latest uint64) {
	for _, f := range r.filters {
		if f.kind == TypeLog && f.logs.Matches(&log, latest) {
			f.events = append(f.events, log)
		}
	}
}

// Clone returns a deep copy of the registry, id counter included.
func (r *Registry) Clone() *Registry {
	cp := &Registry{lastID: r.lastID, filters: make(map[ID]*filter, len(r.filters))}
	for id, f := range r.filters {
		nf := &filter{
			kind:   f.kind,
			hashes: append([]common.Hash(nil), f.hashes...),
			events: append([]types.Log(nil), f.events...),
		}
		if f.logs != nil {
			nf.logs = f.logs.copy()
		}
		cp.filters[id] = nf
	}
	return cp
}
