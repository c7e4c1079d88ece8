package node

import (
	"fmt"
	"math"
	"sync"
)

// TimeManager hands out block timestamps. They never go backwards unless
// explicitly set with SetUnchecked.
type TimeManager struct {
	mu       sync.Mutex
	last     uint64
	next     *uint64
	interval uint64
}

// TimeState is a copy of the TimeManager state
type TimeState struct {
	Last     uint64
	Next     *uint64
	Interval uint64
}

// NewTimeManager starts counting from last
func NewTimeManager(last uint64) *TimeManager {
	return &TimeManager{last: last, interval: 1}
}

// Last returns the timestamp of the latest sealed block
func (m *TimeManager) Last() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// Peek returns the timestamp the next block will get without consuming it.
func (m *TimeManager) Peek() uint64 {
	return m.PeekWithInterval(0)
}

// PeekWithInterval is Peek for a block sealed with NextWithInterval.
func (m *TimeManager) PeekWithInterval(interval uint64) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if interval == 0 {
		interval = m.interval
	}
	if m.next != nil {
		return *m.next
	}
	return saturatingAdd(m.last, interval)
}

// Next consumes the timestamp of the next block.
func (m *TimeManager) Next() uint64 {
	return m.NextWithInterval(0)
}

// NextWithInterval consumes the timestamp of the next block using interval
// instead of the configured one. Zero means the configured interval.
func (m *TimeManager) NextWithInterval(interval uint64) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if interval == 0 {
		interval = m.interval
	}
	if m.next != nil {
		m.last = *m.next
		m.next = nil
	} else {
		m.last = saturatingAdd(m.last, interval)
	}
	return m.last
}

// SetUnchecked replaces the current time, even with an older one, and returns the applied delta.
func (m *TimeManager) SetUnchecked(t uint64) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	delta := int64(t) - int64(m.last)
	m.last = t
	m.next = nil
	return delta
}

// Advance moves the current time forward to t.
func (m *TimeManager) Advance(t uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t < m.last {
		return fmt.Errorf("timestamp (%d) must be greater or equal than current timestamp (%d)", t, m.last)
	}
	m.last = t
	m.next = nil
	return nil
}

// SetNext pins the timestamp of the next sealed block only.
func (m *TimeManager) SetNext(t uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t < m.last {
		return fmt.Errorf("timestamp (%d) must be greater than current timestamp (%d)", t, m.last)
	}
	m.next = &t
	return nil
}

// Increase moves the current time forward by delta seconds and returns the new time.
func (m *TimeManager) Increase(delta uint64) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = saturatingAdd(m.last, delta)
	if m.next != nil && *m.next < m.last {
		m.next = nil
	}
	return m.last
}

// State returns a copy of the state
func (m *TimeManager) State() TimeState {
	m.mu.Lock()
	defer m.mu.Unlock()
	state := TimeState{Last: m.last, Interval: m.interval}
	if m.next != nil {
		next := *m.next
		state.Next = &next
	}
	return state
}

// Restore replaces the state
func (m *TimeManager) Restore(state TimeState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = state.Last
	m.interval = state.Interval
	m.next = nil
	if state.Next != nil {
		next := *state.Next
		m.next = &next
	}
}

func saturatingAdd(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}
