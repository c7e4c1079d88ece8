package node

import (
	"fmt"
	"sync"
	"time"
)

// SealingMode tells when blocks are sealed
type SealingMode int

const (
	// SealImmediate seals a block as soon as transactions are submitted
	SealImmediate SealingMode = iota
	// SealInterval seals a block, possibly empty, on every tick
	SealInterval
	// SealNoMine only seals on explicit mine calls
	SealNoMine
)

func (m SealingMode) String() string {
	switch m {
	case SealImmediate:
		return "immediate"
	case SealInterval:
		return "interval"
	case SealNoMine:
		return "none"
	default:
		return "unknown"
	}
}

// Sealer holds the sealing mode. Changes wake up whoever waits on Changed.
type Sealer struct {
	mu       sync.RWMutex
	mode     SealingMode
	interval time.Duration
	changed  chan struct{}
}

// NewSealer creates a sealer in immediate mode
func NewSealer() *Sealer {
	return &Sealer{changed: make(chan struct{}, 1)}
}

// NewSealerFromConfig picks the mode from the mining settings.
func NewSealerFromConfig(noMining bool, blockTime time.Duration) *Sealer {
	s := NewSealer()
	switch {
	case noMining:
		s.mode = SealNoMine
	case blockTime > 0:
		s.mode = SealInterval
		s.interval = blockTime
	}
	return s
}

// Mode returns the mode and the interval, the latter only meaningful in interval mode
func (s *Sealer) Mode() (SealingMode, time.Duration) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode, s.interval
}

// IsImmediate reports whether blocks are sealed on submission, i.e. automine
func (s *Sealer) IsImmediate() bool {
	mode, _ := s.Mode()
	return mode == SealImmediate
}

// SetImmediate switches to immediate mode when enabled, otherwise to no-mine
func (s *Sealer) SetImmediate(enabled bool) {
	if enabled {
		s.set(SealImmediate, 0)
		return
	}
	s.set(SealNoMine, 0)
}

// SetInterval switches to interval mode, a zero interval disables mining
func (s *Sealer) SetInterval(interval time.Duration) error {
	if interval < 0 {
		return fmt.Errorf("invalid interval %s", interval)
	}
	if interval == 0 {
		s.set(SealNoMine, 0)
		return nil
	}
	s.set(SealInterval, interval)
	return nil
}

// SetNoMine disables automatic sealing
func (s *Sealer) SetNoMine() {
	s.set(SealNoMine, 0)
}

func (s *Sealer) set(mode SealingMode, interval time.Duration) {
	s.mu.Lock()
	s.mode = mode
	s.interval = interval
	s.mu.Unlock()

	select {
	case s.changed <- struct{}{}:
	default:
	}
}

// Changed is signaled, coalesced, whenever the mode changes
func (s *Sealer) Changed() <-chan struct{} {
	return s.changed
}
