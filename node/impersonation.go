package node

import (
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"
)

// ImpersonationState is a copy of the impersonation manager state
type ImpersonationState struct {
	Auto     bool
	Accounts []common.Address
}

// ImpersonationManager tracks the accounts whose transactions are accepted
// without a matching signature.
type ImpersonationManager struct {
	mu       sync.RWMutex
	auto     bool
	accounts mapset.Set[common.Address]
}

// NewImpersonationManager creates an empty manager
func NewImpersonationManager() *ImpersonationManager {
	return &ImpersonationManager{accounts: mapset.NewThreadUnsafeSet[common.Address]()}
}

// Impersonate starts impersonating addr. It returns false if it was already impersonated.
func (m *ImpersonationManager) Impersonate(addr common.Address) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accounts.Add(addr)
}

// Stop stops impersonating addr. It returns false if it was not impersonated.
func (m *ImpersonationManager) Stop(addr common.Address) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.accounts.Contains(addr) {
		return false
	}
	m.accounts.Remove(addr)
	return true
}

// SetAuto toggles the impersonation of every account
func (m *ImpersonationManager) SetAuto(enabled bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	changed := m.auto != enabled
	m.auto = enabled
	return changed
}

// IsImpersonating reports whether transactions of addr skip signature checks
func (m *ImpersonationManager) IsImpersonating(addr common.Address) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.auto || m.accounts.Contains(addr)
}

// All returns the individually impersonated accounts
func (m *ImpersonationManager) All() []common.Address {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.accounts.ToSlice()
}

// State returns a copy of the state
func (m *ImpersonationManager) State() ImpersonationState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return ImpersonationState{Auto: m.auto, Accounts: m.accounts.ToSlice()}
}

// Restore replaces the state
func (m *ImpersonationManager) Restore(state ImpersonationState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.auto = state.Auto
	m.accounts = mapset.NewThreadUnsafeSet[common.Address](state.Accounts...)
}
