package node

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestImpersonationManager(t *testing.T) {
	a := common.HexToAddress("0x1")
	b := common.HexToAddress("0x2")
	m := NewImpersonationManager()

	assert.False(t, m.IsImpersonating(a))
	assert.True(t, m.Impersonate(a))
	assert.False(t, m.Impersonate(a))
	assert.True(t, m.IsImpersonating(a))
	assert.False(t, m.IsImpersonating(b))
	assert.Equal(t, []common.Address{a}, m.All())

	assert.True(t, m.Stop(a))
	assert.False(t, m.Stop(a))
	assert.False(t, m.IsImpersonating(a))

	assert.True(t, m.SetAuto(true))
	assert.False(t, m.SetAuto(true))
	assert.True(t, m.IsImpersonating(b))
	assert.True(t, m.SetAuto(false))
	assert.False(t, m.IsImpersonating(b))
}

func TestImpersonationRestore(t *testing.T) {
	a := common.HexToAddress("0x1")
	m := NewImpersonationManager()
	m.Impersonate(a)
	state := m.State()

	m.Stop(a)
	m.SetAuto(true)
	m.Restore(state)

	assert.True(t, m.IsImpersonating(a))
	assert.False(t, m.IsImpersonating(common.HexToAddress("0x2")))
}
