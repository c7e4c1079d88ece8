package node

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealerFromConfig(t *testing.T) {
	cases := []struct {
		name             string
		noMining         bool
		blockTime        time.Duration
		expectedMode     SealingMode
		expectedInterval time.Duration
	}{
		{name: "default", expectedMode: SealImmediate},
		{name: "interval", blockTime: 2 * time.Second, expectedMode: SealInterval, expectedInterval: 2 * time.Second},
		{name: "no mining wins", noMining: true, blockTime: time.Second, expectedMode: SealNoMine},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := NewSealerFromConfig(c.noMining, c.blockTime)
			mode, interval := s.Mode()
			assert.Equal(t, c.expectedMode, mode)
			assert.Equal(t, c.expectedInterval, interval)
		})
	}
}

func TestSealerTransitions(t *testing.T) {
	s := NewSealer()
	assert.True(t, s.IsImmediate())

	require.NoError(t, s.SetInterval(time.Second))
	mode, interval := s.Mode()
	assert.Equal(t, SealInterval, mode)
	assert.Equal(t, time.Second, interval)
	assert.False(t, s.IsImmediate())

	select {
	case <-s.Changed():
	default:
		t.Fatal("expected a change notification")
	}

	require.NoError(t, s.SetInterval(0))
	mode, _ = s.Mode()
	assert.Equal(t, SealNoMine, mode)

	s.SetImmediate(true)
	assert.True(t, s.IsImmediate())
	s.SetImmediate(false)
	mode, _ = s.Mode()
	assert.Equal(t, SealNoMine, mode)

	require.Error(t, s.SetInterval(-time.Second))
}
