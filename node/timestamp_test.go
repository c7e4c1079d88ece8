package node

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeManagerNext(t *testing.T) {
	m := NewTimeManager(1000)
	assert.Equal(t, uint64(1000), m.Last())
	assert.Equal(t, uint64(1001), m.Peek())
	assert.Equal(t, uint64(1001), m.Next())
	assert.Equal(t, uint64(1011), m.NextWithInterval(10))
	assert.Equal(t, uint64(1011), m.Last())
}

func TestTimeManagerSetNext(t *testing.T) {
	m := NewTimeManager(1000)
	require.NoError(t, m.SetNext(1500))
	assert.Equal(t, uint64(1000), m.Last())
	assert.Equal(t, uint64(1500), m.Peek())
	assert.Equal(t, uint64(1500), m.Next())
	// only the next block is pinned
	assert.Equal(t, uint64(1501), m.Next())

	require.NoError(t, m.SetNext(1501))
	require.Error(t, m.SetNext(1000))
}

func TestTimeManagerMutators(t *testing.T) {
	cases := []struct {
		name         string
		apply        func(m *TimeManager) error
		expectedLast uint64
		expectedErr  bool
	}{
		{
			name:         "advance",
			apply:        func(m *TimeManager) error { return m.Advance(2000) },
			expectedLast: 2000,
		},
		{
			name:         "advance to the same time",
			apply:        func(m *TimeManager) error { return m.Advance(1000) },
			expectedLast: 1000,
		},
		{
			name:         "advance backwards",
			apply:        func(m *TimeManager) error { return m.Advance(999) },
			expectedLast: 1000,
			expectedErr:  true,
		},
		{
			name: "increase",
			apply: func(m *TimeManager) error {
				m.Increase(50)
				return nil
			},
			expectedLast: 1050,
		},
		{
			name: "increase saturates",
			apply: func(m *TimeManager) error {
				m.Increase(math.MaxUint64)
				return nil
			},
			expectedLast: math.MaxUint64,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m := NewTimeManager(1000)
			err := c.apply(m)
			if c.expectedErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, c.expectedLast, m.Last())
		})
	}
}

func TestTimeManagerSetUnchecked(t *testing.T) {
	m := NewTimeManager(1000)
	assert.Equal(t, int64(-500), m.SetUnchecked(500))
	assert.Equal(t, uint64(500), m.Last())
	assert.Equal(t, int64(1500), m.SetUnchecked(2000))
}

func TestTimeManagerRestore(t *testing.T) {
	m := NewTimeManager(1000)
	require.NoError(t, m.SetNext(1200))
	state := m.State()

	m.Next()
	m.Increase(100)
	m.Restore(state)

	assert.Equal(t, uint64(1000), m.Last())
	assert.Equal(t, uint64(1200), m.Peek())
}
