package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDurationUnmarshal(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    time.Duration
		expectedErr bool
	}{
		{name: "seconds", input: "3s", expected: 3 * time.Second},
		{name: "millis", input: "250ms", expected: 250 * time.Millisecond},
		{name: "zero", input: "0s", expected: 0},
		{name: "invalid", input: "three seconds", expectedErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tc.input))
			if tc.expectedErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, d.Duration)

			text, err := d.MarshalText()
			require.NoError(t, err)
			require.Equal(t, NewDuration(tc.expected), mustParse(t, string(text)))
		})
	}
}

func mustParse(t *testing.T, s string) Duration {
	t.Helper()
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte(s)))
	return d
}
