package log

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node.log")
	Init(Config{
		Environment: EnvironmentProduction,
		Level:       "info",
		Outputs:     []string{path},
	})

	Infof("sealed block #%d", 7)
	Debug("not written")
	WithFields("block", 8).Warn("with fields")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(content), "sealed block #7")
	require.Contains(t, string(content), `"block":8`)
	require.NotContains(t, string(content), "not written")
}

func TestSetLevel(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		expected    string
		expectedErr bool
	}{
		{name: "debug", level: "debug", expected: "debug"},
		{name: "upper case", level: "WARN", expected: "warn"},
		{name: "invalid", level: "verbose", expectedErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := SetLevel(tc.level)
			if tc.expectedErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, GetLevel())
		})
	}
}

func TestUnknownEnvironment(t *testing.T) {
	_, err := NewLogger(Config{Environment: "staging", Level: "info"})
	require.Error(t, err)
}
