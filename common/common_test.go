package common

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCeilDiv(t *testing.T) {
	cases := []struct {
		name     string
		a, b     int64
		expected int64
	}{
		{name: "exact", a: 10, b: 5, expected: 2},
		{name: "rounds up", a: 11, b: 5, expected: 3},
		{name: "smaller numerator", a: 1, b: 5, expected: 1},
		{name: "zero numerator", a: 0, b: 5, expected: 0},
		{name: "zero denominator", a: 7, b: 0, expected: 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := CeilDiv(big.NewInt(c.a), big.NewInt(c.b))
			require.Equal(t, c.expected, got.Int64())
		})
	}
}
