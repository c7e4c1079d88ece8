package common

import "math/big"

// Base10 decimal base
const Base10 = 10

const (
	// SQLLiteDriverName is the driver name of the sqlite fork cache
	SQLLiteDriverName = "sqlite3"
	// PostgresDriverName is the driver name registered by pgx/stdlib
	PostgresDriverName = "pgx"
)

// CeilDiv returns ceil(a / b) for positive values. It returns zero when b is zero.
func CeilDiv(a, b *big.Int) *big.Int {
	if b.Sign() == 0 {
		return new(big.Int)
	}
	q, r := new(big.Int).QuoRem(a, b, new(big.Int))
	if r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return q
}
