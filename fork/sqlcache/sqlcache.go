package sqlcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	localCommon "github.com/0xPolygon/zksync-test-node/common"
	"github.com/0xPolygon/zksync-test-node/log"
	"github.com/0xPolygon/zksync-test-node/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/jackc/pgconn"
	_ "github.com/jackc/pgx/v4/stdlib" // registers the pgx driver
	sqlite "github.com/mattn/go-sqlite3"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/russross/meddler"
)

const (
	// forkCacheTable is the table holding the cached fork responses
	forkCacheTable = "fork_cache"

	pgUniqueViolation = "23505"
)

var (
	errNoRowsInResultSet = errors.New("sql: no rows in result set")
)

type entry struct {
	Kind      string      `meddler:"kind"`
	Key       string      `meddler:"cache_key"`
	Value     string      `meddler:"value"`
	Checksum  common.Hash `meddler:"checksum,hash"`
	CreatedAt time.Time   `meddler:"created_at,timeRFC3339"`
}

// Cache persists fork responses in a SQL database. sqlite is used for the
// on-disk cache and Postgres for a cache shared between nodes.
type Cache struct {
	db         *sql.DB
	d          *meddler.Database
	driverName string
}

// New opens the database, runs the migrations and returns the cache.
func New(driverName, dsn string) (*Cache, error) {
	d := meddler.SQLite
	switch driverName {
	case localCommon.SQLLiteDriverName:
		if dsn == ":memory:" {
			dsn = "file::memory:?cache=shared"
		}
	case localCommon.PostgresDriverName:
		d = meddler.PostgreSQL
	default:
		return nil, fmt.Errorf("unsupported fork cache driver %q", driverName)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}

	if driverName == localCommon.SQLLiteDriverName {
		_, err = db.Exec(`
			pragma journal_mode = WAL;
			pragma synchronous = normal;
			pragma journal_size_limit  = 6144000;
		`)
		if err != nil {
			return nil, err
		}
	}

	if err := RunMigrations(driverName, db, migrate.Up); err != nil {
		return nil, err
	}

	initMeddler()

	return &Cache{db: db, d: d, driverName: driverName}, nil
}

// Get returns the cached value of kind and key, or types.ErrNotFound.
func (c *Cache) Get(ctx context.Context, kind, key string) ([]byte, error) {
	query, err := c.buildBaseSelectQuery(&entry{})
	if err != nil {
		return nil, err
	}
	query += " WHERE kind = $1 AND cache_key = $2"

	var e entry
	err = c.d.QueryRow(c.db, &e, query, kind, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || err.Error() == errNoRowsInResultSet.Error() {
			return nil, types.ErrNotFound
		}
		return nil, err
	}

	if crypto.Keccak256Hash([]byte(e.Value)) != e.Checksum {
		log.Warnf("dropping corrupted fork cache entry %s/%s", kind, key)
		if err := c.Remove(ctx, kind, key); err != nil && !errors.Is(err, types.ErrNotFound) {
			return nil, err
		}
		return nil, types.ErrNotFound
	}

	return []byte(e.Value), nil
}

// Put stores value under kind and key. Entries are immutable: storing an
// existing key returns types.ErrAlreadyExists.
func (c *Cache) Put(_ context.Context, kind, key string, value []byte) error {
	e := entry{
		Kind:      kind,
		Key:       key,
		Value:     string(value),
		Checksum:  crypto.Keccak256Hash(value),
		CreatedAt: time.Now(),
	}

	err := c.d.Insert(c.db, forkCacheTable, &e)
	if err != nil && c.isDuplicate(err) {
		return types.ErrAlreadyExists
	}
	return err
}

// Remove deletes a single entry. If it does not exist, it returns an ErrNotFound error.
func (c *Cache) Remove(ctx context.Context, kind, key string) error {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(buildBaseDeleteStatement(forkCacheTable) + " WHERE kind = $1 AND cache_key = $2")

	result, err := c.db.ExecContext(ctx, queryBuilder.String(), kind, key)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return types.ErrNotFound
	}

	return nil
}

// Empty clears all the records of the cache.
func (c *Cache) Empty(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, buildBaseDeleteStatement(forkCacheTable))
	if err != nil {
		return fmt.Errorf("failed to empty %s table: %w", forkCacheTable, err)
	}

	return nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// buildBaseSelectQuery creates SELECT query dynamically based on the provided entity
func (c *Cache) buildBaseSelectQuery(src interface{}) (string, error) {
	var queryBuilder strings.Builder
	cols, err := c.d.Columns(src, false)
	if err != nil {
		return "", err
	}

	queryBuilder.WriteString("SELECT " + strings.Join(cols, ", ") + " FROM " + forkCacheTable)

	return queryBuilder.String(), nil
}

// buildBaseDeleteStatement creates DELETE statement dynamically based on the provided table name
func buildBaseDeleteStatement(tableName string) string {
	return "DELETE FROM " + tableName
}

func (c *Cache) isDuplicate(err error) bool {
	if c.driverName == localCommon.PostgresDriverName {
		pgErr, ok := unwrapPostgresErr(err)
		return ok && pgErr.Code == pgUniqueViolation
	}
	sqlErr, ok := unwrapSQLiteErr(err)
	return ok && sqlErr.Code == sqlite.ErrConstraint
}

// unwrapSQLiteErr attempts to extract a *sqlite.Error from the given error.
// It first checks if the error is directly of type *sqlite.Error, and if not,
// it tries to unwrap it from a meddler.DriverErr.
func unwrapSQLiteErr(err error) (*sqlite.Error, bool) {
	sqliteErr := &sqlite.Error{}
	if ok := errors.As(err, sqliteErr); ok {
		return sqliteErr, true
	}

	if driverErr, ok := meddler.DriverErr(err); ok {
		return sqliteErr, errors.As(driverErr, sqliteErr)
	}

	return sqliteErr, false
}

// unwrapPostgresErr is the Postgres counterpart of unwrapSQLiteErr.
func unwrapPostgresErr(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}

	if driverErr, ok := meddler.DriverErr(err); ok {
		return pgErr, errors.As(driverErr, &pgErr)
	}

	return nil, false
}
