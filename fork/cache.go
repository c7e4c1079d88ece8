package fork

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	localCommon "github.com/0xPolygon/zksync-test-node/common"
	"github.com/0xPolygon/zksync-test-node/fork/sqlcache"
	"github.com/0xPolygon/zksync-test-node/log"
	"github.com/0xPolygon/zksync-test-node/types"
	lru "github.com/hashicorp/golang-lru/v2"
)

// CacheType selects the backend of the fork response cache
type CacheType string

const (
	// CacheNone disables caching
	CacheNone CacheType = "none"
	// CacheMemory keeps responses in a bounded in-process LRU
	CacheMemory CacheType = "memory"
	// CacheDisk keeps responses in a sqlite file under CacheConfig.Dir
	CacheDisk CacheType = "disk"
	// CacheSQL keeps responses in a Postgres database
	CacheSQL CacheType = "sql"
)

// Kinds of cached responses
const (
	KindBlocksFull           = "blocks_full"
	KindBlocksMin            = "blocks_min"
	KindBlockRawTransactions = "block_raw_transactions"
	KindTransactions         = "transactions"
	KindBytecodes            = "bytecodes"
	KindBridgeAddresses      = "bridge_addresses"
	KindConfirmedTokens      = "confirmed_tokens"
)

// CacheConfig is the configuration of the fork response cache
type CacheConfig struct {
	// Type is one of none, memory, disk or sql
	Type CacheType `mapstructure:"Type"`
	// Dir is the directory of the disk cache
	Dir string `mapstructure:"Dir"`
	// Reset empties the cache on start
	Reset bool `mapstructure:"Reset"`
	// DSN of the Postgres database used by the sql cache
	DSN string `mapstructure:"DSN"`
	// Size is the number of entries kept by the memory cache
	Size int `mapstructure:"Size"`
}

// Cache stores raw JSON responses of the fork source.
type Cache interface {
	Get(ctx context.Context, kind, key string) ([]byte, error)
	Put(ctx context.Context, kind, key string, value []byte) error
	Empty(ctx context.Context) error
}

// NewCache builds the cache described by cfg.
func NewCache(ctx context.Context, cfg CacheConfig) (Cache, error) {
	var (
		cache Cache
		err   error
	)
	switch cfg.Type {
	case CacheNone, "":
		return noCache{}, nil
	case CacheMemory:
		cache, err = newMemoryCache(cfg.Size)
	case CacheDisk:
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create cache dir %s: %w", cfg.Dir, err)
		}
		cache, err = sqlcache.New(localCommon.SQLLiteDriverName, filepath.Join(cfg.Dir, "cache.sqlite"))
	case CacheSQL:
		cache, err = sqlcache.New(localCommon.PostgresDriverName, cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown cache type %q", cfg.Type)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Reset {
		log.Infof("resetting %s fork cache", cfg.Type)
		if err := cache.Empty(ctx); err != nil {
			return nil, err
		}
	}
	return cache, nil
}

type noCache struct{}

func (noCache) Get(context.Context, string, string) ([]byte, error) { return nil, types.ErrNotFound }
func (noCache) Put(context.Context, string, string, []byte) error   { return nil }
func (noCache) Empty(context.Context) error                         { return nil }

const defaultMemoryCacheSize = 10_000

type memoryCache struct {
	entries *lru.Cache[string, []byte]
}

func newMemoryCache(size int) (*memoryCache, error) {
	if size <= 0 {
		size = defaultMemoryCacheSize
	}
	entries, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, err
	}
	return &memoryCache{entries: entries}, nil
}

func (c *memoryCache) Get(_ context.Context, kind, key string) ([]byte, error) {
	value, ok := c.entries.Get(kind + "/" + key)
	if !ok {
		return nil, types.ErrNotFound
	}
	return value, nil
}

func (c *memoryCache) Put(_ context.Context, kind, key string, value []byte) error {
	c.entries.Add(kind+"/"+key, value)
	return nil
}

func (c *memoryCache) Empty(context.Context) error {
	c.entries.Purge()
	return nil
}
