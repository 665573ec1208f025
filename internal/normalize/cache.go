package normalize

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/cockroachdb/pebble"

	"github.com/xiangyuzeng/lucky-analytic-us-improved2/internal/platform"
)

// Cache memoizes normalization results on Pebble, keyed by the
// content hash of the input file plus the policy fingerprint.
// Normalization is pure, so reprocessing an unchanged file can be a
// straight lookup; a changed file or changed policy hashes to a new
// key, which is the invalidation.
type Cache struct {
	db *pebble.DB
}

// OpenCache opens (or creates) the cache directory.
func OpenCache(dir string) (*Cache, error) {
	db, err := pebble.Open(filepath.Clean(dir), &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("pebble open: %w", err)
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error { return c.db.Close() }

// CacheKey derives the lookup key for one input file under one policy.
func CacheKey(p platform.Platform, cfg Config, raw []byte) []byte {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|", p, cfg.Fingerprint())
	h.Write(raw)
	return h.Sum(nil)
}

// Get returns the memoized result for key, if present and decodable.
func (c *Cache) Get(key []byte) (Result, bool) {
	v, closer, err := c.db.Get(key)
	if err != nil {
		return Result{}, false
	}
	defer closer.Close()
	var res Result
	if err := json.Unmarshal(v, &res); err != nil {
		return Result{}, false
	}
	return res, true
}

// Put stores a fresh result under key.
func (c *Cache) Put(key []byte, res Result) error {
	b, err := json.Marshal(&res)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := c.db.Set(key, b, pebble.Sync); err != nil {
		return fmt.Errorf("pebble set: %w", err)
	}
	return nil
}
