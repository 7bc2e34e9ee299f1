// Package cache stores rendered artifacts (word-cloud SVGs) so repeated
// views of a company skip layout.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/ppiankov/reviewlens/internal/model"
)

// Cache defines the interface for caching rendered bytes
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key builds a cache key from its parts (dataset fingerprint, company,
// render options). Parts are hashed so any string is safe as a file name.
func Key(kind string, parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return "reviewlens-v1-" + kind + "-" + hex.EncodeToString(hash[:])
}

// New builds the cache described by cfg: nothing when disabled, memory only
// without a directory, memory over disk otherwise
func New(cfg model.CacheConfig) Cache {
	if !cfg.Enabled {
		return NoopCache{}
	}
	if cfg.Dir == "" {
		return NewMemoryCache(cfg.MemoryTTL, 10*time.Minute)
	}
	return NewLayeredCache(cfg.MemoryTTL, cfg.Dir, cfg.DiskTTL)
}

// NoopCache never stores anything
type NoopCache struct{}

func (NoopCache) Get(string) ([]byte, bool)               { return nil, false }
func (NoopCache) Set(string, []byte, time.Duration) error { return nil }
func (NoopCache) Delete(string) error                     { return nil }
func (NoopCache) Clear() error                            { return nil }
