// Package cache stores fetched GFA documents between runs.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: one JSON entry file per key under a directory (CLI default)
//   - [RedisCache]: shared cache for several server instances
//   - [NullCache]: caching disabled
//
// Keys are built with [DocumentKey] so that every backend sees the same
// namespace. Entries carry their own expiry; a TTL of 0 never expires.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
// A miss is reported as (nil, false, nil), never as an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Backend names accepted by [Open].
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// ErrUnknownBackend is returned by [Open] for an unrecognized backend name.
var ErrUnknownBackend = errors.New("unknown cache backend")

// Options selects and configures a backend.
type Options struct {
	Backend   string // file, redis or none; empty means file
	Dir       string // FileCache directory
	RedisAddr string // RedisCache address (host:port)
	Prefix    string // key prefix applied by Scoped
}

// Open builds the cache described by opts.
func Open(ctx context.Context, opts Options) (Cache, error) {
	var (
		c   Cache
		err error
	)
	switch opts.Backend {
	case "", BackendFile:
		c, err = NewFileCache(opts.Dir)
	case BackendRedis:
		c, err = NewRedisCache(ctx, opts.RedisAddr)
	case BackendNone:
		c = NewNullCache()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
	if err != nil {
		return nil, err
	}
	if opts.Prefix != "" {
		c = Scoped(c, opts.Prefix)
	}
	return c, nil
}

// =============================================================================
// Scoped
// =============================================================================

type scoped struct {
	inner  Cache
	prefix string
}

// Scoped prefixes every key passed to inner, so several tools can share one
// Redis database without colliding.
func Scoped(inner Cache, prefix string) Cache {
	return &scoped{inner: inner, prefix: prefix}
}

func (s *scoped) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *scoped) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return s.inner.Set(ctx, s.prefix+key, data, ttl)
}

func (s *scoped) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}

func (s *scoped) Close() error { return s.inner.Close() }
