package fetch

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gfabridge/pkg/cache"
	"github.com/matzehuels/gfabridge/pkg/config"
	"github.com/matzehuels/gfabridge/pkg/httputil"
)

// FromConfig builds a Client and its document cache from cfg. A cache
// backend that cannot be opened is logged and replaced by no caching.
func FromConfig(ctx context.Context, cfg config.Config, logger *log.Logger) (*Client, error) {
	c, err := cache.Open(ctx, cache.Options{
		Backend:   cfg.Cache.Backend,
		Dir:       cfg.Cache.Dir,
		RedisAddr: cfg.Cache.RedisAddr,
		Prefix:    cachePrefix(cfg.Cache.Backend),
	})
	if err != nil {
		if logger != nil {
			logger.Warn("document cache disabled", "backend", cfg.Cache.Backend, "error", err)
		}
		c = cache.NewNullCache()
	}
	return New(Options{
		Origin:  cfg.Fetch.Origin,
		Timeout: cfg.Fetch.Timeout,
		Policy:  httputil.Policy{Attempts: cfg.Fetch.Retries + 1, Delay: cfg.Fetch.RetryDelay, MaxDelay: httputil.DefaultPolicy().MaxDelay},
		Cache:   c,
		TTL:     cfg.Cache.TTL,
		Logger:  logger,
	})
}

// cachePrefix namespaces keys on shared backends.
func cachePrefix(backend string) string {
	if backend == cache.BackendRedis {
		return "gfabridge:"
	}
	return ""
}
