// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries in this module emit events through hook interfaces instead of
// depending on a particular metrics backend. The defaults are no-ops; a host
// registers its own implementations once at startup.
//
// # Hook Categories
//
//   - [IngestHooks]: one event pair per ingestion run, keyed by run ID
//   - [BridgeHooks]: handle lifecycle at the C boundary
//   - [CacheHooks]: document cache hits, misses and writes
//   - [HTTPHooks]: outgoing fetch requests
//
// # Usage
//
//	func main() {
//	    observability.SetIngestHooks(observability.LogIngestHooks{Logger: logger})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Ingest().OnIngestStart(ctx, runID, src)
//	// ... decode lines ...
//	observability.Ingest().OnIngestComplete(ctx, runID, src, summary, err)
package observability

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// =============================================================================
// Ingest Hooks
// =============================================================================

// IngestSummary is the outcome of one ingestion run.
type IngestSummary struct {
	Lines    int
	Segments int
	Links    int
	Paths    int
	Skipped  int
	Duration time.Duration
}

// IngestHooks receives events from the ingestion driver.
type IngestHooks interface {
	OnIngestStart(ctx context.Context, runID, source string)
	OnIngestComplete(ctx context.Context, runID, source string, summary IngestSummary, err error)
}

// =============================================================================
// Bridge Hooks
// =============================================================================

// BridgeHooks receives handle lifecycle events from the boundary registry.
type BridgeHooks interface {
	OnHandleOpen(handle int64, records int)
	OnHandleFree(handle int64)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopIngestHooks is a no-op implementation of IngestHooks.
type NoopIngestHooks struct{}

func (NoopIngestHooks) OnIngestStart(context.Context, string, string) {}
func (NoopIngestHooks) OnIngestComplete(context.Context, string, string, IngestSummary, error) {
}

// NoopBridgeHooks is a no-op implementation of BridgeHooks.
type NoopBridgeHooks struct{}

func (NoopBridgeHooks) OnHandleOpen(int64, int) {}
func (NoopBridgeHooks) OnHandleFree(int64)      {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Logging Implementation
// =============================================================================

// LogIngestHooks writes ingestion events to a charm logger at debug level.
type LogIngestHooks struct {
	Logger *log.Logger
}

func (h LogIngestHooks) OnIngestStart(_ context.Context, runID, source string) {
	h.Logger.Debug("ingest started", "run", runID, "source", source)
}

func (h LogIngestHooks) OnIngestComplete(_ context.Context, runID, source string, s IngestSummary, err error) {
	if err != nil {
		h.Logger.Debug("ingest failed", "run", runID, "source", source, "error", err)
		return
	}
	h.Logger.Debug("ingest complete", "run", runID,
		"lines", s.Lines, "segments", s.Segments, "links", s.Links, "paths", s.Paths,
		"skipped", s.Skipped, "duration", s.Duration)
}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	ingestHooks IngestHooks = NoopIngestHooks{}
	bridgeHooks BridgeHooks = NoopBridgeHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	httpHooks   HTTPHooks   = NoopHTTPHooks{}
	hooksMu     sync.RWMutex
)

// SetIngestHooks registers custom ingest hooks.
// This should be called once at application startup before any ingestion.
func SetIngestHooks(h IngestHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		ingestHooks = h
	}
}

// SetBridgeHooks registers custom bridge hooks.
func SetBridgeHooks(h BridgeHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		bridgeHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Ingest returns the registered ingest hooks.
func Ingest() IngestHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return ingestHooks
}

// Bridge returns the registered bridge hooks.
func Bridge() BridgeHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return bridgeHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	ingestHooks = NoopIngestHooks{}
	bridgeHooks = NoopBridgeHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
