// Package observability provides hooks for metrics, tracing, and logging.
//
// The layout library emits events through small hook interfaces and never
// imports a metrics backend itself. Binaries register an implementation at
// startup (the HTTP service registers Prometheus collectors); everything
// else sees no-op defaults.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetLayoutHooks(&myLayoutHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Or scope them to a single call through the context:
//
//	ctx = observability.WithLayoutHooks(ctx, hooks)
//
// Libraries look hooks up from the context and emit events:
//
//	hooks := observability.LayoutFrom(ctx)
//	hooks.OnLayoutStart(ctx, nodeCount, edgeCount)
//	// ... run the stages ...
//	hooks.OnLayoutComplete(ctx, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from a layout run.
type LayoutHooks interface {
	// OnLayoutStart is called once the input graph has been validated.
	OnLayoutStart(ctx context.Context, nodeCount, edgeCount int)

	// OnStage is called after each pipeline stage with its wall time.
	OnStage(ctx context.Context, stage string, duration time.Duration)

	// OnLayoutComplete is called when the run ends, successfully or not.
	OnLayoutComplete(ctx context.Context, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, backend string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, backend string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, backend string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events for requests served by the layout service.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, route string)

	// OnResponse records the response sent for a request.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnLayoutStart(context.Context, int, int)                {}
func (NoopLayoutHooks) OnStage(context.Context, string, time.Duration)         {}
func (NoopLayoutHooks) OnLayoutComplete(context.Context, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	layoutHooks LayoutHooks = NoopLayoutHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	httpHooks   HTTPHooks   = NoopHTTPHooks{}
	hooksMu     sync.RWMutex
)

// SetLayoutHooks registers custom layout hooks.
// This should be called once at application startup before any layout runs.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
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
// This should be called once at application startup before serving.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
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
	layoutHooks = NoopLayoutHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}

// =============================================================================
// Context-scoped Hooks
// =============================================================================

type layoutHooksKey struct{}

// WithLayoutHooks returns a context whose layout runs report to h instead of
// the global registry.
func WithLayoutHooks(ctx context.Context, h LayoutHooks) context.Context {
	return context.WithValue(ctx, layoutHooksKey{}, h)
}

// LayoutFrom returns the layout hooks attached to ctx, falling back to the
// registered ones.
func LayoutFrom(ctx context.Context) LayoutHooks {
	if h, ok := ctx.Value(layoutHooksKey{}).(LayoutHooks); ok && h != nil {
		return h
	}
	return Layout()
}
