// Package observability provides hooks for metrics and tracing.
//
// Hooks let an embedding program observe cargo invocations and version
// probe cache traffic without featurehack depending on a metrics backend.
// Defaults are no-ops; register replacements once at startup:
//
//	func main() {
//	    observability.SetRunHooks(&myRunHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Library code emits events through the registered hooks:
//
//	observability.Run().OnInvocationStart(ctx, pkg, command)
//	err := p.Run(ctx)
//	observability.Run().OnInvocationComplete(ctx, pkg, command, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// RunHooks receives events for each cargo invocation of a run.
type RunHooks interface {
	OnInvocationStart(ctx context.Context, pkg, command string)
	OnInvocationComplete(ctx context.Context, pkg, command string, duration time.Duration, err error)
}

// CacheHooks receives events from cache lookups. keyType names the cached
// value, e.g. "cargo-version".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// NoopRunHooks is a no-op implementation of RunHooks.
type NoopRunHooks struct{}

func (NoopRunHooks) OnInvocationStart(context.Context, string, string) {}
func (NoopRunHooks) OnInvocationComplete(context.Context, string, string, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

var (
	runHooks   RunHooks   = NoopRunHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	hooksMu    sync.RWMutex
)

// SetRunHooks registers custom run hooks. Nil is ignored.
func SetRunHooks(h RunHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		runHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Run returns the registered run hooks.
func Run() RunHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return runHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores the no-op defaults. Used by tests.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	runHooks = NoopRunHooks{}
	cacheHooks = NoopCacheHooks{}
}
