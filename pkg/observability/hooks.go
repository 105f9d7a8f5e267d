// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries emit events through package-level hook registries; the CLI
// registers implementations at startup. Nothing in the audit pipeline depends
// on a specific backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	observability.SetHTTPHooks(&logHTTPHooks{logger})
//
// Libraries call hooks to emit events:
//
//	observability.Audit().OnStageStart(ctx, observability.StageResolve, id)
//	// ... resolve ...
//	observability.Audit().OnStageComplete(ctx, observability.StageResolve, id, n, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// Stage names one step of the audit pipeline.
type Stage string

// Audit stages in execution order.
const (
	StageResolve  Stage = "resolve"
	StageCheck    Stage = "check"
	StageEnrich   Stage = "enrich"
	StageClassify Stage = "classify"
	StageRegister Stage = "register"
)

// =============================================================================
// Audit Hooks
// =============================================================================

// AuditHooks receives events from the audit pipeline.
type AuditHooks interface {
	OnStageStart(ctx context.Context, stage Stage, pack string)
	// OnStageComplete reports the stage outcome; count is the number of
	// extensions the stage produced or touched.
	OnStageComplete(ctx context.Context, stage Stage, pack string, count int, duration time.Duration, err error)
	// OnDegraded reports a best-effort lookup that failed without aborting the run.
	OnDegraded(ctx context.Context, stage Stage, id string, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, namespace string)
	OnCacheMiss(ctx context.Context, namespace string)
	OnCacheSet(ctx context.Context, namespace string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	// OnError records a transport failure (network error, timeout, open circuit).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopAuditHooks is a no-op implementation of AuditHooks.
type NoopAuditHooks struct{}

func (NoopAuditHooks) OnStageStart(context.Context, Stage, string) {}
func (NoopAuditHooks) OnStageComplete(context.Context, Stage, string, int, time.Duration, error) {
}
func (NoopAuditHooks) OnDegraded(context.Context, Stage, string, error) {}

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
// Global Hook Registry
// =============================================================================

var (
	auditHooks AuditHooks = NoopAuditHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	hooksMu    sync.RWMutex
)

// SetAuditHooks registers custom audit hooks.
func SetAuditHooks(h AuditHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		auditHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Audit returns the registered audit hooks.
func Audit() AuditHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return auditHooks
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
	auditHooks = NoopAuditHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
