// Package observability provides hooks for metrics, tracing, and logging.
//
// Instrumentation is optional: consumers register hooks at startup to
// receive events about translation runs, texture copies and the listener.
// Libraries never depend on a specific backend.
//
// # Architecture
//
//   - Hook interfaces per event category
//   - No-op default implementations
//   - Registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetTranslateHooks(&myTranslateHooks{})
//	    observability.SetAssetHooks(&myAssetHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Translate().OnTranslateStart(ctx, material)
//	// ... walk the graph ...
//	observability.Translate().OnTranslateComplete(ctx, material, nodes, links, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Translate Hooks
// =============================================================================

// TranslateHooks receives events from graph translation runs.
type TranslateHooks interface {
	OnTranslateStart(ctx context.Context, material string)
	OnTranslateComplete(ctx context.Context, material string, nodeCount, linkCount int, duration time.Duration, err error)

	// OnLinkDropped records a link omitted because its target is inactive or unresolved.
	OnLinkDropped(ctx context.Context, material, link string)
}

// =============================================================================
// Asset Hooks
// =============================================================================

// AssetHooks receives events from texture copies.
type AssetHooks interface {
	// OnTextureCopied records a file written to the destination.
	OnTextureCopied(ctx context.Context, src, dst string, size int64)

	// OnTextureSkipped records a copy skipped because sizes matched.
	OnTextureSkipped(ctx context.Context, src, dst string)

	// OnTextureError records a failed copy.
	OnTextureError(ctx context.Context, src string, err error)
}

// =============================================================================
// Transport Hooks
// =============================================================================

// TransportHooks receives events from the listener.
type TransportHooks interface {
	// OnRequest records a served request.
	OnRequest(ctx context.Context, method, path string, status int, duration time.Duration)

	// OnNotify records a status notification attempt.
	OnNotify(ctx context.Context, status string, err error)

	// OnStateChange records a listener state transition.
	OnStateChange(from, to string)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopTranslateHooks is a no-op implementation of TranslateHooks.
type NoopTranslateHooks struct{}

func (NoopTranslateHooks) OnTranslateStart(context.Context, string) {}
func (NoopTranslateHooks) OnTranslateComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopTranslateHooks) OnLinkDropped(context.Context, string, string) {}

// NoopAssetHooks is a no-op implementation of AssetHooks.
type NoopAssetHooks struct{}

func (NoopAssetHooks) OnTextureCopied(context.Context, string, string, int64) {}
func (NoopAssetHooks) OnTextureSkipped(context.Context, string, string)       {}
func (NoopAssetHooks) OnTextureError(context.Context, string, error)          {}

// NoopTransportHooks is a no-op implementation of TransportHooks.
type NoopTransportHooks struct{}

func (NoopTransportHooks) OnRequest(context.Context, string, string, int, time.Duration) {}
func (NoopTransportHooks) OnNotify(context.Context, string, error)                       {}
func (NoopTransportHooks) OnStateChange(string, string)                                  {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	translateHooks TranslateHooks = NoopTranslateHooks{}
	assetHooks     AssetHooks     = NoopAssetHooks{}
	transportHooks TransportHooks = NoopTransportHooks{}
	hooksMu        sync.RWMutex
)

// SetTranslateHooks registers custom translation hooks.
// This should be called once at application startup before any translation.
func SetTranslateHooks(h TranslateHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		translateHooks = h
	}
}

// SetAssetHooks registers custom asset hooks.
func SetAssetHooks(h AssetHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		assetHooks = h
	}
}

// SetTransportHooks registers custom transport hooks.
func SetTransportHooks(h TransportHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		transportHooks = h
	}
}

// Translate returns the registered translation hooks.
func Translate() TranslateHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return translateHooks
}

// Asset returns the registered asset hooks.
func Asset() AssetHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return assetHooks
}

// Transport returns the registered transport hooks.
func Transport() TransportHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return transportHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	translateHooks = NoopTranslateHooks{}
	assetHooks = NoopAssetHooks{}
	transportHooks = NoopTransportHooks{}
}
