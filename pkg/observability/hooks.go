// Package observability lets an application plug metrics or tracing into
// the topicmap client.
//
// The topicmap client emits events about remote writes, directive processing,
// view-model cache usage and HTTP calls. Consumers register hooks at startup;
// by default every hook is a no-op, so libraries carry no dependency on a
// particular observability backend.
//
// # Usage
//
// Install hooks once in main:
//
//	func main() {
//	    observability.Register(observability.Hooks{
//	        Sync:  &mySyncHooks{},
//	        Cache: &myCacheHooks{},
//	    })
//	    run()
//	}
//
// Library code reports events through the accessors:
//
//	start := time.Now()
//	err := store.SetTopicPosition(ctx, mapID, topicID, pos)
//	observability.Sync().OnWrite(ctx, "set_topic_position", mapID, time.Since(start), err)
package observability

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/matzehuels/topicmaps/pkg/model"
)

// =============================================================================
// Sync Hooks
// =============================================================================

// SyncHooks receives events from view-model writes and directive processing.
type SyncHooks interface {
	// OnWrite records a remote write issued by a view model.
	OnWrite(ctx context.Context, op string, topicmapID model.ID, duration time.Duration, err error)

	// OnDirective records one processed directive or push message.
	OnDirective(ctx context.Context, kind string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from the topicmap registry cache.
type CacheHooks interface {
	// OnLookup records a view-model lookup and whether it was served from cache.
	OnLookup(ctx context.Context, topicmapID model.ID, hit bool)

	// OnEvict records a view model dropped from the cache.
	OnEvict(ctx context.Context, topicmapID model.ID)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPCall describes one request to the topicmap server. Status, Duration
// and Err are filled in once the call has finished.
type HTTPCall struct {
	Method   string
	Host     string
	Path     string
	Status   int
	Duration time.Duration
	Err      error
}

// HTTPHooks receives events from the REST client.
type HTTPHooks interface {
	OnRequest(ctx context.Context, call HTTPCall)

	// OnDone is called once per request. Err is set when no response arrived.
	OnDone(ctx context.Context, call HTTPCall)
}

// =============================================================================
// No-op Implementations
// =============================================================================

type NoopSyncHooks struct{}

func (NoopSyncHooks) OnWrite(context.Context, string, model.ID, time.Duration, error) {}
func (NoopSyncHooks) OnDirective(context.Context, string, time.Duration, error)       {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnLookup(context.Context, model.ID, bool) {}
func (NoopCacheHooks) OnEvict(context.Context, model.ID)        {}

type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, HTTPCall) {}
func (NoopHTTPHooks) OnDone(context.Context, HTTPCall)    {}

// =============================================================================
// Global Hook Registry
// =============================================================================

// Hooks bundles the three hook sets. A nil field means "keep the current one"
// when passed to Register.
type Hooks struct {
	Sync  SyncHooks
	Cache CacheHooks
	HTTP  HTTPHooks
}

func defaults() *Hooks {
	return &Hooks{Sync: NoopSyncHooks{}, Cache: NoopCacheHooks{}, HTTP: NoopHTTPHooks{}}
}

var current atomic.Pointer[Hooks]

func init() { current.Store(defaults()) }

// Register installs the non-nil hook sets of h, typically once at startup.
func Register(h Hooks) {
	for {
		old := current.Load()
		next := *old
		if h.Sync != nil {
			next.Sync = h.Sync
		}
		if h.Cache != nil {
			next.Cache = h.Cache
		}
		if h.HTTP != nil {
			next.HTTP = h.HTTP
		}
		if current.CompareAndSwap(old, &next) {
			return
		}
	}
}

// Sync returns the registered sync hooks.
func Sync() SyncHooks { return current.Load().Sync }

func Cache() CacheHooks { return current.Load().Cache }

func HTTP() HTTPHooks { return current.Load().HTTP }

// Reset restores the no-op defaults.
func Reset() { current.Store(defaults()) }
