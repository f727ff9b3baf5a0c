package observability

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/topicmaps/pkg/model"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	Sync().OnWrite(ctx, "add_topic", 1, time.Millisecond, errors.New("boom"))
	Sync().OnDirective(ctx, "UPDATE_TOPIC", time.Millisecond, nil)
	Cache().OnLookup(ctx, 1, true)
	Cache().OnEvict(ctx, 1)
	call := HTTPCall{Method: "GET", Host: "localhost", Path: "/topicmap/1"}
	HTTP().OnRequest(ctx, call)
	call.Status, call.Duration = 200, time.Second
	HTTP().OnDone(ctx, call)
}

type countingSync struct {
	NoopSyncHooks
	mu     sync.Mutex
	writes []string
}

func (c *countingSync) OnWrite(_ context.Context, op string, _ model.ID, _ time.Duration, _ error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes = append(c.writes, op)
}

type countingCache struct{ NoopCacheHooks }

func TestRegister(t *testing.T) {
	t.Cleanup(Reset)

	syncHooks := &countingSync{}
	Register(Hooks{Sync: syncHooks})
	if Sync() != syncHooks {
		t.Fatal("Register should install sync hooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("nil cache hooks should keep the default")
	}

	cacheHooks := &countingCache{}
	Register(Hooks{Cache: cacheHooks})
	if Sync() != syncHooks || Cache() != cacheHooks {
		t.Error("a second Register should keep earlier hook sets")
	}

	Sync().OnWrite(context.Background(), "set_translation", 3, 0, nil)
	if len(syncHooks.writes) != 1 || syncHooks.writes[0] != "set_translation" {
		t.Errorf("writes = %v", syncHooks.writes)
	}

	Reset()
	if _, ok := Sync().(NoopSyncHooks); !ok {
		t.Error("Reset() should restore the no-op sync hooks")
	}
}

func TestRegisterConcurrent(t *testing.T) {
	t.Cleanup(Reset)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			Register(Hooks{Sync: &countingSync{}})
		}()
		go func() {
			defer wg.Done()
			_ = HTTP()
		}()
	}
	wg.Wait()

	if _, ok := Sync().(*countingSync); !ok {
		t.Errorf("Sync() = %T, want *countingSync", Sync())
	}
}
