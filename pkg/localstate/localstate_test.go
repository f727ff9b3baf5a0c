package localstate

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/topicmaps/pkg/model"
)

func testStores(t *testing.T) map[string]Store {
	t.Helper()

	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	mr := miniredis.RunT(t)
	rs := NewRedisStoreFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "")
	t.Cleanup(func() { rs.Close() })

	return map[string]Store{
		"file":   fs,
		"redis":  rs,
		"memory": NewMemoryStore(),
	}
}

func TestStores(t *testing.T) {
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if _, ok, err := s.Get(ctx, KeyWorkspace); err != nil || ok {
				t.Fatalf("Get on empty store = ok:%v err:%v", ok, err)
			}

			if err := SetID(ctx, s, KeyWorkspace, 7); err != nil {
				t.Fatal(err)
			}
			if err := SetID(ctx, s, TopicmapKey(7), 42); err != nil {
				t.Fatal(err)
			}
			if err := SetID(ctx, s, TopicmapKey(7), 43); err != nil {
				t.Fatal(err)
			}

			id, ok, err := GetID(ctx, s, TopicmapKey(7))
			if err != nil || !ok || id != 43 {
				t.Errorf("GetID = %d, %v, %v; want 43", id, ok, err)
			}

			all, err := s.All(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if len(all) != 2 || all[KeyWorkspace] != "7" || all["topicmap_id.7"] != "43" {
				t.Errorf("All = %v", all)
			}

			if err := s.Delete(ctx, KeyWorkspace); err != nil {
				t.Fatal(err)
			}
			if err := s.Delete(ctx, KeyWorkspace); err != nil {
				t.Errorf("second Delete error: %v", err)
			}
			if _, ok, _ := s.Get(ctx, KeyWorkspace); ok {
				t.Error("key should be gone")
			}
		})
	}
}

func TestGetIDInvalid(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_ = s.Set(ctx, KeyWorkspace, "not-a-number")
	if _, _, err := GetID(ctx, s, KeyWorkspace); err == nil {
		t.Error("expected parse error")
	}
}

func TestFileStoreCorruptEntry(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, KeyWorkspace+".json")
	if err := os.WriteFile(path, []byte("{broken"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := s.Get(context.Background(), KeyWorkspace); ok || err != nil {
		t.Errorf("Get = ok:%v err:%v, want miss", ok, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}

	// All skips and removes corrupt entries too, while readers run.
	if err := s.Set(context.Background(), TopicmapKey(1), "5"); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{broken"), 0600); err != nil {
		t.Fatal(err)
	}
	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = s.Get(context.Background(), KeyWorkspace)
		}()
	}
	all, err := s.All(context.Background())
	wg.Wait()
	if err != nil || len(all) != 1 || all[TopicmapKey(1)] != "5" {
		t.Errorf("All = %v, %v; want only the valid entry", all, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("All should remove the corrupt entry")
	}
}

func TestRedisPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	s := NewRedisStoreFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "app:")
	defer s.Close()

	if err := SetID(context.Background(), s, KeyWorkspace, model.ID(3)); err != nil {
		t.Fatal(err)
	}
	if v, err := mr.Get("app:" + KeyWorkspace); err != nil || v != "3" {
		t.Errorf("raw key = %q, %v", v, err)
	}
}
