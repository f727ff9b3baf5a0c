package localstate

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore keeps each key in its own JSON file.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// fileEntry is the on-disk format of one key.
type fileEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// NewFileStore creates a file store in baseDir.
// If baseDir is empty, defaults to ~/.config/topicmaps/state/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		baseDir = dir
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// DefaultDir returns the default state directory.
func DefaultDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "topicmaps", "state"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "topicmaps", "state"), nil
}

func (s *FileStore) keyPath(key string) string {
	return filepath.Join(s.baseDir, url.PathEscape(key)+".json")
}

func (s *FileStore) Get(ctx context.Context, key string) (string, bool, error) {
	path := s.keyPath(key)

	s.mu.RLock()
	e, err := readEntry(path)
	s.mu.RUnlock()

	if stderrors.Is(err, errCorrupt) {
		s.dropCorrupt(path)
		return "", false, nil
	}
	if err != nil || e == nil {
		return "", false, err
	}
	return e.Value, true, nil
}

func (s *FileStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(fileEntry{Key: key, Value: value}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := os.WriteFile(s.keyPath(key), data, 0600); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.keyPath(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove state file: %w", err)
	}
	return nil
}

func (s *FileStore) All(ctx context.Context) (map[string]string, error) {
	out, corrupt, err := s.scan()
	for _, path := range corrupt {
		s.dropCorrupt(path)
	}
	return out, err
}

// scan reads every entry under the read lock and returns the paths of
// corrupt files separately.
func (s *FileStore) scan() (map[string]string, []string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, nil, fmt.Errorf("read state dir: %w", err)
	}
	out := make(map[string]string)
	var corrupt []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(s.baseDir, entry.Name())
		e, err := readEntry(path)
		if stderrors.Is(err, errCorrupt) {
			corrupt = append(corrupt, path)
			continue
		}
		if err != nil || e == nil {
			continue
		}
		out[e.Key] = e.Value
	}
	return out, corrupt, nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for state files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var errCorrupt = stderrors.New("corrupt state file")

// dropCorrupt removes path under the write lock if it still fails to parse.
func (s *FileStore) dropCorrupt(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := readEntry(path); stderrors.Is(err, errCorrupt) {
		_ = os.Remove(path)
	}
}

// readEntry returns nil for a missing file and errCorrupt for one that does
// not parse.
func readEntry(path string) (*fileEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}
	var e fileEntry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, errCorrupt
	}
	return &e, nil
}

var _ Store = (*FileStore)(nil)
