package state

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// KeyValue is a durable string store addressed by key.
type KeyValue interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// MemoryKV keeps values in a map. It is safe for concurrent use.
type MemoryKV struct {
	mu    sync.RWMutex
	store map[string]string
}

// NewMemoryKV constructs an empty in-memory key-value store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{store: make(map[string]string)}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", false, ErrKeyRequired
	}
	m.mu.RLock()
	value, ok := m.store[key]
	m.mu.RUnlock()
	return value, ok, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrKeyRequired
	}
	m.mu.Lock()
	m.store[key] = value
	m.mu.Unlock()
	return nil
}

// Keys lists stored keys sorted alphabetically.
func (m *MemoryKV) Keys() []string {
	m.mu.RLock()
	keys := make([]string, 0, len(m.store))
	for k := range m.store {
		keys = append(keys, k)
	}
	m.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// FileKV stores each key as one file under Dir. Writes go through a temp file
// and rename so readers never observe a partial value.
type FileKV struct {
	Dir string
}

// NewFileKV returns a FileKV rooted at dir, creating it when missing.
func NewFileKV(dir string) (*FileKV, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, fmt.Errorf("state: file kv directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("state: create %s: %w", dir, err)
	}
	return &FileKV{Dir: dir}, nil
}

// Path returns the file that backs key.
func (f *FileKV) Path(key string) string {
	return filepath.Join(f.Dir, url.PathEscape(strings.TrimSpace(key))+".json")
}

func (f *FileKV) Get(ctx context.Context, key string) (string, bool, error) {
	if strings.TrimSpace(key) == "" {
		return "", false, ErrKeyRequired
	}
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	raw, err := os.ReadFile(f.Path(key))
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("state: read %q: %w", key, err)
	}
	return string(raw), true, nil
}

func (f *FileKV) Set(ctx context.Context, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return ErrKeyRequired
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(f.Dir, ".kv-*")
	if err != nil {
		return fmt.Errorf("state: write %q: %w", key, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return fmt.Errorf("state: write %q: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("state: sync %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("state: close %q: %w", key, err)
	}
	if err := os.Rename(tmpName, f.Path(key)); err != nil {
		return fmt.Errorf("state: replace %q: %w", key, err)
	}
	return nil
}
