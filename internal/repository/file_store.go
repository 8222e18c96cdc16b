package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bassista/go_park/internal/logger"
	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 200 * time.Millisecond

// FileStore keeps every key in a single JSON object on disk.
// Each Set rewrites the whole file atomically (temp file + rename).
type FileStore struct {
	path string
	dir  string
	base string
	mu   sync.Mutex

	// lastWritten is the payload of our latest write, used to tell foreign writes apart.
	lastWritten []byte
}

// NewFileStore creates the data file with an empty object when it does not exist yet.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("data file path is required")
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)
	if dir == "" || dir == "." {
		dir = "."
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	store := &FileStore{path: path, dir: dir, base: base}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		store.lastWritten = []byte("{}")
		if err := os.WriteFile(path, store.lastWritten, 0o644); err != nil {
			return nil, fmt.Errorf("create data file: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat data file: %w", err)
	}

	return store, nil
}

// Path returns the data file location.
func (s *FileStore) Path() string {
	return s.path
}

// Get returns the value stored under key.
func (s *FileStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.readUnlocked()
	if err != nil {
		return "", false, err
	}
	value, ok := entries[key]
	return value, ok, nil
}

// Set overwrites the value stored under key, keeping the other keys.
func (s *FileStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.readUnlocked()
	if err != nil {
		return err
	}
	entries[key] = value
	return s.writeUnlocked(entries)
}

// Close is a no-op; the file is opened per operation.
func (s *FileStore) Close() error {
	return nil
}

// readUnlocked loads the key map (caller must hold the lock).
// A missing or corrupt file reads as an empty map so the next Set heals it.
func (s *FileStore) readUnlocked() (map[string]string, error) {
	payload, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read data file: %w", err)
	}

	entries := map[string]string{}
	if len(payload) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(payload, &entries); err != nil {
		logger.WithComponent("kv-file").Warnf("data file %s is corrupt, starting from an empty store: %v", s.path, err)
		return map[string]string{}, nil
	}
	return entries, nil
}

// writeUnlocked writes the key map atomically (caller must hold the lock).
func (s *FileStore) writeUnlocked(entries map[string]string) error {
	payload, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal data: %w", err)
	}

	tmpFile, err := os.CreateTemp(s.dir, s.base+".tmp-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
	}()

	if _, err := tmpFile.Write(payload); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpFile.Name(), s.path); err != nil {
		return fmt.Errorf("replace data file: %w", err)
	}
	s.lastWritten = payload
	return nil
}

// changedExternally reports whether the file content differs from our latest write.
func (s *FileStore) changedExternally() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := os.ReadFile(s.path)
	if err != nil {
		return !errors.Is(err, fs.ErrNotExist) || s.lastWritten != nil
	}
	return !bytes.Equal(payload, s.lastWritten)
}

// Watch reports writes to the data file made by someone else (another process
// sharing the file, a manual edit). Our own writes are recognised and skipped.
// It watches the parent directory so the temp+rename sequence is observed, filters
// events by basename and debounces bursts into a single onChange call.
// Cancel ctx to stop the goroutine and close the watcher.
func (s *FileStore) Watch(ctx context.Context, onChange func()) error {
	if onChange == nil {
		return errors.New("onChange callback is required")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch dir: %w", err)
	}

	go func() {
		defer watcher.Close()

		var debounce *time.Timer
		defer func() {
			if debounce != nil {
				debounce.Stop()
			}
		}()
		schedule := func() {
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, func() {
				if s.changedExternally() {
					onChange()
				}
			})
		}

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != s.base {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
					schedule()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.WithComponent("kv-file").Errorf("watcher error: %v", err)
			}
		}
	}()

	return nil
}
