package repository

import "context"

// Getter reads a named blob from the store. ok is false when the key is absent.
type Getter interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
}

// Setter overwrites a named blob; the last writer wins.
type Setter interface {
	Set(ctx context.Context, key, value string) error
}

// KVStore is the durable key-value store the dashboard state lives in.
// FileStore, SQLiteStore and MemoryStore implement this interface.
type KVStore interface {
	Getter
	Setter
	Close() error
}

// Watcher is implemented by backends that can report writes made by another
// process. onChange runs on the watcher goroutine after a short debounce.
type Watcher interface {
	Watch(ctx context.Context, onChange func()) error
}
