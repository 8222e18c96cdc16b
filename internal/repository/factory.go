package repository

import (
	"fmt"

	"github.com/bassista/go_park/internal/config"
)

// NewKVStoreFromConfig creates the KVStore selected by data.backend.
// "file" (default) keeps a JSON file, "sqlite" a SQLite database and "memory"
// keeps nothing across restarts.
func NewKVStoreFromConfig(cfg config.DataConfig) (KVStore, error) {
	switch cfg.Backend {
	case config.BackendFile, "":
		return NewFileStore(cfg.FilePath)
	case config.BackendSQLite:
		return NewSQLiteStore(cfg.SQLitePath)
	case config.BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown data backend: %s (supported: %s, %s, %s)",
			cfg.Backend, config.BackendFile, config.BackendSQLite, config.BackendMemory)
	}
}
