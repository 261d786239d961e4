package store

import (
	"fmt"

	"github.com/lepicodon/yamalert/pkg/config"
)

// Open builds the Storage selected by the configuration.
func Open(cfg config.StorageConfig) (Storage, error) {
	switch cfg.Backend {
	case "memory":
		return NewMemoryStorage(), nil
	case "sqlite", "":
		return NewSQLiteStorage(cfg.SQLite)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
